package certification

import (
	"context"
	"errors"
	"time"

	"pomona-backend/internal/models"
	"pomona-backend/internal/pkg/validation"
	"pomona-backend/internal/reputation"

	"gorm.io/gorm"
)

// MaxChemicalFreeBackdate bounds how far in the past a transition may claim
// its chemical-free start.
const MaxChemicalFreeBackdate = 5 * 365 * 24 * time.Hour

// StartTransitionInput for pathway B.
type StartTransitionInput struct {
	TreeID                uint
	ChemicalFreeStartDate time.Time
	PlanHash              string
}

// StartTransition opens a 3-year organic-conversion record at trust 30.
func (s *Service) StartTransition(ctx context.Context, caller Caller, in StartTransitionInput) (*models.TransitionRecord, error) {
	var rec *models.TransitionRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.StartTransitionTx(ctx, tx, caller, in)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// StartTransitionTx is the transactional body, reused by the batch gateway.
func (s *Service) StartTransitionTx(ctx context.Context, tx *gorm.DB, caller Caller, in StartTransitionInput) (*models.TransitionRecord, error) {
	now := time.Now()
	if in.ChemicalFreeStartDate.After(now) {
		return nil, ErrStartDateInFuture
	}
	if in.ChemicalFreeStartDate.Before(now.Add(-MaxChemicalFreeBackdate)) {
		return nil, ErrStartDateTooOld
	}
	if !validation.IsValidEvidenceHash(in.PlanHash) {
		return nil, ErrInvalidPlanHash
	}
	owner, err := s.checkTreeOwnership(ctx, tx, caller, in.TreeID)
	if err != nil {
		return nil, err
	}

	// One open transition per tree.
	var open models.TransitionRecord
	err = tx.Where("tree_id = ? AND completed = ? AND cancelled = ?", in.TreeID, false, false).
		First(&open).Error
	if err == nil {
		return nil, ErrTransitionOpen
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rec := &models.TransitionRecord{
		TreeID:               in.TreeID,
		FarmerID:             owner,
		StartDate:            in.ChemicalFreeStartDate,
		TargetCompletionDate: in.ChemicalFreeStartDate.Add(models.TransitionPeriod),
		TrustScore:           models.TransitionInitialTrust,
		PlanHash:             in.PlanHash,
	}
	if err := tx.Create(rec).Error; err != nil {
		// The partial unique index backstops the pre-check under concurrency.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTransitionOpen
		}
		return nil, err
	}

	_, err = s.Reputation.RecordEventTx(tx, reputation.RecordEventInput{
		FarmerID:     owner,
		EventType:    models.EventTransitionStarted,
		Description:  "Organic transition started",
		Refs:         models.EventRefs{TreeID: in.TreeID, TransitionID: rec.ID},
		EvidenceHash: in.PlanHash,
		OccurredAt:   now,
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateProgress adjusts the transition trust score by ±adjustment, clamped to
// [0,100], and completes the record once elapsed ≥ period AND trust ≥ 70.
// Callable by the owning farmer or a verifier; rejected once terminal.
func (s *Service) UpdateProgress(ctx context.Context, caller Caller, transitionID uint, adjustment float64, isIncrease bool) (*models.TransitionRecord, error) {
	var rec *models.TransitionRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.UpdateProgressTx(tx, caller, transitionID, adjustment, isIncrease)
		if err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateProgressTx is the transactional body, reused by the batch gateway.
func (s *Service) UpdateProgressTx(tx *gorm.DB, caller Caller, transitionID uint, adjustment float64, isIncrease bool) (*models.TransitionRecord, error) {
	if adjustment <= 0 || adjustment > 100 {
		return nil, ErrAdjustmentInvalid
	}
	rec, err := s.loadTransition(tx, transitionID)
	if err != nil {
		return nil, err
	}
	if !caller.IsVerifier() && rec.FarmerID != caller.FarmerID {
		return nil, ErrNotTreeOwner
	}
	if rec.Completed || rec.Cancelled {
		return nil, ErrTransitionSettled
	}

	trust := rec.TrustScore
	if isIncrease {
		trust += adjustment
	} else {
		trust -= adjustment
	}
	if trust > 100 {
		trust = 100
	}
	if trust < 0 {
		trust = 0
	}
	rec.TrustScore = trust

	now := time.Now()
	if rec.Elapsed(now) >= models.TransitionPeriod && trust >= models.TransitionCompletionTrust {
		rec.Completed = true
		rec.CompletedAt = &now
	}
	if err := tx.Save(rec).Error; err != nil {
		return nil, err
	}

	if rec.Completed {
		_, err = s.Reputation.RecordEventTx(tx, reputation.RecordEventInput{
			FarmerID:     rec.FarmerID,
			EventType:    models.EventOrganicScore,
			RawScore:     rec.TrustScore,
			Description:  "Organic transition completed",
			Refs:         models.EventRefs{TreeID: rec.TreeID, TransitionID: rec.ID},
			EvidenceHash: rec.PlanHash,
			OccurredAt:   now,
		})
		if err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// CancelTransition tombstones a stalled or abandoned transition. Terminal;
// the record is preserved for audit, never deleted.
func (s *Service) CancelTransition(ctx context.Context, caller Caller, transitionID uint, reason string) (*models.TransitionRecord, error) {
	var rec *models.TransitionRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := s.loadTransition(tx, transitionID)
		if err != nil {
			return err
		}
		if !caller.IsVerifier() && r.FarmerID != caller.FarmerID {
			return ErrNotTreeOwner
		}
		if r.Completed || r.Cancelled {
			return ErrTransitionSettled
		}
		r.Cancelled = true
		r.CancelReason = reason
		if err := tx.Save(r).Error; err != nil {
			return err
		}
		rec = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) loadTransition(tx *gorm.DB, transitionID uint) (*models.TransitionRecord, error) {
	var rec models.TransitionRecord
	if err := tx.First(&rec, transitionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransitionNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// TransitionsByTree is a pure read.
func (s *Service) TransitionsByTree(ctx context.Context, treeID uint) ([]models.TransitionRecord, error) {
	var recs []models.TransitionRecord
	err := s.DB.WithContext(ctx).Where("tree_id = ?", treeID).Order("id").Find(&recs).Error
	return recs, err
}
