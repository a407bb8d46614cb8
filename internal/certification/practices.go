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

// LogPracticeInput for pathway C.
type LogPracticeInput struct {
	TreeID       uint
	PracticeType string
	Description  string
	EvidenceHash string
}

// LogPractice appends a practice log and credits the owner with a flat
// PracticeDocumented increment. Pure accumulation, no state machine.
func (s *Service) LogPractice(ctx context.Context, caller Caller, in LogPracticeInput) (*models.PracticeLog, error) {
	var log *models.PracticeLog
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := s.LogPracticeTx(ctx, tx, caller, in)
		if err != nil {
			return err
		}
		log = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// LogPracticeTx is the transactional body, reused by the batch gateway.
func (s *Service) LogPracticeTx(ctx context.Context, tx *gorm.DB, caller Caller, in LogPracticeInput) (*models.PracticeLog, error) {
	if in.PracticeType == "" || in.EvidenceHash == "" {
		return nil, ErrPracticeFieldsRequired
	}
	if !validation.IsValidEvidenceHash(in.EvidenceHash) {
		return nil, ErrInvalidEvidenceHash
	}
	owner, err := s.checkTreeOwnership(ctx, tx, caller, in.TreeID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	log := &models.PracticeLog{
		TreeID:       in.TreeID,
		FarmerID:     owner,
		LoggedAt:     now,
		PracticeType: in.PracticeType,
		Description:  in.Description,
		EvidenceHash: in.EvidenceHash,
	}
	if err := tx.Create(log).Error; err != nil {
		return nil, err
	}

	_, err = s.Reputation.RecordEventTx(tx, reputation.RecordEventInput{
		FarmerID:     owner,
		EventType:    models.EventPracticeDocumented,
		Description:  "Practice documented: " + in.PracticeType,
		Refs:         models.EventRefs{TreeID: in.TreeID, PracticeID: log.ID},
		EvidenceHash: in.EvidenceHash,
		OccurredAt:   now,
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// VerifyPractice marks a log as verifier-confirmed. Verified logs are the
// ones the trust score counts.
func (s *Service) VerifyPractice(ctx context.Context, caller Caller, practiceID uint) (*models.PracticeLog, error) {
	var log *models.PracticeLog
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var l models.PracticeLog
		if err := tx.First(&l, practiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPracticeNotFound
			}
			return err
		}
		if l.Verified {
			return ErrPracticeAlreadyVerified
		}
		l.Verified = true
		l.VerifiedBy = caller.ID
		if err := tx.Save(&l).Error; err != nil {
			return err
		}
		log = &l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

// PracticeLogsByTree is a pure read.
func (s *Service) PracticeLogsByTree(ctx context.Context, treeID uint) ([]models.PracticeLog, error) {
	var logs []models.PracticeLog
	err := s.DB.WithContext(ctx).Where("tree_id = ?", treeID).Order("id").Find(&logs).Error
	return logs, err
}
