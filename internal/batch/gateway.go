package batch

import (
	"context"
	"strconv"
	"time"

	"pomona-backend/internal/certification"
	"pomona-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Default size limits. Authority-level batch certification gets the larger
// cap to match the natural batch size of certifying bodies, at the cost of a
// single-farmer constraint.
const (
	DefaultSizeLimit          = 100
	DefaultAuthoritySizeLimit = 200
)

// Gateway applies bulk variants of the certification operations. Every batch
// is one transaction: all per-item checks run against staged state and a
// single failure rolls the whole call back.
type Gateway struct {
	DB                 *gorm.DB
	Certs              *certification.Service
	Cooldown           Cooldown
	SizeLimit          int
	AuthoritySizeLimit int
}

func (g *Gateway) sizeLimit(caller certification.Caller) int {
	if caller.Role == models.RoleAuthority || caller.Role == models.RoleAdmin {
		if g.AuthoritySizeLimit > 0 {
			return g.AuthoritySizeLimit
		}
		return DefaultAuthoritySizeLimit
	}
	if g.SizeLimit > 0 {
		return g.SizeLimit
	}
	return DefaultSizeLimit
}

func (g *Gateway) checkSize(caller certification.Caller, n int) error {
	if n == 0 {
		return ErrEmptyBatch
	}
	if n > g.sizeLimit(caller) {
		return ErrBatchTooLarge
	}
	return nil
}

// run wraps a batch body with the cooldown reservation and the transaction.
// The reservation is released when the batch fails, so a rejected call does
// not consume the actor's window.
func (g *Gateway) run(ctx context.Context, caller certification.Caller, op string, n int, body func(tx *gorm.DB) error) error {
	if err := g.checkSize(caller, n); err != nil {
		return err
	}
	ok, remaining, err := g.Cooldown.Reserve(ctx, caller.ID)
	if err != nil {
		return err
	}
	if !ok {
		return throttleErr(remaining)
	}

	err = g.DB.WithContext(ctx).Transaction(body)
	if err != nil {
		if relErr := g.Cooldown.Release(ctx, caller.ID); relErr != nil {
			log.Warn().Err(relErr).Str("actor", caller.ID).Msg("Failed to release batch cooldown")
		}
		return err
	}
	log.Info().Str("actor", caller.ID).Str("op", op).Int("targets", n).Msg("Batch committed")
	return nil
}

// UploadInput shares one certificate's fields across many trees.
type UploadInput struct {
	TreeIDs               []uint
	CertType              string
	AuthorityName         string
	BaseCertificateNumber string
	IssueDate             time.Time
	ExpiryDate            time.Time
	DocumentHash          string
	SupportingDocsHash    string
}

// UploadCertificates certifies every tree under one base number; each
// certificate gets a per-tree suffix and shared batch provenance.
func (g *Gateway) UploadCertificates(ctx context.Context, caller certification.Caller, in UploadInput) ([]models.Certificate, error) {
	if in.BaseCertificateNumber == "" {
		return nil, ErrBaseNumberRequired
	}

	batchID := uuid.New().String()
	var certs []models.Certificate
	err := g.run(ctx, caller, "upload_certificates", len(in.TreeIDs), func(tx *gorm.DB) error {
		if err := g.checkSameOwnerForAuthority(ctx, tx, caller, in.TreeIDs); err != nil {
			return err
		}
		certs = certs[:0]
		for i, treeID := range in.TreeIDs {
			cert, err := g.Certs.UploadCertificateTx(ctx, tx, caller, certification.UploadInput{
				TreeID:             treeID,
				CertType:           in.CertType,
				AuthorityName:      in.AuthorityName,
				CertificateNumber:  in.BaseCertificateNumber + "-" + strconv.Itoa(i+1),
				IssueDate:          in.IssueDate,
				ExpiryDate:         in.ExpiryDate,
				DocumentHash:       in.DocumentHash,
				SupportingDocsHash: in.SupportingDocsHash,
				Provenance: &models.BatchProvenance{
					BatchID:    batchID,
					BaseNumber: in.BaseCertificateNumber,
					Index:      i + 1,
					Size:       len(in.TreeIDs),
				},
			})
			if err != nil {
				return err
			}
			certs = append(certs, *cert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

// StartTransitions opens an organic transition for every tree.
func (g *Gateway) StartTransitions(ctx context.Context, caller certification.Caller, treeIDs []uint, chemicalFreeStartDate time.Time, planHash string) ([]models.TransitionRecord, error) {
	var recs []models.TransitionRecord
	err := g.run(ctx, caller, "start_transitions", len(treeIDs), func(tx *gorm.DB) error {
		recs = recs[:0]
		for _, treeID := range treeIDs {
			rec, err := g.Certs.StartTransitionTx(ctx, tx, caller, certification.StartTransitionInput{
				TreeID:                treeID,
				ChemicalFreeStartDate: chemicalFreeStartDate,
				PlanHash:              planHash,
			})
			if err != nil {
				return err
			}
			recs = append(recs, *rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// LogPractices appends the same practice entry for every tree.
func (g *Gateway) LogPractices(ctx context.Context, caller certification.Caller, treeIDs []uint, practiceType, description, evidenceHash string) ([]models.PracticeLog, error) {
	var logs []models.PracticeLog
	err := g.run(ctx, caller, "log_practices", len(treeIDs), func(tx *gorm.DB) error {
		logs = logs[:0]
		for _, treeID := range treeIDs {
			entry, err := g.Certs.LogPracticeTx(ctx, tx, caller, certification.LogPracticeInput{
				TreeID:       treeID,
				PracticeType: practiceType,
				Description:  description,
				EvidenceHash: evidenceHash,
			})
			if err != nil {
				return err
			}
			logs = append(logs, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logs, nil
}

// VerifyCertificates verifies every certificate in one transaction.
func (g *Gateway) VerifyCertificates(ctx context.Context, caller certification.Caller, certIDs []uint) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := g.run(ctx, caller, "verify_certificates", len(certIDs), func(tx *gorm.DB) error {
		certs = certs[:0]
		for _, certID := range certIDs {
			cert, err := g.Certs.VerifyCertificateTx(tx, caller, certID)
			if err != nil {
				return err
			}
			certs = append(certs, *cert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

// RevokeCertificates revokes every certificate in one transaction.
func (g *Gateway) RevokeCertificates(ctx context.Context, caller certification.Caller, certIDs []uint, reason string) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := g.run(ctx, caller, "revoke_certificates", len(certIDs), func(tx *gorm.DB) error {
		certs = certs[:0]
		for _, certID := range certIDs {
			cert, err := g.Certs.RevokeCertificateTx(tx, caller, certID, reason)
			if err != nil {
				return err
			}
			certs = append(certs, *cert)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return certs, nil
}

// UpdateTransitionProgress applies the same adjustment to every transition.
func (g *Gateway) UpdateTransitionProgress(ctx context.Context, caller certification.Caller, transitionIDs []uint, adjustment float64, isIncrease bool) ([]models.TransitionRecord, error) {
	var recs []models.TransitionRecord
	err := g.run(ctx, caller, "update_transition_progress", len(transitionIDs), func(tx *gorm.DB) error {
		recs = recs[:0]
		for _, id := range transitionIDs {
			rec, err := g.Certs.UpdateProgressTx(tx, caller, id, adjustment, isIncrease)
			if err != nil {
				return err
			}
			recs = append(recs, *rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// checkSameOwnerForAuthority enforces the single-farmer constraint on
// authority-sized batches. Runs inside the batch transaction so the
// ownership snapshot is the one the batch commits against.
func (g *Gateway) checkSameOwnerForAuthority(ctx context.Context, tx *gorm.DB, caller certification.Caller, treeIDs []uint) error {
	if caller.Role != models.RoleAuthority && caller.Role != models.RoleAdmin {
		return nil
	}
	ids := g.Certs.IdentityOn(tx)
	var owner uint
	for i, treeID := range treeIDs {
		o, err := ids.TreeOwner(ctx, treeID)
		if err != nil {
			return err
		}
		if i == 0 {
			owner = o
		} else if o != owner {
			return ErrMixedOwnership
		}
	}
	return nil
}
