package certification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pomona-backend/internal/authority"
	"pomona-backend/internal/identity"
	"pomona-backend/internal/models"
	"pomona-backend/internal/pkg/validation"
	"pomona-backend/internal/reputation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the certification registry: the three certification pathways and
// the per-tree trust score. Every mutation runs inside a transaction and
// emits its reputation effect on the same transaction.
type Service struct {
	DB          *gorm.DB
	Identity    identity.Store
	Authorities *authority.Registry
	Reputation  *reputation.Service
}

// Caller is the acting identity as services see it (decoupled from the HTTP
// session shape).
type Caller struct {
	ID       string
	Role     string
	FarmerID uint
}

// IsVerifier covers the trusted roles that may verify and revoke.
func (c Caller) IsVerifier() bool {
	return c.Role == models.RoleVerifier || c.Role == models.RoleAuthority || c.Role == models.RoleAdmin
}

// IdentityOn rescopes the identity reads onto the active transaction when the
// store supports it, so ownership checks see the same snapshot the mutation
// commits against.
func (s *Service) IdentityOn(tx *gorm.DB) identity.Store {
	if b, ok := s.Identity.(identity.TxBinder); ok {
		return b.BindTx(tx)
	}
	return s.Identity
}

// checkTreeOwnership validates the tree exists, is active, and is owned by the
// caller (verifier-class callers skip the owner match). Returns the owning
// farmer id. Reads run on the caller's transaction.
func (s *Service) checkTreeOwnership(ctx context.Context, tx *gorm.DB, caller Caller, treeID uint) (uint, error) {
	if treeID == 0 {
		return 0, ErrTreeRequired
	}
	ids := s.IdentityOn(tx)
	active, err := ids.IsTreeActive(ctx, treeID)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, ErrTreeInactive
	}
	owner, err := ids.TreeOwner(ctx, treeID)
	if err != nil {
		return 0, err
	}
	if !caller.IsVerifier() && owner != caller.FarmerID {
		return 0, ErrNotTreeOwner
	}
	return owner, nil
}

// UploadInput for pathway A (self-upload).
type UploadInput struct {
	TreeID             uint
	CertType           string
	AuthorityName      string
	CertificateNumber  string
	IssueDate          time.Time
	ExpiryDate         time.Time
	DocumentHash       string
	SupportingDocsHash string
	// Provenance is set by the batch gateway when many trees are certified
	// under one base number.
	Provenance *models.BatchProvenance
}

// UploadCertificate creates a Pending, self-uploaded certificate.
func (s *Service) UploadCertificate(ctx context.Context, caller Caller, in UploadInput) (*models.Certificate, error) {
	var cert *models.Certificate
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.UploadCertificateTx(ctx, tx, caller, in)
		if err != nil {
			return err
		}
		cert = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// UploadCertificateTx is the transactional body, reused by the batch gateway.
func (s *Service) UploadCertificateTx(ctx context.Context, tx *gorm.DB, caller Caller, in UploadInput) (*models.Certificate, error) {
	if in.CertType == "" || in.AuthorityName == "" || in.CertificateNumber == "" {
		return nil, ErrCertFieldsRequired
	}
	if !in.ExpiryDate.After(in.IssueDate) {
		return nil, ErrExpiryBeforeIssue
	}
	if !validation.IsValidEvidenceHash(in.DocumentHash) {
		return nil, ErrInvalidDocumentHash
	}
	if in.SupportingDocsHash != "" && !validation.IsValidEvidenceHash(in.SupportingDocsHash) {
		return nil, ErrInvalidDocumentHash
	}
	owner, err := s.checkTreeOwnership(ctx, tx, caller, in.TreeID)
	if err != nil {
		return nil, err
	}

	cert := &models.Certificate{
		TreeID:             in.TreeID,
		FarmerID:           owner,
		CertType:           in.CertType,
		Source:             models.CertSourceSelfUploaded,
		Status:             models.CertStatusPending,
		AuthorityName:      in.AuthorityName,
		AuthorityID:        s.Authorities.Resolve(in.AuthorityName),
		CertificateNumber:  in.CertificateNumber,
		IssueDate:          in.IssueDate,
		ExpiryDate:         in.ExpiryDate,
		DocumentHash:       in.DocumentHash,
		SupportingDocsHash: in.SupportingDocsHash,
		IsActive:           true,
	}
	if in.Provenance != nil {
		b, _ := json.Marshal(in.Provenance)
		cert.BatchProvenance = datatypes.JSON(b)
	}
	if err := tx.Create(cert).Error; err != nil {
		return nil, err
	}
	return cert, nil
}

// RequestVerification moves a Pending certificate to UnderReview. Owner only.
func (s *Service) RequestVerification(ctx context.Context, caller Caller, certID uint) (*models.Certificate, error) {
	var cert *models.Certificate
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.loadCertificate(tx, certID)
		if err != nil {
			return err
		}
		if !caller.IsVerifier() && c.FarmerID != caller.FarmerID {
			return ErrNotTreeOwner
		}
		if !c.IsActive {
			return ErrCertificateInactive
		}
		if c.Status != models.CertStatusPending {
			return ErrNotPending
		}
		c.Status = models.CertStatusUnderReview
		if err := tx.Save(c).Error; err != nil {
			return err
		}
		cert = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// VerifyCertificate moves a Pending or UnderReview certificate to Verified and
// credits the owner with a Certification event. Verifier-class callers only.
func (s *Service) VerifyCertificate(ctx context.Context, caller Caller, certID uint) (*models.Certificate, error) {
	var cert *models.Certificate
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.VerifyCertificateTx(tx, caller, certID)
		if err != nil {
			return err
		}
		cert = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// VerifyCertificateTx is the transactional body, reused by the batch gateway.
func (s *Service) VerifyCertificateTx(tx *gorm.DB, caller Caller, certID uint) (*models.Certificate, error) {
	if !caller.IsVerifier() {
		return nil, ErrVerifierRequired
	}
	c, err := s.loadCertificate(tx, certID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrCertificateInactive
	}
	if c.Status != models.CertStatusPending && c.Status != models.CertStatusUnderReview {
		return nil, ErrCertificateSettled
	}

	now := time.Now()
	c.Status = models.CertStatusVerified
	c.Source = models.CertSourcePlatformVerified
	c.VerifiedBy = caller.ID
	c.VerificationDate = &now
	if err := tx.Save(c).Error; err != nil {
		return nil, err
	}

	_, err = s.Reputation.RecordEventTx(tx, reputation.RecordEventInput{
		FarmerID:     c.FarmerID,
		EventType:    models.EventCertification,
		RawScore:     100,
		Description:  "Certificate " + c.CertificateNumber + " verified",
		Refs:         models.EventRefs{TreeID: c.TreeID, CertID: c.ID},
		EvidenceHash: c.DocumentHash,
		OccurredAt:   now,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RevokeCertificate tombstones a certificate: IsActive=false, status Rejected.
// Terminal from any prior status. Verifier-class callers only.
func (s *Service) RevokeCertificate(ctx context.Context, caller Caller, certID uint, reason string) (*models.Certificate, error) {
	var cert *models.Certificate
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := s.RevokeCertificateTx(tx, caller, certID, reason)
		if err != nil {
			return err
		}
		cert = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cert, nil
}

// RevokeCertificateTx is the transactional body, reused by the batch gateway.
func (s *Service) RevokeCertificateTx(tx *gorm.DB, caller Caller, certID uint, reason string) (*models.Certificate, error) {
	if !caller.IsVerifier() {
		return nil, ErrVerifierRequired
	}
	c, err := s.loadCertificate(tx, certID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrCertificateInactive
	}
	c.IsActive = false
	c.Status = models.CertStatusRejected
	c.RevocationReason = reason
	c.VerifiedBy = caller.ID
	if err := tx.Save(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) loadCertificate(tx *gorm.DB, certID uint) (*models.Certificate, error) {
	var c models.Certificate
	if err := tx.First(&c, certID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CertificatesByTree is a pure read.
func (s *Service) CertificatesByTree(ctx context.Context, treeID uint) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := s.DB.WithContext(ctx).Where("tree_id = ?", treeID).Order("id").Find(&certs).Error
	return certs, err
}

// CertificatesByFarmer is a pure read (secondary index farmer→certs).
func (s *Service) CertificatesByFarmer(ctx context.Context, farmerID uint) ([]models.Certificate, error) {
	var certs []models.Certificate
	err := s.DB.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("id").Find(&certs).Error
	return certs, err
}
