package certification

import (
	"context"
	"strings"
	"testing"
	"time"

	"pomona-backend/internal/authority"
	"pomona-backend/internal/identity"
	"pomona-backend/internal/models"
	"pomona-backend/internal/pkg/apperr"
	"pomona-backend/internal/reputation"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var validHash = "sha256:" + strings.Repeat("a", 64)

func setupCertTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.FarmerProfile{},
		&models.ReputationEvent{},
		&models.Certificate{},
		&models.TransitionRecord{},
		&models.PracticeLog{},
		&models.TreeRecord{},
	))
	svc := &Service{
		DB:          db,
		Identity:    &identity.GormStore{DB: db},
		Authorities: authority.NewRegistry(nil),
		Reputation:  &reputation.Service{DB: db},
	}
	return svc, db
}

func seedFarmer(t *testing.T, db *gorm.DB, name string) uint {
	now := time.Now()
	profile := models.FarmerProfile{
		Name:            name,
		Location:        "Ratnagiri",
		ReputationScore: 100,
		EvidenceHash:    validHash,
		RegisteredAt:    now,
		LastUpdatedAt:   now,
	}
	require.NoError(t, db.Create(&profile).Error)
	return profile.ID
}

func seedTree(t *testing.T, db *gorm.DB, ownerID uint, active bool) uint {
	tree := models.TreeRecord{
		OwnerFarmerID: ownerID,
		Variety:       "Alphonso",
		Active:        active,
		RegisteredAt:  time.Now(),
	}
	require.NoError(t, db.Create(&tree).Error)
	return tree.ID
}

func farmerCaller(farmerID uint) Caller {
	return Caller{ID: "user-farmer", Role: models.RoleFarmer, FarmerID: farmerID}
}

var verifierCaller = Caller{ID: "user-verifier", Role: models.RoleVerifier}

func uploadInput(treeID uint) UploadInput {
	return UploadInput{
		TreeID:            treeID,
		CertType:          models.CertTypeOrganic,
		AuthorityName:     "USDA",
		CertificateNumber: "USDA-2026-001",
		IssueDate:         time.Now().Add(-24 * time.Hour),
		ExpiryDate:        time.Now().Add(365 * 24 * time.Hour),
		DocumentHash:      validHash,
	}
}

func TestUploadCertificate_Pending(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)

	cert, err := svc.UploadCertificate(ctx, farmerCaller(farmerID), uploadInput(treeID))
	require.NoError(t, err)
	assert.Equal(t, models.CertStatusPending, cert.Status)
	assert.Equal(t, models.CertSourceSelfUploaded, cert.Source)
	assert.Equal(t, "usda-nop", cert.AuthorityID)
	assert.Equal(t, farmerID, cert.FarmerID)
	assert.True(t, cert.IsActive)
}

func TestUploadCertificate_UnknownAuthority(t *testing.T) {
	svc, db := setupCertTest(t)
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)

	in := uploadInput(treeID)
	in.AuthorityName = "Regional Cooperative"
	cert, err := svc.UploadCertificate(context.Background(), farmerCaller(farmerID), in)
	require.NoError(t, err)
	assert.Equal(t, authority.UnknownID, cert.AuthorityID)
}

func TestUploadCertificate_Validation(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)
	caller := farmerCaller(farmerID)

	in := uploadInput(treeID)
	in.CertType = ""
	_, err := svc.UploadCertificate(ctx, caller, in)
	assert.Equal(t, ErrCertFieldsRequired, err)

	in = uploadInput(treeID)
	in.ExpiryDate = in.IssueDate.Add(-time.Hour)
	_, err = svc.UploadCertificate(ctx, caller, in)
	assert.Equal(t, ErrExpiryBeforeIssue, err)

	in = uploadInput(treeID)
	in.DocumentHash = "zz"
	_, err = svc.UploadCertificate(ctx, caller, in)
	assert.Equal(t, ErrInvalidDocumentHash, err)
}

func TestUploadCertificate_Ownership(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	owner := seedFarmer(t, db, "Asha")
	other := seedFarmer(t, db, "Ravi")
	treeID := seedTree(t, db, owner, true)

	_, err := svc.UploadCertificate(ctx, farmerCaller(other), uploadInput(treeID))
	assert.Equal(t, ErrNotTreeOwner, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	inactive := seedTree(t, db, owner, false)
	_, err = svc.UploadCertificate(ctx, farmerCaller(owner), uploadInput(inactive))
	assert.Equal(t, ErrTreeInactive, err)

	_, err = svc.UploadCertificate(ctx, farmerCaller(owner), uploadInput(9999))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestRequestVerification_Flow(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)
	caller := farmerCaller(farmerID)

	cert, err := svc.UploadCertificate(ctx, caller, uploadInput(treeID))
	require.NoError(t, err)

	reviewed, err := svc.RequestVerification(ctx, caller, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CertStatusUnderReview, reviewed.Status)

	// Only Pending certificates can enter review.
	_, err = svc.RequestVerification(ctx, caller, cert.ID)
	assert.Equal(t, ErrNotPending, err)

	// A different farmer cannot request review of someone else's certificate.
	other := seedFarmer(t, db, "Ravi")
	cert2, err := svc.UploadCertificate(ctx, caller, uploadInput(treeID))
	require.NoError(t, err)
	_, err = svc.RequestVerification(ctx, farmerCaller(other), cert2.ID)
	assert.Equal(t, ErrNotTreeOwner, err)
}

func TestVerifyCertificate_CreditsOwner(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)

	cert, err := svc.UploadCertificate(ctx, farmerCaller(farmerID), uploadInput(treeID))
	require.NoError(t, err)

	verified, err := svc.VerifyCertificate(ctx, verifierCaller, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CertStatusVerified, verified.Status)
	assert.Equal(t, models.CertSourcePlatformVerified, verified.Source)
	assert.Equal(t, verifierCaller.ID, verified.VerifiedBy)
	require.NotNil(t, verified.VerificationDate)

	// Owner gains the full certification credit: 100 + 100×3.
	var profile models.FarmerProfile
	require.NoError(t, db.First(&profile, farmerID).Error)
	assert.InDelta(t, 400, profile.ReputationScore, 0.01)

	var event models.ReputationEvent
	require.NoError(t, db.Where("farmer_id = ?", farmerID).First(&event).Error)
	assert.Equal(t, models.EventCertification, event.EventType)

	// Verification is terminal for the review cycle.
	_, err = svc.VerifyCertificate(ctx, verifierCaller, cert.ID)
	assert.Equal(t, ErrCertificateSettled, err)
}

func TestVerifyCertificate_FromUnderReview(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)
	caller := farmerCaller(farmerID)

	cert, err := svc.UploadCertificate(ctx, caller, uploadInput(treeID))
	require.NoError(t, err)
	_, err = svc.RequestVerification(ctx, caller, cert.ID)
	require.NoError(t, err)

	verified, err := svc.VerifyCertificate(ctx, verifierCaller, cert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CertStatusVerified, verified.Status)
}

func TestVerifyCertificate_RequiresVerifierRole(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)
	caller := farmerCaller(farmerID)

	cert, err := svc.UploadCertificate(ctx, caller, uploadInput(treeID))
	require.NoError(t, err)

	// Owning the certificate grants no verification rights.
	_, err = svc.VerifyCertificate(ctx, caller, cert.ID)
	assert.Equal(t, ErrVerifierRequired, err)
	_, err = svc.RevokeCertificate(ctx, caller, cert.ID, "mine anyway")
	assert.Equal(t, ErrVerifierRequired, err)
	assert.Equal(t, apperr.Authorization, apperr.KindOf(err))

	var stored models.Certificate
	require.NoError(t, db.First(&stored, cert.ID).Error)
	assert.Equal(t, models.CertStatusPending, stored.Status)
	assert.True(t, stored.IsActive)
}

func TestRevokeCertificate_Terminal(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	treeID := seedTree(t, db, farmerID, true)

	cert, err := svc.UploadCertificate(ctx, farmerCaller(farmerID), uploadInput(treeID))
	require.NoError(t, err)

	revoked, err := svc.RevokeCertificate(ctx, verifierCaller, cert.ID, "forged document")
	require.NoError(t, err)
	assert.Equal(t, models.CertStatusRejected, revoked.Status)
	assert.False(t, revoked.IsActive)
	assert.Equal(t, "forged document", revoked.RevocationReason)

	// Nothing moves a revoked certificate.
	_, err = svc.VerifyCertificate(ctx, verifierCaller, cert.ID)
	assert.Equal(t, ErrCertificateInactive, err)
	_, err = svc.RevokeCertificate(ctx, verifierCaller, cert.ID, "again")
	assert.Equal(t, ErrCertificateInactive, err)
	_, err = svc.RequestVerification(ctx, farmerCaller(farmerID), cert.ID)
	assert.Equal(t, ErrCertificateInactive, err)
}

func TestCertificatesByFarmer(t *testing.T) {
	svc, db := setupCertTest(t)
	ctx := context.Background()
	farmerID := seedFarmer(t, db, "Asha")
	tree1 := seedTree(t, db, farmerID, true)
	tree2 := seedTree(t, db, farmerID, true)

	_, err := svc.UploadCertificate(ctx, farmerCaller(farmerID), uploadInput(tree1))
	require.NoError(t, err)
	_, err = svc.UploadCertificate(ctx, farmerCaller(farmerID), uploadInput(tree2))
	require.NoError(t, err)

	certs, err := svc.CertificatesByFarmer(ctx, farmerID)
	require.NoError(t, err)
	assert.Len(t, certs, 2)

	byTree, err := svc.CertificatesByTree(ctx, tree1)
	require.NoError(t, err)
	assert.Len(t, byTree, 1)
}
