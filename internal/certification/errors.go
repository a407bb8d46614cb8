package certification

import "pomona-backend/internal/pkg/apperr"

var (
	ErrTreeRequired        = apperr.New(apperr.Validation, "tree_id is required")
	ErrTreeInactive        = apperr.New(apperr.Validation, "Tree is not active")
	ErrNotTreeOwner        = apperr.New(apperr.Authorization, "Caller does not own this tree")
	ErrVerifierRequired    = apperr.New(apperr.Authorization, "Caller may not verify or revoke certificates")
	ErrInvalidDocumentHash = apperr.New(apperr.Validation, "Invalid document hash")
	ErrInvalidEvidenceHash = apperr.New(apperr.Validation, "Invalid evidence hash")
	ErrInvalidPlanHash     = apperr.New(apperr.Validation, "Invalid plan hash")
	ErrCertFieldsRequired  = apperr.New(apperr.Validation, "cert_type, authority_name and certificate_number are required")
	ErrExpiryBeforeIssue   = apperr.New(apperr.Validation, "Expiry date must be after issue date")

	ErrCertificateNotFound = apperr.New(apperr.NotFound, "Certificate not found")
	ErrCertificateInactive = apperr.New(apperr.StateConflict, "Certificate has been revoked")
	ErrCertificateSettled  = apperr.New(apperr.StateConflict, "Certificate is not awaiting verification")
	ErrNotPending          = apperr.New(apperr.StateConflict, "Certificate is not pending")

	ErrStartDateInFuture  = apperr.New(apperr.Validation, "Chemical-free start date cannot be in the future")
	ErrStartDateTooOld    = apperr.New(apperr.Validation, "Chemical-free start date is implausibly old")
	ErrTransitionOpen     = apperr.New(apperr.StateConflict, "Tree already has a transition in progress")
	ErrTransitionNotFound = apperr.New(apperr.NotFound, "Transition not found")
	ErrTransitionSettled  = apperr.New(apperr.StateConflict, "Transition is already completed or cancelled")
	ErrAdjustmentInvalid  = apperr.New(apperr.Validation, "Adjustment must be between 0 and 100")

	ErrPracticeFieldsRequired  = apperr.New(apperr.Validation, "practice_type and evidence_hash are required")
	ErrPracticeNotFound        = apperr.New(apperr.NotFound, "Practice log not found")
	ErrPracticeAlreadyVerified = apperr.New(apperr.StateConflict, "Practice log already verified")
)
