package reputation

import "pomona-backend/internal/pkg/apperr"

var (
	ErrNameLocationRequired = apperr.New(apperr.Validation, "Name and location are required")
	ErrInvalidEvidenceHash  = apperr.New(apperr.Validation, "Invalid evidence hash")
	ErrAlreadyRegistered    = apperr.New(apperr.StateConflict, "Farmer already registered")
	ErrFarmerNotFound       = apperr.New(apperr.NotFound, "Farmer not found")
	ErrScoreOutOfRange      = apperr.New(apperr.Validation, "Raw score must be between 0 and 100")
	ErrUnknownEventType     = apperr.New(apperr.Validation, "Unknown reputation event type")
)
