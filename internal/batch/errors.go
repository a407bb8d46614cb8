package batch

import (
	"time"

	"pomona-backend/internal/pkg/apperr"
)

var (
	ErrEmptyBatch         = apperr.New(apperr.Validation, "Batch must contain at least one target")
	ErrBatchTooLarge      = apperr.New(apperr.Validation, "Batch exceeds the size limit")
	ErrMixedOwnership     = apperr.New(apperr.Validation, "Authority batches must target a single farmer's trees")
	ErrBaseNumberRequired = apperr.New(apperr.Validation, "base_certificate_number is required")
)

func throttleErr(remaining time.Duration) error {
	return apperr.Newf(apperr.Throttle, "Batch cooldown active; retry in %s", remaining.Round(time.Second))
}
