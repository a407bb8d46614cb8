package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, fiber.StatusBadRequest, StatusCode(New(Validation, "bad")))
	assert.Equal(t, fiber.StatusNotFound, StatusCode(New(NotFound, "missing")))
	assert.Equal(t, fiber.StatusForbidden, StatusCode(New(Authorization, "no")))
	assert.Equal(t, fiber.StatusConflict, StatusCode(New(StateConflict, "settled")))
	assert.Equal(t, fiber.StatusTooManyRequests, StatusCode(New(Throttle, "wait")))
	assert.Equal(t, fiber.StatusInternalServerError, StatusCode(errors.New("plain")))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", New(NotFound, "missing"))
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestNewf(t *testing.T) {
	err := Newf(Throttle, "retry in %ds", 30)
	assert.Equal(t, "retry in 30s", err.Error())
	assert.Equal(t, Throttle, err.Kind)
}
