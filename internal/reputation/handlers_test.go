package reputation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"pomona-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlersTest(t *testing.T) (*fiber.App, *Service) {
	svc, _ := setupReputationTest(t)
	h := &Handlers{Service: svc}
	app := fiber.New()
	app.Post("/api/v1/farmers/register", h.RegisterFarmer)
	app.Post("/api/v1/reputation/record-event", h.RecordEvent)
	app.Get("/api/v1/farmers/:id", h.GetProfile)
	app.Get("/api/v1/farmers/:id/tier", h.GetTier)
	return app, svc
}

func TestRegisterFarmerHandler_Created(t *testing.T) {
	app, _ := setupHandlersTest(t)

	body, _ := json.Marshal(map[string]string{
		"name":          "Asha Mango Farm",
		"location":      "Ratnagiri",
		"evidence_hash": validHash,
	})
	req := httptest.NewRequest("POST", "/api/v1/farmers/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestRegisterFarmerHandler_Duplicate(t *testing.T) {
	app, _ := setupHandlersTest(t)

	body, _ := json.Marshal(map[string]string{
		"name":          "Asha",
		"location":      "Ratnagiri",
		"evidence_hash": validHash,
	})
	req := httptest.NewRequest("POST", "/api/v1/farmers/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/farmers/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRecordEventHandler_MissingFields(t *testing.T) {
	app, _ := setupHandlersTest(t)

	body, _ := json.Marshal(map[string]interface{}{"raw_score": 50})
	req := httptest.NewRequest("POST", "/api/v1/reputation/record-event", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetTierHandler(t *testing.T) {
	app, svc := setupHandlersTest(t)
	ctx := context.Background()
	profile, err := svc.RegisterFarmer(ctx, "Asha", "Ratnagiri", validHash)
	require.NoError(t, err)
	_, err = svc.RecordEvent(ctx, RecordEventInput{FarmerID: profile.ID, EventType: models.EventCertification, RawScore: 100})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/farmers/1/tier", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data Tier `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Silver", out.Data.Name)
}

func TestGetProfileHandler_InvalidID(t *testing.T) {
	app, _ := setupHandlersTest(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/farmers/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/farmers/99", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
