package reputation

import (
	"strconv"

	"pomona-backend/internal/models"
	"pomona-backend/internal/pkg/apperr"
	"pomona-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

// RegisterFarmer POST /api/v1/farmers/register
func (h *Handlers) RegisterFarmer(c *fiber.Ctx) error {
	var body struct {
		Name         string `json:"name"`
		Location     string `json:"location"`
		EvidenceHash string `json:"evidence_hash"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Name and location are required", 400, nil)
	}

	profile, err := h.Service.RegisterFarmer(c.Context(), body.Name, body.Location, body.EvidenceHash)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.SuccessCreated(c, "Farmer registered", fiber.Map{
		"profile": profile,
		"tier":    TierFor(profile.ReputationScore),
	}, nil)
}

// RecordEvent POST /api/v1/reputation/record-event — verifier capability only
// (enforced by route middleware).
func (h *Handlers) RecordEvent(c *fiber.Ctx) error {
	var body struct {
		FarmerID     uint             `json:"farmer_id"`
		EventType    string           `json:"event_type"`
		RawScore     float64          `json:"raw_score"`
		Description  string           `json:"description"`
		Refs         models.EventRefs `json:"refs"`
		EvidenceHash string           `json:"evidence_hash"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "farmer_id and event_type are required", 400, nil)
	}
	if body.FarmerID == 0 || body.EventType == "" {
		return response.Error(c, "farmer_id and event_type are required", 400, nil)
	}

	profile, err := h.Service.RecordEvent(c.Context(), RecordEventInput{
		FarmerID:     body.FarmerID,
		EventType:    body.EventType,
		RawScore:     body.RawScore,
		Description:  body.Description,
		Refs:         body.Refs,
		EvidenceHash: body.EvidenceHash,
	})
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Reputation event recorded", fiber.Map{
		"reputation_score": profile.ReputationScore,
		"tier":             TierFor(profile.ReputationScore),
	}, nil)
}

// GetProfile GET /api/v1/farmers/:id
func (h *Handlers) GetProfile(c *fiber.Ctx) error {
	farmerID, err := parseFarmerID(c)
	if err != nil {
		return response.Error(c, "Invalid farmer id", 400, nil)
	}
	profile, err := h.Service.GetProfile(c.Context(), farmerID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Farmer profile", fiber.Map{
		"profile": profile,
		"tier":    TierFor(profile.ReputationScore),
	}, nil)
}

// GetTier GET /api/v1/farmers/:id/tier
func (h *Handlers) GetTier(c *fiber.Ctx) error {
	farmerID, err := parseFarmerID(c)
	if err != nil {
		return response.Error(c, "Invalid farmer id", 400, nil)
	}
	tier, err := h.Service.GetTier(c.Context(), farmerID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Farmer tier", tier, nil)
}

// GetEvents GET /api/v1/farmers/:id/events
func (h *Handlers) GetEvents(c *fiber.Ctx) error {
	farmerID, err := parseFarmerID(c)
	if err != nil {
		return response.Error(c, "Invalid farmer id", 400, nil)
	}
	events, err := h.Service.EventsByFarmer(c.Context(), farmerID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Reputation events", events, nil)
}

func parseFarmerID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}
