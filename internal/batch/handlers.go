package batch

import (
	"time"

	"pomona-backend/internal/certification"
	"pomona-backend/internal/middleware"
	"pomona-backend/internal/pkg/apperr"
	"pomona-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Gateway *Gateway
}

func callerFrom(c *fiber.Ctx) (certification.Caller, bool) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return certification.Caller{}, false
	}
	return certification.Caller{ID: actor.UserID, Role: actor.Role, FarmerID: actor.FarmerID}, true
}

// UploadCertificates POST /api/v1/batch/upload-certificates
func (h *Handlers) UploadCertificates(c *fiber.Ctx) error {
	var body struct {
		TreeIDs               []uint    `json:"tree_ids"`
		CertType              string    `json:"cert_type"`
		AuthorityName         string    `json:"authority_name"`
		BaseCertificateNumber string    `json:"base_certificate_number"`
		IssueDate             time.Time `json:"issue_date"`
		ExpiryDate            time.Time `json:"expiry_date"`
		DocumentHash          string    `json:"document_hash"`
		SupportingDocsHash    string    `json:"supporting_docs_hash"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.TreeIDs) == 0 {
		return response.Error(c, "tree_ids is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	certs, err := h.Gateway.UploadCertificates(c.Context(), caller, UploadInput{
		TreeIDs:               body.TreeIDs,
		CertType:              body.CertType,
		AuthorityName:         body.AuthorityName,
		BaseCertificateNumber: body.BaseCertificateNumber,
		IssueDate:             body.IssueDate,
		ExpiryDate:            body.ExpiryDate,
		DocumentHash:          body.DocumentHash,
		SupportingDocsHash:    body.SupportingDocsHash,
	})
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.SuccessCreated(c, "Certificates uploaded", certs, nil)
}

// StartTransitions POST /api/v1/batch/start-transitions
func (h *Handlers) StartTransitions(c *fiber.Ctx) error {
	var body struct {
		TreeIDs               []uint    `json:"tree_ids"`
		ChemicalFreeStartDate time.Time `json:"chemical_free_start_date"`
		PlanHash              string    `json:"plan_hash"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.TreeIDs) == 0 {
		return response.Error(c, "tree_ids is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	recs, err := h.Gateway.StartTransitions(c.Context(), caller, body.TreeIDs, body.ChemicalFreeStartDate, body.PlanHash)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.SuccessCreated(c, "Transitions started", recs, nil)
}

// LogPractices POST /api/v1/batch/log-practices
func (h *Handlers) LogPractices(c *fiber.Ctx) error {
	var body struct {
		TreeIDs      []uint `json:"tree_ids"`
		PracticeType string `json:"practice_type"`
		Description  string `json:"description"`
		EvidenceHash string `json:"evidence_hash"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.TreeIDs) == 0 {
		return response.Error(c, "tree_ids is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	logs, err := h.Gateway.LogPractices(c.Context(), caller, body.TreeIDs, body.PracticeType, body.Description, body.EvidenceHash)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.SuccessCreated(c, "Practices logged", logs, nil)
}

// VerifyCertificates POST /api/v1/batch/verify-certificates
func (h *Handlers) VerifyCertificates(c *fiber.Ctx) error {
	var body struct {
		CertIDs []uint `json:"cert_ids"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.CertIDs) == 0 {
		return response.Error(c, "cert_ids is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	certs, err := h.Gateway.VerifyCertificates(c.Context(), caller, body.CertIDs)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Certificates verified", certs, nil)
}

// RevokeCertificates POST /api/v1/batch/revoke-certificates
func (h *Handlers) RevokeCertificates(c *fiber.Ctx) error {
	var body struct {
		CertIDs []uint `json:"cert_ids"`
		Reason  string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.CertIDs) == 0 {
		return response.Error(c, "cert_ids is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	certs, err := h.Gateway.RevokeCertificates(c.Context(), caller, body.CertIDs, body.Reason)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Certificates revoked", certs, nil)
}

// UpdateTransitionProgress POST /api/v1/batch/update-transition-progress
func (h *Handlers) UpdateTransitionProgress(c *fiber.Ctx) error {
	var body struct {
		TransitionIDs []uint  `json:"transition_ids"`
		Adjustment    float64 `json:"adjustment"`
		IsIncrease    bool    `json:"is_increase"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.TransitionIDs) == 0 {
		return response.Error(c, "transition_ids is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	recs, err := h.Gateway.UpdateTransitionProgress(c.Context(), caller, body.TransitionIDs, body.Adjustment, body.IsIncrease)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Transitions updated", recs, nil)
}
