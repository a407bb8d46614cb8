package certification

import (
	"strconv"
	"time"

	"pomona-backend/internal/middleware"
	"pomona-backend/internal/pkg/apperr"
	"pomona-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *Service
}

func callerFrom(c *fiber.Ctx) (Caller, bool) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return Caller{}, false
	}
	return Caller{ID: actor.UserID, Role: actor.Role, FarmerID: actor.FarmerID}, true
}

func parseTreeParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("tree_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// UploadCertificate POST /api/v1/certificates/upload
func (h *Handlers) UploadCertificate(c *fiber.Ctx) error {
	var body struct {
		TreeID             uint      `json:"tree_id"`
		CertType           string    `json:"cert_type"`
		AuthorityName      string    `json:"authority_name"`
		CertificateNumber  string    `json:"certificate_number"`
		IssueDate          time.Time `json:"issue_date"`
		ExpiryDate         time.Time `json:"expiry_date"`
		DocumentHash       string    `json:"document_hash"`
		SupportingDocsHash string    `json:"supporting_docs_hash"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	cert, err := h.Service.UploadCertificate(c.Context(), caller, UploadInput{
		TreeID:             body.TreeID,
		CertType:           body.CertType,
		AuthorityName:      body.AuthorityName,
		CertificateNumber:  body.CertificateNumber,
		IssueDate:          body.IssueDate,
		ExpiryDate:         body.ExpiryDate,
		DocumentHash:       body.DocumentHash,
		SupportingDocsHash: body.SupportingDocsHash,
	})
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.SuccessCreated(c, "Certificate uploaded", cert, nil)
}

// RequestVerification POST /api/v1/certificates/request-verification
func (h *Handlers) RequestVerification(c *fiber.Ctx) error {
	var body struct {
		CertID uint `json:"cert_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.CertID == 0 {
		return response.Error(c, "cert_id is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	cert, err := h.Service.RequestVerification(c.Context(), caller, body.CertID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Verification requested", cert, nil)
}

// VerifyCertificate POST /api/v1/certificates/verify
func (h *Handlers) VerifyCertificate(c *fiber.Ctx) error {
	var body struct {
		CertID uint `json:"cert_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.CertID == 0 {
		return response.Error(c, "cert_id is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	cert, err := h.Service.VerifyCertificate(c.Context(), caller, body.CertID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Certificate verified", cert, nil)
}

// RevokeCertificate POST /api/v1/certificates/revoke
func (h *Handlers) RevokeCertificate(c *fiber.Ctx) error {
	var body struct {
		CertID uint   `json:"cert_id"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil || body.CertID == 0 {
		return response.Error(c, "cert_id is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	cert, err := h.Service.RevokeCertificate(c.Context(), caller, body.CertID, body.Reason)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Certificate revoked", cert, nil)
}

// CertificatesByTree GET /api/v1/certificates/by-tree/:tree_id
func (h *Handlers) CertificatesByTree(c *fiber.Ctx) error {
	treeID, err := parseTreeParam(c)
	if err != nil {
		return response.Error(c, "Invalid tree id", 400, nil)
	}
	certs, err := h.Service.CertificatesByTree(c.Context(), treeID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Certificates", certs, nil)
}

// StartTransition POST /api/v1/transitions/start
func (h *Handlers) StartTransition(c *fiber.Ctx) error {
	var body struct {
		TreeID                uint      `json:"tree_id"`
		ChemicalFreeStartDate time.Time `json:"chemical_free_start_date"`
		PlanHash              string    `json:"plan_hash"`
	}
	if err := c.BodyParser(&body); err != nil || body.TreeID == 0 {
		return response.Error(c, "tree_id and chemical_free_start_date are required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	rec, err := h.Service.StartTransition(c.Context(), caller, StartTransitionInput{
		TreeID:                body.TreeID,
		ChemicalFreeStartDate: body.ChemicalFreeStartDate,
		PlanHash:              body.PlanHash,
	})
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.SuccessCreated(c, "Transition started", rec, nil)
}

// UpdateProgress POST /api/v1/transitions/update-progress
func (h *Handlers) UpdateProgress(c *fiber.Ctx) error {
	var body struct {
		TransitionID uint    `json:"transition_id"`
		Adjustment   float64 `json:"adjustment"`
		IsIncrease   bool    `json:"is_increase"`
	}
	if err := c.BodyParser(&body); err != nil || body.TransitionID == 0 {
		return response.Error(c, "transition_id and adjustment are required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	rec, err := h.Service.UpdateProgress(c.Context(), caller, body.TransitionID, body.Adjustment, body.IsIncrease)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Transition updated", rec, nil)
}

// CancelTransition POST /api/v1/transitions/cancel
func (h *Handlers) CancelTransition(c *fiber.Ctx) error {
	var body struct {
		TransitionID uint   `json:"transition_id"`
		Reason       string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil || body.TransitionID == 0 {
		return response.Error(c, "transition_id is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	rec, err := h.Service.CancelTransition(c.Context(), caller, body.TransitionID, body.Reason)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Transition cancelled", rec, nil)
}

// TransitionsByTree GET /api/v1/transitions/by-tree/:tree_id
func (h *Handlers) TransitionsByTree(c *fiber.Ctx) error {
	treeID, err := parseTreeParam(c)
	if err != nil {
		return response.Error(c, "Invalid tree id", 400, nil)
	}
	recs, err := h.Service.TransitionsByTree(c.Context(), treeID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Transitions", recs, nil)
}

// LogPractice POST /api/v1/practices/log
func (h *Handlers) LogPractice(c *fiber.Ctx) error {
	var body struct {
		TreeID       uint   `json:"tree_id"`
		PracticeType string `json:"practice_type"`
		Description  string `json:"description"`
		EvidenceHash string `json:"evidence_hash"`
	}
	if err := c.BodyParser(&body); err != nil || body.TreeID == 0 {
		return response.Error(c, "tree_id, practice_type and evidence_hash are required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	log, err := h.Service.LogPractice(c.Context(), caller, LogPracticeInput{
		TreeID:       body.TreeID,
		PracticeType: body.PracticeType,
		Description:  body.Description,
		EvidenceHash: body.EvidenceHash,
	})
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.SuccessCreated(c, "Practice logged", log, nil)
}

// VerifyPractice POST /api/v1/practices/verify
func (h *Handlers) VerifyPractice(c *fiber.Ctx) error {
	var body struct {
		PracticeID uint `json:"practice_id"`
	}
	if err := c.BodyParser(&body); err != nil || body.PracticeID == 0 {
		return response.Error(c, "practice_id is required", 400, nil)
	}
	caller, ok := callerFrom(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	log, err := h.Service.VerifyPractice(c.Context(), caller, body.PracticeID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Practice verified", log, nil)
}

// PracticeLogsByTree GET /api/v1/practices/by-tree/:tree_id
func (h *Handlers) PracticeLogsByTree(c *fiber.Ctx) error {
	treeID, err := parseTreeParam(c)
	if err != nil {
		return response.Error(c, "Invalid tree id", 400, nil)
	}
	logs, err := h.Service.PracticeLogsByTree(c.Context(), treeID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Practice logs", logs, nil)
}

// CertificatesByFarmer GET /api/v1/farmers/:id/certificates
func (h *Handlers) CertificatesByFarmer(c *fiber.Ctx) error {
	farmerID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || farmerID == 0 {
		return response.Error(c, "Invalid farmer id", 400, nil)
	}
	certs, err := h.Service.CertificatesByFarmer(c.Context(), uint(farmerID))
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Certificates", certs, nil)
}

// FarmerTrees GET /api/v1/farmers/:id/trees
func (h *Handlers) FarmerTrees(c *fiber.Ctx) error {
	farmerID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || farmerID == 0 {
		return response.Error(c, "Invalid farmer id", 400, nil)
	}
	trees, err := h.Service.Identity.FarmerTrees(c.Context(), uint(farmerID))
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Farmer trees", trees, nil)
}

// TrustScore GET /api/v1/trust/score/:tree_id
func (h *Handlers) TrustScore(c *fiber.Ctx) error {
	treeID, err := parseTreeParam(c)
	if err != nil {
		return response.Error(c, "Invalid tree id", 400, nil)
	}
	b, err := h.Service.CalculateTrustScore(c.Context(), treeID)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Trust score", b, nil)
}

// BatchTrustScores POST /api/v1/trust/batch-scores
func (h *Handlers) BatchTrustScores(c *fiber.Ctx) error {
	var body struct {
		TreeIDs []uint `json:"tree_ids"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.TreeIDs) == 0 {
		return response.Error(c, "tree_ids is required", 400, nil)
	}
	scores, err := h.Service.BatchCalculateTrustScores(c.Context(), body.TreeIDs)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Trust scores", scores, nil)
}

// BatchOrganicCheck POST /api/v1/trust/batch-organic-check
func (h *Handlers) BatchOrganicCheck(c *fiber.Ctx) error {
	var body struct {
		TreeIDs []uint `json:"tree_ids"`
	}
	if err := c.BodyParser(&body); err != nil || len(body.TreeIDs) == 0 {
		return response.Error(c, "tree_ids is required", 400, nil)
	}
	result, err := h.Service.BatchHasValidOrganicCertification(c.Context(), body.TreeIDs)
	if err != nil {
		return response.Error(c, err.Error(), apperr.StatusCode(err), nil)
	}
	return response.Success(c, "Organic certification status", result, nil)
}
