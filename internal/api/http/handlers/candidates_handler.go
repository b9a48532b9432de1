package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CandidatesHandler exposes candidate endpoints.
type CandidatesHandler struct {
	candidates *service.CandidateService
}

// NewCandidatesHandler constructs handler.
func NewCandidatesHandler(candidates *service.CandidateService) *CandidatesHandler {
	return &CandidatesHandler{candidates: candidates}
}

func candidateInput(req dto.CandidateRequest) service.CandidateInput {
	return service.CandidateInput{
		PositionID: req.PositionID,
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     req.Source,
		Notes:      req.Notes,
		AppliedAt:  req.AppliedAt,
	}
}

func parseCandidateFilter(c *fiber.Ctx) repository.CandidateFilter {
	limit, offset := pagination(c)
	filter := repository.CandidateFilter{
		PositionID: optionalQuery(c, "position_id"),
		SearchTerm: optionalQuery(c, "q"),
		Limit:      limit,
		Offset:     offset,
	}
	for _, s := range splitQuery(c, "stage") {
		filter.Stages = append(filter.Stages, domain.Stage(s))
	}
	if status := optionalQuery(c, "status"); status != nil {
		st := domain.CandidateStatus(*status)
		filter.Status = &st
	}
	return filter
}

// Create handles POST /candidates.
func (h *CandidatesHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CandidateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	candidate, err := h.candidates.Create(c.UserContext(), actor, candidateInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// List handles GET /candidates.
func (h *CandidatesHandler) List(c *fiber.Ctx) error {
	filter := parseCandidateFilter(c)
	candidates, err := h.candidates.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.CandidateResponse, 0, len(candidates))
	for i := range candidates {
		resp = append(resp, candidateResponse(&candidates[i]))
	}
	return listResponse(c, resp, filter.Limit, filter.Offset)
}

// Get handles GET /candidates/:id.
func (h *CandidatesHandler) Get(c *fiber.Ctx) error {
	candidate, err := h.candidates.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Update handles PUT /candidates/:id.
func (h *CandidatesHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CandidateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	candidate, err := h.candidates.Update(c.UserContext(), actor, c.Params("id"), candidateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// UpdateStatus handles PATCH /candidates/:id/status.
func (h *CandidatesHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.StageRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	candidate, err := h.candidates.UpdateStatus(c.UserContext(), actor, c.Params("id"), req.Stage)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// Delete handles DELETE /candidates/:id.
func (h *CandidatesHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.candidates.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadCV handles POST /candidates/:id/cv as multipart form field "file".
func (h *CandidatesHandler) UploadCV(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("Thiếu tệp CV", map[string]any{"field": "file"})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewValidationError("Không đọc được tệp CV", nil)
	}
	defer file.Close()

	candidate, err := h.candidates.UploadCV(c.UserContext(), actor, c.Params("id"), header.Filename, file)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidateResponse(candidate)})
}

// PreviewCV handles GET /candidates/:id/cv/preview.
func (h *CandidatesHandler) PreviewCV(c *fiber.Ctx) error {
	url, err := h.candidates.CVPreview(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"preview_url": url}})
}

// Export handles GET /candidates/export.
func (h *CandidatesHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.candidates.Export(c.UserContext(), parseCandidateFilter(c), &buf); err != nil {
		return err
	}
	c.Attachment(fmt.Sprintf("ung_vien_%s.xlsx", time.Now().Format("20060102")))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
