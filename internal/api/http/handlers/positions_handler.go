package handlers

import (
	"bytes"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// PositionsHandler exposes position endpoints.
type PositionsHandler struct {
	positions *service.PositionService
}

// NewPositionsHandler constructs handler.
func NewPositionsHandler(positions *service.PositionService) *PositionsHandler {
	return &PositionsHandler{positions: positions}
}

func positionInput(req dto.PositionRequest) service.PositionInput {
	return service.PositionInput{
		Title:          req.Title,
		Department:     req.Department,
		Level:          req.Level,
		EmploymentType: req.EmploymentType,
		Location:       req.Location,
		Quantity:       req.Quantity,
		SalaryRange:    req.SalaryRange,
		Description:    req.Description,
		Requirements:   req.Requirements,
		Benefits:       req.Benefits,
		Deadline:       req.Deadline,
	}
}

// Create handles POST /positions.
func (h *PositionsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.PositionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	position, err := h.positions.Create(c.UserContext(), actor, positionInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": positionResponse(position)})
}

// List handles GET /positions.
func (h *PositionsHandler) List(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.PositionFilter{
		Department: optionalQuery(c, "department"),
		SearchTerm: optionalQuery(c, "q"),
		Limit:      limit,
		Offset:     offset,
	}
	for _, s := range splitQuery(c, "status") {
		filter.Statuses = append(filter.Statuses, domain.PositionStatus(s))
	}
	positions, err := h.positions.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.PositionResponse, 0, len(positions))
	for i := range positions {
		resp = append(resp, positionResponse(&positions[i]))
	}
	return listResponse(c, resp, limit, offset)
}

// Get handles GET /positions/:id.
func (h *PositionsHandler) Get(c *fiber.Ctx) error {
	position, err := h.positions.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": positionResponse(position)})
}

// Update handles PUT /positions/:id.
func (h *PositionsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.PositionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	position, err := h.positions.Update(c.UserContext(), actor, c.Params("id"), positionInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": positionResponse(position)})
}

// Close handles POST /positions/:id/close.
func (h *PositionsHandler) Close(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	position, err := h.positions.Close(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": positionResponse(position)})
}

// Reopen handles POST /positions/:id/reopen.
func (h *PositionsHandler) Reopen(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	position, err := h.positions.Reopen(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": positionResponse(position)})
}

// Delete handles DELETE /positions/:id.
func (h *PositionsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.positions.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// DownloadJD handles GET /positions/:id/jd.
func (h *PositionsHandler) DownloadJD(c *fiber.Ctx) error {
	var buf bytes.Buffer
	filename, err := h.positions.RenderJD(c.UserContext(), c.Params("id"), &buf)
	if err != nil {
		return err
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, docxContentType)
	return c.Send(buf.Bytes())
}
