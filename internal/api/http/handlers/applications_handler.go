package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
)

// ApplicationsHandler exposes recruitment request (YCTD) endpoints.
type ApplicationsHandler struct {
	applications *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applications *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications}
}

func applicationInput(req dto.ApplicationRequest) service.ApplicationInput {
	return service.ApplicationInput{
		Title:             req.Title,
		Department:        req.Department,
		Quantity:          req.Quantity,
		Reason:            req.Reason,
		Description:       req.Description,
		Requirements:      req.Requirements,
		SalaryMin:         req.SalaryMin,
		SalaryMax:         req.SalaryMax,
		ExpectedStartDate: req.ExpectedStartDate,
	}
}

// Create handles POST /applications.
func (h *ApplicationsHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ApplicationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	app, err := h.applications.Create(c.UserContext(), actor, applicationInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": applicationResponse(app)})
}

// List handles GET /applications.
func (h *ApplicationsHandler) List(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	filter := repository.ApplicationFilter{
		Department:  optionalQuery(c, "department"),
		SearchTerm:  optionalQuery(c, "q"),
		CreatedFrom: parseTime(c.Query("created_from")),
		CreatedTo:   parseTime(c.Query("created_to")),
		Limit:       limit,
		Offset:      offset,
	}
	for _, s := range splitQuery(c, "status") {
		filter.Statuses = append(filter.Statuses, domain.ApplicationStatus(s))
	}
	if parseBoolQuery(c, "mine", false) {
		filter.CreatedBy = &actor.ID
	}

	apps, err := h.applications.List(c.UserContext(), actor, filter)
	if err != nil {
		return err
	}
	resp := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		resp = append(resp, applicationResponse(&apps[i]))
	}
	return listResponse(c, resp, limit, offset)
}

// Get handles GET /applications/:id.
func (h *ApplicationsHandler) Get(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	app, err := h.applications.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(app)})
}

// Update handles PUT /applications/:id.
func (h *ApplicationsHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.ApplicationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	app, err := h.applications.Update(c.UserContext(), actor, c.Params("id"), applicationInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(app)})
}

// Delete handles DELETE /applications/:id.
func (h *ApplicationsHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.applications.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

type transitionFunc func(ctx context.Context, actor *domain.User, id, comment string) (*domain.Application, error)

func (h *ApplicationsHandler) transition(c *fiber.Ctx, fn transitionFunc) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.TransitionRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}
	app, err := fn(c.UserContext(), actor, c.Params("id"), req.Comment)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(app)})
}

// Submit handles POST /applications/:id/submit.
func (h *ApplicationsHandler) Submit(c *fiber.Ctx) error {
	return h.transition(c, h.applications.Submit)
}

// StartReview handles POST /applications/:id/review.
func (h *ApplicationsHandler) StartReview(c *fiber.Ctx) error {
	return h.transition(c, h.applications.StartReview)
}

// Approve handles POST /applications/:id/approve.
func (h *ApplicationsHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.applications.Approve)
}

// Reopen handles POST /applications/:id/reopen.
func (h *ApplicationsHandler) Reopen(c *fiber.Ctx) error {
	return h.transition(c, h.applications.Reopen)
}

// Reject handles POST /applications/:id/reject.
func (h *ApplicationsHandler) Reject(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RejectRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	app, err := h.applications.Reject(c.UserContext(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": applicationResponse(app)})
}

// History handles GET /applications/:id/history.
func (h *ApplicationsHandler) History(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	entries, err := h.applications.History(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(entries)})
}

// AddComment handles POST /applications/:id/comments.
func (h *ApplicationsHandler) AddComment(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	comment, err := h.applications.AddComment(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

// ListComments handles GET /applications/:id/comments.
func (h *ApplicationsHandler) ListComments(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	comments, err := h.applications.ListComments(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, commentResponse(&comments[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// DeleteComment handles DELETE /applications/:id/comments/:commentId.
func (h *ApplicationsHandler) DeleteComment(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.applications.DeleteComment(c.UserContext(), actor, c.Params("id"), c.Params("commentId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreatePosition handles POST /applications/:id/position.
func (h *ApplicationsHandler) CreatePosition(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.PositionRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}
	position, err := h.applications.CreatePosition(c.UserContext(), actor, c.Params("id"), positionInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": positionResponse(position)})
}
