package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/service"
)

// CalendarHandler exposes the caller's calendar.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

func calendarInput(req dto.CalendarEventRequest) service.CalendarEventInput {
	return service.CalendarEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Location:    req.Location,
	}
}

// List handles GET /calendar/events?from=&to=.
func (h *CalendarHandler) List(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	events, err := h.calendar.List(c.UserContext(), actor, parseTime(c.Query("from")), parseTime(c.Query("to")))
	if err != nil {
		return err
	}
	resp := make([]dto.CalendarEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, calendarEventResponse(&events[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create handles POST /calendar/events.
func (h *CalendarHandler) Create(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CalendarEventRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	event, err := h.calendar.Create(c.UserContext(), actor, calendarInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": calendarEventResponse(event)})
}

// Update handles PUT /calendar/events/:id.
func (h *CalendarHandler) Update(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CalendarEventRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	event, err := h.calendar.Update(c.UserContext(), actor, c.Params("id"), calendarInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": calendarEventResponse(event)})
}

// Delete handles DELETE /calendar/events/:id.
func (h *CalendarHandler) Delete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	if err := h.calendar.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
