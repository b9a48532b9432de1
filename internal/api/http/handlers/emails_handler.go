package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const maxInboxResults = 100

// EmailsHandler exposes candidate email and the shared mailbox.
type EmailsHandler struct {
	emails *service.EmailService
}

// NewEmailsHandler constructs handler.
func NewEmailsHandler(emails *service.EmailService) *EmailsHandler {
	return &EmailsHandler{emails: emails}
}

// Send handles POST /emails/send. A failed delivery responds 502 with the recorded attempt.
func (h *EmailsHandler) Send(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.SendEmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	record, err := h.emails.SendToCandidate(c.UserContext(), actor, service.SendEmailInput{
		CandidateID: req.CandidateID,
		Template:    req.Template,
		Subject:     req.Subject,
		Body:        req.Body,
	})
	if err != nil {
		if record == nil {
			return err
		}
		de := apperrors.ToDomainError(err)
		return c.Status(de.HTTPStatus).JSON(fiber.Map{
			"error": fiber.Map{"code": de.Code, "message": de.Message, "details": de.Details},
			"data":  emailResponse(record),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": emailResponse(record)})
}

// ListSent handles GET /emails.
func (h *EmailsHandler) ListSent(c *fiber.Ctx) error {
	limit, offset := pagination(c)
	filter := repository.EmailFilter{
		CandidateID: optionalQuery(c, "candidate_id"),
		Limit:       limit,
		Offset:      offset,
	}
	if v := optionalQuery(c, "template"); v != nil {
		tpl := domain.EmailTemplate(*v)
		filter.Template = &tpl
	}
	if v := optionalQuery(c, "status"); v != nil {
		st := domain.EmailStatus(*v)
		filter.Status = &st
	}
	list, err := h.emails.ListSent(c.UserContext(), filter)
	if err != nil {
		return err
	}
	resp := make([]dto.EmailResponse, 0, len(list))
	for i := range list {
		resp = append(resp, emailResponse(&list[i]))
	}
	return listResponse(c, resp, limit, offset)
}

// Inbox handles GET /emails/inbox?q=&max=.
func (h *EmailsHandler) Inbox(c *fiber.Ctx) error {
	limit := parseInt(c.Query("max"), 20)
	if limit > maxInboxResults {
		limit = maxInboxResults
	}
	list, err := h.emails.ListInbox(c.UserContext(), c.Query("q"), int64(limit))
	if err != nil {
		return err
	}
	resp := make([]dto.InboxMessageResponse, 0, len(list))
	for i := range list {
		resp = append(resp, inboxResponse(&list[i], false))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// InboxMessage handles GET /emails/inbox/:id.
func (h *EmailsHandler) InboxMessage(c *fiber.Ctx) error {
	msg, err := h.emails.GetInboxMessage(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": inboxResponse(msg, true)})
}
