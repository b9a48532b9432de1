package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
)

// InterviewsHandler exposes interview and evaluation endpoints.
type InterviewsHandler struct {
	interviews  *service.InterviewService
	evaluations *service.EvaluationService
}

// NewInterviewsHandler constructs handler.
func NewInterviewsHandler(interviews *service.InterviewService, evaluations *service.EvaluationService) *InterviewsHandler {
	return &InterviewsHandler{interviews: interviews, evaluations: evaluations}
}

// Schedule handles POST /interviews.
func (h *InterviewsHandler) Schedule(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.InterviewRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	interview, err := h.interviews.Schedule(c.UserContext(), actor, service.InterviewInput{
		CandidateID:    req.CandidateID,
		Round:          req.Round,
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Mode:           req.Mode,
		Location:       req.Location,
		MeetingLink:    req.MeetingLink,
		InterviewerIDs: req.InterviewerIDs,
		Note:           req.Note,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": interviewResponse(interview)})
}

// List handles GET /interviews. ?mine=true limits to the caller's panels.
func (h *InterviewsHandler) List(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	limit, offset := pagination(c)
	filter := repository.InterviewFilter{
		CandidateID: optionalQuery(c, "candidate_id"),
		PositionID:  optionalQuery(c, "position_id"),
		From:        parseTime(c.Query("from")),
		To:          parseTime(c.Query("to")),
		Limit:       limit,
		Offset:      offset,
	}
	for _, s := range splitQuery(c, "status") {
		filter.Statuses = append(filter.Statuses, domain.InterviewStatus(s))
	}

	interviews, err := h.interviews.List(c.UserContext(), actor, filter, parseBoolQuery(c, "mine", false))
	if err != nil {
		return err
	}
	resp := make([]dto.InterviewResponse, 0, len(interviews))
	for i := range interviews {
		resp = append(resp, interviewResponse(&interviews[i]))
	}
	return listResponse(c, resp, limit, offset)
}

// Get handles GET /interviews/:id.
func (h *InterviewsHandler) Get(c *fiber.Ctx) error {
	interview, err := h.interviews.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": interviewResponse(interview)})
}

// Reschedule handles PUT /interviews/:id.
func (h *InterviewsHandler) Reschedule(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.RescheduleRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	interview, err := h.interviews.Reschedule(c.UserContext(), actor, c.Params("id"), service.InterviewInput{
		Round:          req.Round,
		Title:          req.Title,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Mode:           req.Mode,
		Location:       req.Location,
		MeetingLink:    req.MeetingLink,
		InterviewerIDs: req.InterviewerIDs,
		Note:           req.Note,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": interviewResponse(interview)})
}

// Cancel handles POST /interviews/:id/cancel.
func (h *InterviewsHandler) Cancel(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CancelInterviewRequest
	if len(c.Body()) > 0 {
		if err := bindJSON(c, &req); err != nil {
			return err
		}
	}
	interview, err := h.interviews.Cancel(c.UserContext(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": interviewResponse(interview)})
}

// Complete handles POST /interviews/:id/complete.
func (h *InterviewsHandler) Complete(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	interview, err := h.interviews.Complete(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": interviewResponse(interview)})
}

// SubmitEvaluation handles POST /interviews/:id/evaluations.
func (h *InterviewsHandler) SubmitEvaluation(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.EvaluationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	scores := make([]domain.CriterionScore, 0, len(req.Scores))
	for _, s := range req.Scores {
		scores = append(scores, domain.CriterionScore{Criterion: s.Criterion, Score: s.Score})
	}
	evaluation, err := h.evaluations.Submit(c.UserContext(), actor, c.Params("id"), service.EvaluationInput{
		Scores:  scores,
		Result:  req.Result,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": evaluationResponse(evaluation)})
}

// ListEvaluations handles GET /interviews/:id/evaluations.
func (h *InterviewsHandler) ListEvaluations(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.evaluations.ListByInterview(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": evaluationResponses(list)})
}

// ListCandidateEvaluations handles GET /candidates/:id/evaluations.
func (h *InterviewsHandler) ListCandidateEvaluations(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.evaluations.ListByCandidate(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": evaluationResponses(list)})
}
