package service

import (
	"context"
	"strings"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const (
	minScore = 1
	maxScore = 5
)

// EvaluationService records interviewer assessments.
type EvaluationService struct {
	evaluations repository.EvaluationRepository
	interviews  repository.InterviewRepository
	dispatcher  events.Dispatcher
}

// EvaluationDependencies bundles collaborators for evaluation service.
type EvaluationDependencies struct {
	EvaluationRepo repository.EvaluationRepository
	InterviewRepo  repository.InterviewRepository
	Dispatcher     events.Dispatcher
}

// EvaluationInput is one evaluator's submission.
type EvaluationInput struct {
	Scores  []domain.CriterionScore
	Result  domain.EvaluationResult
	Comment string
}

// NewEvaluationService constructs the service.
func NewEvaluationService(deps EvaluationDependencies) *EvaluationService {
	return &EvaluationService{
		evaluations: deps.EvaluationRepo,
		interviews:  deps.InterviewRepo,
		dispatcher:  deps.Dispatcher,
	}
}

func validateEvaluation(input EvaluationInput) error {
	details := map[string]any{}
	if len(input.Scores) == 0 {
		details["scores"] = "at least one criterion is required"
	}
	for i, s := range input.Scores {
		if strings.TrimSpace(s.Criterion) == "" {
			details["scores"] = "criterion name is required"
			break
		}
		if s.Score < minScore || s.Score > maxScore {
			details["scores"] = map[string]any{"index": i, "error": "score must be between 1 and 5"}
			break
		}
	}
	if !input.Result.IsValid() {
		details["result"] = "must be one of Đạt, Không đạt, Cân nhắc"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Dữ liệu đánh giá không hợp lệ", details)
	}
	return nil
}

// Submit creates or replaces actor's evaluation for an interview.
func (s *EvaluationService) Submit(ctx context.Context, actor *domain.User, interviewID string, input EvaluationInput) (*domain.Evaluation, error) {
	if err := validateEvaluation(input); err != nil {
		return nil, err
	}
	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "lịch phỏng vấn", map[string]any{"interview_id": interviewID})
	}
	if !interview.HasInterviewer(actor.ID) && !actor.HasRole(domain.RoleHRManager, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("Chỉ người phỏng vấn được đánh giá ứng viên")
	}
	if interview.Status == domain.InterviewStatusCancelled {
		return nil, apperrors.NewConflict("Không thể đánh giá lịch phỏng vấn đã hủy", nil)
	}

	scores := make([]domain.CriterionScore, 0, len(input.Scores))
	for _, sc := range input.Scores {
		scores = append(scores, domain.CriterionScore{Criterion: strings.TrimSpace(sc.Criterion), Score: sc.Score})
	}
	evaluation := &domain.Evaluation{
		InterviewID:  interview.ID,
		CandidateID:  interview.CandidateID,
		EvaluatorID:  actor.ID,
		Scores:       scores,
		OverallScore: domain.AverageScore(scores),
		Result:       input.Result,
		Comment:      strings.TrimSpace(input.Comment),
	}
	if err := s.evaluations.Upsert(ctx, evaluation); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.New(events.EventEvaluationSubmitted, evaluation.ID, actor.ID,
		events.EvaluationSubmittedPayload{Evaluation: evaluation, Interview: interview}))
	return evaluation, nil
}

// canReadAllEvaluations covers the roles that review every candidate's scores.
func canReadAllEvaluations(actor *domain.User) bool {
	return actor.HasRole(domain.RoleHRManager, domain.RoleRecruiter, domain.RoleCEO, domain.RoleAdmin)
}

// ListByInterview returns evaluations of one interview to reviewers and its panel.
func (s *EvaluationService) ListByInterview(ctx context.Context, actor *domain.User, interviewID string) ([]domain.Evaluation, error) {
	interview, err := s.interviews.GetByID(ctx, interviewID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "lịch phỏng vấn", map[string]any{"interview_id": interviewID})
	}
	if !canReadAllEvaluations(actor) && !interview.HasInterviewer(actor.ID) {
		return nil, apperrors.NewForbidden("Bạn không có quyền xem đánh giá của buổi phỏng vấn này")
	}
	list, err := s.evaluations.ListByInterview(ctx, interviewID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListByCandidate returns evaluations across a candidate's interviews. Panel members only see
// evaluations of the interviews they sat on.
func (s *EvaluationService) ListByCandidate(ctx context.Context, actor *domain.User, candidateID string) ([]domain.Evaluation, error) {
	list, err := s.evaluations.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if canReadAllEvaluations(actor) {
		return list, nil
	}

	actorID := actor.ID
	sat, err := s.interviews.List(ctx, repository.InterviewFilter{CandidateID: &candidateID, InterviewerID: &actorID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(sat) == 0 {
		return nil, apperrors.NewForbidden("Bạn không có quyền xem đánh giá của ứng viên này")
	}
	panel := make(map[string]bool, len(sat))
	for _, i := range sat {
		panel[i.ID] = true
	}
	visible := list[:0]
	for _, e := range list {
		if panel[e.InterviewID] {
			visible = append(visible, e)
		}
	}
	return visible, nil
}
