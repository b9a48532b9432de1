package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

// InterviewService schedules interviews and keeps calendars in sync.
type InterviewService struct {
	interviews repository.InterviewRepository
	candidates *CandidateService
	users      repository.UserRepository
	calendar   repository.CalendarRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// InterviewDependencies bundles collaborators for interview service.
type InterviewDependencies struct {
	InterviewRepo    repository.InterviewRepository
	CandidateService *CandidateService
	UserRepo         repository.UserRepository
	CalendarRepo     repository.CalendarRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// InterviewInput describes schedule and reschedule requests.
type InterviewInput struct {
	CandidateID    string
	Round          int
	Title          string
	StartTime      time.Time
	EndTime        time.Time
	Mode           domain.InterviewMode
	Location       string
	MeetingLink    string
	InterviewerIDs []string
	Note           string
}

// NewInterviewService constructs the service.
func NewInterviewService(deps InterviewDependencies) *InterviewService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{
		interviews: deps.InterviewRepo,
		candidates: deps.CandidateService,
		users:      deps.UserRepo,
		calendar:   deps.CalendarRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *InterviewService) validateInput(input *InterviewInput) error {
	details := map[string]any{}
	if input.Round == 0 {
		input.Round = 1
	}
	if input.Round != 1 && input.Round != 2 {
		details["round"] = "must be 1 or 2"
	}
	if input.Mode == "" {
		input.Mode = domain.InterviewModeOnline
	}
	if input.Mode != domain.InterviewModeOnline && input.Mode != domain.InterviewModeOffline {
		details["mode"] = "must be ONLINE or OFFLINE"
	}
	if input.StartTime.IsZero() {
		details["start_time"] = "required"
	} else if !input.StartTime.After(s.now()) {
		details["start_time"] = "must be in the future"
	}
	if !input.EndTime.After(input.StartTime) {
		details["end_time"] = "must be after start_time"
	}
	input.InterviewerIDs = uniqueStrings(input.InterviewerIDs)
	if len(input.InterviewerIDs) == 0 {
		details["interviewer_ids"] = "at least one interviewer is required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Dữ liệu lịch phỏng vấn không hợp lệ", details)
	}
	return nil
}

func (s *InterviewService) loadInterviewers(ctx context.Context, ids []string) ([]domain.User, error) {
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	found := make(map[string]domain.User, len(users))
	for _, u := range users {
		found[u.ID] = u
	}
	var missing, inactive []string
	ordered := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		u, ok := found[id]
		switch {
		case !ok:
			missing = append(missing, id)
		case !u.Active:
			inactive = append(inactive, id)
		default:
			ordered = append(ordered, u)
		}
	}
	if len(missing) > 0 || len(inactive) > 0 {
		return nil, apperrors.NewValidationError("Người phỏng vấn không hợp lệ",
			map[string]any{"missing": missing, "inactive": inactive})
	}
	return ordered, nil
}

// Schedule books an interview for an active candidate.
func (s *InterviewService) Schedule(ctx context.Context, actor *domain.User, input InterviewInput) (*domain.Interview, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền lên lịch phỏng vấn")
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	candidate, err := s.candidates.Get(ctx, input.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Status != domain.CandidateStatusActive {
		return nil, apperrors.NewConflict("Ứng viên không còn trong quá trình tuyển dụng",
			map[string]any{"status": candidate.Status})
	}
	interviewers, err := s.loadInterviewers(ctx, input.InterviewerIDs)
	if err != nil {
		return nil, err
	}

	interview := &domain.Interview{
		CandidateID:    candidate.ID,
		PositionID:     candidate.PositionID,
		Round:          input.Round,
		Title:          strings.TrimSpace(input.Title),
		StartTime:      input.StartTime.UTC(),
		EndTime:        input.EndTime.UTC(),
		Mode:           input.Mode,
		Location:       strings.TrimSpace(input.Location),
		MeetingLink:    strings.TrimSpace(input.MeetingLink),
		InterviewerIDs: input.InterviewerIDs,
		Status:         domain.InterviewStatusScheduled,
		Note:           strings.TrimSpace(input.Note),
		CreatedBy:      actor.ID,
	}
	if interview.Title == "" {
		interview.Title = fmt.Sprintf("Phỏng vấn vòng %d - %s", interview.Round, candidate.FullName)
	}
	if err := s.interviews.Create(ctx, interview); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.syncCalendar(ctx, interview)
	s.candidates.advanceToInterview(ctx, actor, candidate, interview.Round)

	publishEvent(ctx, s.dispatcher, events.New(events.EventInterviewScheduled, interview.ID, actor.ID,
		events.InterviewPayload{Interview: interview, Candidate: candidate, Interviewers: interviewers}))
	return interview, nil
}

// syncCalendar replaces the calendar entries of every interviewer for the interview.
func (s *InterviewService) syncCalendar(ctx context.Context, interview *domain.Interview) {
	if err := s.calendar.DeleteByInterview(ctx, interview.ID); err != nil {
		s.logger.Warn("unable to clear interview calendar events", zap.String("interview_id", interview.ID), zap.Error(err))
	}
	location := interview.Location
	if interview.Mode == domain.InterviewModeOnline && interview.MeetingLink != "" {
		location = interview.MeetingLink
	}
	for _, ownerID := range interview.InterviewerIDs {
		interviewID := interview.ID
		event := &domain.CalendarEvent{
			OwnerID:     ownerID,
			Title:       interview.Title,
			Description: interview.Note,
			StartTime:   interview.StartTime,
			EndTime:     interview.EndTime,
			Type:        domain.EventTypeInterview,
			InterviewID: &interviewID,
			Location:    location,
		}
		if err := s.calendar.Create(ctx, event); err != nil {
			s.logger.Warn("unable to create calendar event",
				zap.String("interview_id", interview.ID),
				zap.String("owner_id", ownerID),
				zap.Error(err),
			)
		}
	}
}

// Get returns an interview by id.
func (s *InterviewService) Get(ctx context.Context, id string) (*domain.Interview, error) {
	interview, err := s.interviews.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "lịch phỏng vấn", map[string]any{"interview_id": id})
	}
	return interview, nil
}

// List returns interviews; mine restricts to those where actor sits on the panel.
func (s *InterviewService) List(ctx context.Context, actor *domain.User, filter repository.InterviewFilter, mine bool) ([]domain.Interview, error) {
	if mine || !actor.HasRole(domain.RoleHRManager, domain.RoleRecruiter, domain.RoleAdmin, domain.RoleCEO) {
		id := actor.ID
		filter.InterviewerID = &id
	}
	list, err := s.interviews.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

func (s *InterviewService) getScheduled(ctx context.Context, actor *domain.User, id string) (*domain.Interview, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền cập nhật lịch phỏng vấn")
	}
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if interview.Status != domain.InterviewStatusScheduled {
		return nil, apperrors.NewConflict("Lịch phỏng vấn không còn ở trạng thái đã lên lịch",
			map[string]any{"status": interview.Status})
	}
	return interview, nil
}

// Reschedule moves an interview, optionally changing its panel. The reminder is re-armed.
func (s *InterviewService) Reschedule(ctx context.Context, actor *domain.User, id string, input InterviewInput) (*domain.Interview, error) {
	interview, err := s.getScheduled(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.Round == 0 {
		input.Round = interview.Round
	}
	if input.Mode == "" {
		input.Mode = interview.Mode
	}
	if len(input.InterviewerIDs) == 0 {
		input.InterviewerIDs = interview.InterviewerIDs
	}
	if err := s.validateInput(&input); err != nil {
		return nil, err
	}
	interviewers, err := s.loadInterviewers(ctx, input.InterviewerIDs)
	if err != nil {
		return nil, err
	}
	candidate, err := s.candidates.Get(ctx, interview.CandidateID)
	if err != nil {
		return nil, err
	}

	interview.Round = input.Round
	if title := strings.TrimSpace(input.Title); title != "" {
		interview.Title = title
	}
	interview.StartTime = input.StartTime.UTC()
	interview.EndTime = input.EndTime.UTC()
	interview.Mode = input.Mode
	if location := strings.TrimSpace(input.Location); location != "" {
		interview.Location = location
	}
	if link := strings.TrimSpace(input.MeetingLink); link != "" {
		interview.MeetingLink = link
	}
	interview.InterviewerIDs = input.InterviewerIDs
	if note := strings.TrimSpace(input.Note); note != "" {
		interview.Note = note
	}
	interview.ReminderSent = false
	if err := s.interviews.Update(ctx, interview); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.syncCalendar(ctx, interview)

	publishEvent(ctx, s.dispatcher, events.New(events.EventInterviewRescheduled, interview.ID, actor.ID,
		events.InterviewPayload{Interview: interview, Candidate: candidate, Interviewers: interviewers}))
	return interview, nil
}

// Cancel calls off a scheduled interview and clears its calendar entries.
func (s *InterviewService) Cancel(ctx context.Context, actor *domain.User, id, reason string) (*domain.Interview, error) {
	interview, err := s.getScheduled(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	interview.Status = domain.InterviewStatusCancelled
	if reason = strings.TrimSpace(reason); reason != "" {
		interview.Note = reason
	}
	if err := s.interviews.Update(ctx, interview); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.calendar.DeleteByInterview(ctx, interview.ID); err != nil {
		s.logger.Warn("unable to delete interview calendar events", zap.String("interview_id", interview.ID), zap.Error(err))
	}

	payload := events.InterviewPayload{Interview: interview}
	if candidate, err := s.candidates.Get(ctx, interview.CandidateID); err == nil {
		payload.Candidate = candidate
	}
	if users, err := s.users.ListByIDs(ctx, interview.InterviewerIDs); err == nil {
		payload.Interviewers = users
	}
	publishEvent(ctx, s.dispatcher, events.New(events.EventInterviewCancelled, interview.ID, actor.ID, payload))
	return interview, nil
}

// Complete marks an interview as held. Panel members may complete their own interviews.
func (s *InterviewService) Complete(ctx context.Context, actor *domain.User, id string) (*domain.Interview, error) {
	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManagePositions(actor) && !interview.HasInterviewer(actor.ID) {
		return nil, apperrors.NewForbidden("Bạn không có quyền cập nhật lịch phỏng vấn")
	}
	if interview.Status != domain.InterviewStatusScheduled {
		return nil, apperrors.NewConflict("Lịch phỏng vấn không còn ở trạng thái đã lên lịch",
			map[string]any{"status": interview.Status})
	}
	interview.Status = domain.InterviewStatusCompleted
	if err := s.interviews.Update(ctx, interview); err != nil {
		return nil, apperrors.MapError(err)
	}
	return interview, nil
}
