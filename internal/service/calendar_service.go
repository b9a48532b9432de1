package service

import (
	"context"
	"strings"
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const (
	defaultCalendarWindow = 30 * 24 * time.Hour
	maxCalendarRange      = 366 * 24 * time.Hour
)

// CalendarService manages a user's own calendar entries.
type CalendarService struct {
	events repository.CalendarRepository
	now    func() time.Time
}

// CalendarEventInput describes a personal calendar entry.
type CalendarEventInput struct {
	Title       string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Type        domain.EventType
	Location    string
}

// NewCalendarService constructs the service.
func NewCalendarService(repo repository.CalendarRepository) *CalendarService {
	return &CalendarService{events: repo, now: time.Now}
}

// List returns actor's events overlapping [from, to]. Missing bounds default to 30 days
// either side of now.
func (s *CalendarService) List(ctx context.Context, actor *domain.User, from, to *time.Time) ([]domain.CalendarEvent, error) {
	now := s.now().UTC()
	start := now.Add(-defaultCalendarWindow)
	end := now.Add(defaultCalendarWindow)
	if from != nil {
		start = from.UTC()
	}
	if to != nil {
		end = to.UTC()
	}
	if !end.After(start) {
		return nil, apperrors.NewValidationError("Khoảng thời gian không hợp lệ", map[string]any{"to": "must be after from"})
	}
	if end.Sub(start) > maxCalendarRange {
		return nil, apperrors.NewValidationError("Khoảng thời gian tối đa là 366 ngày", nil)
	}
	list, err := s.events.ListByOwner(ctx, actor.ID, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

func validateCalendarInput(input *CalendarEventInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "required"
	}
	if input.StartTime.IsZero() {
		details["start_time"] = "required"
	}
	if !input.EndTime.After(input.StartTime) {
		details["end_time"] = "must be after start_time"
	}
	if input.Type == "" {
		input.Type = domain.EventTypeMeeting
	}
	if input.Type != domain.EventTypeMeeting && input.Type != domain.EventTypeOther {
		details["type"] = "must be MEETING or OTHER"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Dữ liệu sự kiện không hợp lệ", details)
	}
	return nil
}

// Create adds a personal event for actor.
func (s *CalendarService) Create(ctx context.Context, actor *domain.User, input CalendarEventInput) (*domain.CalendarEvent, error) {
	if err := validateCalendarInput(&input); err != nil {
		return nil, err
	}
	event := &domain.CalendarEvent{OwnerID: actor.ID}
	applyCalendarInput(event, input)
	if err := s.events.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	return event, nil
}

func applyCalendarInput(event *domain.CalendarEvent, input CalendarEventInput) {
	event.Title = strings.TrimSpace(input.Title)
	event.Description = strings.TrimSpace(input.Description)
	event.StartTime = input.StartTime.UTC()
	event.EndTime = input.EndTime.UTC()
	event.Type = input.Type
	event.Location = strings.TrimSpace(input.Location)
}

func (s *CalendarService) getOwned(ctx context.Context, actor *domain.User, id string) (*domain.CalendarEvent, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "sự kiện", map[string]any{"event_id": id})
	}
	if event.OwnerID != actor.ID {
		return nil, apperrors.NewForbidden("Bạn chỉ được chỉnh sửa lịch của mình")
	}
	if event.InterviewID != nil {
		return nil, apperrors.NewConflict("Sự kiện phỏng vấn được quản lý trong lịch phỏng vấn",
			map[string]any{"interview_id": *event.InterviewID})
	}
	return event, nil
}

// Update edits one of actor's personal events.
func (s *CalendarService) Update(ctx context.Context, actor *domain.User, id string, input CalendarEventInput) (*domain.CalendarEvent, error) {
	if err := validateCalendarInput(&input); err != nil {
		return nil, err
	}
	event, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	applyCalendarInput(event, input)
	if err := s.events.Update(ctx, event); err != nil {
		return nil, apperrors.NotFoundOr(err, "sự kiện", nil)
	}
	return event, nil
}

// Delete removes one of actor's personal events.
func (s *CalendarService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return err
	}
	return apperrors.NotFoundOr(s.events.Delete(ctx, id), "sự kiện", nil)
}
