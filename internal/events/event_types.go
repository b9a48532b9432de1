package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventApplicationStatusChanged EventType = "application_status_changed"
	EventApplicationCommented     EventType = "application_commented"
	EventCandidateStageChanged    EventType = "candidate_stage_changed"
	EventInterviewScheduled       EventType = "interview_scheduled"
	EventInterviewRescheduled     EventType = "interview_rescheduled"
	EventInterviewCancelled       EventType = "interview_cancelled"
	EventInterviewReminderDue     EventType = "interview_reminder_due"
	EventEvaluationSubmitted      EventType = "evaluation_submitted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	AggregateID string      `json:"aggregate_id"`
	ActorID     string      `json:"actor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// New builds an event with a fresh id and timestamp.
func New(eventType EventType, aggregateID, actorID string, payload interface{}) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Timestamp:   time.Now().UTC(),
		Payload:     payload,
	}
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	Application *domain.Application      `json:"application"`
	OldStatus   domain.ApplicationStatus `json:"old_status"`
	NewStatus   domain.ApplicationStatus `json:"new_status"`
	Comment     string                   `json:"comment,omitempty"`
}

// ApplicationCommentedPayload payload.
type ApplicationCommentedPayload struct {
	Application *domain.Application `json:"application"`
	Comment     *domain.Comment     `json:"comment"`
}

// CandidateStageChangedPayload payload.
type CandidateStageChangedPayload struct {
	Candidate *domain.Candidate `json:"candidate"`
	OldStage  domain.Stage      `json:"old_stage"`
	NewStage  domain.Stage      `json:"new_stage"`
}

// InterviewPayload is shared by schedule, reschedule, cancel and reminder events.
type InterviewPayload struct {
	Interview    *domain.Interview `json:"interview"`
	Candidate    *domain.Candidate `json:"candidate"`
	Interviewers []domain.User     `json:"interviewers"`
}

// EvaluationSubmittedPayload payload.
type EvaluationSubmittedPayload struct {
	Evaluation *domain.Evaluation `json:"evaluation"`
	Interview  *domain.Interview  `json:"interview"`
}
