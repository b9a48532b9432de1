package dto

import (
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// InterviewRequest schedules an interview.
type InterviewRequest struct {
	CandidateID    string               `json:"candidate_id" validate:"required,uuid"`
	Round          int                  `json:"round" validate:"omitempty,oneof=1 2"`
	Title          string               `json:"title" validate:"max=200"`
	StartTime      time.Time            `json:"start_time" validate:"required"`
	EndTime        time.Time            `json:"end_time" validate:"required,gtfield=StartTime"`
	Mode           domain.InterviewMode `json:"mode" validate:"omitempty,oneof=ONLINE OFFLINE"`
	Location       string               `json:"location" validate:"max=200"`
	MeetingLink    string               `json:"meeting_link" validate:"omitempty,url"`
	InterviewerIDs []string             `json:"interviewer_ids" validate:"required,min=1,dive,uuid"`
	Note           string               `json:"note" validate:"max=2000"`
}

// RescheduleRequest moves an interview; omitted fields keep their values.
type RescheduleRequest struct {
	Round          int                  `json:"round" validate:"omitempty,oneof=1 2"`
	Title          string               `json:"title" validate:"max=200"`
	StartTime      time.Time            `json:"start_time" validate:"required"`
	EndTime        time.Time            `json:"end_time" validate:"required,gtfield=StartTime"`
	Mode           domain.InterviewMode `json:"mode" validate:"omitempty,oneof=ONLINE OFFLINE"`
	Location       string               `json:"location" validate:"max=200"`
	MeetingLink    string               `json:"meeting_link" validate:"omitempty,url"`
	InterviewerIDs []string             `json:"interviewer_ids" validate:"omitempty,dive,uuid"`
	Note           string               `json:"note" validate:"max=2000"`
}

// CancelInterviewRequest carries an optional reason.
type CancelInterviewRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

// InterviewResponse is the public view of an interview.
type InterviewResponse struct {
	ID             string                 `json:"id"`
	CandidateID    string                 `json:"candidate_id"`
	PositionID     string                 `json:"position_id"`
	Round          int                    `json:"round"`
	Title          string                 `json:"title"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
	Mode           domain.InterviewMode   `json:"mode"`
	Location       string                 `json:"location"`
	MeetingLink    string                 `json:"meeting_link"`
	InterviewerIDs []string               `json:"interviewer_ids"`
	Status         domain.InterviewStatus `json:"status"`
	Note           string                 `json:"note"`
	ReminderSent   bool                   `json:"reminder_sent"`
	CreatedBy      string                 `json:"created_by"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// CriterionScoreRequest scores one criterion.
type CriterionScoreRequest struct {
	Criterion string `json:"criterion" validate:"required,max=120"`
	Score     int    `json:"score" validate:"required,min=1,max=5"`
}

// EvaluationRequest submits an interviewer's assessment.
type EvaluationRequest struct {
	Scores  []CriterionScoreRequest `json:"scores" validate:"required,min=1,dive"`
	Result  domain.EvaluationResult `json:"result" validate:"required"`
	Comment string                  `json:"comment" validate:"max=5000"`
}

// EvaluationResponse is the public view of an evaluation.
type EvaluationResponse struct {
	ID           string                  `json:"id"`
	InterviewID  string                  `json:"interview_id"`
	CandidateID  string                  `json:"candidate_id"`
	EvaluatorID  string                  `json:"evaluator_id"`
	Scores       []domain.CriterionScore `json:"scores"`
	OverallScore float64                 `json:"overall_score"`
	Result       domain.EvaluationResult `json:"result"`
	Comment      string                  `json:"comment"`
	CreatedAt    time.Time               `json:"created_at"`
	UpdatedAt    time.Time               `json:"updated_at"`
}
