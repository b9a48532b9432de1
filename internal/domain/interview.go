package domain

import "time"

// InterviewStatus tracks the lifecycle of an interview.
type InterviewStatus string

const (
	InterviewStatusScheduled InterviewStatus = "SCHEDULED"
	InterviewStatusCompleted InterviewStatus = "COMPLETED"
	InterviewStatusCancelled InterviewStatus = "CANCELLED"
)

// InterviewMode says where the interview happens.
type InterviewMode string

const (
	InterviewModeOnline  InterviewMode = "ONLINE"
	InterviewModeOffline InterviewMode = "OFFLINE"
)

// Interview is a scheduled conversation between interviewers and a candidate.
type Interview struct {
	ID             string
	CandidateID    string
	PositionID     string
	Round          int
	Title          string
	StartTime      time.Time
	EndTime        time.Time
	Mode           InterviewMode
	Location       string
	MeetingLink    string
	InterviewerIDs []string
	Status         InterviewStatus
	Note           string
	ReminderSent   bool
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasInterviewer reports whether userID is on the panel.
func (i *Interview) HasInterviewer(userID string) bool {
	for _, id := range i.InterviewerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// StageForRound maps an interview round to the pipeline stage it represents.
func StageForRound(round int) Stage {
	if round >= 2 {
		return StageInterview2
	}
	return StageInterview1
}
