package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
)

func (e *testEnv) scheduleInput(candidateID string, start time.Time) InterviewInput {
	return InterviewInput{
		CandidateID:    candidateID,
		Round:          1,
		StartTime:      start,
		EndTime:        start.Add(time.Hour),
		Mode:           domain.InterviewModeOnline,
		MeetingLink:    "https://meet.example.com/abc",
		InterviewerIDs: []string{e.interviewer.ID, e.hr.ID, e.interviewer.ID},
	}
}

func TestScheduleInterview(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	position := env.seedPosition(t, 1)
	c := env.seedCandidate(t, position.ID, "Đỗ H", "h@example.com")

	interview, err := env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, time.Now().Add(48*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewStatusScheduled, interview.Status)
	assert.Equal(t, []string{env.interviewer.ID, env.hr.ID}, interview.InterviewerIDs)
	assert.Equal(t, "Phỏng vấn vòng 1 - Đỗ H", interview.Title)
	assert.Equal(t, position.ID, interview.PositionID)

	events, err := env.calendar.ListByInterview(ctx, interview.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.EventTypeInterview, events[0].Type)
	assert.Equal(t, "https://meet.example.com/abc", events[0].Location)

	advanced, err := env.candidateSvc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageInterview1, advanced.Stage)

	invites := env.mailer.sentTo("h@example.com")
	require.Len(t, invites, 1)
	assert.Contains(t, invites[0].Subject, "Backend Engineer")
	assert.Len(t, env.notifications.forUser(env.interviewer.ID), 1)
	assert.Len(t, env.notifications.forUser(env.hr.ID), 1)
}

func TestScheduleInterviewValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	position := env.seedPosition(t, 1)
	c := env.seedCandidate(t, position.ID, "Ngô I", "i@example.com")
	future := time.Now().Add(24 * time.Hour)

	past := env.scheduleInput(c.ID, time.Now().Add(-time.Hour))
	_, err := env.interviewSvc.Schedule(ctx, env.recruiter, past)
	requireStatus(t, err, http.StatusBadRequest)

	inverted := env.scheduleInput(c.ID, future)
	inverted.EndTime = future.Add(-time.Minute)
	_, err = env.interviewSvc.Schedule(ctx, env.recruiter, inverted)
	requireStatus(t, err, http.StatusBadRequest)

	noPanel := env.scheduleInput(c.ID, future)
	noPanel.InterviewerIDs = []string{" "}
	_, err = env.interviewSvc.Schedule(ctx, env.recruiter, noPanel)
	requireStatus(t, err, http.StatusBadRequest)

	unknown := env.scheduleInput(c.ID, future)
	unknown.InterviewerIDs = []string{"ghost"}
	_, err = env.interviewSvc.Schedule(ctx, env.recruiter, unknown)
	requireStatus(t, err, http.StatusBadRequest)

	inactive := *env.interviewer
	inactive.Active = false
	require.NoError(t, env.users.Update(ctx, &inactive))
	_, err = env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, future))
	requireStatus(t, err, http.StatusBadRequest)

	_, err = env.interviewSvc.Schedule(ctx, env.head, env.scheduleInput(c.ID, future))
	requireStatus(t, err, http.StatusForbidden)

	_, err = env.candidateSvc.UpdateStatus(ctx, env.recruiter, c.ID, domain.StageRejected)
	require.NoError(t, err)
	ok := env.scheduleInput(c.ID, future)
	ok.InterviewerIDs = []string{env.hr.ID}
	_, err = env.interviewSvc.Schedule(ctx, env.recruiter, ok)
	requireStatus(t, err, http.StatusConflict)
}

func TestRescheduleCancelComplete(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	position := env.seedPosition(t, 1)
	c := env.seedCandidate(t, position.ID, "Bùi K", "k@example.com")

	interview, err := env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, time.Now().Add(2*time.Hour)))
	require.NoError(t, err)
	require.NoError(t, env.interviews.MarkReminderSent(ctx, interview.ID))

	newStart := time.Now().Add(72 * time.Hour).Truncate(time.Minute)
	moved, err := env.interviewSvc.Reschedule(ctx, env.recruiter, interview.ID, InterviewInput{
		StartTime:      newStart,
		EndTime:        newStart.Add(90 * time.Minute),
		InterviewerIDs: []string{env.interviewer.ID},
	})
	require.NoError(t, err)
	assert.False(t, moved.ReminderSent)
	assert.True(t, moved.StartTime.Equal(newStart))

	events, err := env.calendar.ListByInterview(ctx, interview.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].StartTime.Equal(newStart))
	assert.Len(t, env.mailer.sentTo("k@example.com"), 2)

	mine, err := env.interviewSvc.List(ctx, env.hr, repository.InterviewFilter{}, true)
	require.NoError(t, err)
	assert.Empty(t, mine)
	mine, err = env.interviewSvc.List(ctx, env.interviewer, repository.InterviewFilter{}, false)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	cancelled, err := env.interviewSvc.Cancel(ctx, env.recruiter, interview.ID, "Ứng viên bận")
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewStatusCancelled, cancelled.Status)
	events, err = env.calendar.ListByInterview(ctx, interview.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = env.interviewSvc.Complete(ctx, env.recruiter, interview.ID)
	requireStatus(t, err, http.StatusConflict)

	second, err := env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, time.Now().Add(5*time.Hour)))
	require.NoError(t, err)
	_, err = env.interviewSvc.Complete(ctx, env.ceo, second.ID)
	requireStatus(t, err, http.StatusForbidden)
	done, err := env.interviewSvc.Complete(ctx, env.interviewer, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InterviewStatusCompleted, done.Status)
}

func TestReminderRun(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	position := env.seedPosition(t, 1)
	c := env.seedCandidate(t, position.ID, "Lý M", "m@example.com")

	soon, err := env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, time.Now().Add(30*time.Minute)))
	require.NoError(t, err)
	_, err = env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, time.Now().Add(5*time.Hour)))
	require.NoError(t, err)

	result, err := env.reminderSvc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderResult{Due: 1, Sent: 1}, result)

	stored, err := env.interviews.GetByID(ctx, soon.ID)
	require.NoError(t, err)
	assert.True(t, stored.ReminderSent)

	reminders := env.mailer.sentTo("m@example.com")
	assert.Contains(t, reminders[len(reminders)-1].Subject, "Nhắc lịch phỏng vấn")
	assert.Len(t, env.mailer.sentTo("panel@example.com"), 1)
	assert.Empty(t, env.locker.held)

	result, err = env.reminderSvc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderResult{}, result)
}

func TestReminderRetriesAndLocks(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	position := env.seedPosition(t, 1)
	c := env.seedCandidate(t, position.ID, "Mai N", "n@example.com")
	interview, err := env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, time.Now().Add(10*time.Minute)))
	require.NoError(t, err)

	env.mailer.failFor["n@example.com"] = true
	result, err := env.reminderSvc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	stored, err := env.interviews.GetByID(ctx, interview.ID)
	require.NoError(t, err)
	assert.False(t, stored.ReminderSent)

	env.mailer.failFor = map[string]bool{}
	env.locker.held["reminder:"+interview.ID] = true
	result, err = env.reminderSvc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Skipped)

	delete(env.locker.held, "reminder:"+interview.ID)
	result, err = env.reminderSvc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.Len(t, env.notifications.forUser(env.interviewer.ID), 2)
}

// staleDueList serves a due list captured before another replica ran.
type staleDueList struct {
	*fakeInterviews
	due []domain.Interview
}

func (s *staleDueList) ListDueForReminder(context.Context, time.Time, time.Time) ([]domain.Interview, error) {
	return s.due, nil
}

func TestReminderNotResentFromStaleDueList(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	position := env.seedPosition(t, 1)
	c := env.seedCandidate(t, position.ID, "Đỗ P", "p@example.com")
	_, err := env.interviewSvc.Schedule(ctx, env.recruiter, env.scheduleInput(c.ID, time.Now().Add(20*time.Minute)))
	require.NoError(t, err)

	now := time.Now().UTC()
	snapshot, err := env.interviews.ListDueForReminder(ctx, now, now.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	first, err := env.reminderSvc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderResult{Due: 1, Sent: 1}, first)

	otherReplica := NewReminderService(ReminderDependencies{
		InterviewRepo: &staleDueList{fakeInterviews: env.interviews, due: snapshot},
		CandidateRepo: env.candidates,
		PositionRepo:  env.positions,
		UserRepo:      env.users,
		Emails:        env.emailSvc,
		Locker:        env.locker,
		Dispatcher:    env.dispatcher,
	})
	second, err := otherReplica.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReminderResult{Due: 1, Skipped: 1}, second)

	var reminders int
	for _, msg := range env.mailer.sentTo("p@example.com") {
		if strings.Contains(msg.Subject, "Nhắc lịch phỏng vấn") {
			reminders++
		}
	}
	assert.Equal(t, 1, reminders)
}
