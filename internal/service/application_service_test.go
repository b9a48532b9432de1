package service

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/repository"
)

func draftInput() ApplicationInput {
	lo, hi := int64(15_000_000), int64(25_000_000)
	return ApplicationInput{
		Title:     "Lập trình viên Go",
		Quantity:  2,
		Reason:    "Mở rộng đội ngũ",
		SalaryMin: &lo,
		SalaryMax: &hi,
	}
}

func TestApplicationApprovalFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	app, err := env.applicationSvc.Create(ctx, env.head, draftInput())
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusDraft, app.Status)
	assert.Equal(t, "Kỹ thuật", app.Department)
	assert.Regexp(t, `^YCTD-[0-9A-F]{8}$`, app.Code)

	app, err = env.applicationSvc.Submit(ctx, env.head, app.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusSubmitted, app.Status)
	assert.NotNil(t, app.SubmittedAt)
	assert.Len(t, env.notifications.forUser(env.hr.ID), 1)

	app, err = env.applicationSvc.StartReview(ctx, env.hr, app.ID, "Đã kiểm tra ngân sách")
	require.NoError(t, err)
	assert.Len(t, env.notifications.forUser(env.ceo.ID), 1)

	app, err = env.applicationSvc.Approve(ctx, env.ceo, app.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApproved, app.Status)
	require.NotNil(t, app.ApprovedBy)
	assert.Equal(t, env.ceo.ID, *app.ApprovedBy)
	assert.Len(t, env.notifications.forUser(env.head.ID), 1)

	history, err := env.applicationSvc.History(ctx, env.head, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, domain.ApplicationStatusDraft, history[0].OldStatus)
	assert.Equal(t, domain.ApplicationStatusApproved, history[2].NewStatus)

	assert.Equal(t, []events.EventType{
		events.EventApplicationStatusChanged,
		events.EventApplicationStatusChanged,
		events.EventApplicationStatusChanged,
	}, env.dispatcher.types())
}

func TestApplicationTransitionRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	app, err := env.applicationSvc.Create(ctx, env.head, draftInput())
	require.NoError(t, err)

	_, err = env.applicationSvc.Approve(ctx, env.ceo, app.ID, "")
	requireStatus(t, err, http.StatusConflict)

	_, err = env.applicationSvc.Submit(ctx, env.hr, app.ID, "")
	requireStatus(t, err, http.StatusForbidden)

	_, err = env.applicationSvc.Submit(ctx, env.head, app.ID, "")
	require.NoError(t, err)

	_, err = env.applicationSvc.StartReview(ctx, env.head, app.ID, "")
	requireStatus(t, err, http.StatusForbidden)

	_, err = env.applicationSvc.Reject(ctx, env.hr, app.ID, "  ")
	requireStatus(t, err, http.StatusBadRequest)

	rejected, err := env.applicationSvc.Reject(ctx, env.hr, app.ID, "Chưa có ngân sách")
	require.NoError(t, err)
	assert.Equal(t, "Chưa có ngân sách", rejected.RejectReason)

	reopened, err := env.applicationSvc.Reopen(ctx, env.head, app.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusDraft, reopened.Status)

	_, err = env.applicationSvc.Transition(ctx, env.admin, app.ID, domain.ApplicationStatus("bogus"), "")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestApplicationEditingAndVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	input := draftInput()
	lo, hi := int64(30), int64(10)
	input.SalaryMin, input.SalaryMax = &lo, &hi
	_, err := env.applicationSvc.Create(ctx, env.head, input)
	requireStatus(t, err, http.StatusBadRequest)

	_, err = env.applicationSvc.Create(ctx, env.recruiter, draftInput())
	requireStatus(t, err, http.StatusForbidden)

	own, err := env.applicationSvc.Create(ctx, env.head, draftInput())
	require.NoError(t, err)
	_, err = env.applicationSvc.Create(ctx, env.hr, draftInput())
	require.NoError(t, err)

	list, err := env.applicationSvc.List(ctx, env.head, repository.ApplicationFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, own.ID, list[0].ID)

	list, err = env.applicationSvc.List(ctx, env.ceo, repository.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = env.applicationSvc.Get(ctx, env.interviewer, own.ID)
	requireStatus(t, err, http.StatusForbidden)

	update := draftInput()
	update.Title = "Kỹ sư Go"
	updated, err := env.applicationSvc.Update(ctx, env.head, own.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Kỹ sư Go", updated.Title)

	_, err = env.applicationSvc.Submit(ctx, env.head, own.ID, "")
	require.NoError(t, err)
	_, err = env.applicationSvc.Update(ctx, env.head, own.ID, update)
	requireStatus(t, err, http.StatusConflict)
	requireStatus(t, env.applicationSvc.Delete(ctx, env.head, own.ID), http.StatusConflict)
}

func TestApplicationUpdateKeepsStoredDepartment(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	input := draftInput()
	input.Department = "Marketing"
	app, err := env.applicationSvc.Create(ctx, env.head, input)
	require.NoError(t, err)

	update := draftInput()
	update.Quantity = 3
	updated, err := env.applicationSvc.Update(ctx, env.head, app.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Marketing", updated.Department)
	assert.Equal(t, 3, updated.Quantity)

	update.Quantity = 0
	_, err = env.applicationSvc.Update(ctx, env.head, app.ID, update)
	requireStatus(t, err, http.StatusBadRequest)
}

func TestApplicationComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	app, err := env.applicationSvc.Create(ctx, env.head, draftInput())
	require.NoError(t, err)

	_, err = env.applicationSvc.AddComment(ctx, env.hr, app.ID, " ")
	requireStatus(t, err, http.StatusBadRequest)

	comment, err := env.applicationSvc.AddComment(ctx, env.hr, app.ID, "Cần bổ sung mô tả công việc")
	require.NoError(t, err)
	assert.Equal(t, env.hr.Name, comment.AuthorName)

	notes := env.notifications.forUser(env.head.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, domain.NotificationComment, notes[0].Type)

	_, err = env.applicationSvc.AddComment(ctx, env.head, app.ID, "Đã bổ sung")
	require.NoError(t, err)
	assert.Len(t, env.notifications.forUser(env.head.ID), 1, "own comment does not notify the author")

	requireStatus(t, env.applicationSvc.DeleteComment(ctx, env.ceo, app.ID, comment.ID), http.StatusForbidden)
	require.NoError(t, env.applicationSvc.DeleteComment(ctx, env.hr, app.ID, comment.ID))

	comments, err := env.applicationSvc.ListComments(ctx, env.hr, app.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestCreatePositionFromApplication(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	app, err := env.applicationSvc.Create(ctx, env.head, draftInput())
	require.NoError(t, err)

	_, err = env.applicationSvc.CreatePosition(ctx, env.hr, app.ID, PositionInput{})
	requireStatus(t, err, http.StatusConflict)

	for _, step := range []struct {
		actor *domain.User
		to    domain.ApplicationStatus
	}{
		{env.head, domain.ApplicationStatusSubmitted},
		{env.hr, domain.ApplicationStatusReviewing},
		{env.ceo, domain.ApplicationStatusApproved},
	} {
		_, err = env.applicationSvc.Transition(ctx, step.actor, app.ID, step.to, "")
		require.NoError(t, err)
	}

	position, err := env.applicationSvc.CreatePosition(ctx, env.hr, app.ID, PositionInput{Location: "Hà Nội"})
	require.NoError(t, err)
	require.NotNil(t, position.ApplicationID)
	assert.Equal(t, app.ID, *position.ApplicationID)
	assert.Equal(t, app.Title, position.Title)
	assert.Equal(t, 2, position.Quantity)
	assert.Equal(t, "15000000 - 25000000", position.SalaryRange)
	assert.Equal(t, domain.PositionStatusOpen, position.Status)

	_, err = env.applicationSvc.CreatePosition(ctx, env.hr, app.ID, PositionInput{})
	requireStatus(t, err, http.StatusConflict)
}
