package service

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

func TestPositionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.positionSvc.Create(ctx, env.head, PositionInput{Title: "QA", Department: "Kỹ thuật", Quantity: 1})
	requireStatus(t, err, http.StatusForbidden)
	_, err = env.positionSvc.Create(ctx, env.hr, PositionInput{Title: "QA", Department: "Kỹ thuật"})
	requireStatus(t, err, http.StatusBadRequest)

	position := env.seedPosition(t, 2)
	assert.Equal(t, "Thỏa thuận", position.SalaryRange)
	a := env.seedCandidate(t, position.ID, "A", "a@example.com")
	b := env.seedCandidate(t, position.ID, "B", "b@example.com")
	for _, id := range []string{a.ID, b.ID} {
		_, err := env.candidateSvc.UpdateStatus(ctx, env.hr, id, domain.StageHired)
		require.NoError(t, err)
	}

	_, err = env.positionSvc.Update(ctx, env.hr, position.ID, PositionInput{Title: "Backend Engineer", Department: "Kỹ thuật", Quantity: 1})
	requireStatus(t, err, http.StatusBadRequest)

	grown, err := env.positionSvc.Update(ctx, env.hr, position.ID, PositionInput{Title: "Backend Engineer", Department: "Kỹ thuật", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, domain.PositionStatusOpen, grown.Status)

	closed, err := env.positionSvc.Close(ctx, env.recruiter, position.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PositionStatusClosed, closed.Status)
	_, err = env.positionSvc.Close(ctx, env.recruiter, position.ID)
	requireStatus(t, err, http.StatusConflict)

	reopened, err := env.positionSvc.Reopen(ctx, env.recruiter, position.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PositionStatusOpen, reopened.Status)

	requireStatus(t, env.positionSvc.Delete(ctx, env.hr, position.ID), http.StatusConflict)

	empty := env.seedPosition(t, 1)
	requireStatus(t, env.positionSvc.Delete(ctx, env.recruiter, empty.ID), http.StatusForbidden)
	require.NoError(t, env.positionSvc.Delete(ctx, env.hr, empty.ID))
	_, err = env.positionSvc.Get(ctx, empty.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestRenderJD(t *testing.T) {
	env := newTestEnv(t)
	position := env.seedPosition(t, 1)

	var buf bytes.Buffer
	name, err := env.positionSvc.RenderJD(t.Context(), position.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, "JD_Backend_Engineer.docx", name)
	assert.Equal(t, []byte("PK"), buf.Bytes()[:2])

	_, err = env.positionSvc.RenderJD(t.Context(), "missing", &buf)
	requireStatus(t, err, http.StatusNotFound)
}
