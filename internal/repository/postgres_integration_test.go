//go:build integration

package repository

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/persistence"
)

// Run with: TEST_POSTGRES_DSN=postgres://... go test -tags integration ./internal/repository
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zaptest.NewLogger(t)))
	return pool
}

func seedPosition(t *testing.T, pool *pgxpool.Pool, quantity int) *domain.Position {
	t.Helper()
	ctx := t.Context()
	user := &domain.User{
		Name:         "Integration",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         domain.RoleHRManager,
		Active:       true,
	}
	require.NoError(t, NewUserRepository(pool).Create(ctx, user))

	p := &domain.Position{
		Title:      "Kỹ sư dữ liệu",
		Department: "Kỹ thuật",
		Quantity:   quantity,
		Status:     domain.PositionStatusOpen,
		CreatedBy:  user.ID,
	}
	require.NoError(t, NewPositionRepository(pool).Create(ctx, p))
	return p
}

func TestAdjustHiredCountAgainstPostgres(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPositionRepository(pool)
	ctx := t.Context()
	p := seedPosition(t, pool, 1)

	hired, err := repo.AdjustHiredCount(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, hired.HiredCount)
	assert.Equal(t, domain.PositionStatusFilled, hired.Status)

	_, err = repo.AdjustHiredCount(ctx, p.ID, 1)
	assert.ErrorIs(t, err, ErrPositionFull)

	released, err := repo.AdjustHiredCount(ctx, p.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, released.HiredCount)
	assert.Equal(t, domain.PositionStatusOpen, released.Status)

	released, err = repo.AdjustHiredCount(ctx, p.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, released.HiredCount)

	_, err = repo.AdjustHiredCount(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMarkReminderSentMissingInterview(t *testing.T) {
	pool := newTestPool(t)
	err := NewInterviewRepository(pool).MarkReminderSent(t.Context(), uuid.NewString())
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
