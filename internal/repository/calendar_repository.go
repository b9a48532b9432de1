package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// CalendarRepository encapsulates calendar event persistence.
type CalendarRepository interface {
	Create(ctx context.Context, event *domain.CalendarEvent) error
	Update(ctx context.Context, event *domain.CalendarEvent) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	// ListByOwner returns events overlapping [from, to).
	ListByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]domain.CalendarEvent, error)
	ListByInterview(ctx context.Context, interviewID string) ([]domain.CalendarEvent, error)
	DeleteByInterview(ctx context.Context, interviewID string) error
}

type calendarRepository struct {
	pool *pgxpool.Pool
}

// NewCalendarRepository instantiates repository.
func NewCalendarRepository(pool *pgxpool.Pool) CalendarRepository {
	return &calendarRepository{pool: pool}
}

const calendarColumns = `id, owner_id, title, description, start_time, end_time, event_type, interview_id,
    location, created_at, updated_at`

func (r *calendarRepository) Create(ctx context.Context, e *domain.CalendarEvent) error {
	const query = `
        INSERT INTO calendar_events (owner_id, title, description, start_time, end_time, event_type,
            interview_id, location)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		e.OwnerID,
		e.Title,
		e.Description,
		e.StartTime,
		e.EndTime,
		e.Type,
		e.InterviewID,
		e.Location,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *calendarRepository) Update(ctx context.Context, e *domain.CalendarEvent) error {
	const query = `
        UPDATE calendar_events SET title=$1, description=$2, start_time=$3, end_time=$4, event_type=$5,
            location=$6, updated_at=NOW()
        WHERE id=$7
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		e.Title,
		e.Description,
		e.StartTime,
		e.EndTime,
		e.Type,
		e.Location,
		e.ID,
	).Scan(&e.UpdatedAt)
}

func (r *calendarRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *calendarRepository) GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+calendarColumns+` FROM calendar_events WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events, err := scanCalendarEvents(rows)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &events[0], nil
}

func (r *calendarRepository) ListByOwner(ctx context.Context, ownerID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_events
        WHERE owner_id=$1 AND start_time < $3 AND end_time > $2
        ORDER BY start_time ASC`
	rows, err := r.pool.Query(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCalendarEvents(rows)
}

func (r *calendarRepository) ListByInterview(ctx context.Context, interviewID string) ([]domain.CalendarEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+calendarColumns+` FROM calendar_events WHERE interview_id=$1 ORDER BY owner_id`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCalendarEvents(rows)
}

func (r *calendarRepository) DeleteByInterview(ctx context.Context, interviewID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM calendar_events WHERE interview_id=$1`, interviewID)
	return err
}

func scanCalendarEvents(rows pgx.Rows) ([]domain.CalendarEvent, error) {
	var result []domain.CalendarEvent
	for rows.Next() {
		var e domain.CalendarEvent
		if err := rows.Scan(
			&e.ID,
			&e.OwnerID,
			&e.Title,
			&e.Description,
			&e.StartTime,
			&e.EndTime,
			&e.Type,
			&e.InterviewID,
			&e.Location,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
