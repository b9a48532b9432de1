package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// ErrReminderAlreadySent is returned when another run already flagged the reminder.
var ErrReminderAlreadySent = errors.New("interview reminder already sent")

// InterviewFilter captures interview listing parameters.
type InterviewFilter struct {
	CandidateID   *string
	PositionID    *string
	InterviewerID *string
	Statuses      []domain.InterviewStatus
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

// InterviewRepository encapsulates interview persistence.
type InterviewRepository interface {
	Create(ctx context.Context, interview *domain.Interview) error
	Update(ctx context.Context, interview *domain.Interview) error
	GetByID(ctx context.Context, id string) (*domain.Interview, error)
	List(ctx context.Context, filter InterviewFilter) ([]domain.Interview, error)
	// ListDueForReminder returns scheduled interviews starting in (from, until] whose reminder
	// has not gone out yet.
	ListDueForReminder(ctx context.Context, from, until time.Time) ([]domain.Interview, error)
	// MarkReminderSent flags the reminder once; a second claim returns ErrReminderAlreadySent.
	MarkReminderSent(ctx context.Context, id string) error
	CountUpcoming(ctx context.Context, from, until time.Time) (int, error)
}

type interviewRepository struct {
	pool *pgxpool.Pool
}

// NewInterviewRepository instantiates repository.
func NewInterviewRepository(pool *pgxpool.Pool) InterviewRepository {
	return &interviewRepository{pool: pool}
}

const interviewColumns = `id, candidate_id, position_id, round, title, start_time, end_time, mode, location,
    meeting_link, interviewer_ids::text[], status, note, reminder_sent, created_by, created_at, updated_at`

func (r *interviewRepository) Create(ctx context.Context, i *domain.Interview) error {
	const query = `
        INSERT INTO interviews (candidate_id, position_id, round, title, start_time, end_time, mode,
            location, meeting_link, interviewer_ids, status, note, reminder_sent, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::uuid[],$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		i.CandidateID,
		i.PositionID,
		i.Round,
		i.Title,
		i.StartTime,
		i.EndTime,
		i.Mode,
		i.Location,
		i.MeetingLink,
		i.InterviewerIDs,
		i.Status,
		i.Note,
		i.ReminderSent,
		i.CreatedBy,
	).Scan(&i.ID, &i.CreatedAt, &i.UpdatedAt)
}

func (r *interviewRepository) Update(ctx context.Context, i *domain.Interview) error {
	const query = `
        UPDATE interviews SET round=$1, title=$2, start_time=$3, end_time=$4, mode=$5, location=$6,
            meeting_link=$7, interviewer_ids=$8::uuid[], status=$9, note=$10, reminder_sent=$11,
            updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		i.Round,
		i.Title,
		i.StartTime,
		i.EndTime,
		i.Mode,
		i.Location,
		i.MeetingLink,
		i.InterviewerIDs,
		i.Status,
		i.Note,
		i.ReminderSent,
		i.ID,
	).Scan(&i.UpdatedAt)
}

func (r *interviewRepository) GetByID(ctx context.Context, id string) (*domain.Interview, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	interviews, err := scanInterviews(rows)
	if err != nil {
		return nil, err
	}
	if len(interviews) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &interviews[0], nil
}

func (r *interviewRepository) List(ctx context.Context, filter InterviewFilter) ([]domain.Interview, error) {
	var w whereBuilder
	if filter.CandidateID != nil {
		w.add("candidate_id=%s", *filter.CandidateID)
	}
	if filter.PositionID != nil {
		w.add("position_id=%s", *filter.PositionID)
	}
	if filter.InterviewerID != nil {
		w.add("%s::uuid = ANY(interviewer_ids)", *filter.InterviewerID)
	}
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	w.addIn("status", statuses)
	if filter.From != nil {
		w.add("start_time >= %s", *filter.From)
	}
	if filter.To != nil {
		w.add("start_time < %s", *filter.To)
	}

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM interviews WHERE %s ORDER BY start_time ASC LIMIT %d OFFSET %d`,
		interviewColumns, w.sql(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInterviews(rows)
}

func (r *interviewRepository) ListDueForReminder(ctx context.Context, from, until time.Time) ([]domain.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews
        WHERE status=$1 AND reminder_sent = FALSE AND start_time > $2 AND start_time <= $3
        ORDER BY start_time ASC`
	rows, err := r.pool.Query(ctx, query, domain.InterviewStatusScheduled, from, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInterviews(rows)
}

func (r *interviewRepository) MarkReminderSent(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE interviews SET reminder_sent = TRUE, updated_at = NOW() WHERE id=$1 AND reminder_sent = FALSE`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM interviews WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrReminderAlreadySent
		}
		return pgx.ErrNoRows
	}
	return nil
}

func (r *interviewRepository) CountUpcoming(ctx context.Context, from, until time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM interviews WHERE status=$1 AND start_time >= $2 AND start_time < $3`,
		domain.InterviewStatusScheduled, from, until,
	).Scan(&n)
	return n, err
}

func scanInterviews(rows pgx.Rows) ([]domain.Interview, error) {
	var result []domain.Interview
	for rows.Next() {
		var i domain.Interview
		if err := rows.Scan(
			&i.ID,
			&i.CandidateID,
			&i.PositionID,
			&i.Round,
			&i.Title,
			&i.StartTime,
			&i.EndTime,
			&i.Mode,
			&i.Location,
			&i.MeetingLink,
			&i.InterviewerIDs,
			&i.Status,
			&i.Note,
			&i.ReminderSent,
			&i.CreatedBy,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, i)
	}
	return result, rows.Err()
}
