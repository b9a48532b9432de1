package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// EmailFilter narrows the sent-mail log.
type EmailFilter struct {
	CandidateID *string
	Template    *domain.EmailTemplate
	Status      *domain.EmailStatus
	Limit       int
	Offset      int
}

// EmailRepository records every outbound email attempt.
type EmailRepository interface {
	Create(ctx context.Context, msg *domain.EmailMessage) error
	List(ctx context.Context, filter EmailFilter) ([]domain.EmailMessage, error)
}

type emailRepository struct {
	pool *pgxpool.Pool
}

// NewEmailRepository instantiates repository.
func NewEmailRepository(pool *pgxpool.Pool) EmailRepository {
	return &emailRepository{pool: pool}
}

func (r *emailRepository) Create(ctx context.Context, m *domain.EmailMessage) error {
	const query = `
        INSERT INTO email_messages (candidate_id, recipient, subject, body, template, status, error, sent_by, sent_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		m.CandidateID,
		m.To,
		m.Subject,
		m.Body,
		m.Template,
		m.Status,
		m.Error,
		m.SentBy,
		m.SentAt,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *emailRepository) List(ctx context.Context, filter EmailFilter) ([]domain.EmailMessage, error) {
	var w whereBuilder
	if filter.CandidateID != nil {
		w.add("candidate_id=%s", *filter.CandidateID)
	}
	if filter.Template != nil {
		w.add("template=%s", *filter.Template)
	}
	if filter.Status != nil {
		w.add("status=%s", *filter.Status)
	}
	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
        SELECT id, candidate_id, recipient, subject, body, template, status, error, sent_by, sent_at, created_at
        FROM email_messages WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, w.sql(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmails(rows)
}

func scanEmails(rows pgx.Rows) ([]domain.EmailMessage, error) {
	var result []domain.EmailMessage
	for rows.Next() {
		var m domain.EmailMessage
		if err := rows.Scan(
			&m.ID,
			&m.CandidateID,
			&m.To,
			&m.Subject,
			&m.Body,
			&m.Template,
			&m.Status,
			&m.Error,
			&m.SentBy,
			&m.SentAt,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
