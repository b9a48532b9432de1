package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// CandidateFilter captures candidate search parameters.
type CandidateFilter struct {
	PositionID *string
	Stages     []domain.Stage
	Status     *domain.CandidateStatus
	SearchTerm *string
	Limit      int
	Offset     int
}

// CandidateRepository encapsulates candidate persistence.
type CandidateRepository interface {
	Create(ctx context.Context, candidate *domain.Candidate) error
	Update(ctx context.Context, candidate *domain.Candidate) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	List(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, error)
	CountByPosition(ctx context.Context, positionID string) (int, error)
	CountByStage(ctx context.Context) (map[domain.Stage]int, error)
}

type candidateRepository struct {
	pool *pgxpool.Pool
}

// NewCandidateRepository instantiates repository.
func NewCandidateRepository(pool *pgxpool.Pool) CandidateRepository {
	return &candidateRepository{pool: pool}
}

const candidateColumns = `id, position_id, full_name, email, phone, source, cv_url, cv_public_id, stage,
    status, notes, applied_at, created_at, updated_at`

func (r *candidateRepository) Create(ctx context.Context, c *domain.Candidate) error {
	const query = `
        INSERT INTO candidates (position_id, full_name, email, phone, source, cv_url, cv_public_id,
            stage, status, notes, applied_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		c.PositionID,
		c.FullName,
		c.Email,
		c.Phone,
		c.Source,
		c.CVURL,
		c.CVPublicID,
		c.Stage,
		c.Status,
		c.Notes,
		c.AppliedAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *candidateRepository) Update(ctx context.Context, c *domain.Candidate) error {
	const query = `
        UPDATE candidates SET position_id=$1, full_name=$2, email=$3, phone=$4, source=$5, cv_url=$6,
            cv_public_id=$7, stage=$8, status=$9, notes=$10, updated_at=NOW()
        WHERE id=$11
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		c.PositionID,
		c.FullName,
		c.Email,
		c.Phone,
		c.Source,
		c.CVURL,
		c.CVPublicID,
		c.Stage,
		c.Status,
		c.Notes,
		c.ID,
	).Scan(&c.UpdatedAt)
}

func (r *candidateRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM candidates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	candidates, err := scanCandidates(rows)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &candidates[0], nil
}

func (r *candidateRepository) List(ctx context.Context, filter CandidateFilter) ([]domain.Candidate, error) {
	var w whereBuilder
	if filter.PositionID != nil {
		w.add("position_id=%s", *filter.PositionID)
	}
	stages := make([]string, 0, len(filter.Stages))
	for _, s := range filter.Stages {
		stages = append(stages, string(s))
	}
	w.addIn("stage", stages)
	if filter.Status != nil {
		w.add("status=%s", *filter.Status)
	}
	w.addSearch(filter.SearchTerm, "full_name", "email", "phone")

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM candidates WHERE %s ORDER BY applied_at DESC LIMIT %d OFFSET %d`,
		candidateColumns, w.sql(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCandidates(rows)
}

func (r *candidateRepository) CountByPosition(ctx context.Context, positionID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM candidates WHERE position_id=$1`, positionID).Scan(&n)
	return n, err
}

func (r *candidateRepository) CountByStage(ctx context.Context) (map[domain.Stage]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT stage, COUNT(*) FROM candidates GROUP BY stage`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[domain.Stage]int{}
	for rows.Next() {
		var stage domain.Stage
		var n int
		if err := rows.Scan(&stage, &n); err != nil {
			return nil, err
		}
		counts[stage] = n
	}
	return counts, rows.Err()
}

func scanCandidates(rows pgx.Rows) ([]domain.Candidate, error) {
	var result []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(
			&c.ID,
			&c.PositionID,
			&c.FullName,
			&c.Email,
			&c.Phone,
			&c.Source,
			&c.CVURL,
			&c.CVPublicID,
			&c.Stage,
			&c.Status,
			&c.Notes,
			&c.AppliedAt,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
