package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// ErrPositionFull is returned when a hire would exceed the position quantity.
var ErrPositionFull = errors.New("position already filled")

// PositionFilter captures position listing parameters.
type PositionFilter struct {
	Statuses   []domain.PositionStatus
	Department *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// PositionRepository encapsulates position persistence.
type PositionRepository interface {
	Create(ctx context.Context, position *domain.Position) error
	Update(ctx context.Context, position *domain.Position) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Position, error)
	GetByApplicationID(ctx context.Context, applicationID string) (*domain.Position, error)
	List(ctx context.Context, filter PositionFilter) ([]domain.Position, error)
	// AdjustHiredCount atomically moves hired_count by delta (+1 or -1), never below zero,
	// and flips the status between open and filled. An increment on a full position
	// returns ErrPositionFull.
	AdjustHiredCount(ctx context.Context, id string, delta int) (*domain.Position, error)
	CountByStatus(ctx context.Context) (map[domain.PositionStatus]int, error)
}

type positionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository instantiates repository.
func NewPositionRepository(pool *pgxpool.Pool) PositionRepository {
	return &positionRepository{pool: pool}
}

const positionColumns = `id, application_id, title, department, level, employment_type, location, quantity,
    hired_count, salary_range, description, requirements, benefits, deadline, status, created_by,
    created_at, updated_at`

func (r *positionRepository) Create(ctx context.Context, p *domain.Position) error {
	const query = `
        INSERT INTO positions (application_id, title, department, level, employment_type, location,
            quantity, hired_count, salary_range, description, requirements, benefits, deadline, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.ApplicationID,
		p.Title,
		p.Department,
		p.Level,
		p.EmploymentType,
		p.Location,
		p.Quantity,
		p.HiredCount,
		p.SalaryRange,
		p.Description,
		p.Requirements,
		p.Benefits,
		p.Deadline,
		p.Status,
		p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *positionRepository) Update(ctx context.Context, p *domain.Position) error {
	const query = `
        UPDATE positions SET title=$1, department=$2, level=$3, employment_type=$4, location=$5,
            quantity=$6, salary_range=$7, description=$8, requirements=$9, benefits=$10, deadline=$11,
            status=$12, updated_at=NOW()
        WHERE id=$13
        RETURNING hired_count, updated_at`
	return r.pool.QueryRow(ctx, query,
		p.Title,
		p.Department,
		p.Level,
		p.EmploymentType,
		p.Location,
		p.Quantity,
		p.SalaryRange,
		p.Description,
		p.Requirements,
		p.Benefits,
		p.Deadline,
		p.Status,
		p.ID,
	).Scan(&p.HiredCount, &p.UpdatedAt)
}

func (r *positionRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM positions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *positionRepository) GetByID(ctx context.Context, id string) (*domain.Position, error) {
	return r.fetchSingle(ctx, `SELECT `+positionColumns+` FROM positions WHERE id=$1`, id)
}

func (r *positionRepository) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Position, error) {
	return r.fetchSingle(ctx, `SELECT `+positionColumns+` FROM positions WHERE application_id=$1`, applicationID)
}

func (r *positionRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Position, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	positions, err := scanPositions(rows)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &positions[0], nil
}

func (r *positionRepository) List(ctx context.Context, filter PositionFilter) ([]domain.Position, error) {
	var w whereBuilder
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	w.addIn("status", statuses)
	if filter.Department != nil {
		w.add("department=%s", *filter.Department)
	}
	w.addSearch(filter.SearchTerm, "title", "department", "location")

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM positions WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		positionColumns, w.sql(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPositions(rows)
}

const (
	hireQuery = `
        UPDATE positions SET hired_count = hired_count + 1,
            status = CASE WHEN hired_count + 1 >= quantity THEN 'Đã tuyển đủ' ELSE status END,
            updated_at = NOW()
        WHERE id=$1 AND hired_count < quantity
        RETURNING ` + positionColumns

	releaseQuery = `
        UPDATE positions SET hired_count = GREATEST(hired_count - 1, 0),
            status = CASE WHEN status = 'Đã tuyển đủ' AND GREATEST(hired_count - 1, 0) < quantity
                THEN 'Đang tuyển' ELSE status END,
            updated_at = NOW()
        WHERE id=$1
        RETURNING ` + positionColumns
)

func (r *positionRepository) AdjustHiredCount(ctx context.Context, id string, delta int) (*domain.Position, error) {
	query := releaseQuery
	if delta > 0 {
		query = hireQuery
	}
	position, err := r.fetchSingle(ctx, query, id)
	if errors.Is(err, pgx.ErrNoRows) && delta > 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, ErrPositionFull
	}
	return position, err
}

func (r *positionRepository) CountByStatus(ctx context.Context) (map[domain.PositionStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM positions GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[domain.PositionStatus]int{}
	for rows.Next() {
		var status domain.PositionStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanPositions(rows pgx.Rows) ([]domain.Position, error) {
	var result []domain.Position
	for rows.Next() {
		var p domain.Position
		if err := rows.Scan(
			&p.ID,
			&p.ApplicationID,
			&p.Title,
			&p.Department,
			&p.Level,
			&p.EmploymentType,
			&p.Location,
			&p.Quantity,
			&p.HiredCount,
			&p.SalaryRange,
			&p.Description,
			&p.Requirements,
			&p.Benefits,
			&p.Deadline,
			&p.Status,
			&p.CreatedBy,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
