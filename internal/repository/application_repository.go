package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// ApplicationFilter captures recruitment request search parameters.
type ApplicationFilter struct {
	CreatedBy   *string
	Department  *string
	Statuses    []domain.ApplicationStatus
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// ApplicationRepository encapsulates recruitment request persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	Update(ctx context.Context, app *domain.Application) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
	CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error)
}

type applicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, code, title, department, quantity, reason, description, requirements,
    salary_min, salary_max, expected_start_date, status, reject_reason, created_by, reviewed_by,
    approved_by, submitted_at, approved_at, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	const query = `
        INSERT INTO applications (code, title, department, quantity, reason, description, requirements,
            salary_min, salary_max, expected_start_date, status, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		app.Code,
		app.Title,
		app.Department,
		app.Quantity,
		app.Reason,
		app.Description,
		app.Requirements,
		app.SalaryMin,
		app.SalaryMax,
		app.ExpectedStartDate,
		app.Status,
		app.CreatedBy,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	const query = `
        UPDATE applications SET title=$1, department=$2, quantity=$3, reason=$4, description=$5,
            requirements=$6, salary_min=$7, salary_max=$8, expected_start_date=$9, status=$10,
            reject_reason=$11, reviewed_by=$12, approved_by=$13, submitted_at=$14, approved_at=$15,
            updated_at=NOW()
        WHERE id=$16
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		app.Title,
		app.Department,
		app.Quantity,
		app.Reason,
		app.Description,
		app.Requirements,
		app.SalaryMin,
		app.SalaryMax,
		app.ExpectedStartDate,
		app.Status,
		app.RejectReason,
		app.ReviewedBy,
		app.ApprovedBy,
		app.SubmittedAt,
		app.ApprovedAt,
		app.ID,
	).Scan(&app.UpdatedAt)
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM applications WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	apps, err := scanApplications(rows)
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &apps[0], nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error) {
	var w whereBuilder
	if filter.CreatedBy != nil {
		w.add("created_by=%s", *filter.CreatedBy)
	}
	if filter.Department != nil {
		w.add("department=%s", *filter.Department)
	}
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}
	w.addIn("status", statuses)
	if filter.CreatedFrom != nil {
		w.add("created_at >= %s", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		w.add("created_at <= %s", *filter.CreatedTo)
	}
	w.addSearch(filter.SearchTerm, "title", "code", "department")

	limit, offset := pageBounds(filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		applicationColumns, w.sql(), limit, offset)

	rows, err := r.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanApplications(rows)
}

func (r *applicationRepository) CountByStatus(ctx context.Context) (map[domain.ApplicationStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[domain.ApplicationStatus]int{}
	for rows.Next() {
		var status domain.ApplicationStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func scanApplications(rows pgx.Rows) ([]domain.Application, error) {
	var result []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID,
			&app.Code,
			&app.Title,
			&app.Department,
			&app.Quantity,
			&app.Reason,
			&app.Description,
			&app.Requirements,
			&app.SalaryMin,
			&app.SalaryMax,
			&app.ExpectedStartDate,
			&app.Status,
			&app.RejectReason,
			&app.CreatedBy,
			&app.ReviewedBy,
			&app.ApprovedBy,
			&app.SubmittedAt,
			&app.ApprovedAt,
			&app.CreatedAt,
			&app.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, app)
	}
	return result, rows.Err()
}
