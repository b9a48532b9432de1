package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// EvaluationRepository encapsulates interview evaluation persistence.
type EvaluationRepository interface {
	// Upsert keeps a single evaluation per interviewer and interview.
	Upsert(ctx context.Context, evaluation *domain.Evaluation) error
	GetByInterviewAndEvaluator(ctx context.Context, interviewID, evaluatorID string) (*domain.Evaluation, error)
	ListByInterview(ctx context.Context, interviewID string) ([]domain.Evaluation, error)
	ListByCandidate(ctx context.Context, candidateID string) ([]domain.Evaluation, error)
}

type evaluationRepository struct {
	pool *pgxpool.Pool
}

// NewEvaluationRepository instantiates repository.
func NewEvaluationRepository(pool *pgxpool.Pool) EvaluationRepository {
	return &evaluationRepository{pool: pool}
}

const evaluationColumns = `id, interview_id, candidate_id, evaluator_id, scores, overall_score::float8, result,
    comment, created_at, updated_at`

func (r *evaluationRepository) Upsert(ctx context.Context, e *domain.Evaluation) error {
	const query = `
        INSERT INTO evaluations (interview_id, candidate_id, evaluator_id, scores, overall_score, result, comment)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (interview_id, evaluator_id) DO UPDATE
            SET scores = EXCLUDED.scores,
                overall_score = EXCLUDED.overall_score,
                result = EXCLUDED.result,
                comment = EXCLUDED.comment,
                updated_at = NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		e.InterviewID,
		e.CandidateID,
		e.EvaluatorID,
		e.Scores,
		e.OverallScore,
		e.Result,
		e.Comment,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *evaluationRepository) GetByInterviewAndEvaluator(ctx context.Context, interviewID, evaluatorID string) (*domain.Evaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE interview_id=$1 AND evaluator_id=$2`,
		interviewID, evaluatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	evals, err := scanEvaluations(rows)
	if err != nil {
		return nil, err
	}
	if len(evals) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &evals[0], nil
}

func (r *evaluationRepository) ListByInterview(ctx context.Context, interviewID string) ([]domain.Evaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE interview_id=$1 ORDER BY created_at ASC`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvaluations(rows)
}

func (r *evaluationRepository) ListByCandidate(ctx context.Context, candidateID string) ([]domain.Evaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+evaluationColumns+` FROM evaluations WHERE candidate_id=$1 ORDER BY created_at ASC`, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvaluations(rows)
}

func scanEvaluations(rows pgx.Rows) ([]domain.Evaluation, error) {
	var result []domain.Evaluation
	for rows.Next() {
		var e domain.Evaluation
		if err := rows.Scan(
			&e.ID,
			&e.InterviewID,
			&e.CandidateID,
			&e.EvaluatorID,
			&e.Scores,
			&e.OverallScore,
			&e.Result,
			&e.Comment,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
