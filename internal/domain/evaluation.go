package domain

import "time"

// EvaluationResult is the interviewer's verdict.
type EvaluationResult string

const (
	EvaluationPass     EvaluationResult = "Đạt"
	EvaluationFail     EvaluationResult = "Không đạt"
	EvaluationConsider EvaluationResult = "Cân nhắc"
)

// IsValid reports whether r is a known result.
func (r EvaluationResult) IsValid() bool {
	switch r {
	case EvaluationPass, EvaluationFail, EvaluationConsider:
		return true
	default:
		return false
	}
}

// CriterionScore is a 1..5 score for one criterion.
type CriterionScore struct {
	Criterion string `json:"criterion"`
	Score     int    `json:"score"`
}

// Evaluation is one interviewer's assessment of a candidate in an interview.
type Evaluation struct {
	ID           string
	InterviewID  string
	CandidateID  string
	EvaluatorID  string
	Scores       []CriterionScore
	OverallScore float64
	Result       EvaluationResult
	Comment      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AverageScore returns the mean of scores, or zero when empty.
func AverageScore(scores []CriterionScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0
	for _, s := range scores {
		total += s.Score
	}
	avg := float64(total) / float64(len(scores))
	return float64(int(avg*100+0.5)) / 100
}
