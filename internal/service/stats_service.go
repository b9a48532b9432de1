package service

import (
	"context"
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const upcomingWindow = 7 * 24 * time.Hour

// Overview aggregates dashboard counters.
type Overview struct {
	ApplicationsByStatus map[domain.ApplicationStatus]int `json:"applications_by_status"`
	CandidatesByStage    map[domain.Stage]int             `json:"candidates_by_stage"`
	PositionsByStatus    map[domain.PositionStatus]int    `json:"positions_by_status"`
	OpenPositions        int                              `json:"open_positions"`
	UpcomingInterviews   int                              `json:"upcoming_interviews"`
}

// StatsService computes dashboard figures.
type StatsService struct {
	applications repository.ApplicationRepository
	positions    repository.PositionRepository
	candidates   repository.CandidateRepository
	interviews   repository.InterviewRepository
	now          func() time.Time
}

// StatsDependencies bundles repositories for stats service.
type StatsDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	PositionRepo    repository.PositionRepository
	CandidateRepo   repository.CandidateRepository
	InterviewRepo   repository.InterviewRepository
}

// NewStatsService constructs the service.
func NewStatsService(deps StatsDependencies) *StatsService {
	return &StatsService{
		applications: deps.ApplicationRepo,
		positions:    deps.PositionRepo,
		candidates:   deps.CandidateRepo,
		interviews:   deps.InterviewRepo,
		now:          time.Now,
	}
}

// Overview returns counters for the dashboard.
func (s *StatsService) Overview(ctx context.Context) (*Overview, error) {
	apps, err := s.applications.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	stages, err := s.candidates.CountByStage(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	positions, err := s.positions.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	now := s.now().UTC()
	upcoming, err := s.interviews.CountUpcoming(ctx, now, now.Add(upcomingWindow))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &Overview{
		ApplicationsByStatus: apps,
		CandidatesByStage:    stages,
		PositionsByStatus:    positions,
		OpenPositions:        positions[domain.PositionStatusOpen],
		UpcomingInterviews:   upcoming,
	}, nil
}
