package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hr-portal/recruitment-service/internal/document"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

// PositionService manages job positions.
type PositionService struct {
	positions   repository.PositionRepository
	candidates  repository.CandidateRepository
	companyName string
	now         func() time.Time
}

// PositionDependencies bundles repositories for position service.
type PositionDependencies struct {
	PositionRepo  repository.PositionRepository
	CandidateRepo repository.CandidateRepository
	CompanyName   string
}

// PositionInput describes the editable fields of a position.
type PositionInput struct {
	Title          string
	Department     string
	Level          string
	EmploymentType string
	Location       string
	Quantity       int
	SalaryRange    string
	Description    string
	Requirements   string
	Benefits       string
	Deadline       *time.Time
}

// NewPositionService constructs the service.
func NewPositionService(deps PositionDependencies) *PositionService {
	return &PositionService{
		positions:   deps.PositionRepo,
		candidates:  deps.CandidateRepo,
		companyName: deps.CompanyName,
		now:         time.Now,
	}
}

func canManagePositions(actor *domain.User) bool {
	return actor.HasRole(domain.RoleHRManager, domain.RoleRecruiter, domain.RoleAdmin)
}

func validatePosition(p *domain.Position) error {
	details := map[string]any{}
	if p.Title == "" {
		details["title"] = "required"
	}
	if p.Department == "" {
		details["department"] = "required"
	}
	if p.Quantity <= 0 {
		details["quantity"] = "must be greater than 0"
	}
	if p.Quantity > 0 && p.Quantity < p.HiredCount {
		details["quantity"] = fmt.Sprintf("must be at least %d (already hired)", p.HiredCount)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Dữ liệu vị trí tuyển dụng không hợp lệ", details)
	}
	return nil
}

func salaryRange(lo, hi *int64) string {
	switch {
	case lo != nil && hi != nil:
		return fmt.Sprintf("%d - %d", *lo, *hi)
	case lo != nil:
		return fmt.Sprintf("Từ %d", *lo)
	case hi != nil:
		return fmt.Sprintf("Đến %d", *hi)
	default:
		return "Thỏa thuận"
	}
}

func applyPositionInput(p *domain.Position, input PositionInput) {
	p.Title = strings.TrimSpace(input.Title)
	p.Department = strings.TrimSpace(input.Department)
	p.Level = strings.TrimSpace(input.Level)
	p.EmploymentType = strings.TrimSpace(input.EmploymentType)
	p.Location = strings.TrimSpace(input.Location)
	p.Quantity = input.Quantity
	p.SalaryRange = strings.TrimSpace(input.SalaryRange)
	p.Description = strings.TrimSpace(input.Description)
	p.Requirements = strings.TrimSpace(input.Requirements)
	p.Benefits = strings.TrimSpace(input.Benefits)
	p.Deadline = input.Deadline
}

// recomputeStatus keeps a non-closed position's status in line with its hired count.
func recomputeStatus(p *domain.Position) {
	if p.Status == domain.PositionStatusClosed {
		return
	}
	if p.IsFull() {
		p.Status = domain.PositionStatusFilled
	} else {
		p.Status = domain.PositionStatusOpen
	}
}

// Create opens a standalone position.
func (s *PositionService) Create(ctx context.Context, actor *domain.User, input PositionInput) (*domain.Position, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền tạo vị trí tuyển dụng")
	}
	p := &domain.Position{Status: domain.PositionStatusOpen, CreatedBy: actor.ID}
	applyPositionInput(p, input)
	if p.SalaryRange == "" {
		p.SalaryRange = salaryRange(nil, nil)
	}
	if err := validatePosition(p); err != nil {
		return nil, err
	}
	if err := s.positions.Create(ctx, p); err != nil {
		return nil, apperrors.MapError(err)
	}
	return p, nil
}

// Get returns a position by id.
func (s *PositionService) Get(ctx context.Context, id string) (*domain.Position, error) {
	p, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "vị trí tuyển dụng", map[string]any{"position_id": id})
	}
	return p, nil
}

// List returns positions matching filter.
func (s *PositionService) List(ctx context.Context, filter repository.PositionFilter) ([]domain.Position, error) {
	positions, err := s.positions.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return positions, nil
}

// Update edits a position. Quantity may not drop below the hired count.
func (s *PositionService) Update(ctx context.Context, actor *domain.User, id string, input PositionInput) (*domain.Position, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền cập nhật vị trí tuyển dụng")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyPositionInput(p, input)
	if err := validatePosition(p); err != nil {
		return nil, err
	}
	recomputeStatus(p)
	if err := s.positions.Update(ctx, p); err != nil {
		return nil, apperrors.NotFoundOr(err, "vị trí tuyển dụng", map[string]any{"position_id": id})
	}
	return p, nil
}

// Close stops a position from accepting candidates.
func (s *PositionService) Close(ctx context.Context, actor *domain.User, id string) (*domain.Position, error) {
	return s.setClosed(ctx, actor, id, true)
}

// Reopen resumes a closed position.
func (s *PositionService) Reopen(ctx context.Context, actor *domain.User, id string) (*domain.Position, error) {
	return s.setClosed(ctx, actor, id, false)
}

func (s *PositionService) setClosed(ctx context.Context, actor *domain.User, id string, closed bool) (*domain.Position, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền cập nhật vị trí tuyển dụng")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	isClosed := p.Status == domain.PositionStatusClosed
	if closed == isClosed {
		return nil, apperrors.NewConflict("Vị trí đã ở trạng thái này", map[string]any{"status": p.Status})
	}
	if closed {
		p.Status = domain.PositionStatusClosed
	} else {
		p.Status = domain.PositionStatusOpen
		recomputeStatus(p)
	}
	if err := s.positions.Update(ctx, p); err != nil {
		return nil, apperrors.MapError(err)
	}
	return p, nil
}

// Delete removes a position that has no candidates.
func (s *PositionService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !actor.HasRole(domain.RoleHRManager, domain.RoleAdmin) {
		return apperrors.NewForbidden("Bạn không có quyền xóa vị trí tuyển dụng")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	count, err := s.candidates.CountByPosition(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("Không thể xóa vị trí đã có ứng viên", map[string]any{"candidates": count})
	}
	return apperrors.NotFoundOr(s.positions.Delete(ctx, id), "vị trí tuyển dụng", nil)
}

// RenderJD writes the position's job description document to w and returns the file name.
func (s *PositionService) RenderJD(ctx context.Context, id string, w io.Writer) (string, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := document.RenderJD(w, p, s.companyName, s.now()); err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return document.JDFilename(p), nil
}
