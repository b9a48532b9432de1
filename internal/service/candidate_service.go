package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/document"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/storage"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const exportPageSize = 200

var fieldValidator = validator.New()

// CandidateService manages candidates and their pipeline stage.
type CandidateService struct {
	candidates repository.CandidateRepository
	positions  repository.PositionRepository
	files      storage.FileStorage
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// CandidateDependencies bundles collaborators for candidate service.
type CandidateDependencies struct {
	CandidateRepo repository.CandidateRepository
	PositionRepo  repository.PositionRepository
	Storage       storage.FileStorage
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// CandidateInput describes editable candidate fields.
type CandidateInput struct {
	PositionID string
	FullName   string
	Email      string
	Phone      string
	Source     string
	Notes      string
	AppliedAt  *time.Time
}

// NewCandidateService constructs the service.
func NewCandidateService(deps CandidateDependencies) *CandidateService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateService{
		candidates: deps.CandidateRepo,
		positions:  deps.PositionRepo,
		files:      deps.Storage,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

func validateCandidateInput(input CandidateInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.PositionID) == "" {
		details["position_id"] = "required"
	}
	if strings.TrimSpace(input.FullName) == "" {
		details["full_name"] = "required"
	}
	if err := fieldValidator.Var(strings.TrimSpace(input.Email), "required,email"); err != nil {
		details["email"] = "must be a valid email"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Dữ liệu ứng viên không hợp lệ", details)
	}
	return nil
}

// Create adds a candidate to an open position.
func (s *CandidateService) Create(ctx context.Context, actor *domain.User, input CandidateInput) (*domain.Candidate, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền thêm ứng viên")
	}
	if err := validateCandidateInput(input); err != nil {
		return nil, err
	}
	position, err := s.positions.GetByID(ctx, input.PositionID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "vị trí tuyển dụng", map[string]any{"position_id": input.PositionID})
	}
	if position.Status == domain.PositionStatusClosed {
		return nil, apperrors.NewConflict("Vị trí đã đóng, không thể thêm ứng viên", map[string]any{"position_id": position.ID})
	}

	c := &domain.Candidate{
		PositionID: position.ID,
		FullName:   strings.TrimSpace(input.FullName),
		Email:      strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:      strings.TrimSpace(input.Phone),
		Source:     strings.TrimSpace(input.Source),
		Notes:      strings.TrimSpace(input.Notes),
		Stage:      domain.StageNew,
		Status:     domain.StatusForStage(domain.StageNew),
		AppliedAt:  s.now().UTC(),
	}
	if input.AppliedAt != nil {
		c.AppliedAt = input.AppliedAt.UTC()
	}
	if err := s.candidates.Create(ctx, c); err != nil {
		return nil, apperrors.MapError(err)
	}
	return c, nil
}

// Get returns a candidate by id.
func (s *CandidateService) Get(ctx context.Context, id string) (*domain.Candidate, error) {
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "ứng viên", map[string]any{"candidate_id": id})
	}
	return c, nil
}

// List returns candidates matching filter.
func (s *CandidateService) List(ctx context.Context, filter repository.CandidateFilter) ([]domain.Candidate, error) {
	list, err := s.candidates.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Update edits candidate details. Moving a hired candidate to another position is refused.
func (s *CandidateService) Update(ctx context.Context, actor *domain.User, id string, input CandidateInput) (*domain.Candidate, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền cập nhật ứng viên")
	}
	if err := validateCandidateInput(input); err != nil {
		return nil, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.PositionID != c.PositionID {
		if c.Stage == domain.StageHired {
			return nil, apperrors.NewConflict("Không thể chuyển vị trí của ứng viên đã tuyển", nil)
		}
		if _, err := s.positions.GetByID(ctx, input.PositionID); err != nil {
			return nil, apperrors.NotFoundOr(err, "vị trí tuyển dụng", map[string]any{"position_id": input.PositionID})
		}
		c.PositionID = input.PositionID
	}
	c.FullName = strings.TrimSpace(input.FullName)
	c.Email = strings.ToLower(strings.TrimSpace(input.Email))
	c.Phone = strings.TrimSpace(input.Phone)
	c.Source = strings.TrimSpace(input.Source)
	c.Notes = strings.TrimSpace(input.Notes)
	if input.AppliedAt != nil {
		c.AppliedAt = input.AppliedAt.UTC()
	}
	if err := s.candidates.Update(ctx, c); err != nil {
		return nil, apperrors.NotFoundOr(err, "ứng viên", map[string]any{"candidate_id": id})
	}
	return c, nil
}

// UpdateStatus moves a candidate to stage. Entering hired takes a seat on the position and
// leaving hired releases it; the position's hired count never exceeds its quantity or drops
// below zero.
func (s *CandidateService) UpdateStatus(ctx context.Context, actor *domain.User, id string, stage domain.Stage) (*domain.Candidate, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền cập nhật trạng thái ứng viên")
	}
	if !stage.IsValid() {
		return nil, apperrors.NewValidationError("Trạng thái ứng viên không hợp lệ",
			map[string]any{"stage": stage, "allowed": domain.Stages})
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStage := c.Stage
	if oldStage == stage {
		return c, nil
	}

	delta := 0
	switch {
	case stage == domain.StageHired:
		delta = 1
	case oldStage == domain.StageHired:
		delta = -1
	}
	if delta != 0 {
		if _, err := s.positions.AdjustHiredCount(ctx, c.PositionID, delta); err != nil {
			if errors.Is(err, repository.ErrPositionFull) {
				return nil, apperrors.NewConflict("Vị trí đã tuyển đủ số lượng", map[string]any{"position_id": c.PositionID})
			}
			return nil, apperrors.NotFoundOr(err, "vị trí tuyển dụng", map[string]any{"position_id": c.PositionID})
		}
	}

	c.Stage = stage
	c.Status = domain.StatusForStage(stage)
	if err := s.candidates.Update(ctx, c); err != nil {
		if delta != 0 {
			if _, rbErr := s.positions.AdjustHiredCount(ctx, c.PositionID, -delta); rbErr != nil {
				s.logger.Error("unable to revert hired count",
					zap.String("position_id", c.PositionID),
					zap.Int("delta", -delta),
					zap.Error(rbErr),
				)
			}
		}
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.New(events.EventCandidateStageChanged, c.ID, actorID(actor),
		events.CandidateStageChangedPayload{Candidate: c, OldStage: oldStage, NewStage: stage}))
	return c, nil
}

// advanceToInterview moves a candidate forward to the stage matching an interview round.
// Candidates already at or past that stage are left alone.
func (s *CandidateService) advanceToInterview(ctx context.Context, actor *domain.User, c *domain.Candidate, round int) {
	target := domain.StageForRound(round)
	if c.Stage.Rank() >= target.Rank() {
		return
	}
	if _, err := s.UpdateStatus(ctx, actor, c.ID, target); err != nil {
		s.logger.Warn("unable to advance candidate stage",
			zap.String("candidate_id", c.ID),
			zap.String("stage", string(target)),
			zap.Error(err),
		)
		return
	}
	c.Stage = target
	c.Status = domain.StatusForStage(target)
}

// Delete removes a candidate, releasing a hired seat and the stored CV.
func (s *CandidateService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !actor.HasRole(domain.RoleHRManager, domain.RoleAdmin) {
		return apperrors.NewForbidden("Bạn không có quyền xóa ứng viên")
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.candidates.Delete(ctx, id); err != nil {
		return apperrors.NotFoundOr(err, "ứng viên", nil)
	}
	if c.Stage == domain.StageHired {
		if _, err := s.positions.AdjustHiredCount(ctx, c.PositionID, -1); err != nil {
			s.logger.Warn("unable to release hired seat", zap.String("position_id", c.PositionID), zap.Error(err))
		}
	}
	s.deleteFile(ctx, c.CVPublicID)
	return nil
}

func (s *CandidateService) deleteFile(ctx context.Context, publicID string) {
	if publicID == "" || s.files == nil {
		return
	}
	if err := s.files.Delete(ctx, publicID); err != nil {
		s.logger.Warn("unable to delete stored cv", zap.String("public_id", publicID), zap.Error(err))
	}
}

// UploadCV stores a new CV for the candidate and removes the previous file.
func (s *CandidateService) UploadCV(ctx context.Context, actor *domain.User, id, filename string, body io.Reader) (*domain.Candidate, error) {
	if !canManagePositions(actor) {
		return nil, apperrors.NewForbidden("Bạn không có quyền tải CV")
	}
	if s.files == nil {
		return nil, apperrors.NewUnavailable("Chưa cấu hình lưu trữ tệp")
	}
	if !storage.AllowedCVExtension(filename) {
		return nil, apperrors.NewValidationError("Chỉ chấp nhận tệp PDF, DOC hoặc DOCX", map[string]any{"filename": filename})
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := s.files.Upload(ctx, filename, body)
	if err != nil {
		s.logger.Error("cv upload failed", zap.String("candidate_id", id), zap.Error(err))
		return nil, apperrors.NewUnavailable("Không thể tải CV lên")
	}
	previous := c.CVPublicID
	c.CVURL = stored.URL
	c.CVPublicID = stored.PublicID
	if err := s.candidates.Update(ctx, c); err != nil {
		s.deleteFile(ctx, stored.PublicID)
		return nil, apperrors.MapError(err)
	}
	if previous != stored.PublicID {
		s.deleteFile(ctx, previous)
	}
	return c, nil
}

// CVPreview returns an embeddable viewer URL for the candidate's CV.
func (s *CandidateService) CVPreview(ctx context.Context, id string) (string, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if c.CVURL == "" {
		return "", apperrors.NewNotFound("CV", map[string]any{"candidate_id": id})
	}
	return storage.PreviewURL(c.CVURL), nil
}

// Export writes every candidate matching filter to an XLSX workbook.
func (s *CandidateService) Export(ctx context.Context, filter repository.CandidateFilter, w io.Writer) error {
	var all []domain.Candidate
	filter.Limit = exportPageSize
	filter.Offset = 0
	for {
		page, err := s.candidates.List(ctx, filter)
		if err != nil {
			return apperrors.MapError(err)
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}

	titles := make(map[string]string)
	for _, c := range all {
		if _, ok := titles[c.PositionID]; ok {
			continue
		}
		p, err := s.positions.GetByID(ctx, c.PositionID)
		if err != nil {
			titles[c.PositionID] = ""
			continue
		}
		titles[c.PositionID] = p.Title
	}
	if err := document.WriteCandidatesWorkbook(w, all, titles); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
