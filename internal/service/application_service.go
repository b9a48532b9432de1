package service

import (
	"context"
	"strings"
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

// ApplicationService coordinates recruitment request workflows.
type ApplicationService struct {
	applications repository.ApplicationRepository
	history      repository.ApplicationHistoryRepository
	comments     repository.CommentRepository
	positions    repository.PositionRepository
	dispatcher   events.Dispatcher
	now          func() time.Time
}

// ApplicationDependencies bundles repositories for application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	HistoryRepo     repository.ApplicationHistoryRepository
	CommentRepo     repository.CommentRepository
	PositionRepo    repository.PositionRepository
	Dispatcher      events.Dispatcher
}

// ApplicationInput describes the editable fields of a recruitment request.
type ApplicationInput struct {
	Title             string
	Department        string
	Quantity          int
	Reason            string
	Description       string
	Requirements      string
	SalaryMin         *int64
	SalaryMax         *int64
	ExpectedStartDate *time.Time
}

// transitionRule lists who may move a request between two statuses. creator allows the
// request author in addition to roles.
type transitionRule struct {
	roles   []domain.Role
	creator bool
}

var allowedTransitions = map[domain.ApplicationStatus]map[domain.ApplicationStatus]transitionRule{
	domain.ApplicationStatusDraft: {
		domain.ApplicationStatusSubmitted: {creator: true},
	},
	domain.ApplicationStatusSubmitted: {
		domain.ApplicationStatusReviewing: {roles: []domain.Role{domain.RoleHRManager}},
		domain.ApplicationStatusRejected:  {roles: []domain.Role{domain.RoleHRManager, domain.RoleCEO}},
	},
	domain.ApplicationStatusReviewing: {
		domain.ApplicationStatusApproved: {roles: []domain.Role{domain.RoleCEO}},
		domain.ApplicationStatusRejected: {roles: []domain.Role{domain.RoleHRManager, domain.RoleCEO}},
	},
	domain.ApplicationStatusRejected: {
		domain.ApplicationStatusDraft: {creator: true},
	},
	domain.ApplicationStatusApproved: {},
}

func isValidTransition(current, next domain.ApplicationStatus) bool {
	_, ok := allowedTransitions[current][next]
	return ok
}

func canTransition(actor *domain.User, app *domain.Application, next domain.ApplicationStatus) bool {
	rule, ok := allowedTransitions[app.Status][next]
	if !ok {
		return false
	}
	if isAdmin(actor) {
		return true
	}
	if rule.creator && actor.ID == app.CreatedBy {
		return true
	}
	return actor.HasRole(rule.roles...)
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		history:      deps.HistoryRepo,
		comments:     deps.CommentRepo,
		positions:    deps.PositionRepo,
		dispatcher:   deps.Dispatcher,
		now:          time.Now,
	}
}

func validateApplicationInput(input ApplicationInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Title) == "" {
		details["title"] = "required"
	}
	if strings.TrimSpace(input.Department) == "" {
		details["department"] = "required"
	}
	if input.Quantity <= 0 {
		details["quantity"] = "must be greater than 0"
	}
	if input.SalaryMin != nil && *input.SalaryMin < 0 {
		details["salary_min"] = "must not be negative"
	}
	if input.SalaryMin != nil && input.SalaryMax != nil && *input.SalaryMin > *input.SalaryMax {
		details["salary_max"] = "must be greater than or equal to salary_min"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Dữ liệu yêu cầu tuyển dụng không hợp lệ", details)
	}
	return nil
}

func applyApplicationInput(app *domain.Application, input ApplicationInput) {
	app.Title = strings.TrimSpace(input.Title)
	app.Department = strings.TrimSpace(input.Department)
	app.Quantity = input.Quantity
	app.Reason = strings.TrimSpace(input.Reason)
	app.Description = strings.TrimSpace(input.Description)
	app.Requirements = strings.TrimSpace(input.Requirements)
	app.SalaryMin = input.SalaryMin
	app.SalaryMax = input.SalaryMax
	app.ExpectedStartDate = input.ExpectedStartDate
}

// Create opens a new request in draft status.
func (s *ApplicationService) Create(ctx context.Context, actor *domain.User, input ApplicationInput) (*domain.Application, error) {
	if !actor.HasRole(domain.RoleDepartmentHead, domain.RoleHRManager, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("Bạn không có quyền tạo yêu cầu tuyển dụng")
	}
	if strings.TrimSpace(input.Department) == "" {
		input.Department = actor.Department
	}
	if err := validateApplicationInput(input); err != nil {
		return nil, err
	}
	app := &domain.Application{
		Code:      generateApplicationCode(),
		Status:    domain.ApplicationStatusDraft,
		CreatedBy: actor.ID,
	}
	applyApplicationInput(app, input)
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, apperrors.MapError(err)
	}
	return app, nil
}

// Get returns a request visible to actor.
func (s *ApplicationService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "yêu cầu tuyển dụng", map[string]any{"application_id": id})
	}
	if !canView(actor, app) {
		return nil, apperrors.NewForbidden("Bạn không có quyền xem yêu cầu tuyển dụng này")
	}
	return app, nil
}

// department heads only see their own requests
func canView(actor *domain.User, app *domain.Application) bool {
	if actor.HasRole(domain.RoleDepartmentHead) {
		return app.CreatedBy == actor.ID
	}
	return true
}

// List returns requests; department heads are scoped to their own.
func (s *ApplicationService) List(ctx context.Context, actor *domain.User, filter repository.ApplicationFilter) ([]domain.Application, error) {
	if actor.HasRole(domain.RoleDepartmentHead) {
		id := actor.ID
		filter.CreatedBy = &id
	}
	apps, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return apps, nil
}

func (s *ApplicationService) getEditable(ctx context.Context, actor *domain.User, id string) (*domain.Application, error) {
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if app.CreatedBy != actor.ID && !isAdmin(actor) {
		return nil, apperrors.NewForbidden("Chỉ người tạo được chỉnh sửa yêu cầu tuyển dụng")
	}
	if app.Status != domain.ApplicationStatusDraft {
		return nil, apperrors.NewConflict("Chỉ chỉnh sửa được yêu cầu ở trạng thái Chờ nộp",
			map[string]any{"status": app.Status})
	}
	return app, nil
}

// Update edits a draft request.
func (s *ApplicationService) Update(ctx context.Context, actor *domain.User, id string, input ApplicationInput) (*domain.Application, error) {
	app, err := s.getEditable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Department) == "" {
		input.Department = app.Department
	}
	if err := validateApplicationInput(input); err != nil {
		return nil, err
	}
	applyApplicationInput(app, input)
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, apperrors.MapError(err)
	}
	return app, nil
}

// Delete removes a draft request.
func (s *ApplicationService) Delete(ctx context.Context, actor *domain.User, id string) error {
	app, err := s.getEditable(ctx, actor, id)
	if err != nil {
		return err
	}
	return apperrors.NotFoundOr(s.applications.Delete(ctx, app.ID), "yêu cầu tuyển dụng", nil)
}

// Submit sends a draft for HR review.
func (s *ApplicationService) Submit(ctx context.Context, actor *domain.User, id, comment string) (*domain.Application, error) {
	return s.Transition(ctx, actor, id, domain.ApplicationStatusSubmitted, comment)
}

// StartReview marks a submitted request as under review.
func (s *ApplicationService) StartReview(ctx context.Context, actor *domain.User, id, comment string) (*domain.Application, error) {
	return s.Transition(ctx, actor, id, domain.ApplicationStatusReviewing, comment)
}

// Approve accepts a reviewed request.
func (s *ApplicationService) Approve(ctx context.Context, actor *domain.User, id, comment string) (*domain.Application, error) {
	return s.Transition(ctx, actor, id, domain.ApplicationStatusApproved, comment)
}

// Reject declines a request; reason is mandatory.
func (s *ApplicationService) Reject(ctx context.Context, actor *domain.User, id, reason string) (*domain.Application, error) {
	return s.Transition(ctx, actor, id, domain.ApplicationStatusRejected, reason)
}

// Reopen moves a rejected request back to draft.
func (s *ApplicationService) Reopen(ctx context.Context, actor *domain.User, id, comment string) (*domain.Application, error) {
	return s.Transition(ctx, actor, id, domain.ApplicationStatusDraft, comment)
}

// Transition applies a status change after checking the transition table and the actor's
// permission, records history and publishes an event.
func (s *ApplicationService) Transition(ctx context.Context, actor *domain.User, id string, next domain.ApplicationStatus, comment string) (*domain.Application, error) {
	if !next.IsValid() {
		return nil, apperrors.NewValidationError("Trạng thái không hợp lệ", map[string]any{"status": next})
	}
	comment = strings.TrimSpace(comment)
	if next == domain.ApplicationStatusRejected && comment == "" {
		return nil, apperrors.NewValidationError("Vui lòng nhập lý do từ chối", map[string]any{"field": "reason"})
	}

	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(app.Status, next) {
		return nil, apperrors.NewConflict("Không thể chuyển trạng thái yêu cầu tuyển dụng",
			map[string]any{"from": app.Status, "to": next})
	}
	if !canTransition(actor, app, next) {
		return nil, apperrors.NewForbidden("Bạn không có quyền chuyển yêu cầu sang trạng thái này")
	}

	oldStatus := app.Status
	now := s.now().UTC()
	app.Status = next
	switch next {
	case domain.ApplicationStatusSubmitted:
		app.SubmittedAt = &now
		app.RejectReason = ""
	case domain.ApplicationStatusReviewing:
		app.ReviewedBy = &actor.ID
	case domain.ApplicationStatusApproved:
		app.ApprovedBy = &actor.ID
		app.ApprovedAt = &now
	case domain.ApplicationStatusRejected:
		app.RejectReason = comment
	case domain.ApplicationStatusDraft:
		app.SubmittedAt = nil
		app.ReviewedBy = nil
	}

	if err := s.applications.Update(ctx, app); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.history.Create(ctx, &domain.ApplicationHistory{
		ApplicationID: app.ID,
		ChangedBy:     actor.ID,
		OldStatus:     oldStatus,
		NewStatus:     next,
		Comment:       comment,
	}); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.New(events.EventApplicationStatusChanged, app.ID, actor.ID,
		events.ApplicationStatusChangedPayload{
			Application: app,
			OldStatus:   oldStatus,
			NewStatus:   next,
			Comment:     comment,
		}))
	return app, nil
}

// History lists status changes of a request.
func (s *ApplicationService) History(ctx context.Context, actor *domain.User, id string) ([]domain.ApplicationHistory, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByApplication(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// AddComment posts a comment on a request.
func (s *ApplicationService) AddComment(ctx context.Context, actor *domain.User, id, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("Nội dung bình luận không được để trống", nil)
	}
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		ApplicationID: app.ID,
		AuthorID:      actor.ID,
		AuthorName:    actor.Name,
		Content:       content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}
	publishEvent(ctx, s.dispatcher, events.New(events.EventApplicationCommented, app.ID, actor.ID,
		events.ApplicationCommentedPayload{Application: app, Comment: comment}))
	return comment, nil
}

// ListComments lists comments on a request.
func (s *ApplicationService) ListComments(ctx context.Context, actor *domain.User, id string) ([]domain.Comment, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByApplication(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return comments, nil
}

// DeleteComment removes a comment; only its author or an admin may do so.
func (s *ApplicationService) DeleteComment(ctx context.Context, actor *domain.User, applicationID, commentID string) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return apperrors.NotFoundOr(err, "bình luận", map[string]any{"comment_id": commentID})
	}
	if comment.ApplicationID != applicationID {
		return apperrors.NewNotFound("bình luận", map[string]any{"comment_id": commentID})
	}
	if comment.AuthorID != actor.ID && !isAdmin(actor) {
		return apperrors.NewForbidden("Chỉ người viết được xóa bình luận")
	}
	return apperrors.NotFoundOr(s.comments.Delete(ctx, commentID), "bình luận", nil)
}

// CreatePosition opens a position from an approved request. Each request yields at most one
// position.
func (s *ApplicationService) CreatePosition(ctx context.Context, actor *domain.User, id string, input PositionInput) (*domain.Position, error) {
	if !actor.HasRole(domain.RoleHRManager, domain.RoleRecruiter, domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("Bạn không có quyền tạo vị trí tuyển dụng")
	}
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusApproved {
		return nil, apperrors.NewConflict("Yêu cầu tuyển dụng chưa được duyệt", map[string]any{"status": app.Status})
	}
	if existing, err := s.positions.GetByApplicationID(ctx, app.ID); err == nil {
		return nil, apperrors.NewConflict("Yêu cầu tuyển dụng đã có vị trí", map[string]any{"position_id": existing.ID})
	} else if !apperrors.IsNoRows(err) {
		return nil, apperrors.MapError(err)
	}

	position := positionFromApplication(app, input)
	position.CreatedBy = actor.ID
	if err := validatePosition(position); err != nil {
		return nil, err
	}
	if err := s.positions.Create(ctx, position); err != nil {
		return nil, apperrors.MapError(err)
	}
	return position, nil
}

func positionFromApplication(app *domain.Application, input PositionInput) *domain.Position {
	appID := app.ID
	p := &domain.Position{
		ApplicationID:  &appID,
		Title:          firstNonEmpty(input.Title, app.Title),
		Department:     firstNonEmpty(input.Department, app.Department),
		Level:          strings.TrimSpace(input.Level),
		EmploymentType: strings.TrimSpace(input.EmploymentType),
		Location:       strings.TrimSpace(input.Location),
		Quantity:       input.Quantity,
		SalaryRange:    strings.TrimSpace(input.SalaryRange),
		Description:    firstNonEmpty(input.Description, app.Description),
		Requirements:   firstNonEmpty(input.Requirements, app.Requirements),
		Benefits:       strings.TrimSpace(input.Benefits),
		Deadline:       input.Deadline,
		Status:         domain.PositionStatusOpen,
	}
	if p.Quantity <= 0 {
		p.Quantity = app.Quantity
	}
	if p.SalaryRange == "" {
		p.SalaryRange = salaryRange(app.SalaryMin, app.SalaryMax)
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
