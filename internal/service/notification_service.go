package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/mail"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const notificationTitleLimit = 120

// NotificationService turns domain events into in-app notifications and candidate email, and
// serves each user's notification inbox.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	positions     repository.PositionRepository
	emails        *EmailService
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NotificationDependencies bundles collaborators for notification service.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	PositionRepo     repository.PositionRepository
	Emails           *EmailService
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		positions:     deps.PositionRepo,
		emails:        deps.Emails,
		dispatcher:    deps.Dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n == nil || n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApplicationStatusChanged, n.handleApplicationStatusChanged)
	n.dispatcher.Subscribe(events.EventApplicationCommented, n.handleApplicationCommented)
	n.dispatcher.Subscribe(events.EventCandidateStageChanged, n.handleCandidateStageChanged)
	n.dispatcher.Subscribe(events.EventInterviewScheduled, n.handleInterviewScheduled)
	n.dispatcher.Subscribe(events.EventInterviewRescheduled, n.handleInterviewScheduled)
	n.dispatcher.Subscribe(events.EventInterviewCancelled, n.handleInterviewCancelled)
	n.dispatcher.Subscribe(events.EventInterviewReminderDue, n.handleInterviewReminder)
	n.dispatcher.Subscribe(events.EventEvaluationSubmitted, n.handleEvaluationSubmitted)
}

func (n *NotificationService) handleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationStatusChangedPayload)
	if !ok || payload.Application == nil {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	app := payload.Application
	link := "/applications/" + app.ID
	switch payload.NewStatus {
	case domain.ApplicationStatusSubmitted:
		return n.notifyRoles(ctx, []domain.Role{domain.RoleHRManager}, event.ActorID, domain.Notification{
			Type:    domain.NotificationApplication,
			Title:   "Yêu cầu tuyển dụng mới cần xem xét",
			Message: fmt.Sprintf("%s - %s (%s) đã được nộp", app.Code, app.Title, app.Department),
			Link:    link,
			RefID:   app.ID,
		})
	case domain.ApplicationStatusReviewing:
		return n.notifyRoles(ctx, []domain.Role{domain.RoleCEO}, event.ActorID, domain.Notification{
			Type:    domain.NotificationApplication,
			Title:   "Yêu cầu tuyển dụng chờ phê duyệt",
			Message: fmt.Sprintf("%s - %s đang chờ Giám đốc duyệt", app.Code, app.Title),
			Link:    link,
			RefID:   app.ID,
		})
	case domain.ApplicationStatusApproved, domain.ApplicationStatusRejected:
		message := fmt.Sprintf("%s - %s: %s", app.Code, app.Title, payload.NewStatus)
		if payload.Comment != "" {
			message += ". " + payload.Comment
		}
		return n.notifyUsers(ctx, []string{app.CreatedBy}, event.ActorID, domain.Notification{
			Type:    domain.NotificationApplication,
			Title:   fmt.Sprintf("Yêu cầu tuyển dụng %s", payload.NewStatus),
			Message: message,
			Link:    link,
			RefID:   app.ID,
		})
	}
	return nil
}

func (n *NotificationService) handleApplicationCommented(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationCommentedPayload)
	if !ok || payload.Application == nil || payload.Comment == nil {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	return n.notifyUsers(ctx, []string{payload.Application.CreatedBy}, event.ActorID, domain.Notification{
		Type:    domain.NotificationComment,
		Title:   fmt.Sprintf("%s bình luận về %s", payload.Comment.AuthorName, payload.Application.Code),
		Message: stringPreview(payload.Comment.Content, 200),
		Link:    "/applications/" + payload.Application.ID,
		RefID:   payload.Application.ID,
	})
}

func (n *NotificationService) handleCandidateStageChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CandidateStageChangedPayload)
	if !ok || payload.Candidate == nil {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	if payload.NewStage != domain.StageHired {
		return nil
	}
	title := ""
	if p, err := n.positions.GetByID(ctx, payload.Candidate.PositionID); err == nil {
		title = p.Title
	}
	return n.notifyRoles(ctx, []domain.Role{domain.RoleHRManager}, event.ActorID, domain.Notification{
		Type:    domain.NotificationCandidate,
		Title:   "Ứng viên đã được tuyển",
		Message: fmt.Sprintf("%s đã được tuyển cho vị trí %s", payload.Candidate.FullName, title),
		Link:    "/candidates/" + payload.Candidate.ID,
		RefID:   payload.Candidate.ID,
	})
}

func (n *NotificationService) handleInterviewScheduled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InterviewPayload)
	if !ok || payload.Interview == nil {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	interview := payload.Interview
	title := "Bạn có lịch phỏng vấn mới"
	if event.Type == events.EventInterviewRescheduled {
		title = "Lịch phỏng vấn đã thay đổi"
	}
	err := n.notifyUsers(ctx, interview.InterviewerIDs, "", domain.Notification{
		Type:    domain.NotificationInterview,
		Title:   title,
		Message: fmt.Sprintf("%s lúc %s", interview.Title, interview.StartTime.Format("15:04 02/01/2006")),
		Link:    "/interviews/" + interview.ID,
		RefID:   interview.ID,
	})

	if payload.Candidate != nil && n.emails != nil {
		data := mail.TemplateData{CandidateName: payload.Candidate.FullName, RecipientName: payload.Candidate.FullName}
		if p, perr := n.positions.GetByID(ctx, interview.PositionID); perr == nil {
			data.PositionTitle = p.Title
		}
		fillInterviewData(&data, interview)
		candidateID := payload.Candidate.ID
		if _, mailErr := n.emails.Deliver(ctx, Outgoing{
			To:          payload.Candidate.Email,
			CandidateID: &candidateID,
			Template:    domain.EmailTemplateInvitation,
			Data:        data,
		}); mailErr != nil {
			n.logger.Warn("interview invitation not delivered",
				zap.String("interview_id", interview.ID),
				zap.Error(mailErr),
			)
		}
	}
	return err
}

func (n *NotificationService) handleInterviewCancelled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InterviewPayload)
	if !ok || payload.Interview == nil {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	interview := payload.Interview
	return n.notifyUsers(ctx, interview.InterviewerIDs, event.ActorID, domain.Notification{
		Type:    domain.NotificationInterview,
		Title:   "Lịch phỏng vấn đã bị hủy",
		Message: fmt.Sprintf("%s lúc %s đã bị hủy", interview.Title, interview.StartTime.Format("15:04 02/01/2006")),
		Link:    "/interviews/" + interview.ID,
		RefID:   interview.ID,
	})
}

func (n *NotificationService) handleInterviewReminder(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.InterviewPayload)
	if !ok || payload.Interview == nil {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	interview := payload.Interview
	return n.notifyUsers(ctx, interview.InterviewerIDs, "", domain.Notification{
		Type:    domain.NotificationReminder,
		Title:   "Sắp đến giờ phỏng vấn",
		Message: fmt.Sprintf("%s bắt đầu lúc %s", interview.Title, interview.StartTime.Format("15:04 02/01/2006")),
		Link:    "/interviews/" + interview.ID,
		RefID:   interview.ID,
	})
}

func (n *NotificationService) handleEvaluationSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EvaluationSubmittedPayload)
	if !ok || payload.Evaluation == nil || payload.Interview == nil {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	return n.notifyUsers(ctx, []string{payload.Interview.CreatedBy}, event.ActorID, domain.Notification{
		Type:    domain.NotificationEvaluation,
		Title:   "Có đánh giá phỏng vấn mới",
		Message: fmt.Sprintf("%s: %s (%.2f/5)", payload.Interview.Title, payload.Evaluation.Result, payload.Evaluation.OverallScore),
		Link:    "/interviews/" + payload.Interview.ID,
		RefID:   payload.Interview.ID,
	})
}

func (n *NotificationService) notifyRoles(ctx context.Context, roles []domain.Role, skipUserID string, tmpl domain.Notification) error {
	active := true
	users, err := n.users.List(ctx, repository.UserFilter{Roles: roles, Active: &active, Limit: 200})
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return n.notifyUsers(ctx, ids, skipUserID, tmpl)
}

// notifyUsers stores one notification per recipient. The actor who caused the event is
// skipped.
func (n *NotificationService) notifyUsers(ctx context.Context, userIDs []string, skipUserID string, tmpl domain.Notification) error {
	tmpl.Title = stringPreview(tmpl.Title, notificationTitleLimit)
	var firstErr error
	for _, id := range uniqueStrings(userIDs) {
		if id == skipUserID {
			continue
		}
		notification := tmpl
		notification.UserID = id
		if err := n.notifications.Create(ctx, &notification); err != nil {
			n.logger.Warn("unable to store notification",
				zap.String("user_id", id),
				zap.String("type", string(tmpl.Type)),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// List returns actor's notifications, newest first.
func (n *NotificationService) List(ctx context.Context, actor *domain.User, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	list, err := n.notifications.ListByUser(ctx, actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// UnreadCount returns the number of unread notifications for actor.
func (n *NotificationService) UnreadCount(ctx context.Context, actor *domain.User) (int, error) {
	count, err := n.notifications.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// MarkRead flags one of actor's notifications as read.
func (n *NotificationService) MarkRead(ctx context.Context, actor *domain.User, id string) error {
	return apperrors.NotFoundOr(n.notifications.MarkRead(ctx, actor.ID, id), "thông báo", map[string]any{"notification_id": id})
}

// MarkAllRead flags every notification of actor as read.
func (n *NotificationService) MarkAllRead(ctx context.Context, actor *domain.User) (int64, error) {
	count, err := n.notifications.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// Delete removes one of actor's notifications.
func (n *NotificationService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return apperrors.NotFoundOr(n.notifications.Delete(ctx, actor.ID, id), "thông báo", map[string]any{"notification_id": id})
}
