package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/mail"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

// EmailService renders, delivers and records outbound email and exposes the inbox.
type EmailService struct {
	emails     repository.EmailRepository
	candidates repository.CandidateRepository
	positions  repository.PositionRepository
	interviews repository.InterviewRepository
	mailer     mail.Mailer
	inbox      mail.Inbox
	company    string
	logger     *zap.Logger
	now        func() time.Time
}

// EmailDependencies bundles collaborators for the email service.
type EmailDependencies struct {
	EmailRepo     repository.EmailRepository
	CandidateRepo repository.CandidateRepository
	PositionRepo  repository.PositionRepository
	InterviewRepo repository.InterviewRepository
	Mailer        mail.Mailer
	Inbox         mail.Inbox
	CompanyName   string
	Logger        *zap.Logger
}

// SendEmailInput describes a manual email to a candidate.
type SendEmailInput struct {
	CandidateID string
	Template    domain.EmailTemplate
	Subject     string
	Body        string
}

// Outgoing describes one rendered email to record and deliver.
type Outgoing struct {
	To          string
	CandidateID *string
	Template    domain.EmailTemplate
	Data        mail.TemplateData
	SentBy      *string
}

var manualTemplates = map[domain.EmailTemplate]bool{
	domain.EmailTemplateInvitation: true,
	domain.EmailTemplateOffer:      true,
	domain.EmailTemplateRejection:  true,
	domain.EmailTemplateCustom:     true,
}

// NewEmailService constructs the service.
func NewEmailService(deps EmailDependencies) *EmailService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailService{
		emails:     deps.EmailRepo,
		candidates: deps.CandidateRepo,
		positions:  deps.PositionRepo,
		interviews: deps.InterviewRepo,
		mailer:     deps.Mailer,
		inbox:      deps.Inbox,
		company:    deps.CompanyName,
		logger:     logger,
		now:        time.Now,
	}
}

// SendToCandidate sends a templated email to a candidate on behalf of actor.
func (s *EmailService) SendToCandidate(ctx context.Context, actor *domain.User, input SendEmailInput) (*domain.EmailMessage, error) {
	if !manualTemplates[input.Template] {
		return nil, apperrors.NewValidationError("Mẫu email không hợp lệ", map[string]any{"template": input.Template})
	}
	candidate, err := s.candidates.GetByID(ctx, input.CandidateID)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "ứng viên", map[string]any{"candidate_id": input.CandidateID})
	}
	position, err := s.positions.GetByID(ctx, candidate.PositionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	data := mail.TemplateData{
		CandidateName: candidate.FullName,
		PositionTitle: position.Title,
		Subject:       strings.TrimSpace(input.Subject),
		Body:          strings.TrimSpace(input.Body),
	}
	switch input.Template {
	case domain.EmailTemplateCustom:
		if data.Subject == "" || data.Body == "" {
			return nil, apperrors.NewValidationError("Email tùy chỉnh cần tiêu đề và nội dung", nil)
		}
	case domain.EmailTemplateInvitation:
		interview, err := s.nextInterview(ctx, candidate.ID)
		if err != nil {
			return nil, err
		}
		fillInterviewData(&data, interview)
	}

	sentBy := actor.ID
	return s.Deliver(ctx, Outgoing{
		To:          candidate.Email,
		CandidateID: &candidate.ID,
		Template:    input.Template,
		Data:        data,
		SentBy:      &sentBy,
	})
}

func (s *EmailService) nextInterview(ctx context.Context, candidateID string) (*domain.Interview, error) {
	from := s.now()
	list, err := s.interviews.List(ctx, repository.InterviewFilter{
		CandidateID: &candidateID,
		Statuses:    []domain.InterviewStatus{domain.InterviewStatusScheduled},
		From:        &from,
		Limit:       1,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(list) == 0 {
		return nil, apperrors.NewValidationError("Ứng viên chưa có lịch phỏng vấn sắp tới", nil)
	}
	return &list[0], nil
}

// Deliver renders and sends one email and records the attempt. A failed delivery is recorded
// with status FAILED and returned as an error alongside the record.
func (s *EmailService) Deliver(ctx context.Context, out Outgoing) (*domain.EmailMessage, error) {
	if strings.TrimSpace(out.To) == "" {
		return nil, apperrors.NewValidationError("Thiếu địa chỉ người nhận", nil)
	}
	if out.Data.CompanyName == "" {
		out.Data.CompanyName = s.company
	}
	subject, html, err := mail.Render(out.Template, out.Data)
	if err != nil {
		return nil, apperrors.NewValidationError("Không thể tạo nội dung email", map[string]any{"template": out.Template})
	}

	record := &domain.EmailMessage{
		CandidateID: out.CandidateID,
		To:          out.To,
		Subject:     subject,
		Body:        html,
		Template:    out.Template,
		SentBy:      out.SentBy,
	}

	sendErr := s.mailer.Send(ctx, mail.Message{To: []string{out.To}, Subject: subject, HTML: html})
	if sendErr != nil {
		record.Status = domain.EmailStatusFailed
		record.Error = sendErr.Error()
		s.logger.Warn("email delivery failed",
			zap.String("to", out.To),
			zap.String("template", string(out.Template)),
			zap.Error(sendErr),
		)
	} else {
		now := s.now().UTC()
		record.Status = domain.EmailStatusSent
		record.SentAt = &now
	}

	if err := s.emails.Create(ctx, record); err != nil {
		s.logger.Error("unable to record email", zap.String("to", out.To), zap.Error(err))
	}
	if sendErr != nil {
		return record, apperrors.NewDomainError("EMAIL_FAILED", "Gửi email thất bại", http.StatusBadGateway, map[string]any{"to": out.To})
	}
	return record, nil
}

// ListSent returns recorded email.
func (s *EmailService) ListSent(ctx context.Context, filter repository.EmailFilter) ([]domain.EmailMessage, error) {
	list, err := s.emails.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListInbox returns recent mailbox messages.
func (s *EmailService) ListInbox(ctx context.Context, query string, max int64) ([]domain.InboxMessage, error) {
	if s.inbox == nil {
		return nil, apperrors.NewUnavailable("Hộp thư chưa được cấu hình")
	}
	list, err := s.inbox.ListInbox(ctx, query, max)
	if err != nil {
		return nil, inboxError(err)
	}
	return list, nil
}

// GetInboxMessage fetches one mailbox message.
func (s *EmailService) GetInboxMessage(ctx context.Context, id string) (*domain.InboxMessage, error) {
	if s.inbox == nil {
		return nil, apperrors.NewUnavailable("Hộp thư chưa được cấu hình")
	}
	msg, err := s.inbox.GetMessage(ctx, id)
	if err != nil {
		return nil, inboxError(err)
	}
	return msg, nil
}

func inboxError(err error) error {
	if errors.Is(err, mail.ErrInboxUnavailable) {
		return apperrors.NewUnavailable("Hộp thư chưa được cấu hình")
	}
	return apperrors.NewDomainError("INBOX_FAILED", "Không thể đọc hộp thư", http.StatusBadGateway, nil)
}

func fillInterviewData(data *mail.TemplateData, interview *domain.Interview) {
	data.Round = interview.Round
	data.StartTime = interview.StartTime
	data.EndTime = interview.EndTime
	data.Mode = interview.Mode
	data.Location = interview.Location
	data.MeetingLink = interview.MeetingLink
	data.Note = interview.Note
}
