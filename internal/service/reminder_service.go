package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/mail"
	"github.com/hr-portal/recruitment-service/internal/repository"
)

const reminderLockTTL = 2 * time.Minute

// Locker provides best-effort mutual exclusion across replicas.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// ReminderService sends reminder email ahead of scheduled interviews.
type ReminderService struct {
	interviews repository.InterviewRepository
	candidates repository.CandidateRepository
	positions  repository.PositionRepository
	users      repository.UserRepository
	emails     *EmailService
	locker     Locker
	dispatcher events.Dispatcher
	lead       time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// ReminderDependencies bundles collaborators for reminder service.
type ReminderDependencies struct {
	InterviewRepo repository.InterviewRepository
	CandidateRepo repository.CandidateRepository
	PositionRepo  repository.PositionRepository
	UserRepo      repository.UserRepository
	Emails        *EmailService
	Locker        Locker
	Dispatcher    events.Dispatcher
	LeadTime      time.Duration
	Logger        *zap.Logger
}

// ReminderResult summarizes one run.
type ReminderResult struct {
	Due     int
	Sent    int
	Skipped int
	Failed  int
}

// NewReminderService constructs the service.
func NewReminderService(deps ReminderDependencies) *ReminderService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lead := deps.LeadTime
	if lead <= 0 {
		lead = time.Hour
	}
	return &ReminderService{
		interviews: deps.InterviewRepo,
		candidates: deps.CandidateRepo,
		positions:  deps.PositionRepo,
		users:      deps.UserRepo,
		emails:     deps.Emails,
		locker:     deps.Locker,
		dispatcher: deps.Dispatcher,
		lead:       lead,
		logger:     logger,
		now:        time.Now,
	}
}

// SendDueReminders emails the candidate and panel of every scheduled interview starting within
// the lead time and flags it so it is reminded once. An interview whose candidate email fails
// stays unflagged and is retried on the next run.
func (s *ReminderService) SendDueReminders(ctx context.Context) (ReminderResult, error) {
	var result ReminderResult
	now := s.now().UTC()
	due, err := s.interviews.ListDueForReminder(ctx, now, now.Add(s.lead))
	if err != nil {
		return result, err
	}
	result.Due = len(due)

	for i := range due {
		interview := &due[i]
		sent, err := s.remind(ctx, interview)
		switch {
		case err != nil:
			result.Failed++
			s.logger.Warn("interview reminder failed", zap.String("interview_id", interview.ID), zap.Error(err))
		case sent:
			result.Sent++
		default:
			result.Skipped++
		}
	}
	return result, nil
}

func (s *ReminderService) remind(ctx context.Context, interview *domain.Interview) (bool, error) {
	if s.locker != nil {
		key := "reminder:" + interview.ID
		locked, err := s.locker.TryLock(ctx, key, reminderLockTTL)
		if err != nil {
			return false, err
		}
		if !locked {
			return false, nil
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx), key); err != nil {
				s.logger.Debug("unable to release reminder lock", zap.String("key", key), zap.Error(err))
			}
		}()
	}

	// the due list may predate another replica's run
	current, err := s.interviews.GetByID(ctx, interview.ID)
	if err != nil {
		return false, err
	}
	if current.ReminderSent || current.Status != domain.InterviewStatusScheduled {
		return false, nil
	}
	*interview = *current

	candidate, err := s.candidates.GetByID(ctx, interview.CandidateID)
	if err != nil {
		return false, err
	}
	interviewers, err := s.users.ListByIDs(ctx, interview.InterviewerIDs)
	if err != nil {
		return false, err
	}

	data := mail.TemplateData{CandidateName: candidate.FullName}
	if p, err := s.positions.GetByID(ctx, interview.PositionID); err == nil {
		data.PositionTitle = p.Title
	}
	fillInterviewData(&data, interview)

	candidateData := data
	candidateData.RecipientName = candidate.FullName
	candidateData.CandidateName = ""
	candidateID := candidate.ID
	if _, err := s.emails.Deliver(ctx, Outgoing{
		To:          candidate.Email,
		CandidateID: &candidateID,
		Template:    domain.EmailTemplateReminder,
		Data:        candidateData,
	}); err != nil {
		return false, errors.Join(errors.New("candidate reminder not delivered"), err)
	}

	for _, u := range interviewers {
		if !u.Active || u.Email == "" {
			continue
		}
		panelData := data
		panelData.RecipientName = u.Name
		if _, err := s.emails.Deliver(ctx, Outgoing{
			To:       u.Email,
			Template: domain.EmailTemplateReminder,
			Data:     panelData,
		}); err != nil {
			s.logger.Warn("interviewer reminder not delivered",
				zap.String("interview_id", interview.ID),
				zap.String("user_id", u.ID),
				zap.Error(err),
			)
		}
	}

	if err := s.interviews.MarkReminderSent(ctx, interview.ID); err != nil {
		if errors.Is(err, repository.ErrReminderAlreadySent) {
			s.logger.Warn("interview reminder already claimed", zap.String("interview_id", interview.ID))
			return false, nil
		}
		return false, err
	}
	interview.ReminderSent = true
	publishEvent(ctx, s.dispatcher, events.New(events.EventInterviewReminderDue, interview.ID, "",
		events.InterviewPayload{Interview: interview, Candidate: candidate, Interviewers: interviewers}))
	return true, nil
}
