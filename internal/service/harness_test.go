package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hr-portal/recruitment-service/internal/config"
	"github.com/hr-portal/recruitment-service/internal/domain"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

type testEnv struct {
	users         *fakeUsers
	applications  *fakeApplications
	history       *fakeHistory
	comments      *fakeComments
	positions     *fakePositions
	candidates    *fakeCandidates
	interviews    *fakeInterviews
	evaluations   *fakeEvaluations
	calendar      *fakeCalendar
	notifications *fakeNotifications
	emailRepo     *fakeEmails
	resets        *fakeResets
	mailer        *recordingMailer
	files         *fakeStorage
	locker        *fakeLocker
	dispatcher    *capturingDispatcher

	admin, ceo, hr, recruiter, head, interviewer *domain.User

	emailSvc        *EmailService
	authSvc         *AuthService
	userSvc         *UserService
	applicationSvc  *ApplicationService
	positionSvc     *PositionService
	candidateSvc    *CandidateService
	interviewSvc    *InterviewService
	evaluationSvc   *EvaluationService
	calendarSvc     *CalendarService
	notificationSvc *NotificationService
	reminderSvc     *ReminderService
	statsSvc        *StatsService
}

func newUser(name, email string, role domain.Role) *domain.User {
	return &domain.User{Name: name, Email: email, Role: role, Department: "Kỹ thuật", Active: true}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)
	env := &testEnv{
		admin:       newUser("Admin", "admin@example.com", domain.RoleAdmin),
		ceo:         newUser("Giám đốc", "ceo@example.com", domain.RoleCEO),
		hr:          newUser("Trưởng phòng NS", "hr@example.com", domain.RoleHRManager),
		recruiter:   newUser("Tuyển dụng", "recruiter@example.com", domain.RoleRecruiter),
		head:        newUser("Trưởng bộ phận", "head@example.com", domain.RoleDepartmentHead),
		interviewer: newUser("Người phỏng vấn", "panel@example.com", domain.RoleDepartmentHead),
	}
	env.users = newFakeUsers(env.admin, env.ceo, env.hr, env.recruiter, env.head, env.interviewer)
	env.applications = newFakeApplications()
	env.history = &fakeHistory{}
	env.comments = newFakeComments()
	env.positions = newFakePositions()
	env.candidates = newFakeCandidates()
	env.interviews = newFakeInterviews()
	env.evaluations = &fakeEvaluations{}
	env.calendar = newFakeCalendar()
	env.notifications = &fakeNotifications{}
	env.emailRepo = &fakeEmails{}
	env.resets = newFakeResets()
	env.mailer = &recordingMailer{failFor: map[string]bool{}}
	env.files = &fakeStorage{}
	env.locker = &fakeLocker{held: map[string]bool{}}
	env.dispatcher = newCapturingDispatcher()

	cfg := config.Config{
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, PasswordResetTTLMinutes: 30, BcryptCost: 4},
		Mail: config.MailConfig{AppBaseURL: "https://hr.example.com/"},
	}

	env.emailSvc = NewEmailService(EmailDependencies{
		EmailRepo:     env.emailRepo,
		CandidateRepo: env.candidates,
		PositionRepo:  env.positions,
		InterviewRepo: env.interviews,
		Mailer:        env.mailer,
		CompanyName:   "ACME",
		Logger:        logger,
	})
	env.authSvc = NewAuthService(cfg, AuthDependencies{
		UserRepo:          env.users,
		PasswordResetRepo: env.resets,
		Emails:            env.emailSvc,
		Logger:            logger,
	})
	env.userSvc = NewUserService(cfg, env.users)
	env.applicationSvc = NewApplicationService(ApplicationDependencies{
		ApplicationRepo: env.applications,
		HistoryRepo:     env.history,
		CommentRepo:     env.comments,
		PositionRepo:    env.positions,
		Dispatcher:      env.dispatcher,
	})
	env.positionSvc = NewPositionService(PositionDependencies{
		PositionRepo:  env.positions,
		CandidateRepo: env.candidates,
		CompanyName:   "ACME",
	})
	env.candidateSvc = NewCandidateService(CandidateDependencies{
		CandidateRepo: env.candidates,
		PositionRepo:  env.positions,
		Storage:       env.files,
		Dispatcher:    env.dispatcher,
		Logger:        logger,
	})
	env.interviewSvc = NewInterviewService(InterviewDependencies{
		InterviewRepo:    env.interviews,
		CandidateService: env.candidateSvc,
		UserRepo:         env.users,
		CalendarRepo:     env.calendar,
		Dispatcher:       env.dispatcher,
		Logger:           logger,
	})
	env.evaluationSvc = NewEvaluationService(EvaluationDependencies{
		EvaluationRepo: env.evaluations,
		InterviewRepo:  env.interviews,
		Dispatcher:     env.dispatcher,
	})
	env.calendarSvc = NewCalendarService(env.calendar)
	env.notificationSvc = NewNotificationService(NotificationDependencies{
		NotificationRepo: env.notifications,
		UserRepo:         env.users,
		PositionRepo:     env.positions,
		Emails:           env.emailSvc,
		Dispatcher:       env.dispatcher,
		Logger:           logger,
	})
	env.notificationSvc.RegisterHandlers()
	env.reminderSvc = NewReminderService(ReminderDependencies{
		InterviewRepo: env.interviews,
		CandidateRepo: env.candidates,
		PositionRepo:  env.positions,
		UserRepo:      env.users,
		Emails:        env.emailSvc,
		Locker:        env.locker,
		Dispatcher:    env.dispatcher,
		Logger:        logger,
	})
	env.statsSvc = NewStatsService(StatsDependencies{
		ApplicationRepo: env.applications,
		PositionRepo:    env.positions,
		CandidateRepo:   env.candidates,
		InterviewRepo:   env.interviews,
	})
	return env
}

func (e *testEnv) seedPosition(t *testing.T, quantity int) *domain.Position {
	t.Helper()
	p, err := e.positionSvc.Create(t.Context(), e.hr, PositionInput{Title: "Backend Engineer", Department: "Kỹ thuật", Quantity: quantity})
	require.NoError(t, err)
	return p
}

func (e *testEnv) seedCandidate(t *testing.T, positionID, name, email string) *domain.Candidate {
	t.Helper()
	c, err := e.candidateSvc.Create(t.Context(), e.recruiter, CandidateInput{PositionID: positionID, FullName: name, Email: email})
	require.NoError(t, err)
	return c
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	require.Equal(t, status, de.HTTPStatus, de.Message)
}
