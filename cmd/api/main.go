package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hr-portal/recruitment-service/internal/api/http"
	"github.com/hr-portal/recruitment-service/internal/api/http/handlers"
	"github.com/hr-portal/recruitment-service/internal/auth"
	"github.com/hr-portal/recruitment-service/internal/config"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/mail"
	"github.com/hr-portal/recruitment-service/internal/observability"
	"github.com/hr-portal/recruitment-service/internal/persistence"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
	"github.com/hr-portal/recruitment-service/internal/storage"
	"github.com/hr-portal/recruitment-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var fileStorage storage.FileStorage
	if cfg.Storage.Enabled() {
		cld, err := storage.NewCloudinary(cfg.Storage, logger)
		if err != nil {
			logger.Fatal("failed to init cloudinary", zap.Error(err))
		}
		fileStorage = cld
	} else {
		logger.Warn("cloudinary not configured, CV upload disabled")
	}

	var (
		mailer mail.Mailer
		inbox  mail.Inbox
	)
	if cfg.Mail.Enabled() {
		gmail, err := mail.NewGmailMailer(ctx, cfg.Mail, logger)
		if err != nil {
			logger.Fatal("failed to init gmail", zap.Error(err))
		}
		mailer, inbox = gmail, gmail
	} else {
		logger.Warn("gmail not configured, outgoing email is only logged")
		mailer = mail.NewLogMailer(logger)
	}

	pool := pg.Pool
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	historyRepo := repository.NewApplicationHistoryRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	positionRepo := repository.NewPositionRepository(pool)
	candidateRepo := repository.NewCandidateRepository(pool)
	interviewRepo := repository.NewInterviewRepository(pool)
	evaluationRepo := repository.NewEvaluationRepository(pool)
	calendarRepo := repository.NewCalendarRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	emailRepo := repository.NewEmailRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)
	metrics := observability.NewMetrics()

	emailService := service.NewEmailService(service.EmailDependencies{
		EmailRepo:     emailRepo,
		CandidateRepo: candidateRepo,
		PositionRepo:  positionRepo,
		InterviewRepo: interviewRepo,
		Mailer:        mailer,
		Inbox:         inbox,
		CompanyName:   cfg.App.CompanyName,
		Logger:        logger,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Revoker:           redis,
		Emails:            emailService,
		Logger:            logger,
	})
	userService := service.NewUserService(*cfg, userRepo)
	applicationService := service.NewApplicationService(service.ApplicationDependencies{
		ApplicationRepo: applicationRepo,
		HistoryRepo:     historyRepo,
		CommentRepo:     commentRepo,
		PositionRepo:    positionRepo,
		Dispatcher:      dispatcher,
	})
	positionService := service.NewPositionService(service.PositionDependencies{
		PositionRepo:  positionRepo,
		CandidateRepo: candidateRepo,
		CompanyName:   cfg.App.CompanyName,
	})
	candidateService := service.NewCandidateService(service.CandidateDependencies{
		CandidateRepo: candidateRepo,
		PositionRepo:  positionRepo,
		Storage:       fileStorage,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	interviewService := service.NewInterviewService(service.InterviewDependencies{
		InterviewRepo:    interviewRepo,
		CandidateService: candidateService,
		UserRepo:         userRepo,
		CalendarRepo:     calendarRepo,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	evaluationService := service.NewEvaluationService(service.EvaluationDependencies{
		EvaluationRepo: evaluationRepo,
		InterviewRepo:  interviewRepo,
		Dispatcher:     dispatcher,
	})
	calendarService := service.NewCalendarService(calendarRepo)
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		PositionRepo:     positionRepo,
		Emails:           emailService,
		Dispatcher:       dispatcher,
		Logger:           logger,
	})
	statsService := service.NewStatsService(service.StatsDependencies{
		ApplicationRepo: applicationRepo,
		PositionRepo:    positionRepo,
		CandidateRepo:   candidateRepo,
		InterviewRepo:   interviewRepo,
	})
	reminderService := service.NewReminderService(service.ReminderDependencies{
		InterviewRepo: interviewRepo,
		CandidateRepo: candidateRepo,
		PositionRepo:  positionRepo,
		UserRepo:      userRepo,
		Emails:        emailService,
		Locker:        redis,
		Dispatcher:    dispatcher,
		LeadTime:      cfg.Reminder.LeadTime(),
		Logger:        logger,
	})

	worker.StartSubscribers(logger, notificationService)

	if created, err := authService.BootstrapAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		logger.Error("bootstrap admin failed", zap.Error(err))
	} else if created {
		logger.Info("bootstrap admin ready", zap.String("email", cfg.Auth.BootstrapAdminEmail))
	}

	var reminders *worker.ReminderWorker
	if cfg.Reminder.Enabled {
		reminders, err = worker.NewReminderWorker(cfg.Reminder, reminderService, metrics, logger)
		if err != nil {
			logger.Fatal("failed to schedule reminders", zap.Error(err))
		}
		reminders.Start()
	}

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, redis)

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: cfg.App.BodyLimit(),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.CORSOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Applications:   handlers.NewApplicationsHandler(applicationService),
		Positions:      handlers.NewPositionsHandler(positionService),
		Candidates:     handlers.NewCandidatesHandler(candidateService),
		Interviews:     handlers.NewInterviewsHandler(interviewService, evaluationService),
		Calendar:       handlers.NewCalendarHandler(calendarService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Emails:         handlers.NewEmailsHandler(emailService),
		Stats:          handlers.NewStatsHandler(statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if reminders != nil {
		reminders.Stop(shutdownCtx)
	}
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
