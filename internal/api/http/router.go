package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/api/http/handlers"
	"github.com/hr-portal/recruitment-service/internal/auth"
	"github.com/hr-portal/recruitment-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Applications   *handlers.ApplicationsHandler
	Positions      *handlers.PositionsHandler
	Candidates     *handlers.CandidatesHandler
	Interviews     *handlers.InterviewsHandler
	Calendar       *handlers.CalendarHandler
	Notifications  *handlers.NotificationsHandler
	Emails         *handlers.EmailsHandler
	Stats          *handlers.StatsHandler
	AuthMiddleware *auth.AuthMiddleware
}

var (
	hrStaff    = []domain.Role{domain.RoleHRManager, domain.RoleRecruiter}
	hrManagers = []domain.Role{domain.RoleHRManager}
	leadership = []domain.Role{domain.RoleHRManager, domain.RoleCEO}
)

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authed := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authed.Post("/logout", cfg.Auth.Logout)
	authed.Get("/me", cfg.Auth.Me)
	authed.Post("/password/change", cfg.Auth.ChangePassword)

	secured := func(prefix string, extra ...fiber.Handler) fiber.Router {
		chain := append([]fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAuthenticated()}, extra...)
		return app.Group(prefix, chain...)
	}

	users := secured("/users")
	users.Get("/", auth.RequireRole(leadership...), cfg.Users.List)
	users.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Users.Create)
	users.Get("/:id", cfg.Users.Get)
	users.Patch("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Update)

	apps := secured("/applications")
	apps.Get("/", cfg.Applications.List)
	apps.Post("/", auth.RequireRole(domain.RoleDepartmentHead, domain.RoleHRManager), cfg.Applications.Create)
	apps.Get("/:id", cfg.Applications.Get)
	apps.Put("/:id", cfg.Applications.Update)
	apps.Delete("/:id", cfg.Applications.Delete)
	apps.Post("/:id/submit", cfg.Applications.Submit)
	apps.Post("/:id/review", auth.RequireRole(hrManagers...), cfg.Applications.StartReview)
	apps.Post("/:id/approve", auth.RequireRole(domain.RoleCEO), cfg.Applications.Approve)
	apps.Post("/:id/reject", auth.RequireRole(leadership...), cfg.Applications.Reject)
	apps.Post("/:id/reopen", cfg.Applications.Reopen)
	apps.Get("/:id/history", cfg.Applications.History)
	apps.Get("/:id/comments", cfg.Applications.ListComments)
	apps.Post("/:id/comments", cfg.Applications.AddComment)
	apps.Delete("/:id/comments/:commentId", cfg.Applications.DeleteComment)
	apps.Post("/:id/position", auth.RequireRole(hrStaff...), cfg.Applications.CreatePosition)

	positions := secured("/positions")
	positions.Get("/", cfg.Positions.List)
	positions.Post("/", auth.RequireRole(hrStaff...), cfg.Positions.Create)
	positions.Get("/:id", cfg.Positions.Get)
	positions.Put("/:id", auth.RequireRole(hrStaff...), cfg.Positions.Update)
	positions.Delete("/:id", auth.RequireRole(hrManagers...), cfg.Positions.Delete)
	positions.Post("/:id/close", auth.RequireRole(hrStaff...), cfg.Positions.Close)
	positions.Post("/:id/reopen", auth.RequireRole(hrStaff...), cfg.Positions.Reopen)
	positions.Get("/:id/jd", cfg.Positions.DownloadJD)

	candidates := secured("/candidates")
	candidates.Get("/", cfg.Candidates.List)
	candidates.Get("/export", auth.RequireRole(hrStaff...), cfg.Candidates.Export)
	candidates.Post("/", auth.RequireRole(hrStaff...), cfg.Candidates.Create)
	candidates.Get("/:id", cfg.Candidates.Get)
	candidates.Put("/:id", auth.RequireRole(hrStaff...), cfg.Candidates.Update)
	candidates.Delete("/:id", auth.RequireRole(hrManagers...), cfg.Candidates.Delete)
	candidates.Patch("/:id/status", auth.RequireRole(hrStaff...), cfg.Candidates.UpdateStatus)
	candidates.Post("/:id/cv", auth.RequireRole(hrStaff...), cfg.Candidates.UploadCV)
	candidates.Get("/:id/cv/preview", cfg.Candidates.PreviewCV)
	candidates.Get("/:id/evaluations", cfg.Interviews.ListCandidateEvaluations)

	interviews := secured("/interviews")
	interviews.Get("/", cfg.Interviews.List)
	interviews.Post("/", auth.RequireRole(hrStaff...), cfg.Interviews.Schedule)
	interviews.Get("/:id", cfg.Interviews.Get)
	interviews.Put("/:id", auth.RequireRole(hrStaff...), cfg.Interviews.Reschedule)
	interviews.Post("/:id/cancel", auth.RequireRole(hrStaff...), cfg.Interviews.Cancel)
	interviews.Post("/:id/complete", cfg.Interviews.Complete)
	interviews.Get("/:id/evaluations", cfg.Interviews.ListEvaluations)
	interviews.Post("/:id/evaluations", cfg.Interviews.SubmitEvaluation)

	calendar := secured("/calendar")
	calendar.Get("/events", cfg.Calendar.List)
	calendar.Post("/events", cfg.Calendar.Create)
	calendar.Put("/events/:id", cfg.Calendar.Update)
	calendar.Delete("/events/:id", cfg.Calendar.Delete)

	notifications := secured("/notifications")
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Post("/read-all", cfg.Notifications.MarkAllRead)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)
	notifications.Delete("/:id", cfg.Notifications.Delete)

	emails := secured("/emails", auth.RequireRole(hrStaff...))
	emails.Post("/send", cfg.Emails.Send)
	emails.Get("/", cfg.Emails.ListSent)
	emails.Get("/inbox", cfg.Emails.Inbox)
	emails.Get("/inbox/:id", cfg.Emails.InboxMessage)

	stats := secured("/stats", auth.RequireRole(domain.RoleHRManager, domain.RoleRecruiter, domain.RoleCEO))
	stats.Get("/overview", cfg.Stats.Overview)
}
