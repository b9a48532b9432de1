package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hr-portal/recruitment-service/internal/api/http/handlers"
	"github.com/hr-portal/recruitment-service/internal/auth"
	"github.com/hr-portal/recruitment-service/internal/config"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/observability"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/service"
)

const testPassword = "s3cret-pass"

type memoryUsers struct {
	mu    sync.Mutex
	items map[string]domain.User
}

func (m *memoryUsers) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.items[u.ID] = *u
	return nil
}

func (m *memoryUsers) Update(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.items[u.ID] = *u
	return nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUsers) ListByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, err := m.GetByID(ctx, id); err == nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memoryUsers) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, u := range m.items {
		if len(filter.Roles) > 0 && !u.HasRole(filter.Roles...) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type testServer struct {
	app   *fiber.App
	users *memoryUsers
	auth  *service.AuthService
}

func newTestServer(t *testing.T, redis handlers.Pinger) *testServer {
	t.Helper()
	logger := zaptest.NewLogger(t)
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   60,
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	}}
	users := &memoryUsers{items: map[string]domain.User{}}
	hash, err := auth.HashPassword(testPassword, 4)
	require.NoError(t, err)
	for _, u := range []domain.User{
		{Name: "Admin", Email: "admin@example.com", Role: domain.RoleAdmin},
		{Name: "HR", Email: "hr@example.com", Role: domain.RoleHRManager},
		{Name: "Recruiter", Email: "recruiter@example.com", Role: domain.RoleRecruiter},
	} {
		u.PasswordHash = hash
		u.Active = true
		require.NoError(t, users.Create(context.Background(), &u))
	}
	require.NoError(t, users.Create(context.Background(), &domain.User{
		Name: "Former", Email: "former@example.com", Role: domain.RoleRecruiter, PasswordHash: hash,
	}))

	authSvc := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: users, Logger: logger})
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0, "*")
	app.Get("/boom", func(*fiber.Ctx) error { panic("boom") })
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("recruitment-service", "test", stubPinger{}, redis, metrics),
		Auth:           handlers.NewAuthHandler(authSvc),
		Users:          handlers.NewUsersHandler(service.NewUserService(cfg, users)),
		Applications:   handlers.NewApplicationsHandler(service.NewApplicationService(service.ApplicationDependencies{})),
		Positions:      handlers.NewPositionsHandler(service.NewPositionService(service.PositionDependencies{})),
		Candidates:     handlers.NewCandidatesHandler(service.NewCandidateService(service.CandidateDependencies{})),
		Interviews:     handlers.NewInterviewsHandler(service.NewInterviewService(service.InterviewDependencies{}), service.NewEvaluationService(service.EvaluationDependencies{})),
		Calendar:       handlers.NewCalendarHandler(service.NewCalendarService(nil)),
		Notifications:  handlers.NewNotificationsHandler(service.NewNotificationService(service.NotificationDependencies{})),
		Emails:         handlers.NewEmailsHandler(service.NewEmailService(service.EmailDependencies{})),
		Stats:          handlers.NewStatsHandler(service.NewStatsService(service.StatsDependencies{})),
		AuthMiddleware: auth.NewAuthMiddleware(authSvc.TokenManager(), users, nil),
	})
	return &testServer{app: app, users: users, auth: authSvc}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	status, body := s.do(t, "POST", "/auth/login", "", `{"email":"`+email+`","password":"`+testPassword+`"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	data := body["data"].(map[string]any)
	return data["auth"].(map[string]any)["token"].(string)
}

func errorCode(body map[string]any) string {
	errBody, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := errBody["code"].(string)
	return code
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, stubPinger{})

	status, body := srv.do(t, "GET", "/health/live", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])

	status, body = srv.do(t, "GET", "/health/ready", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ready", body["status"])

	status, body = srv.do(t, "GET", "/health/metrics", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["data"], "requests")
}

func TestReadyReportsFailingDependency(t *testing.T) {
	srv := newTestServer(t, stubPinger{err: errors.New("connection refused")})

	status, body := srv.do(t, "GET", "/health/ready", "", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "ok", details["postgres"])
	assert.Equal(t, "connection refused", details["redis"])
}

func TestLoginAndMe(t *testing.T) {
	srv := newTestServer(t, stubPinger{})
	token := srv.login(t, "hr@example.com")

	status, body := srv.do(t, "GET", "/auth/me", token, "")
	require.Equal(t, fiber.StatusOK, status)
	me := body["data"].(map[string]any)
	assert.Equal(t, "hr@example.com", me["email"])
	assert.Equal(t, string(domain.RoleHRManager), me["role"])
	assert.NotContains(t, me, "password_hash")
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t, stubPinger{})

	status, body := srv.do(t, "POST", "/auth/login", "", `{"email":"hr@example.com","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, body = srv.do(t, "POST", "/auth/login", "", `{"email":"former@example.com","password":"`+testPassword+`"}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = srv.do(t, "POST", "/auth/login", "", `{"email":"not-an-email"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "email", details["email"])
	assert.Equal(t, "required", details["password"])

	status, body = srv.do(t, "POST", "/auth/login", "", `{not json`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, stubPinger{})

	for _, path := range []string{"/applications", "/candidates", "/interviews", "/notifications", "/auth/me"} {
		status, body := srv.do(t, "GET", path, "", "")
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
		assert.Equal(t, "UNAUTHORIZED", errorCode(body), path)
	}

	status, body := srv.do(t, "GET", "/applications", "garbage", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestRoleGuards(t *testing.T) {
	srv := newTestServer(t, stubPinger{})
	recruiter := srv.login(t, "recruiter@example.com")
	hr := srv.login(t, "hr@example.com")

	status, body := srv.do(t, "POST", "/applications/"+uuid.NewString()+"/approve", recruiter, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, _ = srv.do(t, "POST", "/users", hr, `{"name":"X","email":"x@example.com","password":"longenough","role":"RECRUITER"}`)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = srv.do(t, "GET", "/users", recruiter, "")
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = srv.do(t, "GET", "/users?role=RECRUITER", hr, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 2)
}

func TestAdminCreatesUser(t *testing.T) {
	srv := newTestServer(t, stubPinger{})
	admin := srv.login(t, "admin@example.com")

	status, body := srv.do(t, "POST", "/users", admin, `{"name":"Người mới","email":"New@Example.com","password":"longenough","role":"RECRUITER"}`)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "new@example.com", body["data"].(map[string]any)["email"])

	status, body = srv.do(t, "POST", "/users", admin, `{"name":"Dup","email":"new@example.com","password":"longenough","role":"RECRUITER"}`)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, body = srv.do(t, "POST", "/users", admin, `{"name":"Bad","email":"bad@example.com","password":"short","role":"GUEST"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "role")
}

func TestValidationRunsBeforeServices(t *testing.T) {
	srv := newTestServer(t, stubPinger{})
	hr := srv.login(t, "hr@example.com")

	status, body := srv.do(t, "POST", "/interviews", hr, `{"candidate_id":"nope","interviewer_ids":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "candidate_id")
	assert.Contains(t, details, "start_time")

	status, body = srv.do(t, "POST", "/candidates/"+uuid.NewString()+"/cv", hr, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = srv.do(t, "POST", "/applications/"+uuid.NewString()+"/reject", hr, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["error"].(map[string]any)["details"], "reason")
}

func TestErrorEnvelopeForFrameworkErrors(t *testing.T) {
	srv := newTestServer(t, stubPinger{})

	status, body := srv.do(t, "GET", "/no-such-route", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))

	status, body = srv.do(t, "GET", "/boom", "", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(body))
}
