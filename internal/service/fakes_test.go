package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/events"
	"github.com/hr-portal/recruitment-service/internal/mail"
	"github.com/hr-portal/recruitment-service/internal/repository"
	"github.com/hr-portal/recruitment-service/internal/storage"
)

type fakeUsers struct {
	mu    sync.Mutex
	items map[string]*domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{items: map[string]*domain.User{}}
	for _, u := range users {
		_ = f.Create(context.Background(), u)
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *u
	f.items[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) ListByIDs(_ context.Context, ids []string) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, id := range ids {
		if u, ok := f.items[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.items {
		if len(filter.Roles) > 0 && !u.HasRole(filter.Roles...) {
			continue
		}
		if filter.Active != nil && u.Active != *filter.Active {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeApplications struct {
	items map[string]*domain.Application
}

func newFakeApplications() *fakeApplications {
	return &fakeApplications{items: map[string]*domain.Application{}}
}

func (f *fakeApplications) Create(_ context.Context, a *domain.Application) error {
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeApplications) Update(_ context.Context, a *domain.Application) error {
	if _, ok := f.items[a.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeApplications) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeApplications) GetByID(_ context.Context, id string) (*domain.Application, error) {
	a, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	return &cp, nil
}

func (f *fakeApplications) List(_ context.Context, filter repository.ApplicationFilter) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range f.items {
		if filter.CreatedBy != nil && a.CreatedBy != *filter.CreatedBy {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeApplications) CountByStatus(context.Context) (map[domain.ApplicationStatus]int, error) {
	out := map[domain.ApplicationStatus]int{}
	for _, a := range f.items {
		out[a.Status]++
	}
	return out, nil
}

type fakeHistory struct {
	items []domain.ApplicationHistory
}

func (f *fakeHistory) Create(_ context.Context, h *domain.ApplicationHistory) error {
	h.ID = uuid.NewString()
	f.items = append(f.items, *h)
	return nil
}

func (f *fakeHistory) ListByApplication(_ context.Context, id string) ([]domain.ApplicationHistory, error) {
	var out []domain.ApplicationHistory
	for _, h := range f.items {
		if h.ApplicationID == id {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeComments struct {
	items map[string]*domain.Comment
}

func newFakeComments() *fakeComments {
	return &fakeComments{items: map[string]*domain.Comment{}}
}

func (f *fakeComments) Create(_ context.Context, c *domain.Comment) error {
	c.ID = uuid.NewString()
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeComments) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeComments) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeComments) ListByApplication(_ context.Context, id string) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range f.items {
		if c.ApplicationID == id {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakePositions struct {
	items map[string]*domain.Position
}

func newFakePositions(positions ...*domain.Position) *fakePositions {
	f := &fakePositions{items: map[string]*domain.Position{}}
	for _, p := range positions {
		_ = f.Create(context.Background(), p)
	}
	return f
}

func (f *fakePositions) Create(_ context.Context, p *domain.Position) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	f.items[p.ID] = &cp
	return nil
}

func (f *fakePositions) Update(_ context.Context, p *domain.Position) error {
	existing, ok := f.items[p.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	cp.HiredCount = existing.HiredCount
	f.items[p.ID] = &cp
	p.HiredCount = existing.HiredCount
	return nil
}

func (f *fakePositions) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakePositions) GetByID(_ context.Context, id string) (*domain.Position, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePositions) GetByApplicationID(_ context.Context, id string) (*domain.Position, error) {
	for _, p := range f.items {
		if p.ApplicationID != nil && *p.ApplicationID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePositions) List(context.Context, repository.PositionFilter) ([]domain.Position, error) {
	var out []domain.Position
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePositions) AdjustHiredCount(_ context.Context, id string, delta int) (*domain.Position, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if delta > 0 && p.HiredCount >= p.Quantity {
		return nil, repository.ErrPositionFull
	}
	p.HiredCount += delta
	if p.HiredCount < 0 {
		p.HiredCount = 0
	}
	if p.Status != domain.PositionStatusClosed {
		if p.HiredCount >= p.Quantity {
			p.Status = domain.PositionStatusFilled
		} else {
			p.Status = domain.PositionStatusOpen
		}
	}
	cp := *p
	return &cp, nil
}

func (f *fakePositions) CountByStatus(context.Context) (map[domain.PositionStatus]int, error) {
	out := map[domain.PositionStatus]int{}
	for _, p := range f.items {
		out[p.Status]++
	}
	return out, nil
}

type fakeCandidates struct {
	items     map[string]*domain.Candidate
	updateErr error
}

func newFakeCandidates(candidates ...*domain.Candidate) *fakeCandidates {
	f := &fakeCandidates{items: map[string]*domain.Candidate{}}
	for _, c := range candidates {
		_ = f.Create(context.Background(), c)
	}
	return f
}

func (f *fakeCandidates) Create(_ context.Context, c *domain.Candidate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCandidates) Update(_ context.Context, c *domain.Candidate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.items[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *c
	f.items[c.ID] = &cp
	return nil
}

func (f *fakeCandidates) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCandidates) GetByID(_ context.Context, id string) (*domain.Candidate, error) {
	c, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCandidates) List(_ context.Context, filter repository.CandidateFilter) ([]domain.Candidate, error) {
	var out []domain.Candidate
	for _, c := range f.items {
		if filter.PositionID != nil && c.PositionID != *filter.PositionID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeCandidates) CountByPosition(_ context.Context, positionID string) (int, error) {
	n := 0
	for _, c := range f.items {
		if c.PositionID == positionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCandidates) CountByStage(context.Context) (map[domain.Stage]int, error) {
	out := map[domain.Stage]int{}
	for _, c := range f.items {
		out[c.Stage]++
	}
	return out, nil
}

type fakeInterviews struct {
	items map[string]*domain.Interview
}

func newFakeInterviews(interviews ...*domain.Interview) *fakeInterviews {
	f := &fakeInterviews{items: map[string]*domain.Interview{}}
	for _, i := range interviews {
		_ = f.Create(context.Background(), i)
	}
	return f
}

func (f *fakeInterviews) Create(_ context.Context, i *domain.Interview) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	cp := *i
	f.items[i.ID] = &cp
	return nil
}

func (f *fakeInterviews) Update(_ context.Context, i *domain.Interview) error {
	if _, ok := f.items[i.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *i
	f.items[i.ID] = &cp
	return nil
}

func (f *fakeInterviews) GetByID(_ context.Context, id string) (*domain.Interview, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *i
	return &cp, nil
}

func (f *fakeInterviews) List(_ context.Context, filter repository.InterviewFilter) ([]domain.Interview, error) {
	var out []domain.Interview
	for _, i := range f.items {
		if filter.CandidateID != nil && i.CandidateID != *filter.CandidateID {
			continue
		}
		if filter.InterviewerID != nil && !i.HasInterviewer(*filter.InterviewerID) {
			continue
		}
		if len(filter.Statuses) > 0 && i.Status != filter.Statuses[0] {
			continue
		}
		if filter.From != nil && i.StartTime.Before(*filter.From) {
			continue
		}
		out = append(out, *i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].StartTime.Before(out[b].StartTime) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeInterviews) ListDueForReminder(_ context.Context, from, until time.Time) ([]domain.Interview, error) {
	var out []domain.Interview
	for _, i := range f.items {
		if i.Status == domain.InterviewStatusScheduled && !i.ReminderSent &&
			i.StartTime.After(from) && !i.StartTime.After(until) {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeInterviews) MarkReminderSent(_ context.Context, id string) error {
	i, ok := f.items[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if i.ReminderSent {
		return repository.ErrReminderAlreadySent
	}
	i.ReminderSent = true
	return nil
}

func (f *fakeInterviews) CountUpcoming(_ context.Context, from, until time.Time) (int, error) {
	n := 0
	for _, i := range f.items {
		if i.Status == domain.InterviewStatusScheduled && !i.StartTime.Before(from) && i.StartTime.Before(until) {
			n++
		}
	}
	return n, nil
}

type fakeEvaluations struct {
	items []*domain.Evaluation
}

func (f *fakeEvaluations) Upsert(_ context.Context, e *domain.Evaluation) error {
	for _, existing := range f.items {
		if existing.InterviewID == e.InterviewID && existing.EvaluatorID == e.EvaluatorID {
			e.ID = existing.ID
			*existing = *e
			return nil
		}
	}
	e.ID = uuid.NewString()
	cp := *e
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeEvaluations) GetByInterviewAndEvaluator(_ context.Context, interviewID, evaluatorID string) (*domain.Evaluation, error) {
	for _, e := range f.items {
		if e.InterviewID == interviewID && e.EvaluatorID == evaluatorID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeEvaluations) ListByInterview(_ context.Context, id string) ([]domain.Evaluation, error) {
	var out []domain.Evaluation
	for _, e := range f.items {
		if e.InterviewID == id {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvaluations) ListByCandidate(_ context.Context, id string) ([]domain.Evaluation, error) {
	var out []domain.Evaluation
	for _, e := range f.items {
		if e.CandidateID == id {
			out = append(out, *e)
		}
	}
	return out, nil
}

type fakeCalendar struct {
	items map[string]*domain.CalendarEvent
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{items: map[string]*domain.CalendarEvent{}}
}

func (f *fakeCalendar) Create(_ context.Context, e *domain.CalendarEvent) error {
	e.ID = uuid.NewString()
	cp := *e
	f.items[e.ID] = &cp
	return nil
}

func (f *fakeCalendar) Update(_ context.Context, e *domain.CalendarEvent) error {
	if _, ok := f.items[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *e
	f.items[e.ID] = &cp
	return nil
}

func (f *fakeCalendar) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCalendar) GetByID(_ context.Context, id string) (*domain.CalendarEvent, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *e
	return &cp, nil
}

func (f *fakeCalendar) ListByOwner(_ context.Context, ownerID string, from, to time.Time) ([]domain.CalendarEvent, error) {
	var out []domain.CalendarEvent
	for _, e := range f.items {
		if e.OwnerID == ownerID && e.StartTime.Before(to) && e.EndTime.After(from) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeCalendar) ListByInterview(_ context.Context, interviewID string) ([]domain.CalendarEvent, error) {
	var out []domain.CalendarEvent
	for _, e := range f.items {
		if e.InterviewID != nil && *e.InterviewID == interviewID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeCalendar) DeleteByInterview(_ context.Context, interviewID string) error {
	for id, e := range f.items {
		if e.InterviewID != nil && *e.InterviewID == interviewID {
			delete(f.items, id)
		}
	}
	return nil
}

type fakeNotifications struct {
	items []*domain.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *domain.Notification) error {
	n.ID = uuid.NewString()
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeNotifications) ListByUser(_ context.Context, userID string, unreadOnly bool, _, _ int) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range f.items {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeNotifications) CountUnread(_ context.Context, userID string) (int, error) {
	count := 0
	for _, n := range f.items {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifications) MarkRead(_ context.Context, userID, id string) error {
	for _, n := range f.items {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range f.items {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count, nil
}

func (f *fakeNotifications) Delete(_ context.Context, userID, id string) error {
	for i, n := range f.items {
		if n.ID == id && n.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeNotifications) forUser(userID string) []domain.Notification {
	out, _ := f.ListByUser(context.Background(), userID, false, 0, 0)
	return out
}

type fakeEmails struct {
	items []domain.EmailMessage
}

func (f *fakeEmails) Create(_ context.Context, m *domain.EmailMessage) error {
	m.ID = uuid.NewString()
	f.items = append(f.items, *m)
	return nil
}

func (f *fakeEmails) List(_ context.Context, filter repository.EmailFilter) ([]domain.EmailMessage, error) {
	var out []domain.EmailMessage
	for _, m := range f.items {
		if filter.CandidateID != nil && (m.CandidateID == nil || *m.CandidateID != *filter.CandidateID) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

type fakeResets struct {
	items map[string]*domain.PasswordResetToken
}

func newFakeResets() *fakeResets {
	return &fakeResets{items: map[string]*domain.PasswordResetToken{}}
}

func (f *fakeResets) Create(_ context.Context, t *domain.PasswordResetToken) error {
	t.ID = uuid.NewString()
	cp := *t
	f.items[t.Token] = &cp
	return nil
}

func (f *fakeResets) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	t, ok := f.items[token]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeResets) MarkUsed(_ context.Context, id string) error {
	for _, t := range f.items {
		if t.ID == id {
			if t.UsedAt != nil {
				return pgx.ErrNoRows
			}
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

// recordingMailer captures outgoing messages and can be told to fail.
type recordingMailer struct {
	sent    []mail.Message
	failFor map[string]bool
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	for _, to := range msg.To {
		if m.failFor[to] {
			return errors.New("smtp down")
		}
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) sentTo(addr string) []mail.Message {
	var out []mail.Message
	for _, msg := range m.sent {
		for _, to := range msg.To {
			if to == addr {
				out = append(out, msg)
			}
		}
	}
	return out
}

type fakeStorage struct {
	uploads []string
	deleted []string
	err     error
}

func (s *fakeStorage) Upload(_ context.Context, filename string, _ io.Reader) (*storage.StoredFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	id := storage.PublicIDFor(filename)
	s.uploads = append(s.uploads, id)
	return &storage.StoredFile{URL: "https://files.example.com/" + id, PublicID: id}, nil
}

func (s *fakeStorage) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}

type fakeLocker struct {
	held map[string]bool
}

func (l *fakeLocker) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) Unlock(_ context.Context, key string) error {
	delete(l.held, key)
	return nil
}

// capturingDispatcher wraps the in-memory dispatcher and keeps every published event.
type capturingDispatcher struct {
	events.Dispatcher
	published []events.Event
}

func newCapturingDispatcher() *capturingDispatcher {
	return &capturingDispatcher{Dispatcher: events.NewInMemoryDispatcher(nil)}
}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return d.Dispatcher.Publish(ctx, event)
}

func (d *capturingDispatcher) types() []events.EventType {
	out := make([]events.EventType, 0, len(d.published))
	for _, e := range d.published {
		out = append(out, e.Type)
	}
	return out
}
