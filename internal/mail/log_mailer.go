package mail

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// LogMailer writes outbound email to the log instead of sending it. It is used when no Gmail
// credentials are configured and keeps the last messages for inspection.
type LogMailer struct {
	logger *zap.Logger

	mu   sync.Mutex
	sent []Message
}

// NewLogMailer builds a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message.
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}
	m.logger.Info("email not delivered; mailer disabled",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	if len(m.sent) > 100 {
		m.sent = m.sent[len(m.sent)-100:]
	}
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of recently logged messages.
func (m *LogMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

// ListInbox always fails; there is no mailbox to read.
func (m *LogMailer) ListInbox(context.Context, string, int64) ([]domain.InboxMessage, error) {
	return nil, ErrInboxUnavailable
}

// GetMessage always fails; there is no mailbox to read.
func (m *LogMailer) GetMessage(context.Context, string) (*domain.InboxMessage, error) {
	return nil, ErrInboxUnavailable
}
