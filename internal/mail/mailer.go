package mail

import (
	"context"
	"errors"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// ErrInboxUnavailable is returned by mailers that cannot read a mailbox.
var ErrInboxUnavailable = errors.New("inbox not configured")

// Message is an outbound HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Inbox reads the service mailbox.
type Inbox interface {
	ListInbox(ctx context.Context, query string, max int64) ([]domain.InboxMessage, error)
	GetMessage(ctx context.Context, id string) (*domain.InboxMessage, error)
}
