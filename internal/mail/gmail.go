package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/hr-portal/recruitment-service/internal/config"
	"github.com/hr-portal/recruitment-service/internal/domain"
)

const gmailUser = "me"

// GmailMailer sends and reads mail through the Gmail API.
type GmailMailer struct {
	service *gmail.Service
	from    mail.Address
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewGmailMailer authenticates with an OAuth client file and a previously authorized token.
func NewGmailMailer(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (*GmailMailer, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail credentials: %w", err)
	}

	oauthCfg, err := google.ConfigFromJSON(b, gmail.GmailSendScope, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse gmail credentials: %w", err)
	}

	tok, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("read gmail token %s: %w", cfg.TokenFile, err)
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail client: %w", err)
	}

	perSecond := cfg.SendPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	return &GmailMailer{
		service: srv,
		from:    mail.Address{Name: cfg.FromName, Address: cfg.From},
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
		logger:  logger,
	}, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// Send delivers msg, waiting on the send limiter first.
func (g *GmailMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return err
	}

	raw := base64.URLEncoding.EncodeToString(buildMIME(g.from, msg, time.Now()))
	sent, err := g.service.Users.Messages.Send(gmailUser, &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	g.logger.Info("email sent", zap.String("gmail_id", sent.Id), zap.Strings("to", msg.To))
	return nil
}

// ListInbox returns recent messages matching query with their bodies.
func (g *GmailMailer) ListInbox(ctx context.Context, query string, max int64) ([]domain.InboxMessage, error) {
	if max <= 0 || max > 50 {
		max = 20
	}
	call := g.service.Users.Messages.List(gmailUser).MaxResults(max).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	r, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list: %w", err)
	}

	result := make([]domain.InboxMessage, 0, len(r.Messages))
	for _, m := range r.Messages {
		msg, err := g.GetMessage(ctx, m.Id)
		if err != nil {
			g.logger.Warn("unable to fetch gmail message", zap.String("gmail_id", m.Id), zap.Error(err))
			continue
		}
		result = append(result, *msg)
	}
	return result, nil
}

// GetMessage fetches one message and renders its body as text.
func (g *GmailMailer) GetMessage(ctx context.Context, id string) (*domain.InboxMessage, error) {
	m, err := g.service.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail get %s: %w", id, err)
	}
	return convertMessage(m), nil
}

func convertMessage(m *gmail.Message) *domain.InboxMessage {
	out := &domain.InboxMessage{
		ID:         m.Id,
		ThreadID:   m.ThreadId,
		Snippet:    m.Snippet,
		ReceivedAt: time.UnixMilli(m.InternalDate).UTC(),
	}
	if m.Payload == nil {
		return out
	}
	for _, h := range m.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "from":
			out.From = h.Value
		case "to":
			out.To = h.Value
		case "subject":
			out.Subject = h.Value
		}
	}
	html, plain := extractBodies(m.Payload)
	if html != "" {
		out.Body = ToPlainText(html)
	} else {
		out.Body = strings.TrimSpace(plain)
	}
	return out
}

// extractBodies walks the MIME tree and returns the first HTML and plain text parts.
func extractBodies(part *gmail.MessagePart) (html, plain string) {
	if part == nil {
		return "", ""
	}
	if part.Body != nil && part.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err != nil {
			data, err = base64.RawURLEncoding.DecodeString(part.Body.Data)
		}
		if err == nil {
			switch {
			case strings.HasPrefix(part.MimeType, "text/html"):
				html = string(data)
			case strings.HasPrefix(part.MimeType, "text/plain"):
				plain = string(data)
			}
		}
	}
	for _, child := range part.Parts {
		h, p := extractBodies(child)
		if html == "" {
			html = h
		}
		if plain == "" {
			plain = p
		}
	}
	return html, plain
}
