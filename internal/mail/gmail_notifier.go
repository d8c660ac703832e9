package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	mailerrors "go-leavemgmt/internal/mail/errors"
	"go-leavemgmt/internal/shared/apperror"
	"go-leavemgmt/internal/shared/contextutil"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// gmailUser addresses the mailbox that owns the OAuth token.
const gmailUser = "me"

type GmailNotifier struct {
	oauth      *oauth2.Config
	store      TokenStore
	mailbox    string
	senderName string
	endpoint   string
	timeout    time.Duration
	logger     *zap.Logger
}

type GmailOption func(*GmailNotifier)

func WithGmailLogger(l *zap.Logger) GmailOption {
	return func(n *GmailNotifier) {
		if l != nil {
			n.logger = l.Named("mail.gmail")
		}
	}
}

// WithGmailEndpoint points the API client at another base URL (used by tests).
func WithGmailEndpoint(endpoint string) GmailOption {
	return func(n *GmailNotifier) { n.endpoint = endpoint }
}

func WithGmailTimeout(d time.Duration) GmailOption {
	return func(n *GmailNotifier) { n.timeout = d }
}

func NewGmailNotifier(oauth *oauth2.Config, store TokenStore, mailbox, senderName string, opts ...GmailOption) *GmailNotifier {
	n := &GmailNotifier{
		oauth:      oauth,
		store:      store,
		mailbox:    mailbox,
		senderName: senderName,
		logger:     zap.L().Named("mail.gmail"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *GmailNotifier) Configured() bool {
	return n.oauth != nil && n.oauth.ClientID != "" && n.mailbox != ""
}

// bounded applies the per-call timeout to every Gmail API round trip.
func (n *GmailNotifier) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if n.timeout > 0 {
		return context.WithTimeout(ctx, n.timeout)
	}
	return ctx, func() {}
}

func (n *GmailNotifier) client(ctx context.Context, mailbox string) (*gmail.Service, error) {
	if !n.Configured() {
		return nil, mailerrors.ErrNotConfigured
	}
	if mailbox == "" {
		mailbox = n.mailbox
	}

	tok, err := n.store.Get(ctx, mailbox)
	if err != nil {
		if isTokenMissing(err) {
			return nil, mailerrors.ErrMailboxNotConnected
		}
		return nil, err
	}

	ts := &persistingTokenSource{
		ctx:     ctx,
		base:    n.oauth.TokenSource(ctx, tok),
		store:   n.store,
		mailbox: mailbox,
		last:    tok.AccessToken,
		logger:  n.logger,
	}
	opts := []option.ClientOption{option.WithTokenSource(ts)}
	if n.endpoint != "" {
		opts = append(opts, option.WithEndpoint(n.endpoint))
	}
	return gmail.NewService(ctx, opts...)
}

func (n *GmailNotifier) Send(ctx context.Context, msg Outgoing) (Sent, error) {
	log := contextutil.GetLogger(ctx, n.logger)
	if strings.TrimSpace(msg.To) == "" {
		return Sent{}, mailerrors.ErrMissingRecipient
	}
	ctx, cancel := n.bounded(ctx)
	defer cancel()

	svc, err := n.client(ctx, n.mailbox)
	if err != nil {
		return Sent{}, err
	}

	raw, err := renderMIME(buildMessage(n.mailbox, n.senderName, msg))
	if err != nil {
		return Sent{}, err
	}

	out, err := svc.Users.Messages.Send(gmailUser, &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw),
		ThreadId: msg.ThreadID,
	}).Context(ctx).Do()
	if err != nil {
		log.Warn("gmail send failed", zap.String("to", msg.To), zap.Error(err))
		return Sent{}, apperror.Upstream(err, "gmail send failed")
	}

	log.Info("gmail message sent", zap.String("message_id", out.Id), zap.String("thread_id", out.ThreadId))
	return Sent{MessageID: out.Id, ThreadID: out.ThreadId}, nil
}

func (n *GmailNotifier) List(ctx context.Context, mailbox, query string, max int) ([]Summary, error) {
	ctx, cancel := n.bounded(ctx)
	defer cancel()

	svc, err := n.client(ctx, mailbox)
	if err != nil {
		return nil, err
	}

	call := svc.Users.Messages.List(gmailUser).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}
	if max > 0 {
		call = call.MaxResults(int64(max))
	}
	resp, err := call.Do()
	if err != nil {
		return nil, apperror.Upstream(err, "gmail list failed")
	}

	out := make([]Summary, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		out = append(out, Summary{ID: m.Id, ThreadID: m.ThreadId})
	}
	return out, nil
}

func (n *GmailNotifier) Get(ctx context.Context, mailbox, id string) (Message, error) {
	ctx, cancel := n.bounded(ctx)
	defer cancel()

	svc, err := n.client(ctx, mailbox)
	if err != nil {
		return Message{}, err
	}

	m, err := svc.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return Message{}, mailerrors.ErrMessageNotFound
		}
		return Message{}, apperror.Upstream(err, "gmail get failed")
	}

	msg := Message{ID: m.Id, ThreadID: m.ThreadId}
	if m.Payload != nil {
		for _, h := range m.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "from":
				msg.From = h.Value
			case "subject":
				msg.Subject = h.Value
			}
		}
		msg.Body = extractBody(m.Payload)
	}
	if msg.Body == "" {
		msg.Body = m.Snippet
	}
	return msg, nil
}

// extractBody prefers the first text/plain part and falls back to stripped text/html.
func extractBody(part *gmail.MessagePart) string {
	if text := findPart(part, "text/plain"); text != "" {
		return text
	}
	if html := findPart(part, "text/html"); html != "" {
		return htmlToText(html)
	}
	return ""
}

func findPart(part *gmail.MessagePart, mimeType string) string {
	if part == nil {
		return ""
	}
	if strings.HasPrefix(part.MimeType, mimeType) && part.Body != nil && part.Body.Data != "" {
		if data, err := decodeBody(part.Body.Data); err == nil {
			return data
		}
	}
	for _, p := range part.Parts {
		if text := findPart(p, mimeType); text != "" {
			return text
		}
	}
	return ""
}

func decodeBody(data string) (string, error) {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawURLEncoding.DecodeString(data)
	}
	return string(b), err
}
