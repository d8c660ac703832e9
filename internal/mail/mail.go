package mail

import (
	"context"

	mailerrors "go-leavemgmt/internal/mail/errors"
)

// Outgoing is one HTML message. A non-empty ThreadID continues an existing conversation.
type Outgoing struct {
	To       string
	Subject  string
	HTML     string
	ThreadID string
}

type Sent struct {
	MessageID string `json:"message_id"`
	ThreadID  string `json:"thread_id"`
}

type Summary struct {
	ID       string
	ThreadID string
}

type Message struct {
	ID       string
	ThreadID string
	From     string
	Subject  string
	Body     string
}

//go:generate mockgen -source=mail.go -destination=mock/mail_mock.go -package=mock
type Notifier interface {
	Configured() bool
	Send(ctx context.Context, msg Outgoing) (Sent, error)
	List(ctx context.Context, mailbox, query string, max int) ([]Summary, error)
	Get(ctx context.Context, mailbox, id string) (Message, error)
}

// NoopNotifier is used when neither Gmail nor SMTP is configured.
type NoopNotifier struct{}

func (NoopNotifier) Configured() bool { return false }

func (NoopNotifier) Send(context.Context, Outgoing) (Sent, error) {
	return Sent{}, mailerrors.ErrNotConfigured
}

func (NoopNotifier) List(context.Context, string, string, int) ([]Summary, error) {
	return nil, mailerrors.ErrNotConfigured
}

func (NoopNotifier) Get(context.Context, string, string) (Message, error) {
	return Message{}, mailerrors.ErrNotConfigured
}
