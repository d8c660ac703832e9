package mail

import (
	"context"
	"strings"
	"time"

	mailerrors "go-leavemgmt/internal/mail/errors"
	"go-leavemgmt/internal/shared/apperror"
	"go-leavemgmt/internal/shared/contextutil"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier sends only. It threads replies by Message-ID and cannot poll an inbox.
type SMTPNotifier struct {
	dialer     Dialer
	from       string
	senderName string
	timeout    time.Duration
	logger     *zap.Logger
}

func NewSMTPNotifier(dialer Dialer, from, senderName string, logger ...*zap.Logger) *SMTPNotifier {
	l := zap.L().Named("mail.smtp")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mail.smtp")
	}
	return &SMTPNotifier{dialer: dialer, from: from, senderName: senderName, logger: l}
}

// WithTimeout bounds each Send on top of the caller's context.
func (n *SMTPNotifier) WithTimeout(d time.Duration) *SMTPNotifier {
	n.timeout = d
	return n
}

func (n *SMTPNotifier) Configured() bool {
	return n.dialer != nil && n.from != ""
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Outgoing) (Sent, error) {
	log := contextutil.GetLogger(ctx, n.logger)
	if !n.Configured() {
		return Sent{}, mailerrors.ErrNotConfigured
	}
	if strings.TrimSpace(msg.To) == "" {
		return Sent{}, mailerrors.ErrMissingRecipient
	}

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	m := buildMessage(n.from, n.senderName, msg)
	messageID := m.GetHeader("Message-ID")[0]

	errCh := make(chan error, 1)
	go func() { errCh <- n.dialer.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		log.Warn("smtp send abandoned", zap.String("to", msg.To), zap.Error(ctx.Err()))
		return Sent{}, apperror.Upstream(ctx.Err(), "smtp send timed out")
	case err := <-errCh:
		if err != nil {
			log.Warn("smtp send failed", zap.String("to", msg.To), zap.Error(err))
			return Sent{}, apperror.Upstream(err, "smtp send failed")
		}
	}

	thread := msg.ThreadID
	if thread == "" {
		thread = messageID
	}
	log.Info("smtp message sent", zap.String("message_id", messageID))
	return Sent{MessageID: messageID, ThreadID: thread}, nil
}

func (n *SMTPNotifier) List(context.Context, string, string, int) ([]Summary, error) {
	return nil, mailerrors.ErrInboxUnsupported
}

func (n *SMTPNotifier) Get(context.Context, string, string) (Message, error) {
	return Message{}, mailerrors.ErrInboxUnsupported
}
