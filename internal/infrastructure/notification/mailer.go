package notification

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/scafi/integration-backend/internal/infrastructure/config"
)

// Notifier delivers operator alerts raised by the relay workflows.
type Notifier interface {
	// Notify sends one message to the configured recipients. Delivery is
	// best effort; failures must not abort the calling workflow.
	Notify(subject, body string) error
}

// smtpSender abstracts gomail's dial-and-send so delivery can be
// stubbed in tests.
type smtpSender interface {
	DialAndSend(msg ...*gomail.Message) error
}

// Mailer sends plain-text notification mail over SMTP.
type Mailer struct {
	cfg    *config.SMTPConfig
	sender smtpSender
	logger *zap.Logger
}

var _ Notifier = (*Mailer)(nil)

func NewMailer(cfg *config.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:    cfg,
		sender: gomail.NewDialer(cfg.Host, cfg.Port, "", ""),
		logger: logger,
	}
}

// Notify sends subject and body to every configured recipient in a single
// message. In offline mode the message is logged and dropped.
func (m *Mailer) Notify(subject, body string) error {
	if m.cfg.Offline {
		m.logger.Info("mail offline, dropping notification",
			zap.String("subject", subject))
		return nil
	}
	if len(m.cfg.Recipients) == 0 {
		return fmt.Errorf("no notification recipients configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.Recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	// gomail exposes no dial timeout, so the send is bounded here. A
	// timed-out attempt is abandoned; its goroutine ends when the
	// underlying connection gives up.
	timeout := m.cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	done := make(chan error, 1)
	go func() { done <- m.sender.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send notification mail: %w", err)
		}
	case <-time.After(timeout):
		return fmt.Errorf("notification mail timed out after %s", timeout)
	}

	m.logger.Info("notification mail sent",
		zap.String("subject", subject),
		zap.Strings("recipients", m.cfg.Recipients))
	return nil
}
