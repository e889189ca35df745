package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/scafi/integration-backend/internal/infrastructure/config"
)

// stallingSender blocks until released, standing in for an SMTP server
// that accepts the connection but never completes the dialogue.
type stallingSender struct {
	release chan struct{}
}

func (s *stallingSender) DialAndSend(...*gomail.Message) error {
	<-s.release
	return nil
}

func TestMailer_Notify(t *testing.T) {
	t.Run("offline mode drops the message", func(t *testing.T) {
		m := NewMailer(&config.SMTPConfig{
			Host:       "localhost",
			Port:       25,
			From:       "it@scafi.it",
			Recipients: []string{"ops@scafi.it"},
			Offline:    true,
		}, zap.NewNop())

		assert.NoError(t, m.Notify("subject", "body"))
	})

	t.Run("fails without recipients", func(t *testing.T) {
		m := NewMailer(&config.SMTPConfig{
			Host: "localhost",
			Port: 25,
			From: "it@scafi.it",
		}, zap.NewNop())

		err := m.Notify("subject", "body")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no notification recipients")
	})

	t.Run("bounds an unresponsive send with the configured timeout", func(t *testing.T) {
		sender := &stallingSender{release: make(chan struct{})}
		defer close(sender.release)

		m := NewMailer(&config.SMTPConfig{
			Host:       "localhost",
			Port:       25,
			From:       "it@scafi.it",
			Recipients: []string{"ops@scafi.it"},
			Timeout:    20 * time.Millisecond,
		}, zap.NewNop())
		m.sender = sender

		start := time.Now()
		err := m.Notify("subject", "body")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timed out")
		assert.Less(t, time.Since(start), time.Second)
	})
}
