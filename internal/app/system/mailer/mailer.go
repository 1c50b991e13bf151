// internal/app/system/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Email is a single outgoing message.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config describes the SMTP relay.
type Config struct {
	Host     string
	Port     int
	Username string // blank disables SMTP AUTH (e.g. Mailpit)
	Password string
	From     string
	FromName string
}

// Mailer sends mail through an SMTP relay.
type Mailer struct {
	cfg Config
	log *zap.Logger
}

// New returns a Mailer for cfg.
func New(cfg Config, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: logger}
}

// Send delivers e. It dials the relay per message; the OTP volume does not
// justify a pooled connection.
func (m *Mailer) Send(ctx context.Context, e Email) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(e.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(e.Subject)
	msg.SetBodyString(mail.TypeTextPlain, e.TextBody)
	if e.HTMLBody != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, e.HTMLBody)
	}

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.Warn("smtp send failed",
			zap.String("host", m.cfg.Host),
			zap.Int("port", m.cfg.Port),
			zap.Error(err))
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *Mailer) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}
