package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"

	"github.com/nurpe/kostenersatz/internal/config"
)

type SMTPSender struct {
	cfg config.SMTPConfig
	log zerolog.Logger
	now func() time.Time
}

func NewSMTPSender(cfg config.SMTPConfig, log zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// Send delivers msg through the configured relay. The context deadline
// bounds the whole SMTP conversation.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("smtp host is not configured")
	}
	if msg.From == "" {
		msg.From = s.cfg.From
	}
	m, err := Build(msg, s.now())
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	client, err := gomail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Debug().Strs("to", msg.To).Str("subject", msg.Subject).Msg("mail handed to relay")
	return nil
}

func (s *SMTPSender) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}
