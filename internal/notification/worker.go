package notification

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/commercekit/storefront/internal/config"
	"github.com/commercekit/storefront/internal/messaging"
)

// SMTPSender delivers queued mail events over SMTP.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	var auth smtp.Auth
	if cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.From, cfg.Password, cfg.Host)
	}
	return &SMTPSender{
		addr: cfg.Addr(),
		from: cfg.From,
		auth: auth,
	}
}

func (s *SMTPSender) Deliver(event messaging.MailEvent) error {
	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, event.Recipient, event.Subject, event.Body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{event.Recipient}, []byte(message)); err != nil {
		return fmt.Errorf("smtp delivery error: %w", err)
	}

	slog.Info("mail delivered", "event_id", event.ID, "recipient", event.Recipient)
	return nil
}

// StartWorker wires the mail queue to the SMTP sender.
func StartWorker(consumer *messaging.Consumer, sender *SMTPSender) error {
	return consumer.ConsumeMailEvents(
		[]string{messaging.RoutingKeyMailRequested},
		sender.Deliver,
	)
}
