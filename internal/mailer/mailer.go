package mailer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ksuda/warikan/internal/config"
	"github.com/mailersend/mailersend-go"
)

// Mailer sends magic-link and invite mail through MailerSend. Without an API
// key it degrades to logging the link, which keeps the demo flow usable
// locally.
type Mailer struct {
	client    *mailersend.Mailersend
	fromName  string
	fromEmail string
}

func New(cfg *config.Config) *Mailer {
	m := &Mailer{
		fromName:  cfg.MailFromName,
		fromEmail: cfg.MailFromEmail,
	}
	if cfg.MailerSendAPIKey != "" {
		m.client = mailersend.NewMailersend(cfg.MailerSendAPIKey)
	}
	return m
}

func (m *Mailer) Send(ctx context.Context, toEmail, subject, body string) error {
	if m.client == nil {
		log.Printf("mail disabled; %s for %s: %s", subject, toEmail, body)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: m.fromName, Email: m.fromEmail})
	message.SetRecipients([]mailersend.Recipient{{Email: toEmail}})
	message.SetSubject(subject)
	message.SetText(body)

	res, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Println("Email sent. Message ID:", res.Header.Get("X-Message-Id"))
	return nil
}
