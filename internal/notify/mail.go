package notify

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/wneessen/go-mail"
)

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type MailNotifier struct {
	cfg  MailConfig
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewMailNotifier(cfg MailConfig) (*MailNotifier, error) {
	if cfg.Host == "" || cfg.From == "" || cfg.To == "" {
		return nil, errors.New("notify: mail host, from and to are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	m := &MailNotifier{cfg: cfg}
	m.send = m.dialAndSend
	return m, nil
}

// Message builds the operator email for ev.
func (m *MailNotifier) Message(ev Event) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("notify: from: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("notify: to: %w", err)
	}

	subject := ev.Subject
	if subject == "" {
		subject = "New Profile Submission"
	}
	msg.Subject(subject)

	body := fmt.Sprintf("New %s entry submitted: (%s)<br>", html.EscapeString(ev.Label), html.EscapeString(ev.Title))
	if ev.URL != "" {
		body += fmt.Sprintf(`<a href="%s">%s</a><br>`, html.EscapeString(ev.URL), html.EscapeString(ev.URL))
	}
	body += "Have a good day!"
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

func (m *MailNotifier) Notify(ctx context.Context, ev Event) error {
	msg, err := m.Message(ev)
	if err != nil {
		return err
	}
	return m.send(ctx, msg)
}

func (m *MailNotifier) dialAndSend(ctx context.Context, msg *mail.Msg) error {
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

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("notify: smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}
	return nil
}
