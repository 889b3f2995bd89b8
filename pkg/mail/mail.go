// Package mail delivers outbound notifications. The transport is a
// capability: handlers depend on Mailer and never on a concrete provider.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

type Mailer interface {
	Send(msg Message) error
}

// LogMailer is the development default: it writes the message to the log
// instead of sending it, so login links show up on the console.
type LogMailer struct {
	Log *zap.Logger
}

func (m *LogMailer) Send(msg Message) error {
	m.Log.Info("outbound mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.HTMLBody),
	)
	return nil
}

// SMTPMailer sends through a plain-auth SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (m *SMTPMailer) Send(msg Message) error {
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	body := strings.Join([]string{
		"From: " + msg.From,
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		msg.HTMLBody,
	}, "\r\n")
	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

// LoginLink builds the one-time login email.
func LoginLink(from, to, siteName, link string) Message {
	return Message{
		From:     from,
		To:       to,
		Subject:  fmt.Sprintf("Log in to %s", siteName),
		HTMLBody: fmt.Sprintf(`<p>Click to log in to %s:</p><p><a href="%s">%s</a></p><p>The link works once.</p>`, siteName, link, link),
	}
}
