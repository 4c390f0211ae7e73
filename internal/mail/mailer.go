// Package mail sends transactional email over SMTP.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text email through a single SMTP relay.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewMailer creates a mailer for the given SMTP relay. Empty user/pass
// disables authentication (local relays, mailcatchers).
func NewMailer(host, port, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Send delivers a single message. Blocking; callers that must not fail the
// request on mail errors should call it from a goroutine and log the result.
func (m *Mailer) Send(to, subject, body string) error {
	var msg strings.Builder
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := m.host + ":" + m.port
	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// PasswordResetBody renders the reset email body with the tokenized link.
func PasswordResetBody(name, resetURL string) string {
	return fmt.Sprintf(
		"Hi %s,\r\n\r\n"+
			"A password reset was requested for your account. Open the link below to choose a new password:\r\n\r\n"+
			"%s\r\n\r\n"+
			"The link expires in one hour. If you did not request a reset, ignore this email.\r\n",
		name, resetURL)
}
