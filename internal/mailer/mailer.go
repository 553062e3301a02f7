package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers password-reset codes to users.
type Mailer interface {
	SendResetCode(to, code string) error
}

// SMTPMailer sends mail through an SMTP server over TLS.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, password string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   user,
	}
}

func (m *SMTPMailer) SendResetCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset code")
	msg.SetBody("text/plain", fmt.Sprintf("Your password reset code is: %s\nIt expires in 5 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}
