// Package mail is the outbound email collaborator. The SMTP transport is
// constructed once in main and injected; there is no package-level
// transporter. Sends are synchronous with no retry: a failed send surfaces
// to the caller as an upstream error.
package mail

import (
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(msg Message) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(msg Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	return m.dialer.DialAndSend(gm)
}
