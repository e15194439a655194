// Package mail delivers contact-form submissions to the site admin.
package mail

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Message is one contact-form submission.
type Message struct {
	Name          string
	Email         string
	Subject       string
	Body          string
	AttachmentURL string
}

// Sender delivers a message to a recipient.
type Sender interface {
	Send(to string, msg Message) error
}

// SMTPSender sends plain-text mail over SMTP.
type SMTPSender struct {
	Host string
	Port string
	From string
}

func NewSMTPSender(host, port, from string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, From: from}
}

func (s *SMTPSender) Send(to string, msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Reply-To: %s\r\n", msg.Email)
	fmt.Fprintf(&b, "Subject: [contact-us] %s\r\n", msg.Subject)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "From: %s <%s>\r\n\r\n", msg.Name, msg.Email)
	b.WriteString(msg.Body)
	if msg.AttachmentURL != "" {
		fmt.Fprintf(&b, "\r\n\r\nAttachment: %s\r\n", msg.AttachmentURL)
	}

	addr := s.Host + ":" + s.Port
	return smtp.SendMail(addr, nil, s.From, []string{to}, []byte(b.String()))
}
