// Package mail sends transactional email over SMTP.
//
//	msg := mail.To("buyer@delta.eg").
//	    Subject("You're on the SOUQHUP beta list").
//	    Text("Thanks for signing up.")
//	err := mail.FromConfig().Send(ctx, msg)
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/shashiranjanraj/souqhup/config"
)

var ErrNotConfigured = errors.New("mail: MAIL_HOST and MAIL_USERNAME are not configured")

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, m *Message) error
}

// SMTP is a Sender for one relay. Port 465 uses implicit TLS; any other
// port upgrades with STARTTLS when the server offers it.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

// FromConfig reads the MAIL_* settings.
func FromConfig() SMTP {
	return SMTP{
		Host:     config.MailHost(),
		Port:     config.MailPort(),
		Username: config.MailUsername(),
		Password: config.MailPassword(),
		From:     config.MailFrom(),
		FromName: config.MailFromName(),
	}
}

func (s SMTP) Configured() bool { return s.Host != "" && s.Username != "" }

// Message is a fluent builder for one email.
type Message struct {
	to      []string
	subject string
	body    string
	isHTML  bool
}

func To(addresses ...string) *Message {
	return &Message{to: addresses}
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Text sets a plain-text body.
func (m *Message) Text(text string) *Message {
	m.body = text
	m.isHTML = false
	return m
}

// HTML sets an HTML body.
func (m *Message) HTML(html string) *Message {
	m.body = html
	m.isHTML = true
	return m
}

// Render executes tmpl with data as the HTML body.
func (m *Message) Render(tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("mail: render %s: %w", tmpl.Name(), err)
	}
	m.HTML(buf.String())
	return nil
}

func (m *Message) Recipients() []string { return append([]string(nil), m.to...) }

func (m *Message) Body() string { return m.body }

// Send delivers m. The dial honours ctx; the SMTP exchange is bounded by a
// deadline derived from it.
func (s SMTP) Send(ctx context.Context, m *Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if len(m.to) == 0 {
		return errors.New("mail: no recipients")
	}

	addr := net.JoinHostPort(s.Host, s.Port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(30 * time.Second)
	}
	_ = conn.SetDeadline(deadline)

	if s.Port == "465" {
		conn = tls.Client(conn, &tls.Config{ServerName: s.Host})
	}
	client, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: handshake: %w", err)
	}
	defer client.Close()

	if s.Port != "465" {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
				return fmt.Errorf("mail: starttls: %w", err)
			}
		}
	}
	if err := client.Auth(smtp.PlainAuth("", s.Username, s.Password, s.Host)); err != nil {
		return fmt.Errorf("mail: auth: %w", err)
	}
	if err := client.Mail(s.From); err != nil {
		return err
	}
	for _, rcpt := range m.to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("mail: rcpt %s: %w", rcpt, err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(m.Raw(fmt.Sprintf("%s <%s>", s.FromName, s.From))); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// Raw renders m as an RFC 5322 message from the given sender.
func (m *Message) Raw(from string) []byte {
	contentType := "text/plain"
	if m.isHTML {
		contentType = "text/html"
	}

	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	b.WriteString("Subject: " + m.subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString(fmt.Sprintf("Content-Type: %s; charset=\"UTF-8\"\r\n", contentType))
	b.WriteString("\r\n")
	b.WriteString(m.body)
	return []byte(b.String())
}
