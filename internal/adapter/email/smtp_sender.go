package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html"

	"github.com/PartyAppOfficial/Partyapp/internal/contact"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("SMTP host, port and sender email must be configured")

type Options struct {
	Host         string
	Port         int
	Username     string
	Password     string
	SenderEmail  string
	SenderName   string
	ContactInbox string
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends the owner confirmation and the contact form mails.
type SMTPSender struct {
	opts   Options
	d      dialer
	logger *logger.Logger
}

func NewSMTPSender(opts Options, log *logger.Logger) (*SMTPSender, error) {
	if opts.Host == "" || opts.Port == 0 || opts.SenderEmail == "" {
		return nil, ErrNotConfigured
	}
	d := gomail.NewDialer(opts.Host, opts.Port, opts.Username, opts.Password)
	d.TLSConfig = &tls.Config{ServerName: opts.Host, MinVersion: tls.VersionTLS12}
	return newSMTPSender(opts, d, log), nil
}

func newSMTPSender(opts Options, d dialer, log *logger.Logger) *SMTPSender {
	if opts.ContactInbox == "" {
		opts.ContactInbox = opts.SenderEmail
	}
	return &SMTPSender{opts: opts, d: d, logger: log.Named("SMTPSender")}
}

func (s *SMTPSender) SendListingCreatedEmail(ctx context.Context, toEmail, ownerName, businessName string) error {
	return s.send(ctx, s.listingCreatedMessage(toEmail, ownerName, businessName))
}

func (s *SMTPSender) SendContactMessage(ctx context.Context, m contact.Message) error {
	return s.send(ctx, s.contactMessage(m))
}

func (s *SMTPSender) newMessage(to, subject string) *gomail.Message {
	m := gomail.NewMessage()
	if s.opts.SenderName != "" {
		m.SetAddressHeader("From", s.opts.SenderEmail, s.opts.SenderName)
	} else {
		m.SetHeader("From", s.opts.SenderEmail)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	return m
}

func (s *SMTPSender) listingCreatedMessage(toEmail, ownerName, businessName string) *gomail.Message {
	m := s.newMessage(toEmail, "Your business has been registered")
	text := fmt.Sprintf("Hello %s,\n\nYour business '%s' has been registered and is pending review.\n", ownerName, businessName)
	m.SetBody("text/plain", text)
	m.AddAlternative("text/html", fmt.Sprintf(
		"<p>Hello %s,</p><p>Your business <b>%s</b> has been registered and is pending review.</p>",
		html.EscapeString(ownerName), html.EscapeString(businessName)))
	return m
}

func (s *SMTPSender) contactMessage(c contact.Message) *gomail.Message {
	m := s.newMessage(s.opts.ContactInbox, c.Subject)
	m.SetAddressHeader("Reply-To", c.Email, c.Name)
	m.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s\n", c.Name, c.Email, c.Message))
	return m
}

// send runs DialAndSend in its own goroutine so a cancelled request does
// not wait for a slow SMTP server. The dial itself is not interrupted.
func (s *SMTPSender) send(ctx context.Context, m *gomail.Message) error {
	to := m.GetHeader("To")
	subject := m.GetHeader("Subject")

	done := make(chan error, 1)
	go func() {
		done <- s.d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("Email sending cancelled", zap.Strings("to", to), zap.Strings("subject", subject), zap.Error(ctx.Err()))
		return fmt.Errorf("email sending cancelled or timed out: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.logger.Error("Failed to send email", zap.Strings("to", to), zap.Strings("subject", subject), zap.Error(err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	}
	s.logger.Info("Email sent", zap.Strings("to", to), zap.Strings("subject", subject))
	return nil
}
