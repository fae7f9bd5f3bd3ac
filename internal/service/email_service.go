package service

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yasinhessnawi1/storefront/internal/config"
	"github.com/yasinhessnawi1/storefront/internal/constants"
	"github.com/yasinhessnawi1/storefront/internal/utils"
)

// EmailMessage is a plain-text message to a single recipient.
type EmailMessage struct {
	ToName    string
	ToAddress string
	Subject   string
	Body      string
}

// EmailSender delivers outgoing mail.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// NewEmailSender builds the sender selected by cfg.Provider.
func NewEmailSender(cfg *config.EmailSettings) (EmailSender, error) {
	switch cfg.Provider {
	case constants.EmailProviderSendGrid:
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid provider selected but no API key configured")
		}
		return NewSendGridSender(cfg), nil
	case constants.EmailProviderSMTP:
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("smtp provider selected but no host configured")
		}
		return NewSMTPSender(cfg), nil
	case constants.EmailProviderLog, "":
		return NewLogSender(cfg), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// sendGridSendFunc delivers a prepared message and reports the provider's status code.
type sendGridSendFunc func(ctx context.Context, message *sgmail.SGMailV3) (int, string, error)

// SendGridSender sends mail through the SendGrid v3 API.
type SendGridSender struct {
	fromName    string
	fromAddress string
	send        sendGridSendFunc
}

// NewSendGridSender creates a SendGrid sender using the configured API key.
func NewSendGridSender(cfg *config.EmailSettings) *SendGridSender {
	client := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	return &SendGridSender{
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
		send: func(ctx context.Context, message *sgmail.SGMailV3) (int, string, error) {
			response, err := client.SendWithContext(ctx, message)
			if err != nil {
				return 0, "", err
			}
			return response.StatusCode, response.Body, nil
		},
	}
}

// Send implements EmailSender.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := sgmail.NewEmail(s.fromName, s.fromAddress)
	to := sgmail.NewEmail(msg.ToName, msg.ToAddress)
	message := sgmail.NewSingleEmailPlainText(from, msg.Subject, to, msg.Body)

	status, body, err := s.send(ctx, message)
	if err != nil {
		log.Error().Err(err).Str("to", utils.MaskEmail(msg.ToAddress)).Msg("SendGrid request failed")
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	if status < 200 || status > 299 {
		log.Error().
			Int("status_code", status).
			Str("body", utils.TruncateString(body, 200)).
			Str("to", utils.MaskEmail(msg.ToAddress)).
			Msg("SendGrid rejected message")
		return fmt.Errorf("sendgrid returned status %d", status)
	}

	log.Info().Int("status_code", status).Str("to", utils.MaskEmail(msg.ToAddress)).Msg("Email sent")
	return nil
}

// smtpSendFunc matches smtp.SendMail.
type smtpSendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender sends mail through an SMTP relay using STARTTLS when offered.
type SMTPSender struct {
	addr        string
	host        string
	user        string
	password    string
	fromName    string
	fromAddress string
	now         func() time.Time
	sendMail    smtpSendFunc
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg *config.EmailSettings) *SMTPSender {
	port := cfg.SMTPPort
	if port == 0 {
		port = constants.DefaultSMTPPort
	}
	return &SMTPSender{
		addr:        net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(port)),
		host:        cfg.SMTPHost,
		user:        cfg.SMTPUser,
		password:    cfg.SMTPPassword,
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
		now:         time.Now,
		sendMail:    smtp.SendMail,
	}
}

// Send implements EmailSender. smtp.SendMail has no context support, so a
// cancelled context is only honoured before the connection is opened.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.password, s.host)
	}

	if err := s.sendMail(s.addr, auth, s.fromAddress, []string{msg.ToAddress}, s.compose(msg)); err != nil {
		log.Error().Err(err).Str("to", utils.MaskEmail(msg.ToAddress)).Msg("SMTP delivery failed")
		return fmt.Errorf("smtp delivery failed: %w", err)
	}

	log.Info().Str("to", utils.MaskEmail(msg.ToAddress)).Msg("Email sent")
	return nil
}

// compose renders an RFC 5322 plain-text message.
func (s *SMTPSender) compose(msg EmailMessage) []byte {
	from := mail.Address{Name: s.fromName, Address: s.fromAddress}
	to := mail.Address{Name: msg.ToName, Address: msg.ToAddress}

	var b strings.Builder
	b.WriteString("From: " + from.String() + "\r\n")
	b.WriteString("To: " + to.String() + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("Date: " + s.now().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogSender writes messages to the log instead of delivering them.
// Used in development and tests.
type LogSender struct {
	fromAddress string
}

// NewLogSender creates a log-only sender.
func NewLogSender(cfg *config.EmailSettings) *LogSender {
	return &LogSender{fromAddress: cfg.FromAddress}
}

// Send implements EmailSender.
func (s *LogSender) Send(_ context.Context, msg EmailMessage) error {
	log.Info().
		Str("from", s.fromAddress).
		Str("to", utils.MaskEmail(msg.ToAddress)).
		Str("subject", msg.Subject).
		Msg("Email not delivered, log provider in use")
	log.Debug().Str("body", msg.Body).Msg("Email body")
	return nil
}
