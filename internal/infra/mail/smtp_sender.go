// Package mail implements outbound delivery of verification codes.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"quill/config"
	"quill/internal/domain/event"
	"quill/internal/domain/service"

	"github.com/pkg/errors"
)

// smtpSender delivers verification codes over plain SMTP.
type smtpSender struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger

	// send is swappable for tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender is the constructor for smtpSender.
func NewSMTPSender(cfg *config.SMTPConfig, logger *slog.Logger) (service.MailSender, error) {
	if cfg == nil || cfg.Host == "" {
		return nil, errors.New("smtp host must be configured")
	}
	if cfg.From == "" {
		return nil, errors.New("smtp from address must be configured")
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpSender{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:   cfg.From,
		auth:   auth,
		logger: logger,
		send:   smtp.SendMail,
	}, nil
}

// SendVerificationCode sends the six-digit code to the recipient.
func (s *smtpSender) SendVerificationCode(ctx context.Context, email, code, kind string) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	msg := buildVerificationMessage(s.from, email, code, kind)

	if err := s.send(s.addr, s.auth, s.from, []string{email}, msg); err != nil {
		return errors.Wrap(err, "failed to send verification mail")
	}

	s.logger.Info("Verification mail sent",
		slog.String("email", email),
		slog.String("kind", kind),
	)

	return nil
}

func buildVerificationMessage(from, to, code, kind string) []byte {
	subject := "Your verification code"
	if kind == event.MailKindSignup {
		subject = "Confirm your signup"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your verification code is %s.\r\n", code)
	b.WriteString("It expires in 5 minutes.\r\n")

	return []byte(b.String())
}
