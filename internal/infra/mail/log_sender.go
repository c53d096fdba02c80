package mail

import (
	"context"
	"log/slog"

	"quill/internal/domain/service"
)

// logSender writes verification codes to the log instead of sending mail.
// Used when no SMTP server is configured, typically in local development.
type logSender struct {
	logger *slog.Logger
}

// NewLogSender is the constructor for logSender.
func NewLogSender(logger *slog.Logger) service.MailSender {
	return &logSender{logger: logger}
}

func (s *logSender) SendVerificationCode(_ context.Context, email, code, kind string) error {
	s.logger.Info("[LogMail] Verification code issued",
		slog.String("email", email),
		slog.String("code", code),
		slog.String("kind", kind),
	)

	return nil
}
