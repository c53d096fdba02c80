package service

import "context"

// MailSender sends verification codes out-of-band. Implementations live in
// the infra layer; the worker's mail consumer is the only caller.
type MailSender interface {
	// SendVerificationCode delivers the code to the recipient address.
	SendVerificationCode(ctx context.Context, email, code, kind string) error
}
