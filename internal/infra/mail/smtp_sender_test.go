package mail

import (
	"context"
	"log/slog"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/config"
	"quill/internal/domain/event"
)

func TestNewSMTPSender_RequiresHostAndFrom(t *testing.T) {
	logger := slog.Default()

	_, err := NewSMTPSender(nil, logger)
	assert.Error(t, err)

	_, err = NewSMTPSender(&config.SMTPConfig{Host: "smtp.example.com"}, logger)
	assert.Error(t, err)
}

func TestSMTPSender_SendVerificationCode(t *testing.T) {
	sender, err := NewSMTPSender(&config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@example.com",
	}, slog.Default())
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	impl := sender.(*smtpSender)
	impl.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg

		return nil
	}

	err = sender.SendVerificationCode(context.Background(), "reader@example.com", "042917", event.MailKindSignup)
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Equal(t, []string{"reader@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "042917")
	assert.Contains(t, string(gotMsg), "Confirm your signup")
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	sender, err := NewSMTPSender(&config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@example.com",
	}, slog.Default())
	require.NoError(t, err)

	called := false
	impl := sender.(*smtpSender)
	impl.send = func(string, smtp.Auth, string, []string, []byte) error {
		called = true

		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = sender.SendVerificationCode(ctx, "reader@example.com", "042917", event.MailKindSignup)
	assert.Error(t, err)
	assert.False(t, called)
}
