package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quill/config"
	"quill/internal/domain/event"
)

// fakeMailSender records sends and optionally fails.
type fakeMailSender struct {
	sendErr error
	sent    []event.VerificationMailRequested
}

func (s *fakeMailSender) SendVerificationCode(_ context.Context, email, code, kind string) error {
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, event.VerificationMailRequested{Email: email, Code: code, Kind: kind})

	return nil
}

func newMailHandler(sender *fakeMailSender) *MailHandler {
	return NewMailHandler(MailHandlerParams{
		Config: &config.Config{},
		Logger: slog.Default(),
		Sender: sender,
	})
}

func mailPushRequest(t *testing.T, ev event.VerificationMailRequested) *http.Request {
	t.Helper()

	data, err := json.Marshal(ev)
	require.NoError(t, err)

	var pushMsg PubSubMessage
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(data)
	pushMsg.Subscription = "projects/local/subscriptions/verification-mail-sub"

	body, err := json.Marshal(pushMsg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/push/mail", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return req
}

func serveMailPush(t *testing.T, h *MailHandler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.HandlePush(c))

	return rec
}

func TestMailHandler_SendsCode(t *testing.T) {
	sender := &fakeMailSender{}

	rec := serveMailPush(t, newMailHandler(sender), mailPushRequest(t, event.VerificationMailRequested{
		Email: "reader@example.com",
		Code:  "042917",
		Kind:  event.MailKindSignup,
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "reader@example.com", sender.sent[0].Email)
	assert.Equal(t, "042917", sender.sent[0].Code)
}

func TestMailHandler_DeliveryFailureIsAcknowledged(t *testing.T) {
	sender := &fakeMailSender{sendErr: errors.New("smtp connection refused")}

	rec := serveMailPush(t, newMailHandler(sender), mailPushRequest(t, event.VerificationMailRequested{
		Email: "reader@example.com",
		Code:  "042917",
		Kind:  event.MailKindSignup,
	}))

	// Codes expire in minutes; retrying stale mail is pointless, so a
	// failed send still acks.
	assert.Equal(t, http.StatusOK, rec.Code)
}
