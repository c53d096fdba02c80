package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"quill/config"
	"quill/internal/domain/event"
	"quill/internal/domain/service"
	"quill/internal/infra/pubsub"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// MailHandler consumes verification-mail events and sends the code to the
// recipient. Delivery failures are logged and acknowledged: a verification
// code expires in minutes, so retrying a stale one helps nobody, and the
// user can simply request a fresh code.
type MailHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	sender         service.MailSender
}

// MailHandlerParams holds dependencies for the MailHandler
type MailHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Sender service.MailSender
}

// NewMailHandler creates a new verification-mail push handler
func NewMailHandler(params MailHandlerParams) *MailHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == pubsub.ProviderGoogle &&
		params.Config.Env.Env != envDevelop

	return &MailHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		sender:         params.Sender,
	}
}

// HandlePush handles incoming verification-mail push messages
func (h *MailHandler) HandlePush(c echo.Context) error {
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	pushMsg, data, ok := decodePushPayload(c, h.logger)
	if !ok {
		return c.NoContent(http.StatusBadRequest)
	}

	var ev event.VerificationMailRequested
	if err := json.Unmarshal(data, &ev); err != nil {
		h.logger.Error("[Worker] Failed to parse verification-mail event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	reqLogger := scopedLogger(c, pushMsg, h.logger)

	if err := h.sender.SendVerificationCode(c.Request().Context(), ev.Email, ev.Code, ev.Kind); err != nil {
		reqLogger.Error("[Worker] Failed to send verification mail",
			slog.String("email", ev.Email),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Verification mail dispatched",
		slog.String("email", ev.Email),
		slog.String("kind", ev.Kind),
	)

	return c.NoContent(http.StatusOK)
}
