package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"quill/config"
	"quill/internal/domain/entity"
	"quill/internal/domain/event"
	"quill/internal/domain/repository"
	"quill/internal/infra/pubsub"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ProfileHandler consumes profile-creation events and materializes profile
// rows. Pub/Sub delivers at least once, so the handler is idempotent: a
// redelivered event for an existing profile is acknowledged without effect.
type ProfileHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	profileRepo    repository.ProfileRepository
}

// ProfileHandlerParams holds dependencies for the ProfileHandler
type ProfileHandlerParams struct {
	fx.In

	Config      *config.Config
	Logger      *slog.Logger
	ProfileRepo repository.ProfileRepository
}

// NewProfileHandler creates a new profile provisioning push handler
func NewProfileHandler(params ProfileHandlerParams) *ProfileHandler {
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == pubsub.ProviderGoogle &&
		params.Config.Env.Env != envDevelop

	return &ProfileHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		profileRepo:    params.ProfileRepo,
	}
}

// HandlePush handles incoming profile-creation push messages
func (h *ProfileHandler) HandlePush(c echo.Context) error {
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

	var ev event.ProfileCreationRequested
	if err := json.Unmarshal(data, &ev); err != nil {
		h.logger.Error("[Worker] Failed to parse profile-creation event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	reqLogger := scopedLogger(c, pushMsg, h.logger)

	reqLogger.Info("[Worker] Processing profile-creation event",
		slog.String("identity_id", ev.ID),
		slog.String("username", ev.Username),
	)

	if err := h.provisionProfile(c.Request().Context(), &ev, reqLogger); err != nil {
		reqLogger.Error("[Worker] Failed to provision profile",
			slog.String("identity_id", ev.ID),
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	reqLogger.Info("[Worker] Profile provisioned", slog.String("identity_id", ev.ID))

	return c.NoContent(http.StatusOK)
}

// provisionProfile creates the profile row unless one already exists for the
// identity.
func (h *ProfileHandler) provisionProfile(ctx context.Context, ev *event.ProfileCreationRequested, logger *slog.Logger) error {
	identityID, err := uuid.Parse(ev.ID)
	if err != nil {
		return errors.Wrap(err, "invalid identity id in event")
	}

	exists, err := h.profileRepo.ExistsByID(ctx, identityID)
	if err != nil {
		return newRetryableError(errors.Wrap(err, "failed to check existing profile"))
	}
	if exists {
		logger.Info("[Worker] Profile already exists, acknowledging redelivery",
			slog.String("identity_id", ev.ID),
		)

		return nil
	}

	profile := &entity.Profile{
		ID:       identityID,
		Username: ev.Username,
		Nickname: ev.Nickname,
		Email:    ev.Email,
	}

	if err := h.profileRepo.Create(ctx, profile); err != nil {
		// A racing redelivery can insert between the exists check and the
		// create; that is still a successful outcome.
		if errors.Is(err, repository.ErrProfileExists) {
			logger.Info("[Worker] Profile created concurrently, acknowledging",
				slog.String("identity_id", ev.ID),
			)

			return nil
		}

		return newRetryableError(errors.Wrap(err, "failed to create profile"))
	}

	return nil
}
