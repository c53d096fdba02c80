package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"quill/internal/domain/event"
	"quill/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Worker push paths served by cmd/worker. The local publisher posts push
// envelopes straight to them, standing in for Pub/Sub push subscriptions.
const (
	localProfilePushPath = "/push/profile"
	localMailPushPath    = "/push/mail"
)

// localHTTPPublisher implements EventPublisher by sending HTTP POST requests
// to the local worker, simulating Pub/Sub push behavior for development
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PubSubPushMessage represents the structure of a Pub/Sub push message
// This mimics the format Google Pub/Sub uses when pushing to HTTP endpoints
type PubSubPushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// PublishProfileCreation posts a profile-creation push envelope to the worker.
func (p *localHTTPPublisher) PublishProfileCreation(ctx context.Context, ev *event.ProfileCreationRequested) error {
	attributes := map[string]string{
		"identity_id": ev.ID,
	}

	p.logger.Info("[LocalPubSub] Publishing profile-creation event",
		slog.String("endpoint", p.endpoint+localProfilePushPath),
		slog.String("identity_id", ev.ID),
	)

	return p.push(ctx, localProfilePushPath, "profile-creation-sub", ev, attributes)
}

// PublishVerificationMail posts a verification-mail push envelope to the worker.
func (p *localHTTPPublisher) PublishVerificationMail(ctx context.Context, ev *event.VerificationMailRequested) error {
	attributes := map[string]string{
		"kind": ev.Kind,
	}

	p.logger.Info("[LocalPubSub] Publishing verification-mail event",
		slog.String("endpoint", p.endpoint+localMailPushPath),
		slog.String("kind", ev.Kind),
	)

	return p.push(ctx, localMailPushPath, "verification-mail-sub", ev, attributes)
}

func (p *localHTTPPublisher) push(ctx context.Context, path, subscription string, payload any, attributes map[string]string) error {
	eventData, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}

	pushMsg := PubSubPushMessage{
		Subscription: "projects/local/subscriptions/" + subscription,
	}
	pushMsg.Message.Data = base64.StdEncoding.EncodeToString(eventData)
	pushMsg.Message.MessageID = uuid.NewString()
	pushMsg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)
	pushMsg.Message.Attributes = attributes

	body, err := json.Marshal(pushMsg)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("worker returned non-success status: %d", resp.StatusCode)
	}

	return nil
}

// Close releases resources (no-op for HTTP client)
func (p *localHTTPPublisher) Close() error {
	return nil
}
