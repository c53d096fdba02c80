package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"quill/internal/domain/event"
	"quill/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePubSubPublisher implements EventPublisher using Google Cloud Pub/Sub.
// Profile-creation and verification-mail events go to separate topics.
type googlePubSubPublisher struct {
	client           *pubsub.Client
	profilePublisher *pubsub.Publisher
	mailPublisher    *pubsub.Publisher
	logger           *slog.Logger
}

// NewGooglePubSubPublisher creates a new Google Pub/Sub publisher
func NewGooglePubSubPublisher(ctx context.Context, projectID, profileTopicID, mailTopicID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check that both topics exist using TopicAdminClient
	for _, topicID := range []string{profileTopicID, mailTopicID} {
		topicPath := fmt.Sprintf("projects/%s/topics/%s", projectID, topicID)
		if _, err := client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
			Topic: topicPath,
		}); err != nil {
			client.Close()

			return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
		}
	}

	profilePublisher := client.Publisher(profileTopicID)
	// Profile events for the same identity must arrive in order; the
	// ordering key is the identity id.
	profilePublisher.EnableMessageOrdering = true

	mailPublisher := client.Publisher(mailTopicID)

	logger.Info("Google Pub/Sub publisher initialized",
		slog.String("project_id", projectID),
		slog.String("profile_topic_id", profileTopicID),
		slog.String("mail_topic_id", mailTopicID),
	)

	return &googlePubSubPublisher{
		client:           client,
		profilePublisher: profilePublisher,
		mailPublisher:    mailPublisher,
		logger:           logger,
	}, nil
}

// PublishProfileCreation publishes a profile-creation event keyed by identity id.
func (p *googlePubSubPublisher) PublishProfileCreation(ctx context.Context, ev *event.ProfileCreationRequested) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WithStack(err)
	}

	msg := &pubsub.Message{
		Data:        data,
		OrderingKey: ev.ID,
		Attributes: map[string]string{
			"identity_id": ev.ID,
		},
	}

	p.logger.Info("[GooglePubSub] Publishing profile-creation event",
		slog.String("identity_id", ev.ID),
	)

	result := p.profilePublisher.Publish(ctx, msg)

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	p.logger.Info("[GooglePubSub] Profile-creation event published",
		slog.String("identity_id", ev.ID),
		slog.String("server_id", serverID),
	)

	return nil
}

// PublishVerificationMail publishes a verification-mail request.
func (p *googlePubSubPublisher) PublishVerificationMail(ctx context.Context, ev *event.VerificationMailRequested) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return errors.WithStack(err)
	}

	msg := &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"kind": ev.Kind,
		},
	}

	result := p.mailPublisher.Publish(ctx, msg)

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	p.logger.Info("[GooglePubSub] Verification-mail event published",
		slog.String("kind", ev.Kind),
		slog.String("server_id", serverID),
	)

	return nil
}

// Close releases Pub/Sub client resources
func (p *googlePubSubPublisher) Close() error {
	if p.profilePublisher != nil {
		p.profilePublisher.Stop()
	}
	if p.mailPublisher != nil {
		p.mailPublisher.Stop()
	}
	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
