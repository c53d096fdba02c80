package service

import (
	"context"

	"quill/internal/domain/event"
)

// EventPublisher defines the interface for publishing identity events to the
// durable event channel. Delivery is at-least-once; ordering is guaranteed
// per identity id only.
type EventPublisher interface {
	// PublishProfileCreation publishes a profile-creation event. The identity
	// id is used as the ordering key.
	PublishProfileCreation(ctx context.Context, ev *event.ProfileCreationRequested) error

	// PublishVerificationMail publishes a verification-mail request.
	PublishVerificationMail(ctx context.Context, ev *event.VerificationMailRequested) error

	// Close releases any resources held by the publisher.
	Close() error
}
