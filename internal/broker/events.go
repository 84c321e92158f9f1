package broker

import (
	"context"
	"fmt"

	"shop-service/internal/models"
)

// EventPublisher handles publishing domain events. A nil publisher (or one
// without a producer) silently drops events, so the service works without a
// broker configured.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishPurchaseCompleted publishes a PurchaseCompleted event
func (ep *EventPublisher) PublishPurchaseCompleted(ctx context.Context, event *models.PurchaseCompletedEvent) error {
	if ep == nil || ep.producer == nil {
		return nil
	}
	key := fmt.Sprintf("transaction-%d", event.TransactionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishPurchaseFailed publishes a PurchaseFailed event
func (ep *EventPublisher) PublishPurchaseFailed(ctx context.Context, event *models.PurchaseFailedEvent) error {
	if ep == nil || ep.producer == nil {
		return nil
	}
	key := fmt.Sprintf("user-%s", event.Username)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishUserRegistered publishes a UserRegistered event
func (ep *EventPublisher) PublishUserRegistered(ctx context.Context, event *models.UserRegisteredEvent) error {
	if ep == nil || ep.producer == nil {
		return nil
	}
	key := fmt.Sprintf("user-%s", event.Username)
	return ep.producer.PublishEvent(ctx, key, event)
}
