// Package worker runs the scheduled digest jobs and broadcasts their
// payloads to the subscriber registry.
package worker

import (
	"context"

	"github.com/google/uuid"

	"github.com/treasury-reporter/internal/logging"
	"github.com/treasury-reporter/internal/service"
)

// Messenger delivers one text message to one chat identity
type Messenger interface {
	Send(ctx context.Context, chatID, text string) error
}

// Broadcaster fans one rendered payload out to every subscriber. Delivery
// failures are isolated per recipient: the failing chat id is dropped from
// the registry and the loop keeps going.
type Broadcaster struct {
	access    *service.AccessService
	messenger Messenger
	logger    *logging.Logger
}

// NewBroadcaster creates a new broadcaster
func NewBroadcaster(access *service.AccessService, messenger Messenger, logger *logging.Logger) *Broadcaster {
	return &Broadcaster{access: access, messenger: messenger, logger: logger}
}

// Broadcast sends the text to every subscriber. It returns the number of
// successful deliveries; it never returns an error for individual failures.
func (b *Broadcaster) Broadcast(ctx context.Context, text string) (int, error) {
	subs, err := b.access.Subscribers(ctx)
	if err != nil {
		return 0, err
	}

	batchID := uuid.New().String()
	log := b.logger.WithField("batchId", batchID)

	delivered := 0
	for _, sub := range subs {
		if err := b.messenger.Send(ctx, sub.ChatID, text); err != nil {
			log.WithError(err).WithField("chatId", sub.ChatID).
				Warn("Recipient unreachable, dropping from subscriber registry")
			if err := b.access.Unsubscribe(ctx, sub.ChatID); err != nil {
				log.WithError(err).WithField("chatId", sub.ChatID).
					Error("Failed to drop unreachable subscriber")
			}
			continue
		}
		delivered++
	}

	log.WithFields(map[string]interface{}{
		"subscribers": len(subs),
		"delivered":   delivered,
	}).Info("Broadcast finished")

	return delivered, nil
}
