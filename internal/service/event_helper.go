package service

import (
	"context"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
)

// publishUserEvent sends an account event to the external bus, if one is
// configured. Failures are logged and swallowed.
func publishUserEvent(ctx context.Context, pub events.Publisher, log logger.ILogger, eventType string, userId uuid.UUID, data map[string]interface{}) {
	if pub == nil {
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["user_id"] = userId.String()

	evt := events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := pub.Publish(ctx, evt); err != nil {
		log.Warn("events", "failed to publish event", map[string]interface{}{
			"type":  eventType,
			"error": err.Error(),
		})
	}
}
