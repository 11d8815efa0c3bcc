package service

import (
	"context"
	"encoding/json"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// IAuditService consumes note lifecycle messages from the in-process bus.
type IAuditService interface {
	Consume(ctx context.Context) error
}

type auditService struct {
	subscriber     message.Subscriber
	topicName      string
	auditLogger    logger.ILogger
	eventPublisher events.Publisher
}

// NewAuditService writes every note event to the audit log and, when
// eventPublisher is not nil, relays it to the external bus.
func NewAuditService(
	subscriber message.Subscriber,
	topicName string,
	auditLogger logger.ILogger,
	eventPublisher events.Publisher,
) IAuditService {
	return &auditService{
		subscriber:     subscriber,
		topicName:      topicName,
		auditLogger:    auditLogger,
		eventPublisher: eventPublisher,
	}
}

func (s *auditService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *auditService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.NoteEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.auditLogger.Error("audit", "dropping malformed note event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// redelivery would fail the same way
		msg.Ack()
		return
	}

	s.auditLogger.Info("audit", payload.Type, map[string]interface{}{
		"note_id":    payload.NoteId,
		"slug":       payload.Slug,
		"user_id":    payload.UserId.String(),
		"background": payload.Background,
	})

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: payload.Type,
			Data: map[string]interface{}{
				"note_id": payload.NoteId,
				"slug":    payload.Slug,
				"user_id": payload.UserId.String(),
			},
			OccurredAt: payload.OccurredAt,
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.auditLogger.Warn("audit", "failed to relay note event", map[string]interface{}{
				"type":  payload.Type,
				"error": err.Error(),
			})
		}
	}

	msg.Ack()
}
