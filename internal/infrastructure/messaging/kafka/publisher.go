package kafka

import (
	"context"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

const sourceService = "sds-apiserver"

// CompletedPublisher publishes sds.completed envelopes keyed by record id,
// so every event for one record lands on the same partition.
type CompletedPublisher struct {
	producer interface {
		Publish(ctx context.Context, msg *ProducerMessage) error
	}
	topic string
}

func NewCompletedPublisher(p *Producer, topic string) *CompletedPublisher {
	if topic == "" {
		topic = TopicSDSCompleted
	}
	return &CompletedPublisher{producer: p, topic: topic}
}

func (c *CompletedPublisher) PublishCompleted(ctx context.Context, evt sds.CompletedEvent) error {
	env, err := NewEventEnvelope(evt.EventType(), sourceService, evt)
	if err != nil {
		return err
	}
	env.Timestamp = evt.CompletedAt
	msg, err := env.ToMessage(c.topic, []byte(evt.RecordID.String()))
	if err != nil {
		return err
	}
	return c.producer.Publish(ctx, msg)
}

// DecodeCompleted extracts the completion event from msg.
func DecodeCompleted(msg *Message) (sds.CompletedEvent, error) {
	env, err := MessageToEventEnvelope(msg)
	if err != nil {
		return sds.CompletedEvent{}, err
	}
	var evt sds.CompletedEvent
	if env.EventType != evt.EventType() {
		return sds.CompletedEvent{}, errors.New(errors.ErrCodeValidation, "unexpected event type").WithDetail(env.EventType)
	}
	if err := env.DecodePayload(&evt); err != nil {
		return sds.CompletedEvent{}, err
	}
	return evt, nil
}

//Personal.AI order the ending
