package services

import (
	"context"
	"encoding/json"

	"photoline/internal/domain/submission"
	"photoline/internal/events"
	"photoline/pkg/logger"
)

// Publisher pushes an event payload onto a broadcast channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// EventPublisher turns submission lifecycle changes into feed events.
// Publishing is best-effort: ingestion and moderation outcomes are already
// persisted by the time events go out, so failures are logged and swallowed.
type EventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

func NewEventPublisher(publisher Publisher, l *logger.Logger) *EventPublisher {
	return &EventPublisher{publisher: publisher, logger: l}
}

// SubmissionsCreated broadcasts the freshly persisted submissions of one
// inbound message, in creation order.
func (p *EventPublisher) SubmissionsCreated(ctx context.Context, subs []submission.Pending) {
	p.publish(ctx, events.TypeSubmissionsCreated, subs)
}

// SubmissionApproved broadcasts a moderation approval.
func (p *EventPublisher) SubmissionApproved(ctx context.Context, id int64) {
	p.publish(ctx, events.TypeSubmissionApproved, map[string]int64{"id": id})
}

// SubmissionDiscarded broadcasts a moderation discard.
func (p *EventPublisher) SubmissionDiscarded(ctx context.Context, id int64) {
	p.publish(ctx, events.TypeSubmissionDiscarded, map[string]int64{"id": id})
}

func (p *EventPublisher) publish(ctx context.Context, eventType string, payload any) {
	envelope, err := events.NewEnvelope(eventType, payload)
	if err != nil {
		p.logger.Errorf("marshal %s event: %s", eventType, err)
		return
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		p.logger.Errorf("marshal %s envelope: %s", eventType, err)
		return
	}
	if err := p.publisher.Publish(ctx, events.ChannelSubmissions, data); err != nil {
		p.logger.Errorf("publish %s event: %s", eventType, err)
	}
}
