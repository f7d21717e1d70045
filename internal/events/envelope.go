package events

import (
	"encoding/json"
	"time"
)

// Event types carried over the submissions channel.
const (
	TypeSubmissionsCreated  = "submission.created"
	TypeSubmissionApproved  = "submission.approved"
	TypeSubmissionDiscarded = "submission.discarded"
)

// ChannelSubmissions is the pub/sub and WebSocket feed channel for
// submission lifecycle events.
const ChannelSubmissions = "submissions"

// Envelope wraps every event broadcast to subscribers. Payload carries
// submission metadata only, never image bytes.
type Envelope struct {
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func NewEnvelope(eventType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	}, nil
}
