package submission

import "time"

// Status is the moderation lifecycle state of a submission.
// Transitions are monotonic: Pending moves exactly once to
// Approved or Discarded and is terminal after that.
type Status int16

const (
	StatusPending   Status = 1
	StatusApproved  Status = 2
	StatusDiscarded Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Submission is the full persisted record, image excluded.
type Submission struct {
	ID          int64      `json:"id"`
	PhoneNumber string     `json:"phone_number"`
	SubmittedAt time.Time  `json:"submitted_at"`
	Status      Status     `json:"status"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	DiscardedAt *time.Time `json:"discarded_at,omitempty"`
}

// Pending is the view of a submission still waiting for moderation.
// It carries only the fields valid in that state.
type Pending struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Approved is the view of a submission that passed moderation.
type Approved struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	SubmittedAt time.Time `json:"submitted_at"`
	ApprovedAt  time.Time `json:"approved_at"`
}

// Image is the stored media payload together with the record status.
// Callers serving images must treat StatusDiscarded as not found.
type Image struct {
	Status   Status
	Data     []byte
	MimeType string
}
