package repository

import (
	"context"
	"time"

	"photoline/internal/domain/submission"
)

// SubmissionRepository owns every submission record. No other component
// mutates moderation status.
type SubmissionRepository interface {
	// Create persists a new submission in Pending status and returns its id.
	Create(ctx context.Context, phoneNumber string, submittedAt time.Time, image []byte, mimeType string) (int64, error)

	// ListPending returns submissions awaiting moderation, oldest first.
	ListPending(ctx context.Context) ([]submission.Pending, error)

	// ListApproved returns approved submissions ordered by approval time.
	ListApproved(ctx context.Context) ([]submission.Approved, error)

	// GetPendingByIDs re-fetches freshly created submissions for broadcast,
	// ordered by id ascending (creation order).
	GetPendingByIDs(ctx context.Context, ids []int64) ([]submission.Pending, error)

	// GetImage returns the stored media and status, or ErrNotFound.
	GetImage(ctx context.Context, id int64) (submission.Image, error)

	// Approve transitions Pending -> Approved. Returns false when the
	// submission does not exist or is no longer Pending.
	Approve(ctx context.Context, id int64) (bool, error)

	// Discard transitions Pending -> Discarded, symmetric to Approve.
	Discard(ctx context.Context, id int64) (bool, error)
}
