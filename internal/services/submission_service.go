package services

import (
	"context"

	"photoline/internal/domain/submission"
	"photoline/internal/repository"
	photoline_errors "photoline/pkg/errors"
)

// SubmissionService covers moderation and retrieval: listings, image fetch,
// approve/discard.
type SubmissionService struct {
	repo   repository.SubmissionRepository
	events *EventPublisher
}

func NewSubmissionService(repo repository.SubmissionRepository, events *EventPublisher) *SubmissionService {
	return &SubmissionService{repo: repo, events: events}
}

// ListPending returns the moderation queue, oldest submission first.
func (s *SubmissionService) ListPending(ctx context.Context) ([]submission.Pending, error) {
	return s.repo.ListPending(ctx)
}

// ListApproved returns the slideshow feed in approval order.
func (s *SubmissionService) ListApproved(ctx context.Context) ([]submission.Approved, error) {
	return s.repo.ListApproved(ctx)
}

// GetImage returns the stored media for public consumption. Discarded
// submissions are deliberately reported as not found even though the record
// still exists.
func (s *SubmissionService) GetImage(ctx context.Context, id int64) (submission.Image, error) {
	img, err := s.repo.GetImage(ctx, id)
	if err != nil {
		return submission.Image{}, err
	}
	if img.Status == submission.StatusDiscarded {
		return submission.Image{}, photoline_errors.ErrNotFound
	}
	return img, nil
}

// Approve transitions a pending submission to approved. A submission that
// does not exist or already transitioned yields ErrInvalidTransition.
func (s *SubmissionService) Approve(ctx context.Context, id int64) error {
	ok, err := s.repo.Approve(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return photoline_errors.ErrInvalidTransition
	}
	s.events.SubmissionApproved(ctx, id)
	return nil
}

// Discard transitions a pending submission to discarded.
func (s *SubmissionService) Discard(ctx context.Context, id int64) error {
	ok, err := s.repo.Discard(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return photoline_errors.ErrInvalidTransition
	}
	s.events.SubmissionDiscarded(ctx, id)
	return nil
}
