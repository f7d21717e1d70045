package services

import (
	"context"
	"time"

	"photoline/pkg/logger"
)

// MessageDeleter removes a provider-hosted message and its media.
type MessageDeleter interface {
	DeleteMessage(ctx context.Context, messageSID string) error
}

type cleanupJob struct {
	messageSIDs []string
	due         time.Time
}

// CleanupScheduler deletes the provider-side copy of ingested messages after
// a grace period. Deletion is advisory: no cancellation once scheduled, no
// retry, failures never reach a caller. Jobs run on a single worker with a
// bounded queue so request handling stays decoupled from provider latency.
type CleanupScheduler struct {
	deleter MessageDeleter
	delay   time.Duration
	queue   chan cleanupJob
	logger  *logger.Logger
}

func NewCleanupScheduler(deleter MessageDeleter, delay time.Duration, l *logger.Logger) *CleanupScheduler {
	return &CleanupScheduler{
		deleter: deleter,
		delay:   delay,
		queue:   make(chan cleanupJob, 256),
		logger:  l,
	}
}

// Schedule enqueues the message sids for deletion after the grace period.
// Never blocks; a full queue drops the job.
func (s *CleanupScheduler) Schedule(messageSIDs []string) {
	if len(messageSIDs) == 0 {
		return
	}
	job := cleanupJob{messageSIDs: messageSIDs, due: time.Now().Add(s.delay)}
	select {
	case s.queue <- job:
	default:
		s.logger.Warnf("cleanup queue full, dropping deletion of %d message(s)", len(messageSIDs))
	}
}

// Run processes cleanup jobs until ctx is cancelled. Pending jobs are
// abandoned on shutdown; the provider keeps its copy, nothing breaks.
func (s *CleanupScheduler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.queue:
			if !s.wait(ctx, job.due) {
				return
			}
			for _, sid := range job.messageSIDs {
				if err := s.deleter.DeleteMessage(ctx, sid); err != nil {
					s.logger.Warnf("delete provider message %s: %s", sid, err)
				}
			}
		}
	}
}

func (s *CleanupScheduler) wait(ctx context.Context, due time.Time) bool {
	d := time.Until(due)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
