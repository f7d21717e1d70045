package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"photoline/internal/domain/submission"
	"photoline/internal/repository"
	"photoline/internal/twilio"
	photoline_errors "photoline/pkg/errors"
	"photoline/pkg/logger"
)

// AllowedMimeTypes is the attachment acceptance allow-list.
var AllowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
}

// MediaFetcher downloads attachment bodies, results in input order.
type MediaFetcher interface {
	FetchAll(ctx context.Context, urls []string) ([][]byte, error)
}

// CleanupQueue schedules deferred provider-side deletion.
type CleanupQueue interface {
	Schedule(messageSIDs []string)
}

// ImageArchiver copies ingested images to long-term storage.
type ImageArchiver interface {
	Archive(ctx context.Context, id int64, data []byte, mimeType string) error
}

// IngestOutcome classifies how an inbound webhook was handled.
type IngestOutcome int

const (
	// OutcomeIgnored marks a non-media message: dropped silently so the
	// provider sees an accepted response and never retries or alerts.
	OutcomeIgnored IngestOutcome = iota
	// OutcomeCreated marks a fully ingested message.
	OutcomeCreated
)

type IngestResult struct {
	Outcome     IngestOutcome
	Submissions []submission.Pending
}

// IngestService runs the webhook-to-broadcast pipeline: parse, mime policy,
// parallel fetch, sequential persist, broadcast, deferred cleanup. Everything
// before persistence is all-or-nothing; nothing after persistence can fail
// the request.
type IngestService struct {
	repo     repository.SubmissionRepository
	fetcher  MediaFetcher
	events   *EventPublisher
	cleanup  CleanupQueue
	archiver ImageArchiver
	logger   *logger.Logger
	now      func() time.Time
}

func NewIngestService(
	repo repository.SubmissionRepository,
	fetcher MediaFetcher,
	events *EventPublisher,
	cleanup CleanupQueue,
	archiver ImageArchiver,
	l *logger.Logger,
) *IngestService {
	return &IngestService{
		repo:     repo,
		fetcher:  fetcher,
		events:   events,
		cleanup:  cleanup,
		archiver: archiver,
		logger:   l,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HandleInbound ingests one verified webhook form.
func (s *IngestService) HandleInbound(ctx context.Context, fields map[string]string) (IngestResult, error) {
	attachments, err := twilio.ParseAttachments(fields)
	if err != nil {
		if errors.Is(err, photoline_errors.ErrNotMedia) {
			s.logger.Debugf("ignoring non-media message sid=%s", fields["SmsSid"])
			return IngestResult{Outcome: OutcomeIgnored}, nil
		}
		return IngestResult{}, err
	}

	accepted, rejected := splitByMimeType(attachments)
	if len(rejected) > 0 {
		return IngestResult{}, fmt.Errorf("%w: %s",
			photoline_errors.ErrUnsupportedMedia, strings.Join(distinctMimeTypes(rejected), ", "))
	}
	if len(accepted) == 0 {
		return IngestResult{}, photoline_errors.ErrNoAttachments
	}

	urls := make([]string, len(accepted))
	for i, a := range accepted {
		urls[i] = a.URL
	}
	blobs, err := s.fetcher.FetchAll(ctx, urls)
	if err != nil {
		return IngestResult{}, fmt.Errorf("fetch attachments: %w", err)
	}

	// Sequential creates in input order: id assignment drives listing and
	// broadcast order downstream.
	now := s.now()
	ids := make([]int64, 0, len(accepted))
	for i, a := range accepted {
		id, err := s.repo.Create(ctx, a.PhoneNumber, now, blobs[i], a.MimeType)
		if err != nil {
			return IngestResult{}, fmt.Errorf("persist submission: %w", err)
		}
		ids = append(ids, id)
	}

	subs, err := s.repo.GetPendingByIDs(ctx, ids)
	if err != nil {
		// Rows are committed; broadcast just misses the hydrated records.
		s.logger.Errorf("re-fetch created submissions: %s", err)
		subs = nil
	}
	if len(subs) > 0 {
		s.events.SubmissionsCreated(ctx, subs)
	}

	s.cleanup.Schedule(distinctMessageSIDs(accepted))

	if s.archiver != nil {
		for i, id := range ids {
			if err := s.archiver.Archive(ctx, id, blobs[i], accepted[i].MimeType); err != nil {
				s.logger.Warnf("archive submission %d: %s", id, err)
			}
		}
	}

	return IngestResult{Outcome: OutcomeCreated, Submissions: subs}, nil
}

func splitByMimeType(attachments []twilio.InboundAttachment) (accepted, rejected []twilio.InboundAttachment) {
	for _, a := range attachments {
		if _, ok := AllowedMimeTypes[a.MimeType]; ok {
			accepted = append(accepted, a)
		} else {
			rejected = append(rejected, a)
		}
	}
	return accepted, rejected
}

func distinctMimeTypes(attachments []twilio.InboundAttachment) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, a := range attachments {
		if _, ok := seen[a.MimeType]; !ok {
			seen[a.MimeType] = struct{}{}
			types = append(types, a.MimeType)
		}
	}
	sort.Strings(types)
	return types
}

func distinctMessageSIDs(attachments []twilio.InboundAttachment) []string {
	seen := make(map[string]struct{})
	var sids []string
	for _, a := range attachments {
		if a.MessageSID == "" {
			continue
		}
		if _, ok := seen[a.MessageSID]; !ok {
			seen[a.MessageSID] = struct{}{}
			sids = append(sids, a.MessageSID)
		}
	}
	return sids
}
