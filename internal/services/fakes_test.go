package services

import (
	"context"
	"sync"
	"time"

	"photoline/internal/domain/submission"
	photoline_errors "photoline/pkg/errors"
	"photoline/pkg/logger"

	"go.uber.org/zap"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

// memRepo is an in-memory SubmissionRepository honoring the store contract:
// ids assigned in creation order, transitions conditional on Pending.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*memRow
}

type memRow struct {
	phoneNumber string
	submittedAt time.Time
	status      submission.Status
	approvedAt  *time.Time
	discardedAt *time.Time
	image       []byte
	mimeType    string
}

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, rows: make(map[int64]*memRow)}
}

func (r *memRepo) Create(_ context.Context, phoneNumber string, submittedAt time.Time, image []byte, mimeType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.rows[id] = &memRow{
		phoneNumber: phoneNumber,
		submittedAt: submittedAt,
		status:      submission.StatusPending,
		image:       image,
		mimeType:    mimeType,
	}
	return id, nil
}

func (r *memRepo) ListPending(_ context.Context) ([]submission.Pending, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []submission.Pending
	for id := int64(1); id < r.nextID; id++ {
		row, ok := r.rows[id]
		if ok && row.status == submission.StatusPending {
			out = append(out, submission.Pending{ID: id, PhoneNumber: row.phoneNumber, SubmittedAt: row.submittedAt})
		}
	}
	return out, nil
}

func (r *memRepo) ListApproved(_ context.Context) ([]submission.Approved, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []submission.Approved
	for id := int64(1); id < r.nextID; id++ {
		row, ok := r.rows[id]
		if ok && row.status == submission.StatusApproved {
			out = append(out, submission.Approved{
				ID: id, PhoneNumber: row.phoneNumber,
				SubmittedAt: row.submittedAt, ApprovedAt: *row.approvedAt,
			})
		}
	}
	return out, nil
}

func (r *memRepo) GetPendingByIDs(_ context.Context, ids []int64) ([]submission.Pending, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idSet := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}
	var out []submission.Pending
	for id := int64(1); id < r.nextID; id++ {
		if _, ok := idSet[id]; !ok {
			continue
		}
		if row, ok := r.rows[id]; ok {
			out = append(out, submission.Pending{ID: id, PhoneNumber: row.phoneNumber, SubmittedAt: row.submittedAt})
		}
	}
	return out, nil
}

func (r *memRepo) GetImage(_ context.Context, id int64) (submission.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return submission.Image{}, photoline_errors.ErrNotFound
	}
	return submission.Image{Status: row.status, Data: row.image, MimeType: row.mimeType}, nil
}

func (r *memRepo) Approve(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.status != submission.StatusPending {
		return false, nil
	}
	now := time.Now().UTC()
	row.status = submission.StatusApproved
	row.approvedAt = &now
	return true, nil
}

func (r *memRepo) Discard(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || row.status != submission.StatusPending {
		return false, nil
	}
	now := time.Now().UTC()
	row.status = submission.StatusDiscarded
	row.discardedAt = &now
	return true, nil
}

// capturePublisher records everything published to the feed channel.
type capturePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturePublisher) Publish(_ context.Context, _ string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]byte, len(payload))
	copy(cp, payload)
	p.payloads = append(p.payloads, cp)
	return nil
}

func (p *capturePublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.payloads...)
}

// captureCleanup records scheduled provider-side deletions.
type captureCleanup struct {
	mu   sync.Mutex
	sids [][]string
}

func (c *captureCleanup) Schedule(messageSIDs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sids = append(c.sids, append([]string(nil), messageSIDs...))
}

func (c *captureCleanup) scheduled() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.sids...)
}
