package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type captureDeleter struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (d *captureDeleter) DeleteMessage(_ context.Context, sid string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, sid)
	return d.err
}

func (d *captureDeleter) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.deleted...)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestCleanupScheduler_DeletesAfterDelay(t *testing.T) {
	deleter := &captureDeleter{}
	s := NewCleanupScheduler(deleter, 20*time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	start := time.Now()
	s.Schedule([]string{"SM1", "SM2"})

	waitFor(t, 2*time.Second, func() bool { return len(deleter.calls()) == 2 })
	if time.Since(start) < 20*time.Millisecond {
		t.Fatalf("deletion ran before the grace period")
	}
	calls := deleter.calls()
	if calls[0] != "SM1" || calls[1] != "SM2" {
		t.Fatalf("unexpected deletions: %v", calls)
	}
}

func TestCleanupScheduler_SwallowsDeleteFailures(t *testing.T) {
	deleter := &captureDeleter{err: errors.New("provider down")}
	s := NewCleanupScheduler(deleter, time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Schedule([]string{"SM1"})
	s.Schedule([]string{"SM2"})

	// Both jobs run despite every delete failing.
	waitFor(t, 2*time.Second, func() bool { return len(deleter.calls()) == 2 })
}

func TestCleanupScheduler_EmptyScheduleIsNoop(t *testing.T) {
	deleter := &captureDeleter{}
	s := NewCleanupScheduler(deleter, time.Millisecond, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Schedule(nil)
	time.Sleep(50 * time.Millisecond)
	if len(deleter.calls()) != 0 {
		t.Fatalf("expected no deletions, got %v", deleter.calls())
	}
}
