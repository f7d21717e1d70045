package websocket

import (
	"context"
	"testing"
	"time"

	"photoline/internal/events"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestHub_BroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := NewClient(nil)
	hub.Register(client)
	hub.Subscribe(client, events.ChannelSubmissions)
	waitFor(t, time.Second, func() bool { return client.IsSubscribed(events.ChannelSubmissions) })

	hub.Broadcast(events.ChannelSubmissions, []byte(`{"event_type":"submission.created"}`))

	select {
	case msg := <-client.Send:
		if string(msg) != `{"event_type":"submission.created"}` {
			t.Fatalf("unexpected message: %s", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("subscriber never received broadcast")
	}
}

func TestHub_SlowClientDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := NewClient(nil)
	hub.Register(client)
	hub.Subscribe(client, events.ChannelSubmissions)
	waitFor(t, time.Second, func() bool { return client.IsSubscribed(events.ChannelSubmissions) })

	// Nothing drains Send; flooding past the buffer must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(client.Send)+64; i++ {
			hub.Broadcast(events.ChannelSubmissions, []byte("event"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcast blocked on a slow client")
	}
}

func TestHub_UnregisterRemovesSubscriptions(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := NewClient(nil)
	hub.Register(client)
	hub.Subscribe(client, events.ChannelSubmissions)
	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })

	hub.Unregister(client)
	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 0 })

	// Send channel is closed on removal.
	select {
	case _, ok := <-client.Send:
		if ok {
			t.Fatalf("expected closed send channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("send channel not closed after unregister")
	}
}
