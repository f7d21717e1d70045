package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"photoline/internal/domain/submission"
	"photoline/internal/events"
	"photoline/internal/media"
	photoline_errors "photoline/pkg/errors"
)

func newTestIngestService(repo *memRepo, publisher *capturePublisher, cleanup *captureCleanup) *IngestService {
	return NewIngestService(
		repo,
		media.NewFetcher(5*time.Second),
		NewEventPublisher(publisher, testLogger()),
		cleanup,
		nil,
		testLogger(),
	)
}

func mediaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes" + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleInbound_TwoAttachmentsCreatedInOrder(t *testing.T) {
	srv := mediaServer(t)
	repo := newMemRepo()
	publisher := &capturePublisher{}
	cleanup := &captureCleanup{}
	svc := newTestIngestService(repo, publisher, cleanup)

	fields := map[string]string{
		"NumMedia":          "2",
		"From":              "+15551234567",
		"SmsSid":            "SM123",
		"MediaUrl0":         srv.URL + "/first",
		"MediaContentType0": "image/jpeg",
		"MediaUrl1":         srv.URL + "/second",
		"MediaContentType1": "image/png",
	}

	result, err := svc.HandleInbound(context.Background(), fields)
	if err != nil {
		t.Fatalf("handle inbound: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Fatalf("expected OutcomeCreated, got %v", result.Outcome)
	}
	if len(result.Submissions) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(result.Submissions))
	}
	if result.Submissions[0].ID >= result.Submissions[1].ID {
		t.Fatalf("ids not in creation order: %d, %d", result.Submissions[0].ID, result.Submissions[1].ID)
	}

	// MediaUrl0 must map to the first created row.
	img, err := repo.GetImage(context.Background(), result.Submissions[0].ID)
	if err != nil {
		t.Fatalf("get first image: %v", err)
	}
	if string(img.Data) != "image-bytes/first" || img.MimeType != "image/jpeg" {
		t.Fatalf("first submission has wrong media: %q %q", img.Data, img.MimeType)
	}

	// Exactly one broadcast event carrying both submissions.
	published := publisher.published()
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	var envelope events.Envelope
	if err := json.Unmarshal(published[0], &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.EventType != events.TypeSubmissionsCreated {
		t.Fatalf("event type = %q", envelope.EventType)
	}
	var payload []submission.Pending
	if err := json.Unmarshal(envelope.Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if len(payload) != 2 {
		t.Fatalf("expected 2 submissions in event, got %d", len(payload))
	}

	// One cleanup job for the one message sid.
	scheduled := cleanup.scheduled()
	if len(scheduled) != 1 || len(scheduled[0]) != 1 || scheduled[0][0] != "SM123" {
		t.Fatalf("unexpected cleanup schedule: %v", scheduled)
	}
}

func TestHandleInbound_DisallowedMimeTypeRejectsWholeRequest(t *testing.T) {
	srv := mediaServer(t)
	repo := newMemRepo()
	publisher := &capturePublisher{}
	svc := newTestIngestService(repo, publisher, &captureCleanup{})

	fields := map[string]string{
		"NumMedia":          "2",
		"From":              "+15551234567",
		"SmsSid":            "SM123",
		"MediaUrl0":         srv.URL + "/photo",
		"MediaContentType0": "image/jpeg",
		"MediaUrl1":         srv.URL + "/doc",
		"MediaContentType1": "application/pdf",
	}

	_, err := svc.HandleInbound(context.Background(), fields)
	if !errors.Is(err, photoline_errors.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}

	pending, _ := repo.ListPending(context.Background())
	if len(pending) != 0 {
		t.Fatalf("expected nothing persisted, got %d rows", len(pending))
	}
	if len(publisher.published()) != 0 {
		t.Fatalf("expected no broadcast on policy failure")
	}
}

func TestHandleInbound_TextOnlyIsIgnored(t *testing.T) {
	repo := newMemRepo()
	svc := newTestIngestService(repo, &capturePublisher{}, &captureCleanup{})

	fields := map[string]string{
		"NumMedia": "0",
		"From":     "+15551234567",
		"SmsSid":   "SM123",
		"Body":     "just text",
	}

	result, err := svc.HandleInbound(context.Background(), fields)
	if err != nil {
		t.Fatalf("expected text-only message to be ignored, got error %v", err)
	}
	if result.Outcome != OutcomeIgnored {
		t.Fatalf("expected OutcomeIgnored, got %v", result.Outcome)
	}
	pending, _ := repo.ListPending(context.Background())
	if len(pending) != 0 {
		t.Fatalf("ignored message must not persist rows")
	}
}

func TestHandleInbound_FetchFailureLeavesNoPartialState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	repo := newMemRepo()
	publisher := &capturePublisher{}
	cleanup := &captureCleanup{}
	svc := newTestIngestService(repo, publisher, cleanup)

	fields := map[string]string{
		"NumMedia":          "2",
		"From":              "+15551234567",
		"SmsSid":            "SM123",
		"MediaUrl0":         srv.URL + "/good",
		"MediaContentType0": "image/jpeg",
		"MediaUrl1":         srv.URL + "/bad",
		"MediaContentType1": "image/png",
	}

	if _, err := svc.HandleInbound(context.Background(), fields); err == nil {
		t.Fatalf("expected fetch failure to fail ingestion")
	}
	pending, _ := repo.ListPending(context.Background())
	if len(pending) != 0 {
		t.Fatalf("fetch failure must not persist rows, got %d", len(pending))
	}
	if len(cleanup.scheduled()) != 0 {
		t.Fatalf("fetch failure must not schedule cleanup")
	}
}
