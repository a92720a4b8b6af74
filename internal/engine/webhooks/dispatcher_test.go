package webhooks

import (
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"boardly/internal/platform/database"
	"boardly/internal/platform/models"
	"boardly/internal/platform/repositories"
)

func setupTestRepo(t *testing.T) *repositories.WebhookRepository {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// A single connection keeps every statement on the same in-memory DB.
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return repositories.NewWebhookRepository(db)
}

func createSub(t *testing.T, repo *repositories.WebhookRepository, url, secret string, events ...string) *models.WebhookSubscription {
	sub := &models.WebhookSubscription{
		BoardID:   "brd_1",
		URL:       url,
		Secret:    secret,
		Events:    events,
		CreatedBy: "usr_1",
	}
	if err := repo.Create(sub); err != nil {
		t.Fatalf("failed to create subscription: %v", err)
	}
	return sub
}

func countingServer(t *testing.T, status int, hits *int64) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(hits, 1)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDispatch_CircuitBreaker(t *testing.T) {
	repo := setupTestRepo(t)

	var okHits1, okHits2, failHits int64
	ok1 := countingServer(t, http.StatusOK, &okHits1)
	ok2 := countingServer(t, http.StatusNoContent, &okHits2)
	bad := countingServer(t, http.StatusInternalServerError, &failHits)

	healthy1 := createSub(t, repo, ok1.URL, "s1", models.EventTaskCreated)
	healthy2 := createSub(t, repo, ok2.URL, "s2", models.EventTaskCreated)
	failing := createSub(t, repo, bad.URL, "s3", models.EventTaskCreated)

	d := NewDispatcher(repo)
	for i := 0; i < 5; i++ {
		d.Dispatch("brd_1", models.EventTaskCreated, map[string]interface{}{"n": i})
	}

	got, err := repo.GetByID(failing.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Active {
		t.Error("failing subscription still active after 5 consecutive failures")
	}
	if got.ConsecutiveFailures != 5 {
		t.Errorf("consecutive_failures = %d, want 5", got.ConsecutiveFailures)
	}

	for _, id := range []string{healthy1.ID, healthy2.ID} {
		sub, err := repo.GetByID(id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if !sub.Active {
			t.Errorf("healthy subscription %s deactivated", id)
		}
		if sub.ConsecutiveFailures != 0 {
			t.Errorf("healthy subscription %s failure count = %d", id, sub.ConsecutiveFailures)
		}
		if sub.LastTriggeredAt == 0 {
			t.Errorf("healthy subscription %s has no last_triggered_at", id)
		}
	}
	if okHits1 != 5 || okHits2 != 5 {
		t.Errorf("healthy endpoints received %d and %d deliveries, want 5 each", okHits1, okHits2)
	}
	if failHits != 5 {
		t.Errorf("failing endpoint received %d deliveries, want 5", failHits)
	}
}

func TestDispatch_TrippedSubscriptionGetsNoFurtherDeliveries(t *testing.T) {
	repo := setupTestRepo(t)

	var hits int64
	bad := countingServer(t, http.StatusBadGateway, &hits)
	createSub(t, repo, bad.URL, "s1", models.EventListMoved)

	d := NewDispatcher(repo, WithFailureThreshold(2))
	for i := 0; i < 4; i++ {
		d.Dispatch("brd_1", models.EventListMoved, nil)
	}

	if hits != 2 {
		t.Errorf("tripped endpoint received %d deliveries, want 2", hits)
	}
}

func TestDispatch_SignatureAndEnvelope(t *testing.T) {
	repo := setupTestRepo(t)

	payloads := []interface{}{
		nil,
		map[string]interface{}{},
		map[string]interface{}{"task": map[string]interface{}{"id": "tsk_1", "tags": []string{"a", "b"}}},
	}

	var bodies [][]byte
	var signatures []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, body)
		signatures = append(signatures, r.Header.Get(HeaderSignature))
		if r.Header.Get(HeaderEvent) != models.EventTaskUpdated {
			t.Errorf("event header = %q", r.Header.Get(HeaderEvent))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("content type = %q", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	createSub(t, repo, srv.URL, "topsecret", models.EventTaskUpdated)

	d := NewDispatcher(repo)
	for _, p := range payloads {
		d.Dispatch("brd_1", models.EventTaskUpdated, p)
	}

	if len(bodies) != len(payloads) {
		t.Fatalf("received %d deliveries, want %d", len(bodies), len(payloads))
	}
	for i, body := range bodies {
		if !Verify("topsecret", body, signatures[i]) {
			t.Errorf("delivery %d: signature does not verify against body", i)
		}

		var env models.WebhookEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("delivery %d: bad envelope: %v", i, err)
		}
		if env.Event != models.EventTaskUpdated {
			t.Errorf("delivery %d: event = %s", i, env.Event)
		}
		if env.Timestamp == "" {
			t.Errorf("delivery %d: missing timestamp", i)
		}
	}
}

func TestDispatch_NoMatchingSubscriptions(t *testing.T) {
	repo := setupTestRepo(t)

	var hits int64
	srv := countingServer(t, http.StatusOK, &hits)
	createSub(t, repo, srv.URL, "s1", models.EventTaskCreated)

	// Different event name, different board: neither should reach the endpoint.
	d := NewDispatcher(repo)
	d.Dispatch("brd_1", models.EventTaskDeleted, nil)
	d.Dispatch("brd_other", models.EventTaskCreated, nil)

	if hits != 0 {
		t.Errorf("endpoint received %d deliveries, want 0", hits)
	}
}

func TestDispatch_SuccessResetsFailureCounter(t *testing.T) {
	repo := setupTestRepo(t)

	var hits int64
	srv := countingServer(t, http.StatusOK, &hits)
	sub := createSub(t, repo, srv.URL, "s1", models.EventBoardUpdated)

	// Three prior failures, below the threshold.
	for i := 0; i < 3; i++ {
		if err := repo.MarkFailed(sub.ID, DefaultFailureThreshold); err != nil {
			t.Fatalf("MarkFailed: %v", err)
		}
	}

	NewDispatcher(repo).Dispatch("brd_1", models.EventBoardUpdated, nil)

	got, err := repo.GetByID(sub.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.ConsecutiveFailures != 0 {
		t.Errorf("consecutive_failures = %d, want 0 after success", got.ConsecutiveFailures)
	}
	if !got.Active {
		t.Error("subscription inactive below threshold")
	}
}

func TestDispatch_UnreachableEndpointIsolated(t *testing.T) {
	repo := setupTestRepo(t)

	var hits int64
	srv := countingServer(t, http.StatusOK, &hits)
	createSub(t, repo, "http://127.0.0.1:0/nope", "s1", models.EventTaskMoved)
	createSub(t, repo, srv.URL, "s2", models.EventTaskMoved)

	NewDispatcher(repo).Dispatch("brd_1", models.EventTaskMoved, nil)

	if hits != 1 {
		t.Errorf("healthy endpoint received %d deliveries, want 1", hits)
	}
}
