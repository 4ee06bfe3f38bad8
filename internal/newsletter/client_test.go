package newsletter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(baseURL string) *Client {
	c := NewClient(baseURL, "key-abc", 5*time.Second, testLogger())
	c.backoff = func(int) time.Duration { return 0 }
	return c
}

func TestSubscribe(t *testing.T) {
	var gotKey, gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		gotEmail = req.Email
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Subscribe(context.Background(), "reader@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "key-abc" {
		t.Errorf("expected api key header, got %q", gotKey)
	}
	if gotEmail != "reader@example.com" {
		t.Errorf("expected email in body, got %q", gotEmail)
	}
}

func TestSubscribe_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "try later", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Subscribe(context.Background(), "reader@example.com"); err != nil {
		t.Fatalf("expected third attempt to succeed, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestSubscribe_TerminalFailureNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "already subscribed", http.StatusConflict)
	}))
	defer srv.Close()

	err := testClient(srv.URL).Subscribe(context.Background(), "reader@example.com")
	if err == nil {
		t.Fatal("expected error for 409")
	}
	if IsRetryable(err) {
		t.Errorf("409 should not be retryable: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single attempt, got %d", calls.Load())
	}
}

func TestSubscribe_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := testClient(srv.URL).Subscribe(context.Background(), "reader@example.com")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	var retryErr *RetryableError
	if !errors.As(err, &retryErr) || retryErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected retryable 500, got %v", err)
	}
	if calls.Load() != MaxRetries {
		t.Errorf("expected %d attempts, got %d", MaxRetries, calls.Load())
	}
}

func TestSubscribe_Disabled(t *testing.T) {
	c := NewClient("", "", 0, testLogger())
	if c.Enabled() {
		t.Error("expected client without base url to be disabled")
	}
	if err := c.Subscribe(context.Background(), "reader@example.com"); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestSubscribe_RejectsBadEmailLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider should not be called for invalid email")
	}))
	defer srv.Close()

	if err := testClient(srv.URL).Subscribe(context.Background(), "not-an-email"); err == nil {
		t.Error("expected validation error")
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"reader@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"", false},
		{"not-an-email", false},
		{"missing@dot", false},
		{"Reader <reader@example.com>", false},
		{"two@@example.com", false},
	}
	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if tt.ok && err != nil {
			t.Errorf("ValidateEmail(%q) unexpected error: %v", tt.email, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ValidateEmail(%q) expected error", tt.email)
		}
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
	}
}
