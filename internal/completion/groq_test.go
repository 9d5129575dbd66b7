package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Leonucn/Echo-chat/internal/apperr"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "llama3-8b-8192")
	c.url = srv.URL
	return c
}

func TestCompleteSendsWindowAndParameters(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"hey there"}}]}`))
	})

	window := []Message{
		{Role: RoleSystem, Content: "You are Max."},
		{Role: RoleUser, Content: "hi"},
	}
	reply, err := c.Complete(context.Background(), window, 0.9, 100)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hey there" {
		t.Errorf("reply = %q", reply)
	}
	if got.Model != "llama3-8b-8192" {
		t.Errorf("model = %q", got.Model)
	}
	if got.Temperature != 0.9 || got.MaxTokens != 100 {
		t.Errorf("params = %v/%v", got.Temperature, got.MaxTokens)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != RoleSystem || got.Messages[1].Content != "hi" {
		t.Errorf("window not forwarded intact: %+v", got.Messages)
	}
}

func TestCompleteNonSuccessStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, 0.9, 100)
	if err == nil {
		t.Fatal("expected error")
	}
	if !apperr.IsGeneration(err) {
		t.Fatalf("expected GenerationError, got %T: %v", err, err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, 0.9, 100)
	if !apperr.IsGeneration(err) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestCompleteTransportError(t *testing.T) {
	c := NewClient("test-key", "llama3-8b-8192")
	c.url = "http://127.0.0.1:1" // nothing listens here

	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, 0.9, 100)
	if !apperr.IsGeneration(err) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}
