package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Leonucn/Echo-chat/internal/apperr"
	"github.com/Leonucn/Echo-chat/internal/completion"
	"github.com/Leonucn/Echo-chat/internal/database"
	"github.com/Leonucn/Echo-chat/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, name, email string) *models.User {
	t.Helper()
	user, err := NewUserService(db, nil).CreateUser(context.Background(), name, email, "hash")
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}

func validInput() ChatbotInput {
	return ChatbotInput{
		Name:        "Max",
		Gender:      "Male",
		Age:         30,
		Occupation:  "Chef",
		Personality: "Friendly",
	}
}

// fakeCompleter records the last window and parameters it was given.
type fakeCompleter struct {
	reply  string
	err    error
	window []completion.Message
	temp   float64
	max    int
	calls  int
}

func (f *fakeCompleter) Complete(_ context.Context, messages []completion.Message, temperature float64, maxTokens int) (string, error) {
	f.calls++
	f.window = messages
	f.temp = temperature
	f.max = maxTokens
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type publishedEvent struct {
	userID  string
	event   string
	payload interface{}
}

// fakeHub records publishes; only ids in connected count as online.
type fakeHub struct {
	mu        sync.Mutex
	connected map[string]bool
	events    []publishedEvent
}

func newFakeHub(connected ...string) *fakeHub {
	h := &fakeHub{connected: make(map[string]bool)}
	for _, id := range connected {
		h.connected[id] = true
	}
	return h
}

func (h *fakeHub) Publish(userID, event string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, publishedEvent{userID, event, payload})
}

func (h *fakeHub) IsConnected(userID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.connected[userID]
}

func (h *fakeHub) published() []publishedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]publishedEvent, len(h.events))
	copy(out, h.events)
	return out
}

// fakeUploader returns a fixed URL, or fails when broken.
type fakeUploader struct {
	url    string
	broken bool
	calls  int
}

func (f *fakeUploader) Upload(_ context.Context, data string) (string, error) {
	f.calls++
	if f.broken {
		return "", errors.New("upload unavailable")
	}
	return f.url, nil
}

func countMessages(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM messages").Scan(&n); err != nil {
		t.Fatalf("count messages: %v", err)
	}
	return n
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
