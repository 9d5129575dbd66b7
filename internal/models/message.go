package models

import (
	"time"
)

// Message is one stored turn between two parties; either side may be a
// user or a chatbot id. Messages are immutable once created and ordered
// solely by CreatedAt.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate() {
	if m.ID == "" {
		m.ID = NewID()
	}
	m.CreatedAt = time.Now()
}
