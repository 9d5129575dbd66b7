package models

import (
	"time"
)

// Chatbot is a user-configured conversational persona. Role, Temperature
// and MaxTokens are system fields and are never serialized to clients.
type Chatbot struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender"`
	Age          int       `json:"age"`
	Occupation   string    `json:"occupation"`
	Personality  string    `json:"personality"`
	Relationship string    `json:"relationship,omitempty"`
	Tone         string    `json:"tone,omitempty"`
	ProfilePic   string    `json:"profile_pic"`
	IsPrivate    bool      `json:"is_private"`
	Role         string    `json:"-"`
	Temperature  float64   `json:"-"`
	MaxTokens    int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	DefaultTemperature = 0.9
	DefaultMaxTokens   = 100
)

func (c *Chatbot) BeforeCreate() {
	if c.ID == "" {
		c.ID = NewID()
	}
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()
}

func (c *Chatbot) BeforeUpdate() {
	c.UpdatedAt = time.Now()
}

// ChatbotWithCreator joins a chatbot with the minimal public profile of
// its owner, for the shared persona list.
type ChatbotWithCreator struct {
	Chatbot
	CreatorName string `json:"creator_name"`
}
