package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/Leonucn/Echo-chat/internal/assets"
	"github.com/Leonucn/Echo-chat/internal/completion"
	"github.com/Leonucn/Echo-chat/internal/models"
	"github.com/Leonucn/Echo-chat/internal/realtime"
)

// historyWindow is how many stored turns go into one completion window,
// giving at most 16 entries: system + history + the new user text.
const historyWindow = 14

// typingDelay is how long the bot reply is held back on the socket to
// simulate typing. Persistence is never delayed.
const typingDelay = 500 * time.Millisecond

// Completer executes a single completion call for an assembled window.
type Completer interface {
	Complete(ctx context.Context, messages []completion.Message, temperature float64, maxTokens int) (string, error)
}

// Publisher delivers events to a user's realtime channel if connected.
type Publisher interface {
	Publish(userID, event string, payload interface{})
	IsConnected(userID string) bool
}

// MessageService persists and distributes messages across the two
// delivery channels: user-to-user and user-to-chatbot.
type MessageService struct {
	DB       *sql.DB
	Chatbots *ChatbotService
	Comp     Completer
	Hub      Publisher
	Uploader assets.Uploader

	// delay is typingDelay except in tests.
	delay time.Duration
}

func NewMessageService(db *sql.DB, chatbots *ChatbotService, comp Completer, hub Publisher, uploader assets.Uploader) *MessageService {
	return &MessageService{
		DB:       db,
		Chatbots: chatbots,
		Comp:     comp,
		Hub:      hub,
		Uploader: uploader,
		delay:    typingDelay,
	}
}

// BuildWindow assembles the ordered prompt list for one generation: the
// persona's system prompt, the last historyWindow turns between the two
// parties in chronological order, then the new user text. The new text is
// not yet persisted when the window is built.
func (s *MessageService) BuildWindow(ctx context.Context, userID, chatbotID, text string) ([]completion.Message, *models.Chatbot, error) {
	bot, err := s.Chatbots.GetByID(ctx, chatbotID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT sender_id, text FROM messages
		 WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		 ORDER BY created_at DESC LIMIT ?`,
		userID, chatbotID, chatbotID, userID, historyWindow,
	)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var history []completion.Message
	for rows.Next() {
		var senderID, msgText string
		if err := rows.Scan(&senderID, &msgText); err != nil {
			return nil, nil, err
		}
		role := completion.RoleAssistant
		if senderID == userID {
			role = completion.RoleUser
		}
		history = append(history, completion.Message{Role: role, Content: msgText})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	window := make([]completion.Message, 0, len(history)+2)
	window = append(window, completion.Message{Role: completion.RoleSystem, Content: bot.Role})
	// The fetch is newest-first; replay oldest-first.
	for i := len(history) - 1; i >= 0; i-- {
		window = append(window, history[i])
	}
	window = append(window, completion.Message{Role: completion.RoleUser, Content: text})

	return window, bot, nil
}

// SendToChatbot runs the full persona-send path: window, completion, then
// persistence of both turns and fire-and-forget delivery. A completion
// failure aborts the send before anything is persisted.
func (s *MessageService) SendToChatbot(ctx context.Context, userID, chatbotID, text, image string) (*models.Message, error) {
	window, bot, err := s.BuildWindow(ctx, userID, chatbotID, text)
	if err != nil {
		return nil, err
	}

	reply, err := s.Comp.Complete(ctx, window, bot.Temperature, bot.MaxTokens)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		SenderID:   userID,
		ReceiverID: chatbotID,
		Text:       text,
		Image:      s.uploadImage(ctx, image),
	}
	if err := s.insertMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	botMsg := &models.Message{
		SenderID:   chatbotID,
		ReceiverID: userID,
		Text:       reply,
	}
	if err := s.insertMessage(ctx, botMsg); err != nil {
		return nil, err
	}

	// Presence is checked against the sending user: the chatbot has no
	// channel of its own, so both turns land on the sender's socket.
	if s.Hub.IsConnected(userID) {
		s.Hub.Publish(userID, realtime.EventNewMessage, userMsg)
		time.AfterFunc(s.delay, func() {
			s.Hub.Publish(userID, realtime.EventNewMessage, botMsg)
		})
	}

	return botMsg, nil
}

// SendToUser persists a single human-to-human turn and delivers it to the
// receiver if connected.
func (s *MessageService) SendToUser(ctx context.Context, senderID, receiverID, text, image string) (*models.Message, error) {
	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
		Image:      s.uploadImage(ctx, image),
	}
	if err := s.insertMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.Hub.IsConnected(receiverID) {
		s.Hub.Publish(receiverID, realtime.EventNewMessage, msg)
	}

	return msg, nil
}

// GetConversation returns every turn between the two parties, oldest first.
func (s *MessageService) GetConversation(ctx context.Context, userID, otherID string) ([]*models.Message, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, sender_id, receiver_id, text, image, created_at FROM messages
		 WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		 ORDER BY created_at`,
		userID, otherID, otherID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.Image, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// GetSidebarUsers lists every other user for the contact sidebar.
func (s *MessageService) GetSidebarUsers(ctx context.Context, userID string) ([]*models.User, error) {
	rows, err := s.DB.QueryContext(ctx,
		"SELECT id, full_name, email, profile_pic, created_at, updated_at FROM users WHERE id != ? ORDER BY full_name",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.ProfilePic, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (s *MessageService) insertMessage(ctx context.Context, msg *models.Message) error {
	msg.BeforeCreate()
	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO messages (id, sender_id, receiver_id, text, image, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Text, msg.Image, msg.CreatedAt,
	)
	return err
}

func (s *MessageService) uploadImage(ctx context.Context, data string) string {
	if data == "" || s.Uploader == nil {
		return ""
	}
	url, err := s.Uploader.Upload(ctx, data)
	if err != nil {
		log.Printf("Error uploading message image: %v", err)
		return ""
	}
	return url
}
