package services

import (
	"context"
	"database/sql"
	"log"

	"github.com/Leonucn/Echo-chat/internal/apperr"
	"github.com/Leonucn/Echo-chat/internal/assets"
	"github.com/Leonucn/Echo-chat/internal/models"
	"github.com/Leonucn/Echo-chat/internal/prompt"
)

// ChatbotService owns persona records. The compiled role prompt is
// re-derived from the config fields immediately before every write; it is
// never accepted from clients.
type ChatbotService struct {
	DB       *sql.DB
	Uploader assets.Uploader
}

func NewChatbotService(db *sql.DB, uploader assets.Uploader) *ChatbotService {
	return &ChatbotService{DB: db, Uploader: uploader}
}

// ChatbotInput is the client-supplied persona configuration.
type ChatbotInput struct {
	Name         string `json:"name"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
	Occupation   string `json:"occupation"`
	Personality  string `json:"personality"`
	Relationship string `json:"relationship"`
	Tone         string `json:"tone"`
	ProfilePic   string `json:"profile_pic"`
	IsPrivate    *bool  `json:"is_private"`
}

// validateRequired checks each required field in order so the error names
// the first missing one. Enum membership is enforced by the schema.
func validateRequired(in ChatbotInput) error {
	if in.Name == "" {
		return &apperr.ValidationError{Field: "Name"}
	}
	if in.Gender == "" {
		return &apperr.ValidationError{Field: "Gender"}
	}
	if in.Age == 0 {
		return &apperr.ValidationError{Field: "Age"}
	}
	if in.Occupation == "" {
		return &apperr.ValidationError{Field: "Occupation"}
	}
	if in.Personality == "" {
		return &apperr.ValidationError{Field: "Personality"}
	}
	return nil
}

const chatbotColumns = "id, user_id, name, gender, age, occupation, personality, relationship, tone, profile_pic, is_private, role, temperature, max_tokens, created_at, updated_at"

func scanChatbot(row interface{ Scan(...interface{}) error }) (*models.Chatbot, error) {
	bot := &models.Chatbot{}
	err := row.Scan(
		&bot.ID, &bot.UserID, &bot.Name, &bot.Gender, &bot.Age,
		&bot.Occupation, &bot.Personality, &bot.Relationship, &bot.Tone,
		&bot.ProfilePic, &bot.IsPrivate, &bot.Role, &bot.Temperature,
		&bot.MaxTokens, &bot.CreatedAt, &bot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bot, nil
}

// Create validates the input, compiles the role prompt and persists the
// persona with default generation parameters. The profile image upload is
// best-effort: a failure leaves the persona with an empty image.
func (s *ChatbotService) Create(ctx context.Context, ownerID string, in ChatbotInput) (*models.Chatbot, error) {
	if err := validateRequired(in); err != nil {
		return nil, err
	}

	bot := &models.Chatbot{
		UserID:       ownerID,
		Name:         in.Name,
		Gender:       in.Gender,
		Age:          in.Age,
		Occupation:   in.Occupation,
		Personality:  in.Personality,
		Relationship: in.Relationship,
		Tone:         in.Tone,
	}
	if in.IsPrivate != nil {
		bot.IsPrivate = *in.IsPrivate
	}
	bot.BeforeCreate()
	bot.Role = prompt.Compile(bot.Name, bot.Age, bot.Gender, bot.Occupation, bot.Personality, bot.Relationship, bot.Tone)
	bot.ProfilePic = s.uploadImage(ctx, in.ProfilePic, "")

	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO chatbots ("+chatbotColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		bot.ID, bot.UserID, bot.Name, bot.Gender, bot.Age,
		bot.Occupation, bot.Personality, bot.Relationship, bot.Tone,
		bot.ProfilePic, bot.IsPrivate, bot.Role, bot.Temperature,
		bot.MaxTokens, bot.CreatedAt, bot.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return bot, nil
}

// List returns the requester's own personas plus every public one, each
// joined with its creator's display name.
func (s *ChatbotService) List(ctx context.Context, requesterID string) ([]*models.ChatbotWithCreator, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT c.id, c.user_id, c.name, c.gender, c.age, c.occupation, c.personality,
		        c.relationship, c.tone, c.profile_pic, c.is_private, c.role,
		        c.temperature, c.max_tokens, c.created_at, c.updated_at, u.full_name
		 FROM chatbots c
		 JOIN users u ON c.user_id = u.id
		 WHERE c.user_id = ? OR c.is_private = 0
		 ORDER BY c.created_at`,
		requesterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bots []*models.ChatbotWithCreator
	for rows.Next() {
		bot := &models.ChatbotWithCreator{}
		err := rows.Scan(
			&bot.ID, &bot.UserID, &bot.Name, &bot.Gender, &bot.Age,
			&bot.Occupation, &bot.Personality, &bot.Relationship, &bot.Tone,
			&bot.ProfilePic, &bot.IsPrivate, &bot.Role, &bot.Temperature,
			&bot.MaxTokens, &bot.CreatedAt, &bot.UpdatedAt, &bot.CreatorName,
		)
		if err != nil {
			return nil, err
		}
		bots = append(bots, bot)
	}

	return bots, rows.Err()
}

// GetByID loads a persona including its hidden generation fields. Used by
// the dispatcher; not exposed through the API.
func (s *ChatbotService) GetByID(ctx context.Context, id string) (*models.Chatbot, error) {
	row := s.DB.QueryRowContext(ctx, "SELECT "+chatbotColumns+" FROM chatbots WHERE id = ?", id)
	bot, err := scanChatbot(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return bot, nil
}

// Update fully replaces the persona's configuration, recompiling the role
// prompt unconditionally. Owner-only; anything else reports not found.
func (s *ChatbotService) Update(ctx context.Context, id, ownerID string, in ChatbotInput) (*models.Chatbot, error) {
	if err := validateRequired(in); err != nil {
		return nil, err
	}

	row := s.DB.QueryRowContext(ctx, "SELECT "+chatbotColumns+" FROM chatbots WHERE id = ? AND user_id = ?", id, ownerID)
	bot, err := scanChatbot(row)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	bot.Name = in.Name
	bot.Gender = in.Gender
	bot.Age = in.Age
	bot.Occupation = in.Occupation
	bot.Personality = in.Personality
	bot.Relationship = in.Relationship
	bot.Tone = in.Tone
	if in.IsPrivate != nil {
		bot.IsPrivate = *in.IsPrivate
	}
	bot.Role = prompt.Compile(bot.Name, bot.Age, bot.Gender, bot.Occupation, bot.Personality, bot.Relationship, bot.Tone)
	bot.BeforeUpdate()

	// Image replacement is opportunistic: on upload failure the previous
	// image stays and the update still succeeds.
	if in.ProfilePic != "" && in.ProfilePic != bot.ProfilePic {
		bot.ProfilePic = s.uploadImage(ctx, in.ProfilePic, bot.ProfilePic)
	}

	_, err = s.DB.ExecContext(ctx,
		`UPDATE chatbots SET name = ?, gender = ?, age = ?, occupation = ?, personality = ?,
		        relationship = ?, tone = ?, profile_pic = ?, is_private = ?, role = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		bot.Name, bot.Gender, bot.Age, bot.Occupation, bot.Personality,
		bot.Relationship, bot.Tone, bot.ProfilePic, bot.IsPrivate, bot.Role, bot.UpdatedAt,
		id, ownerID,
	)
	if err != nil {
		return nil, err
	}

	return bot, nil
}

// Delete removes an owned persona and cascades deletion of every message
// where it is sender or receiver.
func (s *ChatbotService) Delete(ctx context.Context, id, ownerID string) error {
	result, err := s.DB.ExecContext(ctx, "DELETE FROM chatbots WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}

	_, err = s.DB.ExecContext(ctx, "DELETE FROM messages WHERE sender_id = ? OR receiver_id = ?", id, id)
	return err
}

// uploadImage stores data if possible and returns the resulting URL, or
// fallback when data is empty or the upload fails.
func (s *ChatbotService) uploadImage(ctx context.Context, data, fallback string) string {
	if data == "" || s.Uploader == nil {
		return fallback
	}
	url, err := s.Uploader.Upload(ctx, data)
	if err != nil {
		log.Printf("Error uploading profile picture: %v", err)
		return fallback
	}
	return url
}
