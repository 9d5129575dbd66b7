// internal/services/user_service.go

package services

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/Leonucn/Echo-chat/internal/apperr"
	"github.com/Leonucn/Echo-chat/internal/assets"
	"github.com/Leonucn/Echo-chat/internal/models"
)

type UserService struct {
	DB       *sql.DB
	Uploader assets.Uploader
}

func NewUserService(db *sql.DB, uploader assets.Uploader) *UserService {
	return &UserService{DB: db, Uploader: uploader}
}

// CreateUser registers a new account with a pre-hashed password.
func (s *UserService) CreateUser(ctx context.Context, fullName, email, passwordHash string) (*models.User, error) {
	user := &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: passwordHash,
	}
	user.BeforeCreate()

	_, err := s.DB.ExecContext(ctx,
		"INSERT INTO users (id, full_name, email, password_hash, profile_pic, google_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.FullName, user.Email, user.PasswordHash, user.ProfilePic, user.GoogleID, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// CreateOrUpdateUser finds the account linked to a Google identity,
// creating or refreshing it as needed.
func (s *UserService) CreateOrUpdateUser(ctx context.Context, googleUser *models.GoogleUser) (*models.User, error) {
	user := &models.User{}
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, full_name, email, profile_pic, created_at, updated_at FROM users WHERE google_id = ?",
		googleUser.ID,
	).Scan(&user.ID, &user.FullName, &user.Email, &user.ProfilePic, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		user = &models.User{
			GoogleID:   googleUser.ID,
			FullName:   googleUser.Name,
			Email:      googleUser.Email,
			ProfilePic: googleUser.Picture,
		}
		user.BeforeCreate()

		_, err := s.DB.ExecContext(ctx,
			"INSERT INTO users (id, full_name, email, password_hash, profile_pic, google_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			user.ID, user.FullName, user.Email, "", user.ProfilePic, user.GoogleID, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	} else {
		user.GoogleID = googleUser.ID
		user.FullName = googleUser.Name
		user.Email = googleUser.Email
		user.ProfilePic = googleUser.Picture
		user.UpdatedAt = time.Now()

		_, err = s.DB.ExecContext(ctx,
			"UPDATE users SET full_name = ?, email = ?, profile_pic = ?, updated_at = ? WHERE google_id = ?",
			user.FullName, user.Email, user.ProfilePic, user.UpdatedAt, user.GoogleID,
		)
		if err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user := &models.User{}
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, full_name, email, password_hash, profile_pic, google_id, created_at, updated_at FROM users WHERE id = ?",
		id,
	).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.ProfilePic, &user.GoogleID, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.DB.QueryRowContext(ctx,
		"SELECT id, full_name, email, password_hash, profile_pic, google_id, created_at, updated_at FROM users WHERE email = ?",
		email,
	).Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.ProfilePic, &user.GoogleID, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfilePic uploads a new avatar and stores its URL. The upload is
// best-effort: on failure the previous picture stays in place.
func (s *UserService) UpdateProfilePic(ctx context.Context, userID, image string) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if image != "" && s.Uploader != nil {
		url, err := s.Uploader.Upload(ctx, image)
		if err != nil {
			log.Printf("Error uploading profile picture: %v", err)
		} else {
			user.ProfilePic = url
		}
	}
	user.UpdatedAt = time.Now()

	_, err = s.DB.ExecContext(ctx,
		"UPDATE users SET profile_pic = ?, updated_at = ? WHERE id = ?",
		user.ProfilePic, user.UpdatedAt, userID,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}
