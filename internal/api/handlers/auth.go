package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leonucn/Echo-chat/internal/api/middleware"
	"github.com/Leonucn/Echo-chat/internal/apperr"
	"github.com/Leonucn/Echo-chat/internal/config"
	"github.com/Leonucn/Echo-chat/internal/models"
	"github.com/Leonucn/Echo-chat/internal/services"
	"github.com/Leonucn/Echo-chat/pkg/utils"

	"github.com/gorilla/sessions"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type AuthHandler struct {
	Users    *services.UserService
	config   *oauth2.Config
	sessions *sessions.CookieStore
}

func NewAuthHandler(users *services.UserService, cfg *config.Config) *AuthHandler {
	oauthConfig := &oauth2.Config{
		RedirectURL:  "http://localhost:8080/auth/google/callback",
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}

	return &AuthHandler{
		Users:    users,
		config:   oauthConfig,
		sessions: sessions.NewCookieStore([]byte(cfg.SessionKey)),
	}
}

type signupRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if len(req.Password) < 6 {
		respondMessage(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	if _, err := h.Users.GetUserByEmail(r.Context(), req.Email); err == nil {
		respondMessage(w, http.StatusBadRequest, "Email already exists")
		return
	} else if !errors.Is(err, apperr.ErrNotFound) {
		respondServiceError(w, err)
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	user, err := h.Users.CreateUser(r.Context(), req.FullName, req.Email, hash)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := utils.GenerateJWT(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err := utils.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := utils.GenerateJWT(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Logout is a formality with bearer tokens; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// Check returns the authenticated user's profile.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.Users.GetUserByID(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	ProfilePic string `json:"profile_pic"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ProfilePic == "" {
		respondMessage(w, http.StatusBadRequest, "Profile pic is required")
		return
	}

	user, err := h.Users.UpdateProfilePic(r.Context(), userID, req.ProfilePic)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := randomState()
	session, _ := h.sessions.Get(r, "oauth-session")
	session.Values["state"] = state
	session.Save(r, w)

	url := h.config.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	session, _ := h.sessions.Get(r, "oauth-session")
	wantState, _ := session.Values["state"].(string)
	if wantState == "" || r.URL.Query().Get("state") != wantState {
		respondMessage(w, http.StatusBadRequest, "Invalid oauth state")
		return
	}

	code := r.URL.Query().Get("code")
	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		respondMessage(w, http.StatusInternalServerError, "Failed to exchange token")
		return
	}

	client := h.config.Client(r.Context(), token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		respondMessage(w, http.StatusInternalServerError, "Failed to get user info")
		return
	}
	defer resp.Body.Close()

	var googleUser models.GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		respondMessage(w, http.StatusInternalServerError, "Failed to parse user info")
		return
	}

	user, err := h.Users.CreateOrUpdateUser(r.Context(), &googleUser)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	jwtToken, err := utils.GenerateJWT(user.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, authResponse{Token: jwtToken, User: user})
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
