package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Leonucn/Echo-chat/internal/api/middleware"
	"github.com/Leonucn/Echo-chat/internal/services"
)

type MessageHandler struct {
	Service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{Service: service}
}

type sendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// GetSidebarUsers lists the other users for the contact sidebar.
func (h *MessageHandler) GetSidebarUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	users, err := h.Service.GetSidebarUsers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// GetConversation returns the full history with one other party (user or
// chatbot), oldest first.
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	messages, err := h.Service.GetConversation(r.Context(), userID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// SendToUser delivers a human-to-human message.
func (h *MessageHandler) SendToUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid message data")
		return
	}

	msg, err := h.Service.SendToUser(r.Context(), userID, mux.Vars(r)["id"], req.Text, req.Image)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// SendToChatbot runs the persona-send path and returns the persisted bot
// reply turn.
func (h *MessageHandler) SendToChatbot(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid message data")
		return
	}

	botMsg, err := h.Service.SendToChatbot(r.Context(), userID, mux.Vars(r)["id"], req.Text, req.Image)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, botMsg)
}
