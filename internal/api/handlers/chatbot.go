package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Leonucn/Echo-chat/internal/api/middleware"
	"github.com/Leonucn/Echo-chat/internal/services"
)

type ChatbotHandler struct {
	Service *services.ChatbotService
}

func NewChatbotHandler(service *services.ChatbotService) *ChatbotHandler {
	return &ChatbotHandler{Service: service}
}

func (h *ChatbotHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in services.ChatbotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid chatbot data")
		return
	}

	bot, err := h.Service.Create(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, bot)
}

func (h *ChatbotHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bots, err := h.Service.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bots)
}

func (h *ChatbotHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in services.ChatbotInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid chatbot data")
		return
	}

	bot, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, bot)
}

func (h *ChatbotHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondMessage(w, http.StatusOK, "Chatbot deleted successfully")
}
