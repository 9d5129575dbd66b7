package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Leonucn/Echo-chat/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Not-found and ownership failures share one generic message; everything
// unexpected is logged and hidden behind a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		respondMessage(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, apperr.ErrNotFound):
		respondMessage(w, http.StatusNotFound, "Chatbot not found")
	default:
		log.Printf("Internal error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
