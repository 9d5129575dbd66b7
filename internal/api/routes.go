package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Leonucn/Echo-chat/internal/api/handlers"
	"github.com/Leonucn/Echo-chat/internal/api/middleware"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Chatbot *handlers.ChatbotHandler
	Message *handlers.MessageHandler
	WS      *handlers.WSHandler
}

func SetupRoutes(r *mux.Router, h Handlers) {
	// Apply logging middleware to all routes
	r.Use(func(next http.Handler) http.Handler {
		return middleware.LoggingMiddleware(next.ServeHTTP)
	})

	// Public routes
	r.HandleFunc("/api/auth/signup", h.Auth.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods("POST")
	r.HandleFunc("/auth/google/login", h.Auth.GoogleLogin).Methods("GET")
	r.HandleFunc("/auth/google/callback", h.Auth.GoogleCallback).Methods("GET")

	// The websocket endpoint authenticates itself via token query param.
	r.HandleFunc("/ws", h.WS.Connect).Methods("GET")

	// Protected routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(func(next http.Handler) http.Handler {
		return middleware.AuthMiddleware(next.ServeHTTP)
	})

	protected.HandleFunc("/auth/logout", h.Auth.Logout).Methods("POST")
	protected.HandleFunc("/auth/check", h.Auth.Check).Methods("GET")
	protected.HandleFunc("/auth/update-profile", h.Auth.UpdateProfile).Methods("PUT")

	protected.HandleFunc("/chatbot", h.Chatbot.Create).Methods("POST")
	protected.HandleFunc("/chatbot", h.Chatbot.List).Methods("GET")
	protected.HandleFunc("/chatbot/{id}", h.Chatbot.Update).Methods("PUT")
	protected.HandleFunc("/chatbot/{id}", h.Chatbot.Delete).Methods("DELETE")

	protected.HandleFunc("/messages/users", h.Message.GetSidebarUsers).Methods("GET")
	protected.HandleFunc("/messages/send/chatbot/{id}", h.Message.SendToChatbot).Methods("POST")
	protected.HandleFunc("/messages/send/{id}", h.Message.SendToUser).Methods("POST")
	protected.HandleFunc("/messages/{id}", h.Message.GetConversation).Methods("GET")
}
