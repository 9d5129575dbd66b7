package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Leonucn/Echo-chat/internal/realtime"
	"github.com/Leonucn/Echo-chat/pkg/utils"
)

type WSHandler struct {
	Hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *realtime.Hub) *WSHandler {
	return &WSHandler{
		Hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser websocket API cannot set headers, so origin
			// policy is handled by the CORS layer in front of us.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect authenticates via a token query parameter (websockets cannot
// carry an Authorization header from browsers) and registers the
// connection for realtime delivery.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket for %s: %v", claims.UserID, err)
		return
	}

	h.Hub.Register(claims.UserID, conn)
}
