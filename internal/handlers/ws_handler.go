package handlers

import (
	"net/http"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/realtime"
)

type WSHandler struct {
	hub *realtime.Hub
	jwt *auth.JWTManager
}

func NewWSHandler(hub *realtime.Hub, jwtManager *auth.JWTManager) *WSHandler {
	return &WSHandler{hub: hub, jwt: jwtManager}
}

// Connect upgrades to a websocket. The token comes as a query parameter
// since websocket clients cannot set an Authorization header.
func (h *WSHandler) Connect(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token query parameter required", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwt.VerifyToken(token)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	h.hub.HandleConnection(w, r, claims.UserID)
}
