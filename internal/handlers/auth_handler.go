package handlers

import (
	"encoding/json"
	"net/http"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/models"
	"caretrek-backend/internal/services"
	"caretrek-backend/pkg/errors"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{Auth: authService}
}

// Register creates an account and returns a token
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Auth.Register(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login authenticates and returns a token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.Auth.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())
	if claims == nil {
		writeError(w, errors.New(errors.ErrCodeUnauthorized, "authentication required"))
		return
	}

	user, err := h.Auth.Me(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Search finds accounts by name or email
func (h *AuthHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.Auth.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}
