package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/models"
	"caretrek-backend/internal/services"
	"caretrek-backend/pkg/errors"
)

type ConnectionHandler struct {
	Connections *services.ConnectionService
}

func NewConnectionHandler(connections *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{Connections: connections}
}

// SendRequest creates a pending connection request. The senior is found
// by email or phone; name and relationship are required.
func (h *ConnectionHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var req models.SendConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conn, err := h.Connections.SendConnectionRequest(r.Context(), claims.UserID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conn)
}

// SendRequestByID creates a pending request to a known senior account
func (h *ConnectionHandler) SendRequestByID(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var req models.SendRequestByID
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conn, err := h.Connections.SendRequest(r.Context(), claims.UserID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, conn)
}

// Respond accepts, rejects or blocks a pending request
func (h *ConnectionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	connectionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	var req models.RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conn, err := h.Connections.RespondToRequest(r.Context(), claims.UserID, connectionID, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conn)
}

// UpdatePermissions applies a partial permission update. Only the senior
// side of an accepted connection may change permissions.
func (h *ConnectionHandler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	connectionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	var patch models.PermissionsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	conn, err := h.Connections.UpdatePermissions(r.Context(), claims.UserID, connectionID, &patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conn)
}

// Remove deletes a connection. Removing an already-removed connection
// succeeds.
func (h *ConnectionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	connectionID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	if err := h.Connections.RemoveConnection(r.Context(), claims.UserID, connectionID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Connection removed",
	})
}

// List returns the caller's connections in both directions, optionally
// filtered by status
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	conns, err := h.Connections.ListConnections(r.Context(), claims.UserID, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connections":   conns,
		"relationships": models.ConnectionRelationships,
	})
}

// Seniors returns the seniors the caller is accepted with
func (h *ConnectionHandler) Seniors(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	conns, err := h.Connections.ConnectedSeniors(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"seniors": conns,
	})
}

// FamilyMembers returns the accepted family members of a senior. The
// caller must be the senior.
func (h *ConnectionHandler) FamilyMembers(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	conns, err := h.Connections.FamilyMembers(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"family_members": conns,
	})
}

// Check returns the connection between the caller and a senior, if any
func (h *ConnectionHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	conn, err := h.Connections.CheckConnection(r.Context(), claims.UserID, seniorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"connected":  conn != nil && conn.IsActive(),
		"connection": conn,
	})
}

// Permissions returns the caller's effective permissions for a senior
func (h *ConnectionHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	perms, err := h.Connections.Permission(r.Context(), claims.UserID, seniorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"permissions": perms,
	})
}

func pathID(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || id <= 0 {
		return 0, errors.New(errors.ErrCodeValidation, "invalid id")
	}
	return id, nil
}
