package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/models"
	"caretrek-backend/internal/services"
)

type AlertHandler struct {
	Alerts *services.AlertService
}

func NewAlertHandler(alerts *services.AlertService) *AlertHandler {
	return &AlertHandler{Alerts: alerts}
}

// Raise creates an emergency alert for the authenticated senior and
// notifies their family
func (h *AlertHandler) Raise(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var req models.CreateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	alert, err := h.Alerts.Raise(r.Context(), claims.UserID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, alert)
}

// Acknowledge marks an active alert as seen
func (h *AlertHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	alertID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid alert ID", http.StatusBadRequest)
		return
	}

	alert, err := h.Alerts.Acknowledge(r.Context(), claims.UserID, alertID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alert)
}

// Resolve closes an alert
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	alertID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid alert ID", http.StatusBadRequest)
		return
	}

	alert, err := h.Alerts.Resolve(r.Context(), claims.UserID, alertID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, alert)
}

// History lists a senior's recent alerts
func (h *AlertHandler) History(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	limit := 50
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}

	alerts, err := h.Alerts.History(r.Context(), claims.UserID, seniorID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
	})
}
