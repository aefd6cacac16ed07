package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/models"
	"caretrek-backend/internal/services"
)

type HealthMetricHandler struct {
	Health *services.HealthService
}

func NewHealthMetricHandler(healthService *services.HealthService) *HealthMetricHandler {
	return &HealthMetricHandler{Health: healthService}
}

// Record stores a reading for the authenticated senior
func (h *HealthMetricHandler) Record(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	var req models.CreateHealthMetricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	metric, err := h.Health.Record(r.Context(), claims.UserID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, metric)
}

// List returns a senior's readings, filterable by type and date range
func (h *HealthMetricHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	filter := metricFilter(r)
	metrics, err := h.Health.List(r.Context(), claims.UserID, seniorID, filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": metrics,
	})
}

// Latest returns the most recent reading of each type
func (h *HealthMetricHandler) Latest(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	metrics, err := h.Health.Latest(r.Context(), claims.UserID, seniorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"metrics": metrics,
	})
}

// Activity returns per-day aggregates for the dashboard
func (h *HealthMetricHandler) Activity(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	days := 7
	if d, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && d > 0 && d <= 90 {
		days = d
	}

	activity, err := h.Health.DailyActivity(r.Context(), claims.UserID, seniorID, days)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"activity": activity,
	})
}

func metricFilter(r *http.Request) models.HealthMetricFilter {
	q := r.URL.Query()
	filter := models.HealthMetricFilter{
		MetricType: q.Get("type"),
	}

	if from, err := time.Parse(time.RFC3339, q.Get("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, q.Get("to")); err == nil {
		filter.To = &to
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 && limit <= 500 {
		filter.Limit = limit
	}

	return filter
}
