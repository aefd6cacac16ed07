package handlers

import (
	"encoding/json"
	"net/http"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/models"
	"caretrek-backend/internal/services"
)

type AppointmentHandler struct {
	Appointments *services.AppointmentService
}

func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{Appointments: appointments}
}

// Schedule creates an appointment for a senior
func (h *AppointmentHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	var req models.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.Appointments.Schedule(r.Context(), claims.UserID, seniorID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, appt)
}

// List returns all of a senior's appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	appts, err := h.Appointments.List(r.Context(), claims.UserID, seniorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appts,
	})
}

// Upcoming returns future appointments in date order
func (h *AppointmentHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	appts, err := h.Appointments.Upcoming(r.Context(), claims.UserID, seniorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appts,
	})
}

// Update modifies an appointment
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	appointmentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	appt, err := h.Appointments.Update(r.Context(), claims.UserID, appointmentID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, appt)
}

// Remove deletes an appointment
func (h *AppointmentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	appointmentID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return
	}

	if err := h.Appointments.Remove(r.Context(), claims.UserID, appointmentID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Appointment removed",
	})
}
