package handlers

import (
	"encoding/json"
	"net/http"

	"caretrek-backend/internal/auth"
	"caretrek-backend/internal/models"
	"caretrek-backend/internal/services"
)

type MedicationHandler struct {
	Medications *services.MedicationService
}

func NewMedicationHandler(medications *services.MedicationService) *MedicationHandler {
	return &MedicationHandler{Medications: medications}
}

// Add creates a medication for a senior. The senior themself or a
// family member with manage permission may add.
func (h *MedicationHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	var req models.CreateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	med, err := h.Medications.Add(r.Context(), claims.UserID, seniorID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, med)
}

// List returns all of a senior's medications
func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	meds, err := h.Medications.List(r.Context(), claims.UserID, seniorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"medications": meds,
	})
}

// Today returns the medications scheduled for today
func (h *MedicationHandler) Today(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	seniorID, err := pathID(r, "seniorId")
	if err != nil {
		http.Error(w, "Invalid senior ID", http.StatusBadRequest)
		return
	}

	meds, err := h.Medications.Today(r.Context(), claims.UserID, seniorID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"medications": meds,
	})
}

// Update modifies a medication
func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	medicationID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid medication ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	med, err := h.Medications.Update(r.Context(), claims.UserID, medicationID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, med)
}

// Remove deletes a medication
func (h *MedicationHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := auth.CurrentUser(r.Context())

	medicationID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid medication ID", http.StatusBadRequest)
		return
	}

	if err := h.Medications.Remove(r.Context(), claims.UserID, medicationID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Medication removed",
	})
}
