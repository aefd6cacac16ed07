package models

import "time"

// MedicationSchedule holds dose times ("08:00") and weekdays
// (0=Sunday..6=Saturday). Stored as JSONB.
type MedicationSchedule struct {
	Times []string `json:"times"`
	Days  []int    `json:"days"`
}

// OnDay reports whether the schedule includes the given weekday. An
// empty day list means every day.
func (s MedicationSchedule) OnDay(weekday time.Weekday) bool {
	if len(s.Days) == 0 {
		return true
	}
	for _, d := range s.Days {
		if d == int(weekday) {
			return true
		}
	}
	return false
}

// Medication is a senior's prescription entry with its reminder schedule.
type Medication struct {
	ID           int                `json:"id"`
	UserID       int                `json:"user_id"`
	Name         string             `json:"name"`
	Dosage       string             `json:"dosage"`
	Schedule     MedicationSchedule `json:"schedule"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      *time.Time         `json:"end_date,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CreateMedicationRequest for adding a medication
type CreateMedicationRequest struct {
	Name         string             `json:"name"`
	Dosage       string             `json:"dosage"`
	Schedule     MedicationSchedule `json:"schedule"`
	StartDate    time.Time          `json:"start_date"`
	EndDate      *time.Time         `json:"end_date,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
}

// UpdateMedicationRequest for editing a medication; empty fields keep
// their current values.
type UpdateMedicationRequest struct {
	Name         string              `json:"name,omitempty"`
	Dosage       string              `json:"dosage,omitempty"`
	Schedule     *MedicationSchedule `json:"schedule,omitempty"`
	EndDate      *time.Time          `json:"end_date,omitempty"`
	Instructions string              `json:"instructions,omitempty"`
}
