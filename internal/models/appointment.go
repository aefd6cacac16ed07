package models

import "time"

// Appointment types and statuses
const (
	AppointmentTypeDoctor      = "doctor"
	AppointmentTypeTherapy     = "therapy"
	AppointmentTypeVaccination = "vaccination"
	AppointmentTypeFamily      = "family"

	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusCompleted = "completed"
	AppointmentStatusCancelled = "cancelled"
)

var AppointmentTypes = []string{
	AppointmentTypeDoctor,
	AppointmentTypeTherapy,
	AppointmentTypeVaccination,
	AppointmentTypeFamily,
}

// Appointment is a scheduled visit on a senior's calendar.
type Appointment struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	StartsAt  time.Time `json:"starts_at"`
	Location  string    `json:"location"`
	Notes     string    `json:"notes,omitempty"`
	Status    string    `json:"status"`
	Reminder  bool      `json:"reminder"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidAppointmentType reports whether t is a known type.
func ValidAppointmentType(t string) bool {
	for _, at := range AppointmentTypes {
		if t == at {
			return true
		}
	}
	return false
}

// ValidAppointmentStatus reports whether s is a known status.
func ValidAppointmentStatus(s string) bool {
	return s == AppointmentStatusScheduled ||
		s == AppointmentStatusCompleted ||
		s == AppointmentStatusCancelled
}

// CreateAppointmentRequest for scheduling
type CreateAppointmentRequest struct {
	Title    string    `json:"title"`
	Type     string    `json:"type"`
	StartsAt time.Time `json:"starts_at"`
	Location string    `json:"location"`
	Notes    string    `json:"notes,omitempty"`
	Reminder bool      `json:"reminder"`
}

// UpdateAppointmentRequest for editing; zero-valued fields are ignored.
type UpdateAppointmentRequest struct {
	Title    string     `json:"title,omitempty"`
	Type     string     `json:"type,omitempty"`
	StartsAt *time.Time `json:"starts_at,omitempty"`
	Location string     `json:"location,omitempty"`
	Notes    string     `json:"notes,omitempty"`
	Status   string     `json:"status,omitempty"`
	Reminder *bool      `json:"reminder,omitempty"`
}
