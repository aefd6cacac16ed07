package models

import "time"

// Alert types and statuses. Fall alerts come from the app's countdown
// screen; sos from the emergency button.
const (
	AlertTypeSOS     = "sos"
	AlertTypeFall    = "fall"
	AlertTypeMedical = "medical"

	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

// EmergencyAlert is raised by a senior and fanned out to connected
// family members over SMS and websocket.
type EmergencyAlert struct {
	ID             int        `json:"id"`
	SeniorID       int        `json:"senior_id"`
	Type           string     `json:"type"`
	Message        string     `json:"message,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	Status         string     `json:"status"`
	AcknowledgedBy *int       `json:"acknowledged_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	SeniorName string `json:"senior_name,omitempty"`
}

// ValidAlertType reports whether t is a known alert type.
func ValidAlertType(t string) bool {
	return t == AlertTypeSOS || t == AlertTypeFall || t == AlertTypeMedical
}

// AlertDelivery logs one notification attempt for an alert, one row per
// recipient per channel.
type AlertDelivery struct {
	ID           int       `json:"id"`
	AlertID      int       `json:"alert_id"`
	RecipientID  int       `json:"recipient_id"`
	Channel      string    `json:"channel"` // "sms" or "websocket"
	Status       string    `json:"status"`  // "sent" or "failed"
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateAlertRequest for raising an alert
type CreateAlertRequest struct {
	Type      string   `json:"type"`
	Message   string   `json:"message,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
