package models

import "time"

// Connection statuses. A connection starts pending; accepted, rejected
// and blocked are terminal for the record. Retrying after a rejection
// means creating a new record.
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
	ConnectionStatusRejected = "rejected"
	ConnectionStatusBlocked  = "blocked"
)

// Relationship options for a connection request
var ConnectionRelationships = []string{
	"child",
	"spouse",
	"sibling",
	"caregiver",
	"other",
}

// Permissions is the fixed set of flags gating what an accepted family
// member can see or manage. All seven keys are always present; there is
// no sparse representation. Stored as JSONB.
type Permissions struct {
	ViewHealth           bool `json:"view_health"`
	ViewMedications      bool `json:"view_medications"`
	ViewAppointments     bool `json:"view_appointments"`
	ViewLocation         bool `json:"view_location"`
	ReceiveNotifications bool `json:"receive_notifications"`
	ManageMedications    bool `json:"manage_medications"`
	ManageAppointments   bool `json:"manage_appointments"`
}

// DefaultPermissions returns the flags materialized when a connection is
// accepted: everything viewable, nothing manageable.
func DefaultPermissions() Permissions {
	return Permissions{
		ViewHealth:           true,
		ViewMedications:      true,
		ViewAppointments:     true,
		ViewLocation:         true,
		ReceiveNotifications: true,
		ManageMedications:    false,
		ManageAppointments:   false,
	}
}

// PermissionsPatch is a partial permission update; nil fields are left
// unchanged by Merge.
type PermissionsPatch struct {
	ViewHealth           *bool `json:"view_health,omitempty"`
	ViewMedications      *bool `json:"view_medications,omitempty"`
	ViewAppointments     *bool `json:"view_appointments,omitempty"`
	ViewLocation         *bool `json:"view_location,omitempty"`
	ReceiveNotifications *bool `json:"receive_notifications,omitempty"`
	ManageMedications    *bool `json:"manage_medications,omitempty"`
	ManageAppointments   *bool `json:"manage_appointments,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *PermissionsPatch) IsEmpty() bool {
	return p.ViewHealth == nil &&
		p.ViewMedications == nil &&
		p.ViewAppointments == nil &&
		p.ViewLocation == nil &&
		p.ReceiveNotifications == nil &&
		p.ManageMedications == nil &&
		p.ManageAppointments == nil
}

// Merge applies the patch on top of existing permissions and returns the
// full record. Unset fields keep their prior values.
func (p *PermissionsPatch) Merge(base Permissions) Permissions {
	out := base
	if p.ViewHealth != nil {
		out.ViewHealth = *p.ViewHealth
	}
	if p.ViewMedications != nil {
		out.ViewMedications = *p.ViewMedications
	}
	if p.ViewAppointments != nil {
		out.ViewAppointments = *p.ViewAppointments
	}
	if p.ViewLocation != nil {
		out.ViewLocation = *p.ViewLocation
	}
	if p.ReceiveNotifications != nil {
		out.ReceiveNotifications = *p.ReceiveNotifications
	}
	if p.ManageMedications != nil {
		out.ManageMedications = *p.ManageMedications
	}
	if p.ManageAppointments != nil {
		out.ManageAppointments = *p.ManageAppointments
	}
	return out
}

// Connection links one senior account and one family account. The
// *_Name/Email/Avatar fields are projections joined from profiles at
// query time and are never written by this service.
type Connection struct {
	ID               int         `json:"id"`
	SeniorID         int         `json:"senior_id"`
	FamilyMemberID   int         `json:"family_member_id"`
	Relationship     string      `json:"relationship"`
	RelationshipNote string      `json:"relationship_note,omitempty"` // free text when relationship is "other"
	Status           string      `json:"status"`
	Permissions      Permissions `json:"permissions"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`

	SeniorName         string `json:"senior_name,omitempty"`
	SeniorEmail        string `json:"senior_email,omitempty"`
	SeniorAvatar       string `json:"senior_avatar,omitempty"`
	FamilyMemberName   string `json:"family_member_name,omitempty"`
	FamilyMemberEmail  string `json:"family_member_email,omitempty"`
	FamilyMemberAvatar string `json:"family_member_avatar,omitempty"`
}

// IsActive reports whether the connection still occupies the pair slot
// (one active connection per senior/family pair).
func (c *Connection) IsActive() bool {
	return c.Status == ConnectionStatusPending || c.Status == ConnectionStatusAccepted
}

// EffectivePermissions returns the flags readers should honor: anything
// other than an accepted connection grants nothing.
func (c *Connection) EffectivePermissions() Permissions {
	if c.Status != ConnectionStatusAccepted {
		return Permissions{}
	}
	return c.Permissions
}

// ValidConnectionStatus reports whether s is one of the four statuses.
func ValidConnectionStatus(s string) bool {
	switch s {
	case ConnectionStatusPending, ConnectionStatusAccepted,
		ConnectionStatusRejected, ConnectionStatusBlocked:
		return true
	}
	return false
}

// ValidRelationship reports whether r is an enumerated relationship tag.
func ValidRelationship(r string) bool {
	for _, rel := range ConnectionRelationships {
		if r == rel {
			return true
		}
	}
	return false
}

// CanTransition applies the status table: pending may become accepted or
// rejected, and any status may become blocked. Nothing leaves a terminal
// status otherwise, and a no-op transition is not a transition.
func CanTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch to {
	case ConnectionStatusAccepted, ConnectionStatusRejected:
		return from == ConnectionStatusPending
	case ConnectionStatusBlocked:
		return true
	}
	return false
}

// SendConnectionRequest is the request body for creating a connection by
// contact info. Exactly one of Email or Phone must be set.
type SendConnectionRequest struct {
	Email            string `json:"email,omitempty"`
	Phone            string `json:"phone,omitempty"`
	Name             string `json:"name"`
	Relationship     string `json:"relationship"`
	RelationshipNote string `json:"relationship_note,omitempty"`
}

// SendRequestByID is the request body for creating a connection when the
// senior's account id is already known.
type SendRequestByID struct {
	SeniorID         int    `json:"senior_id"`
	Relationship     string `json:"relationship"`
	RelationshipNote string `json:"relationship_note,omitempty"`
}

// RespondRequest is the request body for answering a pending request.
type RespondRequest struct {
	Status string `json:"status"`
}
