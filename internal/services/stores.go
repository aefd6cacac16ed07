package services

import (
	"context"

	"caretrek-backend/internal/models"
)

// Store interfaces consumed by the services. The pgx repositories
// satisfy them in production; tests use in-memory fakes. Lookups return
// (nil, nil) when no row exists — mapping absence to a typed NotFound
// is the service's job, not the store's.

type ConnectionStore interface {
	Create(ctx context.Context, conn *models.Connection) error
	Get(ctx context.Context, id int) (*models.Connection, error)
	UpdateStatus(ctx context.Context, id int, status string, perms models.Permissions) (*models.Connection, error)
	UpdatePermissions(ctx context.Context, id int, perms models.Permissions) (*models.Connection, error)
	Delete(ctx context.Context, id int) (bool, error)
	ListByUser(ctx context.Context, userID int, status string) ([]*models.Connection, error)
	ListAcceptedByFamilyMember(ctx context.Context, familyMemberID int) ([]*models.Connection, error)
	ListAcceptedBySenior(ctx context.Context, seniorID int) ([]*models.Connection, error)
	FindBetween(ctx context.Context, userA, userB int) (*models.Connection, error)
	FindActiveBetween(ctx context.Context, userA, userB int) (*models.Connection, error)
}

type ProfileStore interface {
	Get(ctx context.Context, id int) (*models.User, error)
	FindByContact(ctx context.Context, email, phone string) (*models.User, error)
}

type UserStore interface {
	ProfileStore
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, q string, limit int) ([]*models.User, error)
}

type HealthMetricStore interface {
	Create(ctx context.Context, m *models.HealthMetric) error
	List(ctx context.Context, userID int, filter models.HealthMetricFilter) ([]*models.HealthMetric, error)
	Latest(ctx context.Context, userID int) ([]*models.HealthMetric, error)
	DailyActivity(ctx context.Context, userID int, days int) ([]*models.DailyActivity, error)
}

type MedicationStore interface {
	Create(ctx context.Context, m *models.Medication) error
	Get(ctx context.Context, id int) (*models.Medication, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Medication, error)
	Update(ctx context.Context, m *models.Medication) error
	Delete(ctx context.Context, id int) error
}

type AppointmentStore interface {
	Create(ctx context.Context, a *models.Appointment) error
	Get(ctx context.Context, id int) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Appointment, error)
	ListUpcoming(ctx context.Context, userID int) ([]*models.Appointment, error)
	Update(ctx context.Context, a *models.Appointment) error
	Delete(ctx context.Context, id int) error
}

type AlertStore interface {
	Create(ctx context.Context, a *models.EmergencyAlert) error
	Get(ctx context.Context, id int) (*models.EmergencyAlert, error)
	ListBySenior(ctx context.Context, seniorID int, limit int) ([]*models.EmergencyAlert, error)
	Acknowledge(ctx context.Context, id, userID int) error
	Resolve(ctx context.Context, id int) error
}

type AlertDeliveryStore interface {
	Create(ctx context.Context, d *models.AlertDelivery) error
	ListByAlert(ctx context.Context, alertID int) ([]*models.AlertDelivery, error)
}
