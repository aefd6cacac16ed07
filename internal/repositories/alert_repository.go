package repositories

import (
	"context"
	"errors"
	"time"

	"caretrek-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AlertRepository struct {
	DB *pgxpool.Pool
}

func NewAlertRepository(db *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{DB: db}
}

// Create inserts a new emergency alert
func (r *AlertRepository) Create(ctx context.Context, a *models.EmergencyAlert) error {
	query := `
		INSERT INTO emergency_alerts (senior_id, type, message, latitude, longitude, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRow(ctx, query,
		a.SeniorID,
		a.Type,
		a.Message,
		a.Latitude,
		a.Longitude,
		a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Get retrieves an alert by id, or nil when it does not exist
func (r *AlertRepository) Get(ctx context.Context, id int) (*models.EmergencyAlert, error) {
	query := `
		SELECT a.id, a.senior_id, a.type, a.message, a.latitude, a.longitude,
		       a.status, a.acknowledged_by, a.resolved_at, a.created_at, a.updated_at,
		       s.full_name
		FROM emergency_alerts a
		JOIN profiles s ON s.id = a.senior_id
		WHERE a.id = $1
	`

	var a models.EmergencyAlert
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.SeniorID, &a.Type, &a.Message, &a.Latitude, &a.Longitude,
		&a.Status, &a.AcknowledgedBy, &a.ResolvedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.SeniorName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListBySenior returns a senior's alerts newest first
func (r *AlertRepository) ListBySenior(ctx context.Context, seniorID int, limit int) ([]*models.EmergencyAlert, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT a.id, a.senior_id, a.type, a.message, a.latitude, a.longitude,
		       a.status, a.acknowledged_by, a.resolved_at, a.created_at, a.updated_at,
		       s.full_name
		FROM emergency_alerts a
		JOIN profiles s ON s.id = a.senior_id
		WHERE a.senior_id = $1
		ORDER BY a.created_at DESC
		LIMIT $2
	`

	rows, err := r.DB.Query(ctx, query, seniorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []*models.EmergencyAlert
	for rows.Next() {
		var a models.EmergencyAlert
		if err := rows.Scan(
			&a.ID, &a.SeniorID, &a.Type, &a.Message, &a.Latitude, &a.Longitude,
			&a.Status, &a.AcknowledgedBy, &a.ResolvedAt, &a.CreatedAt, &a.UpdatedAt,
			&a.SeniorName,
		); err != nil {
			return nil, err
		}
		alerts = append(alerts, &a)
	}

	return alerts, rows.Err()
}

// Acknowledge marks an active alert acknowledged by a family member
func (r *AlertRepository) Acknowledge(ctx context.Context, id, userID int) error {
	query := `
		UPDATE emergency_alerts
		SET status = $2, acknowledged_by = $3
		WHERE id = $1
	`

	_, err := r.DB.Exec(ctx, query, id, models.AlertStatusAcknowledged, userID)
	return err
}

// Resolve closes an alert
func (r *AlertRepository) Resolve(ctx context.Context, id int) error {
	query := `
		UPDATE emergency_alerts
		SET status = $2, resolved_at = $3
		WHERE id = $1
	`

	_, err := r.DB.Exec(ctx, query, id, models.AlertStatusResolved, time.Now())
	return err
}
