package repositories

import (
	"context"

	"caretrek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AlertDeliveryRepository struct {
	DB *pgxpool.Pool
}

func NewAlertDeliveryRepository(db *pgxpool.Pool) *AlertDeliveryRepository {
	return &AlertDeliveryRepository{DB: db}
}

// Create logs one notification attempt
func (r *AlertDeliveryRepository) Create(ctx context.Context, d *models.AlertDelivery) error {
	query := `
		INSERT INTO alert_deliveries (alert_id, recipient_id, channel, status, error_message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	return r.DB.QueryRow(ctx, query,
		d.AlertID,
		d.RecipientID,
		d.Channel,
		d.Status,
		d.ErrorMessage,
	).Scan(&d.ID, &d.CreatedAt)
}

// ListByAlert returns all delivery attempts for an alert
func (r *AlertDeliveryRepository) ListByAlert(ctx context.Context, alertID int) ([]*models.AlertDelivery, error) {
	query := `
		SELECT id, alert_id, recipient_id, channel, status, error_message, created_at
		FROM alert_deliveries
		WHERE alert_id = $1
		ORDER BY created_at
	`

	rows, err := r.DB.Query(ctx, query, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []*models.AlertDelivery
	for rows.Next() {
		var d models.AlertDelivery
		if err := rows.Scan(
			&d.ID, &d.AlertID, &d.RecipientID, &d.Channel,
			&d.Status, &d.ErrorMessage, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, &d)
	}

	return deliveries, rows.Err()
}
