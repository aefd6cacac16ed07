package repositories

import (
	"context"

	"caretrek-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthMetricRepository struct {
	DB *pgxpool.Pool
}

func NewHealthMetricRepository(db *pgxpool.Pool) *HealthMetricRepository {
	return &HealthMetricRepository{DB: db}
}

// Create inserts a new reading
func (r *HealthMetricRepository) Create(ctx context.Context, m *models.HealthMetric) error {
	query := `
		INSERT INTO health_metrics (user_id, metric_type, value, unit, notes, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return r.DB.QueryRow(ctx, query,
		m.UserID,
		m.MetricType,
		m.Value,
		m.Unit,
		m.Notes,
		m.RecordedAt,
	).Scan(&m.ID, &m.CreatedAt)
}

// List returns a user's readings newest first, narrowed by the filter
func (r *HealthMetricRepository) List(ctx context.Context, userID int, filter models.HealthMetricFilter) ([]*models.HealthMetric, error) {
	query := `
		SELECT id, user_id, metric_type, value, unit, notes, recorded_at, created_at
		FROM health_metrics
		WHERE user_id = $1
		  AND ($2 = '' OR metric_type = $2)
		  AND ($3::timestamptz IS NULL OR recorded_at >= $3)
		  AND ($4::timestamptz IS NULL OR recorded_at <= $4)
		ORDER BY recorded_at DESC
		LIMIT $5
	`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.DB.Query(ctx, query, userID, filter.MetricType, filter.From, filter.To, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []*models.HealthMetric
	for rows.Next() {
		var m models.HealthMetric
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.MetricType, &m.Value, &m.Unit,
			&m.Notes, &m.RecordedAt, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		metrics = append(metrics, &m)
	}

	return metrics, rows.Err()
}

// Latest returns the most recent reading of each metric type for a user
func (r *HealthMetricRepository) Latest(ctx context.Context, userID int) ([]*models.HealthMetric, error) {
	query := `
		SELECT DISTINCT ON (metric_type)
		       id, user_id, metric_type, value, unit, notes, recorded_at, created_at
		FROM health_metrics
		WHERE user_id = $1
		ORDER BY metric_type, recorded_at DESC
	`

	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []*models.HealthMetric
	for rows.Next() {
		var m models.HealthMetric
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.MetricType, &m.Value, &m.Unit,
			&m.Notes, &m.RecordedAt, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		metrics = append(metrics, &m)
	}

	return metrics, rows.Err()
}

// DailyActivity aggregates step totals and average heart rate per day
// over the last `days` days.
func (r *HealthMetricRepository) DailyActivity(ctx context.Context, userID int, days int) ([]*models.DailyActivity, error) {
	query := `
		SELECT to_char(recorded_at::date, 'YYYY-MM-DD') AS day,
		       COALESCE(SUM(CASE WHEN metric_type = 'steps' THEN NULLIF(value, '')::int END), 0),
		       COALESCE(AVG(CASE WHEN metric_type = 'heart_rate' THEN NULLIF(value, '')::numeric END), 0),
		       COUNT(*)
		FROM health_metrics
		WHERE user_id = $1 AND recorded_at >= NOW() - ($2 || ' days')::interval
		GROUP BY recorded_at::date
		ORDER BY recorded_at::date
	`

	rows, err := r.DB.Query(ctx, query, userID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.DailyActivity
	for rows.Next() {
		var d models.DailyActivity
		if err := rows.Scan(&d.Date, &d.Steps, &d.AvgHeartRate, &d.Readings); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}

	return out, rows.Err()
}
