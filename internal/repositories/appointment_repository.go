package repositories

import (
	"context"
	"errors"

	"caretrek-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AppointmentRepository struct {
	DB *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{DB: db}
}

// Create inserts a new appointment
func (r *AppointmentRepository) Create(ctx context.Context, a *models.Appointment) error {
	query := `
		INSERT INTO appointments (user_id, title, type, starts_at, location, notes, status, reminder)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRow(ctx, query,
		a.UserID,
		a.Title,
		a.Type,
		a.StartsAt,
		a.Location,
		a.Notes,
		a.Status,
		a.Reminder,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Get retrieves an appointment by id, or nil when it does not exist
func (r *AppointmentRepository) Get(ctx context.Context, id int) (*models.Appointment, error) {
	query := `
		SELECT id, user_id, title, type, starts_at, location, notes, status, reminder, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`

	var a models.Appointment
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Title, &a.Type, &a.StartsAt,
		&a.Location, &a.Notes, &a.Status, &a.Reminder, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByUser returns a user's appointments in calendar order
func (r *AppointmentRepository) ListByUser(ctx context.Context, userID int) ([]*models.Appointment, error) {
	query := `
		SELECT id, user_id, title, type, starts_at, location, notes, status, reminder, created_at, updated_at
		FROM appointments
		WHERE user_id = $1
		ORDER BY starts_at
	`

	return r.list(ctx, query, userID)
}

// ListUpcoming returns scheduled appointments from now on
func (r *AppointmentRepository) ListUpcoming(ctx context.Context, userID int) ([]*models.Appointment, error) {
	query := `
		SELECT id, user_id, title, type, starts_at, location, notes, status, reminder, created_at, updated_at
		FROM appointments
		WHERE user_id = $1 AND status = $2 AND starts_at >= NOW()
		ORDER BY starts_at
	`

	return r.list(ctx, query, userID, models.AppointmentStatusScheduled)
}

// Update persists the full appointment record
func (r *AppointmentRepository) Update(ctx context.Context, a *models.Appointment) error {
	query := `
		UPDATE appointments
		SET title = $2, type = $3, starts_at = $4, location = $5, notes = $6, status = $7, reminder = $8
		WHERE id = $1
		RETURNING updated_at
	`

	return r.DB.QueryRow(ctx, query,
		a.ID, a.Title, a.Type, a.StartsAt, a.Location, a.Notes, a.Status, a.Reminder,
	).Scan(&a.UpdatedAt)
}

// Delete removes an appointment
func (r *AppointmentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return err
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Appointment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Title, &a.Type, &a.StartsAt,
			&a.Location, &a.Notes, &a.Status, &a.Reminder, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		appts = append(appts, &a)
	}

	return appts, rows.Err()
}
