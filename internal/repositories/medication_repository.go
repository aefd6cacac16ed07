package repositories

import (
	"context"
	"errors"

	"caretrek-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MedicationRepository struct {
	DB *pgxpool.Pool
}

func NewMedicationRepository(db *pgxpool.Pool) *MedicationRepository {
	return &MedicationRepository{DB: db}
}

// Create inserts a new medication
func (r *MedicationRepository) Create(ctx context.Context, m *models.Medication) error {
	query := `
		INSERT INTO medications (user_id, name, dosage, schedule, start_date, end_date, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRow(ctx, query,
		m.UserID,
		m.Name,
		m.Dosage,
		m.Schedule,
		m.StartDate,
		m.EndDate,
		m.Instructions,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// Get retrieves a medication by id, or nil when it does not exist
func (r *MedicationRepository) Get(ctx context.Context, id int) (*models.Medication, error) {
	query := `
		SELECT id, user_id, name, dosage, schedule, start_date, end_date, instructions, created_at, updated_at
		FROM medications
		WHERE id = $1
	`

	var m models.Medication
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Schedule,
		&m.StartDate, &m.EndDate, &m.Instructions, &m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByUser returns a user's medications newest first
func (r *MedicationRepository) ListByUser(ctx context.Context, userID int) ([]*models.Medication, error) {
	query := `
		SELECT id, user_id, name, dosage, schedule, start_date, end_date, instructions, created_at, updated_at
		FROM medications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meds []*models.Medication
	for rows.Next() {
		var m models.Medication
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Schedule,
			&m.StartDate, &m.EndDate, &m.Instructions, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		meds = append(meds, &m)
	}

	return meds, rows.Err()
}

// Update persists the full medication record
func (r *MedicationRepository) Update(ctx context.Context, m *models.Medication) error {
	query := `
		UPDATE medications
		SET name = $2, dosage = $3, schedule = $4, end_date = $5, instructions = $6
		WHERE id = $1
		RETURNING updated_at
	`

	return r.DB.QueryRow(ctx, query,
		m.ID, m.Name, m.Dosage, m.Schedule, m.EndDate, m.Instructions,
	).Scan(&m.UpdatedAt)
}

// Delete removes a medication
func (r *MedicationRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM medications WHERE id = $1`, id)
	return err
}
