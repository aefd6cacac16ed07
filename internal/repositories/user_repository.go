package repositories

import (
	"context"
	"errors"

	"caretrek-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

// Create inserts a new profile
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO profiles (email, phone, full_name, role, avatar_url, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRow(ctx, query,
		user.Email,
		user.Phone,
		user.FullName,
		user.Role,
		user.AvatarURL,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// Get retrieves a profile by id, or nil when it does not exist
func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, email, COALESCE(phone, ''), full_name, role, COALESCE(avatar_url, ''),
		       password_hash, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	return r.scanOne(r.DB.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a profile by email, or nil when it does not exist
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, COALESCE(phone, ''), full_name, role, COALESCE(avatar_url, ''),
		       password_hash, created_at, updated_at
		FROM profiles
		WHERE LOWER(email) = LOWER($1)
	`

	return r.scanOne(r.DB.QueryRow(ctx, query, email))
}

// FindByContact looks up a profile by email or phone. Exactly one
// matching profile is expected; the first match wins when duplicates
// exist (phone is not unique).
func (r *UserRepository) FindByContact(ctx context.Context, email, phone string) (*models.User, error) {
	query := `
		SELECT id, email, COALESCE(phone, ''), full_name, role, COALESCE(avatar_url, ''),
		       password_hash, created_at, updated_at
		FROM profiles
		WHERE ($1 <> '' AND LOWER(email) = LOWER($1))
		   OR ($2 <> '' AND phone = $2)
		ORDER BY id
		LIMIT 1
	`

	return r.scanOne(r.DB.QueryRow(ctx, query, email, phone))
}

// Search finds profiles by name or email fragment
func (r *UserRepository) Search(ctx context.Context, q string, limit int) ([]*models.User, error) {
	query := `
		SELECT id, email, COALESCE(phone, ''), full_name, role, COALESCE(avatar_url, ''),
		       password_hash, created_at, updated_at
		FROM profiles
		WHERE full_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%'
		ORDER BY full_name
		LIMIT $2
	`

	rows, err := r.DB.Query(ctx, query, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Phone, &u.FullName, &u.Role, &u.AvatarURL,
			&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

func (r *UserRepository) scanOne(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Phone, &u.FullName, &u.Role, &u.AvatarURL,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
