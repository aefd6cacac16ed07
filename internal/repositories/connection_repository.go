package repositories

import (
	"context"
	"errors"

	"caretrek-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConnectionRepository struct {
	DB *pgxpool.Pool
}

func NewConnectionRepository(db *pgxpool.Pool) *ConnectionRepository {
	return &ConnectionRepository{DB: db}
}

// connectionColumns joins both profiles so every read carries the
// denormalized display fields. These are read-only projections.
const connectionColumns = `
	c.id, c.senior_id, c.family_member_id, c.relationship, c.relationship_note,
	c.status, c.permissions, c.created_at, c.updated_at,
	s.full_name, s.email, COALESCE(s.avatar_url, ''),
	f.full_name, f.email, COALESCE(f.avatar_url, '')
`

const connectionJoins = `
	FROM family_connections c
	JOIN profiles s ON s.id = c.senior_id
	JOIN profiles f ON f.id = c.family_member_id
`

// Create inserts a new connection row
func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	query := `
		INSERT INTO family_connections (senior_id, family_member_id, relationship, relationship_note, status, permissions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	return r.DB.QueryRow(ctx, query,
		conn.SeniorID,
		conn.FamilyMemberID,
		conn.Relationship,
		conn.RelationshipNote,
		conn.Status,
		conn.Permissions,
	).Scan(&conn.ID, &conn.CreatedAt, &conn.UpdatedAt)
}

// Get retrieves a connection by id, or nil when it does not exist
func (r *ConnectionRepository) Get(ctx context.Context, id int) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + connectionJoins + ` WHERE c.id = $1`
	return r.scanOne(r.DB.QueryRow(ctx, query, id))
}

// UpdateStatus transitions a connection and writes the permission record
// in the same statement, so an accepted row can never exist without its
// permissions materialized.
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, id int, status string, perms models.Permissions) (*models.Connection, error) {
	query := `
		UPDATE family_connections
		SET status = $2, permissions = $3
		WHERE id = $1
		RETURNING id
	`

	var updatedID int
	err := r.DB.QueryRow(ctx, query, id, status, perms).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, updatedID)
}

// UpdatePermissions persists the full permission record
func (r *ConnectionRepository) UpdatePermissions(ctx context.Context, id int, perms models.Permissions) (*models.Connection, error) {
	query := `
		UPDATE family_connections
		SET permissions = $2
		WHERE id = $1
		RETURNING id
	`

	var updatedID int
	err := r.DB.QueryRow(ctx, query, id, perms).Scan(&updatedID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, updatedID)
}

// Delete removes a connection. Returns false when no row existed.
func (r *ConnectionRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.DB.Exec(ctx, `DELETE FROM family_connections WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// ListByUser returns all connections where the user is either party,
// newest first, optionally filtered by status.
func (r *ConnectionRepository) ListByUser(ctx context.Context, userID int, status string) ([]*models.Connection, error) {
	query := `SELECT ` + connectionColumns + connectionJoins + `
		WHERE (c.senior_id = $1 OR c.family_member_id = $1)
		  AND ($2 = '' OR c.status = $2)
		ORDER BY c.created_at DESC
	`

	return r.list(ctx, query, userID, status)
}

// ListAcceptedByFamilyMember returns the seniors a family member is
// connected to.
func (r *ConnectionRepository) ListAcceptedByFamilyMember(ctx context.Context, familyMemberID int) ([]*models.Connection, error) {
	query := `SELECT ` + connectionColumns + connectionJoins + `
		WHERE c.family_member_id = $1 AND c.status = $2
		ORDER BY s.full_name
	`

	return r.list(ctx, query, familyMemberID, models.ConnectionStatusAccepted)
}

// ListAcceptedBySenior returns the family members connected to a senior.
func (r *ConnectionRepository) ListAcceptedBySenior(ctx context.Context, seniorID int) ([]*models.Connection, error) {
	query := `SELECT ` + connectionColumns + connectionJoins + `
		WHERE c.senior_id = $1 AND c.status = $2
		ORDER BY f.full_name
	`

	return r.list(ctx, query, seniorID, models.ConnectionStatusAccepted)
}

// FindBetween returns the newest connection between two users in either
// direction, any status, or nil when none exists. Uniqueness of active
// rows is enforced at insert; historical terminal rows can accumulate.
func (r *ConnectionRepository) FindBetween(ctx context.Context, userA, userB int) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + connectionJoins + `
		WHERE (c.senior_id = $1 AND c.family_member_id = $2)
		   OR (c.senior_id = $2 AND c.family_member_id = $1)
		ORDER BY c.created_at DESC
		LIMIT 1
	`

	return r.scanOne(r.DB.QueryRow(ctx, query, userA, userB))
}

// FindActiveBetween returns the pending or accepted connection for the
// unordered pair, or nil.
func (r *ConnectionRepository) FindActiveBetween(ctx context.Context, userA, userB int) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + connectionJoins + `
		WHERE ((c.senior_id = $1 AND c.family_member_id = $2)
		    OR (c.senior_id = $2 AND c.family_member_id = $1))
		  AND c.status IN ($3, $4)
		LIMIT 1
	`

	return r.scanOne(r.DB.QueryRow(ctx, query, userA, userB,
		models.ConnectionStatusPending, models.ConnectionStatusAccepted))
}

func (r *ConnectionRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.Connection, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []*models.Connection
	for rows.Next() {
		conn, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}

	return conns, rows.Err()
}

func (r *ConnectionRepository) scanOne(row pgx.Row) (*models.Connection, error) {
	conn, err := r.scanRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *ConnectionRepository) scanRow(row pgx.Row) (*models.Connection, error) {
	var c models.Connection
	err := row.Scan(
		&c.ID, &c.SeniorID, &c.FamilyMemberID, &c.Relationship, &c.RelationshipNote,
		&c.Status, &c.Permissions, &c.CreatedAt, &c.UpdatedAt,
		&c.SeniorName, &c.SeniorEmail, &c.SeniorAvatar,
		&c.FamilyMemberName, &c.FamilyMemberEmail, &c.FamilyMemberAvatar,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
