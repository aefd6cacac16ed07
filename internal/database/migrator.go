package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"caretrek-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrator runs schema migrations from either an embedded filesystem or
// a migrations directory on disk.
type Migrator struct {
	pool          *pgxpool.Pool
	migrationsFS  fs.FS
	migrationsDir string
}

// NewMigrator creates a migration runner reading from the migrations/
// directory on disk.
func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{
		pool:          pool,
		migrationsDir: "migrations",
	}
}

// NewMigratorWithFS creates a migration runner backed by an embedded
// filesystem, so the server binary runs standalone.
func NewMigratorWithFS(pool *pgxpool.Pool, migrationsFS fs.FS, migrationsDir string) *Migrator {
	return &Migrator{
		pool:          pool,
		migrationsFS:  migrationsFS,
		migrationsDir: migrationsDir,
	}
}

// RunMigrations applies all pending .sql migrations in filename order.
// Applied migrations are tracked in schema_migrations and skipped on
// subsequent runs; filenames containing "reset" are never auto-run.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	// Prefer embedded migrations; fall back to the filesystem
	var entries []fs.DirEntry
	var useEmbedded bool

	if m.migrationsFS != nil {
		entries, err = fs.ReadDir(m.migrationsFS, ".")
		if err == nil {
			useEmbedded = true
		}
	}

	if !useEmbedded {
		entries, err = os.ReadDir(m.migrationsDir)
		if err != nil {
			return fmt.Errorf("failed to read migrations directory: %w", err)
		}
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	migrationsRun := 0
	for _, filename := range files {
		if strings.Contains(filename, "reset") {
			logger.Warn("skipping reset migration", "file", filename)
			continue
		}

		if applied[filename] {
			continue
		}

		var content []byte
		if useEmbedded {
			content, err = fs.ReadFile(m.migrationsFS, filename)
		} else {
			content, err = os.ReadFile(m.migrationsDir + "/" + filename)
		}
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", filename, err)
		}

		logger.Info("running migration", "file", filename)
		statements := splitSQLStatements(string(content))
		for i, stmt := range statements {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || stmt == ";" {
				continue
			}
			if _, err := m.pool.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to run migration %s (statement %d): %w", filename, i+1, err)
			}
		}

		if err := m.recordMigration(ctx, filename); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", filename, err)
		}

		migrationsRun++
	}

	if migrationsRun > 0 {
		logger.Info("migrations applied", "count", migrationsRun)
	} else {
		logger.Info("database schema up to date")
	}

	return nil
}

func (m *Migrator) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			filename VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := m.pool.Exec(ctx, query)
	return err
}

func (m *Migrator) getAppliedMigrations(ctx context.Context) (map[string]bool, error) {
	applied := make(map[string]bool)

	rows, err := m.pool.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, err
		}
		applied[filename] = true
	}

	return applied, rows.Err()
}

// splitSQLStatements splits SQL content into individual statements.
// $$-quoted blocks (DO blocks, function bodies) are kept intact.
func splitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder
	dollarQuoteDepth := 0
	lines := strings.Split(content, "\n")

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		dollarQuoteDepth += strings.Count(line, "$$")

		current.WriteString(line)
		current.WriteString("\n")

		// Outside dollar quotes when the count of $$ seen so far is even
		outsideDollarQuotes := dollarQuoteDepth%2 == 0

		if outsideDollarQuotes && strings.HasSuffix(trimmed, ";") {
			if !strings.HasPrefix(trimmed, "--") {
				statements = append(statements, current.String())
				current.Reset()
			}
		}
	}

	if current.Len() > 0 {
		remaining := strings.TrimSpace(current.String())
		if remaining != "" && !strings.HasPrefix(remaining, "--") {
			statements = append(statements, remaining)
		}
	}

	return statements
}

func (m *Migrator) recordMigration(ctx context.Context, filename string) error {
	query := `
		INSERT INTO schema_migrations (filename)
		VALUES ($1)
		ON CONFLICT (filename) DO NOTHING
	`

	_, err := m.pool.Exec(ctx, query, filename)
	return err
}
