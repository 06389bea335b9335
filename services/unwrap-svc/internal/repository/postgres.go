package repository

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"

	"phaseflow/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies this package's schema migrations.
func Migrate(ctx context.Context, db *database.PostgresDB) error {
	return database.NewMigrator(db.Pool(), migrations, "migrations").Up(ctx)
}

// Postgres is the PostgreSQL-backed Repository.
type Postgres struct {
	db database.DB
}

// NewPostgres creates a repository over db.
func NewPostgres(db database.DB) *Postgres {
	return &Postgres{db: db}
}

const insertSQL = `
INSERT INTO unwrap_runs (
	id, created_at, rows, cols, algorithm, cost_model,
	num_residues, total_cost, augmentations, iterations, duration_ms, status
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

// Insert stores a record, filling in a fresh id and timestamp when absent.
func (r *Postgres) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, insertSQL,
		rec.ID, rec.CreatedAt, rec.Rows, rec.Cols, rec.Algorithm, rec.CostModel,
		rec.NumResidues, rec.TotalCost, rec.Augmentations, rec.Iterations,
		rec.DurationMs, rec.Status,
	)
	if err != nil {
		return fmt.Errorf("insert unwrap run: %w", err)
	}
	return nil
}

const listSQL = `
SELECT id, created_at, rows, cols, algorithm, cost_model,
	num_residues, total_cost, augmentations, iterations, duration_ms, status
FROM unwrap_runs
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

// List returns the most recent records, newest first.
func (r *Postgres) List(ctx context.Context, limit, offset int) ([]*Record, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx, listSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list unwrap runs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.Rows, &rec.Cols, &rec.Algorithm, &rec.CostModel,
			&rec.NumResidues, &rec.TotalCost, &rec.Augmentations, &rec.Iterations,
			&rec.DurationMs, &rec.Status,
		); err != nil {
			return nil, fmt.Errorf("scan unwrap run: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const countSQL = `SELECT COUNT(*) FROM unwrap_runs`

// Count returns the total number of records.
func (r *Postgres) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unwrap runs: %w", err)
	}
	return count, nil
}
