// Package repository persists unwrap run history in PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is one completed (or failed) unwrap operation.
type Record struct {
	ID            uuid.UUID `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Rows          int       `json:"rows"`
	Cols          int       `json:"cols"`
	Algorithm     string    `json:"algorithm"`
	CostModel     string    `json:"cost_model"`
	NumResidues   int       `json:"num_residues"`
	TotalCost     int64     `json:"total_cost"`
	Augmentations int       `json:"augmentations"`
	Iterations    int       `json:"iterations"`
	DurationMs    int64     `json:"duration_ms"`
	Status        string    `json:"status"` // ok, error
}

// Repository is the run-history store contract.
type Repository interface {
	// Insert stores a record. A zero ID and CreatedAt are filled in.
	Insert(ctx context.Context, rec *Record) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit, offset int) ([]*Record, error)

	// Count returns the total number of records.
	Count(ctx context.Context) (int64, error)
}
