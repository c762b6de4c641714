package repository

import (
	"context"
	"time"

	"github.com/bravo68web/folio/internal/domain/models"
)

// LocRowRepository defines data access for the imported commit log
type LocRowRepository interface {
	// Upsert inserts rows in batches, replacing rows with the same commit,
	// file and line. It returns the number of rows written.
	Upsert(ctx context.Context, rows []models.LocRow, batchSize int) (int64, error)

	// Truncate removes every row
	Truncate(ctx context.Context) error

	// List returns all rows in log order
	List(ctx context.Context) ([]models.LocRow, error)

	// Count returns the number of stored rows
	Count(ctx context.Context) (int64, error)

	// LastImport returns the newest row creation time, zero when empty
	LastImport(ctx context.Context) (time.Time, error)
}
