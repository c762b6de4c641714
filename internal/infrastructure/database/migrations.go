package database

import (
	"context"
	"fmt"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/pkg/logger"
)

// Models lists every table the site owns
func Models() []any {
	return []any{&models.LocRow{}}
}

// Migrate creates or updates the schema. The loc_rows table is append-only
// data regenerated from git history, so AutoMigrate's additive changes are
// all it ever needs.
func (d *Database) Migrate(ctx context.Context) error {
	d.log.Info("Running database migrations", logger.Int("tables", len(Models())))

	if err := d.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	if !d.db.Migrator().HasIndex(&models.LocRow{}, "idx_loc_rows_line") {
		return fmt.Errorf("failed to migrate schema: index idx_loc_rows_line missing")
	}

	d.log.Info("Database migrations complete")
	return nil
}
