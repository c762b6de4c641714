package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/domain/repository"
	apperror "github.com/bravo68web/folio/pkg/errors"
)

// DefaultBatchSize is used when Upsert is given a non-positive batch size
const DefaultBatchSize = 500

// LocRowRepoImpl implements the LocRowRepository interface using GORM
type LocRowRepoImpl struct {
	db *gorm.DB
}

// NewLocRowRepository creates a new LocRowRepoImpl instance
func NewLocRowRepository(db *gorm.DB) repository.LocRowRepository {
	return &LocRowRepoImpl{db: db}
}

// Upsert inserts rows, updating the existing record of a commit/file/line
func (r *LocRowRepoImpl) Upsert(ctx context.Context, rows []models.LocRow, batchSize int) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "commit"}, {Name: "file"}, {Name: "line"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"seq", "author", "date", "time", "timezone", "datetime", "depth", "length", "type", "created_at",
			}),
		}).
		CreateInBatches(rows, batchSize)
	if result.Error != nil {
		return 0, apperror.DatabaseError("upsert loc rows", result.Error)
	}
	return result.RowsAffected, nil
}

// Truncate removes every row
func (r *LocRowRepoImpl) Truncate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("TRUNCATE TABLE loc_rows").Error; err != nil {
		return apperror.DatabaseError("truncate loc rows", err)
	}
	return nil
}

// List returns all rows in log order
func (r *LocRowRepoImpl) List(ctx context.Context) ([]models.LocRow, error) {
	var rows []models.LocRow
	if err := r.db.WithContext(ctx).Order("seq ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, apperror.DatabaseError("list loc rows", err)
	}
	return rows, nil
}

// Count returns the number of stored rows
func (r *LocRowRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.LocRow{}).Count(&count).Error; err != nil {
		return 0, apperror.DatabaseError("count loc rows", err)
	}
	return count, nil
}

// LastImport returns the newest row creation time
func (r *LocRowRepoImpl) LastImport(ctx context.Context) (time.Time, error) {
	var last *time.Time
	if err := r.db.WithContext(ctx).Model(&models.LocRow{}).Select("MAX(created_at)").Scan(&last).Error; err != nil {
		return time.Time{}, apperror.DatabaseError("find last import", err)
	}
	if last == nil {
		return time.Time{}, nil
	}
	return *last, nil
}

// Verify interface compliance at compile time
var _ repository.LocRowRepository = (*LocRowRepoImpl)(nil)
