package repository

import (
	"context"

	"github.com/marketcalls/FinSights/internal/entity"

	"gorm.io/gorm"
)

// ApiLogRepository defines the interface for the append-only call ledger.
type ApiLogRepository interface {
	Create(ctx context.Context, log *entity.ApiLog) error
	FindRecent(ctx context.Context, limit int) ([]entity.ApiLog, error)
}

// NewApiLogRepository creates a new GORM-based API log repository.
func NewApiLogRepository(db *gorm.DB) ApiLogRepository {
	return &apiLogRepository{db: db}
}

type apiLogRepository struct {
	db *gorm.DB
}

// Create appends one ledger entry. Entries are never updated afterwards.
func (r *apiLogRepository) Create(ctx context.Context, log *entity.ApiLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// FindRecent retrieves the newest ledger entries.
func (r *apiLogRepository) FindRecent(ctx context.Context, limit int) ([]entity.ApiLog, error) {
	var logs []entity.ApiLog
	if err := r.db.WithContext(ctx).Order("timestamp desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
