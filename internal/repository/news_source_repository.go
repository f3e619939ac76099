package repository

import (
	"context"

	"github.com/marketcalls/FinSights/internal/entity"

	"gorm.io/gorm"
)

// NewsSourceRepository defines the interface for trusted news sources.
type NewsSourceRepository interface {
	FindActive(ctx context.Context) ([]entity.NewsSource, error)
}

// NewNewsSourceRepository creates a new GORM-based news source repository.
func NewNewsSourceRepository(db *gorm.DB) NewsSourceRepository {
	return &newsSourceRepository{db: db}
}

type newsSourceRepository struct {
	db *gorm.DB
}

// FindActive retrieves the active sources ordered by priority.
func (r *newsSourceRepository) FindActive(ctx context.Context) ([]entity.NewsSource, error) {
	var sources []entity.NewsSource
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority desc").
		Find(&sources).Error
	if err != nil {
		return nil, err
	}
	return sources, nil
}
