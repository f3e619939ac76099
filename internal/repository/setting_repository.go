package repository

import (
	"context"

	"github.com/marketcalls/FinSights/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository defines the interface for application settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*entity.Setting, error)
	Upsert(ctx context.Context, setting *entity.Setting) error
}

// NewSettingRepository creates a new GORM-based setting repository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

type settingRepository struct {
	db *gorm.DB
}

// Get retrieves a setting by key, or nil when absent.
func (r *settingRepository) Get(ctx context.Context, key string) (*entity.Setting, error) {
	var setting entity.Setting
	result := r.db.WithContext(ctx).Where("key = ?", key).First(&setting)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &setting, nil
}

// Upsert inserts the setting or updates the existing row for its key.
func (r *settingRepository) Upsert(ctx context.Context, setting *entity.Setting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "encrypted", "updated_at", "updated_by"}),
	}).Create(setting).Error
}
