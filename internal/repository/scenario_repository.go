package repository

import (
	"context"

	"github.com/marketcalls/FinSights/internal/entity"

	"gorm.io/gorm"
)

// ScenarioRepository defines the interface for interacting with scenario data.
type ScenarioRepository interface {
	CreateAll(ctx context.Context, scenarios []entity.Scenario) error
	FindByNewsID(ctx context.Context, newsID uint) ([]entity.Scenario, error)
	CountByNewsID(ctx context.Context, newsID uint) (int64, error)
}

// NewScenarioRepository creates a new GORM-based scenario repository.
func NewScenarioRepository(db *gorm.DB) ScenarioRepository {
	return &scenarioRepository{db: db}
}

type scenarioRepository struct {
	db *gorm.DB
}

// CreateAll saves a batch of scenarios in one transaction.
func (r *scenarioRepository) CreateAll(ctx context.Context, scenarios []entity.Scenario) error {
	if len(scenarios) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range scenarios {
			if err := tx.Create(&scenarios[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByNewsID retrieves all scenarios for a news record.
func (r *scenarioRepository) FindByNewsID(ctx context.Context, newsID uint) ([]entity.Scenario, error) {
	var scenarios []entity.Scenario
	if err := r.db.WithContext(ctx).Where("news_id = ?", newsID).Order("id").Find(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}

// CountByNewsID counts persisted scenarios for a news record.
func (r *scenarioRepository) CountByNewsID(ctx context.Context, newsID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Scenario{}).Where("news_id = ?", newsID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
