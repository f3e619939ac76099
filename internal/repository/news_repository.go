package repository

import (
	"context"

	"github.com/marketcalls/FinSights/internal/entity"

	"gorm.io/gorm"
)

// NewsRepository defines the interface for interacting with news data.
type NewsRepository interface {
	Create(ctx context.Context, news *entity.News) error
	CreateAll(ctx context.Context, items []*entity.News) error
	CreateWithCitations(ctx context.Context, news *entity.News, citations []entity.Citation) error
	FindByID(ctx context.Context, id uint) (*entity.News, error)
	FindByTitle(ctx context.Context, title string) (*entity.News, error)
	FindRecent(ctx context.Context, limit int) ([]entity.News, error)
}

// NewNewsRepository creates a new GORM-based news repository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

type newsRepository struct {
	db *gorm.DB
}

// Create saves a single news record.
func (r *newsRepository) Create(ctx context.Context, news *entity.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

// CreateAll saves a batch of news records in one transaction.
func (r *newsRepository) CreateAll(ctx context.Context, items []*entity.News) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, news := range items {
			if err := tx.Create(news).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateWithCitations saves a news record and its citations in one
// transaction.
func (r *newsRepository) CreateWithCitations(ctx context.Context, news *entity.News, citations []entity.Citation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(news).Error; err != nil {
			return err
		}
		if len(citations) == 0 {
			return nil
		}
		for i := range citations {
			citations[i].NewsID = news.ID
		}
		return tx.Create(&citations).Error
	})
}

// FindByID retrieves a news record by ID, or nil when absent.
func (r *newsRepository) FindByID(ctx context.Context, id uint) (*entity.News, error) {
	var news entity.News
	result := r.db.WithContext(ctx).First(&news, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &news, nil
}

// FindByTitle retrieves a news record with the exact title, or nil when no
// such record exists. This is the dedup lookup.
func (r *newsRepository) FindByTitle(ctx context.Context, title string) (*entity.News, error) {
	var news entity.News
	result := r.db.WithContext(ctx).Where("title = ?", title).First(&news)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &news, nil
}

// FindRecent retrieves the most recently fetched published news.
func (r *newsRepository) FindRecent(ctx context.Context, limit int) ([]entity.News, error) {
	var items []entity.News
	err := r.db.WithContext(ctx).
		Where("is_published = ?", true).
		Order("fetched_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
