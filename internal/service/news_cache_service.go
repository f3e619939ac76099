package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/entity"
	"github.com/marketcalls/FinSights/internal/repository"
	"github.com/marketcalls/FinSights/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const (
	latestNewsKey  = "news:latest"
	stockKeyPrefix = "news:stock:"
)

// NewsCacheService is the in-memory recent-news cache the ingestion
// pipeline pushes freshly persisted articles into.
type NewsCacheService interface {
	AddNews(news *entity.News)
	SetStockNews(symbol string, items []*entity.News)
	GetStockNews(symbol string) []*entity.News
	GetLatestNews() []*entity.News
	GetCacheStats() dto.CacheStats
	LoadFromDB(ctx context.Context) error
}

// NewNewsCacheService creates a news cache keeping at most maxItems recent
// articles.
func NewNewsCacheService(newsRepo repository.NewsRepository, log *logger.Logger, maxItems int) NewsCacheService {
	return &newsCacheService{
		newsRepo: newsRepo,
		logger:   log,
		maxItems: maxItems,
		store:    cache.New(cache.NoExpiration, 0),
	}
}

type newsCacheService struct {
	newsRepo repository.NewsRepository
	logger   *logger.Logger
	maxItems int
	store    *cache.Cache

	// mu guards read-modify-write sequences on the latest-news list.
	mu           sync.Mutex
	stockSymbols map[string]struct{}
}

// AddNews prepends the article to the recent list, evicting the oldest
// entry beyond the cap.
func (s *newsCacheService) AddNews(news *entity.News) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.latestLocked()
	items = append([]*entity.News{news}, items...)
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	s.store.Set(latestNewsKey, items, cache.NoExpiration)
}

// SetStockNews replaces the cached article list for the symbol wholesale.
func (s *newsCacheService) SetStockNews(symbol string, items []*entity.News) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stockSymbols == nil {
		s.stockSymbols = make(map[string]struct{})
	}
	s.stockSymbols[symbol] = struct{}{}
	s.store.Set(stockKeyPrefix+symbol, items, cache.NoExpiration)
}

// GetStockNews returns the cached list for the symbol, or nil.
func (s *newsCacheService) GetStockNews(symbol string) []*entity.News {
	if v, ok := s.store.Get(stockKeyPrefix + symbol); ok {
		return v.([]*entity.News)
	}
	return nil
}

// GetLatestNews returns the recent-news list, newest first.
func (s *newsCacheService) GetLatestNews() []*entity.News {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestLocked()
}

// GetCacheStats summarizes the cache contents.
func (s *newsCacheService) GetCacheStats() dto.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dto.CacheStats{
		TotalNews:    len(s.latestLocked()),
		StockSymbols: len(s.stockSymbols),
	}
}

// LoadFromDB seeds the recent list with the newest published articles.
func (s *newsCacheService) LoadFromDB(ctx context.Context) error {
	recent, err := s.newsRepo.FindRecent(ctx, s.maxItems)
	if err != nil {
		return fmt.Errorf("failed to load recent news: %w", err)
	}

	items := make([]*entity.News, 0, len(recent))
	for i := range recent {
		items = append(items, &recent[i])
	}

	s.mu.Lock()
	s.store.Set(latestNewsKey, items, cache.NoExpiration)
	s.mu.Unlock()

	s.logger.Info("News cache loaded", logger.IntField("count", len(items)))
	return nil
}

func (s *newsCacheService) latestLocked() []*entity.News {
	if v, ok := s.store.Get(latestNewsKey); ok {
		return v.([]*entity.News)
	}
	return nil
}
