package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/entity"
	"github.com/marketcalls/FinSights/internal/repository"
	"github.com/marketcalls/FinSights/pkg/logger"
	"github.com/marketcalls/FinSights/pkg/utils"
)

// searchMaxResults caps the search-style call behind sector/stock fetches.
const searchMaxResults = 5

// dateLayouts are tried in order when parsing a raw result's date string.
var dateLayouts = []string{"2006-01-02", "02-01-2006", "2006/01/02"}

// NewsFetcherService orchestrates ingestion: it dispatches jobs to the
// summary or search fetch path, deduplicates candidates against the store,
// persists the results, and notifies the recent-news cache.
type NewsFetcherService interface {
	FetchMarketSummary(ctx context.Context, jobName, query, category, subcategory, triggeredBy string) (*entity.News, error)
	FetchSectorNews(ctx context.Context, jobName, query, category, subcategory, triggeredBy string) ([]*entity.News, error)
	FetchStockNews(ctx context.Context, symbol, triggeredBy string) ([]*entity.News, error)
	FetchByJob(ctx context.Context, job *entity.ScheduleJob, triggeredBy string) (int, error)
	FetchAllJobs(ctx context.Context, triggeredBy string) (*dto.FetchAllResult, error)
}

// NewNewsFetcherService creates a new ingestion orchestrator. The enricher
// is optional; when nil, articles keep their parsed summaries only.
func NewNewsFetcherService(perplexity PerplexityService, newsRepo repository.NewsRepository, jobRepo repository.ScheduleJobRepository, cache NewsCacheService, enricher *ContentEnricher, log *logger.Logger) NewsFetcherService {
	return &newsFetcherService{
		perplexity: perplexity,
		newsRepo:   newsRepo,
		jobRepo:    jobRepo,
		cache:      cache,
		enricher:   enricher,
		logger:     log,
	}
}

type newsFetcherService struct {
	perplexity PerplexityService
	newsRepo   repository.NewsRepository
	jobRepo    repository.ScheduleJobRepository
	cache      NewsCacheService
	enricher   *ContentEnricher
	logger     *logger.Logger

	// jobLocks serializes fetches per job name so concurrent triggers of
	// the same job cannot race the title dedup check.
	jobLocks sync.Map
}

// FetchMarketSummary issues a summary call with an hour-scale recency
// filter and persists at most one summary-type article per successful
// call. Provider failures degrade to a nil article; only persistence
// failures surface as errors.
func (s *newsFetcherService) FetchMarketSummary(ctx context.Context, jobName, query, category, subcategory, triggeredBy string) (*entity.News, error) {
	result, err := s.perplexity.FetchSummary(ctx, query, jobName, triggeredBy, "hour")
	if err != nil {
		if errors.Is(err, ErrAPIKeyNotConfigured) {
			s.logger.Warn("Skipping market summary fetch, API key not configured", logger.StringField("job_name", jobName))
		} else {
			s.logger.Error("Market summary fetch failed", logger.ErrorField(err), logger.StringField("job_name", jobName))
		}
		return nil, nil
	}
	if result.Content == "" {
		return nil, nil
	}

	now := utils.TimeNowIST()
	news := &entity.News{
		Title:       marketSummaryTitle(subcategory, now),
		Summary:     truncateRunes(result.Content, maxSummaryLen),
		Content:     result.Content,
		Category:    category,
		Subcategory: subcategory,
		NewsType:    entity.NewsTypeSummary,
		FetchedAt:   now,
		IsPublished: true,
	}

	citations := make([]entity.Citation, 0, len(result.Citations))
	for _, c := range result.Citations {
		citations = append(citations, entity.Citation{
			CitationIndex: c.Index,
			URL:           c.URL,
			Title:         c.Title,
		})
	}

	if err := s.newsRepo.CreateWithCitations(ctx, news, citations); err != nil {
		return nil, fmt.Errorf("failed to persist market summary: %w", err)
	}

	s.cache.AddNews(news)
	s.updateLastRun(ctx, jobName, now)

	return news, nil
}

// FetchSectorNews issues one search call for the composed query, parses
// every snippet into article candidates and persists the ones whose titles
// are not already in the store.
func (s *newsFetcherService) FetchSectorNews(ctx context.Context, jobName, query, category, subcategory, triggeredBy string) ([]*entity.News, error) {
	items, err := s.fetchSearchArticles(ctx, jobName, query, category, subcategory, "", triggeredBy)
	if err != nil {
		return nil, err
	}

	for _, news := range items {
		s.cache.AddNews(news)
	}
	s.updateLastRun(ctx, jobName, utils.TimeNowIST())

	return items, nil
}

// FetchStockNews fetches news for one stock symbol. The per-symbol cache
// list is replaced wholesale rather than appended to.
func (s *newsFetcherService) FetchStockNews(ctx context.Context, symbol, triggeredBy string) ([]*entity.News, error) {
	query := fmt.Sprintf("%s stock news India NSE BSE latest", symbol)
	jobName := fmt.Sprintf("stock_%s", symbol)

	items, err := s.fetchSearchArticles(ctx, jobName, query, entity.CategoryStock, strings.ToLower(symbol), strings.ToUpper(symbol), triggeredBy)
	if err != nil {
		return nil, err
	}

	s.cache.SetStockNews(symbol, items)

	return items, nil
}

// fetchSearchArticles is the shared search-path worker for sector and
// stock fetches.
func (s *newsFetcherService) fetchSearchArticles(ctx context.Context, jobName, query, category, subcategory, symbols, triggeredBy string) ([]*entity.News, error) {
	results, err := s.perplexity.FetchNewsArticles(ctx, []string{query}, jobName, triggeredBy, searchMaxResults)
	if err != nil {
		s.logger.Error("News search failed", logger.ErrorField(err), logger.StringField("job_name", jobName))
		return nil, nil
	}

	now := utils.TimeNowIST()
	var items []*entity.News
	seen := make(map[string]struct{})

	for _, result := range results {
		sourceDomain := extractDomain(result.URL)
		publishedAt := parsePublishedDate(result.Date)

		for _, candidate := range ParseSnippetToArticles(result.Snippet, result.URL, result.Title) {
			if _, dup := seen[candidate.Title]; dup {
				continue
			}
			existing, err := s.newsRepo.FindByTitle(ctx, candidate.Title)
			if err != nil {
				return nil, fmt.Errorf("failed to check for duplicate title: %w", err)
			}
			if existing != nil {
				continue
			}
			seen[candidate.Title] = struct{}{}

			news := &entity.News{
				Title:        candidate.Title,
				Summary:      candidate.Summary,
				SourceURL:    candidate.SourceURL,
				SourceName:   candidate.SourceName,
				SourceDomain: sourceDomain,
				PublishedAt:  publishedAt,
				FetchedAt:    now,
				Category:     category,
				Subcategory:  subcategory,
				Symbols:      symbols,
				NewsType:     entity.NewsTypeArticle,
				IsPublished:  true,
			}

			if s.enricher != nil && news.SourceURL != "" {
				content, err := s.enricher.Fetch(ctx, news.SourceURL)
				if err != nil {
					s.logger.Warn("Content enrichment failed", logger.ErrorField(err), logger.StringField("url", news.SourceURL))
				} else {
					news.Content = content
				}
			}

			items = append(items, news)
		}
	}

	if err := s.newsRepo.CreateAll(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to persist articles: %w", err)
	}

	return items, nil
}

// FetchByJob maps a job's configuration onto a fetch strategy: the market
// category routes to the summary path, everything else to the article
// path. Returns the number of newly inserted articles.
func (s *newsFetcherService) FetchByJob(ctx context.Context, job *entity.ScheduleJob, triggeredBy string) (int, error) {
	unlock := s.lockJob(job.JobName)
	defer unlock()

	if job.Category == entity.CategoryMarket {
		news, err := s.FetchMarketSummary(ctx, job.JobName, job.QueryTemplate, job.Category, job.Subcategory, triggeredBy)
		if err != nil {
			return 0, err
		}
		if news == nil {
			return 0, nil
		}
		return 1, nil
	}

	items, err := s.FetchSectorNews(ctx, job.JobName, job.QueryTemplate, job.Category, job.Subcategory, triggeredBy)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// FetchAllJobs runs every enabled job, isolating failures so one job
// cannot abort the remainder.
func (s *newsFetcherService) FetchAllJobs(ctx context.Context, triggeredBy string) (*dto.FetchAllResult, error) {
	jobs, err := s.jobRepo.FindEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load enabled jobs: %w", err)
	}

	result := &dto.FetchAllResult{}
	for i := range jobs {
		count, err := s.FetchByJob(ctx, &jobs[i], triggeredBy)
		if err != nil {
			result.Failed++
			s.logger.Error("Job fetch failed", logger.ErrorField(err), logger.StringField("job_name", jobs[i].JobName))
			continue
		}
		result.Succeeded++
		result.TotalNews += count
	}

	return result, nil
}

func (s *newsFetcherService) lockJob(jobName string) func() {
	muIface, _ := s.jobLocks.LoadOrStore(jobName, &sync.Mutex{})
	mu := muIface.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *newsFetcherService) updateLastRun(ctx context.Context, jobName string, at time.Time) {
	if jobName == "" {
		return
	}
	if err := s.jobRepo.UpdateLastRun(ctx, jobName, at); err != nil {
		s.logger.Error("Failed to update job last_run", logger.ErrorField(err), logger.StringField("job_name", jobName))
	}
}

// marketSummaryTitle selects a dated title for a market summary from the
// subcategory template map, with a generic fallback.
func marketSummaryTitle(subcategory string, at time.Time) string {
	dateStr := at.Format("02 Jan 2006")
	switch subcategory {
	case "pre_market":
		return fmt.Sprintf("Pre-Market Analysis - %s", dateStr)
	case "morning":
		return fmt.Sprintf("Morning Market Update - %s", dateStr)
	case "midday":
		return fmt.Sprintf("Mid-Day Market Summary - %s", dateStr)
	case "post_market":
		return fmt.Sprintf("Post-Market Summary - %s", dateStr)
	case "evening":
		return fmt.Sprintf("Evening Market Wrap - %s", dateStr)
	default:
		return fmt.Sprintf("Market Update - %s", dateStr)
	}
}

// extractDomain derives the source domain from a URL, stripping a leading
// "www.".
func extractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

// parsePublishedDate tries the known date layouts in order, returning nil
// when none match.
func parsePublishedDate(dateStr string) *time.Time {
	if dateStr == "" {
		return nil
	}
	loc := utils.GetISTLocation()
	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, dateStr, loc); err == nil {
			return &parsed
		}
	}
	return nil
}
