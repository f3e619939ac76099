package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/marketcalls/FinSights/internal/config"
	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/entity"
	"github.com/marketcalls/FinSights/internal/repository"
	"github.com/marketcalls/FinSights/pkg/common"
	"github.com/marketcalls/FinSights/pkg/logger"
	"github.com/marketcalls/FinSights/pkg/utils"
)

// ErrAPIKeyNotConfigured is returned when no provider credential is stored.
// Callers treat it as a short-circuit: no call was attempted and no ledger
// entry was written.
var ErrAPIKeyNotConfigured = errors.New("perplexity API key not configured")

// PerplexityService is the gateway to the Perplexity API. It owns the
// stored credential, issues chat-style and search-style calls, and writes
// one ledger entry per attempted call.
type PerplexityService interface {
	IsConfigured(ctx context.Context) bool
	ValidateAPIKey(ctx context.Context, apiKey string) (bool, string)
	SetAPIKey(ctx context.Context, apiKey, updatedBy string) error
	FetchSummary(ctx context.Context, query, jobName, triggeredBy, recencyFilter string) (*dto.SummaryResult, error)
	FetchNewsArticles(ctx context.Context, queries []string, jobName, triggeredBy string, maxResults int) ([]dto.SearchResult, error)
	CreateStructuredCompletion(ctx context.Context, prompt string, format *dto.ResponseFormat, recencyFilter string) (string, int64, error)
}

// NewPerplexityService creates a new Perplexity gateway service.
func NewPerplexityService(cfg *config.Config, log *logger.Logger, settingRepo repository.SettingRepository, sourceRepo repository.NewsSourceRepository, apiLogRepo repository.ApiLogRepository) PerplexityService {
	return &perplexityService{
		cfg:         cfg,
		logger:      log,
		settingRepo: settingRepo,
		sourceRepo:  sourceRepo,
		apiLogRepo:  apiLogRepo,
	}
}

type perplexityService struct {
	cfg         *config.Config
	logger      *logger.Logger
	settingRepo repository.SettingRepository
	sourceRepo  repository.NewsSourceRepository
	apiLogRepo  repository.ApiLogRepository

	mu     sync.Mutex
	client *repository.PerplexityClient
}

// IsConfigured reports whether a provider credential is stored.
func (s *perplexityService) IsConfigured(ctx context.Context) bool {
	setting, err := s.settingRepo.Get(ctx, common.SettingKeyPerplexityAPIKey)
	if err != nil {
		s.logger.Error("Failed to read API key setting", logger.ErrorField(err))
		return false
	}
	return setting != nil && setting.Value != ""
}

// ValidateAPIKey makes one minimal test call with the given key and
// classifies the outcome. It never returns an error to the caller.
func (s *perplexityService) ValidateAPIKey(ctx context.Context, apiKey string) (bool, string) {
	client := s.newClient(apiKey)
	resp, err := client.CreateChatCompletion(ctx, &dto.ChatCompletionRequest{
		Model: s.cfg.Perplexity.ChatModel,
		Messages: []dto.Message{
			{Role: "user", Content: "Say hello"},
		},
	})
	if err != nil {
		var apiErr *repository.APIError
		if errors.As(err, &apiErr) {
			switch apiErr.StatusCode {
			case http.StatusUnauthorized:
				return false, "Invalid API key (unauthorized)"
			case http.StatusTooManyRequests:
				return false, "Rate limit exceeded - but key appears valid"
			}
		}
		return false, fmt.Sprintf("Validation error: %s", truncateRunes(err.Error(), 100))
	}
	if len(resp.Choices) == 0 {
		return false, "API returned empty response"
	}
	return true, "API key is valid!"
}

// SetAPIKey stores the credential and invalidates the cached client so the
// new key takes effect on the next call.
func (s *perplexityService) SetAPIKey(ctx context.Context, apiKey, updatedBy string) error {
	setting := &entity.Setting{
		Key:       common.SettingKeyPerplexityAPIKey,
		Value:     apiKey,
		Encrypted: false,
		UpdatedAt: utils.TimeNowIST(),
		UpdatedBy: updatedBy,
	}
	if err := s.settingRepo.Upsert(ctx, setting); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	s.mu.Lock()
	s.client = nil
	s.mu.Unlock()
	return nil
}

// FetchSummary issues a single chat-style call constrained by the recency
// filter and the domain allowlist. Exactly one ledger entry is written per
// attempted call; a missing credential short-circuits without logging.
func (s *perplexityService) FetchSummary(ctx context.Context, query, jobName, triggeredBy, recencyFilter string) (*dto.SummaryResult, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	sources := s.newsSources(ctx)
	start := time.Now()

	resp, err := client.CreateChatCompletion(ctx, &dto.ChatCompletionRequest{
		Model: s.cfg.Perplexity.ChatModel,
		Messages: []dto.Message{
			{Role: "user", Content: query},
		},
		WebSearchOptions: &dto.WebSearchOptions{
			SearchRecencyFilter: recencyFilter,
			SearchDomainFilter:  sources,
			MaxSearchResults:    s.cfg.Perplexity.MaxSearchResults,
		},
	})
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		s.logAPICall(ctx, entity.EventTypeAPICall, jobName, query, entity.StatusFailed, elapsed, 0, err.Error(), triggeredBy)
		return nil, err
	}

	citations := make([]dto.Citation, 0, len(resp.Citations))
	for i, url := range resp.Citations {
		citations = append(citations, dto.Citation{Index: i + 1, URL: url})
	}

	s.logAPICall(ctx, entity.EventTypeAPICall, jobName, query, entity.StatusSuccess, elapsed, 1, "", triggeredBy)

	return &dto.SummaryResult{
		Content:   resp.FirstContent(),
		Citations: citations,
		FetchedAt: utils.TimeNowIST().Format(time.RFC3339),
	}, nil
}

// FetchNewsArticles issues one search-style call carrying multiple query
// strings. A missing credential returns an empty list silently; an
// attempted call always writes exactly one ledger entry.
func (s *perplexityService) FetchNewsArticles(ctx context.Context, queries []string, jobName, triggeredBy string, maxResults int) ([]dto.SearchResult, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return []dto.SearchResult{}, nil
	}

	queryText := strings.Join(queries, ", ")
	start := time.Now()

	resp, err := client.CreateSearch(ctx, &dto.SearchRequest{
		Query:      queries,
		MaxResults: maxResults,
	})
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		s.logAPICall(ctx, entity.EventTypeAPICall, jobName, queryText, entity.StatusFailed, elapsed, 0, err.Error(), triggeredBy)
		return nil, err
	}

	results := make([]dto.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if !r.Valid() {
			s.logger.Warn("Skipping search result with missing fields", logger.StringField("url", r.URL))
			continue
		}
		results = append(results, r)
	}

	s.logAPICall(ctx, entity.EventTypeAPICall, jobName, queryText, entity.StatusSuccess, elapsed, len(results), "", triggeredBy)

	return results, nil
}

// CreateStructuredCompletion issues a schema-constrained chat call with the
// scenario model and a month-scale recency filter. The caller owns the
// ledger entry for this call family.
func (s *perplexityService) CreateStructuredCompletion(ctx context.Context, prompt string, format *dto.ResponseFormat, recencyFilter string) (string, int64, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", 0, err
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, &dto.ChatCompletionRequest{
		Model: s.cfg.Perplexity.ScenarioModel,
		Messages: []dto.Message{
			{Role: "user", Content: prompt},
		},
		ResponseFormat: format,
		WebSearchOptions: &dto.WebSearchOptions{
			SearchRecencyFilter: recencyFilter,
		},
	})
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return "", elapsed, err
	}

	return resp.FirstContent(), elapsed, nil
}

// getClient returns the cached client, creating it from the stored
// credential when needed.
func (s *perplexityService) getClient(ctx context.Context) (*repository.PerplexityClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	setting, err := s.settingRepo.Get(ctx, common.SettingKeyPerplexityAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read API key setting: %w", err)
	}
	if setting == nil || setting.Value == "" {
		return nil, ErrAPIKeyNotConfigured
	}

	s.client = s.newClient(setting.Value)
	return s.client, nil
}

func (s *perplexityService) newClient(apiKey string) *repository.PerplexityClient {
	return repository.NewPerplexityClient(
		s.cfg.Perplexity.BaseURL,
		apiKey,
		s.cfg.Perplexity.Timeout,
		s.cfg.Perplexity.MaxRequestPerMinute,
	)
}

// newsSources returns the active domain allowlist, falling back to the
// static default list when none are configured.
func (s *perplexityService) newsSources(ctx context.Context) []string {
	sources, err := s.sourceRepo.FindActive(ctx)
	if err != nil {
		s.logger.Error("Failed to load news sources, using defaults", logger.ErrorField(err))
		return common.DefaultNewsSources
	}
	if len(sources) == 0 {
		return common.DefaultNewsSources
	}
	domains := make([]string, 0, len(sources))
	for _, src := range sources {
		domains = append(domains, src.Domain)
	}
	return domains
}

func (s *perplexityService) logAPICall(ctx context.Context, eventType, jobName, query, status string, elapsedMs int64, newsCount int, errorMessage, triggeredBy string) {
	entry := &entity.ApiLog{
		Timestamp:      utils.TimeNowIST(),
		EventType:      eventType,
		JobName:        jobName,
		Query:          query,
		Status:         status,
		ResponseTimeMs: elapsedMs,
		NewsCount:      newsCount,
		ErrorMessage:   errorMessage,
		TriggeredBy:    triggeredBy,
	}
	if err := s.apiLogRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write API log entry", logger.ErrorField(err), logger.StringField("job_name", jobName))
	}
}
