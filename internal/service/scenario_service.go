package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/entity"
	"github.com/marketcalls/FinSights/internal/repository"
	"github.com/marketcalls/FinSights/pkg/logger"
	"github.com/marketcalls/FinSights/pkg/utils"

	"gorm.io/datatypes"
)

// ledgerQueryLimit caps the prompt prefix recorded on a scenario ledger row.
const ledgerQueryLimit = 200

// ScenarioService generates and retrieves what-if scenarios for persisted
// news records. Provider failures degrade to an empty result; only lookup
// and persistence failures surface as errors.
type ScenarioService interface {
	GenerateScenarios(ctx context.Context, newsID uint, req *dto.GenerateScenariosRequest, triggeredBy string) ([]entity.Scenario, error)
	GetScenariosForNews(ctx context.Context, newsID uint) ([]entity.Scenario, error)
}

// NewScenarioService creates a new scenario service.
func NewScenarioService(perplexity PerplexityService, newsRepo repository.NewsRepository, scenarioRepo repository.ScenarioRepository, apiLogRepo repository.ApiLogRepository, log *logger.Logger) ScenarioService {
	return &scenarioService{
		perplexity:   perplexity,
		newsRepo:     newsRepo,
		scenarioRepo: scenarioRepo,
		apiLogRepo:   apiLogRepo,
		logger:       log,
	}
}

type scenarioService struct {
	perplexity   PerplexityService
	newsRepo     repository.NewsRepository
	scenarioRepo repository.ScenarioRepository
	apiLogRepo   repository.ApiLogRepository
	logger       *logger.Logger
}

// GenerateScenarios produces scenarios for the news record. When the
// stored scenario count already meets the requested count, the stored ones
// are returned with no provider call. A missing article, missing
// credential or provider failure yields an empty list rather than an
// error.
func (s *scenarioService) GenerateScenarios(ctx context.Context, newsID uint, req *dto.GenerateScenariosRequest, triggeredBy string) ([]entity.Scenario, error) {
	news, err := s.newsRepo.FindByID(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to load news: %w", err)
	}
	if news == nil {
		s.logger.Warn("Skipping scenario generation, news not found", logger.IntField("news_id", int(newsID)))
		return []entity.Scenario{}, nil
	}

	numScenarios := req.NumScenarios
	if numScenarios <= 0 {
		numScenarios = 3
	}

	count, err := s.scenarioRepo.CountByNewsID(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to count existing scenarios: %w", err)
	}
	if count >= int64(numScenarios) {
		return s.GetScenariosForNews(ctx, newsID)
	}

	if !s.perplexity.IsConfigured(ctx) {
		s.logger.Warn("Skipping scenario generation, API key not configured", logger.IntField("news_id", int(newsID)))
		return []entity.Scenario{}, nil
	}

	prompt := BuildScenarioPrompt(news, numScenarios, req.Parameters)
	jobName := fmt.Sprintf("scenarios_%d", newsID)
	queryPrefix := truncateRunes(prompt, ledgerQueryLimit)

	content, elapsed, err := s.perplexity.CreateStructuredCompletion(ctx, prompt, dto.NewScenarioResponseFormat(), "month")
	if err != nil {
		s.logger.Error("Scenario completion failed", logger.ErrorField(err), logger.IntField("news_id", int(newsID)))
		s.logScenarioCall(ctx, jobName, queryPrefix, entity.StatusFailed, elapsed, 0, err.Error(), triggeredBy)
		return []entity.Scenario{}, nil
	}

	result, err := parseScenarioPayload(content)
	if err != nil {
		s.logger.Error("Failed to parse scenario payload", logger.ErrorField(err), logger.IntField("news_id", int(newsID)))
		s.logScenarioCall(ctx, jobName, queryPrefix, entity.StatusFailed, elapsed, 0, err.Error(), triggeredBy)
		return []entity.Scenario{}, nil
	}

	scenarios, err := s.buildScenarios(newsID, result.Scenarios, req.Parameters, triggeredBy)
	if err != nil {
		s.logScenarioCall(ctx, jobName, queryPrefix, entity.StatusFailed, elapsed, 0, err.Error(), triggeredBy)
		return nil, err
	}

	if err := s.scenarioRepo.CreateAll(ctx, scenarios); err != nil {
		err = fmt.Errorf("failed to persist scenarios: %w", err)
		s.logScenarioCall(ctx, jobName, queryPrefix, entity.StatusFailed, elapsed, 0, err.Error(), triggeredBy)
		return nil, err
	}

	s.logScenarioCall(ctx, jobName, queryPrefix, entity.StatusSuccess, elapsed, len(scenarios), "", triggeredBy)

	return scenarios, nil
}

// GetScenariosForNews returns the stored scenarios for a news record in
// insertion order.
func (s *scenarioService) GetScenariosForNews(ctx context.Context, newsID uint) ([]entity.Scenario, error) {
	scenarios, err := s.scenarioRepo.FindByNewsID(ctx, newsID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scenarios: %w", err)
	}
	return scenarios, nil
}

func (s *scenarioService) buildScenarios(newsID uint, data []dto.ScenarioData, parameters map[string]string, createdBy string) ([]entity.Scenario, error) {
	var userParams datatypes.JSON
	if len(parameters) > 0 {
		raw, err := json.Marshal(parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to encode user parameters: %w", err)
		}
		userParams = datatypes.JSON(raw)
	}

	scenarios := make([]entity.Scenario, 0, len(data))
	for _, d := range data {
		scenario := entity.Scenario{
			NewsID:            newsID,
			Title:             d.Title,
			Description:       d.Description,
			Probability:       d.Probability,
			HistoricalContext: d.HistoricalContext,
			UserParameters:    userParams,
			CreatedAt:         utils.TimeNowIST(),
			CreatedBy:         createdBy,
		}
		if d.ImpactAnalysis != nil {
			raw, err := json.Marshal(d.ImpactAnalysis)
			if err != nil {
				return nil, fmt.Errorf("failed to encode impact analysis: %w", err)
			}
			scenario.ImpactAnalysis = datatypes.JSON(raw)
		}
		scenarios = append(scenarios, scenario)
	}

	return scenarios, nil
}

func (s *scenarioService) logScenarioCall(ctx context.Context, jobName, query, status string, elapsedMs int64, count int, errorMessage, triggeredBy string) {
	entry := &entity.ApiLog{
		Timestamp:      utils.TimeNowIST(),
		EventType:      entity.EventTypeScenarioGeneration,
		JobName:        jobName,
		Query:          query,
		Status:         status,
		ResponseTimeMs: elapsedMs,
		NewsCount:      count,
		ErrorMessage:   errorMessage,
		TriggeredBy:    triggeredBy,
	}
	if err := s.apiLogRepo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write scenario ledger entry", logger.ErrorField(err), logger.StringField("job_name", jobName))
	}
}

// parseScenarioPayload decodes the structured completion body, tolerating a
// markdown code fence around the JSON.
func parseScenarioPayload(content string) (*dto.ScenarioGenerationResult, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var result dto.ScenarioGenerationResult
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return nil, fmt.Errorf("failed to decode scenario payload: %w", err)
	}
	if len(result.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario payload contained no scenarios")
	}
	return &result, nil
}
