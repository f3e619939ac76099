package service

import (
	"context"
	"errors"
	"testing"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioPayload = `{
	"scenarios": [
		{
			"title": "Rally extends",
			"description": "Banks continue to lead the market higher.",
			"probability": 0.5,
			"impact_analysis": {"indices": {"nifty": "+1.2%"}},
			"historical_context": "Similar to the 2023 rate pause rally."
		},
		{
			"title": "Profit booking",
			"description": "Traders lock in gains after the run-up.",
			"probability": 0.3
		},
		{
			"title": "Sideways drift",
			"description": "Markets consolidate awaiting fresh cues.",
			"probability": 0.2
		}
	]
}`

func newScenarioFixture(configured bool, content string, provErr error) (*scenarioService, *fakeNewsRepo, *fakeScenarioRepo, *fakeApiLogRepo) {
	perplexity := &fakePerplexity{
		configured: configured,
		structuredFn: func(prompt string) (string, int64, error) {
			return content, 120, provErr
		},
	}
	newsRepo := &fakeNewsRepo{byID: map[uint]*entity.News{
		7: {ID: 7, Title: "RBI cuts repo rate by 25 bps", Summary: "Surprise cut lifts rate sensitives.", Category: "market"},
	}}
	scenarioRepo := &fakeScenarioRepo{}
	apiLogs := &fakeApiLogRepo{}
	svc := NewScenarioService(perplexity, newsRepo, scenarioRepo, apiLogs, newTestLogger()).(*scenarioService)
	return svc, newsRepo, scenarioRepo, apiLogs
}

func TestScenarioService_GenerateScenarios(t *testing.T) {
	t.Run("generates and persists with a ledger entry", func(t *testing.T) {
		svc, _, scenarioRepo, apiLogs := newScenarioFixture(true, scenarioPayload, nil)

		scenarios, err := svc.GenerateScenarios(context.Background(), 7, &dto.GenerateScenariosRequest{NumScenarios: 3}, "user:alex")
		require.NoError(t, err)
		require.Len(t, scenarios, 3)

		assert.Equal(t, "Rally extends", scenarios[0].Title)
		assert.Equal(t, uint(7), scenarios[0].NewsID)
		require.NotNil(t, scenarios[0].Probability)
		assert.InDelta(t, 0.5, *scenarios[0].Probability, 0.001)
		assert.NotEmpty(t, scenarios[0].ImpactAnalysis)
		assert.Equal(t, "user:alex", scenarios[0].CreatedBy)

		assert.Len(t, scenarioRepo.created, 3)

		require.Len(t, apiLogs.entries, 1)
		entry := apiLogs.entries[0]
		assert.Equal(t, entity.EventTypeScenarioGeneration, entry.EventType)
		assert.Equal(t, "scenarios_7", entry.JobName)
		assert.Equal(t, entity.StatusSuccess, entry.Status)
		assert.Equal(t, 3, entry.NewsCount)
		assert.LessOrEqual(t, len([]rune(entry.Query)), 200)
	})

	t.Run("reuses stored scenarios once the count is met", func(t *testing.T) {
		svc, _, scenarioRepo, apiLogs := newScenarioFixture(true, scenarioPayload, nil)
		scenarioRepo.existing = []entity.Scenario{
			{ID: 1, NewsID: 7, Title: "Existing one"},
			{ID: 2, NewsID: 7, Title: "Existing two"},
		}

		scenarios, err := svc.GenerateScenarios(context.Background(), 7, &dto.GenerateScenariosRequest{
			NumScenarios: 2,
			Parameters:   map[string]string{"horizon": "1 week"},
		}, "user")
		require.NoError(t, err)
		require.Len(t, scenarios, 2)
		assert.Equal(t, "Existing one", scenarios[0].Title)
		assert.Empty(t, scenarioRepo.created)
		assert.Empty(t, apiLogs.entries)
	})

	t.Run("regenerates when stored count is below the requested count", func(t *testing.T) {
		svc, _, scenarioRepo, _ := newScenarioFixture(true, scenarioPayload, nil)
		scenarioRepo.existing = []entity.Scenario{{ID: 1, NewsID: 7, Title: "Existing"}}

		scenarios, err := svc.GenerateScenarios(context.Background(), 7, &dto.GenerateScenariosRequest{
			NumScenarios: 3,
			Parameters:   map[string]string{"horizon": "1 week"},
		}, "user")
		require.NoError(t, err)
		require.Len(t, scenarios, 3)
		assert.NotEmpty(t, scenarios[0].UserParameters)
	})

	t.Run("missing credential yields empty without a ledger entry", func(t *testing.T) {
		svc, _, scenarioRepo, apiLogs := newScenarioFixture(false, scenarioPayload, nil)

		scenarios, err := svc.GenerateScenarios(context.Background(), 7, &dto.GenerateScenariosRequest{}, "user")
		require.NoError(t, err)
		assert.Empty(t, scenarios)
		assert.Empty(t, scenarioRepo.created)
		assert.Empty(t, apiLogs.entries)
	})

	t.Run("provider failure yields empty with a failed ledger entry", func(t *testing.T) {
		svc, _, scenarioRepo, apiLogs := newScenarioFixture(true, "", errors.New("upstream down"))

		scenarios, err := svc.GenerateScenarios(context.Background(), 7, &dto.GenerateScenariosRequest{}, "user")
		require.NoError(t, err)
		assert.Empty(t, scenarios)
		assert.Empty(t, scenarioRepo.created)
		require.Len(t, apiLogs.entries, 1)
		assert.Equal(t, entity.StatusFailed, apiLogs.entries[0].Status)
	})

	t.Run("malformed payload yields empty with a failed ledger entry", func(t *testing.T) {
		svc, _, scenarioRepo, apiLogs := newScenarioFixture(true, "not json at all", nil)

		scenarios, err := svc.GenerateScenarios(context.Background(), 7, &dto.GenerateScenariosRequest{}, "user")
		require.NoError(t, err)
		assert.Empty(t, scenarios)
		assert.Empty(t, scenarioRepo.created)
		require.Len(t, apiLogs.entries, 1)
		assert.Equal(t, entity.StatusFailed, apiLogs.entries[0].Status)
	})

	t.Run("persistence failure surfaces the error with a failed ledger entry", func(t *testing.T) {
		svc, _, scenarioRepo, apiLogs := newScenarioFixture(true, scenarioPayload, nil)
		scenarioRepo.createErr = errors.New("db down")

		_, err := svc.GenerateScenarios(context.Background(), 7, &dto.GenerateScenariosRequest{}, "user")
		require.Error(t, err)
		assert.Empty(t, scenarioRepo.created)
		require.Len(t, apiLogs.entries, 1)
		assert.Equal(t, entity.StatusFailed, apiLogs.entries[0].Status)
		assert.Contains(t, apiLogs.entries[0].ErrorMessage, "db down")
	})

	t.Run("unknown news id yields empty without a call or ledger entry", func(t *testing.T) {
		svc, _, scenarioRepo, apiLogs := newScenarioFixture(true, scenarioPayload, nil)

		scenarios, err := svc.GenerateScenarios(context.Background(), 999, &dto.GenerateScenariosRequest{}, "user")
		require.NoError(t, err)
		assert.Empty(t, scenarios)
		assert.Empty(t, scenarioRepo.created)
		assert.Empty(t, apiLogs.entries)
	})
}

func TestParseScenarioPayload(t *testing.T) {
	t.Run("plain JSON", func(t *testing.T) {
		result, err := parseScenarioPayload(scenarioPayload)
		require.NoError(t, err)
		assert.Len(t, result.Scenarios, 3)
	})

	t.Run("fenced JSON", func(t *testing.T) {
		result, err := parseScenarioPayload("```json\n" + scenarioPayload + "\n```")
		require.NoError(t, err)
		assert.Len(t, result.Scenarios, 3)
	})

	t.Run("empty scenario list is an error", func(t *testing.T) {
		_, err := parseScenarioPayload(`{"scenarios":[]}`)
		require.Error(t, err)
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		_, err := parseScenarioPayload("no json here")
		require.Error(t, err)
	})
}

func TestBuildScenarioPrompt(t *testing.T) {
	news := &entity.News{
		Title:       "RBI cuts repo rate by 25 bps",
		Summary:     "Surprise cut lifts rate sensitives.",
		Category:    "sector",
		Subcategory: "banking",
		Symbols:     "HDFCBANK",
	}

	prompt := BuildScenarioPrompt(news, 3, map[string]string{"horizon": "1 week", "bias": "neutral"})
	assert.Contains(t, prompt, "RBI cuts repo rate by 25 bps")
	assert.Contains(t, prompt, "3 distinct")
	assert.Contains(t, prompt, "Category: sector - banking")
	assert.Contains(t, prompt, "HDFCBANK")
	assert.Contains(t, prompt, "horizon: 1 week")

	// Parameter ordering is stable for identical inputs.
	again := BuildScenarioPrompt(news, 3, map[string]string{"bias": "neutral", "horizon": "1 week"})
	assert.Equal(t, prompt, again)
}
