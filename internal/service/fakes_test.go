package service

import (
	"context"
	"time"

	"github.com/marketcalls/FinSights/internal/dto"
	"github.com/marketcalls/FinSights/internal/entity"
	"github.com/marketcalls/FinSights/pkg/logger"

	"go.uber.org/zap"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

type fakeSettingRepo struct {
	setting  *entity.Setting
	getErr   error
	upserted []*entity.Setting
}

func (f *fakeSettingRepo) Get(ctx context.Context, key string) (*entity.Setting, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.setting != nil && f.setting.Key == key {
		return f.setting, nil
	}
	return nil, nil
}

func (f *fakeSettingRepo) Upsert(ctx context.Context, setting *entity.Setting) error {
	f.upserted = append(f.upserted, setting)
	f.setting = setting
	return nil
}

type fakeSourceRepo struct {
	sources []entity.NewsSource
	err     error
}

func (f *fakeSourceRepo) FindActive(ctx context.Context) ([]entity.NewsSource, error) {
	return f.sources, f.err
}

type fakeApiLogRepo struct {
	entries []entity.ApiLog
	err     error
}

func (f *fakeApiLogRepo) Create(ctx context.Context, log *entity.ApiLog) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *log)
	return nil
}

func (f *fakeApiLogRepo) FindRecent(ctx context.Context, limit int) ([]entity.ApiLog, error) {
	return f.entries, nil
}

type fakeNewsRepo struct {
	byID      map[uint]*entity.News
	byTitle   map[string]*entity.News
	created   []*entity.News
	recent    []entity.News
	findErr   error
	createErr error
}

func (f *fakeNewsRepo) Create(ctx context.Context, news *entity.News) error {
	return f.store(news)
}

func (f *fakeNewsRepo) CreateAll(ctx context.Context, items []*entity.News) error {
	for _, item := range items {
		if err := f.store(item); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeNewsRepo) CreateWithCitations(ctx context.Context, news *entity.News, citations []entity.Citation) error {
	if err := f.store(news); err != nil {
		return err
	}
	news.Citations = citations
	return nil
}

func (f *fakeNewsRepo) FindByID(ctx context.Context, id uint) (*entity.News, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byID[id], nil
}

func (f *fakeNewsRepo) FindByTitle(ctx context.Context, title string) (*entity.News, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byTitle[title], nil
}

func (f *fakeNewsRepo) FindRecent(ctx context.Context, limit int) ([]entity.News, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func (f *fakeNewsRepo) store(news *entity.News) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byTitle == nil {
		f.byTitle = make(map[string]*entity.News)
	}
	if f.byID == nil {
		f.byID = make(map[uint]*entity.News)
	}
	news.ID = uint(len(f.created) + 1)
	f.created = append(f.created, news)
	f.byTitle[news.Title] = news
	f.byID[news.ID] = news
	return nil
}

type fakeScenarioRepo struct {
	existing  []entity.Scenario
	created   []entity.Scenario
	createErr error
}

func (f *fakeScenarioRepo) CreateAll(ctx context.Context, scenarios []entity.Scenario) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, scenarios...)
	return nil
}

func (f *fakeScenarioRepo) FindByNewsID(ctx context.Context, newsID uint) ([]entity.Scenario, error) {
	var out []entity.Scenario
	for _, sc := range f.existing {
		if sc.NewsID == newsID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (f *fakeScenarioRepo) CountByNewsID(ctx context.Context, newsID uint) (int64, error) {
	items, _ := f.FindByNewsID(ctx, newsID)
	return int64(len(items)), nil
}

type fakeJobRepo struct {
	jobs     []entity.ScheduleJob
	lastRuns map[string]time.Time
	nextRuns map[string]time.Time
	findErr  error
}

func (f *fakeJobRepo) FindByName(ctx context.Context, jobName string) (*entity.ScheduleJob, error) {
	for i := range f.jobs {
		if f.jobs[i].JobName == jobName {
			return &f.jobs[i], nil
		}
	}
	return nil, nil
}

func (f *fakeJobRepo) FindEnabled(ctx context.Context) ([]entity.ScheduleJob, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []entity.ScheduleJob
	for _, job := range f.jobs {
		if job.IsEnabled {
			out = append(out, job)
		}
	}
	return out, nil
}

func (f *fakeJobRepo) UpdateLastRun(ctx context.Context, jobName string, lastRun time.Time) error {
	if f.lastRuns == nil {
		f.lastRuns = make(map[string]time.Time)
	}
	f.lastRuns[jobName] = lastRun
	return nil
}

func (f *fakeJobRepo) UpdateNextRun(ctx context.Context, jobName string, nextRun time.Time) error {
	if f.nextRuns == nil {
		f.nextRuns = make(map[string]time.Time)
	}
	f.nextRuns[jobName] = nextRun
	return nil
}

// fakePerplexity stubs the provider gateway with function fields.
type fakePerplexity struct {
	configured     bool
	summaryFn      func(query string) (*dto.SummaryResult, error)
	articlesFn     func(queries []string) ([]dto.SearchResult, error)
	structuredFn   func(prompt string) (string, int64, error)
	summaryCalls   int
	articleCalls   int
	structuredCall int
}

func (f *fakePerplexity) IsConfigured(ctx context.Context) bool {
	return f.configured
}

func (f *fakePerplexity) ValidateAPIKey(ctx context.Context, apiKey string) (bool, string) {
	return true, "API key is valid!"
}

func (f *fakePerplexity) SetAPIKey(ctx context.Context, apiKey, updatedBy string) error {
	return nil
}

func (f *fakePerplexity) FetchSummary(ctx context.Context, query, jobName, triggeredBy, recencyFilter string) (*dto.SummaryResult, error) {
	f.summaryCalls++
	return f.summaryFn(query)
}

func (f *fakePerplexity) FetchNewsArticles(ctx context.Context, queries []string, jobName, triggeredBy string, maxResults int) ([]dto.SearchResult, error) {
	f.articleCalls++
	return f.articlesFn(queries)
}

func (f *fakePerplexity) CreateStructuredCompletion(ctx context.Context, prompt string, format *dto.ResponseFormat, recencyFilter string) (string, int64, error) {
	f.structuredCall++
	return f.structuredFn(prompt)
}
