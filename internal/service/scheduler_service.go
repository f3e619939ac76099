package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/marketcalls/FinSights/internal/config"
	"github.com/marketcalls/FinSights/internal/entity"
	"github.com/marketcalls/FinSights/internal/repository"
	"github.com/marketcalls/FinSights/pkg/logger"
	"github.com/marketcalls/FinSights/pkg/telegram"
	"github.com/marketcalls/FinSights/pkg/utils"

	"github.com/robfig/cron/v3"
)

// SchedulerService drives the enabled fetch jobs on their configured
// schedules.
type SchedulerService interface {
	InitJobsFromDB(ctx context.Context) error
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
}

// NewSchedulerService creates a new scheduler. The notifier is optional;
// when nil, job failures are only logged.
func NewSchedulerService(cfg *config.Config, fetcher NewsFetcherService, jobRepo repository.ScheduleJobRepository, notifier telegram.Notifier, log *logger.Logger) SchedulerService {
	return &schedulerService{
		cfg:      cfg,
		fetcher:  fetcher,
		jobRepo:  jobRepo,
		notifier: notifier,
		logger:   log,
	}
}

type schedulerService struct {
	cfg      *config.Config
	fetcher  NewsFetcherService
	jobRepo  repository.ScheduleJobRepository
	notifier telegram.Notifier
	logger   *logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// InitJobsFromDB loads the enabled jobs from the database and registers
// each on its cron or interval schedule. Jobs with invalid schedules are
// skipped with a log entry rather than failing startup.
func (s *schedulerService) InitJobsFromDB(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.jobRepo.FindEnabled(ctx)
	if err != nil {
		return fmt.Errorf("failed to load enabled jobs: %w", err)
	}

	c := cron.New(cron.WithLocation(utils.GetISTLocation()))
	registered := 0

	for i := range jobs {
		job := jobs[i]
		spec, err := CronSpecForJob(&job)
		if err != nil {
			s.logger.Error("Skipping job with invalid schedule", logger.ErrorField(err), logger.StringField("job_name", job.JobName))
			continue
		}

		entryID, err := c.AddFunc(spec, func() {
			s.runJob(&job)
		})
		if err != nil {
			s.logger.Error("Failed to register job", logger.ErrorField(err), logger.StringField("job_name", job.JobName))
			continue
		}

		s.logger.Info("Registered scheduled job",
			logger.StringField("job_name", job.JobName),
			logger.StringField("spec", spec),
			logger.IntField("entry_id", int(entryID)))
		registered++
	}

	s.cron = c
	s.logger.Info("Scheduled jobs initialized", logger.IntField("jobs", registered))
	return nil
}

// Start initializes the job table when needed and begins dispatching.
func (s *schedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	initialized := s.cron != nil
	running := s.running
	s.mu.Unlock()

	if running {
		return nil
	}
	if !initialized {
		if err := s.InitJobsFromDB(ctx); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cron.Start()
	s.running = true
	s.logger.Info("Scheduler started")
	return nil
}

// Stop halts the scheduler and waits for in-flight jobs to complete.
func (s *schedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether the scheduler has been started.
func (s *schedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// runJob executes one scheduled fetch under the configured job timeout and
// records the next run time.
func (s *schedulerService) runJob(job *entity.ScheduleJob) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Scheduler.JobTimeout)
	defer cancel()

	s.logger.Info("Running scheduled job", logger.StringField("job_name", job.JobName))

	count, err := s.fetcher.FetchByJob(ctx, job, "scheduler")
	if err != nil {
		s.logger.Error("Scheduled job failed", logger.ErrorField(err), logger.StringField("job_name", job.JobName))
		s.notifyFailure(job.JobName, err)
	} else {
		s.logger.Info("Scheduled job completed",
			logger.StringField("job_name", job.JobName),
			logger.IntField("news_count", count))
	}

	s.updateNextRun(job)
}

func (s *schedulerService) updateNextRun(job *entity.ScheduleJob) {
	next, err := nextRunTime(job, utils.TimeNowIST())
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Scheduler.JobTimeout)
	defer cancel()
	if err := s.jobRepo.UpdateNextRun(ctx, job.JobName, next); err != nil {
		s.logger.Error("Failed to update job next_run", logger.ErrorField(err), logger.StringField("job_name", job.JobName))
	}
}

func (s *schedulerService) notifyFailure(jobName string, jobErr error) {
	if s.notifier == nil {
		return
	}
	msg := telegram.FormatJobFailure(jobName, utils.TimeNowIST(), jobErr)
	if err := s.notifier.SendMessage(msg); err != nil {
		s.logger.Error("Failed to send failure notification", logger.ErrorField(err))
	}
}

// nextRunTime computes the job's next firing time. Wall-clock schedules
// are evaluated in IST regardless of the server's local zone.
func nextRunTime(job *entity.ScheduleJob, now time.Time) (time.Time, error) {
	spec, err := CronSpecForJob(job)
	if err != nil {
		return time.Time{}, err
	}
	schedule, err := cron.ParseStandard(fmt.Sprintf("CRON_TZ=%s %s", utils.GetISTLocation().String(), spec))
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(now), nil
}

// CronSpecForJob translates a job's schedule configuration into a cron
// spec: a daily "HH:MM" time becomes "M H * * *", an interval becomes
// "@every Nm".
func CronSpecForJob(job *entity.ScheduleJob) (string, error) {
	switch job.ScheduleType {
	case entity.ScheduleTypeCron:
		hour, minute, err := parseClockTime(job.CronTime)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d %d * * *", minute, hour), nil
	case entity.ScheduleTypeInterval:
		if job.IntervalMinutes <= 0 {
			return "", fmt.Errorf("job %s has non-positive interval", job.JobName)
		}
		return fmt.Sprintf("@every %dm", job.IntervalMinutes), nil
	default:
		return "", fmt.Errorf("job %s has unknown schedule type %q", job.JobName, job.ScheduleType)
	}
}

// parseClockTime parses an "HH:MM" wall-clock string.
func parseClockTime(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid cron time %q, expected HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in cron time %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in cron time %q", value)
	}
	return hour, minute, nil
}
