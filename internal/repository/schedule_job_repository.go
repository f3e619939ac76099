package repository

import (
	"context"
	"time"

	"github.com/marketcalls/FinSights/internal/entity"

	"gorm.io/gorm"
)

// ScheduleJobRepository defines the interface for schedule job data.
type ScheduleJobRepository interface {
	FindByName(ctx context.Context, jobName string) (*entity.ScheduleJob, error)
	FindEnabled(ctx context.Context) ([]entity.ScheduleJob, error)
	UpdateLastRun(ctx context.Context, jobName string, lastRun time.Time) error
	UpdateNextRun(ctx context.Context, jobName string, nextRun time.Time) error
}

// NewScheduleJobRepository creates a new GORM-based schedule job repository.
func NewScheduleJobRepository(db *gorm.DB) ScheduleJobRepository {
	return &scheduleJobRepository{db: db}
}

type scheduleJobRepository struct {
	db *gorm.DB
}

// FindByName retrieves a job by its unique name, or nil when absent.
func (r *scheduleJobRepository) FindByName(ctx context.Context, jobName string) (*entity.ScheduleJob, error) {
	var job entity.ScheduleJob
	result := r.db.WithContext(ctx).Where("job_name = ?", jobName).First(&job)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &job, nil
}

// FindEnabled retrieves all enabled jobs.
func (r *scheduleJobRepository) FindEnabled(ctx context.Context) ([]entity.ScheduleJob, error) {
	var jobs []entity.ScheduleJob
	if err := r.db.WithContext(ctx).Where("is_enabled = ?", true).Order("job_name").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// UpdateLastRun records the completion time of a fetch for the job.
func (r *scheduleJobRepository) UpdateLastRun(ctx context.Context, jobName string, lastRun time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.ScheduleJob{}).
		Where("job_name = ?", jobName).
		Update("last_run", lastRun).Error
}

// UpdateNextRun records the next scheduled execution time for the job.
func (r *scheduleJobRepository) UpdateNextRun(ctx context.Context, jobName string, nextRun time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.ScheduleJob{}).
		Where("job_name = ?", jobName).
		Update("next_run", nextRun).Error
}
