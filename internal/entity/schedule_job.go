package entity

import (
	"time"
)

// Schedule shapes for a job.
const (
	ScheduleTypeCron     = "cron"
	ScheduleTypeInterval = "interval"
)

// ScheduleJob is a named, schedulable fetch configuration. The scheduler
// owns every field except LastRun, which the news fetcher updates after a
// completed fetch.
type ScheduleJob struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	JobName         string     `gorm:"type:varchar(100);unique;not null" json:"job_name"`
	Category        string     `gorm:"type:varchar(50);not null" json:"category"`
	Subcategory     string     `gorm:"type:varchar(50)" json:"subcategory"`
	QueryTemplate   string     `gorm:"type:text;not null" json:"query_template"`
	ScheduleType    string     `gorm:"type:varchar(20);not null" json:"schedule_type"`
	CronTime        string     `gorm:"type:varchar(10)" json:"cron_time,omitempty"`
	IntervalMinutes int        `json:"interval_minutes,omitempty"`
	IsEnabled       bool       `gorm:"default:true" json:"is_enabled"`
	LastRun         *time.Time `json:"last_run,omitempty"`
	NextRun         *time.Time `json:"next_run,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the ScheduleJob model.
func (ScheduleJob) TableName() string {
	return "schedule_jobs"
}
