package service

import (
	"testing"
	"time"

	"github.com/marketcalls/FinSights/internal/entity"
	"github.com/marketcalls/FinSights/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronSpecForJob(t *testing.T) {
	tests := []struct {
		name    string
		job     entity.ScheduleJob
		want    string
		wantErr bool
	}{
		{
			name: "daily cron time",
			job:  entity.ScheduleJob{JobName: "post_market_summary", ScheduleType: entity.ScheduleTypeCron, CronTime: "16:00"},
			want: "0 16 * * *",
		},
		{
			name: "cron time with minutes",
			job:  entity.ScheduleJob{JobName: "pre_market_summary", ScheduleType: entity.ScheduleTypeCron, CronTime: "08:30"},
			want: "30 8 * * *",
		},
		{
			name: "interval schedule",
			job:  entity.ScheduleJob{JobName: "banking_sector", ScheduleType: entity.ScheduleTypeInterval, IntervalMinutes: 120},
			want: "@every 120m",
		},
		{
			name:    "malformed cron time",
			job:     entity.ScheduleJob{JobName: "bad", ScheduleType: entity.ScheduleTypeCron, CronTime: "noon"},
			wantErr: true,
		},
		{
			name:    "out of range hour",
			job:     entity.ScheduleJob{JobName: "bad", ScheduleType: entity.ScheduleTypeCron, CronTime: "25:00"},
			wantErr: true,
		},
		{
			name:    "non-positive interval",
			job:     entity.ScheduleJob{JobName: "bad", ScheduleType: entity.ScheduleTypeInterval, IntervalMinutes: 0},
			wantErr: true,
		},
		{
			name:    "unknown schedule type",
			job:     entity.ScheduleJob{JobName: "bad", ScheduleType: "weekly"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CronSpecForJob(&tt.job)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextRunTime(t *testing.T) {
	ist := utils.GetISTLocation()

	t.Run("daily cron job fires at the IST wall-clock time", func(t *testing.T) {
		job := &entity.ScheduleJob{JobName: "post_market_summary", ScheduleType: entity.ScheduleTypeCron, CronTime: "16:00"}
		now := time.Date(2026, 3, 10, 10, 0, 0, 0, ist)

		next, err := nextRunTime(job, now)
		require.NoError(t, err)
		assert.True(t, next.Equal(time.Date(2026, 3, 10, 16, 0, 0, 0, ist)))
	})

	t.Run("past the slot rolls over to the next day", func(t *testing.T) {
		job := &entity.ScheduleJob{JobName: "pre_market_summary", ScheduleType: entity.ScheduleTypeCron, CronTime: "08:30"}
		now := time.Date(2026, 3, 10, 9, 0, 0, 0, ist)

		next, err := nextRunTime(job, now)
		require.NoError(t, err)
		assert.True(t, next.Equal(time.Date(2026, 3, 11, 8, 30, 0, 0, ist)))
	})

	t.Run("interval job fires after the interval", func(t *testing.T) {
		job := &entity.ScheduleJob{JobName: "banking_sector", ScheduleType: entity.ScheduleTypeInterval, IntervalMinutes: 120}
		now := time.Date(2026, 3, 10, 10, 0, 0, 0, ist)

		next, err := nextRunTime(job, now)
		require.NoError(t, err)
		assert.True(t, next.Equal(now.Add(2*time.Hour)))
	})

	t.Run("invalid schedule is an error", func(t *testing.T) {
		job := &entity.ScheduleJob{JobName: "bad", ScheduleType: "weekly"}
		_, err := nextRunTime(job, time.Now())
		require.Error(t, err)
	})
}
