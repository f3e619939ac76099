package entity

import (
	"time"
)

// ApiLog event kinds.
const (
	EventTypeAPICall            = "api_call"
	EventTypeScenarioGeneration = "scenario_generation"
	EventTypeManualTrigger      = "manual_trigger"
	EventTypeError              = "error"
)

// ApiLog statuses. StatusPending is reserved and not reached by the
// current flows.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

// Setting is a key/value application setting stored in the database.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"type:varchar(100);unique;not null" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Encrypted bool      `gorm:"default:false" json:"encrypted"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	UpdatedBy string    `gorm:"type:varchar(100)" json:"updated_by,omitempty"`
}

// TableName specifies the table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}

// NewsSource is a trusted source domain used to build the provider's
// domain allowlist.
type NewsSource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Domain    string    `gorm:"type:varchar(200);unique;not null" json:"domain"`
	Name      string    `gorm:"type:varchar(200)" json:"name,omitempty"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	Priority  int       `gorm:"default:0" json:"priority"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the NewsSource model.
func (NewsSource) TableName() string {
	return "news_sources"
}

// ApiLog is an append-only record of one external provider call attempt.
// Entries are created with their terminal status and never revised.
type ApiLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
	EventType      string    `gorm:"type:varchar(50);not null" json:"event_type"`
	JobName        string    `gorm:"type:varchar(100)" json:"job_name,omitempty"`
	Query          string    `gorm:"type:text" json:"query"`
	Status         string    `gorm:"type:varchar(20)" json:"status"`
	ResponseTimeMs int64     `json:"response_time_ms"`
	NewsCount      int       `json:"news_count"`
	ErrorMessage   string    `gorm:"type:text" json:"error_message,omitempty"`
	TriggeredBy    string    `gorm:"type:varchar(100)" json:"triggered_by"`
}

// TableName specifies the table name for the ApiLog model.
func (ApiLog) TableName() string {
	return "api_logs"
}
