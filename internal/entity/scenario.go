package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Scenario is an AI-generated "what-if" outcome for a news record.
// Rows are append-only: once the count for a news record meets the
// requested count, generation reuses them instead of calling the provider.
type Scenario struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	NewsID            uint           `gorm:"not null;index" json:"news_id"`
	Title             string         `gorm:"type:varchar(300);not null" json:"title"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	Probability       *float64       `json:"probability,omitempty"`
	ImpactAnalysis    datatypes.JSON `json:"impact_analysis,omitempty"`
	HistoricalContext string         `gorm:"type:text" json:"historical_context,omitempty"`
	UserParameters    datatypes.JSON `json:"user_parameters,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	CreatedBy         string         `gorm:"type:varchar(100)" json:"created_by,omitempty"`
}

// TableName specifies the table name for the Scenario model.
func (Scenario) TableName() string {
	return "scenarios"
}
