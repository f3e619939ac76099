package entity

import (
	"time"
)

// News type tags.
const (
	NewsTypeSummary = "summary"
	NewsTypeArticle = "article"
)

// Job categories that drive the fetch strategy.
const (
	CategoryMarket = "market"
	CategorySector = "sector"
	CategoryStock  = "stock"
)

// News represents a single ingested market-news record. Summary-type rows
// hold one AI-generated digest; article-type rows are discrete headlines
// parsed out of search snippets.
type News struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Title        string     `gorm:"type:varchar(200);not null;index" json:"title"`
	Summary      string     `gorm:"type:varchar(500);not null" json:"summary"`
	Content      string     `gorm:"type:text" json:"content,omitempty"`
	Category     string     `gorm:"type:varchar(50);not null" json:"category"`
	Subcategory  string     `gorm:"type:varchar(50)" json:"subcategory"`
	NewsType     string     `gorm:"type:varchar(20);not null" json:"news_type"`
	SourceURL    string     `gorm:"type:text" json:"source_url,omitempty"`
	SourceName   string     `gorm:"type:varchar(200)" json:"source_name,omitempty"`
	SourceDomain string     `gorm:"type:varchar(200)" json:"source_domain,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	FetchedAt    time.Time  `gorm:"not null" json:"fetched_at"`
	Symbols      string     `gorm:"type:varchar(50)" json:"symbols,omitempty"`
	IsPublished  bool       `gorm:"default:true" json:"is_published"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	Citations    []Citation `gorm:"foreignKey:NewsID" json:"citations,omitempty"`
}

// TableName specifies the table name for the News model.
func (News) TableName() string {
	return "news"
}

// Citation links a summary-type news record to one of its provider-supplied
// source URLs.
type Citation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	NewsID        uint      `gorm:"not null;index" json:"news_id"`
	CitationIndex int       `json:"citation_index"`
	URL           string    `gorm:"type:text;not null" json:"url"`
	Title         string    `gorm:"type:varchar(300)" json:"title,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the Citation model.
func (Citation) TableName() string {
	return "citations"
}
