package dto

// FetchAllResult aggregates one pass over every enabled job.
type FetchAllResult struct {
	Succeeded int `json:"success"`
	Failed    int `json:"failed"`
	TotalNews int `json:"total_news"`
}

// CacheStats summarizes the in-memory recent-news cache.
type CacheStats struct {
	TotalNews    int `json:"total_news"`
	StockSymbols int `json:"stock_symbols"`
}

// FetchJobResponse reports the outcome of one manually triggered job fetch.
type FetchJobResponse struct {
	JobName      string `json:"job_name"`
	NewsInserted int    `json:"news_inserted"`
	TriggeredBy  string `json:"triggered_by"`
}

// GenerateScenariosRequest is the payload for a scenario generation call.
type GenerateScenariosRequest struct {
	NumScenarios int               `json:"num_scenarios"`
	Parameters   map[string]string `json:"parameters,omitempty"`
}

// SetAPIKeyRequest carries a provider credential update.
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// APIKeyStatusResponse reports credential state and validation outcome.
type APIKeyStatusResponse struct {
	Configured bool   `json:"configured"`
	Valid      bool   `json:"valid,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ErrorResponse is the generic error body for HTTP handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}
