package dto

// Message is a single chat message in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// WebSearchOptions constrains the provider's web search behind a chat call.
type WebSearchOptions struct {
	SearchRecencyFilter string   `json:"search_recency_filter,omitempty"`
	SearchDomainFilter  []string `json:"search_domain_filter,omitempty"`
	MaxSearchResults    int      `json:"max_search_results,omitempty"`
}

// JSONSchemaSpec carries the schema body of a structured-output format.
type JSONSchemaSpec struct {
	Schema map[string]interface{} `json:"schema"`
}

// ResponseFormat requests schema-constrained structured output.
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *JSONSchemaSpec `json:"json_schema,omitempty"`
}

// ChatCompletionRequest is the payload for the chat-style endpoint.
type ChatCompletionRequest struct {
	Model            string            `json:"model"`
	Messages         []Message         `json:"messages"`
	WebSearchOptions *WebSearchOptions `json:"web_search_options,omitempty"`
	ResponseFormat   *ResponseFormat   `json:"response_format,omitempty"`
}

// Choice is one completion candidate returned by the provider.
type Choice struct {
	Message Message `json:"message"`
}

// ChatCompletionResponse is the chat-style endpoint response.
type ChatCompletionResponse struct {
	ID        string   `json:"id"`
	Model     string   `json:"model"`
	Choices   []Choice `json:"choices"`
	Citations []string `json:"citations,omitempty"`
}

// FirstContent returns the first choice's message body, or "" when the
// provider returned no choices.
func (r *ChatCompletionResponse) FirstContent() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// SearchRequest is the payload for the search-style endpoint, carrying
// multiple query strings and a per-query result cap.
type SearchRequest struct {
	Query      []string `json:"query"`
	MaxResults int      `json:"max_results,omitempty"`
}

// SearchResult is one raw search hit: a multi-headline snippet body plus
// its source fields.
type SearchResult struct {
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Date    string `json:"date,omitempty"`
}

// Valid reports whether the result carries the fields the ingestion path
// requires.
func (r SearchResult) Valid() bool {
	return r.Snippet != "" && r.URL != ""
}

// SearchResponse is the search-style endpoint response.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// Citation is a provider-supplied source reference for a summary.
type Citation struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// SummaryResult is the normalized outcome of a summary fetch.
type SummaryResult struct {
	Content   string     `json:"content"`
	Citations []Citation `json:"citations"`
	FetchedAt string     `json:"fetched_at"`
}

// ArticleCandidate is one discrete article parsed out of a search snippet.
type ArticleCandidate struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	SourceURL  string `json:"source_url"`
	SourceName string `json:"source_name"`
}
