package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marketcalls/FinSights/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
)

// ContentEnricher fetches the readable full text of an article's source
// page. It is best-effort: callers keep summary-only articles when a fetch
// fails.
type ContentEnricher struct {
	client *http.Client
	logger *logger.Logger
}

// NewContentEnricher creates a new content enricher.
func NewContentEnricher(log *logger.Logger) *ContentEnricher {
	return &ContentEnricher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log,
	}
}

// Fetch downloads the page and extracts its readable text.
func (e *ContentEnricher) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch page, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse page content: %w", err)
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse readable content: %w", err)
	}

	content := strings.TrimSpace(docHTML.Text())
	content = whitespaceRe.ReplaceAllString(content, " ")
	return content, nil
}
