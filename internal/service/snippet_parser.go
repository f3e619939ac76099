package service

import (
	"regexp"
	"strings"

	"github.com/marketcalls/FinSights/internal/dto"
)

const (
	maxTitleLen   = 200
	maxSummaryLen = 500
	minTitleLen   = 10
)

var (
	headingRe    = regexp.MustCompile(`^#{2,3}\s`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Placeholder headings that never carry a real article.
	trivialTitles = map[string]struct{}{
		"news":   {},
		"more":   {},
		"latest": {},
	}
)

// ParseSnippetToArticles splits a multi-headline snippet into discrete
// article candidates. It is pure and deterministic: chunks start at
// markdown level-2/3 heading lines, the heading becomes the title, the
// remaining lines become the summary. Chunks with short or placeholder
// titles are discarded, order is preserved, and every candidate carries
// the shared source URL and name.
func ParseSnippetToArticles(snippet, sourceURL, sourceName string) []dto.ArticleCandidate {
	var articles []dto.ArticleCandidate

	for _, chunk := range splitHeadingChunks(snippet) {
		lines := strings.Split(chunk, "\n")
		title := strings.TrimSpace(strings.TrimLeft(lines[0], "#"))

		if len([]rune(title)) < minTitleLen {
			continue
		}
		if _, trivial := trivialTitles[strings.ToLower(title)]; trivial {
			continue
		}

		summary := ""
		if len(lines) > 1 {
			summary = strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
		summary = whitespaceRe.ReplaceAllString(summary, " ")
		summary = truncateRunes(summary, maxSummaryLen)
		if summary == "" {
			summary = title
		}

		articles = append(articles, dto.ArticleCandidate{
			Title:      truncateRunes(title, maxTitleLen),
			Summary:    summary,
			SourceURL:  sourceURL,
			SourceName: sourceName,
		})
	}

	return articles
}

// splitHeadingChunks breaks the snippet into chunks beginning at each
// level-2/3 heading line. Text before the first heading forms its own
// chunk.
func splitHeadingChunks(snippet string) []string {
	var chunks []string
	var current []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(current, "\n"))
		if text != "" {
			chunks = append(chunks, text)
		}
		current = current[:0]
	}

	for _, line := range strings.Split(snippet, "\n") {
		if headingRe.MatchString(line) {
			flush()
		}
		current = append(current, line)
	}
	flush()

	return chunks
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
