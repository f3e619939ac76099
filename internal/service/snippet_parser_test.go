package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnippetToArticles(t *testing.T) {
	tests := []struct {
		name       string
		snippet    string
		wantTitles []string
	}{
		{
			name:       "single heading with body",
			snippet:    "## Sensex rallies 500 points\nBanking stocks led the charge on strong earnings.",
			wantTitles: []string{"Sensex rallies 500 points"},
		},
		{
			name: "multiple headings split into candidates",
			snippet: "## Sensex rallies 500 points\nBanking stocks led the charge.\n" +
				"### Nifty IT under pressure\nIT majors slipped after weak guidance.",
			wantTitles: []string{"Sensex rallies 500 points", "Nifty IT under pressure"},
		},
		{
			name:       "text before first heading forms its own chunk",
			snippet:    "RBI policy decision lifts rate sensitive stocks\n## Sensex rallies 500 points\nBroad based buying.",
			wantTitles: []string{"RBI policy decision lifts rate sensitive stocks", "Sensex rallies 500 points"},
		},
		{
			name:       "short titles are discarded",
			snippet:    "## Too short\nSome body text here.\n## Midcaps outperform on strong flows\nDomestic funds kept buying.",
			wantTitles: []string{"Midcaps outperform on strong flows"},
		},
		{
			name:       "multi-word headings containing placeholder words survive",
			snippet:    "## Latest News More\n## Pharma stocks gain on FDA approvals\nApprovals for two major drugs.",
			wantTitles: []string{"Latest News More", "Pharma stocks gain on FDA approvals"},
		},
		{
			name:       "exact placeholder headings are discarded",
			snippet:    "## Latest\n## Pharma stocks gain on FDA approvals\nApprovals for two major drugs.",
			wantTitles: []string{"Pharma stocks gain on FDA approvals"},
		},
		{
			name:       "level one headings do not split",
			snippet:    "# Market Overview Today\nAuto stocks extended their winning streak.",
			wantTitles: []string{"Market Overview Today"},
		},
		{
			name:       "empty snippet yields nothing",
			snippet:    "",
			wantTitles: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSnippetToArticles(tt.snippet, "https://example.com/a", "Example")
			var titles []string
			for _, a := range got {
				titles = append(titles, a.Title)
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestParseSnippetToArticles_SummaryHandling(t *testing.T) {
	t.Run("summary collapses whitespace", func(t *testing.T) {
		got := ParseSnippetToArticles("## Metal stocks surge on China stimulus\nLine one.\n\n  Line   two.", "https://example.com", "Example")
		require.Len(t, got, 1)
		assert.Equal(t, "Line one. Line two.", got[0].Summary)
	})

	t.Run("empty summary falls back to title", func(t *testing.T) {
		got := ParseSnippetToArticles("## FMCG names steady ahead of results", "https://example.com", "Example")
		require.Len(t, got, 1)
		assert.Equal(t, got[0].Title, got[0].Summary)
	})

	t.Run("long summary is truncated to 500 runes", func(t *testing.T) {
		body := strings.Repeat("a", 600)
		got := ParseSnippetToArticles("## Realty stocks extend gains this week\n"+body, "https://example.com", "Example")
		require.Len(t, got, 1)
		assert.Len(t, []rune(got[0].Summary), 500)
	})

	t.Run("long title is truncated to 200 runes", func(t *testing.T) {
		title := strings.Repeat("b", 250)
		got := ParseSnippetToArticles("## "+title, "https://example.com", "Example")
		require.Len(t, got, 1)
		assert.Len(t, []rune(got[0].Title), 200)
	})

	t.Run("exactly ten rune title is kept", func(t *testing.T) {
		got := ParseSnippetToArticles("## ABCDEFGHIJ\nBody text for the candidate.", "https://example.com", "Example")
		require.Len(t, got, 1)
		assert.Equal(t, "ABCDEFGHIJ", got[0].Title)
	})

	t.Run("source fields are carried through", func(t *testing.T) {
		got := ParseSnippetToArticles("## Energy stocks rally on crude slide\nBody.", "https://example.com/x", "Example News")
		require.Len(t, got, 1)
		assert.Equal(t, "https://example.com/x", got[0].SourceURL)
		assert.Equal(t, "Example News", got[0].SourceName)
	})
}

func TestSplitHeadingChunks(t *testing.T) {
	chunks := splitHeadingChunks("intro line\n## First\nbody\n### Second\nmore")
	assert.Equal(t, []string{"intro line", "## First\nbody", "### Second\nmore"}, chunks)
}
