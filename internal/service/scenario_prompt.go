package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marketcalls/FinSights/internal/entity"
)

// promptContentLimit caps how much article body is embedded in the prompt.
const promptContentLimit = 2000

// BuildScenarioPrompt composes the scenario-generation prompt from the news
// record and optional user parameters. Deterministic for the same inputs so
// the ledger's query prefix stays stable across retries.
func BuildScenarioPrompt(news *entity.News, numScenarios int, parameters map[string]string) string {
	var b strings.Builder

	b.WriteString("You are a financial analyst specializing in Indian stock markets (NSE/BSE).\n\n")
	b.WriteString("Analyze the following market news and generate ")
	b.WriteString(fmt.Sprintf("%d distinct \"what-if\" scenarios describing how events could unfold.\n\n", numScenarios))

	b.WriteString(fmt.Sprintf("News Title: %s\n", news.Title))
	if news.Summary != "" {
		b.WriteString(fmt.Sprintf("News Summary: %s\n", news.Summary))
	}
	if news.Content != "" {
		b.WriteString(fmt.Sprintf("News Content: %s\n", truncateRunes(news.Content, promptContentLimit)))
	}
	if news.Category != "" {
		category := news.Category
		if news.Subcategory != "" {
			category = fmt.Sprintf("%s - %s", category, news.Subcategory)
		}
		b.WriteString(fmt.Sprintf("Category: %s\n", category))
	}
	if news.Symbols != "" {
		b.WriteString(fmt.Sprintf("Related Symbols: %s\n", news.Symbols))
	}

	if len(parameters) > 0 {
		b.WriteString("\nAdditional constraints from the user:\n")
		keys := make([]string, 0, len(parameters))
		for k := range parameters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("- %s: %s\n", k, parameters[k]))
		}
	}

	b.WriteString("\nRequirements:\n")
	b.WriteString(fmt.Sprintf("1. Generate exactly %d scenarios covering bullish, bearish and neutral outcomes.\n", numScenarios))
	b.WriteString("2. Assign each scenario a probability between 0.0 and 1.0; probabilities should sum to approximately 1.0.\n")
	b.WriteString("3. For each scenario, estimate the impact on relevant sectors, indices (Nifty, Sensex, Bank Nifty) and individual stocks as percentage moves.\n")
	b.WriteString("4. Where similar events have happened before, add historical context describing how markets reacted.\n")
	b.WriteString("5. Ground every estimate in the news above; do not invent facts.\n")

	return b.String()
}
