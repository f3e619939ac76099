package common

// SettingKeyPerplexityAPIKey is the settings row holding the provider credential.
const SettingKeyPerplexityAPIKey = "perplexity_api_key"

// DefaultNewsSources is the static domain allowlist used when no active
// news sources are configured in the database.
var DefaultNewsSources = []string{
	"moneycontrol.com",
	"economictimes.indiatimes.com",
	"livemint.com",
	"business-standard.com",
	"ndtvprofit.com",
	"financialexpress.com",
	"thehindubusinessline.com",
	"cnbctv18.com",
	"zeebiz.com",
	"businesstoday.in",
}
