package telegram

import (
	"fmt"
	"time"
)

// FormatJobFailure renders a scheduled fetch failure for the ops chat.
func FormatJobFailure(jobName string, at time.Time, err error) string {
	return fmt.Sprintf("*News fetch failed*\nJob: `%s`\nTime: %s\nError: %s",
		jobName, at.Format("02 Jan 2006 15:04 MST"), err.Error())
}

// FormatFetchReport renders the aggregate result of a fetch-all pass.
func FormatFetchReport(triggeredBy string, succeeded, failed, totalNews int) string {
	return fmt.Sprintf("*News fetch report* (%s)\nJobs succeeded: %d\nJobs failed: %d\nArticles inserted: %d",
		triggeredBy, succeeded, failed, totalNews)
}
