// Trend aggregation over the trailing review window.

package analysis

import (
	"sort"
	"strings"
	"time"

	"github.com/dpetrakis/pulsedash/internal/models"
)

// windowDays is the length of the trailing window in whole days: the report
// spans [asOf-30d, asOf], inclusive on both ends, i.e. 31 calendar days.
const windowDays = 30

const dateKeyLayout = "2006-01-02"

// BuildReport aggregates reviews into per-topic, per-day counts over the
// trailing window ending at asOf and returns the rows sorted by total
// descending, topic name ascending on ties.
//
// Every seed topic gets a row even with no matching reviews; an "Other" row
// appears only when an in-window review matched no seed topic. Reviews
// outside the window, and reviews whose date fails to parse, are silently
// dropped — this is best-effort analytics, not a validated pipeline.
func BuildReport(reviews []models.Review, asOf time.Time) []models.TopicTrend {
	counts := make(map[string]map[string]int, len(SeedTopics)+1)
	for _, topic := range SeedTopics {
		counts[topic] = map[string]int{}
	}

	windowStart := asOf.AddDate(0, 0, -windowDays)

	for _, review := range reviews {
		reviewDate, err := time.Parse(time.RFC3339, review.Date)
		if err != nil {
			continue
		}
		if reviewDate.Before(windowStart) || reviewDate.After(asOf) {
			continue
		}

		dateKey := reviewDate.UTC().Format(dateKeyLayout)
		for _, topic := range Classify(review.Text) {
			if counts[topic] == nil {
				counts[topic] = map[string]int{}
			}
			counts[topic][dateKey]++
		}
	}

	report := make([]models.TopicTrend, 0, len(counts))
	for topic, dates := range counts {
		total := 0
		for _, n := range dates {
			total += n
		}
		report = append(report, models.TopicTrend{Topic: topic, Dates: dates, Total: total})
	}

	sort.Slice(report, func(i, j int) bool {
		if report[i].Total != report[j].Total {
			return report[i].Total > report[j].Total
		}
		return report[i].Topic < report[j].Topic
	})

	return report
}

// DateRange returns the 31 date keys of the trailing window ending at asOf,
// ascending. Consumers use it to build fixed-column tables and charts; it
// matches BuildReport's window exactly.
func DateRange(asOf time.Time) []string {
	day := asOf.UTC().Truncate(24 * time.Hour)
	start := day.AddDate(0, 0, -windowDays)

	dates := make([]string, 0, windowDays+1)
	for d := start; !d.After(day); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateKeyLayout))
	}
	return dates
}

// ChartRows transforms a ranked report into typed per-date rows for the
// top-N topics, one row per window date. Dates absent from a topic's counts
// come through as explicit zeroes so chart columns stay aligned.
func ChartRows(report []models.TopicTrend, asOf time.Time, topN int) []models.ChartRow {
	if topN > len(report) {
		topN = len(report)
	}
	top := report[:topN]

	dates := DateRange(asOf)
	rows := make([]models.ChartRow, 0, len(dates))
	for _, date := range dates {
		row := models.ChartRow{Date: date, Counts: make(map[string]int, len(top))}
		for _, trend := range top {
			row.Counts[trend.Topic] = trend.Dates[date]
		}
		rows = append(rows, row)
	}
	return rows
}

// positiveRatingThreshold marks a review as positive feedback. The demo this
// replaces reported a flat 35% of all reviews; counting actual ratings is a
// documented divergence.
const positiveRatingThreshold = 4

// Summarize computes the dashboard stat card values from the raw reviews and
// their ranked report. Issues are topics whose name mentions "issue" or
// "concern".
func Summarize(reviews []models.Review, report []models.TopicTrend) models.DashboardStats {
	stats := models.DashboardStats{TotalReviews: len(reviews)}

	for _, review := range reviews {
		if review.Rating >= positiveRatingThreshold {
			stats.PositiveCount++
		}
	}

	for _, trend := range report {
		if trend.Total > stats.TopIssueCount {
			stats.TopIssueTopic = trend.Topic
			stats.TopIssueCount = trend.Total
		}
		lowered := strings.ToLower(trend.Topic)
		if strings.Contains(lowered, "issue") || strings.Contains(lowered, "concern") {
			stats.IssuesCount += trend.Total
		}
	}

	if stats.TopIssueTopic == "" {
		stats.TopIssueTopic = "N/A"
	}
	return stats
}
