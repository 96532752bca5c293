// Domain model definitions shared across packages.

package models

import "time"

// Review is a single customer review. Reviews are immutable once created;
// Date is an RFC 3339 timestamp kept as a string because source feeds are
// not validated — consumers parse it tolerantly.
type Review struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// TopicTrend is one row of a trend report: per-day review counts for a topic
// over the trailing window, plus their sum. It is recomputed on demand and
// never persisted.
type TopicTrend struct {
	Topic string         `json:"topic"`
	Dates map[string]int `json:"dates"`
	Total int            `json:"total"`
}

// ChartRow is one per-date point of the trend chart: the date key and the
// count for each of the charted topics on that date.
type ChartRow struct {
	Date   string         `json:"date"`
	Counts map[string]int `json:"counts"`
}

// DashboardStats holds the values rendered on the dashboard stat cards.
type DashboardStats struct {
	TotalReviews  int    `json:"total_reviews"`
	TopIssueTopic string `json:"top_issue_topic"`
	TopIssueCount int    `json:"top_issue_count"`
	PositiveCount int    `json:"positive_count"`
	IssuesCount   int    `json:"issues_count"`
}

type VideoState string

const (
	VideoStateUploading  VideoState = "uploading"
	VideoStateProcessing VideoState = "processing"
	VideoStateSafe       VideoState = "safe"
	VideoStateFlagged    VideoState = "flagged"
)

// Terminal reports whether the state is final. A terminal video never
// changes state or progress again.
func (s VideoState) Terminal() bool {
	return s == VideoStateSafe || s == VideoStateFlagged
}

// Video is one uploaded unit moving through the moderation pipeline.
// The videos package owns the canonical record; callers only ever see copies.
type Video struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"owner_id"`
	Filename        string     `json:"filename"`
	State           VideoState `json:"state"`
	Progress        float64    `json:"progress"`
	UploadedAt      time.Time  `json:"uploaded_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	SizeBytes       int64      `json:"size_bytes,omitempty"`
}

// VideoChunk is the result of a range read against a video. Chunk is a
// placeholder identifying the span; a real pipeline would carry bytes.
type VideoChunk struct {
	Chunk     string `json:"chunk"`
	TotalSize int64  `json:"total_size"`
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
}
