package handlers

import (
	"context"
	"time"

	"github.com/dpetrakis/pulsedash/internal/analysis"
	"github.com/dpetrakis/pulsedash/internal/models"
	"github.com/dpetrakis/pulsedash/internal/reviews"
	"github.com/dpetrakis/pulsedash/internal/videos"
)

// Handlers holds the business logic behind the HTTP routes: trend analytics
// over the review store and the simulated video pipeline.
type Handlers struct {
	reviews reviews.Repository
	videos  *videos.Processor
}

func New(reviewRepo reviews.Repository, processor *videos.Processor) *Handlers {
	return &Handlers{reviews: reviewRepo, videos: processor}
}

// UploadVideoRequest is the POST /videos payload.
type UploadVideoRequest struct {
	Filename  string `json:"filename"`
	SizeBytes int64  `json:"size_bytes"`
}

// TrendReportResponse bundles a ranked report with the window's date columns.
type TrendReportResponse struct {
	AsOf   string              `json:"as_of"`
	Dates  []string            `json:"dates"`
	Report []models.TopicTrend `json:"report"`
}

// TrendReport builds the ranked topic report for the window ending at asOf.
func (h *Handlers) TrendReport(ctx context.Context, asOf time.Time) (*TrendReportResponse, error) {
	items, err := h.reviews.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return &TrendReportResponse{
		AsOf:   asOf.UTC().Format("2006-01-02"),
		Dates:  analysis.DateRange(asOf),
		Report: analysis.BuildReport(items, asOf),
	}, nil
}

// TrendChart returns typed per-date chart rows for the top-N topics.
func (h *Handlers) TrendChart(ctx context.Context, asOf time.Time, topN int) ([]models.ChartRow, error) {
	items, err := h.reviews.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	report := analysis.BuildReport(items, asOf)
	return analysis.ChartRows(report, asOf, topN), nil
}

// DashboardStats computes the stat card values for the dashboard header.
func (h *Handlers) DashboardStats(ctx context.Context, asOf time.Time) (models.DashboardStats, error) {
	items, err := h.reviews.ListReviews(ctx)
	if err != nil {
		return models.DashboardStats{}, err
	}
	report := analysis.BuildReport(items, asOf)
	return analysis.Summarize(items, report), nil
}

// UploadVideo validates the request and registers a new video whose simulated
// upload starts immediately. Returns the new video id.
func (h *Handlers) UploadVideo(ownerID string, req *UploadVideoRequest) (string, error) {
	if err := validateUpload(req); err != nil {
		return "", err
	}
	return h.videos.Create(ownerID, req.Filename, req.SizeBytes), nil
}

// GetVideo returns a snapshot of one video, or videos.ErrNotFound.
func (h *Handlers) GetVideo(videoID string) (models.Video, error) {
	return h.videos.Get(videoID)
}

// ListVideos returns the owner's videos, newest first.
func (h *Handlers) ListVideos(ownerID string) []models.Video {
	return h.videos.ListByOwner(ownerID)
}

// StreamVideo answers a range read against a safe video; videos.ErrNotAvailable
// covers unknown ids and every non-safe state.
func (h *Handlers) StreamVideo(videoID string, start, end *int64) (models.VideoChunk, error) {
	return h.videos.ReadRange(videoID, start, end)
}
