package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dpetrakis/pulsedash/internal/config"
	"github.com/dpetrakis/pulsedash/internal/handlers"
	"github.com/dpetrakis/pulsedash/internal/logging"
	"github.com/dpetrakis/pulsedash/internal/models"
	"github.com/dpetrakis/pulsedash/internal/reviews"
	"github.com/dpetrakis/pulsedash/internal/videos"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testToken(sub string) string {
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	s, _ := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	return s
}

func addAuthHeader(req *http.Request, ownerID string) {
	req.Header.Set("Authorization", "Bearer "+testToken(ownerID))
}

type testEnv struct {
	router *chi.Mux
	repo   *reviews.MemoryRepository
	clock  *clockwork.FakeClock
}

func setupTestRouter(t *testing.T, rl config.RateLimitConfig) testEnv {
	t.Helper()
	logger := testLogger()

	repo := reviews.NewMemoryRepository()
	clock := clockwork.NewFakeClock()
	cfg := videos.DefaultConfig()
	cfg.SafeProbability = 1
	processor := videos.NewProcessor(cfg, clock, rand.New(rand.NewSource(3)), logger)

	router := chi.NewRouter()
	router.Use(logging.RequestLogger(logger))
	router.Group(RegisterDashboardRoutes(handlers.New(repo, processor), "", rl))

	return testEnv{router: router, repo: repo, clock: clock}
}

func doRequest(env testEnv, method, target string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	addAuthHeader(req, "user1")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func uploadVideo(t *testing.T, env testEnv) string {
	t.Helper()
	body, _ := json.Marshal(handlers.UploadVideoRequest{Filename: "clip.mp4", SizeBytes: 4096})
	rec := doRequest(env, http.MethodPost, "/api/v1/videos", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["video_id"] == "" {
		t.Fatal("expected a video_id in the response")
	}
	return resp["video_id"]
}

// waitForSafe advances the fake clock until the video reaches the safe state.
func waitForSafe(t *testing.T, env testEnv, videoID string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		env.clock.Advance(250 * time.Millisecond)
		time.Sleep(time.Millisecond)

		rec := doRequest(env, http.MethodGet, "/api/v1/videos/"+videoID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 while polling, got %d", rec.Code)
		}
		var video models.Video
		if err := json.Unmarshal(rec.Body.Bytes(), &video); err != nil {
			t.Fatalf("failed to decode video: %v", err)
		}
		if video.State == models.VideoStateSafe {
			return
		}
	}
	t.Fatal("video did not reach safe state before deadline")
}

func TestAuthRequired(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})

	paths := []string{
		"/api/v1/trends",
		"/api/v1/trends/chart",
		"/api/v1/dashboard/stats",
		"/api/v1/videos",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 without token, got %d", rec.Code)
			}
		})
	}
}

func TestTrendReportRoute(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})
	err := env.repo.AddReview(context.Background(), models.Review{
		ID: "r1", Date: "2025-06-15T09:00:00Z", Text: "the delivery was late again", Rating: 2,
	})
	if err != nil {
		t.Fatalf("failed to seed review: %v", err)
	}

	rec := doRequest(env, http.MethodGet, "/api/v1/trends?as_of=2025-06-15", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.TrendReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.AsOf != "2025-06-15" {
		t.Errorf("expected as_of 2025-06-15, got %s", resp.AsOf)
	}
	if len(resp.Dates) != 31 {
		t.Errorf("expected 31 date columns, got %d", len(resp.Dates))
	}
	if len(resp.Report) == 0 || resp.Report[0].Topic != "Delivery issue" {
		t.Errorf("expected Delivery issue ranked first, got %+v", resp.Report)
	}
}

func TestTrendReportRoute_BadAsOf(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})

	rec := doRequest(env, http.MethodGet, "/api/v1/trends?as_of=not-a-date", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestTrendChartRoute(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})

	t.Run("default top", func(t *testing.T) {
		rec := doRequest(env, http.MethodGet, "/api/v1/trends/chart?as_of=2025-06-15", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var rows []models.ChartRow
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("failed to decode rows: %v", err)
		}
		if len(rows) != 31 {
			t.Errorf("expected 31 rows, got %d", len(rows))
		}
	})

	t.Run("top out of range", func(t *testing.T) {
		rec := doRequest(env, http.MethodGet, "/api/v1/trends/chart?top=99", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDashboardStatsRoute(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})
	err := env.repo.AddReview(context.Background(), models.Review{
		ID: "r1", Date: "2025-06-15T09:00:00Z", Text: "great service", Rating: 5,
	})
	if err != nil {
		t.Fatalf("failed to seed review: %v", err)
	}

	rec := doRequest(env, http.MethodGet, "/api/v1/dashboard/stats?as_of=2025-06-15", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats models.DashboardStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.TotalReviews != 1 || stats.PositiveCount != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestUploadVideoRoute(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})

	t.Run("creates a video", func(t *testing.T) {
		videoID := uploadVideo(t, env)

		rec := doRequest(env, http.MethodGet, "/api/v1/videos/"+videoID, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var video models.Video
		if err := json.Unmarshal(rec.Body.Bytes(), &video); err != nil {
			t.Fatalf("failed to decode video: %v", err)
		}
		if video.State != models.VideoStateUploading {
			t.Errorf("expected uploading state, got %s", video.State)
		}
		if video.OwnerID != "user1" {
			t.Errorf("expected owner user1, got %s", video.OwnerID)
		}
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		rec := doRequest(env, http.MethodPost, "/api/v1/videos", []byte("not json"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("rejects missing filename", func(t *testing.T) {
		body, _ := json.Marshal(handlers.UploadVideoRequest{SizeBytes: 4096})
		rec := doRequest(env, http.MethodPost, "/api/v1/videos", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})
}

func TestListVideosRoute(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})
	videoID := uploadVideo(t, env)

	rec := doRequest(env, http.MethodGet, "/api/v1/videos", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []models.Video
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(list) != 1 || list[0].ID != videoID {
		t.Errorf("expected the uploaded video, got %+v", list)
	}
}

func TestGetVideoRoute_NotFound(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})

	rec := doRequest(env, http.MethodGet, "/api/v1/videos/vid-missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestStreamVideoRoute(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{})
	videoID := uploadVideo(t, env)

	t.Run("conflict before moderation clears", func(t *testing.T) {
		rec := doRequest(env, http.MethodGet, "/api/v1/videos/"+videoID+"/stream", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409 while uploading, got %d", rec.Code)
		}
	})

	t.Run("serves a range once safe", func(t *testing.T) {
		waitForSafe(t, env, videoID)

		rec := doRequest(env, http.MethodGet, "/api/v1/videos/"+videoID+"/stream?start=0&end=99", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var chunk models.VideoChunk
		if err := json.Unmarshal(rec.Body.Bytes(), &chunk); err != nil {
			t.Fatalf("failed to decode chunk: %v", err)
		}
		if chunk.Start != 0 || chunk.End != 99 {
			t.Errorf("expected range 0-99, got %d-%d", chunk.Start, chunk.End)
		}
		if chunk.Chunk == "" {
			t.Error("expected non-empty chunk payload")
		}
	})

	t.Run("rejects non-integer range bound", func(t *testing.T) {
		rec := doRequest(env, http.MethodGet, "/api/v1/videos/"+videoID+"/stream?start=abc", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown id conflicts like a restricted video", func(t *testing.T) {
		rec := doRequest(env, http.MethodGet, "/api/v1/videos/vid-missing/stream", nil)
		if rec.Code != http.StatusConflict {
			t.Errorf("expected 409, got %d", rec.Code)
		}
	})
}

func TestRateLimit(t *testing.T) {
	env := setupTestRouter(t, config.RateLimitConfig{Requests: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		rec := doRequest(env, http.MethodGet, "/api/v1/trends", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	rec := doRequest(env, http.MethodGet, "/api/v1/trends", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exceeding the limit, got %d", rec.Code)
	}
}
