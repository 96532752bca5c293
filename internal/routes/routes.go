package routes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dpetrakis/pulsedash/internal/auth"
	"github.com/dpetrakis/pulsedash/internal/config"
	"github.com/dpetrakis/pulsedash/internal/handlers"
	"github.com/dpetrakis/pulsedash/internal/logging"
	"github.com/dpetrakis/pulsedash/internal/videos"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// RegisterDashboardRoutes sets up the trend and video API routes.
// HTTP concerns are handled here, while business logic lives in the handlers package.
func RegisterDashboardRoutes(h *handlers.Handlers, jwtSecret string, rl config.RateLimitConfig) func(r chi.Router) {
	return func(r chi.Router) {
		r.Route("/api/v1", func(r chi.Router) {
			if rl.Requests > 0 {
				r.Use(httprate.LimitByIP(rl.Requests, rl.Window))
			}
			r.Use(auth.JWTMiddleware(jwtSecret))

			r.Route("/trends", func(r chi.Router) {
				r.Get("/", trendReportRoute(h))
				r.Get("/chart", trendChartRoute(h))
			})
			r.Get("/dashboard/stats", dashboardStatsRoute(h))

			r.Route("/videos", func(r chi.Router) {
				r.Post("/", uploadVideoRoute(h))
				r.Get("/", listVideosRoute(h))
				r.Get("/{videoID}", getVideoRoute(h))
				r.Get("/{videoID}/stream", streamVideoRoute(h))
			})
		})
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func trendReportRoute(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asOf, err := handlers.ParseAsOf(r.URL.Query().Get("as_of"), time.Now())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		report, err := h.TrendReport(ctx, asOf)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("trendReport").Err(err).
				Error("failed to build trend report")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("trendReport").Str("as_of", report.AsOf).
			Int("topics", len(report.Report)).Int("status_code", http.StatusOK).
			Info("trend report built")
		respondWithJSON(w, http.StatusOK, report)
	}
}

func trendChartRoute(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asOf, err := handlers.ParseAsOf(r.URL.Query().Get("as_of"), time.Now())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		topN, err := handlers.ParseTopN(r.URL.Query().Get("top"))
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		rows, err := h.TrendChart(ctx, asOf, topN)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("trendChart").Err(err).
				Error("failed to build chart rows")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, rows)
	}
}

func dashboardStatsRoute(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		asOf, err := handlers.ParseAsOf(r.URL.Query().Get("as_of"), time.Now())
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		stats, err := h.DashboardStats(ctx, asOf)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("dashboardStats").Err(err).
				Error("failed to compute dashboard stats")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, stats)
	}
}

func uploadVideoRoute(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ownerID := auth.OwnerIDFromContext(ctx)

		var req handlers.UploadVideoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Log(ctx).Layer("routes").Op("uploadVideo").Owner(ownerID).Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		videoID, err := h.UploadVideo(ownerID, &req)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				logging.Log(ctx).Layer("routes").Op("uploadVideo").Owner(ownerID).Err(err).
					Warn("invalid upload request")
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			logging.Log(ctx).Layer("routes").Op("uploadVideo").Owner(ownerID).Err(err).
				Error("failed to register upload")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("uploadVideo").Owner(ownerID).Video(videoID).
			Str("filename", req.Filename).Int("status_code", http.StatusCreated).
			Info("upload registered")
		respondWithJSON(w, http.StatusCreated, map[string]string{"video_id": videoID})
	}
}

func listVideosRoute(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ownerID := auth.OwnerIDFromContext(ctx)

		list := h.ListVideos(ownerID)

		logging.Log(ctx).Layer("routes").Op("listVideos").Owner(ownerID).
			Int("count", len(list)).Int("status_code", http.StatusOK).
			Info("videos listed")
		respondWithJSON(w, http.StatusOK, list)
	}
}

func getVideoRoute(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ownerID := auth.OwnerIDFromContext(ctx)
		videoID := chi.URLParam(r, "videoID")

		if err := handlers.ValidateVideoID(videoID); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		video, err := h.GetVideo(videoID)
		if err != nil {
			if err == videos.ErrNotFound {
				logging.Log(ctx).Layer("routes").Owner(ownerID).Video(videoID).
					Warn("video not found")
				respondWithError(w, http.StatusNotFound, "Video not found")
				return
			}
			logging.Log(ctx).Layer("routes").Owner(ownerID).Video(videoID).Err(err).
				Error("failed to get video")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, video)
	}
}

func streamVideoRoute(h *handlers.Handlers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ownerID := auth.OwnerIDFromContext(ctx)
		videoID := chi.URLParam(r, "videoID")

		if err := handlers.ValidateVideoID(videoID); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		start, err := parseRangeBound(r, "start")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		end, err := parseRangeBound(r, "end")
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		chunk, err := h.StreamVideo(videoID, start, end)
		if err != nil {
			// Not-available is a distinct, expected condition: the UI renders a
			// restricted state rather than an error toast.
			if err == videos.ErrNotAvailable {
				logging.Log(ctx).Layer("routes").Op("streamVideo").Owner(ownerID).Video(videoID).
					Warn("video not available for streaming")
				respondWithError(w, http.StatusConflict, err.Error())
				return
			}
			logging.Log(ctx).Layer("routes").Op("streamVideo").Owner(ownerID).Video(videoID).Err(err).
				Error("failed to read range")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("streamVideo").Owner(ownerID).Video(videoID).
			Any("start", chunk.Start).Any("end", chunk.End).Int("status_code", http.StatusOK).
			Info("range served")
		respondWithJSON(w, http.StatusOK, chunk)
	}
}

// parseRangeBound reads an optional int64 query parameter; absence yields nil.
func parseRangeBound(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &handlers.ValidationError{Errors: []string{name + " must be an integer"}}
	}
	return &v, nil
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}
