// Simulated upload and moderation pipeline. Each uploaded video gets its own
// background task that drives progress ticks and the moderation decision, so
// one video's timers never starve another's.

package videos

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/dpetrakis/pulsedash/internal/logging"
	"github.com/dpetrakis/pulsedash/internal/models"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

var ErrNotFound = errors.New("video not found")

// Config holds the simulation tuning knobs. Defaults reproduce the demo
// pipeline: 500ms upload ticks of up to 15 points, a 3–5s moderation delay,
// and an 80% chance of a "safe" verdict.
type Config struct {
	UploadTick         time.Duration
	MaxProgressStep    float64
	MinProcessingDelay time.Duration
	MaxProcessingDelay time.Duration
	SafeProbability    float64
	MinDurationSeconds int
	MaxDurationSeconds int
	TotalSize          int64 // simulated size served by ReadRange
	ChunkSize          int64 // default range length when end is omitted
}

// DefaultConfig returns the demo constants.
func DefaultConfig() Config {
	return Config{
		UploadTick:         500 * time.Millisecond,
		MaxProgressStep:    15,
		MinProcessingDelay: 3 * time.Second,
		MaxProcessingDelay: 5 * time.Second,
		SafeProbability:    0.8,
		MinDurationSeconds: 60,
		MaxDurationSeconds: 360,
		TotalSize:          50 * 1024 * 1024,
		ChunkSize:          1024 * 1024,
	}
}

// Processor owns the in-memory video registry and advances each video
// through uploading → processing → safe|flagged. Transitions for a video are
// strictly ordered and fire exactly once; entries live for the process
// lifetime. Clock and randomness are injected so tests can pin timing and
// moderation outcomes.
type Processor struct {
	cfg    Config
	clock  clockwork.Clock
	logger *slog.Logger

	mu     sync.RWMutex
	rng    *rand.Rand
	videos map[string]*models.Video
	order  []string // ids in creation order
}

// NewProcessor creates a Processor. rng must not be shared with other users;
// the Processor serialises access to it internally.
func NewProcessor(cfg Config, clock clockwork.Clock, rng *rand.Rand, logger *slog.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		clock:  clock,
		logger: logger,
		rng:    rng,
		videos: make(map[string]*models.Video),
	}
}

// Create registers a new video in the uploading state and starts its
// background advancement. Returns the new video id.
func (p *Processor) Create(ownerID, filename string, sizeBytes int64) string {
	p.mu.Lock()
	id := "vid-" + uuid.NewString()
	video := &models.Video{
		ID:              id,
		OwnerID:         ownerID,
		Filename:        filename,
		State:           models.VideoStateUploading,
		Progress:        0,
		UploadedAt:      p.clock.Now(),
		DurationSeconds: p.cfg.MinDurationSeconds + p.rng.Intn(p.cfg.MaxDurationSeconds-p.cfg.MinDurationSeconds+1),
		SizeBytes:       sizeBytes,
	}
	p.videos[id] = video
	p.order = append(p.order, id)
	p.mu.Unlock()

	logging.With(p.logger).Layer("videos").Op("Create").Owner(ownerID).Video(id).
		Str("filename", filename).Info("video registered, starting simulated upload")

	go p.advance(id)
	return id
}

// Get returns a snapshot of the video, or ErrNotFound.
func (p *Processor) Get(id string) (models.Video, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	video, ok := p.videos[id]
	if !ok {
		return models.Video{}, ErrNotFound
	}
	return *video, nil
}

// ListByOwner returns snapshots of the owner's videos, newest first.
func (p *Processor) ListByOwner(ownerID string) []models.Video {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]models.Video, 0)
	// Walk creation order backwards so equal timestamps still come out
	// newest first.
	for i := len(p.order) - 1; i >= 0; i-- {
		if video := p.videos[p.order[i]]; video != nil && video.OwnerID == ownerID {
			result = append(result, *video)
		}
	}
	return result
}

// advance drives one video's upload ticks and, once progress hits 100, the
// moderation step. A vanished registry entry stops the loop silently — the
// background job simply outlives nothing.
func (p *Processor) advance(id string) {
	ticker := p.clock.NewTicker(p.cfg.UploadTick)
	for range ticker.Chan() {
		uploaded, ok := p.step(id)
		if !ok {
			ticker.Stop()
			return
		}
		if uploaded {
			break
		}
	}
	ticker.Stop()

	<-p.clock.After(p.processingDelay())
	p.moderate(id)
}

// step applies one progress increment. Returns (uploadDone, entryExists).
func (p *Processor) step(id string) (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	video, ok := p.videos[id]
	if !ok {
		return false, false
	}
	if video.State != models.VideoStateUploading {
		return true, true
	}

	video.Progress += p.rng.Float64() * p.cfg.MaxProgressStep
	if video.Progress < 100 {
		return false, true
	}

	video.Progress = 100
	video.State = models.VideoStateProcessing
	return true, true
}

// moderate draws the moderation outcome and moves the video to its terminal
// state. Runs at most once per video: the uploading → processing transition
// happens exactly once, and moderate is only reachable after it.
func (p *Processor) moderate(id string) {
	p.mu.Lock()

	video, ok := p.videos[id]
	if !ok || video.State != models.VideoStateProcessing {
		p.mu.Unlock()
		return
	}

	safe := p.rng.Float64() < p.cfg.SafeProbability
	if safe {
		video.State = models.VideoStateSafe
	} else {
		video.State = models.VideoStateFlagged
	}
	processedAt := p.clock.Now()
	video.ProcessedAt = &processedAt
	video.Progress = 100
	state := video.State
	owner := video.OwnerID
	p.mu.Unlock()

	logging.With(p.logger).Layer("videos").Op("moderate").Owner(owner).Video(id).
		Str("state", string(state)).Info("moderation verdict recorded")
}

func (p *Processor) processingDelay() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	spread := p.cfg.MaxProcessingDelay - p.cfg.MinProcessingDelay
	return p.cfg.MinProcessingDelay + time.Duration(p.rng.Float64()*float64(spread))
}
