// Simulated byte-range reads against a video's content.

package videos

import (
	"errors"
	"fmt"

	"github.com/dpetrakis/pulsedash/internal/models"
)

// ErrNotAvailable gates streaming: the video is unknown, still uploading or
// processing, or was flagged by moderation. It is deliberately one condition
// so callers render a single "restricted" state.
var ErrNotAvailable = errors.New("video not available for streaming")

// ReadRange answers a byte-range query against a safe video. The served size
// is the configured simulated total, not the uploaded file size.
//
// A nil start defaults to 0; a nil end defaults to min(start+chunkSize,
// totalSize-1). Explicitly supplied bounds are echoed back verbatim — no
// range validation beyond the defaulting, matching the system this simulates.
func (p *Processor) ReadRange(id string, start, end *int64) (models.VideoChunk, error) {
	p.mu.RLock()
	video, ok := p.videos[id]
	available := ok && video.State == models.VideoStateSafe
	p.mu.RUnlock()

	if !available {
		return models.VideoChunk{}, ErrNotAvailable
	}

	totalSize := p.cfg.TotalSize

	var rangeStart int64
	if start != nil {
		rangeStart = *start
	}

	var rangeEnd int64
	if end != nil {
		rangeEnd = *end
	} else {
		rangeEnd = rangeStart + p.cfg.ChunkSize
		if max := totalSize - 1; rangeEnd > max {
			rangeEnd = max
		}
	}

	return models.VideoChunk{
		Chunk:     fmt.Sprintf("[Simulated video data chunk: %d-%d]", rangeStart, rangeEnd),
		TotalSize: totalSize,
		Start:     rangeStart,
		End:       rangeEnd,
	}, nil
}
