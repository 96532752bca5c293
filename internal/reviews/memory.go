package reviews

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/dpetrakis/pulsedash/internal/models"
)

// sampleTexts is the demo review corpus used to seed the in-memory store.
var sampleTexts = []string{
	"The food was cold and the delivery was late.",
	"Great service, but the app crashed once.",
	"I want a feature to track the driver in real-time.",
	"The delivery partner was very rude today.",
	"Prices are too high compared to other apps.",
	"Excellent food quality, but delivery took an hour.",
	"The app is very slow and hard to use.",
	"Not fresh at all, very disappointed.",
	"The rider misbehaved with my security guard.",
	"Please add more payment options like crypto.",
}

// MemoryRepository is a process-lifetime, in-memory Repository. It is the
// default store; restarts lose everything.
type MemoryRepository struct {
	mu      sync.RWMutex
	reviews []models.Review
	ids     map[string]struct{}
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{ids: make(map[string]struct{})}
}

func (r *MemoryRepository) ListReviews(_ context.Context) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Review, len(r.reviews))
	copy(result, r.reviews)
	return result, nil
}

func (r *MemoryRepository) AddReview(_ context.Context, review models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ids[review.ID]; exists {
		return ErrAlreadyExists
	}
	r.ids[review.ID] = struct{}{}
	r.reviews = append(r.reviews, review)
	return nil
}

// Seed fills the store with n mock reviews drawn from the sample corpus,
// dated randomly within the 30 days before asOf, rated 1-5.
func (r *MemoryRepository) Seed(n int, asOf time.Time, rng *rand.Rand) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < n; i++ {
		date := asOf.AddDate(0, 0, -rng.Intn(30))
		review := models.Review{
			ID:     fmt.Sprintf("rev-%d", i),
			Date:   date.Format(time.RFC3339),
			Text:   sampleTexts[rng.Intn(len(sampleTexts))],
			Rating: rng.Intn(5) + 1,
		}
		r.ids[review.ID] = struct{}{}
		r.reviews = append(r.reviews, review)
	}
}
