package reviews

import (
	"context"
	"errors"

	"github.com/dpetrakis/pulsedash/internal/models"
)

var ErrAlreadyExists = errors.New("review already exists")

// Repository defines the interface for review storage. The trend pipeline
// only ever reads the full set; there is no per-review lookup or deletion.
type Repository interface {
	ListReviews(ctx context.Context) ([]models.Review, error)
	AddReview(ctx context.Context, review models.Review) error
}
