package reviews

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/dpetrakis/pulsedash/internal/models"
)

func TestMemoryRepository_AddAndList(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	review := models.Review{ID: "r1", Date: "2025-06-15T10:00:00Z", Text: "late again", Rating: 2}
	if err := repo.AddReview(ctx, review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.ListReviews(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != review {
		t.Errorf("unexpected list: %+v", got)
	}
}

func TestMemoryRepository_DuplicateID(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	review := models.Review{ID: "r1", Date: "2025-06-15T10:00:00Z", Text: "late", Rating: 2}
	if err := repo.AddReview(ctx, review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.AddReview(ctx, review); err != ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemoryRepository_ListReturnsCopy(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	repo.AddReview(ctx, models.Review{ID: "r1", Date: "2025-06-15T10:00:00Z", Text: "late", Rating: 2})

	first, _ := repo.ListReviews(ctx)
	first[0].Text = "mutated"

	second, _ := repo.ListReviews(ctx)
	if second[0].Text != "late" {
		t.Error("ListReviews must not expose internal state to callers")
	}
}

func TestMemoryRepository_Seed(t *testing.T) {
	repo := NewMemoryRepository()
	asOf := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))

	repo.Seed(342, asOf, rng)

	got, err := repo.ListReviews(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 342 {
		t.Fatalf("expected 342 seeded reviews, got %d", len(got))
	}

	windowStart := asOf.AddDate(0, 0, -30)
	corpus := make(map[string]bool, len(sampleTexts))
	for _, text := range sampleTexts {
		corpus[text] = true
	}

	for _, review := range got {
		date, err := time.Parse(time.RFC3339, review.Date)
		if err != nil {
			t.Fatalf("seeded review %s has unparseable date %q", review.ID, review.Date)
		}
		if date.Before(windowStart) || date.After(asOf) {
			t.Errorf("seeded review %s dated %s outside trailing window", review.ID, review.Date)
		}
		if !corpus[review.Text] {
			t.Errorf("seeded review %s has text outside the sample corpus: %q", review.ID, review.Text)
		}
		if review.Rating < 1 || review.Rating > 5 {
			t.Errorf("seeded review %s has rating %d outside 1-5", review.ID, review.Rating)
		}
	}
}
