package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dpetrakis/pulsedash/internal/models"
	"github.com/lib/pq"
)

// review_date stays TEXT on purpose: the feed is unvalidated and the
// aggregator drops unparseable dates itself.
const schema = `
	CREATE TABLE IF NOT EXISTS reviews (
		id          TEXT        PRIMARY KEY,
		review_date TEXT        NOT NULL,
		text        TEXT        NOT NULL,
		rating      INTEGER     NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
`

// Connect opens a PostgreSQL connection pool, verifies connectivity,
// initialises the schema, and returns the ready-to-use *sql.DB.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// PostgresRepository implements Repository using PostgreSQL. It is the
// optional durable store; the default deployment keeps reviews in memory.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListReviews(ctx context.Context) ([]models.Review, error) {
	const query = `
		SELECT id, review_date, text, rating
		FROM reviews
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	var result []models.Review
	for rows.Next() {
		var review models.Review
		if err := rows.Scan(&review.ID, &review.Date, &review.Text, &review.Rating); err != nil {
			return nil, fmt.Errorf("scanning review row: %w", err)
		}
		result = append(result, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reviews: %w", err)
	}

	if result == nil {
		result = []models.Review{}
	}
	return result, nil
}

func (r *PostgresRepository) AddReview(ctx context.Context, review models.Review) error {
	const query = `
		INSERT INTO reviews (id, review_date, text, rating)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query, review.ID, review.Date, review.Text, review.Rating)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("inserting review: %w", err)
	}
	return nil
}

// isUniqueViolation checks if a PostgreSQL error is a unique constraint violation (23505).
func isUniqueViolation(err error) bool {
	var pge *pq.Error
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}
