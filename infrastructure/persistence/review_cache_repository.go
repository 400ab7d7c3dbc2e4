package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/logger"
	"review-enhancer/infrastructure/utils"
)

// EnsureReviewCacheSchema creates the review listing cache table on PostgreSQL.
func EnsureReviewCacheSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS review_cache (
        cache_key TEXT PRIMARY KEY,
        data JSONB NOT NULL,
        cached_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create review_cache table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_review_cache_cached_at ON review_cache(cached_at)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_review_cache_cached_at")
	}
	return nil
}

// ReviewCacheRepository stores aggregated review payloads as JSONB. Expiry is
// checked on read against cached_at; rows are overwritten, never swept.
type ReviewCacheRepository struct {
	db    *sql.DB
	ttl   time.Duration
	clock utils.Clock
}

func NewReviewCacheRepository(db *sql.DB, ttl time.Duration, clock utils.Clock) *ReviewCacheRepository {
	return &ReviewCacheRepository{db: db, ttl: ttl, clock: clock}
}

func (r *ReviewCacheRepository) Get(ctx context.Context, key string) (*model.ReviewPayload, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data, cached_at FROM review_cache WHERE cache_key=$1`, key)
	var raw []byte
	var cachedAt time.Time
	if err := row.Scan(&raw, &cachedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return decodeFresh(raw, cachedAt, r.clock.Now(), r.ttl)
}

func (r *ReviewCacheRepository) Set(ctx context.Context, key string, payload *model.ReviewPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q := `INSERT INTO review_cache(cache_key, data, cached_at) VALUES ($1,$2,$3)
          ON CONFLICT (cache_key) DO UPDATE SET data=EXCLUDED.data, cached_at=EXCLUDED.cached_at`
	_, err = r.db.ExecContext(ctx, q, key, raw, r.clock.Now())
	return err
}

// decodeFresh returns nil when the entry is at least ttl old.
func decodeFresh(raw []byte, cachedAt, now time.Time, ttl time.Duration) (*model.ReviewPayload, error) {
	if now.Sub(cachedAt) >= ttl {
		return nil, nil
	}
	var p model.ReviewPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
