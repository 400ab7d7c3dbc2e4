package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/utils"
)

// EnsureReviewCacheSchemaMSSQL creates the cache table on MSSQL if not exists
func EnsureReviewCacheSchemaMSSQL(db *sql.DB) error {
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.review_cache') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.review_cache (
        cache_key NVARCHAR(256) NOT NULL PRIMARY KEY,
        data NVARCHAR(MAX) NOT NULL,
        cached_at DATETIMEOFFSET NOT NULL
    );
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create review_cache table (mssql): %w", err)
	}
	return nil
}

type ReviewCacheRepositoryMSSQL struct {
	db    *sql.DB
	ttl   time.Duration
	clock utils.Clock
}

func NewReviewCacheRepositoryMSSQL(db *sql.DB, ttl time.Duration, clock utils.Clock) *ReviewCacheRepositoryMSSQL {
	return &ReviewCacheRepositoryMSSQL{db: db, ttl: ttl, clock: clock}
}

func (r *ReviewCacheRepositoryMSSQL) Get(ctx context.Context, key string) (*model.ReviewPayload, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data, cached_at FROM dbo.review_cache WHERE cache_key=@p1`, key)
	var raw string
	var cachedAt time.Time
	if err := row.Scan(&raw, &cachedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return decodeFresh([]byte(raw), cachedAt, r.clock.Now(), r.ttl)
}

func (r *ReviewCacheRepositoryMSSQL) Set(ctx context.Context, key string, payload *model.ReviewPayload) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	q := `MERGE dbo.review_cache AS target
USING (VALUES (@p1)) AS src(cache_key)
ON target.cache_key = src.cache_key
WHEN MATCHED THEN UPDATE SET data=@p2, cached_at=@p3
WHEN NOT MATCHED THEN INSERT (cache_key, data, cached_at) VALUES (@p1,@p2,@p3);`
	_, err = r.db.ExecContext(ctx, q, key, string(raw), r.clock.Now())
	return err
}
