package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"review-enhancer/domain/model"
)

// EnsureSettingsSchema creates the per-mall settings table on PostgreSQL.
func EnsureSettingsSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS mall_settings (
        mall_id TEXT PRIMARY KEY,
        data JSONB NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create mall_settings table: %w", err)
	}
	return nil
}

type SettingsRepository struct{ db *sql.DB }

func NewSettingsRepository(db *sql.DB) *SettingsRepository { return &SettingsRepository{db: db} }

func (r *SettingsRepository) GetSettings(ctx context.Context, mallID string) (*model.MallSettings, error) {
	var raw []byte
	if err := r.db.QueryRowContext(ctx, `SELECT data FROM mall_settings WHERE mall_id=$1`, mallID).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s := &model.MallSettings{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	s.MallID = mallID
	return s, nil
}

func (r *SettingsRepository) SaveSettings(ctx context.Context, s *model.MallSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO mall_settings(mall_id, data, updated_at) VALUES ($1,$2,NOW())
          ON CONFLICT (mall_id) DO UPDATE SET data=EXCLUDED.data, updated_at=EXCLUDED.updated_at`, s.MallID, raw)
	return err
}

func (r *SettingsRepository) DeleteSettings(ctx context.Context, mallID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM mall_settings WHERE mall_id=$1`, mallID)
	return err
}
