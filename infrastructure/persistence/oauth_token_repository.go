package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"review-enhancer/domain/apperror"
	"review-enhancer/domain/model"
)

// EnsureOAuthTokenSchema creates the oauth_tokens table on PostgreSQL.
func EnsureOAuthTokenSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS oauth_tokens (
        mall_id TEXT PRIMARY KEY,
        access_token TEXT NOT NULL,
        refresh_token TEXT NOT NULL DEFAULT '',
        expires_at TIMESTAMPTZ NOT NULL,
        refresh_token_expires_at TIMESTAMPTZ NULL,
        scopes TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL,
        updated_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create oauth_tokens table: %w", err)
	}
	return nil
}

type OAuthTokenRepository struct{ db *sql.DB }

func NewOAuthTokenRepository(db *sql.DB) *OAuthTokenRepository { return &OAuthTokenRepository{db: db} }

func (r *OAuthTokenRepository) SaveToken(ctx context.Context, t *model.OAuthToken) error {
	q := `INSERT INTO oauth_tokens (mall_id, access_token, refresh_token, expires_at, refresh_token_expires_at, scopes, created_at, updated_at)
		  VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		  ON CONFLICT (mall_id) DO UPDATE SET
			access_token=EXCLUDED.access_token,
			refresh_token=EXCLUDED.refresh_token,
			expires_at=EXCLUDED.expires_at,
			refresh_token_expires_at=EXCLUDED.refresh_token_expires_at,
			scopes=EXCLUDED.scopes,
			created_at=EXCLUDED.created_at,
			updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q, t.MallID, t.AccessToken, t.RefreshToken, t.ExpiresAt, nullTime(t.RefreshTokenExpiresAt), joinScopes(t.Scopes), t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *OAuthTokenRepository) UpdateToken(ctx context.Context, t *model.OAuthToken) error {
	q := `UPDATE oauth_tokens SET access_token=$2, refresh_token=$3, expires_at=$4, refresh_token_expires_at=$5, scopes=$6, updated_at=$7 WHERE mall_id=$1`
	res, err := r.db.ExecContext(ctx, q, t.MallID, t.AccessToken, t.RefreshToken, t.ExpiresAt, nullTime(t.RefreshTokenExpiresAt), joinScopes(t.Scopes), t.UpdatedAt)
	if err != nil {
		return err
	}
	return requireAffected(res, t.MallID)
}

func (r *OAuthTokenRepository) GetToken(ctx context.Context, mallID string) (*model.OAuthToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT mall_id, access_token, refresh_token, expires_at, refresh_token_expires_at, scopes, created_at, updated_at FROM oauth_tokens WHERE mall_id=$1`, mallID)
	return scanToken(row)
}

func scanToken(row *sql.Row) (*model.OAuthToken, error) {
	tok := &model.OAuthToken{}
	var refreshExp sql.NullTime
	var scopes string
	if err := row.Scan(&tok.MallID, &tok.AccessToken, &tok.RefreshToken, &tok.ExpiresAt, &refreshExp, &scopes, &tok.CreatedAt, &tok.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if refreshExp.Valid {
		v := refreshExp.Time
		tok.RefreshTokenExpiresAt = &v
	}
	tok.Scopes = strings.Fields(scopes)
	return tok, nil
}

func requireAffected(res sql.Result, mallID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("update token for mall %s: %w", mallID, apperror.ErrNoToken)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func joinScopes(scopes []string) string { return strings.Join(scopes, " ") }
