package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"review-enhancer/domain/model"
)

type OAuthTokenRepositoryMSSQL struct{ db *sql.DB }

func NewOAuthTokenRepositoryMSSQL(db *sql.DB) *OAuthTokenRepositoryMSSQL {
	return &OAuthTokenRepositoryMSSQL{db: db}
}

// EnsureOAuthTokenSchemaMSSQL creates the oauth_tokens table for SQL Server if it does not exist.
func EnsureOAuthTokenSchemaMSSQL(db *sql.DB) error {
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.oauth_tokens') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[oauth_tokens] (
        mall_id NVARCHAR(128) NOT NULL PRIMARY KEY,
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NOT NULL,
        expires_at DATETIME2 NOT NULL,
        refresh_token_expires_at DATETIME2 NULL,
        scopes NVARCHAR(MAX) NOT NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create oauth_tokens (mssql): %w", err)
	}
	return nil
}

func (r *OAuthTokenRepositoryMSSQL) SaveToken(ctx context.Context, t *model.OAuthToken) error {
	q := `MERGE dbo.[oauth_tokens] AS target
USING (VALUES (@p1)) AS src(mall_id)
ON target.mall_id = src.mall_id
WHEN MATCHED THEN UPDATE SET
    access_token=@p2,
    refresh_token=@p3,
    expires_at=@p4,
    refresh_token_expires_at=@p5,
    scopes=@p6,
    created_at=@p7,
    updated_at=@p8
WHEN NOT MATCHED THEN
    INSERT (mall_id, access_token, refresh_token, expires_at, refresh_token_expires_at, scopes, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8);`
	_, err := r.db.ExecContext(ctx, q,
		t.MallID,
		t.AccessToken,
		t.RefreshToken,
		t.ExpiresAt,
		nullTime(t.RefreshTokenExpiresAt),
		joinScopes(t.Scopes),
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

func (r *OAuthTokenRepositoryMSSQL) UpdateToken(ctx context.Context, t *model.OAuthToken) error {
	q := `UPDATE dbo.[oauth_tokens] SET access_token=@p2, refresh_token=@p3, expires_at=@p4, refresh_token_expires_at=@p5, scopes=@p6, updated_at=@p7 WHERE mall_id=@p1`
	res, err := r.db.ExecContext(ctx, q, t.MallID, t.AccessToken, t.RefreshToken, t.ExpiresAt, nullTime(t.RefreshTokenExpiresAt), joinScopes(t.Scopes), t.UpdatedAt)
	if err != nil {
		return err
	}
	return requireAffected(res, t.MallID)
}

func (r *OAuthTokenRepositoryMSSQL) GetToken(ctx context.Context, mallID string) (*model.OAuthToken, error) {
	row := r.db.QueryRowContext(ctx, `SELECT mall_id, access_token, refresh_token, expires_at, refresh_token_expires_at, scopes, created_at, updated_at FROM dbo.[oauth_tokens] WHERE mall_id=@p1`, mallID)
	return scanToken(row)
}
