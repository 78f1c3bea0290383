package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/user-vault/backend/internal/model"
)

// UpsertRefreshToken atomically inserts or replaces the single token row for
// userID. Concurrent logins or refreshes for the same user cannot leave two
// rows behind; the last writer wins.
func (db *Postgres) UpsertRefreshToken(ctx context.Context, userID int64, token string) (*model.RefreshToken, error) {
	query := `
		INSERT INTO tokens (user_id, refresh_token, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET refresh_token = EXCLUDED.refresh_token, updated_at = NOW()
		RETURNING user_id, refresh_token, updated_at
	`
	return db.scanToken(db.Pool.QueryRow(ctx, query, userID, token))
}

func (db *Postgres) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	query := `
		SELECT user_id, refresh_token, updated_at
		FROM tokens
		WHERE refresh_token = $1
	`
	return db.scanToken(db.Pool.QueryRow(ctx, query, token))
}

// DeleteRefreshToken removes the row holding the exact token value and
// returns it. A stale value (already rotated or logged out) yields
// pgx.ErrNoRows.
func (db *Postgres) DeleteRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	query := `
		DELETE FROM tokens
		WHERE refresh_token = $1
		RETURNING user_id, refresh_token, updated_at
	`
	return db.scanToken(db.Pool.QueryRow(ctx, query, token))
}

func (db *Postgres) scanToken(row pgx.Row) (*model.RefreshToken, error) {
	var token model.RefreshToken
	err := row.Scan(&token.UserID, &token.Token, &token.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &token, nil
}
