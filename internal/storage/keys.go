package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/techadmin009/resumegenie/internal/domain"
)

// KeyRepo persists premium activation keys.
type KeyRepo struct {
	db *sqlx.DB
}

// NewKeyRepo constructs a KeyRepo backed by the given database.
func NewKeyRepo(db *sqlx.DB) *KeyRepo {
	return &KeyRepo{db: db}
}

// Insert stores a freshly issued key.
func (r *KeyRepo) Insert(ctx context.Context, key domain.PremiumKey) error {
	const q = `
		INSERT INTO premium_keys (key, valid_days, created_at, expires_at)
		VALUES (:key, :valid_days, :created_at, :expires_at)`
	if _, err := r.db.NamedExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("insert premium key: %w", err)
	}
	return nil
}

// Get loads a key by its full value.
func (r *KeyRepo) Get(ctx context.Context, key string) (domain.PremiumKey, error) {
	const q = `
		SELECT key, valid_days, created_at, expires_at
		FROM premium_keys WHERE key = $1`
	var out domain.PremiumKey
	if err := r.db.GetContext(ctx, &out, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.PremiumKey{}, ErrNotFound
		}
		return domain.PremiumKey{}, fmt.Errorf("get premium key: %w", err)
	}
	return out, nil
}

// Delete removes a key after redemption; keys are single use.
func (r *KeyRepo) Delete(ctx context.Context, key string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM premium_keys WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete premium key: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
