package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/techadmin009/resumegenie/internal/domain"
)

// SubscriptionRepo persists premium subscriptions keyed by Telegram user ID.
type SubscriptionRepo struct {
	db *sqlx.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo backed by the given database.
func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// Upsert activates or extends a user's subscription.
func (r *SubscriptionRepo) Upsert(ctx context.Context, sub domain.Subscription) error {
	const q = `
		INSERT INTO premium_users (user_id, activated_at, expires_at, key_used)
		VALUES (:user_id, :activated_at, :expires_at, :key_used)
		ON CONFLICT (user_id) DO UPDATE SET
			activated_at = EXCLUDED.activated_at,
			expires_at   = EXCLUDED.expires_at,
			key_used     = EXCLUDED.key_used`
	if _, err := r.db.NamedExecContext(ctx, q, sub); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// Get loads a user's subscription record.
func (r *SubscriptionRepo) Get(ctx context.Context, userID int64) (domain.Subscription, error) {
	const q = `
		SELECT user_id, activated_at, expires_at, key_used
		FROM premium_users WHERE user_id = $1`
	var out domain.Subscription
	if err := r.db.GetContext(ctx, &out, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Subscription{}, ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return out, nil
}
