package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/techadmin009/resumegenie/internal/domain"
)

// EventRepo records redeem audit events.
type EventRepo struct {
	db *sqlx.DB
}

// NewEventRepo constructs an EventRepo backed by the given database.
func NewEventRepo(db *sqlx.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Insert appends a security event.
func (r *EventRepo) Insert(ctx context.Context, ev domain.SecurityEvent) error {
	const q = `
		INSERT INTO security_events (user_id, kind, details, created_at)
		VALUES (:user_id, :kind, :details, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, ev); err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

// CountFailuresSince returns per-user counts of failed redeem events newer than since.
func (r *EventRepo) CountFailuresSince(ctx context.Context, since time.Time) (map[int64]int, error) {
	const q = `
		SELECT user_id, COUNT(*) AS n
		FROM security_events
		WHERE created_at >= $1 AND kind <> $2
		GROUP BY user_id`
	rows, err := r.db.QueryxContext(ctx, q, since, domain.EventKeyRedeemed)
	if err != nil {
		return nil, fmt.Errorf("count security events: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var (
			userID int64
			n      int
		)
		if err := rows.Scan(&userID, &n); err != nil {
			return nil, fmt.Errorf("scan security event count: %w", err)
		}
		out[userID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate security events: %w", err)
	}
	return out, nil
}
