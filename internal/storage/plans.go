package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/techadmin009/resumegenie/core/logger"
	"github.com/techadmin009/resumegenie/internal/domain"
)

// PlanRepo reads premium pricing options.
type PlanRepo struct {
	db *sqlx.DB
}

// NewPlanRepo constructs a PlanRepo backed by the given database.
func NewPlanRepo(db *sqlx.DB) *PlanRepo {
	return &PlanRepo{db: db}
}

// List returns all plans ordered by duration.
func (r *PlanRepo) List(ctx context.Context) ([]domain.Plan, error) {
	const q = `SELECT code, title, months, price_usd FROM premium_plans ORDER BY months`
	var out []domain.Plan
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return out, nil
}

// SeedPlans inserts the reference pricing rows if they are missing.
func SeedPlans(ctx context.Context, db *sqlx.DB) error {
	plans := []domain.Plan{
		{Code: "monthly", Title: "1 month", Months: 1, PriceUSD: "4.99"},
		{Code: "quarterly", Title: "3 months", Months: 3, PriceUSD: "12.99"},
		{Code: "yearly", Title: "12 months", Months: 12, PriceUSD: "39.99"},
	}

	const q = `
		INSERT INTO premium_plans (code, title, months, price_usd)
		VALUES (:code, :title, :months, :price_usd)
		ON CONFLICT (code) DO NOTHING`
	for _, p := range plans {
		if _, err := db.NamedExecContext(ctx, q, p); err != nil {
			return fmt.Errorf("seed plan %s: %w", p.Code, err)
		}
	}

	logger.SEED.Info("plans seeded",
		slog.String("event", "seed.plans"),
		slog.Int("count", len(plans)),
	)
	return nil
}
