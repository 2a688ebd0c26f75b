// Package storage - Postgres exhibit catalog
package storage

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"agreement-engine/core/types"
	"agreement-engine/internal/errors"
)

// PostgresCatalog reads exhibit and tier metadata from postgres
type PostgresCatalog struct {
	db *sql.DB
}

// NewPostgresCatalog wraps an open database handle
func NewPostgresCatalog(db *sql.DB) *PostgresCatalog {
	return &PostgresCatalog{db: db}
}

// OpenPostgresCatalog opens a connection and verifies it
func OpenPostgresCatalog(ctx context.Context, dsn string) (*PostgresCatalog, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Storage("postgres open failed", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Storage("postgres unreachable", err)
	}
	return &PostgresCatalog{db: db}, nil
}

// Close releases the underlying connection pool
func (c *PostgresCatalog) Close() error {
	return c.db.Close()
}

// ListExhibits implements Catalog
func (c *PostgresCatalog) ListExhibits(ctx context.Context) ([]types.ExhibitRecord, error) {
	const q = `
		SELECT id, name, COALESCE(description, ''), category, combinations,
		       COALESCE(plan_type, ''), COALESCE(include_type, ''),
		       display_order, COALESCE(object_key, '')
		FROM exhibits
		ORDER BY category, display_order, id`

	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Storage("exhibit query failed", err)
	}
	defer rows.Close()

	var out []types.ExhibitRecord
	for rows.Next() {
		var rec types.ExhibitRecord
		var category, includeType string
		var combinations pq.StringArray
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Description, &category,
			&combinations, &rec.PlanType, &includeType,
			&rec.DisplayOrder, &rec.ObjectKey); err != nil {
			return nil, errors.Storage("exhibit scan failed", err)
		}
		rec.Category = types.ParseCategory(category)
		rec.Combinations = []string(combinations)
		rec.IncludeType = types.IncludeType(includeType)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("exhibit iteration failed", err)
	}
	return out, nil
}

// GetTier implements Catalog
func (c *PostgresCatalog) GetTier(ctx context.Context, planName string) (types.Tier, error) {
	const q = `
		SELECT name, per_user_cost, per_gb_cost, managed_migration_cost, instance_base_cost
		FROM tiers
		WHERE lower(name) = $1`

	var tier types.Tier
	var perUser, perGB, managed, instance string
	err := c.db.QueryRowContext(ctx, q, types.NormalizePlanName(planName)).
		Scan(&tier.Name, &perUser, &perGB, &managed, &instance)
	if err == sql.ErrNoRows {
		return types.Tier{}, errors.NotFound("tier", planName)
	}
	if err != nil {
		return types.Tier{}, errors.Storage("tier query failed", err)
	}

	// Numeric columns arrive as strings to avoid float drift
	tier.PerUserCost = parseMoney(perUser)
	tier.PerGBCost = parseMoney(perGB)
	tier.ManagedMigrationCost = parseMoney(managed)
	tier.InstanceBaseCost = parseMoney(instance)
	return tier, nil
}

func parseMoney(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
