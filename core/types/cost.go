// Package types - Cost breakdown and plan tier types
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CategoryBreakdown is the cost breakdown for one workload category
type CategoryBreakdown struct {
	// UserCost is the per-user licensing portion
	UserCost decimal.Decimal `json:"user_cost"`

	// DataCost is the data volume portion
	DataCost decimal.Decimal `json:"data_cost"`

	// MigrationCost is the managed migration portion
	MigrationCost decimal.Decimal `json:"migration_cost"`

	// InstanceCost is the instance portion
	InstanceCost decimal.Decimal `json:"instance_cost"`

	// TotalCost is the category total
	TotalCost decimal.Decimal `json:"total_cost"`
}

// CostBreakdown is the computed cost of one purchase.
// For composite orders the per-category breakdowns are present when the
// pricing layer produced them; TotalCost is the authoritative fallback
// when they are absent.
type CostBreakdown struct {
	// TotalCost is the overall order total before discount
	TotalCost decimal.Decimal `json:"total_cost"`

	// Categories maps category to its breakdown, when present
	Categories map[Category]CategoryBreakdown `json:"categories,omitempty"`

	// Combinations maps individual combination names to their totals, when present
	Combinations map[string]decimal.Decimal `json:"combinations,omitempty"`
}

// CategoryFor returns the breakdown for a category, if present
func (b *CostBreakdown) CategoryFor(cat Category) (CategoryBreakdown, bool) {
	if b == nil || b.Categories == nil {
		return CategoryBreakdown{}, false
	}
	cb, ok := b.Categories[cat]
	return cb, ok
}

// CombinationTotal returns the total priced for one combination name, if
// present. Combination keys arrive from the pricing layer in whatever
// casing the UI used; matching is case-insensitive.
func (b *CostBreakdown) CombinationTotal(name string) (decimal.Decimal, bool) {
	if b == nil || b.Combinations == nil || name == "" {
		return decimal.Zero, false
	}
	if total, ok := b.Combinations[name]; ok {
		return total, true
	}
	for k, total := range b.Combinations {
		if strings.EqualFold(k, name) {
			return total, true
		}
	}
	return decimal.Zero, false
}

// Tier is pricing plan metadata. Immutable once a calculation is produced.
type Tier struct {
	// Name is the plan tier name (Basic, Standard, Advanced, ...)
	Name string `json:"name"`

	// PerUserCost is the monthly per-user rate
	PerUserCost decimal.Decimal `json:"per_user_cost"`

	// PerGBCost is the per-gigabyte rate
	PerGBCost decimal.Decimal `json:"per_gb_cost"`

	// ManagedMigrationCost is the managed migration fee
	ManagedMigrationCost decimal.Decimal `json:"managed_migration_cost"`

	// InstanceBaseCost is the base cost per migration instance
	InstanceBaseCost decimal.Decimal `json:"instance_base_cost"`
}

// NormalizePlanName lowercases and trims a plan tier name for comparison.
// Plan matching is case-insensitive everywhere in the engine.
func NormalizePlanName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SamePlan reports whether two plan names refer to the same tier
func SamePlan(a, b string) bool {
	return NormalizePlanName(a) == NormalizePlanName(b)
}
