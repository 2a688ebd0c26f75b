// Package normalize - Configuration Normalizer
// Converts a raw pricing configuration and its cost breakdown into a
// canonical set of derived figures. Sits directly downstream of free-form
// user input: missing or invalid numeric inputs become zero, never errors.
package normalize

import (
	"math"

	"github.com/shopspring/decimal"

	"agreement-engine/core/types"
)

// Plan-name keyed per-GB defaults, used when an order carries zero billed
// data volume and the tier has no configured per-GB rate.
var defaultPerGBRates = map[string]decimal.Decimal{
	"basic":    decimal.RequireFromString("1.00"),
	"standard": decimal.RequireFromString("1.50"),
	"advanced": decimal.RequireFromString("1.80"),
}

// fallbackPerGBRate applies when the plan name matches no known tier
var fallbackPerGBRate = decimal.RequireFromString("1.50")

// MixedInstanceLabel is reported when composite segments disagree on type
const MixedInstanceLabel = "Mixed"

// CategoryFigures holds the normalized figures of one workload category
type CategoryFigures struct {
	// Users is the migrated user count
	Users int

	// DurationMonths is the segment duration, clamped to >= 1
	DurationMonths int

	// DataGB is the billed data volume
	DataGB decimal.Decimal

	// DataCost is the data volume portion of the category total
	DataCost decimal.Decimal

	// Messages is the billed message count
	Messages int64

	// Cost is the category total
	Cost decimal.Decimal

	// UserCost is the per-user licensing portion of the category total
	UserCost decimal.Decimal

	// PerUserMonthlyRate is UserCost / (Users * DurationMonths)
	PerUserMonthlyRate decimal.Decimal

	// CombinationName is the combination ordered for this category
	CombinationName string
}

// NormalizedFigures is the canonical flat view of one purchase
type NormalizedFigures struct {
	// Kind is the migration kind of the source configuration
	Kind types.MigrationKind

	// PlanName is the purchased plan tier name
	PlanName string

	// EffectiveDurationMonths is the contract duration. Composite segments
	// run sequentially, so their durations sum. Never below 1.
	EffectiveDurationMonths int

	// TotalUsers sums users across segments
	TotalUsers int

	// TotalDataGB sums billed data volume across segments
	TotalDataGB decimal.Decimal

	// TotalMessages sums billed messages across segments
	TotalMessages int64

	// PerUserMonthlyRate is the contract's single displayed per-user rate.
	// For composite orders this is the maximum across categories, not the
	// sum: the agreement presents the higher of the two rates.
	PerUserMonthlyRate decimal.Decimal

	// PerGBRate is the displayed per-gigabyte rate
	PerGBRate decimal.Decimal

	// InstanceCount sums instances across segments
	InstanceCount int

	// InstanceCost sums instance costs across categories
	InstanceCost decimal.Decimal

	// ManagedMigrationCost is the managed migration fee, summed from the
	// breakdown, or the tier's configured fee when the breakdown has none
	ManagedMigrationCost decimal.Decimal

	// InstanceTypeLabel is the common instance type, or "Mixed"
	InstanceTypeLabel string

	// TotalCost is the pre-discount order total
	TotalCost decimal.Decimal

	// Categories holds per-category figures for the categories present
	Categories map[types.Category]CategoryFigures
}

// HasCategory reports whether the order includes the given category
func (f *NormalizedFigures) HasCategory(cat types.Category) bool {
	_, ok := f.Categories[cat]
	return ok
}

// Normalize derives the canonical figures for one purchase.
// It never returns an error: every invalid numeric input degrades to zero.
func Normalize(cfg *types.PricingConfiguration, breakdown *types.CostBreakdown, tier types.Tier) NormalizedFigures {
	fig := NormalizedFigures{
		Kind:       types.MigrationSingle,
		Categories: make(map[types.Category]CategoryFigures),
	}
	if cfg == nil {
		fig.EffectiveDurationMonths = 1
		fig.PerGBRate = perGBDefault(tier, "")
		return fig
	}

	fig.Kind = cfg.Kind
	if fig.Kind != types.MigrationComposite {
		fig.Kind = types.MigrationSingle
	}
	fig.PlanName = cfg.PlanName
	if breakdown != nil {
		fig.TotalCost = breakdown.TotalCost
	}

	segments := cfg.Segments()
	for _, seg := range segments {
		cf := CategoryFigures{
			Users:           clampInt(seg.NumberOfUsers),
			DurationMonths:  clampDuration(seg.DurationMonths),
			DataGB:          safeFromFloat(seg.DataSizeGB),
			Messages:        clampInt64(seg.MessageCount),
			CombinationName: seg.CombinationName,
		}

		if cb, ok := breakdown.CategoryFor(seg.Category); ok {
			cf.Cost = cb.TotalCost
			cf.UserCost = cb.UserCost
			cf.DataCost = cb.DataCost
			fig.InstanceCost = fig.InstanceCost.Add(cb.InstanceCost)
			fig.ManagedMigrationCost = fig.ManagedMigrationCost.Add(cb.MigrationCost)
		} else if total, ok := breakdown.CombinationTotal(seg.CombinationName); ok {
			// Older pricing payloads carry per-combination totals only
			cf.Cost = total
		}
		cf.PerUserMonthlyRate = monthlyUserRate(cf.UserCost, cf.Users, cf.DurationMonths)

		fig.Categories[seg.Category] = cf
		fig.TotalUsers += cf.Users
		fig.TotalDataGB = fig.TotalDataGB.Add(cf.DataGB)
		fig.TotalMessages += cf.Messages
		// Raw duration here: a zero-duration segment adds nothing to the
		// contract length even though its own figures clamp to one month.
		fig.EffectiveDurationMonths += clampInt(seg.DurationMonths)
		fig.InstanceCount += clampInt(seg.NumberOfInstances)
	}
	if fig.EffectiveDurationMonths < 1 {
		fig.EffectiveDurationMonths = 1
	}

	if fig.ManagedMigrationCost.IsZero() {
		fig.ManagedMigrationCost = tier.ManagedMigrationCost
	}
	fig.InstanceTypeLabel = instanceLabel(segments)
	fig.PerUserMonthlyRate = contractUserRate(fig, breakdown, tier)
	fig.PerGBRate = perGBRate(fig, tier)

	return fig
}

// contractUserRate picks the single displayed per-user rate
func contractUserRate(fig NormalizedFigures, breakdown *types.CostBreakdown, tier types.Tier) decimal.Decimal {
	if fig.Kind == types.MigrationComposite {
		max := decimal.Zero
		for _, cf := range fig.Categories {
			if cf.PerUserMonthlyRate.GreaterThan(max) {
				max = cf.PerUserMonthlyRate
			}
		}
		if max.IsPositive() {
			return max
		}
		return tier.PerUserCost
	}

	// Single order: the direct ratio over the one segment
	for _, cf := range fig.Categories {
		if cf.PerUserMonthlyRate.IsPositive() {
			return cf.PerUserMonthlyRate
		}
		if cf.Users > 0 && breakdown != nil {
			return monthlyUserRate(breakdown.TotalCost, cf.Users, cf.DurationMonths)
		}
	}
	return tier.PerUserCost
}

// perGBRate derives the displayed per-GB rate. Preference order: the
// content category's actual data cost over its size, then the tier's
// configured rate, then the plan-name default table. Only the data
// portion of the category total participates; migration and instance
// fees never inflate the rate. Email and overage orders legitimately
// carry zero billed data yet still display a rate.
func perGBRate(fig NormalizedFigures, tier types.Tier) decimal.Decimal {
	if cf, ok := fig.Categories[types.CategoryContent]; ok && cf.DataGB.IsPositive() {
		if cf.DataCost.IsPositive() {
			return cf.DataCost.Div(cf.DataGB).Round(2)
		}
	}
	return perGBDefault(tier, fig.PlanName)
}

func perGBDefault(tier types.Tier, planName string) decimal.Decimal {
	if tier.PerGBCost.IsPositive() {
		return tier.PerGBCost
	}
	if rate, ok := defaultPerGBRates[types.NormalizePlanName(planName)]; ok {
		return rate
	}
	return fallbackPerGBRate
}

// instanceLabel returns the common instance type across segments, the
// literal "Mixed" on disagreement, and empty when no segment names one.
func instanceLabel(segments []types.SegmentConfig) string {
	label := ""
	for _, seg := range segments {
		t := seg.InstanceType
		if t == "" {
			continue
		}
		if label == "" {
			label = t
			continue
		}
		if label != t {
			return MixedInstanceLabel
		}
	}
	return label
}

// monthlyUserRate computes cost / (users * months), zero on bad input
func monthlyUserRate(userCost decimal.Decimal, users, months int) decimal.Decimal {
	if users <= 0 || months <= 0 || !userCost.IsPositive() {
		return decimal.Zero
	}
	return userCost.Div(decimal.NewFromInt(int64(users * months))).Round(2)
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clampInt64(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func clampDuration(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// safeFromFloat guards against NaN and infinities from free-form input
func safeFromFloat(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}
