// Package normalize - Normalizer invariant tests
package normalize

import (
	"testing"

	"github.com/shopspring/decimal"

	"agreement-engine/core/types"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func compositeConfig() *types.PricingConfiguration {
	return &types.PricingConfiguration{
		Kind:     types.MigrationComposite,
		PlanName: "Standard",
		SegmentList: []types.SegmentConfig{
			{
				Category:        types.CategoryMessaging,
				CombinationName: "Slack to Teams",
				NumberOfUsers:   100,
				DurationMonths:  3,
				InstanceType:    "standard",
			},
			{
				Category:        types.CategoryContent,
				CombinationName: "Google MyDrive to Google MyDrive",
				NumberOfUsers:   50,
				DurationMonths:  9,
				DataSizeGB:      500,
				InstanceType:    "standard",
			},
		},
	}
}

func compositeBreakdown() *types.CostBreakdown {
	return &types.CostBreakdown{
		TotalCost: money("10000"),
		Categories: map[types.Category]types.CategoryBreakdown{
			types.CategoryMessaging: {
				UserCost:  money("1500"), // 1500 / (100*3) = 5.00/user/month
				TotalCost: money("4000"),
			},
			types.CategoryContent: {
				UserCost:      money("900"), // 900 / (50*9) = 2.00/user/month
				DataCost:      money("750"),
				MigrationCost: money("3000"),
				InstanceCost:  money("1350"),
				TotalCost:     money("6000"),
			},
		},
	}
}

// TestCompositeDurationIsSum proves segment durations sum: segments run
// sequentially in the contract, not in parallel.
func TestCompositeDurationIsSum(t *testing.T) {
	fig := Normalize(compositeConfig(), compositeBreakdown(), types.Tier{})
	if fig.EffectiveDurationMonths != 12 {
		t.Fatalf("expected 12 months, got %d", fig.EffectiveDurationMonths)
	}
}

// TestCompositeUserRateIsMax proves the max-rate law: the contract shows
// the higher of the per-category rates, never their sum.
func TestCompositeUserRateIsMax(t *testing.T) {
	fig := Normalize(compositeConfig(), compositeBreakdown(), types.Tier{})

	want := money("5.00") // messaging's rate, the higher of 5.00 and 2.00
	if !fig.PerUserMonthlyRate.Equal(want) {
		t.Fatalf("expected rate %s, got %s", want, fig.PerUserMonthlyRate)
	}
	if fig.PerUserMonthlyRate.Equal(money("7.00")) {
		t.Fatal("rate must be the max of the category rates, not the sum")
	}
}

// TestZeroDataOrderFallsBackToPlanDefault proves the per-GB ladder: a
// zero-data order on a tier with no configured rate resolves the
// plan-name default, not zero and not a division artifact.
func TestZeroDataOrderFallsBackToPlanDefault(t *testing.T) {
	cfg := &types.PricingConfiguration{
		Kind:     types.MigrationSingle,
		PlanName: "Advanced",
		Segment: &types.SegmentConfig{
			Category:       types.CategoryEmail,
			NumberOfUsers:  25,
			DurationMonths: 2,
			DataSizeGB:     0,
		},
	}
	breakdown := &types.CostBreakdown{TotalCost: money("3000")}

	fig := Normalize(cfg, breakdown, types.Tier{Name: "Advanced"})
	if !fig.PerGBRate.Equal(money("1.80")) {
		t.Fatalf("expected advanced default 1.80, got %s", fig.PerGBRate)
	}
}

// TestPerGBPrefersTierRateOverDefault proves the middle rung of the ladder
func TestPerGBPrefersTierRateOverDefault(t *testing.T) {
	cfg := &types.PricingConfiguration{
		Kind:     types.MigrationSingle,
		PlanName: "Advanced",
		Segment:  &types.SegmentConfig{Category: types.CategoryEmail},
	}
	tier := types.Tier{Name: "Advanced", PerGBCost: money("2.25")}

	fig := Normalize(cfg, nil, tier)
	if !fig.PerGBRate.Equal(money("2.25")) {
		t.Fatalf("expected tier rate 2.25, got %s", fig.PerGBRate)
	}
}

// TestPerGBDerivedFromContentDataCost proves the top rung: the content
// category's data cost over its size wins over any configured rate, and
// the migration and instance portions of the category total stay out of
// the derivation.
func TestPerGBDerivedFromContentDataCost(t *testing.T) {
	fig := Normalize(compositeConfig(), compositeBreakdown(), types.Tier{PerGBCost: money("9.99")})

	// data cost 750 over 500 GB, not (6000 - 900) / 500
	want := money("1.50")
	if !fig.PerGBRate.Equal(want) {
		t.Fatalf("expected derived rate %s, got %s", want, fig.PerGBRate)
	}
}

// TestInstanceFiguresAggregate proves counts sum and the type label is the
// common type, or "Mixed" on disagreement.
func TestInstanceFiguresAggregate(t *testing.T) {
	cfg := compositeConfig()
	cfg.SegmentList[0].NumberOfInstances = 2
	cfg.SegmentList[1].NumberOfInstances = 3

	fig := Normalize(cfg, compositeBreakdown(), types.Tier{})
	if fig.InstanceCount != 5 {
		t.Errorf("expected 5 instances, got %d", fig.InstanceCount)
	}
	if fig.InstanceTypeLabel != "standard" {
		t.Errorf("expected common label 'standard', got %q", fig.InstanceTypeLabel)
	}

	cfg.SegmentList[1].InstanceType = "dedicated"
	fig = Normalize(cfg, compositeBreakdown(), types.Tier{})
	if fig.InstanceTypeLabel != MixedInstanceLabel {
		t.Errorf("expected %q on disagreement, got %q", MixedInstanceLabel, fig.InstanceTypeLabel)
	}
}

// TestCombinationTotalsBackfillCategoryCost proves a breakdown carrying
// only per-combination totals still yields per-category costs, matched on
// the combination name case-insensitively.
func TestCombinationTotalsBackfillCategoryCost(t *testing.T) {
	breakdown := &types.CostBreakdown{
		TotalCost: money("10000"),
		Combinations: map[string]decimal.Decimal{
			"slack to teams":                   money("4000"),
			"Google MyDrive to Google MyDrive": money("6000"),
		},
	}

	fig := Normalize(compositeConfig(), breakdown, types.Tier{})
	if !fig.Categories[types.CategoryMessaging].Cost.Equal(money("4000")) {
		t.Errorf("messaging cost = %s, want 4000", fig.Categories[types.CategoryMessaging].Cost)
	}
	if !fig.Categories[types.CategoryContent].Cost.Equal(money("6000")) {
		t.Errorf("content cost = %s, want 6000", fig.Categories[types.CategoryContent].Cost)
	}
}

// TestDefensiveInputsNeverError proves garbage input degrades to zero
func TestDefensiveInputsNeverError(t *testing.T) {
	cfg := &types.PricingConfiguration{
		Kind:     types.MigrationSingle,
		PlanName: "",
		Segment: &types.SegmentConfig{
			Category:       types.CategoryContent,
			NumberOfUsers:  -5,
			DurationMonths: -1,
			DataSizeGB:     -300,
		},
	}

	fig := Normalize(cfg, nil, types.Tier{})
	if fig.TotalUsers != 0 {
		t.Errorf("negative users must clamp to zero, got %d", fig.TotalUsers)
	}
	if !fig.TotalDataGB.IsZero() {
		t.Errorf("negative data must clamp to zero, got %s", fig.TotalDataGB)
	}
	if fig.EffectiveDurationMonths != 1 {
		t.Errorf("duration must clamp to one, got %d", fig.EffectiveDurationMonths)
	}
	if !fig.PerGBRate.Equal(money("1.50")) {
		t.Errorf("unknown plan must use the default rate, got %s", fig.PerGBRate)
	}
}

// TestNilConfigIsSafe proves a nil configuration normalizes to defaults
func TestNilConfigIsSafe(t *testing.T) {
	fig := Normalize(nil, nil, types.Tier{})
	if fig.EffectiveDurationMonths != 1 {
		t.Errorf("expected duration 1, got %d", fig.EffectiveDurationMonths)
	}
	if len(fig.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(fig.Categories))
	}
}
