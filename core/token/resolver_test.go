// Package token - Resolver invariant tests
package token

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"agreement-engine/core/normalize"
	"agreement-engine/core/types"
)

func figures(total string) normalize.NormalizedFigures {
	return normalize.NormalizedFigures{
		Kind:                    types.MigrationSingle,
		PlanName:                "Standard",
		EffectiveDurationMonths: 6,
		TotalUsers:              120,
		PerUserMonthlyRate:      decimal.RequireFromString("4.50"),
		PerGBRate:               decimal.RequireFromString("1.50"),
		TotalCost:               decimal.RequireFromString(total),
		Categories: map[types.Category]normalize.CategoryFigures{
			types.CategoryMessaging: {
				Users:              120,
				DurationMonths:     6,
				Cost:               decimal.RequireFromString(total),
				CombinationName:    "Slack to Teams",
				PerUserMonthlyRate: decimal.RequireFromString("4.50"),
			},
		},
	}
}

func client() types.ClientMeta {
	return types.ClientMeta{CompanyName: "Acme Corp", ContactName: "Jo Smith"}
}

// TestDiscountGating proves the gate: tokens are non-empty iff the
// pre-discount total meets the threshold, the percentage is in (0, 15],
// and the discounted total still meets the threshold.
func TestDiscountGating(t *testing.T) {
	cases := []struct {
		name    string
		total   string
		percent float64
		applied bool
	}{
		{"applies inside the window", "10000", 10, true},
		{"upper percent bound inclusive", "10000", 15, true},
		{"percent above bound", "10000", 15.5, false},
		{"zero percent", "10000", 0, false},
		{"negative percent", "10000", -5, false},
		{"total below threshold", "2000", 10, false},
		{"exactly at threshold, post-discount falls below", "2500", 10, false},
		{"zero percent at threshold", "2500", 0.0, false},
		{"post-discount lands exactly on threshold", "2777.78", 10, true},
		{"just above threshold after discount", "3000", 10, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, report := Resolve(figures(tc.total), client(), types.DealMeta{},
				types.DiscountState{Percent: tc.percent})

			if report.DiscountApplied != tc.applied {
				t.Fatalf("applied = %v, want %v", report.DiscountApplied, tc.applied)
			}
			for _, key := range []string{"discount_percent", "discount_amount", "discounted_total"} {
				if tc.applied && m[key] == "" {
					t.Errorf("%s empty despite open gate", key)
				}
				if !tc.applied && m[key] != "" {
					t.Errorf("%s = %q, want empty on closed gate", key, m[key])
				}
			}
		})
	}
}

// TestDiscountValues checks the materialized amounts
func TestDiscountValues(t *testing.T) {
	m, report := Resolve(figures("10000"), client(), types.DealMeta{},
		types.DiscountState{Percent: 10})

	if !report.DiscountApplied {
		t.Fatal("expected discount to apply")
	}
	if m["discount_amount"] != "$1,000.00" {
		t.Errorf("discount_amount = %q", m["discount_amount"])
	}
	if m["discounted_total"] != "$9,000.00" {
		t.Errorf("discounted_total = %q", m["discounted_total"])
	}
	if m["discount_percent"] != "10%" {
		t.Errorf("discount_percent = %q", m["discount_percent"])
	}
}

// TestTokenCompleteness proves the terminal invariant: no entry is ever
// undefined, null, or the literal "undefined".
func TestTokenCompleteness(t *testing.T) {
	m, _ := Resolve(normalize.NormalizedFigures{}, types.ClientMeta{}, types.DealMeta{}, types.DiscountState{})

	if err := Validate(m); err != nil {
		t.Fatal(err)
	}
	for k, v := range m {
		if v == "undefined" || v == "null" {
			t.Errorf("token %s leaked %q", k, v)
		}
	}
}

// TestKindDefaults proves defaults are inferred from the field kind when
// nothing resolves: currency to $0.00, counts to 0, durations stay sane,
// identity to a human placeholder.
func TestKindDefaults(t *testing.T) {
	m, _ := Resolve(normalize.NormalizedFigures{}, types.ClientMeta{}, types.DealMeta{}, types.DiscountState{})

	if m["total_cost"] != "$0.00" {
		t.Errorf("total_cost = %q", m["total_cost"])
	}
	if m["number_of_users"] != "0" {
		t.Errorf("number_of_users = %q", m["number_of_users"])
	}
	if m["company_name"] == "" {
		t.Error("identity token must default to a placeholder, not empty")
	}
}

// TestAliasesStaySynchronized proves every alias of a field carries the
// identical value; the resolver is the single place keeping them in sync.
func TestAliasesStaySynchronized(t *testing.T) {
	m, _ := Resolve(figures("10000"), client(), types.DealMeta{}, types.DiscountState{})

	for _, f := range Registry {
		canonical := m[f.Canonical]
		for _, alias := range f.Aliases {
			if m[alias] != canonical {
				t.Errorf("alias %s = %q diverges from %s = %q",
					alias, m[alias], f.Canonical, canonical)
			}
		}
	}
}

// TestAbsentCategoryTokensAreEmpty proves a content-only order never
// renders a spurious messaging line: absent-category tokens are empty,
// not "$0.00".
func TestAbsentCategoryTokensAreEmpty(t *testing.T) {
	fig := figures("10000") // messaging only
	m, _ := Resolve(fig, client(), types.DealMeta{}, types.DiscountState{})

	if m["messaging_cost"] == "" {
		t.Error("present category must resolve")
	}
	for _, key := range []string{"content_cost", "content_users", "content_duration", "email_cost"} {
		if m[key] != "" {
			t.Errorf("%s = %q, want empty for absent category", key, m[key])
		}
	}
	if strings.Contains(m["content_cost"], "$") {
		t.Error("absent category must not render a currency value")
	}
}

// TestCurrencyFormatting checks separators and cents
func TestCurrencyFormatting(t *testing.T) {
	cases := map[string]string{
		"0":          "$0.00",
		"1234.5":     "$1,234.50",
		"1000000":    "$1,000,000.00",
		"999.999":    "$1,000.00",
		"-42.1":      "-$42.10",
		"2500":       "$2,500.00",
		"12345678.9": "$12,345,678.90",
	}
	for in, want := range cases {
		if got := FormatCurrency(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", in, got, want)
		}
	}
}

// TestCriticalKeyLookup proves the critical set covers client identity and
// total cost under every alias spelling.
func TestCriticalKeyLookup(t *testing.T) {
	for _, key := range []string{"company_name", "customer_name", "total_cost", "grand_total"} {
		if !IsCritical(key) {
			t.Errorf("%s must be critical", key)
		}
	}
	if IsCritical("duration_months") {
		t.Error("duration_months must not be critical")
	}
}
