// Package token - Token Resolver
// Maps normalized figures and deal metadata into the flat alias-rich
// dictionary consumed by the templating step. Terminal invariant: every
// entry resolves to a usable display value; nothing undefined leaks out.
package token

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"agreement-engine/core/normalize"
	"agreement-engine/core/types"
)

// TokenMap maps token keys to resolved display strings
type TokenMap map[string]string

// DiscountThreshold is the minimum order total, before and after discount,
// for a discount to materialize into tokens.
var DiscountThreshold = decimal.NewFromInt(2500)

// MaxDiscountPercent is the largest discount the resolver will materialize
const MaxDiscountPercent = 15.0

// ResolveReport records how the map was produced, for tooling and tests
type ResolveReport struct {
	// Defaulted lists canonical keys whose value came from the terminal
	// kind-default pass rather than a real resolution
	Defaulted []string `json:"defaulted,omitempty"`

	// EmptyByDesign lists canonical keys intentionally left empty
	// (gated discount, absent category)
	EmptyByDesign []string `json:"empty_by_design,omitempty"`

	// DiscountApplied reports whether the discount gate passed
	DiscountApplied bool `json:"discount_applied"`

	// DiscountedTotal is the post-discount total when the gate passed
	DiscountedTotal decimal.Decimal `json:"discounted_total"`
}

// Resolve builds the token dictionary for one agreement.
func Resolve(fig normalize.NormalizedFigures, client types.ClientMeta, deal types.DealMeta, discount types.DiscountState) (TokenMap, *ResolveReport) {
	report := &ResolveReport{}
	values := make(map[string]string, len(Registry))

	// Identity
	values["company_name"] = client.CompanyName
	values["contact_name"] = client.ContactName
	values["contact_email"] = client.ContactEmail
	values["client_address"] = joinAddress(client)
	values["deal_name"] = deal.DealName
	values["owner_name"] = deal.OwnerName
	values["owner_email"] = deal.OwnerEmail
	values["quote_date"] = deal.QuoteDate
	values["valid_until"] = deal.ValidUntil

	// Plan and totals
	values["plan_name"] = fig.PlanName
	values["total_cost"] = FormatCurrency(fig.TotalCost)
	values["per_user_cost"] = FormatCurrency(fig.PerUserMonthlyRate)
	values["per_gb_cost"] = FormatCurrency(fig.PerGBRate)
	values["instance_cost"] = FormatCurrency(fig.InstanceCost)
	values["managed_migration_cost"] = FormatCurrency(fig.ManagedMigrationCost)

	// Order figures
	values["number_of_users"] = FormatCount(int64(fig.TotalUsers))
	values["data_size_gb"] = FormatGB(fig.TotalDataGB)
	values["message_count"] = FormatCount(fig.TotalMessages)
	values["duration_months"] = strconv.Itoa(fig.EffectiveDurationMonths)
	values["instance_count"] = FormatCount(int64(fig.InstanceCount))
	values["instance_type"] = fig.InstanceTypeLabel

	resolveDiscount(values, fig, discount, report)
	resolveCategories(values, fig, report)

	// Expand canonical values to every alias, then run the terminal
	// validation pass over the full map.
	out := make(TokenMap, len(Registry)*3)
	for i := range Registry {
		f := &Registry[i]
		v, ok := values[f.Canonical]
		if !ok || isUnresolved(v) || (v == "" && f.Kind == KindIdentity) {
			if f.AllowEmpty {
				v = ""
			} else {
				v = f.Kind.DefaultFor()
				report.Defaulted = append(report.Defaulted, f.Canonical)
			}
		}
		for _, k := range f.Keys() {
			out[k] = v
		}
	}
	return out, report
}

// resolveDiscount materializes discount tokens only when the gate passes:
// pre-discount total >= threshold, percent in (0, 15], and the discounted
// total still >= threshold. A failed gate leaves the tokens empty (not
// "0") so conditional discount rows render blank.
func resolveDiscount(values map[string]string, fig normalize.NormalizedFigures, discount types.DiscountState, report *ResolveReport) {
	pct := discount.Percent
	gateOpen := pct > 0 && pct <= MaxDiscountPercent &&
		fig.TotalCost.GreaterThanOrEqual(DiscountThreshold)

	if gateOpen {
		factor := decimal.NewFromFloat(1 - pct/100)
		discounted := fig.TotalCost.Mul(factor).Round(2)
		if discounted.GreaterThanOrEqual(DiscountThreshold) {
			values["discount_percent"] = FormatPercent(pct)
			values["discount_amount"] = FormatCurrency(fig.TotalCost.Sub(discounted))
			values["discounted_total"] = FormatCurrency(discounted)
			report.DiscountApplied = true
			report.DiscountedTotal = discounted
			return
		}
	}

	values["discount_percent"] = ""
	values["discount_amount"] = ""
	values["discounted_total"] = ""
	report.EmptyByDesign = append(report.EmptyByDesign,
		"discount_percent", "discount_amount", "discounted_total")
}

// resolveCategories populates per-category tokens only for categories the
// order actually includes. Absent categories resolve to empty string, not
// zero, so a content-only agreement never renders a "$0.00 Messaging" line.
func resolveCategories(values map[string]string, fig normalize.NormalizedFigures, report *ResolveReport) {
	for _, cat := range []types.Category{types.CategoryMessaging, types.CategoryContent, types.CategoryEmail} {
		prefix := cat.String()
		cf, ok := fig.Categories[cat]
		if !ok {
			for _, suffix := range []string{"_combination", "_cost", "_users", "_duration"} {
				values[prefix+suffix] = ""
				report.EmptyByDesign = append(report.EmptyByDesign, prefix+suffix)
			}
			if cat == types.CategoryContent {
				values["content_data_gb"] = ""
				report.EmptyByDesign = append(report.EmptyByDesign, "content_data_gb")
			}
			continue
		}
		values[prefix+"_combination"] = cf.CombinationName
		values[prefix+"_cost"] = FormatCurrency(cf.Cost)
		values[prefix+"_users"] = FormatCount(int64(cf.Users))
		values[prefix+"_duration"] = strconv.Itoa(cf.DurationMonths)
		if cat == types.CategoryContent {
			values["content_data_gb"] = FormatGB(cf.DataGB)
		}
	}
}

// isUnresolved matches the values the upstream layers historically leaked
// for missing data. The literal "undefined" shows up when a web form field
// was serialized without a value.
func isUnresolved(v string) bool {
	switch v {
	case "undefined", "null", "<nil>", "NaN":
		return true
	}
	return false
}

func joinAddress(client types.ClientMeta) string {
	out := ""
	for _, part := range []string{client.Address, client.City, client.Country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

// Validate re-scans a token map and reports any entry that would leak an
// unresolved value into a rendered agreement.
func Validate(m TokenMap) error {
	for k, v := range m {
		if isUnresolved(v) {
			return fmt.Errorf("token %q resolved to unusable value %q", k, v)
		}
	}
	return nil
}
