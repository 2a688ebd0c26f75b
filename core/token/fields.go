// Package token - Semantic field registry
// Every semantic value the templating layer can reference is declared once
// here, together with every historical alias spelling. Templates were
// authored independently over years and reference the same value under
// several keys; the registry is the single place that keeps all aliases
// synchronized.
package token

import "strings"

// Kind classifies a field for default inference. When a field fails to
// resolve, its kind decides the terminal fallback value.
type Kind int

const (
	// KindCurrency fields default to "$0.00"
	KindCurrency Kind = iota

	// KindCount fields default to "0"
	KindCount

	// KindSize fields default to "0"
	KindSize

	// KindDuration fields default to "1"
	KindDuration

	// KindIdentity fields default to a human placeholder
	KindIdentity

	// KindText fields default to empty string
	KindText
)

// DefaultFor returns the terminal fallback value for a kind
func (k Kind) DefaultFor() string {
	switch k {
	case KindCurrency:
		return "$0.00"
	case KindCount, KindSize:
		return "0"
	case KindDuration:
		return "1"
	case KindIdentity:
		return "Valued Customer"
	default:
		return ""
	}
}

// Field is one semantic value with its historical alias spellings
type Field struct {
	// Canonical is the preferred token key
	Canonical string

	// Aliases are the historical alternate spellings
	Aliases []string

	// Kind classifies the field for default inference
	Kind Kind

	// AllowEmpty marks fields that legitimately resolve to empty string
	// (gated discounts, absent-category figures). The validation pass
	// leaves their empty values alone instead of defaulting them.
	AllowEmpty bool

	// Critical marks fields whose absence from a template resolution
	// aborts assembly (client identity, total cost).
	Critical bool
}

// Keys returns the canonical key followed by all aliases
func (f Field) Keys() []string {
	keys := make([]string, 0, len(f.Aliases)+1)
	keys = append(keys, f.Canonical)
	keys = append(keys, f.Aliases...)
	return keys
}

// Registry is the full field catalog, in stable declaration order
var Registry = []Field{
	// Identity
	{Canonical: "company_name", Aliases: []string{"client_company", "customer_name", "companyname"}, Kind: KindIdentity, Critical: true},
	{Canonical: "contact_name", Aliases: []string{"client_name", "contact_person"}, Kind: KindIdentity, Critical: true},
	{Canonical: "contact_email", Aliases: []string{"client_email", "email"}, Kind: KindText},
	{Canonical: "client_address", Aliases: []string{"address", "company_address"}, Kind: KindText},
	{Canonical: "deal_name", Aliases: []string{"opportunity_name", "project_name"}, Kind: KindText},
	{Canonical: "owner_name", Aliases: []string{"account_manager", "sales_rep"}, Kind: KindText},
	{Canonical: "owner_email", Aliases: []string{"account_manager_email"}, Kind: KindText},
	{Canonical: "quote_date", Aliases: []string{"agreement_date", "date"}, Kind: KindText},
	{Canonical: "valid_until", Aliases: []string{"expiry_date", "quote_valid_until"}, Kind: KindText},

	// Plan and totals
	{Canonical: "plan_name", Aliases: []string{"plan", "tier_name", "plan_type"}, Kind: KindText},
	{Canonical: "total_cost", Aliases: []string{"total_price", "grand_total", "totalcost", "overall_cost"}, Kind: KindCurrency, Critical: true},
	{Canonical: "per_user_cost", Aliases: []string{"per_user_rate", "user_rate", "cost_per_user", "license_cost"}, Kind: KindCurrency},
	{Canonical: "per_gb_cost", Aliases: []string{"per_gb_rate", "gb_rate", "cost_per_gb", "data_rate"}, Kind: KindCurrency},
	{Canonical: "managed_migration_cost", Aliases: []string{"migration_fee", "managed_cost"}, Kind: KindCurrency},

	// Order figures
	{Canonical: "number_of_users", Aliases: []string{"users", "user_count", "total_users", "no_of_users"}, Kind: KindCount},
	{Canonical: "data_size_gb", Aliases: []string{"data_size", "total_data", "data_gb"}, Kind: KindSize},
	{Canonical: "message_count", Aliases: []string{"messages", "total_messages"}, Kind: KindCount},
	{Canonical: "duration_months", Aliases: []string{"duration", "project_duration", "migration_duration", "term_months"}, Kind: KindDuration},
	{Canonical: "instance_count", Aliases: []string{"instances", "number_of_instances"}, Kind: KindCount},
	{Canonical: "instance_type", Aliases: []string{"instance_class"}, Kind: KindText},
	{Canonical: "instance_cost", Aliases: []string{"instance_total", "instances_cost"}, Kind: KindCurrency},

	// Discount (gated: empty unless the discount materializes)
	{Canonical: "discount_percent", Aliases: []string{"discount", "discount_pct"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "discount_amount", Aliases: []string{"discount_value", "savings"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "discounted_total", Aliases: []string{"final_total", "total_after_discount", "net_total"}, Kind: KindText, AllowEmpty: true},

	// Per-category figures (empty, not "$0.00", when the category is absent)
	{Canonical: "messaging_combination", Aliases: []string{"messaging_migration"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "messaging_cost", Aliases: []string{"messaging_total", "chat_cost"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "messaging_users", Aliases: []string{"chat_users"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "messaging_duration", Aliases: []string{"chat_duration"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "content_combination", Aliases: []string{"content_migration", "storage_migration"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "content_cost", Aliases: []string{"content_total", "storage_cost"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "content_users", Aliases: []string{"storage_users"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "content_duration", Aliases: []string{"storage_duration"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "content_data_gb", Aliases: []string{"storage_data_gb"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "email_combination", Aliases: []string{"email_migration"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "email_cost", Aliases: []string{"email_total", "mail_cost"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "email_users", Aliases: []string{"mail_users"}, Kind: KindText, AllowEmpty: true},
	{Canonical: "email_duration", Aliases: []string{"mail_duration"}, Kind: KindText, AllowEmpty: true},
}

// fieldIndex maps every key (canonical and alias) to its field
var fieldIndex = buildFieldIndex()

func buildFieldIndex() map[string]*Field {
	idx := make(map[string]*Field)
	for i := range Registry {
		for _, k := range Registry[i].Keys() {
			idx[k] = &Registry[i]
		}
	}
	return idx
}

// Lookup resolves a token key (canonical or alias) to its field
func Lookup(key string) (*Field, bool) {
	f, ok := fieldIndex[strings.ToLower(strings.TrimSpace(key))]
	return f, ok
}

// CriticalKeys returns every key belonging to a critical field
func CriticalKeys() []string {
	var keys []string
	for _, f := range Registry {
		if f.Critical {
			keys = append(keys, f.Keys()...)
		}
	}
	return keys
}

// IsCritical reports whether a key belongs to a critical field
func IsCritical(key string) bool {
	f, ok := Lookup(key)
	return ok && f.Critical
}
