// Package types - Agreement configuration types
package types

import "strings"

// Category identifies a migration workload category
type Category string

const (
	CategoryMessaging Category = "messaging"
	CategoryContent   Category = "content"
	CategoryEmail     Category = "email"
)

// String returns the string representation
func (c Category) String() string {
	return string(c)
}

// Rank returns the contractual ordering position of the category.
// Messaging exhibits always precede content, which precede email.
func (c Category) Rank() int {
	switch c {
	case CategoryMessaging:
		return 0
	case CategoryContent:
		return 1
	case CategoryEmail:
		return 2
	default:
		return 3
	}
}

// ParseCategory normalizes a raw category string
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "messaging", "chat":
		return CategoryMessaging
	case "content", "storage", "drive":
		return CategoryContent
	case "email", "mail":
		return CategoryEmail
	default:
		return Category(strings.ToLower(strings.TrimSpace(s)))
	}
}

// MigrationKind distinguishes single-combination orders from composite orders
type MigrationKind string

const (
	// MigrationSingle is a purchase of exactly one combination
	MigrationSingle MigrationKind = "single"

	// MigrationComposite is a purchase spanning multiple categories
	MigrationComposite MigrationKind = "composite"
)

// SegmentConfig describes one sub-migration within a purchase
type SegmentConfig struct {
	// Category is the workload category of this segment
	Category Category `json:"category"`

	// ExhibitID is the exhibit selected in the UI, when one was carried
	ExhibitID string `json:"exhibit_id,omitempty"`

	// CombinationName is the human-readable combination (e.g. "Slack to Teams").
	// Authoritative for exhibit selection when present.
	CombinationName string `json:"combination_name,omitempty"`

	// NumberOfUsers is the migrated user count
	NumberOfUsers int `json:"number_of_users"`

	// NumberOfInstances is the migration instance count
	NumberOfInstances int `json:"number_of_instances"`

	// InstanceType is the instance class label
	InstanceType string `json:"instance_type,omitempty"`

	// DurationMonths is the contracted segment duration
	DurationMonths int `json:"duration_months"`

	// DataSizeGB is the billed data volume
	DataSizeGB float64 `json:"data_size_gb"`

	// MessageCount is the billed message volume
	MessageCount int64 `json:"message_count"`
}

// PricingConfiguration describes one purchase.
// A single configuration has exactly one implicit segment; a composite
// configuration carries one ordered segment per selected category.
type PricingConfiguration struct {
	// Kind is the migration kind
	Kind MigrationKind `json:"migration_kind"`

	// Segment is the sole segment of a single configuration
	Segment *SegmentConfig `json:"segment,omitempty"`

	// SegmentList holds the ordered segments of a composite configuration
	SegmentList []SegmentConfig `json:"segments,omitempty"`

	// SelectedExhibitIDs are the exhibit IDs picked in the UI
	SelectedExhibitIDs []string `json:"selected_exhibit_ids,omitempty"`

	// PlanName is the purchased plan tier name
	PlanName string `json:"plan_name"`
}

// Segments returns the canonical segment list regardless of kind.
// Callers switch on Kind only when single/composite semantics differ;
// everything else iterates this list.
func (c *PricingConfiguration) Segments() []SegmentConfig {
	switch c.Kind {
	case MigrationComposite:
		return c.SegmentList
	default:
		if c.Segment != nil {
			return []SegmentConfig{*c.Segment}
		}
		if len(c.SegmentList) > 0 {
			return c.SegmentList[:1]
		}
		return nil
	}
}

// SegmentFor returns the segment for a category, if the order includes one
func (c *PricingConfiguration) SegmentFor(cat Category) (SegmentConfig, bool) {
	for _, seg := range c.Segments() {
		if seg.Category == cat {
			return seg, true
		}
	}
	return SegmentConfig{}, false
}

// IsComposite reports whether the order spans multiple categories
func (c *PricingConfiguration) IsComposite() bool {
	return c.Kind == MigrationComposite
}

// ClientMeta carries client identity fields for the agreement header
type ClientMeta struct {
	CompanyName  string `json:"company_name"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
}

// DealMeta carries deal-level fields independent of pricing
type DealMeta struct {
	DealName   string `json:"deal_name"`
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
	QuoteDate  string `json:"quote_date,omitempty"`
	ValidUntil string `json:"valid_until,omitempty"`
}

// DiscountState carries the discount requested for an order
type DiscountState struct {
	// Percent is the requested discount percentage
	Percent float64 `json:"percent"`

	// Reason is the free-form justification recorded with the deal
	Reason string `json:"reason,omitempty"`
}
