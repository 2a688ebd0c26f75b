// Package types - Exhibit catalog types
package types

import "strings"

// CombinationAll is the sentinel tag for exhibits attached to every agreement
const CombinationAll = "all"

// IncludeType distinguishes the two halves of a combination's exhibit pair
type IncludeType string

const (
	// IncludeIncluded marks the "included features" exhibit
	IncludeIncluded IncludeType = "included"

	// IncludeNotIncluded marks the "not included features" exhibit
	IncludeNotIncluded IncludeType = "notincluded"
)

// Rank returns the ordering position: included paragraphs precede
// not-included paragraphs in the merged agreement.
func (t IncludeType) Rank() int {
	if t == IncludeNotIncluded {
		return 1
	}
	return 0
}

// ExhibitRecord is a stored supplementary document. Records are created by
// an administrative seeding process and are read-only to this engine.
type ExhibitRecord struct {
	// ID uniquely identifies the exhibit
	ID string `json:"id"`

	// Name is the rendered exhibit title
	Name string `json:"name"`

	// Description is the curator-supplied description
	Description string `json:"description,omitempty"`

	// Category is the workload category
	Category Category `json:"category"`

	// Combinations lists combination tags, or the sentinel "all"
	Combinations []string `json:"combinations"`

	// PlanType is the plan tier this variant applies to, when curated
	PlanType string `json:"plan_type,omitempty"`

	// IncludeType marks included vs not-included; inferred from the
	// name/description when the curator left it empty
	IncludeType IncludeType `json:"include_type,omitempty"`

	// DisplayOrder is the curator-assigned sort position
	DisplayOrder int `json:"display_order"`

	// ObjectKey locates the document bytes in the file store
	ObjectKey string `json:"object_key,omitempty"`
}

// EffectiveIncludeType returns the curated include type, inferring it from
// the name and description when absent. Curators historically spelled the
// negative variant several ways ("Not Included", "not-included", "Excluded").
func (e *ExhibitRecord) EffectiveIncludeType() IncludeType {
	if e.IncludeType != "" {
		return e.IncludeType
	}
	text := strings.ToLower(e.Name + " " + e.Description)
	if strings.Contains(text, "not included") ||
		strings.Contains(text, "not-included") ||
		strings.Contains(text, "notincluded") ||
		strings.Contains(text, "excluded") {
		return IncludeNotIncluded
	}
	return IncludeIncluded
}

// IsGlobal reports whether the exhibit is attached to every agreement
func (e *ExhibitRecord) IsGlobal() bool {
	for _, tag := range e.Combinations {
		if strings.EqualFold(strings.TrimSpace(tag), CombinationAll) {
			return true
		}
	}
	return false
}
