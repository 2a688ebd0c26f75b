// Package exhibit - Exhibit Selector
// Expands the customer's selected combinations into the concrete ordered
// exhibit list attached to the agreement. The contract here is hard:
// never drop a purchased combination, never attach a duplicate, and always
// produce the identical order for identical inputs.
package exhibit

import (
	"sort"

	"go.uber.org/zap"

	"agreement-engine/core/types"
	"agreement-engine/internal/logging"
)

// FallbackLevel records how far down the degradation ladder a selection
// key had to reach before it matched.
type FallbackLevel int

const (
	// FallbackNone means the plan-matched expansion succeeded
	FallbackNone FallbackLevel = iota

	// FallbackPlanIgnored means matching succeeded only after ignoring
	// the exhibit's plan metadata
	FallbackPlanIgnored

	// FallbackLiteralID means only the originally selected exhibit ID
	// could be attached
	FallbackLiteralID
)

// String returns the fallback level name
func (l FallbackLevel) String() string {
	switch l {
	case FallbackPlanIgnored:
		return "plan_ignored"
	case FallbackLiteralID:
		return "literal_id"
	default:
		return "none"
	}
}

// GroupIncluded and GroupNotIncluded label the merge partitions
const (
	GroupIncluded    = "Included Features"
	GroupNotIncluded = "Not Included Features"
)

// Selection is the customer's ordered combination set
type Selection struct {
	// ExhibitIDs are the literal exhibit IDs picked in the UI
	ExhibitIDs []string

	// Segments are the per-category segment configs; their combination
	// names are authoritative when present
	Segments []types.SegmentConfig

	// PlanName is the purchased plan tier
	PlanName string
}

// SelectionKey is one (category, base key) pair the customer ordered
type SelectionKey struct {
	Category types.Category `json:"category"`
	BaseKey  string         `json:"base_key"`

	// SourceExhibitID is set when the key came from a literal UI pick;
	// it anchors the last rung of the fallback ladder
	SourceExhibitID string `json:"source_exhibit_id,omitempty"`
}

// SelectedExhibit is one exhibit chosen for attachment
type SelectedExhibit struct {
	// Record is the catalog record
	Record types.ExhibitRecord `json:"record"`

	// BaseKey is the combination base key that selected it
	BaseKey string `json:"base_key"`

	// GroupLabel partitions exhibits for merge headings
	GroupLabel string `json:"group_label"`

	// Fallback records which ladder rung matched it
	Fallback FallbackLevel `json:"fallback"`
}

// SelectionStep records the outcome for one selection key, for tracing
type SelectionStep struct {
	Key        SelectionKey  `json:"key"`
	Fallback   FallbackLevel `json:"fallback"`
	ExhibitIDs []string      `json:"exhibit_ids"`
}

// SelectionTrace exposes how the final list was derived
type SelectionTrace struct {
	Keys    []SelectionKey  `json:"keys"`
	Steps   []SelectionStep `json:"steps"`
	Globals []string        `json:"globals,omitempty"`
	Dropped []string        `json:"dropped_duplicates,omitempty"`
}

// Select expands, deduplicates, and orders the exhibits for one agreement.
func Select(sel Selection, catalog []types.ExhibitRecord) ([]SelectedExhibit, *SelectionTrace) {
	trace := &SelectionTrace{}
	keys := buildSelectionKeys(sel, catalog)
	trace.Keys = keys

	var working []SelectedExhibit
	for _, key := range keys {
		matched, level := matchKey(key, sel.PlanName, catalog)
		step := SelectionStep{Key: key, Fallback: level}
		for _, rec := range matched {
			working = append(working, makeSelected(rec, key.BaseKey, level))
			step.ExhibitIDs = append(step.ExhibitIDs, rec.ID)
		}
		trace.Steps = append(trace.Steps, step)

		if level != FallbackNone {
			logging.Warn("exhibit selection degraded",
				zap.String("category", key.Category.String()),
				zap.String("combination", key.BaseKey),
				zap.String("fallback", level.String()),
				zap.Strings("exhibits", step.ExhibitIDs))
		}
	}

	// Global add-ons attach to every agreement, after the matched set
	for _, rec := range catalog {
		if !rec.IsGlobal() {
			continue
		}
		if rec.PlanType != "" && !types.SamePlan(rec.PlanType, sel.PlanName) {
			continue
		}
		working = append(working, makeSelected(rec, types.CombinationAll, FallbackNone))
		trace.Globals = append(trace.Globals, rec.ID)
	}

	deduped := dedupe(working, trace)
	orderExhibits(deduped)
	return deduped, trace
}

// buildSelectionKeys unions the two selection sources: literal exhibit IDs
// from the UI and the combination names on the segment configs. The
// segment source is load-bearing; the UI does not always carry an ID.
func buildSelectionKeys(sel Selection, catalog []types.ExhibitRecord) []SelectionKey {
	byID := make(map[string]types.ExhibitRecord, len(catalog))
	for _, rec := range catalog {
		byID[rec.ID] = rec
	}

	var keys []SelectionKey
	seen := make(map[SelectionKey]bool)
	add := func(key SelectionKey) {
		probe := SelectionKey{Category: key.Category, BaseKey: key.BaseKey}
		if key.BaseKey == "" || seen[probe] {
			return
		}
		seen[probe] = true
		keys = append(keys, key)
	}

	addRecordKeys := func(rec types.ExhibitRecord, id string) {
		if rec.IsGlobal() {
			return
		}
		if len(rec.Combinations) == 0 {
			// Uncurated record: derive the key from its title
			add(SelectionKey{Category: rec.Category, BaseKey: BaseKey(NormalizeTitle(rec.Name)), SourceExhibitID: id})
			return
		}
		for _, tag := range rec.Combinations {
			add(SelectionKey{Category: rec.Category, BaseKey: BaseKey(tag), SourceExhibitID: id})
		}
	}

	for _, id := range sel.ExhibitIDs {
		rec, ok := byID[id]
		if !ok {
			logging.Warn("selected exhibit not in catalog", zap.String("exhibit_id", id))
			continue
		}
		addRecordKeys(rec, id)
	}

	for _, seg := range sel.Segments {
		if seg.CombinationName != "" {
			add(SelectionKey{Category: seg.Category, BaseKey: BaseKey(seg.CombinationName), SourceExhibitID: seg.ExhibitID})
		} else if seg.ExhibitID != "" {
			if rec, ok := byID[seg.ExhibitID]; ok {
				addRecordKeys(rec, seg.ExhibitID)
			}
		}
	}

	return keys
}

// matchKey walks the degradation ladder for one selection key:
// plan-matched expansion, then plan-ignoring category match, then the
// literal originally-selected exhibit. Curated metadata is occasionally
// stale; a purchased combination must never silently vanish.
func matchKey(key SelectionKey, planName string, catalog []types.ExhibitRecord) ([]types.ExhibitRecord, FallbackLevel) {
	var planMatched, keyMatched []types.ExhibitRecord
	for _, rec := range catalog {
		if rec.IsGlobal() || rec.Category != key.Category {
			continue
		}
		if !tagsMatch(rec.Combinations, key.BaseKey) {
			continue
		}
		keyMatched = append(keyMatched, rec)
		// Missing plan metadata counts as a plan match: the variant
		// predates plan-specific exhibits.
		if rec.PlanType == "" || types.SamePlan(rec.PlanType, planName) {
			planMatched = append(planMatched, rec)
		}
	}

	if len(planMatched) > 0 {
		return planMatched, FallbackNone
	}
	if len(keyMatched) > 0 {
		return keyMatched, FallbackPlanIgnored
	}
	if key.SourceExhibitID != "" {
		for _, rec := range catalog {
			if rec.ID == key.SourceExhibitID {
				return []types.ExhibitRecord{rec}, FallbackLiteralID
			}
		}
	}
	return nil, FallbackLiteralID
}

func tagsMatch(tags []string, baseKey string) bool {
	for _, tag := range tags {
		if BaseKey(tag) == baseKey {
			return true
		}
	}
	return false
}

func makeSelected(rec types.ExhibitRecord, baseKey string, level FallbackLevel) SelectedExhibit {
	group := GroupIncluded
	if rec.EffectiveIncludeType() == types.IncludeNotIncluded {
		group = GroupNotIncluded
	}
	return SelectedExhibit{
		Record:     rec,
		BaseKey:    baseKey,
		GroupLabel: group,
		Fallback:   level,
	}
}

// dedupKey is the stable identity an exhibit is collapsed on
func dedupKey(e SelectedExhibit) string {
	return e.Record.Category.String() + "|" +
		NormalizeTitle(e.Record.Name) + "|" +
		string(e.Record.EffectiveIncludeType())
}

// dedupe collapses exhibits sharing a dedup key, first-seen wins. The same
// migration can appear in the catalog under more than one raw ID; it must
// be merged into the agreement once.
func dedupe(working []SelectedExhibit, trace *SelectionTrace) []SelectedExhibit {
	seen := make(map[string]bool, len(working))
	out := working[:0]
	for _, e := range working {
		k := dedupKey(e)
		if seen[k] {
			trace.Dropped = append(trace.Dropped, e.Record.ID)
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	return out
}

// orderExhibits applies the contractual ordering: included before
// not-included, then messaging < content < email < other, then curator
// display order, with the record ID as the final tiebreaker so identical
// inputs always yield the identical byte sequence.
func orderExhibits(list []SelectedExhibit) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		ar, br := a.Record.EffectiveIncludeType().Rank(), b.Record.EffectiveIncludeType().Rank()
		if ar != br {
			return ar < br
		}
		if a.Record.Category.Rank() != b.Record.Category.Rank() {
			return a.Record.Category.Rank() < b.Record.Category.Rank()
		}
		if a.Record.DisplayOrder != b.Record.DisplayOrder {
			return a.Record.DisplayOrder < b.Record.DisplayOrder
		}
		return a.Record.ID < b.Record.ID
	})
}
