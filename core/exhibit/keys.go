// Package exhibit - Combination key derivation
// Exhibit combination tags embed plan and inclusion suffixes that were
// bolted on over time ("slack-to-teams-basic-include"). Selection works on
// the stripped base key so every variant of one combination compares equal.
package exhibit

import (
	"strings"
)

// suffix tokens stripped from the tail of a combination tag. Plan names
// and inclusion states both appear, in either order.
var strippableSuffixes = map[string]bool{
	"basic":       true,
	"standard":    true,
	"advanced":    true,
	"premium":     true,
	"enterprise":  true,
	"include":     true,
	"included":    true,
	"notinclude":  true,
	"notincluded": true,
	"excluded":    true,
	"exclude":     true,
	"not":         true,
}

// BaseKey reduces a combination tag or human-readable combination name to
// its base key: lowercase, hyphen-separated, with plan and inclusion
// suffixes stripped ("Slack to Teams" and "slack-to-teams-basic-include"
// both yield "slack-to-teams").
func BaseKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.Join(strings.Fields(s), "-")

	parts := strings.Split(s, "-")
	for len(parts) > 1 && strippableSuffixes[parts[len(parts)-1]] {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, "-")
}

// NormalizeTitle strips every "included"/"not included" spelling variant
// from a rendered exhibit title, for dedup comparison.
func NormalizeTitle(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	for _, variant := range []string{
		"not included features",
		"not-included features",
		"notincluded features",
		"included features",
		"not included",
		"not-included",
		"notincluded",
		"included",
		"excluded",
	} {
		s = strings.ReplaceAll(s, variant, "")
	}
	s = strings.Trim(s, " -–:()")
	return strings.Join(strings.Fields(s), " ")
}
