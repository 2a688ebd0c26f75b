// Package assembly - Assembly trace
// The original tooling inspected intermediate values through ambient debug
// state; here every assembly returns an explicit trace object instead.
package assembly

import (
	"time"

	"agreement-engine/core/exhibit"
	"agreement-engine/core/merge"
	"agreement-engine/core/normalize"
	"agreement-engine/core/template"
	"agreement-engine/core/token"
)

// PhaseTiming records one phase's wall time
type PhaseTiming struct {
	Phase    string        `json:"phase"`
	Duration time.Duration `json:"duration"`
}

// Trace exposes every intermediate artifact of one assembly request
type Trace struct {
	// RequestID identifies the assembly request
	RequestID string `json:"request_id"`

	// StartedAt is the request start time
	StartedAt time.Time `json:"started_at"`

	// Phases lists per-phase timings in execution order
	Phases []PhaseTiming `json:"phases"`

	// Figures is the normalizer output
	Figures *normalize.NormalizedFigures `json:"figures,omitempty"`

	// TokenReport is the resolver's diagnostics
	TokenReport *token.ResolveReport `json:"token_report,omitempty"`

	// RenderReport is the substitution diagnostics
	RenderReport *template.RenderReport `json:"render_report,omitempty"`

	// Selection is the exhibit selection trace
	Selection *exhibit.SelectionTrace `json:"selection,omitempty"`

	// MergeReport is the merge outcome
	MergeReport *merge.Report `json:"merge_report,omitempty"`

	// FetchAttempts maps exhibit ID to the attempts its fetch took
	FetchAttempts map[string]int `json:"fetch_attempts,omitempty"`
}

// phase runs fn and records its duration under name
func (t *Trace) phase(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	t.Phases = append(t.Phases, PhaseTiming{Phase: name, Duration: time.Since(start)})
	return err
}
