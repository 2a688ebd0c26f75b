// Package assembly - Agreement assembly orchestrator
// Drives the full pipeline: normalize, resolve tokens and select exhibits
// concurrently, render the base template, fan out exhibit fetches, merge.
// Phases only move forward; a request owns all of its state and shares
// nothing with concurrent requests.
package assembly

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"agreement-engine/adapters/storage"
	"agreement-engine/core/docx"
	"agreement-engine/core/exhibit"
	"agreement-engine/core/merge"
	"agreement-engine/core/normalize"
	"agreement-engine/core/template"
	"agreement-engine/core/token"
	"agreement-engine/core/types"
	"agreement-engine/internal/errors"
	"agreement-engine/internal/logging"
)

// Request is one agreement assembly request
type Request struct {
	// Config is the pricing configuration, passed by value semantics:
	// the engine never mutates it
	Config *types.PricingConfiguration `json:"config"`

	// Breakdown is the computed cost breakdown
	Breakdown *types.CostBreakdown `json:"breakdown"`

	// Client carries client identity for the agreement header
	Client types.ClientMeta `json:"client"`

	// Deal carries deal-level metadata
	Deal types.DealMeta `json:"deal"`

	// Discount is the requested discount state
	Discount types.DiscountState `json:"discount"`

	// TemplateName names the base template in the template store
	TemplateName string `json:"template_name,omitempty"`
}

// Result is a successful assembly outcome
type Result struct {
	// Document is the composite agreement package
	Document []byte `json:"-"`

	// Warnings lists non-fatal degradations the user should see
	Warnings []string `json:"warnings,omitempty"`

	// Trace exposes every intermediate artifact
	Trace *Trace `json:"trace,omitempty"`
}

// Option configures an Assembler
type Option func(*Assembler)

// WithFetchRetries sets the per-exhibit fetch retry count
func WithFetchRetries(n int) Option {
	return func(a *Assembler) { a.fetchRetries = n }
}

// WithFetchConcurrency caps concurrent exhibit fetches
func WithFetchConcurrency(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.fetchConcurrency = n
		}
	}
}

// fetchRetryDelay is the backoff between exhibit fetch attempts
const fetchRetryDelay = 50 * time.Millisecond

// Assembler assembles agreements from a catalog and a file store
type Assembler struct {
	catalog          storage.Catalog
	files            storage.FileStore
	fetchRetries     int
	fetchConcurrency int
}

// New creates an Assembler
func New(catalog storage.Catalog, files storage.FileStore, opts ...Option) *Assembler {
	a := &Assembler{
		catalog:          catalog,
		files:            files,
		fetchRetries:     2,
		fetchConcurrency: 4,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble runs one assembly request end to end.
// A missing template or an unusable base document aborts with an error and
// no document; exhibit-level failures degrade to warnings.
func (a *Assembler) Assemble(ctx context.Context, req Request) (*Result, error) {
	trace := &Trace{
		RequestID:     uuid.NewString(),
		StartedAt:     time.Now(),
		FetchAttempts: make(map[string]int),
	}
	result := &Result{Trace: trace}
	log := logging.With(zap.String("request_id", trace.RequestID))

	if req.TemplateName == "" {
		return nil, errors.MissingTemplate("(unset)")
	}

	// Template existence is checked before any work begins
	var templateData []byte
	if err := trace.phase("template_fetch", func() error {
		data, err := a.files.GetTemplate(ctx, req.TemplateName)
		if err != nil {
			return errors.MissingTemplate(req.TemplateName)
		}
		templateData = data
		return nil
	}); err != nil {
		return nil, err
	}

	var tier types.Tier
	var catalogRecords []types.ExhibitRecord
	if err := trace.phase("catalog_read", func() error {
		t, err := a.catalog.GetTier(ctx, planNameOf(req.Config))
		if err != nil {
			// Normalizer falls back to the plan-name default table
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("pricing tier %q not found, using defaults", planNameOf(req.Config)))
		} else {
			tier = t
		}
		catalogRecords, err = a.catalog.ListExhibits(ctx)
		if err != nil {
			return errors.Storage("exhibit catalog unavailable", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// The resolver and the selector read the same configuration but are
	// otherwise independent; they run concurrently.
	var tokens token.TokenMap
	var selected []exhibit.SelectedExhibit
	if err := trace.phase("resolve_and_select", func() error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fig := normalize.Normalize(req.Config, req.Breakdown, tier)
			trace.Figures = &fig
			m, report := token.Resolve(fig, req.Client, req.Deal, req.Discount)
			trace.TokenReport = report
			tokens = m
			return token.Validate(m)
		})
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sel := exhibit.Selection{
				ExhibitIDs: selectedIDsOf(req.Config),
				Segments:   segmentsOf(req.Config),
				PlanName:   planNameOf(req.Config),
			}
			list, selTrace := exhibit.Select(sel, catalogRecords)
			selected = list
			trace.Selection = selTrace
			return nil
		})
		return g.Wait()
	}); err != nil {
		return nil, err
	}

	var base *docx.Document
	if err := trace.phase("render", func() error {
		doc, err := docx.Parse(templateData)
		if err != nil {
			return err
		}
		report, err := template.Render(doc, tokens)
		trace.RenderReport = report
		if err != nil {
			return err
		}
		for _, t := range report.Unresolved {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("template token %q has no value", t))
		}
		base = doc
		return nil
	}); err != nil {
		return nil, err
	}

	var fetched []merge.FetchedExhibit
	_ = trace.phase("exhibit_fetch", func() error {
		fetched = a.fetchExhibits(ctx, selected, trace)
		return nil
	})
	if err := ctx.Err(); err != nil {
		return nil, errors.Internal("assembly cancelled", err)
	}

	if err := trace.phase("merge", func() error {
		report, err := merge.Merge(base, fetched)
		trace.MergeReport = report
		if err != nil {
			return err
		}
		for _, s := range report.Skipped {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("exhibit %q could not be attached", s.Name))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := trace.phase("serialize", func() error {
		data, err := base.Bytes()
		if err != nil {
			return err
		}
		result.Document = data
		return nil
	}); err != nil {
		return nil, err
	}

	log.Info("assembly complete",
		zap.Int("exhibits", len(selected)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Int("bytes", len(result.Document)))
	return result, nil
}

// fetchExhibits retrieves exhibit documents concurrently. Records are
// immutable and order-independent at fetch time; ordering was applied by
// the selector and is preserved in the output slice. A fetch that fails
// after the bounded retries becomes a skip, never an abort.
func (a *Assembler) fetchExhibits(ctx context.Context, selected []exhibit.SelectedExhibit, trace *Trace) []merge.FetchedExhibit {
	fetched := make([]merge.FetchedExhibit, len(selected))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.fetchConcurrency)

	for i, sel := range selected {
		i, sel := i, sel
		g.Go(func() error {
			key := sel.Record.ObjectKey
			if key == "" {
				key = sel.Record.ID
			}

			var data []byte
			var err error
			attempts := 0
			for attempts <= a.fetchRetries {
				if gctx.Err() != nil {
					err = gctx.Err()
					break
				}
				attempts++
				data, err = a.files.GetExhibitFile(gctx, key)
				if err == nil || attempts > a.fetchRetries {
					break
				}
				select {
				case <-gctx.Done():
					err = gctx.Err()
				case <-time.After(fetchRetryDelay):
				}
			}

			mu.Lock()
			trace.FetchAttempts[sel.Record.ID] = attempts
			mu.Unlock()

			if err != nil {
				logging.Warn("exhibit fetch failed",
					zap.String("exhibit_id", sel.Record.ID),
					zap.Int("attempts", attempts),
					zap.Error(err))
				fetched[i] = merge.FetchedExhibit{
					Selected: sel,
					Err:      errors.ExhibitFetch(sel.Record.ID, err),
				}
				return nil
			}
			fetched[i] = merge.FetchedExhibit{Selected: sel, Data: data}
			return nil
		})
	}
	_ = g.Wait()
	return fetched
}

func planNameOf(cfg *types.PricingConfiguration) string {
	if cfg == nil {
		return ""
	}
	return cfg.PlanName
}

func selectedIDsOf(cfg *types.PricingConfiguration) []string {
	if cfg == nil {
		return nil
	}
	return cfg.SelectedExhibitIDs
}

func segmentsOf(cfg *types.PricingConfiguration) []types.SegmentConfig {
	if cfg == nil {
		return nil
	}
	return cfg.Segments()
}
