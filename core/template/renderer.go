// Package template - Token substitution over the base document
// Templates carry literal {{token_name}} placeholders. Word splits text
// into runs unpredictably, so a placeholder can straddle several runs;
// substitution therefore works on whole-paragraph text and only rewrites
// paragraphs that actually contain a placeholder.
package template

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"agreement-engine/core/docx"
	"agreement-engine/core/token"
	"agreement-engine/internal/errors"
	"agreement-engine/internal/logging"
)

// tokenPattern matches {{token_name}} placeholders
var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// RenderReport lists the diagnostics of one substitution pass
type RenderReport struct {
	// Substituted counts placeholder occurrences replaced
	Substituted int `json:"substituted"`

	// TokensSeen lists the distinct token keys found in the template
	TokensSeen []string `json:"tokens_seen,omitempty"`

	// Unresolved lists non-critical tokens with no resolver entry; the
	// caller warns the user and proceeds
	Unresolved []string `json:"unresolved,omitempty"`
}

// Render substitutes tokens into the document in place. Critical tokens
// (client identity, total cost) with no resolver entry abort the render.
func Render(doc *docx.Document, tokens token.TokenMap) (*RenderReport, error) {
	if doc == nil {
		return nil, errors.MissingTemplate("(none)")
	}

	report := &RenderReport{}
	seen := make(map[string]bool)
	var unresolved, critical []string

	body := doc.Body()
	for _, p := range paragraphs(body) {
		combined := paragraphText(p)
		if !strings.Contains(combined, "{{") {
			continue
		}

		replaced := tokenPattern.ReplaceAllStringFunc(combined, func(m string) string {
			key := strings.ToLower(tokenPattern.FindStringSubmatch(m)[1])
			if !seen[key] {
				seen[key] = true
				report.TokensSeen = append(report.TokensSeen, key)
			}
			value, ok := tokens[key]
			if !ok {
				if token.IsCritical(key) {
					critical = append(critical, key)
				} else {
					unresolved = append(unresolved, key)
				}
				return m
			}
			report.Substituted++
			return value
		})

		if replaced != combined {
			setParagraphText(p, replaced)
		}
	}

	if len(critical) > 0 {
		return report, errors.UnresolvedTokens(dedupStrings(critical))
	}

	report.Unresolved = dedupStrings(unresolved)
	if len(report.Unresolved) > 0 {
		logging.Warn("template tokens unresolved",
			zap.Strings("tokens", report.Unresolved))
	}
	return report, nil
}

// paragraphs returns every paragraph under the body, including table cells
func paragraphs(el *etree.Element) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if e.Tag == "p" {
			out = append(out, e)
			return
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	for _, child := range el.ChildElements() {
		walk(child)
	}
	return out
}

func paragraphText(p *etree.Element) string {
	var b strings.Builder
	for _, t := range textNodes(p) {
		b.WriteString(t.Text())
	}
	return b.String()
}

// setParagraphText collapses the substituted text into the paragraph's
// first text run and empties the rest. Run-level formatting inside a
// placeholder paragraph does not survive; placeholder paragraphs are
// authored as single-format lines.
func setParagraphText(p *etree.Element, text string) {
	nodes := textNodes(p)
	if len(nodes) == 0 {
		return
	}
	nodes[0].SetText(text)
	nodes[0].CreateAttr("xml:space", "preserve")
	for _, t := range nodes[1:] {
		t.SetText("")
	}
}

func textNodes(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if e.Tag == "t" {
			out = append(out, e)
			return
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(el)
	return out
}

func dedupStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
