// Package template - Substitution tests
package template

import (
	"strings"
	"testing"

	"agreement-engine/core/docx"
	"agreement-engine/core/token"
	"agreement-engine/internal/errors"
)

func tokens() token.TokenMap {
	return token.TokenMap{
		"company_name":  "Acme Corp",
		"contact_name":  "Jo Smith",
		"total_cost":    "$12,500.00",
		"plan_name":     "Standard",
		"customer_name": "Acme Corp",
	}
}

// TestRenderSubstitutesTokens checks basic substitution across paragraphs
func TestRenderSubstitutesTokens(t *testing.T) {
	doc := docx.New(
		"This agreement is made with {{company_name}}.",
		"Total cost: {{total_cost}} on the {{plan_name}} plan.",
	)

	report, err := Render(doc, tokens())
	if err != nil {
		t.Fatal(err)
	}
	if report.Substituted != 3 {
		t.Errorf("substituted %d, want 3", report.Substituted)
	}

	text := doc.Text()
	if !strings.Contains(text, "Acme Corp") {
		t.Error("company name not substituted")
	}
	if !strings.Contains(text, "$12,500.00") {
		t.Error("total cost not substituted")
	}
	if strings.Contains(text, "{{") {
		t.Errorf("unsubstituted placeholder remains: %s", text)
	}
}

// TestRenderHandlesAliasAndWhitespace checks alias keys and padded tokens
func TestRenderHandlesAliasAndWhitespace(t *testing.T) {
	doc := docx.New("Client: {{ customer_name }}")

	_, err := Render(doc, tokens())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(doc.Text(), "Acme Corp") {
		t.Errorf("alias token not substituted: %s", doc.Text())
	}
}

// TestRenderReportsUnresolvedNonCritical proves unknown tokens are a
// diagnostic, not a failure
func TestRenderReportsUnresolvedNonCritical(t *testing.T) {
	doc := docx.New("See {{some_legacy_token}} for details. {{company_name}}.")

	report, err := Render(doc, tokens())
	if err != nil {
		t.Fatalf("non-critical unresolved token must not fail: %v", err)
	}
	if len(report.Unresolved) != 1 || report.Unresolved[0] != "some_legacy_token" {
		t.Errorf("unresolved = %v", report.Unresolved)
	}
}

// TestRenderAbortsOnCriticalToken proves a missing critical token aborts
// assembly with the token named
func TestRenderAbortsOnCriticalToken(t *testing.T) {
	doc := docx.New("Grand total: {{grand_total}}")

	_, err := Render(doc, token.TokenMap{"company_name": "Acme"})
	if err == nil {
		t.Fatal("expected critical token error")
	}
	if !errors.IsType(err, errors.TypeTokenUnresolved) {
		t.Fatalf("wrong error type: %v", err)
	}
	if !strings.Contains(err.Error(), "grand_total") {
		t.Errorf("error must name the token: %v", err)
	}
}

// TestRenderNilDocument proves the missing-template guard fires first
func TestRenderNilDocument(t *testing.T) {
	_, err := Render(nil, tokens())
	if !errors.IsType(err, errors.TypeTemplateMissing) {
		t.Fatalf("expected missing template error, got %v", err)
	}
}
