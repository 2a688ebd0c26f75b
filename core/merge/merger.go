// Package merge - Document Merge Engine
// Structurally reassembles the rendered base document and the ordered
// exhibit documents into one composite package. Nothing is rasterized:
// paragraphs and tables are relocated so text extraction and pagination
// still work per exhibit downstream.
package merge

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"agreement-engine/core/docx"
	"agreement-engine/core/exhibit"
	"agreement-engine/internal/errors"
	"agreement-engine/internal/logging"
)

// FetchedExhibit pairs a selected exhibit with its fetched bytes. A fetch
// failure arrives as a nil Data with Err set; merge turns it into a skip.
type FetchedExhibit struct {
	Selected exhibit.SelectedExhibit
	Data     []byte
	Err      error
}

// SkippedExhibit records one exhibit left out of the composite
type SkippedExhibit struct {
	ExhibitID string `json:"exhibit_id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
}

// Report summarizes one merge
type Report struct {
	// Appended lists exhibit IDs merged into the composite, in order
	Appended []string `json:"appended"`

	// Skipped lists exhibits that could not be attached; non-fatal, the
	// caller surfaces them as a warning banner
	Skipped []SkippedExhibit `json:"skipped,omitempty"`
}

// Merge appends each exhibit after the base document, separated by page
// breaks, inserting a group heading whenever the group label changes.
// Exhibit ordering is taken as given; grouping never reorders.
// A corrupt base is fatal; a corrupt exhibit is a skip.
func Merge(base *docx.Document, exhibits []FetchedExhibit) (*Report, error) {
	if base == nil {
		return nil, errors.Merge("base document is missing", nil)
	}
	body := base.Body()
	if body == nil {
		return nil, errors.Merge("base document has no body", nil)
	}

	report := &Report{}
	currentGroup := ""

	for _, fe := range exhibits {
		rec := fe.Selected.Record
		if fe.Err != nil {
			report.Skipped = append(report.Skipped, SkippedExhibit{
				ExhibitID: rec.ID, Name: rec.Name, Reason: fe.Err.Error(),
			})
			continue
		}

		doc, err := docx.Parse(fe.Data)
		if err != nil {
			logging.Warn("exhibit unparseable, skipping",
				zap.String("exhibit_id", rec.ID),
				zap.Error(err))
			report.Skipped = append(report.Skipped, SkippedExhibit{
				ExhibitID: rec.ID, Name: rec.Name, Reason: err.Error(),
			})
			continue
		}

		appendChild(body, docx.PageBreak())
		if fe.Selected.GroupLabel != currentGroup {
			currentGroup = fe.Selected.GroupLabel
			appendChild(body, docx.HeadingParagraph(currentGroup))
		}
		relocateBody(body, doc.Body())
		report.Appended = append(report.Appended, rec.ID)
	}

	logging.Info("composite document assembled",
		zap.Int("appended", len(report.Appended)),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

// appendChild inserts an element at the end of the body but before the
// trailing section properties, which must stay the last body child.
func appendChild(body *etree.Element, el *etree.Element) {
	children := body.ChildElements()
	if n := len(children); n > 0 && children[n-1].Tag == "sectPr" {
		body.InsertChildAt(children[n-1].Index(), el)
		return
	}
	body.AddChild(el)
}

// relocateBody moves every content child of an exhibit body into the
// composite body. The exhibit's own section properties are dropped; the
// composite keeps the base document's section layout.
func relocateBody(dst, src *etree.Element) {
	if src == nil {
		return
	}
	for _, child := range src.ChildElements() {
		if child.Tag == "sectPr" {
			continue
		}
		appendChild(dst, child.Copy())
	}
}
