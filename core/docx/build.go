// Package docx - Document construction primitives
package docx

import "github.com/beevik/etree"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// wNamespace is the WordprocessingML main namespace
const wNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// New builds a minimal valid package with one paragraph per given string.
// Used by tests and the CLI fixture mode; production templates arrive from
// the template store.
func New(paragraphs ...string) *Document {
	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := xml.CreateElement("w:document")
	root.CreateAttr("xmlns:w", wNamespace)
	body := root.CreateElement("w:body")
	for _, text := range paragraphs {
		body.AddChild(Paragraph(text))
	}

	return &Document{
		parts: map[string][]byte{
			"[Content_Types].xml": []byte(contentTypesXML),
			"_rels/.rels":         []byte(relsXML),
		},
		partNames: []string{"[Content_Types].xml", "_rels/.rels"},
		xml:       xml,
	}
}

// Paragraph builds a plain text paragraph
func Paragraph(text string) *etree.Element {
	p := etree.NewElement("w:p")
	r := p.CreateElement("w:r")
	t := r.CreateElement("w:t")
	t.CreateAttr("xml:space", "preserve")
	t.SetText(text)
	return p
}

// HeadingParagraph builds a bold heading paragraph for group labels
func HeadingParagraph(text string) *etree.Element {
	p := etree.NewElement("w:p")
	pPr := p.CreateElement("w:pPr")
	rPr := pPr.CreateElement("w:rPr")
	rPr.CreateElement("w:b")
	r := p.CreateElement("w:r")
	rp := r.CreateElement("w:rPr")
	rp.CreateElement("w:b")
	t := r.CreateElement("w:t")
	t.SetText(text)
	return p
}

// PageBreak builds a page break paragraph
func PageBreak() *etree.Element {
	p := etree.NewElement("w:p")
	r := p.CreateElement("w:r")
	br := r.CreateElement("w:br")
	br.CreateAttr("w:type", "page")
	return p
}
