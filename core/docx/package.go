// Package docx - Minimal OOXML word-processing package codec
// An agreement document is a zip container; the merge engine only ever
// touches word/document.xml and copies every other part through verbatim,
// so downstream readers keep working on the reassembled package.
package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"

	"github.com/beevik/etree"

	"agreement-engine/internal/errors"
)

// DocumentPart is the zip path of the main document body
const DocumentPart = "word/document.xml"

// Document is an opened word-processing package
type Document struct {
	// parts holds every package part except the main document, verbatim
	parts map[string][]byte

	// partNames preserves a stable part ordering for writing
	partNames []string

	// xml is the parsed main document
	xml *etree.Document
}

// Parse opens a .docx package from bytes
func Parse(data []byte) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Merge("document is not a readable package", err)
	}

	d := &Document{parts: make(map[string][]byte)}
	for _, f := range reader.File {
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Merge("package part unreadable: "+f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Merge("package part unreadable: "+f.Name, err)
		}
		if f.Name == DocumentPart {
			d.xml = etree.NewDocument()
			if err := d.xml.ReadFromBytes(content); err != nil {
				return nil, errors.Merge("document body is not valid XML", err)
			}
			continue
		}
		d.parts[f.Name] = content
		d.partNames = append(d.partNames, f.Name)
	}

	if d.xml == nil || d.Body() == nil {
		return nil, errors.Merge("package has no document body", nil)
	}
	return d, nil
}

// Body returns the w:body element of the main document
func (d *Document) Body() *etree.Element {
	root := d.xml.Root()
	if root == nil {
		return nil
	}
	for _, child := range root.ChildElements() {
		if child.Tag == "body" {
			return child
		}
	}
	return nil
}

// Bytes serializes the package back to a .docx byte stream
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	names := make([]string, len(d.partNames))
	copy(names, d.partNames)
	sort.Strings(names)

	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			return nil, errors.Internal("package write failed", err)
		}
		if _, err := f.Write(d.parts[name]); err != nil {
			return nil, errors.Internal("package write failed", err)
		}
	}

	body, err := d.xml.WriteToBytes()
	if err != nil {
		return nil, errors.Internal("document body serialization failed", err)
	}
	f, err := w.Create(DocumentPart)
	if err != nil {
		return nil, errors.Internal("package write failed", err)
	}
	if _, err := f.Write(body); err != nil {
		return nil, errors.Internal("package write failed", err)
	}

	if err := w.Close(); err != nil {
		return nil, errors.Internal("package write failed", err)
	}
	return buf.Bytes(), nil
}

// Text extracts the document's visible text, paragraph per line
func (d *Document) Text() string {
	var b bytes.Buffer
	body := d.Body()
	if body == nil {
		return ""
	}
	for _, p := range body.ChildElements() {
		if p.Tag != "p" {
			continue
		}
		collectText(p, &b)
		b.WriteByte('\n')
	}
	return b.String()
}

func collectText(el *etree.Element, b *bytes.Buffer) {
	if el.Tag == "t" {
		b.WriteString(el.Text())
		return
	}
	for _, child := range el.ChildElements() {
		collectText(child, b)
	}
}
