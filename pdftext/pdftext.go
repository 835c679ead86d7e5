// Package pdftext extracts positioned text from PDF statements.
//
// It is the converter's only contact with the PDF format: it turns each page
// into an ordered list of text lines, reconstructed from glyph positions,
// since tabular layouts do not survive as plain text. Everything downstream
// works on those lines.
package pdftext

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dslipak/pdf"
)

// Document is the raw text of one PDF file.
type Document struct {
	Path   string
	Author string     // from the PDF Info dictionary, empty when absent
	Pages  [][]string // one slice of lines per page, top to bottom
}

// Read opens a PDF file and reconstructs its text lines.
func Read(path string) (*Document, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	doc := &Document{Path: path}
	if info := r.Trailer().Key("Info"); !info.IsNull() {
		doc.Author = info.Key("Author").Text()
	}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		doc.Pages = append(doc.Pages, Lines(p.Content().Text))
	}
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("%q has no text pages", path)
	}
	return doc, nil
}

// Lines groups positioned glyphs into text lines.
//
// Glyphs are bucketed into rows by their Y coordinate with a small nudge
// tolerance (baselines wobble by fractions of a point), then each row is
// read left to right. A horizontal gap wider than half the font size starts
// a new word; a gap wider than two font sizes is a column break, rendered as
// a tab so callers can still see the table shape.
func Lines(chars []pdf.Text) []string {
	if len(chars) == 0 {
		return nil
	}
	chars = append([]pdf.Text(nil), chars...)

	// Sort top-to-bottom and normalize close baselines.
	const nudge = 1
	sort.Sort(pdf.TextVertical(chars))
	old := -100000.0
	for i, c := range chars {
		if c.Y != old && math.Abs(old-c.Y) < nudge {
			chars[i].Y = old
		} else {
			old = c.Y
		}
	}
	sort.Sort(pdf.TextVertical(chars))

	var lines []string
	for i := 0; i < len(chars); {
		j := i + 1
		for j < len(chars) && chars[j].Y == chars[i].Y {
			j++
		}
		lines = append(lines, row(chars[i:j]))
		i = j
	}
	return lines
}

// row renders one baseline worth of glyphs, already in X order.
func row(chars []pdf.Text) string {
	var sb strings.Builder
	end := chars[0].X
	for _, c := range chars {
		gap := c.X - end
		size := c.FontSize
		if size == 0 {
			size = 10
		}
		switch {
		case gap > 2*size:
			sb.WriteByte('\t')
		case gap > 0.4*size:
			sb.WriteByte(' ')
		}
		sb.WriteString(c.S)
		end = c.X + c.W
	}
	return sb.String()
}
