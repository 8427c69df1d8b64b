package lspserver

import (
	"github.com/flattenjs/flattenjs/lexer"
	"github.com/flattenjs/flattenjs/lower"
	"github.com/flattenjs/flattenjs/parser"
)

// Diagnostic is a severity-free lowering or parse complaint, positioned at
// the whole document until the parser starts tracking node ranges.
type Diagnostic struct {
	Message string
}

// Document tracks one open text buffer and its most recent lowering result.
type Document struct {
	URI         string
	Version     int
	Content     string
	Diagnostics []Diagnostic
}

// Parse re-parses and re-lowers the document content, replacing Diagnostics.
func (d *Document) Parse() {
	d.Diagnostics = nil

	l := lexer.New(d.Content)
	p := parser.New(l)
	prog := p.ParseProgram()

	for _, e := range p.Errors() {
		d.Diagnostics = append(d.Diagnostics, Diagnostic{Message: e})
	}

	if len(d.Diagnostics) > 0 {
		return
	}

	if _, err := lower.LowerProgram(prog); err != nil {
		d.Diagnostics = append(d.Diagnostics, Diagnostic{Message: err.Error()})
	}
}

// Update replaces the document content and version, then re-parses.
func (d *Document) Update(content string, version int) {
	d.Content = content
	d.Version = version
	d.Parse()
}
