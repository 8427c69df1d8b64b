package lspserver

import (
	"context"
	"testing"

	"go.lsp.dev/protocol"
)

func TestDidOpenValidSourcePublishesNoDiagnostics(t *testing.T) {
	s := New()

	var got []protocol.Diagnostic
	s.DiagnosticCallback = func(uri string, diagnostics []protocol.Diagnostic) {
		got = diagnostics
	}

	err := s.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///test.js",
			Text: "var x; x = 1;",
		},
	})
	if err != nil {
		t.Fatalf("DidOpen: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("expected no diagnostics, got %v", got)
	}
}

func TestDidOpenUnsupportedNodePublishesDiagnostic(t *testing.T) {
	s := New()

	var got []protocol.Diagnostic
	s.DiagnosticCallback = func(uri string, diagnostics []protocol.Diagnostic) {
		got = diagnostics
	}

	err := s.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:  "file:///bad.js",
			Text: "for (var k in obj) { k; }",
		},
	})
	if err != nil {
		t.Fatalf("DidOpen: %v", err)
	}

	if len(got) == 0 {
		t.Error("expected a diagnostic for an unsupported construct")
	}
}

func TestDidChangeUnknownDocumentErrors(t *testing.T) {
	s := New()

	err := s.DidChange(context.Background(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///missing.js"},
		},
	})
	if err == nil {
		t.Error("expected an error for an unopened document")
	}
}

func TestDidCloseRemovesDocument(t *testing.T) {
	s := New()

	_ = s.DidOpen(context.Background(), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///a.js", Text: "var x;"},
	})

	if err := s.DidClose(context.Background(), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.js"},
	}); err != nil {
		t.Fatalf("DidClose: %v", err)
	}

	if err := s.DidChange(context.Background(), &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///a.js"},
		},
	}); err == nil {
		t.Error("expected DidChange to fail after DidClose")
	}
}
