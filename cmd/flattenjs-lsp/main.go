// Command flattenjs-lsp runs the lowering core as an LSP server over
// stdin/stdout, reporting lowering failures as diagnostics on every open
// and changed document.
package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/flattenjs/flattenjs/lspserver"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// stdinStdout wraps stdin and stdout into a single ReadWriteCloser.
type stdinStdout struct {
	io.Reader
	io.Writer
}

func (s stdinStdout) Close() error {
	return nil
}

func main() {
	logFile, err := os.OpenFile("/tmp/flattenjs-lsp.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	ctx := context.Background()
	rwc := stdinStdout{Reader: os.Stdin, Writer: os.Stdout}

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))

	srv := lspserver.New()
	srv.DiagnosticCallback = func(uri string, diagnostics []protocol.Diagnostic) {
		if err := conn.Notify(ctx, "textDocument/publishDiagnostics", &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(uri),
			Diagnostics: diagnostics,
		}); err != nil {
			log.Printf("publishDiagnostics: %v", err)
		}
	}

	handler := protocol.ServerHandler(srv, nil)
	conn.Go(ctx, handler)

	log.Println("flattenjs-lsp started")

	<-conn.Done()

	if err := conn.Err(); err != nil {
		log.Printf("connection closed: %v", err)
	}
}
