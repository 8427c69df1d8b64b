// Package printer renders a lowered (or unlowered) *ast.Program back to
// source text. It is thin glue, external to the lowering pass proper: the
// core produces a well-formed AST, and pretty-printing it is out of the
// core's scope by design.
package printer

import (
	"io"

	"github.com/flattenjs/flattenjs/ast"
)

// Fprint writes prog's source-text rendering to w.
func Fprint(w io.Writer, prog *ast.Program) error {
	_, err := io.WriteString(w, prog.String())

	return err
}

// String renders prog to a string.
func String(prog *ast.Program) string {
	return prog.String()
}
