package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/flattenjs/flattenjs/ast"
)

func TestFprintWritesProgramString(t *testing.T) {
	prog := &ast.Program{
		Body: []ast.Stmt{
			&ast.ExpressionStatement{Expression: &ast.AssignmentExpression{
				Operator: "=",
				Target:   &ast.Identifier{Name: "x"},
				Value:    ast.Undefined,
			}},
		},
	}

	var buf bytes.Buffer
	if err := Fprint(&buf, prog); err != nil {
		t.Fatalf("Fprint: %v", err)
	}

	if !strings.Contains(buf.String(), "x = undefined") {
		t.Errorf("got %q", buf.String())
	}
}

func TestStringMatchesFprint(t *testing.T) {
	prog := &ast.Program{Body: []ast.Stmt{&ast.EmptyStatement{}}}

	var buf bytes.Buffer
	_ = Fprint(&buf, prog)

	if String(prog) != buf.String() {
		t.Errorf("String() = %q, Fprint wrote %q", String(prog), buf.String())
	}
}
