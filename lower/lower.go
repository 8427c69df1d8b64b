// Package lower implements the lowering pass: turning a structured
// ECMAScript-5-subset AST into an equivalent AST expressed as labeled
// basic blocks joined by explicit GOTO calls, with GET_PROPERTY,
// SET_PROPERTY, and CALL as the only operations the output ever treats as
// potentially throwing, threaded through a pair of synthetic per-function
// registers, __RESULT and __ERROR.
//
// Lowering never recovers from a structural problem: the first Error
// (unsupported node, invalid continue label, or violated internal
// invariant) aborts the whole pass. There is exactly one recover point,
// here in LowerProgram; every other file in this package
// signals failure by panicking with *Error.
package lower

import "github.com/flattenjs/flattenjs/ast"

// LowerProgram lowers an entire program: a top-level Context with no
// parameters, using the exact same machinery as a function body.
func LowerProgram(prog *ast.Program) (out *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if le, ok := r.(*Error); ok {
				err = le

				return
			}

			panic(r)
		}
	}()

	ctx := newContext(nil)
	for _, s := range prog.Body {
		ctx.Stmt(s)
	}

	return &ast.Program{Body: ctx.Leave()}, nil
}
