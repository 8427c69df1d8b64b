package lower

import "github.com/flattenjs/flattenjs/ast"

// gotoCallStmt builds `GOTO(arg);`, the only statement shape a jump ever
// materializes to.
func gotoCallStmt(arg ast.Expr) ast.Stmt {
	return &ast.ExpressionStatement{
		Expression: &ast.CallExpression{
			Callee: &ast.Identifier{Name: "GOTO"},
			Args:   []ast.Expr{arg},
		},
	}
}

// helperCall builds a call to one of the three data-flow helpers
// (GET_PROPERTY, SET_PROPERTY, CALL). Every argument must already be a
// reusable expression.
func helperCall(name string, args ...ast.Expr) ast.Expr {
	return &ast.CallExpression{Callee: &ast.Identifier{Name: name}, Args: args}
}

// assign builds `name = value;`.
func assign(name string, value ast.Expr) ast.Stmt {
	return &ast.ExpressionStatement{
		Expression: &ast.AssignmentExpression{Operator: "=", Target: &ast.Identifier{Name: name}, Value: value},
	}
}

func exprStmt(e ast.Expr) ast.Stmt {
	return &ast.ExpressionStatement{Expression: e}
}

func ident(name string) *ast.Identifier {
	return &ast.Identifier{Name: name}
}

// blockLabel names a basic block by its dense emission-order index.
func blockLabel(n int) string {
	return "B" + itoa(n)
}

// itoa formats a small non-negative integer without pulling in strconv. It
// builds both block labels (blockLabel) and temporary names (tempPool.alloc).
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var buf [20]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}

	return string(buf[i:])
}
