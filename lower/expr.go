package lower

import "github.com/flattenjs/flattenjs/ast"

// Expr lowers e, returning an expression that is either reusable (an
// identifier or literal) or a simple composite over reusable operands (a
// unary/binary expression, or a pure function value). Every potentially
// throwing operation — property get, property set, call — goes through
// execForeign and threads the implicit __ERROR check.
func (c *Context) Expr(e ast.Expr) ast.Expr {
	switch n := e.(type) {
	case *ast.Identifier:
		return n
	case *ast.Literal:
		return n
	case *ast.FunctionExpression:
		return c.lowerFunctionExpr(n)
	case *ast.MemberExpression:
		return c.lowerMemberRead(n)
	case *ast.AssignmentExpression:
		return c.lowerAssignment(n)
	case *ast.CallExpression:
		return c.lowerCall(n)
	case *ast.UnaryExpression:
		return c.lowerUnary(n)
	case *ast.BinaryExpression:
		return c.lowerBinary(n)
	default:
		fail(UnsupportedNode, "unsupported expression node %T", e)

		return nil
	}
}

// execForeign binds each already-lowered argument to a temporary (so the
// callee's own evaluation can't alias an earlier argument's register),
// emits the helper call, frees the argument temps, opens a branch on
// __ERROR whose error edge joins pendingThrow and whose success edge falls
// through, and returns __RESULT.
func (c *Context) execForeign(helper string, loweredArgs []ast.Expr) ast.Expr {
	bound := make([]ast.Expr, len(loweredArgs))
	for i, a := range loweredArgs {
		bound[i] = c.useTempVar(a)
	}

	c.emit(exprStmt(helperCall(helper, bound...)))

	for _, b := range bound {
		c.freeTempVar(b)
	}

	cb := c.createBranch(ident("__ERROR"), nil, nil)
	cb.Insert()
	cb.Else().ResolveHere()
	c.pendingThrow = append(c.pendingThrow, cb.Then())

	return ident("__RESULT")
}

func (c *Context) lowerFunctionExpr(n *ast.FunctionExpression) ast.Expr {
	child := newContext(n.Params)

	if n.Body != nil {
		for _, s := range n.Body.Body {
			child.Stmt(s)
		}
	}

	return &ast.FunctionExpression{Name: n.Name, Params: n.Params, Body: &ast.BlockStatement{Body: child.Leave()}}
}

// propertyKey lowers a MemberExpression's key: the property name as a
// string literal for the dot form, or the lowered (and temp-bound)
// computed expression for the bracket form.
func (c *Context) propertyKey(m *ast.MemberExpression) ast.Expr {
	if !m.Computed {
		return ast.StringLit(m.Property.(*ast.Identifier).Name)
	}

	return c.useTempVar(c.Expr(m.Property))
}

func (c *Context) lowerMemberRead(n *ast.MemberExpression) ast.Expr {
	obj := c.useTempVar(c.Expr(n.Object))
	key := c.propertyKey(n)

	result := c.execForeign("GET_PROPERTY", []ast.Expr{obj, key})

	c.freeTempVar(obj)
	c.freeTempVar(key)

	return result
}

func (c *Context) lowerAssignment(n *ast.AssignmentExpression) ast.Expr {
	switch target := n.Target.(type) {
	case *ast.Identifier:
		v := c.Expr(n.Value)
		c.emit(assign(target.Name, v))

		return ident(target.Name)
	case *ast.MemberExpression:
		obj := c.useTempVar(c.Expr(target.Object))
		key := c.propertyKey(target)
		val := c.useTempVar(c.Expr(n.Value))

		result := c.execForeign("SET_PROPERTY", []ast.Expr{obj, key, val})

		c.freeTempVar(obj)
		c.freeTempVar(key)
		c.freeTempVar(val)

		return result
	default:
		fail(UnsupportedNode, "unsupported assignment target %T", n.Target)

		return nil
	}
}

// lowerCall rewrites `f(args)` to CALL(f, undefined, args...) and
// `obj.m(args)` to CALL(GET_PROPERTY(obj, "m"), obj, args...), binding the
// receiver to a temp exactly once so it survives both the property fetch
// and the call.
func (c *Context) lowerCall(n *ast.CallExpression) ast.Expr {
	var callee, this ast.Expr = nil, ast.Expr(ast.Undefined)

	if member, ok := n.Callee.(*ast.MemberExpression); ok {
		obj := c.useTempVar(c.Expr(member.Object))
		key := c.propertyKey(member)

		got := c.execForeign("GET_PROPERTY", []ast.Expr{obj, key})

		callee = c.useTempVar(got)
		this = obj
		c.freeTempVar(key)
	} else {
		callee = c.useTempVar(c.Expr(n.Callee))
	}

	args := make([]ast.Expr, 0, len(n.Args))
	for _, a := range n.Args {
		args = append(args, c.useTempVar(c.Expr(a)))
	}

	result := c.execForeign("CALL", append([]ast.Expr{callee, this}, args...))

	for _, a := range args {
		c.freeTempVar(a)
	}

	c.freeTempVar(callee)
	if this != ast.Undefined {
		c.freeTempVar(this)
	}

	return result
}

func (c *Context) lowerUnary(n *ast.UnaryExpression) ast.Expr {
	v := c.useTempVar(c.Expr(n.Argument))
	result := &ast.UnaryExpression{Operator: n.Operator, Argument: v}
	c.freeTempVar(v)

	return result
}

func (c *Context) lowerBinary(n *ast.BinaryExpression) ast.Expr {
	l := c.useTempVar(c.Expr(n.Left))
	r := c.useTempVar(c.Expr(n.Right))
	result := &ast.BinaryExpression{Operator: n.Operator, Left: l, Right: r}
	c.freeTempVar(l)
	c.freeTempVar(r)

	return result
}
