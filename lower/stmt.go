package lower

import "github.com/flattenjs/flattenjs/ast"

// Stmt lowers s, dispatching on node kind. It wraps the dispatch with the
// balanced-temporaries check: every statement handler must release exactly
// as many temporaries as it acquired.
func (c *Context) Stmt(s ast.Stmt) {
	before := c.temps.locked()
	c.stmtDispatch(s, "")
	after := c.temps.locked()

	if before != after {
		fail(InvariantViolated, "unbalanced temporaries in %T: before=%d after=%d", s, before, after)
	}
}

// stmtDispatch is Stmt's unchecked core. label is the enclosing
// LabeledStatement's name when s is a loop reached directly from
// lowerLabeled, "" otherwise.
func (c *Context) stmtDispatch(s ast.Stmt, label string) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		c.Expr(n.Expression)
	case *ast.BlockStatement:
		for _, st := range n.Body {
			c.Stmt(st)
		}
	case *ast.EmptyStatement:
		// no emission
	case *ast.DebuggerStatement:
		c.emit(n)
	case *ast.LabeledStatement:
		c.lowerLabeled(n)
	case *ast.BreakStatement:
		c.lowerBreak(n)
	case *ast.ContinueStatement:
		c.lowerContinue(n)
	case *ast.ReturnStatement:
		c.lowerReturn(n)
	case *ast.ThrowStatement:
		c.lowerThrow(n)
	case *ast.IfStatement:
		c.lowerIf(n)
	case *ast.WhileStatement:
		c.lowerWhile(n, label)
	case *ast.DoWhileStatement:
		c.lowerDoWhile(n, label)
	case *ast.ForStatement:
		c.lowerFor(n, label)
	case *ast.SwitchStatement:
		c.lowerSwitch(n, label)
	case *ast.VariableDeclaration:
		c.lowerVarDecl(n)
	case *ast.FunctionDeclaration:
		c.lowerFuncDecl(n)
	case *ast.TryStatement:
		c.lowerTry(n)
	default:
		fail(UnsupportedNode, "unsupported statement node %T", s)
	}
}

// lowerLabeled pushes a label frame, lowers the body, pops the frame, and
// resolves any break naming this label. A loop body is handled by the
// loop's own lowering function instead, so the label and its continue
// target live on a single frame.
func (c *Context) lowerLabeled(n *ast.LabeledStatement) {
	switch n.Body.(type) {
	case *ast.WhileStatement, *ast.DoWhileStatement, *ast.ForStatement:
		c.stmtDispatch(n.Body, n.Label)
	default:
		c.pushLabel(n.Label, nil)
		c.Stmt(n.Body)
		c.popLabel()
		c.resolveBreaksFor(n.Label)
	}
}

func (c *Context) lowerBreak(n *ast.BreakStatement) {
	h := c.insertPending()
	c.pendingBreaks = append(c.pendingBreaks, pendingBreak{name: n.Label, handle: h})
}

// lowerContinue walks the label stack from the top for the nearest frame
// carrying a continue handle whose name matches (any such frame, if
// unlabeled) and re-inserts a jump to it.
func (c *Context) lowerContinue(n *ast.ContinueStatement) {
	for i := len(c.labels) - 1; i >= 0; i-- {
		f := c.labels[i]
		if f.continueHandle == nil {
			continue
		}

		if n.Label == "" || f.name == n.Label {
			f.continueHandle.Insert()

			return
		}
	}

	fail(InvalidContinue, "continue %q matches no enclosing loop", n.Label)
}

func (c *Context) lowerReturn(n *ast.ReturnStatement) {
	if n.Argument != nil {
		v := c.Expr(n.Argument)
		c.emit(assign("__RESULT", v))
	}

	c.pendingReturn = append(c.pendingReturn, c.insertPending())
}

func (c *Context) lowerThrow(n *ast.ThrowStatement) {
	v := c.Expr(n.Argument)
	c.emit(assign("__ERROR", v))
	c.pendingThrow = append(c.pendingThrow, c.insertPending())
}

func (c *Context) lowerIf(n *ast.IfStatement) {
	test := c.Expr(n.Test)
	reject := c.insertBranchStart(test)

	c.Stmt(n.Consequent)

	if n.Alternate != nil {
		fulfill := c.insertPending()
		reject.ResolveHere()
		c.Stmt(n.Alternate)
		fulfill.ResolveHere()
	} else {
		reject.ResolveHere()
	}
}

func (c *Context) lowerWhile(n *ast.WhileStatement, label string) {
	start := c.createToHere()
	test := c.Expr(n.Test)
	reject := c.insertBranchStart(test)

	c.pushLabel(label, start)
	c.Stmt(n.Body)
	c.popLabel()

	start.Insert()
	reject.ResolveHere()
	c.resolveBreaksFor(label)
}

// lowerDoWhile's back-edge test is lowered after the body, as it appears
// in source, but its "loop again" target was already fixed at the body's
// start; the conditional handle's test field is simply filled in late.
func (c *Context) lowerDoWhile(n *ast.DoWhileStatement, label string) {
	bodyStart := c.createToHere()

	c.pushLabel(label, bodyStart)
	c.Stmt(n.Body)
	c.popLabel()

	test := c.Expr(n.Test)
	cb := c.createBranch(test, bodyStart, nil)
	cb.Insert()
	cb.Else().ResolveHere()

	c.resolveBreaksFor(label)
}

// lowerFor's continue target is a dedicated block running update and
// falling back into the head test, distinct from the head itself: a
// continue must still run the update exactly once.
func (c *Context) lowerFor(n *ast.ForStatement, label string) {
	if n.Init != nil {
		c.Stmt(n.Init)
	}

	head := c.createToHere()

	var reject *Goto
	if n.Test != nil {
		test := c.Expr(n.Test)
		reject = c.insertBranchStart(test)
	}

	continueTarget := c.newGoto()

	c.pushLabel(label, continueTarget)
	c.Stmt(n.Body)
	c.popLabel()

	continueTarget.ResolveHere()

	if n.Update != nil {
		upd := c.Expr(n.Update)
		c.emit(exprStmt(upd))
	}

	head.Insert()

	if reject != nil {
		reject.ResolveHere()
	}

	c.resolveBreaksFor(label)
}

// lowerSwitch threads two independent chains across the case list in
// source order: prevLeave (fall-through from the previous case's body,
// including default) and lastReject (the most recent non-default case's
// failed-test edge, skipped over a default in the middle and, if a default
// exists anywhere, finally routed to it).
func (c *Context) lowerSwitch(n *ast.SwitchStatement, label string) {
	c.pushLabel(label, nil)

	d := c.useTempVar(c.Expr(n.Discriminant))

	var prevLeave, lastReject *Goto

	var defaultEntry *Goto

	for _, cs := range n.Cases {
		if cs.Test != nil && lastReject != nil {
			lastReject.ResolveHere()
			lastReject = nil
		}

		if cs.Test != nil {
			test := &ast.BinaryExpression{Operator: "===", Left: d, Right: c.Expr(cs.Test)}
			reject := c.insertBranchStart(test)

			if prevLeave != nil {
				prevLeave.ResolveHere()
				prevLeave = nil
			}

			for _, st := range cs.Consequent {
				c.Stmt(st)
			}

			prevLeave = c.insertPending()
			lastReject = reject
		} else {
			defaultEntry = c.createToHere()

			if prevLeave != nil {
				prevLeave.ResolveHere()
				prevLeave = nil
			}

			for _, st := range cs.Consequent {
				c.Stmt(st)
			}

			prevLeave = c.insertPending()
		}
	}

	if defaultEntry != nil && lastReject != nil {
		lastReject.Resolve(defaultEntry.ResolvedLabel())
		lastReject = nil
	}

	c.freeTempVar(d)

	if prevLeave != nil {
		prevLeave.ResolveHere()
	}

	if lastReject != nil {
		lastReject.ResolveHere()
	}

	c.popLabel()
	c.resolveBreaksFor(label)
}

func (c *Context) lowerVarDecl(n *ast.VariableDeclaration) {
	for _, d := range n.Declarations {
		c.declareVar(d.Name)

		if d.Init != nil {
			v := c.Expr(d.Init)
			c.emit(assign(d.Name, v))
		}
	}
}

// lowerFuncDecl treats `function name(...) {...}` as a var named `name`
// whose initializer is the equivalent function expression, hoisted to the
// front of the body at Leave.
func (c *Context) lowerFuncDecl(n *ast.FunctionDeclaration) {
	fnExpr := c.lowerFunctionExpr(&ast.FunctionExpression{Name: n.Name, Params: n.Params, Body: n.Body}).(*ast.FunctionExpression)
	c.declareFunc(n.Name, fnExpr)
}

// lowerTry lowers the protected block, then, if a handler is present and
// at least one throw is currently pending, routes every one of them to a
// shared catch entry: the error is shadowed into the catch parameter,
// __ERROR is cleared, the handler body runs, and the parameter is
// restored on the way out. A finally block, if present, runs
// unconditionally after — only on the normal exit path; see the module
// commentary on the finally/abnormal-exit limitation.
func (c *Context) lowerTry(n *ast.TryStatement) {
	c.Stmt(n.Block)

	if n.Handler != nil && len(c.pendingThrow) > 0 {
		pending := c.pendingThrow
		c.pendingThrow = nil

		allGood := c.insertPending()
		c.resolveAllHere(pending)

		unshadow := c.shadowVar(n.Handler.Param, ident("__ERROR"))
		c.emit(assign("__ERROR", ast.Undefined))
		c.Stmt(n.Handler.Body)
		unshadow()

		allGood.ResolveHere()
	}

	if n.Finalizer != nil {
		c.Stmt(n.Finalizer)
	}
}
