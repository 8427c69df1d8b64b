package lower

import "github.com/flattenjs/flattenjs/ast"

// jumpKind distinguishes an unconditional jump from a conditional one.
type jumpKind int

const (
	jumpUncond jumpKind = iota
	jumpCond
)

// pendingJump is the placeholder statement written into a block at a
// jump's insertion site. It carries indices into the owning Context's
// target table rather than a resolved label, since insertion and
// resolution may happen in either order. It is replaced by a real
// ast.ExpressionStatement at Context.Leave, once every handle it
// references has been resolved.
type pendingJump struct {
	// The embedded ast.Stmt is always nil: it supplies the interface's
	// unexported marker method so a pendingJump can sit in a block's entry
	// list. Only String is ever called on a pendingJump.
	ast.Stmt

	kind jumpKind

	// jumpUncond
	targetID int

	// jumpCond
	test          ast.Expr
	thenID, elsID int
}

func (*pendingJump) String() string {
	return "<unresolved-goto>"
}

func (j *pendingJump) materialize(targets []int) ast.Stmt {
	switch j.kind {
	case jumpUncond:
		label := targets[j.targetID]
		if label < 0 {
			fail(InvariantViolated, "jump target %d never resolved", j.targetID)
		}

		return gotoCallStmt(ast.StringLit(blockLabel(label)))
	default:
		thenLabel, elsLabel := targets[j.thenID], targets[j.elsID]
		if thenLabel < 0 || elsLabel < 0 {
			fail(InvariantViolated, "conditional jump target %d/%d never resolved", j.thenID, j.elsID)
		}

		return gotoCallStmt(&ast.ConditionalExpression{
			Test:       j.test,
			Consequent: ast.StringLit(blockLabel(thenLabel)),
			Alternate:  ast.StringLit(blockLabel(elsLabel)),
		})
	}
}

// Goto is a jump handle: one endpoint (insertion or resolution) may be set
// before the other. Its target is an index into the owning Context's
// target table, written at most once.
type Goto struct {
	ctx *Context
	id  int
}

func (c *Context) newGoto() *Goto {
	c.targets = append(c.targets, -1)

	return &Goto{ctx: c, id: len(c.targets) - 1}
}

// Resolve fixes the handle's target label. It may be called at most once
// per handle.
func (g *Goto) Resolve(label int) {
	if g.ctx.targets[g.id] != -1 {
		fail(InvariantViolated, "goto target %d resolved twice", g.id)
	}

	g.ctx.targets[g.id] = label
}

// ResolveHere resolves the handle to the block writer's current position
// (opening a fresh block only if the current one is non-empty).
func (g *Goto) ResolveHere() {
	g.Resolve(g.ctx.blocks.openBlock())
}

// ResolvedLabel returns the handle's target label. Panics if unresolved.
func (g *Goto) ResolvedLabel() int {
	label := g.ctx.targets[g.id]
	if label == -1 {
		fail(InvariantViolated, "goto target %d read before resolution", g.id)
	}

	return label
}

// Insert writes an unconditional jump to this handle's (possibly not yet
// resolved) target as the terminator of the current block, then opens a
// fresh block for whatever follows. May be called more than once on an
// already-resolved handle (e.g. a loop's repeated back-edge).
func (g *Goto) Insert() {
	g.ctx.blocks.emit(&pendingJump{kind: jumpUncond, targetID: g.id})
	g.ctx.blocks.openBlock()
}

// createToHere allocates a handle already resolved to the current
// position. It supports only a later Insert.
func (c *Context) createToHere() *Goto {
	g := c.newGoto()
	g.Resolve(c.blocks.openBlock())

	return g
}

// insertPending allocates a handle, inserts its jump now, and leaves it
// unresolved for a later Resolve/ResolveHere.
func (c *Context) insertPending() *Goto {
	g := c.newGoto()
	g.Insert()

	return g
}

// CondGoto is a conditional jump handle over two Goto sub-handles, one per
// branch.
type CondGoto struct {
	ctx       *Context
	test      ast.Expr
	then, els *Goto
}

func (c *Context) createBranch(test ast.Expr, then, els *Goto) *CondGoto {
	if then == nil {
		then = c.newGoto()
	}

	if els == nil {
		els = c.newGoto()
	}

	return &CondGoto{ctx: c, test: test, then: then, els: els}
}

func (cb *CondGoto) Then() *Goto { return cb.then }
func (cb *CondGoto) Else() *Goto { return cb.els }

// Insert writes the conditional jump as the current block's terminator and
// opens a fresh block.
func (cb *CondGoto) Insert() {
	cb.ctx.blocks.emit(&pendingJump{kind: jumpCond, test: cb.test, thenID: cb.then.id, elsID: cb.els.id})
	cb.ctx.blocks.openBlock()
}

// insertBranchStart emits a conditional jump over test, resolves the
// consequent to the fall-through position (here), and returns the
// alternate handle for later resolution. This is the forward-jump idiom
// behind if/while/for/switch.
func (c *Context) insertBranchStart(test ast.Expr) *Goto {
	cb := c.createBranch(test, nil, nil)
	cb.Insert()
	cb.then.ResolveHere()

	return cb.els
}

// resolveAllHere resolves every handle in hs to the same fresh position,
// opening at most one new block regardless of how many handles converge
// there. A no-op for an empty slice.
func (c *Context) resolveAllHere(hs []*Goto) {
	if len(hs) == 0 {
		return
	}

	label := c.blocks.openBlock()
	for _, h := range hs {
		h.Resolve(label)
	}
}
