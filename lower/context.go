package lower

import "github.com/flattenjs/flattenjs/ast"

// labelFrame is one entry on the label stack: a loop or labeled statement
// currently being lowered. continueHandle is non-nil only for loop bodies
// (While, DoWhile, For), naming where a continue targeting this frame
// should jump.
type labelFrame struct {
	name           string
	continueHandle *Goto
}

type pendingBreak struct {
	name   string
	handle *Goto
}

// Context is the lowering context for one function body (or the top-level
// program, which is lowered the same way minus parameters). It owns the
// block writer, the temporary pool, the label stack, the pending-jump
// queues, and the set of scope variables to be hoisted into a single
// prologue declaration.
type Context struct {
	blocks *blockWriter
	temps  *tempPool

	labels        []labelFrame
	pendingBreaks []pendingBreak
	pendingReturn []*Goto
	pendingThrow  []*Goto

	targets []int // goto resolution table, shared by every Goto/CondGoto this Context mints

	params     map[string]bool
	declared   map[string]bool
	scopeOrder []string
	scopeInit  map[string]ast.Expr // deferred initializer, function declarations only
}

// newContext creates a Context with __RESULT and __ERROR pre-declared.
// Declaring them with no initializer is sufficient to "clear" them: an
// uninitialized var is undefined.
func newContext(params []string) *Context {
	c := &Context{
		blocks:    newBlockWriter(),
		temps:     newTempPool(),
		params:    map[string]bool{},
		declared:  map[string]bool{},
		scopeInit: map[string]ast.Expr{},
	}

	for _, p := range params {
		c.params[p] = true
	}

	c.declareVar("__RESULT")
	c.declareVar("__ERROR")

	return c
}

func (c *Context) emit(s ast.Stmt) {
	c.blocks.emit(s)
}

func (c *Context) openBlock() int {
	return c.blocks.openBlock()
}

// declareVar registers name as a scope variable, idempotently. Parameters
// are never added: they're already bindings from the function signature,
// not `var` declarations.
func (c *Context) declareVar(name string) {
	if c.params[name] || c.declared[name] {
		return
	}

	c.declared[name] = true
	c.scopeOrder = append(c.scopeOrder, name)
}

// declareFunc registers name as a scope variable whose initializer (an
// already-lowered function expression) is deferred to the start of the
// function body, per the function-declaration hoisting rule.
func (c *Context) declareFunc(name string, init *ast.FunctionExpression) {
	c.declareVar(name)
	c.scopeInit[name] = init
}

func (c *Context) pushLabel(name string, continueHandle *Goto) {
	c.labels = append(c.labels, labelFrame{name: name, continueHandle: continueHandle})
}

func (c *Context) popLabel() {
	c.labels = c.labels[:len(c.labels)-1]
}

// resolveBreaksFor resolves every pending break matching name to one
// shared fresh position and removes them from the queue. Call after
// popping the corresponding label frame.
func (c *Context) resolveBreaksFor(name string) {
	var remaining []pendingBreak

	var toResolve []*Goto

	for _, pb := range c.pendingBreaks {
		if pb.name == name {
			toResolve = append(toResolve, pb.handle)
		} else {
			remaining = append(remaining, pb)
		}
	}

	c.pendingBreaks = remaining
	c.resolveAllHere(toResolve)
}

// Leave finalizes the Context: checks the structural invariants, resolves
// every pending return/throw to a shared epilogue position, hoists deferred
// function-declaration initializers to the front of the first block, and
// renders the whole block list into a prologue VariableDeclaration followed
// by one LabeledStatement per block.
func (c *Context) Leave() []ast.Stmt {
	if locked := c.temps.locked(); locked != 0 {
		fail(InvariantViolated, "%d temporaries still locked at function exit", locked)
	}

	if len(c.labels) != 0 {
		fail(InvariantViolated, "%d label frames still open at function exit", len(c.labels))
	}

	if len(c.pendingBreaks) != 0 {
		fail(InvariantViolated, "%d unresolved break(s) at function exit", len(c.pendingBreaks))
	}

	landing := append(append([]*Goto{}, c.pendingReturn...), c.pendingThrow...)
	c.resolveAllHere(landing)
	c.pendingReturn, c.pendingThrow = nil, nil

	if len(c.scopeInit) > 0 {
		first := c.blocks.blocks[0]

		var prologue []ast.Stmt
		for _, name := range c.scopeOrder {
			if init, ok := c.scopeInit[name]; ok {
				prologue = append(prologue, assign(name, init))
			}
		}

		first.entries = append(prologue, first.entries...)
		c.scopeInit = map[string]ast.Expr{}
	}

	decl := &ast.VariableDeclaration{}
	for _, name := range c.scopeOrder {
		decl.Declarations = append(decl.Declarations, &ast.VariableDeclarator{Name: name})
	}

	out := make([]ast.Stmt, 0, len(c.blocks.blocks)+1)
	out = append(out, decl)

	for i, b := range c.blocks.blocks {
		body := make([]ast.Stmt, 0, len(b.entries))
		for _, e := range b.entries {
			if pj, ok := e.(*pendingJump); ok {
				body = append(body, pj.materialize(c.targets))
			} else {
				body = append(body, e)
			}
		}

		out = append(out, &ast.LabeledStatement{Label: blockLabel(i), Body: &ast.BlockStatement{Body: body}})
	}

	return out
}
