package lower

import "github.com/flattenjs/flattenjs/ast"

// tempPool hands out synthetic temporaries ($0, $1, ...) under reference
// counting: a name returns to the free list only once its count drops to
// zero, so two live uses of the same value never alias the same register.
type tempPool struct {
	names    []string
	free     []string
	refcount map[string]int
}

func newTempPool() *tempPool {
	return &tempPool{refcount: map[string]int{}}
}

// alloc returns a fresh or recycled temp name with refcount 1. freshName
// reports whether a brand-new name was minted (the caller must register it
// as a scope variable in that case).
func (tp *tempPool) alloc() (name string, freshName bool) {
	if n := len(tp.free); n > 0 {
		name = tp.free[n-1]
		tp.free = tp.free[:n-1]
		tp.refcount[name] = 1

		return name, false
	}

	name = "$" + itoa(len(tp.names))
	tp.names = append(tp.names, name)
	tp.refcount[name] = 1

	return name, true
}

func (tp *tempPool) incr(name string) {
	tp.refcount[name]++
}

func (tp *tempPool) decr(name string) {
	tp.refcount[name]--
	if tp.refcount[name] <= 0 {
		delete(tp.refcount, name)
		tp.free = append(tp.free, name)
	}
}

// locked reports how many temporaries are currently live (allocated but not
// yet freed down to zero references). It must be zero at Context.Leave and
// equal before/after every statement handler.
func (tp *tempPool) locked() int {
	return len(tp.names) - len(tp.free)
}

func isTempName(name string) bool {
	return len(name) > 0 && name[0] == '$'
}

// isReusable reports whether e can stand in for its value at more than one
// use site without re-evaluation: an identifier (including __ERROR, read
// directly as a branch test) or a simple literal. __RESULT is excluded: it
// is a single shared per-function register that the very next helper call
// overwrites, so any caller holding onto it across further emits must
// always bind it to a temp first rather than pass it through unchanged.
func isReusable(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name != "__RESULT"
	case *ast.Literal:
		return true
	default:
		return false
	}
}

// useTempVar returns a reusable handle on e's value. Reusable expressions
// pass through unchanged (bumping the refcount if e is itself a live temp);
// anything else is bound to a fresh or recycled temp via an emitted
// assignment.
func (c *Context) useTempVar(e ast.Expr) ast.Expr {
	if isReusable(e) {
		if id, ok := e.(*ast.Identifier); ok && isTempName(id.Name) {
			c.temps.incr(id.Name)
		}

		return e
	}

	name, fresh := c.temps.alloc()
	if fresh {
		c.declareVar(name)
	}

	c.emit(assign(name, e))

	return ident(name)
}

// freeTempVar releases one reference on v if v is a live temporary; it is a
// no-op for anything else (identifiers that are scope variables, literals,
// composites that were never bound).
func (c *Context) freeTempVar(v ast.Expr) {
	if id, ok := v.(*ast.Identifier); ok && isTempName(id.Name) {
		c.temps.decr(id.Name)
	}
}

// shadowVar saves userID's current value into a fresh temp, assigns init
// into it, and returns a closure that restores the saved value and frees
// the temp. Used to bind a catch clause's parameter over the (possibly
// pre-existing) identifier of the same name.
func (c *Context) shadowVar(userID string, init ast.Expr) func() {
	saved, fresh := c.temps.alloc()
	if fresh {
		c.declareVar(saved)
	}

	c.emit(assign(saved, ident(userID)))
	c.emit(assign(userID, init))

	return func() {
		c.emit(assign(userID, ident(saved)))
		c.temps.decr(saved)
	}
}
