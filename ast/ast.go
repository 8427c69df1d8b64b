// Package ast defines the node shapes shared by the parser, the lowering
// core, and the printer. The same shapes serve as both the input surface
// language (an ECMAScript-5 subset) and the output of the lowering pass: a
// flattened program expressed in terms of the same node kinds, restricted to
// the subset documented on each node's output-side comment.
package ast

import (
	"fmt"
	"strings"
)

// Node is the base interface for all AST nodes.
type Node interface {
	String() string
}

// Expr is a value-producing node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a control-producing node.
type Stmt interface {
	Node
	stmtNode()
}

// ===== Expressions =====

// Identifier is a named reference: a user variable, a synthetic temporary
// ($0, $1, ...), or one of the reserved names (undefined, __RESULT,
// __ERROR, GOTO, GET_PROPERTY, SET_PROPERTY, CALL).
type Identifier struct {
	Name string
}

func (*Identifier) exprNode() {}
func (i *Identifier) String() string {
	return i.Name
}

// Undefined is the sentinel reusable expression denoting the absence of a
// value. It prints as the identifier "undefined".
var Undefined = &Identifier{Name: "undefined"}

// LiteralKind distinguishes the four simple-literal shapes.
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	NumberLiteral
	BooleanLiteral
	NullLiteral
)

// Literal is a simple literal: string, number, boolean, or null.
type Literal struct {
	Kind  LiteralKind
	Value string // the literal's source-text rendering, e.g. `"abc"`, `42`, `true`, `null`
}

func (*Literal) exprNode() {}
func (l *Literal) String() string {
	return l.Value
}

// StringLit builds a Literal holding a quoted string value.
func StringLit(s string) *Literal {
	return &Literal{Kind: StringLiteral, Value: fmt.Sprintf("%q", s)}
}

// BoolLit builds a Literal holding a boolean value.
func BoolLit(b bool) *Literal {
	if b {
		return &Literal{Kind: BooleanLiteral, Value: "true"}
	}

	return &Literal{Kind: BooleanLiteral, Value: "false"}
}

// FunctionExpression is a (possibly anonymous) function value. Input bodies
// are statement lists; a lowered FunctionExpression's Body holds the
// prologue VariableDeclaration followed by labeled blocks, exactly like a
// lowered Program.
type FunctionExpression struct {
	Name   string // empty for anonymous functions
	Params []string
	Body   *BlockStatement
}

func (*FunctionExpression) exprNode() {}
func (f *FunctionExpression) String() string {
	return fmt.Sprintf("function %s(%s) %s", f.Name, strings.Join(f.Params, ", "), f.Body.String())
}

// MemberExpression is `object.property` (Computed == false, Property is an
// *Identifier naming the field) or `object[property]` (Computed == true,
// Property is an arbitrary expression). Not emitted in lowered output
// directly: member access lowers to a GET_PROPERTY/SET_PROPERTY call.
type MemberExpression struct {
	Object   Expr
	Property Expr
	Computed bool
}

func (*MemberExpression) exprNode() {}
func (m *MemberExpression) String() string {
	if m.Computed {
		return fmt.Sprintf("%s[%s]", m.Object.String(), m.Property.String())
	}

	return fmt.Sprintf("%s.%s", m.Object.String(), m.Property.String())
}

// AssignmentExpression is `target = value`. The lowering core only ever
// produces the "=" operator; compound operators are out of subset on input.
type AssignmentExpression struct {
	Operator string
	Target   Expr
	Value    Expr
}

func (*AssignmentExpression) exprNode() {}
func (a *AssignmentExpression) String() string {
	return fmt.Sprintf("%s %s %s", a.Target.String(), a.Operator, a.Value.String())
}

// CallExpression is `callee(args...)`. In lowered output this is either an
// ordinary call to GOTO/GET_PROPERTY/SET_PROPERTY/CALL, or a user call
// already rewritten into that helper form.
type CallExpression struct {
	Callee Expr
	Args   []Expr
}

func (*CallExpression) exprNode() {}
func (c *CallExpression) String() string {
	s := c.Callee.String() + "("

	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}

		s += a.String()
	}

	return s + ")"
}

// UnaryExpression is `op expr` for a prefix unary operator ("!", "-", "+",
// "~", "typeof", "void").
type UnaryExpression struct {
	Operator string
	Argument Expr
}

func (*UnaryExpression) exprNode() {}
func (u *UnaryExpression) String() string {
	if u.Operator == "typeof" || u.Operator == "void" {
		return fmt.Sprintf("(%s %s)", u.Operator, u.Argument.String())
	}

	return fmt.Sprintf("(%s%s)", u.Operator, u.Argument.String())
}

// BinaryExpression is `left op right`.
type BinaryExpression struct {
	Operator string
	Left     Expr
	Right    Expr
}

func (*BinaryExpression) exprNode() {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator, b.Right.String())
}

// ConditionalExpression is `test ? consequent : alternate`. The input
// subset does not contain this node; the lowering core emits it only as the
// argument of a conditional GOTO, where consequent/alternate are string
// literals naming block labels.
type ConditionalExpression struct {
	Test       Expr
	Consequent Expr
	Alternate  Expr
}

func (*ConditionalExpression) exprNode() {}
func (c *ConditionalExpression) String() string {
	return fmt.Sprintf("%s ? %s : %s", c.Test.String(), c.Consequent.String(), c.Alternate.String())
}

// ===== Statements =====

// ExpressionStatement wraps an expression evaluated for its side effects.
// Lowered assignments, helper calls, and GOTOs are all ExpressionStatements.
type ExpressionStatement struct {
	Expression Expr
}

func (*ExpressionStatement) stmtNode() {}
func (e *ExpressionStatement) String() string {
	return e.Expression.String() + ";"
}

// DebuggerStatement is the `debugger;` statement, copied verbatim.
type DebuggerStatement struct{}

func (*DebuggerStatement) stmtNode() {}
func (*DebuggerStatement) String() string {
	return "debugger;"
}

// EmptyStatement is `;`.
type EmptyStatement struct{}

func (*EmptyStatement) stmtNode() {}
func (*EmptyStatement) String() string {
	return ";"
}

// BlockStatement is `{ stmts... }`. A lowered function body uses
// BlockStatement to hold the prologue declaration plus the labeled blocks;
// a lowered Program holds the same sequence directly in its Body.
type BlockStatement struct {
	Body []Stmt
}

func (*BlockStatement) stmtNode() {}
func (b *BlockStatement) String() string {
	s := "{\n"
	for _, st := range b.Body {
		s += "  " + st.String() + "\n"
	}

	return s + "}"
}

// LabeledStatement is `name: body`. On the input side it carries a
// user-supplied label; the lowering core also uses it, post-lowering, to
// name basic blocks ("B0", "B1", ...), with Body always a *BlockStatement.
type LabeledStatement struct {
	Label string
	Body  Stmt
}

func (*LabeledStatement) stmtNode() {}
func (l *LabeledStatement) String() string {
	return fmt.Sprintf("%s: %s", l.Label, l.Body.String())
}

// BreakStatement is `break;` or `break label;`.
type BreakStatement struct {
	Label string // empty when unlabeled
}

func (*BreakStatement) stmtNode() {}
func (b *BreakStatement) String() string {
	if b.Label != "" {
		return "break " + b.Label + ";"
	}

	return "break;"
}

// ContinueStatement is `continue;` or `continue label;`.
type ContinueStatement struct {
	Label string
}

func (*ContinueStatement) stmtNode() {}
func (c *ContinueStatement) String() string {
	if c.Label != "" {
		return "continue " + c.Label + ";"
	}

	return "continue;"
}

// ReturnStatement is `return;` or `return expr;`.
type ReturnStatement struct {
	Argument Expr // nil for bare return
}

func (*ReturnStatement) stmtNode() {}
func (r *ReturnStatement) String() string {
	if r.Argument != nil {
		return "return " + r.Argument.String() + ";"
	}

	return "return;"
}

// ThrowStatement is `throw expr;`.
type ThrowStatement struct {
	Argument Expr
}

func (*ThrowStatement) stmtNode() {}
func (t *ThrowStatement) String() string {
	return "throw " + t.Argument.String() + ";"
}

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	Test       Expr
	Consequent Stmt
	Alternate  Stmt // nil when there is no else branch
}

func (*IfStatement) stmtNode() {}
func (i *IfStatement) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Test.String(), i.Consequent.String())
	if i.Alternate != nil {
		s += " else " + i.Alternate.String()
	}

	return s
}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Test Expr
	Body Stmt
}

func (*WhileStatement) stmtNode() {}
func (w *WhileStatement) String() string {
	return fmt.Sprintf("while (%s) %s", w.Test.String(), w.Body.String())
}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Body Stmt
	Test Expr
}

func (*DoWhileStatement) stmtNode() {}
func (d *DoWhileStatement) String() string {
	return fmt.Sprintf("do %s while (%s);", d.Body.String(), d.Test.String())
}

// ForStatement is `for (init; test; update) body`. Init is a
// *VariableDeclaration or an Expr wrapped as *ExpressionStatement (or nil);
// Test and Update may be nil.
type ForStatement struct {
	Init   Stmt
	Test   Expr
	Update Expr
	Body   Stmt
}

func (*ForStatement) stmtNode() {}
func (f *ForStatement) String() string {
	init := ";"
	if f.Init != nil {
		init = f.Init.String()
	}

	test := ""
	if f.Test != nil {
		test = f.Test.String()
	}

	update := ""
	if f.Update != nil {
		update = f.Update.String()
	}

	return fmt.Sprintf("for (%s %s; %s) %s", init, test, update, f.Body.String())
}

// SwitchCase is one `case test:` or `default:` arm of a SwitchStatement.
// Test is nil for the default case.
type SwitchCase struct {
	Test       Expr
	Consequent []Stmt
}

// SwitchStatement is `switch (discriminant) { cases... }`.
type SwitchStatement struct {
	Discriminant Expr
	Cases        []*SwitchCase
}

func (*SwitchStatement) stmtNode() {}
func (s *SwitchStatement) String() string {
	out := fmt.Sprintf("switch (%s) {\n", s.Discriminant.String())

	for _, c := range s.Cases {
		if c.Test != nil {
			out += fmt.Sprintf("  case %s:\n", c.Test.String())
		} else {
			out += "  default:\n"
		}

		for _, st := range c.Consequent {
			out += "    " + st.String() + "\n"
		}
	}

	return out + "}"
}

// VariableDeclarator is one `name [= init]` binding within a
// VariableDeclaration.
type VariableDeclarator struct {
	Name string
	Init Expr // nil if uninitialized
}

// VariableDeclaration is `var a [= x], b [= y], ...;`. The lowering core
// emits exactly one VariableDeclaration per function, listing every scope
// variable with no initializers (deferred initializers become separate
// assignment statements, see Context.Leave).
type VariableDeclaration struct {
	Declarations []*VariableDeclarator
}

func (*VariableDeclaration) stmtNode() {}
func (v *VariableDeclaration) String() string {
	s := "var "

	for i, d := range v.Declarations {
		if i > 0 {
			s += ", "
		}

		s += d.Name
		if d.Init != nil {
			s += " = " + d.Init.String()
		}
	}

	return s + ";"
}

// FunctionDeclaration is `function name(params) body`. The lowering core
// treats it as a VariableDeclaration naming `Name` whose initializer is the
// equivalent FunctionExpression, hoisted per §4.7.
type FunctionDeclaration struct {
	Name   string
	Params []string
	Body   *BlockStatement
}

func (*FunctionDeclaration) stmtNode() {}
func (f *FunctionDeclaration) String() string {
	return fmt.Sprintf("function %s(%s) %s", f.Name, strings.Join(f.Params, ", "), f.Body.String())
}

// CatchClause is the `catch (param) body` part of a TryStatement.
type CatchClause struct {
	Param string
	Body  *BlockStatement
}

// TryStatement is `try block [catch (param) handler] [finally finalizer]`.
type TryStatement struct {
	Block     *BlockStatement
	Handler   *CatchClause    // nil if no catch
	Finalizer *BlockStatement // nil if no finally
}

func (*TryStatement) stmtNode() {}
func (t *TryStatement) String() string {
	s := "try " + t.Block.String()
	if t.Handler != nil {
		s += fmt.Sprintf(" catch (%s) %s", t.Handler.Param, t.Handler.Body.String())
	}

	if t.Finalizer != nil {
		s += " finally " + t.Finalizer.String()
	}

	return s
}

// Program is the root of a parsed or lowered source file.
type Program struct {
	Body []Stmt
}

func (p *Program) String() string {
	s := ""
	for _, st := range p.Body {
		s += st.String() + "\n"
	}

	return s
}
