package ast

import "testing"

func TestIdentifierString(t *testing.T) {
	if (&Identifier{Name: "x"}).String() != "x" {
		t.Fail()
	}
}

func TestUndefinedIsSentinelIdentifier(t *testing.T) {
	if Undefined.String() != "undefined" {
		t.Errorf("got %q", Undefined.String())
	}
}

func TestStringLitQuotesValue(t *testing.T) {
	if got := StringLit("hi").String(); got != `"hi"` {
		t.Errorf("got %q, want %q", got, `"hi"`)
	}
}

func TestBinaryExpressionString(t *testing.T) {
	bin := &BinaryExpression{Operator: "+", Left: &Identifier{Name: "a"}, Right: &Identifier{Name: "b"}}

	if got := bin.String(); got != "(a + b)" {
		t.Errorf("got %q", got)
	}
}

func TestCallExpressionString(t *testing.T) {
	call := &CallExpression{
		Callee: &Identifier{Name: "GOTO"},
		Args:   []Expr{&Identifier{Name: "B3"}},
	}

	if got := call.String(); got != "GOTO(B3)" {
		t.Errorf("got %q", got)
	}
}

func TestMemberExpressionDotAndComputed(t *testing.T) {
	dot := &MemberExpression{Object: &Identifier{Name: "o"}, Property: &Identifier{Name: "p"}}
	if got := dot.String(); got != "o.p" {
		t.Errorf("dot form = %q", got)
	}

	computed := &MemberExpression{Object: &Identifier{Name: "o"}, Property: &Identifier{Name: "k"}, Computed: true}
	if got := computed.String(); got != "o[k]" {
		t.Errorf("computed form = %q", got)
	}
}

func TestIfStatementStringWithAndWithoutElse(t *testing.T) {
	ifStmt := &IfStatement{
		Test:       &Identifier{Name: "x"},
		Consequent: &ExpressionStatement{Expression: &Identifier{Name: "a"}},
	}

	if got := ifStmt.String(); got != "if (x) a;" {
		t.Errorf("got %q", got)
	}

	ifStmt.Alternate = &ExpressionStatement{Expression: &Identifier{Name: "b"}}
	if got := ifStmt.String(); got != "if (x) a; else b;" {
		t.Errorf("got %q", got)
	}
}

func TestVariableDeclarationString(t *testing.T) {
	decl := &VariableDeclaration{Declarations: []*VariableDeclarator{
		{Name: "a"},
		{Name: "b", Init: &Identifier{Name: "undefined"}},
	}}

	if got := decl.String(); got != "var a, b = undefined;" {
		t.Errorf("got %q", got)
	}
}

func TestBlockStatementString(t *testing.T) {
	block := &BlockStatement{Body: []Stmt{
		&ExpressionStatement{Expression: &Identifier{Name: "a"}},
	}}

	want := "{\n  a;\n}"
	if got := block.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBreakAndContinueLabelFormatting(t *testing.T) {
	if (&BreakStatement{}).String() != "break;" {
		t.Error("unlabeled break")
	}

	if (&BreakStatement{Label: "outer"}).String() != "break outer;" {
		t.Error("labeled break")
	}

	if (&ContinueStatement{}).String() != "continue;" {
		t.Error("unlabeled continue")
	}

	if (&ContinueStatement{Label: "outer"}).String() != "continue outer;" {
		t.Error("labeled continue")
	}
}

func TestReturnStatementBareAndWithArgument(t *testing.T) {
	if (&ReturnStatement{}).String() != "return;" {
		t.Error("bare return")
	}

	ret := &ReturnStatement{Argument: &Identifier{Name: "x"}}
	if ret.String() != "return x;" {
		t.Errorf("got %q", ret.String())
	}
}

func TestTryStatementStringIncludesHandlerAndFinalizer(t *testing.T) {
	try := &TryStatement{
		Block:     &BlockStatement{},
		Handler:   &CatchClause{Param: "e", Body: &BlockStatement{}},
		Finalizer: &BlockStatement{},
	}

	got := try.String()
	for _, want := range []string{"try ", "catch (e)", "finally "} {
		if !contains(got, want) {
			t.Errorf("missing %q in %q", want, got)
		}
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}

	return false
}

func TestProgramStringJoinsStatementsWithNewlines(t *testing.T) {
	prog := &Program{Body: []Stmt{
		&ExpressionStatement{Expression: &Identifier{Name: "a"}},
		&ExpressionStatement{Expression: &Identifier{Name: "b"}},
	}}

	if got := prog.String(); got != "a;\nb;\n" {
		t.Errorf("got %q", got)
	}
}
