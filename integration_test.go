package main

import (
	"regexp"
	"strings"
	"testing"

	"github.com/flattenjs/flattenjs/ast"
	"github.com/flattenjs/flattenjs/lexer"
	"github.com/flattenjs/flattenjs/lower"
	"github.com/flattenjs/flattenjs/parser"
	"github.com/flattenjs/flattenjs/printer"
)

func lowerAndPrint(t *testing.T, src string) (*ast.Program, string) {
	t.Helper()

	l := lexer.New(src)
	p := parser.New(l)
	prog := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}

	out, err := lower.LowerProgram(prog)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}

	return out, printer.String(out)
}

// Six end-to-end scenarios.

func TestScenarioIfElse(t *testing.T) {
	_, s := lowerAndPrint(t, `
var x;
var y;
if (x) {
  y = 1;
} else {
  y = 2;
}
`)

	for _, want := range []string{"y = 1", "y = 2", "GOTO("} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q:\n%s", want, s)
		}
	}
}

func TestScenarioWhileBreak(t *testing.T) {
	_, s := lowerAndPrint(t, `
var i;
var done;
i = 0;
while (i) {
  if (done) {
    break;
  }
  i = i;
}
`)

	if !strings.Contains(s, "GOTO(") {
		t.Errorf("expected GOTO threading:\n%s", s)
	}
}

func TestScenarioTryCatch(t *testing.T) {
	_, s := lowerAndPrint(t, `
var obj;
var e;
var result;
try {
  result = obj.value;
} catch (e) {
  result = e;
}
`)

	for _, want := range []string{"__ERROR", "GET_PROPERTY(", "result = e"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q:\n%s", want, s)
		}
	}
}

func TestScenarioSwitchFallthroughDefault(t *testing.T) {
	_, s := lowerAndPrint(t, `
var x;
var out;
switch (x) {
  case 1:
    out = 1;
  case 2:
    out = 2;
    break;
  default:
    out = 9;
}
`)

	for _, want := range []string{"out = 1", "out = 2", "out = 9"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q:\n%s", want, s)
		}
	}
}

// traceBlocks is a tiny interpreter over the small subset of lowered output
// this test needs: identifier/literal lookup, "===" comparison, conditional
// and unconditional GOTO, and plain assignment. A printed-text substring
// check can't tell a reachable block from one that is merely still emitted
// but unreachable on a given path; this walks the actual resolved GOTO graph
// starting at B0 and records every assignment in the order it executes.
func traceBlocks(t *testing.T, prog *ast.Program, vars map[string]string) []string {
	t.Helper()

	blocks := map[string]*ast.BlockStatement{}
	for _, s := range prog.Body {
		if ls, ok := s.(*ast.LabeledStatement); ok {
			blocks[ls.Label] = ls.Body.(*ast.BlockStatement)
		}
	}

	var eval func(e ast.Expr) string
	eval = func(e ast.Expr) string {
		switch n := e.(type) {
		case *ast.Identifier:
			return vars[n.Name]
		case *ast.Literal:
			return strings.Trim(n.Value, `"`)
		case *ast.BinaryExpression:
			if n.Operator != "===" {
				t.Fatalf("traceBlocks: unsupported operator %q", n.Operator)
			}

			if eval(n.Left) == eval(n.Right) {
				return "true"
			}

			return "false"
		case *ast.ConditionalExpression:
			if eval(n.Test) == "true" {
				return eval(n.Consequent)
			}

			return eval(n.Alternate)
		default:
			t.Fatalf("traceBlocks: unsupported expression %T", e)

			return ""
		}
	}

	var trace []string

	label := "B0"
	for steps := 0; steps < 100; steps++ {
		block, ok := blocks[label]
		if !ok {
			t.Fatalf("traceBlocks: no block named %s", label)
		}

		next := ""
		for _, stmt := range block.Body {
			es, ok := stmt.(*ast.ExpressionStatement)
			if !ok {
				continue
			}

			switch expr := es.Expression.(type) {
			case *ast.AssignmentExpression:
				target := expr.Target.(*ast.Identifier).Name
				value := eval(expr.Value)
				vars[target] = value
				trace = append(trace, target+"="+value)
			case *ast.CallExpression:
				if id, ok := expr.Callee.(*ast.Identifier); ok && id.Name == "GOTO" {
					next = eval(expr.Args[0])
				}
			}
		}

		if next == "" {
			return trace
		}

		label = next
	}

	t.Fatalf("traceBlocks: exceeded step limit, possible infinite loop:\n%s", prog.String())

	return trace
}

func TestScenarioSwitchFallthroughEntersNextCaseBody(t *testing.T) {
	prog, _ := lowerAndPrint(t, `
var x;
var out;
switch (x) {
  case 1:
    out = 1;
  case 2:
    out = 2;
    break;
  default:
    out = 9;
}
`)

	trace := traceBlocks(t, prog, map[string]string{"x": "1"})

	i1, i2, i3 := -1, -1, -1
	for i, e := range trace {
		switch e {
		case "out=1":
			i1 = i
		case "out=2":
			i2 = i
		case "out=9":
			i3 = i
		}
	}

	if i1 == -1 || i2 == -1 {
		t.Fatalf("expected both out=1 and out=2 on the x===1 fall-through path, got %v", trace)
	}

	if i1 > i2 {
		t.Errorf("out=1 must run before out=2 on fall-through from case 1 into case 2, got %v", trace)
	}

	if i3 != -1 {
		t.Errorf("x===1 falls through into case 2 and then breaks, it must never reach the default arm: %v", trace)
	}
}

func TestScenarioForContinueTargetsUpdate(t *testing.T) {
	prog, s := lowerAndPrint(t, `
var i;
var sum;
for (i = 0; i; i = i) {
  if (i) {
    continue;
  }
  sum = i;
}
`)

	if !strings.Contains(s, "GOTO(") {
		t.Errorf("expected GOTO threading:\n%s", s)
	}

	// The continue is the only block holding nothing but an unconditional
	// GOTO; the block it jumps to must start with the update, not the loop
	// head and not the `sum = i` that the continue skips.
	blocks := map[string]*ast.BlockStatement{}
	continueTarget := ""

	for _, st := range prog.Body {
		if ls, ok := st.(*ast.LabeledStatement); ok {
			b := ls.Body.(*ast.BlockStatement)
			blocks[ls.Label] = b

			if len(b.Body) == 1 && strings.HasPrefix(b.Body[0].String(), `GOTO("`) {
				continueTarget = strings.Trim(strings.TrimPrefix(b.Body[0].String(), "GOTO("), `");`)
			}
		}
	}

	target, ok := blocks[continueTarget]
	if !ok || len(target.Body) == 0 || target.Body[0].String() != "i = i;" {
		t.Errorf("continue jumps to %q, want the block that starts with the update i = i:\n%s", continueTarget, s)
	}
}

func TestScenarioNestedThrowingCalls(t *testing.T) {
	_, s := lowerAndPrint(t, `
function outer() {
  return f(g());
}
`)

	for _, want := range []string{"CALL(", "__ERROR", "__RESULT"} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q:\n%s", want, s)
		}
	}
}

// Testable properties from the lowering contract.

func TestPropertySingleExitPerBlock(t *testing.T) {
	prog, _ := lowerAndPrint(t, `
var x;
var y;
if (x) {
  y = 1;
} else {
  y = 2;
}
`)

	gotoRe := regexp.MustCompile(`^GOTO\(`)

	for _, s := range prog.Body {
		ls, ok := s.(*ast.LabeledStatement)
		if !ok {
			continue
		}

		block := ls.Body.(*ast.BlockStatement)

		for i, st := range block.Body {
			es, ok := st.(*ast.ExpressionStatement)
			if !ok {
				continue
			}

			isTerminator := gotoRe.MatchString(es.Expression.String())
			if isTerminator && i != len(block.Body)-1 {
				t.Errorf("block %s has a non-terminal GOTO at position %d:\n%s", ls.Label, i, block.String())
			}
		}
	}
}

func TestPropertyNoDanglingJumps(t *testing.T) {
	prog, s := lowerAndPrint(t, `
var x;
var y;
for (x = 0; x; x = x) {
  if (x) {
    continue;
  }
  if (x) {
    break;
  }
  y = x;
}
`)

	labels := map[string]bool{}
	for _, st := range prog.Body {
		if ls, ok := st.(*ast.LabeledStatement); ok {
			labels[ls.Label] = true
		}
	}

	for _, m := range regexp.MustCompile(`B\d+`).FindAllString(s, -1) {
		if !labels[m] {
			t.Errorf("jump references undefined block %s", m)
		}
	}
}

func TestPropertyLabelsAreContiguousFromZero(t *testing.T) {
	prog, _ := lowerAndPrint(t, `
var x;
while (x) {
  x = x;
}
`)

	n := 0
	for _, st := range prog.Body {
		if ls, ok := st.(*ast.LabeledStatement); ok {
			want := "B" + itoaForTest(n)
			if ls.Label != want {
				t.Errorf("label %d = %s, want %s", n, ls.Label, want)
			}

			n++
		}
	}

	if n == 0 {
		t.Fatal("expected at least one block")
	}
}

func itoaForTest(n int) string {
	if n == 0 {
		return "0"
	}

	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}

	return digits
}

func TestPropertyScopeDeclarationsAreHoistedOnce(t *testing.T) {
	prog, _ := lowerAndPrint(t, `
var x;
x = 1;
x = 2;
`)

	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected the first statement to be a VariableDeclaration, got %T", prog.Body[0])
	}

	seen := map[string]int{}
	for _, d := range decl.Declarations {
		seen[d.Name]++
	}

	for name, count := range seen {
		if count != 1 {
			t.Errorf("%s declared %d times, want exactly once", name, count)
		}
	}

	if seen["x"] != 1 || seen["__RESULT"] != 1 || seen["__ERROR"] != 1 {
		t.Errorf("missing expected scope declarations: %v", seen)
	}
}
