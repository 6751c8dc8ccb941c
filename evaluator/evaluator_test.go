package evaluator

import (
	"Bird/ast"
	"Bird/lexer"
	"Bird/object"
	"Bird/parser"
	"Bird/token"
	"bytes"
	"errors"
	"testing"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()

	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", input, p.Errors())
	}
	return program
}

func testRun(t *testing.T, input string, opts ...Option) (string, *Evaluator, error) {
	t.Helper()

	var out bytes.Buffer
	ev := New(&out, opts...)
	err := ev.Run(parse(t, input).Statements)
	return out.String(), ev, err
}

func TestBinaryExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"puts (+ 2 3);", "5\n"},
		{"puts (- 5 2);", "3\n"},
		{"puts (* 4 3);", "12\n"},
		{"puts (/ 7 2);", "3\n"},
		{"puts (/ -7 2);", "-3\n"},
		{"puts (- 2 5);", "-3\n"},
		{"puts (+ (* 2 3) (/ 10 (- 4 2)));", "11\n"},
		{"puts (+ 2147483647 1);", "-2147483648\n"},
	}

	for _, tt := range tests {
		out, _, err := testRun(t, tt.input)
		if err != nil {
			t.Fatalf("Run(%q) error: %s", tt.input, err)
		}
		if out != tt.expected {
			t.Errorf("wrong output for %q. want=%q, got=%q", tt.input, tt.expected, out)
		}
	}
}

func TestUnaryExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"puts -5;", "-5\n"},
		{"puts --5;", "5\n"},
		{"let x = 4; puts -x;", "-4\n"},
		{"puts -(+ 1 2);", "-3\n"},
	}

	for _, tt := range tests {
		out, _, err := testRun(t, tt.input)
		if err != nil {
			t.Fatalf("Run(%q) error: %s", tt.input, err)
		}
		if out != tt.expected {
			t.Errorf("wrong output for %q. want=%q, got=%q", tt.input, tt.expected, out)
		}
	}
}

func TestPrintStatement(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"puts 1, 2, 3;", "123\n"},
		{"puts;", "\n"},
		{"let a = 1; puts a -a a;", "1-11\n"},
		{"puts 1; puts 2;", "1\n2\n"},
	}

	for _, tt := range tests {
		out, _, err := testRun(t, tt.input)
		if err != nil {
			t.Fatalf("Run(%q) error: %s", tt.input, err)
		}
		if out != tt.expected {
			t.Errorf("wrong output for %q. want=%q, got=%q", tt.input, tt.expected, out)
		}
	}
}

func TestBlockScope(t *testing.T) {
	input := `let x = (+ 1 2); { let y = (* x 2); puts y; } puts x;`

	out, ev, err := testRun(t, input)
	if err != nil {
		t.Fatalf("Run error: %s", err)
	}
	if out != "6\n3\n" {
		t.Errorf("wrong output. want=%q, got=%q", "6\n3\n", out)
	}
	if _, err := ev.Environment().Resolve("y"); !errors.Is(err, object.ErrUndefinedVariable) {
		t.Errorf("block binding leaked into the top-level scope. err=%v", err)
	}
}

func TestShadowingInBlock(t *testing.T) {
	input := `let x = 1; { let x = 2; puts x; { puts x; } } puts x;`

	out, _, err := testRun(t, input)
	if err != nil {
		t.Fatalf("Run error: %s", err)
	}
	if out != "2\n2\n1\n" {
		t.Errorf("wrong output. want=%q, got=%q", "2\n2\n1\n", out)
	}
}

func TestResolveThroughNestedBlocks(t *testing.T) {
	input := `{ let a = 7; { { puts a; } let b = (+ a 1); puts b; } puts a; }`

	out, _, err := testRun(t, input)
	if err != nil {
		t.Fatalf("Run error: %s", err)
	}
	if out != "7\n8\n7\n" {
		t.Errorf("wrong output. want=%q, got=%q", "7\n8\n7\n", out)
	}
}

func TestIdentifierSharesHandle(t *testing.T) {
	var out bytes.Buffer
	ev := New(&out)

	program := parse(t, `let x = 5; let y = x;`)
	// Run은 마지막에 힙을 비우므로 명령문을 직접 실행한다.
	for _, stmt := range program.Statements {
		if err := ev.execute(stmt); err != nil {
			t.Fatalf("execute error: %s", err)
		}
	}

	x, _ := ev.Environment().Resolve("x")
	y, _ := ev.Environment().Resolve("y")
	if x != y {
		t.Errorf("identifier did not reuse the bound handle. x=%s, y=%s", x, y)
	}
	if ev.Heap().Len() != 1 {
		t.Errorf("identifier allocated a new object. live=%d", ev.Heap().Len())
	}
}

func TestBlockExitCollectsGarbage(t *testing.T) {
	var out bytes.Buffer
	ev := New(&out)

	program := parse(t, `let x = 1; { let y = (+ x 2); let z = (* y 3); }`)
	for _, stmt := range program.Statements {
		if err := ev.execute(stmt); err != nil {
			t.Fatalf("execute error: %s", err)
		}
	}

	// x만 남는다. 1, 2, 3, (+ x 2), (* y 3) 중 x가 가리키는 1만 살아 있다.
	if ev.Heap().Len() != 1 {
		t.Errorf("wrong live objects after block. want=1, got=%d", ev.Heap().Len())
	}
	st := ev.Heap().Stats()
	if st.Allocated != 5 || st.Freed != 4 || st.Collections != 1 {
		t.Errorf("wrong heap stats. got=%+v", st)
	}
}

func TestRunCollectsEverything(t *testing.T) {
	_, ev, err := testRun(t, `let x = 1; let y = 2; (+ x y);`)
	if err != nil {
		t.Fatalf("Run error: %s", err)
	}
	if ev.Heap().Len() != 0 {
		t.Errorf("heap not empty after Run. live=%d", ev.Heap().Len())
	}
	if ev.StackDepth() != 0 {
		t.Errorf("value stack not cleared after Run. depth=%d", ev.StackDepth())
	}
}

func TestExpressionStatementLeavesResult(t *testing.T) {
	var out bytes.Buffer
	ev := New(&out)

	program := parse(t, `(+ 1 2); 4;`)
	for _, stmt := range program.Statements {
		if err := ev.execute(stmt); err != nil {
			t.Fatalf("execute error: %s", err)
		}
	}
	if ev.StackDepth() != 2 {
		t.Errorf("wrong stack depth. want=2, got=%d", ev.StackDepth())
	}
}

func TestStackRoots(t *testing.T) {
	program := `(+ 1 2); { let a = 1; }`

	tests := []struct {
		stackRoots bool
		expected   bool
	}{
		{false, false},
		{true, true},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		ev := New(&out, WithStackRoots(tt.stackRoots))

		for _, stmt := range parse(t, program).Statements {
			if err := ev.execute(stmt); err != nil {
				t.Fatalf("execute error: %s", err)
			}
		}

		left := ev.stack[0]
		if got := ev.Heap().Contains(left); got != tt.expected {
			t.Errorf("stackRoots=%t: un-popped result alive=%t, want=%t",
				tt.stackRoots, got, tt.expected)
		}
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		input    string
		kind     error
		expected string
	}{
		{"puts x;", object.ErrUndefinedVariable, "undefined variable 'x'"},
		{"{ let y = 1; } puts y;", object.ErrUndefinedVariable, "undefined variable 'y'"},
		{"puts (/ 1 0);", ErrDivisionByZero, "division by zero: 1 / 0"},
		{"puts 2147483648;", ErrInvalidLiteral, "invalid i32 literal: 2147483648"},
	}

	for _, tt := range tests {
		_, _, err := testRun(t, tt.input)
		if err == nil {
			t.Errorf("expected error for %q", tt.input)
			continue
		}
		if !errors.Is(err, tt.kind) {
			t.Errorf("wrong error kind for %q. want=%v, got=%v", tt.input, tt.kind, err)
		}
		if err.Error() != tt.expected {
			t.Errorf("wrong error message for %q. want=%q, got=%q", tt.input, tt.expected, err.Error())
		}

		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			t.Errorf("error is not *RuntimeError. got=%T", err)
		}
	}
}

// 파서가 만들 수 없는 트리도 평가기는 거부해야 한다.
func TestUnsupportedNodes(t *testing.T) {
	one := &ast.Primary{Value: token.Token{Type: token.I32_LITERAL, Literal: "1"}}

	tests := []struct {
		stmt ast.Statement
		kind error
	}{
		{
			&ast.ExpressionStatement{Expression: &ast.Binary{
				Op: token.Token{Type: token.ASSIGN, Literal: "="}, Left: one, Right: one}},
			ErrUnsupportedOperator,
		},
		{
			&ast.ExpressionStatement{Expression: &ast.Unary{
				Op: token.Token{Type: token.PLUS, Literal: "+"}, Expr: one}},
			ErrUnsupportedOperator,
		},
		{
			&ast.ExpressionStatement{Expression: &ast.Primary{
				Value: token.Token{Type: token.PUTS, Literal: "puts"}}},
			ErrUnsupportedLiteral,
		},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		err := New(&out).Run([]ast.Statement{tt.stmt})
		if !errors.Is(err, tt.kind) {
			t.Errorf("wrong error for %s. want=%v, got=%v", tt.stmt, tt.kind, err)
		}
	}
}

func TestOutputFlushedOnError(t *testing.T) {
	out, _, err := testRun(t, "puts 1; puts nope;")
	if err == nil {
		t.Fatalf("expected error")
	}
	if out != "1\n" {
		t.Errorf("output before the error was lost. got=%q", out)
	}
}

func TestRunTwice(t *testing.T) {
	var out bytes.Buffer
	ev := New(&out)

	program := parse(t, "let x = 1;")
	if err := ev.Run(program.Statements); err != nil {
		t.Fatalf("first Run error: %s", err)
	}
	if err := ev.Run(program.Statements); !errors.Is(err, ErrEvaluatorSpent) {
		t.Errorf("expected ErrEvaluatorSpent, got=%v", err)
	}
}
