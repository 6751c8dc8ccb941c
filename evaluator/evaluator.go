package evaluator

// 트리 순회 인터프리터
// AST를 순회하면서 각 노드를 방문해 노드가 갖는 의미대로 즉시 처리한다.
// 방문 함수는 값을 돌려주지 않는다. 중간 결과는 모두 값 스택을 거쳐 전달된다.
// 정수는 힙에 상자로 만들어지고, 스택과 스코프에는 핸들만 들어간다.
import (
	"Bird/ast"
	"Bird/object"
	"Bird/token"
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
)

// 프로그램 하나를 평가한다. Run은 한 번만 호출할 수 있다.
// 힙, 환경, 값 스택은 이 평가기만 쓰므로 동시에 여러 고루틴에서 호출하면 안 된다.
type Evaluator struct {
	heap   *object.Heap
	env    *object.Environment
	stack  []object.Handle
	out    *bufio.Writer
	logger *slog.Logger

	stackRoots bool
	spent      bool
}

type Option func(*Evaluator)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// 값 스택에 남아 있는 핸들도 루트로 표시한다.
// 꺼지면 스코프 체인만 루트가 되고, 표현식문이 스택에 남긴 결과는 다음 수집에서 회수된다.
func WithStackRoots(enabled bool) Option {
	return func(e *Evaluator) {
		e.stackRoots = enabled
	}
}

func New(out io.Writer, opts ...Option) *Evaluator {
	e := &Evaluator{
		heap:   object.NewHeap(),
		env:    object.NewEnvironment(),
		stack:  []object.Handle{},
		out:    bufio.NewWriter(out),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Heap() *object.Heap               { return e.heap }
func (e *Evaluator) Environment() *object.Environment { return e.env }
func (e *Evaluator) StackDepth() int                  { return len(e.stack) }

// 최상위 명령문을 순서대로 평가한 뒤 값 스택을 비우고 힙 전체를 회수한다.
// 최상위 스코프의 바인딩은 남지만 가리키는 객체는 모두 회수된 상태다.
func (e *Evaluator) Run(statements []ast.Statement) (err error) {
	if e.spent {
		return ErrEvaluatorSpent
	}
	e.spent = true

	defer func() {
		if ferr := e.out.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("flush output: %w", ferr)
		}
	}()

	for _, stmt := range statements {
		if err := e.execute(stmt); err != nil {
			return err
		}
	}

	e.stack = e.stack[:0]
	freed := e.heap.CollectAll()
	e.logger.Debug("gc collect all",
		slog.Int("freed", freed),
		slog.Int("live", e.heap.Len()))
	return nil
}

// 명령문 종류는 ast 패키지 안에서 닫혀 있다.
func (e *Evaluator) execute(stmt ast.Statement) error {
	switch stmt := stmt.(type) {
	case *ast.Block:
		return e.evalBlock(stmt)

	case *ast.Declaration:
		if err := e.evaluate(stmt.Value); err != nil {
			return err
		}
		h, err := e.pop(stmt.Token)
		if err != nil {
			return err
		}
		e.env.Bind(stmt.Identifier.Literal, h)

	// 결과는 스택에서 꺼내지 않는다.
	case *ast.ExpressionStatement:
		return e.evaluate(stmt.Expression)

	case *ast.PrintStatement:
		return e.evalPrint(stmt)

	default:
		return fmt.Errorf("unknown statement: %T", stmt)
	}
	return nil
}

func (e *Evaluator) evaluate(expr ast.Expression) error {
	switch expr := expr.(type) {
	case *ast.Binary:
		return e.evalBinary(expr)

	case *ast.Unary:
		return e.evalUnary(expr)

	case *ast.Primary:
		return e.evalPrimary(expr)

	default:
		return fmt.Errorf("unknown expression: %T", expr)
	}
}

// 블록을 나가면 자식 스코프를 버리고 수집한다.
// 평가 도중에 스코프 하나가 통째로 회수되는 곳은 여기뿐이다.
func (e *Evaluator) evalBlock(block *ast.Block) error {
	e.env.Push()
	e.logger.Debug("push scope", slog.Int("depth", e.env.Depth()))

	for _, stmt := range block.Statements {
		if err := e.execute(stmt); err != nil {
			return err
		}
	}

	if err := e.env.Pop(); err != nil {
		return wrapError(block.Token, err)
	}
	e.logger.Debug("pop scope", slog.Int("depth", e.env.Depth()))

	e.collect()
	return nil
}

func (e *Evaluator) collect() {
	roots := []object.RootSet{e.env}
	if e.stackRoots {
		roots = append(roots, object.RootFunc(e.forEachStackSlot))
	}

	freed := e.heap.Collect(roots...)
	e.logger.Debug("gc collect",
		slog.Int("roots", len(roots)),
		slog.Int("freed", freed),
		slog.Int("live", e.heap.Len()))
}

func (e *Evaluator) forEachStackSlot(visit func(object.Handle)) {
	for _, h := range e.stack {
		visit(h)
	}
}

// 인수 사이에 구분자를 넣지 않고, 마지막에 줄바꿈 하나
func (e *Evaluator) evalPrint(stmt *ast.PrintStatement) error {
	for _, arg := range stmt.Args {
		if err := e.evaluate(arg); err != nil {
			return err
		}
		h, err := e.pop(stmt.Token)
		if err != nil {
			return err
		}
		obj, err := e.heap.Get(h)
		if err != nil {
			return wrapError(stmt.Token, err)
		}
		e.out.WriteString(obj.Inspect())
	}
	e.out.WriteString("\n")
	return nil
}

// 왼쪽, 오른쪽 순서로 평가하고 오른쪽, 왼쪽 순서로 꺼낸다.
// 결과는 언제나 새 객체
func (e *Evaluator) evalBinary(binary *ast.Binary) error {
	if err := e.evaluate(binary.Left); err != nil {
		return err
	}
	if err := e.evaluate(binary.Right); err != nil {
		return err
	}

	right, err := e.popValue(binary.Op)
	if err != nil {
		return err
	}
	left, err := e.popValue(binary.Op)
	if err != nil {
		return err
	}

	var result int32
	switch binary.Op.Type {
	case token.PLUS:
		result = left + right
	case token.MINUS:
		result = left - right
	case token.STAR:
		result = left * right
	case token.SLASH:
		if right == 0 {
			return newError(binary.Op, ErrDivisionByZero, "division by zero: %d / %d", left, right)
		}
		result = left / right
	default:
		return newError(binary.Op, ErrUnsupportedOperator,
			"unsupported binary operator: %s", binary.Op.Literal)
	}

	e.push(e.heap.Allocate(result))
	return nil
}

func (e *Evaluator) evalUnary(unary *ast.Unary) error {
	if unary.Op.Type != token.MINUS {
		return newError(unary.Op, ErrUnsupportedOperator,
			"unsupported unary operator: %s", unary.Op.Literal)
	}

	if err := e.evaluate(unary.Expr); err != nil {
		return err
	}
	value, err := e.popValue(unary.Op)
	if err != nil {
		return err
	}

	e.push(e.heap.Allocate(-value))
	return nil
}

// 식별자는 이미 있는 핸들을 그대로 쌓는다. 새로 할당하지 않는다.
func (e *Evaluator) evalPrimary(primary *ast.Primary) error {
	tok := primary.Value

	switch tok.Type {
	case token.I32_LITERAL:
		value, err := strconv.ParseInt(tok.Literal, 10, 32)
		if err != nil {
			return newError(tok, ErrInvalidLiteral, "invalid i32 literal: %s", tok.Literal)
		}
		e.push(e.heap.Allocate(int32(value)))

	case token.IDENTIFIER:
		h, err := e.env.Resolve(tok.Literal)
		if err != nil {
			return wrapError(tok, err)
		}
		e.push(h)

	default:
		return newError(tok, ErrUnsupportedLiteral,
			"unsupported literal: %s %q", tok.Type, tok.Literal)
	}
	return nil
}

func (e *Evaluator) push(h object.Handle) {
	e.stack = append(e.stack, h)
}

func (e *Evaluator) pop(tok token.Token) (object.Handle, error) {
	n := len(e.stack)
	if n == 0 {
		return object.Handle{}, newError(tok, ErrStackUnderflow, "value stack underflow at %s", tok.Literal)
	}
	h := e.stack[n-1]
	e.stack = e.stack[:n-1]
	return h, nil
}

func (e *Evaluator) popValue(tok token.Token) (int32, error) {
	h, err := e.pop(tok)
	if err != nil {
		return 0, err
	}
	value, err := e.heap.Value(h)
	if err != nil {
		return 0, wrapError(tok, err)
	}
	return value, nil
}
