package ast

// 추상 구문 트리
// 노드의 종류는 이 패키지 안에서 닫혀 있다. statementNode/expressionNode가
// 외부로 공개되지 않으므로 다른 패키지는 새 노드 종류를 만들 수 없다.
import (
	"Bird/token"
	"bytes"
	"strings"
)

type Node interface {
	TokenLiteral() string // 토큰에 대응하는 리터럴값을 반환, 디버깅과 테스트 용도로만 사용
	String() string
}

// Declaration, PrintStatement, ExpressionStatement, Block
type Statement interface {
	Node
	statementNode()
}

// Binary, Unary, Primary
type Expression interface {
	Node
	expressionNode()
}

// Program노드 : 루트 노드
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// 명령문 하나당 한 줄
func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// let <identifier> = <expression>;
type Declaration struct {
	Token      token.Token // let 토큰
	Identifier token.Token
	Value      Expression
}

func (d *Declaration) statementNode()       {}
func (d *Declaration) TokenLiteral() string { return d.Token.Literal }
func (d *Declaration) String() string {
	var out bytes.Buffer

	out.WriteString("(let ")
	out.WriteString(d.Identifier.Literal)
	out.WriteString(" ")
	if d.Value != nil {
		out.WriteString(d.Value.String())
	}
	out.WriteString(")")

	return out.String()
}

// puts <expression>, <expression>, ...;
type PrintStatement struct {
	Token token.Token // puts 토큰
	Args  []Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	var args []string
	for _, a := range ps.Args {
		args = append(args, a.String())
	}
	return "(puts " + strings.Join(args, " ") + ")"
}

type ExpressionStatement struct {
	Token      token.Token // 표현식의 첫 토큰
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}

type Block struct {
	Token      token.Token // { 토큰
	Statements []Statement
}

func (b *Block) statementNode()       {}
func (b *Block) TokenLiteral() string { return b.Token.Literal }
func (b *Block) String() string {
	var out bytes.Buffer

	out.WriteString("{")
	for _, s := range b.Statements {
		out.WriteString(s.String())
	}
	out.WriteString("}")

	return out.String()
}

// (<op> <left> <right>)
type Binary struct {
	Op    token.Token
	Left  Expression
	Right Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Op.Literal }
func (b *Binary) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(b.Op.Literal + " ")
	out.WriteString(b.Left.String())
	out.WriteString(" ")
	out.WriteString(b.Right.String())
	out.WriteString(")")

	return out.String()
}

// -<expression>
type Unary struct {
	Op   token.Token
	Expr Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Op.Literal }
func (u *Unary) String() string       { return u.Op.Literal + u.Expr.String() }

// 정수 리터럴 또는 식별자
// 리터럴 값은 평가할 때 해석한다.
type Primary struct {
	Value token.Token
}

func (p *Primary) expressionNode()      {}
func (p *Primary) TokenLiteral() string { return p.Value.Literal }
func (p *Primary) String() string       { return p.Value.Literal }
