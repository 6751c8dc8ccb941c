package parser

/*
파서는 토큰열을 입력으로 받아 추상 구문 트리를 만든다.
여기서는 재귀적 하향 파싱을 사용한다.
이항 연산은 S-표현식 형태로만 쓰기 때문에 연산자 우선순위가 필요 없다.
	let <identifier> = <expression>;
	puts <expression>, <expression>;
	{ <statement>... }
	<expression>;
*/
import (
	"Bird/ast"
	"Bird/lexer"
	"Bird/token"
	"fmt"
)

type Parser struct {
	l              *lexer.Lexer // 현재의 렉서 인스턴스를 가리키는 포인터
	curToken       token.Token  // 현재 토큰
	peekToken      token.Token  // 그다음 토큰
	errors         []string
	prefixParseFns map[token.TokenType]prefixParseFn
}

// 전위 파싱 함수
// 토큰 타입마다 최대 하나의 파싱 함수가 연관된다.
type prefixParseFn func() ast.Expression

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, errors: []string{}}
	// 토큰을 2개 읽어서 curToken, peekToken 을 세팅
	p.nextToken()
	p.nextToken()

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.IDENTIFIER, p.parsePrimary)
	p.registerPrefix(token.I32_LITERAL, p.parsePrimary)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.LPAREN, p.parseBinary)
	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}
	// token.EOF를 만날때 까지 모든 토큰을 대상으로 반복
	for p.curToken.Type != token.EOF {
		stmt := p.ParseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}
	return program
}

// 파싱에 실패하면 nil 인터페이스를 돌려준다.
// 모든 파싱 함수는 자기 구문의 마지막 토큰이 curToken이 된 상태로 끝난다.
func (p *Parser) ParseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET:
		return p.parseDeclaration()
	case token.PUTS:
		return p.parsePrintStatement()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseDeclaration() ast.Statement {
	stmt := &ast.Declaration{Token: p.curToken}

	if !p.expectPeek(token.IDENTIFIER) {
		return nil
	}
	stmt.Identifier = p.curToken

	if !p.expectPeek(token.ASSIGN) {
		return nil
	}

	p.nextToken()
	stmt.Value = p.parseExpression()
	if stmt.Value == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

// 인수 사이의 쉼표는 생략할 수 있다.
func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}

	for !p.peekTokenIs(token.SEMICOLON) {
		if p.peekTokenIs(token.EOF) {
			p.peekError(token.SEMICOLON)
			return nil
		}
		if len(stmt.Args) > 0 && p.peekTokenIs(token.COMMA) {
			p.nextToken()
		}
		p.nextToken()

		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		stmt.Args = append(stmt.Args, arg)
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseBlock() ast.Statement {
	block := &ast.Block{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.errors = append(p.errors, "unterminated block: expected }, got EOF instead")
			return nil
		}
		stmt := p.ParseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression()
	if stmt.Expression == nil {
		return nil
	}

	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression() ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	return prefix()
}

// 리터럴의 해석은 평가기의 몫
func (p *Parser) parsePrimary() ast.Expression {
	return &ast.Primary{Value: p.curToken}
}

// parseUnary가 호출될 때 curToken은 MINUS
func (p *Parser) parseUnary() ast.Expression {
	expression := &ast.Unary{Op: p.curToken}

	p.nextToken()

	expression.Expr = p.parseExpression()
	if expression.Expr == nil {
		return nil
	}
	return expression
}

// (<op> <left> <right>)
func (p *Parser) parseBinary() ast.Expression {
	p.nextToken()
	if !token.IsBinaryOperator(p.curToken.Type) {
		msg := fmt.Sprintf("expected binary operator after (, got %s instead", p.curToken.Type)
		p.errors = append(p.errors, msg)
		return nil
	}
	expression := &ast.Binary{Op: p.curToken}

	p.nextToken()
	expression.Left = p.parseExpression()
	if expression.Left == nil {
		return nil
	}

	p.nextToken()
	expression.Right = p.parseExpression()
	if expression.Right == nil {
		return nil
	}

	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expression
}

// 단정 함수
// 다음 토큰 타입를 검사해 토큰 간의 순서를 올바르게 강제할 용도로 사용
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.errors = append(p.errors, msg)
}

// 규격화된 에러메시지를 파서의 errors필드에 추가
func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	msg := fmt.Sprintf("no prefix parse function for %s found", t)
	p.errors = append(p.errors, msg)
}
