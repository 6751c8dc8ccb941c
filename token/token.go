package token

// 서로 다른 여러 값을 TokenType으로 필요한 만큼 사용가능
// 출력과 디버깅에서 그대로 읽을 수 있다.
type TokenType string

type Token struct {
	Type    TokenType
	Literal string
}

const (
	ILLEGAL = "ILLEGAL" // 렉서가 알 수 없는 문자
	EOF     = "EOF"     // 파일의 끝

	// 식별자 + 리터럴
	IDENTIFIER  = "IDENTIFIER"
	I32_LITERAL = "I32_LITERAL"

	// 연산자
	ASSIGN = "="
	PLUS   = "+"
	MINUS  = "-"
	STAR   = "*"
	SLASH  = "/"

	// 구분자
	COMMA     = ","
	SEMICOLON = ";"

	LPAREN = "("
	RPAREN = ")"
	LBRACE = "{"
	RBRACE = "}"

	// 예약어
	LET  = "LET"
	PUTS = "PUTS"
)

var keywords = map[string]TokenType{
	"let":  LET,
	"puts": PUTS,
}

// 주어진 식별자가 예약어인지 확인
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENTIFIER
}

// 이항 연산자 토큰인지 확인
func IsBinaryOperator(t TokenType) bool {
	switch t {
	case PLUS, MINUS, STAR, SLASH:
		return true
	}
	return false
}
