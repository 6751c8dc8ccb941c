package evaluator

import (
	"Bird/token"
	"errors"
	"fmt"
)

var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrUnsupportedLiteral  = errors.New("unsupported literal")
	ErrInvalidLiteral      = errors.New("invalid i32 literal")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrStackUnderflow      = errors.New("value stack underflow")
	ErrEvaluatorSpent      = errors.New("evaluator already ran a program")
)

// 실행 중 에러
// Kind는 위의 에러 중 하나이거나 object 패키지의 에러이며 errors.Is로 비교한다.
// 에러가 나면 힙과 스코프의 상태는 정의되지 않으므로 평가기를 버려야 한다.
type RuntimeError struct {
	Token   token.Token
	Kind    error
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }
func (e *RuntimeError) Unwrap() error { return e.Kind }

func newError(tok token.Token, kind error, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{
		Token:   tok,
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
	}
}

// 다른 패키지에서 올라온 에러에 토큰만 붙인다.
func wrapError(tok token.Token, err error) *RuntimeError {
	return &RuntimeError{Token: tok, Kind: err, Message: err.Error()}
}
