package object

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrScopeUnderflow    = errors.New("cannot pop the top-level scope")
)

const noParent = -1

// 블록 하나에 해당하는 바인딩 테이블
// 값은 힙 객체를 가리키는 핸들이며 스코프가 객체를 소유하지는 않는다.
type scope struct {
	store  map[string]Handle
	parent int
}

// 환경은 중첩된 스코프의 체인
// 스코프는 슬라이스(아레나)에 두고 바깥 스코프를 인덱스로 가리킨다.
// 블록은 스택처럼 중첩되므로 현재 스코프는 언제나 마지막 원소다.
func NewEnvironment() *Environment {
	return &Environment{
		scopes: []scope{{store: make(map[string]Handle), parent: noParent}},
	}
}

type Environment struct {
	scopes  []scope
	current int
}

// 현재 스코프에만 바인딩한다. 바깥 스코프의 같은 이름은 가려질 뿐 사라지지 않는다.
func (e *Environment) Bind(name string, h Handle) {
	e.scopes[e.current].store[name] = h
}

// 현재 스코프에서 찾고, 없으면 바깥 스코프로 올라간다.
func (e *Environment) Resolve(name string) (Handle, error) {
	for i := e.current; i != noParent; i = e.scopes[i].parent {
		if h, ok := e.scopes[i].store[name]; ok {
			return h, nil
		}
	}
	return Handle{}, fmt.Errorf("%w '%s'", ErrUndefinedVariable, name)
}

// 현재 스코프를 부모로 하는 자식 스코프를 만들어 현재 스코프로 삼는다.
// 이전에 쓰던 슬롯이 남아 있으면 그 맵을 다시 쓴다.
func (e *Environment) Push() {
	n := len(e.scopes)
	if n < cap(e.scopes) {
		e.scopes = e.scopes[:n+1]
		if e.scopes[n].store == nil {
			e.scopes[n].store = make(map[string]Handle)
		}
	} else {
		e.scopes = append(e.scopes, scope{store: make(map[string]Handle)})
	}
	e.scopes[n].parent = e.current
	e.current = n
}

// 부모 스코프로 돌아간다. 자식의 바인딩은 버려지며 더 이상 루트가 아니다.
func (e *Environment) Pop() error {
	s := &e.scopes[e.current]
	if s.parent == noParent {
		return ErrScopeUnderflow
	}
	clear(s.store)
	e.current = s.parent
	e.scopes = e.scopes[:len(e.scopes)-1]
	return nil
}

// 현재 스코프와 바깥의 모든 스코프에 있는 바인딩을 방문한다.
// 수집기가 루트를 열거할 때 쓴다.
func (e *Environment) ForEachBinding(visit func(Handle)) {
	for i := e.current; i != noParent; i = e.scopes[i].parent {
		for _, h := range e.scopes[i].store {
			visit(h)
		}
	}
}

// 체인에 있는 스코프 수. 최상위 스코프만 있으면 1
func (e *Environment) Depth() int {
	depth := 0
	for i := e.current; i != noParent; i = e.scopes[i].parent {
		depth++
	}
	return depth
}

// 현재 스코프에서 보이는 이름을 정렬해서 돌려준다.
func (e *Environment) Names() []string {
	seen := make(map[string]bool)
	for i := e.current; i != noParent; i = e.scopes[i].parent {
		for name := range e.scopes[i].store {
			seen[name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// 최상위 스코프 하나만 남기고 모든 바인딩을 지운다.
func (e *Environment) Reset() {
	for i := 1; i < len(e.scopes); i++ {
		clear(e.scopes[i].store)
	}
	e.scopes = e.scopes[:1]
	clear(e.scopes[0].store)
	e.current = 0
}
