package object

import "fmt"

// 정수
// 힙이 만들고 핸들로만 다룬다.
type Integer struct {
	Value int32
}

func (i *Integer) Inspect() string { return fmt.Sprintf("%d", i.Value) }

// Handle은 힙에 있는 객체를 가리키는 간접 참조
// index는 힙 슬롯, generation은 그 슬롯이 몇 번째로 쓰이는지를 나타낸다.
// 슬롯이 회수되면 generation이 바뀌므로 예전 핸들은 더 이상 유효하지 않다.
// 영값(Handle{})은 어떤 객체도 가리키지 않는다.
type Handle struct {
	index      uint32
	generation uint32
}

func (h Handle) IsZero() bool { return h.generation == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.index, h.generation)
}

// RootSet은 수집기가 표시를 시작할 루트 핸들을 열거한다.
type RootSet interface {
	ForEachBinding(visit func(Handle))
}

// RootFunc는 일반 함수를 RootSet으로 쓰게 해준다.
type RootFunc func(visit func(Handle))

func (f RootFunc) ForEachBinding(visit func(Handle)) { f(visit) }
