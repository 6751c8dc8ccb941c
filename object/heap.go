package object

import (
	"errors"
	"fmt"
)

// 회수된 슬롯이나 영값을 가리키는 핸들을 역참조했을 때
var ErrDanglingHandle = errors.New("dangling handle")

// 힙 슬롯
// live가 false인 슬롯은 free 목록에 들어 있고 다음 할당에서 다시 쓰인다.
type slot struct {
	obj        Integer
	generation uint32
	marked     bool
	live       bool
}

type Stats struct {
	Allocated   int // 지금까지 할당한 객체 수
	Freed       int // 지금까지 회수한 객체 수
	Collections int // Collect, CollectAll 호출 횟수
	Live        int // 현재 살아 있는 객체 수
}

// Heap은 평가 중에 만들어진 모든 정수 객체를 소유한다.
// 슬롯 배열(아레나)을 직접 훑는 표시-청소(mark-and-sweep) 방식으로 회수하며,
// 객체를 옮기지 않으므로 핸들은 회수될 때까지 그대로 유효하다.
// 하나의 평가기만 사용한다고 가정하므로 동기화하지 않는다.
type Heap struct {
	slots []slot
	free  []uint32 // 회수된 슬롯 인덱스
	live  int
	stats Stats
}

func NewHeap() *Heap {
	return &Heap{}
}

// O(1). 표시되지 않은 새 객체를 만든다.
func (h *Heap) Allocate(value int32) Handle {
	var index uint32
	if n := len(h.free); n > 0 {
		index = h.free[n-1]
		h.free = h.free[:n-1]
	} else {
		index = uint32(len(h.slots))
		h.slots = append(h.slots, slot{generation: 1})
	}

	s := &h.slots[index]
	s.obj = Integer{Value: value}
	s.marked = false
	s.live = true

	h.live++
	h.stats.Allocated++
	return Handle{index: index, generation: s.generation}
}

func (h *Heap) lookup(handle Handle) (*slot, error) {
	if handle.IsZero() || int(handle.index) >= len(h.slots) {
		return nil, fmt.Errorf("%w: %s", ErrDanglingHandle, handle)
	}
	s := &h.slots[handle.index]
	if !s.live || s.generation != handle.generation {
		return nil, fmt.Errorf("%w: %s", ErrDanglingHandle, handle)
	}
	return s, nil
}

// 핸들이 가리키는 객체의 복사본
// 슬롯 배열은 할당 중에 다시 잡힐 수 있으므로 포인터를 내주지 않는다.
func (h *Heap) Get(handle Handle) (Integer, error) {
	s, err := h.lookup(handle)
	if err != nil {
		return Integer{}, err
	}
	return s.obj, nil
}

func (h *Heap) Value(handle Handle) (int32, error) {
	obj, err := h.Get(handle)
	if err != nil {
		return 0, err
	}
	return obj.Value, nil
}

func (h *Heap) Contains(handle Handle) bool {
	_, err := h.lookup(handle)
	return err == nil
}

// 유효하지 않은 핸들은 무시한다.
func (h *Heap) Mark(handle Handle) bool {
	s, err := h.lookup(handle)
	if err != nil {
		return false
	}
	s.marked = true
	return true
}

// 스스로는 아무 상태도 지우지 않는다. 루트 집합이 열거하는 객체에 표시만 한다.
// 표시한 루트 수를 돌려준다.
func (h *Heap) MarkRoots(roots ...RootSet) int {
	marked := 0
	for _, root := range roots {
		root.ForEachBinding(func(handle Handle) {
			if h.Mark(handle) {
				marked++
			}
		})
	}
	return marked
}

// 슬롯 배열을 한 번 훑는다.
// 표시되지 않은 객체는 회수하고, 표시된 객체는 표시를 지운 뒤 남긴다.
// 회수한 객체 수를 돌려준다.
func (h *Heap) Sweep() int {
	freed := 0
	for i := range h.slots {
		s := &h.slots[i]
		if !s.live {
			continue
		}
		if s.marked {
			s.marked = false
			continue
		}
		s.live = false
		s.obj = Integer{}
		s.generation++
		if s.generation == 0 {
			s.generation = 1
		}
		h.free = append(h.free, uint32(i))
		freed++
	}

	h.live -= freed
	h.stats.Freed += freed
	return freed
}

// 표시 후 청소
func (h *Heap) Collect(roots ...RootSet) int {
	h.MarkRoots(roots...)
	h.stats.Collections++
	return h.Sweep()
}

// 표시 없이 청소만 한다. 모든 객체가 회수된다.
// 프로그램 하나의 평가를 끝낼 때 쓴다.
func (h *Heap) CollectAll() int {
	h.stats.Collections++
	return h.Sweep()
}

// 살아 있는 객체 수
func (h *Heap) Len() int { return h.live }

func (h *Heap) Stats() Stats {
	st := h.stats
	st.Live = h.live
	return st
}
