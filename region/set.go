// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package region

// indexSet is a set of vertex or triangle indices that keeps a deterministic order:
// items are appended on insert and removal moves the last item into the freed slot.
// The order depends only on the history of operations, never on map iteration.
type indexSet struct {
	items []int
	pos   map[int]int
}

func newIndexSet() *indexSet {
	return &indexSet{pos: make(map[int]int)}
}

func (s *indexSet) Len() int {
	return len(s.items)
}

func (s *indexSet) Has(v int) bool {
	_, ok := s.pos[v]
	return ok
}

func (s *indexSet) At(i int) int {
	return s.items[i]
}

// Add inserts v and reports whether it was absent.
func (s *indexSet) Add(v int) bool {
	if _, ok := s.pos[v]; ok {
		return false
	}
	s.pos[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

// Remove deletes v and reports whether it was present.
func (s *indexSet) Remove(v int) bool {
	i, ok := s.pos[v]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.pos[moved] = i
	}
	s.items = s.items[:last]
	delete(s.pos, v)
	return true
}

func (s *indexSet) Clear() {
	s.items = s.items[:0]
	clear(s.pos)
}

// Items returns a copy of the members in set order.
func (s *indexSet) Items() []int {
	out := make([]int, len(s.items))
	copy(out, s.items)
	return out
}
