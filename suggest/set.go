package suggest

// orderedSet keeps the first occurrence of every value in insertion order.
type orderedSet[T comparable] struct {
	items []T
	seen  map[T]struct{}
}

func newOrderedSet[T comparable]() *orderedSet[T] {
	return &orderedSet[T]{seen: make(map[T]struct{})}
}

// Add appends v unless it is already present and reports whether it was added.
func (s *orderedSet[T]) Add(v T) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet[T]) Len() int {
	return len(s.items)
}

func (s *orderedSet[T]) Items() []T {
	return s.items
}
