package montecarlo

// nodeStack is a stack of arena indices. It records the path taken through
// the tree so that backpropagation never has to recurse.
type nodeStack struct {
	items []int32
}

func newNodeStack(capacity int) nodeStack {
	return nodeStack{items: make([]int32, 0, capacity)}
}

func (s *nodeStack) push(idx int32) {
	s.items = append(s.items, idx)
}

func (s *nodeStack) pop() (int32, bool) {
	if len(s.items) == 0 {
		return 0, false
	}
	idx := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return idx, true
}

func (s *nodeStack) len() int {
	return len(s.items)
}

func (s *nodeStack) reset() {
	s.items = s.items[:0]
}
