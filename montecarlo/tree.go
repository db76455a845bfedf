package montecarlo

import (
	"math/bits"
	"unsafe"

	"github.com/domino14/connectfour/board"
)

const (
	noNode int32 = -1

	// arenaPrealloc caps how many nodes are reserved up front. Larger
	// budgets grow the arena as needed.
	arenaPrealloc = 1 << 20

	// maxDepth is the longest possible path: the root plus one node per
	// cell.
	maxDepth = board.Width*board.Height + 1
)

// NodeBytes is the size of one tree node. A search of n iterations holds
// at most n+1 of them.
const NodeBytes = int(unsafe.Sizeof(node{}))

type node struct {
	board  board.Board
	parent int32
	// column is the move that led here from the parent; -1 for the root.
	column   int8
	children [board.Width]int32
	visits   uint32
	// value accumulates rewards from the point of view of mover.
	value float64
	mover board.Player
	// untried has bit c set for every legal column c without a child yet.
	untried uint8
}

func (n *node) winRate() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.value / float64(n.visits)
}

// tree is the arena for a single search. Nodes refer to each other by
// index and are only ever released together with the arena.
type tree struct {
	nodes []node
	path  nodeStack
}

func newTree(root board.Board, iterations uint32) *tree {
	capacity := int(min(uint64(iterations)+1, arenaPrealloc))
	t := &tree{
		nodes: make([]node, 0, capacity),
		path:  newNodeStack(maxDepth),
	}
	// Nobody moved into the root; the opponent of the side to move is the
	// natural owner of its (unused) value.
	t.addNode(root, noNode, -1, root.ActivePlayer().Opponent())
	return t
}

func (t *tree) addNode(b board.Board, parent int32, column int8, mover board.Player) int32 {
	n := node{
		board:   b,
		parent:  parent,
		column:  column,
		mover:   mover,
		untried: b.LegalMask(),
	}
	for i := range n.children {
		n.children[i] = noNode
	}
	t.nodes = append(t.nodes, n)
	idx := int32(len(t.nodes) - 1)
	if parent != noNode {
		t.nodes[parent].children[column] = idx
	}
	return idx
}

func (t *tree) root() *node {
	return &t.nodes[0]
}

// lineTo returns the columns played from the root to reach idx, following
// parent links.
func (t *tree) lineTo(idx int32) []int {
	walk := newNodeStack(maxDepth)
	for idx != noNode && t.nodes[idx].parent != noNode {
		walk.push(idx)
		idx = t.nodes[idx].parent
	}
	line := make([]int, 0, walk.len())
	for {
		i, ok := walk.pop()
		if !ok {
			break
		}
		line = append(line, int(t.nodes[i].column))
	}
	return line
}

// mostVisitedChild returns the child of idx with the most visits, lowest
// column first on ties.
func (t *tree) mostVisitedChild(idx int32) (int32, int) {
	best, bestCol := noNode, board.NoMove
	var bestVisits uint32
	for c, child := range t.nodes[idx].children {
		if child == noNode {
			continue
		}
		if best == noNode || t.nodes[child].visits > bestVisits {
			best, bestCol, bestVisits = child, c, t.nodes[child].visits
		}
	}
	return best, bestCol
}

// nthColumn returns the column of the n-th set bit of mask, counting from
// zero.
func nthColumn(mask uint8, n int) int {
	for ; n > 0; n-- {
		mask &= mask - 1
	}
	return bits.TrailingZeros8(mask)
}
