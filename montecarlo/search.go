// Package montecarlo implements Monte Carlo tree search for Connect Four.
//
// Every call builds a fresh tree in its own arena, runs a fixed number of
// select / expand / rollout / backpropagate iterations and returns the most
// visited move at the root. Nothing is shared between calls.
package montecarlo

import (
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/board"
)

// explorationConstant scales the UCT exploration term.
const explorationConstant = 1.25

// Searcher runs searches with its own random source. A Searcher must not be
// used from more than one goroutine at a time; make one per goroutine.
type Searcher struct {
	rng         *rand.Rand
	exploration float64
}

type Option func(*Searcher)

// WithSeed makes rollouts reproducible. Mostly useful in tests.
func WithSeed(seed uint64) Option {
	return func(s *Searcher) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func NewSearcher(opts ...Option) *Searcher {
	s := &Searcher{exploration: explorationConstant}
	for _, o := range opts {
		o(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(frand.Uint64n(math.MaxUint64), frand.Uint64n(math.MaxUint64)))
	}
	return s
}

// SearchResult describes a finished search.
type SearchResult struct {
	// Column is the recommended move, or board.NoMove.
	Column     int
	Iterations uint32
	Nodes      int
	// Visits and WinRate are per root child, from the point of view of the
	// player to move at the root. Columns without a child have zero visits.
	Visits  [board.Width]uint32
	WinRate [board.Width]float64
	// PrincipalVariation follows the most visited child from the root down.
	PrincipalVariation []int
}

// Search runs iterations rounds of MCTS from b. The board is copied; the
// caller's value is never modified. The caller is expected to check that
// the game is not over; a finished board simply produces no move.
func (s *Searcher) Search(b board.Board, iterations uint32) SearchResult {
	t := newTree(b, iterations)
	for i := uint32(0); i < iterations; i++ {
		s.iterate(t)
	}

	res := SearchResult{
		Column:     board.NoMove,
		Iterations: iterations,
		Nodes:      len(t.nodes),
	}
	for c, child := range t.root().children {
		if child == noNode {
			continue
		}
		res.Visits[c] = t.nodes[child].visits
		res.WinRate[c] = t.nodes[child].winRate()
	}
	if _, col := t.mostVisitedChild(0); col != board.NoMove {
		res.Column = col
	}
	res.PrincipalVariation = t.lineTo(t.principalLeaf())

	log.Debug().
		Uint32("iterations", iterations).
		Int("nodes", res.Nodes).
		Int("column", res.Column).
		Interface("visits", res.Visits).
		Ints("pv", res.PrincipalVariation).
		Msg("search-finished")
	return res
}

// principalLeaf descends through the most visited children.
func (t *tree) principalLeaf() int32 {
	idx := int32(0)
	for {
		next, _ := t.mostVisitedChild(idx)
		if next == noNode {
			return idx
		}
		idx = next
	}
}

func (s *Searcher) iterate(t *tree) {
	t.path.reset()

	// Selection
	cur := int32(0)
	t.path.push(cur)
	for t.nodes[cur].untried == 0 {
		next := s.selectChild(t, cur)
		if next == noNode {
			break
		}
		cur = next
		t.path.push(cur)
	}

	// Expansion
	if t.nodes[cur].untried != 0 {
		cur = s.expand(t, cur)
		t.path.push(cur)
	}

	// Simulation
	result := s.rollout(t.nodes[cur].board)

	// Backpropagation
	for {
		idx, ok := t.path.pop()
		if !ok {
			break
		}
		n := &t.nodes[idx]
		n.visits++
		n.value += result.Reward(n.mover)
	}
}

// selectChild picks the child of idx with the highest UCT score. Ties go
// to the lowest column.
func (s *Searcher) selectChild(t *tree, idx int32) int32 {
	parent := &t.nodes[idx]
	logParent := math.Log(float64(parent.visits))
	best := noNode
	bestScore := math.Inf(-1)
	for _, child := range parent.children {
		if child == noNode {
			continue
		}
		n := &t.nodes[child]
		score := math.Inf(1)
		if n.visits > 0 {
			score = n.winRate() + s.exploration*math.Sqrt(logParent/float64(n.visits))
		}
		if score > bestScore {
			best, bestScore = child, score
		}
	}
	return best
}

// expand materialises one random untried column of idx and returns the new
// child.
func (s *Searcher) expand(t *tree, idx int32) int32 {
	parent := &t.nodes[idx]
	col := nthColumn(parent.untried, s.rng.IntN(bits.OnesCount8(parent.untried)))
	parent.untried &^= 1 << col

	child := parent.board
	mover := child.ActivePlayer()
	child.ApplyMove(col)
	// parent may be invalid after addNode grows the arena.
	return t.addNode(child, idx, int8(col), mover)
}

// rollout plays uniformly random legal moves on a scratch copy of b until
// the game ends.
func (s *Searcher) rollout(b board.Board) board.GameResult {
	for !b.GameOver() {
		mask := b.LegalMask()
		if mask == 0 {
			return board.Tie
		}
		b.ApplyMove(nthColumn(mask, s.rng.IntN(bits.OnesCount8(mask))))
	}
	return b.Status().Result()
}
