// Package player contains automatic players of Connect Four.
package player

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/montecarlo"
)

var (
	// ErrGameOver is returned when a move is requested for a finished game.
	ErrGameOver = errors.New("game is already over")
	// ErrSearchUnavailable means the engine answered with its no-move
	// sentinel. A caller that checks for ErrGameOver first should never see
	// it.
	ErrSearchUnavailable = errors.New("search could not produce a move")
)

// Move asks the search engine for a move on b using the given number of
// rollouts. Finished games are refused before any budget is spent.
func Move(b board.Board, rollouts uint32) (int, error) {
	if !b.Status().InProgress() {
		return 0, ErrGameOver
	}
	red, blue := b.Words()
	col := montecarlo.BestMove(red, blue, rollouts)
	if col == montecarlo.NoMove {
		return 0, fmt.Errorf("%w (%d rollouts)", ErrSearchUnavailable, rollouts)
	}
	return int(col), nil
}

// AIPlayer picks moves for whichever side is on turn.
type AIPlayer interface {
	Name() string
	ChooseMove(b board.Board) (int, error)
}

// MCTSPlayer searches with a fixed rollout budget.
type MCTSPlayer struct {
	rollouts uint32
}

func NewMCTSPlayer(rollouts uint32) *MCTSPlayer {
	return &MCTSPlayer{rollouts: rollouts}
}

func (p *MCTSPlayer) Name() string {
	return fmt.Sprintf("mcts-%d", p.rollouts)
}

func (p *MCTSPlayer) ChooseMove(b board.Board) (int, error) {
	col, err := Move(b, p.rollouts)
	if err != nil {
		return 0, err
	}
	log.Debug().Str("player", p.Name()).Int("column", col).Msg("chose-move")
	return col, nil
}

// RandomPlayer plays a uniformly random legal column. It is the baseline
// opponent for self-play.
type RandomPlayer struct {
	rng *rand.Rand
}

func NewRandomPlayer() *RandomPlayer {
	return NewSeededRandomPlayer(frand.Uint64n(math.MaxUint64))
}

func NewSeededRandomPlayer(seed uint64) *RandomPlayer {
	return &RandomPlayer{rng: rand.New(rand.NewPCG(seed, ^seed))}
}

func (p *RandomPlayer) Name() string {
	return "random"
}

func (p *RandomPlayer) ChooseMove(b board.Board) (int, error) {
	if !b.Status().InProgress() {
		return 0, ErrGameOver
	}
	mask := b.LegalMask()
	n := p.rng.IntN(bits.OnesCount8(mask))
	for ; n > 0; n-- {
		mask &= mask - 1
	}
	return bits.TrailingZeros8(mask), nil
}
