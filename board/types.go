package board

import "fmt"

// Player is one of the two colours. Red always moves first.
type Player uint8

const (
	Red Player = iota
	Blue
)

func (p Player) Opponent() Player {
	return p ^ 1
}

func (p Player) String() string {
	if p == Red {
		return "red"
	}
	return "blue"
}

type Slot uint8

const (
	Empty Slot = iota
	RedPiece
	BluePiece
)

// Player returns the owner of an occupied slot.
func (s Slot) Player() (Player, bool) {
	switch s {
	case RedPiece:
		return Red, true
	case BluePiece:
		return Blue, true
	}
	return 0, false
}

func (s Slot) String() string {
	switch s {
	case RedPiece:
		return "red"
	case BluePiece:
		return "blue"
	}
	return "empty"
}

type GameResult uint8

const (
	RedWins GameResult = iota
	BlueWins
	Tie
)

// Winner returns the winning player, or false for a tie.
func (r GameResult) Winner() (Player, bool) {
	switch r {
	case RedWins:
		return Red, true
	case BlueWins:
		return Blue, true
	}
	return 0, false
}

// Reward scores the result from p's point of view: 1 for a win, 0.5 for a
// tie and 0 for a loss.
func (r GameResult) Reward(p Player) float64 {
	w, ok := r.Winner()
	if !ok {
		return 0.5
	}
	if w == p {
		return 1
	}
	return 0
}

func (r GameResult) String() string {
	switch r {
	case RedWins:
		return "red wins"
	case BlueWins:
		return "blue wins"
	}
	return "tie"
}

// GameStatus is either "it is P's turn" or "the game ended with result R".
type GameStatus struct {
	over   bool
	turn   Player
	result GameResult
}

func TurnOf(p Player) GameStatus {
	return GameStatus{turn: p}
}

func Finished(r GameResult) GameStatus {
	return GameStatus{over: true, result: r}
}

func (s GameStatus) InProgress() bool {
	return !s.over
}

// Turn is the player to move. Only valid while InProgress.
func (s GameStatus) Turn() Player {
	return s.turn
}

// Result is the outcome. Only valid once the game is over.
func (s GameStatus) Result() GameResult {
	return s.result
}

func (s GameStatus) String() string {
	if s.over {
		return fmt.Sprintf("game over (%v)", s.result)
	}
	return fmt.Sprintf("%v to move", s.turn)
}
