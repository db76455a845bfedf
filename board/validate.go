package board

import (
	"fmt"
	"math/bits"
)

// Validate checks that a pair of words describes a position reachable by
// legal play. Boards built by PlayMove always pass; words that arrive from
// elsewhere should be checked before they are trusted.
func (b Board) Validate() error {
	flags := turnBit | terminalBit
	if (b.red|b.blue)&^(playable|flags) != 0 {
		return fmt.Errorf("%w: bits set outside the playable area", ErrInvalidBoard)
	}
	if b.red&b.blue&playable != 0 {
		return fmt.Errorf("%w: a cell is held by both players", ErrInvalidBoard)
	}
	if b.red&turnBit != b.blue&turnBit {
		return fmt.Errorf("%w: turn flags disagree", ErrInvalidBoard)
	}
	occ := b.occupied()
	for c := 0; c < Width; c++ {
		col := (occ >> (c * columnStride)) & ((1 << Height) - 1)
		if col&(col+1) != 0 {
			return fmt.Errorf("%w: column %d has a floating piece", ErrInvalidBoard, c)
		}
	}

	reds := bits.OnesCount64(b.red & playable)
	blues := bits.OnesCount64(b.blue & playable)
	diff := reds - blues
	if diff != 0 && diff != 1 {
		return fmt.Errorf("%w: %d red and %d blue pieces", ErrInvalidBoard, reds, blues)
	}
	redWon, blueWon := IsWin(b.red), IsWin(b.blue)
	full := occ&topRow == topRow

	status := b.Status()
	if status.InProgress() {
		if redWon || blueWon || full {
			return fmt.Errorf("%w: finished game without a game-over flag", ErrInvalidBoard)
		}
		if (status.Turn() == Blue) != (diff == 1) {
			return fmt.Errorf("%w: turn flag does not match piece count", ErrInvalidBoard)
		}
		return nil
	}
	// once the game ends the turn flag is frozen on the last mover
	lastMover := Blue
	if diff == 1 {
		lastMover = Red
	}
	if b.ActivePlayer() != lastMover {
		return fmt.Errorf("%w: turn flag does not match the last mover", ErrInvalidBoard)
	}
	switch status.Result() {
	case RedWins:
		if !redWon || lastMover != Red {
			return fmt.Errorf("%w: red marked as winner without four in a row", ErrInvalidBoard)
		}
	case BlueWins:
		if !blueWon || lastMover != Blue {
			return fmt.Errorf("%w: blue marked as winner without four in a row", ErrInvalidBoard)
		}
	case Tie:
		if !full || redWon || blueWon {
			return fmt.Errorf("%w: tie on a board that is not a full draw", ErrInvalidBoard)
		}
	}
	return nil
}
