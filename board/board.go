// Package board implements a bit-packed Connect Four board.
//
// The board is two uint64 words, one per colour. Bits are assigned LSB
// first from the bottom-left cell going up each column:
//
//	 6 13 20 27 34 41 48   <- guard row, always empty
//	 5 12 19 26 33 40 47
//	 4 11 18 25 32 39 46
//	 3 10 17 24 31 38 45
//	 2  9 16 23 30 37 44
//	 1  8 15 22 29 36 43
//	 0  7 14 21 28 35 42
//
// Bit 49 is the turn flag, identical in both words: 0 when Red is to move,
// 1 when Blue is. Bit 50 is the game-over flag, set on the winner's word
// only, or on both words for a tied game.
package board

import (
	"errors"
	"fmt"
	"math/bits"
)

const (
	Width     = 7
	Height    = 6
	WinLength = 4

	// columnStride is the number of bits used by each column. The extra bit
	// on top of every column keeps upward shifts from bleeding into the next
	// column.
	columnStride = Height + 1

	turnBit     uint64 = 1 << (Width * columnStride)
	terminalBit uint64 = turnBit << 1

	// NoMove is one past the last valid column.
	NoMove = Width
)

var (
	// bottomRow has the lowest cell of every column set.
	bottomRow uint64
	// topRow has the highest playable cell of every column set. A board is
	// full when all of these are occupied.
	topRow uint64
	// playable covers every cell that can hold a piece.
	playable uint64
)

func init() {
	for c := 0; c < Width; c++ {
		bottomRow |= columnBase(c)
		topRow |= columnBase(c) << (Height - 1)
	}
	playable = bottomRow * ((1 << Height) - 1)
	initWinMasks()
}

func columnBase(column int) uint64 {
	return 1 << (column * columnStride)
}

func cellBit(column, row int) uint64 {
	return columnBase(column) << row
}

var (
	ErrIllegalMove  = errors.New("illegal move")
	ErrInvalidBoard = errors.New("invalid board")
)

// Board is a Connect Four position. The zero value is the empty board with
// Red to move.
type Board struct {
	red  uint64
	blue uint64
}

func NewBoard() Board {
	return Board{}
}

// FromWords rebuilds a board from the two words produced by Words. No
// validation happens here; see Validate for untrusted input.
func FromWords(red, blue uint64) Board {
	return Board{red: red, blue: blue}
}

// Words returns the red and blue words, flags included.
func (b Board) Words() (red, blue uint64) {
	return b.red, b.blue
}

func (b Board) occupied() uint64 {
	return (b.red | b.blue) & playable
}

// ActivePlayer returns the player the turn flag points at. It is only
// meaningful while the game is in progress.
func (b Board) ActivePlayer() Player {
	if b.red&turnBit != 0 {
		return Blue
	}
	return Red
}

// GameOver is true once either word carries the game-over flag.
func (b Board) GameOver() bool {
	return (b.red|b.blue)&terminalBit != 0
}

// Status derives the game status from the flags.
func (b Board) Status() GameStatus {
	redDone := b.red&terminalBit != 0
	blueDone := b.blue&terminalBit != 0
	switch {
	case redDone && blueDone:
		return Finished(Tie)
	case redDone:
		return Finished(RedWins)
	case blueDone:
		return Finished(BlueWins)
	}
	return TurnOf(b.ActivePlayer())
}

// IsLegal reports whether column can be played right now.
func (b Board) IsLegal(column int) bool {
	if column < 0 || column >= Width {
		return false
	}
	if b.GameOver() {
		return false
	}
	return b.occupied()&cellBit(column, Height-1) == 0
}

// LegalMask has bit c set for every legal column c.
func (b Board) LegalMask() uint8 {
	if b.GameOver() {
		return 0
	}
	var mask uint8
	free := ^b.occupied() & topRow
	for c := 0; c < Width; c++ {
		if free&cellBit(c, Height-1) != 0 {
			mask |= 1 << c
		}
	}
	return mask
}

// LegalColumns lists the legal columns in ascending order.
func (b Board) LegalColumns() []int {
	mask := b.LegalMask()
	cols := make([]int, 0, bits.OnesCount8(mask))
	for mask != 0 {
		c := bits.TrailingZeros8(mask)
		cols = append(cols, c)
		mask &= mask - 1
	}
	return cols
}

// PlayMove drops a piece for the active player, refusing illegal columns
// without touching the board.
func (b *Board) PlayMove(column int) error {
	if !b.IsLegal(column) {
		return fmt.Errorf("%w: column %d", ErrIllegalMove, column)
	}
	b.ApplyMove(column)
	return nil
}

// ApplyMove is the unchecked mutator. It drops a piece in column for the
// active player and updates the flags. A full or out-of-range column is a
// no-op. It returns whether a piece was placed.
func (b *Board) ApplyMove(column int) bool {
	if column < 0 || column >= Width {
		return false
	}
	cell := columnBase(column)
	guard := cell << Height
	occupied := b.occupied()
	for cell&occupied != 0 && cell != guard {
		cell <<= 1
	}
	if cell >= guard {
		return false
	}
	mover := b.ActivePlayer()
	if mover == Red {
		b.red |= cell
	} else {
		b.blue |= cell
	}
	b.updateStatusAfterMove(mover)
	return true
}

// updateStatusAfterMove must run right after a piece is placed for mover.
// A win is checked before a full board so that a last-cell four-in-a-row
// is a win and not a tie.
func (b *Board) updateStatusAfterMove(mover Player) {
	if mover == Red && IsWin(b.red) {
		b.red |= terminalBit
		return
	}
	if mover == Blue && IsWin(b.blue) {
		b.blue |= terminalBit
		return
	}
	if b.occupied()&topRow == topRow {
		b.red |= terminalBit
		b.blue |= terminalBit
		return
	}
	b.red ^= turnBit
	b.blue ^= turnBit
}

// SlotAt returns the contents of a cell. Row 0 is the bottom row. It panics
// on coordinates outside the board.
func (b Board) SlotAt(column, row int) Slot {
	if column < 0 || column >= Width || row < 0 || row >= Height {
		panic(fmt.Sprintf("slot (%d, %d) is off the board", column, row))
	}
	cell := cellBit(column, row)
	switch {
	case b.red&cell != 0:
		return RedPiece
	case b.blue&cell != 0:
		return BluePiece
	}
	return Empty
}

// ColumnHeight is the number of pieces in column.
func (b Board) ColumnHeight(column int) int {
	col := (b.occupied() >> (column * columnStride)) & ((1 << Height) - 1)
	return bits.OnesCount64(col)
}

// MovesPlayed is the number of pieces on the board.
func (b Board) MovesPlayed() int {
	return bits.OnesCount64(b.occupied())
}
