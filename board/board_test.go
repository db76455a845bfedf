package board

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/matryer/is"
)

// Blue completes a line with the 42nd piece.
var lastCellWin = []int{6, 6, 4, 5, 0, 5, 5, 5, 1, 0, 3, 4, 6, 4, 5, 5, 3, 2, 3, 0, 6,
	3, 0, 0, 4, 0, 6, 6, 3, 3, 1, 4, 4, 2, 1, 1, 1, 1, 2, 2, 2, 2}

// A full board without four in a row for either side.
var drawnGame = []int{1, 1, 4, 2, 3, 3, 4, 2, 2, 5, 6, 2, 3, 4, 2, 4, 6, 5, 1, 0, 1,
	5, 3, 4, 4, 1, 1, 6, 2, 6, 6, 6, 0, 0, 3, 0, 5, 3, 0, 0, 5, 5}

func playAll(t *testing.T, moves []int) Board {
	t.Helper()
	is := is.NewRelaxed(t)
	b := NewBoard()
	for _, m := range moves {
		is.True(b.IsLegal(m))
		is.NoErr(b.PlayMove(m))
	}
	return b
}

func TestEmptyIsEmpty(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	for c := 0; c < Width; c++ {
		for r := 0; r < Height; r++ {
			is.Equal(b.SlotAt(c, r), Empty)
		}
	}
	is.Equal(b.Status(), TurnOf(Red))
	is.Equal(b.MovesPlayed(), 0)
	is.Equal(b.LegalColumns(), []int{0, 1, 2, 3, 4, 5, 6})
}

func TestSlotOutOfBounds(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	for _, coords := range [][2]int{{7, 0}, {0, 6}, {-1, 0}, {0, -1}} {
		func() {
			defer func() {
				is.True(recover() != nil)
			}()
			b.SlotAt(coords[0], coords[1])
		}()
	}
}

func TestExampleGame(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.PlayMove(2))
	is.Equal(b.Status(), TurnOf(Blue))
	is.Equal(b.SlotAt(2, 0), RedPiece)
	is.Equal(b.SlotAt(3, 0), Empty)
	is.Equal(b.SlotAt(2, 1), Empty)

	is.NoErr(b.PlayMove(3))
	is.Equal(b.Status(), TurnOf(Red))
	is.Equal(b.SlotAt(3, 0), BluePiece)
	is.Equal(b.SlotAt(2, 1), Empty)

	is.NoErr(b.PlayMove(2))
	is.Equal(b.Status(), TurnOf(Blue))
	is.Equal(b.SlotAt(2, 1), RedPiece)

	is.NoErr(b.PlayMove(4))
	is.Equal(b.Status(), TurnOf(Red))
	is.Equal(b.SlotAt(2, 0), RedPiece)
	is.Equal(b.SlotAt(3, 0), BluePiece)
	is.Equal(b.SlotAt(2, 1), RedPiece)
	is.Equal(b.SlotAt(4, 0), BluePiece)
}

func TestFillingUpAColumn(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	for i := 0; i < Height; i++ {
		is.True(b.IsLegal(2))
		is.NoErr(b.PlayMove(2))
	}
	is.True(!b.IsLegal(2))
	is.True(b.IsLegal(3))
	is.Equal(b.ColumnHeight(2), Height)
	is.Equal(b.LegalMask(), uint8(0b1111011))
}

func TestPlayIllegalMoveLeavesBoardAlone(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	for i := 0; i < Height; i++ {
		is.NoErr(b.PlayMove(0))
	}
	before := b
	for _, col := range []int{0, -1, Width, 100} {
		err := b.PlayMove(col)
		is.True(errors.Is(err, ErrIllegalMove))
		is.Equal(b, before)
	}
	// the unchecked layer is a silent no-op on a full column
	is.True(!b.ApplyMove(0))
	is.Equal(b, before)
}

func TestKnownGameOutcome(t *testing.T) {
	is := is.New(t)
	b := playAll(t, []int{3, 3, 2, 1, 3, 5, 2, 2, 4, 3, 1, 2, 5, 1, 1, 3, 5, 5, 5, 2, 1, 2})
	is.Equal(b.Status(), Finished(BlueWins))
	is.True(b.GameOver())
	for c := 0; c < Width; c++ {
		is.True(!b.IsLegal(c))
	}
	is.Equal(b.LegalMask(), uint8(0))
	is.NoErr(b.Validate())
}

func TestWinTakesPrecedenceOverTie(t *testing.T) {
	is := is.New(t)
	b := playAll(t, lastCellWin)
	is.Equal(b.MovesPlayed(), Width*Height)
	is.Equal(b.Status(), Finished(BlueWins))
	red, blue := b.Words()
	is.Equal(red&terminalBit, uint64(0))
	is.Equal(blue&terminalBit, terminalBit)
	is.NoErr(b.Validate())
}

func TestDrawnGame(t *testing.T) {
	is := is.New(t)
	b := playAll(t, drawnGame)
	is.Equal(b.Status(), Finished(Tie))
	red, blue := b.Words()
	is.Equal(red&terminalBit, terminalBit)
	is.Equal(blue&terminalBit, terminalBit)
	is.NoErr(b.Validate())
}

func TestWordsRoundTrip(t *testing.T) {
	is := is.New(t)
	rng := rand.New(rand.NewPCG(7, 11))
	for game := 0; game < 200; game++ {
		b := NewBoard()
		for {
			red, blue := b.Words()
			rebuilt := FromWords(red, blue)
			is.Equal(rebuilt.Status(), b.Status())
			for c := 0; c < Width; c++ {
				for r := 0; r < Height; r++ {
					is.Equal(rebuilt.SlotAt(c, r), b.SlotAt(c, r))
				}
			}
			is.NoErr(rebuilt.Validate())
			cols := b.LegalColumns()
			if len(cols) == 0 {
				break
			}
			is.NoErr(b.PlayMove(cols[rng.IntN(len(cols))]))
		}
	}
}

func TestTurnFlagSharedByBothWords(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	is.NoErr(b.PlayMove(3))
	red, blue := b.Words()
	is.Equal(red&turnBit, turnBit)
	is.Equal(blue&turnBit, turnBit)
	is.NoErr(b.PlayMove(3))
	red, blue = b.Words()
	is.Equal(red&turnBit, uint64(0))
	is.Equal(blue&turnBit, uint64(0))
}

func TestValidateRejectsBadWords(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		name      string
		red, blue uint64
	}{
		{"shared cell", cellBit(0, 0), cellBit(0, 0) | turnBit},
		{"guard bit", cellBit(0, Height), 0},
		{"floating piece", cellBit(3, 2), turnBit},
		{"turn mismatch", cellBit(3, 0), 0},
		{"too many red", cellBit(0, 0) | cellBit(1, 0), 0},
		{"bogus win", cellBit(0, 0) | terminalBit, 0},
		{"bogus tie", terminalBit, terminalBit},
		{"high bits", 1 << 60, 0},
	}
	for _, tc := range cases {
		err := FromWords(tc.red, tc.blue).Validate()
		is.True(errors.Is(err, ErrInvalidBoard)) // tc.name
	}
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	b := playAll(t, []int{3, 3, 2})
	out := b.Display("R", "B", "_", "|", "[", "]", "\n")
	lines := strings.Split(strings.Trim(out, "\n"), "\n")
	is.Equal(len(lines), Height)
	is.Equal(lines[Height-1], "[_|_|R|R|_|_|_]")
	is.Equal(lines[Height-2], "[_|_|_|B|_|_|_]")
	is.Equal(lines[0], "[_|_|_|_|_|_|_]")
	is.True(strings.HasPrefix(out, "\n"))
	is.True(strings.HasSuffix(out, "]\n"))
}
