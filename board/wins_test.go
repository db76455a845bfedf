package board

import (
	"math/bits"
	"testing"

	"github.com/matryer/is"
)

func TestWinMaskCount(t *testing.T) {
	is := is.New(t)
	masks := WinMasks()
	is.Equal(len(masks), 69)
	seen := map[uint64]bool{}
	for _, m := range masks {
		is.Equal(bits.OnesCount64(m), WinLength)
		is.Equal(m&^playable, uint64(0))
		is.True(!seen[m])
		seen[m] = true
	}
}

func TestIsWin(t *testing.T) {
	is := is.New(t)
	horizontal := cellBit(3, 0) | cellBit(4, 0) | cellBit(5, 0) | cellBit(6, 0)
	vertical := cellBit(6, 2) | cellBit(6, 3) | cellBit(6, 4) | cellBit(6, 5)
	rising := cellBit(0, 0) | cellBit(1, 1) | cellBit(2, 2) | cellBit(3, 3)
	falling := cellBit(3, 5) | cellBit(4, 4) | cellBit(5, 3) | cellBit(6, 2)
	for _, w := range []uint64{horizontal, vertical, rising, falling} {
		is.True(IsWin(w))
		is.True(IsWin(w | turnBit | terminalBit))
	}
	// three in a column plus the guard bit of that column is not a win
	is.True(!IsWin(cellBit(0, 3) | cellBit(0, 4) | cellBit(0, 5) | cellBit(0, 6)))
	// top of column 0 and bottom of column 1 are adjacent bits but not a line
	is.True(!IsWin(cellBit(0, 4) | cellBit(0, 5) | cellBit(0, 6) | cellBit(1, 0)))
	is.True(!IsWin(horizontal &^ cellBit(5, 0)))
	is.True(!IsWin(0))
}
