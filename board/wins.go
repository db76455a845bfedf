package board

// winMasks holds one mask per four-in-a-row that fits on the board.
var winMasks []uint64

func initWinMasks() {
	line := func(column, row, dc, dr int) uint64 {
		var m uint64
		for i := 0; i < WinLength; i++ {
			m |= cellBit(column+i*dc, row+i*dr)
		}
		return m
	}
	winMasks = winMasks[:0]
	// horizontal
	for r := 0; r < Height; r++ {
		for c := 0; c <= Width-WinLength; c++ {
			winMasks = append(winMasks, line(c, r, 1, 0))
		}
	}
	// vertical
	for c := 0; c < Width; c++ {
		for r := 0; r <= Height-WinLength; r++ {
			winMasks = append(winMasks, line(c, r, 0, 1))
		}
	}
	// rising and falling diagonals
	for c := 0; c <= Width-WinLength; c++ {
		for r := 0; r <= Height-WinLength; r++ {
			winMasks = append(winMasks, line(c, r, 1, 1))
		}
		for r := WinLength - 1; r < Height; r++ {
			winMasks = append(winMasks, line(c, r, 1, -1))
		}
	}
}

// WinMasks returns a copy of the four-in-a-row table.
func WinMasks() []uint64 {
	out := make([]uint64, len(winMasks))
	copy(out, winMasks)
	return out
}

// IsWin reports whether the pieces in word contain four in a row. Flag bits
// are ignored since no mask covers them.
func IsWin(word uint64) bool {
	for _, m := range winMasks {
		if word&m == m {
			return true
		}
	}
	return false
}
