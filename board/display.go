package board

import "strings"

// Display renders the grid from the top row down, each row left to right.
// Every row is wrapped in lineStart and lineEnd, cells are joined with
// separator, and lineSeparator goes before every row and after the last.
func (b Board) Display(red, blue, empty, separator, lineStart, lineEnd, lineSeparator string) string {
	var sb strings.Builder
	for y := Height - 1; y >= 0; y-- {
		sb.WriteString(lineSeparator)
		sb.WriteString(lineStart)
		for x := 0; x < Width; x++ {
			if x > 0 {
				sb.WriteString(separator)
			}
			switch b.SlotAt(x, y) {
			case RedPiece:
				sb.WriteString(red)
			case BluePiece:
				sb.WriteString(blue)
			default:
				sb.WriteString(empty)
			}
		}
		sb.WriteString(lineEnd)
	}
	sb.WriteString(lineSeparator)
	return sb.String()
}

func (b Board) String() string {
	return b.Display("X", "O", ".", " ", "", "", "\n")
}
