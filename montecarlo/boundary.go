package montecarlo

import "github.com/domino14/connectfour/board"

// NoMove is returned by BestMove when no move can be recommended.
const NoMove = uint8(board.NoMove)

// BestMove is the narrow entry point for callers that carry a position as
// its two words. It returns a column in [0, board.Width) or NoMove. It does
// not check whether the game is already over before spending the budget;
// that is the caller's job.
func BestMove(red, blue uint64, iterations uint32) uint8 {
	res := NewSearcher().Search(board.FromWords(red, blue), iterations)
	return uint8(res.Column)
}
