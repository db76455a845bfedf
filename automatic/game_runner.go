// Package automatic plays computer vs computer games of Connect Four, for
// comparing players and search budgets.
package automatic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/ai/player"
	"github.com/domino14/connectfour/board"
)

// GameRecord is one finished game as written to the game log.
type GameRecord struct {
	ID     string `yaml:"id"`
	Red    string `yaml:"red"`
	Blue   string `yaml:"blue"`
	Moves  []int  `yaml:"moves,flow"`
	Result string `yaml:"result"`
}

// GameRunner plays single games between two AI players.
type GameRunner struct {
	aiplayers [2]player.AIPlayer
	logchan   chan<- GameRecord
}

// NewGameRunner seats red and blue. Finished games are sent on logchan if
// it is not nil.
func NewGameRunner(red, blue player.AIPlayer, logchan chan<- GameRecord) *GameRunner {
	return &GameRunner{aiplayers: [2]player.AIPlayer{red, blue}, logchan: logchan}
}

// PlayGame plays a game from the empty board to the end.
func (r *GameRunner) PlayGame(ctx context.Context) (board.GameResult, GameRecord, error) {
	b := board.NewBoard()
	rec := GameRecord{
		ID:    uuid.NewString(),
		Red:   r.aiplayers[board.Red].Name(),
		Blue:  r.aiplayers[board.Blue].Name(),
		Moves: make([]int, 0, board.Width*board.Height),
	}
	for b.Status().InProgress() {
		if err := ctx.Err(); err != nil {
			return 0, rec, err
		}
		onTurn := b.ActivePlayer()
		col, err := r.aiplayers[onTurn].ChooseMove(b)
		if err != nil {
			return 0, rec, fmt.Errorf("%s (%v): %w", r.aiplayers[onTurn].Name(), onTurn, err)
		}
		if err := b.PlayMove(col); err != nil {
			return 0, rec, fmt.Errorf("%s (%v): %w", r.aiplayers[onTurn].Name(), onTurn, err)
		}
		rec.Moves = append(rec.Moves, col)
	}
	result := b.Status().Result()
	rec.Result = result.String()
	log.Debug().Str("game-id", rec.ID).Str("red", rec.Red).Str("blue", rec.Blue).
		Int("plies", len(rec.Moves)).Stringer("result", result).Msg("game-over")
	if r.logchan != nil {
		r.logchan <- rec
	}
	return result, rec, nil
}
