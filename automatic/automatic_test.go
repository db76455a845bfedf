package automatic

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/connectfour/ai/player"
	"github.com/domino14/connectfour/board"
)

func TestPlayGameRecordsEveryMove(t *testing.T) {
	is := is.New(t)
	logchan := make(chan GameRecord, 1)
	r := NewGameRunner(player.NewSeededRandomPlayer(1), player.NewSeededRandomPlayer(2), logchan)
	result, rec, err := r.PlayGame(context.Background())
	is.NoErr(err)
	is.Equal(rec.Red, "random")
	is.Equal(rec.Result, result.String())
	is.True(len(rec.Moves) >= 7)
	is.True(len(rec.Moves) <= board.Width*board.Height)

	got, err := replay(rec.Moves)
	is.NoErr(err)
	is.Equal(got, result)
	is.Equal((<-logchan).ID, rec.ID)
}

func TestPlayGameStopsOnCancel(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewGameRunner(player.NewRandomPlayer(), player.NewRandomPlayer(), nil)
	_, _, err := r.PlayGame(ctx)
	is.Equal(err, context.Canceled)
}

func TestArenaSwapsColours(t *testing.T) {
	is := is.New(t)
	a := NewArena(
		func() player.AIPlayer { return player.NewMCTSPlayer(200) },
		func() player.AIPlayer { return player.NewRandomPlayer() },
	)
	sum, err := a.Run(context.Background(), 10, 4)
	is.NoErr(err)
	is.Equal(sum.First, "mcts-200")
	is.Equal(sum.Second, "random")
	is.Equal(sum.Overall.Games(), 10)
	is.Equal(sum.AsRed.Games(), 5)
	is.Equal(sum.AsBlue.Games(), 5)
	is.Equal(len(sum.Records), 10)
	for i, rec := range sum.Records {
		if i%2 == 0 {
			is.Equal(rec.Red, "mcts-200")
		} else {
			is.Equal(rec.Blue, "mcts-200")
		}
	}
	// a searching player should beat random play almost every time
	is.True(sum.Overall.Score() >= 0.7)
	is.True(strings.Contains(sum.String(), "mcts-200 vs random, 10 games"))
	is.Equal(IsPlaying.Value(), int64(0))
}

func TestArenaNeedsGames(t *testing.T) {
	is := is.New(t)
	a := NewArena(
		func() player.AIPlayer { return player.NewRandomPlayer() },
		func() player.AIPlayer { return player.NewRandomPlayer() },
	)
	_, err := a.Run(context.Background(), 0, 1)
	is.True(err != nil)
}

func TestBiggerBudgetWins(t *testing.T) {
	if testing.Short() {
		t.Skip("plays many searched games")
	}
	is := is.New(t)
	a := NewArena(
		func() player.AIPlayer { return player.NewMCTSPlayer(4000) },
		func() player.AIPlayer { return player.NewMCTSPlayer(40) },
	)
	sum, err := a.Run(context.Background(), 20, 4)
	is.NoErr(err)
	is.True(sum.Overall.Score() > 0.5)
}

func TestGameLogsRoundTrip(t *testing.T) {
	is := is.New(t)
	records := []GameRecord{
		{ID: "a", Red: "mcts-100", Blue: "random", Moves: []int{0, 1, 0, 1, 0, 1, 0}, Result: board.RedWins.String()},
		{ID: "b", Red: "random", Blue: "mcts-100", Moves: []int{3, 3, 2, 1, 3, 5, 2, 2, 4, 3, 1, 2, 5, 1, 1, 3, 5, 5, 5, 2, 1, 2}, Result: board.BlueWins.String()},
	}
	var buf bytes.Buffer
	is.NoErr(WriteGameLogs(&buf, records))
	is.True(strings.Contains(buf.String(), "moves: [0, 1, 0, 1, 0, 1, 0]"))

	got, err := ReadGameLogs(bytes.NewReader(buf.Bytes()))
	is.NoErr(err)
	is.Equal(got, records)

	path := filepath.Join(t.TempDir(), "games.yaml")
	is.NoErr(os.WriteFile(path, buf.Bytes(), 0o644))
	report, err := AnalyzeLogFile(path)
	is.NoErr(err)
	is.True(strings.Contains(report, "Games played: 2"))
	is.True(strings.Contains(report, "mcts-100: +2 -0 =0"))
	is.True(strings.Contains(report, "random: +0 -2 =0"))
}

func TestAnalyzeRejectsUnfinishedGame(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	is.NoErr(WriteGameLogs(&buf, []GameRecord{{ID: "x", Red: "a", Blue: "b", Moves: []int{3}}}))
	path := filepath.Join(t.TempDir(), "games.yaml")
	is.NoErr(os.WriteFile(path, buf.Bytes(), 0o644))
	_, err := AnalyzeLogFile(path)
	is.True(err != nil)
}
