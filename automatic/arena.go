package automatic

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/connectfour/ai/player"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/stats"
)

var (
	GamesPlayed *expvar.Int
	IsPlaying   *expvar.Int
)

func init() {
	GamesPlayed = expvar.NewInt("gamesPlayed")
	IsPlaying = expvar.NewInt("isPlaying")
}

// PlayerFactory makes a fresh player. Players are not safe for concurrent
// use, so every game gets its own.
type PlayerFactory func() player.AIPlayer

// Arena plays a match of many games between two kinds of player, swapping
// colours every game.
type Arena struct {
	first, second PlayerFactory
}

func NewArena(first, second PlayerFactory) *Arena {
	return &Arena{first: first, second: second}
}

// Summary is scored from the first player's point of view.
type Summary struct {
	First, Second string
	Overall       stats.Tally
	AsRed         stats.Tally
	AsBlue        stats.Tally
	Records       []GameRecord
}

type gameOutcome struct {
	firstIsRed bool
	result     board.GameResult
	record     GameRecord
}

// Run plays the games, at most threads at a time. The first player takes
// red in even-numbered games.
func (a *Arena) Run(ctx context.Context, games, threads int) (*Summary, error) {
	if games < 1 {
		return nil, errors.New("need at least one game")
	}
	if IsPlaying.Value() > 0 {
		return nil, errors.New("games are already being played, please wait till complete")
	}
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	GamesPlayed.Set(0)

	outcomes := make([]gameOutcome, games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, threads))
	log.Debug().Int("games", games).Int("threads", threads).Msg("starting-arena")

	for i := range games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			firstIsRed := i%2 == 0
			red, blue := a.first(), a.second()
			if !firstIsRed {
				red, blue = blue, red
			}
			result, rec, err := NewGameRunner(red, blue, nil).PlayGame(gctx)
			if err != nil {
				return err
			}
			outcomes[i] = gameOutcome{firstIsRed: firstIsRed, result: result, record: rec}
			GamesPlayed.Add(1)
			if n := GamesPlayed.Value(); n%100 == 0 {
				log.Info().Int64("played", n).Msg("arena-progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.summarize(outcomes), nil
}

func (a *Arena) summarize(outcomes []gameOutcome) *Summary {
	s := &Summary{First: a.first().Name(), Second: a.second().Name()}
	for _, o := range outcomes {
		us := board.Blue
		if o.firstIsRed {
			us = board.Red
		}
		reward := o.result.Reward(us)
		s.Overall.Record(reward)
		if o.firstIsRed {
			s.AsRed.Record(reward)
		} else {
			s.AsBlue.Record(reward)
		}
	}
	s.Records = lo.Map(outcomes, func(o gameOutcome, _ int) GameRecord { return o.record })
	return s
}

// GameLengths returns the number of plies in each game.
func (s *Summary) GameLengths() []float64 {
	return lo.Map(s.Records, func(r GameRecord, _ int) float64 { return float64(len(r.Moves)) })
}

func (s *Summary) MeanLength() float64 {
	if len(s.Records) == 0 {
		return 0
	}
	return lo.SumBy(s.Records, func(r GameRecord) float64 { return float64(len(r.Moves)) }) /
		float64(len(s.Records))
}

func (s *Summary) String() string {
	var ss strings.Builder
	fmt.Fprintf(&ss, "%s vs %s, %d games\n", s.First, s.Second, s.Overall.Games())
	fmt.Fprintf(&ss, "Overall: %v\n", &s.Overall)
	fmt.Fprintf(&ss, "As red:  %v\n", &s.AsRed)
	fmt.Fprintf(&ss, "As blue: %v\n", &s.AsBlue)
	fmt.Fprintf(&ss, "Mean game length: %.2f plies\n", s.MeanLength())
	lengths := s.GameLengths()
	// the histogram needs a spread of values to bin
	if len(lengths) > 1 && lo.Min(lengths) < lo.Max(lengths) {
		ss.WriteString("### Game length\n")
		hist := histogram.Hist(12, lengths)
		if err := histogram.Fprint(&ss, hist, histogram.Linear(40)); err != nil {
			log.Err(err).Msg("histogram")
		}
	}
	return ss.String()
}
