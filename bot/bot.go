// Package bot serves moves over NATS. Requests carry a position as its two
// board words plus a rollout budget; replies are a single column byte.
package bot

import (
	"context"
	"math"

	"github.com/nats-io/nats.go"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/montecarlo"
)

const (
	QueueGroup = "connectfour-bots"

	// the arena grows by append, so old and new backing arrays can be
	// live at the same time
	arenaGrowth = 2
	// share of physical memory one search may use
	memoryFraction = 0.25
)

type Service struct {
	maxRollouts uint32
	subject     string
	search      func(red, blue uint64, iterations uint32) uint8
}

// NewService builds a move service from config. A max-rollouts setting of
// zero sizes the cap from physical memory.
func NewService(cfg *config.Config) *Service {
	limit := cfg.GetUint32(config.KeyMaxRollouts)
	if limit == 0 {
		limit = MemoryBoundRollouts(memory.TotalMemory())
	}
	return &Service{
		maxRollouts: limit,
		subject:     cfg.GetString(config.KeyNatsSubject),
		search:      montecarlo.BestMove,
	}
}

// MemoryBoundRollouts is the largest budget whose search tree fits in a
// quarter of totalMem. A budget of n rollouts builds at most n+1 nodes.
func MemoryBoundRollouts(totalMem uint64) uint32 {
	n := uint64(float64(totalMem)*memoryFraction) / uint64(montecarlo.NodeBytes*arenaGrowth)
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	if n < 2 {
		return 1
	}
	return uint32(n - 1)
}

func (s *Service) MaxRollouts() uint32 {
	return s.maxRollouts
}

// Handle answers one request frame. Bad frames, boards that fail
// validation and finished games all get board.NoMove.
func (s *Service) Handle(data []byte) []byte {
	b, iterations, err := DecodeRequest(data)
	if err != nil {
		log.Err(err).Msg("bad-request")
		return EncodeReply(montecarlo.NoMove)
	}
	if err := b.Validate(); err != nil {
		log.Err(err).Msg("invalid-board")
		return EncodeReply(montecarlo.NoMove)
	}
	if b.GameOver() {
		log.Debug().Msg("game-already-over")
		return EncodeReply(montecarlo.NoMove)
	}
	if iterations > s.maxRollouts {
		log.Info().Uint32("asked", iterations).Uint32("cap", s.maxRollouts).Msg("capping-rollouts")
		iterations = s.maxRollouts
	}
	red, blue := b.Words()
	col := s.search(red, blue, iterations)
	log.Info().Uint8("column", col).Uint32("rollouts", iterations).Int("ply", b.MovesPlayed()).Msg("generated-move")
	return EncodeReply(col)
}

// Serve answers requests until ctx is done. Several services may share the
// subject; NATS hands each request to one member of the queue group.
func (s *Service) Serve(ctx context.Context, nc *nats.Conn) error {
	sub, err := nc.QueueSubscribe(s.subject, QueueGroup, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("received")
		if err := m.Respond(s.Handle(m.Data)); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Str("subject", s.subject).Uint32("max-rollouts", s.maxRollouts).Msg("listening")

	<-ctx.Done()
	log.Info().Msg("draining")
	if err := sub.Drain(); err != nil {
		return err
	}
	return nil
}

// legalReply reports whether a reply column can be played on b.
func legalReply(b board.Board, col int) bool {
	return col != board.NoMove && b.IsLegal(col)
}
