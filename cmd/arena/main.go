// arena plays computer vs computer matches and reports the score.
//
//	arena --arena-games 200 --arena-threads 8 mcts:32768 mcts:2048
//	arena --rollouts 4096 mcts random
//	arena analyze games.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/connectfour/ai/player"
	"github.com/domino14/connectfour/automatic"
	"github.com/domino14/connectfour/config"
)

// playerFactory parses "random", "mcts", "mcts:<rollouts>" or "level:<n>".
// A bare "mcts" searches with defaultRollouts.
func playerFactory(desc string, defaultRollouts uint32) (automatic.PlayerFactory, error) {
	kind, arg, hasArg := strings.Cut(desc, ":")
	switch kind {
	case "random":
		return func() player.AIPlayer { return player.NewRandomPlayer() }, nil
	case "mcts":
		if !hasArg {
			return func() player.AIPlayer { return player.NewMCTSPlayer(defaultRollouts) }, nil
		}
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad rollouts in %q: %w", desc, err)
		}
		return func() player.AIPlayer { return player.NewMCTSPlayer(uint32(n)) }, nil
	case "level":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("bad level in %q: %w", desc, err)
		}
		rollouts := player.RolloutsForLevel(n)
		return func() player.AIPlayer { return player.NewMCTSPlayer(rollouts) }, nil
	}
	return nil, fmt.Errorf("unknown player %q", desc)
}

func run(ctx context.Context, cfg *config.Config) error {
	args := cfg.Args()
	if len(args) == 2 && args[0] == "analyze" {
		report, err := automatic.AnalyzeLogFile(args[1])
		if err != nil {
			return err
		}
		fmt.Print(report)
		return nil
	}
	if len(args) != 2 {
		return errors.New("usage: arena [flags] <player> <player>, or arena analyze <log>")
	}
	rollouts := cfg.GetUint32(config.KeyRollouts)
	first, err := playerFactory(args[0], rollouts)
	if err != nil {
		return err
	}
	second, err := playerFactory(args[1], rollouts)
	if err != nil {
		return err
	}

	sum, err := automatic.NewArena(first, second).Run(ctx,
		cfg.GetInt(config.KeyArenaGames), cfg.GetInt(config.KeyArenaThreads))
	if err != nil {
		return err
	}
	fmt.Print(sum.String())

	if path := cfg.GetString(config.KeyArenaLog); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := automatic.WriteGameLogs(f, sum.Records); err != nil {
			return err
		}
		log.Info().Str("path", path).Int("games", len(sum.Records)).Msg("wrote-game-log")
	}
	return nil
}

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code, so that deferred profile writers run
// before the process exits.
func realMain() int {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if cfg.GetBool(config.KeyDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cfg.GetString(config.KeyCPUProfile) != "" {
		f, err := os.Create(cfg.GetString(config.KeyCPUProfile))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := 0
	if err := run(ctx, cfg); err != nil {
		log.Err(err).Msg("arena failed")
		code = 1
	}

	if cfg.GetString(config.KeyMemProfile) != "" {
		f, err := os.Create(cfg.GetString(config.KeyMemProfile))
		if err != nil {
			panic("could not create memory profile: " + err.Error())
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic("could not write memory profile: " + err.Error())
		}
	}
	return code
}
