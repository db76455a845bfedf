package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/connectfour/bot"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/shell"
	"github.com/domino14/connectfour/store"
)

var (
	GitVersion string
)

func setupLogging(debug bool) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
}

func main() {
	fmt.Println("connect four", GitVersion)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg.GetBool(config.KeyDebug))
	log.Debug().Msgf("Loaded config: %v", cfg.SanitizedSettings())

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var st *store.Store
	if path := cfg.GetString(config.KeyDBPath); path != "" {
		var err error
		st, err = store.Open(ctx, path)
		if err != nil {
			log.Fatal().Err(err).Msg("could not open match store")
		}
		defer st.Close()
	}

	engine := shell.LocalEngine()
	if cfg.GetBool(config.KeyRemote) {
		nc, err := bot.Connect(ctx, cfg.GetString(config.KeyNatsURL))
		if err != nil {
			log.Fatal().Err(err).Msg("could not reach NATS")
		}
		client := bot.NewClient(nc, cfg)
		defer client.Close()
		engine = client
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(ctx, cfg, st, engine)
	go sc.Loop(sig)

	<-idleConnsClosed

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
}
