package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/domino14/connectfour/bot"
	"github.com/domino14/connectfour/config"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if cfg.GetBool(config.KeyDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

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

	nc, err := bot.Connect(ctx, cfg.GetString(config.KeyNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to NATS")
	}
	defer nc.Close()

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	svc := bot.NewService(cfg)
	go func() {
		defer close(idleConnsClosed)
		if err := svc.Serve(ctx, nc); err != nil {
			log.Err(err).Msg("bot stopped")
		}
	}()

	<-ctx.Done()
	select {
	case <-idleConnsClosed:
	case <-time.After(GracefulShutdownTimeout):
		log.Warn().Msg("timed out draining requests")
	}
	log.Info().Msg("server gracefully shutting down")

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
