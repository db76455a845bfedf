// Package shell is an interactive Connect Four shell: play against the
// computer or another person at the same terminal.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/ai/player"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
	"github.com/domino14/connectfour/store"
)

// The shell keeps one match per terminal. Matches are stored under these
// IDs so that a later session can resume them.
const (
	localServerID   = 0
	localPlayerID   = 1
	localOpponentID = 2
)

var errQuit = errors.New("quit")

// MoveSource picks a move for the side on turn. The local engine and a
// NATS bot client both satisfy it.
type MoveSource interface {
	RequestMove(ctx context.Context, b board.Board, rollouts uint32) (int, error)
}

type localEngine struct{}

func (localEngine) RequestMove(_ context.Context, b board.Board, rollouts uint32) (int, error) {
	return player.Move(b, rollouts)
}

// LocalEngine searches in this process.
func LocalEngine() MoveSource {
	return localEngine{}
}

type ShellController struct {
	l   *readline.Instance
	out io.Writer

	config *config.Config
	store  *store.Store
	engine MoveSource
	ctx    context.Context

	// coin picks who moves first when the player leaves it to chance
	coin func() bool

	started    bool
	board      board.Board
	history    []board.Board
	level      int
	vsComputer bool
	computer   board.Player
	match      *store.Match
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// NewShellController sets up readline on the terminal. st may be nil, in
// which case matches are not saved.
func NewShellController(ctx context.Context, cfg *config.Config, st *store.Store, engine MoveSource) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mconnectfour>\033[0m ",
		HistoryFile:     "/tmp/connectfour_readline.tmp",
		AutoComplete:    completer,
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc := newController(ctx, cfg, st, engine, l.Stderr())
	sc.l = l
	return sc
}

func newController(ctx context.Context, cfg *config.Config, st *store.Store, engine MoveSource, out io.Writer) *ShellController {
	return &ShellController{
		out:    out,
		config: cfg,
		store:  st,
		engine: engine,
		ctx:    ctx,
		level:  cfg.GetInt(config.KeyAILevel),
		coin:   func() bool { return frand.Intn(2) == 0 },
	}
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// execute runs one command line.
func (sc *ShellController) execute(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "new":
		return sc.newGame(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "ai":
		return sc.aiMove(cmd)
	case "hint":
		return sc.hint(cmd)
	case "undo":
		return sc.undo(cmd)
	case "show":
		return sc.show(cmd)
	case "level":
		return sc.setLevel(cmd)
	case "resume":
		return sc.resume(cmd)
	case "resign":
		return sc.resign(cmd)
	case "help":
		return sc.help(cmd)
	case "exit", "bye":
		return nil, errQuit
	default:
		log.Debug().Msgf("you said: %q", line)
		return nil, fmt.Errorf("unknown command %q, try `help`", cmd.cmd)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {
	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			}
			continue
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp, err := sc.execute(line)
		if errors.Is(err, errQuit) {
			sig <- syscall.SIGINT
			break
		}
		if err != nil {
			sc.showError(err)
			continue
		}
		if resp != nil && resp.message != "" {
			sc.showMessage(resp.message)
		}
	}
	log.Debug().Msgf("Exiting readline loop...")
}
