package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/ai/player"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/store"
)

var errNoGame = errors.New("please start a game first with the `new` command")

type Response struct {
	message string
}

func msg(message string) *Response {
	return &Response{message: message}
}

func columnHeader() string {
	var sb strings.Builder
	for c := 1; c <= board.Width; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	return sb.String()
}

// render shows the board with 1-based column numbers over it.
func render(b board.Board) string {
	return columnHeader() + b.Display("X", "O", ".", " ", " ", "", "\n") + b.Status().String()
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	vsComputer, err := cmd.options.BoolDefault("ai", true)
	if err != nil {
		return nil, err
	}
	humanFirst, err := sc.playOrder(cmd.options.String("first"))
	if err != nil {
		return nil, err
	}
	level, err := cmd.options.IntDefault("level", sc.level)
	if err != nil {
		return nil, err
	}
	if level < player.MinLevel || level > player.MaxLevel {
		return nil, fmt.Errorf("level must be between %d and %d", player.MinLevel, player.MaxLevel)
	}

	if sc.store != nil {
		// a new game abandons whatever was in progress
		if old, err := sc.store.OngoingMatch(sc.ctx, localServerID, localPlayerID); err == nil {
			if err := sc.store.EndMatch(sc.ctx, old.ID); err != nil {
				return nil, err
			}
		} else if !errors.Is(err, store.ErrMatchNotFound) {
			return nil, err
		}
		var m *store.Match
		if vsComputer {
			m, err = sc.store.NewComputerMatch(sc.ctx, localServerID, localPlayerID, humanFirst, level)
		} else {
			m, err = sc.store.NewHumanMatch(sc.ctx, localServerID, localPlayerID, localOpponentID)
		}
		if err != nil {
			return nil, err
		}
		sc.match = m
	}

	sc.started = true
	sc.board = board.NewBoard()
	sc.history = nil
	sc.level = level
	sc.vsComputer = vsComputer
	sc.computer = board.Blue
	if !humanFirst {
		sc.computer = board.Red
	}
	log.Debug().Bool("vs-computer", vsComputer).Bool("human-first", humanFirst).Int("level", level).Msg("new-game")

	var lines []string
	if vsComputer && sc.computer == board.Red {
		col, err := sc.computerMove()
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("computer plays %d", col+1))
		if err := sc.persist(); err != nil {
			return nil, err
		}
	}
	lines = append(lines, render(sc.board))
	return msg(strings.Join(lines, "\n")), nil
}

// playOrder reads the -first option. Without it, or with "random", a coin
// decides who starts.
func (sc *ShellController) playOrder(opt string) (bool, error) {
	if opt == "" || opt == "random" {
		return sc.coin(), nil
	}
	first, err := strconv.ParseBool(opt)
	if err != nil {
		return false, fmt.Errorf("-first takes true, false or random, not %q", opt)
	}
	return first, nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if err := sc.requireInProgress(); err != nil {
		return nil, err
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <column 1-7>")
	}
	col, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, fmt.Errorf("bad column %q", cmd.args[0])
	}
	if sc.vsComputer && sc.board.ActivePlayer() == sc.computer {
		return nil, errors.New("it is the computer's turn, use `ai`")
	}
	if col < 1 || col > board.Width {
		return nil, fmt.Errorf("there is no column %d", col)
	}
	if sc.board.ColumnHeight(col-1) == board.Height {
		return nil, fmt.Errorf("column %d is full", col)
	}
	sc.push()
	if err := sc.board.PlayMove(col - 1); err != nil {
		sc.pop()
		return nil, err
	}
	return sc.afterHumanMove()
}

// aiMove lets the engine play for the side on turn.
func (sc *ShellController) aiMove(cmd *shellcmd) (*Response, error) {
	if err := sc.requireInProgress(); err != nil {
		return nil, err
	}
	col, err := sc.computerMove()
	if err != nil {
		return nil, err
	}
	resp, err := sc.afterHumanMove()
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("computer plays %d\n%s", col+1, resp.message)), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if err := sc.requireInProgress(); err != nil {
		return nil, err
	}
	col, err := sc.engine.RequestMove(sc.ctx, sc.board, player.RolloutsForLevel(sc.level))
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("try column %d", col+1)), nil
}

// afterHumanMove answers with the computer if it is its turn, saves the
// position and reports the result once the game is over.
func (sc *ShellController) afterHumanMove() (*Response, error) {
	var lines []string
	if sc.vsComputer && sc.board.Status().InProgress() && sc.board.ActivePlayer() == sc.computer {
		col, err := sc.computerMove()
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("computer plays %d", col+1))
	}
	if err := sc.persist(); err != nil {
		return nil, err
	}
	lines = append(lines, render(sc.board))
	if st := sc.board.Status(); !st.InProgress() {
		lines = append(lines, "Game over: "+st.Result().String())
	}
	return msg(strings.Join(lines, "\n")), nil
}

func (sc *ShellController) computerMove() (int, error) {
	col, err := sc.engine.RequestMove(sc.ctx, sc.board, player.RolloutsForLevel(sc.level))
	if err != nil {
		return 0, err
	}
	sc.push()
	if err := sc.board.PlayMove(col); err != nil {
		sc.pop()
		return 0, fmt.Errorf("engine suggested an unplayable move: %w", err)
	}
	return col, nil
}

func (sc *ShellController) push() {
	sc.history = append(sc.history, sc.board)
}

func (sc *ShellController) pop() {
	sc.board = sc.history[len(sc.history)-1]
	sc.history = sc.history[:len(sc.history)-1]
}

func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if !sc.started {
		return nil, errNoGame
	}
	if len(sc.history) == 0 {
		return nil, errors.New("nothing to undo")
	}
	if !sc.board.Status().InProgress() {
		return nil, errors.New("the game is over, start a new one")
	}
	sc.pop()
	// take back the computer's reply as well as our own move
	if sc.vsComputer && sc.board.ActivePlayer() == sc.computer && len(sc.history) > 0 {
		sc.pop()
	}
	if err := sc.persist(); err != nil {
		return nil, err
	}
	return msg(render(sc.board)), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if !sc.started {
		return nil, errNoGame
	}
	return msg(render(sc.board)), nil
}

func (sc *ShellController) setLevel(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("level %d (%d rollouts)", sc.level, player.RolloutsForLevel(sc.level))), nil
	}
	level, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if level < player.MinLevel || level > player.MaxLevel {
		return nil, fmt.Errorf("level must be between %d and %d", player.MinLevel, player.MaxLevel)
	}
	sc.level = level
	return msg(fmt.Sprintf("set level to %d (%d rollouts)", level, player.RolloutsForLevel(level))), nil
}

func (sc *ShellController) resume(cmd *shellcmd) (*Response, error) {
	if sc.store == nil {
		return nil, errors.New("saving is disabled, nothing to resume")
	}
	m, err := sc.store.OngoingMatch(sc.ctx, localServerID, localPlayerID)
	if err != nil {
		return nil, err
	}
	sc.match = m
	sc.started = true
	sc.board = m.Board
	sc.history = nil
	sc.computer, sc.vsComputer = m.ComputerPlayer()
	if sc.vsComputer {
		sc.level = m.AILevel
	}
	log.Info().Str("match-id", m.ID).Int("ply", m.Board.MovesPlayed()).Msg("resumed")
	return msg(render(sc.board)), nil
}

func (sc *ShellController) resign(cmd *shellcmd) (*Response, error) {
	if err := sc.requireInProgress(); err != nil {
		return nil, err
	}
	loser := sc.board.ActivePlayer()
	if sc.vsComputer {
		loser = sc.computer.Opponent()
	}
	if sc.store != nil && sc.match != nil {
		if err := sc.store.EndMatch(sc.ctx, sc.match.ID); err != nil {
			return nil, err
		}
		sc.match = nil
	}
	sc.started = false
	return msg(fmt.Sprintf("%v resigns, %v wins", loser, loser.Opponent())), nil
}

func (sc *ShellController) requireInProgress() error {
	if !sc.started {
		return errNoGame
	}
	if !sc.board.Status().InProgress() {
		return errors.New("the game is over, start a new one")
	}
	return nil
}

// persist saves the position, or removes the match once it is finished.
func (sc *ShellController) persist() error {
	if sc.store == nil || sc.match == nil {
		return nil
	}
	if !sc.board.Status().InProgress() {
		if err := sc.store.EndMatch(sc.ctx, sc.match.ID); err != nil {
			return err
		}
		sc.match = nil
		return nil
	}
	return sc.store.UpdateBoard(sc.ctx, sc.match.ID, sc.board)
}
