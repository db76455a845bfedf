package shell

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/samber/lo"
)

var helpTopics = map[string]string{
	"new": `new [-ai true|false] [-first true|false|random] [-level N]
    Start a game against the computer. Who moves first is random unless
    -first says otherwise.
    -ai false plays two people at this terminal.`,
	"play":   "play <column>\n    Drop a piece in a column, numbered 1 to 7 from the left.",
	"ai":     "ai\n    Let the computer move for whoever is on turn.",
	"hint":   "hint\n    Ask the computer which column it would play, without playing it.",
	"undo":   "undo\n    Take back the last move. Against the computer, also takes back its reply.",
	"show":   "show\n    Show the board.",
	"level":  "level [N]\n    Show or set the computer's level, 1 to 10. Each level doubles its thinking.",
	"resume": "resume\n    Continue the last unfinished game.",
	"resign": "resign\n    Give up the current game.",
	"exit":   "exit\n    Leave the shell.",
}

var commandNames = []string{"new", "play", "ai", "hint", "undo", "show", "level", "resume", "resign", "help", "exit"}

var completer = readline.NewPrefixCompleter(
	lo.Map(commandNames, func(name string, _ int) readline.PrefixCompleterInterface {
		if name == "help" {
			return readline.PcItem(name, lo.Map(lo.Without(commandNames, "help"),
				func(topic string, _ int) readline.PrefixCompleterInterface {
					return readline.PcItem(topic)
				})...)
		}
		return readline.PcItem(name)
	})...,
)

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		var sb strings.Builder
		sb.WriteString("Commands:\n")
		for _, name := range commandNames {
			if name == "help" {
				continue
			}
			first, _, _ := strings.Cut(helpTopics[name], "\n")
			sb.WriteString("  " + first + "\n")
		}
		sb.WriteString("Type `help <command>` for more.")
		return msg(sb.String()), nil
	}
	text, ok := helpTopics[cmd.args[0]]
	if !ok {
		return nil, fmt.Errorf("there is no help text for the topic %s", cmd.args[0])
	}
	return msg(text), nil
}
