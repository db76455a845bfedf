package automatic

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/stats"
)

// WriteGameLogs writes one yaml document per game.
func WriteGameLogs(w io.Writer, records []GameRecord) error {
	enc := yaml.NewEncoder(w)
	for i := range records {
		if err := enc.Encode(&records[i]); err != nil {
			return err
		}
	}
	return enc.Close()
}

func ReadGameLogs(r io.Reader) ([]GameRecord, error) {
	dec := yaml.NewDecoder(r)
	var records []GameRecord
	for {
		var rec GameRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}

// AnalyzeLogFile replays every game in a log file and reports how each
// player did.
func AnalyzeLogFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	records, err := ReadGameLogs(f)
	if err != nil {
		return "", err
	}

	tallies := map[string]*stats.Tally{}
	var redTally stats.Tally
	for _, rec := range records {
		result, err := replay(rec.Moves)
		if err != nil {
			return "", fmt.Errorf("game %s: %w", rec.ID, err)
		}
		redTally.Record(result.Reward(board.Red))
		for p, name := range map[board.Player]string{board.Red: rec.Red, board.Blue: rec.Blue} {
			if tallies[name] == nil {
				tallies[name] = &stats.Tally{}
			}
			tallies[name].Record(result.Reward(p))
		}
	}

	var ss strings.Builder
	fmt.Fprintf(&ss, "Games played: %d\n", len(records))
	fmt.Fprintf(&ss, "Player who went first: %v\n", &redTally)
	for _, name := range slices.Sorted(slices.Values(lo.Keys(tallies))) {
		fmt.Fprintf(&ss, "%s: %v\n", name, tallies[name])
	}
	return ss.String(), nil
}

func replay(moves []int) (board.GameResult, error) {
	b := board.NewBoard()
	for _, m := range moves {
		if err := b.PlayMove(m); err != nil {
			return 0, err
		}
	}
	if b.Status().InProgress() {
		return 0, errors.New("game did not finish")
	}
	return b.Status().Result(), nil
}
