// Package store saves ongoing matches in SQLite. Each row holds the two
// board words, so a match can be resumed exactly where it was left.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/domino14/connectfour/board"
)

var (
	ErrAlreadyPlaying = errors.New("player already has a match in progress")
	ErrMatchNotFound  = errors.New("match not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
	match_id TEXT PRIMARY KEY,
	server_id INTEGER NOT NULL,
	red_player_id INTEGER,
	blue_player_id INTEGER,
	ai_level INTEGER NOT NULL DEFAULT 0,
	red_pieces INTEGER NOT NULL,
	blue_pieces INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS matches_red ON matches (server_id, red_player_id);
CREATE INDEX IF NOT EXISTS matches_blue ON matches (server_id, blue_player_id);
`

// Match is one stored game. A nil player ID means that side is played by
// the computer.
type Match struct {
	ID           string
	ServerID     uint64
	RedPlayerID  *uint64
	BluePlayerID *uint64
	AILevel      int
	Board        board.Board
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasComputer reports whether one side is played by the AI.
func (m *Match) HasComputer() bool {
	return m.RedPlayerID == nil || m.BluePlayerID == nil
}

// ComputerPlayer returns the colour the AI plays, if any.
func (m *Match) ComputerPlayer() (board.Player, bool) {
	switch {
	case m.RedPlayerID == nil:
		return board.Red, true
	case m.BluePlayerID == nil:
		return board.Blue, true
	}
	return 0, false
}

type Store struct {
	db *sql.DB
}

// Open creates the database file and its directory if needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite only allows one writer; keep database/sql from fighting it.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("match-store-opened")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// NewHumanMatch starts a match between two people on a server.
func (s *Store) NewHumanMatch(ctx context.Context, serverID, redID, blueID uint64) (*Match, error) {
	return s.insert(ctx, serverID, &redID, &blueID, 0)
}

// NewComputerMatch starts a match between a person and the AI. humanFirst
// decides whether the person plays red.
func (s *Store) NewComputerMatch(ctx context.Context, serverID, playerID uint64, humanFirst bool, level int) (*Match, error) {
	if humanFirst {
		return s.insert(ctx, serverID, &playerID, nil, level)
	}
	return s.insert(ctx, serverID, nil, &playerID, level)
}

func (s *Store) insert(ctx context.Context, serverID uint64, redID, blueID *uint64, level int) (*Match, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, id := range []*uint64{redID, blueID} {
		if id == nil {
			continue
		}
		busy, err := playing(ctx, tx, serverID, *id)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, fmt.Errorf("%w: player %d", ErrAlreadyPlaying, *id)
		}
	}

	now := time.Now().UTC()
	m := &Match{
		ID:           uuid.NewString(),
		ServerID:     serverID,
		RedPlayerID:  redID,
		BluePlayerID: blueID,
		AILevel:      level,
		Board:        board.NewBoard(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	red, blue := m.Board.Words()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches
			(match_id, server_id, red_player_id, blue_player_id, ai_level,
			 red_pieces, blue_pieces, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, int64(serverID), nullableID(redID), nullableID(blueID), level,
		int64(red), int64(blue), now, now)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	log.Info().Str("match-id", m.ID).Uint64("server-id", serverID).Msg("match-created")
	return m, nil
}

func playing(ctx context.Context, tx *sql.Tx, serverID, playerID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM matches
		WHERE server_id = ? AND (red_player_id = ? OR blue_player_id = ?)`,
		int64(serverID), int64(playerID), int64(playerID)).Scan(&n)
	return n > 0, err
}

func nullableID(id *uint64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*id), Valid: true}
}

const selectMatch = `
	SELECT match_id, server_id, red_player_id, blue_player_id, ai_level,
		red_pieces, blue_pieces, created_at, updated_at
	FROM matches `

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (*Match, error) {
	var (
		m          Match
		serverID   int64
		red, blue  sql.NullInt64
		redPieces  int64
		bluePieces int64
	)
	err := row.Scan(&m.ID, &serverID, &red, &blue, &m.AILevel,
		&redPieces, &bluePieces, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	m.ServerID = uint64(serverID)
	if red.Valid {
		id := uint64(red.Int64)
		m.RedPlayerID = &id
	}
	if blue.Valid {
		id := uint64(blue.Int64)
		m.BluePlayerID = &id
	}
	m.Board = board.FromWords(uint64(redPieces), uint64(bluePieces))
	return &m, nil
}

func (s *Store) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	row := s.db.QueryRowContext(ctx, selectMatch+`WHERE match_id = ?`, matchID)
	return scanMatch(row)
}

// OngoingMatch finds the match a player is in on a server.
func (s *Store) OngoingMatch(ctx context.Context, serverID, playerID uint64) (*Match, error) {
	row := s.db.QueryRowContext(ctx, selectMatch+`
		WHERE server_id = ? AND (red_player_id = ? OR blue_player_id = ?)
		ORDER BY updated_at DESC LIMIT 1`,
		int64(serverID), int64(playerID), int64(playerID))
	return scanMatch(row)
}

// UpdateBoard stores a new position for a match.
func (s *Store) UpdateBoard(ctx context.Context, matchID string, b board.Board) error {
	red, blue := b.Words()
	res, err := s.db.ExecContext(ctx, `
		UPDATE matches SET red_pieces = ?, blue_pieces = ?, updated_at = ?
		WHERE match_id = ?`,
		int64(red), int64(blue), time.Now().UTC(), matchID)
	if err != nil {
		return err
	}
	return expectOneRow(res, matchID)
}

// EndMatch removes a finished or abandoned match.
func (s *Store) EndMatch(ctx context.Context, matchID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM matches WHERE match_id = ?`, matchID)
	if err != nil {
		return err
	}
	if err := expectOneRow(res, matchID); err != nil {
		return err
	}
	log.Info().Str("match-id", matchID).Msg("match-ended")
	return nil
}

func expectOneRow(res sql.Result, matchID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	return nil
}
