package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domino14/connectfour/board"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "sub", "c4.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHumanMatchLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	m, err := s.NewHumanMatch(ctx, 10, 1, 2)
	require.NoError(t, err)
	assert.False(t, m.HasComputer())
	assert.Equal(t, board.NewBoard(), m.Board)

	b := m.Board
	require.NoError(t, b.PlayMove(3))
	require.NoError(t, b.PlayMove(4))
	require.NoError(t, s.UpdateBoard(ctx, m.ID, b))

	for _, player := range []uint64{1, 2} {
		got, err := s.OngoingMatch(ctx, 10, player)
		require.NoError(t, err)
		assert.Equal(t, m.ID, got.ID)
		assert.Equal(t, b, got.Board)
		require.NotNil(t, got.RedPlayerID)
		assert.Equal(t, uint64(1), *got.RedPlayerID)
		assert.Equal(t, uint64(2), *got.BluePlayerID)
	}

	require.NoError(t, s.EndMatch(ctx, m.ID))
	_, err = s.GetMatch(ctx, m.ID)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	assert.ErrorIs(t, s.EndMatch(ctx, m.ID), ErrMatchNotFound)
}

func TestOnlyOneMatchPerServer(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.NewHumanMatch(ctx, 10, 1, 2)
	require.NoError(t, err)

	_, err = s.NewHumanMatch(ctx, 10, 2, 3)
	assert.ErrorIs(t, err, ErrAlreadyPlaying)
	_, err = s.NewComputerMatch(ctx, 10, 1, true, 5)
	assert.ErrorIs(t, err, ErrAlreadyPlaying)

	// a different server is fine
	_, err = s.NewHumanMatch(ctx, 11, 1, 2)
	assert.NoError(t, err)
}

func TestComputerMatch(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	m, err := s.NewComputerMatch(ctx, 0, 7, false, 3)
	require.NoError(t, err)
	got, err := s.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.HasComputer())
	p, ok := got.ComputerPlayer()
	assert.True(t, ok)
	assert.Equal(t, board.Red, p)
	assert.Nil(t, got.RedPlayerID)
	assert.Equal(t, uint64(7), *got.BluePlayerID)
	assert.Equal(t, 3, got.AILevel)
}

func TestFinishedBoardSurvivesStorage(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	m, err := s.NewHumanMatch(ctx, 1, 1, 2)
	require.NoError(t, err)

	b := board.NewBoard()
	for _, col := range []int{3, 3, 2, 1, 3, 5, 2, 2, 4, 3, 1, 2, 5, 1, 1, 3, 5, 5, 5, 2, 1, 2} {
		require.NoError(t, b.PlayMove(col))
	}
	require.NoError(t, s.UpdateBoard(ctx, m.ID, b))
	got, err := s.GetMatch(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, board.Finished(board.BlueWins), got.Board.Status())
}

func TestUpdateMissingMatch(t *testing.T) {
	s := openTestStore(t)
	err := s.UpdateBoard(context.Background(), "nope", board.NewBoard())
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
