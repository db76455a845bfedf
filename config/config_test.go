package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 32768, cfg.GetInt(KeyRollouts))
	assert.Equal(t, 5, cfg.GetInt(KeyAILevel))
	assert.Equal(t, "connectfour.bot", cfg.GetString(KeyNatsSubject))
	assert.Equal(t, 10*time.Second, cfg.GetDuration(KeyRequestTimeout))
	assert.False(t, cfg.GetBool(KeyDebug))
}

func TestLoadFlags(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load([]string{"--rollouts", "500", "--debug", "--db-path", ""})
	require.NoError(t, err)
	assert.Equal(t, uint32(500), cfg.GetUint32(KeyRollouts))
	assert.True(t, cfg.GetBool(KeyDebug))
	assert.Equal(t, "", cfg.GetString(KeyDBPath))
	// untouched flags keep their defaults
	assert.Equal(t, 4, cfg.GetInt(KeyArenaThreads))
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CONNECTFOUR_NATS_SUBJECT", "c4.test")
	t.Setenv("CONNECTFOUR_ARENA_GAMES", "12")
	cfg := &Config{}
	require.NoError(t, cfg.Load(nil))
	assert.Equal(t, "c4.test", cfg.GetString(KeyNatsSubject))
	assert.Equal(t, 12, cfg.GetInt(KeyArenaGames))
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c4.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai-level: 8\narena-threads: 2\n"), 0o644))
	cfg := &Config{}
	require.NoError(t, cfg.Load([]string{"--config-file", path, "--arena-threads", "6"}))
	assert.Equal(t, 8, cfg.GetInt(KeyAILevel))
	// the flag beats the file
	assert.Equal(t, 6, cfg.GetInt(KeyArenaThreads))
}

func TestLoadBadFlag(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Load([]string{"--no-such-flag"}))
}

func TestLeftoverArgs(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Load([]string{"--remote", "analyze", "games.yaml"}))
	assert.True(t, cfg.GetBool(KeyRemote))
	assert.Equal(t, []string{"analyze", "games.yaml"}, cfg.Args())
}
