// Package config loads settings from flags, the environment and an optional
// config file.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyDebug          = "debug"
	KeyConfigFile     = "config-file"
	KeyRollouts       = "rollouts"
	KeyMaxRollouts    = "max-rollouts"
	KeyAILevel        = "ai-level"
	KeyDBPath         = "db-path"
	KeyNatsURL        = "nats-url"
	KeyNatsSubject    = "nats-subject"
	KeyRemote         = "remote"
	KeyRequestTimeout = "request-timeout"
	KeyArenaGames     = "arena-games"
	KeyArenaThreads   = "arena-threads"
	KeyArenaLog       = "arena-log"
	KeyCPUProfile     = "cpu-profile"
	KeyMemProfile     = "mem-profile"

	envPrefix = "CONNECTFOUR"
)

type Config struct {
	*viper.Viper
	args []string
}

// DefaultConfig returns a config holding only defaults, as used by tests.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(KeyDebug, false)
	c.SetDefault(KeyRollouts, 32768)
	c.SetDefault(KeyMaxRollouts, 0)
	c.SetDefault(KeyAILevel, 5)
	c.SetDefault(KeyDBPath, "./data/connectfour.db")
	c.SetDefault(KeyNatsURL, "nats://127.0.0.1:4222")
	c.SetDefault(KeyNatsSubject, "connectfour.bot")
	c.SetDefault(KeyRemote, false)
	c.SetDefault(KeyRequestTimeout, 10*time.Second)
	c.SetDefault(KeyArenaGames, 100)
	c.SetDefault(KeyArenaThreads, 4)
	c.SetDefault(KeyArenaLog, "")
	c.SetDefault(KeyCPUProfile, "")
	c.SetDefault(KeyMemProfile, "")
}

// Load reads args as command-line flags, then CONNECTFOUR_* environment
// variables, then the config file if one was named. Flags win over the
// environment, which wins over the file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("connectfour", pflag.ContinueOnError)
	fs.Bool(KeyDebug, false, "debug logging on")
	fs.String(KeyConfigFile, "", "optional yaml/toml/json config file")
	fs.Uint32(KeyRollouts, 32768, "default number of MCTS rollouts per move")
	fs.Uint32(KeyMaxRollouts, 0, "largest budget the bot will accept; 0 sizes it from physical memory")
	fs.Int(KeyAILevel, 5, "default AI level (1-10)")
	fs.String(KeyDBPath, "./data/connectfour.db", "sqlite database for saved matches; empty disables saving")
	fs.String(KeyNatsURL, "nats://127.0.0.1:4222", "NATS server url")
	fs.String(KeyNatsSubject, "connectfour.bot", "NATS subject the bot listens on")
	fs.Bool(KeyRemote, false, "ask a bot over NATS for moves instead of searching locally")
	fs.Duration(KeyRequestTimeout, 10*time.Second, "how long a client waits for the bot")
	fs.Int(KeyArenaGames, 100, "number of self-play games")
	fs.Int(KeyArenaThreads, 4, "number of self-play games run at once")
	fs.String(KeyArenaLog, "", "write self-play game logs (yaml) to this file")
	fs.String(KeyCPUProfile, "", "write a CPU profile to this file")
	fs.String(KeyMemProfile, "", "write a heap profile to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix(envPrefix)
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if f := c.GetString(KeyConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return err
			}
		}
	}
	return nil
}

// Args are the command-line arguments left over after flags.
func (c *Config) Args() []string {
	return c.args
}

// SanitizedSettings is safe to log.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
