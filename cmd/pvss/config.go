package main

import (
	"fmt"
	"strings"

	"github.com/MixinNetwork/pvss-go/log"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultParticipants = 4
	defaultThreshold    = 3
	defaultChallenge    = "blake2b"
	defaultConcurrency  = 1
	defaultLogLevel     = "info"
	defaultLogOutput    = "stderr"
)

// Config holds the simulation settings.
type Config struct {
	Participants int       `mapstructure:"participants"`
	Threshold    int       `mapstructure:"threshold"`
	Secret       string    `mapstructure:"secret"`
	Challenge    string    `mapstructure:"challenge"`
	Concurrency  int       `mapstructure:"concurrency"`
	Output       string    `mapstructure:"output"`
	Log          LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

func registerFlags(fs *flag.FlagSet) {
	fs.IntP("participants", "n", defaultParticipants, "number of participants")
	fs.IntP("threshold", "t", defaultThreshold, "shares needed to reconstruct, must be below participants")
	fs.StringP("secret", "s", "", "secret as big-endian hex (random if empty)")
	fs.String("challenge", defaultChallenge, "challenge hash (blake2b, merlin)")
	fs.IntP("concurrency", "c", defaultConcurrency, "goroutines for per-participant proof work")
	fs.StringP("output", "O", "", "write the public bundle as JSON to this file")
	fs.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")
}

// loadConfig merges flags, PVSS_* environment variables and defaults.
func loadConfig(fs *flag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("participants", defaultParticipants)
	v.SetDefault("threshold", defaultThreshold)
	v.SetDefault("challenge", defaultChallenge)
	v.SetDefault("concurrency", defaultConcurrency)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)

	v.SetEnvPrefix("PVSS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Threshold < 1 {
		return fmt.Errorf("threshold must be at least 1, got %d", cfg.Threshold)
	}
	if cfg.Participants <= cfg.Threshold {
		return fmt.Errorf("participants (%d) must be above threshold (%d)", cfg.Participants, cfg.Threshold)
	}
	switch cfg.Challenge {
	case "blake2b", "merlin":
	default:
		return fmt.Errorf("invalid challenge hash %q, available: blake2b, merlin", cfg.Challenge)
	}
	if !log.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	return nil
}
