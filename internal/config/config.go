// Package config loads arraybench settings from defaults, an optional YAML
// file, ARRAYBENCH_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "ARRAYBENCH"

// Keys understood by Load. Flag names use dashes; keys use underscores.
const (
	KeyOutput    = "output"
	KeyLogLevel  = "log_level"
	KeyLogFormat = "log_format"
	KeyStorage   = "storage"
	KeyChunkSize = "chunk_size"
	KeySize      = "size"
	KeyTrials    = "trials"
	KeySeed      = "seed"
)

// Config holds the driver settings.
type Config struct {
	Output    string
	LogLevel  string
	LogFormat string
	Storage   string
	ChunkSize int
	Size      int
	Trials    int
	Seed      uint64
}

var (
	outputs  = []string{"human", "json", "yaml"}
	storages = []string{"heap", "arena", "mmap"}
)

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutput, "human")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyStorage, "heap")
	v.SetDefault(KeyChunkSize, 1<<16)
	v.SetDefault(KeySize, 1024)
	v.SetDefault(KeyTrials, 4)
	v.SetDefault(KeySeed, 1)
}

// Load resolves the configuration held by v. When path is non-empty the
// file is read first; a missing file is an error.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := Config{
		Output:    strings.ToLower(v.GetString(KeyOutput)),
		LogLevel:  strings.ToLower(v.GetString(KeyLogLevel)),
		LogFormat: strings.ToLower(v.GetString(KeyLogFormat)),
		Storage:   strings.ToLower(v.GetString(KeyStorage)),
		ChunkSize: v.GetInt(KeyChunkSize),
		Size:      v.GetInt(KeySize),
		Trials:    v.GetInt(KeyTrials),
		Seed:      v.GetUint64(KeySeed),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(outputs, c.Output) {
		errs = append(errs, fmt.Errorf("output %q: want one of %s", c.Output, strings.Join(outputs, ", ")))
	}
	if !slices.Contains(storages, c.Storage) {
		errs = append(errs, fmt.Errorf("storage %q: want one of %s", c.Storage, strings.Join(storages, ", ")))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log format %q: want text or json", c.LogFormat))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Size < 0 {
		errs = append(errs, fmt.Errorf("size %d: must not be negative", c.Size))
	}
	if c.Trials <= 0 {
		errs = append(errs, fmt.Errorf("trials %d: must be positive", c.Trials))
	}
	return errors.Join(errs...)
}

// Logger builds a slog.Logger writing to w at the configured level and format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: want debug, info, warn or error", s)
	}
	return level, nil
}
