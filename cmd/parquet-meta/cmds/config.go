package cmds

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds the settings shared by all commands.
type Config struct {
	LogLevel      slog.Level
	Parallel      int
	MaxFooterSize int64
}

func defaultConfig() *Config {
	return &Config{
		LogLevel:      slog.LevelInfo,
		Parallel:      runtime.NumCPU(),
		MaxFooterSize: 64 << 20,
	}
}

var configKeys = []string{"log-level", "parallel", "max-footer-size"}

// loadConfig merges the command line flags, an optional config file and
// environment variables. Environment variables use the prefix "PARQUETMETA"
// and dashes in keys become underscores, so "max-footer-size" is read from
// "PARQUETMETA_MAX_FOOTER_SIZE". Flags set on the command line win.
func loadConfig(cmd *cobra.Command, file string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PARQUETMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range configKeys {
		if f := cmd.Flags().Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", key, err)
			}
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := defaultConfig()

	if s := v.GetString("log-level"); s != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(s)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", s, err)
		}
	}

	if v.IsSet("parallel") {
		cfg.Parallel = v.GetInt("parallel")
	}
	if cfg.Parallel < 1 {
		return nil, fmt.Errorf("parallel must be at least 1, got %d", cfg.Parallel)
	}

	if s := v.GetString("max-footer-size"); s != "" {
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return nil, fmt.Errorf("invalid max footer size %q: %w", s, err)
		}
		if n > math.MaxInt64 {
			return nil, fmt.Errorf("max footer size %q is too large", s)
		}
		cfg.MaxFooterSize = int64(n)
	}

	return cfg, nil
}
