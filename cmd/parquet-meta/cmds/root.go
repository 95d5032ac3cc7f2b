package cmds

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     = defaultConfig()
)

var rootCmd = &cobra.Command{
	Use:           "parquet-meta",
	Short:         "parquet-meta prints the footer metadata of parquet files",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd, cfgFile)
		if err != nil {
			return err
		}
		cfg = c

		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: c.LogLevel})))
		slog.Debug("Loaded configuration", "parallel", c.Parallel, "maxFooterSize", c.MaxFooterSize)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Configuration file (yaml, json or toml)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.Int("parallel", runtime.NumCPU(), "Number of files read concurrently")
	flags.String("max-footer-size", "64MiB", "Largest footer accepted, 0 for no limit")
}

// Execute try to find and execute the command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Failed to execute command", "error", err)
		os.Exit(1)
	}
}
