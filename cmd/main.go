// Huangdou - hold a modifier key to dictate through the Doubao voice input
// shortcut, release to commit the text.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"huangdou/internal/config"
	"huangdou/internal/logging"
)

var version = "1.0.0"

func init() {
	// The status-bar menu must run on the process's main thread.
	runtime.LockOSThread()
}

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string

	cfgMgr *config.Manager
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:          "huangdou",
		Short:        "Hold a modifier key to dictate, release to send",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgMgr, err := loadConfig(opts)
			if err != nil {
				return err
			}
			opts.cfgMgr = cfgMgr
			return setupLogging(opts, cfgMgr.Get())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), opts.cfgMgr)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to the preferences file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (console, json)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Start the status-bar agent (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(cmd.Context(), opts.cfgMgr)
		},
	})
	rootCmd.AddCommand(makeLoginItemCommand())
	rootCmd.AddCommand(makeConfigCommand(opts))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "huangdou version %s\n", version)
		},
	})

	return rootCmd
}

// loadConfig opens the preferences file named by the flags.
func loadConfig(opts *rootOptions) (*config.Manager, error) {
	cfgMgr, err := config.NewManager(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("initialize config: %w", err)
	}
	if err := cfgMgr.Load(); err != nil {
		slog.Warn("failed to load config, using defaults", "path", cfgMgr.Path(), "error", err)
	}
	return cfgMgr, nil
}

// setupLogging installs the default logger. Flags win over the values
// stored in the preferences file.
func setupLogging(opts *rootOptions, cfg config.Config) error {
	level, format := opts.logLevel, opts.logFormat
	if level == "" {
		level = cfg.LogLevel
	}
	if format == "" {
		format = cfg.LogFormat
	}

	logger, err := logging.New(logging.Options{Level: level, Format: format})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
