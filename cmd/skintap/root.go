package main

import (
	"io"
	"log/slog"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/config"
	"github.com/rendis/skintap/internal/logging"
	"github.com/rendis/skintap/internal/tui"
)

var (
	configPath string
	logLevel   string

	// closers are run by teardown once the command returns.
	closers []func() error
)

var rootCmd = &cobra.Command{
	Use:   "skintap",
	Short: "Open one pre-filled marketplace search per market for a CS2 skin.",
	Long: `skintap turns one item description into search URLs for many skin
marketplaces and opens them in your browser.

Run without a subcommand to start the interactive UI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context(), app.FromContext(cmd.Context()), version)
	},
}

func init() {
	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $"+config.EnvConfig+" or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

// setup loads config, builds the logger and the App, and stores the App in
// the command context. The TUI logs to a session file; everything else to
// stderr.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Annotations["skipApp"] == "true" {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	var logger *slog.Logger
	if cmd == rootCmd {
		l, f, err := logging.OpenSessionFile(cfg.LogDir(), level, time.Now())
		if err != nil {
			return err
		}
		logger = l
		closers = append(closers, f.Close)
	} else {
		logger = logging.New(logging.Options{Level: level})
	}
	slog.SetDefault(logger)

	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}
	closers = append(closers, a.Close)

	cmd.SetContext(app.WithContext(cmd.Context(), a))
	return nil
}

func teardown() error {
	var first error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil && first == nil {
			first = err
		}
	}
	closers = nil
	return first
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}
