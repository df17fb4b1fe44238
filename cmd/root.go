package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/msalah0e/pathviz/internal/config"
	"github.com/msalah0e/pathviz/internal/logging"
	"github.com/msalah0e/pathviz/internal/ui"
)

var version = "0.3.0"

// Effective settings for the running command, set by the root pre-run.
var (
	cfg    *config.Config
	logger *slog.Logger
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("operation failed")

type rootFlags struct {
	configPath string
	server     string
	logLevel   string
	noColor    bool
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "pathviz",
		Short: "Explore a route optimizer graph from the terminal",
		Long: ui.Brand.Sprint("pathviz") + ": lay out, edit and query a route optimizer graph\n" +
			ui.Subtle.Sprint("Add nodes and edges, find shortest paths and zones, export the layout as SVG"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, flags)
		},
	}

	root.SetVersionTemplate("pathviz {{ .Version }}\n")
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/pathviz/config.toml)")
	pf.StringVar(&flags.server, "server", "", "Route optimizer base URL")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		graphCmd(),
		pathCmd(),
		nodeCmd(),
		edgeCmd(),
		zoneCmd(),
		applyCmd(),
		renderCmd(),
		viewCmd(),
		configCmd(),
		completionCmd(),
	)

	return root
}

// setup resolves the effective config: file, environment, then flags.
func setup(cmd *cobra.Command, flags rootFlags) error {
	var (
		loaded *config.Config
		err    error
	)
	if flags.configPath != "" {
		loaded, err = config.LoadFile(flags.configPath)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		return err
	}

	if flags.server != "" {
		loaded.Server.URL = flags.server
	}
	if flags.logLevel != "" {
		loaded.Log.Level = flags.logLevel
	}
	if flags.noColor || os.Getenv("NO_COLOR") != "" {
		loaded.UI.Color = false
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ui.SetColor(loaded.UI.Color)
	cfg = loaded
	logger = logging.New(cfg.Log, cmd.ErrOrStderr())
	return nil
}

// Execute runs the root command.
func Execute() error {
	err := newRootCmd().Execute()
	if err != nil && !errors.Is(err, errReported) {
		ui.Bad.Fprintf(os.Stderr, "pathviz: %v\n", err)
	}
	return err
}
