package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/illmaticmd/csrmon/internal/buildinfo"
	"github.com/illmaticmd/csrmon/internal/config"
	"github.com/illmaticmd/csrmon/internal/logging"
)

// app is the state shared by subcommands once flags are parsed.
type app struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger

	// root is the workspace holding the config file, or "" when the
	// config file does not exist.
	root string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "csrmon",
		Short:   "Clean, enrich and summarize tiered corporate alignment rosters",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(a.configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", config.FileName, "config file (missing file means defaults)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(),
		newCleanCommand(a),
		newEnrichCommand(a),
		newSummaryCommand(a),
		newValidateCommand(a),
		newRunCommand(a),
	)

	return rootCmd
}

// setup loads the config at path and builds the logger from it. A logger
// from an earlier setup is flushed before it is replaced.
func (a *app) setup(path string) error {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}

	if a.logger != nil {
		_ = a.logger.Sync()
	}
	a.cfg = cfg
	a.logger = logger
	a.root = ""
	if _, err := os.Stat(path); err == nil {
		a.root = filepath.Dir(path)
	}
	a.logger.Debug("config loaded",
		zap.String("path", path),
		zap.String("market_data", cfg.MarketData.BaseURL),
		zap.Bool("store", cfg.Store.Enabled),
	)
	return nil
}
