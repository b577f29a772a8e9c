// cmd/magicsquare/main.go
//
// This is the entry point for the magicsquare CLI.
//
// Flow:
// 1. With no subcommand, open the interactive TUI in the alternate screen
// 2. `print` builds one square and writes it to stdout
// 3. `verify` builds squares and checks every line sum

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kingrea/magicsquare/internal/config"
	"github.com/kingrea/magicsquare/internal/tui"
)

var (
	// Global flags
	verbose bool
	homeDir string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "magicsquare",
	Short: "Build odd-order magic squares with the Siamese method",
	Long: `magicsquare places 1..n² in an n×n grid so that every row, every column
and both main diagonals add up to n·(n²+1)/2.

Run without arguments to pick a size and watch the square being drawn.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal and journals to .magicsquare/logs instead
		if cmd == cmd.Root() {
			return nil
		}
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Directory holding .magicsquare (default $"+config.HomeEnv+" or the working directory)")

	rootCmd.AddCommand(printCmd, verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig prepares the .magicsquare directory and reads its settings.
func loadConfig() (*config.Config, error) {
	baseDir, err := config.ResolveBaseDir(homeDir)
	if err != nil {
		return nil, err
	}
	if err := config.InitDir(baseDir); err != nil {
		return nil, err
	}
	return config.NewConfig(baseDir)
}

func runInteractive() error {
	baseDir, err := config.ResolveBaseDir(homeDir)
	if err != nil {
		return err
	}
	if err := config.InitDir(baseDir); err != nil {
		return fmt.Errorf("initializing %s directory: %w", config.Dir, err)
	}

	app, err := tui.NewApp(baseDir)
	if err != nil {
		return err
	}

	// Run blocks until the user quits
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
