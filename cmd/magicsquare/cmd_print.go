package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/magicsquare/internal/config"
	"github.com/kingrea/magicsquare/internal/prompt"
	"github.com/kingrea/magicsquare/internal/square"
	"github.com/kingrea/magicsquare/internal/tui"
)

var (
	printFormat string
	printColor  bool
	anySize     bool
)

// printCmd builds a single square and writes it out
var printCmd = &cobra.Command{
	Use:   "print [n]",
	Short: "Print one magic square",
	Long: `Builds the magic square of order n and writes it to stdout.

Without an argument the size is read from stdin, re-asking until one of the
configured sizes is given. An empty line or "q" cancels.

Examples:
  magicsquare print 5
  magicsquare print 7 --format yaml
  magicsquare print 13 --any-size --color`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func init() {
	printCmd.Flags().StringVarP(&printFormat, "format", "f", "text", "Output format: text, yaml or json")
	printCmd.Flags().BoolVar(&printColor, "color", false, "Draw the coloured grid instead of plain rows (text format only)")
	printCmd.Flags().BoolVar(&anySize, "any-size", false, "Accept any positive odd size, not just the configured ones")
}

func runPrint(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var policy prompt.Policy = cfg
	if anySize {
		policy = nil
	}

	var n int
	if len(args) == 1 {
		n, err = prompt.ParseSize(args[0])
		if err != nil {
			return err
		}
		if policy != nil && !policy.AllowsSize(n) {
			return fmt.Errorf("size %d is not offered. %s", n, prompt.RejectMessage(cfg))
		}
	} else {
		req := prompt.NewLineRequester(cmd.InOrStdin(), cmd.OutOrStdout(), prompt.Question(cfg))
		var ok bool
		n, ok, err = prompt.Resolve(req, policy, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Size prompt cancelled")
			return nil
		}
	}

	sq, err := square.Construct(n)
	if err != nil {
		return err
	}
	logger.Debug("Constructed square", zap.Int("n", n), zap.Int("magic_sum", sq.MagicSum()))

	return writeSquare(cmd.OutOrStdout(), sq, cfg)
}

func writeSquare(out io.Writer, sq square.Square, cfg *config.Config) error {
	switch strings.ToLower(strings.TrimSpace(printFormat)) {
	case "", "text":
		if printColor {
			grid := tui.NewGridRenderer(lipgloss.NewRenderer(out), cfg.CellWidth(), cfg.Palette())
			_, err := fmt.Fprintln(out, grid.Render(sq, sq.Size()*sq.Size()))
			return err
		}
		_, err := fmt.Fprintf(out, "%s\n%s\n", sq, tui.SumLabel(sq.Size()))
		return err
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(sq.Snapshot()); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sq.Snapshot()); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", printFormat)
	}
}
