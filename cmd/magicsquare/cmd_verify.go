package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/magicsquare/internal/prompt"
	"github.com/kingrea/magicsquare/internal/square"
)

// verifyCmd builds squares and checks them line by line
var verifyCmd = &cobra.Command{
	Use:   "verify [n...]",
	Short: "Build squares and check every row, column and diagonal",
	Long: `Constructs the magic square for each size and checks that it holds
1..n² once and that all line sums equal n·(n²+1)/2.

With no arguments the configured sizes are checked. Any size may be given
here; even sizes are reported as failures.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	var sizes []int
	if len(args) == 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sizes = cfg.Sizes()
	} else {
		for _, arg := range args {
			n, err := prompt.ParseSize(arg)
			if err != nil {
				return err
			}
			sizes = append(sizes, n)
		}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, n := range sizes {
		sq, err := square.Construct(n)
		if err == nil {
			err = square.Verify(sq)
		}
		if err != nil {
			failed++
			logger.Warn("Verification failed", zap.Int("n", n), zap.Error(err))
			fmt.Fprintf(out, "n=%-3d FAIL  %v\n", n, err)
			continue
		}
		sums := sq.Sums()
		logger.Debug("Verified square",
			zap.Int("n", n),
			zap.Ints("rows", sums.Rows),
			zap.Ints("columns", sums.Columns),
			zap.Int("diagonal", sums.Diagonal),
			zap.Int("anti_diagonal", sums.Anti))
		fmt.Fprintf(out, "n=%-3d ok    magic sum %d\n", n, sq.MagicSum())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sizes failed verification", failed, len(sizes))
	}
	logger.Info("All sizes verified", zap.Ints("sizes", sizes))
	return nil
}
