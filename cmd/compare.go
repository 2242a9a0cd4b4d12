package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/compare"
	"github.com/knapcmp/knapcmp/internal/config"
	"github.com/knapcmp/knapcmp/internal/dataset"
	"github.com/knapcmp/knapcmp/internal/logger"
	"github.com/knapcmp/knapcmp/internal/report"
)

var (
	inputDir  string
	extension string
	mode      string
	format    string
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare [paths...]",
	Short: "Compare the exact solver with the greedy heuristic",
	Long: `Compare the exhaustive solver with the greedy heuristic on each dataset.

Without paths every file in the input directory whose name ends with the
configured extension is compared. A file that fails to load is reported and
skipped; the command then exits with status 1 after the remaining files.`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	defaults := config.Default()
	compareCmd.Flags().StringVar(&inputDir, "input-dir", defaults.InputDir, "Directory scanned for dataset files")
	compareCmd.Flags().StringVar(&extension, "ext", defaults.Extension, "Dataset file extension")
	compareCmd.Flags().StringVarP(&mode, "mode", "m", defaults.Mode, "Solver pair: single, multiple or auto")
	compareCmd.Flags().StringVarP(&format, "format", "f", defaults.Format, "Output format: table, summary or json")
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths, err = dataset.Discover(cfg.InputDir, cfg.Extension)
		if err != nil {
			return err
		}
	}

	render, err := report.ForFormat(cfg.Format)
	if err != nil {
		return err
	}

	solutions := newCache(cfg)
	defer solutions.Close()
	runner := compare.NewRunner(solutions, logger.Log)

	out := cmd.OutOrStdout()
	if cfg.Format == config.FormatTable {
		fmt.Fprintln(out, "Please wait, it can take some time...")
	}

	var errs error
	for _, path := range paths {
		c, err := compareFile(runner, cfg.Mode, path)
		if err != nil {
			logger.Log.Error("Skipping dataset", zap.String("path", path), zap.Error(err))
			errs = multierr.Append(errs, err)
			continue
		}
		if err := render(out, c); err != nil {
			return err
		}
	}

	if cfg.Format == config.FormatTable {
		fmt.Fprintln(out, "Done.")
	}
	return errs
}

func compareFile(runner *compare.Runner, mode, path string) (compare.Comparison, error) {
	ds, err := dataset.LoadFile(path)
	if err != nil {
		return compare.Comparison{}, err
	}

	pair, err := algorithm.PairFor(mode, ds)
	if err != nil {
		return compare.Comparison{}, err
	}

	logger.Log.Debug("Comparing dataset",
		zap.String("path", path),
		zap.String("exact", pair.Exact.Name()),
		zap.String("heuristic", pair.Heuristic.Name()),
		zap.Int("items", len(ds.Items)),
	)

	return runner.Compare(path, ds, pair)
}
