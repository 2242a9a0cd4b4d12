package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knapcmp/knapcmp/internal/algorithm"
	"github.com/knapcmp/knapcmp/internal/compare"
	"github.com/knapcmp/knapcmp/internal/dataset"
	"github.com/knapcmp/knapcmp/internal/logger"
	"github.com/knapcmp/knapcmp/internal/models"
)

var (
	solverName string
	solveJSON  bool
)

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve <file>",
	Short: "Run a single solver on a dataset file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVarP(&solverName, "algorithm", "a", algorithm.GreedyMultiple{}.Name(),
		"Solver: "+strings.Join(algorithm.Names(), ", "))
	solveCmd.Flags().BoolVar(&solveJSON, "json", false, "Print the solution as JSON")
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	solver, err := algorithm.Lookup(solverName)
	if err != nil {
		return err
	}

	ds, err := dataset.LoadFile(args[0])
	if err != nil {
		return err
	}

	solutions := newCache(cfg)
	defer solutions.Close()

	outcome, err := compare.NewRunner(solutions, logger.Log).Solve(solver, ds)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if solveJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.FromOutcome(outcome))
	}

	s := outcome.Solution
	fmt.Fprintf(out, "algorithm:  %s\n", outcome.Solver)
	fmt.Fprintf(out, "max weight: %d\n", ds.MaxWeight)
	fmt.Fprintf(out, "weight:     %d\n", s.TotalWeight)
	fmt.Fprintf(out, "value:      %d\n", s.TotalValue)
	fmt.Fprintf(out, "iterations: %d\n", s.Iterations)
	fmt.Fprintf(out, "time:       %s\n", outcome.Duration)
	fmt.Fprintln(out, "items:")
	for _, it := range s.SelectedItems {
		fmt.Fprintf(out, "  %s\n", it)
	}
	return nil
}
