package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/knapcmp/knapcmp/internal/config"
	"github.com/knapcmp/knapcmp/internal/dataset"
	"github.com/knapcmp/knapcmp/internal/logger"
	"github.com/knapcmp/knapcmp/internal/repo"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import [paths...]",
	Short: "Store dataset files in the catalog",
	Long: `Store dataset files in the sqlite catalog under their base name without
extension. A stored dataset with the same name is replaced. Without paths the
input directory is scanned.`,
	RunE: runImport,
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a stored dataset in the dataset file format",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)

	defaults := config.Default()
	importCmd.Flags().StringVar(&inputDir, "input-dir", defaults.InputDir, "Directory scanned for dataset files")
	importCmd.Flags().StringVar(&extension, "ext", defaults.Extension, "Dataset file extension")
}

// openRepository opens the catalog, creating its directory if needed
func openRepository(path string) (*repo.Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return repo.New(path)
}

func runImport(cmd *cobra.Command, args []string) error {
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

	repository, err := openRepository(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repository.Close()

	files, errs := dataset.LoadFiles(paths)
	for _, err := range multierr.Errors(errs) {
		logger.Log.Error("Skipping dataset", zap.Error(err))
	}

	for _, f := range files {
		if err := repository.SaveDataset(f.Name, f.Dataset); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", f.Path, err))
			continue
		}
		logger.Log.Info("Imported dataset",
			zap.String("name", f.Name),
			zap.String("path", f.Path),
			zap.Int("items", len(f.Dataset.Items)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%d items)\n", f.Name, len(f.Dataset.Items))
	}

	return errs
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repository, err := repo.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repository.Close()

	ds, err := repository.GetDataset(args[0])
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), dataset.Format(ds))
	return err
}
