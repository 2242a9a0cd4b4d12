package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/knapcmp/knapcmp/internal/cache"
	"github.com/knapcmp/knapcmp/internal/config"
	"github.com/knapcmp/knapcmp/internal/logger"
)

var (
	// Global flags
	configFile string
	port       int
	dbPath     string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "knapcmp",
	Short: "knapcmp - compare exact and greedy knapsack solvers",
	Long: `knapcmp solves 0/1 and bounded/unlimited knapsack problems with an
exhaustive search and a greedy value/weight heuristic, and reports how close
the heuristic gets to the optimum.

Run without a subcommand it compares every dataset file in the input
directory, the same as "knapcmp compare".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Initialize(verbose)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd, nil)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 8080, "Server port")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "./data/knapcmp.db", "Database file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
}

// loadConfig resolves the configuration, letting only explicitly set flags
// override the config file and environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	overrides := &config.CLIOverrides{ConfigFile: configFile}
	flags := cmd.Flags()

	if flags.Changed("db") {
		overrides.DBPath = &dbPath
	}
	if flags.Changed("port") {
		overrides.Port = &port
	}
	if flags.Changed("input-dir") {
		overrides.InputDir = &inputDir
	}
	if flags.Changed("ext") {
		overrides.Extension = &extension
	}
	if flags.Changed("mode") {
		overrides.Mode = &mode
	}
	if flags.Changed("format") {
		overrides.Format = &format
	}

	return config.Load(overrides)
}

func newCache(cfg config.Config) *cache.Cache {
	return cache.NewCache(cache.Options{
		Enabled:  cfg.Redis.Enabled,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
