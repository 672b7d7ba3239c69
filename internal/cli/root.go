// Package cli implements the kdtree command line tool.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	kdtree "github.com/Bersaelor/KDTree-sub000"
	"github.com/Bersaelor/KDTree-sub000/internal/storage"
)

var (
	dbPath  string
	setName string
	workers int
	seed    int64
	verbose bool

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "kdtree",
	Short: "Build and query k-d trees over stored point sets",
	Long: `kdtree stores named point sets in a SQLite database and answers
nearest neighbour, k-nearest and range queries against them.

Trees are immutable: insert and remove produce a new tree that is saved
back under the same set name.

Example usage:
  kdtree import points.csv --set cities     # Load a CSV of coordinates
  kdtree nearest 4.9,4.5 --set cities       # Closest stored point
  kdtree knn 1,2 -k 3 --set cities          # Three closest points
  kdtree range --interval 0:5 --interval 0:5 --set cities
  kdtree export --format json --set cities  # Dump the tree structure`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Default database path
	homeDir, _ := os.UserHomeDir()
	defaultDB := filepath.Join(homeDir, ".kdtree", "points.db")

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "Path to SQLite database")
	rootCmd.PersistentFlags().StringVarP(&setName, "set", "s", "default", "Name of the point set")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Goroutines for batch queries (0 = one per CPU)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "Seed for median pivot selection when building")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// treeConfig maps the persistent flags onto a tree configuration
func treeConfig() kdtree.Config {
	cfg := kdtree.DefaultConfig()
	cfg.Seed = seed
	cfg.Workers = workers
	return cfg
}

func openStore() (*storage.Storage, error) {
	store, err := storage.NewStorage(dbPath, storage.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("opened database", slog.String("path", store.Path()))
	return store, nil
}

// loadTree opens the database and loads the selected set
func loadTree() (*storage.Storage, kdtree.Tree[kdtree.Vector], error) {
	store, err := openStore()
	if err != nil {
		return nil, kdtree.Tree[kdtree.Vector]{}, err
	}
	tree, err := store.LoadTree(setName, treeConfig())
	if err != nil {
		store.Close()
		return nil, tree, fmt.Errorf("failed to load set: %w", err)
	}
	return store, tree, nil
}
