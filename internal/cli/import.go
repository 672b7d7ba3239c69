package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	kdtree "github.com/Bersaelor/KDTree-sub000"
)

var importHeader bool

var importCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Load points from a CSV file into a set",
	Long: `Read one point per CSV record, build a balanced tree and store it.

Every record must have the same number of numeric fields. An existing set
with the same name is replaced.

Example:
  kdtree import points.csv --set cities
  kdtree import points.csv --header --seed 7`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importHeader, "header", false, "Skip the first record")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open CSV: %w", err)
	}
	defer f.Close()

	points, err := readPoints(f, importHeader)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		return fmt.Errorf("no points found in %s", args[0])
	}

	start := time.Now()
	tree, err := kdtree.New(points, treeConfig())
	if err != nil {
		return err
	}
	logger.Debug("built tree",
		slog.Int("points", len(points)),
		slog.Int("depth", tree.Depth()),
		slog.Duration("duration", time.Since(start)),
	)

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveTree(setName, tree); err != nil {
		return fmt.Errorf("failed to save tree: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d points (%d dimensions) into %q\n", len(points), len(points[0]), setName)
	fmt.Fprintf(out, "Tree depth: %d\n", tree.Depth())
	return nil
}
