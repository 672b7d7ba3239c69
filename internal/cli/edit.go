package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	kdtree "github.com/Bersaelor/KDTree-sub000"
)

var insertCmd = &cobra.Command{
	Use:   "insert <point>...",
	Short: "Add points to a set",
	Long: `Insert points into the set's tree and save the result.

Points already present are left alone. Inserting into a missing set fails;
run 'kdtree import' first.

Example:
  kdtree insert 3.5,1 7,7 --set cities`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInsert,
}

var removeCmd = &cobra.Command{
	Use:   "remove <point>...",
	Short: "Remove points from a set",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(removeCmd)
}

func runInsert(cmd *cobra.Command, args []string) error {
	return editTree(cmd, args, "Inserted", kdtree.Tree[kdtree.Vector].Inserting)
}

func runRemove(cmd *cobra.Command, args []string) error {
	return editTree(cmd, args, "Removed", kdtree.Tree[kdtree.Vector].Removing)
}

// editTree applies edit once per point and saves the tree if it changed
func editTree(cmd *cobra.Command, args []string, verb string, edit func(kdtree.Tree[kdtree.Vector], kdtree.Vector) kdtree.Tree[kdtree.Vector]) error {
	points, err := parseVectors(args)
	if err != nil {
		return err
	}
	store, tree, err := loadTree()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := checkDimensions(tree, points); err != nil {
		return err
	}

	before := tree.Count()
	for _, p := range points {
		tree = edit(tree, p)
	}
	after := tree.Count()

	out := cmd.OutOrStdout()
	if after == before {
		fmt.Fprintln(out, "Nothing changed.")
		return nil
	}
	if err := store.SaveTree(setName, tree); err != nil {
		return fmt.Errorf("failed to save tree: %w", err)
	}
	fmt.Fprintf(out, "%s %d points, %q now holds %d\n", verb, abs(after-before), setName, after)
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
