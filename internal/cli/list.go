package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored point sets",
	RunE:  runList,
}

var dropCmd = &cobra.Command{
	Use:   "drop <set>",
	Short: "Delete a point set and its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dropCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sets, err := store.ListSets()
	if err != nil {
		return fmt.Errorf("failed to list sets: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(sets) == 0 {
		fmt.Fprintln(out, "No point sets found.")
		fmt.Fprintln(out, "Run 'kdtree import <csv>' to load one.")
		return nil
	}

	fmt.Fprintf(out, "%-20s  %-5s  %-8s  %-8s  %s\n", "Set", "Dims", "Points", "Snapshot", "Created")
	fmt.Fprintln(out, strings.Repeat("-", 64))
	for _, ps := range sets {
		snapshot := "no"
		if ps.HasSnapshot {
			snapshot = "yes"
		}
		fmt.Fprintf(out, "%-20s  %-5d  %-8d  %-8s  %s\n",
			ps.Name, ps.Dimensions, ps.Count, snapshot, ps.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runDrop(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteSet(args[0]); err != nil {
		return fmt.Errorf("failed to delete set: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", args[0])
	return nil
}
