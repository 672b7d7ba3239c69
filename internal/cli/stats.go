package cli

import (
	"fmt"
	"math/bits"

	"github.com/spf13/cobra"

	kdtree "github.com/Bersaelor/KDTree-sub000"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show size, depth and bounds of a set's tree",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

// bounds is the per-dimension bounding box of a point set
type bounds struct {
	lower, upper kdtree.Vector
}

func (b bounds) extend(p kdtree.Vector) bounds {
	if b.lower == nil {
		return bounds{lower: append(kdtree.Vector(nil), p...), upper: append(kdtree.Vector(nil), p...)}
	}
	for i, c := range p {
		b.lower[i] = min(b.lower[i], c)
		b.upper[i] = max(b.upper[i], c)
	}
	return b
}

func runStats(cmd *cobra.Command, args []string) error {
	store, tree, err := loadTree()
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set:           %s\n", setName)
	if tree.IsEmpty() {
		fmt.Fprintln(out, "Points:        0")
		return nil
	}

	count := tree.Count()
	root, _ := tree.Value()
	fmt.Fprintf(out, "Points:        %d\n", count)
	fmt.Fprintf(out, "Dimensions:    %d\n", len(root))
	fmt.Fprintf(out, "Depth:         %d (balanced: %d)\n", tree.Depth(), bits.Len(uint(count)))

	status := "ok"
	if err := tree.Validate(); err != nil {
		status = err.Error()
	}
	fmt.Fprintf(out, "Invariant:     %s\n", status)

	box := kdtree.Reduce(tree, bounds{}, bounds.extend)
	for d := range box.lower {
		fmt.Fprintf(out, "Dimension %-3d  [%g, %g]\n", d, box.lower[d], box.upper[d])
	}
	return nil
}
