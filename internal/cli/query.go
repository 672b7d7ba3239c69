package cli

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	kdtree "github.com/Bersaelor/KDTree-sub000"
)

var (
	nearestWithin float64
	knnK          int
	rangeBounds   []string
	rangeCenter   string
	rangeRadius   float64
	rangeLimit    int
)

var nearestCmd = &cobra.Command{
	Use:   "nearest <point>...",
	Short: "Find the closest stored point to each query",
	Long: `Find the closest stored point to each query point.

Points are written as comma separated coordinates. A stored point equal to
the query is never reported as its own neighbour.

Example:
  kdtree nearest 4.9,4.5
  kdtree nearest 1,1 8,3 --within 2.5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNearest,
}

var knnCmd = &cobra.Command{
	Use:   "knn <point>...",
	Short: "Find the k closest stored points to each query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKNN,
}

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "List stored points inside a box or a ball",
	Long: `List stored points inside an axis-aligned box or a ball.

Give one --interval per dimension for a box (bounds are inclusive), or
--center and --radius for a ball.

Example:
  kdtree range --interval 0:5 --interval 2:3
  kdtree range --center 1,1 --radius 2`,
	Args: cobra.NoArgs,
	RunE: runRange,
}

func init() {
	nearestCmd.Flags().Float64Var(&nearestWithin, "within", 0, "Maximum distance to search (0 = unlimited)")
	knnCmd.Flags().IntVarP(&knnK, "k", "k", 5, "Number of neighbours")
	rangeCmd.Flags().StringArrayVar(&rangeBounds, "interval", nil, "Closed interval lo:hi, one per dimension")
	rangeCmd.Flags().StringVar(&rangeCenter, "center", "", "Center of a ball query")
	rangeCmd.Flags().Float64Var(&rangeRadius, "radius", 0, "Radius of a ball query")
	rangeCmd.Flags().IntVarP(&rangeLimit, "limit", "n", 0, "Limit number of points printed (0 = all)")
	rootCmd.AddCommand(nearestCmd)
	rootCmd.AddCommand(knnCmd)
	rootCmd.AddCommand(rangeCmd)
}

func runNearest(cmd *cobra.Command, args []string) error {
	queries, err := parseVectors(args)
	if err != nil {
		return err
	}
	store, tree, err := loadTree()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := checkDimensions(tree, queries); err != nil {
		return err
	}

	var nearest []kdtree.Vector
	var found []bool
	if nearestWithin > 0 {
		nearest = make([]kdtree.Vector, len(queries))
		found = make([]bool, len(queries))
		for i, q := range queries {
			nearest[i], found[i] = tree.NearestWithin(q, nearestWithin)
		}
	} else {
		nearest, found = tree.NearestParallel(queries, workers)
	}

	out := cmd.OutOrStdout()
	for i, q := range queries {
		if !found[i] {
			fmt.Fprintf(out, "%s  no neighbour\n", formatVector(q))
			continue
		}
		fmt.Fprintf(out, "%s  -> %s  distance %g\n", formatVector(q), formatVector(nearest[i]), q.Distance(nearest[i]))
	}
	return nil
}

func runKNN(cmd *cobra.Command, args []string) error {
	if knnK < 1 {
		return fmt.Errorf("k must be >= 1, got %d", knnK)
	}
	queries, err := parseVectors(args)
	if err != nil {
		return err
	}
	store, tree, err := loadTree()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := checkDimensions(tree, queries); err != nil {
		return err
	}

	results := tree.NearestKParallel(knnK, queries, workers)

	out := cmd.OutOrStdout()
	for i, q := range queries {
		fmt.Fprintf(out, "%s  %d neighbours\n", formatVector(q), len(results[i]))
		for rank, p := range results[i] {
			fmt.Fprintf(out, "  %d. %s  distance %g\n", rank+1, formatVector(p), q.Distance(p))
		}
	}
	return nil
}

func runRange(cmd *cobra.Command, args []string) error {
	ball := rangeCenter != ""
	if ball == (len(rangeBounds) > 0) {
		return errors.New("give either --interval flags or --center with --radius")
	}

	var center kdtree.Vector
	var intervals []kdtree.Interval
	if ball {
		c, err := parseVector(rangeCenter)
		if err != nil {
			return err
		}
		if rangeRadius < 0 || math.IsNaN(rangeRadius) {
			return fmt.Errorf("radius must be >= 0, got %g", rangeRadius)
		}
		center = c
	} else {
		for _, s := range rangeBounds {
			iv, err := parseInterval(s)
			if err != nil {
				return err
			}
			intervals = append(intervals, iv)
		}
	}

	store, tree, err := loadTree()
	if err != nil {
		return err
	}
	defer store.Close()

	var points []kdtree.Vector
	if ball {
		if err := checkDimensions(tree, []kdtree.Vector{center}); err != nil {
			return err
		}
		points = tree.ElementsWithin(center, rangeRadius)
	} else {
		points, err = tree.ElementsIn(intervals)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d points\n", len(points))
	shown := points
	if rangeLimit > 0 && rangeLimit < len(shown) {
		shown = shown[:rangeLimit]
	}
	for _, p := range shown {
		fmt.Fprintf(out, "  %s\n", formatVector(p))
	}
	if len(shown) < len(points) {
		fmt.Fprintf(out, "  ... %d more\n", len(points)-len(shown))
	}
	return nil
}
