package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	kdtree "github.com/Bersaelor/KDTree-sub000"
)

// parseVector parses comma separated coordinates such as "1,2.5,-3"
func parseVector(s string) (kdtree.Vector, error) {
	fields := strings.Split(s, ",")
	v := make(kdtree.Vector, len(fields))
	for i, f := range fields {
		c, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q in %q", f, s)
		}
		v[i] = c
	}
	return v, nil
}

func parseVectors(args []string) ([]kdtree.Vector, error) {
	points := make([]kdtree.Vector, 0, len(args))
	for _, arg := range args {
		v, err := parseVector(arg)
		if err != nil {
			return nil, err
		}
		points = append(points, v)
	}
	return points, nil
}

// parseInterval parses "lo:hi" into a closed interval
func parseInterval(s string) (kdtree.Interval, error) {
	lo, hi, ok := strings.Cut(s, ":")
	if !ok {
		return kdtree.Interval{}, fmt.Errorf("invalid interval %q, expected lo:hi", s)
	}
	lower, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return kdtree.Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	upper, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return kdtree.Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if lower > upper {
		return kdtree.Interval{}, fmt.Errorf("invalid interval %q: lower bound exceeds upper bound", s)
	}
	return kdtree.Interval{Min: lower, Max: upper}, nil
}

// readPoints reads one point per CSV record. Lines starting with # are skipped.
func readPoints(r io.Reader, header bool) ([]kdtree.Vector, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var points []kdtree.Vector
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		if header && line == 1 {
			continue
		}

		v := make(kdtree.Vector, len(record))
		for i, field := range record {
			c, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("record %d: invalid coordinate %q", line, field)
			}
			v[i] = c
		}
		points = append(points, v)
	}
	return points, nil
}

// checkDimensions reports points whose dimensionality differs from the tree's
func checkDimensions(tree kdtree.Tree[kdtree.Vector], points []kdtree.Vector) error {
	root, ok := tree.Value()
	if !ok {
		return nil
	}
	for _, p := range points {
		if len(p) != len(root) {
			return fmt.Errorf("point %s has %d coordinates, set has %d", formatVector(p), len(p), len(root))
		}
	}
	return nil
}

func formatVector(v kdtree.Vector) string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.FormatFloat(c, 'g', -1, 64)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
