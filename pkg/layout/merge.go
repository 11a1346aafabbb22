package layout

import "math"

// MergeAdjacent unions regions whose edges sit within tol of each
// other into single bounding regions. Starting from each unvisited
// region it repeatedly absorbs any not-yet-used adjacent region into a
// running bounding union until none can be absorbed, so merging is
// transitive within one call. Every input region ends up in exactly
// one output region and the output is never longer than the input.
//
// Adjacency compares the four opposing edge pairs only (right-to-left,
// left-to-right, bottom-to-top, top-to-bottom). That is a loose
// single-linkage clustering, not a sweep line; candidate counts here
// are bounded by the grid cell count so the quadratic scan is fine.
//
// The union keeps the Kind, SourceText and Keyword of the seed region.
// Regions without a box cannot merge and pass through unchanged.
func MergeAdjacent(regions []Region, tol float64) []Region {
	if len(regions) <= 1 {
		return regions
	}

	used := make([]bool, len(regions))
	out := make([]Region, 0, len(regions))

	for i, seed := range regions {
		if used[i] {
			continue
		}
		used[i] = true

		if seed.Box == nil {
			out = append(out, seed)
			continue
		}

		cur := *seed.Box
		changed := true
		for changed {
			changed = false
			for j, other := range regions {
				if used[j] || other.Box == nil {
					continue
				}
				if !edgeAdjacent(cur, *other.Box, tol) {
					continue
				}
				cur.Left = math.Min(cur.Left, other.Box.Left)
				cur.Top = math.Min(cur.Top, other.Box.Top)
				cur.Right = math.Max(cur.Right, other.Box.Right)
				cur.Bottom = math.Max(cur.Bottom, other.Box.Bottom)
				used[j] = true
				changed = true
			}
		}

		merged := seed
		merged.Box = &cur
		out = append(out, merged)
	}
	return out
}

func edgeAdjacent(a, b Box, tol float64) bool {
	return math.Abs(a.Right-b.Left) < tol ||
		math.Abs(a.Left-b.Right) < tol ||
		math.Abs(a.Bottom-b.Top) < tol ||
		math.Abs(a.Top-b.Bottom) < tol
}
