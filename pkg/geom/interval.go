package geom

import "sort"

// Interval is a closed 1-D range along a member axis or tube-end
// perimeter, in mm.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Width returns the interval width.
func (iv Interval) Width() float64 {
	return iv.End - iv.Start
}

// Overlaps reports whether two intervals share more than a point.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Expand grows the interval by margin on both sides.
func (iv Interval) Expand(margin float64) Interval {
	return Interval{Start: iv.Start - margin, End: iv.End + margin}
}

// Clip restricts the interval to [lo, hi].
func (iv Interval) Clip(lo, hi float64) Interval {
	return Interval{Start: Clamp(iv.Start, lo, hi), End: Clamp(iv.End, lo, hi)}
}

// MergeIntervals sorts intervals by start and coalesces overlapping or
// touching neighbors. The input slice is not modified.
func MergeIntervals(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Gaps returns the uncovered ranges of [lo, hi] left between the given
// intervals, which must already be merged and sorted.
func Gaps(merged []Interval, lo, hi float64) []Interval {
	var gaps []Interval
	cursor := lo
	for _, iv := range merged {
		if iv.Start > cursor {
			gaps = append(gaps, Interval{Start: cursor, End: iv.Start})
		}
		if iv.End > cursor {
			cursor = iv.End
		}
	}
	if cursor < hi {
		gaps = append(gaps, Interval{Start: cursor, End: hi})
	}
	return gaps
}
