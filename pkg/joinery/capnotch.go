package joinery

import (
	"github.com/chazu/steelbox/pkg/geom"
)

// PlanCapNotches reserves clear zones on a tube end for a future end
// cap. Each member tab already landing on that end is expanded by the
// configured clearance on both sides, clipped to the perimeter, and
// merged with its neighbors, so the resulting notch set never overlaps
// and never leaves the face.
//
// After reservation, the gaps between notches must still hold the
// configured number of cap tabs at the configured minimum width. A
// crowded end fails with InsufficientClearanceError; steel this far
// into the plan cannot be renegotiated silently.
func PlanCapNotches(end TubeEnd, perimeter float64, tabs []geom.Interval, opts Options) (CapNotchPlan, error) {
	expanded := make([]geom.Interval, 0, len(tabs))
	for _, t := range tabs {
		n := t.Expand(opts.NotchClearance).Clip(0, perimeter)
		if n.Width() <= 0 {
			continue
		}
		expanded = append(expanded, n)
	}
	notches := geom.MergeIntervals(expanded)

	plan := CapNotchPlan{End: end, Perimeter: perimeter, Notches: notches}
	if opts.MinCapTabCount == 0 {
		return plan, nil
	}

	found := 0
	for _, gap := range geom.Gaps(notches, 0, perimeter) {
		if gap.Width() >= opts.MinCapTabWidth {
			found++
		}
	}
	if found < opts.MinCapTabCount {
		return plan, &InsufficientClearanceError{
			End:      end,
			Needed:   opts.MinCapTabCount,
			Found:    found,
			MinWidth: opts.MinCapTabWidth,
		}
	}
	return plan, nil
}
