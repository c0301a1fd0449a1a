// Package holes generates fastener hole patterns on member faces:
// rivet rows along rails, mounting grids on panels. Positions are
// face-local (X along the member axis, Y across the face), in mm.
package holes

import "fmt"

// Hole is a single round hole on a face.
type Hole struct {
	X        float64 `json:"x_mm"`
	Y        float64 `json:"y_mm"`
	Diameter float64 `json:"diameter_mm"`
}

// Distribution selects how holes are spread over a span.
type Distribution string

const (
	ByCount   Distribution = "by_count"   // fixed number, evenly spread
	BySpacing Distribution = "by_spacing" // fixed pitch, as many as fit
)

// RowConfig describes one row of holes along a member face.
type RowConfig struct {
	Mode       Distribution `json:"mode" mapstructure:"mode"`
	Diameter   float64      `json:"diameter_mm" mapstructure:"diameter_mm"`
	EdgeMargin float64      `json:"edge_margin_mm" mapstructure:"edge_margin_mm"`
	Count      int          `json:"count,omitempty" mapstructure:"count"`
	Spacing    float64      `json:"spacing_mm,omitempty" mapstructure:"spacing_mm"`
}

// Validate rejects row configurations that cannot place a hole.
func (c *RowConfig) Validate() error {
	if c.Diameter <= 0 {
		return fmt.Errorf("hole diameter must be positive, got %g", c.Diameter)
	}
	if c.EdgeMargin < 0 {
		return fmt.Errorf("edge margin is negative (%g)", c.EdgeMargin)
	}
	switch c.Mode {
	case ByCount:
		if c.Count <= 0 {
			return fmt.Errorf("by-count row needs a positive count, got %d", c.Count)
		}
	case BySpacing:
		if c.Spacing <= 0 {
			return fmt.Errorf("by-spacing row needs a positive spacing, got %g", c.Spacing)
		}
	default:
		return fmt.Errorf("unknown hole distribution %q", c.Mode)
	}
	return nil
}

// Row places one row of holes centered across the face (Y = 0) over the
// given axial span. The usable range is the span less the edge margin on
// each side; a span too short for even one hole is an error rather than
// an empty row, because a configured row that silently vanishes hides a
// manufacturing mistake.
func Row(span float64, cfg RowConfig) ([]Hole, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lo := cfg.EdgeMargin
	hi := span - cfg.EdgeMargin
	if hi < lo {
		return nil, fmt.Errorf("span %.1fmm too short for edge margin %.1fmm", span, cfg.EdgeMargin)
	}

	var xs []float64
	switch cfg.Mode {
	case ByCount:
		xs = spreadByCount(lo, hi, cfg.Count)
	case BySpacing:
		xs = spreadBySpacing(lo, hi, cfg.Spacing)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("no holes fit in span %.1fmm with margin %.1fmm and spacing %.1fmm", span, cfg.EdgeMargin, cfg.Spacing)
	}

	holes := make([]Hole, len(xs))
	for i, x := range xs {
		holes[i] = Hole{X: x, Diameter: cfg.Diameter}
	}
	return holes, nil
}

// Grid places a rectangular grid of holes over a face. Counts apply per
// axis; margins shrink the usable area symmetrically.
func Grid(spanX, spanY, marginX, marginY float64, nx, ny int, diameter float64) ([]Hole, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("hole diameter must be positive, got %g", diameter)
	}
	if nx <= 0 || ny <= 0 {
		return nil, fmt.Errorf("grid counts must be positive, got %dx%d", nx, ny)
	}
	if spanX-2*marginX < 0 || spanY-2*marginY < 0 {
		return nil, fmt.Errorf("face %gx%g too small for margins %gx%g", spanX, spanY, marginX, marginY)
	}

	xs := spreadByCount(marginX, spanX-marginX, nx)
	ys := spreadByCount(marginY-spanY/2, spanY/2-marginY, ny)
	holes := make([]Hole, 0, nx*ny)
	for _, y := range ys {
		for _, x := range xs {
			holes = append(holes, Hole{X: x, Y: y, Diameter: diameter})
		}
	}
	return holes, nil
}

// spreadByCount returns n positions evenly spread over [lo, hi],
// endpoints included. A single hole lands at the center.
func spreadByCount(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	step := (hi - lo) / float64(n-1)
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = lo + float64(i)*step
	}
	return xs
}

// spreadBySpacing returns positions at a fixed pitch starting at lo,
// recentered so leftover span splits evenly between the two ends.
func spreadBySpacing(lo, hi, pitch float64) []float64 {
	usable := hi - lo
	n := int(usable/pitch) + 1
	if usable < 0 {
		return nil
	}
	slack := (usable - float64(n-1)*pitch) / 2
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = lo + slack + float64(i)*pitch
	}
	return xs
}
