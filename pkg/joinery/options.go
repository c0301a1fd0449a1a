package joinery

import "fmt"

// ReliefStrategy selects the corner treatment applied to slots so that
// the laser's round kerf does not leave inside corners that block a
// square tab.
type ReliefStrategy string

const (
	ReliefSquare  ReliefStrategy = "square"  // plain rectangle, no relief
	ReliefDogbone ReliefStrategy = "dogbone" // relief circles at each corner
	ReliefRadius  ReliefStrategy = "radius"  // rounded slot corners, rounded tab corners
	ReliefTBone   ReliefStrategy = "tbone"   // relief extensions at the slot ends
)

// Options is the explicit configuration surface for joinery planning.
// Nothing here has a hidden default that changes geometry: the caller
// resolves configuration first and Validate rejects anything out of
// range.
type Options struct {
	// TabDepthRatio scales tab depth relative to the governing wall
	// thickness. Must be set explicitly, in [0.5, 0.75].
	TabDepthRatio float64 `json:"tab_depth_ratio" mapstructure:"tab_depth_ratio"`

	Relief ReliefStrategy `json:"relief" mapstructure:"relief"`

	// RoundTabCorners must be enabled for ReliefRadius so the tab's
	// corner geometry matches the slot's. A mismatch fails planning.
	RoundTabCorners bool `json:"round_tab_corners" mapstructure:"round_tab_corners"`

	// DetectTolerance is the max centerline-to-centerline distance, in
	// excess of the profile envelope, at which two members still count
	// as joined.
	DetectTolerance float64 `json:"detect_tolerance_mm" mapstructure:"detect_tolerance_mm"`

	// OrientationEps bounds how far from parallel or perpendicular two
	// joined members' orientations may drift before the joint is
	// rejected as ambiguous.
	OrientationEps float64 `json:"orientation_eps" mapstructure:"orientation_eps"`

	// MinSlotWeb is the minimum steel left between adjacent slots on
	// the same face.
	MinSlotWeb float64 `json:"min_slot_web_mm" mapstructure:"min_slot_web_mm"`

	// AutoOffset shifts colliding slots apart instead of failing.
	// Off by default: silent geometry changes surprise the operator.
	AutoOffset bool `json:"auto_offset" mapstructure:"auto_offset"`

	// NotchClearance is the margin added around member tabs when
	// reserving cap notch zones on tube ends.
	NotchClearance float64 `json:"notch_clearance_mm" mapstructure:"notch_clearance_mm"`

	// Cap tab requirements checked against the remaining clear zones
	// on each tube end.
	MinCapTabWidth float64 `json:"min_cap_tab_width_mm" mapstructure:"min_cap_tab_width_mm"`
	MinCapTabCount int     `json:"min_cap_tab_count" mapstructure:"min_cap_tab_count"`
}

// DefaultOptions returns the planning defaults for concerns that do not
// change mating geometry. TabDepthRatio is deliberately left zero; it
// must come from configuration.
func DefaultOptions() Options {
	return Options{
		Relief:          ReliefSquare,
		DetectTolerance: 1.0,
		OrientationEps:  0.01,
		MinSlotWeb:      3.0,
		NotchClearance:  2.0,
		MinCapTabWidth:  8.0,
		MinCapTabCount:  2,
	}
}

// Validate rejects option sets that cannot produce sound joinery.
func (o *Options) Validate() error {
	if o.TabDepthRatio < 0.5 || o.TabDepthRatio > 0.75 {
		return fmt.Errorf("tab depth ratio %.3f outside [0.5, 0.75]; it must be configured explicitly", o.TabDepthRatio)
	}
	switch o.Relief {
	case ReliefSquare, ReliefDogbone, ReliefRadius, ReliefTBone:
	default:
		return fmt.Errorf("unknown relief strategy %q", o.Relief)
	}
	if o.DetectTolerance < 0 {
		return fmt.Errorf("detect tolerance is negative (%g)", o.DetectTolerance)
	}
	if o.OrientationEps <= 0 {
		return fmt.Errorf("orientation epsilon must be positive, got %g", o.OrientationEps)
	}
	if o.MinSlotWeb < 0 {
		return fmt.Errorf("min slot web is negative (%g)", o.MinSlotWeb)
	}
	if o.NotchClearance < 0 {
		return fmt.Errorf("notch clearance is negative (%g)", o.NotchClearance)
	}
	if o.MinCapTabWidth < 0 {
		return fmt.Errorf("min cap tab width is negative (%g)", o.MinCapTabWidth)
	}
	if o.MinCapTabCount < 0 {
		return fmt.Errorf("min cap tab count is negative (%d)", o.MinCapTabCount)
	}
	return nil
}
