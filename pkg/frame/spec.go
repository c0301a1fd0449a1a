package frame

import "fmt"

// DimensionReference selects how the overall box dimensions are
// measured relative to the tube stock.
type DimensionReference string

const (
	RefExterior   DimensionReference = "exterior"   // outside edge to outside edge
	RefInterior   DimensionReference = "interior"   // inside edge to inside edge
	RefCenterline DimensionReference = "centerline" // tube center to tube center
)

// BoxSpec is the explicit parameter set for a rectangular frame. It
// replaces spreadsheet-cell binding: every value is resolved before the
// pipeline runs and validated at this boundary.
//
// All dimensions in mm. Length runs along X, Depth along Y, Height
// along Z. The datum corner is the origin; everything is measured from
// it so tolerances never stack.
type BoxSpec struct {
	Length float64 `json:"length_mm" mapstructure:"length_mm"`
	Height float64 `json:"height_mm" mapstructure:"height_mm"`
	Depth  float64 `json:"depth_mm" mapstructure:"depth_mm"`

	// On-center spacing for repeated supports; zero disables that set.
	VerticalOCFront    float64 `json:"vertical_oc_front_mm" mapstructure:"vertical_oc_front_mm"`
	VerticalOCBack     float64 `json:"vertical_oc_back_mm" mapstructure:"vertical_oc_back_mm"`
	HorizontalOCTop    float64 `json:"horizontal_oc_top_mm" mapstructure:"horizontal_oc_top_mm"`
	HorizontalOCBottom float64 `json:"horizontal_oc_bottom_mm" mapstructure:"horizontal_oc_bottom_mm"`

	Reference DimensionReference `json:"dimension_reference" mapstructure:"dimension_reference"`
	Profile   string             `json:"tube_profile" mapstructure:"tube_profile"`
}

// Validate rejects a spec whose dimensions cannot form a frame.
func (s *BoxSpec) Validate() error {
	if s.Length <= 0 || s.Height <= 0 || s.Depth <= 0 {
		return fmt.Errorf("box dimensions must be positive, got %gx%gx%g", s.Length, s.Depth, s.Height)
	}
	for _, oc := range []struct {
		name  string
		value float64
	}{
		{"vertical_oc_front", s.VerticalOCFront},
		{"vertical_oc_back", s.VerticalOCBack},
		{"horizontal_oc_top", s.HorizontalOCTop},
		{"horizontal_oc_bottom", s.HorizontalOCBottom},
	} {
		if oc.value < 0 {
			return fmt.Errorf("%s spacing is negative (%g)", oc.name, oc.value)
		}
	}
	switch s.Reference {
	case RefExterior, RefInterior, RefCenterline:
	case "":
		s.Reference = RefExterior
	default:
		return fmt.Errorf("unknown dimension reference %q", s.Reference)
	}
	if s.Profile == "" {
		return fmt.Errorf("tube profile name is empty")
	}
	return nil
}

// supportCount returns how many evenly OC-spaced supports fit between
// two corner members across the given usable span. Corners themselves
// are not counted.
func supportCount(span, oc float64) int {
	if oc <= 0 || span <= oc {
		return 0
	}
	n := int(span/oc) - 1
	if n < 0 {
		return 0
	}
	return n
}
