// Package profile defines tube cross-section profiles and the tolerance
// registry used by the joinery planner. Each profile bundles geometry
// with the fabricator-specific tolerances that govern tab/slot fit, so
// tolerances travel with the geometry they were verified against.
package profile

import "fmt"

// Geometry holds the cross-section dimensions of a tube, in mm.
type Geometry struct {
	OuterWidth    float64 `json:"outer_width_mm"`
	OuterHeight   float64 `json:"outer_height_mm"`
	WallThickness float64 `json:"wall_thickness_mm"`
	CornerRadius  float64 `json:"corner_radius_mm"`
}

// InnerWidth returns the interior width of the tube.
func (g Geometry) InnerWidth() float64 {
	return g.OuterWidth - 2*g.WallThickness
}

// InnerHeight returns the interior height of the tube.
func (g Geometry) InnerHeight() float64 {
	return g.OuterHeight - 2*g.WallThickness
}

// InnerCornerRadius returns the interior corner radius, clamped to zero.
func (g Geometry) InnerCornerRadius() float64 {
	r := g.CornerRadius - g.WallThickness
	if r < 0 {
		return 0
	}
	return r
}

// Tolerances holds the fabricator-specific values for one
// profile/material/process combination, in mm. These come from the
// cutting vendor and must be re-verified when the vendor or process
// changes.
type Tolerances struct {
	SlotClearance      float64 `json:"slot_clearance_mm"`       // added to slot width
	TabUndersize       float64 `json:"tab_undersize_mm"`        // removed from tab width
	KerfCompensation   float64 `json:"kerf_compensation_mm"`    // half kerf width
	CornerReliefRadius float64 `json:"corner_relief_radius_mm"` // radius for slot corners
	FinishAllowance    float64 `json:"finish_allowance_mm"`     // per side, e.g. powder coat
}

// Material describes the tube material for weight and BOM purposes.
type Material struct {
	Grade   string  `json:"grade,omitempty"`
	Density float64 `json:"density_kg_m3,omitempty"`
}

// Metadata tracks where the tolerance values came from.
type Metadata struct {
	Manufacturer   string `json:"manufacturer,omitempty"`
	CuttingProcess string `json:"cutting_process,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// TubeProfile is a complete, immutable profile definition. Once a
// profile is referenced by a generated member its values never change;
// a tolerance revision is a new profile under a new name, so previously
// generated designs stay reproducible.
type TubeProfile struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Geometry    Geometry   `json:"geometry"`
	Tolerances  Tolerances `json:"tolerances"`
	Material    Material   `json:"material"`
	Metadata    Metadata   `json:"metadata"`
}

// SlotWidth returns the width of a slot cut to receive this profile's
// wall: wall thickness plus slot clearance plus kerf compensation.
func (p *TubeProfile) SlotWidth() float64 {
	return p.Geometry.WallThickness + p.Tolerances.SlotClearance + p.Tolerances.KerfCompensation
}

// TabWidth returns the width of a tab cut from this profile's wall:
// wall thickness minus tab undersize minus kerf compensation.
func (p *TubeProfile) TabWidth() float64 {
	return p.Geometry.WallThickness - p.Tolerances.TabUndersize - p.Tolerances.KerfCompensation
}

// TotalGap returns the designed clearance between a tab and slot cut
// from this profile. Algebraically this is always
// SlotClearance + TabUndersize + 2*KerfCompensation.
func (p *TubeProfile) TotalGap() float64 {
	return p.SlotWidth() - p.TabWidth()
}

// StiffnessProxy is wall thickness times the larger outer dimension.
// The joint detector uses it as a deterministic tie-break when two
// members are equally eligible to own the slot.
func (p *TubeProfile) StiffnessProxy() float64 {
	dim := p.Geometry.OuterWidth
	if p.Geometry.OuterHeight > dim {
		dim = p.Geometry.OuterHeight
	}
	return p.Geometry.WallThickness * dim
}

// validate checks the profile at registration time. Geometry must be
// positive, tolerances non-negative, and the derived gap must leave a
// slip fit: a zero or negative gap would produce an interfering joint.
func (p *TubeProfile) validate() error {
	if p.Name == "" {
		return &InvalidToleranceError{Name: p.Name, Reason: "profile name is empty"}
	}
	g := p.Geometry
	if g.OuterWidth <= 0 || g.OuterHeight <= 0 || g.WallThickness <= 0 {
		return &InvalidToleranceError{
			Name:   p.Name,
			Reason: fmt.Sprintf("geometry must be positive, got %gx%gx%g", g.OuterWidth, g.OuterHeight, g.WallThickness),
		}
	}
	if g.CornerRadius < 0 {
		return &InvalidToleranceError{Name: p.Name, Reason: "corner radius is negative"}
	}
	t := p.Tolerances
	for _, check := range []struct {
		field string
		value float64
	}{
		{"slot_clearance", t.SlotClearance},
		{"tab_undersize", t.TabUndersize},
		{"kerf_compensation", t.KerfCompensation},
		{"corner_relief_radius", t.CornerReliefRadius},
		{"finish_allowance", t.FinishAllowance},
	} {
		if check.value < 0 {
			return &InvalidToleranceError{
				Name:   p.Name,
				Reason: fmt.Sprintf("%s is negative (%g)", check.field, check.value),
			}
		}
	}
	if gap := p.TotalGap(); gap <= 0 {
		return &InvalidToleranceError{
			Name:   p.Name,
			Reason: fmt.Sprintf("total tab/slot gap is %.3fmm, must be positive", gap),
		}
	}
	return nil
}

// SquareTube builds a square tube profile from imperial dimensions with
// a typical 1.5x-wall corner radius. Tolerances start at zero and must
// be filled in from fabricator data before registration.
func SquareTube(sizeIn, wallIn float64) TubeProfile {
	sizeMM := sizeIn * 25.4
	wallMM := wallIn * 25.4
	return TubeProfile{
		Name:        fmt.Sprintf("%gx%gx%g", sizeIn, sizeIn, wallIn),
		Description: fmt.Sprintf("%g\"x%g\" square tube, %g\" wall", sizeIn, sizeIn, wallIn),
		Geometry: Geometry{
			OuterWidth:    sizeMM,
			OuterHeight:   sizeMM,
			WallThickness: wallMM,
			CornerRadius:  wallMM * 1.5,
		},
	}
}
