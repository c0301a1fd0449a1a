// Package plan runs the full joinery pipeline over a member set and
// assembles the per-member fabrication plan: slots, tabs, cap notch
// reservations, and a layout hash that identifies interchangeable
// parts.
package plan

import (
	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/holes"
	"github.com/chazu/steelbox/pkg/joinery"
)

// PlacedSlot is a slot cut region positioned on a member face.
type PlacedSlot struct {
	JointID string            `json:"joint_id"`
	Face    joinery.Face      `json:"face"`
	Center  float64           `json:"center_mm"` // along the member axis from end A
	Region  joinery.CutRegion `json:"region"`
	Extent  geom.Interval     `json:"extent"`
}

// PlacedTab is a tab protrusion positioned on a member end.
type PlacedTab struct {
	JointID string            `json:"joint_id"`
	End     string            `json:"end"` // "start" or "end"
	Region  joinery.CutRegion `json:"region"`
}

// MemberPlan is everything fabrication needs for one member: the stock
// cut length, every slot and tab, and the cap notch reservations for
// each end. LayoutHash fingerprints the cut geometry so identical parts
// collapse to one BOM line.
type MemberPlan struct {
	Member     frame.Member           `json:"member"`
	Slots      []PlacedSlot           `json:"slots,omitempty"`
	Tabs       []PlacedTab            `json:"tabs,omitempty"`
	CapNotches []joinery.CapNotchPlan `json:"cap_notches,omitempty"`
	RivetHoles []holes.Hole           `json:"rivet_holes,omitempty"`
	LayoutHash string                 `json:"layout_hash"`
}

// Plan is the result of one pipeline run. Members and joints are sorted
// by ID; running the pipeline twice over the same input produces an
// identical plan apart from RunID.
type Plan struct {
	RunID   string          `json:"run_id"`
	Options joinery.Options `json:"options"`
	Members []MemberPlan    `json:"members"`
	Joints  []joinery.Joint `json:"joints"`
}

// Member returns the plan entry for the given member ID, or nil.
func (p *Plan) Member(id string) *MemberPlan {
	for i := range p.Members {
		if p.Members[i].Member.ID == id {
			return &p.Members[i]
		}
	}
	return nil
}
