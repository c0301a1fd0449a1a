package joinery

import (
	"math"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/profile"
)

// Generator turns detected joints into tab/slot cut geometry. Widths
// come straight from the mating profiles' tolerance stacks; depth is
// the governing wall thickness scaled by the configured ratio. Nothing
// is auto-corrected: any unsatisfiable combination fails the joint.
type Generator struct {
	reg  *profile.Registry
	opts Options
}

// NewGenerator builds a generator over the given profile registry.
// Options must already be validated.
func NewGenerator(reg *profile.Registry, opts Options) *Generator {
	return &Generator{reg: reg, opts: opts}
}

// Generate produces a mating pair for every joint. Failures are
// accumulated per joint; successful pairs are still returned so a run
// report can show everything at once. Pairs come back in joint order.
func (g *Generator) Generate(joints []Joint, members map[string]*frame.Member) ([]TabSlotPair, []error) {
	var pairs []TabSlotPair
	var errs []error
	for i := range joints {
		pair, err := g.generateOne(&joints[i], members)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pairs = append(pairs, *pair)
	}
	return pairs, errs
}

func (g *Generator) generateOne(j *Joint, members map[string]*frame.Member) (*TabSlotPair, error) {
	slotMember := members[j.SlotOwner]
	tabMember := members[j.TabOwner]

	slotProf, err := g.reg.Get(slotMember.Profile)
	if err != nil {
		return nil, err
	}
	tabProf, err := g.reg.Get(tabMember.Profile)
	if err != nil {
		return nil, err
	}

	// The slot owner's profile governs the slot side of the fit, the
	// tab owner's the tab side. With mixed profiles the stacks can
	// disagree badly enough to close the gap entirely.
	slotWidth := slotProf.SlotWidth()
	tabWidth := tabProf.TabWidth()
	gap := slotWidth - tabWidth
	if gap <= 0 {
		return nil, &GapError{JointID: j.ID, Gap: gap}
	}

	// Tab depth is set by the tab owner's wall: a tab deeper than the
	// wall supplying it adds no engagement.
	depth := tabProf.Geometry.WallThickness * g.opts.TabDepthRatio
	slotLen := depth

	reliefR := slotProf.Tolerances.CornerReliefRadius
	slot, tab, err := g.buildRegions(j, slotLen, slotWidth, tabWidth, depth, reliefR)
	if err != nil {
		return nil, err
	}

	center := j.ParamSlot * slotMember.Length()
	return &TabSlotPair{
		JointID:      j.ID,
		SlotOwner:    j.SlotOwner,
		TabOwner:     j.TabOwner,
		SlotFace:     j.SlotFace,
		Slot:         slot,
		Tab:          tab,
		SlotWidth:    slotWidth,
		TabWidth:     tabWidth,
		TotalGap:     gap,
		Relief:       g.opts.Relief,
		ReliefRadius: reliefR,
		AxisInterval: geom.Interval{Start: center - slotLen/2, End: center + slotLen/2},
	}, nil
}

// buildRegions emits the slot and tab cut regions for one joint under
// the configured relief strategy. The slot is cut through the slot
// owner's face (depth = that wall); the tab protrudes from the tab
// owner's end by the shared designed depth.
func (g *Generator) buildRegions(j *Joint, slotLen, slotWidth, tabWidth, depth, reliefR float64) (slot, tab CutRegion, err error) {
	slot = CutRegion{Path: rectOutline(slotLen, slotWidth), Depth: depth}
	tab = CutRegion{Path: rectOutline(depth, tabWidth), Depth: depth}

	switch g.opts.Relief {
	case ReliefSquare:
		// Plain rectangles; acceptable when the kerf radius is small
		// against the gap.

	case ReliefDogbone:
		if reliefR <= 0 {
			return slot, tab, &ToleranceMismatchError{JointID: j.ID, Reason: "dogbone relief requires a positive corner relief radius on the slot owner's profile"}
		}
		slot.Relief = dogboneRelief(slotLen, slotWidth, reliefR)

	case ReliefTBone:
		if reliefR <= 0 {
			return slot, tab, &ToleranceMismatchError{JointID: j.ID, Reason: "t-bone relief requires a positive corner relief radius on the slot owner's profile"}
		}
		slot.Relief = tboneRelief(slotLen, slotWidth, reliefR)

	case ReliefRadius:
		if reliefR <= 0 {
			return slot, tab, &ToleranceMismatchError{JointID: j.ID, Reason: "radius relief requires a positive corner relief radius on the slot owner's profile"}
		}
		if !g.opts.RoundTabCorners {
			// Square tab corners would bottom out in a round-cornered
			// slot. Refuse rather than quietly rounding the tab.
			return slot, tab, &ToleranceMismatchError{JointID: j.ID, Reason: "radius relief requires round tab corners to be enabled"}
		}
		if 2*reliefR > math.Min(slotLen, slotWidth) {
			return slot, tab, &ToleranceMismatchError{JointID: j.ID, Reason: "corner relief radius exceeds half the slot's short dimension"}
		}
		// The tab seats only when its corners carry the same radius as
		// the slot's. A tab too narrow for that radius fails the joint
		// rather than shipping a mismatched pair.
		if 2*reliefR > math.Min(depth, tabWidth) {
			return slot, tab, &ToleranceMismatchError{JointID: j.ID, Reason: "corner relief radius exceeds half the tab's short dimension"}
		}
		slot.Path = roundedRectOutline(slotLen, slotWidth, reliefR)
		tab.Path = roundedRectOutline(depth, tabWidth, reliefR)
	}

	return slot, tab, nil
}
