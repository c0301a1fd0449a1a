package joinery

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/profile"
)

// tJoint is a mid-span T: post tabs into the rail's bottom face at the
// rail's midpoint.
func tJoint() (Joint, map[string]*frame.Member) {
	rail := member("rail", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})
	post := member("post", geom.Vec{X: 500, Z: -400}, geom.Vec{X: 500}, geom.Vec{Y: 1})
	j := Joint{
		ID:        "post->rail",
		Type:      JointT,
		SlotOwner: "rail",
		TabOwner:  "post",
		At:        geom.Vec{X: 500},
		ParamSlot: 0.5,
		ParamTab:  1,
		SlotFace:  FaceBottom,
	}
	return j, map[string]*frame.Member{"rail": &rail, "post": &post}
}

func countArcs(o Outline) int {
	n := 0
	for _, s := range o.Segs {
		if s.Kind == SegArc {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Width and depth derivation
// ---------------------------------------------------------------------------

func TestGenerateWidths(t *testing.T) {
	j, members := tJoint()
	pairs, errs := NewGenerator(testRegistry(t), testOptions()).Generate([]Joint{j}, members)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(pairs) != 1 {
		t.Fatalf("got %d pairs, want 1", len(pairs))
	}

	p := pairs[0]
	// wall 3.175, clearance 0.10, undersize 0.05, kerf 0.15
	if math.Abs(p.SlotWidth-3.425) > 1e-9 {
		t.Errorf("SlotWidth = %.4f, want 3.4250", p.SlotWidth)
	}
	if math.Abs(p.TabWidth-2.975) > 1e-9 {
		t.Errorf("TabWidth = %.4f, want 2.9750", p.TabWidth)
	}
	if math.Abs(p.TotalGap-0.45) > 1e-9 {
		t.Errorf("TotalGap = %.4f, want 0.4500", p.TotalGap)
	}

	// Depth follows the tab owner's wall scaled by the ratio.
	wantDepth := 3.175 * 0.6
	if math.Abs(p.Slot.Depth-wantDepth) > 1e-9 || math.Abs(p.Tab.Depth-wantDepth) > 1e-9 {
		t.Errorf("depths = %g/%g, want %g", p.Slot.Depth, p.Tab.Depth, wantDepth)
	}

	// Slot interval is centered on the joint along the rail.
	mid := (p.AxisInterval.Start + p.AxisInterval.End) / 2
	if math.Abs(mid-500) > 1e-9 {
		t.Errorf("interval midpoint = %g, want 500", mid)
	}
	if math.Abs(p.AxisInterval.Width()-wantDepth) > 1e-9 {
		t.Errorf("interval width = %g, want %g", p.AxisInterval.Width(), wantDepth)
	}
}

func TestGenerateGapError(t *testing.T) {
	reg := profile.NewRegistry()
	thin := profile.SquareTube(2, 0.125)
	thin.Name = "thin"
	thin.Tolerances = profile.Tolerances{SlotClearance: 0.01, KerfCompensation: 0.01}
	if err := reg.Register(thin); err != nil {
		t.Fatal(err)
	}
	thick := testProfile("thick")
	thick.Geometry.WallThickness = 6.35
	if err := reg.Register(thick); err != nil {
		t.Fatal(err)
	}

	j, members := tJoint()
	members["rail"].Profile = "thin"  // slot width 3.195
	members["post"].Profile = "thick" // tab width 6.15

	_, errs := NewGenerator(reg, testOptions()).Generate([]Joint{j}, members)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var ge *GapError
	if !errors.As(errs[0], &ge) {
		t.Fatalf("want GapError, got %v", errs[0])
	}
	if ge.JointID != "post->rail" || ge.Gap >= 0 {
		t.Errorf("GapError = %+v", ge)
	}
}

// ---------------------------------------------------------------------------
// Corner relief
// ---------------------------------------------------------------------------

func TestGenerateSquareRelief(t *testing.T) {
	j, members := tJoint()
	pairs, errs := NewGenerator(testRegistry(t), testOptions()).Generate([]Joint{j}, members)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	p := pairs[0]
	if len(p.Slot.Relief) != 0 {
		t.Errorf("square relief emitted %d extra outlines", len(p.Slot.Relief))
	}
	if got := len(p.Slot.Path.Segs); got != 4 {
		t.Errorf("slot path has %d segments, want 4 lines", got)
	}
	if countArcs(p.Slot.Path) != 0 {
		t.Error("square slot should have no arcs")
	}
}

func TestGenerateDogboneRelief(t *testing.T) {
	opts := testOptions()
	opts.Relief = ReliefDogbone

	j, members := tJoint()
	pairs, errs := NewGenerator(testRegistry(t), opts).Generate([]Joint{j}, members)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	p := pairs[0]
	if len(p.Slot.Relief) != 4 {
		t.Fatalf("dogbone emitted %d relief outlines, want 4 corner circles", len(p.Slot.Relief))
	}
	for i, o := range p.Slot.Relief {
		if countArcs(o) != len(o.Segs) {
			t.Errorf("relief %d is not all arcs", i)
		}
	}
	// The tab stays a plain rectangle; only the slot gets relief.
	if len(p.Tab.Relief) != 0 {
		t.Error("tab should carry no relief outlines")
	}
}

func TestGenerateRadiusReliefRequiresRoundTabs(t *testing.T) {
	opts := testOptions()
	opts.Relief = ReliefRadius

	j, members := tJoint()
	_, errs := NewGenerator(testRegistry(t), opts).Generate([]Joint{j}, members)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var tm *ToleranceMismatchError
	if !errors.As(errs[0], &tm) {
		t.Fatalf("want ToleranceMismatchError, got %v", errs[0])
	}
}

func TestGenerateRadiusReliefRadiusTooLarge(t *testing.T) {
	opts := testOptions()
	opts.Relief = ReliefRadius
	opts.RoundTabCorners = true

	// The stock relief radius (1.5) doubles to more than the 1.905mm
	// slot length, so the slot cannot host the rounded corners.
	j, members := tJoint()
	_, errs := NewGenerator(testRegistry(t), opts).Generate([]Joint{j}, members)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var tm *ToleranceMismatchError
	if !errors.As(errs[0], &tm) {
		t.Fatalf("want ToleranceMismatchError, got %v", errs[0])
	}
}

func TestGenerateRadiusRelief(t *testing.T) {
	reg := profile.NewRegistry()
	p := testProfile("2x2")
	p.Tolerances.CornerReliefRadius = 0.5
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Relief = ReliefRadius
	opts.RoundTabCorners = true

	j, members := tJoint()
	pairs, errs := NewGenerator(reg, opts).Generate([]Joint{j}, members)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	pair := pairs[0]
	if countArcs(pair.Slot.Path) != 4 {
		t.Errorf("rounded slot has %d arcs, want 4", countArcs(pair.Slot.Path))
	}
	if countArcs(pair.Tab.Path) != 4 {
		t.Errorf("rounded tab has %d arcs, want 4", countArcs(pair.Tab.Path))
	}
	// Slot and tab corners must carry the same radius or the tab
	// bottoms out before seating.
	for _, s := range pair.Slot.Path.Segs {
		if s.Kind == SegArc && math.Abs(s.Radius-0.5) > 1e-9 {
			t.Errorf("slot corner radius = %g, want 0.5", s.Radius)
		}
	}
	for _, s := range pair.Tab.Path.Segs {
		if s.Kind == SegArc && math.Abs(s.Radius-0.5) > 1e-9 {
			t.Errorf("tab corner radius = %g, want 0.5", s.Radius)
		}
	}
}

func TestGenerateRadiusReliefTabTooNarrow(t *testing.T) {
	reg := profile.NewRegistry()
	p := testProfile("foil")
	// wall 0.4mm: tab width 0.2, depth 0.24, slot width 0.65. The
	// 0.11 radius fits the slot (2r = 0.22 < 0.24) but not the tab.
	p.Geometry.WallThickness = 0.4
	p.Tolerances.CornerReliefRadius = 0.11
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}

	opts := testOptions()
	opts.Relief = ReliefRadius
	opts.RoundTabCorners = true

	j, members := tJoint()
	members["rail"].Profile = "foil"
	members["post"].Profile = "foil"

	_, errs := NewGenerator(reg, opts).Generate([]Joint{j}, members)
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	var tm *ToleranceMismatchError
	if !errors.As(errs[0], &tm) {
		t.Fatalf("want ToleranceMismatchError, got %v", errs[0])
	}
}

// ---------------------------------------------------------------------------
// Options validation
// ---------------------------------------------------------------------------

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		ok    bool
	}{
		{"unset", 0, false},
		{"below range", 0.4, false},
		{"lower bound", 0.5, true},
		{"nominal", 0.6, true},
		{"upper bound", 0.75, true},
		{"above range", 0.8, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.TabDepthRatio = tc.ratio
			err := opts.Validate()
			if tc.ok && err != nil {
				t.Errorf("ratio %g rejected: %v", tc.ratio, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("ratio %g accepted", tc.ratio)
			}
		})
	}
}
