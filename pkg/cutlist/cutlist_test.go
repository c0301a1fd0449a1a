package cutlist

import (
	"math"
	"testing"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/plan"
	"github.com/chazu/steelbox/pkg/profile"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func testRegistry(t *testing.T) *profile.Registry {
	t.Helper()
	p := profile.SquareTube(2, 0.125)
	p.Name = "2x2"
	p.Tolerances = profile.Tolerances{
		SlotClearance:    0.10,
		TabUndersize:     0.05,
		KerfCompensation: 0.15,
	}
	reg := profile.NewRegistry()
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}
	return reg
}

func memberPlan(id string, length float64, hash string) plan.MemberPlan {
	return plan.MemberPlan{
		Member: frame.Member{
			ID:         id,
			Centerline: geom.Segment{A: geom.Vec{}, B: geom.Vec{X: length}},
			Profile:    "2x2",
		},
		LayoutHash: hash,
	}
}

// ---------------------------------------------------------------------------
// Roll-up
// ---------------------------------------------------------------------------

func TestBuildDedupsByLayout(t *testing.T) {
	p := &plan.Plan{
		RunID: "run-1",
		Members: []plan.MemberPlan{
			memberPlan("post_a", 400, "aaa"),
			memberPlan("post_b", 400, "aaa"),
			memberPlan("rail", 1000, "bbb"),
		},
	}
	bom, err := Build(p, testRegistry(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if bom.RunID != "run-1" {
		t.Errorf("RunID = %q", bom.RunID)
	}
	if len(bom.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(bom.Lines))
	}
	if bom.TotalParts() != 3 {
		t.Errorf("TotalParts = %d, want 3", bom.TotalParts())
	}

	// Longer stock sorts first within a profile.
	if bom.Lines[0].LengthMM != 1000 || bom.Lines[0].Quantity != 1 {
		t.Errorf("line 0 = %+v", bom.Lines[0])
	}
	posts := bom.Lines[1]
	if posts.Quantity != 2 {
		t.Errorf("post quantity = %d, want 2", posts.Quantity)
	}
	if len(posts.Members) != 2 || posts.Members[0] != "post_a" || posts.Members[1] != "post_b" {
		t.Errorf("post members = %v", posts.Members)
	}
}

func TestBuildNeverMergesOnLengthAlone(t *testing.T) {
	// Same profile and length, different cut layouts: two lines.
	p := &plan.Plan{
		Members: []plan.MemberPlan{
			memberPlan("a", 400, "aaa"),
			memberPlan("b", 400, "zzz"),
		},
	}
	bom, err := Build(p, testRegistry(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(bom.Lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(bom.Lines), bom.Lines)
	}
	if bom.Lines[0].LayoutHash != "aaa" || bom.Lines[1].LayoutHash != "zzz" {
		t.Errorf("lines not sorted by hash: %+v", bom.Lines)
	}
}

func TestBuildDeterministicOrder(t *testing.T) {
	p := &plan.Plan{
		Members: []plan.MemberPlan{
			memberPlan("rail", 1000, "bbb"),
			memberPlan("post_b", 400, "aaa"),
			memberPlan("post_a", 400, "aaa"),
		},
	}
	a, err := Build(p, testRegistry(t))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(p, testRegistry(t))
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Lines {
		if a.Lines[i].LayoutHash != b.Lines[i].LayoutHash {
			t.Errorf("line order differs between builds at %d", i)
		}
	}
	// Members within a line are sorted regardless of input order.
	if a.Lines[1].Members[0] != "post_a" {
		t.Errorf("line members = %v, want sorted", a.Lines[1].Members)
	}
}

func TestBuildUnknownProfile(t *testing.T) {
	p := &plan.Plan{
		Members: []plan.MemberPlan{memberPlan("x", 400, "aaa")},
	}
	mp := &p.Members[0]
	mp.Member.Profile = "missing"
	if _, err := Build(p, testRegistry(t)); err == nil {
		t.Error("unknown profile accepted")
	}
}

// ---------------------------------------------------------------------------
// Weight estimate
// ---------------------------------------------------------------------------

func TestBuildFillsWeight(t *testing.T) {
	reg := profile.NewRegistry()
	p := profile.SquareTube(2, 0.125)
	p.Name = "2x2"
	p.Tolerances = profile.Tolerances{
		SlotClearance:    0.10,
		TabUndersize:     0.05,
		KerfCompensation: 0.15,
	}
	p.Material.Density = 7850 // mild steel, kg/m^3
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}

	pl := &plan.Plan{
		Members: []plan.MemberPlan{
			memberPlan("a", 1000, "aaa"),
			memberPlan("b", 1000, "aaa"),
		},
	}
	bom, err := Build(pl, reg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	g := p.Geometry
	area := (g.OuterWidth*g.OuterHeight - g.InnerWidth()*g.InnerHeight()) / 1e6
	want := area * 1.0 * 7850 * 2
	if math.Abs(bom.Lines[0].WeightKG-want) > 1e-9 {
		t.Errorf("WeightKG = %g, want %g", bom.Lines[0].WeightKG, want)
	}
}

func TestBuildWithoutDensityLeavesWeightZero(t *testing.T) {
	p := &plan.Plan{
		Members: []plan.MemberPlan{memberPlan("a", 400, "aaa")},
	}
	bom, err := Build(p, testRegistry(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if bom.Lines[0].WeightKG != 0 {
		t.Errorf("WeightKG = %g without a density", bom.Lines[0].WeightKG)
	}
}
