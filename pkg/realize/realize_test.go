package realize

import (
	"math"
	"testing"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/holes"
	"github.com/chazu/steelbox/pkg/joinery"
	"github.com/chazu/steelbox/pkg/kernel"
	"github.com/chazu/steelbox/pkg/plan"
	"github.com/chazu/steelbox/pkg/profile"
)

// ---------------------------------------------------------------------------
// Outline flattening
// ---------------------------------------------------------------------------

func rect(l, w float64) joinery.Outline {
	hl, hw := l/2, w/2
	return joinery.Outline{
		Start: joinery.Point{X: -hl, Y: -hw},
		Segs: []joinery.OutlineSeg{
			{Kind: joinery.SegLine, End: joinery.Point{X: hl, Y: -hw}},
			{Kind: joinery.SegLine, End: joinery.Point{X: hl, Y: hw}},
			{Kind: joinery.SegLine, End: joinery.Point{X: -hl, Y: hw}},
			{Kind: joinery.SegLine, End: joinery.Point{X: -hl, Y: -hw}},
		},
	}
}

func circle(r float64) joinery.Outline {
	return joinery.Outline{
		Start: joinery.Point{X: r},
		Segs: []joinery.OutlineSeg{
			{Kind: joinery.SegArc, End: joinery.Point{X: -r}, Center: joinery.Point{}, Radius: r},
			{Kind: joinery.SegArc, End: joinery.Point{X: r}, Center: joinery.Point{}, Radius: r},
		},
	}
}

func TestOutlinePointsRect(t *testing.T) {
	pts := OutlinePoints(rect(10, 4))
	if len(pts) != 4 {
		t.Fatalf("rectangle flattened to %d points, want 4", len(pts))
	}
	want := []kernel.Point2{{X: -5, Y: -2}, {X: 5, Y: -2}, {X: 5, Y: 2}, {X: -5, Y: 2}}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestOutlinePointsCircle(t *testing.T) {
	pts := OutlinePoints(circle(1.5))
	// Two half arcs at 16 facets each, closing duplicate dropped.
	if len(pts) != 32 {
		t.Fatalf("circle flattened to %d points, want 32", len(pts))
	}
	for i, p := range pts {
		r := math.Hypot(p.X, p.Y)
		if math.Abs(r-1.5) > 1e-9 {
			t.Errorf("point %d at radius %g, want 1.5", i, r)
		}
	}
}

func TestOutlinePointsArcWinding(t *testing.T) {
	// A counterclockwise quarter arc from (1,0) to (0,1) must sweep
	// through the first quadrant, not the other three.
	o := joinery.Outline{
		Start: joinery.Point{X: 1},
		Segs: []joinery.OutlineSeg{
			{Kind: joinery.SegArc, End: joinery.Point{Y: 1}, Center: joinery.Point{}, Radius: 1},
		},
	}
	pts := OutlinePoints(o)
	for i, p := range pts {
		if p.X < -1e-9 || p.Y < -1e-9 {
			t.Errorf("point %d = %+v leaves the first quadrant", i, p)
		}
	}
}

// ---------------------------------------------------------------------------
// Member realization over a recording kernel
// ---------------------------------------------------------------------------

type fakeSolid struct{}

func (fakeSolid) BoundingBox() (min, max [3]float64) { return }

// fakeKernel counts operations so member wiring can be asserted without
// a real geometry backend.
type fakeKernel struct {
	tubes, extrudes, unions, diffs, cylinders int
}

func (f *fakeKernel) Box(x, y, z float64) kernel.Solid { return fakeSolid{} }
func (f *fakeKernel) Tube(w, h, wall, r, l float64) kernel.Solid {
	f.tubes++
	return fakeSolid{}
}
func (f *fakeKernel) Cylinder(h, r float64, segs int) kernel.Solid {
	f.cylinders++
	return fakeSolid{}
}
func (f *fakeKernel) Extrude(poly []kernel.Point2, depth float64) (kernel.Solid, error) {
	f.extrudes++
	return fakeSolid{}, nil
}
func (f *fakeKernel) Union(a, b kernel.Solid) kernel.Solid {
	f.unions++
	return fakeSolid{}
}
func (f *fakeKernel) Difference(a, b kernel.Solid) kernel.Solid {
	f.diffs++
	return fakeSolid{}
}
func (f *fakeKernel) Intersection(a, b kernel.Solid) kernel.Solid            { return fakeSolid{} }
func (f *fakeKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid { return s }
func (f *fakeKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid    { return s }
func (f *fakeKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	return &kernel.Mesh{}, nil
}

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

func testMemberPlan() plan.MemberPlan {
	region := joinery.CutRegion{Path: rect(1.905, 3.425), Depth: 1.905}
	return plan.MemberPlan{
		Member: frame.Member{
			ID:          "rail",
			Centerline:  geom.Segment{A: geom.Vec{}, B: geom.Vec{X: 1000}},
			Profile:     "2x2",
			Orientation: geom.Vec{Z: 1},
		},
		Slots: []plan.PlacedSlot{
			{JointID: "a->rail", Face: joinery.FaceBottom, Center: 300, Region: region},
			{JointID: "b->rail", Face: joinery.FaceTop, Center: 700, Region: region},
		},
		Tabs: []plan.PlacedTab{
			{JointID: "rail->wall", End: "end", Region: joinery.CutRegion{Path: rect(1.905, 2.975), Depth: 1.905}},
		},
		RivetHoles: []holes.Hole{{X: 500, Diameter: 4.8}},
	}
}

func TestMemberWiring(t *testing.T) {
	k := &fakeKernel{}
	mp := testMemberPlan()
	mesh, err := New(k, testRegistry(t)).Member(&mp)
	if err != nil {
		t.Fatalf("Member: %v", err)
	}
	if mesh.Part != "rail" {
		t.Errorf("mesh part = %q, want rail", mesh.Part)
	}
	if k.tubes != 1 {
		t.Errorf("tube built %d times", k.tubes)
	}
	// Two slot cuts plus one rivet hole subtract from the shell.
	if k.diffs != 3 {
		t.Errorf("got %d differences, want 3", k.diffs)
	}
	// One tab fuses on.
	if k.unions != 1 {
		t.Errorf("got %d unions, want 1", k.unions)
	}
	if k.cylinders != 1 {
		t.Errorf("got %d cylinders, want 1", k.cylinders)
	}
	// One extrusion per outline (no relief outlines here).
	if k.extrudes != 3 {
		t.Errorf("got %d extrusions, want 3", k.extrudes)
	}
}

func TestMemberDogboneReliefExtrudes(t *testing.T) {
	k := &fakeKernel{}
	mp := testMemberPlan()
	mp.Tabs = nil
	mp.RivetHoles = nil
	mp.Slots = mp.Slots[:1]
	mp.Slots[0].Region.Relief = []joinery.Outline{circle(1.5), circle(1.5), circle(1.5), circle(1.5)}

	if _, err := New(k, testRegistry(t)).Member(&mp); err != nil {
		t.Fatalf("Member: %v", err)
	}
	// Main path plus four relief circles.
	if k.extrudes != 5 {
		t.Errorf("got %d extrusions, want 5", k.extrudes)
	}
	// Four relief unions into the cutting solid, one difference from the shell.
	if k.unions != 4 || k.diffs != 1 {
		t.Errorf("unions/diffs = %d/%d, want 4/1", k.unions, k.diffs)
	}
}

func TestPlanRealizesEveryMember(t *testing.T) {
	k := &fakeKernel{}
	mp := testMemberPlan()
	other := testMemberPlan()
	other.Member.ID = "rail_2"
	p := &plan.Plan{Members: []plan.MemberPlan{mp, other}}

	meshes, err := New(k, testRegistry(t)).Plan(p)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}
	if meshes[0].Part != "rail" || meshes[1].Part != "rail_2" {
		t.Errorf("mesh parts = %q, %q", meshes[0].Part, meshes[1].Part)
	}
	if k.tubes != 2 {
		t.Errorf("tube built %d times, want 2", k.tubes)
	}
}

func TestMemberUnknownProfile(t *testing.T) {
	mp := testMemberPlan()
	mp.Member.Profile = "missing"
	if _, err := New(&fakeKernel{}, testRegistry(t)).Member(&mp); err == nil {
		t.Error("unknown profile accepted")
	}
}
