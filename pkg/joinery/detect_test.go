package joinery

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/profile"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// testRegistry returns a registry with the standard 2x2x0.125" test
// profile registered under "2x2".
func testRegistry(t *testing.T) *profile.Registry {
	t.Helper()
	reg := profile.NewRegistry()
	if err := reg.Register(testProfile("2x2")); err != nil {
		t.Fatal(err)
	}
	return reg
}

func testProfile(name string) profile.TubeProfile {
	p := profile.SquareTube(2, 0.125)
	p.Name = name
	p.Tolerances = profile.Tolerances{
		SlotClearance:      0.10,
		TabUndersize:       0.05,
		KerfCompensation:   0.15,
		CornerReliefRadius: 1.5,
	}
	return p
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.TabDepthRatio = 0.6
	return opts
}

func member(id string, a, b, orient geom.Vec) frame.Member {
	return frame.Member{
		ID:          id,
		Centerline:  geom.Segment{A: a, B: b},
		Profile:     "2x2",
		Orientation: orient,
	}
}

// ---------------------------------------------------------------------------
// Classification
// ---------------------------------------------------------------------------

func TestDetectTJoint(t *testing.T) {
	rail := member("rail", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})
	post := member("post", geom.Vec{X: 500, Z: -400}, geom.Vec{X: 500}, geom.Vec{Y: 1})

	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{rail, post})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 1 {
		t.Fatalf("got %d joints, want 1", len(joints))
	}

	j := joints[0]
	if j.Type != JointT {
		t.Errorf("type = %v, want t-joint", j.Type)
	}
	if j.SlotOwner != "rail" || j.TabOwner != "post" {
		t.Errorf("owners = %s/%s, want rail/post", j.SlotOwner, j.TabOwner)
	}
	if math.Abs(j.ParamSlot-0.5) > 1e-9 {
		t.Errorf("ParamSlot = %g, want 0.5", j.ParamSlot)
	}
	// The post rises from below, so it enters the rail's bottom face.
	if j.SlotFace != FaceBottom {
		t.Errorf("face = %s, want bottom", j.SlotFace)
	}
}

func TestDetectTJointOvershootingPost(t *testing.T) {
	// The post's end overshoots the rail centerline by 26mm: inside the
	// end margin only once the detect tolerance is counted. The through
	// rail must still own the slot.
	post := member("post", geom.Vec{X: 500, Z: -400}, geom.Vec{X: 500, Z: 26}, geom.Vec{Y: 1})
	rail := member("rail", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})

	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{post, rail})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 1 {
		t.Fatalf("got %d joints, want 1", len(joints))
	}

	j := joints[0]
	if j.Type != JointT {
		t.Errorf("type = %v, want t-joint", j.Type)
	}
	if j.SlotOwner != "rail" || j.TabOwner != "post" {
		t.Errorf("owners = %s/%s, want rail/post", j.SlotOwner, j.TabOwner)
	}
	if j.SlotFace != FaceBottom {
		t.Errorf("face = %s, want bottom", j.SlotFace)
	}
}

func TestDetectCorner(t *testing.T) {
	post := member("post", geom.Vec{}, geom.Vec{Z: 800}, geom.Vec{Y: 1})
	rail := member("rail", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})

	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{post, rail})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 1 {
		t.Fatalf("got %d joints, want 1", len(joints))
	}

	j := joints[0]
	if j.Type != JointCorner {
		t.Errorf("type = %v, want corner", j.Type)
	}
	// The rail's orientation lines up with the post's axis, so the rail
	// squarely receives the post's tab.
	if j.SlotOwner != "rail" || j.TabOwner != "post" {
		t.Errorf("owners = %s/%s, want rail/post", j.SlotOwner, j.TabOwner)
	}
	// The post descends onto the rail's top face.
	if j.SlotFace != FaceTop {
		t.Errorf("face = %s, want top", j.SlotFace)
	}
}

func TestDetectCrossStacked(t *testing.T) {
	lower := member("lower", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})
	upper := member("upper", geom.Vec{X: 500, Y: -500, Z: 50.8}, geom.Vec{X: 500, Y: 500, Z: 50.8}, geom.Vec{Z: 1})

	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{lower, upper})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 1 {
		t.Fatalf("got %d joints, want 1", len(joints))
	}

	j := joints[0]
	if j.Type != JointCross {
		t.Errorf("type = %v, want cross", j.Type)
	}
	// Orientation scores tie and the profiles match, so the ID order
	// breaks the tie deterministically.
	if j.SlotOwner != "lower" || j.TabOwner != "upper" {
		t.Errorf("owners = %s/%s, want lower/upper", j.SlotOwner, j.TabOwner)
	}
	if j.SlotFace != FaceTop {
		t.Errorf("face = %s, want top", j.SlotFace)
	}
}

func TestDetectIgnoresDistantMembers(t *testing.T) {
	a := member("a", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})
	b := member("b", geom.Vec{Y: 500, Z: 500}, geom.Vec{X: 1000, Y: 500, Z: 500}, geom.Vec{Z: 1})

	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{a, b})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 0 {
		t.Fatalf("got %d joints, want 0", len(joints))
	}
}

func TestDetectIgnoresCollinearMembers(t *testing.T) {
	// End to end on the same line: inline, no tab/slot geometry.
	a := member("a", geom.Vec{}, geom.Vec{X: 500}, geom.Vec{Z: 1})
	b := member("b", geom.Vec{X: 500}, geom.Vec{X: 1000}, geom.Vec{Z: 1})

	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{a, b})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 0 {
		t.Fatalf("inline members produced %d joints, want 0", len(joints))
	}
}

func TestDetectAmbiguousOrientation(t *testing.T) {
	s := math.Sqrt2 / 2
	lower := member("lower", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})
	// Perpendicular axis, but orientation twisted 45 degrees.
	upper := member("upper", geom.Vec{X: 500, Y: -500, Z: 50.8}, geom.Vec{X: 500, Y: 500, Z: 50.8}, geom.Vec{X: s, Z: s})

	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{lower, upper})
	if len(joints) != 0 {
		t.Fatalf("ambiguous pair still produced %d joints", len(joints))
	}
	var amb *AmbiguousOrientationError
	found := false
	for _, err := range errs {
		if errors.As(err, &amb) {
			found = true
		}
	}
	if !found {
		t.Fatalf("want AmbiguousOrientationError, got %v", errs)
	}
	if amb.MemberA != "lower" || amb.MemberB != "upper" {
		t.Errorf("error names %s/%s", amb.MemberA, amb.MemberB)
	}
}

func TestDetectAccumulatesAllErrors(t *testing.T) {
	// Two members with broken orientations: every error is reported,
	// not just the first.
	a := member("a", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 2})
	b := member("b", geom.Vec{X: 500, Z: -400}, geom.Vec{X: 500}, geom.Vec{Z: 3})

	_, errs := NewDetector(testRegistry(t), testOptions()).Detect([]frame.Member{a, b})
	if len(errs) < 2 {
		t.Fatalf("got %d errors, want at least 2: %v", len(errs), errs)
	}
}

func TestDetectDeterministicOrder(t *testing.T) {
	members := []frame.Member{
		member("post_b", geom.Vec{X: 700, Z: -400}, geom.Vec{X: 700}, geom.Vec{Y: 1}),
		member("rail", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1}),
		member("post_a", geom.Vec{X: 300, Z: -400}, geom.Vec{X: 300}, geom.Vec{Y: 1}),
	}
	joints, errs := NewDetector(testRegistry(t), testOptions()).Detect(members)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 2 {
		t.Fatalf("got %d joints, want 2", len(joints))
	}
	if joints[0].ID >= joints[1].ID {
		t.Errorf("joints not sorted by ID: %s, %s", joints[0].ID, joints[1].ID)
	}
}

// ---------------------------------------------------------------------------
// Owner tie-breaks
// ---------------------------------------------------------------------------

func TestStifferSectionTakesSlot(t *testing.T) {
	reg := testRegistry(t)
	heavy := testProfile("3x3")
	heavy.Geometry.OuterWidth = 76.2
	heavy.Geometry.OuterHeight = 76.2
	if err := reg.Register(heavy); err != nil {
		t.Fatal(err)
	}

	// Stacked cross with tied orientation scores; the heavier section
	// should own the slot regardless of ID order.
	lower := member("z_lower", geom.Vec{}, geom.Vec{X: 1000}, geom.Vec{Z: 1})
	lower.Profile = "3x3"
	upper := member("a_upper", geom.Vec{X: 500, Y: -500, Z: 63.5}, geom.Vec{X: 500, Y: 500, Z: 63.5}, geom.Vec{Z: 1})

	joints, errs := NewDetector(reg, testOptions()).Detect([]frame.Member{lower, upper})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(joints) != 1 {
		t.Fatalf("got %d joints, want 1", len(joints))
	}
	if joints[0].SlotOwner != "z_lower" {
		t.Errorf("slot owner = %s, want the stiffer z_lower", joints[0].SlotOwner)
	}
}
