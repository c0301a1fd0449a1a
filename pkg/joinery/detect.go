package joinery

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/profile"
	"gonum.org/v1/gonum/spatial/r3"
)

// Detector derives joints from member centerlines and profile
// envelopes. Detection is pairwise and purely geometric; roles on the
// members are never consulted.
type Detector struct {
	reg  *profile.Registry
	opts Options
}

// NewDetector builds a detector over the given profile registry.
// Options must already be validated.
func NewDetector(reg *profile.Registry, opts Options) *Detector {
	return &Detector{reg: reg, opts: opts}
}

// Detect finds every joint in the member set. All detection errors are
// accumulated and returned together; joints that detect cleanly are
// still returned alongside the errors so a report can show both.
//
// The returned joints are sorted by ID, so identical input always
// yields an identical plan.
func (d *Detector) Detect(members []frame.Member) ([]Joint, []error) {
	var joints []Joint
	var errs []error

	for _, m := range members {
		if err := m.ValidateOrientation(); err != nil {
			errs = append(errs, err)
		}
	}

	for i := range members {
		for j := i + 1; j < len(members); j++ {
			joint, err := d.detectPair(&members[i], &members[j])
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if joint == nil {
				continue
			}
			joints = append(joints, *joint)
		}
	}

	sort.Slice(joints, func(a, b int) bool { return joints[a].ID < joints[b].ID })
	return joints, errs
}

// detectPair classifies the relationship between two members. A nil
// joint with nil error means the members do not meet.
func (d *Detector) detectPair(a, b *frame.Member) (*Joint, error) {
	pa, err := d.reg.Get(a.Profile)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", a.ID, err)
	}
	pb, err := d.reg.Get(b.Profile)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", b.ID, err)
	}

	t1mm, t2mm, dist := geom.ClosestApproach(a.Centerline, b.Centerline)
	envelope := envelopeRadius(pa) + envelopeRadius(pb) + d.opts.DetectTolerance
	if dist > envelope {
		return nil, nil
	}

	// Normalize approach parameters to [0,1] along each member and
	// reject approaches that fall beyond the segments themselves.
	t1 := t1mm / math.Max(a.Length(), geom.Eps)
	t2 := t2mm / math.Max(b.Length(), geom.Eps)
	m1 := envelope / math.Max(a.Length(), geom.Eps)
	m2 := envelope / math.Max(b.Length(), geom.Eps)
	if t1 < -m1 || t1 > 1+m1 || t2 < -m2 || t2 > 1+m2 {
		return nil, nil
	}
	t1 = geom.Clamp(t1, 0, 1)
	t2 = geom.Clamp(t2, 0, 1)

	dirA, dirB := a.Dir(), b.Dir()
	axisDot := math.Abs(r3.Dot(dirA, dirB))

	kind := classify(a, b, pa, pb, t1, t2, axisDot, d.opts)
	if kind == JointInline || kind == JointSkew {
		// Near-parallel and non-perpendicular meetings are recorded
		// nowhere; they carry no tab/slot geometry.
		return nil, nil
	}

	if err := checkOrientations(a, b, d.opts.OrientationEps); err != nil {
		return nil, err
	}

	slot, tab, ts, tt := assignOwners(a, b, pa, pb, kind, t1, t2, d.opts)

	slotPt := slot.Centerline.PointAt(ts)
	tabPt := tab.Centerline.PointAt(tt)
	face, err := slotFace(slot, tab, slotPt, tabPt, ts, tt, d.opts.OrientationEps)
	if err != nil {
		return nil, err
	}

	at := slotPt
	return &Joint{
		ID:        fmt.Sprintf("%s->%s", tab.ID, slot.ID),
		Type:      kind,
		SlotOwner: slot.ID,
		TabOwner:  tab.ID,
		At:        at,
		ParamSlot: ts,
		ParamTab:  tt,
		SlotFace:  face,
	}, nil
}

// envelopeRadius is half the profile's largest outer dimension: the
// farthest any steel sits from the centerline.
func envelopeRadius(p *profile.TubeProfile) float64 {
	return math.Max(p.Geometry.OuterWidth, p.Geometry.OuterHeight) / 2
}

// classify decides the joint type from where the closest approach falls
// along each member. A member "ends at" the joint when the approach
// parameter sits within its own envelope of an endpoint.
func classify(a, b *frame.Member, pa, pb *profile.TubeProfile, t1, t2, axisDot float64, opts Options) JointType {
	if axisDot > 1-opts.OrientationEps {
		return JointInline
	}
	if axisDot > opts.OrientationEps {
		return JointSkew
	}

	aEnds := endsAt(t1, a.Length(), envelopeRadius(pb)+opts.DetectTolerance)
	bEnds := endsAt(t2, b.Length(), envelopeRadius(pa)+opts.DetectTolerance)
	switch {
	case aEnds && bEnds:
		return JointCorner
	case aEnds || bEnds:
		return JointT
	default:
		return JointCross
	}
}

func endsAt(t, length, margin float64) bool {
	if length <= 0 {
		return true
	}
	m := margin / length
	return t <= m || t >= 1-m
}

// checkOrientations verifies the two members' orientation vectors are
// mutually parallel or perpendicular. Anything between means the faces
// cannot be aligned, and planning fails rather than picking a side.
func checkOrientations(a, b *frame.Member, eps float64) error {
	dot := math.Abs(r3.Dot(a.Orientation, b.Orientation))
	if dot > eps && dot < 1-eps {
		return &AmbiguousOrientationError{
			MemberA: a.ID,
			MemberB: b.ID,
			Reason:  fmt.Sprintf("orientation vectors are neither parallel nor perpendicular (|dot|=%.4f)", dot),
		}
	}
	return nil
}

// assignOwners picks which member receives the slot. A T-joint is
// unambiguous: the through member has body at the joint, so it takes
// the slot and the terminating member carries the tab. For corners and
// crossings, the member whose orientation is closer to the other's axis
// takes the slot; its face squarely receives the approaching tab. Ties
// fall back to the stiffer section, then to member ID order.
func assignOwners(a, b *frame.Member, pa, pb *profile.TubeProfile, kind JointType, t1, t2 float64, opts Options) (slot, tab *frame.Member, ts, tt float64) {
	aWins := func() (slot, tab *frame.Member, ts, tt float64) { return a, b, t1, t2 }
	bWins := func() (slot, tab *frame.Member, ts, tt float64) { return b, a, t2, t1 }

	if kind == JointT {
		// Same end test classify used, margin included, so the member
		// that made this a T is the one that carries the tab.
		aEnds := endsAt(t1, a.Length(), envelopeRadius(pb)+opts.DetectTolerance)
		if aEnds {
			return bWins()
		}
		return aWins()
	}

	eps := opts.OrientationEps
	scoreA := math.Abs(r3.Dot(a.Orientation, b.Dir()))
	scoreB := math.Abs(r3.Dot(b.Orientation, a.Dir()))
	switch {
	case scoreA > scoreB+eps:
		return aWins()
	case scoreB > scoreA+eps:
		return bWins()
	}

	sa, sb := pa.StiffnessProxy(), pb.StiffnessProxy()
	switch {
	case sa > sb:
		return aWins()
	case sb > sa:
		return bWins()
	}

	if a.ID <= b.ID {
		return aWins()
	}
	return bWins()
}

// slotFace picks which face of the slot owner the tab enters. The tab
// approaches along the tab owner's axis (toward the joint); that
// approach must line up with the slot owner's orientation, because tabs
// seat only on top or bottom faces.
func slotFace(slot, tab *frame.Member, slotPt, tabPt geom.Vec, ts, tt float64, eps float64) (Face, error) {
	approach := tab.Dir()
	if tt <= 0.5 {
		approach = r3.Scale(-1, approach)
	}

	// A crossing tab has no approaching end; side the face from where
	// the tab's centerline sits relative to the slot owner's face plane.
	offset := r3.Sub(tabPt, slotPt)
	if side := r3.Dot(offset, slot.Orientation); math.Abs(side) > geom.Eps {
		if side > 0 {
			return FaceTop, nil
		}
		return FaceBottom, nil
	}

	align := r3.Dot(approach, slot.Orientation)
	if math.Abs(align) < 1-10*eps {
		return "", &AmbiguousOrientationError{
			MemberA: slot.ID,
			MemberB: tab.ID,
			Reason:  fmt.Sprintf("tab approaches a side face of %s (approach·orientation=%.4f)", slot.ID, align),
		}
	}
	if align < 0 {
		// Approaching against the orientation normal: entering the top.
		return FaceTop, nil
	}
	return FaceBottom, nil
}
