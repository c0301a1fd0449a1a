package joinery

import "fmt"

// Planning failures split into two families. Geometry errors mean the
// member set itself cannot be joined as placed; layout errors mean the
// joints are sound but their generated cuts collide. Callers collect
// every error in a run before reporting, so each type carries enough
// identity to point at the offending members and joints.

// AmbiguousOrientationError reports two joined members whose
// orientation vectors are mutually inconsistent: tab and slot faces
// cannot be aligned. Planning never guesses a fixup.
type AmbiguousOrientationError struct {
	MemberA string
	MemberB string
	Reason  string
}

func (e *AmbiguousOrientationError) Error() string {
	return fmt.Sprintf("ambiguous orientation between %s and %s: %s", e.MemberA, e.MemberB, e.Reason)
}

// Kind returns the error family, "geometry" or "layout". Callers that
// group run reports by family assert for this method instead of
// enumerating every concrete type.
func (e *AmbiguousOrientationError) Kind() string { return "geometry" }

// ToleranceMismatchError reports a joint whose configured relief or
// tolerance stack cannot be honored. The plan fails rather than
// silently substituting corrected geometry.
type ToleranceMismatchError struct {
	JointID string
	Reason  string
}

func (e *ToleranceMismatchError) Error() string {
	return fmt.Sprintf("joint %s: tolerance mismatch: %s", e.JointID, e.Reason)
}

func (e *ToleranceMismatchError) Kind() string { return "geometry" }

// GapError reports a joint whose slot/tab pairing leaves no positive
// clearance, which would require press-fitting laser-cut steel.
type GapError struct {
	JointID string
	Gap     float64
}

func (e *GapError) Error() string {
	return fmt.Sprintf("joint %s: total clearance gap %.4fmm is not positive", e.JointID, e.Gap)
}

func (e *GapError) Kind() string { return "geometry" }

// SlotOverlapError reports two slots on the same member face whose
// intervals sit too close along the member axis. Web is the steel left
// between them, negative when the intervals themselves overlap.
type SlotOverlapError struct {
	Member string
	Face   Face
	JointA string
	JointB string
	Web    float64
	MinWeb float64
}

func (e *SlotOverlapError) Error() string {
	if e.Web < 0 {
		return fmt.Sprintf("member %s %s face: slots for joints %s and %s overlap", e.Member, e.Face, e.JointA, e.JointB)
	}
	return fmt.Sprintf("member %s %s face: slots for joints %s and %s leave %.2fmm of web, need %.2fmm",
		e.Member, e.Face, e.JointA, e.JointB, e.Web, e.MinWeb)
}

func (e *SlotOverlapError) Kind() string { return "layout" }

// InsufficientClearanceError reports a tube end so crowded with member
// tabs that the required cap-tab zones no longer fit between notches.
type InsufficientClearanceError struct {
	End      TubeEnd
	Needed   int
	Found    int
	MinWidth float64
}

func (e *InsufficientClearanceError) Error() string {
	return fmt.Sprintf("tube end %s/%s: need %d cap tab zones of at least %.2fmm, found %d",
		e.End.Member, e.End.End, e.Needed, e.MinWidth, e.Found)
}

func (e *InsufficientClearanceError) Kind() string { return "layout" }
