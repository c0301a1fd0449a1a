// Package joinery implements the tab/slot planning core: joint
// detection between tube members, tab/slot geometry generation with
// corner relief, interference resolution, and end-cap notch planning.
//
// Everything here is pure computation over immutable inputs. The
// package emits 2-D outline descriptions plus depths; boolean
// realization belongs to pkg/realize and export belongs to callers.
package joinery

import (
	"github.com/chazu/steelbox/pkg/geom"
)

// JointType classifies how two members meet.
type JointType int

const (
	JointT      JointType = iota // one member terminates inside the other's body
	JointCorner                  // both members terminate at a shared point
	JointCross                   // members pass through each other
	JointInline                  // end-to-end, near parallel; no tab/slot
	JointSkew                    // non-perpendicular; no tab/slot
)

func (t JointType) String() string {
	switch t {
	case JointT:
		return "t-joint"
	case JointCorner:
		return "corner"
	case JointCross:
		return "cross"
	case JointInline:
		return "inline"
	case JointSkew:
		return "skew"
	default:
		return "unknown"
	}
}

// Face names a tab/slot face in a member's orientation frame. Tabs and
// slots live on top/bottom faces only, never sides: side walls carry
// the tube's corner radii and cannot seat a flat tab.
type Face string

const (
	FaceTop    Face = "top"    // normal is +orientation
	FaceBottom Face = "bottom" // normal is -orientation
)

// Joint is the detected relationship between two intersecting members.
// Joints are derived transiently from member geometry and recomputed
// whenever placement changes; they are never persisted on their own.
type Joint struct {
	ID        string    `json:"id"`
	Type      JointType `json:"type"`
	SlotOwner string    `json:"slot_owner"` // member that receives the slot
	TabOwner  string    `json:"tab_owner"`  // member whose end carries the tab
	At        geom.Vec  `json:"at"`         // intersection locus center
	ParamSlot float64   `json:"param_slot"` // 0-1 along the slot owner
	ParamTab  float64   `json:"param_tab"`  // 0-1 along the tab owner
	SlotFace  Face      `json:"slot_face"`
}

// Point is a 2-D point in a face-local coordinate frame, in mm.
// X runs along the member axis, Y across the face.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SegKind distinguishes outline segment types.
type SegKind int

const (
	SegLine SegKind = iota
	SegArc
)

// OutlineSeg is one segment of a closed outline path. Line segments
// use End only; arcs additionally carry their center and radius and
// run counterclockwise from the previous point to End.
type OutlineSeg struct {
	Kind   SegKind `json:"kind"`
	End    Point   `json:"end"`
	Center Point   `json:"center,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// Outline is a closed 2-D path of line and arc segments. The path
// starts at Start and each segment continues from the previous end;
// the final segment closes back to Start.
type Outline struct {
	Start Point        `json:"start"`
	Segs  []OutlineSeg `json:"segs"`
}

// CutRegion is a named 2-D region plus cut depth: a slot when cut into
// a face, a protrusion when fused onto a member end. Relief holds
// additional cut outlines (dogbone circles, t-bone extensions) that are
// unioned with the main path.
type CutRegion struct {
	Path   Outline   `json:"path"`
	Relief []Outline `json:"relief,omitempty"`
	Depth  float64   `json:"depth_mm"`
}

// TabSlotPair is the generated mating geometry for one joint. The slot
// outline is positioned on the slot owner's face, the tab outline on
// the tab owner's end; both share the same designed depth by contract.
type TabSlotPair struct {
	JointID   string `json:"joint_id"`
	SlotOwner string `json:"slot_owner"`
	TabOwner  string `json:"tab_owner"`
	SlotFace  Face   `json:"slot_face"`

	Slot CutRegion `json:"slot"`
	Tab  CutRegion `json:"tab"`

	SlotWidth float64 `json:"slot_width_mm"`
	TabWidth  float64 `json:"tab_width_mm"`
	TotalGap  float64 `json:"total_gap_mm"`

	Relief       ReliefStrategy `json:"relief"`
	ReliefRadius float64        `json:"relief_radius_mm,omitempty"`

	// AxisInterval is the slot's extent along the slot owner's
	// centerline, used for interference projection.
	AxisInterval geom.Interval `json:"axis_interval"`
}

// TubeEnd names one end of a member.
type TubeEnd struct {
	Member string `json:"member"`
	End    string `json:"end"` // "start" or "end"
}

// CapNotchPlan reserves clear zones on a tube end for a subsequently
// generated end cap. Notch intervals are measured along the tube-end
// slot-face perimeter, never overlap, and never leave the perimeter.
type CapNotchPlan struct {
	End       TubeEnd         `json:"end"`
	Perimeter float64         `json:"perimeter_mm"`
	Notches   []geom.Interval `json:"notches"`
}
