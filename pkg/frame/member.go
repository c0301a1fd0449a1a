// Package frame defines tube members and the parametric box layout
// that places them. Members carry resolved 3-D placements; all joinery
// decisions happen downstream in pkg/joinery.
package frame

import (
	"fmt"
	"math"

	"github.com/chazu/steelbox/pkg/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Role tags what structural job a member does. Roles are advisory for
// naming and BOM grouping; joint detection works from geometry alone.
type Role int

const (
	RoleCorner Role = iota
	RoleVertical
	RoleHorizontalRail
	RoleDepthRail
	RoleCrossMember
)

func (r Role) String() string {
	switch r {
	case RoleCorner:
		return "corner"
	case RoleVertical:
		return "vertical"
	case RoleHorizontalRail:
		return "horizontal-rail"
	case RoleDepthRail:
		return "depth-rail"
	case RoleCrossMember:
		return "cross-member"
	default:
		return "unknown"
	}
}

// Member is a straight tube segment with a resolved placement.
type Member struct {
	ID          string       `json:"id"`
	Centerline  geom.Segment `json:"centerline"`
	Profile     string       `json:"profile"` // registered TubeProfile name
	Orientation geom.Vec     `json:"orientation"`
	Role        Role         `json:"role"`
}

// Length returns the member's centerline length in mm.
func (m *Member) Length() float64 {
	return m.Centerline.Length()
}

// Dir returns the member's unit axis direction.
func (m *Member) Dir() geom.Vec {
	return m.Centerline.Dir()
}

// ValidateOrientation checks that the orientation vector is a unit
// vector perpendicular to the member axis. Tab placement is undefined
// without a well-formed orientation, so this is checked up front rather
// than silently normalized.
func (m *Member) ValidateOrientation() error {
	n := r3.Norm(m.Orientation)
	if math.Abs(n-1) > 1e-6 {
		return fmt.Errorf("member %s: orientation vector has length %.6f, want unit", m.ID, n)
	}
	if dot := math.Abs(r3.Dot(m.Orientation, m.Dir())); dot > 1e-6 {
		return fmt.Errorf("member %s: orientation vector is not perpendicular to axis (dot=%.6f)", m.ID, dot)
	}
	return nil
}
