package frame

import (
	"fmt"

	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/profile"
)

// orientations used by the generator. Verticals place tabs on their
// front/back faces; horizontal members place tabs on top/bottom.
var (
	orientVertical   = geom.Vec{Y: 1}
	orientHorizontal = geom.Vec{Z: 1}
)

// GenerateMembers derives the full member set for a rectangular frame:
// four corner verticals, perimeter rails top and bottom, and OC-spaced
// vertical supports and cross members. The datum corner is the origin
// and every centerline is measured from it.
//
// Member order and naming are deterministic so downstream planning is
// reproducible for identical input.
func GenerateMembers(spec BoxSpec, prof *profile.TubeProfile) ([]Member, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("box spec: %w", err)
	}
	tw := prof.Geometry.OuterWidth

	// Convert overall dimensions to centerline spans.
	lx, ly, lz := spec.Length, spec.Depth, spec.Height
	switch spec.Reference {
	case RefExterior:
		lx, ly, lz = lx-tw, ly-tw, lz-tw
	case RefInterior:
		lx, ly, lz = lx+tw, ly+tw, lz+tw
	}
	if lx <= 0 || ly <= 0 || lz <= 0 {
		return nil, fmt.Errorf("box spec: dimensions too small for %s tube (centerline span %gx%gx%g)", prof.Name, lx, ly, lz)
	}

	var members []Member
	add := func(id string, role Role, a, b geom.Vec, orient geom.Vec) {
		members = append(members, Member{
			ID:          id,
			Centerline:  geom.Segment{A: a, B: b},
			Profile:     prof.Name,
			Orientation: orient,
			Role:        role,
		})
	}

	// Corner verticals.
	corners := []struct {
		id   string
		x, y float64
	}{
		{"corner_front_left", 0, 0},
		{"corner_front_right", lx, 0},
		{"corner_back_left", 0, ly},
		{"corner_back_right", lx, ly},
	}
	for _, c := range corners {
		add(c.id, RoleCorner,
			geom.Vec{X: c.x, Y: c.y},
			geom.Vec{X: c.x, Y: c.y, Z: lz},
			orientVertical)
	}

	// Length rails along X, top and bottom, front and back.
	for _, lvl := range []struct {
		id string
		z  float64
	}{{"bottom", 0}, {"top", lz}} {
		for _, face := range []struct {
			id string
			y  float64
		}{{"front", 0}, {"back", ly}} {
			add(fmt.Sprintf("rail_%s_%s", lvl.id, face.id), RoleHorizontalRail,
				geom.Vec{Y: face.y, Z: lvl.z},
				geom.Vec{X: lx, Y: face.y, Z: lvl.z},
				orientHorizontal)
		}
	}

	// Depth rails along Y, top and bottom, left and right.
	for _, lvl := range []struct {
		id string
		z  float64
	}{{"bottom", 0}, {"top", lz}} {
		for _, side := range []struct {
			id string
			x  float64
		}{{"left", 0}, {"right", lx}} {
			add(fmt.Sprintf("depthrail_%s_%s", lvl.id, side.id), RoleDepthRail,
				geom.Vec{X: side.x, Z: lvl.z},
				geom.Vec{X: side.x, Y: ly, Z: lvl.z},
				orientHorizontal)
		}
	}

	// OC-spaced vertical supports on front and back faces.
	for _, face := range []struct {
		id string
		y  float64
		oc float64
	}{{"front", 0, spec.VerticalOCFront}, {"back", ly, spec.VerticalOCBack}} {
		n := supportCount(lx, face.oc)
		for i := 1; i <= n; i++ {
			x := float64(i) * face.oc
			add(fmt.Sprintf("vert_%s_%d", face.id, i), RoleVertical,
				geom.Vec{X: x, Y: face.y},
				geom.Vec{X: x, Y: face.y, Z: lz},
				orientVertical)
		}
	}

	// OC-spaced cross members along Y on top and bottom.
	for _, lvl := range []struct {
		id string
		z  float64
		oc float64
	}{{"top", lz, spec.HorizontalOCTop}, {"bottom", 0, spec.HorizontalOCBottom}} {
		n := supportCount(lx, lvl.oc)
		for i := 1; i <= n; i++ {
			x := float64(i) * lvl.oc
			add(fmt.Sprintf("cross_%s_%d", lvl.id, i), RoleCrossMember,
				geom.Vec{X: x, Z: lvl.z},
				geom.Vec{X: x, Y: ly, Z: lvl.z},
				orientHorizontal)
		}
	}

	return members, nil
}
