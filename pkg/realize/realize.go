// Package realize turns a plan into triangle meshes using a geometry
// kernel. One mesh is produced per member, in the member's fabrication
// frame: the tube axis along Z from 0 to the stock length, the
// orientation vector along +Y. Slots and rivet holes are cut from the
// shell and tabs are fused onto the ends.
//
// Cap notch reservations are planning metadata, not cuts, and do not
// appear in the meshes.
package realize

import (
	"fmt"
	"math"

	"github.com/chazu/steelbox/pkg/joinery"
	"github.com/chazu/steelbox/pkg/kernel"
	"github.com/chazu/steelbox/pkg/plan"
	"github.com/chazu/steelbox/pkg/profile"
)

// arcFacets is the number of line segments an outline arc is sampled
// into before extrusion.
const arcFacets = 16

// Realizer renders plan members through a geometry kernel.
type Realizer struct {
	k   kernel.Kernel
	reg *profile.Registry
}

// New builds a realizer over the given kernel and profile registry.
func New(k kernel.Kernel, reg *profile.Registry) *Realizer {
	return &Realizer{k: k, reg: reg}
}

// Plan produces one mesh per plan member, in plan order. The realizer
// is read-only and never mutates the plan.
func (r *Realizer) Plan(p *plan.Plan) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for i := range p.Members {
		mesh, err := r.Member(&p.Members[i])
		if err != nil {
			return nil, fmt.Errorf("realize member %s: %w", p.Members[i].Member.ID, err)
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// Member renders one member: tube shell, minus slots and rivet holes,
// plus end tabs.
func (r *Realizer) Member(mp *plan.MemberPlan) (*kernel.Mesh, error) {
	prof, err := r.reg.Get(mp.Member.Profile)
	if err != nil {
		return nil, err
	}
	g := prof.Geometry
	length := mp.Member.Length()

	solid := r.k.Tube(g.OuterWidth, g.OuterHeight, g.WallThickness, g.CornerRadius, length)

	for i := range mp.Slots {
		cut, err := r.slotSolid(&mp.Slots[i], g)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", mp.Slots[i].JointID, err)
		}
		solid = r.k.Difference(solid, cut)
	}

	for i := range mp.Tabs {
		tab, err := r.tabSolid(&mp.Tabs[i], g, length)
		if err != nil {
			return nil, fmt.Errorf("tab %s: %w", mp.Tabs[i].JointID, err)
		}
		solid = r.k.Union(solid, tab)
	}

	for _, h := range mp.RivetHoles {
		solid = r.k.Difference(solid, r.holeSolid(h.X, h.Y, h.Diameter, g.OuterHeight))
	}

	mesh, err := r.k.ToMesh(solid)
	if err != nil {
		return nil, err
	}
	mesh.Part = mp.Member.ID
	return mesh, nil
}

// slotSolid builds the cutting solid for one placed slot: the outline
// and its relief, extruded through the wall and seated in the top or
// bottom face.
//
// Face-local axes map into the member frame as outline X to the tube
// axis (Z) and outline Y across the face (X); the extrusion runs along
// the face normal.
func (r *Realizer) slotSolid(s *plan.PlacedSlot, g profile.Geometry) (kernel.Solid, error) {
	cut, err := r.regionSolid(s.Region, s.Region.Depth)
	if err != nil {
		return nil, err
	}

	switch s.Face {
	case joinery.FaceTop:
		cut = r.k.Rotate(cut, 90, 90, 0)
		cut = r.k.Translate(cut, 0, g.OuterHeight/2, s.Center)
	case joinery.FaceBottom:
		cut = r.k.Rotate(cut, -90, -90, 0)
		cut = r.k.Translate(cut, 0, -g.OuterHeight/2, s.Center)
	default:
		return nil, fmt.Errorf("unknown face %q", s.Face)
	}
	return cut, nil
}

// tabSolid builds the protruding tab plate for one member end. The tab
// plate is the outline extruded by the wall thickness, lying in the
// orientation-side wall and extending axially past the end by the
// designed engagement depth.
func (r *Realizer) tabSolid(t *plan.PlacedTab, g profile.Geometry, length float64) (kernel.Solid, error) {
	tab, err := r.regionSolid(t.Region, g.WallThickness)
	if err != nil {
		return nil, err
	}
	tab = r.k.Rotate(tab, -90, -90, 0)

	depth := t.Region.Depth
	z := length + depth/2
	if t.End == "start" {
		z = -depth / 2
	}
	return r.k.Translate(tab, 0, g.OuterHeight/2-g.WallThickness, z), nil
}

// holeSolid builds a through-hole cylinder normal to the top face at
// axial position x, lateral offset y.
func (r *Realizer) holeSolid(x, y, diameter, outerH float64) kernel.Solid {
	// Oversize slightly so the boolean clears both walls.
	cyl := r.k.Cylinder(outerH+2, diameter/2, 0)
	cyl = r.k.Rotate(cyl, 90, 0, 0)
	return r.k.Translate(cyl, y, 0, x)
}

// regionSolid extrudes a cut region's outline, unioned with its relief
// outlines, along Z from 0 to depth.
func (r *Realizer) regionSolid(region joinery.CutRegion, depth float64) (kernel.Solid, error) {
	solid, err := r.k.Extrude(OutlinePoints(region.Path), depth)
	if err != nil {
		return nil, err
	}
	for _, relief := range region.Relief {
		rs, err := r.k.Extrude(OutlinePoints(relief), depth)
		if err != nil {
			return nil, err
		}
		solid = r.k.Union(solid, rs)
	}
	return solid, nil
}

// OutlinePoints flattens an outline into a polygon, sampling each arc
// into arcFacets line segments.
func OutlinePoints(o joinery.Outline) []kernel.Point2 {
	pts := []kernel.Point2{{X: o.Start.X, Y: o.Start.Y}}
	prev := o.Start
	for _, seg := range o.Segs {
		if seg.Kind == joinery.SegArc {
			pts = append(pts, sampleArc(prev, seg)...)
		}
		pts = append(pts, kernel.Point2{X: seg.End.X, Y: seg.End.Y})
		prev = seg.End
	}
	// Drop the closing duplicate if the path returns to the start.
	last := pts[len(pts)-1]
	if math.Abs(last.X-o.Start.X) < 1e-12 && math.Abs(last.Y-o.Start.Y) < 1e-12 {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// sampleArc returns the interior points of a counterclockwise arc from
// prev to seg.End around seg.Center, excluding both endpoints.
func sampleArc(prev joinery.Point, seg joinery.OutlineSeg) []kernel.Point2 {
	a0 := math.Atan2(prev.Y-seg.Center.Y, prev.X-seg.Center.X)
	a1 := math.Atan2(seg.End.Y-seg.Center.Y, seg.End.X-seg.Center.X)
	if a1 <= a0+1e-12 {
		a1 += 2 * math.Pi
	}
	pts := make([]kernel.Point2, 0, arcFacets-1)
	for i := 1; i < arcFacets; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(arcFacets)
		pts = append(pts, kernel.Point2{
			X: seg.Center.X + seg.Radius*math.Cos(a),
			Y: seg.Center.Y + seg.Radius*math.Sin(a),
		})
	}
	return pts
}
