// Package kernel defines the abstract geometry kernel interface.
// Implementations provide solid modeling and boolean operations behind
// this interface so the realization layer can swap backends without
// changing the rest of the system.
package kernel

// Point2 is a 2-D polygon vertex, in mm.
type Point2 struct {
	X, Y float64
}

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Box and Tube span [0, dim] on each axis; Tube runs
	// along Z with its wall shell centered on the XY origin.
	Box(x, y, z float64) Solid
	Tube(outerW, outerH, wall, cornerRadius, length float64) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Extrude sweeps a counterclockwise polygon along Z from 0 to
	// depth. The polygon must be simple and non-empty.
	Extrude(poly []Point2, depth float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
