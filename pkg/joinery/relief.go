package joinery

// Outline constructors for the cut regions the generator emits. All
// outlines are centered on the face-local origin; placement happens by
// recording the slot center separately, so the same outline is reusable
// across joints.

// rectOutline builds an axis-aligned rectangle of the given length
// (along X) and width (along Y), centered at the origin, wound
// counterclockwise.
func rectOutline(length, width float64) Outline {
	hl, hw := length/2, width/2
	return Outline{
		Start: Point{X: -hl, Y: -hw},
		Segs: []OutlineSeg{
			{Kind: SegLine, End: Point{X: hl, Y: -hw}},
			{Kind: SegLine, End: Point{X: hl, Y: hw}},
			{Kind: SegLine, End: Point{X: -hl, Y: hw}},
			{Kind: SegLine, End: Point{X: -hl, Y: -hw}},
		},
	}
}

// roundedRectOutline builds a rectangle with all four corners filleted
// at radius r. The radius is clamped by the caller; here it must
// already satisfy 2r <= min(length, width).
func roundedRectOutline(length, width, r float64) Outline {
	hl, hw := length/2, width/2
	return Outline{
		Start: Point{X: -hl + r, Y: -hw},
		Segs: []OutlineSeg{
			{Kind: SegLine, End: Point{X: hl - r, Y: -hw}},
			{Kind: SegArc, End: Point{X: hl, Y: -hw + r}, Center: Point{X: hl - r, Y: -hw + r}, Radius: r},
			{Kind: SegLine, End: Point{X: hl, Y: hw - r}},
			{Kind: SegArc, End: Point{X: hl - r, Y: hw}, Center: Point{X: hl - r, Y: hw - r}, Radius: r},
			{Kind: SegLine, End: Point{X: -hl + r, Y: hw}},
			{Kind: SegArc, End: Point{X: -hl, Y: hw - r}, Center: Point{X: -hl + r, Y: hw - r}, Radius: r},
			{Kind: SegLine, End: Point{X: -hl, Y: -hw + r}},
			{Kind: SegArc, End: Point{X: -hl + r, Y: -hw}, Center: Point{X: -hl + r, Y: -hw + r}, Radius: r},
		},
	}
}

// circleOutline builds a full circle as two half arcs.
func circleOutline(center Point, r float64) Outline {
	return Outline{
		Start: Point{X: center.X - r, Y: center.Y},
		Segs: []OutlineSeg{
			{Kind: SegArc, End: Point{X: center.X + r, Y: center.Y}, Center: center, Radius: r},
			{Kind: SegArc, End: Point{X: center.X - r, Y: center.Y}, Center: center, Radius: r},
		},
	}
}

// dogboneRelief returns the four corner relief circles for a slot of
// the given dimensions. Each circle is centered on a slot corner, so
// half of it bites into the waste and half clears the inside corner.
func dogboneRelief(length, width, r float64) []Outline {
	hl, hw := length/2, width/2
	return []Outline{
		circleOutline(Point{X: -hl, Y: -hw}, r),
		circleOutline(Point{X: hl, Y: -hw}, r),
		circleOutline(Point{X: hl, Y: hw}, r),
		circleOutline(Point{X: -hl, Y: hw}, r),
	}
}

// tboneRelief returns relief extensions past the slot's short ends.
// The extension spans the full slot width, so the corner material is
// removed in the direction that does not weaken the web between slots.
func tboneRelief(length, width, r float64) []Outline {
	hl := length / 2
	left := rectOutline(2*r, width)
	right := rectOutline(2*r, width)
	return []Outline{
		translateOutline(left, -hl, 0),
		translateOutline(right, hl, 0),
	}
}

// translateOutline shifts an outline by (dx, dy).
func translateOutline(o Outline, dx, dy float64) Outline {
	shift := func(p Point) Point { return Point{X: p.X + dx, Y: p.Y + dy} }
	out := Outline{Start: shift(o.Start), Segs: make([]OutlineSeg, len(o.Segs))}
	for i, s := range o.Segs {
		out.Segs[i] = OutlineSeg{Kind: s.Kind, End: shift(s.End), Radius: s.Radius}
		if s.Kind == SegArc {
			out.Segs[i].Center = shift(s.Center)
		}
	}
	return out
}
