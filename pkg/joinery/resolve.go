package joinery

import (
	"sort"

	"github.com/chazu/steelbox/pkg/geom"
)

// Resolve checks every member face for colliding slots. Slots are
// projected onto a 1-D interval along the owning member's axis and
// adjacent intervals must keep at least MinSlotWeb of steel between
// them.
//
// With AutoOffset disabled (the default), every collision is reported
// as a SlotOverlapError and the input pairs are returned untouched.
// With it enabled, later slots are shifted along the axis until the web
// requirement holds, and the adjusted pairs are returned; shifts
// cascade down the face in axis order so earlier slots never move.
//
// The returned pairs preserve the input order. Identical input always
// produces identical output.
func Resolve(pairs []TabSlotPair, opts Options) ([]TabSlotPair, []error) {
	out := make([]TabSlotPair, len(pairs))
	copy(out, pairs)

	// Group pair indices per (member, face), keeping them sorted by
	// interval start so the sweep is deterministic.
	type faceKey struct {
		member string
		face   Face
	}
	groups := make(map[faceKey][]int)
	for i := range out {
		k := faceKey{out[i].SlotOwner, out[i].SlotFace}
		groups[k] = append(groups[k], i)
	}
	keys := make([]faceKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].member != keys[b].member {
			return keys[a].member < keys[b].member
		}
		return keys[a].face < keys[b].face
	})

	var errs []error
	for _, k := range keys {
		idx := groups[k]
		sort.Slice(idx, func(a, b int) bool {
			ia, ib := out[idx[a]].AxisInterval, out[idx[b]].AxisInterval
			if ia.Start != ib.Start {
				return ia.Start < ib.Start
			}
			return out[idx[a]].JointID < out[idx[b]].JointID
		})

		for n := 1; n < len(idx); n++ {
			prev, cur := &out[idx[n-1]], &out[idx[n]]
			minStart := prev.AxisInterval.End + opts.MinSlotWeb
			if cur.AxisInterval.Start >= minStart {
				continue
			}
			if !opts.AutoOffset {
				errs = append(errs, &SlotOverlapError{
					Member: k.member,
					Face:   k.face,
					JointA: prev.JointID,
					JointB: cur.JointID,
					Web:    cur.AxisInterval.Start - prev.AxisInterval.End,
					MinWeb: opts.MinSlotWeb,
				})
				continue
			}
			shift := minStart - cur.AxisInterval.Start
			cur.AxisInterval = geom.Interval{
				Start: cur.AxisInterval.Start + shift,
				End:   cur.AxisInterval.End + shift,
			}
		}
	}
	return out, errs
}
