package plan

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/holes"
	"github.com/chazu/steelbox/pkg/joinery"
	"github.com/chazu/steelbox/pkg/profile"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pipeline runs joint detection, tab/slot generation, interference
// resolution, and cap notch planning as one pass over a member set.
//
// The pipeline never stops at the first failure: every stage reports
// all of its errors, and the partial plan is returned alongside them so
// the operator sees the whole picture in one run.
type Pipeline struct {
	reg    *profile.Registry
	opts   joinery.Options
	rivets *holes.RowConfig
	logger *zap.Logger
}

// NewPipeline builds a pipeline. A nil logger disables logging.
func NewPipeline(reg *profile.Registry, opts joinery.Options, logger *zap.Logger) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("joinery options: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{reg: reg, opts: opts, logger: logger}, nil
}

// EnableRivets adds a rivet hole row along every rail member in
// subsequent runs. Disabled unless configured.
func (p *Pipeline) EnableRivets(cfg holes.RowConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("rivet row: %w", err)
	}
	p.rivets = &cfg
	return nil
}

// Run plans the given members. The returned plan is complete for every
// member and joint that planned cleanly; the error slice carries every
// failure encountered across all stages.
func (p *Pipeline) Run(members []frame.Member) (*Plan, []error) {
	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID))
	log.Info("planning run started", zap.Int("members", len(members)))

	var errs []error

	byID := make(map[string]*frame.Member, len(members))
	for i := range members {
		m := &members[i]
		if _, dup := byID[m.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate member id %s", m.ID))
			continue
		}
		byID[m.ID] = m
	}

	joints, detectErrs := joinery.NewDetector(p.reg, p.opts).Detect(members)
	errs = append(errs, detectErrs...)
	log.Info("joints detected", zap.Int("joints", len(joints)), zap.Int("errors", len(detectErrs)))

	pairs, genErrs := joinery.NewGenerator(p.reg, p.opts).Generate(joints, byID)
	errs = append(errs, genErrs...)

	pairs, resolveErrs := joinery.Resolve(pairs, p.opts)
	errs = append(errs, resolveErrs...)

	jointByID := make(map[string]*joinery.Joint, len(joints))
	for i := range joints {
		jointByID[joints[i].ID] = &joints[i]
	}

	plan := &Plan{RunID: runID, Options: p.opts, Joints: joints}
	memberPlans := make(map[string]*MemberPlan, len(members))
	for _, m := range members {
		if byID[m.ID] == nil {
			continue
		}
		memberPlans[m.ID] = &MemberPlan{Member: m}
	}

	for _, pair := range pairs {
		if mp := memberPlans[pair.SlotOwner]; mp != nil {
			center := (pair.AxisInterval.Start + pair.AxisInterval.End) / 2
			mp.Slots = append(mp.Slots, PlacedSlot{
				JointID: pair.JointID,
				Face:    pair.SlotFace,
				Center:  center,
				Region:  pair.Slot,
				Extent:  pair.AxisInterval,
			})
		}
		if mp := memberPlans[pair.TabOwner]; mp != nil {
			j := jointByID[pair.JointID]
			end := "start"
			if j != nil && j.ParamTab > 0.5 {
				end = "end"
			}
			mp.Tabs = append(mp.Tabs, PlacedTab{
				JointID: pair.JointID,
				End:     end,
				Region:  pair.Tab,
			})
		}
	}

	notchErrs := p.planCapNotches(memberPlans, pairs, jointByID, byID)
	errs = append(errs, notchErrs...)

	if p.rivets != nil {
		for _, mp := range memberPlans {
			role := mp.Member.Role
			if role != frame.RoleHorizontalRail && role != frame.RoleDepthRail {
				continue
			}
			row, err := holes.Row(mp.Member.Length(), *p.rivets)
			if err != nil {
				errs = append(errs, fmt.Errorf("rivet row on %s: %w", mp.Member.ID, err))
				continue
			}
			mp.RivetHoles = row
		}
	}

	for _, mp := range memberPlans {
		sortMemberPlan(mp)
		mp.LayoutHash = layoutHash(mp)
		plan.Members = append(plan.Members, *mp)
	}
	sort.Slice(plan.Members, func(i, j int) bool {
		return plan.Members[i].Member.ID < plan.Members[j].Member.ID
	})

	log.Info("planning run finished",
		zap.Int("pairs", len(pairs)),
		zap.Int("errors", len(errs)))
	return plan, errs
}

// planCapNotches reserves end-cap clear zones on every member end that
// carries tabs. Tab intervals are mapped onto the tube-end perimeter by
// face: top, right, bottom, left, walked counterclockwise from the top
// face's leading edge.
func (p *Pipeline) planCapNotches(memberPlans map[string]*MemberPlan, pairs []joinery.TabSlotPair, jointByID map[string]*joinery.Joint, byID map[string]*frame.Member) []error {
	var errs []error

	type endKey struct {
		member string
		end    string
	}
	tabsAt := make(map[endKey][]geom.Interval)
	for _, pair := range pairs {
		j := jointByID[pair.JointID]
		if j == nil {
			continue
		}
		tab := byID[pair.TabOwner]
		slot := byID[pair.SlotOwner]
		if tab == nil || slot == nil {
			continue
		}
		end := "start"
		if j.ParamTab > 0.5 {
			end = "end"
		}
		prof, err := p.reg.Get(tab.Profile)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		center, ok := perimeterCenter(tab, slot, prof)
		if !ok {
			continue
		}
		half := pair.TabWidth / 2
		k := endKey{tab.ID, end}
		tabsAt[k] = append(tabsAt[k], geom.Interval{Start: center - half, End: center + half})
	}

	keys := make([]endKey, 0, len(tabsAt))
	for k := range tabsAt {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].member != keys[j].member {
			return keys[i].member < keys[j].member
		}
		return keys[i].end < keys[j].end
	})

	for _, k := range keys {
		mp := memberPlans[k.member]
		if mp == nil {
			continue
		}
		prof, err := p.reg.Get(mp.Member.Profile)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		perimeter := 2 * (prof.Geometry.OuterWidth + prof.Geometry.OuterHeight)
		notchPlan, err := joinery.PlanCapNotches(
			joinery.TubeEnd{Member: k.member, End: k.end},
			perimeter, tabsAt[k], p.opts)
		if err != nil {
			errs = append(errs, err)
		}
		mp.CapNotches = append(mp.CapNotches, notchPlan)
	}
	return errs
}

// perimeterCenter locates a tab's midpoint on the tab owner's tube-end
// perimeter. The tab is a protrusion of the tube wall lying parallel to
// the slot face, so the wall is found by expressing the slot's width
// direction in the tab owner's cross-section frame (orientation up,
// axis x up as side). Perimeter runs top, right, bottom, left.
func perimeterCenter(tab, slot *frame.Member, prof *profile.TubeProfile) (float64, bool) {
	widthDir := r3.Cross(slot.Dir(), slot.Orientation)

	w, h := prof.Geometry.OuterWidth, prof.Geometry.OuterHeight
	up := tab.Orientation
	side := r3.Cross(tab.Dir(), up)

	switch {
	case math.Abs(r3.Dot(widthDir, up)) > 0.5:
		return w / 2, true // top wall
	case math.Abs(r3.Dot(widthDir, side)) > 0.5:
		return w + h/2, true // right wall
	}
	return 0, false
}

// sortMemberPlan orders cuts deterministically: slots by face then
// center, tabs by end then joint.
func sortMemberPlan(mp *MemberPlan) {
	sort.Slice(mp.Slots, func(i, j int) bool {
		a, b := mp.Slots[i], mp.Slots[j]
		if a.Face != b.Face {
			return a.Face < b.Face
		}
		if math.Abs(a.Center-b.Center) > geom.Eps {
			return a.Center < b.Center
		}
		return a.JointID < b.JointID
	})
	sort.Slice(mp.Tabs, func(i, j int) bool {
		a, b := mp.Tabs[i], mp.Tabs[j]
		if a.End != b.End {
			return a.End < b.End
		}
		return a.JointID < b.JointID
	})
	sort.Slice(mp.CapNotches, func(i, j int) bool {
		return mp.CapNotches[i].End.End < mp.CapNotches[j].End.End
	})
}
