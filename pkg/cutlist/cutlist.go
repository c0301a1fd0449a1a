// Package cutlist rolls a plan up into a bill of materials. Members
// that share a profile, stock length, and cut layout are one line item
// with a quantity; the layout hash is the dedup key's geometry part, so
// two members are never merged on length alone.
package cutlist

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/steelbox/pkg/plan"
	"github.com/chazu/steelbox/pkg/profile"
)

// Line is one BOM row.
type Line struct {
	Profile    string   `json:"profile"`
	LengthMM   float64  `json:"length_mm"`
	LayoutHash string   `json:"layout_hash"`
	Quantity   int      `json:"quantity"`
	Members    []string `json:"members"`
	SlotCount  int      `json:"slot_count"`
	TabCount   int      `json:"tab_count"`
	WeightKG   float64  `json:"weight_kg,omitempty"`
}

// BOM is the rolled-up cut list for one plan.
type BOM struct {
	RunID string `json:"run_id"`
	Lines []Line `json:"lines"`
}

// TotalParts returns the total member count across all lines.
func (b *BOM) TotalParts() int {
	n := 0
	for _, l := range b.Lines {
		n += l.Quantity
	}
	return n
}

// Build rolls the plan up into BOM lines, sorted by profile, then
// length descending (long stock cuts first), then hash. Weight is
// filled in when the profile carries a material density.
func Build(p *plan.Plan, reg *profile.Registry) (*BOM, error) {
	type key struct {
		profile string
		length  int64
		hash    string
	}
	groups := make(map[key]*Line)

	for i := range p.Members {
		mp := &p.Members[i]
		k := key{
			profile: mp.Member.Profile,
			length:  int64(math.Round(mp.Member.Length() * 1e3)),
			hash:    mp.LayoutHash,
		}
		line, ok := groups[k]
		if !ok {
			line = &Line{
				Profile:    mp.Member.Profile,
				LengthMM:   mp.Member.Length(),
				LayoutHash: mp.LayoutHash,
				SlotCount:  len(mp.Slots),
				TabCount:   len(mp.Tabs),
			}
			groups[k] = line
		}
		line.Quantity++
		line.Members = append(line.Members, mp.Member.ID)
	}

	bom := &BOM{RunID: p.RunID}
	for _, line := range groups {
		sort.Strings(line.Members)
		if err := fillWeight(line, reg); err != nil {
			return nil, err
		}
		bom.Lines = append(bom.Lines, *line)
	}
	sort.Slice(bom.Lines, func(i, j int) bool {
		a, b := bom.Lines[i], bom.Lines[j]
		if a.Profile != b.Profile {
			return a.Profile < b.Profile
		}
		if a.LengthMM != b.LengthMM {
			return a.LengthMM > b.LengthMM
		}
		return a.LayoutHash < b.LayoutHash
	})
	return bom, nil
}

// fillWeight estimates line weight from the tube's shell cross-section
// and material density. Profiles without a density are left at zero.
func fillWeight(line *Line, reg *profile.Registry) error {
	prof, err := reg.Get(line.Profile)
	if err != nil {
		return fmt.Errorf("bom line %s: %w", line.Profile, err)
	}
	density := prof.Material.Density
	if density <= 0 {
		return nil
	}
	g := prof.Geometry
	outer := g.OuterWidth * g.OuterHeight
	inner := g.InnerWidth() * g.InnerHeight()
	areaM2 := (outer - inner) / 1e6
	lengthM := line.LengthMM / 1e3
	line.WeightKG = areaM2 * lengthM * density * float64(line.Quantity)
	return nil
}
