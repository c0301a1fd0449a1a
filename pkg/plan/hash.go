package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/chazu/steelbox/pkg/holes"
	"github.com/chazu/steelbox/pkg/joinery"
)

// layoutHash fingerprints a member's cut geometry: stock length, slots
// (face, center, region), tabs, and cap notches. Member identity and
// placement are deliberately excluded, so two members cut identically
// hash identically and collapse to one BOM line.
//
// Floats are quantized to 1e-6 mm before hashing so that equal
// geometry arrived at through different arithmetic still matches.
func layoutHash(mp *MemberPlan) string {
	type slotKey struct {
		Face   joinery.Face      `json:"face"`
		Center int64             `json:"center"`
		Region joinery.CutRegion `json:"region"`
	}
	type tabKey struct {
		End    string            `json:"end"`
		Region joinery.CutRegion `json:"region"`
	}
	doc := struct {
		Profile string                 `json:"profile"`
		Length  int64                  `json:"length"`
		Slots   []slotKey              `json:"slots"`
		Tabs    []tabKey               `json:"tabs"`
		Notches []joinery.CapNotchPlan `json:"notches"`
		Holes   []holes.Hole           `json:"holes"`
	}{
		Profile: mp.Member.Profile,
		Length:  quantize(mp.Member.Length()),
	}
	for _, s := range mp.Slots {
		doc.Slots = append(doc.Slots, slotKey{Face: s.Face, Center: quantize(s.Center), Region: s.Region})
	}
	for _, t := range mp.Tabs {
		doc.Tabs = append(doc.Tabs, tabKey{End: t.End, Region: t.Region})
	}
	for _, n := range mp.CapNotches {
		doc.Notches = append(doc.Notches, joinery.CapNotchPlan{Perimeter: n.Perimeter, Notches: n.Notches})
	}
	doc.Holes = mp.RivetHoles

	data, err := json.Marshal(doc)
	if err != nil {
		// Marshal of these plain structs cannot fail; keep the hash
		// total anyway.
		data = []byte(fmt.Sprintf("%+v", doc))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func quantize(v float64) int64 {
	return int64(math.Round(v * 1e6))
}
