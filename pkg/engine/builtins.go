package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/steelbox/pkg/frame"
	"github.com/chazu/steelbox/pkg/geom"
	"github.com/chazu/steelbox/pkg/joinery"
	"github.com/chazu/steelbox/pkg/profile"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms design Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: square-tube -> square_tube
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpProfile wraps a registered TubeProfile reference.
type sexpProfile struct {
	name string
}

func (p *sexpProfile) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(profile %q)", p.name)
}
func (p *sexpProfile) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a 3-D vector.
type sexpVec3 struct {
	vec geom.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// float extracts a keyword float argument into dst, if present.
func (a kwArgs) float(name string, dst *float64) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = f
	return nil
}

// str extracts a keyword string argument into dst, if present.
func (a kwArgs) str(name string, dst *string) error {
	v, ok := a.kw[name]
	if !ok {
		return nil
	}
	s, err := toString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = s
	return nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_dogbone) and plain strings.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toProfileRef extracts a profile name from a sexpProfile or string.
func toProfileRef(s zygo.Sexp) (string, error) {
	if p, ok := s.(*sexpProfile); ok {
		return p.name, nil
	}
	return toString(s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the design DSL builtins into a zygomys
// environment. The builtins populate the provided Design during
// evaluation.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, d *Design) {

	// -----------------------------------------------------------------------
	// (profile :name "2x2x0.125"
	//          :outer-width 50.8 :outer-height 50.8 :wall 3.175
	//          :corner-radius 4.76
	//          :slot-clearance 0.10 :tab-undersize 0.05 :kerf 0.15
	//          :relief-radius 1.5 :finish-allowance 0.05
	//          :grade "A500B" :density 7850)
	// -----------------------------------------------------------------------
	env.AddFunction("profile", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var p profile.TubeProfile

		for _, bind := range []struct {
			kw  string
			dst *float64
		}{
			{"outer-width", &p.Geometry.OuterWidth},
			{"outer-height", &p.Geometry.OuterHeight},
			{"wall", &p.Geometry.WallThickness},
			{"corner-radius", &p.Geometry.CornerRadius},
			{"slot-clearance", &p.Tolerances.SlotClearance},
			{"tab-undersize", &p.Tolerances.TabUndersize},
			{"kerf", &p.Tolerances.KerfCompensation},
			{"relief-radius", &p.Tolerances.CornerReliefRadius},
			{"finish-allowance", &p.Tolerances.FinishAllowance},
			{"density", &p.Material.Density},
		} {
			if err := pa.float(bind.kw, bind.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("profile: %w", err)
			}
		}
		for _, bind := range []struct {
			kw  string
			dst *string
		}{
			{"name", &p.Name},
			{"description", &p.Description},
			{"grade", &p.Material.Grade},
			{"manufacturer", &p.Metadata.Manufacturer},
			{"process", &p.Metadata.CuttingProcess},
		} {
			if err := pa.str(bind.kw, bind.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("profile: %w", err)
			}
		}
		if p.Name == "" {
			return zygo.SexpNull, fmt.Errorf("profile: :name is required")
		}

		d.Profiles = append(d.Profiles, p)
		return &sexpProfile{name: p.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (square-tube :size 2 :wall 0.125
	//              :slot-clearance 0.10 :tab-undersize 0.05 :kerf 0.15)
	//
	// Imperial convenience constructor; dimensions in inches, tolerances
	// in mm. Registered as "square_tube" after preprocessing.
	// -----------------------------------------------------------------------
	env.AddFunction("square_tube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var size, wall float64
		if err := pa.float("size", &size); err != nil {
			return zygo.SexpNull, fmt.Errorf("square-tube: %w", err)
		}
		if err := pa.float("wall", &wall); err != nil {
			return zygo.SexpNull, fmt.Errorf("square-tube: %w", err)
		}
		if size <= 0 || wall <= 0 {
			return zygo.SexpNull, fmt.Errorf("square-tube: :size and :wall are required and must be positive")
		}

		p := profile.SquareTube(size, wall)
		for _, bind := range []struct {
			kw  string
			dst *float64
		}{
			{"slot-clearance", &p.Tolerances.SlotClearance},
			{"tab-undersize", &p.Tolerances.TabUndersize},
			{"kerf", &p.Tolerances.KerfCompensation},
			{"relief-radius", &p.Tolerances.CornerReliefRadius},
		} {
			if err := pa.float(bind.kw, bind.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("square-tube: %w", err)
			}
		}
		if err := pa.str("name", &p.Name); err != nil {
			return zygo.SexpNull, fmt.Errorf("square-tube: %w", err)
		}

		d.Profiles = append(d.Profiles, p)
		return &sexpProfile{name: p.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (box :length 1200 :height 800 :depth 600
	//      :profile "2x2x0.125" :reference :exterior
	//      :vertical-oc-front 400 :vertical-oc-back 400
	//      :horizontal-oc-top 300 :horizontal-oc-bottom 0)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := frame.BoxSpec{}

		for _, bind := range []struct {
			kw  string
			dst *float64
		}{
			{"length", &spec.Length},
			{"height", &spec.Height},
			{"depth", &spec.Depth},
			{"vertical-oc-front", &spec.VerticalOCFront},
			{"vertical-oc-back", &spec.VerticalOCBack},
			{"horizontal-oc-top", &spec.HorizontalOCTop},
			{"horizontal-oc-bottom", &spec.HorizontalOCBottom},
		} {
			if err := pa.float(bind.kw, bind.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
		}
		if v, ok := pa.kw["profile"]; ok {
			ref, err := toProfileRef(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: profile: %w", err)
			}
			spec.Profile = ref
		}
		if v, ok := pa.kw["reference"]; ok {
			ref, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: reference: %w", err)
			}
			spec.Reference = frame.DimensionReference(ref)
		}
		if err := spec.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}

		d.Box = &spec
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (member :id "brace_1"
	//         :from (vec3 0 0 0) :to (vec3 600 0 800)
	//         :orient (vec3 0 1 0) :profile "2x2x0.125")
	//
	// Adds an explicit member beyond what the box generator emits.
	// -----------------------------------------------------------------------
	env.AddFunction("member", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var m frame.Member

		if err := pa.str("id", &m.ID); err != nil {
			return zygo.SexpNull, fmt.Errorf("member: %w", err)
		}
		if m.ID == "" {
			return zygo.SexpNull, fmt.Errorf("member: :id is required")
		}
		v, ok := pa.kw["from"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("member %s: :from is required", m.ID)
		}
		from, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("member %s: from: %w", m.ID, err)
		}
		v, ok = pa.kw["to"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("member %s: :to is required", m.ID)
		}
		to, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("member %s: to: %w", m.ID, err)
		}
		m.Centerline = geom.Segment{A: from, B: to}

		if v, ok := pa.kw["orient"]; ok {
			orient, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("member %s: orient: %w", m.ID, err)
			}
			m.Orientation = orient
		}
		if v, ok := pa.kw["profile"]; ok {
			ref, err := toProfileRef(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("member %s: profile: %w", m.ID, err)
			}
			m.Profile = ref
		}
		m.Role = frame.RoleCrossMember

		if err := m.ValidateOrientation(); err != nil {
			return zygo.SexpNull, fmt.Errorf("member: %w", err)
		}

		d.Members = append(d.Members, m)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (options :tab-depth-ratio 0.6 :relief :dogbone
	//          :round-tab-corners true :min-slot-web 3.0
	//          :notch-clearance 2.0 :min-cap-tab-width 8 :min-cap-tab-count 2)
	// -----------------------------------------------------------------------
	env.AddFunction("options", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		opts := joinery.DefaultOptions()

		for _, bind := range []struct {
			kw  string
			dst *float64
		}{
			{"tab-depth-ratio", &opts.TabDepthRatio},
			{"detect-tolerance", &opts.DetectTolerance},
			{"orientation-eps", &opts.OrientationEps},
			{"min-slot-web", &opts.MinSlotWeb},
			{"notch-clearance", &opts.NotchClearance},
			{"min-cap-tab-width", &opts.MinCapTabWidth},
		} {
			if err := pa.float(bind.kw, bind.dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("options: %w", err)
			}
		}
		if v, ok := pa.kw["relief"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("options: relief: %w", err)
			}
			opts.Relief = joinery.ReliefStrategy(s)
		}
		if v, ok := pa.kw["round-tab-corners"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("options: round-tab-corners: %w", err)
			}
			opts.RoundTabCorners = b
		}
		if v, ok := pa.kw["auto-offset"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("options: auto-offset: %w", err)
			}
			opts.AutoOffset = b
		}
		if v, ok := pa.kw["min-cap-tab-count"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("options: min-cap-tab-count: %w", err)
			}
			opts.MinCapTabCount = int(f)
		}
		if err := opts.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("options: %w", err)
		}

		d.Options = &opts
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: geom.Vec{X: x, Y: y, Z: z}}, nil
	})
}
