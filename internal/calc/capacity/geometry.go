package capacity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"Seabed/internal/calc/soil"
)

type AnchorType string

const (
	SuctionPile    AnchorType = "suction_pile"
	DrivenPile     AnchorType = "driven_pile"
	HelicalPile    AnchorType = "helical_pile"
	PlateAnchor    AnchorType = "plate"
	TorpedoPile    AnchorType = "torpedo_pile"
	DrilledGrouted AnchorType = "dandg_pile"
)

var anchorAliases = map[string]AnchorType{
	"suction_pile": SuctionPile,
	"suction":      SuctionPile,
	"driven_pile":  DrivenPile,
	"driven":       DrivenPile,
	"helical_pile": HelicalPile,
	"helical":      HelicalPile,
	"plate":        PlateAnchor,
	"dea":          PlateAnchor,
	"sepla":        PlateAnchor,
	"torpedo_pile": TorpedoPile,
	"torpedo":      TorpedoPile,
	"dandg_pile":   DrilledGrouted,
	"dandg":        DrilledGrouted,
}

func ParseAnchorType(s string) (AnchorType, error) {
	if a, ok := anchorAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return "", fmt.Errorf("%w: anchor type %q", ErrUnsupported, s)
}

// Geometry keys.
const (
	KeyL      = "L"
	KeyD      = "D"
	KeyShaftD = "d"
	KeyZlug   = "zlug"
	KeyA      = "A"
	KeyBeta   = "beta"
	KeyD1     = "D1"
	KeyD2     = "D2"
	KeyL1     = "L1"
	KeyL2     = "L2"
)

var schema = map[AnchorType][]string{
	SuctionPile:    {KeyL, KeyD, KeyZlug},
	DrivenPile:     {KeyL, KeyD, KeyZlug},
	HelicalPile:    {KeyL, KeyD, KeyShaftD, KeyZlug},
	PlateAnchor:    {KeyA, KeyZlug, KeyBeta},
	TorpedoPile:    {KeyD1, KeyD2, KeyL1, KeyL2, KeyZlug},
	DrilledGrouted: {KeyL, KeyD, KeyZlug},
}

// Keys lists the geometry names an anchor type recognises.
func Keys(a AnchorType) []string {
	return append([]string(nil), schema[a]...)
}

// Geometry holds every named dimension used by any anchor type, in metres
// (A in m2, Beta in degrees). Each type reads only its own keys.
type Geometry struct {
	L      float64 `json:"L,omitempty"`
	D      float64 `json:"D,omitempty"`
	ShaftD float64 `json:"d,omitempty"`
	Zlug   float64 `json:"zlug"`
	A      float64 `json:"A,omitempty"`
	Beta   float64 `json:"beta,omitempty"`
	D1     float64 `json:"D1,omitempty"`
	D2     float64 `json:"D2,omitempty"`
	L1     float64 `json:"L1,omitempty"`
	L2     float64 `json:"L2,omitempty"`
}

func (g *Geometry) ref(key string) (*float64, error) {
	switch key {
	case KeyL:
		return &g.L, nil
	case KeyD:
		return &g.D, nil
	case KeyShaftD:
		return &g.ShaftD, nil
	case KeyZlug:
		return &g.Zlug, nil
	case KeyA:
		return &g.A, nil
	case KeyBeta:
		return &g.Beta, nil
	case KeyD1:
		return &g.D1, nil
	case KeyD2:
		return &g.D2, nil
	case KeyL1:
		return &g.L1, nil
	case KeyL2:
		return &g.L2, nil
	}
	return nil, fmt.Errorf("%w: unknown geometry key %q", ErrGeometry, key)
}

func (g Geometry) Get(key string) (float64, error) {
	v, err := g.ref(key)
	if err != nil {
		return 0, err
	}
	return *v, nil
}

func (g *Geometry) Set(key string, value float64) error {
	v, err := g.ref(key)
	if err != nil {
		return err
	}
	*v = value
	return nil
}

// Map returns the anchor type's keys and values.
func (g Geometry) Map(a AnchorType) map[string]float64 {
	out := make(map[string]float64, len(schema[a]))
	for _, k := range schema[a] {
		out[k], _ = g.Get(k)
	}
	return out
}

// NewGeometry builds a geometry from named values, rejecting names the
// anchor type does not recognise.
func NewGeometry(a AnchorType, values map[string]float64) (Geometry, error) {
	keys, ok := schema[a]
	if !ok {
		return Geometry{}, fmt.Errorf("%w: anchor type %q", ErrUnsupported, a)
	}
	allowed := make(map[string]bool, len(keys))
	for _, k := range keys {
		allowed[k] = true
	}
	var g Geometry
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if !allowed[k] {
			return Geometry{}, fmt.Errorf("%w: %s does not use %q", ErrGeometry, a, k)
		}
		if err := g.Set(k, values[k]); err != nil {
			return Geometry{}, err
		}
	}
	return g, nil
}

// Validate checks the geometry is physical for the anchor type in the given
// soil. A padeye above the mudline (negative zlug) is only valid in rock.
func (g Geometry) Validate(a AnchorType, st soil.Type) error {
	keys, ok := schema[a]
	if !ok {
		return fmt.Errorf("%w: anchor type %q", ErrUnsupported, a)
	}
	for _, k := range keys {
		v, _ := g.Get(k)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrGeometry, k)
		}
		if k == KeyZlug || k == KeyBeta {
			continue
		}
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %.4f", ErrGeometry, k, v)
		}
	}
	if g.Zlug < 0 && !st.IsRock() {
		return fmt.Errorf("%w: padeye above mudline (zlug %.3f) is only valid in rock", ErrGeometry, g.Zlug)
	}
	switch a {
	case HelicalPile:
		if g.ShaftD >= g.D {
			return fmt.Errorf("%w: shaft diameter %.3f must be smaller than helix %.3f", ErrGeometry, g.ShaftD, g.D)
		}
	case TorpedoPile:
		if g.D2 > g.D1 {
			return fmt.Errorf("%w: shaft diameter D2 %.3f exceeds fin span D1 %.3f", ErrGeometry, g.D2, g.D1)
		}
	case PlateAnchor:
		if g.Beta < 0 || g.Beta > 90 {
			return fmt.Errorf("%w: plate inclination %.1f outside [0, 90]", ErrGeometry, g.Beta)
		}
	}
	return nil
}
