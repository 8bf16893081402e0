package loads

import (
	"fmt"
	"math"
)

// Load is a pair of forces in N. H is horizontal, V is vertical uplift.
type Load struct {
	H float64 `json:"h_n" yaml:"h_n"`
	V float64 `json:"v_n" yaml:"v_n"`
}

// Factors are minimum safety factors per direction.
type Factors struct {
	Ha float64 `json:"Ha" yaml:"Ha"`
	Va float64 `json:"Va" yaml:"Va"`
}

type Method string

const (
	MethodIntact  Method = "intact"
	MethodDamaged Method = "damaged"
	MethodCustom  Method = "custom"
)

type Input struct {
	Method  Method  `json:"method"`
	Load    Load    `json:"load"`
	Factors Factors `json:"factors"`
}

type Result struct {
	Design    Load    `json:"design"`
	Factors   Factors `json:"factors"`
	ComboName string  `json:"combo_name"`
	Notes     string  `json:"notes"`
}

func Calculate(in Input) (Result, error) {
	if in.Load.H < 0 || in.Load.V < 0 {
		return Result{}, fmt.Errorf("invalid load")
	}
	f, name := factors(in.Method, in.Factors)
	if f.Ha <= 0 || f.Va < 0 {
		return Result{}, fmt.Errorf("invalid safety factors")
	}
	return Result{
		Design:    Factor(in.Load, f),
		Factors:   f,
		ComboName: name,
		Notes:     "Design load is the characteristic load times the minimum safety factor per direction.",
	}, nil
}

func factors(method Method, custom Factors) (Factors, string) {
	switch method {
	case MethodDamaged:
		return Factors{Ha: 1.2, Va: 1.5}, "damaged mooring"
	case MethodCustom:
		return custom, "custom"
	default:
		return Factors{Ha: 1.8, Va: 2.0}, "intact mooring"
	}
}

// Factor scales each direction of l by its safety factor.
func Factor(l Load, f Factors) Load {
	return Load{H: l.H * f.Ha, V: l.V * f.Va}
}

// Tension is the resultant force.
func (l Load) Tension() float64 { return math.Hypot(l.H, l.V) }

// Angle is the load inclination from horizontal in degrees.
func (l Load) Angle() float64 { return math.Atan2(l.V, l.H) * 180 / math.Pi }
