// Package safety derives safety factors from a capacity result and the
// applied padeye load.
package safety

import (
	"math"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"
)

// Direction names a safety factor component.
type Direction string

const (
	Horizontal Direction = "Ha"
	Vertical   Direction = "Va"
)

var Directions = []Direction{Horizontal, Vertical}

type Factors struct {
	Ha capacity.Ratio `json:"Ha"`
	Va capacity.Ratio `json:"Va"`
}

func (f Factors) Get(d Direction) float64 {
	if d == Vertical {
		return f.Va.Float()
	}
	return f.Ha.Float()
}

// Governing is the smallest factor, +Inf when both directions are unloaded.
func (f Factors) Governing() float64 {
	return math.Min(f.Ha.Float(), f.Va.Float())
}

func ratio(capacityN, appliedN float64) capacity.Ratio {
	if appliedN == 0 {
		return capacity.Ratio(math.Inf(1))
	}
	return capacity.Ratio(capacityN / appliedN)
}

// GetFS is ultimate capacity over applied load per direction. An unloaded
// direction has an unbounded factor.
func GetFS(res capacity.Result, load loads.Load) Factors {
	return Factors{
		Ha: ratio(res.HorizontalMax, load.H),
		Va: ratio(res.VerticalMax, load.V),
	}
}

// Within reports whether every constrained factor lies in
// [target, target+overshoot]. A zero vertical target leaves the vertical
// direction unconstrained, and an unloaded direction (+Inf) is satisfied.
func Within(f Factors, target, overshoot loads.Factors) bool {
	for _, d := range Directions {
		t, o := pick(target, d), pick(overshoot, d)
		if d == Vertical && t == 0 || math.IsInf(f.Get(d), 1) {
			continue
		}
		if !InBand(f.Get(d), t, o) {
			return false
		}
	}
	return true
}

// bandTolerance absorbs rounding when a factor lands exactly on a target.
const bandTolerance = 1e-9

// InBand reports whether v lies in [target, target+overshoot].
func InBand(v, target, overshoot float64) bool {
	return v >= target*(1-bandTolerance) && v <= (target+overshoot)*(1+bandTolerance)
}

func pick(f loads.Factors, d Direction) float64 {
	if d == Vertical {
		return f.Va
	}
	return f.Ha
}
