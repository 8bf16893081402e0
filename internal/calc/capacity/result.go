package capacity

import (
	"math"
	"strconv"

	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/soil"
)

// Ratio is a unity check or safety factor. Non-finite values encode as null.
type Ratio float64

func (r Ratio) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'g', -1, 64)), nil
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = Ratio(math.Inf(1))
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}

func (r Ratio) Float() float64 { return float64(r) }

func unity(applied, capacity float64) Ratio {
	if capacity == 0 {
		return Ratio(math.Inf(1))
	}
	return Ratio(applied / capacity)
}

// Result is one capacity evaluation. Forces in N.
type Result struct {
	Anchor AnchorType `json:"anchor_type"`
	Soil   soil.Type  `json:"soil_type"`

	HorizontalMax float64 `json:"horizontal_max_n"`
	VerticalMax   float64 `json:"vertical_max_n"`

	UnityHorizontal Ratio `json:"unity_horizontal"`
	UnityVertical   Ratio `json:"unity_vertical"`
	// UnityCombined is set by models with an inclined-load interaction check.
	UnityCombined *Ratio `json:"unity_combined,omitempty"`

	Weight      float64            `json:"weight_n"`
	Diagnostics map[string]float64 `json:"diagnostics,omitempty"`
	Lateral     *lateral.Solution  `json:"lateral,omitempty"`
	Notes       string             `json:"notes"`
}

// Governing returns the largest unity check of the result.
func (r Result) Governing() Ratio {
	g := math.Max(r.UnityHorizontal.Float(), r.UnityVertical.Float())
	if r.UnityCombined != nil {
		g = math.Max(g, r.UnityCombined.Float())
	}
	return Ratio(g)
}
