package capacity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/soil"
)

const kilo = 1e3

// Input is one capacity evaluation. H and V are the forces at the padeye in
// N. Zero Materials and Lateral fields take their defaults.
type Input struct {
	Anchor    AnchorType     `json:"anchor_type"`
	Profile   *soil.Profile  `json:"-"`
	Geometry  Geometry       `json:"geometry"`
	H         float64        `json:"h_n"`
	V         float64        `json:"v_n"`
	Materials Materials      `json:"materials"`
	Lateral   lateral.Config `json:"lateral"`
}

type model func(in Input, m Materials) (Result, error)

type key struct {
	anchor AnchorType
	soil   soil.Type
}

var registry = map[key]model{
	{HelicalPile, soil.Clay}:       helicalClay,
	{HelicalPile, soil.Sand}:       helicalSand,
	{SuctionPile, soil.Clay}:       suctionClay,
	{SuctionPile, soil.Sand}:       suctionSand,
	{DrivenPile, soil.Clay}:        driven,
	{DrivenPile, soil.Sand}:        driven,
	{DrivenPile, soil.Rock}:        driven,
	{DrivenPile, soil.WeakRock}:    driven,
	{PlateAnchor, soil.Clay}:       plateClay,
	{PlateAnchor, soil.Sand}:       plateSand,
	{TorpedoPile, soil.Clay}:       torpedoClay,
	{DrilledGrouted, soil.Rock}:     drilledGrouted,
	{DrilledGrouted, soil.WeakRock}: drilledGrouted,
}

func Supported(a AnchorType, st soil.Type) bool {
	_, ok := registry[key{a, st}]
	return ok
}

// Combinations lists the supported anchor and soil pairs.
func Combinations() map[AnchorType][]soil.Type {
	out := make(map[AnchorType][]soil.Type)
	for k := range registry {
		out[k.anchor] = append(out[k.anchor], k.soil)
	}
	for _, v := range out {
		sort.Slice(v, func(i, j int) bool { return v[i] < v[j] })
	}
	return out
}

// Evaluate dispatches to the model registered for the anchor type and the
// profile's soil type.
func Evaluate(in Input) (Result, error) {
	if in.Profile == nil {
		return Result{}, fmt.Errorf("%w: nil profile", soil.ErrProfile)
	}
	st := in.Profile.Type()
	fn, ok := registry[key{in.Anchor, st}]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s in %s", ErrUnsupported, in.Anchor, st)
	}
	if err := in.Geometry.Validate(in.Anchor, st); err != nil {
		return Result{}, err
	}
	if math.IsNaN(in.H) || math.IsNaN(in.V) {
		return Result{}, fmt.Errorf("%w: load is not a number", ErrGeometry)
	}
	m := in.Materials.WithDefaults()
	res, err := fn(in, m)
	if err != nil {
		return Result{}, err
	}
	res.Anchor = in.Anchor
	res.Soil = st
	return res, nil
}

func tubeVolume(d, t, length float64) float64 {
	di := math.Max(d-2*t, 0)
	return math.Pi / 4 * (d*d - di*di) * length
}

func discArea(d float64) float64 { return math.Pi / 4 * d * d }

// reportedWeight is the in-air weight including auxiliary steel.
func (m Materials) reportedWeight(volume float64) float64 {
	return m.WeightFactor * volume * (m.SteelUnitWeight + m.WaterUnitWeight)
}

type lateralMode int

const (
	// Load limited: capacity is the applied load unless the section yields.
	loadLimited lateralMode = iota
	// Soil limited: capacity is the rigid pile soil resistance.
	soilLimited
)

// pileLateral runs the lateral solve for a tubular pile and derives the
// horizontal capacity. A plastic section gives M / |zlug|.
func pileLateral(in Input, m Materials, length, diameter, t float64, mode lateralMode) (float64, *lateral.Solution, string, error) {
	zlug := in.Geometry.Zlug
	sol, err := lateral.Solve(in.Profile, lateral.Input{
		Length:    length,
		Diameter:  diameter,
		Thickness: t,
		Zlug:      zlug,
		H:         in.H,
		V:         in.V,
		E:         m.SteelModulus,
		Fy:        m.SteelYield,
	}, in.Lateral)
	note := ""
	if err != nil {
		if !errors.Is(err, lateral.ErrNoConvergence) {
			return 0, nil, "", err
		}
		note = fmt.Sprintf("Lateral solve stopped after %d iterations without converging. ", sol.Iterations)
	}

	hcap := in.H
	if mode == soilLimited {
		hcap, err = lateral.UltimateResistance(in.Profile, length, diameter, zlug, in.Lateral)
		if err != nil {
			return 0, nil, "", err
		}
	}
	if sol.PlasticMomentReached {
		hcap = sol.BendingMoment / m.divisor(zlug)
		note += "Plastic moment reached, horizontal capacity limited by bending. "
	}
	return hcap, &sol, note, nil
}
