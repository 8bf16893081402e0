package anchor

import (
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/sizing"
)

type SizeConfig struct {
	Keys      []string                    `json:"keys" yaml:"keys"`
	Bounds    map[string]sizing.Bound     `json:"bounds" yaml:"bounds"`
	Targets   loads.Factors               `json:"targets" yaml:"targets"`
	Overshoot loads.Factors               `json:"overshoot" yaml:"overshoot"`
	Fixed     map[string]bool             `json:"fixed" yaml:"fixed"`
	Influence map[string]sizing.Influence `json:"influence" yaml:"influence"`
	Follow    map[string]string           `json:"follow" yaml:"follow"`
	Floors    map[string]sizing.Floor     `json:"floors" yaml:"floors"`
	// FixZlug holds the padeye depth instead of letting it follow L.
	FixZlug       bool        `json:"fix_zlug" yaml:"fix_zlug"`
	MaxIterations int         `json:"max_iterations" yaml:"max_iterations"`
	Step          sizing.Step `json:"step" yaml:"step"`
}

var (
	DefaultTargets   = loads.Factors{Ha: 1.8, Va: 2}
	DefaultOvershoot = loads.Factors{Ha: 5, Va: 5}
)

// helixShaftRatio is the smallest helix to shaft diameter ratio sizing
// will produce.
const helixShaftRatio = 1.05

// DefaultSizing returns the keys, bounds and steering used for an anchor
// type when the caller gives none.
func DefaultSizing(t capacity.AnchorType) SizeConfig {
	cfg := SizeConfig{Targets: DefaultTargets, Overshoot: DefaultOvershoot}
	switch t {
	case capacity.SuctionPile:
		cfg.Keys = []string{capacity.KeyL, capacity.KeyD, capacity.KeyZlug}
		cfg.Bounds = map[string]sizing.Bound{
			capacity.KeyL:    {Min: 5, Max: 50},
			capacity.KeyD:    {Min: 1, Max: 7},
			capacity.KeyZlug: {Min: 3.3, Max: 16.7},
		}
		cfg.Follow = map[string]string{capacity.KeyZlug: capacity.KeyL}
	case capacity.DrivenPile, capacity.DrilledGrouted:
		cfg.Keys = []string{capacity.KeyL, capacity.KeyD}
		cfg.Bounds = map[string]sizing.Bound{
			capacity.KeyL: {Min: 5, Max: 80},
			capacity.KeyD: {Min: 0.5, Max: 4},
		}
		cfg.Influence = map[string]sizing.Influence{capacity.KeyL: sizing.Vertical}
		cfg.FixZlug = true
	case capacity.HelicalPile:
		cfg.Keys = []string{capacity.KeyL, capacity.KeyD}
		cfg.Bounds = map[string]sizing.Bound{
			capacity.KeyL: {Min: 2, Max: 30},
			capacity.KeyD: {Min: 0.5, Max: 3},
		}
		cfg.Influence = map[string]sizing.Influence{
			capacity.KeyL: sizing.Vertical,
			capacity.KeyD: sizing.Vertical,
		}
		cfg.Floors = map[string]sizing.Floor{capacity.KeyD: {Key: capacity.KeyShaftD, Factor: helixShaftRatio}}
		cfg.FixZlug = true
	case capacity.PlateAnchor:
		cfg.Keys = []string{capacity.KeyA, capacity.KeyZlug}
		cfg.Bounds = map[string]sizing.Bound{
			capacity.KeyA:    {Min: 1, Max: 60},
			capacity.KeyZlug: {Min: 2, Max: 40},
		}
	case capacity.TorpedoPile:
		cfg.Keys = []string{capacity.KeyL1, capacity.KeyL2, capacity.KeyD1}
		cfg.Bounds = map[string]sizing.Bound{
			capacity.KeyL1: {Min: 2, Max: 20},
			capacity.KeyL2: {Min: 2, Max: 20},
			capacity.KeyD1: {Min: 0.5, Max: 4},
		}
		cfg.Floors = map[string]sizing.Floor{capacity.KeyD1: {Key: capacity.KeyD2, Factor: 1}}
		cfg.FixZlug = true
	}
	return cfg
}

func (c SizeConfig) withDefaults(t capacity.AnchorType) SizeConfig {
	d := DefaultSizing(t)
	if len(c.Keys) == 0 {
		c.Keys = d.Keys
		if c.Bounds == nil {
			c.Bounds = d.Bounds
		}
		if c.Influence == nil {
			c.Influence = d.Influence
		}
		if c.Follow == nil && !c.FixZlug {
			c.Follow = d.Follow
		}
		if c.Floors == nil {
			c.Floors = d.Floors
		}
		c.FixZlug = c.FixZlug || d.FixZlug
	}
	if c.Targets == (loads.Factors{}) {
		c.Targets = d.Targets
	}
	if c.Overshoot == (loads.Factors{}) {
		c.Overshoot = d.Overshoot
	}
	return c
}

// DefaultGeometry is a starting geometry for sizing an anchor type from
// scratch.
func DefaultGeometry(t capacity.AnchorType) capacity.Geometry {
	switch t {
	case capacity.SuctionPile:
		return capacity.Geometry{L: 15, D: 2, Zlug: 9.32}
	case capacity.DrivenPile, capacity.DrilledGrouted:
		return capacity.Geometry{L: 20, D: 1.5, Zlug: 0}
	case capacity.HelicalPile:
		return capacity.Geometry{L: 12, D: 1.8, ShaftD: 0.8, Zlug: 2}
	case capacity.PlateAnchor:
		return capacity.Geometry{A: 16, Zlug: 10, Beta: 30}
	case capacity.TorpedoPile:
		return capacity.Geometry{D1: 2, D2: 1, L1: 10, L2: 5, Zlug: 10}
	}
	return capacity.Geometry{}
}
