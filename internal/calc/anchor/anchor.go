// Package anchor ties a soil profile, an anchor geometry and a mudline load
// together and runs capacity, safety factor and sizing calculations on them.
package anchor

import (
	"context"
	"fmt"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/safety"
	"Seabed/internal/calc/sizing"
	"Seabed/internal/calc/soil"

	"github.com/sgostarter/i/l"
)

// CostFunc prices an anchor. Cost models live with the caller.
type CostFunc func(ctx context.Context, a *Anchor) (float64, error)

type Anchor struct {
	Type      capacity.AnchorType
	Profile   *soil.Profile
	Geometry  capacity.Geometry
	Mudline   loads.Load
	Chain     loads.Chain
	Materials capacity.Materials
	Lateral   lateral.Config
	Logger    l.Wrapper
}

func (a *Anchor) logger() l.Wrapper {
	if a.Logger == nil {
		return l.NewNopLoggerWrapper()
	}
	return a.Logger
}

// LugForces transfers the mudline load to the padeye.
func (a *Anchor) LugForces() (loads.Transferred, error) {
	return a.lugAt(a.Geometry)
}

func (a *Anchor) lugAt(g capacity.Geometry) (loads.Transferred, error) {
	if a.Profile == nil {
		return loads.Transferred{}, fmt.Errorf("%w: nil profile", soil.ErrProfile)
	}
	return loads.Transfer(a.Profile, g.Zlug, a.Mudline, a.Chain)
}

// Capacity evaluates the anchor under a padeye load.
func (a *Anchor) Capacity(load loads.Load) (capacity.Result, error) {
	return a.capacityAt(a.Geometry, load)
}

func (a *Anchor) capacityAt(g capacity.Geometry, load loads.Load) (capacity.Result, error) {
	return capacity.Evaluate(capacity.Input{
		Anchor:    a.Type,
		Profile:   a.Profile,
		Geometry:  g,
		H:         load.H,
		V:         load.V,
		Materials: a.Materials,
		Lateral:   a.Lateral,
	})
}

// Assessment is capacity and safety factors at the current geometry.
type Assessment struct {
	Lug      loads.Transferred `json:"lug"`
	Design   loads.Load        `json:"design_load"`
	Capacity capacity.Result   `json:"capacity"`
	FS       safety.Factors    `json:"fs"`
}

// FS evaluates capacity under the padeye load factored by minFS and
// reports safety factors against the unfactored padeye load.
func (a *Anchor) FS(minFS loads.Factors) (Assessment, error) {
	return a.assess(a.Geometry, minFS)
}

func (a *Anchor) assess(g capacity.Geometry, minFS loads.Factors) (Assessment, error) {
	lug, err := a.lugAt(g)
	if err != nil {
		return Assessment{}, err
	}
	design := loads.Factor(lug.Padeye, minFS)
	res, err := a.capacityAt(g, design)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{
		Lug:      lug,
		Design:   design,
		Capacity: res,
		FS:       safety.GetFS(res, lug.Padeye),
	}, nil
}

// Size searches the geometry and, on success, adopts the result. On
// non-convergence the best geometry is returned but not adopted.
func (a *Anchor) Size(ctx context.Context, cfg SizeConfig) (sizing.Result, error) {
	cfg = cfg.withDefaults(a.Type)
	p := sizing.Problem{
		Evaluate: func(_ context.Context, g capacity.Geometry) (capacity.Result, safety.Factors, error) {
			as, err := a.assess(g, cfg.Targets)
			return as.Capacity, as.FS, err
		},
		Start:         a.Geometry,
		Keys:          cfg.Keys,
		Bounds:        cfg.Bounds,
		Targets:       cfg.Targets,
		Overshoot:     cfg.Overshoot,
		Fixed:         cfg.Fixed,
		Influence:     cfg.Influence,
		Follow:        cfg.Follow,
		Floors:        cfg.Floors,
		MaxIterations: cfg.MaxIterations,
		Step:          cfg.Step,
		Logger:        a.logger().WithFields(l.StringField("anchor", string(a.Type))),
	}
	if cfg.FixZlug {
		p.Follow = nil
		p.Fixed = withKey(p.Fixed, capacity.KeyZlug)
	}
	res, err := sizing.Size(ctx, p)
	if err == nil && res.Converged {
		a.Geometry = res.Geometry
	}
	return res, err
}

func withKey(m map[string]bool, k string) map[string]bool {
	out := make(map[string]bool, len(m)+1)
	for key, v := range m {
		out[key] = v
	}
	out[k] = true
	return out
}

// Cost delegates to the supplied cost model.
func (a *Anchor) Cost(ctx context.Context, fn CostFunc) (float64, error) {
	if fn == nil {
		return 0, fmt.Errorf("no cost model")
	}
	return fn(ctx, a)
}
