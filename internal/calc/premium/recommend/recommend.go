package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/safety"
	"Seabed/internal/calc/sizing"
	"Seabed/internal/calc/soil"

	"github.com/sgostarter/i/l"
)

type AnchorRecommendInput struct {
	Soil    soil.Table    `json:"soil"`
	Mudline loads.Load    `json:"mudline"`
	MinFS   loads.Factors `json:"min_fs"`
}

type Option struct {
	Anchor    capacity.AnchorType `json:"anchor_type"`
	Geometry  map[string]float64  `json:"geometry"`
	WeightN   float64             `json:"weight_n"`
	FS        safety.Factors      `json:"fs"`
	Converged bool                `json:"converged"`
	Error     string              `json:"error,omitempty"`
}

type AnchorRecommendResult struct {
	Options []Option `json:"options"`
	Best    *Option  `json:"best,omitempty"`
	Notes   string   `json:"notes"`
}

// AnchorType sizes every anchor type supported in the soil from its default
// geometry and ranks the converged designs by weight.
func AnchorType(ctx context.Context, in AnchorRecommendInput, s anchor.Settings, logger l.Wrapper) (AnchorRecommendResult, error) {
	p, err := in.Soil.Build()
	if err != nil {
		return AnchorRecommendResult{}, err
	}
	if in.Mudline.H <= 0 && in.Mudline.V <= 0 {
		return AnchorRecommendResult{}, fmt.Errorf("invalid input")
	}
	in.MinFS = s.MinFS(in.MinFS)

	var types []capacity.AnchorType
	for t, soils := range capacity.Combinations() {
		for _, s := range soils {
			if s == p.Type() {
				types = append(types, t)
			}
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var out AnchorRecommendResult
	for _, t := range types {
		a := &anchor.Anchor{Type: t, Profile: p, Geometry: anchor.DefaultGeometry(t), Mudline: in.Mudline, Logger: logger}
		s.Apply(a)
		opt := Option{Anchor: t}
		res, err := a.Size(ctx, s.Sizing(anchor.SizeConfig{Targets: in.MinFS}))
		switch {
		case err == nil || errors.Is(err, sizing.ErrNoConvergence):
			opt.Converged = res.Converged
			opt.Geometry = res.Geometry.Map(t)
			opt.WeightN = res.Capacity.Weight
			opt.FS = res.FS
		default:
			opt.Error = err.Error()
		}
		out.Options = append(out.Options, opt)
	}

	sort.SliceStable(out.Options, func(i, j int) bool {
		a, b := out.Options[i], out.Options[j]
		if a.Converged != b.Converged {
			return a.Converged
		}
		return a.WeightN < b.WeightN
	})
	if len(out.Options) > 0 && out.Options[0].Converged {
		best := out.Options[0]
		out.Best = &best
	}
	out.Notes = "Anchor types sized from default geometries and ranked by weight."
	return out, nil
}
