package autodesign

import (
	"context"
	"errors"

	"Seabed/internal/calc/anchor"
	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/lateral"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/sizing"
	"Seabed/internal/calc/soil"

	"github.com/sgostarter/i/l"
)

type AnchorAutoInput struct {
	AnchorType string             `json:"anchor_type"`
	Soil       soil.Table         `json:"soil"`
	Geometry   map[string]float64 `json:"geometry"`
	Mudline    loads.Load         `json:"mudline"`
	Chain      loads.Chain        `json:"chain"`
	Materials  capacity.Materials `json:"materials"`
	Lateral    lateral.Config     `json:"lateral"`
	Size       anchor.SizeConfig  `json:"size"`
}

type AnchorAutoResult struct {
	AnchorType capacity.AnchorType `json:"anchor_type"`
	Start      map[string]float64  `json:"start"`
	Geometry   map[string]float64  `json:"geometry"`
	Assessment anchor.Assessment   `json:"assessment"`
	Iterations int                 `json:"iterations"`
	Converged  bool                `json:"converged"`
	History    []sizing.State      `json:"history"`
	Notes      string              `json:"notes"`
}

// Anchor sizes an anchor from a typed request. A missing geometry starts
// from the anchor type's default, and settings fill what the request leaves
// unset. Non-convergence is reported in the result, not as an error.
func Anchor(ctx context.Context, in AnchorAutoInput, s anchor.Settings, logger l.Wrapper) (AnchorAutoResult, error) {
	at, err := capacity.ParseAnchorType(in.AnchorType)
	if err != nil {
		return AnchorAutoResult{}, err
	}
	p, err := in.Soil.Build()
	if err != nil {
		return AnchorAutoResult{}, err
	}
	g := anchor.DefaultGeometry(at)
	if len(in.Geometry) > 0 {
		if g, err = capacity.NewGeometry(at, in.Geometry); err != nil {
			return AnchorAutoResult{}, err
		}
	}
	a := &anchor.Anchor{
		Type:      at,
		Profile:   p,
		Geometry:  g,
		Mudline:   in.Mudline,
		Chain:     in.Chain,
		Materials: in.Materials,
		Lateral:   in.Lateral,
		Logger:    logger,
	}
	s.Apply(a)
	size := s.Sizing(in.Size)

	res, err := a.Size(ctx, size)
	if err != nil && !errors.Is(err, sizing.ErrNoConvergence) {
		return AnchorAutoResult{}, err
	}
	a.Geometry = res.Geometry
	as, err := a.FS(size.Targets)
	if err != nil {
		return AnchorAutoResult{}, err
	}

	notes := "Geometry sized to the safety factor band."
	if !res.Converged {
		notes = "Iteration budget exhausted, best geometry found is reported."
	}
	return AnchorAutoResult{
		AnchorType: at,
		Start:      g.Map(at),
		Geometry:   res.Geometry.Map(at),
		Assessment: as,
		Iterations: res.Iterations,
		Converged:  res.Converged,
		History:    res.History,
		Notes:      notes,
	}, nil
}
