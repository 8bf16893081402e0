package capacity

import (
	"math"
)

const (
	torpedoTipNc = 9.0
	torpedoFins  = 4
)

func torpedoClay(in Input, m Materials) (Result, error) {
	g := in.Geometry
	p := in.Profile
	t := m.Wall(g.D2)
	z0 := g.Zlug
	z1 := z0 + g.L1
	z2 := z1 + g.L2

	su1 := p.AverageSu(z0, z1)
	su2 := p.AverageSu(z1, z2)
	a1 := p.At((z0 + z1) / 2).Alpha
	a2 := p.At((z1 + z2) / 2).Alpha
	suTip := p.At(z2).Su

	fins := torpedoFins * (g.D1 - g.D2) / 2 * g.L1 * t
	vol := tubeVolume(g.D2, t, g.L1+g.L2) + fins

	qs := (math.Pi*g.D1*g.L1*a1*su1 + math.Pi*g.D2*g.L2*a2*su2) * kilo
	qb := torpedoTipNc * suTip * discArea(g.D2) * kilo
	vmax := vol*m.SteelUnitWeight + qs + qb
	hmax := suctionNp * (g.D1*g.L1*su1 + g.D2*g.L2*su2) * kilo

	return Result{
		HorizontalMax:   hmax,
		VerticalMax:     vmax,
		UnityHorizontal: unity(in.H, hmax),
		UnityVertical:   unity(in.V, vmax),
		Weight:          m.reportedWeight(vol),
		Diagnostics: map[string]float64{
			"Su fins":  su1,
			"Su shaft": su2,
			"Su @ tip": suTip,
			"Qs":       qs,
			"Qb":       qb,
		},
		Notes: "Fin and shaft adhesion with tip bearing below the padeye.",
	}, nil
}
