package capacity

import (
	"math"
)

// plateLoads resolves the breakout force along the inclination beta,
// measured from horizontal, and adds the plate weight to the vertical.
func plateLoads(g Geometry, m Materials, tmax float64) (h, v, w float64) {
	beta := g.Beta * math.Pi / 180
	w = g.A * m.PlateThicknessRatio * math.Sqrt(g.A) * m.SteelUnitWeight
	return tmax * math.Cos(beta), tmax*math.Sin(beta) + w, w
}

func plateClay(in Input, m Materials) (Result, error) {
	g := in.Geometry
	b := math.Sqrt(g.A)
	prm := in.Profile.At(g.Zlug)

	nc := 11.87 * (1 - math.Exp(-(g.Zlug/b)/2.5))
	tmax := nc * prm.Su * g.A * kilo
	hmax, vmax, w := plateLoads(g, m, tmax)

	return Result{
		HorizontalMax:   hmax,
		VerticalMax:     vmax,
		UnityHorizontal: unity(in.H, hmax),
		UnityVertical:   unity(in.V, vmax),
		Weight:          m.reportedWeight(w / m.SteelUnitWeight),
		Diagnostics: map[string]float64{
			"Su @ plate": prm.Su,
			"Nc":         nc,
			"Tmax":       tmax,
		},
		Notes: "Plate breakout resolved along the plate inclination.",
	}, nil
}

func plateSand(in Input, m Materials) (Result, error) {
	g := in.Geometry
	b := math.Sqrt(g.A)
	prm := in.Profile.At(g.Zlug)

	r := g.Zlug / b * math.Tan(prm.Phi*math.Pi/180)
	nq := 1 + r*(2+math.Pi/3*r)
	tmax := nq * in.Profile.SigmaV(g.Zlug) * g.A * kilo
	hmax, vmax, w := plateLoads(g, m, tmax)

	return Result{
		HorizontalMax:   hmax,
		VerticalMax:     vmax,
		UnityHorizontal: unity(in.H, hmax),
		UnityVertical:   unity(in.V, vmax),
		Weight:          m.reportedWeight(w / m.SteelUnitWeight),
		Diagnostics: map[string]float64{
			"Phi @ plate": prm.Phi,
			"Nq":          nq,
			"Tmax":        tmax,
		},
		Notes: "Square plate breakout, Murray and Geddes.",
	}, nil
}
