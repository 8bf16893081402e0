package capacity

import (
	"math"

	"Seabed/internal/calc/soil"
)

// helixDepth is the effective helix depth zlug + (L - D), clamped to the
// profile.
func helixDepth(p *soil.Profile, g Geometry) float64 {
	return p.Clamp(g.Zlug + (g.L - g.D))
}

func helicalWeight(g Geometry, t float64) float64 {
	return tubeVolume(g.ShaftD, t, g.L) + (discArea(g.D)-discArea(g.ShaftD))*t
}

func helicalClay(in Input, m Materials) (Result, error) {
	g := in.Geometry
	t := m.Wall(g.D)
	z := helixDepth(in.Profile, g)
	prm := in.Profile.At(z)

	psi := soil.Psi(prm.Su, prm.SigmaV)
	alpha := soil.Alpha(prm.Su, prm.SigmaV)
	nc := math.Min(6*(1+0.2*g.ShaftD/g.D), 9)

	vol := helicalWeight(g, t)
	qh := 0.75 * ((discArea(g.D)-discArea(g.ShaftD))*nc*prm.Su + prm.Gamma*g.D) * kilo
	qs := math.Pi * g.ShaftD * g.L * alpha * prm.Su * kilo
	qu := vol*m.SteelUnitWeight + qh + qs

	hcap, sol, note, err := pileLateral(in, m, g.L, g.ShaftD, t, loadLimited)
	if err != nil {
		return Result{}, err
	}
	return Result{
		HorizontalMax:   hcap,
		VerticalMax:     qu,
		UnityHorizontal: unity(in.H, hcap),
		UnityVertical:   unity(in.V, qu),
		Weight:          m.reportedWeight(vol),
		Diagnostics: map[string]float64{
			"Su @ helix": prm.Su,
			"Psi":        psi,
			"Alpha":      alpha,
			"Nc":         nc,
			"Qh":         qh,
			"Qs":         qs,
		},
		Lateral: sol,
		Notes:   note + "Helix bearing and shaft adhesion at the effective helix depth.",
	}, nil
}

func helicalSand(in Input, m Materials) (Result, error) {
	g := in.Geometry
	t := m.Wall(g.D)
	z := helixDepth(in.Profile, g)
	prm := in.Profile.At(z)

	nq := 0.5 * math.Pow(12*prm.Phi, prm.Phi/54)
	friction := prm.Delta
	if m.HelicalTanDelta {
		friction = math.Tan(prm.Delta * math.Pi / 180)
	}

	vol := helicalWeight(g, t)
	qh := (discArea(g.D) - discArea(g.ShaftD)) * nq * prm.Gamma * z * kilo
	qs := math.Pi * g.ShaftD * g.L * friction * prm.Gamma * z * kilo
	qu := vol*m.SteelUnitWeight + qh + qs

	hcap, sol, note, err := pileLateral(in, m, g.L, g.ShaftD, t, loadLimited)
	if err != nil {
		return Result{}, err
	}
	return Result{
		HorizontalMax:   hcap,
		VerticalMax:     qu,
		UnityHorizontal: unity(in.H, hcap),
		UnityVertical:   unity(in.V, qu),
		Weight:          m.reportedWeight(vol),
		Diagnostics: map[string]float64{
			"Dr @ helix": prm.Dr,
			"Delta":      prm.Delta,
			"Phi":        prm.Phi,
			"Nq":         nq,
			"Qh":         qh,
			"Qs":         qs,
		},
		Lateral: sol,
		Notes:   note + "Helix bearing and shaft friction at the effective helix depth.",
	}, nil
}
