package capacity

import (
	"math"
)

const (
	suctionNp = 10.25
	sandK     = 0.8
)

// padeyeEfficiency scales lateral capacity with padeye position; it peaks
// at two thirds of the skirt length.
func padeyeEfficiency(zlug, length float64) float64 {
	return math.Max(0.5, 1-1.5*math.Abs(zlug/length-2.0/3.0))
}

func suctionWeight(g Geometry, t float64) float64 {
	return tubeVolume(g.D, t, g.L) + discArea(g.D)*t
}

func suctionClay(in Input, m Materials) (Result, error) {
	g := in.Geometry
	p := in.Profile
	t := m.Wall(g.D)
	lambda := g.L / g.D

	suAvg := p.AverageSu(0, g.L)
	suTip := p.At(g.L).Su
	alpha := p.At(g.L / 2).Alpha
	eta := padeyeEfficiency(g.Zlug, g.L)

	hmax := suctionNp * g.L * g.D * suAvg * eta * kilo

	vol := suctionWeight(g, t)
	w := vol * m.SteelUnitWeight
	nc := math.Min(6.2*(1+0.34*math.Atan(lambda)), 9)
	outer := math.Pi * g.D * g.L * alpha * suAvg * kilo
	reverse := w + outer + nc*suTip*discArea(g.D)*kilo
	plugged := w + outer + math.Pi*(g.D-2*t)*g.L*alpha*suAvg*kilo
	vmax := math.Min(reverse, plugged)

	a := 0.5 + lambda
	b := 4.5 + lambda/3
	combined := Ratio(math.Pow(in.H/hmax, a) + math.Pow(in.V/vmax, b))

	return Result{
		HorizontalMax:   hmax,
		VerticalMax:     vmax,
		UnityHorizontal: unity(in.H, hmax),
		UnityVertical:   unity(in.V, vmax),
		UnityCombined:   &combined,
		Weight:          m.reportedWeight(vol),
		Diagnostics: map[string]float64{
			"Su avg":          suAvg,
			"Su @ tip":        suTip,
			"Alpha":           alpha,
			"Nc":              nc,
			"Padeye factor":   eta,
			"Reverse bearing": reverse,
			"Plugged":         plugged,
		},
		Notes: "Undrained lateral and uplift capacity with inclined load interaction.",
	}, nil
}

func suctionSand(in Input, m Materials) (Result, error) {
	g := in.Geometry
	p := in.Profile
	t := m.Wall(g.D)
	lambda := g.L / g.D

	mid := p.At(g.L / 2)
	phi := mid.Phi * math.Pi / 180
	tanDelta := math.Tan(mid.Delta * math.Pi / 180)
	gamma := p.SigmaV(g.L) / g.L
	nq := math.Exp(math.Pi*math.Tan(phi)) * math.Pow(math.Tan(math.Pi/4+phi/2), 2)

	hmax := 0.5 * g.D * nq * gamma * g.L * g.L * padeyeEfficiency(g.Zlug, g.L) * kilo

	vol := suctionWeight(g, t)
	sigma := p.AverageSigmaV(0, g.L)
	vmax := vol*m.SteelUnitWeight + math.Pi*(2*g.D-2*t)*g.L*sandK*tanDelta*sigma*kilo

	a := 0.5 + lambda
	b := 4.5 + lambda/3
	combined := Ratio(math.Pow(in.H/hmax, a) + math.Pow(in.V/vmax, b))

	return Result{
		HorizontalMax:   hmax,
		VerticalMax:     vmax,
		UnityHorizontal: unity(in.H, hmax),
		UnityVertical:   unity(in.V, vmax),
		UnityCombined:   &combined,
		Weight:          m.reportedWeight(vol),
		Diagnostics: map[string]float64{
			"Phi":        mid.Phi,
			"Delta":      mid.Delta,
			"Nq":         nq,
			"SigmaV avg": sigma,
			"Gamma avg":  gamma,
		},
		Notes: "Drained passive wedge and skirt friction inside and outside.",
	}, nil
}
