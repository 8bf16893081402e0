package capacity

import (
	"math"

	"Seabed/internal/calc/soil"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"
)

const (
	atmospheric    = 101.3 // kPa
	shaftSegments  = 100
	rockAdhesion   = 0.65
	weakRockSocket = 0.2 // MPa^0.5
)

// sandFrictionLimit is the API limiting unit skin friction in kPa against
// the interface friction angle in degrees.
var sandFrictionLimit = func() *interp.PiecewiseLinear {
	pl := &interp.PiecewiseLinear{}
	delta := []float64{15, 20, 25, 30, 35}
	fl := []float64{47.8, 67.0, 81.3, 95.7, 114.8}
	if err := pl.Fit(delta, fl); err != nil {
		panic(err)
	}
	return pl
}()

// unitFriction returns the shaft friction in kPa at one depth.
func unitFriction(st soil.Type, prm soil.Params) float64 {
	switch st {
	case soil.Clay:
		return prm.Alpha * prm.Su
	case soil.Sand:
		f := sandK * prm.SigmaV * math.Tan(prm.Delta*math.Pi/180)
		return math.Min(f, sandFrictionLimit.Predict(prm.Delta))
	case soil.Rock:
		qu := prm.UCS * kilo
		return rockAdhesion * atmospheric * math.Sqrt(qu/atmospheric)
	case soil.WeakRock:
		return weakRockSocket * math.Sqrt(prm.UCS) * kilo
	}
	return 0
}

// shaftFriction integrates unit friction over [z0, z1] and returns kN/m of
// perimeter. A positive limit caps the unit friction.
func shaftFriction(p *soil.Profile, z0, z1, limit float64) float64 {
	if z1 <= z0 {
		return 0
	}
	z := floats.Span(make([]float64, shaftSegments+1), z0, z1)
	f := make([]float64, len(z))
	for i, d := range z {
		f[i] = unitFriction(p.Type(), p.At(d))
		if limit > 0 {
			f[i] = math.Min(f[i], limit)
		}
	}
	return integrate.Trapezoidal(z, f)
}

func driven(in Input, m Materials) (Result, error) {
	g := in.Geometry
	t := m.Wall(g.D)

	vol := tubeVolume(g.D, t, g.L)
	qs := math.Pi * g.D * shaftFriction(in.Profile, 0, g.L, 0) * kilo
	vmax := vol*m.SteelUnitWeight + qs

	hcap, sol, note, err := pileLateral(in, m, g.L, g.D, t, soilLimited)
	if err != nil {
		return Result{}, err
	}
	return Result{
		HorizontalMax:   hcap,
		VerticalMax:     vmax,
		UnityHorizontal: unity(in.H, hcap),
		UnityVertical:   unity(in.V, vmax),
		Weight:          m.reportedWeight(vol),
		Diagnostics: map[string]float64{
			"Shaft friction":  qs,
			"Wall thickness":  t,
			"Max moment":      sol.MaxMoment,
			"Head deflection": sol.HeadDeflection,
		},
		Lateral: sol,
		Notes:   note + "Open ended pile in uplift, lateral capacity from rigid pile soil resistance.",
	}, nil
}

func drilledGrouted(in Input, m Materials) (Result, error) {
	g := in.Geometry
	t := m.Wall(g.D)
	di := math.Max(g.D-2*t, 0)

	steel := tubeVolume(g.D, t, g.L)
	grout := discArea(di) * g.L
	w := steel*m.SteelUnitWeight + grout*m.GroutUnitWeight
	qs := math.Pi * g.D * shaftFriction(in.Profile, 0, g.L, m.GroutBond) * kilo
	vmax := w + qs

	hcap, sol, note, err := pileLateral(in, m, g.L, g.D, t, soilLimited)
	if err != nil {
		return Result{}, err
	}
	return Result{
		HorizontalMax:   hcap,
		VerticalMax:     vmax,
		UnityHorizontal: unity(in.H, hcap),
		UnityVertical:   unity(in.V, vmax),
		Weight:          m.reportedWeight(steel) + grout*(m.GroutUnitWeight+m.WaterUnitWeight),
		Diagnostics: map[string]float64{
			"Socket friction": qs,
			"Grout volume":    grout,
			"UCS avg":         in.Profile.AverageUCS(0, g.L),
		},
		Lateral: sol,
		Notes:   note + "Rock socket friction limited by grout bond.",
	}, nil
}
