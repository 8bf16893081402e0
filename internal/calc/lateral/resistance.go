package lateral

import (
	"fmt"
	"math"

	"Seabed/internal/calc/soil"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// UltimateResistance is the lateral capacity of a rigid pile loaded at
// depth zlug, from the ultimate soil reaction pu(z) of the p-y curves. The
// pile rotates about the depth where the moment of the soil reaction about
// the padeye vanishes; if no such depth exists the pile translates and the
// full reaction is mobilised.
func UltimateResistance(profile *soil.Profile, length, diameter, zlug float64, cfg Config) (float64, error) {
	if length <= 0 || diameter <= 0 {
		return 0, fmt.Errorf("%w: length %.3f, diameter %.3f", ErrGeometry, length, diameter)
	}
	cfg = cfg.withDefaults()

	n := 4 * cfg.Stations
	z := floats.Span(make([]float64, n+1), 0, length)
	pu := make([]float64, n+1)
	for i, zi := range z {
		pu[i] = curveAt(profile, zi, diameter, cfg).ultimate()
	}

	// net(i) is the moment about the padeye with rotation at node i
	net := func(i int) float64 {
		m := make([]float64, n+1)
		for j := range z {
			arm := pu[j] * (z[j] - zlug)
			if j <= i {
				m[j] = arm
			} else {
				m[j] = -arm
			}
		}
		return integrate.Trapezoidal(z, m)
	}
	force := func(i int) float64 {
		f := make([]float64, n+1)
		for j := range z {
			if j <= i {
				f[j] = pu[j]
			} else {
				f[j] = -pu[j]
			}
		}
		return math.Abs(integrate.Trapezoidal(z, f))
	}

	prev := net(0)
	for i := 1; i <= n; i++ {
		cur := net(i)
		if prev == 0 || prev*cur < 0 {
			return force(i), nil
		}
		prev = cur
	}
	return integrate.Trapezoidal(z, pu), nil
}
