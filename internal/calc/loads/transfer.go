package loads

import (
	"fmt"
	"math"

	"Seabed/internal/calc/soil"
)

// Chain describes the embedded mooring line between mudline and padeye.
type Chain struct {
	Diameter float64 `json:"diameter_m" yaml:"diameter_m"`
	En       float64 `json:"en" yaml:"en"`
	Nc       float64 `json:"nc" yaml:"nc"`
	Mu       float64 `json:"mu" yaml:"mu"`
}

func DefaultChain() Chain {
	return Chain{Diameter: 0.16, En: 2.5, Nc: 7.6, Mu: 0.4}
}

func (c Chain) withDefaults() Chain {
	d := DefaultChain()
	if c.Diameter <= 0 {
		c.Diameter = d.Diameter
	}
	if c.En <= 0 {
		c.En = d.En
	}
	if c.Nc <= 0 {
		c.Nc = d.Nc
	}
	if c.Mu <= 0 {
		c.Mu = d.Mu
	}
	return c
}

type Transferred struct {
	Mudline Load `json:"mudline"`
	Padeye  Load `json:"padeye"`
	// Angles from horizontal in degrees.
	MudlineAngle float64 `json:"mudline_angle_deg"`
	PadeyeAngle  float64 `json:"padeye_angle_deg"`
	Iterations   int     `json:"iterations"`
}

const (
	transferIterations = 100
	transferTolerance  = 1e-10
)

// Transfer carries a mudline load down the embedded chain to the padeye
// (Neubecker and Randolph). The chain picks up soil bearing, so the padeye
// load is steeper and smaller than at the mudline. Rock profiles and a
// padeye at or above the mudline return the mudline load unchanged.
func Transfer(p *soil.Profile, zlug float64, mudline Load, c Chain) (Transferred, error) {
	if p == nil {
		return Transferred{}, fmt.Errorf("%w: nil profile", soil.ErrProfile)
	}
	if mudline.H < 0 || mudline.V < 0 {
		return Transferred{}, fmt.Errorf("negative mudline load")
	}
	out := Transferred{
		Mudline:      mudline,
		Padeye:       mudline,
		MudlineAngle: mudline.Angle(),
		PadeyeAngle:  mudline.Angle(),
	}
	t0 := mudline.Tension()
	if zlug <= 0 || p.Type().IsRock() || t0 == 0 {
		return out, nil
	}
	c = c.withDefaults()

	// bearing resistance integrated from the mudline to the padeye, N
	var q float64
	switch p.Type() {
	case soil.Clay:
		q = c.En * c.Diameter * c.Nc * p.AverageSu(0, zlug) * zlug * 1e3
	case soil.Sand:
		phi := p.At(zlug/2).Phi * math.Pi / 180
		nq := math.Exp(math.Pi*math.Tan(phi)) * math.Pow(math.Tan(math.Pi/4+phi/2), 2)
		q = c.En * c.Diameter * nq * p.AverageSigmaV(0, zlug) * zlug * 1e3
	}

	theta0 := math.Atan2(mudline.V, mudline.H)
	ta, thetaA := t0, theta0
	for out.Iterations = 1; out.Iterations <= transferIterations; out.Iterations++ {
		next := math.Min(math.Sqrt(theta0*theta0+2*q/ta), math.Pi/2)
		ta = t0 * math.Exp(-c.Mu*(next-theta0))
		done := math.Abs(next-thetaA) < transferTolerance
		thetaA = next
		if done {
			break
		}
	}
	if out.Iterations > transferIterations {
		out.Iterations = transferIterations
	}
	out.Padeye = Load{H: ta * math.Cos(thetaA), V: ta * math.Sin(thetaA)}
	if thetaA >= math.Pi/2 {
		// vertical chain at the padeye
		out.Padeye = Load{V: ta}
	}
	out.PadeyeAngle = thetaA * 180 / math.Pi
	return out, nil
}
