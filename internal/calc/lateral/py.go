package lateral

import (
	"math"

	"Seabed/internal/calc/soil"

	"gonum.org/v1/gonum/interp"
)

const kilo = 1e3

// curve is a p-y relation at one station: p in N/m for deflection y in m.
type curve interface {
	p(y float64) float64
	initial() float64
	ultimate() float64
}

// Matlock (1970) soft clay, static loading.
type matlockClay struct {
	pu, y50 float64
}

func newMatlockClay(prm soil.Params, z, d float64, cfg Config) curve {
	su := prm.Su * kilo
	if su <= 0 {
		return matlockClay{}
	}
	sigma := prm.SigmaV * kilo
	np := 3 + sigma/su + cfg.J*z/d
	if np > 9 {
		np = 9
	}
	return matlockClay{pu: np * su * d, y50: 2.5 * cfg.Epsilon50 * d}
}

func (c matlockClay) p(y float64) float64 {
	a := math.Abs(y)
	if c.pu == 0 || c.y50 == 0 {
		return 0
	}
	if a >= 8*c.y50 {
		return math.Copysign(c.pu, y)
	}
	return math.Copysign(0.5*c.pu*math.Cbrt(a/c.y50), y)
}

func (c matlockClay) initial() float64 {
	if c.y50 == 0 {
		return 0
	}
	return 0.5 * c.pu / c.y50
}

func (c matlockClay) ultimate() float64 { return c.pu }

// sandModulus is the API RP2A initial modulus of subgrade reaction below the
// water table, in MN/m3, against friction angle in degrees.
var sandModulus = func() *interp.PiecewiseLinear {
	pl := &interp.PiecewiseLinear{}
	phi := []float64{25, 29, 33, 36, 40, 45}
	k := []float64{2.0, 5.4, 16.3, 24.4, 34.0, 45.0}
	if err := pl.Fit(phi, k); err != nil {
		panic(err)
	}
	return pl
}()

// API RP2A sand, static loading.
type apiSand struct {
	a, pu, kz float64
}

func newAPISand(prm soil.Params, z, d float64) curve {
	phi := prm.Phi
	c1 := 0.115 * math.Pow(10, 0.0405*phi)
	c2 := 0.571 * math.Pow(10, 0.022*phi)
	c3 := 0.646 * math.Pow(10, 0.0555*phi)
	sigma := prm.SigmaV * kilo
	if z <= 0 {
		sigma = 0
	}
	pus := (c1*z + c2*d) * sigma
	pud := c3 * d * sigma
	return apiSand{
		a:  math.Max(3-0.8*z/d, 0.9),
		pu: math.Min(pus, pud),
		kz: sandModulus.Predict(phi) * 1e6 * z,
	}
}

func (c apiSand) p(y float64) float64 {
	if c.pu == 0 {
		return 0
	}
	apu := c.a * c.pu
	return apu * math.Tanh(c.kz*y/apu)
}

func (c apiSand) initial() float64  { return c.kz }
func (c apiSand) ultimate() float64 { return c.a * c.pu }

// Reese (1997) weak rock.
type reeseRock struct {
	pur, kir, yrm, ya float64
}

func rockStrength(prm soil.Params, z, d float64, cfg Config) (pur, kir float64) {
	qur := prm.UCS * 1e6
	eir := prm.Em * 1e6
	alpha := 1 - (2.0/3.0)*cfg.RQD/100
	if z <= 3*d {
		pur = alpha * qur * d * (1 + 1.4*z/d)
		kir = (100 + 400*z/(3*d)) * eir
	} else {
		pur = 5.2 * alpha * qur * d
		kir = 500 * eir
	}
	return pur, kir
}

func newReeseRock(prm soil.Params, z, d float64, cfg Config) curve {
	pur, kir := rockStrength(prm, z, d, cfg)
	c := reeseRock{pur: pur, kir: kir, yrm: cfg.Krm * d}
	if kir > 0 && c.yrm > 0 {
		c.ya = math.Pow(pur/(2*math.Pow(c.yrm, 0.25)*kir), 4.0/3.0)
	}
	return c
}

func (c reeseRock) p(y float64) float64 {
	a := math.Abs(y)
	switch {
	case a <= c.ya:
		return c.kir * y
	case a <= 16*c.yrm:
		return math.Copysign(c.pur/2*math.Pow(a/c.yrm, 0.25), y)
	default:
		return math.Copysign(c.pur, y)
	}
}

func (c reeseRock) initial() float64  { return c.kir }
func (c reeseRock) ultimate() float64 { return c.pur }

// Elastic-perfectly-plastic springs for competent rock.
type elasticRock struct {
	pur, kir float64
}

func newElasticRock(prm soil.Params, z, d float64, cfg Config) curve {
	pur, kir := rockStrength(prm, z, d, cfg)
	return elasticRock{pur: pur, kir: kir}
}

func (c elasticRock) p(y float64) float64 {
	if math.Abs(c.kir*y) >= c.pur {
		return math.Copysign(c.pur, y)
	}
	return c.kir * y
}

func (c elasticRock) initial() float64  { return c.kir }
func (c elasticRock) ultimate() float64 { return c.pur }

func curveAt(profile *soil.Profile, z, d float64, cfg Config) curve {
	prm := profile.At(z)
	switch profile.Type() {
	case soil.Clay:
		return newMatlockClay(prm, z, d, cfg)
	case soil.Sand:
		return newAPISand(prm, z, d)
	case soil.WeakRock:
		return newReeseRock(prm, z, d, cfg)
	default:
		return newElasticRock(prm, z, d, cfg)
	}
}
