package soil

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/interp"
)

type Type string

const (
	Clay     Type = "clay"
	Sand     Type = "sand"
	Rock     Type = "rock"
	WeakRock Type = "weak_rock"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case Clay, Sand, Rock, WeakRock:
		return Type(s), nil
	}
	return "", fmt.Errorf("%w: unknown soil type %q", ErrProfile, s)
}

// IsRock reports whether t is one of the rock types.
func (t Type) IsRock() bool { return t == Rock || t == WeakRock }

// Row is one depth row of a soil table. Clay reads Su and Gamma, sand reads
// Phi, Gamma, Dr and Delta, rock reads UCS and Em (Gamma optional).
type Row struct {
	Depth float64 `json:"depth_m" yaml:"depth_m"`
	Su    float64 `json:"su_kpa,omitempty" yaml:"su_kpa,omitempty"`
	Gamma float64 `json:"gamma_kn_m3,omitempty" yaml:"gamma_kn_m3,omitempty"`
	Phi   float64 `json:"phi_deg,omitempty" yaml:"phi_deg,omitempty"`
	Dr    float64 `json:"dr_pct,omitempty" yaml:"dr_pct,omitempty"`
	Delta float64 `json:"delta_deg,omitempty" yaml:"delta_deg,omitempty"`
	UCS   float64 `json:"ucs_mpa,omitempty" yaml:"ucs_mpa,omitempty"`
	Em    float64 `json:"em_mpa,omitempty" yaml:"em_mpa,omitempty"`
}

// Table is the wire form of a profile.
type Table struct {
	SoilType Type  `json:"soil_type" yaml:"soil_type"`
	Rows     []Row `json:"rows" yaml:"rows"`
}

func (t Table) Build(opts ...Option) (*Profile, error) {
	return NewProfile(t.SoilType, t.Rows, opts...)
}

type field int

const (
	fieldSu field = iota
	fieldGamma
	fieldPhi
	fieldDr
	fieldDelta
	fieldUCS
	fieldEm
	fieldCount
)

func (r Row) get(f field) float64 {
	switch f {
	case fieldSu:
		return r.Su
	case fieldGamma:
		return r.Gamma
	case fieldPhi:
		return r.Phi
	case fieldDr:
		return r.Dr
	case fieldDelta:
		return r.Delta
	case fieldUCS:
		return r.UCS
	case fieldEm:
		return r.Em
	}
	return 0
}

// defaultRockGamma is used for the overburden of rock rows given without a unit weight.
const defaultRockGamma = 12.0

// Params is the full parameter set at one depth. Stresses in kPa, unit
// weights in kN/m3, angles in degrees, rock strength and modulus in MPa.
type Params struct {
	Depth  float64 `json:"depth_m"`
	Su     float64 `json:"su_kpa,omitempty"`
	Gamma  float64 `json:"gamma_kn_m3"`
	SigmaV float64 `json:"sigma_v_kpa"`
	Alpha  float64 `json:"alpha,omitempty"`
	Phi    float64 `json:"phi_deg,omitempty"`
	Dr     float64 `json:"dr_pct,omitempty"`
	Delta  float64 `json:"delta_deg,omitempty"`
	UCS    float64 `json:"ucs_mpa,omitempty"`
	Em     float64 `json:"em_mpa,omitempty"`
}

type curve struct {
	pl     interp.PiecewiseLinear
	value  float64
	single bool
}

func (c *curve) at(z float64) float64 {
	if c.single {
		return c.value
	}
	return c.pl.Predict(z)
}

// Profile is an immutable, depth-sorted soil table with clamped
// piecewise-linear lookups. It is safe for concurrent use.
type Profile struct {
	soilType    Type
	rows        []Row
	depths      []float64
	curves      [fieldCount]*curve
	stressFloor float64
}

type Option func(p *Profile)

// WithStressFloor sets the lower bound applied to effective vertical stress.
func WithStressFloor(v float64) Option {
	return func(p *Profile) {
		if v > 0 {
			p.stressFloor = v
		}
	}
}

func NewProfile(t Type, rows []Row, opts ...Option) (*Profile, error) {
	if _, err := ParseType(string(t)); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrProfile)
	}
	if rows[0].Depth < 0 {
		return nil, fmt.Errorf("%w: first depth %.3f is negative", ErrProfile, rows[0].Depth)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Depth <= rows[i-1].Depth {
			return nil, fmt.Errorf("%w: depths not strictly increasing at row %d", ErrProfile, i)
		}
	}

	p := &Profile{
		soilType:    t,
		rows:        make([]Row, len(rows)),
		depths:      make([]float64, len(rows)),
		stressFloor: 1.0,
	}
	copy(p.rows, rows)
	for _, o := range opts {
		o(p)
	}

	for i := range p.rows {
		r := &p.rows[i]
		if err := checkRow(t, *r, i); err != nil {
			return nil, err
		}
		if t == Sand && r.Delta <= 0 {
			r.Delta = r.Phi - 5
		}
		if t.IsRock() && r.Gamma <= 0 {
			r.Gamma = defaultRockGamma
		}
		p.depths[i] = r.Depth
	}

	for f := field(0); f < fieldCount; f++ {
		c, err := p.fit(f)
		if err != nil {
			return nil, err
		}
		p.curves[f] = c
	}
	return p, nil
}

func checkRow(t Type, r Row, i int) error {
	switch t {
	case Clay:
		if r.Su < 0 || r.Gamma <= 0 {
			return fmt.Errorf("%w: clay row %d needs su >= 0 and gamma > 0", ErrProfile, i)
		}
	case Sand:
		if r.Phi <= 0 || r.Phi >= 90 || r.Gamma <= 0 {
			return fmt.Errorf("%w: sand row %d needs 0 < phi < 90 and gamma > 0", ErrProfile, i)
		}
	case Rock, WeakRock:
		if r.UCS <= 0 {
			return fmt.Errorf("%w: rock row %d needs ucs > 0", ErrProfile, i)
		}
	}
	return nil
}

func (p *Profile) fit(f field) (*curve, error) {
	ys := make([]float64, len(p.rows))
	for i, r := range p.rows {
		ys[i] = r.get(f)
	}
	if len(ys) == 1 {
		return &curve{value: ys[0], single: true}, nil
	}
	c := &curve{}
	if err := c.pl.Fit(p.depths, ys); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfile, err)
	}
	return c, nil
}

func (p *Profile) Type() Type { return p.soilType }

func (p *Profile) Rows() []Row {
	out := make([]Row, len(p.rows))
	copy(out, p.rows)
	return out
}

func (p *Profile) Top() float64    { return p.depths[0] }
func (p *Profile) Bottom() float64 { return p.depths[len(p.depths)-1] }

// Clamp limits z to the profile's depth range.
func (p *Profile) Clamp(z float64) float64 {
	return math.Min(math.Max(z, p.Top()), p.Bottom())
}

func (p *Profile) value(f field, z float64) float64 {
	return p.curves[f].at(z)
}

// SigmaV is the effective vertical stress at z in kPa, the integral of the
// submerged unit weight from the mudline, floored to the stress floor.
func (p *Profile) SigmaV(z float64) float64 {
	if z <= 0 {
		return p.stressFloor
	}
	s := p.integrate(fieldGamma, 0, z)
	return math.Max(s, p.stressFloor)
}

// average returns the depth-averaged value of f over [z0, z1].
func (p *Profile) average(f field, z0, z1 float64) float64 {
	if z1 <= z0 {
		return p.value(f, z0)
	}
	return p.integrate(f, z0, z1) / (z1 - z0)
}

func (p *Profile) integrate(f field, z0, z1 float64) float64 {
	xs := []float64{z0}
	for _, d := range p.depths {
		if d > z0 && d < z1 {
			xs = append(xs, d)
		}
	}
	xs = append(xs, z1)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = p.value(f, x)
	}
	return integrate.Trapezoidal(xs, ys)
}

// AverageSu is the mean undrained shear strength over [z0, z1] in kPa.
func (p *Profile) AverageSu(z0, z1 float64) float64 { return p.average(fieldSu, z0, z1) }

// AverageUCS is the mean unconfined compressive strength over [z0, z1] in MPa.
func (p *Profile) AverageUCS(z0, z1 float64) float64 { return p.average(fieldUCS, z0, z1) }

// AverageSigmaV is the mean effective vertical stress over [z0, z1] in kPa.
func (p *Profile) AverageSigmaV(z0, z1 float64) float64 {
	if z1 <= z0 {
		return p.SigmaV(z0)
	}
	const n = 20
	xs := make([]float64, n+1)
	ys := make([]float64, n+1)
	for i := range xs {
		xs[i] = z0 + (z1-z0)*float64(i)/n
		ys[i] = p.SigmaV(xs[i])
	}
	return integrate.Trapezoidal(xs, ys) / (z1 - z0)
}

// At returns the parameters at depth z. Point values are clamped to the
// profile range; SigmaV integrates from the mudline.
func (p *Profile) At(z float64) Params {
	out := Params{
		Depth:  z,
		Gamma:  p.value(fieldGamma, z),
		SigmaV: p.SigmaV(z),
	}
	switch p.soilType {
	case Clay:
		out.Su = p.value(fieldSu, z)
		out.Alpha = Alpha(out.Su, out.SigmaV)
	case Sand:
		out.Phi = p.value(fieldPhi, z)
		out.Dr = p.value(fieldDr, z)
		out.Delta = p.value(fieldDelta, z)
	case Rock, WeakRock:
		out.UCS = p.value(fieldUCS, z)
		out.Em = p.value(fieldEm, z)
	}
	return out
}
