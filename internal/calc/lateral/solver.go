package lateral

import (
	"errors"
	"fmt"
	"math"

	"Seabed/internal/calc/soil"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Config struct {
	Stations      int     `json:"stations" yaml:"stations"`
	MaxIterations int     `json:"max_iterations" yaml:"max_iterations"`
	Tolerance     float64 `json:"tolerance_m" yaml:"tolerance_m"`
	Epsilon50     float64 `json:"epsilon50" yaml:"epsilon50"`
	J             float64 `json:"matlock_j" yaml:"matlock_j"`
	RQD           float64 `json:"rqd_pct" yaml:"rqd_pct"`
	Krm           float64 `json:"krm" yaml:"krm"`
}

func DefaultConfig() Config {
	return Config{
		Stations:      50,
		MaxIterations: 100,
		Tolerance:     1e-6,
		Epsilon50:     0.01,
		J:             0.5,
		RQD:           50,
		Krm:           0.0005,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Stations < 4 {
		c.Stations = d.Stations
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.Epsilon50 <= 0 {
		c.Epsilon50 = d.Epsilon50
	}
	if c.J <= 0 {
		c.J = d.J
	}
	if c.RQD < 0 {
		c.RQD = d.RQD
	}
	if c.Krm <= 0 {
		c.Krm = d.Krm
	}
	return c
}

// Input describes a tubular steel pile loaded at its padeye. Zlug is
// positive below the mudline; at or above the mudline the load acts at the
// pile head together with a moment H*|Zlug|. V is axial tension.
type Input struct {
	Length    float64 `json:"length_m"`
	Diameter  float64 `json:"diameter_m"`
	Thickness float64 `json:"thickness_m"`
	Zlug      float64 `json:"zlug_m"`
	H         float64 `json:"h_n"`
	V         float64 `json:"v_n"`
	E         float64 `json:"e_pa"`
	Fy        float64 `json:"fy_pa"`
}

func (in Input) check() error {
	if in.Length <= 0 || math.IsNaN(in.Length) {
		return fmt.Errorf("%w: pile length %.3f", ErrGeometry, in.Length)
	}
	if in.Diameter <= 0 || math.IsNaN(in.Diameter) {
		return fmt.Errorf("%w: pile diameter %.3f", ErrGeometry, in.Diameter)
	}
	if in.Thickness > in.Diameter/2 {
		return fmt.Errorf("%w: wall thickness %.4f exceeds radius", ErrGeometry, in.Thickness)
	}
	return nil
}

func (in Input) section() (ei, mp float64) {
	t := in.Thickness
	if t <= 0 {
		t = in.Diameter / 2
	}
	e, fy := in.E, in.Fy
	if e <= 0 {
		e = 200e9
	}
	if fy <= 0 {
		fy = 355e6
	}
	di := in.Diameter - 2*t
	i := math.Pi / 64 * (math.Pow(in.Diameter, 4) - math.Pow(di, 4))
	z := (math.Pow(in.Diameter, 3) - math.Pow(di, 3)) / 6
	return e * i, fy * z
}

type Solution struct {
	Depth        []float64 `json:"depth_m"`
	Deflection   []float64 `json:"deflection_m"`
	Rotation     []float64 `json:"rotation_rad"`
	Moment       []float64 `json:"moment_nm"`
	Shear        []float64 `json:"shear_n"`
	SoilReaction []float64 `json:"soil_reaction_n_m"`

	HeadDeflection float64 `json:"head_deflection_m"`
	MaxMoment      float64 `json:"max_moment_nm"`
	MaxMomentDepth float64 `json:"max_moment_depth_m"`
	PlasticMoment  float64 `json:"plastic_moment_nm"`
	// PlasticMomentReached is set when |M| reaches the section's plastic
	// moment at any station; BendingMoment is then the plastic moment.
	PlasticMomentReached bool    `json:"plastic_moment_reached"`
	BendingMoment        float64 `json:"bending_moment_nm"`

	Iterations int  `json:"iterations"`
	Converged  bool `json:"converged"`
}

// Solve runs the finite difference beam-on-springs analysis. On iteration
// budget exhaustion it returns the last solution with ErrNoConvergence.
func Solve(profile *soil.Profile, in Input, cfg Config) (Solution, error) {
	if profile == nil {
		return Solution{}, fmt.Errorf("%w: nil profile", soil.ErrProfile)
	}
	if err := in.check(); err != nil {
		return Solution{}, err
	}
	cfg = cfg.withDefaults()

	n := cfg.Stations
	h := in.Length / float64(n)
	depth := floats.Span(make([]float64, n+1), 0, in.Length)
	curves := make([]curve, n+1)
	k := make([]float64, n+1)
	for i, z := range depth {
		curves[i] = curveAt(profile, z, in.Diameter, cfg)
		k[i] = math.Max(curves[i].initial(), minSpring)
	}

	ei, mp := in.section()
	sys := system{n: n, h: h, ei: ei, t: in.V}
	sys.loads(in)

	var (
		y, prev   []float64
		converged bool
		it        int
		err       error
	)
	for it = 1; it <= cfg.MaxIterations; it++ {
		y, err = sys.solve(k)
		if err != nil {
			return Solution{}, err
		}
		if prev != nil && maxDiff(y, prev) < cfg.Tolerance {
			converged = true
			break
		}
		prev = y
		for i := range k {
			k[i] = relax*k[i] + (1-relax)*secant(curves[i], y[i+2])
		}
	}
	if it > cfg.MaxIterations {
		it = cfg.MaxIterations
	}

	sol := sys.post(y, depth, curves)
	sol.Iterations = it
	sol.Converged = converged
	sol.PlasticMoment = mp
	sol.BendingMoment = sol.MaxMoment
	if sol.MaxMoment >= mp {
		sol.PlasticMomentReached = true
		sol.BendingMoment = mp
	}
	if !converged {
		return sol, fmt.Errorf("%w after %d iterations", ErrNoConvergence, it)
	}
	return sol, nil
}

const (
	minSpring = 1.0
	relax     = 0.5
)

func secant(c curve, y float64) float64 {
	a := math.Abs(y)
	if a < 1e-12 {
		return math.Max(c.initial(), minSpring)
	}
	return math.Max(math.Abs(c.p(y))/a, minSpring)
}

func maxDiff(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

// system holds the banded finite difference equations. Unknown j maps to
// node j-2; two ghost nodes sit beyond each end.
type system struct {
	n      int
	h, ei  float64
	t      float64
	q      []float64
	m0, h0 float64
}

func (s *system) loads(in Input) {
	s.q = make([]float64, s.n+1)
	if in.Zlug <= 0 {
		s.h0 = in.H
		s.m0 = in.H * math.Abs(in.Zlug)
		return
	}
	j := int(math.Round(in.Zlug / s.h))
	switch {
	case j <= 0:
		s.h0 = in.H
	case j >= s.n:
		s.q[s.n-1] = in.H / s.h
	default:
		s.q[j] = in.H / s.h
	}
}

func (s *system) solve(k []float64) ([]float64, error) {
	n := s.n
	size := n + 5
	a := mat.NewDense(size, size, nil)
	b := mat.NewVecDense(size, nil)

	h2, h3, h4 := s.h*s.h, s.h*s.h*s.h, s.h*s.h*s.h*s.h
	c4 := s.ei / h4
	c2 := s.t / h2
	for i := 0; i <= n; i++ {
		r := i
		j := i + 2
		a.Set(r, j-2, c4)
		a.Set(r, j-1, -4*c4-c2)
		a.Set(r, j, 6*c4+2*c2+k[i])
		a.Set(r, j+1, -4*c4-c2)
		a.Set(r, j+2, c4)
		b.SetVec(r, s.q[i])
	}

	cm := s.ei / h2
	cv := s.ei / (2 * h3)
	ct := s.t / (2 * s.h)

	// head moment
	a.Set(n+1, 1, cm)
	a.Set(n+1, 2, -2*cm)
	a.Set(n+1, 3, cm)
	b.SetVec(n+1, s.m0)

	// head shear
	a.Set(n+2, 0, -cv)
	a.Set(n+2, 1, 2*cv+ct)
	a.Set(n+2, 3, -2*cv-ct)
	a.Set(n+2, 4, cv)
	b.SetVec(n+2, s.h0)

	// free tip
	tip := n + 2
	a.Set(n+3, tip-1, 1)
	a.Set(n+3, tip, -2)
	a.Set(n+3, tip+1, 1)

	a.Set(n+4, tip-2, -cv)
	a.Set(n+4, tip-1, 2*cv+ct)
	a.Set(n+4, tip+1, -2*cv-ct)
	a.Set(n+4, tip+2, cv)

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}
	out := make([]float64, size)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, nil
}

func (s *system) post(y, depth []float64, curves []curve) Solution {
	n := s.n
	sol := Solution{
		Depth:        depth,
		Deflection:   make([]float64, n+1),
		Rotation:     make([]float64, n+1),
		Moment:       make([]float64, n+1),
		Shear:        make([]float64, n+1),
		SoilReaction: make([]float64, n+1),
	}
	h := s.h
	for i := 0; i <= n; i++ {
		j := i + 2
		sol.Deflection[i] = y[j]
		sol.Rotation[i] = (y[j+1] - y[j-1]) / (2 * h)
		sol.Moment[i] = s.ei * (y[j-1] - 2*y[j] + y[j+1]) / (h * h)
		sol.Shear[i] = s.ei*(y[j+2]-2*y[j+1]+2*y[j-1]-y[j-2])/(2*h*h*h) - s.t*sol.Rotation[i]
		sol.SoilReaction[i] = -curves[i].p(y[j])
	}
	sol.HeadDeflection = sol.Deflection[0]

	abs := make([]float64, n+1)
	for i, m := range sol.Moment {
		abs[i] = math.Abs(m)
	}
	idx := floats.MaxIdx(abs)
	sol.MaxMoment = abs[idx]
	sol.MaxMomentDepth = depth[idx]
	return sol
}
