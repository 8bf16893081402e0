// Package sizing searches anchor geometry until the safety factors land in
// the band [target, target+overshoot] in every constrained direction.
package sizing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/safety"

	"github.com/sgostarter/i/l"
)

// Influence is the direction a geometry key is steered by.
type Influence string

const (
	Both       Influence = "both"
	Horizontal Influence = "horizontal"
	Vertical   Influence = "vertical"
)

type Bound struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (b Bound) clip(v float64) float64 {
	return math.Min(math.Max(v, b.Min), b.Max)
}

// Floor keeps a key at or above Factor times another key of the geometry.
type Floor struct {
	Key    string  `json:"key" yaml:"key"`
	Factor float64 `json:"factor" yaml:"factor"`
}

// Evaluator computes capacity and safety factors at a trial geometry.
type Evaluator func(ctx context.Context, g capacity.Geometry) (capacity.Result, safety.Factors, error)

// Step controls the multiplicative update g *= clamp(r^Exponent, MinStep, MaxStep).
type Step struct {
	Exponent float64 `json:"exponent" yaml:"exponent"`
	MinStep  float64 `json:"min_step" yaml:"min_step"`
	MaxStep  float64 `json:"max_step" yaml:"max_step"`
}

func DefaultStep() Step {
	return Step{Exponent: 0.5, MinStep: 0.8, MaxStep: 1.25}
}

type Problem struct {
	Evaluate  Evaluator
	Start     capacity.Geometry
	Keys      []string
	Bounds    map[string]Bound
	Targets   loads.Factors
	Overshoot loads.Factors
	Fixed     map[string]bool
	// Influence defaults to Both for keys not listed.
	Influence map[string]Influence
	// Follow ties a key to a leader key at their starting ratio.
	Follow map[string]string
	// Floors hold the cross-key rules a geometry must keep, such as a
	// shaft staying inside its helix.
	Floors        map[string]Floor
	MaxIterations int
	Step          Step
	Logger        l.Wrapper
}

type State struct {
	Iteration int               `json:"iteration"`
	Geometry  capacity.Geometry `json:"geometry"`
	FS        safety.Factors    `json:"fs"`
	Within    bool              `json:"within"`
}

type Result struct {
	Geometry   capacity.Geometry `json:"geometry"`
	Capacity   capacity.Result   `json:"capacity"`
	FS         safety.Factors    `json:"fs"`
	Iterations int               `json:"iterations"`
	Converged  bool              `json:"converged"`
	History    []State           `json:"history"`
}

const defaultIterations = 100

func (p *Problem) check() error {
	if p.Evaluate == nil {
		return fmt.Errorf("%w: no evaluator", ErrProblem)
	}
	if len(p.Keys) == 0 {
		return fmt.Errorf("%w: no geometry keys", ErrProblem)
	}
	if p.Targets.Ha <= 0 || p.Targets.Va < 0 {
		return fmt.Errorf("%w: targets Ha %.3f Va %.3f", ErrProblem, p.Targets.Ha, p.Targets.Va)
	}
	if p.Overshoot.Ha < 0 || p.Overshoot.Va < 0 {
		return fmt.Errorf("%w: negative overshoot", ErrProblem)
	}
	for _, k := range p.Keys {
		if _, err := p.Start.Get(k); err != nil {
			return fmt.Errorf("%w: %v", ErrProblem, err)
		}
		b, ok := p.Bounds[k]
		if !ok && !p.Fixed[k] {
			return fmt.Errorf("%w: no bound for %q", ErrProblem, k)
		}
		if ok && b.Min > b.Max {
			return fmt.Errorf("%w: bound for %q is empty", ErrProblem, k)
		}
	}
	for k, leader := range p.Follow {
		if _, err := p.Start.Get(k); err != nil {
			return fmt.Errorf("%w: %v", ErrProblem, err)
		}
		if v, _ := p.Start.Get(leader); v == 0 {
			return fmt.Errorf("%w: %q follows %q which starts at zero", ErrProblem, k, leader)
		}
	}
	for k, f := range p.Floors {
		if _, err := p.Start.Get(k); err != nil {
			return fmt.Errorf("%w: %v", ErrProblem, err)
		}
		if _, err := p.Start.Get(f.Key); err != nil {
			return fmt.Errorf("%w: %v", ErrProblem, err)
		}
		if f.Factor <= 0 {
			return fmt.Errorf("%w: floor factor for %q must be positive", ErrProblem, k)
		}
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = defaultIterations
	}
	if p.Step == (Step{}) {
		p.Step = DefaultStep()
	}
	if p.Logger == nil {
		p.Logger = l.NewNopLoggerWrapper()
	}
	return nil
}

// Size runs the search. On budget exhaustion it returns the best geometry
// seen together with ErrNoConvergence. Fixed keys are never touched. A trial
// geometry the evaluator rejects with capacity.ErrGeometry is pulled back
// toward the last valid one; only an invalid start is an error.
func Size(ctx context.Context, p Problem) (Result, error) {
	if err := p.check(); err != nil {
		return Result{}, err
	}
	logger := p.Logger.WithFields(l.StringField(l.ClsKey, "sizing"))

	ratios := make(map[string]float64, len(p.Follow))
	for k, leader := range p.Follow {
		v, _ := p.Start.Get(k)
		lv, _ := p.Start.Get(leader)
		ratios[k] = v / lv
	}

	g := p.Start
	for _, k := range p.Keys {
		if _, ok := p.Bounds[k]; ok && !p.Fixed[k] {
			v, _ := g.Get(k)
			_ = g.Set(k, p.clip(g, k, v))
		}
	}

	var (
		out       Result
		bestScore score
		haveBest  bool
		last      capacity.Geometry
	)
	for it := 1; it <= p.MaxIterations; it++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res, fs, err := p.Evaluate(ctx, g)
		if err != nil && haveBest && errors.Is(err, capacity.ErrGeometry) {
			logger.WithFields(l.ErrorField(err), l.IntField("iteration", it)).Debug("trial geometry rejected, backing off")
			out.Iterations = it
			g = p.between(last, g)
			continue
		}
		if err != nil {
			logger.WithFields(l.ErrorField(err), l.IntField("iteration", it)).Error("evaluate failed")
			return out, err
		}
		last = g
		within := safety.Within(fs, p.Targets, p.Overshoot)
		out.History = append(out.History, State{Iteration: it, Geometry: g, FS: fs, Within: within})
		out.Iterations = it

		s := p.score(fs)
		if !haveBest || s.better(bestScore) {
			bestScore, haveBest = s, true
			out.Geometry, out.Capacity, out.FS = g, res, fs
		}
		logger.WithFields(l.IntField("iteration", it), l.StringField("Ha", format(fs.Ha.Float())),
			l.StringField("Va", format(fs.Va.Float()))).Debug("sizing step")

		if within {
			out.Geometry, out.Capacity, out.FS = g, res, fs
			out.Converged = true
			return out, nil
		}
		g = p.update(g, fs, ratios)
	}

	logger.WithFields(l.IntField("iterations", p.MaxIterations)).Error("iteration budget exhausted")
	return out, fmt.Errorf("%w after %d iterations", ErrNoConvergence, p.MaxIterations)
}

func format(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }

// ratio is the multiplicative correction a direction asks for: 1 when in
// band or unloaded, goal/fs otherwise with the goal at the middle of the
// band.
func (p *Problem) ratio(fs safety.Factors, d safety.Direction) (r float64, below, outside bool) {
	target, over := p.Targets.Ha, p.Overshoot.Ha
	if d == safety.Vertical {
		target, over = p.Targets.Va, p.Overshoot.Va
		if target == 0 {
			return 1, false, false
		}
	}
	v := fs.Get(d)
	if safety.InBand(v, target, over) || math.IsInf(v, 1) {
		return 1, false, false
	}
	goal := target + over/2
	if v <= 0 {
		return math.Inf(1), true, true
	}
	return goal / v, v < target, true
}

func (p *Problem) keyRatio(fs safety.Factors, infl Influence) float64 {
	switch infl {
	case Horizontal:
		r, _, _ := p.ratio(fs, safety.Horizontal)
		return r
	case Vertical:
		r, _, _ := p.ratio(fs, safety.Vertical)
		return r
	}
	// A key steering both directions grows if any direction is short,
	// otherwise shrinks as little as the out of band directions allow.
	var grow, shrink []float64
	for _, d := range safety.Directions {
		r, below, outside := p.ratio(fs, d)
		switch {
		case below:
			grow = append(grow, r)
		case outside:
			shrink = append(shrink, r)
		}
	}
	pickMax := func(rs []float64) float64 {
		m := rs[0]
		for _, r := range rs[1:] {
			m = math.Max(m, r)
		}
		return m
	}
	if len(grow) > 0 {
		return pickMax(grow)
	}
	if len(shrink) > 0 {
		return pickMax(shrink)
	}
	return 1
}

func (p *Problem) update(g capacity.Geometry, fs safety.Factors, ratios map[string]float64) capacity.Geometry {
	for _, k := range p.Keys {
		if p.Fixed[k] {
			continue
		}
		if _, ok := p.Follow[k]; ok {
			continue
		}
		infl, ok := p.Influence[k]
		if !ok {
			infl = Both
		}
		step := math.Pow(p.keyRatio(fs, infl), p.Step.Exponent)
		step = math.Min(math.Max(step, p.Step.MinStep), p.Step.MaxStep)
		v, _ := g.Get(k)
		_ = g.Set(k, p.clip(g, k, v*step))
	}
	for k, leader := range p.Follow {
		if p.Fixed[k] {
			continue
		}
		lv, _ := g.Get(leader)
		v := lv * ratios[k]
		if b, ok := p.Bounds[k]; ok {
			v = b.clip(v)
		}
		_ = g.Set(k, v)
	}
	return g
}

// clip applies the key's bound, then its floor. A floor wins over the bound.
func (p *Problem) clip(g capacity.Geometry, k string, v float64) float64 {
	if b, ok := p.Bounds[k]; ok {
		v = b.clip(v)
	}
	if f, ok := p.Floors[k]; ok {
		ref, _ := g.Get(f.Key)
		v = math.Max(v, f.Factor*ref)
	}
	return v
}

// between moves every searched key halfway from to back toward from.
func (p *Problem) between(from, to capacity.Geometry) capacity.Geometry {
	g := to
	keys := append([]string(nil), p.Keys...)
	for k := range p.Follow {
		keys = append(keys, k)
	}
	for _, k := range keys {
		if p.Fixed[k] {
			continue
		}
		a, _ := from.Get(k)
		b, _ := to.Get(k)
		_ = g.Set(k, (a+b)/2)
	}
	return g
}

// score ranks visited states: less shortfall first, then less excess.
type score struct {
	deficit, excess float64
}

func (s score) better(o score) bool {
	if s.deficit != o.deficit {
		return s.deficit < o.deficit
	}
	return s.excess < o.excess
}

func (p *Problem) score(fs safety.Factors) score {
	var s score
	add := func(v, target, over float64) {
		if math.IsInf(v, 1) {
			return
		}
		if v < target {
			s.deficit += (target - v) / target
		} else if v > target+over {
			s.excess += (v - target - over) / target
		}
	}
	add(fs.Ha.Float(), p.Targets.Ha, p.Overshoot.Ha)
	if p.Targets.Va > 0 {
		add(fs.Va.Float(), p.Targets.Va, p.Overshoot.Va)
	}
	return s
}
