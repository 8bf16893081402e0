package sizing

import (
	"context"
	"errors"
	"testing"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/safety"
	"Seabed/internal/calc/soil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clayProfile(t *testing.T) *soil.Profile {
	p, err := soil.NewProfile(soil.Clay, []soil.Row{
		{Depth: 1, Su: 10, Gamma: 8.0},
		{Depth: 5, Su: 15, Gamma: 8.5},
		{Depth: 10, Su: 25, Gamma: 8.5},
		{Depth: 25, Su: 50, Gamma: 9.0},
	})
	require.NoError(t, err)
	return p
}

func suctionEvaluator(p *soil.Profile, load loads.Load) Evaluator {
	return func(_ context.Context, g capacity.Geometry) (capacity.Result, safety.Factors, error) {
		res, err := capacity.Evaluate(capacity.Input{
			Anchor:   capacity.SuctionPile,
			Profile:  p,
			Geometry: g,
			H:        load.H,
			V:        load.V,
		})
		if err != nil {
			return capacity.Result{}, safety.Factors{}, err
		}
		return res, safety.GetFS(res, load), nil
	}
}

func suctionProblem(t *testing.T, load loads.Load) Problem {
	return Problem{
		Evaluate:  suctionEvaluator(clayProfile(t), load),
		Start:     capacity.Geometry{L: 15, D: 2, Zlug: 9.32},
		Keys:      []string{capacity.KeyL, capacity.KeyD, capacity.KeyZlug},
		Bounds:    map[string]Bound{"L": {5, 50}, "D": {1, 7}, "zlug": {3.3, 16.7}},
		Targets:   loads.Factors{Ha: 1.8, Va: 2},
		Overshoot: loads.Factors{Ha: 5, Va: 5},
		Follow:    map[string]string{capacity.KeyZlug: capacity.KeyL},
	}
}

func assertInBounds(t *testing.T, p Problem, g capacity.Geometry) {
	for k, b := range p.Bounds {
		if p.Fixed[k] {
			continue
		}
		v, err := g.Get(k)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, b.Min, k)
		assert.LessOrEqual(t, v, b.Max, k)
	}
}

func TestSizeSuctionPileInClay(t *testing.T) {
	p := suctionProblem(t, loads.Load{H: 4e6, V: 2e6})
	res, err := Size(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Greater(t, res.Iterations, 1)
	assertInBounds(t, p, res.Geometry)
	assert.GreaterOrEqual(t, res.FS.Ha.Float(), 1.8)
	assert.LessOrEqual(t, res.FS.Ha.Float(), 6.8)
	assert.GreaterOrEqual(t, res.FS.Va.Float(), 2.0)
	assert.LessOrEqual(t, res.FS.Va.Float(), 7.0)
	assert.Greater(t, res.Geometry.L, 15.0)
	assert.InEpsilon(t, 9.32/15, res.Geometry.Zlug/res.Geometry.L, 1e-9)
	assert.Len(t, res.History, res.Iterations)
}

func TestSizeIdempotentAtFixedPoint(t *testing.T) {
	p := suctionProblem(t, loads.Load{H: 2e6, V: 1e6})
	res, err := Size(context.Background(), p)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, p.Start, res.Geometry)
}

func TestSizeFixedKeysAndBounds(t *testing.T) {
	// safety factors far below target push every free key to its upper bound
	weak := func(_ context.Context, g capacity.Geometry) (capacity.Result, safety.Factors, error) {
		fs := safety.Factors{Ha: capacity.Ratio(1e-3 * g.L * g.D), Va: capacity.Ratio(1e-3 * g.L)}
		return capacity.Result{}, fs, nil
	}
	p := Problem{
		Evaluate:      weak,
		Start:         capacity.Geometry{L: 15.123456789, D: 2, Zlug: 9.32},
		Keys:          []string{"L", "D", "zlug"},
		Bounds:        map[string]Bound{"L": {5, 50}, "D": {1, 7}, "zlug": {3.3, 16.7}},
		Targets:       loads.Factors{Ha: 1.8, Va: 2},
		Overshoot:     loads.Factors{Ha: 5, Va: 5},
		Fixed:         map[string]bool{"L": true},
		MaxIterations: 30,
	}
	res, err := Size(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence))
	assert.False(t, res.Converged)
	assert.Equal(t, 30, res.Iterations)

	for _, s := range res.History {
		assert.Equal(t, 15.123456789, s.Geometry.L)
		assertInBounds(t, p, s.Geometry)
	}
	assert.Equal(t, 7.0, res.History[len(res.History)-1].Geometry.D)
	assert.Equal(t, 16.7, res.History[len(res.History)-1].Geometry.Zlug)
	// the best state is the strongest one reached
	assert.Equal(t, 7.0, res.Geometry.D)
}

func TestSizeShrinksOversizedGeometry(t *testing.T) {
	strong := func(_ context.Context, g capacity.Geometry) (capacity.Result, safety.Factors, error) {
		fs := safety.Factors{Ha: capacity.Ratio(g.L * g.D), Va: capacity.Ratio(g.L * g.D)}
		return capacity.Result{}, fs, nil
	}
	p := Problem{
		Evaluate:  strong,
		Start:     capacity.Geometry{L: 10, D: 2},
		Keys:      []string{"L", "D"},
		Bounds:    map[string]Bound{"L": {1, 50}, "D": {0.5, 7}},
		Targets:   loads.Factors{Ha: 2, Va: 2},
		Overshoot: loads.Factors{Ha: 1, Va: 1},
	}
	res, err := Size(context.Background(), p)
	require.NoError(t, err)
	assert.Less(t, res.Geometry.L, 10.0)
	assert.GreaterOrEqual(t, res.FS.Ha.Float(), 2.0)
	assert.LessOrEqual(t, res.FS.Ha.Float(), 3.0)
}

func TestSizeIgnoresZeroVerticalTarget(t *testing.T) {
	eval := func(_ context.Context, g capacity.Geometry) (capacity.Result, safety.Factors, error) {
		return capacity.Result{}, safety.Factors{Ha: capacity.Ratio(g.L / 5), Va: 0.1}, nil
	}
	p := Problem{
		Evaluate:  eval,
		Start:     capacity.Geometry{L: 10},
		Keys:      []string{"L"},
		Bounds:    map[string]Bound{"L": {1, 50}},
		Targets:   loads.Factors{Ha: 2, Va: 0},
		Overshoot: loads.Factors{Ha: 1},
	}
	res, err := Size(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Iterations)
}

func TestSizeRejectsBadProblems(t *testing.T) {
	p := suctionProblem(t, loads.Load{H: 4e6, V: 2e6})
	p.Evaluate = nil
	_, err := Size(context.Background(), p)
	assert.True(t, errors.Is(err, ErrProblem))

	p = suctionProblem(t, loads.Load{H: 4e6, V: 2e6})
	p.Keys = append(p.Keys, "width")
	_, err = Size(context.Background(), p)
	assert.True(t, errors.Is(err, ErrProblem))

	p = suctionProblem(t, loads.Load{H: 4e6, V: 2e6})
	delete(p.Bounds, "D")
	_, err = Size(context.Background(), p)
	assert.True(t, errors.Is(err, ErrProblem))
}

func TestSizeHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Size(ctx, suctionProblem(t, loads.Load{H: 4e6, V: 2e6}))
	assert.True(t, errors.Is(err, context.Canceled))
}

// helixEvaluator rejects a helix no wider than its shaft and reports safety
// factors that grow with the helix diameter.
func helixEvaluator(_ context.Context, g capacity.Geometry) (capacity.Result, safety.Factors, error) {
	if g.ShaftD >= g.D {
		return capacity.Result{}, safety.Factors{}, capacity.ErrGeometry
	}
	return capacity.Result{}, safety.Factors{Ha: capacity.Ratio(10 * g.D), Va: capacity.Ratio(10 * g.D)}, nil
}

func TestSizeFloorKeepsShaftInsideHelix(t *testing.T) {
	p := Problem{
		Evaluate:      helixEvaluator,
		Start:         capacity.Geometry{L: 12, D: 1.8, ShaftD: 0.8},
		Keys:          []string{"D"},
		Bounds:        map[string]Bound{"D": {0.5, 3}},
		Floors:        map[string]Floor{"D": {Key: "d", Factor: 1.05}},
		Targets:       loads.Factors{Ha: 2, Va: 2},
		Overshoot:     loads.Factors{Ha: 1, Va: 1},
		MaxIterations: 20,
	}
	res, err := Size(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence))
	assert.Len(t, res.History, 20)
	for _, s := range res.History {
		assert.GreaterOrEqual(t, s.Geometry.D, 0.84-1e-12)
	}
	assert.InDelta(t, 0.84, res.Geometry.D, 1e-12)
}

func TestSizeBacksOffRejectedGeometry(t *testing.T) {
	p := Problem{
		Evaluate:      helixEvaluator,
		Start:         capacity.Geometry{L: 12, D: 1.8, ShaftD: 0.8},
		Keys:          []string{"D"},
		Bounds:        map[string]Bound{"D": {0.5, 3}},
		Targets:       loads.Factors{Ha: 2, Va: 2},
		Overshoot:     loads.Factors{Ha: 1, Va: 1},
		MaxIterations: 40,
	}
	res, err := Size(context.Background(), p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence))
	assert.False(t, errors.Is(err, capacity.ErrGeometry))
	assert.Equal(t, 40, res.Iterations)
	assert.Less(t, len(res.History), 40)
	for _, s := range res.History {
		assert.Greater(t, s.Geometry.D, 0.8)
	}
	assert.Greater(t, res.Geometry.D, 0.8)
	assert.Less(t, res.Geometry.D, 1.8)
}

func TestSizeRejectsInvalidStart(t *testing.T) {
	p := Problem{
		Evaluate:  helixEvaluator,
		Start:     capacity.Geometry{L: 12, D: 0.6, ShaftD: 0.8},
		Keys:      []string{"D"},
		Bounds:    map[string]Bound{"D": {0.5, 3}},
		Targets:   loads.Factors{Ha: 2, Va: 2},
		Overshoot: loads.Factors{Ha: 1, Va: 1},
	}
	_, err := Size(context.Background(), p)
	assert.True(t, errors.Is(err, capacity.ErrGeometry))
}
