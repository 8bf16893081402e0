package lateral

import (
	"errors"
	"math"
	"testing"

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

func TestSystemMatchesHetenyi(t *testing.T) {
	const (
		ei = 1e9
		k  = 1e7
		p  = 1e5
	)
	n := 120
	springs := make([]float64, n+1)
	for i := range springs {
		springs[i] = k
	}
	beta := math.Pow(k/(4*ei), 0.25)

	s := system{n: n, h: 30.0 / float64(n), ei: ei, q: make([]float64, n+1), h0: p}
	y, err := s.solve(springs)
	require.NoError(t, err)
	assert.InEpsilon(t, 2*p*beta/k, y[2], 2e-3)

	s = system{n: n, h: 30.0 / float64(n), ei: ei, q: make([]float64, n+1), m0: p}
	y, err = s.solve(springs)
	require.NoError(t, err)
	assert.InEpsilon(t, 2*p*beta*beta/k, y[2], 3e-3)
}

func TestSolveHeadLoad(t *testing.T) {
	in := Input{Length: 15, Diameter: 1.5, Thickness: 0.04, H: 2e5}
	sol, err := Solve(clayProfile(t), in, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, sol.Converged)
	assert.Len(t, sol.Depth, 51)
	assert.Len(t, sol.Moment, 51)
	assert.Greater(t, sol.HeadDeflection, 0.0)
	assert.InDelta(t, 0, sol.Moment[0], 1e-6*sol.MaxMoment+1e-3)
	assert.InEpsilon(t, in.H, sol.Shear[0], 1e-6)
	assert.Greater(t, sol.MaxMomentDepth, 0.0)
	assert.False(t, sol.PlasticMomentReached)
	assert.Equal(t, sol.MaxMoment, sol.BendingMoment)
}

func TestSolveAboveMudlinePadeye(t *testing.T) {
	in := Input{Length: 15, Diameter: 1.5, Thickness: 0.04, H: 1e5, Zlug: -3}
	sol, err := Solve(clayProfile(t), in, DefaultConfig())
	require.NoError(t, err)
	assert.InEpsilon(t, 3e5, sol.Moment[0], 1e-6)
}

func TestSolveNonConvergedPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	in := Input{Length: 15, Diameter: 1.5, Thickness: 0.04, H: 2e5, Zlug: 4}
	sol, err := Solve(clayProfile(t), in, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence))
	assert.False(t, sol.Converged)
	assert.Equal(t, 1, sol.Iterations)
	assert.Len(t, sol.Deflection, 51)
}

func TestSolvePlasticMoment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tolerance = 1e-3
	in := Input{Length: 15, Diameter: 0.5, Thickness: 0.01, H: 5e6, Zlug: 0}
	sol, err := Solve(clayProfile(t), in, cfg)
	if err != nil {
		require.True(t, errors.Is(err, ErrNoConvergence))
	}
	assert.True(t, sol.PlasticMomentReached)
	assert.Equal(t, sol.PlasticMoment, sol.BendingMoment)
	assert.Greater(t, sol.MaxMoment, sol.PlasticMoment)
}

func TestSolveRejectsBadGeometry(t *testing.T) {
	p := clayProfile(t)
	_, err := Solve(p, Input{Length: 0, Diameter: 1}, DefaultConfig())
	assert.True(t, errors.Is(err, ErrGeometry))
	_, err = Solve(p, Input{Length: 10, Diameter: 0}, DefaultConfig())
	assert.True(t, errors.Is(err, ErrGeometry))
	_, err = Solve(p, Input{Length: 10, Diameter: 1, Thickness: 0.6}, DefaultConfig())
	assert.True(t, errors.Is(err, ErrGeometry))
}

func TestSolveSandAndRock(t *testing.T) {
	sand, err := soil.NewProfile(soil.Sand, []soil.Row{
		{Depth: 1, Phi: 28, Gamma: 9.5, Dr: 60},
		{Depth: 15, Phi: 38, Gamma: 11.5, Dr: 85},
	})
	require.NoError(t, err)
	sol, err := Solve(sand, Input{Length: 12, Diameter: 0.8, Thickness: 0.02, H: 3e4, Zlug: 2}, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, sol.Converged)

	rock, err := soil.NewProfile(soil.WeakRock, []soil.Row{{Depth: 0, UCS: 5, Em: 500}, {Depth: 30, UCS: 8, Em: 800}})
	require.NoError(t, err)
	sol, err = Solve(rock, Input{Length: 20, Diameter: 1.5, Thickness: 0.04, H: 1e6, Zlug: -3}, DefaultConfig())
	require.NoError(t, err)
	assert.Greater(t, sol.HeadDeflection, 0.0)
}

func TestUltimateResistancePadeyePosition(t *testing.T) {
	p := clayProfile(t)
	head, err := UltimateResistance(p, 15, 2, 0, DefaultConfig())
	require.NoError(t, err)
	mid, err := UltimateResistance(p, 15, 2, 7.5, DefaultConfig())
	require.NoError(t, err)
	above, err := UltimateResistance(p, 15, 2, -3, DefaultConfig())
	require.NoError(t, err)

	assert.Greater(t, head, 0.0)
	assert.Greater(t, mid, head)
	assert.Greater(t, head, above)

	_, err = UltimateResistance(p, 0, 2, 0, DefaultConfig())
	assert.True(t, errors.Is(err, ErrGeometry))
}
