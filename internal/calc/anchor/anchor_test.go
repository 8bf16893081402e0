package anchor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/loads"
	"Seabed/internal/calc/sizing"
	"Seabed/internal/calc/soil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suctionDesign() map[string]any {
	return map[string]any{
		"type":      "suction_pile",
		"design":    map[string]any{"L": 15, "D": "2", "zlug": 9.32},
		"soil_type": "clay",
		"soil_properties": map[string]any{
			"profile": []any{
				[]any{1, 10, 8.0},
				[]any{5, 15, 8.5},
				[]float64{10, 25, 8.5},
				[]any{25.0, "50", 9},
			},
		},
		"loads": map[string]any{"Hm": 4e6, "Vm": 2e6},
	}
}

func TestFromDesign(t *testing.T) {
	a, err := FromDesign(suctionDesign())
	require.NoError(t, err)
	assert.Equal(t, capacity.SuctionPile, a.Type)
	assert.Equal(t, capacity.Geometry{L: 15, D: 2, Zlug: 9.32}, a.Geometry)
	assert.Equal(t, soil.Clay, a.Profile.Type())
	assert.Equal(t, 50.0, a.Profile.At(25).Su)
	assert.Equal(t, loads.Load{H: 4e6, V: 2e6}, a.Mudline)
}

func TestFromDesignRejects(t *testing.T) {
	dd := suctionDesign()
	dd["design"] = map[string]any{"L": 15, "D1": 2}
	_, err := FromDesign(dd)
	assert.True(t, errors.Is(err, capacity.ErrGeometry))

	dd = suctionDesign()
	dd["soil_type"] = "peat"
	_, err = FromDesign(dd)
	assert.True(t, errors.Is(err, soil.ErrProfile))

	dd = suctionDesign()
	dd["soil_type"] = "sand"
	_, err = FromDesign(dd)
	assert.True(t, errors.Is(err, soil.ErrProfile))

	dd = suctionDesign()
	dd["type"] = "gravity_base"
	_, err = FromDesign(dd)
	assert.True(t, errors.Is(err, capacity.ErrUnsupported))
}

func TestAnchorFS(t *testing.T) {
	a, err := FromDesign(suctionDesign())
	require.NoError(t, err)

	lug, err := a.LugForces()
	require.NoError(t, err)
	assert.Less(t, lug.Padeye.H, a.Mudline.H)

	as, err := a.FS(DefaultTargets)
	require.NoError(t, err)
	assert.Equal(t, loads.Factor(lug.Padeye, DefaultTargets), as.Design)
	assert.InEpsilon(t, as.Capacity.HorizontalMax/lug.Padeye.H, as.FS.Ha.Float(), 1e-12)
	assert.InEpsilon(t, as.Capacity.VerticalMax/lug.Padeye.V, as.FS.Va.Float(), 1e-12)
}

func TestAnchorSizeAdoptsConvergedGeometry(t *testing.T) {
	a, err := FromDesign(suctionDesign())
	require.NoError(t, err)

	res, err := a.Size(context.Background(), SizeConfig{})
	require.NoError(t, err)
	require.True(t, res.Converged)
	assert.Equal(t, res.Geometry, a.Geometry)
	assert.Greater(t, a.Geometry.L, 15.0)
	assert.LessOrEqual(t, a.Geometry.L, 50.0)
	assert.LessOrEqual(t, a.Geometry.D, 7.0)
	assert.LessOrEqual(t, a.Geometry.Zlug, 16.7)

	as, err := a.FS(DefaultTargets)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, as.FS.Ha.Float(), 1.8)
	assert.GreaterOrEqual(t, as.FS.Va.Float(), 2.0)
}

func TestAnchorSizeFixZlug(t *testing.T) {
	a, err := FromDesign(suctionDesign())
	require.NoError(t, err)

	res, err := a.Size(context.Background(), SizeConfig{FixZlug: true})
	require.NoError(t, err)
	for _, s := range res.History {
		assert.Equal(t, 9.32, s.Geometry.Zlug)
	}
}

func TestAnchorCost(t *testing.T) {
	a, err := FromDesign(suctionDesign())
	require.NoError(t, err)

	_, err = a.Cost(context.Background(), nil)
	assert.Error(t, err)

	byLength := func(_ context.Context, a *Anchor) (float64, error) { return 1000 * a.Geometry.L, nil }
	c, err := a.Cost(context.Background(), byLength)
	require.NoError(t, err)
	assert.Equal(t, 15000.0, c)
}

func TestDefaultSizingCoversEveryAnchorType(t *testing.T) {
	for a := range capacity.Combinations() {
		cfg := DefaultSizing(a)
		assert.NotEmpty(t, cfg.Keys, a)
		for _, k := range cfg.Keys {
			assert.Contains(t, capacity.Keys(a), k)
			_, ok := cfg.Bounds[k]
			assert.True(t, ok, "%s %s", a, k)
		}
	}
}

func profileFor(t *testing.T, st soil.Type) *soil.Profile {
	var rows []soil.Row
	switch st {
	case soil.Clay:
		rows = []soil.Row{
			{Depth: 1, Su: 10, Gamma: 8.0},
			{Depth: 5, Su: 15, Gamma: 8.5},
			{Depth: 10, Su: 25, Gamma: 8.5},
			{Depth: 25, Su: 50, Gamma: 9.0},
		}
	case soil.Sand:
		rows = []soil.Row{
			{Depth: 1, Phi: 28, Gamma: 9.5, Dr: 60},
			{Depth: 8, Phi: 34, Gamma: 10.0, Dr: 75},
			{Depth: 30, Phi: 38, Gamma: 11.5, Dr: 85},
		}
	default:
		rows = []soil.Row{{Depth: 0, UCS: 5, Em: 500}, {Depth: 30, UCS: 8, Em: 800}}
	}
	p, err := soil.NewProfile(st, rows)
	require.NoError(t, err)
	return p
}

func TestSizeEveryCombinationStaysValid(t *testing.T) {
	mudline := map[string]loads.Load{
		"light": {H: 2e3, V: 2e3},
		"heavy": {H: 5e6, V: 3e6},
	}
	for at, soils := range capacity.Combinations() {
		for _, st := range soils {
			for name, load := range mudline {
				a := &Anchor{Type: at, Profile: profileFor(t, st), Geometry: DefaultGeometry(at), Mudline: load}
				res, err := a.Size(context.Background(), SizeConfig{MaxIterations: 25})
				label := string(at) + "/" + string(st) + "/" + name
				if err != nil {
					require.True(t, errors.Is(err, sizing.ErrNoConvergence), "%s: %v", label, err)
					assert.False(t, res.Converged, label)
				}
				require.NotEmpty(t, res.History, label)
				assert.NoError(t, res.Geometry.Validate(at, st), label)

				cfg := DefaultSizing(at)
				for _, k := range cfg.Keys {
					b, ok := cfg.Bounds[k]
					if !ok {
						continue
					}
					v, _ := res.Geometry.Get(k)
					assert.GreaterOrEqual(t, v, b.Min, "%s %s", label, k)
					assert.LessOrEqual(t, v, b.Max, "%s %s", label, k)
				}
			}
		}
	}
}

func TestSizeHelicalKeepsShaftInsideHelix(t *testing.T) {
	a := &Anchor{
		Type:     capacity.HelicalPile,
		Profile:  profileFor(t, soil.Clay),
		Geometry: DefaultGeometry(capacity.HelicalPile),
		Mudline:  loads.Load{H: 2e3, V: 2e3},
	}
	res, err := a.Size(context.Background(), SizeConfig{})
	if err != nil {
		require.True(t, errors.Is(err, sizing.ErrNoConvergence), err)
	}
	for _, s := range res.History {
		assert.GreaterOrEqual(t, s.Geometry.D, helixShaftRatio*s.Geometry.ShaftD-1e-12)
	}
	assert.Less(t, res.Geometry.D, 1.8)
}

func TestHandlerCalc(t *testing.T) {
	body, err := json.Marshal(Request{Design: suctionDesign()})
	require.NoError(t, err)

	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/tools/anchor/calc", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "suction_pile", out["anchor_type"])
	assert.Contains(t, out, "fs")
	assert.Contains(t, out, "capacity")

	rec = httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/tools/anchor/calc", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
