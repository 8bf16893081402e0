package config

import (
	"os"
	"path/filepath"
	"testing"

	"Seabed/internal/calc/capacity"
	"Seabed/internal/calc/lateral"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unset clears keys for the test and restores them afterwards.
func unset(t *testing.T, keys ...string) {
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadDefaults(t *testing.T) {
	unset(t, "DATABASE_URL", "LISTEN_ADDR", "MATERIALS_FILE")
	t.Setenv("TOKEN_KEY", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, DefaultDSN, cfg.DatabaseURL)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, "secret", cfg.TokenKey)
	assert.Equal(t, capacity.DefaultMaterials(), cfg.Engineering.Materials)
	assert.Equal(t, lateral.DefaultConfig(), cfg.Engineering.Lateral)
	assert.Equal(t, 1.8, cfg.Engineering.Targets.Ha)
}

func TestLoadEnvFile(t *testing.T) {
	unset(t, "DATABASE_URL", "LISTEN_ADDR", "MATERIALS_FILE", "TOKEN_KEY")
	dir := t.TempDir()
	yml := filepath.Join(dir, "materials.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("materials:\n  steel_yield_pa: 450000000\n"), 0o600))
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte(
		"TOKEN_KEY=abc\nLISTEN_ADDR=:9090\nMATERIALS_FILE="+yml+"\n"), 0o600))

	cfg, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, "abc", cfg.TokenKey)
	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 450e6, cfg.Engineering.Materials.SteelYield)
	assert.Equal(t, capacity.DefaultMaterials().SteelModulus, cfg.Engineering.Materials.SteelModulus)
}

func TestLoadRequiresTokenKey(t *testing.T) {
	unset(t, "TOKEN_KEY", "MATERIALS_FILE")
	_, err := Load("")
	assert.Error(t, err)
}

func TestParseEngineering(t *testing.T) {
	eng, err := ParseEngineering([]byte(`
lateral:
  stations: 80
chain:
  mu: 0.3
targets:
  Ha: 1.5
  Va: 0
`))
	require.NoError(t, err)
	assert.Equal(t, 80, eng.Lateral.Stations)
	assert.Equal(t, 1e-6, eng.Lateral.Tolerance)
	assert.Equal(t, 0.3, eng.Chain.Mu)
	assert.Equal(t, 7.6, eng.Chain.Nc)
	assert.Equal(t, 1.5, eng.Targets.Ha)
	assert.Equal(t, 0.0, eng.Targets.Va)

	_, err = ParseEngineering([]byte("lateral: [1, 2"))
	assert.Error(t, err)
}
