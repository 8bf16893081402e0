package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"Seabed/internal/calc/sizing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suctionDesign = `type: suction_pile
design: {L: 15, D: 2, zlug: 9.32}
soil_type: clay
soil_properties:
  profile:
    - [1, 10, 8.0]
    - [5, 15, 8.5]
    - [10, 25, 8.5]
    - [25, 50, 9.0]
loads: {Hm: 4.0e6, Vm: 2.0e6}
`

const claySoil = `soil_type: clay
rows:
  - {depth_m: 1, su_kpa: 10, gamma_kn_m3: 8}
  - {depth_m: 25, su_kpa: 50, gamma_kn_m3: 9}
`

func write(t *testing.T, name, body string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCapacityCommand(t *testing.T) {
	out, err := run("capacity", write(t, "design.yaml", suctionDesign))
	require.NoError(t, err)
	assert.Contains(t, out, "ANCHOR: suction_pile in clay")
	assert.Contains(t, out, "Hmax:")
	assert.Contains(t, out, "FS Ha:")
}

func TestSizeCommand(t *testing.T) {
	path := write(t, "design.yaml", suctionDesign)
	out, err := run("size", "--history", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ITERATIONS")
	assert.Contains(t, out, "Converged in ")

	out, err = run("size", "--max-iter", "1", path)
	assert.True(t, errors.Is(err, sizing.ErrNoConvergence))
	assert.Contains(t, out, "Not converged after 1 iterations")
}

func TestLateralCommand(t *testing.T) {
	path := write(t, "soil.yaml", claySoil)
	out, err := run("lateral", "--length", "15", "--diameter", "1.5", "--h", "2e5", "--every", "10", path)
	require.NoError(t, err)
	assert.Contains(t, out, "LATERAL RESPONSE")
	assert.Contains(t, out, "PROFILE")

	_, err = run("lateral", "--diameter", "1.5", path)
	assert.Error(t, err)
}

func TestBadInputs(t *testing.T) {
	_, err := run("capacity", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = run("capacity", write(t, "bad.yaml", "type: gravity\n"))
	assert.Error(t, err)

	_, err = run("capacity", "--engineering", write(t, "eng.yaml", "lateral: [1"), write(t, "design.yaml", suctionDesign))
	assert.Error(t, err)
}
