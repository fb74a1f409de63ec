package physics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadTunablesFromReader_EmptyUsesDefaults(t *testing.T) {
	got, err := LoadTunablesFromReader(strings.NewReader(""))
	assert.NoError(t, err)
	assert.Equal(t, DefaultTunables(), got)
}

func TestLoadTunablesFromReader_PartialOverridesOnlySetFields(t *testing.T) {
	yaml := "solver_iterations: 20\n"
	got, err := LoadTunablesFromReader(strings.NewReader(yaml))
	assert.NoError(t, err)

	assert.Equal(t, 20, got.SolverIterations)
	assert.Equal(t, DefaultTunables().PositionIterations, got.PositionIterations)
	assert.Equal(t, DefaultTunables().Gravity, got.Gravity)
}

func TestLoadTunablesFromReader_GravityRoundTrips(t *testing.T) {
	yaml := "gravity: [0, -3.71, 0]\n"
	got, err := LoadTunablesFromReader(strings.NewReader(yaml))
	assert.NoError(t, err)
	assert.InDelta(t, -3.71, got.Gravity[1], 1e-6)
}

func TestLoadTunablesFromReader_InvalidYamlErrors(t *testing.T) {
	_, err := LoadTunablesFromReader(strings.NewReader("not: [valid"))
	assert.Error(t, err)
}
