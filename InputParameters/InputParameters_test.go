package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	{ // A partial file overrides only the keys it names
		fileInput := []byte(`
Title: Quick Case
Iterations: 200
LearningRate: 0.01
NumDomain: 100
Distribution: uniform
LBFGSIterations: 50
`)
		ip := DefaultPINN()
		require.NoError(t, ip.Parse(fileInput))
		assert.Equal(t, "Quick Case", ip.Title)
		assert.Equal(t, 200, ip.Iterations)
		assert.Equal(t, 0.01, ip.LearningRate)
		assert.Equal(t, 100, ip.NumDomain)
		assert.Equal(t, "uniform", ip.Distribution)
		assert.Equal(t, 50, ip.LBFGSIterations)
		// Untouched keys keep the stock methane constants
		assert.Equal(t, 1.0, ip.XMax)
		assert.Equal(t, 10.0, ip.RateConstant)
		assert.Equal(t, 50.0, ip.ActivationEnergy)
		assert.Equal(t, 80, ip.NumBoundary)
		assert.Equal(t, "tanh", ip.Activation)
		assert.Equal(t, "model_checkpoint", ip.CheckpointFile)
	}
	{ // Malformed YAML is an error
		ip := DefaultPINN()
		assert.Error(t, ip.Parse([]byte("Iterations: [not a number")))
	}
}

func TestDefaults(t *testing.T) {
	ip := DefaultPINN()
	assert.Equal(t, 1.0, ip.Velocity)
	assert.Equal(t, 0.01, ip.SpeciesDiffusivity)
	assert.Equal(t, 0.01, ip.ThermalDiffusivity)
	assert.Equal(t, 1.0, ip.GasConstant)
	assert.Equal(t, 10.0, ip.HeatRelease)
	assert.Equal(t, 1.e-3, ip.TempFloor)
	assert.Equal(t, 3, ip.HiddenLayers)
	assert.Equal(t, 50, ip.HiddenWidth)
	assert.Equal(t, 5000, ip.Iterations)
	assert.Equal(t, 2540, ip.NumDomain)
	assert.Equal(t, 160, ip.NumInitial)
	assert.Equal(t, 10000, ip.NumTest)
	assert.False(t, ip.SkipSelfCheck)
	ip.Print()
}
