package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBernoulliEdges(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	never := NewBernoulli(0, r)
	always := NewBernoulli(1, r)
	for i := 0; i < 1000; i++ {
		assert.False(t, never.Hit())
		assert.True(t, always.Hit())
	}
}

func TestBitChannelClean(t *testing.T) {
	c, err := NewBitChannel(Scenario{}, rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	bits := []bool{true, false, true}
	assert.Equal(t, 0, c.Apply(bits))
	assert.Equal(t, []bool{true, false, true}, bits)
}

func TestBitChannelFlipRate(t *testing.T) {
	c, err := NewBitChannel(Scenario{FlipRate: 0.1}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	bits := make([]bool, 100000)
	n := c.Apply(bits)

	ones := 0
	for _, b := range bits {
		if b {
			ones++
		}
	}
	assert.Equal(t, n, ones)
	assert.InDelta(t, 10000, n, 600)
}

func TestBitChannelBurst(t *testing.T) {
	c, err := NewBitChannel(Scenario{BurstRate: 1, BurstLen: 8}, rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	bits := make([]bool, 20)
	assert.Equal(t, 20, c.Apply(bits))
}

func TestScenarioValidate(t *testing.T) {
	assert.Error(t, Scenario{FlipRate: 1.5}.Validate())
	assert.Error(t, Scenario{BurstRate: -0.1}.Validate())
	assert.Error(t, Scenario{BurstLen: -1}.Validate())
	assert.NoError(t, Scenario{FlipRate: 0.01, BurstRate: 0.001, BurstLen: 16}.Validate())

	_, err := NewBitChannel(Scenario{FlipRate: 2}, rand.New(rand.NewSource(5)))
	assert.Error(t, err)
	assert.Equal(t, "flip=0.0100", Scenario{FlipRate: 0.01}.String())
	assert.Equal(t, "flip=0.0000 burst=0.00100x16", Scenario{BurstRate: 0.001, BurstLen: 16}.String())
}
