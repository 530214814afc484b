package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elakiavm/Steganography-GANS/internal/sim"
	"github.com/elakiavm/Steganography-GANS/steg"
)

func TestParseLists(t *testing.T) {
	ints, err := parseInts("32, 64,,250")
	require.NoError(t, err)
	assert.Equal(t, []int{32, 64, 250}, ints)
	_, err = parseInts("32,x")
	assert.Error(t, err)

	rates, err := parseRates("0,0.01")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.01}, rates)

	comps, err := parseCompressions("zlib,snappy")
	require.NoError(t, err)
	assert.Equal(t, []steg.Compression{steg.CompressionZlib, steg.CompressionSnappy}, comps)
	_, err = parseCompressions("gzip")
	assert.Error(t, err)
}

func TestEvaluateCleanChannel(t *testing.T) {
	f, err := steg.NewFramer(steg.FramerConfig{ParitySymbols: 32})
	require.NoError(t, err)
	p := params{Width: 64, Height: 64, Depth: 4, MsgLen: 24, Runs: 6, Workers: 3, Seed: 1}

	a, err := evaluate(f, sim.Scenario{}, p)
	require.NoError(t, err)
	assert.Equal(t, 6, a.Runs)
	assert.Equal(t, 6, a.Successes)
	assert.Zero(t, a.FlippedBits)
	assert.Positive(t, a.Copies)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	f, err := steg.NewFramer(steg.FramerConfig{ParitySymbols: 32})
	require.NoError(t, err)
	p := params{Width: 64, Height: 64, Depth: 4, MsgLen: 24, Runs: 8, Workers: 4, Seed: 9}
	scn := sim.Scenario{FlipRate: 0.02}

	a, err := evaluate(f, scn, p)
	require.NoError(t, err)
	b, err := evaluate(f, scn, p)
	require.NoError(t, err)
	assert.Equal(t, a.Successes, b.Successes)
	assert.Equal(t, a.FlippedBits, b.FlippedBits)
	assert.Positive(t, a.FlippedBits)
}

func TestRenderMarkdown(t *testing.T) {
	res := allResults{
		{Parity: 32, Compression: "zlib", Flip: 0}:    {Runs: 10, Successes: 10, Copies: 4},
		{Parity: 32, Compression: "zlib", Flip: 0.01}: {Runs: 10, Successes: 7, Copies: 4},
	}
	var buf bytes.Buffer
	renderMarkdown(&buf, res, params{Width: 64, Height: 64, Depth: 4, MsgLen: 24, Runs: 10}, time.Unix(0, 0).UTC())
	out := buf.String()
	assert.Contains(t, out, "| Parity | Compression | Copies | flip 0.00% | flip 1.00% |")
	assert.Contains(t, out, "| 32 | zlib | 4 | 100.00 | 70.00 |")
	assert.Len(t, sortedKeys(res), 2)
}
