package network

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elakiavm/Steganography-GANS/tensor"
)

func TestQuantizeRoundtrip(t *testing.T) {
	for q := 0; q < 256; q++ {
		assert.Equal(t, uint8(q), Quantize(Dequantize(uint8(q))), "level %d", q)
	}
	assert.Equal(t, uint8(0), Quantize(-3))
	assert.Equal(t, uint8(255), Quantize(7))
	assert.Equal(t, float32(-1), Dequantize(0))
	assert.Equal(t, float32(1), Dequantize(255))
}

func randomImage(r *rand.Rand, h, w int) *tensor.Tensor {
	img := tensor.New(1, 3, h, w)
	for i := range img.Data {
		img.Data[i] = Dequantize(uint8(r.Intn(256)))
	}
	return img
}

func randomPayload(r *rand.Rand, depth, h, w int) *tensor.Tensor {
	p := tensor.New(1, depth, h, w)
	for i := range p.Data {
		p.Data[i] = float32(r.Intn(2))
	}
	return p
}

func TestLSBEmbedExtract(t *testing.T) {
	ctx := context.Background()
	r := rand.New(rand.NewSource(7))
	for _, depth := range []int{1, 3, 4, 8, 24} {
		lsb, err := NewLSB(depth)
		require.NoError(t, err)
		cover := randomImage(r, 9, 13)
		payload := randomPayload(r, depth, 9, 13)

		stego, err := lsb.Embed(ctx, cover, payload)
		require.NoError(t, err)
		bits, err := lsb.Extract(ctx, stego)
		require.NoError(t, err)
		assert.Equal(t, payload.Threshold(0.5), bits, "depth %d", depth)
	}
}

func TestLSBTouchesOnlyLowPlanes(t *testing.T) {
	r := rand.New(rand.NewSource(8))
	lsb, err := NewLSB(3)
	require.NoError(t, err)
	cover := randomImage(r, 16, 16)

	stego, err := lsb.Embed(context.Background(), cover, randomPayload(r, 3, 16, 16))
	require.NoError(t, err)
	for i := range cover.Data {
		assert.Equal(t, Quantize(cover.Data[i])>>1, Quantize(stego.Data[i])>>1)
	}
}

func TestLSBRejectsBadShapes(t *testing.T) {
	ctx := context.Background()
	_, err := NewLSB(0)
	assert.Error(t, err)
	_, err = NewLSB(25)
	assert.Error(t, err)

	lsb, err := NewLSB(4)
	require.NoError(t, err)
	cover := tensor.New(1, 3, 4, 4)
	_, err = lsb.Embed(ctx, cover, tensor.New(1, 3, 4, 4))
	assert.Error(t, err)
	_, err = lsb.Embed(ctx, cover, tensor.New(1, 4, 4, 5))
	assert.Error(t, err)
	_, err = lsb.Extract(ctx, tensor.New(2, 3, 4, 4))
	assert.Error(t, err)

	deep, err := NewLSB(9)
	require.NoError(t, err)
	_, err = deep.Extract(ctx, tensor.New(1, 1, 4, 4))
	assert.Error(t, err)
}
