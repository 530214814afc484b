package network

import (
	"context"
	"fmt"
	"math"

	"github.com/elakiavm/Steganography-GANS/tensor"
)

// LSB is a fixed, non-learned model that writes payload bits into the bit
// planes of the 8-bit cover channels. Payload channel d lands in image
// channel d%C at bit plane d/C, so depth 3 touches only least significant
// bits of an RGB image.
//
// It survives lossless 8-bit round trips exactly and serves as a reference
// model when no trained network is available.
type LSB struct {
	Depth int
}

// NewLSB returns an LSB model carrying depth payload channels.
func NewLSB(depth int) (*LSB, error) {
	if depth <= 0 || depth > 24 {
		return nil, fmt.Errorf("lsb: depth must be in [1,24], got %d", depth)
	}
	return &LSB{Depth: depth}, nil
}

// Quantize maps a [-1, 1] channel value to its 8-bit level.
func Quantize(v float32) uint8 {
	q := math.Round((float64(v) + 1) * 127.5)
	if q < 0 {
		return 0
	}
	if q > 255 {
		return 255
	}
	return uint8(q)
}

// Dequantize maps an 8-bit level to [-1, 1].
func Dequantize(q uint8) float32 { return float32(q)/127.5 - 1 }

func (l *LSB) check(image *tensor.Tensor) error {
	if image.N != 1 {
		return fmt.Errorf("lsb: batch of %d images, want 1", image.N)
	}
	if l.Depth > 8*image.C {
		return fmt.Errorf("lsb: depth %d exceeds %d bit planes", l.Depth, 8*image.C)
	}
	return nil
}

// Embed implements Encoder.
func (l *LSB) Embed(ctx context.Context, cover, payload *tensor.Tensor) (*tensor.Tensor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.check(cover); err != nil {
		return nil, err
	}
	if payload.N != 1 || payload.C != l.Depth || payload.H != cover.H || payload.W != cover.W {
		return nil, fmt.Errorf("lsb: payload %v does not match cover %v at depth %d", payload, cover, l.Depth)
	}
	out := cover.Clone()
	for d := 0; d < l.Depth; d++ {
		c, plane := d%cover.C, uint(d/cover.C)
		for h := 0; h < cover.H; h++ {
			for w := 0; w < cover.W; w++ {
				q := Quantize(out.At(0, c, h, w))
				if payload.At(0, d, h, w) > 0.5 {
					q |= 1 << plane
				} else {
					q &^= 1 << plane
				}
				out.Set(0, c, h, w, Dequantize(q))
			}
		}
	}
	return out, nil
}

// Extract implements Decoder.
func (l *LSB) Extract(ctx context.Context, image *tensor.Tensor) ([]bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := l.check(image); err != nil {
		return nil, err
	}
	bits := make([]bool, 0, l.Depth*image.H*image.W)
	for d := 0; d < l.Depth; d++ {
		c, plane := d%image.C, uint(d/image.C)
		for h := 0; h < image.H; h++ {
			for w := 0; w < image.W; w++ {
				bits = append(bits, Quantize(image.At(0, c, h, w))>>plane&1 == 1)
			}
		}
	}
	return bits, nil
}

var _ Codec = (*LSB)(nil)
