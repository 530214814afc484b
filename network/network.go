// Package network defines the capabilities the coding layer needs from a
// steganography model and provides implementations of them.
//
// Image tensors are (1, 3, H, W) with channel values in [-1, 1]. Payload
// tensors are (1, depth, H, W) with cells in {0, 1}.
package network

import (
	"context"

	"github.com/elakiavm/Steganography-GANS/tensor"
)

// Encoder hides a payload in a cover image.
type Encoder interface {
	Embed(ctx context.Context, cover, payload *tensor.Tensor) (*tensor.Tensor, error)
}

// Decoder reads the payload bits back from an image. The result has one bit
// per payload cell in (depth, height, width) order.
type Decoder interface {
	Extract(ctx context.Context, image *tensor.Tensor) ([]bool, error)
}

// Codec is a model that both embeds and extracts.
type Codec interface {
	Encoder
	Decoder
}
