//go:build !cgo

package network

import (
	"context"

	"go.uber.org/zap"

	"github.com/elakiavm/Steganography-GANS/tensor"
)

// ONNX is unavailable without cgo.
type ONNX struct{}

// NewONNX reports ErrONNXUnavailable.
func NewONNX(cfg ONNXConfig, logger *zap.Logger) (*ONNX, error) {
	if logger != nil {
		logger.Warn("onnx runtime requires cgo; model networks are disabled")
	}
	return nil, ErrONNXUnavailable
}

// Embed implements Encoder.
func (o *ONNX) Embed(ctx context.Context, cover, payload *tensor.Tensor) (*tensor.Tensor, error) {
	return nil, ErrONNXUnavailable
}

// Extract implements Decoder.
func (o *ONNX) Extract(ctx context.Context, image *tensor.Tensor) ([]bool, error) {
	return nil, ErrONNXUnavailable
}

// Close is a no-op.
func (o *ONNX) Close() error { return nil }
