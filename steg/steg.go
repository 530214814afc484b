// Package steg hides text in images through a steganography model and
// recovers it.
//
// Text is compressed, protected with Reed-Solomon parity, terminated with
// four zero bytes and tiled over a (1, depth, H, W) payload tensor. On the
// way back the decoded bits are split at terminators, every segment is
// unframed, and the most frequent message wins.
package steg

import (
	"context"
	"errors"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/elakiavm/Steganography-GANS/internal/imgio"
	"github.com/elakiavm/Steganography-GANS/network"
)

// Steganographer couples the coding layer with a model.
type Steganographer struct {
	depth     int
	enc       network.Encoder
	dec       network.Decoder
	tiler     *Tiler
	extractor *Extractor
	logger    *zap.Logger
}

// New builds a Steganographer for a model carrying depth payload channels.
// enc or dec may be nil for decode-only or encode-only use.
func New(depth int, enc network.Encoder, dec network.Decoder, f *Framer, opts ...Option) (*Steganographer, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: depth=%d", ErrInvalidShape, depth)
	}
	if f == nil {
		return nil, errors.New("steg: nil framer")
	}
	ex := NewExtractor(f, opts...)
	return &Steganographer{
		depth:     depth,
		enc:       enc,
		dec:       dec,
		tiler:     NewTiler(f),
		extractor: ex,
		logger:    ex.logger,
	}, nil
}

// Depth returns the number of payload channels.
func (s *Steganographer) Depth() int { return s.depth }

// Encode hides text in cover and returns the generated image.
func (s *Steganographer) Encode(ctx context.Context, cover image.Image, text string) (image.Image, error) {
	if s.enc == nil {
		return nil, errors.New("steg: no encoder configured")
	}
	img := imgio.ToTensor(cover)
	payload, capacity, err := s.tiler.Layout(img.W, img.H, s.depth, text)
	if err != nil {
		return nil, err
	}
	if !capacity.Fits() {
		s.logger.Warn("message does not fit the cover; it will not be recoverable",
			zap.Int("copy_bits", capacity.CopyBits),
			zap.Int("cells", capacity.Cells))
	}
	generated, err := s.enc.Embed(ctx, img, payload)
	if err != nil {
		return nil, fmt.Errorf("steg: embed: %w", err)
	}
	generated.Clamp(-1, 1)
	out, err := imgio.FromTensor(generated)
	if err != nil {
		return nil, fmt.Errorf("steg: embed: %w", err)
	}
	s.logger.Debug("message embedded",
		zap.Int("width", img.W),
		zap.Int("height", img.H),
		zap.Int("copies", capacity.Copies))
	return out, nil
}

// Decode recovers the message hidden in img. It fails with
// ErrMessageNotFound when nothing decodes.
func (s *Steganographer) Decode(ctx context.Context, img image.Image) (string, error) {
	if s.dec == nil {
		return "", errors.New("steg: no decoder configured")
	}
	t := imgio.ToTensor(img)
	bits, err := s.dec.Extract(ctx, t)
	if err != nil {
		return "", fmt.Errorf("steg: extract: %w", err)
	}
	if want := s.depth * t.H * t.W; len(bits) != want {
		return "", fmt.Errorf("steg: decoder returned %d bits, want %d", len(bits), want)
	}
	return s.extractor.Extract(bits)
}
