package steg

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/elakiavm/Steganography-GANS/fec"
)

// Defaults of the reference configuration.
const (
	DefaultParitySymbols   = 250
	DefaultMaxMessageBytes = 1 << 20
)

// FramerConfig controls the redundancy/robustness trade-off of a Framer.
type FramerConfig struct {
	// ParitySymbols is the number of Reed-Solomon parity bytes per
	// 255-byte block; a block corrects ParitySymbols/2 byte errors.
	ParitySymbols int
	// Compression is applied to the UTF-8 text before error correction.
	Compression Compression
	// MaxMessageBytes bounds the decompressed size of a candidate.
	MaxMessageBytes int
}

// DefaultFramerConfig returns the reference configuration: zlib and 250
// parity symbols.
func DefaultFramerConfig() FramerConfig {
	return FramerConfig{
		ParitySymbols:   DefaultParitySymbols,
		Compression:     CompressionZlib,
		MaxMessageBytes: DefaultMaxMessageBytes,
	}
}

// Framer turns text into compressed, error-corrected bytes and back.
// A Framer is immutable and safe for concurrent use.
type Framer struct {
	cfg FramerConfig
	rs  *fec.RSCodec
}

// NewFramer validates cfg and builds a Framer. A zero MaxMessageBytes
// selects the default.
func NewFramer(cfg FramerConfig) (*Framer, error) {
	if cfg.MaxMessageBytes == 0 {
		cfg.MaxMessageBytes = DefaultMaxMessageBytes
	}
	if cfg.MaxMessageBytes < 0 {
		return nil, fmt.Errorf("steg: max message bytes must not be negative, got %d", cfg.MaxMessageBytes)
	}
	if _, err := ParseCompression(cfg.Compression.String()); err != nil {
		return nil, fmt.Errorf("steg: %w", err)
	}
	rs, err := fec.NewRSCodec(cfg.ParitySymbols)
	if err != nil {
		return nil, fmt.Errorf("steg: %w", err)
	}
	return &Framer{cfg: cfg, rs: rs}, nil
}

// Config returns the configuration the Framer was built with.
func (f *Framer) Config() FramerConfig { return f.cfg }

// Frame compresses and error-protects text.
func (f *Framer) Frame(text string) ([]byte, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrEncoding)
	}
	packed, err := compress(f.cfg.Compression, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return f.rs.Encode(packed), nil
}

// Unframe corrects, decompresses and validates data. It reports false on
// any failure; the cause is dropped.
func (f *Framer) Unframe(data []byte) (string, bool) {
	text, _, err := f.unframe(data)
	if err != nil {
		return "", false
	}
	return text, true
}

// unframe is Unframe with the failure cause and the number of corrected
// bytes kept for logging and metrics.
func (f *Framer) unframe(data []byte) (string, int, error) {
	if len(data) == 0 {
		return "", 0, errors.New("empty segment")
	}
	packed, corrected, err := f.rs.Decode(data)
	if err != nil {
		return "", corrected, err
	}
	raw, err := decompress(f.cfg.Compression, packed, f.cfg.MaxMessageBytes)
	if err != nil {
		return "", corrected, err
	}
	if !utf8.Valid(raw) {
		return "", corrected, errors.New("invalid UTF-8")
	}
	return string(raw), corrected, nil
}
