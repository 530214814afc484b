//go:build cgo

package network

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/zap"

	"github.com/elakiavm/Steganography-GANS/tensor"
)

var (
	ortOnce sync.Once
	ortErr  error
)

// initRuntime loads the onnxruntime library once per process. The library
// path is fixed by the first caller.
func initRuntime(lib string) error {
	ortOnce.Do(func() {
		if lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			ortErr = fmt.Errorf("onnx: initialize environment: %w", err)
			return
		}
		if !ort.IsInitialized() {
			ortErr = fmt.Errorf("onnx: environment not initialized")
		}
	})
	return ortErr
}

// ONNX runs exported encoder and decoder models through ONNX Runtime.
// Either model may be omitted; the matching method then fails.
type ONNX struct {
	cfg     ONNXConfig
	encoder *ort.DynamicAdvancedSession
	decoder *ort.DynamicAdvancedSession
	logger  *zap.Logger
}

// NewONNX loads the configured models.
func NewONNX(cfg ONNXConfig, logger *zap.Logger) (*ONNX, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.setDefaults()
	if cfg.Depth <= 0 {
		return nil, fmt.Errorf("onnx: depth must be positive, got %d", cfg.Depth)
	}
	if cfg.EncoderModel == "" && cfg.DecoderModel == "" {
		return nil, fmt.Errorf("onnx: no model configured")
	}
	if err := initRuntime(cfg.SharedLibrary); err != nil {
		return nil, err
	}
	o := &ONNX{cfg: cfg, logger: logger}
	var err error
	if cfg.EncoderModel != "" {
		o.encoder, err = ort.NewDynamicAdvancedSession(cfg.EncoderModel,
			[]string{cfg.EncoderImageInput, cfg.EncoderDataInput},
			[]string{cfg.EncoderOutput}, nil)
		if err != nil {
			return nil, fmt.Errorf("onnx: load encoder %s: %w", cfg.EncoderModel, err)
		}
		logger.Info("encoder model loaded", zap.String("path", cfg.EncoderModel))
	}
	if cfg.DecoderModel != "" {
		o.decoder, err = ort.NewDynamicAdvancedSession(cfg.DecoderModel,
			[]string{cfg.DecoderInput},
			[]string{cfg.DecoderOutput}, nil)
		if err != nil {
			o.Close()
			return nil, fmt.Errorf("onnx: load decoder %s: %w", cfg.DecoderModel, err)
		}
		logger.Info("decoder model loaded", zap.String("path", cfg.DecoderModel))
	}
	return o, nil
}

func toOrt(t *tensor.Tensor) (*ort.Tensor[float32], error) {
	return ort.NewTensor(ort.NewShape(t.Shape()...), t.Data)
}

// Embed implements Encoder.
func (o *ONNX) Embed(ctx context.Context, cover, payload *tensor.Tensor) (*tensor.Tensor, error) {
	if o.encoder == nil {
		return nil, fmt.Errorf("onnx: no encoder model loaded")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if payload.C != o.cfg.Depth {
		return nil, fmt.Errorf("onnx: payload depth %d, model depth %d", payload.C, o.cfg.Depth)
	}
	img, err := toOrt(cover)
	if err != nil {
		return nil, fmt.Errorf("onnx: cover tensor: %w", err)
	}
	defer img.Destroy()
	data, err := toOrt(payload)
	if err != nil {
		return nil, fmt.Errorf("onnx: payload tensor: %w", err)
	}
	defer data.Destroy()
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(cover.Shape()...))
	if err != nil {
		return nil, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer out.Destroy()

	if err := o.encoder.Run([]ort.Value{img, data}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: encoder run: %w", err)
	}
	generated := tensor.New(cover.N, cover.C, cover.H, cover.W)
	copy(generated.Data, out.GetData())
	return generated, nil
}

// Extract implements Decoder. Cells with a positive logit read as 1.
func (o *ONNX) Extract(ctx context.Context, image *tensor.Tensor) ([]bool, error) {
	if o.decoder == nil {
		return nil, fmt.Errorf("onnx: no decoder model loaded")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := toOrt(image)
	if err != nil {
		return nil, fmt.Errorf("onnx: image tensor: %w", err)
	}
	defer img.Destroy()
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(int64(image.N), int64(o.cfg.Depth), int64(image.H), int64(image.W)))
	if err != nil {
		return nil, fmt.Errorf("onnx: output tensor: %w", err)
	}
	defer out.Destroy()

	if err := o.decoder.Run([]ort.Value{img}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("onnx: decoder run: %w", err)
	}
	logits := tensor.New(image.N, o.cfg.Depth, image.H, image.W)
	copy(logits.Data, out.GetData())
	return logits.Threshold(0), nil
}

// Close releases both sessions.
func (o *ONNX) Close() error {
	var first error
	for _, s := range []*ort.DynamicAdvancedSession{o.encoder, o.decoder} {
		if s == nil {
			continue
		}
		if err := s.Destroy(); err != nil && first == nil {
			first = err
		}
	}
	o.encoder, o.decoder = nil, nil
	return first
}

var _ Codec = (*ONNX)(nil)
