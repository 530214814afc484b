package network

import "errors"

// ErrONNXUnavailable is returned by NewONNX in builds without cgo.
var ErrONNXUnavailable = errors.New("onnx: runtime not available in this build")

// ONNXConfig locates exported encoder and decoder models and names their
// graph inputs and outputs.
type ONNXConfig struct {
	// SharedLibrary is the path of the onnxruntime shared library. Empty
	// uses the library's platform default.
	SharedLibrary string
	EncoderModel  string
	DecoderModel  string
	// Depth is the number of payload channels the models were trained with.
	Depth int

	EncoderImageInput string
	EncoderDataInput  string
	EncoderOutput     string
	DecoderInput      string
	DecoderOutput     string
}

func (c *ONNXConfig) setDefaults() {
	if c.EncoderImageInput == "" {
		c.EncoderImageInput = "image"
	}
	if c.EncoderDataInput == "" {
		c.EncoderDataInput = "data"
	}
	if c.EncoderOutput == "" {
		c.EncoderOutput = "generated"
	}
	if c.DecoderInput == "" {
		c.DecoderInput = "image"
	}
	if c.DecoderOutput == "" {
		c.DecoderOutput = "decoded"
	}
}
