package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestONNXConfigDefaults(t *testing.T) {
	cfg := ONNXConfig{DecoderOutput: "logits"}
	cfg.setDefaults()
	assert.Equal(t, "image", cfg.EncoderImageInput)
	assert.Equal(t, "data", cfg.EncoderDataInput)
	assert.Equal(t, "generated", cfg.EncoderOutput)
	assert.Equal(t, "image", cfg.DecoderInput)
	assert.Equal(t, "logits", cfg.DecoderOutput)
}

func TestNewONNXWithoutModels(t *testing.T) {
	_, err := NewONNX(ONNXConfig{Depth: 3}, nil)
	assert.Error(t, err)
}
