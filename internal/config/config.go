// Package config loads stegctl configuration.
//
// Configuration comes from an optional YAML file given with --config.
// Command-line flags override file values; anything left unset keeps the
// value from Default.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/elakiavm/Steganography-GANS/network"
	"github.com/elakiavm/Steganography-GANS/steg"
)

// Network kinds.
const (
	NetworkLSB  = "lsb"
	NetworkONNX = "onnx"
)

// Config is the complete stegctl configuration.
type Config struct {
	// Depth is the number of payload channels per pixel.
	Depth int `yaml:"depth"`

	// ParitySymbols is the Reed-Solomon redundancy per 255-byte block.
	ParitySymbols int `yaml:"parity_symbols"`

	// Compression names the compressor: zlib, zstd, lz4 or snappy.
	Compression string `yaml:"compression"`

	// MaxMessageBytes caps the decompressed size of a candidate message.
	MaxMessageBytes int `yaml:"max_message_bytes"`

	// Workers bounds how many images decode concurrently.
	Workers int `yaml:"workers"`

	Network NetworkConfig `yaml:"network"`
	Log     LogConfig     `yaml:"log"`
}

// NetworkConfig selects the model that embeds and extracts payloads.
type NetworkConfig struct {
	// Kind is "lsb" for the built-in bit-plane model or "onnx" for
	// exported encoder and decoder graphs.
	Kind string `yaml:"kind"`

	SharedLibrary string `yaml:"shared_library"`
	EncoderModel  string `yaml:"encoder_model"`
	DecoderModel  string `yaml:"decoder_model"`

	EncoderImageInput string `yaml:"encoder_image_input"`
	EncoderDataInput  string `yaml:"encoder_data_input"`
	EncoderOutput     string `yaml:"encoder_output"`
	DecoderInput      string `yaml:"decoder_input"`
	DecoderOutput     string `yaml:"decoder_output"`
}

// LogConfig configures logging. An empty File logs to stderr.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the reference configuration: four payload channels,
// 250 parity symbols and zlib through the LSB model.
func Default() *Config {
	return &Config{
		Depth:           4,
		ParitySymbols:   steg.DefaultParitySymbols,
		Compression:     steg.CompressionZlib.String(),
		MaxMessageBytes: steg.DefaultMaxMessageBytes,
		Workers:         4,
		Network: NetworkConfig{
			Kind: NetworkLSB,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadFile reads path over Default and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Depth <= 0 {
		errs = append(errs, fmt.Errorf("depth must be positive, got %d", c.Depth))
	}
	if c.ParitySymbols <= 0 || c.ParitySymbols >= 255 {
		errs = append(errs, fmt.Errorf("parity_symbols must be in [1,254], got %d", c.ParitySymbols))
	}
	if _, err := steg.ParseCompression(c.Compression); err != nil {
		errs = append(errs, err)
	}
	if c.MaxMessageBytes < 0 {
		errs = append(errs, fmt.Errorf("max_message_bytes must not be negative, got %d", c.MaxMessageBytes))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	switch c.Network.Kind {
	case NetworkLSB:
	case NetworkONNX:
		if c.Network.EncoderModel == "" && c.Network.DecoderModel == "" {
			errs = append(errs, errors.New("network: onnx needs encoder_model or decoder_model"))
		}
	default:
		errs = append(errs, fmt.Errorf("network: unknown kind %q", c.Network.Kind))
	}
	return errors.Join(errs...)
}

// FramerConfig returns the message framing settings.
func (c *Config) FramerConfig() (steg.FramerConfig, error) {
	comp, err := steg.ParseCompression(c.Compression)
	if err != nil {
		return steg.FramerConfig{}, err
	}
	return steg.FramerConfig{
		ParitySymbols:   c.ParitySymbols,
		Compression:     comp,
		MaxMessageBytes: c.MaxMessageBytes,
	}, nil
}

// ONNXConfig returns the model settings for an onnx network.
func (c *Config) ONNXConfig() network.ONNXConfig {
	return network.ONNXConfig{
		SharedLibrary:     c.Network.SharedLibrary,
		EncoderModel:      c.Network.EncoderModel,
		DecoderModel:      c.Network.DecoderModel,
		Depth:             c.Depth,
		EncoderImageInput: c.Network.EncoderImageInput,
		EncoderDataInput:  c.Network.EncoderDataInput,
		EncoderOutput:     c.Network.EncoderOutput,
		DecoderInput:      c.Network.DecoderInput,
		DecoderOutput:     c.Network.DecoderOutput,
	}
}
