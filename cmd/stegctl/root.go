package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/elakiavm/Steganography-GANS/internal/config"
	"github.com/elakiavm/Steganography-GANS/internal/logging"
	"github.com/elakiavm/Steganography-GANS/network"
	"github.com/elakiavm/Steganography-GANS/steg"
)

// globalFlags mirror the config file; a flag set on the command line wins.
type globalFlags struct {
	ConfigPath  string
	Depth       int
	Parity      int
	Compression string
	LogLevel    string
	Network     string
}

// app holds everything built from configuration before a subcommand runs.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	var (
		flags globalFlags
		a     = &app{}
	)
	root := &cobra.Command{
		Use:           "stegctl",
		Short:         "Hide text in images and recover it",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), &flags)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log)
			if err != nil {
				return err
			}
			a.cfg, a.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "YAML configuration file")
	pf.IntVarP(&flags.Depth, "depth", "d", 0, "payload channels per pixel")
	pf.IntVar(&flags.Parity, "parity", 0, "Reed-Solomon parity symbols per block (1-254)")
	pf.StringVar(&flags.Compression, "compression", "", "compressor: zlib|zstd|lz4|snappy")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug|info|warn|error")
	pf.StringVar(&flags.Network, "network", "", "network: lsb|onnx")

	root.AddCommand(newEncodeCmd(a), newDecodeCmd(a), newCapacityCmd(a))
	return root
}

// loadConfig reads the config file, if any, and applies flags that were set.
func loadConfig(fs *pflag.FlagSet, flags *globalFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadFile(flags.ConfigPath); err != nil {
			return nil, err
		}
	}
	if fs.Changed("depth") {
		cfg.Depth = flags.Depth
	}
	if fs.Changed("parity") {
		cfg.ParitySymbols = flags.Parity
	}
	if fs.Changed("compression") {
		cfg.Compression = flags.Compression
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = flags.LogLevel
	}
	if fs.Changed("network") {
		cfg.Network.Kind = flags.Network
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) framer() (*steg.Framer, error) {
	fc, err := a.cfg.FramerConfig()
	if err != nil {
		return nil, err
	}
	return steg.NewFramer(fc)
}

// steganographer builds the configured network and wraps it. The returned
// func releases model resources.
func (a *app) steganographer(opts ...steg.Option) (*steg.Steganographer, func(), error) {
	f, err := a.framer()
	if err != nil {
		return nil, nil, err
	}
	opts = append([]steg.Option{steg.WithLogger(a.logger)}, opts...)

	switch a.cfg.Network.Kind {
	case config.NetworkLSB:
		lsb, err := network.NewLSB(a.cfg.Depth)
		if err != nil {
			return nil, nil, err
		}
		s, err := steg.New(a.cfg.Depth, lsb, lsb, f, opts...)
		return s, func() {}, err

	case config.NetworkONNX:
		o, err := network.NewONNX(a.cfg.ONNXConfig(), a.logger)
		if err != nil {
			return nil, nil, err
		}
		release := func() {
			if err := o.Close(); err != nil {
				a.logger.Warn("closing onnx sessions", zap.Error(err))
			}
		}
		var (
			enc network.Encoder
			dec network.Decoder
		)
		if a.cfg.Network.EncoderModel != "" {
			enc = o
		}
		if a.cfg.Network.DecoderModel != "" {
			dec = o
		}
		s, err := steg.New(a.cfg.Depth, enc, dec, f, opts...)
		if err != nil {
			release()
			return nil, nil, err
		}
		return s, release, nil

	default:
		return nil, nil, fmt.Errorf("unknown network %q", a.cfg.Network.Kind)
	}
}
