package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/elakiavm/Steganography-GANS/internal/imgio"
	"github.com/elakiavm/Steganography-GANS/steg"
)

type decodeResult struct {
	text string
	err  error
}

func newDecodeCmd(a *app) *cobra.Command {
	var (
		workers     int
		showMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "decode IMAGE...",
		Short: "Recover hidden text from images",
		Long: `Recover hidden text from one or more images.

Images decode concurrently. Results print in argument order; with several
images each line is prefixed with the file name. The command fails if any
image yields no message.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("workers") {
				a.cfg.Workers = workers
			}
			if a.cfg.Workers <= 0 {
				return fmt.Errorf("workers must be positive, got %d", a.cfg.Workers)
			}
			reg := prometheus.NewRegistry()
			s, release, err := a.steganographer(steg.WithMetrics(steg.NewMetrics(reg)))
			if err != nil {
				return err
			}
			defer release()

			results := make([]decodeResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(a.cfg.Workers)
			for i, path := range args {
				i, path := i, path
				g.Go(func() error {
					img, err := imgio.Load(path)
					if err != nil {
						return err
					}
					text, err := s.Decode(ctx, img)
					if err != nil && !errors.Is(err, steg.ErrMessageNotFound) {
						return fmt.Errorf("%s: %w", path, err)
					}
					results[i] = decodeResult{text: text, err: err}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			missing := 0
			for i, r := range results {
				if r.err != nil {
					missing++
					a.logger.Warn("no message recovered", zap.String("image", args[i]))
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", args[i], r.err)
					continue
				}
				if len(args) > 1 {
					fmt.Fprintf(out, "%s: ", args[i])
				}
				fmt.Fprintln(out, r.text)
			}
			if showMetrics {
				if err := writeMetrics(cmd.ErrOrStderr(), reg); err != nil {
					return err
				}
			}
			if missing > 0 {
				return fmt.Errorf("%d of %d images: %w", missing, len(args), steg.ErrMessageNotFound)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "images decoded concurrently (default from config)")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "print extraction metrics to stderr")
	return cmd
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
