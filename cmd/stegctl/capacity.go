package main

import (
	"errors"
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"github.com/elakiavm/Steganography-GANS/internal/imgio"
	"github.com/elakiavm/Steganography-GANS/steg"
)

func newCapacityCmd(a *app) *cobra.Command {
	var (
		coverPath     string
		width, height int
		text          string
	)
	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Report how many copies of a message fit an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if coverPath != "" {
				img, err := imgio.Load(coverPath)
				if err != nil {
					return err
				}
				b := img.Bounds()
				width, height = b.Dx(), b.Dy()
			}
			if width <= 0 || height <= 0 {
				return errors.New("give --cover or a positive --width and --height")
			}
			f, err := a.framer()
			if err != nil {
				return err
			}
			c, err := steg.NewTiler(f).Capacity(width, height, a.cfg.Depth, text)
			if err != nil {
				return err
			}
			printCapacity(cmd, image.Pt(width, height), a.cfg.Depth, c)
			if !c.Fits() {
				return fmt.Errorf("message needs %d bits, image holds %d", c.CopyBits, c.Cells)
			}
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&coverPath, "cover", "", "cover image; overrides --width and --height")
	fs.IntVar(&width, "width", 0, "image width in pixels")
	fs.IntVar(&height, "height", 0, "image height in pixels")
	fs.StringVarP(&text, "text", "t", "", "message to measure")
	return cmd
}

func printCapacity(cmd *cobra.Command, size image.Point, depth int, c steg.Capacity) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "image:      %dx%d, depth %d\n", size.X, size.Y, depth)
	fmt.Fprintf(out, "cells:      %d bits\n", c.Cells)
	fmt.Fprintf(out, "copy:       %d bits (message, parity and terminator)\n", c.CopyBits)
	fmt.Fprintf(out, "copies:     %d\n", c.Copies)
}
