package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/elakiavm/Steganography-GANS/internal/imgio"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		coverPath string
		outPath   string
		text      string
		textFile  string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Hide text in a cover image",
		Long: `Hide text in a cover image and write the result as PNG.

The message is read from --text, from --text-file, or from stdin when
--text-file is "-". The output must stay lossless: re-encoding it as JPEG
destroys the payload.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if coverPath == "" || outPath == "" {
				return errors.New("--cover and --out are required")
			}
			msg, err := readMessage(cmd.InOrStdin(), text, textFile)
			if err != nil {
				return err
			}
			s, release, err := a.steganographer()
			if err != nil {
				return err
			}
			defer release()

			cover, err := imgio.Load(coverPath)
			if err != nil {
				return err
			}
			generated, err := s.Encode(cmd.Context(), cover, msg)
			if err != nil {
				return err
			}
			if err := imgio.Save(outPath, generated); err != nil {
				return err
			}
			a.logger.Info("message hidden",
				zap.String("cover", coverPath),
				zap.String("out", outPath),
				zap.Int("bytes", len(msg)))
			return nil
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&coverPath, "cover", "", "cover image (PNG or JPEG)")
	fs.StringVarP(&outPath, "out", "o", "", "output PNG")
	fs.StringVarP(&text, "text", "t", "", "message to hide")
	fs.StringVar(&textFile, "text-file", "", `file holding the message, "-" for stdin`)
	cmd.MarkFlagsMutuallyExclusive("text", "text-file")
	return cmd
}

func readMessage(stdin io.Reader, text, file string) (string, error) {
	switch file {
	case "":
		return text, nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return strings.TrimSuffix(string(data), "\n"), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
