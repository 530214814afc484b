// Package imgio converts between image files, Go images and the (1, 3, H, W)
// tensors the networks consume.
package imgio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/elakiavm/Steganography-GANS/network"
	"github.com/elakiavm/Steganography-GANS/tensor"
)

// Load decodes a PNG or JPEG file.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save writes img as PNG. A lossy format would destroy the payload.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// ToTensor converts img to a (1, 3, H, W) tensor with RGB values mapped to
// [-1, 1]. Alpha is ignored.
func ToTensor(img image.Image) *tensor.Tensor {
	b := img.Bounds()
	t := tensor.New(1, 3, b.Dy(), b.Dx())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			t.Set(0, 0, y, x, network.Dequantize(c.R))
			t.Set(0, 1, y, x, network.Dequantize(c.G))
			t.Set(0, 2, y, x, network.Dequantize(c.B))
		}
	}
	return t
}

// FromTensor converts a (1, 3, H, W) tensor back to an opaque image,
// clamping to [-1, 1] and rounding to the nearest 8-bit level.
func FromTensor(t *tensor.Tensor) (*image.NRGBA, error) {
	if t.N != 1 || t.C != 3 {
		return nil, fmt.Errorf("imgio: want (1,3,H,W), got %v", t)
	}
	img := image.NewNRGBA(image.Rect(0, 0, t.W, t.H))
	for y := 0; y < t.H; y++ {
		for x := 0; x < t.W; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: network.Quantize(t.At(0, 0, y, x)),
				G: network.Quantize(t.At(0, 1, y, x)),
				B: network.Quantize(t.At(0, 2, y, x)),
				A: 0xff,
			})
		}
	}
	return img, nil
}
