package steg

import (
	"fmt"

	"github.com/elakiavm/Steganography-GANS/tensor"
)

// Terminator closes every framed copy in a payload.
var Terminator = []byte{0, 0, 0, 0}

// Tiler lays framed messages out over payload tensors.
type Tiler struct {
	framer *Framer
}

// NewTiler returns a Tiler framing with f.
func NewTiler(f *Framer) *Tiler { return &Tiler{framer: f} }

// frameBits returns the framed text followed by the terminator, as bits.
func (t *Tiler) frameBits(text string) ([]bool, error) {
	framed, err := t.framer.Frame(text)
	if err != nil {
		return nil, err
	}
	return BytesToBits(append(framed, Terminator...)), nil
}

// MakePayload repeats the framed text and its terminator until
// width*height*depth cells are filled, cutting the last copy short, and
// returns it as a (1, depth, height, width) tensor of 0/1 cells.
//
// A message too large for one copy is not an error here: the payload holds a
// prefix and decoding it reports ErrMessageNotFound.
func (t *Tiler) MakePayload(width, height, depth int, text string) (*tensor.Tensor, error) {
	payload, _, err := t.Layout(width, height, depth, text)
	return payload, err
}

// Capacity describes how a message fits a payload.
type Capacity struct {
	// Cells is width*height*depth.
	Cells int
	// CopyBits is one framed copy including its terminator.
	CopyBits int
	// Copies is the number of complete copies in the payload.
	Copies int
}

// Fits reports whether at least one complete copy fits.
func (c Capacity) Fits() bool { return c.Copies > 0 }

// Capacity frames text and reports how many copies a payload holds.
func (t *Tiler) Capacity(width, height, depth int, text string) (Capacity, error) {
	if err := checkShape(width, height, depth); err != nil {
		return Capacity{}, err
	}
	bits, err := t.frameBits(text)
	if err != nil {
		return Capacity{}, err
	}
	return capacityOf(width, height, depth, bits), nil
}

// Layout frames text once and returns both the payload MakePayload builds
// and its Capacity.
func (t *Tiler) Layout(width, height, depth int, text string) (*tensor.Tensor, Capacity, error) {
	if err := checkShape(width, height, depth); err != nil {
		return nil, Capacity{}, err
	}
	bits, err := t.frameBits(text)
	if err != nil {
		return nil, Capacity{}, err
	}
	return makePayload(width, height, depth, bits), capacityOf(width, height, depth, bits), nil
}

func checkShape(width, height, depth int) error {
	if width <= 0 || height <= 0 || depth <= 0 {
		return fmt.Errorf("%w: width=%d height=%d depth=%d", ErrInvalidShape, width, height, depth)
	}
	return nil
}

func makePayload(width, height, depth int, bits []bool) *tensor.Tensor {
	out := tensor.New(1, depth, height, width)
	for i := range out.Data {
		if bits[i%len(bits)] {
			out.Data[i] = 1
		}
	}
	return out
}

func capacityOf(width, height, depth int, bits []bool) Capacity {
	cells := width * height * depth
	return Capacity{Cells: cells, CopyBits: len(bits), Copies: cells / len(bits)}
}
