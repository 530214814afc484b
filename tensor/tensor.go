// Package tensor holds the dense float32 tensors exchanged between the
// coding layer, the image conversion helpers and the networks.
package tensor

import "fmt"

// Tensor is a dense float32 tensor of shape (N, C, H, W) stored in row-major
// order: the flat index of (n, c, h, w) is ((n*C+c)*H+h)*W+w.
type Tensor struct {
	N, C, H, W int
	Data       []float32
}

// New allocates a zero tensor of the given shape.
func New(n, c, h, w int) *Tensor {
	return &Tensor{N: n, C: c, H: h, W: w, Data: make([]float32, n*c*h*w)}
}

// FromData wraps data as a tensor, checking that the shape matches its length.
func FromData(n, c, h, w int, data []float32) (*Tensor, error) {
	if n <= 0 || c <= 0 || h <= 0 || w <= 0 {
		return nil, fmt.Errorf("tensor: invalid shape (%d,%d,%d,%d)", n, c, h, w)
	}
	if len(data) != n*c*h*w {
		return nil, fmt.Errorf("tensor: %d values do not fill shape (%d,%d,%d,%d)", len(data), n, c, h, w)
	}
	return &Tensor{N: n, C: c, H: h, W: w, Data: data}, nil
}

// Len returns the number of cells.
func (t *Tensor) Len() int { return t.N * t.C * t.H * t.W }

// Shape returns the dimensions as int64, the form ONNX Runtime expects.
func (t *Tensor) Shape() []int64 {
	return []int64{int64(t.N), int64(t.C), int64(t.H), int64(t.W)}
}

func (t *Tensor) index(n, c, h, w int) int { return ((n*t.C+c)*t.H+h)*t.W + w }

// At returns the cell at (n, c, h, w).
func (t *Tensor) At(n, c, h, w int) float32 { return t.Data[t.index(n, c, h, w)] }

// Set stores v at (n, c, h, w).
func (t *Tensor) Set(n, c, h, w int, v float32) { t.Data[t.index(n, c, h, w)] = v }

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	out := &Tensor{N: t.N, C: t.C, H: t.H, W: t.W, Data: make([]float32, len(t.Data))}
	copy(out.Data, t.Data)
	return out
}

// Clamp limits every cell to [lo, hi] in place.
func (t *Tensor) Clamp(lo, hi float32) {
	for i, v := range t.Data {
		switch {
		case v < lo:
			t.Data[i] = lo
		case v > hi:
			t.Data[i] = hi
		}
	}
}

// Threshold flattens t into bits, true where a cell exceeds cut. Decoder
// logits use cut 0; {0,1} payload cells use cut 0.5.
func (t *Tensor) Threshold(cut float32) []bool {
	out := make([]bool, len(t.Data))
	for i, v := range t.Data {
		out[i] = v > cut
	}
	return out
}

func (t *Tensor) String() string {
	return fmt.Sprintf("tensor(%d,%d,%d,%d)", t.N, t.C, t.H, t.W)
}
