package steg_test

import (
	"context"
	"image"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"

	"github.com/elakiavm/Steganography-GANS/internal/imgio"
	"github.com/elakiavm/Steganography-GANS/internal/sim"
	"github.com/elakiavm/Steganography-GANS/network"
	"github.com/elakiavm/Steganography-GANS/steg"
)

func randomCover(seed int64, w, h int) *image.NRGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(r.Intn(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img
}

func build(t *testing.T, depth int, cfg steg.FramerConfig) (*steg.Steganographer, *network.LSB, *steg.Framer) {
	t.Helper()
	lsb, err := network.NewLSB(depth)
	if err != nil {
		t.Fatalf("lsb: %v", err)
	}
	f, err := steg.NewFramer(cfg)
	if err != nil {
		t.Fatalf("framer: %v", err)
	}
	s, err := steg.New(depth, lsb, lsb, f)
	if err != nil {
		t.Fatalf("steganographer: %v", err)
	}
	return s, lsb, f
}

// TestPipeline_PNGFile hides a message, writes the image to disk, reloads it
// and recovers the message with every compressor.
func TestPipeline_PNGFile(t *testing.T) {
	ctx := context.Background()
	msg := "The quick brown fox jumps over the lazy dog. Ünïcödé survives too."
	for _, c := range []steg.Compression{steg.CompressionZlib, steg.CompressionZstd, steg.CompressionLZ4, steg.CompressionSnappy} {
		s, _, _ := build(t, 3, steg.FramerConfig{ParitySymbols: steg.DefaultParitySymbols, Compression: c})
		out, err := s.Encode(ctx, randomCover(1, 128, 96), msg)
		if err != nil {
			t.Fatalf("%v: encode: %v", c, err)
		}
		path := filepath.Join(t.TempDir(), "stego.png")
		if err := imgio.Save(path, out); err != nil {
			t.Fatalf("%v: save: %v", c, err)
		}
		img, err := imgio.Load(path)
		if err != nil {
			t.Fatalf("%v: load: %v", c, err)
		}
		got, err := s.Decode(ctx, img)
		if err != nil {
			t.Fatalf("%v: decode: %v", c, err)
		}
		if got != msg {
			t.Fatalf("%v: got %q, want %q", c, got, msg)
		}
	}
}

// TestPipeline_NoisyDecoder simulates an imperfect decoder that misreads
// a fraction of bits. A copy is lost whenever one of its terminators is hit,
// so the cover is large enough for sixteen copies.
func TestPipeline_NoisyDecoder(t *testing.T) {
	ctx := context.Background()
	const msg = "meet at the north gate at dawn"
	s, lsb, f := build(t, 4, steg.DefaultFramerConfig())
	out, err := s.Encode(ctx, randomCover(2, 256, 256), msg)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	clean, err := lsb.Extract(ctx, imgio.ToTensor(out))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	ex := steg.NewExtractor(f)

	for _, scn := range []sim.Scenario{
		{FlipRate: 0.001},
		{FlipRate: 0.005},
		{FlipRate: 0.002, BurstRate: 0.0005, BurstLen: 24},
	} {
		bits := append([]bool(nil), clean...)
		ch, err := sim.NewBitChannel(scn, rand.New(rand.NewSource(3)))
		if err != nil {
			t.Fatalf("%v: %v", scn, err)
		}
		n := ch.Apply(bits)
		got, err := ex.Extract(bits)
		if err != nil {
			t.Fatalf("%v (%d bits flipped): %v", scn, n, err)
		}
		if got != msg {
			t.Fatalf("%v: got %q", scn, got)
		}
	}
}

// TestPipeline_ConcurrentDecode shares one Steganographer across goroutines.
func TestPipeline_ConcurrentDecode(t *testing.T) {
	ctx := context.Background()
	s, _, _ := build(t, 6, steg.DefaultFramerConfig())
	msgs := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}
	imgs := make([]image.Image, len(msgs))
	for i, m := range msgs {
		out, err := s.Encode(ctx, randomCover(int64(10+i), 64, 64), m)
		if err != nil {
			t.Fatalf("encode %q: %v", m, err)
		}
		imgs[i] = out
	}

	var wg sync.WaitGroup
	errs := make([]error, len(imgs))
	got := make([]string, len(imgs))
	for i := range imgs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], errs[i] = s.Decode(ctx, imgs[i])
		}()
	}
	wg.Wait()
	for i := range msgs {
		if errs[i] != nil {
			t.Fatalf("decode %d: %v", i, errs[i])
		}
		if got[i] != msgs[i] {
			t.Fatalf("decode %d: got %q, want %q", i, got[i], msgs[i])
		}
	}
}
