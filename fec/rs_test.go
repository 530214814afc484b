package fec

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestRSEncodeMatchesReedsolo(t *testing.T) {
	c, err := NewRSCodec(10)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		in   []byte
		want []byte
	}{
		{[]byte{1, 2, 3, 4}, []byte("\x01\x02\x03\x04,\x9d\x1c+=\xf8h\xfa\x98M")},
		{[]byte("hello world"), []byte("hello world\xed%T\xc4\xfd\xfd\x89\xf3\xa8\xaa")},
	}
	for _, tc := range cases {
		got := c.Encode(tc.in)
		if !bytes.Equal(got, tc.want) {
			t.Fatalf("encode %q: got %x want %x", tc.in, got, tc.want)
		}
	}
}

func TestRSEncodedLen(t *testing.T) {
	c, err := NewRSCodec(250)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range []int{0, 1, 4, 5, 6, 19, 100} {
		got := len(c.Encode(make([]byte, n)))
		if got != c.EncodedLen(n) {
			t.Fatalf("n=%d: len=%d EncodedLen=%d", n, got, c.EncodedLen(n))
		}
	}
	if got := c.EncodedLen(19); got != 3*255+4+250 {
		t.Fatalf("EncodedLen(19)=%d", got)
	}
}

func TestRSRoundtripClean(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, nsym := range []int{1, 10, 32, 250} {
		c, err := NewRSCodec(nsym)
		if err != nil {
			t.Fatal(err)
		}
		for _, n := range []int{1, 7, 200, 1000} {
			data := make([]byte, n)
			r.Read(data)
			dec, corrected, err := c.Decode(c.Encode(data))
			if err != nil {
				t.Fatalf("nsym=%d n=%d: %v", nsym, n, err)
			}
			if corrected != 0 {
				t.Fatalf("nsym=%d n=%d: corrected=%d on clean input", nsym, n, corrected)
			}
			if !bytes.Equal(dec, data) {
				t.Fatalf("nsym=%d n=%d: roundtrip mismatch", nsym, n)
			}
		}
	}
}

func TestRSCorrectsUpToHalfParity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, nsym := range []int{2, 10, 32, 250} {
		c, err := NewRSCodec(nsym)
		if err != nil {
			t.Fatal(err)
		}
		for trial := 0; trial < 20; trial++ {
			data := make([]byte, 1+r.Intn(3*c.DataPerBlock()))
			r.Read(data)
			enc := c.Encode(data)
			// corrupt nsym/2 distinct bytes in every block
			for start := 0; start < len(enc); start += BlockLen {
				end := start + BlockLen
				if end > len(enc) {
					end = len(enc)
				}
				for _, p := range r.Perm(end - start)[:nsym/2] {
					enc[start+p] ^= byte(1 + r.Intn(255))
				}
			}
			dec, corrected, err := c.Decode(enc)
			if err != nil {
				t.Fatalf("nsym=%d trial=%d: %v", nsym, trial, err)
			}
			if !bytes.Equal(dec, data) {
				t.Fatalf("nsym=%d trial=%d: mismatch", nsym, trial)
			}
			blocks := (len(enc) + BlockLen - 1) / BlockLen
			if corrected != blocks*(nsym/2) {
				t.Fatalf("nsym=%d trial=%d: corrected=%d want %d", nsym, trial, corrected, blocks*(nsym/2))
			}
		}
	}
}

func TestRSRejectsBeyondBound(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	c, err := NewRSCodec(32)
	if err != nil {
		t.Fatal(err)
	}
	data := make([]byte, c.DataPerBlock())
	r.Read(data)
	for trial := 0; trial < 20; trial++ {
		enc := c.Encode(data)
		for _, p := range r.Perm(len(enc))[:40] {
			enc[p] ^= byte(1 + r.Intn(255))
		}
		if _, _, err := c.Decode(enc); err == nil {
			t.Fatalf("trial=%d: expected failure with 40 errors", trial)
		}
	}
}

func TestRSShortBlock(t *testing.T) {
	c, err := NewRSCodec(250)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Decode([]byte{1, 2, 3}); !errors.Is(err, ErrShortBlock) {
		t.Fatalf("err=%v want ErrShortBlock", err)
	}
	// a full block followed by a fragment that cannot hold data
	enc := c.Encode([]byte("abcde"))
	enc = append(enc, 9, 9)
	if _, _, err := c.Decode(enc); !errors.Is(err, ErrShortBlock) {
		t.Fatalf("err=%v want ErrShortBlock", err)
	}
}

func TestNewRSCodecBounds(t *testing.T) {
	for _, nsym := range []int{-1, 0, 255, 300} {
		if _, err := NewRSCodec(nsym); err == nil {
			t.Fatalf("nsym=%d accepted", nsym)
		}
	}
}

func TestGFInverse(t *testing.T) {
	for a := 1; a < 256; a++ {
		if gfMul(byte(a), gfInv(byte(a))) != 1 {
			t.Fatalf("a=%d: a*inv(a) != 1", a)
		}
		if gfDiv(byte(a), byte(a)) != 1 {
			t.Fatalf("a=%d: a/a != 1", a)
		}
	}
}
