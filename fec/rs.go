package fec

import (
	"errors"
	"fmt"
)

// BlockLen is the largest Reed-Solomon codeword over GF(256).
const BlockLen = 255

var (
	// ErrTooManyErrors is returned when a block carries more symbol errors
	// than its parity can locate.
	ErrTooManyErrors = errors.New("rs: too many errors to correct")
	// ErrUncorrectable is returned when the corrected block still fails
	// its syndrome check.
	ErrUncorrectable = errors.New("rs: could not correct block")
	// ErrShortBlock is returned for a block that cannot hold any data.
	ErrShortBlock = errors.New("rs: block shorter than parity")
)

// RSCodec is a systematic Reed-Solomon error-correcting code over GF(256)
// with generator roots alpha^0..alpha^(nsym-1).
//
// Long inputs are cut into blocks of 255-nsym data bytes and each block is
// followed by its nsym parity bytes, so the byte layout matches reedsolo's
// RSCodec(nsym). A block corrects up to nsym/2 byte errors anywhere in it.
//
// An RSCodec is immutable and safe for concurrent use.
type RSCodec struct {
	nsym int
	gen  []byte // highest degree first, gen[0] == 1
}

// NewRSCodec creates a codec appending nsym parity bytes per block.
func NewRSCodec(nsym int) (*RSCodec, error) {
	if nsym <= 0 || nsym >= BlockLen {
		return nil, fmt.Errorf("rs: parity symbols must be in [1,%d], got %d", BlockLen-1, nsym)
	}
	gen := []byte{1}
	for i := 0; i < nsym; i++ {
		gen = polyMul(gen, []byte{1, alphaPow(i)})
	}
	return &RSCodec{nsym: nsym, gen: gen}, nil
}

// ParitySymbols returns the number of parity bytes per block.
func (c *RSCodec) ParitySymbols() int { return c.nsym }

// DataPerBlock returns how many data bytes one block carries.
func (c *RSCodec) DataPerBlock() int { return BlockLen - c.nsym }

// EncodedLen returns the encoded size of n data bytes.
func (c *RSCodec) EncodedLen(n int) int {
	k := c.DataPerBlock()
	out := (n / k) * BlockLen
	if rem := n % k; rem > 0 {
		out += rem + c.nsym
	}
	return out
}

// Encode appends parity to every data block of data.
func (c *RSCodec) Encode(data []byte) []byte {
	k := c.DataPerBlock()
	out := make([]byte, 0, c.EncodedLen(len(data)))
	for i := 0; i < len(data); i += k {
		end := i + k
		if end > len(data) {
			end = len(data)
		}
		out = append(out, c.encodeBlock(data[i:end])...)
	}
	return out
}

// Decode corrects and strips parity from every block of data. It returns the
// data bytes and the number of byte errors that were corrected.
func (c *RSCodec) Decode(data []byte) ([]byte, int, error) {
	out := make([]byte, 0, len(data))
	corrected := 0
	for i := 0; i < len(data); i += BlockLen {
		end := i + BlockLen
		if end > len(data) {
			end = len(data)
		}
		msg, n, err := c.decodeBlock(data[i:end])
		if err != nil {
			return nil, corrected, fmt.Errorf("block %d: %w", i/BlockLen, err)
		}
		corrected += n
		out = append(out, msg...)
	}
	return out, corrected, nil
}

// encodeBlock divides msg*x^nsym by the generator; the remainder is the parity.
func (c *RSCodec) encodeBlock(msg []byte) []byte {
	out := make([]byte, len(msg)+c.nsym)
	copy(out, msg)
	for i := 0; i < len(msg); i++ {
		coef := out[i]
		if coef == 0 {
			continue
		}
		for j := 1; j < len(c.gen); j++ {
			out[i+j] ^= gfMul(c.gen[j], coef)
		}
	}
	copy(out, msg)
	return out
}

// syndromes evaluates the received block at every generator root. It reports
// whether all of them are zero.
func (c *RSCodec) syndromes(block []byte) ([]byte, bool) {
	synd := make([]byte, c.nsym)
	clean := true
	for i := range synd {
		synd[i] = polyEval(block, alphaPow(i))
		if synd[i] != 0 {
			clean = false
		}
	}
	return synd, clean
}

// decodeBlock corrects one codeword in place on a copy. Byte k of an
// n-byte block is the coefficient of x^(n-1-k).
func (c *RSCodec) decodeBlock(in []byte) ([]byte, int, error) {
	n := len(in)
	if n <= c.nsym {
		return nil, 0, ErrShortBlock
	}
	if n > BlockLen {
		return nil, 0, fmt.Errorf("rs: block of %d bytes exceeds %d", n, BlockLen)
	}
	synd, clean := c.syndromes(in)
	if clean {
		return in[:n-c.nsym], 0, nil
	}

	lambda, nerr := errorLocator(synd)
	if 2*nerr > c.nsym {
		return nil, 0, ErrTooManyErrors
	}

	// Chien search: byte k is in error when lambda(X_k^-1) == 0.
	positions := make([]int, 0, nerr)
	for k := 0; k < n; k++ {
		if polyEvalLow(lambda, alphaPow(-(n-1-k))) == 0 {
			positions = append(positions, k)
		}
	}
	if len(positions) != nerr {
		return nil, 0, ErrTooManyErrors
	}

	// Forney: omega(x) = S(x)*lambda(x) mod x^nsym, and with the first root
	// at alpha^0 the magnitude is X * omega(X^-1) / lambda'(X^-1).
	omega := make([]byte, c.nsym)
	for i := range omega {
		for j := 0; j <= i && j < len(lambda); j++ {
			omega[i] ^= gfMul(lambda[j], synd[i-j])
		}
	}
	block := make([]byte, n)
	copy(block, in)
	for _, k := range positions {
		x := alphaPow(n - 1 - k)
		xinv := gfInv(x)
		var den byte
		xpow := byte(1) // xinv^(i-1) for odd i
		xinv2 := gfMul(xinv, xinv)
		for i := 1; i < len(lambda); i += 2 {
			den ^= gfMul(lambda[i], xpow)
			xpow = gfMul(xpow, xinv2)
		}
		if den == 0 {
			return nil, 0, ErrUncorrectable
		}
		block[k] ^= gfDiv(gfMul(x, polyEvalLow(omega, xinv)), den)
	}

	if _, ok := c.syndromes(block); !ok {
		return nil, 0, ErrUncorrectable
	}
	return block[:n-c.nsym], len(positions), nil
}

// errorLocator runs Berlekamp-Massey over the syndromes. The locator is
// returned constant term first, padded to nerr+1 coefficients.
func errorLocator(synd []byte) ([]byte, int) {
	lambda := []byte{1}
	prev := []byte{1}
	l, m := 0, 1
	b := byte(1)
	for n := 0; n < len(synd); n++ {
		d := synd[n]
		for i := 1; i <= l && i < len(lambda); i++ {
			d ^= gfMul(lambda[i], synd[n-i])
		}
		if d == 0 {
			m++
			continue
		}
		size := len(lambda)
		if len(prev)+m > size {
			size = len(prev) + m
		}
		next := make([]byte, size)
		copy(next, lambda)
		coef := gfDiv(d, b)
		for i, v := range prev {
			next[i+m] ^= gfMul(coef, v)
		}
		if 2*l <= n {
			prev = lambda
			l = n + 1 - l
			b = d
			m = 1
		} else {
			m++
		}
		lambda = next
	}
	if len(lambda) < l+1 {
		padded := make([]byte, l+1)
		copy(padded, lambda)
		lambda = padded
	}
	return lambda[:l+1], l
}
