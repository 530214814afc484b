package fec

// GF(256) arithmetic using log/antilog tables with primitive polynomial 0x11d
// and generator 0x02, the field used by the reedsolo family of codecs.

var (
	gfExp [512]byte
	gfLog [256]byte
)

func init() { gf256Init() }

func gf256Init() {
	x := 1
	for i := 0; i < 255; i++ {
		gfExp[i] = byte(x)
		gfLog[byte(x)] = byte(i)
		x <<= 1
		if (x & 0x100) != 0 { // carry out from bit 8
			x ^= 0x11d
		}
	}
	for i := 255; i < 512; i++ {
		gfExp[i] = gfExp[i-255]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+int(gfLog[b])]
}

// gfDiv returns a/b. Division by zero yields zero; callers check the divisor.
func gfDiv(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gfExp[int(gfLog[a])+255-int(gfLog[b])]
}

func gfInv(a byte) byte {
	if a == 0 {
		return 0
	}
	return gfExp[255-int(gfLog[a])]
}

// alphaPow returns generator^e, with e mod 255.
func alphaPow(e int) byte {
	e %= 255
	if e < 0 {
		e += 255
	}
	return gfExp[e]
}

// polyMul multiplies two polynomials. Both operands must use the same
// coefficient order; the product keeps it.
func polyMul(p, q []byte) []byte {
	r := make([]byte, len(p)+len(q)-1)
	for j := range q {
		if q[j] == 0 {
			continue
		}
		for i := range p {
			r[i+j] ^= gfMul(p[i], q[j])
		}
	}
	return r
}

// polyEval evaluates p at x with p[0] as the highest degree coefficient.
func polyEval(p []byte, x byte) byte {
	if len(p) == 0 {
		return 0
	}
	y := p[0]
	for i := 1; i < len(p); i++ {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}

// polyEvalLow evaluates p at x with p[0] as the constant term.
func polyEvalLow(p []byte, x byte) byte {
	var y byte
	for i := len(p) - 1; i >= 0; i-- {
		y = gfMul(y, x) ^ p[i]
	}
	return y
}
