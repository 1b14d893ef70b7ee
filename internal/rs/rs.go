// Package rs implements the Reed-Solomon component codec that the
// product-code decoders treat as an external collaborator (spec.md
// §3, §6): GF(2^m) arithmetic for m in [2,16], systematic encoding,
// and bounded-distance decoding with optional erasures, returning the
// number of corrected symbols or a negative value on failure.
//
// The algorithm is the classical Berlekamp-Massey/Forney decoder
// structured the way it's always presented (and the way the product
// code's external RS library is described behaving in spec.md §3): a
// syndrome computation, an error-and-erasure locator recursion seeded
// by the erasure positions, a Chien search for the locator's roots,
// and a Forney evaluation of the error magnitudes at those roots.
package rs

import (
	"fmt"

	"github.com/fblomqvist/pcdecode/internal/gf"
)

// Code is a Reed-Solomon code over GF(2^symSize), shortened to any
// codeword length up to NN = 2^symSize-1.
type Code struct {
	symSize int
	gfpoly  uint32
	fcr     int
	prim    int
	nroots  int
	nn      int

	alphaTo []int // antilog table, size nn+1; alphaTo[nn] == 0 (log-of-zero sentinel)
	indexOf []int // log table, size nn+1; indexOf[0] == nn (log-of-zero sentinel)
	genPoly []int // generator polynomial in value form, genPoly[nroots] == 1 (monic)
}

// NewCode builds an RS code descriptor.
//
// symSize is the symbol size in bits (2..16). gfpoly is the field's
// generator polynomial (degree symSize, top bit set). fcr is the
// exponent, as a power of the field's primitive element, of the
// generator polynomial's first root; prim is the exponent step between
// consecutive roots; nroots is the generator polynomial's degree,
// equal to the code's minimum distance minus one.
func NewCode(symSize int, gfpoly uint32, fcr, prim, nroots int) (*Code, error) {
	if symSize < gf.MinSymSize || symSize > gf.MaxSymSize {
		return nil, fmt.Errorf("rs: symsize %d out of range [%d, %d]", symSize, gf.MinSymSize, gf.MaxSymSize)
	}
	nn := (1 << uint(symSize)) - 1
	if nroots < 1 || nroots >= nn {
		return nil, fmt.Errorf("rs: nroots %d out of range [1, %d)", nroots, nn)
	}
	if prim < 1 || prim > nn {
		return nil, fmt.Errorf("rs: prim %d out of range [1, %d]", prim, nn)
	}

	c := &Code{symSize: symSize, gfpoly: gfpoly, fcr: fcr, prim: prim, nroots: nroots, nn: nn}
	c.buildTables()
	c.buildGenerator()
	return c, nil
}

// NN returns 2^symSize - 1, the number of nonzero field elements.
func (c *Code) NN() int { return c.nn }

// NRoots returns the generator polynomial's degree.
func (c *Code) NRoots() int { return c.nroots }

// MinDist returns the code's guaranteed minimum distance, nroots+1.
func (c *Code) MinDist() int { return c.nroots + 1 }

// GFPoly returns the field's generator polynomial, for display.
func (c *Code) GFPoly() uint32 { return c.gfpoly }

// MaxLen returns the largest codeword length this code supports.
func (c *Code) MaxLen() int { return c.nn }

func (c *Code) buildTables() {
	nn := c.nn
	c.alphaTo = make([]int, nn+1)
	c.indexOf = make([]int, nn+1)

	top := 1 << uint(c.symSize)
	sr := 1
	for i := 0; i < nn; i++ {
		c.alphaTo[i] = sr
		c.indexOf[sr] = i
		sr <<= 1
		if sr&top != 0 {
			sr ^= int(c.gfpoly)
		}
		sr &= nn
	}
	// log(0) has no real value; nn is unused as a log index (logs run
	// 0..nn-1), so it doubles as the sentinel for "no such log".
	c.indexOf[0] = nn
	c.alphaTo[nn] = 0
}

// buildGenerator multiplies out g(x) = prod_{i=0}^{nroots-1} (x - alpha^{(fcr+i)*prim}),
// leaving the monic result in value form with genPoly[0] the constant
// term and genPoly[nroots] == 1.
func (c *Code) buildGenerator() {
	g := make([]int, c.nroots+1)
	g[0] = 1
	for i := 0; i < c.nroots; i++ {
		root := c.alphaTo[c.modnn((c.fcr+i)*c.prim)]
		for j := i + 1; j > 0; j-- {
			if g[j] != 0 {
				g[j] = g[j-1] ^ c.gfMul(g[j], root)
			} else {
				g[j] = g[j-1]
			}
		}
		g[0] = c.gfMul(g[0], root)
	}
	c.genPoly = g
}

func (c *Code) modnn(x int) int {
	x %= c.nn
	if x < 0 {
		x += c.nn
	}
	return x
}

func (c *Code) gfMul(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return c.alphaTo[c.modnn(c.indexOf[a]+c.indexOf[b])]
}

// Encode computes the nroots parity symbols for the first
// v.Len()-nroots symbols of v (the message, highest-degree symbol
// first) and writes them into the trailing nroots positions, via the
// standard systematic LFSR division by the generator polynomial.
func (c *Code) Encode(v View) error {
	length := v.Len()
	k := length - c.nroots
	if k < 0 {
		return fmt.Errorf("rs: view of length %d too short for %d roots", length, c.nroots)
	}
	if length > c.nn {
		return fmt.Errorf("rs: view of length %d exceeds field size %d", length, c.nn)
	}

	reg := make([]int, c.nroots)
	for i := 0; i < k; i++ {
		fb := int(v.At(i)) ^ reg[c.nroots-1]
		for j := c.nroots - 1; j > 0; j-- {
			reg[j] = reg[j-1] ^ c.gfMul(fb, c.genPoly[j])
		}
		reg[0] = c.gfMul(fb, c.genPoly[0])
	}
	for i := 0; i < c.nroots; i++ {
		v.Set(k+i, uint16(reg[c.nroots-1-i]))
	}
	return nil
}

// Decode attempts to correct v (v.Len() symbols, the trailing nroots
// of which are parity) in place. eras lists positions (array indices
// into v) the caller already knows to be unreliable; it may be nil or
// empty. On success it returns the number of corrected symbols
// (errors plus erasures); on failure -- the error-and-erasure pattern
// exceeds the code's correction capability -- it returns a negative
// value and leaves v unmodified. If errPos is non-nil, the corrected
// positions are appended to *errPos (used by the GMD/GD decoders to
// compute the GDM metric over the row that was just corrected).
func (c *Code) Decode(v View, eras []int, errPos *[]int) int {
	length := v.Len()
	nroots := c.nroots
	sentinel := c.nn
	noEras := len(eras)

	roots := make([]int, nroots)
	for i := 0; i < nroots; i++ {
		roots[i] = c.alphaTo[c.modnn((c.fcr+i)*c.prim)]
	}

	syn := make([]int, nroots)
	for i := 0; i < nroots; i++ {
		syn[i] = int(v.At(0))
	}
	for j := 1; j < length; j++ {
		aj := int(v.At(j))
		for i := 0; i < nroots; i++ {
			if syn[i] == 0 {
				syn[i] = aj
			} else {
				syn[i] = aj ^ c.gfMul(syn[i], roots[i])
			}
		}
	}

	synError := 0
	synLog := make([]int, nroots)
	for i := 0; i < nroots; i++ {
		synError |= syn[i]
		synLog[i] = c.indexOf[syn[i]]
	}
	if synError == 0 {
		return 0
	}

	// locExp maps an array position to the exponent of its location
	// value X = alpha^locExp, under the convention that v.At(0) is the
	// highest-degree codeword coefficient (consistent with the Horner
	// syndrome evaluation above and with Encode's message ordering).
	locExp := func(pos int) int { return length - 1 - pos }

	lambda := make([]int, nroots+1)
	lambda[0] = 1
	if noEras > 0 {
		lambda[1] = c.alphaTo[c.modnn(c.prim*locExp(eras[0]))]
		for i := 1; i < noEras; i++ {
			u := c.modnn(c.prim * locExp(eras[i]))
			for j := i + 1; j > 0; j-- {
				tmp := c.indexOf[lambda[j-1]]
				if tmp != sentinel {
					lambda[j] ^= c.alphaTo[c.modnn(u+tmp)]
				}
			}
		}
	}

	b := make([]int, nroots+1)
	for i := range b {
		b[i] = c.indexOf[lambda[i]]
	}

	// Berlekamp-Massey: extend the error-and-erasure locator lambda(x)
	// one syndrome at a time until it accounts for every syndrome.
	r := noEras
	el := noEras
	for r < nroots {
		r++
		discrR := 0
		for i := 0; i < r; i++ {
			if lambda[i] != 0 && synLog[r-i-1] != sentinel {
				discrR ^= c.alphaTo[c.modnn(c.indexOf[lambda[i]]+synLog[r-i-1])]
			}
		}
		discrRLog := c.indexOf[discrR]
		if discrRLog == sentinel {
			copy(b[1:], b[:nroots])
			b[0] = sentinel
			continue
		}

		t := make([]int, nroots+1)
		t[0] = lambda[0]
		for i := 0; i < nroots; i++ {
			if b[i] != sentinel {
				t[i+1] = lambda[i+1] ^ c.alphaTo[c.modnn(discrRLog+b[i])]
			} else {
				t[i+1] = lambda[i+1]
			}
		}
		if 2*el <= r+noEras-1 {
			el = r + noEras - el
			for i := 0; i <= nroots; i++ {
				if lambda[i] == 0 {
					b[i] = sentinel
				} else {
					b[i] = c.modnn(c.indexOf[lambda[i]] - discrRLog + c.nn)
				}
			}
		} else {
			copy(b[1:], b[:nroots])
			b[0] = sentinel
		}
		copy(lambda, t)
	}

	degLambda := 0
	lambdaLog := make([]int, nroots+1)
	for i := 0; i <= nroots; i++ {
		lambdaLog[i] = c.indexOf[lambda[i]]
		if lambdaLog[i] != sentinel {
			degLambda = i
		}
	}
	if degLambda == 0 {
		return -1
	}

	// Chien search: find every e in [0, nn) with lambda(alpha^e) == 0.
	// Each root alpha^e corresponds to an error location X = alpha^{-e};
	// translate that back to an array position via locExp.
	root := make([]int, 0, degLambda)
	loc := make([]int, 0, degLambda)
	for e := 0; e < c.nn && len(loc) < degLambda; e++ {
		q := 1
		for j := 1; j <= degLambda; j++ {
			if lambda[j] != 0 {
				q ^= c.alphaTo[c.modnn(lambdaLog[j]+j*e)]
			}
		}
		if q != 0 {
			continue
		}
		pos := length - 1 - c.modnn(c.nn-e)
		if pos < 0 || pos >= length {
			continue
		}
		root = append(root, e)
		loc = append(loc, pos)
	}
	if len(loc) != degLambda {
		return -1
	}

	// Forney: omega(x) = [s(x) * lambda(x)] mod x^nroots, then each
	// error value is omega(X^-1) / lambda'(X^-1) scaled by X^(1-fcr).
	degOmega := degLambda - 1
	omega := make([]int, degOmega+1)
	for i := 0; i <= degOmega; i++ {
		tmp := 0
		for j := 0; j <= i; j++ {
			if synLog[i-j] != sentinel && lambdaLog[j] != sentinel {
				tmp ^= c.alphaTo[c.modnn(synLog[i-j]+lambdaLog[j])]
			}
		}
		omega[i] = c.indexOf[tmp]
	}

	maxI := degLambda
	if nroots-1 < maxI {
		maxI = nroots - 1
	}
	maxI &^= 1

	for l := len(loc) - 1; l >= 0; l-- {
		invXLog := root[l]

		num1 := 0
		for i := degOmega; i >= 0; i-- {
			if omega[i] != sentinel {
				num1 ^= c.alphaTo[c.modnn(omega[i]+i*invXLog)]
			}
		}
		num2 := c.alphaTo[c.modnn(invXLog*(c.fcr-1)+c.nn)]

		den := 0
		for i := maxI; i >= 0; i -= 2 {
			if lambdaLog[i+1] != sentinel {
				den ^= c.alphaTo[c.modnn(lambdaLog[i+1]+i*invXLog)]
			}
		}
		if den == 0 {
			return -1
		}

		if num1 != 0 {
			errVal := c.alphaTo[c.modnn(c.indexOf[num1]+c.indexOf[num2]+c.nn-c.indexOf[den])]
			v.Set(loc[l], v.At(loc[l])^uint16(errVal))
		}
	}

	if errPos != nil {
		*errPos = append(*errPos, loc...)
	}
	return len(loc)
}
