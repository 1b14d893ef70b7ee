// Package errorgen synthesizes test codewords and the two error
// patterns the simulation driver injects into them: an exact
// t-error pattern for the complexity sweep, and an independent
// per-symbol (q-ary symmetric channel) pattern for the FER sweep
// (spec.md §4.5, grounded on original_source/src/gen_errors.c).
package errorgen

import (
	"github.com/fblomqvist/pcdecode/internal/pc"
	"github.com/fblomqvist/pcdecode/internal/rngsrc"
)

// RandomCodeword fills the information sub-matrix of c (the top-left
// (rows-c_nroots) x (cols-r_nroots) block, row-major) with uniform
// random symbols and encodes it into a full product codeword.
func RandomCodeword(p *pc.PC, c []uint16, rng rngsrc.Source) error {
	rows := p.Rows()
	cols := p.Cols()
	infoRows := rows - p.ColNRoots()
	infoCols := cols - p.RowNRoots()
	nn := p.NN()

	for r := 0; r < infoRows; r++ {
		base := r * cols
		for col := 0; col < infoCols; col++ {
			c[base+col] = uint16(rng.UniformInt(nn+1)) & uint16(nn)
		}
	}
	return p.Encode(c)
}

// WithExactErrors generates a codeword into c, copies it into r, and
// XORs exactly errs distinct symbol errors into r at errs distinct
// positions, recording which positions were hit in errlocs (indexed
// 0..len(r)-1, true where an error was injected). It guarantees
// exactly errs errors regardless of collisions by resampling the
// position until it lands on one not yet used.
func WithExactErrors(p *pc.PC, c, r []uint16, errs int, errlocs []bool, rng rngsrc.Source) error {
	if err := RandomCodeword(p, c, rng); err != nil {
		return err
	}
	copy(r, c)
	for i := range errlocs {
		errlocs[i] = false
	}

	nn := p.NN()
	length := len(r)
	for placed := 0; placed < errs; {
		pos := rng.UniformInt(length)
		if errlocs[pos] {
			continue
		}
		val := uint16(rng.UniformInt(nn) + 1) // nonzero, in [1, nn]
		r[pos] ^= val
		errlocs[pos] = true
		placed++
	}
	return nil
}

// WithChannelErrors generates a codeword into c, copies it into r, and
// independently corrupts each position with probability p (a nonzero
// symbol error XORed in), returning the number of positions actually
// corrupted.
func WithChannelErrors(p *pc.PC, c, r []uint16, prob float64, rng rngsrc.Source) (int, error) {
	if err := RandomCodeword(p, c, rng); err != nil {
		return 0, err
	}
	copy(r, c)

	nn := p.NN()
	errs := 0
	for i := range r {
		if rng.Uniform() < prob {
			val := uint16(rng.UniformInt(nn) + 1)
			r[i] ^= val
			errs++
		}
	}
	return errs, nil
}
