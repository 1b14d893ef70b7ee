// Package pc implements the two-dimensional product code: a matrix of
// rows*cols symbols whose rows are codewords of one Reed-Solomon code
// and whose columns are codewords of another, plus the family of
// decoders built on top of it (spec.md §3, §4.1-§4.4).
//
// PC owns the codeword-sized scratch buffers its decoders use, so a
// worker reuses them on every trial; the GDM metric and the RS codec
// still allocate small per-call slices.
package pc

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/fblomqvist/pcdecode/internal/rs"
	"github.com/fblomqvist/pcdecode/internal/stats"
)

// estrat is one candidate erasure strategy: the set of columns a
// row decode should treat as erased. Strategy i, once built, holds
// the i worst-performing columns from the column-decode pass.
type estrat struct {
	strat  []int // fixed capacity slen; only strat[:size] is meaningful
	size   int
	viable bool
}

// PC is a product code and its decode-time scratch space.
type PC struct {
	rowCode *rs.Code
	colCode *rs.Code
	rows    int
	cols    int

	nstrat      int
	nstratBound int
	es          []estrat

	// xBuf holds the previous iterate in the iterative decoders and
	// the column-decoded working copy in the GMD/GD family; yBuf holds
	// the current iterate / the row under test. Both are owned by PC
	// for its entire lifetime and reused every call.
	xBuf []uint16
	yBuf []uint16

	tmpRow  []uint16  // gd's best-row-so-far
	weights []float64 // per-column GMD weight, rebuilt each GMD/GD call
	errPos  []int     // reusable error-position scratch for calcGDM

	colEras    []bool
	colErasIdx []int
	rowEras    []bool
	rowErasIdx []int
}

// Init builds a product code over GF(2^symsize) from a row RS code
// (r_fcr, r_prim, r_nroots) and a column RS code (c_fcr, c_prim,
// c_nroots), tiled into a rows*cols matrix. It fails if the geometry
// can't hold at least one information symbol per row and column, or
// if either component code is invalid.
func Init(symsize int, gfpoly uint32, rFcr, rPrim, rNroots, cFcr, cPrim, cNroots, rows, cols int) (*PC, error) {
	if cols <= rNroots || rows <= cNroots {
		return nil, fmt.Errorf("pc: geometry %dx%d too small for nroots row=%d col=%d", rows, cols, rNroots, cNroots)
	}

	rowCode, err := rs.NewCode(symsize, gfpoly, rFcr, rPrim, rNroots)
	if err != nil {
		return nil, fmt.Errorf("pc: row code: %w", err)
	}
	colCode, err := rs.NewCode(symsize, gfpoly, cFcr, cPrim, cNroots)
	if err != nil {
		return nil, fmt.Errorf("pc: col code: %w", err)
	}

	nstrat := (colCode.MinDist() + 1) / 2
	slen := rowCode.NRoots()
	es := make([]estrat, nstrat)
	for i := range es {
		es[i].strat = make([]int, slen)
	}

	nstratBound := nstrat
	if b := (rowCode.MinDist() + 1) / 2; b < nstratBound {
		nstratBound = b
	}

	p := &PC{
		rowCode:     rowCode,
		colCode:     colCode,
		rows:        rows,
		cols:        cols,
		nstrat:      nstrat,
		nstratBound: nstratBound,
		es:          es,
		xBuf:        make([]uint16, rows*cols),
		yBuf:        make([]uint16, rows*cols),
		tmpRow:      make([]uint16, cols),
		weights:     make([]float64, cols),
		errPos:      make([]int, 0, rowCode.NRoots()),
		colEras:     make([]bool, cols),
		colErasIdx:  make([]int, cols),
		rowEras:     make([]bool, rows),
		rowErasIdx:  make([]int, rows),
	}
	return p, nil
}

// Len returns the codeword length, rows*cols.
func (p *PC) Len() int { return p.rows * p.cols }

// Dim returns the number of information symbols per codeword.
func (p *PC) Dim() int { return (p.cols - p.rowCode.NRoots()) * (p.rows - p.colCode.NRoots()) }

// MinDist returns the product code's minimum distance, the product
// of the row and column codes' minimum distances.
func (p *PC) MinDist() int { return p.rowCode.MinDist() * p.colCode.MinDist() }

// Rows, Cols and NN expose the geometry the error generator and CLI
// banner need; NN is shared by the row and column codes since they're
// built over the same field.
func (p *PC) Rows() int { return p.rows }
func (p *PC) Cols() int { return p.cols }
func (p *PC) NN() int   { return p.rowCode.NN() }

// RowNRoots and ColNRoots expose the component codes' parity counts.
func (p *PC) RowNRoots() int { return p.rowCode.NRoots() }
func (p *PC) ColNRoots() int { return p.colCode.NRoots() }

// NstratBound returns the structural bound on viable strategies used
// for worst-case stats accounting.
func (p *PC) NstratBound() int { return p.nstratBound }

// Encode writes parity into data (length Len(), row-major) so that it
// becomes a systematic product codeword: first the information
// columns are column-encoded, then every row is row-encoded.
func (p *PC) Encode(data []uint16) error {
	if len(data) != p.Len() {
		return fmt.Errorf("pc: encode: data length %d, want %d", len(data), p.Len())
	}

	rowDlen := p.cols - p.rowCode.NRoots()
	for i := 0; i < rowDlen; i++ {
		v := rs.NewView(data, i, p.cols, p.rows)
		if err := p.colCode.Encode(v); err != nil {
			return err
		}
	}
	for r := 0; r < p.rows; r++ {
		v := rs.NewView(data, r*p.cols, 1, p.cols)
		if err := p.rowCode.Encode(v); err != nil {
			return err
		}
	}
	return nil
}

// Print writes a human-readable code summary, one line of top-level
// (n,k,d) parameters and one line each for the row and column codes.
func (p *PC) Print(w io.Writer, prefix string) {
	nn := p.rowCode.NN()
	fmt.Fprintf(w, "%s(%d, %d, %d)_%d code...\n", prefix, p.Len(), p.Dim(), p.MinDist(), nn+1)
	fmt.Fprintf(w, "%s  Row code: (%d, %d, %d)\n", prefix, p.cols, p.cols-p.rowCode.NRoots(), p.rowCode.MinDist())
	fmt.Fprintf(w, "%s  Col code: (%d, %d, %d)\n", prefix, p.rows, p.rows-p.colCode.NRoots(), p.colCode.MinDist())
}

// ---- estrat engine (spec.md §4.2) ----

func (p *PC) resetEstrat() {
	for i := range p.es {
		p.es[i].size = 0
		p.es[i].viable = true
	}
}

func (p *PC) addToEstrat(col, weight int) {
	slen := p.rowCode.NRoots()
	if weight < 0 {
		weight = p.nstrat
	}
	for i := 0; i < weight; i++ {
		es := &p.es[i]
		if es.size < slen {
			es.strat[es.size] = col
			es.size++
		} else {
			es.viable = false
		}
	}
}

// es[i] is always a superset of es[i+1] by construction, so equal
// sizes mean equal sets; the smaller index is redundant.
func (p *PC) disableDuplicates() {
	for i := 0; i < p.nstrat-1; i++ {
		if !p.es[i].viable {
			continue
		}
		if p.es[i].size == p.es[i+1].size {
			p.es[i].viable = false
		}
	}
}

// When the row distance minus a viable strategy's size is even, one
// more erasure costs no error-correcting capability, so a strategy
// exactly one column smaller than the next lower-index viable
// strategy is covered by that strategy and is disabled.
func (p *PC) removeUnnecessary() {
	d := p.rowCode.MinDist()
	i := p.nstrat - 1
	for {
		for !p.es[i].viable || (d-p.es[i].size)%2 != 0 {
			i--
			if i == 0 {
				return
			}
		}
		j := i - 1
		for !p.es[j].viable {
			j--
			if j < 0 {
				return
			}
		}
		if p.es[i].size == p.es[j].size-1 {
			p.es[i].viable = false
		}
		i = j
		if i <= 0 {
			return
		}
	}
}

func (p *PC) countViable() int {
	n := 0
	for i := 0; i < p.nstrat; i++ {
		if p.es[i].viable {
			n++
		}
	}
	return n
}

func calcWeight(e, t, d int) float64 {
	if e < 0 || e > t {
		return 0
	}
	return (float64(d) - 2*float64(e)) / float64(d)
}

// decodeColumnsGMD decodes every column of x with no erasures, builds
// the per-column GMD weight from each column's correction count, and
// from those weights builds and prunes the estrat family.
func (p *PC) decodeColumnsGMD(x []uint16) {
	d := p.colCode.NRoots() + 1
	t := p.colCode.NRoots() / 2

	p.resetEstrat()
	for i := 0; i < p.cols; i++ {
		v := rs.NewView(x, i, p.cols, p.rows)
		ret := p.colCode.Decode(v, nil, nil)
		p.addToEstrat(i, ret)
		p.weights[i] = calcWeight(ret, t, d)
	}
	p.disableDuplicates()
	p.removeUnnecessary()
}

// calcGDM is the generalized distance metric of spec.md §4.3.
func calcGDM(weights []float64, errpos []int) float64 {
	marked := make([]bool, len(weights))
	for _, e := range errpos {
		marked[e] = true
	}
	sum := float64(len(weights))
	for i, w := range weights {
		if marked[i] {
			sum += w
		} else {
			sum -= w
		}
	}
	return sum
}

// ---- decoders (spec.md §4.4) ----

// DecodeGMD is the classical Generalized Minimum Distance decoder: it
// commits the first row candidate, searched from the most aggressive
// viable strategy down, whose GDM falls inside the row code's
// half-distance ball. The search pointer is preserved across rows
// (estrat is a monotone family, so a strategy too weak for row r is
// too weak for row r+1 unless the search has already moved on) --
// this carry-over is a correctness-relevant optimization, not an
// incidental one.
func (p *PC) DecodeGMD(data []uint16, s *stats.Stats) int {
	length := p.Len()
	x := p.xBuf
	y := p.yBuf
	copy(x, data[:length])
	p.decodeColumnsGMD(x)

	viable := p.countViable()
	s.Viable += uint64(viable)
	s.Cdec += uint64(p.cols)
	s.Max += uint64(p.nstratBound)
	s.RdecMax += uint64((p.nstratBound - 1) + p.rows)
	if viable == 0 {
		return -1
	}

	dRow := float64(p.rowCode.MinDist())
	i := p.nstrat - 1
	for r := 0; r < p.rows; r++ {
		rowOff := r * p.cols
		fail := true

		for ; i >= 0; i-- {
			es := &p.es[i]
			if !es.viable {
				continue
			}

			copy(y[:p.cols], x[rowOff:rowOff+p.cols])
			s.Rdec++

			p.errPos = p.errPos[:0]
			view := rs.NewView(y, 0, 1, p.cols)
			ret := p.rowCode.Decode(view, es.strat[:es.size], &p.errPos)
			if ret < 0 {
				continue
			}

			if calcGDM(p.weights, p.errPos) < dRow {
				copy(data[rowOff:rowOff+p.cols], y[:p.cols])
				fail = false
				break
			}
		}
		if fail {
			return -1
		}
	}
	return 0
}

// DecodeGD is the softer Generalized Distance variant: every row
// restarts its strategy search from the weakest strategy, and the
// lowest-GDM candidate seen is committed even when none clears the
// acceptance threshold -- gd never reports failure at the row or
// codeword level. When no strategy is viable, data is left as received.
func (p *PC) DecodeGD(data []uint16, s *stats.Stats) int {
	length := p.Len()
	x := p.xBuf
	y := p.yBuf
	copy(x, data[:length])
	p.decodeColumnsGMD(x)

	viable := p.countViable()
	s.Viable += uint64(viable)
	s.Cdec += uint64(p.cols)
	s.Max += uint64(p.nstratBound)
	s.RdecMax += uint64(p.nstratBound * p.rows)
	if viable == 0 {
		return 0
	}

	dRow := float64(p.rowCode.MinDist())
	for r := 0; r < p.rows; r++ {
		rowOff := r * p.cols
		fail := true
		minDist := math.Inf(1)

		for i := p.nstrat - 1; i >= 0; i-- {
			es := &p.es[i]
			if !es.viable {
				continue
			}

			copy(y[:p.cols], x[rowOff:rowOff+p.cols])
			s.Rdec++

			p.errPos = p.errPos[:0]
			view := rs.NewView(y, 0, 1, p.cols)
			ret := p.rowCode.Decode(view, es.strat[:es.size], &p.errPos)
			if ret < 0 {
				continue
			}

			dist := calcGDM(p.weights, p.errPos)
			if dist < dRow {
				copy(data[rowOff:rowOff+p.cols], y[:p.cols])
				fail = false
				break
			} else if dist < minDist {
				minDist = dist
				copy(p.tmpRow, y[:p.cols])
			}
		}
		if fail {
			copy(data[rowOff:rowOff+p.cols], p.tmpRow)
		}
	}
	return 0
}

// DecodeIter is the pure iterative hard-decision decoder: decode every
// column, then every row, with no erasures, and repeat until the
// matrix stops changing. Because a round that actually corrects a
// symbol necessarily changes the matrix, the fixpoint round's decode
// calls can only have returned zero (already valid) or negative
// (uncorrectable) -- so the failure flag from that last round alone
// determines the overall result.
func (p *PC) DecodeIter(data []uint16, s *stats.Stats) int {
	length := p.Len()
	prev := p.xBuf
	y := p.yBuf
	rounds := 0
	fail := false

	copy(y, data[:length])

	for {
		copy(prev, y)
		rounds++
		fail = false

		for i := 0; i < p.cols; i++ {
			v := rs.NewView(y, i, p.cols, p.rows)
			if p.colCode.Decode(v, nil, nil) < 0 {
				fail = true
			}
		}
		for r := 0; r < p.rows; r++ {
			v := rs.NewView(y, r*p.cols, 1, p.cols)
			if p.rowCode.Decode(v, nil, nil) < 0 {
				fail = true
			}
		}

		if slices.Equal(y, prev) {
			break
		}
	}

	if !fail {
		copy(data[:length], y)
	}

	s.Cdec += uint64(p.cols * rounds)
	s.Rdec += uint64(p.rows * rounds)
	if fail {
		return -1
	}
	return 0
}

// DecodeEras continues DecodeIter's fixpoint (it does not restart from
// the original data) by marking every column and row that failed
// cleanly as erased, then iterating: each erased line is retried using
// the other axis's currently-erased indices as its erasure positions,
// clearing its own flag on success. The index list for one axis is
// only rebuilt when that axis still has outstanding erasures after the
// pass; when the count has just dropped to zero the stale list is left
// in place, but every subsequent use slices it to length zero anyway,
// so the staleness never becomes visible. This asymmetry is preserved
// deliberately, not tidied into an unconditional rebuild.
func (p *PC) DecodeEras(data []uint16, s *stats.Stats) int {
	if ret := p.DecodeIter(data, s); ret == 0 {
		return ret
	}
	s.Alg2++

	length := p.Len()
	prev := p.xBuf
	y := p.yBuf
	rounds := 1
	fail := false

	colEras := p.colEras
	colErasIdx := p.colErasIdx
	rowEras := p.rowEras
	rowErasIdx := p.rowErasIdx
	colErasCount := 0
	rowErasCount := 0

	for i := 0; i < p.cols; i++ {
		v := rs.NewView(y, i, p.cols, p.rows)
		colEras[i] = p.colCode.Decode(v, nil, nil) < 0
		if colEras[i] {
			colErasCount++
		}
	}
	for i := 0; i < p.rows; i++ {
		v := rs.NewView(y, i*p.cols, 1, p.cols)
		rowEras[i] = p.rowCode.Decode(v, nil, nil) < 0
		if rowEras[i] {
			rowErasIdx[rowErasCount] = i
			rowErasCount++
		}
	}

	for {
		copy(prev, y)
		rounds++
		fail = false

		for i := 0; i < p.cols; i++ {
			erasCount := 0
			if colEras[i] {
				erasCount = rowErasCount
			}
			v := rs.NewView(y, i, p.cols, p.rows)
			ret := p.colCode.Decode(v, rowErasIdx[:erasCount], nil)
			if ret < 0 {
				fail = true
			}
			if erasCount > 0 && ret >= 0 {
				colEras[i] = false
				colErasCount--
			}
		}
		if colErasCount > 0 {
			colErasCount = 0
			for i := 0; i < p.cols; i++ {
				if colEras[i] {
					colErasIdx[colErasCount] = i
					colErasCount++
				}
			}
		}

		for i := 0; i < p.rows; i++ {
			erasCount := 0
			if rowEras[i] {
				erasCount = colErasCount
			}
			v := rs.NewView(y, i*p.cols, 1, p.cols)
			ret := p.rowCode.Decode(v, colErasIdx[:erasCount], nil)
			if ret < 0 {
				fail = true
			}
			if erasCount > 0 && ret >= 0 {
				rowEras[i] = false
				rowErasCount--
			}
		}
		if rowErasCount > 0 {
			rowErasCount = 0
			for i := 0; i < p.rows; i++ {
				if rowEras[i] {
					rowErasIdx[rowErasCount] = i
					rowErasCount++
				}
			}
		}

		if slices.Equal(y, prev) {
			break
		}
	}

	if !fail {
		copy(data[:length], y)
	}

	s.Cdec += uint64(p.cols * rounds)
	s.Rdec += uint64(p.rows * rounds)
	if fail {
		return -1
	}
	return 0
}

// DecodeIterGD runs DecodeIter, falling through to DecodeGD (which
// never fails) when it doesn't succeed outright.
func (p *PC) DecodeIterGD(data []uint16, s *stats.Stats) int {
	if ret := p.DecodeIter(data, s); ret != 0 {
		s.Alg2++
		return p.DecodeGD(data, s)
	}
	return 0
}

// DecodeErasGD runs DecodeEras, falling through to DecodeGD when it
// doesn't succeed outright.
func (p *PC) DecodeErasGD(data []uint16, s *stats.Stats) int {
	if ret := p.DecodeEras(data, s); ret != 0 {
		s.Alg3++
		return p.DecodeGD(data, s)
	}
	return 0
}
