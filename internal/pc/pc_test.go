package pc

import (
	"math/rand"
	"testing"

	"github.com/fblomqvist/pcdecode/internal/stats"
)

// All scenarios in this file use symsize=4, GF poly=0x13, fcr=1, prim=1
// (spec.md §8 end-to-end scenarios).
const (
	testSymSize = 4
	testGFPoly  = 0x13
	testFcr     = 1
	testPrim    = 1
)

func newTestPC(t *testing.T, rows, cols, rNroots, cNroots int) *PC {
	t.Helper()
	p, err := Init(testSymSize, testGFPoly, testFcr, testPrim, rNroots, testFcr, testPrim, cNroots, rows, cols)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return p
}

func randomCodeword(t *testing.T, p *PC, seed int64) []uint16 {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	data := make([]uint16, p.Len())
	rowDlen := p.cols - p.rowCode.NRoots()
	colDlen := p.rows - p.colCode.NRoots()
	nn := p.NN()
	for i := 0; i < colDlen; i++ {
		for j := 0; j < rowDlen; j++ {
			data[i*p.cols+j] = uint16(r.Intn(nn + 1))
		}
	}
	if err := p.Encode(data); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return data
}

func injectExactErrors(t *testing.T, p *PC, data []uint16, errs int, seed int64) []uint16 {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	out := make([]uint16, len(data))
	copy(out, data)
	nn := p.NN()
	positions := r.Perm(len(out))[:errs]
	for _, pos := range positions {
		var val uint16
		for val == 0 {
			val = uint16(r.Intn(nn + 1))
		}
		out[pos] ^= val
	}
	return out
}

func equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Scenario 1: trivial roundtrip with iter, zero errors.
func TestScenarioTrivialRoundtripIter(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	const trials = 1000

	var s stats.Stats
	dwrong, rfail := 0, 0
	for i := 0; i < trials; i++ {
		data := randomCodeword(t, p, int64(i))
		original := make([]uint16, len(data))
		copy(original, data)

		ret := p.DecodeIter(data, &s)
		if ret < 0 {
			rfail++
		}
		if !equal(data, original) {
			dwrong++
		}
	}

	if dwrong != 0 {
		t.Errorf("dwrong = %d, want 0", dwrong)
	}
	if rfail != 0 {
		t.Errorf("rfail = %d, want 0", rfail)
	}
	if s.Cdec != uint64(trials*7) {
		t.Errorf("cdec = %d, want %d", s.Cdec, trials*7)
	}
	if s.Rdec != uint64(trials*7) {
		t.Errorf("rdec = %d, want %d", s.Rdec, trials*7)
	}
}

// Scenarios 2-4: GMD within, at, and beyond the correction radius
// t = (pc_mind-1)/2 with mind = 3*3 = 9, so t = 4.
func TestScenarioGMDWithinAndAtRadius(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	const trials = 200

	for _, errs := range []int{2, 4} {
		var s stats.Stats
		dwrong, cfail := 0, 0
		for i := 0; i < trials; i++ {
			data := randomCodeword(t, p, int64(1000*errs+i))
			corrupt := injectExactErrors(t, p, data, errs, int64(2000*errs+i))

			ret := p.DecodeGMD(corrupt, &s)
			if ret < 0 {
				cfail++
			}
			if !equal(corrupt, data) {
				dwrong++
			}
		}
		if dwrong != 0 {
			t.Errorf("errs=%d: dwrong = %d, want 0", errs, dwrong)
		}
		if cfail != 0 {
			t.Errorf("errs=%d: cfail = %d, want 0", errs, cfail)
		}
	}
}

func TestScenarioGMDBeyondRadius(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	const trials = 200
	const errs = 5 // t = 4, so this exceeds the guaranteed correction radius

	var s stats.Stats
	dwrong := 0
	for i := 0; i < trials; i++ {
		data := randomCodeword(t, p, int64(3000+i))
		corrupt := injectExactErrors(t, p, data, errs, int64(4000+i))

		p.DecodeGMD(corrupt, &s)
		if !equal(corrupt, data) {
			dwrong++
		}
	}
	if dwrong == 0 {
		t.Error("dwrong = 0 with 5 errors injected against t=4; expected at least one miscorrection or failure")
	}
}

// gd never reports failure, even when nothing clears the GDM threshold.
func TestGDNeverFails(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	const trials = 200
	const errs = 7 // well beyond any viable strategy's reach

	var s stats.Stats
	for i := 0; i < trials; i++ {
		data := randomCodeword(t, p, int64(5000+i))
		corrupt := injectExactErrors(t, p, data, errs, int64(6000+i))

		ret := p.DecodeGD(corrupt, &s)
		if ret != 0 {
			t.Fatalf("trial %d: DecodeGD returned %d, want 0 (gd never fails)", i, ret)
		}
	}
}

// itergd(C+e) == iter(C+e) whenever iter alone succeeds.
func TestIterGDMatchesIterWhenIterSucceeds(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	const trials = 200

	for i := 0; i < trials; i++ {
		data := randomCodeword(t, p, int64(7000+i))
		corrupt := injectExactErrors(t, p, data, 1, int64(8000+i))

		var sIter, sCombo stats.Stats
		iterOut := make([]uint16, len(corrupt))
		copy(iterOut, corrupt)
		iterRet := p.DecodeIter(iterOut, &sIter)

		comboOut := make([]uint16, len(corrupt))
		copy(comboOut, corrupt)
		comboRet := p.DecodeIterGD(comboOut, &sCombo)

		if iterRet == 0 {
			if comboRet != 0 || !equal(comboOut, iterOut) {
				t.Fatalf("trial %d: itergd diverged from iter despite iter succeeding", i)
			}
			if sCombo.Alg2 != 0 {
				t.Fatalf("trial %d: alg2 incremented even though iter succeeded", i)
			}
		}
	}
}

func TestEstratMonotonicity(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	for trial := 0; trial < 50; trial++ {
		data := randomCodeword(t, p, int64(9000+trial))
		corrupt := injectExactErrors(t, p, data, 3, int64(10000+trial))

		copy(p.xBuf, corrupt)
		p.decodeColumnsGMD(p.xBuf)

		for i := 0; i < p.nstrat-1; i++ {
			a, b := &p.es[i], &p.es[i+1]
			if a.size > b.size {
				t.Fatalf("trial %d: es[%d].size=%d > es[%d].size=%d", trial, i, a.size, i+1, b.size)
			}
			set := make(map[int]bool, b.size)
			for _, c := range b.strat[:b.size] {
				set[c] = true
			}
			for _, c := range a.strat[:a.size] {
				if !set[c] {
					t.Fatalf("trial %d: es[%d].strat contains column %d not in es[%d].strat", trial, i, c, i+1)
				}
			}
		}
	}
}

func TestMonotoneStrategyBounds(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	for trial := 0; trial < 50; trial++ {
		data := randomCodeword(t, p, int64(11000+trial))
		corrupt := injectExactErrors(t, p, data, 2, int64(12000+trial))

		var s stats.Stats
		p.DecodeGMD(corrupt, &s)

		if p.NstratBound() > p.nstrat {
			t.Fatalf("nstratBound=%d > nstrat=%d", p.NstratBound(), p.nstrat)
		}
	}
}

// erasgd's DecodeEras step bumps Alg2 whenever its iter stage fails,
// before erasgd adds its own Alg3, so within one accumulated Stats,
// alg3 can never exceed alg2 (spec.md §9 Open Question).
func TestAlg2Alg3OneShotPerCodeword(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	const trials = 100
	const errs = 3 // enough to push iter/eras into their gd fallback sometimes

	var s stats.Stats
	nwords := 0
	for i := 0; i < trials; i++ {
		data := randomCodeword(t, p, int64(13000+i))
		corrupt := injectExactErrors(t, p, data, errs, int64(14000+i))

		p.DecodeErasGD(corrupt, &s)
		nwords++
	}

	if s.Alg2 > uint64(nwords) {
		t.Errorf("alg2 = %d, want <= nwords = %d", s.Alg2, nwords)
	}
	if s.Alg3 > s.Alg2 {
		t.Errorf("alg3 = %d, want <= alg2 = %d", s.Alg3, s.Alg2)
	}
}
