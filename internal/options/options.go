// Package options holds the validated configuration for one run of
// either binary (spec.md §6), built from parsed CLI flags. It follows
// the teacher's config pattern: private fields reached only through
// Get* accessors, so the zero value is never mistaken for a value a
// caller actually set.
package options

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fblomqvist/pcdecode/internal/gf"
	"github.com/fblomqvist/pcdecode/internal/pc"
	"github.com/fblomqvist/pcdecode/internal/rngsrc"
)

// Options is the full set of knobs for one simulate or complexity run.
type Options struct {
	algorithm pc.Algorithm

	symSize int
	gfpoly  uint32
	rows    int
	cols    int
	rFcr    int
	rPrim   int
	rNroots int
	cFcr    int
	cPrim   int
	cNroots int

	numWords int

	// Channel-mode-only knobs; complexity fills them with the defaults
	// and never reads them.
	minErrors int
	ferCutoff float64
	pBegin    float64
	pEnd      float64
	pStep     float64
	pHalveAt  float64

	rngName string
	seed    uint64
	threads int

	runID uuid.UUID
}

// Default values, matching original_source/src/simulate_main.c's
// parse_cmdline defaults.
const (
	DefaultMinErrors = 100
	DefaultFerCutoff = 1e-8
	DefaultPBegin    = 0.1
	DefaultPEnd      = 0.01
	DefaultPStep     = 0.01
	DefaultPHalveAt  = 0.0
	DefaultThreads   = 1
)

// New validates and assembles an Options from already-parsed flag
// values. It resolves the default GF polynomial when gfpoly is zero,
// resolves a zero seed to a wall-clock-derived one, and resolves the
// default RNG name when rngName is empty.
func New(alg string, symSize int, gfpoly uint32, rows, cols int,
	rFcr, rPrim, rNroots, cFcr, cPrim, cNroots int,
	numWords, minErrors int, ferCutoff, pBegin, pEnd, pStep, pHalveAt float64,
	rngName string, seed uint64, threads int) (*Options, error) {

	a, err := pc.AlgorithmByName(alg)
	if err != nil {
		return nil, err
	}
	if symSize < gf.MinSymSize || symSize > gf.MaxSymSize {
		return nil, fmt.Errorf("options: sym-size %d out of range [%d, %d]", symSize, gf.MinSymSize, gf.MaxSymSize)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("options: rows and cols must be positive")
	}
	if rNroots <= 0 || cNroots <= 0 {
		return nil, fmt.Errorf("options: r-nroots and c-nroots must be positive")
	}
	if numWords <= 0 {
		return nil, fmt.Errorf("options: num-words must be positive")
	}
	if threads <= 0 {
		return nil, fmt.Errorf("options: threads must be positive")
	}
	if pBegin < pEnd {
		return nil, fmt.Errorf("options: p-begin (%g) must be >= p-end (%g)", pBegin, pEnd)
	}

	if gfpoly == 0 {
		gfpoly, err = gf.DefaultPoly(symSize)
		if err != nil {
			return nil, err
		}
	}
	if seed == 0 {
		seed = rngsrc.RandomSeed()
	}
	if rngName == "" {
		rngName = rngsrc.Default
	}
	if _, err := rngsrc.New(rngName, seed); err != nil {
		return nil, err
	}

	return &Options{
		algorithm: a,
		symSize:   symSize,
		gfpoly:    gfpoly,
		rows:      rows,
		cols:      cols,
		rFcr:      rFcr,
		rPrim:     rPrim,
		rNroots:   rNroots,
		cFcr:      cFcr,
		cPrim:     cPrim,
		cNroots:   cNroots,
		numWords:  numWords,
		minErrors: minErrors,
		ferCutoff: ferCutoff,
		pBegin:    pBegin,
		pEnd:      pEnd,
		pStep:     pStep,
		pHalveAt:  pHalveAt,
		rngName:   rngName,
		seed:      seed,
		threads:   threads,
		runID:     uuid.New(),
	}, nil
}

func (o *Options) GetAlgorithm() pc.Algorithm { return o.algorithm }
func (o *Options) GetSymSize() int            { return o.symSize }
func (o *Options) GetGFPoly() uint32          { return o.gfpoly }
func (o *Options) GetRows() int               { return o.rows }
func (o *Options) GetCols() int               { return o.cols }
func (o *Options) GetRowFcr() int             { return o.rFcr }
func (o *Options) GetRowPrim() int            { return o.rPrim }
func (o *Options) GetRowNroots() int          { return o.rNroots }
func (o *Options) GetColFcr() int             { return o.cFcr }
func (o *Options) GetColPrim() int            { return o.cPrim }
func (o *Options) GetColNroots() int          { return o.cNroots }
func (o *Options) GetNumWords() int           { return o.numWords }
func (o *Options) GetMinErrors() int          { return o.minErrors }
func (o *Options) GetFerCutoff() float64      { return o.ferCutoff }
func (o *Options) GetPBegin() float64         { return o.pBegin }
func (o *Options) GetPEnd() float64           { return o.pEnd }
func (o *Options) GetPStep() float64          { return o.pStep }
func (o *Options) GetPHalveAt() float64       { return o.pHalveAt }
func (o *Options) GetRNGName() string         { return o.rngName }
func (o *Options) GetSeed() uint64            { return o.seed }
func (o *Options) GetThreads() int            { return o.threads }
func (o *Options) GetRunID() uuid.UUID        { return o.runID }

// NewPC builds the product code this Options describes.
func (o *Options) NewPC() (*pc.PC, error) {
	return pc.Init(o.symSize, o.gfpoly,
		o.rFcr, o.rPrim, o.rNroots,
		o.cFcr, o.cPrim, o.cNroots,
		o.rows, o.cols)
}
