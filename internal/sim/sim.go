// Package sim drives the two simulation modes over a worker pool: a
// fixed-error-count complexity sweep and a channel-error-rate frame
// error rate (FER) sweep (spec.md §5, grounded on
// original_source/src/complexity.c and original_source/src/simulate.c).
//
// Each worker owns its own *pc.PC, its own scratch codeword buffers,
// its own seeded RNG (base seed + worker index), and its own stats
// block; no state is shared across workers inside the inner loop,
// and consolidation happens serially after every worker joins.
package sim

import (
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/fblomqvist/pcdecode/internal/options"
	"github.com/fblomqvist/pcdecode/internal/pc"
	"github.com/fblomqvist/pcdecode/internal/rngsrc"
)

// worker is one goroutine's private workspace: its own product code,
// RNG, and codeword buffers, so no worker ever touches another's
// memory (original_source/src/simulate.c's struct thread_args).
type worker struct {
	pc      *pc.PC
	rng     rngsrc.Source
	c       []uint16
	r       []uint16
	errlocs []bool
}

func newWorker(o *options.Options, seed uint64) (*worker, error) {
	p, err := o.NewPC()
	if err != nil {
		return nil, err
	}
	rng, err := rngsrc.New(o.GetRNGName(), seed)
	if err != nil {
		return nil, err
	}
	length := p.Len()
	return &worker{
		pc:      p,
		rng:     rng,
		c:       make([]uint16, length),
		r:       make([]uint16, length),
		errlocs: make([]bool, length),
	}, nil
}

func newWorkers(o *options.Options) ([]*worker, error) {
	n := o.GetThreads()
	base := o.GetSeed()
	ws := make([]*worker, n)
	for i := 0; i < n; i++ {
		w, err := newWorker(o, base+uint64(i))
		if err != nil {
			return nil, err
		}
		ws[i] = w
	}
	return ws, nil
}

func equalWords(a, b []uint16) bool {
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

func printHeader(w io.Writer, p *pc.PC, alg pc.Algorithm, seed uint64, threads int, runID uuid.UUID, colHeads []string) {
	p.Print(w, "# ")
	fmt.Fprintf(w, "# Algorithm: %s\n", alg)
	fmt.Fprintf(w, "# Seed: %d\n", seed)
	fmt.Fprintf(w, "# Threads: %d\n", threads)
	fmt.Fprintf(w, "# Run-ID: %s\n", runID)
	for i, h := range colHeads {
		fmt.Fprintf(w, "# (%d) %s\n", i+1, h)
	}
}

type flushWriter interface {
	io.Writer
	Flush() error
}

// noopFlusher adapts a plain io.Writer (e.g. os.Stdout, already
// unbuffered) to flushWriter.
type noopFlusher struct{ io.Writer }

func (noopFlusher) Flush() error { return nil }

func asFlushWriter(w io.Writer) flushWriter {
	if fw, ok := w.(flushWriter); ok {
		return fw
	}
	return noopFlusher{w}
}
