package sim

import (
	"fmt"
	"io"
	"sync"

	"github.com/fblomqvist/pcdecode/internal/errorgen"
	"github.com/fblomqvist/pcdecode/internal/options"
	"github.com/fblomqvist/pcdecode/internal/pc"
	"github.com/fblomqvist/pcdecode/internal/stats"
)

var simulateColHeads = []string{
	"channel error probability",
	"number of codewords",
	"algorithm 2",
	"algorithm 3",
	"viable strategies",
	"max strategies",
	"row decoder actual",
	"row decoder worst case",
	"column decoder actual",
	"decoding failures",
	"reported failures",
	"critical failures",
}

// testNormal runs decode attempts at channel error probability p
// until both trials attempts have run AND this worker's own dwrong
// count has reached its share of minErrs, accumulating into s
// (original_source/src/simulate.c's test_normal, adapted to spec.md
// §4.6/§5's per-worker-local termination test rather than the
// original's shared atomic counter -- each worker owns its PC,
// workspace, RNG, and stats block exclusively, with consolidation
// done serially after the join). t is the code's correction radius; a
// mismatch that the channel corrupted with t or fewer errors is a
// critical failure -- the decoder had enough redundancy to succeed
// and didn't.
func testNormal(w *worker, alg pc.Algorithm, p float64, trials int, minErrs uint64, t int, s *stats.Stats) {
	dwrong := uint64(0)
	cfail := uint64(0)
	var j int
	for j = 0; uint64(j) < uint64(trials) || dwrong < minErrs; j++ {
		errs, err := errorgen.WithChannelErrors(w.pc, w.c, w.r, p, w.rng)
		if err != nil {
			panic(err)
		}
		derrs := w.pc.Decode(alg, w.r, s)
		if derrs < 0 {
			s.Rfail++
		}
		if !equalWords(w.r, w.c) {
			dwrong++
			if errs <= t {
				cfail++
			}
		}
	}
	s.Nwords = uint64(j)
	s.Dwrong = dwrong
	s.Cfail = cfail
}

func printSimulateRow(w io.Writer, s *stats.Stats, p float64) {
	fmt.Fprintf(w, "%f %d %d %d %d %d %d %d %d %d %d %d\n",
		p, s.Nwords, s.Alg2, s.Alg3, s.Viable, s.Max,
		s.Rdec, s.RdecMax, s.Cdec, s.Dwrong, s.Rfail, s.Cfail)
}

// testMT runs one sweep point across all workers, merges their
// stats, prints the row, and reports whether the estimated FER has
// dropped below ferCutoff (the sweep's stop condition).
func testMT(workers []*worker, alg pc.Algorithm, p float64, trials int, minErrs uint64, ferCutoff float64, w io.Writer) bool {
	t := (workers[0].pc.MinDist() - 1) / 2
	perWorkerMinErrs := minErrs / uint64(len(workers))
	results := make([]stats.Stats, len(workers))

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			testNormal(workers[i], alg, p, trials, perWorkerMinErrs, t, &results[i])
		}(i)
	}
	wg.Wait()

	merged := stats.MergeAll(results)
	printSimulateRow(w, &merged, p)

	if ferCutoff > 0 && merged.Nwords > 0 && float64(merged.Dwrong)/float64(merged.Nwords) < ferCutoff {
		return true
	}
	return false
}

// RunSimulate sweeps the channel symbol-error probability from
// p-begin down to p-end (inclusive, within the same 1e-9 tolerance
// the original used to guard against float step accumulation),
// halving the step once p falls below p-halve-at, and stopping early
// once the estimated FER drops below fer-cutoff (spec.md §5 "channel
// mode").
func RunSimulate(o *options.Options, out io.Writer) error {
	workers, err := newWorkers(o)
	if err != nil {
		return err
	}
	alg := o.GetAlgorithm()
	threads := o.GetThreads()
	trials := o.GetNumWords() / threads
	if trials < 1 {
		trials = 1
	}

	w := asFlushWriter(out)
	printHeader(w, workers[0].pc, alg, o.GetSeed(), threads, o.GetRunID(), simulateColHeads)

	minErrs := uint64(o.GetMinErrors())
	ferCutoff := o.GetFerCutoff()
	pStep := o.GetPStep()
	pHalveAt := o.GetPHalveAt()
	pStop := o.GetPEnd()

	for p := o.GetPBegin(); p >= pStop-10e-10; p -= pStep {
		stop := testMT(workers, alg, p, trials, minErrs, ferCutoff, w)
		w.Flush()
		if stop {
			break
		}

		if pHalveAt-p >= -10e-10 {
			pStep /= 2
			pHalveAt = 0.0
		}
	}
	return nil
}
