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

var complexityColHeads = []string{
	"number of errors in codeword",
	"number of codewords",
	"viable strategies",
	"max strategies",
	"row decoder actual",
	"row decoder worst case",
	"column decoder actual",
	"decoding failures",
	"reported failures",
}

// testUC runs trials decode attempts with exactly errs errors
// injected into each codeword, accumulating into s (the per-worker
// equivalent of original_source/src/complexity.c's test_uc).
func testUC(w *worker, alg pc.Algorithm, trials, errs int, s *stats.Stats) {
	dwrong := uint64(0)
	for j := 0; j < trials; j++ {
		if err := errorgen.WithExactErrors(w.pc, w.c, w.r, errs, w.errlocs, w.rng); err != nil {
			panic(err) // geometry was already validated at Options.New time
		}
		derrs := w.pc.Decode(alg, w.r, s)
		if derrs < 0 {
			s.Rfail++
		}
		if !equalWords(w.r, w.c) {
			dwrong++
		}
	}
	s.Nwords = uint64(trials)
	s.Dwrong = dwrong
}

func printComplexityRow(w io.Writer, s *stats.Stats, errs int) {
	fmt.Fprintf(w, "%d %d %d %d %d %d %d %d %d\n",
		errs, s.Nwords, s.Viable, s.Max, s.Rdec, s.RdecMax, s.Cdec, s.Dwrong, s.Rfail)
}

// RunComplexity sweeps the injected error count from 0 up to the
// code's correction radius t = (mindist-1)/2, printing one
// consolidated stats row per error count (spec.md §5 "complexity
// mode").
func RunComplexity(o *options.Options, out io.Writer) error {
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
	printHeader(w, workers[0].pc, alg, o.GetSeed(), threads, o.GetRunID(), complexityColHeads)

	t := (workers[0].pc.MinDist() - 1) / 2
	for errs := 0; errs <= t; errs++ {
		results := make([]stats.Stats, threads)
		var wg sync.WaitGroup
		for i := 0; i < threads; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				testUC(workers[i], alg, trials, errs, &results[i])
			}(i)
		}
		wg.Wait()

		merged := stats.MergeAll(results)
		printComplexityRow(w, &merged, errs)
		w.Flush()
	}
	return nil
}
