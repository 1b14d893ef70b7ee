// Package stats holds the monotone counters each simulation worker
// accumulates over its share of codewords, and the associative merge
// that lets the driver consolidate them after the workers join
// (spec.md §3 Stats, §5 "no locks, no atomics ... stats consolidation
// is done serially after the join").
package stats

// Stats is componentwise-additive: Merge never depends on the order
// workers finish in, matching struct stats / stats_add in
// original_source/src/product_code.h.
type Stats struct {
	Nwords   uint64 // codewords processed
	Viable   uint64 // sum of each codeword's viable strategy count
	Max      uint64 // sum of each codeword's structural strategy bound (nstrat_bound)
	Rdec     uint64 // total row decode attempts
	RdecMax  uint64 // worst-case row decode attempts
	Cdec     uint64 // total column decode attempts
	Dwrong   uint64 // codewords decoded to the wrong word
	Rfail    uint64 // codewords the decoder reported as failed
	Cfail    uint64 // wrong decodings with no more than t channel errors
	Alg2     uint64 // codewords where a second algorithmic pass ran
	Alg3     uint64 // codewords where a third algorithmic pass ran
}

// Merge adds r into l in place.
func (l *Stats) Merge(r Stats) {
	l.Nwords += r.Nwords
	l.Viable += r.Viable
	l.Max += r.Max
	l.Rdec += r.Rdec
	l.RdecMax += r.RdecMax
	l.Cdec += r.Cdec
	l.Dwrong += r.Dwrong
	l.Rfail += r.Rfail
	l.Cfail += r.Cfail
	l.Alg2 += r.Alg2
	l.Alg3 += r.Alg3
}

// MergeAll folds a slice of per-worker Stats into one total, the
// serial join-then-consolidate step of the worker pool.
func MergeAll(all []Stats) Stats {
	var total Stats
	for _, s := range all {
		total.Merge(s)
	}
	return total
}
