package stats

import "testing"

func TestMergeIsAdditive(t *testing.T) {
	a := Stats{Nwords: 10, Viable: 3, Rfail: 1}
	b := Stats{Nwords: 5, Viable: 2, Cfail: 4}

	a.Merge(b)

	want := Stats{Nwords: 15, Viable: 5, Rfail: 1, Cfail: 4}
	if a != want {
		t.Fatalf("Merge: got %+v, want %+v", a, want)
	}
}

func TestMergeAllAssociative(t *testing.T) {
	parts := []Stats{
		{Nwords: 1, Alg2: 1},
		{Nwords: 2, Alg3: 1},
		{Nwords: 3, Rdec: 7},
	}

	total := MergeAll(parts)

	// Order shouldn't matter: merging in reverse must give the same total.
	reversed := []Stats{parts[2], parts[1], parts[0]}
	totalRev := MergeAll(reversed)

	if total != totalRev {
		t.Fatalf("MergeAll is order-dependent: %+v vs %+v", total, totalRev)
	}
	if total.Nwords != 6 || total.Alg2 != 1 || total.Alg3 != 1 || total.Rdec != 7 {
		t.Fatalf("MergeAll produced unexpected total: %+v", total)
	}
}

func TestMergeAllEmpty(t *testing.T) {
	if got := MergeAll(nil); got != (Stats{}) {
		t.Fatalf("MergeAll(nil) = %+v, want zero value", got)
	}
}
