package pc

import (
	"testing"

	"github.com/fblomqvist/pcdecode/internal/stats"
)

func TestAlgorithmByNameRoundTrip(t *testing.T) {
	for _, name := range AlgorithmNames() {
		a, err := AlgorithmByName(name)
		if err != nil {
			t.Fatalf("AlgorithmByName(%q): %v", name, err)
		}
		if a.String() != name {
			t.Errorf("AlgorithmByName(%q).String() = %q", name, a.String())
		}
	}
}

func TestAlgorithmByNameUnknown(t *testing.T) {
	if _, err := AlgorithmByName("not-an-algorithm"); err == nil {
		t.Fatal("AlgorithmByName with an unknown name should fail")
	}
}

func TestSortedAlgorithmNamesIsSorted(t *testing.T) {
	names := SortedAlgorithmNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("SortedAlgorithmNames() not sorted: %v", names)
		}
	}
	if len(names) != len(AlgorithmNames()) {
		t.Fatalf("SortedAlgorithmNames has %d entries, AlgorithmNames has %d", len(names), len(AlgorithmNames()))
	}
}

func TestDecodeDispatchesToEveryAlgorithm(t *testing.T) {
	p := newTestPC(t, 7, 7, 2, 2)
	for _, name := range AlgorithmNames() {
		alg, err := AlgorithmByName(name)
		if err != nil {
			t.Fatalf("AlgorithmByName(%q): %v", name, err)
		}

		data := randomCodeword(t, p, int64(len(name)))
		var s stats.Stats
		// A clean codeword must decode without failure through every algorithm.
		ret := p.Decode(alg, data, &s)
		if name == "gd" {
			if ret != 0 {
				t.Errorf("%s: Decode returned %d, want 0 (gd never fails)", name, ret)
			}
			continue
		}
		if ret < 0 {
			t.Errorf("%s: Decode on a clean codeword returned %d", name, ret)
		}
	}
}
