package pc

import (
	"fmt"
	"sort"

	"github.com/fblomqvist/pcdecode/internal/stats"
)

// Algorithm names one of the six decoder variants. The source
// selected decoders through a name-to-function-pointer table
// (original_source/src/algorithm.c); a tagged variant with a switch in
// Decode gives the same dispatch with exhaustiveness the compiler can
// check.
type Algorithm int

const (
	AlgGMD Algorithm = iota
	AlgGD
	AlgIter
	AlgEras
	AlgItergd
	AlgErasgd
)

var algorithmNames = map[Algorithm]string{
	AlgGMD:    "gmd",
	AlgGD:     "gd",
	AlgIter:   "iter",
	AlgEras:   "eras",
	AlgItergd: "itergd",
	AlgErasgd: "erasgd",
}

var algorithmsByName = func() map[string]Algorithm {
	m := make(map[string]Algorithm, len(algorithmNames))
	for a, name := range algorithmNames {
		m[name] = a
	}
	return m
}()

// String returns the algorithm's CLI name.
func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return "unknown"
}

// AlgorithmByName resolves a CLI algorithm name. An unrecognized name
// is a user-input error (spec.md §7): the caller should report it and
// point at --help.
func AlgorithmByName(name string) (Algorithm, error) {
	a, ok := algorithmsByName[name]
	if !ok {
		return 0, fmt.Errorf("pc: unknown algorithm %q", name)
	}
	return a, nil
}

// AlgorithmNames lists the valid algorithm names in the order the
// original's algorithm_print_names printed them.
func AlgorithmNames() []string {
	order := []Algorithm{AlgGMD, AlgGD, AlgIter, AlgEras, AlgItergd, AlgErasgd}
	names := make([]string, len(order))
	for i, a := range order {
		names[i] = a.String()
	}
	return names
}

// SortedAlgorithmNames is AlgorithmNames in lexical order, for
// listing alongside the RNG registry's alphabetical -R list output.
func SortedAlgorithmNames() []string {
	names := AlgorithmNames()
	sort.Strings(names)
	return names
}

// Decode dispatches to the named decoder, accumulating into s.
func (p *PC) Decode(a Algorithm, data []uint16, s *stats.Stats) int {
	switch a {
	case AlgGMD:
		return p.DecodeGMD(data, s)
	case AlgGD:
		return p.DecodeGD(data, s)
	case AlgIter:
		return p.DecodeIter(data, s)
	case AlgEras:
		return p.DecodeEras(data, s)
	case AlgItergd:
		return p.DecodeIterGD(data, s)
	case AlgErasgd:
		return p.DecodeErasGD(data, s)
	default:
		panic(fmt.Sprintf("pc: unhandled algorithm %v", a))
	}
}
