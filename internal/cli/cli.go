// Package cli parses the flag surface of the two binaries (spec.md
// §6) and prints their help, version and list output, with package
// version constants and a "Try '<prog> --help'" diagnostic on parse
// failure. The startup line on stderr is printed by the binaries
// themselves.
package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/pflag"

	"github.com/fblomqvist/pcdecode/internal/pc"
	"github.com/fblomqvist/pcdecode/internal/rngsrc"
)

const (
	versionMajor = 0
	versionMinor = 1
	versionPatch = 0
)

// Version returns the program's semantic version string.
func Version() string { return fmt.Sprintf("%d.%d.%d", versionMajor, versionMinor, versionPatch) }

// PrintVersion writes the standard version/license banner, the Go
// equivalent of the original's print_version.
func PrintVersion(w io.Writer, progName string) {
	fmt.Fprintf(w, "%s version %s (%s/%s, %s)\n", progName, Version(), runtime.GOOS, runtime.GOARCH, runtime.Version())
	fmt.Fprintln(w, "License GPLv2: GNU GPL version 2 <http://gnu.org/licenses/gpl.html>.")
	fmt.Fprintln(w, "This is free software: you are free to change and redistribute it.")
	fmt.Fprintln(w, "There is NO WARRANTY, to the extent permitted by law.")
}

// usageError is returned by the Parse* functions on any flag-parsing
// or validation failure; the caller prints Msg and the Hint line to
// stderr and exits non-zero (spec.md §7 "User-input errors").
type usageError struct {
	prog string
	msg  string
}

func (e *usageError) Error() string { return e.msg }

// Hint is the "Try '<prog> --help' for more information." diagnostic
// spec.md §6 requires alongside every parse error.
func (e *usageError) Hint() string { return fmt.Sprintf("Try '%s --help' for more information.", e.prog) }

func newUsageError(prog, format string, args ...interface{}) error {
	return &usageError{prog: prog, msg: fmt.Sprintf(format, args...)}
}

// ReportUsageError writes a user-input error and its --help hint to
// w, the shared diagnostic shape for both binaries.
func ReportUsageError(w io.Writer, prog string, err error) {
	if ue, ok := err.(*usageError); ok {
		fmt.Fprintf(w, "%s: %s\n", prog, ue.Error())
		fmt.Fprintln(w, ue.Hint())
		return
	}
	fmt.Fprintf(w, "%s: %s\n", prog, err)
	fmt.Fprintf(w, "Try '%s --help' for more information.\n", prog)
}

// commonFlags is the flag set shared by simulate and complexity:
// code geometry, algorithm, RNG, threads -- everything except the
// sweep-specific knobs (spec.md §6).
type commonFlags struct {
	algorithm string
	cols      int
	rows      int
	rNroots   int
	cNroots   int
	symSize   int
	numWords  int
	rngName   string
	seed      int64
	threads   int
	version   bool
}

func registerCommonFlags(fs *pflag.FlagSet, c *commonFlags) {
	fs.StringVarP(&c.algorithm, "algorithm", "a", "", "decoder: one of "+join(pc.AlgorithmNames()))
	fs.IntVarP(&c.cols, "cols", "c", 0, "codeword columns")
	fs.IntVarP(&c.rows, "rows", "r", 0, "codeword rows")
	fs.IntVar(&c.rNroots, "r-nroots", 0, "row code parity symbols")
	fs.IntVar(&c.cNroots, "c-nroots", 0, "column code parity symbols")
	fs.IntVarP(&c.symSize, "sym-size", "s", 0, "symbol size in bits, 2..16")
	fs.IntVarP(&c.numWords, "num-words", "n", 0, "minimum trials per sweep point")
	fs.StringVarP(&c.rngName, "rng", "R", rngsrc.Default, "RNG source name, or 'list'")
	fs.Int64VarP(&c.seed, "seed", "S", 0, "RNG seed; 0 derives one from the wall clock")
	fs.IntVarP(&c.threads, "threads", "T", 1, "worker count")
	fs.BoolVar(&c.version, "version", false, "print version and exit")
}

func join(items []string) string {
	s := ""
	for i, it := range items {
		if i > 0 {
			s += ", "
		}
		s += it
	}
	return s
}

// listRNGs implements `-R list` / `--rng list`.
func listRNGs(w io.Writer) {
	fmt.Fprintln(w, "Available random number generators are:")
	for _, n := range rngsrc.Names() {
		fmt.Fprintln(w, n)
	}
}

