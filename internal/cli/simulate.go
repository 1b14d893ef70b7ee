package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/fblomqvist/pcdecode/internal/options"
	"github.com/fblomqvist/pcdecode/internal/pc"
)

const simulateProg = "simulate"

// SimulateResult is what ParseSimulate hands back to cmd/simulate:
// either a ready Options to run, or a signal that the process should
// exit immediately (help/version/list text already written to out).
type SimulateResult struct {
	Options *options.Options
	Exit    bool
}

// ParseSimulate parses argv (excluding argv[0]) for the simulate
// binary: the common flag set plus the channel-mode sweep knobs
// (spec.md §6 "simulate").
func ParseSimulate(argv []string, out, errOut io.Writer) (SimulateResult, error) {
	fs := pflag.NewFlagSet(simulateProg, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { printSimulateUsage(errOut) }

	var c commonFlags
	registerCommonFlags(fs, &c)

	var (
		minErrors int
		ferCutoff float64
		pBegin    float64
		pEnd      float64
		pStep     float64
		pHalveAt  float64
		help      bool
	)
	fs.IntVarP(&minErrors, "min-errors", "E", options.DefaultMinErrors, "minimum errors observed before advancing p")
	fs.Float64VarP(&ferCutoff, "fer-cutoff", "f", options.DefaultFerCutoff, "stop once the estimated FER drops below this")
	fs.Float64VarP(&pBegin, "p-begin", "b", options.DefaultPBegin, "starting channel symbol-error probability")
	fs.Float64VarP(&pEnd, "p-end", "e", options.DefaultPEnd, "final channel symbol-error probability")
	fs.Float64VarP(&pStep, "p-step", "t", options.DefaultPStep, "probability decrement per sweep point")
	fs.Float64VarP(&pHalveAt, "p-halve-at", "H", options.DefaultPHalveAt, "once p falls to this, halve the step size (0 disables)")
	fs.BoolVar(&help, "help", false, "print this help and exit")

	if err := fs.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			return SimulateResult{Exit: true}, nil
		}
		return SimulateResult{}, newUsageError(simulateProg, "%s", err)
	}

	if help {
		printSimulateUsage(out)
		return SimulateResult{Exit: true}, nil
	}
	if c.version {
		PrintVersion(out, simulateProg)
		return SimulateResult{Exit: true}, nil
	}
	if c.algorithm == "list" {
		fmt.Fprintln(out, "Available algorithms are:")
		for _, n := range pc.SortedAlgorithmNames() {
			fmt.Fprintln(out, n)
		}
		return SimulateResult{Exit: true}, nil
	}
	if c.rngName == "list" {
		listRNGs(out)
		return SimulateResult{Exit: true}, nil
	}

	var seed uint64
	if c.seed != 0 {
		seed = uint64(c.seed)
	}

	opts, err := options.New(c.algorithm, c.symSize, 0, c.rows, c.cols,
		1, 1, c.rNroots, 1, 1, c.cNroots,
		c.numWords, minErrors, ferCutoff, pBegin, pEnd, pStep, pHalveAt,
		c.rngName, seed, c.threads)
	if err != nil {
		return SimulateResult{}, newUsageError(simulateProg, "%s", err)
	}
	return SimulateResult{Options: opts}, nil
}

func printSimulateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: simulate [OPTION]...")
	fmt.Fprintln(w, "Estimate the frame error rate of a product code over a symbol-error channel,")
	fmt.Fprintln(w, "sweeping the channel error probability from --p-begin down to --p-end.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -a, --algorithm=NAME     decoder to use, or 'list' to print the choices")
	fmt.Fprintln(w, "  -r, --rows=N             codeword rows")
	fmt.Fprintln(w, "  -c, --cols=N             codeword columns")
	fmt.Fprintln(w, "      --r-nroots=N         row code parity symbols")
	fmt.Fprintln(w, "      --c-nroots=N         column code parity symbols")
	fmt.Fprintln(w, "  -s, --sym-size=N         symbol size in bits, 2..16")
	fmt.Fprintln(w, "  -n, --num-words=N        minimum trials per sweep point")
	fmt.Fprintln(w, "  -E, --min-errors=N       minimum errored frames before advancing p")
	fmt.Fprintln(w, "  -f, --fer-cutoff=P       stop the sweep once FER drops below P")
	fmt.Fprintln(w, "  -b, --p-begin=P          starting channel error probability")
	fmt.Fprintln(w, "  -e, --p-end=P            final channel error probability")
	fmt.Fprintln(w, "  -t, --p-step=P           probability decrement per sweep point")
	fmt.Fprintln(w, "  -H, --p-halve-at=P       halve the step size once p falls to P")
	fmt.Fprintln(w, "  -R, --rng=NAME           RNG source, or 'list' to print the choices")
	fmt.Fprintln(w, "  -S, --seed=N             RNG seed; 0 derives one from the wall clock")
	fmt.Fprintln(w, "  -T, --threads=N          worker count")
	fmt.Fprintln(w, "      --version            print version and exit")
	fmt.Fprintln(w, "      --help               print this help and exit")
}
