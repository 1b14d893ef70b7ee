package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/fblomqvist/pcdecode/internal/options"
	"github.com/fblomqvist/pcdecode/internal/pc"
)

const complexityProg = "complexity"

// ComplexityResult mirrors SimulateResult for the complexity binary.
type ComplexityResult struct {
	Options *options.Options
	Exit    bool
}

// ParseComplexity parses argv for the complexity binary: just the
// common flag set (spec.md §6 "complexity"). The error-count sweep
// runs from 0 up to the code's correction radius, derived from the
// code once it's built -- there is no user-facing range to parse.
func ParseComplexity(argv []string, out, errOut io.Writer) (ComplexityResult, error) {
	fs := pflag.NewFlagSet(complexityProg, pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() { printComplexityUsage(errOut) }

	var c commonFlags
	registerCommonFlags(fs, &c)
	var help bool
	fs.BoolVar(&help, "help", false, "print this help and exit")

	if err := fs.Parse(argv); err != nil {
		if err == pflag.ErrHelp {
			return ComplexityResult{Exit: true}, nil
		}
		return ComplexityResult{}, newUsageError(complexityProg, "%s", err)
	}

	if help {
		printComplexityUsage(out)
		return ComplexityResult{Exit: true}, nil
	}
	if c.version {
		PrintVersion(out, complexityProg)
		return ComplexityResult{Exit: true}, nil
	}
	if c.algorithm == "list" {
		fmt.Fprintln(out, "Available algorithms are:")
		for _, n := range pc.SortedAlgorithmNames() {
			fmt.Fprintln(out, n)
		}
		return ComplexityResult{Exit: true}, nil
	}
	if c.rngName == "list" {
		listRNGs(out)
		return ComplexityResult{Exit: true}, nil
	}

	var seed uint64
	if c.seed != 0 {
		seed = uint64(c.seed)
	}

	opts, err := options.New(c.algorithm, c.symSize, 0, c.rows, c.cols,
		1, 1, c.rNroots, 1, 1, c.cNroots,
		c.numWords, options.DefaultMinErrors, options.DefaultFerCutoff,
		options.DefaultPBegin, options.DefaultPEnd, options.DefaultPStep, options.DefaultPHalveAt,
		c.rngName, seed, c.threads)
	if err != nil {
		return ComplexityResult{}, newUsageError(complexityProg, "%s", err)
	}
	return ComplexityResult{Options: opts}, nil
}

func printComplexityUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: complexity [OPTION]...")
	fmt.Fprintln(w, "Run complexity simulations for product codes with different algorithms.")
	fmt.Fprintln(w, "The component codes are Reed-Solomon codes over fields of size 2^m.")
	fmt.Fprintln(w, "Sweeps the number of injected errors from 0 up to the code's correction")
	fmt.Fprintln(w, "radius and reports average decoding work at each point. Outputs to stdout.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Mandatory arguments to long options are mandatory for short options too.")
	fmt.Fprintln(w, "  -a, --algorithm=ALG      decoder to use: gmd, gd, iter, itergd, eras, erasgd,")
	fmt.Fprintln(w, "                             or 'list' to print the choices")
	fmt.Fprintln(w, "  -c, --cols=NUM           the number of columns in the codeword")
	fmt.Fprintln(w, "  -r, --rows=NUM           the number of rows in the codeword")
	fmt.Fprintln(w, "      --c-nroots=NUM       the number of roots in the column code")
	fmt.Fprintln(w, "      --r-nroots=NUM       the number of roots in the row code")
	fmt.Fprintln(w, "  -n, --num-words=NUM      the minimum number of words to decode")
	fmt.Fprintln(w, "  -R, --rng=RNG            the random number generator to use, or 'list'")
	fmt.Fprintln(w, "  -s, --sym-size=NUM       the symbol size in bits")
	fmt.Fprintln(w, "  -S, --seed=SEED          the seed for the random number generator")
	fmt.Fprintln(w, "  -T, --threads=NUM        number of computational threads to use")
	fmt.Fprintln(w, "      --help               display this help and exit")
	fmt.Fprintln(w, "      --version            output version information and exit")
}
