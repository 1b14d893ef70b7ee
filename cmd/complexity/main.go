// Command complexity measures average decoding work as a function of
// the number of errors injected into a product codeword, sweeping
// from zero errors up to the code's correction radius.
package main

import (
	"fmt"
	"log"
	"os"

	humanize "github.com/dustin/go-humanize"
	isatty "github.com/mattn/go-isatty"

	"github.com/fblomqvist/pcdecode/internal/cli"
	"github.com/fblomqvist/pcdecode/internal/sim"
)

func main() {
	res, err := cli.ParseComplexity(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		cli.ReportUsageError(os.Stderr, "complexity", err)
		os.Exit(1)
	}
	if res.Exit {
		return
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "complexity: running %s, %d worker(s), seed %d, at least %s words per error count\n",
			res.Options.GetAlgorithm(), res.Options.GetThreads(), res.Options.GetSeed(),
			humanize.Comma(int64(res.Options.GetNumWords())))
	}

	if err := sim.RunComplexity(res.Options, os.Stdout); err != nil {
		log.Fatalf("complexity: %v", err)
	}
}
