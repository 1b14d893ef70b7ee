// Command simulate estimates the frame error rate of a product code
// over a q-ary symmetric channel, sweeping the channel symbol-error
// probability and reporting decoder statistics at each point.
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
	res, err := cli.ParseSimulate(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		cli.ReportUsageError(os.Stderr, "simulate", err)
		os.Exit(1)
	}
	if res.Exit {
		return
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		fmt.Fprintf(os.Stderr, "simulate: running %s, %d worker(s), seed %d, at least %s words per sweep point\n",
			res.Options.GetAlgorithm(), res.Options.GetThreads(), res.Options.GetSeed(),
			humanize.Comma(int64(res.Options.GetNumWords())))
	}

	if err := sim.RunSimulate(res.Options, os.Stdout); err != nil {
		log.Fatalf("simulate: %v", err)
	}
}
