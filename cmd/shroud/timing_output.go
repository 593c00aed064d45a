package main

import (
	"fmt"
	"io"
	"time"

	"shroud/internal/driver"
)

// printStageTimings prints one line per recorded stage of res.
func printStageTimings(out io.Writer, res *driver.FileResult) {
	if out == nil || res == nil {
		return
	}
	_, printErr := fmt.Fprintf(out, "%s: seed %d", res.Path, res.Seed)
	if printErr != nil {
		panic(printErr)
	}
	if res.Cached {
		fmt.Fprint(out, " (cached)")
	}
	fmt.Fprintln(out)
	for _, stage := range driver.Stages {
		if !res.Timings.Has(stage) {
			continue
		}
		_, printErr = fmt.Fprintf(out, "  %-10s %.1f ms\n", stage, toMillis(res.Timings.Duration(stage)))
		if printErr != nil {
			panic(printErr)
		}
	}
	for _, fn := range res.Funcs {
		_, printErr = fmt.Fprintf(out, "  fn %-8s %.1f ms (states %d, mba %d)\n",
			fn.Name, toMillis(fn.Elapsed), fn.CFF.States, fn.MBA.Rewrites)
		if printErr != nil {
			panic(printErr)
		}
	}
	_, printErr = fmt.Fprintf(out, "  total      %.1f ms\n", toMillis(res.Timings.Sum()))
	if printErr != nil {
		panic(printErr)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
