package main

import (
	. "github.com/spf13/pflag"
	"os"
	"time"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

var pConditions, pConfig, pSeed, pNoCodesDefault = "", "", "", false
var pWorkers, pTrials, pProgress = 0, uint64(0), time.Duration(0)
var pHelp, pNoCodes, pQuiet, pVectors, pDebug bool
var yell, purp, und, zero = "\033[33m", "\033[35m", "\033[4m", "\033[0m"

func init() {
	for _, arg := range os.Args[1:] {
		switch arg {
		case "--no-codes=false":
			pNoCodes = false
		case "--quiet", "--quiet=true":
			pNoCodes, pQuiet = true, true
		case "--no-codes", "--no-codes=true":
			pNoCodes = true
		}
	}
	if pNoCodes {
		yell, purp, und, zero = "", "", "", ""
	}

	BoolVarP(&pHelp, "help", "h", false,
		purp+"print this help menu"+zero+n)

	StringVarP(&pConditions, "conditions", "c", "",
		purp+"read bit conditions from a file"+zero+" (default embedded table)")

	StringVar(&pConfig, "config", "",
		purp+"read search settings from a YAML file; flags override it"+zero)

	BoolVar(&pDebug, "debug", false, "")
	CommandLine.MarkHidden("debug")

	Bool("no-codes", pNoCodesDefault,
		purp+"print to console w/o formatting codes or simplified"+zero+
			n+purp+"filepaths"+zero)

	DurationVar(&pProgress, "progress", 0,
		purp+"log search progress at this interval"+zero+" (default 30s)")

	Bool("quiet", false,
		purp+"suppress logs and the progress bar; print ONLY the pair"+zero+
			n+"(enables --no-codes)")

	StringVar(&pSeed, "seed", "",
		purp+"derive every worker's random stream from this string"+zero+
			n+purp+"for reproducible runs"+zero)

	Uint64VarP(&pTrials, "trials", "n", 0,
		purp+"stop after this many trials"+zero+" (default unlimited)")

	BoolVar(&pVectors, "vectors", false,
		purp+"verify the published collisions and exit"+zero)

	IntVarP(&pWorkers, "workers", "w", 0,
		purp+"number of parallel workers"+zero+" (default one per CPU)")

	/* Order flags alphabetically except for help, which is hoisted to the top. */
	CommandLine.SortFlags = false
	Parse()
}
