package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	bundlePath := flag.String("bundle", "", "parameter bundle to replay against (defaults when empty)")
	seed := flag.Uint64("seed", 0, "override the fixture seed (0 keeps the fixture's)")
	verbose := flag.BoolP("verbose", "v", false, "print every mismatch")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--bundle params.bin] [--seed N] [-v]")
		os.Exit(2)
	}
	os.Exit(runFixtureMode(*fixturePath, *bundlePath, *seed, *verbose))
}

// #endregion main

// #region fixture-mode

func runFixtureMode(path, bundlePath string, seed uint64, verbose bool) int {
	f, err := replay.LoadFixture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}

	params := model.MustDefault()
	if bundlePath != "" {
		params, err = model.LoadOrDefault(bundlePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load bundle: %v\n", err)
			return 2
		}
	}

	if seed == 0 {
		seed = f.Seed
	}
	var opts []journey.Option
	if seed != 0 {
		opts = append(opts, journey.WithSeed(seed))
	}
	engine, err := journey.NewEngine(params, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine: %v\n", err)
		return 2
	}

	results := replay.Replay(engine, f.ToCases(), f.EvalConfig.ToEvalConfig())
	return printResults(results, verbose)
}

// printResults outputs a result table and returns the exit code.
func printResults(results []replay.ReplayResult, verbose bool) int {
	fmt.Printf("%-28s| %-10s| %-10s| %s\n", "Case", "Result", "Confidence", "Path")
	fmt.Printf("%-28s+%-11s+%-11s+%s\n",
		"----------------------------", "-----------", "-----------", "------------------------------")

	for _, r := range results {
		conf := "-"
		path := "-"
		if r.Analysis != nil {
			conf = fmt.Sprintf("%.6f", r.Analysis.JourneyMap.PathConfidence)
			path = strings.Join(r.Analysis.JourneyMap.OptimalPath, " > ")
		}
		fmt.Printf("%-28s| %-10s| %-10s| %s\n", r.CaseID, r.Action, conf, path)
		if r.Action != "pass" {
			fmt.Printf("%-28s  %s\n", "", r.Reason)
			if verbose {
				for _, m := range r.Mismatches {
					fmt.Printf("%-28s  - %s\n", "", m)
				}
			}
		}
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d pass, %d mismatch, %d eval_fail, %d error\n",
		s.Total, s.Passed, s.Mismatches, s.EvalFails, s.Errors)

	if s.Failed() > 0 {
		return 1
	}
	return 0
}

// #endregion fixture-mode
