package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/transport"
)

const (
	modeJourney     = "journey"
	modeProgression = "progression"
	modeAnalyze     = "analyze"
)

// #region main

func main() {
	profilePath := flag.String("profile", "", "profile file (YAML or JSON)")
	mental := flag.String("mental", "", "mental health category")
	physical := flag.String("physical", "", "physical health category")
	severity := flag.String("severity", "", "severity: mild, moderate or severe")
	gpa := flag.String("gpa", "", "GPA on a 0-4 scale")
	courses := flag.String("courses", "", "course interest")
	bundlePath := flag.String("bundle", "", "parameter bundle (defaults when missing)")
	saveBundle := flag.String("save-bundle", "", "write the parameters in use to this path")
	seed := flag.Uint64("seed", 0, "RNG seed for reproducible observations (0 = random)")
	mode := flag.StringP("mode", "m", modeAnalyze, "journey | progression | analyze")
	addr := flag.String("addr", "", "query a running journeyd at this address instead of decoding locally")
	flag.Parse()

	if *mode != modeJourney && *mode != modeProgression && *mode != modeAnalyze {
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		fmt.Fprintln(os.Stderr, "usage: journey [--profile file | --mental X --physical Y --severity S --gpa G --courses C] [--mode journey|progression|analyze]")
		os.Exit(2)
	}

	p, err := buildProfile(*profilePath, *mental, *physical, *severity, *gpa, *courses)
	if err != nil {
		fmt.Fprintf(os.Stderr, "profile: %v\n", err)
		os.Exit(2)
	}

	var result any
	if *addr != "" {
		result, err = runRemote(*addr, *mode, p)
	} else {
		result, err = runLocal(*bundlePath, *saveBundle, *seed, *mode, p)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal json: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// #endregion main

// #region profile

func buildProfile(path, mental, physical, severity, gpa, courses string) (profile.Profile, error) {
	var p profile.Profile
	if path != "" {
		loaded, err := profile.LoadFile(path)
		if err != nil {
			return profile.Profile{}, err
		}
		p = loaded
	}
	// Inline flags override file values.
	if mental != "" {
		p.MentalHealth = mental
	}
	if physical != "" {
		p.PhysicalHealth = physical
	}
	if severity != "" {
		p.Severity = severity
	}
	if gpa != "" {
		g := profile.ParseGPA(gpa)
		p.GPA = &g
	}
	if courses != "" {
		p.CourseInterest = courses
	}
	return p, nil
}

// #endregion profile

// #region run

func runLocal(bundlePath, saveBundle string, seed uint64, mode string, p profile.Profile) (any, error) {
	params := model.MustDefault()
	if bundlePath != "" {
		var err error
		params, err = model.LoadOrDefault(bundlePath)
		if err != nil {
			return nil, err
		}
	}
	if saveBundle != "" {
		if err := model.SaveBundle(saveBundle, params); err != nil {
			return nil, err
		}
	}

	var opts []journey.Option
	if seed != 0 {
		opts = append(opts, journey.WithSeed(seed))
	}
	engine, err := journey.NewEngine(params, opts...)
	if err != nil {
		return nil, err
	}

	switch mode {
	case modeJourney:
		return engine.PredictJourney(p)
	case modeProgression:
		return engine.AccommodationProgression(p)
	default:
		return engine.Analyze(p)
	}
}

func runRemote(addr, mode string, p profile.Profile) (any, error) {
	client, err := transport.NewClient(addr)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch mode {
	case modeJourney:
		return client.PredictJourney(ctx, p)
	case modeProgression:
		return client.AccommodationProgression(ctx, p)
	default:
		return client.Analyze(ctx, p)
	}
}

// #endregion run
