package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/logging"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/state"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to journey.db")
	last := flag.Int("last", 20, "show N most recent rows")
	version := flag.String("version", "", "show single parameter version detail")
	activate := flag.String("activate", "", "make an existing parameter version active")
	inferences := flag.Bool("inferences", false, "list the inference audit log instead of parameter versions")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/journey.db [--last N] [--version id] [--activate id] [--inferences] [--json]")
		os.Exit(2)
	}

	store, err := state.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *activate != "":
		err = store.Activate(*activate)
		if err == nil {
			fmt.Printf("active version: %s\n", *activate)
		}
	case *version != "":
		err = runDetailMode(store, *version, *jsonOut)
	case *inferences:
		err = runInferenceMode(store, *last, *jsonOut)
	default:
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	VersionID string `json:"version_id"`
	ParentID  string `json:"parent_id,omitempty"`
	Active    bool   `json:"active"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

func runListMode(store *state.Store, last int, jsonOut bool) error {
	versions, err := store.ListVersions(last)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Fprintln(os.Stderr, "no versions found")
		return nil
	}
	active, err := store.ActiveVersionID()
	if err != nil {
		return err
	}

	rows := make([]listRow, len(versions))
	for i, v := range versions {
		rows[i] = listRow{
			VersionID: v.VersionID,
			ParentID:  v.ParentID,
			Active:    v.VersionID == active,
			Note:      v.Note,
			CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-10s  %-6s  %-20s  %s\n", "Version", "Parent", "Active", "Time", "Note")
	fmt.Printf("%-10s+-%-10s+-%-6s+-%-20s+-%s\n", "----------", "----------", "------", "--------------------", "----------")
	for _, r := range rows {
		mark := ""
		if r.Active {
			mark = "*"
		}
		parent := shortID(r.ParentID)
		if parent == "" {
			parent = "-"
		}
		fmt.Printf("%-10s  %-10s  %-6s  %-20s  %s\n", shortID(r.VersionID), parent, mark, r.CreatedAt, r.Note)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailOutput struct {
	VersionID  string       `json:"version_id"`
	ParentID   string       `json:"parent_id,omitempty"`
	Note       string       `json:"note,omitempty"`
	CreatedAt  string       `json:"created_at"`
	Stages     []string     `json:"stages"`
	Start      model.Vector `json:"start"`
	Transition model.Matrix `json:"transition"`
	Mean       model.Matrix `json:"mean"`
	Variance   model.Matrix `json:"variance"`
}

func runDetailMode(store *state.Store, versionID string, jsonOut bool) error {
	rec, err := store.GetVersion(versionID)
	if err != nil {
		return err
	}
	p := rec.Params
	stages := p.Stages()
	out := detailOutput{
		VersionID:  rec.VersionID,
		ParentID:   rec.ParentID,
		Note:       rec.Note,
		CreatedAt:  rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		Stages:     stages[:],
		Start:      p.Start(),
		Transition: p.Transition(),
		Mean:       p.Mean(),
		Variance:   p.Variance(),
	}
	if jsonOut {
		return printJSON(out)
	}

	fmt.Printf("Version:  %s\n", out.VersionID)
	if out.ParentID != "" {
		fmt.Printf("Parent:   %s\n", out.ParentID)
	}
	fmt.Printf("Created:  %s\n", out.CreatedAt)
	if out.Note != "" {
		fmt.Printf("Note:     %s\n", out.Note)
	}

	fmt.Printf("\nStart probabilities:\n")
	for i, s := range out.Stages {
		fmt.Printf("  %-26s %.4f\n", s, out.Start[i])
	}
	printMatrix("Transition", out.Stages, out.Transition)
	printMatrix("Emission mean", out.Stages, out.Mean)
	printMatrix("Emission variance", out.Stages, out.Variance)
	return nil
}

func printMatrix(title string, stages []string, m model.Matrix) {
	fmt.Printf("\n%s:\n", title)
	for i, row := range m {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%6.3f", v)
		}
		fmt.Printf("  %-26s %s\n", stages[i], strings.Join(cells, " "))
	}
}

// #endregion detail-mode

// #region inference-mode

type inferenceRow struct {
	RunID         string   `json:"run_id"`
	ParamsVersion string   `json:"params_version,omitempty"`
	Method        string   `json:"method"`
	ProfileHash   string   `json:"profile_hash"`
	Path          []string `json:"path"`
	Confidence    float64  `json:"confidence"`
	EvalPassed    bool     `json:"eval_passed"`
	Reason        string   `json:"reason,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

func runInferenceMode(store *state.Store, last int, jsonOut bool) error {
	entries, err := logging.ListInferences(store.DB(), last)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "no inferences logged")
		return nil
	}

	rows := make([]inferenceRow, len(entries))
	for i, e := range entries {
		rows[i] = inferenceRow{
			RunID:         e.RunID,
			ParamsVersion: e.ParamsVersion,
			Method:        e.Method,
			ProfileHash:   e.ProfileHash,
			Path:          e.Path,
			Confidence:    e.Confidence,
			EvalPassed:    e.EvalPassed,
			Reason:        e.Reason,
			CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}
	if jsonOut {
		return printJSON(rows)
	}

	fmt.Printf("%-10s  %-26s  %-10s  %-10s  %-4s  %-20s  %s\n",
		"Run", "Method", "Params", "Confidence", "Eval", "Time", "Profile")
	fmt.Printf("%-10s+-%-26s+-%-10s+-%-10s+-%-4s+-%-20s+-%s\n",
		"----------", "--------------------------", "----------", "----------", "----", "--------------------", "----------")
	for _, r := range rows {
		eval := "ok"
		if !r.EvalPassed {
			eval = "FAIL"
		}
		fmt.Printf("%-10s  %-26s  %-10s  %10.6f  %-4s  %-20s  %s\n",
			shortID(r.RunID), r.Method, shortID(r.ParamsVersion), r.Confidence, eval, r.CreatedAt, shortID(r.ProfileHash))
	}
	return nil
}

// #endregion inference-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// #endregion output
