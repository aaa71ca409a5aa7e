// Command evals runs the configured extractor over a set of transcripts and
// compares the number of decisions and action items against expectations.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kiranshivaraju/minutes/internal/ai"
	"github.com/kiranshivaraju/minutes/internal/config"
	"github.com/kiranshivaraju/minutes/pkg/models"
)

type testCase struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Transcript string         `json:"transcript"`
	Expected   models.Minutes `json:"expected"`
}

type caseResult struct {
	ID                string
	Name              string
	Err               error
	ExpectedDecisions int
	ActualDecisions   int
	ExpectedActions   int
	ActualActions     int
	Violations        []string
}

func (r caseResult) passed() bool { return r.Err == nil }

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	casesPath := flag.String("cases", "evals/test_cases.json", "Path to the JSON test cases")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	if err := run(context.Background(), *casesPath, os.Stdout); err != nil {
		slog.Error("evals failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, casesPath string, out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	extractor, err := ai.NewExtractor(cfg.AI)
	if err != nil {
		return fmt.Errorf("create extractor: %w", err)
	}

	cases, err := loadCases(casesPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.AI.InferenceTimeout*time.Duration(len(cases)+1))
	defer cancel()

	results := evaluate(ctx, extractor, cases)
	failed := printReport(out, extractor.Name(), results)
	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(results))
	}
	return nil
}

func loadCases(path string) ([]testCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open test cases: %w", err)
	}
	defer f.Close()

	var doc struct {
		TestCases []testCase `json:"test_cases"`
	}
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode test cases: %w", err)
	}
	if len(doc.TestCases) == 0 {
		return nil, fmt.Errorf("no test cases in %s", path)
	}
	return doc.TestCases, nil
}

// evaluate runs every case in order. A failing case does not stop the rest.
func evaluate(ctx context.Context, x models.Extractor, cases []testCase) []caseResult {
	results := make([]caseResult, 0, len(cases))
	for _, tc := range cases {
		res := caseResult{
			ID:                tc.ID,
			Name:              tc.Name,
			ExpectedDecisions: len(tc.Expected.Decisions),
			ExpectedActions:   len(tc.Expected.ActionItems),
		}

		m, err := x.Extract(ctx, tc.Transcript)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		res.ActualDecisions = len(m.Decisions)
		res.ActualActions = len(m.ActionItems)
		res.Violations = ai.CheckConfidence(m)
		results = append(results, res)
	}
	return results
}

// printReport writes a human-readable summary and returns the failure count.
func printReport(w io.Writer, extractor string, results []caseResult) int {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Extraction evals (extractor: %s)\n", extractor)
	fmt.Fprintln(w, rule)

	failed := 0
	for _, r := range results {
		fmt.Fprintf(w, "\n%s - %s\n", r.ID, r.Name)
		if !r.passed() {
			failed++
			fmt.Fprintf(w, "  ✗ error: %v\n", r.Err)
			continue
		}
		fmt.Fprintf(w, "  %s decisions: %d (expected %d)\n",
			mark(r.ActualDecisions == r.ExpectedDecisions), r.ActualDecisions, r.ExpectedDecisions)
		fmt.Fprintf(w, "  %s action items: %d (expected %d)\n",
			mark(r.ActualActions == r.ExpectedActions), r.ActualActions, r.ExpectedActions)
		for _, v := range r.Violations {
			fmt.Fprintf(w, "  ! confidence out of range: %s\n", v)
		}
	}

	passed := len(results) - failed
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Results: %d/%d passed (%.0f%%)\n", passed, len(results), 100*float64(passed)/float64(len(results)))
	fmt.Fprintln(w, rule)
	return failed
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "~"
}
