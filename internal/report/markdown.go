// Package report renders a job's minutes as a markdown document.
package report

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kiranshivaraju/minutes/pkg/models"
)

// ErrNoResults is returned when the job carries no results to render.
var ErrNoResults = errors.New("no results to export")

const (
	title       = "Meeting Minutes"
	placeholder = "-"
)

// Format renders job as markdown. Sections whose source data is empty are
// left out entirely. The output depends only on the job's source name and
// results.
func Format(job *models.Job) (string, error) {
	if job == nil || job.Results == nil {
		return "", ErrNoResults
	}
	res := job.Results

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**File:** %s\n\n", job.SourceName)

	if res.Summary != "" {
		fmt.Fprintf(&b, "## Summary\n%s\n\n", res.Summary)
	}

	if len(res.Decisions) > 0 {
		b.WriteString("## Decisions\n")
		for i, d := range res.Decisions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, d.Description)
		}
		b.WriteString("\n")
	}

	if len(res.ActionItems) > 0 {
		b.WriteString("## Action Items\n")
		b.WriteString("| # | Action | Owner | Deadline | Confidence |\n")
		b.WriteString("|---|--------|-------|----------|------------|\n")
		for i, item := range res.ActionItems {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
				i+1,
				cell(item.Description),
				optional(item.Owner),
				optional(item.Deadline),
				Percent(item.Confidence),
			)
		}
	}

	return b.String(), nil
}

// Percent renders a [0,1] score as a whole percentage, e.g. 0.92 → "92%".
// NaN and infinite scores render as the placeholder.
func Percent(score float64) string {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return placeholder
	}
	return fmt.Sprintf("%d%%", int(math.Round(score*100)))
}

func optional(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return placeholder
	}
	return cell(*s)
}

// cell keeps free text from breaking the table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
