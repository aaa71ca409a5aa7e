package ai

import (
	"fmt"

	"github.com/kiranshivaraju/minutes/pkg/models"
)

// CheckConfidence lists every score in m outside [0, 1]. The result is
// informational; callers keep the adapter output as is.
func CheckConfidence(m models.Minutes) []string {
	var out []string
	for i, d := range m.Decisions {
		if !inRange(d.Confidence) {
			out = append(out, fmt.Sprintf("decisions[%d].confidence=%g", i, d.Confidence))
		}
	}
	for i, a := range m.ActionItems {
		if !inRange(a.Confidence) {
			out = append(out, fmt.Sprintf("action_items[%d].confidence=%g", i, a.Confidence))
		}
	}
	return out
}

func inRange(score float64) bool {
	return score >= 0 && score <= 1
}
