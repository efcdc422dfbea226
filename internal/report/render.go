// Package report renders assessments and detector listings for the CLI.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/Sowmya0137/riskwatch/internal/types"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

type PrintOptions struct {
	NoColor bool
	// ShowMatches prints matched text unmasked.
	ShowMatches bool
}

// ColorEnabled reports whether w is a terminal and color was not disabled.
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintAssessment writes a summary line, a table of detections and the
// recommendations for a.
func PrintAssessment(w io.Writer, a types.RiskAssessment, det types.DetectionResult, opts PrintOptions) {
	level := string(a.Level)
	if !opts.NoColor {
		level = colorLevel(a.Level)
	}
	fmt.Fprintf(w, "Risk: %d/100 %s (profile %s)\n", a.Score, level, a.Profile)
	if len(a.DetectedCategories) == 0 {
		fmt.Fprintln(w, "No risks detected ✅")
	} else {
		table := tablewriter.NewWriter(w)
		table.Header("CATEGORY", "COUNT", "MATCHES")
		for _, c := range a.DetectedCategories {
			matches := det[c]
			shown := make([]string, len(matches))
			for i, m := range matches {
				if opts.ShowMatches {
					shown[i] = m
				} else {
					shown[i] = maskValue(m)
				}
			}
			_ = table.Append([]string{string(c), fmt.Sprint(len(matches)), strings.Join(shown, ", ")})
		}
		_ = table.Render()
	}
	if len(a.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Recommendations:")
		for _, id := range a.Recommendations {
			fmt.Fprintf(w, "  - %s\n", risk.Text(id))
		}
	}
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DetectorRow is one line of the detector listing.
type DetectorRow struct {
	ID       string         `json:"id"`
	Category types.Category `json:"category"`
	Weight   int            `json:"weight"`
	PerMatch int            `json:"per_match,omitempty"`
}

// PrintDetectors writes the detector listing as a table.
func PrintDetectors(w io.Writer, rows []DetectorRow) {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "CATEGORY", "WEIGHT")
	for _, r := range rows {
		w := fmt.Sprint(r.Weight)
		if r.PerMatch > 0 {
			w = fmt.Sprintf("%d per match", r.PerMatch)
			if r.Weight > 0 {
				w = fmt.Sprintf("%d + %d per match", r.Weight, r.PerMatch)
			}
		}
		_ = table.Append([]string{r.ID, string(r.Category), w})
	}
	_ = table.Render()
}

func maskValue(s string) string {
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func colorLevel(l types.Level) string {
	switch l {
	case types.LevelCritical, types.LevelHigh:
		return "\x1b[31m" + string(l) + "\x1b[0m" // red
	case types.LevelMedium:
		return "\x1b[33m" + string(l) + "\x1b[0m" // yellow
	case types.LevelSafe:
		return "\x1b[32m" + string(l) + "\x1b[0m" // green
	default:
		return "\x1b[36m" + string(l) + "\x1b[0m" // cyan
	}
}
