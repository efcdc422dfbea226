package detectors

import (
	"regexp"
	"strings"
)

const (
	markerIgnore         = "riskwatch:ignore"
	markerIgnoreStart    = "riskwatch:ignore-start"
	markerIgnoreEnd      = "riskwatch:ignore-end"
	markerIgnoreNextLine = "riskwatch:ignore-next-line"
)

// lines yields the lines of text that are not suppressed by inline markers.
// Supported markers: "riskwatch:ignore" (this line), "riskwatch:ignore-next-line",
// and "riskwatch:ignore-start" / "riskwatch:ignore-end" regions.
// Lines have no length limit.
func lines(text string, fn func(line string)) {
	ignoreRegion := false
	skipNext := false
	for _, t := range strings.Split(text, "\n") {
		t = strings.TrimSuffix(t, "\r")
		if strings.Contains(t, markerIgnoreStart) {
			ignoreRegion = true
			continue
		}
		if strings.Contains(t, markerIgnoreEnd) {
			ignoreRegion = false
			continue
		}
		if ignoreRegion {
			continue
		}
		if strings.Contains(t, markerIgnoreNextLine) {
			skipNext = true
			continue
		}
		if skipNext {
			skipNext = false
			continue
		}
		if strings.Contains(t, markerIgnore) {
			continue
		}
		fn(t)
	}
}

// findAll returns every match of re across unsuppressed lines.
func findAll(text string, re *regexp.Regexp) []string {
	var out []string
	lines(text, func(t string) {
		out = append(out, re.FindAllString(t, -1)...)
	})
	return out
}

// findFiltered is findAll with a per-match predicate.
func findFiltered(text string, re *regexp.Regexp, keep func(string) bool) []string {
	var out []string
	lines(text, func(t string) {
		for _, m := range re.FindAllString(t, -1) {
			if keep(m) {
				out = append(out, m)
			}
		}
	})
	return out
}

func dedupe(matches []string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	var out []string
	for _, m := range matches {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}
