// Package detectors implements the pattern detectors that feed risk
// evaluation. Each detector reports the substrings of a text that belong to
// one category; an empty result means the category did not match.
package detectors
