// Package risk turns detection results into a scored, leveled assessment with
// remediation guidance. Evaluation is pure: no I/O and no shared mutable state,
// so an Evaluator may be used from any number of goroutines.
package risk
