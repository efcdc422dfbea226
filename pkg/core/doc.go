// Package core provides a small, stable facade over RiskWatch's detectors
// and evaluator for programs that want scores without running the server.
//
// Example:
//
//	a, err := core.Evaluate("call me on 9876543210", core.ProfileKeyword)
//	if err != nil { /* handle */ }
//	_ = core.MarshalAssessment(os.Stdout, a)
package core
