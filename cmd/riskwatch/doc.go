// Package riskwatch provides the command-line interface for RiskWatch.
// It configures subcommands (serve, analyze, watch, etc.), parses flags, and
// executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/Sowmya0137/riskwatch/cmd/riskwatch"
//	func main() { riskwatch.Execute() }
package riskwatch
