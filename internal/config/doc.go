// Package config loads RiskWatch configuration from local and global YAML
// files with precedence rules. CLI code layers flags on top and resolves the
// result into Settings.
package config
