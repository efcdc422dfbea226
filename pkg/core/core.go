package core

import (
	"github.com/Sowmya0137/riskwatch/internal/detectors"
	"github.com/Sowmya0137/riskwatch/internal/risk"
	"github.com/Sowmya0137/riskwatch/internal/types"
)

// Re-export selected internal types as a stable public API surface.
type (
	Assessment      = types.RiskAssessment
	DetectionResult = types.DetectionResult
	Category        = types.Category
	Level           = types.Level
	Profile         = risk.Profile
)

const (
	ProfilePII     = risk.ProfilePII
	ProfileKeyword = risk.ProfileKeyword
)

// ErrUnknownProfile is returned for profile names that are not registered.
var ErrUnknownProfile = risk.ErrUnknownProfile

// Detect runs every built-in detector over text.
func Detect(text string) DetectionResult {
	return detectors.Default().Run(text)
}

// Evaluate detects and scores text with a built-in profile. An empty
// profile selects pii.
func Evaluate(text, profile string) (Assessment, error) {
	reg, err := risk.NewRegistry(risk.ProfilePII, nil)
	if err != nil {
		return Assessment{}, err
	}
	ev, err := reg.Get(profile)
	if err != nil {
		return Assessment{}, err
	}
	return ev.Evaluate(Detect(text)), nil
}

// EvaluateWith scores text with a caller-supplied profile.
func EvaluateWith(text string, p Profile) (Assessment, error) {
	ev, err := risk.NewEvaluator(p)
	if err != nil {
		return Assessment{}, err
	}
	return ev.Evaluate(Detect(text)), nil
}

// Recommendation returns the display text for a recommendation ID.
func Recommendation(id string) string { return risk.Text(id) }

// DetectorIDs returns the list of built-in detector IDs.
func DetectorIDs() []string { return detectors.IDs() }
