package risk

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Sowmya0137/riskwatch/internal/types"
)

const (
	MinScore = 0
	MaxScore = 100
)

// Evaluator scores detection results against one profile.
type Evaluator struct {
	profile Profile
	now     func() time.Time
}

// NewEvaluator validates p and returns an evaluator bound to it.
func NewEvaluator(p Profile) (*Evaluator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{profile: p.normalized(), now: time.Now}, nil
}

// Default returns an evaluator for the built-in PII profile.
func Default() *Evaluator {
	e, _ := NewEvaluator(PIIProfile())
	return e
}

// Profile returns the profile name.
func (e *Evaluator) Profile() string { return e.profile.Name }

// Weight returns the flat and per-distinct-match weights for c.
func (e *Evaluator) Weight(c types.Category) (flat, perMatch int) {
	return e.profile.Weights[c], e.profile.PerMatch[c]
}

// Score sums the weights of every matched category and clamps the total
// to [MinScore, MaxScore].
func (e *Evaluator) Score(d types.DetectionResult) int {
	total := 0
	for c, w := range e.profile.Weights {
		if d.Matched(c) {
			total += w
		}
	}
	for c, w := range e.profile.PerMatch {
		total += w * distinct(d[c])
	}
	return Clamp(total)
}

// Level maps a score to the profile's band.
func (e *Evaluator) Level(score int) types.Level {
	for _, b := range e.profile.Bands {
		if score >= b.Min {
			return b.Level
		}
	}
	return e.profile.Floor
}

// Evaluate produces a fresh assessment. A nil or partial result is fine:
// absent categories count as no match.
func (e *Evaluator) Evaluate(d types.DetectionResult) types.RiskAssessment {
	score := e.Score(d)
	level := e.Level(score)
	cats := d.Categories()
	return types.RiskAssessment{
		Score:              score,
		Level:              level,
		Profile:            e.profile.Name,
		DetectedCategories: cats,
		Recommendations:    Recommend(d, level),
		Reason:             Reason(cats),
		Timestamp:          e.now(),
	}
}

// Clamp bounds a raw score.
func Clamp(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Reason is a short human summary of what was detected.
func Reason(cats []types.Category) string {
	if len(cats) == 0 {
		return "No risk detected"
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return "Detected: " + strings.Join(names, ", ")
}

func distinct(matches []string) int {
	if len(matches) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		seen[m] = struct{}{}
	}
	return len(seen)
}

// Registry holds one evaluator per profile name.
type Registry struct {
	byName map[string]*Evaluator
	def    string
}

// NewRegistry builds evaluators for the built-in profiles, overlaid with
// overrides (which may also define new profiles). def names the profile used
// when a caller does not ask for one.
func NewRegistry(def string, overrides map[string]Profile) (*Registry, error) {
	profiles := BuiltinProfiles()
	for name, o := range overrides {
		if o.Name == "" {
			o.Name = name
		}
		if base, ok := profiles[name]; ok {
			profiles[name] = base.Merge(o)
			continue
		}
		profiles[name] = o
	}
	r := &Registry{byName: make(map[string]*Evaluator, len(profiles)), def: def}
	if r.def == "" {
		r.def = ProfilePII
	}
	for name, p := range profiles {
		e, err := NewEvaluator(p)
		if err != nil {
			return nil, fmt.Errorf("load profile %s: %w", name, err)
		}
		r.byName[name] = e
	}
	if _, ok := r.byName[r.def]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, r.def)
	}
	return r, nil
}

// Get returns the evaluator for name, or the default when name is empty.
func (r *Registry) Get(name string) (*Evaluator, error) {
	if name == "" {
		name = r.def
	}
	e, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}
	return e, nil
}

// Names lists the registered profiles, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DefaultName is the profile used for empty names.
func (r *Registry) DefaultName() string { return r.def }
