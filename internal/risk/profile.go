package risk

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Sowmya0137/riskwatch/internal/types"
)

const (
	ProfilePII     = "pii"
	ProfileKeyword = "keyword"
)

// ErrUnknownProfile is returned when a profile name has no definition.
var ErrUnknownProfile = errors.New("unknown evaluator profile")

// Band maps every score >= Min to Level.
type Band struct {
	Min   int         `yaml:"min" json:"min"`
	Level types.Level `yaml:"level" json:"level"`
}

// Profile is the data that drives scoring: flat per-category weights,
// per-distinct-match weights and the level bands.
type Profile struct {
	Name     string                 `yaml:"name" json:"name"`
	Weights  map[types.Category]int `yaml:"weights" json:"weights"`
	PerMatch map[types.Category]int `yaml:"per_match,omitempty" json:"per_match,omitempty"`
	Bands    []Band                 `yaml:"bands" json:"bands"`
	// Floor is the level for scores below every band.
	Floor types.Level `yaml:"floor" json:"floor"`
}

// PIIProfile is the four-tier personal data profile.
func PIIProfile() Profile {
	return Profile{
		Name: ProfilePII,
		Weights: map[types.Category]int{
			types.CatAadhaar:     30,
			types.CatPhoneNumber: 20,
			types.CatEmail:       15,
			types.CatBankDetail:  40,
			types.CatPassword:    35,
		},
		Bands: []Band{
			{Min: 80, Level: types.LevelCritical},
			{Min: 60, Level: types.LevelHigh},
			{Min: 40, Level: types.LevelMedium},
		},
		Floor: types.LevelLow,
	}
}

// KeywordProfile is the two-level banned keyword + PII profile.
func KeywordProfile() Profile {
	return Profile{
		Name: ProfileKeyword,
		Weights: map[types.Category]int{
			types.CatEmail:       30,
			types.CatPhoneNumber: 30,
			types.CatCreditCard:  40,
		},
		PerMatch: map[types.Category]int{
			types.CatBannedTerm: 50,
		},
		Bands: []Band{
			{Min: 50, Level: types.LevelCritical},
		},
		Floor: types.LevelSafe,
	}
}

// BuiltinProfiles returns fresh copies of the shipped profiles keyed by name.
func BuiltinProfiles() map[string]Profile {
	return map[string]Profile{
		ProfilePII:     PIIProfile(),
		ProfileKeyword: KeywordProfile(),
	}
}

func validLevel(l types.Level) bool {
	switch l {
	case types.LevelSafe, types.LevelLow, types.LevelMedium, types.LevelHigh, types.LevelCritical:
		return true
	}
	return false
}

// Validate checks that the profile can be evaluated.
func (p Profile) Validate() error {
	if p.Name == "" {
		return errors.New("profile: name is required")
	}
	if !validLevel(p.Floor) {
		return fmt.Errorf("profile %s: invalid floor level %q", p.Name, p.Floor)
	}
	for _, b := range p.Bands {
		if !validLevel(b.Level) {
			return fmt.Errorf("profile %s: invalid band level %q", p.Name, b.Level)
		}
	}
	for c, w := range p.Weights {
		if w < 0 {
			return fmt.Errorf("profile %s: negative weight for %s", p.Name, c)
		}
	}
	for c, w := range p.PerMatch {
		if w < 0 {
			return fmt.Errorf("profile %s: negative per-match weight for %s", p.Name, c)
		}
	}
	return nil
}

// normalized returns a copy with bands sorted from highest to lowest so the
// first matching band wins.
func (p Profile) normalized() Profile {
	bands := make([]Band, len(p.Bands))
	copy(bands, p.Bands)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Min > bands[j].Min })
	p.Bands = bands
	return p
}

// Merge overlays non-empty fields of o onto p.
func (p Profile) Merge(o Profile) Profile {
	out := p
	if len(o.Weights) > 0 {
		out.Weights = o.Weights
	}
	if len(o.PerMatch) > 0 {
		out.PerMatch = o.PerMatch
	}
	if len(o.Bands) > 0 {
		out.Bands = o.Bands
	}
	if o.Floor != "" {
		out.Floor = o.Floor
	}
	return out
}
