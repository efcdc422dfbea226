package risk

import (
	"errors"
	"testing"

	"github.com/Sowmya0137/riskwatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_BankDetailOnly(t *testing.T) {
	d := types.DetectionResult{
		types.CatBankDetail: {"1234567890123"},
		types.CatPassword:   {},
	}
	a := Default().Evaluate(d)
	assert.Equal(t, 40, a.Score)
	assert.Equal(t, types.LevelMedium, a.Level)
	assert.Equal(t, []types.Category{types.CatBankDetail}, a.DetectedCategories)
	assert.Equal(t, ProfilePII, a.Profile)
}

func TestEvaluate_CriticalCombination(t *testing.T) {
	d := types.DetectionResult{
		types.CatAadhaar:    {"1234 5678 9012"},
		types.CatEmail:      {"a@b.com"},
		types.CatBankDetail: {"123456789012"},
	}
	a := Default().Evaluate(d)
	assert.Equal(t, 85, a.Score)
	assert.Equal(t, types.LevelCritical, a.Level)
	require.NotEmpty(t, a.Recommendations)
	assert.Equal(t, RecCriticalContact, a.Recommendations[0])
}

func TestEvaluate_ClampsToMax(t *testing.T) {
	d := types.DetectionResult{}
	for _, c := range types.AllCategories {
		d[c] = []string{"x"}
	}
	a := Default().Evaluate(d)
	assert.Equal(t, MaxScore, a.Score)
	assert.Equal(t, types.LevelCritical, a.Level)
}

func TestEvaluate_NilResult(t *testing.T) {
	a := Default().Evaluate(nil)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, types.LevelLow, a.Level)
	assert.Empty(t, a.DetectedCategories)
	assert.Empty(t, a.Recommendations)
	assert.Equal(t, "No risk detected", a.Reason)
}

func TestLevel_Boundaries(t *testing.T) {
	e := Default()
	tests := []struct {
		score int
		want  types.Level
	}{
		{0, types.LevelLow},
		{39, types.LevelLow},
		{40, types.LevelMedium},
		{59, types.LevelMedium},
		{60, types.LevelHigh},
		{79, types.LevelHigh},
		{80, types.LevelCritical},
		{100, types.LevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Level(tt.score), "score %d", tt.score)
	}
}

func TestLevel_Monotonic(t *testing.T) {
	rank := map[types.Level]int{
		types.LevelSafe: 0, types.LevelLow: 0, types.LevelMedium: 1, types.LevelHigh: 2, types.LevelCritical: 3,
	}
	for _, e := range []*Evaluator{Default(), mustEval(t, KeywordProfile())} {
		prev := -1
		for s := MinScore; s <= MaxScore; s++ {
			r := rank[e.Level(s)]
			assert.GreaterOrEqual(t, r, prev, "profile %s score %d", e.Profile(), s)
			prev = r
		}
	}
}

func TestKeywordProfile(t *testing.T) {
	e := mustEval(t, KeywordProfile())

	assert.Equal(t, types.LevelSafe, e.Level(49))
	assert.Equal(t, types.LevelCritical, e.Level(50))

	a := e.Evaluate(types.DetectionResult{
		types.CatBannedTerm: {"hate", "HATE", "attack"},
	})
	assert.Equal(t, 100, a.Score, "two distinct banned terms at 50 each")
	assert.Equal(t, types.LevelCritical, a.Level)

	a = e.Evaluate(types.DetectionResult{types.CatEmail: {"a@b.co"}})
	assert.Equal(t, 30, a.Score)
	assert.Equal(t, types.LevelSafe, a.Level)

	a = e.Evaluate(types.DetectionResult{
		types.CatPhoneNumber: {"9876543210"},
		types.CatCreditCard:  {"4111111111111111"},
	})
	assert.Equal(t, 70, a.Score)
	assert.Equal(t, types.LevelCritical, a.Level)
}

func TestEvaluate_Idempotent(t *testing.T) {
	d := types.DetectionResult{
		types.CatPassword:         {"hunter2hunter2"},
		types.CatPhishing:         {"verify your account"},
		types.CatMalware:          {"trojan"},
		types.CatDataExfiltration: {"upload database dump"},
	}
	e := Default()
	a1 := e.Evaluate(d)
	a2 := e.Evaluate(d)
	assert.Equal(t, a1.Score, a2.Score)
	assert.Equal(t, a1.Level, a2.Level)
	assert.Equal(t, a1.Recommendations, a2.Recommendations)
}

func TestRecommend_Ordering(t *testing.T) {
	d := types.DetectionResult{
		types.CatDataExfiltration: {"x"},
		types.CatMalware:          {"x"},
		types.CatSuspiciousLink:   {"x"},
	}
	got := Recommend(d, types.LevelHigh)
	want := []string{
		RecHighTakeAction,
		RecMalwareScan, RecMalwareIsolate, RecMalwareReview,
		RecLinkVerify, RecLinkChecker, RecLinkPreview,
		RecExfilStop, RecExfilRevoke, RecExfilTrace,
	}
	assert.Equal(t, want, got)

	assert.Equal(t, []string{RecPhishingNoLinks, RecPhishingVerifySender, RecPhishingReport},
		Recommend(types.DetectionResult{types.CatPhishing: {"x"}}, types.LevelLow))
}

func TestText(t *testing.T) {
	assert.Equal(t, "Use parameterized queries", Text(RecInjectionParams))
	assert.Equal(t, "custom.id", Text("custom.id"))
	assert.Equal(t, []string{"Update WAF rules"}, Texts([]string{RecInjectionWAF}))
}

func TestRegistry(t *testing.T) {
	r, err := NewRegistry("", map[string]Profile{
		ProfilePII: {Bands: []Band{{Min: 10, Level: types.LevelHigh}}},
		"strict": {
			Weights: map[types.Category]int{types.CatMalware: 100},
			Bands:   []Band{{Min: 1, Level: types.LevelCritical}},
			Floor:   types.LevelLow,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{ProfileKeyword, ProfilePII, "strict"}, r.Names())

	pii, err := r.Get("")
	require.NoError(t, err)
	assert.Equal(t, types.LevelHigh, pii.Level(15))
	assert.Equal(t, types.LevelLow, pii.Level(5))

	strict, err := r.Get("strict")
	require.NoError(t, err)
	a := strict.Evaluate(types.DetectionResult{types.CatMalware: {"worm"}})
	assert.Equal(t, 100, a.Score)
	assert.Equal(t, types.LevelCritical, a.Level)

	_, err = r.Get("nope")
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func TestRegistry_InvalidProfile(t *testing.T) {
	_, err := NewRegistry("", map[string]Profile{"bad": {Floor: "PURPLE"}})
	assert.Error(t, err)

	_, err = NewRegistry("missing", nil)
	assert.True(t, errors.Is(err, ErrUnknownProfile))
}

func mustEval(t *testing.T, p Profile) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(p)
	require.NoError(t, err)
	return e
}

func TestWeight(t *testing.T) {
	flat, per := mustEval(t, KeywordProfile()).Weight(types.CatBannedTerm)
	assert.Equal(t, 0, flat)
	assert.Equal(t, 50, per)

	flat, per = Default().Weight(types.CatBankDetail)
	assert.Equal(t, 40, flat)
	assert.Equal(t, 0, per)
}
