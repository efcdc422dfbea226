package detectors

import (
	"strings"
	"testing"

	"github.com/Sowmya0137/riskwatch/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_BuildsDetectionResult(t *testing.T) {
	res := Default().Run("contact me at a@b.com, I hate this. acct 1234567890123")
	assert.Equal(t, []string{"a@b.com"}, res[types.CatEmail])
	assert.Equal(t, []string{"hate"}, res[types.CatBannedTerm])
	assert.Equal(t, []string{"1234567890123"}, res[types.CatBankDetail])
	assert.False(t, res.Matched(types.CatMalware))
}

func TestRun_ScansPastVeryLongLine(t *testing.T) {
	text := strings.Repeat("a", 5<<20) + "\nmail me at a@b.com\r\nI hate this"
	res := Default().Run(text)
	assert.Equal(t, []string{"a@b.com"}, res[types.CatEmail])
	assert.Equal(t, []string{"hate"}, res[types.CatBannedTerm])
}

func TestLines_MarkersAndCRLF(t *testing.T) {
	var got []string
	lines("one\r\ntwo riskwatch:ignore\nriskwatch:ignore-next-line\nthree\nfour", func(l string) {
		got = append(got, l)
	})
	assert.Equal(t, []string{"one", "four"}, got)
}

func TestRun_DedupesMatches(t *testing.T) {
	res := Default().Run("attack attack ATTACK")
	assert.Equal(t, []string{"attack"}, res[types.CatBannedTerm])
}

func TestNew_EnableDisable(t *testing.T) {
	s := New(Options{Enable: []string{"email", "Malware"}})
	assert.Equal(t, []string{"email", "malware"}, s.IDs())

	s = New(Options{Disable: []string{"phishing", "BankDetail"}})
	assert.NotContains(t, s.IDs(), "phishing")
	assert.NotContains(t, s.IDs(), "bank")
	assert.Contains(t, s.IDs(), "email")
}

func TestNew_CustomBannedTerms(t *testing.T) {
	s := New(Options{BannedTerms: []string{"kill"}})
	res := s.Run("I will attack and kill")
	assert.Equal(t, []string{"kill"}, res[types.CatBannedTerm])
}

func TestRunFunction(t *testing.T) {
	m, cat, ok := RunFunction("phone", "9876543210")
	require.True(t, ok)
	assert.Equal(t, types.CatPhoneNumber, cat)
	assert.Equal(t, []string{"9876543210"}, m)

	_, _, ok = RunFunction("nope", "text")
	assert.False(t, ok)
}

func TestSafeDetect_RecoversPanics(t *testing.T) {
	boom := func(string) []string { panic("bad input") }
	assert.Nil(t, safeDetect(boom, "x"))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a, ,b "))
}
