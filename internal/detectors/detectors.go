package detectors

import (
	"strings"

	"github.com/Sowmya0137/riskwatch/internal/types"
)

// Detector reports the substrings of text that match one category.
type Detector func(text string) []string

// Entry binds a detector to the category it reports and a short ID used on
// the command line.
type Entry struct {
	ID       string
	Category types.Category
	Detect   Detector
}

// DefaultBannedTerms are the terms flagged by the banned_term detector when
// no list is configured.
var DefaultBannedTerms = []string{"hate", "attack"}

func builtin(banned []string) []Entry {
	if len(banned) == 0 {
		banned = DefaultBannedTerms
	}
	return []Entry{
		{"aadhaar", types.CatAadhaar, Aadhaar},
		{"phone", types.CatPhoneNumber, PhoneNumber},
		{"email", types.CatEmail, Email},
		{"bank", types.CatBankDetail, BankDetail},
		{"password", types.CatPassword, Password},
		{"creditcard", types.CatCreditCard, CreditCard},
		{"banned", types.CatBannedTerm, BannedTerms(banned)},
		{"malware", types.CatMalware, Malware},
		{"phishing", types.CatPhishing, Phishing},
		{"links", types.CatSuspiciousLink, SuspiciousLink},
		{"explicit", types.CatExplicitContent, ExplicitContent},
		{"injection", types.CatInjectionAttack, InjectionAttack},
		{"exfil", types.CatDataExfiltration, DataExfiltration},
	}
}

// Options selects and tunes detectors. Enable and Disable take detector IDs
// or category names; an empty Enable means all.
type Options struct {
	BannedTerms []string
	Enable      []string
	Disable     []string
}

// Set is an immutable collection of detectors.
type Set struct {
	entries []Entry
}

// New builds a Set from opts.
func New(opts Options) *Set {
	enable := idSet(opts.Enable)
	disable := idSet(opts.Disable)
	var entries []Entry
	for _, e := range builtin(opts.BannedTerms) {
		if len(enable) > 0 && !matchesID(enable, e) {
			continue
		}
		if matchesID(disable, e) {
			continue
		}
		entries = append(entries, e)
	}
	return &Set{entries: entries}
}

// Default is New with zero options.
func Default() *Set { return New(Options{}) }

// Run applies every detector in the set to text. Detectors that panic on
// odd input are treated as reporting nothing for their category.
func (s *Set) Run(text string) types.DetectionResult {
	out := make(types.DetectionResult, len(s.entries))
	for _, e := range s.entries {
		out[e.Category] = dedupe(safeDetect(e.Detect, text))
	}
	return out
}

// IDs lists the detector IDs in the set.
func (s *Set) IDs() []string {
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.ID
	}
	return out
}

// Entries returns a copy of the set's entries.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IDs returns every built-in detector ID.
func IDs() []string { return Default().IDs() }

// RunFunction runs a single built-in detector by ID. ok is false for an
// unknown ID.
func RunFunction(id, text string) (matches []string, cat types.Category, ok bool) {
	for _, e := range builtin(nil) {
		if e.ID == id {
			return dedupe(safeDetect(e.Detect, text)), e.Category, true
		}
	}
	return nil, "", false
}

func safeDetect(d Detector, text string) (out []string) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()
	return d(text)
}

func idSet(ids []string) map[string]bool {
	m := map[string]bool{}
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id != "" {
			m[id] = true
		}
	}
	return m
}

func matchesID(set map[string]bool, e Entry) bool {
	return set[e.ID] || set[strings.ToLower(string(e.Category))]
}

// SplitList splits a comma-separated flag value.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
