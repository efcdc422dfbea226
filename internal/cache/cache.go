// Package cache memoizes assessments by content hash. Evaluation is
// deterministic for a given profile and text, so repeated texts (page
// reloads, polled feeds) skip detection.
package cache

import (
	xxhash "github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Sowmya0137/riskwatch/internal/types"
)

// Key identifies a (profile, text) pair.
type Key uint64

// KeyFor hashes profile and text. The separator keeps ("ab","c") and
// ("a","bc") apart.
func KeyFor(profile, text string) Key {
	d := xxhash.New()
	_, _ = d.WriteString(profile)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(text)
	return Key(d.Sum64())
}

// DB is a bounded LRU of assessments. A nil *DB is a valid, always-empty cache.
type DB struct {
	entries *lru.Cache[Key, types.RiskAssessment]
}

// New returns a cache holding up to size entries, or nil when size <= 0.
func New(size int) (*DB, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[Key, types.RiskAssessment](size)
	if err != nil {
		return nil, err
	}
	return &DB{entries: c}, nil
}

// Get returns a copy of the cached assessment.
func (db *DB) Get(k Key) (types.RiskAssessment, bool) {
	if db == nil {
		return types.RiskAssessment{}, false
	}
	a, ok := db.entries.Get(k)
	if !ok {
		return types.RiskAssessment{}, false
	}
	return clone(a), true
}

func (db *DB) Put(k Key, a types.RiskAssessment) {
	if db == nil {
		return
	}
	db.entries.Add(k, clone(a))
}

func (db *DB) Len() int {
	if db == nil {
		return 0
	}
	return db.entries.Len()
}

func clone(a types.RiskAssessment) types.RiskAssessment {
	a.DetectedCategories = append([]types.Category(nil), a.DetectedCategories...)
	a.Recommendations = append([]string(nil), a.Recommendations...)
	return a
}
