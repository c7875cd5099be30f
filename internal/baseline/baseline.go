// Package baseline implements the baseline cache and purity check the
// SQLi/error detectors rely on: a candidate error pattern observed during a
// payload iteration is only a finding if the same (db_family, pattern_id)
// pair wasn't already present in the unpayloaded response for that step
// (spec.md §4.4 step 1, §4.6 "Baseline accounting").
package baseline

import "sync"

// Key identifies one observed error pattern within one step.
type Key struct {
	StepID    string
	DBFamily  string
	PatternID string
}

// Cache records, per step, which (db_family, pattern_id) pairs already
// appeared before any payload was injected. Owned by one session (spec.md
// §5: "Baseline cache ... owned by the running session; MUST be cleared
// on destroy/scan_end"); not safe for concurrent sessions to share.
type Cache struct {
	mu   sync.Mutex
	seen map[Key]bool
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{seen: make(map[Key]bool)}
}

// Observe records a pattern seen during the baseline pass.
func (c *Cache) Observe(stepID, dbFamily, patternID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[Key{StepID: stepID, DBFamily: dbFamily, PatternID: patternID}] = true
}

// IsNovel reports whether the pattern was NOT present during the baseline
// pass for this step — i.e., whether it's eligible to become a finding.
func (c *Cache) IsNovel(stepID, dbFamily, patternID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.seen[Key{StepID: stepID, DBFamily: dbFamily, PatternID: patternID}]
}

// Clear empties the cache, per the session/scan_end lifecycle contract.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[Key]bool)
}
