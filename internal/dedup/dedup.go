// Package dedup applies the fingerprint dedup invariant from spec.md §4.6
// both within one session's RunResult and across the scan-wide aggregate:
// fingerprint key (type, step_id, payload[0..50]), at most one Finding per
// key.
package dedup

import "github.com/vulcn-dast/vulcn/internal/model"

// WithinSession drops findings sharing a fingerprint already seen earlier
// in findings, keeping the first occurrence (deterministic payload-order
// iteration makes "first" well-defined per spec.md §4.4).
func WithinSession(findings []model.Finding) []model.Finding {
	return dedupeBy(findings, make(map[string]bool))
}

// Aggregate merges per-session findings into one scan-wide slice,
// deduplicating by fingerprint across session boundaries too (spec.md
// §4.6: "Across sessions in the aggregate: also deduplicated by the same
// key").
func Aggregate(perSession [][]model.Finding) []model.Finding {
	seen := make(map[string]bool)
	var out []model.Finding
	for _, findings := range perSession {
		out = append(out, dedupeBy(findings, seen)...)
	}
	return out
}

func dedupeBy(findings []model.Finding, seen map[string]bool) []model.Finding {
	out := make([]model.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Fingerprint == "" {
			f.Finalize()
		}
		if seen[f.Fingerprint] {
			continue
		}
		seen[f.Fingerprint] = true
		out = append(out, f)
	}
	return out
}
