package model

import (
	"fmt"
	"strings"
)

// Severity orders findings for console/report sorting. Higher is worse.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityWeight gives the total order used by sort and by the CLI exit
// code policy (spec.md §6): medium+ means "findings present".
var severityWeight = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// Weight returns the severity's sort weight; unknown severities sort lowest.
func (s Severity) Weight() int {
	return severityWeight[s]
}

// AtLeastMedium reports whether s is medium or worse, per the CLI exit-code
// policy in spec.md §6.
func (s Severity) AtLeastMedium() bool {
	return s.Weight() >= severityWeight[SeverityMedium]
}

// DetectionMethod distinguishes findings that required payload injection
// from those observed on arbitrary traffic.
type DetectionMethod string

const (
	DetectionActive  DetectionMethod = "active"
	DetectionPassive DetectionMethod = "passive"
)

// cweByCategory is the fixed category-to-CWE map from spec.md §4.6.
var cweByCategory = map[Category]struct {
	ID   string
	Name string
}{
	CategoryXSS:              {"CWE-79", "Improper Neutralization of Input During Web Page Generation"},
	CategorySQLi:             {"CWE-89", "Improper Neutralization of Special Elements used in an SQL Command"},
	CategoryCommandInjection: {"CWE-78", "Improper Neutralization of Special Elements used in an OS Command"},
	CategoryPathTraversal:    {"CWE-22", "Improper Limitation of a Pathname to a Restricted Directory"},
	CategoryOpenRedirect:     {"CWE-601", "URL Redirection to Untrusted Site"},
	CategoryXXE:              {"CWE-611", "Improper Restriction of XML External Entity Reference"},
}

// CWEFor returns the (id, name) pair for a category, or ("", "") if the
// category has no fixed CWE mapping (e.g. reflection, custom).
func CWEFor(category Category) (id, name string) {
	c, ok := cweByCategory[category]
	if !ok {
		return "", ""
	}
	return c.ID, c.Name
}

// Finding is the canonical record of a single detected (or candidate)
// vulnerability, emitted by a detector plugin during a payload iteration.
type Finding struct {
	Type        Category
	Severity    Severity
	Title       string
	Description string
	StepID      string
	Payload     string
	URL         string
	Evidence    string
	Metadata    map[string]string

	// Populated by Finalize, not by detectors directly.
	RuleID          string
	CWEID           string
	CWEName         string
	Fingerprint     string
	DetectionMethod DetectionMethod
}

// Finalize computes the derived fields spec.md §3 specifies ("Added
// post-build"): rule_id, CWE id/name, fingerprint, and detection_method
// (read from Metadata["detectionMethod"], defaulting to active).
func (f *Finding) Finalize() {
	f.RuleID = "VULCN-" + strings.ToUpper(string(f.Type))
	f.CWEID, f.CWEName = CWEFor(f.Type)
	f.Fingerprint = Fingerprint(f.Type, f.StepID, f.Payload)

	method := DetectionActive
	if f.Metadata != nil {
		if m, ok := f.Metadata["detectionMethod"]; ok && m == string(DetectionPassive) {
			method = DetectionPassive
		}
	}
	f.DetectionMethod = method
}

// fingerprintPayloadLimit is the payload prefix length used in the
// fingerprint key, per spec.md's GLOSSARY: "payload[0..50]".
const fingerprintPayloadLimit = 50

// Fingerprint computes the stable dedup key (type, step_id, payload[0..50])
// shared by internal/dedup so Finding and the dedup package agree on the
// exact key shape without importing one another.
func Fingerprint(t Category, stepID, payload string) string {
	p := payload
	if len(p) > fingerprintPayloadLimit {
		p = p[:fingerprintPayloadLimit]
	}
	return fmt.Sprintf("%s:%s:%s", t, stepID, p)
}
