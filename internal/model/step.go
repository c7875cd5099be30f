// Package model defines the data types shared across the scan orchestrator:
// sessions, steps, payload sets, findings, and run/scan results.
package model

import "time"

// StepKind identifies which variant of Step is populated.
type StepKind string

const (
	StepNavigate StepKind = "navigate"
	StepInput    StepKind = "input"
	StepClick    StepKind = "click"
)

// Step is a single recorded browser interaction. It is a tagged variant:
// only the fields relevant to Kind are meaningful. At most one step per
// session carries Injectable=true; the runner treats that step as the
// payload-substitution focus.
type Step struct {
	ID        string
	Kind      StepKind
	Timestamp time.Time

	// navigate
	URL       string
	Parameter string // query parameter name, set only for URL injection

	// input
	Selector string
	Value    string

	// shared
	Injectable bool
	Wait       time.Duration
	Assert     string
}

// DriverConfig describes the browser runtime a Session is bound to.
type DriverConfig struct {
	Browser  string // "chromium", "firefox", "webkit"
	Headless bool
	StartURL string
}

// Session is a named, ordered recipe of steps against one target. It is
// produced by the recorder or crawler (both external collaborators) and is
// immutable at scan time.
type Session struct {
	Name     string
	Driver   string // must be "browser"
	Config   DriverConfig
	Steps    []Step
	Metadata map[string]string

	// StorageState is the opaque authenticated-storage blob (cookies +
	// local/session storage), passed through to the driver unexamined.
	StorageState string
	ExtraHeaders map[string]string
}

// FocusStep returns the session's injectable step, if any.
func (s *Session) FocusStep() (*Step, bool) {
	for i := range s.Steps {
		if s.Steps[i].Injectable {
			return &s.Steps[i], true
		}
	}
	return nil, false
}

// Categories reads the "categories" metadata entry (comma-separated list of
// Category values) declaring which payload categories are relevant to this
// session's focus. An empty result means "all loaded categories apply" —
// spec.md §4.4 leaves this metadata shape undefined; resolved in DESIGN.md.
func (s *Session) Categories() []Category {
	raw, ok := s.Metadata["categories"]
	if !ok || raw == "" {
		return nil
	}
	var out []Category
	start := 0
	for i := 0; i <= len(raw); i++ {
		if i == len(raw) || raw[i] == ',' {
			if i > start {
				out = append(out, Category(raw[start:i]))
			}
			start = i + 1
		}
	}
	return out
}
