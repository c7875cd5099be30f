package model

import (
	"fmt"
	"regexp"
)

// Category classifies a payload set / finding by vulnerability family.
type Category string

const (
	CategoryXSS              Category = "xss"
	CategorySQLi             Category = "sqli"
	CategoryXXE              Category = "xxe"
	CategoryCommandInjection Category = "command-injection"
	CategoryPathTraversal    Category = "path-traversal"
	CategoryOpenRedirect     Category = "open-redirect"
	CategoryReflection       Category = "reflection"
	CategoryCustom           Category = "custom"
)

// PayloadSource identifies where a PayloadSet's strings came from.
type PayloadSource string

const (
	SourcePayloadBox PayloadSource = "payloadbox"
	SourceCustom     PayloadSource = "custom"
	SourcePlugin     PayloadSource = "plugin"
)

// PayloadSet is a category-tagged, ordered list of payload strings plus the
// compiled regexes used to recognize their effect in a response body.
type PayloadSet struct {
	Name           string
	Category       Category
	Description    string
	Payloads       []string
	DetectPatterns []string
	Source         PayloadSource

	compiled []*regexp.Regexp
}

// Compile validates the invariants in spec.md §3: Payloads must be
// non-empty and every DetectPatterns entry must compile. Compiled regexes
// are cached for CompiledPatterns.
func (p *PayloadSet) Compile() error {
	if len(p.Payloads) == 0 {
		return fmt.Errorf("model: payload set %q: payloads must be non-empty", p.Name)
	}
	p.compiled = make([]*regexp.Regexp, 0, len(p.DetectPatterns))
	for _, pat := range p.DetectPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return fmt.Errorf("model: payload set %q: detect pattern %q: %w", p.Name, pat, err)
		}
		p.compiled = append(p.compiled, re)
	}
	return nil
}

// CompiledPatterns returns the regexes compiled by Compile, in declared
// order. Compile must be called first; an uncompiled set returns nil.
func (p *PayloadSet) CompiledPatterns() []*regexp.Regexp {
	return p.compiled
}

// BaselinePayload is the sentinel injected once per step, before any real
// payload, to populate the baseline cache (spec.md §4.4 step 1).
const BaselinePayload = "__baseline__"

// dangerousChars are the characters spec.md §4.6 requires a reflected
// payload to contain before a reflection finding is allowed.
var dangerousChars = []byte{'<', '>', '\'', '"', '(', ')'}

// HasDangerousChars reports whether payload contains at least one character
// from the reflection-gate set (spec.md invariant 5).
func HasDangerousChars(payload string) bool {
	for i := 0; i < len(payload); i++ {
		for _, c := range dangerousChars {
			if payload[i] == c {
				return true
			}
		}
	}
	return false
}
