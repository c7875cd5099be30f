package vulndriver

import (
	"fmt"
	"net/url"
	"strings"
)

// RewriteQueryParam rewrites a single query parameter's value in rawURL,
// preserving the order of the other parameters and re-encoding the target
// value exactly once (spec.md §4.1: "preserving order of other params and
// re-encoding once"). If the parameter is not already present, it is
// appended.
func RewriteQueryParam(rawURL, param, value string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("vulndriver: parse url %q: %w", rawURL, err)
	}

	var pairs []string
	if u.RawQuery != "" {
		pairs = strings.Split(u.RawQuery, "&")
	}

	encodedPair := url.QueryEscape(param) + "=" + url.QueryEscape(value)

	found := false
	for i, pair := range pairs {
		if pair == "" {
			continue
		}
		key := pair
		if eq := strings.IndexByte(pair, '='); eq >= 0 {
			key = pair[:eq]
		}
		decodedKey, derr := url.QueryUnescape(key)
		if derr != nil {
			decodedKey = key
		}
		if decodedKey == param {
			pairs[i] = encodedPair
			found = true
		}
	}
	if !found {
		pairs = append(pairs, encodedPair)
	}

	u.RawQuery = strings.Join(pairs, "&")
	return u.String(), nil
}

// QueryParamExists reports whether rawURL already carries the named query
// parameter. Nothing in the repository calls it: substitution.Apply picks
// URL injection vs. POST handling from whether the focus step names a
// Parameter.
func QueryParamExists(rawURL, param string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, ok := u.Query()[param]
	return ok
}

// inputSelectorCandidates returns the selector-resolution cascade for a
// named form field: input[name='X'], then input[id='X'], then
// textarea[name='X'] (spec.md §4.1).
func inputSelectorCandidates(name string) []string {
	return []string{
		fmt.Sprintf("input[name=%q]", name),
		fmt.Sprintf("input[id=%q]", name),
		fmt.Sprintf("textarea[name=%q]", name),
	}
}

// submitSelector is the OR-combinator of standard submit matchers used to
// resolve a click step that follows an injected input.
const submitSelector = "button[type='submit'], input[type='submit'], button:not([type])"

// SubmitSelector returns the OR-combinator of standard submit matchers
// (spec.md §4.1: "submit selectors resolve by OR of standard submit
// matchers").
func SubmitSelector() string {
	return submitSelector
}
