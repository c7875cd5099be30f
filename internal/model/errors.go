package model

import "errors"

// Driver error sentinels, spec.md §4.1 / §7. Driver implementations should
// wrap one of these with fmt.Errorf("...: %w", ErrX) so callers can use
// errors.Is to classify a failure without string matching.
var (
	ErrNavigationTimeout = errors.New("navigation timeout")
	ErrSelectorNotFound  = errors.New("selector not found")
	ErrUnreachable       = errors.New("target unreachable")
	ErrClosed            = errors.New("driver closed")
)

// ErrConfiguration marks a pre-execution configuration failure (malformed
// session, unknown driver, missing payload set) — fatal to the scan before
// it starts, per spec.md §7.
var ErrConfiguration = errors.New("configuration error")
