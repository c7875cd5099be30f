// Package vulndriver abstracts the browser runtime the session runner
// drives: launching the shared browser, handing out one page context per
// session, executing concrete steps, and surfacing dialog/console/network
// events as a typed stream (spec.md §4.1, Design Notes §9).
package vulndriver

import (
	"context"
	"time"

	"github.com/vulcn-dast/vulcn/internal/model"
)

// StepOutcome is what executing one concrete step observed.
type StepOutcome struct {
	URL            string
	StatusCode     int
	Body           string
	DurationMillis int64
}

// Driver owns one browser instance for the lifetime of a scan (C5 owns one
// Driver; C4 borrows a PageContext per session).
type Driver interface {
	// Launch acquires the scoped browser resource. Must be paired with
	// Close on every exit path, including panics.
	Launch(ctx context.Context, cfg model.DriverConfig) error

	// NewSessionContext applies the opaque storage blob and any extra
	// request headers, returning a page scoped to one session.
	NewSessionContext(ctx context.Context, storageState string, extraHeaders map[string]string) (PageContext, error)

	// Close releases the browser. Safe to call multiple times.
	Close() error
}

// PageContext is one session's page: one concrete step executes at a time,
// and dialog/console/network events are delivered through the registered
// callbacks while ExecuteStep or Settle is in progress; the Playwright
// implementation invokes them from Playwright's own event goroutine
// (spec.md §5: "Single-threaded cooperative at the core").
type PageContext interface {
	// ExecuteStep drives one concrete step (already payload-substituted by
	// the caller). Returns model.ErrNavigationTimeout, ErrSelectorNotFound,
	// ErrUnreachable, or ErrClosed on failure.
	ExecuteStep(ctx context.Context, step model.Step) (StepOutcome, error)

	// OnDialog, OnConsole, OnNetworkResponse register the event handlers
	// the plugin host drains during the settle window. Each call replaces
	// the previously registered handler of that kind; handlers must return
	// promptly.
	OnDialog(func(DialogEvent))
	OnConsole(func(ConsoleEvent))
	OnNetworkResponse(func(NetworkResponseEvent))

	// Settle blocks until the settle window elapses or the context is
	// cancelled/deadlined, whichever comes first, giving already-registered
	// event handlers time to fire for in-flight network activity.
	Settle(ctx context.Context, window time.Duration)

	CurrentURL() string
	Close() error
}
