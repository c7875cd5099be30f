package vulndriver

import "time"

// DialogEvent is a browser-native dialog (alert/confirm/prompt). The driver
// auto-accepts dialogs after delivering the event to plugins, so execution
// proceeds (spec.md §4.1 Dialog policy).
type DialogEvent struct {
	Type      string // "alert", "confirm", "prompt", "beforeunload"
	Message   string
	Timestamp time.Time
}

// ConsoleEvent is a browser console message.
type ConsoleEvent struct {
	Level     string // "log", "warn", "error", ...
	Text      string
	Timestamp time.Time
}

// NetworkResponseEvent is an observed HTTP response during the settle
// window.
type NetworkResponseEvent struct {
	URL       string
	Status    int
	Headers   map[string]string
	Body      string
	Timestamp time.Time
}
