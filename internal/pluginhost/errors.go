package pluginhost

import "fmt"

// FatalError marks a plugin-lifecycle failure (init, scan_start, or
// scan_end) that aborts the scan outright, per spec.md §7: "Plugin-
// lifecycle: init/scan_start/scan_end failures fatal." Host.Load returns it
// for an init failure; for scan_start/scan_end the orchestrator returns it
// wrapped as the scan's error and also records it as a "fatal:" entry in
// the aggregate RunResult's Errors.
type FatalError struct {
	Plugin string
	Hook   string
	Err    error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("pluginhost: %s: %s: %v", e.Plugin, e.Hook, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// HandlerError marks a plugin-event failure (before_payload, after_payload,
// run_start, run_end) that is logged through the host's logger and the
// offending handler skipped for this event, without aborting the scan or
// disabling the plugin for later events (spec.md §7: "Plugin-event: logged
// and skipped, handler not disabled"). These errors are not added to
// RunResult.Errors. The dialog, console and network_response hooks return
// no error, so the host has no failure of theirs to log or skip.
type HandlerError struct {
	Plugin string
	Hook   string
	Err    error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("pluginhost: %s: %s: %v", e.Plugin, e.Hook, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
