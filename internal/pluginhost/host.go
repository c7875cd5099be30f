package pluginhost

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/scanlog"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

// entry pairs a loaded plugin with its compiled config schema, if any.
type entry struct {
	plugin Plugin
	schema *gojsonschema.Schema
}

// Host owns the ordered plugin pipeline and dispatches every lifecycle
// hook to it, in insertion order (spec.md §4.3: "Ordering: insertion
// order. The report plugin sits last.").
type Host struct {
	log     *scanlog.Logger
	entries []entry
}

// New creates an empty host.
func New(log *scanlog.Logger) *Host {
	return &Host{log: log}
}

// Load compiles the plugin's config schema (if any), validates config
// against it, and calls Init. A plugin that fails to load is not added to
// the pipeline; Load returns the error so the caller can decide whether a
// single bad plugin is fatal to the scan.
func (h *Host) Load(p Plugin, config map[string]interface{}) error {
	e := entry{plugin: p}

	if raw := p.ConfigSchema(); len(raw) > 0 {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return fmt.Errorf("pluginhost: %s: compile config schema: %w", p.Name(), err)
		}
		e.schema = schema

		result, err := schema.Validate(gojsonschema.NewGoLoader(config))
		if err != nil {
			return fmt.Errorf("pluginhost: %s: validate config: %w", p.Name(), err)
		}
		if !result.Valid() {
			return fmt.Errorf("pluginhost: %s: %w: %s", p.Name(), model.ErrConfiguration, joinErrors(result.Errors()))
		}
	}

	if err := p.Init(config); err != nil {
		return &FatalError{Plugin: p.Name(), Hook: "init", Err: err}
	}

	h.entries = append(h.entries, e)
	return nil
}

func joinErrors(errs []gojsonschema.ResultError) string {
	s := ""
	for i, e := range errs {
		if i > 0 {
			s += "; "
		}
		s += e.String()
	}
	return s
}

// ScanStart fires scan_start on every plugin. Unlike the per-event hooks
// below, a scan_start failure is plugin-lifecycle, not plugin-event
// (spec.md §7: "init/scan_start/scan_end failures fatal"): the first
// plugin to fail aborts the scan and its error is returned verbatim, not
// merely logged.
func (h *Host) ScanStart(scanID string) error {
	for _, e := range h.entries {
		if err := e.plugin.ScanStart(scanID); err != nil {
			return &FatalError{Plugin: e.plugin.Name(), Hook: "scan_start", Err: err}
		}
	}
	return nil
}

func (h *Host) RunStart(session string) {
	for _, e := range h.entries {
		if err := e.plugin.RunStart(session); err != nil {
			h.log.Warn("%v", &HandlerError{Plugin: e.plugin.Name(), Hook: "run_start", Err: err})
		}
	}
}

// BeforePayload runs before_payload on every plugin in order; the first
// plugin to request a skip short-circuits the remaining plugins and the
// payload iteration itself (spec.md §4.3: "may short-circuit payload").
func (h *Host) BeforePayload(ctx *PayloadContext) bool {
	for _, e := range h.entries {
		skip, err := e.plugin.BeforePayload(ctx)
		if err != nil {
			h.log.Warn("%v", &HandlerError{Plugin: e.plugin.Name(), Hook: "before_payload", Err: err})
			continue
		}
		if skip {
			return true
		}
	}
	return false
}

func (h *Host) Dialog(ctx *PayloadContext, ev vulndriver.DialogEvent) {
	for _, e := range h.entries {
		e.plugin.Dialog(ctx, ev)
	}
	h.dedupe(ctx)
}

func (h *Host) Console(ctx *PayloadContext, ev vulndriver.ConsoleEvent) {
	for _, e := range h.entries {
		e.plugin.Console(ctx, ev)
	}
	h.dedupe(ctx)
}

func (h *Host) NetworkResponse(ctx *PayloadContext, ev vulndriver.NetworkResponseEvent) {
	for _, e := range h.entries {
		e.plugin.NetworkResponse(ctx, ev)
	}
	h.dedupe(ctx)
}

// AfterPayload runs the explicit active checks, appending their returned
// findings to ctx.Findings, then deduplicates by fingerprint within the
// payload window (spec.md §4.3 fusion rule).
func (h *Host) AfterPayload(ctx *PayloadContext) {
	for _, e := range h.entries {
		findings, err := e.plugin.AfterPayload(ctx)
		if err != nil {
			h.log.Warn("%v", &HandlerError{Plugin: e.plugin.Name(), Hook: "after_payload", Err: err})
			continue
		}
		ctx.Findings = append(ctx.Findings, findings...)
	}
	h.dedupe(ctx)
}

// dedupe drops findings sharing a fingerprint already seen earlier in
// ctx.Findings, keeping the first occurrence (spec.md §4.3: "The host
// deduplicates by fingerprint within the payload window to prevent a
// single event from being reported twice").
func (h *Host) dedupe(ctx *PayloadContext) {
	seen := make(map[string]bool, len(ctx.Findings))
	out := ctx.Findings[:0]
	for _, f := range ctx.Findings {
		if f.Fingerprint == "" {
			f.Finalize()
		}
		if seen[f.Fingerprint] {
			continue
		}
		seen[f.Fingerprint] = true
		out = append(out, f)
	}
	ctx.Findings = out
}

// RunEnd pipes result through every plugin's RunEnd in insertion order,
// each seeing the prior plugin's modification (spec.md §4.3: "Result
// transform pipe").
func (h *Host) RunEnd(result model.RunResult) model.RunResult {
	for _, e := range h.entries {
		next, err := e.plugin.RunEnd(result)
		if err != nil {
			h.log.Warn("%v", &HandlerError{Plugin: e.plugin.Name(), Hook: "run_end", Err: err})
			continue
		}
		result = next
	}
	return result
}

// ScanEnd pipes the scan-wide aggregate the same way RunEnd pipes a single
// session's result. Like ScanStart, a scan_end failure is plugin-lifecycle
// (spec.md §7), so the first plugin to fail aborts the pipe immediately and
// its error is returned verbatim alongside the result built so far.
func (h *Host) ScanEnd(result model.ScanResult) (model.ScanResult, error) {
	for _, e := range h.entries {
		next, err := e.plugin.ScanEnd(result)
		if err != nil {
			return result, &FatalError{Plugin: e.plugin.Name(), Hook: "scan_end", Err: err}
		}
		result = next
	}
	return result, nil
}

// Destroy tears down every plugin, continuing past individual failures so
// one misbehaving plugin never leaks the others' resources.
func (h *Host) Destroy() {
	for _, e := range h.entries {
		if err := e.plugin.Destroy(); err != nil {
			h.log.Warn("plugin %s destroy: %v", e.plugin.Name(), err)
		}
	}
}
