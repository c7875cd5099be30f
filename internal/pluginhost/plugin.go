// Package pluginhost dispatches the payload-window lifecycle hooks to the
// loaded detector/report plugins, fuses their findings by fingerprint, and
// runs the run_end/scan_end result transform pipe (spec.md §4.3).
package pluginhost

import (
	"github.com/vulcn-dast/vulcn/internal/baseline"
	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

// PayloadContext is handed to every hook fired during one payload
// iteration. Findings is shared mutable state a passive hook may append to
// directly; before/after hooks may also return findings, which the host
// appends on the caller's behalf (spec.md §4.3 fusion rule).
type PayloadContext struct {
	Session  string
	Step     model.Step
	Payload  string
	Category model.Category
	IsBaseline bool // true while running the baseline (unpayloaded) pass

	// Outcome is filled in by the runner once the substituted step has
	// executed, before after_payload fires.
	Outcome vulndriver.StepOutcome

	// Baseline is the session's shared baseline cache (spec.md §4.4/§4.6),
	// owned by the runner and handed down so detectors can both Observe
	// (during the baseline pass) and IsNovel-check (during real payloads).
	Baseline *baseline.Cache

	Findings []model.Finding
}

// AddFinding appends a finding to the context, letting a passive hook
// (console/dialog/network) report without returning a value.
func (c *PayloadContext) AddFinding(f model.Finding) {
	c.Findings = append(c.Findings, f)
}

// Plugin is one detector or reporter. Every hook is optional: a plugin
// implements only the methods it needs by embedding NoopPlugin and
// overriding the rest (the teacher's codebase has no equivalent — this is
// the Go idiom for optional-interface-method sets, as used for
// io.Reader/Closer composition throughout the standard library).
type Plugin interface {
	Name() string

	// ConfigSchema returns a JSON Schema document validating this plugin's
	// config map, or nil if it takes no config.
	ConfigSchema() []byte

	Init(config map[string]interface{}) error
	ScanStart(scanID string) error
	RunStart(session string) error

	BeforePayload(ctx *PayloadContext) (skip bool, err error)
	Dialog(ctx *PayloadContext, ev vulndriver.DialogEvent)
	Console(ctx *PayloadContext, ev vulndriver.ConsoleEvent)
	NetworkResponse(ctx *PayloadContext, ev vulndriver.NetworkResponseEvent)
	AfterPayload(ctx *PayloadContext) ([]model.Finding, error)

	RunEnd(result model.RunResult) (model.RunResult, error)
	ScanEnd(result model.ScanResult) (model.ScanResult, error)

	Destroy() error
}

// NoopPlugin implements every Plugin method as a no-op. Embed it and
// override only the hooks a concrete plugin cares about.
type NoopPlugin struct{}

func (NoopPlugin) ConfigSchema() []byte              { return nil }
func (NoopPlugin) Init(map[string]interface{}) error { return nil }
func (NoopPlugin) ScanStart(string) error             { return nil }
func (NoopPlugin) RunStart(string) error              { return nil }
func (NoopPlugin) BeforePayload(*PayloadContext) (bool, error) {
	return false, nil
}
func (NoopPlugin) Dialog(*PayloadContext, vulndriver.DialogEvent)                   {}
func (NoopPlugin) Console(*PayloadContext, vulndriver.ConsoleEvent)                 {}
func (NoopPlugin) NetworkResponse(*PayloadContext, vulndriver.NetworkResponseEvent) {}
func (NoopPlugin) AfterPayload(*PayloadContext) ([]model.Finding, error) {
	return nil, nil
}
func (NoopPlugin) RunEnd(r model.RunResult) (model.RunResult, error)    { return r, nil }
func (NoopPlugin) ScanEnd(r model.ScanResult) (model.ScanResult, error) { return r, nil }
func (NoopPlugin) Destroy() error                                       { return nil }
