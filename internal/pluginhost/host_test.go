package pluginhost

import (
	"errors"
	"testing"

	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/scanlog"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

type recorderPlugin struct {
	NoopPlugin
	name         string
	tag          string
	initErr      error
	scanStartErr error
	scanEndErr   error
	runEndFn     func(model.RunResult) (model.RunResult, error)
}

func (p *recorderPlugin) Name() string { return p.name }

func (p *recorderPlugin) Init(map[string]interface{}) error { return p.initErr }

func (p *recorderPlugin) ScanStart(string) error { return p.scanStartErr }

func (p *recorderPlugin) ScanEnd(r model.ScanResult) (model.ScanResult, error) {
	return r, p.scanEndErr
}

func (p *recorderPlugin) Console(ctx *PayloadContext, ev vulndriver.ConsoleEvent) {
	if ev.Level == "error" {
		ctx.AddFinding(model.Finding{Type: model.CategoryXSS, StepID: ctx.Step.ID, Payload: ctx.Payload, Title: p.tag})
	}
}

func (p *recorderPlugin) RunEnd(r model.RunResult) (model.RunResult, error) {
	if p.runEndFn != nil {
		return p.runEndFn(r)
	}
	return r, nil
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	return New(scanlog.New(false))
}

func TestHost_DedupesFindingsWithinPayloadWindow(t *testing.T) {
	h := newTestHost(t)
	a := &recorderPlugin{name: "a", tag: "from-a"}
	b := &recorderPlugin{name: "b", tag: "from-b"}
	if err := h.Load(a, nil); err != nil {
		t.Fatalf("load a: %v", err)
	}
	if err := h.Load(b, nil); err != nil {
		t.Fatalf("load b: %v", err)
	}

	ctx := &PayloadContext{Step: model.Step{ID: "s1"}, Payload: "<svg onload=alert(1)>"}
	h.Console(ctx, vulndriver.ConsoleEvent{Level: "error", Text: "boom"})

	if len(ctx.Findings) != 1 {
		t.Fatalf("expected 1 deduped finding, got %d: %+v", len(ctx.Findings), ctx.Findings)
	}
}

func TestHost_RunEndPipesInInsertionOrder(t *testing.T) {
	h := newTestHost(t)
	first := &recorderPlugin{name: "first", runEndFn: func(r model.RunResult) (model.RunResult, error) {
		r.Errors = append(r.Errors, "first")
		return r, nil
	}}
	second := &recorderPlugin{name: "second", runEndFn: func(r model.RunResult) (model.RunResult, error) {
		r.Errors = append(r.Errors, "second")
		return r, nil
	}}
	if err := h.Load(first, nil); err != nil {
		t.Fatalf("load first: %v", err)
	}
	if err := h.Load(second, nil); err != nil {
		t.Fatalf("load second: %v", err)
	}

	out := h.RunEnd(model.RunResult{})
	if len(out.Errors) != 2 || out.Errors[0] != "first" || out.Errors[1] != "second" {
		t.Fatalf("unexpected pipe order: %+v", out.Errors)
	}
}

func TestHost_BeforePayloadShortCircuitsOnSkip(t *testing.T) {
	h := newTestHost(t)
	skipAll := &skippingPlugin{}
	if err := h.Load(skipAll, nil); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !h.BeforePayload(&PayloadContext{}) {
		t.Fatal("expected skip=true")
	}
}

type skippingPlugin struct{ NoopPlugin }

func (skippingPlugin) Name() string { return "skip-all" }
func (skippingPlugin) BeforePayload(*PayloadContext) (bool, error) {
	return true, nil
}

func TestHost_ScanStartAbortsOnPluginError(t *testing.T) {
	h := newTestHost(t)
	boom := errors.New("boom")
	bad := &recorderPlugin{name: "bad", scanStartErr: boom}
	if err := h.Load(bad, nil); err != nil {
		t.Fatalf("load: %v", err)
	}

	err := h.ScanStart("scan-1")
	if err == nil {
		t.Fatal("expected scan_start error")
	}
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected *FatalError, got %T: %v", err, err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}

func TestHost_ScanEndAbortsOnPluginError(t *testing.T) {
	h := newTestHost(t)
	boom := errors.New("boom")
	ok := &recorderPlugin{name: "ok"}
	bad := &recorderPlugin{name: "bad", scanEndErr: boom}
	if err := h.Load(ok, nil); err != nil {
		t.Fatalf("load ok: %v", err)
	}
	if err := h.Load(bad, nil); err != nil {
		t.Fatalf("load bad: %v", err)
	}

	_, err := h.ScanEnd(model.ScanResult{ScanID: "scan-1"})
	if err == nil {
		t.Fatal("expected scan_end error")
	}
	var fatal *FatalError
	if !errors.As(err, &fatal) {
		t.Fatalf("expected *FatalError, got %T: %v", err, err)
	}
}
