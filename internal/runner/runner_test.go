package runner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vulcn-dast/vulcn/internal/detect"
	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
	"github.com/vulcn-dast/vulcn/internal/scanlog"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

// fakeDriver and fakePage give the runner a scriptable Driver/PageContext
// pair without touching a real browser (grounded on the adapter-style
// tests in sqleech's scanner_test.go).
type fakeDriver struct {
	page *fakePage
}

func (d *fakeDriver) Launch(ctx context.Context, cfg model.DriverConfig) error { return nil }

func (d *fakeDriver) NewSessionContext(ctx context.Context, storageState string, extraHeaders map[string]string) (vulndriver.PageContext, error) {
	return d.page, nil
}

func (d *fakeDriver) Close() error { return nil }

type fakePage struct {
	executed []model.Step
	fail     map[string]error
	reflect  map[string]bool // step.Value (payload) -> reflects in body
}

func (p *fakePage) ExecuteStep(ctx context.Context, step model.Step) (vulndriver.StepOutcome, error) {
	p.executed = append(p.executed, step)
	if err, ok := p.fail[step.ID]; ok {
		return vulndriver.StepOutcome{}, err
	}
	body := "normal page content"
	if p.reflect[step.Value] {
		body = fmt.Sprintf("echo: %s", step.Value)
	}
	return vulndriver.StepOutcome{URL: step.URL, Body: body, DurationMillis: 10}, nil
}

func (p *fakePage) OnDialog(func(vulndriver.DialogEvent))                     {}
func (p *fakePage) OnConsole(func(vulndriver.ConsoleEvent))                   {}
func (p *fakePage) OnNetworkResponse(func(vulndriver.NetworkResponseEvent))   {}
func (p *fakePage) Settle(ctx context.Context, window time.Duration)         {}
func (p *fakePage) CurrentURL() string                                        { return "" }
func (p *fakePage) Close() error                                               { return nil }

func newTestHost(t *testing.T) *pluginhost.Host {
	t.Helper()
	h := pluginhost.New(scanlog.New(false))
	if err := h.Load(&detect.XSSReflection{}, nil); err != nil {
		t.Fatalf("load xss plugin: %v", err)
	}
	return h
}

func TestRunner_EarlyExitsAfterConfirmedFinding(t *testing.T) {
	page := &fakePage{reflect: map[string]bool{"<script>alert(1)</script>": true}}
	driver := &fakeDriver{page: page}
	host := newTestHost(t)

	payloadSet := model.PayloadSet{
		Name:     "xss-basic",
		Category: model.CategoryXSS,
		Payloads: []string{"<script>alert(1)</script>", "harmless-second-payload"},
	}
	if err := payloadSet.Compile(); err != nil {
		t.Fatalf("compile payload set: %v", err)
	}

	session := model.Session{
		Name:   "search",
		Driver: "browser",
		Steps: []model.Step{
			{ID: "nav1", Kind: model.StepNavigate, URL: "https://shop.example/search?q=x", Parameter: "q", Injectable: true},
		},
		Metadata: map[string]string{"categories": "xss"},
	}

	r := New(driver, host, []model.PayloadSet{payloadSet}, scanlog.New(false))
	result, err := r.Run(context.Background(), session)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %+v", len(result.Findings), result.Findings)
	}
	if result.PayloadsTested != 1 {
		t.Fatalf("expected early exit after 1 payload, got %d tested", result.PayloadsTested)
	}
}

func TestRunner_NonInjectableStepFailureAbortsButStillFinalizes(t *testing.T) {
	page := &fakePage{fail: map[string]error{"click1": fmt.Errorf("locate #missing: %w", model.ErrSelectorNotFound)}}
	driver := &fakeDriver{page: page}
	host := newTestHost(t)

	session := model.Session{
		Name:   "broken",
		Driver: "browser",
		Steps: []model.Step{
			{ID: "click1", Kind: model.StepClick, Selector: "#missing"},
			{ID: "nav1", Kind: model.StepNavigate, URL: "https://x/?q=1", Parameter: "q", Injectable: true},
		},
	}

	r := New(driver, host, nil, scanlog.New(false))
	result, err := r.Run(context.Background(), session)
	if err == nil {
		t.Fatal("expected error from failed non-injectable step")
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected RunResult to record the failure")
	}
}
