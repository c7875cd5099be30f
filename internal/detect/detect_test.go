package detect

import (
	"testing"
	"time"

	"github.com/vulcn-dast/vulcn/internal/baseline"
	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

func TestXSSReflection_RequiresDangerousChars(t *testing.T) {
	x := XSSReflection{}
	ctx := &pluginhost.PayloadContext{
		Category: model.CategoryXSS,
		Payload:  "plainword",
		Outcome:  vulndriver.StepOutcome{Body: "...plainword..."},
	}
	findings, err := x.AfterPayload(ctx)
	if err != nil {
		t.Fatalf("AfterPayload: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected no finding for bare alphanumeric reflection, got %+v", findings)
	}
}

func TestXSSReflection_FlagsDangerousReflectedPayload(t *testing.T) {
	x := XSSReflection{}
	ctx := &pluginhost.PayloadContext{
		Step:     model.Step{ID: "s1"},
		Category: model.CategoryXSS,
		Payload:  "<script>alert(1)</script>",
		Outcome:  vulndriver.StepOutcome{Body: "hello <script>alert(1)</script> world"},
	}
	findings, err := x.AfterPayload(ctx)
	if err != nil {
		t.Fatalf("AfterPayload: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
}

func TestSQLiDetector_BaselineSuppressesPreexistingError(t *testing.T) {
	d := NewSQLiDetector()
	cache := baseline.New()

	baselineCtx := &pluginhost.PayloadContext{
		Step:       model.Step{ID: "s1"},
		IsBaseline: true,
		Baseline:   cache,
		Outcome:    vulndriver.StepOutcome{Body: "a PostgreSQL error occurred", DurationMillis: 50},
	}
	if _, err := d.AfterPayload(baselineCtx); err != nil {
		t.Fatalf("baseline pass: %v", err)
	}

	realCtx := &pluginhost.PayloadContext{
		Step:     model.Step{ID: "s1"},
		Category: model.CategorySQLi,
		Payload:  "' OR 1=1",
		Baseline: cache,
		Outcome:  vulndriver.StepOutcome{Body: "a PostgreSQL error occurred", DurationMillis: 55},
	}
	findings, err := d.AfterPayload(realCtx)
	if err != nil {
		t.Fatalf("AfterPayload: %v", err)
	}
	if len(findings) != 0 {
		t.Fatalf("expected baseline-suppressed error to yield no finding, got %+v", findings)
	}
}

func TestSQLiDetector_TimeBasedDetection(t *testing.T) {
	d := NewSQLiDetector()
	cache := baseline.New()

	d.AfterPayload(&pluginhost.PayloadContext{
		Step: model.Step{ID: "s1"}, IsBaseline: true, Baseline: cache,
		Outcome: vulndriver.StepOutcome{DurationMillis: 120},
	})

	findings, err := d.AfterPayload(&pluginhost.PayloadContext{
		Step: model.Step{ID: "s1"}, Category: model.CategorySQLi, Baseline: cache,
		Payload: "' AND SLEEP(5)--",
		Outcome: vulndriver.StepOutcome{DurationMillis: int64((5 * time.Second).Milliseconds()) + 120},
	})
	if err != nil {
		t.Fatalf("AfterPayload: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("expected 1 time-based finding, got %d: %+v", len(findings), findings)
	}
}

func TestPassiveObserver_DialogDuringPayloadIsFinding(t *testing.T) {
	p := PassiveObserver{}
	ctx := &pluginhost.PayloadContext{Step: model.Step{ID: "s1"}, Payload: "<svg onload=alert(1)>"}
	p.Dialog(ctx, vulndriver.DialogEvent{Type: "alert", Message: "1"})
	if len(ctx.Findings) != 1 {
		t.Fatalf("expected 1 finding from unexpected dialog, got %d", len(ctx.Findings))
	}
}

func TestPassiveObserver_IgnoresBaselineDialogs(t *testing.T) {
	p := PassiveObserver{}
	ctx := &pluginhost.PayloadContext{IsBaseline: true}
	p.Dialog(ctx, vulndriver.DialogEvent{Type: "alert"})
	if len(ctx.Findings) != 0 {
		t.Fatalf("expected no findings during baseline pass")
	}
}
