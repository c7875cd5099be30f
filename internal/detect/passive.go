package detect

import (
	"fmt"
	"strings"

	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

// PassiveObserver reports an unexpected dialog firing during payload
// injection (a strong XSS signal — alert/confirm/prompt triggered by the
// payload itself) and surfaces console errors whose text contains the
// payload as low-severity findings. It never runs during the baseline pass.
type PassiveObserver struct {
	pluginhost.NoopPlugin
}

func (PassiveObserver) Name() string { return "passive-observer" }

func (PassiveObserver) Dialog(ctx *pluginhost.PayloadContext, ev vulndriver.DialogEvent) {
	if ctx.IsBaseline || ctx.Payload == "" {
		return
	}
	f := model.Finding{
		Type:        model.CategoryXSS,
		Severity:    model.SeverityCritical,
		Title:       fmt.Sprintf("Payload triggered a %s dialog", ev.Type),
		Description: "A JavaScript dialog fired while the injected payload was active, indicating unsanitized script execution.",
		StepID:      ctx.Step.ID,
		Payload:     ctx.Payload,
		Evidence:    ev.Message,
	}
	f.Finalize()
	ctx.AddFinding(f)
}

func (PassiveObserver) Console(ctx *pluginhost.PayloadContext, ev vulndriver.ConsoleEvent) {
	if ctx.IsBaseline || ev.Level != "error" || ctx.Payload == "" {
		return
	}
	if !strings.Contains(ev.Text, ctx.Payload) {
		return
	}
	f := model.Finding{
		Type:        model.CategoryXSS,
		Severity:    model.SeverityLow,
		Title:       "Payload surfaced in a console error",
		Description: "The injected payload appears in a browser console error, suggesting it reached script context.",
		StepID:      ctx.Step.ID,
		Payload:     ctx.Payload,
		Evidence:    ev.Text,
		Metadata:    map[string]string{"detectionMethod": string(model.DetectionPassive)},
	}
	f.Finalize()
	ctx.AddFinding(f)
}
