// Package detect holds the built-in detector/report plugins: reflected XSS,
// SQLi (error-string and time-based), a passive dialog/console scanner, and
// the report plugin, all implemented against the pluginhost.Plugin
// interface (spec.md §4.3/§4.6).
package detect

import (
	"fmt"
	"strings"

	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
)

// XSSReflection flags payloads from the xss/reflection category that come
// back verbatim in the response body, gated by the dangerous-character
// requirement (spec.md §4.6 invariant 5: "bare alphanumerics reflecting
// back are never a finding").
type XSSReflection struct {
	pluginhost.NoopPlugin
}

func (XSSReflection) Name() string { return "xss-reflection" }

func (XSSReflection) AfterPayload(ctx *pluginhost.PayloadContext) ([]model.Finding, error) {
	if ctx.IsBaseline || ctx.Payload == "" {
		return nil, nil
	}
	if ctx.Category != model.CategoryXSS && ctx.Category != model.CategoryReflection {
		return nil, nil
	}
	if !model.HasDangerousChars(ctx.Payload) {
		return nil, nil
	}
	if !strings.Contains(ctx.Outcome.Body, ctx.Payload) {
		return nil, nil
	}

	f := model.Finding{
		Type:        model.CategoryXSS,
		Severity:    model.SeverityHigh,
		Title:       "Reflected payload without encoding",
		Description: fmt.Sprintf("Payload was reflected verbatim in the response for step %s.", ctx.Step.ID),
		StepID:      ctx.Step.ID,
		Payload:     ctx.Payload,
		URL:         ctx.Outcome.URL,
		Evidence:    excerpt(ctx.Outcome.Body, ctx.Payload),
	}
	f.Finalize()
	return []model.Finding{f}, nil
}

// excerpt returns a short window of body around the first occurrence of
// needle, for the finding's Evidence field.
func excerpt(body, needle string) string {
	idx := strings.Index(body, needle)
	if idx < 0 {
		return ""
	}
	start := idx - 40
	if start < 0 {
		start = 0
	}
	end := idx + len(needle) + 40
	if end > len(body) {
		end = len(body)
	}
	return body[start:end]
}
