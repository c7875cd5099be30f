package substitution

import (
	"testing"

	"github.com/vulcn-dast/vulcn/internal/model"
)

func TestApply_URLParamInjection(t *testing.T) {
	step := model.Step{
		ID:         "s1",
		Kind:       model.StepNavigate,
		URL:        "https://shop.example/search?q=shoes&page=2",
		Parameter:  "q",
		Injectable: true,
	}

	out, err := Apply(step, "<script>")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 step, got %d", len(out))
	}
	if out[0].URL != "https://shop.example/search?q=%3Cscript%3E&page=2" {
		t.Fatalf("unexpected rewritten URL: %s", out[0].URL)
	}
}

func TestApply_PostFocusExpandsToInputAndSubmit(t *testing.T) {
	step := model.Step{
		ID:         "s2",
		Kind:       model.StepNavigate,
		URL:        "https://shop.example/contact",
		Selector:   "message",
		Injectable: true,
	}

	out, err := Apply(step, "'; DROP TABLE users;--")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 concrete steps, got %d", len(out))
	}
	if out[0].Kind != model.StepNavigate || out[1].Kind != model.StepInput || out[2].Kind != model.StepClick {
		t.Fatalf("unexpected step kinds: %+v", out)
	}
	if out[1].Value != "'; DROP TABLE users;--" {
		t.Fatalf("payload not placed in input step: %+v", out[1])
	}
}

func TestApply_PostFocusWithoutSelectorIsConfigError(t *testing.T) {
	step := model.Step{ID: "s3", Kind: model.StepNavigate, URL: "https://x", Injectable: true}
	if _, err := Apply(step, "x"); err == nil {
		t.Fatal("expected configuration error for POST focus with no selector")
	}
}

func TestApply_InputFocus(t *testing.T) {
	step := model.Step{ID: "s4", Kind: model.StepInput, Selector: "input[name='q']", Injectable: true}
	out, err := Apply(step, "payload")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 || out[0].Value != "payload" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestApply_NonFocusPassesThroughUnchanged(t *testing.T) {
	step := model.Step{ID: "s5", Kind: model.StepClick, Selector: "#go"}
	out, err := Apply(step, "payload")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 || out[0] != step {
		t.Fatalf("non-focus step was modified: %+v", out)
	}
}
