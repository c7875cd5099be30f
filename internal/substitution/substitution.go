// Package substitution implements the pure (focus step, payload) -> concrete
// step function the session runner calls once per payload iteration
// (spec.md §4.2). It never touches a Driver; it only produces the Step
// values the runner will hand to one.
package substitution

import (
	"fmt"

	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

// Apply substitutes payload into the focus step, returning the concrete
// step(s) to execute in order. Non-focus steps are returned unchanged as a
// single-element slice (spec.md §4.2 invariant: "non-focus steps are passed
// through unchanged within one payload iteration").
func Apply(step model.Step, payload string) ([]model.Step, error) {
	if !step.Injectable {
		return []model.Step{step}, nil
	}

	switch step.Kind {
	case model.StepNavigate:
		if step.Parameter != "" {
			rewritten, err := vulndriver.RewriteQueryParam(step.URL, step.Parameter, payload)
			if err != nil {
				return nil, fmt.Errorf("substitution: rewrite %s: %w", step.ID, err)
			}
			out := step
			out.URL = rewritten
			out.Value = payload
			return []model.Step{out}, nil
		}
		// POST case: original navigate, then an input+submit pair targeting
		// the field the session recorder captured for this focus.
		nav := step
		nav.Value = ""

		field := step.Selector
		if field == "" {
			return nil, fmt.Errorf("substitution: %s: %w: POST focus has no target selector", step.ID, model.ErrConfiguration)
		}
		fill := model.Step{
			ID:         step.ID + "#input",
			Kind:       model.StepInput,
			Selector:   field,
			Value:      payload,
			Injectable: true,
			Timestamp:  step.Timestamp,
		}
		submit := model.Step{
			ID:        step.ID + "#submit",
			Kind:      model.StepClick,
			Selector:  vulndriver.SubmitSelector(),
			Timestamp: step.Timestamp,
		}
		return []model.Step{nav, fill, submit}, nil

	case model.StepInput:
		out := step
		out.Value = payload
		return []model.Step{out}, nil

	default:
		// click or any other focus kind carries no payload slot; pass through.
		return []model.Step{step}, nil
	}
}
