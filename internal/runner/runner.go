// Package runner implements the Session Runner state machine — Loading,
// Executing, Finalizing, Closed — driving one Session's steps against a
// Driver-provided PageContext and dispatching every payload iteration
// through the Plugin Host (spec.md §4.4).
//
// Grounded on 0x6d61-sqleech's Scanner.Scan pipeline shape (baseline
// request once, then loop injection techniques per parameter, tally
// progress via a callback) adapted from HTTP parameters to browser steps
// and payload sets.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/vulcn-dast/vulcn/internal/baseline"
	"github.com/vulcn-dast/vulcn/internal/dedup"
	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
	"github.com/vulcn-dast/vulcn/internal/scanlog"
	"github.com/vulcn-dast/vulcn/internal/substitution"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

// Runner drives one Session at a time against a shared Driver. One Runner
// is reused across every session in a scan (spec.md §5: "Driver: owned by
// Orchestrator, mutated only via serialized Session Runner calls").
type Runner struct {
	driver       vulndriver.Driver
	host         *pluginhost.Host
	payloadSets  map[model.Category]*model.PayloadSet
	categoryOrder []model.Category
	settleWindow time.Duration
	log          *scanlog.Logger
}

// Option configures a Runner, following the functional-options idiom used
// throughout the pack (grounded on sqleech's ScannerOption).
type Option func(*Runner)

// WithSettleWindow overrides the default settle window (30s, spec.md §5).
func WithSettleWindow(d time.Duration) Option {
	return func(r *Runner) { r.settleWindow = d }
}

// New builds a Runner bound to driver and host, with payloadSets indexed
// by category.
func New(driver vulndriver.Driver, host *pluginhost.Host, payloadSets []model.PayloadSet, log *scanlog.Logger, opts ...Option) *Runner {
	byCategory := make(map[model.Category]*model.PayloadSet, len(payloadSets))
	order := make([]model.Category, 0, len(payloadSets))
	for i := range payloadSets {
		c := payloadSets[i].Category
		if existing, ok := byCategory[c]; ok {
			// A later set of an already-seen category extends it rather than
			// replacing it; the category keeps its first position.
			merged := *existing
			merged.Payloads = append(append([]string(nil), existing.Payloads...), payloadSets[i].Payloads...)
			byCategory[c] = &merged
			continue
		}
		byCategory[c] = &payloadSets[i]
		order = append(order, c)
	}
	r := &Runner{
		driver:        driver,
		host:          host,
		payloadSets:   byCategory,
		categoryOrder: order,
		settleWindow:  30 * time.Second,
		log:           log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one Session end to end: Loading, Executing, Finalizing,
// Closed. It always returns a RunResult, even on a fatal error, and always
// fires run_end and closes the page context once Executing is entered
// (spec.md §4.4: "always reach Finalizing once Executing entered").
func (r *Runner) Run(ctx context.Context, session model.Session) (model.RunResult, error) {
	result := model.RunResult{ID: session.Name, SessionName: session.Name}
	start := time.Now()

	// Loading.
	pc, err := r.driver.NewSessionContext(ctx, session.StorageState, session.ExtraHeaders)
	if err != nil {
		result.AddError(fmt.Sprintf("fatal: loading: %v", err))
		return result, fmt.Errorf("runner: %s: loading: %w", session.Name, err)
	}
	r.host.RunStart(session.Name)

	cache := baseline.New()
	var current *pluginhost.PayloadContext
	pc.OnDialog(func(ev vulndriver.DialogEvent) {
		if current == nil {
			r.log.Debug("session %s: dialog during non-injectable step auto-dismissed (benign)", session.Name)
			return
		}
		r.host.Dialog(current, ev)
	})
	pc.OnConsole(func(ev vulndriver.ConsoleEvent) {
		if current != nil {
			r.host.Console(current, ev)
		}
	})
	pc.OnNetworkResponse(func(ev vulndriver.NetworkResponseEvent) {
		if current != nil {
			r.host.NetworkResponse(current, ev)
		}
	})

	// Executing.
	fatal := r.execute(ctx, session, pc, cache, &current, &result)

	// Finalizing.
	result.DurationMillis = time.Since(start).Milliseconds()
	result.Findings = dedup.WithinSession(result.Findings)
	result = r.host.RunEnd(result)

	// Closed.
	if cerr := pc.Close(); cerr != nil {
		result.AddError(fmt.Sprintf("close: %v", cerr))
	}
	cache.Clear()

	return result, fatal
}

// execute drives Executing: non-focus steps run once, the focus step runs
// the baseline pass then the per-payload loop. Returns a non-nil error only
// when a non-injectable step failed (spec.md §4.4 failure semantics: fatal
// to the session, but run_end still fires).
func (r *Runner) execute(ctx context.Context, session model.Session, pc vulndriver.PageContext, cache *baseline.Cache, current **pluginhost.PayloadContext, result *model.RunResult) error {
	focus, hasFocus := session.FocusStep()

	for i := range session.Steps {
		step := session.Steps[i]
		if hasFocus && step.ID == focus.ID {
			continue // handled by runPayloadLoop below, after the plain steps
		}

		outcome, err := pc.ExecuteStep(ctx, step)
		result.StepsExecuted++
		if err != nil {
			result.AddError(fmt.Sprintf("fatal: step %s: %v", step.ID, err))
			return fmt.Errorf("runner: %s: step %s: %w", session.Name, step.ID, err)
		}
		pc.Settle(ctx, r.settleWindow)
		_ = outcome
	}

	if hasFocus {
		r.runPayloadLoop(ctx, session, *focus, pc, cache, current, result)
	}
	return nil
}

// runPayloadLoop implements spec.md §4.4's numbered steps 1-2 for the
// session's focus step: baseline pass, then each payload in each declared
// category, with early exit once a confirmed non-reflection finding exists.
func (r *Runner) runPayloadLoop(ctx context.Context, session model.Session, focus model.Step, pc vulndriver.PageContext, cache *baseline.Cache, current **pluginhost.PayloadContext, result *model.RunResult) {
	// Step 1: baseline pass.
	baseSteps, err := substitution.Apply(focus, model.BaselinePayload)
	if err != nil {
		result.AddError(fmt.Sprintf("baseline substitution: %v", err))
		return
	}
	baseCtx := &pluginhost.PayloadContext{
		Session: session.Name, Step: focus, Payload: model.BaselinePayload,
		IsBaseline: true, Baseline: cache,
	}
	*current = baseCtx
	for _, s := range baseSteps {
		outcome, err := pc.ExecuteStep(ctx, s)
		result.StepsExecuted++
		baseCtx.Outcome = outcome
		if err != nil {
			result.AddError(fmt.Sprintf("baseline step %s: %v", s.ID, err))
			continue
		}
		pc.Settle(ctx, r.settleWindow)
	}
	r.host.AfterPayload(baseCtx)
	*current = nil

	categories := session.Categories()
	if len(categories) == 0 {
		categories = r.allLoadedCategories()
	}

	confirmed := false
	for _, category := range categories {
		if confirmed {
			break
		}
		set := r.payloadSets[category]
		if set == nil {
			continue
		}

		for _, payload := range set.Payloads {
			steps, err := substitution.Apply(focus, payload)
			if err != nil {
				result.AddError(fmt.Sprintf("substitution: %v", err))
				continue
			}

			pctx := &pluginhost.PayloadContext{
				Session: session.Name, Step: focus, Payload: payload,
				Category: category, Baseline: cache,
			}
			if r.host.BeforePayload(pctx) {
				continue // a plugin short-circuited this payload
			}
			*current = pctx

			var lastErr error
			for _, s := range steps {
				outcome, err := pc.ExecuteStep(ctx, s)
				result.StepsExecuted++
				pctx.Outcome = outcome
				if err != nil {
					lastErr = err
					break
				}
				pc.Settle(ctx, r.settleWindow)
			}
			result.PayloadsTested++

			if lastErr != nil {
				result.AddError(fmt.Sprintf("payload %q on step %s: %v", payload, focus.ID, lastErr))
				*current = nil
				continue
			}

			r.host.AfterPayload(pctx)
			*current = nil
			result.Findings = append(result.Findings, pctx.Findings...)

			if hasConfirmedFinding(pctx.Findings, category) {
				confirmed = true
				break
			}
		}
	}
}

// hasConfirmedFinding reports whether findings contains a non-reflection
// finding whose type matches the payload category being iterated — the
// early-exit trigger in spec.md §4.4 step 2f.
func hasConfirmedFinding(findings []model.Finding, category model.Category) bool {
	for _, f := range findings {
		if f.Type == category && f.Type != model.CategoryReflection {
			return true
		}
	}
	return false
}

func (r *Runner) allLoadedCategories() []model.Category {
	return r.categoryOrder
}
