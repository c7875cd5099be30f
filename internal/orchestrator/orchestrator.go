// Package orchestrator implements the Scan Orchestrator (spec.md §4.5):
// one shared Driver across sequential sessions, scan_start/scan_end
// lifecycle, per-session progress callback, aggregate building with
// cross-session dedup, and guaranteed Driver close on every exit path.
//
// Grounded on other_examples' pyneda-sukyan scan orchestrator for the
// "own one shared resource, iterate units of work, fire lifecycle hooks,
// aggregate, guarantee cleanup" idiom — that implementation is a heavier,
// DB-backed, polling phase-machine; ours is in-process and sequential per
// spec.md §5, but the ownership/cleanup discipline is the same.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vulcn-dast/vulcn/internal/dedup"
	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
	"github.com/vulcn-dast/vulcn/internal/runner"
	"github.com/vulcn-dast/vulcn/internal/scanlog"
	"github.com/vulcn-dast/vulcn/internal/vulndriver"
)

// ProgressFunc is the per-session progress callback (spec.md §4.5 step 3:
// "call on_session_start(i, N)").
type ProgressFunc func(index, total int, session model.Session)

// Orchestrator drives a full scan across every session in a run, owning
// the single shared Driver for the scan's lifetime.
type Orchestrator struct {
	driver vulndriver.Driver
	host   *pluginhost.Host
	runner *runner.Runner
	log    *scanlog.Logger

	OnProgress ProgressFunc
}

// New builds an Orchestrator wired to driver/host/runner.
func New(driver vulndriver.Driver, host *pluginhost.Host, r *runner.Runner, log *scanlog.Logger) *Orchestrator {
	return &Orchestrator{driver: driver, host: host, runner: r, log: log}
}

// Run executes the full scan-orchestrator contract over sessions,
// guaranteeing the Driver closes on every exit path, including a panic
// (spec.md §4.5 step 6).
func (o *Orchestrator) Run(ctx context.Context, driverCfg model.DriverConfig, sessions []model.Session) (result model.ScanResult, err error) {
	scanID := uuid.New().String()
	result.ScanID = scanID
	result.StartedAt = time.Now()

	if launchErr := o.driver.Launch(ctx, driverCfg); launchErr != nil {
		result.FinishedAt = time.Now()
		result.Aggregate.AddError(fmt.Sprintf("fatal: launch: %v", launchErr))
		if cerr := o.driver.Close(); cerr != nil {
			o.log.Warn("scan %s: driver close: %v", scanID, cerr)
		}
		return result, fmt.Errorf("orchestrator: launch: %w", launchErr)
	}

	defer func() {
		if rec := recover(); rec != nil {
			result.Aggregate.AddError(fmt.Sprintf("fatal: panic: %v", rec))
			err = fmt.Errorf("orchestrator: recovered panic: %v", rec)
		}
		if cerr := o.driver.Close(); cerr != nil {
			o.log.Warn("scan %s: driver close: %v", scanID, cerr)
		}
	}()

	if startErr := o.host.ScanStart(scanID); startErr != nil {
		result.FinishedAt = time.Now()
		result.Aggregate.AddError(fmt.Sprintf("fatal: %v", startErr))
		return result, fmt.Errorf("orchestrator: scan_start: %w", startErr)
	}

	perSession := make([]model.RunResult, 0, len(sessions))
	var perSessionFindings [][]model.Finding

	for i, session := range sessions {
		if o.OnProgress != nil {
			o.OnProgress(i, len(sessions), session)
		}

		if ctx.Err() != nil {
			result.Aggregate.AddError(fmt.Sprintf("cancelled after %d/%d sessions: %v", i, len(sessions), ctx.Err()))
			break
		}

		runResult, runErr := o.runner.Run(ctx, session)
		if runErr != nil {
			o.log.Warn("scan %s: session %s: %v", scanID, session.Name, runErr)
		}
		perSession = append(perSession, runResult)
		perSessionFindings = append(perSessionFindings, runResult.Findings)
	}

	result.PerSession = perSession
	result.Aggregate.Findings = dedup.Aggregate(perSessionFindings)
	for _, r := range perSession {
		result.Aggregate.StepsExecuted += r.StepsExecuted
		result.Aggregate.PayloadsTested += r.PayloadsTested
		result.Aggregate.Errors = append(result.Aggregate.Errors, r.Errors...)
	}
	result.FinishedAt = time.Now()
	result.Aggregate.DurationMillis = result.FinishedAt.Sub(result.StartedAt).Milliseconds()

	result, endErr := o.host.ScanEnd(result)
	if endErr != nil {
		result.Aggregate.AddError(fmt.Sprintf("fatal: %v", endErr))
		return result, fmt.Errorf("orchestrator: scan_end: %w", endErr)
	}
	return result, nil
}
