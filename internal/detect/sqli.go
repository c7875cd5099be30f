package detect

import (
	"fmt"
	"strings"
	"time"

	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
)

// sqlErrorPatterns maps a recognizable error-message substring to a
// (db_family, pattern_id) pair, grounded on the teacher's error-based SQLi
// check (internal/scanner/sqli.go's sqlErrors list), generalized from one
// flat slice into the family/pattern split the baseline cache keys on.
var sqlErrorPatterns = []struct {
	substr    string
	dbFamily  string
	patternID string
}{
	{"SQL syntax", "mysql", "syntax"},
	{"mysql_fetch", "mysql", "fetch"},
	{"PostgreSQL", "postgres", "generic"},
	{"pg_query", "postgres", "pg_query"},
	{"ORA-", "oracle", "ora-code"},
	{"Microsoft SQL", "mssql", "generic"},
	{"ODBC", "mssql", "odbc"},
	{"SQLite", "sqlite", "generic"},
	{"Unclosed quotation mark", "mssql", "unclosed-quote"},
	{"syntax error", "generic", "syntax"},
}

// sleepThreshold is the minimum extra delay (over the baseline duration)
// that counts as a time-based SQLi signal, grounded on the teacher's
// `duration > 5*time.Second` check against a `SLEEP(5)` payload.
const sleepThreshold = 4 * time.Second

// SQLiDetector implements error-based and time-based blind SQLi detection
// (spec.md §4.6, grounded on the teacher's sqli.go).
type SQLiDetector struct {
	pluginhost.NoopPlugin

	baselineDuration map[string]time.Duration
}

func NewSQLiDetector() *SQLiDetector {
	return &SQLiDetector{baselineDuration: make(map[string]time.Duration)}
}

func (d *SQLiDetector) Name() string { return "sqli-detector" }

func (d *SQLiDetector) AfterPayload(ctx *pluginhost.PayloadContext) ([]model.Finding, error) {
	if ctx.IsBaseline {
		d.baselineDuration[ctx.Step.ID] = time.Duration(ctx.Outcome.DurationMillis) * time.Millisecond
		for _, pat := range sqlErrorPatterns {
			if strings.Contains(ctx.Outcome.Body, pat.substr) && ctx.Baseline != nil {
				ctx.Baseline.Observe(ctx.Step.ID, pat.dbFamily, pat.patternID)
			}
		}
		return nil, nil
	}
	if ctx.Category != model.CategorySQLi {
		return nil, nil
	}

	var findings []model.Finding

	if timeBasedPayload(ctx.Payload) {
		observed := time.Duration(ctx.Outcome.DurationMillis) * time.Millisecond
		baseline := d.baselineDuration[ctx.Step.ID]
		if observed-baseline >= sleepThreshold {
			f := model.Finding{
				Type:        model.CategorySQLi,
				Severity:    model.SeverityCritical,
				Title:       "Time-based blind SQL injection",
				Description: fmt.Sprintf("Payload introduced a %v delay over baseline (expected >= %v).", observed-baseline, sleepThreshold),
				StepID:      ctx.Step.ID,
				Payload:     ctx.Payload,
				URL:         ctx.Outcome.URL,
				Evidence:    fmt.Sprintf("observed=%v baseline=%v", observed, baseline),
				Metadata:    map[string]string{"detectionMethod": "timing-based"},
			}
			f.Finalize()
			findings = append(findings, f)
		}
	}

	for _, pat := range sqlErrorPatterns {
		if !strings.Contains(ctx.Outcome.Body, pat.substr) {
			continue
		}
		if ctx.Baseline != nil && !ctx.Baseline.IsNovel(ctx.Step.ID, pat.dbFamily, pat.patternID) {
			continue // same error pattern already present pre-injection
		}
		f := model.Finding{
			Type:        model.CategorySQLi,
			Severity:    model.SeverityCritical,
			Title:       "Database error exposed in response",
			Description: fmt.Sprintf("Response contains a %s-family SQL error pattern (%s) not present in the baseline response.", pat.dbFamily, pat.patternID),
			StepID:      ctx.Step.ID,
			Payload:     ctx.Payload,
			URL:         ctx.Outcome.URL,
			Evidence:    pat.substr,
			Metadata:    map[string]string{"dbFamily": pat.dbFamily, "patternId": pat.patternID},
		}
		f.Finalize()
		findings = append(findings, f)
	}

	return findings, nil
}

func timeBasedPayload(payload string) bool {
	return strings.Contains(payload, "SLEEP") || strings.Contains(payload, "pg_sleep") || strings.Contains(payload, "WAITFOR DELAY")
}
