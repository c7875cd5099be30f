package detect

import (
	"github.com/vulcn-dast/vulcn/internal/model"
	"github.com/vulcn-dast/vulcn/internal/pluginhost"
)

// ReportPlugin sits last in the pipe (spec.md §4.3: "The report plugin
// sits last") and enforces scan-vs-run semantics: in a scan, per-session
// run_end passes the result through unrendered and scan_end is where the
// report renders (spec.md §4.3:
// "The report plugin tracks a scan_mode flag").
type ReportPlugin struct {
	pluginhost.NoopPlugin

	// Render is called from ScanEnd with the final aggregate, or from RunEnd
	// when ScanStart was never called. It is owned by the caller (cmd/vulcn
	// wires it to scanreport.PrintConsoleSummary) so this plugin stays free
	// of output-format concerns.
	Render func(model.ScanResult)

	scanMode bool
}

func (*ReportPlugin) Name() string { return "report" }

func (p *ReportPlugin) ScanStart(string) error {
	p.scanMode = true
	return nil
}

func (p *ReportPlugin) RunEnd(r model.RunResult) (model.RunResult, error) {
	// Multi-session scans defer rendering to ScanEnd; a single ad hoc run
	// (scanMode never set because ScanStart wasn't called) renders here.
	if !p.scanMode && p.Render != nil {
		p.Render(model.ScanResult{Aggregate: r, PerSession: []model.RunResult{r}})
	}
	return r, nil
}

func (p *ReportPlugin) ScanEnd(r model.ScanResult) (model.ScanResult, error) {
	if p.Render != nil {
		p.Render(r)
	}
	return r, nil
}
