package scanreport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/vulcn-dast/vulcn/internal/model"
)

func TestWriteJSONReport_WritesValidJSON(t *testing.T) {
	dir := t.TempDir()
	result := model.ScanResult{
		ScanID: "scan-123",
		Aggregate: model.RunResult{
			Findings: []model.Finding{{Type: model.CategoryXSS, Severity: model.SeverityHigh}},
		},
	}

	path, err := WriteJSONReport(result, dir)
	if err != nil {
		t.Fatalf("WriteJSONReport: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("expected file under %s, got %s", dir, path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written report: %v", err)
	}
	var decoded model.ScanResult
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal written report: %v", err)
	}
	if decoded.ScanID != "scan-123" {
		t.Fatalf("unexpected scan id: %s", decoded.ScanID)
	}
}
