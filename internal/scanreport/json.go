package scanreport

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vulcn-dast/vulcn/internal/model"
)

// WriteJSONReport writes result as indented JSON under outputDir, in a
// file named scan_report_<timestamp>.json, returning the written path.
func WriteJSONReport(result model.ScanResult, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("scanreport: create output dir %s: %w", outputDir, err)
	}

	filename := filepath.Join(outputDir, fmt.Sprintf("scan_report_%s.json", time.Now().Format("20060102_150405")))

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("scanreport: marshal result: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("scanreport: write %s: %w", filename, err)
	}
	return filename, nil
}
