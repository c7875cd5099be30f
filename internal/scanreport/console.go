// Package scanreport renders a completed model.ScanResult: a severity-
// sorted console table and a timestamped JSON dump. These are the only
// output formats this repo produces — HTML/SARIF rendering is an explicit
// non-goal. Grounded verbatim in idiom on the teacher's
// internal/reporter/console.go (tablewriter + fatih/color) and
// internal/reporter/json.go (MarshalIndent + timestamped filename).
package scanreport

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/vulcn-dast/vulcn/internal/model"
)

// PrintConsoleSummary prints a severity-sorted findings table to stdout.
func PrintConsoleSummary(result model.ScanResult) {
	fmt.Println()
	color.Cyan("═══════════════════════════════════════════════════════════")
	color.Cyan("  SCAN SUMMARY")
	color.Cyan("═══════════════════════════════════════════════════════════")
	fmt.Println()

	fmt.Printf("Scan ID:   %s\n", result.ScanID)
	fmt.Printf("Duration:  %dms\n", result.Aggregate.DurationMillis)
	fmt.Printf("Sessions:  %d\n", len(result.PerSession))
	fmt.Printf("Steps:     %d\n", result.Aggregate.StepsExecuted)
	fmt.Printf("Payloads:  %d\n", result.Aggregate.PayloadsTested)
	fmt.Printf("Findings:  %d\n", len(result.Aggregate.Findings))
	fmt.Println()

	if len(result.Aggregate.Findings) > 0 {
		color.Red("VULNERABILITIES FOUND:")
		fmt.Println()

		findings := append([]model.Finding(nil), result.Aggregate.Findings...)
		sort.Slice(findings, func(i, j int) bool {
			return findings[i].Severity.Weight() > findings[j].Severity.Weight()
		})

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Severity", "Type", "Rule", "Step", "Description"})
		table.SetBorder(false)
		table.SetHeaderColor(
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
			tablewriter.Colors{tablewriter.Bold, tablewriter.FgWhiteColor},
		)

		for _, f := range findings {
			table.Rich([]string{string(f.Severity), string(f.Type), f.RuleID, f.StepID, truncate(f.Description, 60)}, []tablewriter.Colors{
				severityColor(f.Severity),
				{}, {}, {}, {},
			})
		}
		table.Render()
	} else {
		color.Green("No vulnerabilities found.")
	}

	if len(result.Aggregate.Errors) > 0 {
		fmt.Println()
		color.Yellow("Errors recorded during scan: %d", len(result.Aggregate.Errors))
	}
	fmt.Println()
}

func severityColor(s model.Severity) tablewriter.Colors {
	switch s {
	case model.SeverityCritical:
		return tablewriter.Colors{tablewriter.Bold, tablewriter.FgRedColor}
	case model.SeverityHigh:
		return tablewriter.Colors{tablewriter.FgRedColor}
	case model.SeverityMedium:
		return tablewriter.Colors{tablewriter.FgYellowColor}
	case model.SeverityLow:
		return tablewriter.Colors{tablewriter.FgGreenColor}
	default:
		return tablewriter.Colors{}
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
