package main

import (
	"fmt"

	"github.com/vuesweep/vuesweep/internal/output"
	"github.com/vuesweep/vuesweep/pkg/models"
)

// collectRecords flattens every analysis into the shared record rows used by
// the CSV report. Nil analyses contribute nothing.
func collectRecords(unused *models.UnusedAnalysis, console, insecure *models.PatternAnalysis, audit *models.AuditResult) []models.Record {
	var records []models.Record
	if unused != nil {
		for _, f := range unused.All() {
			records = append(records, f.ToRecord())
		}
	}
	for _, pa := range []*models.PatternAnalysis{console, insecure} {
		if pa == nil {
			continue
		}
		for _, f := range pa.Findings {
			records = append(records, f.ToRecord())
		}
	}
	if audit != nil {
		for _, a := range audit.Advisories {
			records = append(records, a.ToRecord())
		}
	}
	return records
}

// location renders a file:line reference, degrading gracefully when the
// finding has no position (project-wide CSS classes).
func location(file, line string) string {
	if file == "" {
		return "-"
	}
	if line == "" {
		return file
	}
	return file + ":" + line
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func unusedTable(a *models.UnusedAnalysis) *output.Table {
	findings := a.All()
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		r := f.ToRecord()
		rows = append(rows, []string{r.Category, location(r.File, r.Line), r.Code, r.Scope})
	}

	return output.NewTable(
		"Unused Code",
		[]string{"Type", "Location", "Code", "Scope"},
		rows,
		[]string{
			fmt.Sprintf("Total: %d", a.Summary.TotalUnused),
			fmt.Sprintf("CSS: %d", a.Summary.ByKind[string(models.KindCSSClass)]),
			fmt.Sprintf("Exports: %d", a.Summary.ByKind[string(models.KindExport)]),
			fmt.Sprintf("Imports: %d", a.Summary.ByKind[string(models.KindImport)]),
			fmt.Sprintf("Packages: %d", a.Summary.ByKind[string(models.KindPackage)]),
			fmt.Sprintf("Variables: %d", a.Summary.ByKind[string(models.KindVariable)]),
			fmt.Sprintf("Files: %d", a.Summary.FilesScanned),
		},
		a,
	)
}

func patternTable(title string, a *models.PatternAnalysis) *output.Table {
	rows := make([][]string, 0, len(a.Findings))
	for _, f := range a.Findings {
		rows = append(rows, []string{f.Label, fmt.Sprintf("%s:%d", f.File, f.Line), truncate(f.Text, 60)})
	}

	return output.NewTable(
		title,
		[]string{"Pattern", "Location", "Code"},
		rows,
		[]string{
			fmt.Sprintf("Total: %d", a.Summary.TotalFindings),
			fmt.Sprintf("Files: %d", a.Summary.FilesScanned),
		},
		a,
	)
}

// appendAuditSection attaches the audit outcome to the report: the advisory
// table when the audit ran, or a section explaining why it was skipped.
func appendAuditSection(report *output.Report, audit *models.AuditResult, colored bool) {
	if audit == nil {
		return
	}
	if audit.Skipped {
		report.Sections = append(report.Sections, &output.Section{
			Title:   "Dependency Audit",
			Content: "Skipped: " + audit.Reason,
		})
		return
	}
	report.Sections = append(report.Sections, advisoryTable(audit, colored))
}

func advisoryTable(r *models.AuditResult, colored bool) *output.Table {
	rows := make([][]string, 0, len(r.Advisories))
	bySeverity := make(map[string]int)
	for _, adv := range r.Advisories {
		bySeverity[adv.Severity]++
		severity := adv.Severity
		if colored {
			severity = output.SeverityColor(adv.Severity, adv.Severity)
		}
		rows = append(rows, []string{adv.Module, severity, truncate(adv.Title, 60)})
	}

	return output.NewTable(
		"Vulnerable Dependencies",
		[]string{"Package", "Severity", "Advisory"},
		rows,
		[]string{
			fmt.Sprintf("Total: %d", len(r.Advisories)),
			fmt.Sprintf("Critical: %d", bySeverity["critical"]),
			fmt.Sprintf("High: %d", bySeverity["high"]),
		},
		r,
	)
}
