package main

import (
	"testing"

	"github.com/vuesweep/vuesweep/pkg/models"
)

func TestLocation(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		line     string
		expected string
	}{
		{"file and line", "pages/index.vue", "12", "pages/index.vue:12"},
		{"file only", "package.json", "", "package.json"},
		{"neither", "", "", "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := location(tt.file, tt.line); got != tt.expected {
				t.Errorf("location(%q, %q) = %q, want %q", tt.file, tt.line, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 60); got != "short" {
		t.Errorf("expected unchanged string, got %q", got)
	}
	long := "console.log('a very long line that keeps going and going and going')"
	got := truncate(long, 20)
	if len(got) != 20 {
		t.Errorf("expected length 20, got %d (%q)", len(got), got)
	}
	if got[17:] != "..." {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
}

func TestCollectRecords(t *testing.T) {
	unused := &models.UnusedAnalysis{
		CSSClasses: []models.UnusedFinding{
			{Kind: models.KindCSSClass, Name: "btn-old"},
		},
		Packages: []models.UnusedFinding{
			{Kind: models.KindPackage, Name: "left-pad"},
		},
	}
	console := &models.PatternAnalysis{
		Findings: []models.PatternFinding{
			{Label: models.CategoryConsoleLog, File: "app.js", Line: 3, Text: "console.log('hi')"},
		},
	}
	audit := &models.AuditResult{
		Advisories: []models.Advisory{
			{Module: "lodash", Severity: "high", Title: "Prototype Pollution"},
		},
	}

	records := collectRecords(unused, console, nil, audit)
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	if records[0].Category != models.CategoryUnusedCSS || records[0].Code != ".btn-old" {
		t.Errorf("unexpected CSS record: %+v", records[0])
	}
	if records[1].File != "package.json" {
		t.Errorf("package record should point at the manifest, got %+v", records[1])
	}
	if records[2].Category != models.CategoryConsoleLog || records[2].Line != "3" {
		t.Errorf("unexpected console record: %+v", records[2])
	}
	if records[3].Category != models.CategoryVulnerability || records[3].Scope != "high" {
		t.Errorf("unexpected advisory record: %+v", records[3])
	}
}

func TestCollectRecordsAllNil(t *testing.T) {
	if records := collectRecords(nil, nil, nil, nil); len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestUnusedTable(t *testing.T) {
	analysis := &models.UnusedAnalysis{
		Exports: []models.UnusedFinding{
			{Kind: models.KindExport, Name: "deadHelper", File: "utils/helpers.js", Line: 2},
		},
		Variables: []models.UnusedFinding{
			{Kind: models.KindVariable, Name: "orphan", File: "pages/a.vue", Line: 7, Scope: models.ScopeGlobal},
		},
		Summary: models.UnusedSummary{
			TotalUnused: 2,
			ByKind: map[string]int{
				string(models.KindExport):   1,
				string(models.KindVariable): 1,
			},
		},
	}

	table := unusedTable(analysis)
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][1] != "utils/helpers.js:2" {
		t.Errorf("unexpected export location: %q", table.Rows[0][1])
	}
	if table.Rows[1][3] != "global" {
		t.Errorf("expected global scope column, got %q", table.Rows[1][3])
	}
	if table.Footer[0] != "Total: 2" {
		t.Errorf("unexpected footer: %q", table.Footer[0])
	}
}

func TestAdvisoryTable(t *testing.T) {
	result := &models.AuditResult{
		Advisories: []models.Advisory{
			{Module: "minimist", Severity: "critical", Title: "Prototype Pollution"},
			{Module: "lodash", Severity: "low", Title: "ReDoS"},
		},
	}

	table := advisoryTable(result, false)
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][1] != "critical" {
		t.Errorf("expected plain severity when uncolored, got %q", table.Rows[0][1])
	}
	if table.Footer[1] != "Critical: 1" {
		t.Errorf("unexpected footer: %q", table.Footer[1])
	}
}
