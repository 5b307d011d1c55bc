package models

import "strconv"

// Record is a flat report row shared by every finding kind. File, Line and
// Scope are empty when they do not apply (project-wide CSS classes, missing
// manifest packages).
type Record struct {
	Category string `json:"category"`
	File     string `json:"file,omitempty"`
	Line     string `json:"line,omitempty"`
	Code     string `json:"code"`
	Scope    string `json:"scope,omitempty"`
}

// Category labels used in flat reports.
const (
	CategoryUnusedCSS      = "Unused CSS"
	CategoryDeadExport     = "Dead Export"
	CategoryUnusedImport   = "Unused Import"
	CategoryUnusedVariable = "Unused Variable"
	CategoryUnusedPackage  = "Unused Package"
	CategoryConsoleLog     = "Console log"
	CategoryConsoleWarn    = "Console warn"
	CategoryConsoleError   = "Console error"
	CategoryVulnerability  = "Vulnerability"
)

// CategoryFor maps a symbol kind to its report label.
func CategoryFor(kind SymbolKind) string {
	switch kind {
	case KindCSSClass:
		return CategoryUnusedCSS
	case KindExport:
		return CategoryDeadExport
	case KindImport:
		return CategoryUnusedImport
	case KindVariable:
		return CategoryUnusedVariable
	case KindPackage:
		return CategoryUnusedPackage
	default:
		return string(kind)
	}
}

// ToRecord flattens an unused finding into a report row. CSS class names are
// rendered in selector form and package findings point at the manifest.
func (f UnusedFinding) ToRecord() Record {
	r := Record{
		Category: CategoryFor(f.Kind),
		File:     f.File,
		Code:     f.Name,
		Scope:    string(f.Scope),
	}
	if f.Line > 0 {
		r.Line = strconv.Itoa(f.Line)
	}
	switch f.Kind {
	case KindCSSClass:
		r.Code = "." + f.Name
	case KindPackage:
		r.File = "package.json"
	}
	return r
}

// ToRecord flattens a pattern finding into a report row.
func (f PatternFinding) ToRecord() Record {
	return Record{
		Category: f.Label,
		File:     f.File,
		Line:     strconv.Itoa(f.Line),
		Code:     f.Text,
	}
}

// ToRecord flattens an advisory into a report row.
func (a Advisory) ToRecord() Record {
	return Record{
		Category: CategoryVulnerability,
		File:     "package.json",
		Code:     a.Module + ": " + a.Title,
		Scope:    a.Severity,
	}
}
