package models

import "time"

// SymbolKind identifies what sort of declaration an unused finding refers to.
type SymbolKind string

const (
	KindCSSClass SymbolKind = "css-class"
	KindExport   SymbolKind = "export"
	KindImport   SymbolKind = "import"
	KindVariable SymbolKind = "variable"
	KindPackage  SymbolKind = "package"
)

// Scope qualifies a variable finding. Global means the name is unreferenced
// anywhere in the project; local means it is referenced elsewhere but not in
// its own file. Findings for other kinds carry ScopeNone.
type Scope string

const (
	ScopeNone   Scope = ""
	ScopeGlobal Scope = "global"
	ScopeLocal  Scope = "local"
)

// UnusedFinding is a single declared-but-unreferenced symbol.
type UnusedFinding struct {
	Kind  SymbolKind `json:"kind"`
	Name  string     `json:"name"`
	File  string     `json:"file,omitempty"`
	Line  int        `json:"line,omitempty"`
	Scope Scope      `json:"scope,omitempty"`
}

// PatternFinding is a single matched line from the pattern scanner.
type PatternFinding struct {
	Label string `json:"label"`
	File  string `json:"file"`
	Line  int    `json:"line"`
	Text  string `json:"text"`
}

// Advisory is one vulnerability reported by the package manager audit.
type Advisory struct {
	Module   string `json:"module"`
	Severity string `json:"severity"`
	Title    string `json:"title"`
}

// UnusedAnalysis is the full result of the unused-symbol passes.
type UnusedAnalysis struct {
	CSSClasses []UnusedFinding `json:"css_classes"`
	Exports    []UnusedFinding `json:"exports"`
	Imports    []UnusedFinding `json:"imports"`
	Variables  []UnusedFinding `json:"variables"`
	Packages   []UnusedFinding `json:"packages"`
	Warnings   []string        `json:"warnings,omitempty"`
	Summary    UnusedSummary   `json:"summary"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
}

// All returns every finding in report order: CSS classes, exports, imports,
// packages, then variables.
func (a *UnusedAnalysis) All() []UnusedFinding {
	out := make([]UnusedFinding, 0,
		len(a.CSSClasses)+len(a.Exports)+len(a.Imports)+len(a.Packages)+len(a.Variables))
	out = append(out, a.CSSClasses...)
	out = append(out, a.Exports...)
	out = append(out, a.Imports...)
	out = append(out, a.Packages...)
	out = append(out, a.Variables...)
	return out
}

// UnusedSummary provides aggregate statistics.
type UnusedSummary struct {
	FilesScanned int            `json:"files_scanned"`
	TotalUnused  int            `json:"total_unused"`
	ByKind       map[string]int `json:"by_kind"`
}

// NewUnusedSummary creates an initialized summary.
func NewUnusedSummary() UnusedSummary {
	return UnusedSummary{ByKind: make(map[string]int)}
}

// AddFinding updates the summary with a new finding.
func (s *UnusedSummary) AddFinding(f UnusedFinding) {
	s.TotalUnused++
	s.ByKind[string(f.Kind)]++
}

// PatternAnalysis is the full result of a pattern scan.
type PatternAnalysis struct {
	Findings   []PatternFinding `json:"findings"`
	Warnings   []string         `json:"warnings,omitempty"`
	Summary    PatternSummary   `json:"summary"`
	AnalyzedAt time.Time        `json:"analyzed_at"`
}

// PatternSummary provides aggregate statistics.
type PatternSummary struct {
	FilesScanned  int            `json:"files_scanned"`
	TotalFindings int            `json:"total_findings"`
	ByLabel       map[string]int `json:"by_label"`
	ByFile        map[string]int `json:"by_file"`
}

// NewPatternSummary creates an initialized summary.
func NewPatternSummary() PatternSummary {
	return PatternSummary{
		ByLabel: make(map[string]int),
		ByFile:  make(map[string]int),
	}
}

// AddFinding updates the summary with a new finding.
func (s *PatternSummary) AddFinding(f PatternFinding) {
	s.TotalFindings++
	s.ByLabel[f.Label]++
	s.ByFile[f.File]++
}

// AuditResult is the parsed output of the dependency audit.
type AuditResult struct {
	Advisories []Advisory `json:"advisories"`
	Skipped    bool       `json:"skipped,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// AdvisoryWeight returns a numeric weight for sorting audit severities.
func AdvisoryWeight(severity string) int {
	switch severity {
	case "critical":
		return 4
	case "high":
		return 3
	case "moderate", "medium":
		return 2
	case "low":
		return 1
	default:
		return 0
	}
}
