package analyzer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/vuesweep/vuesweep/internal/fileproc"
	"github.com/vuesweep/vuesweep/internal/scanner"
	"github.com/vuesweep/vuesweep/pkg/config"
	"github.com/vuesweep/vuesweep/pkg/models"
)

// linePattern pairs a report label with its matching expression. A label
// containing a %s verb is filled from the expression's first capture group,
// taken from the first match on the line.
type linePattern struct {
	label string
	regex *regexp.Regexp
}

// findingLabel resolves the label for a matched line.
func (p linePattern) findingLabel(line string) string {
	if !strings.Contains(p.label, "%s") {
		return p.label
	}
	m := p.regex.FindStringSubmatch(line)
	if len(m) < 2 {
		return p.label
	}
	return fmt.Sprintf(p.label, m[1])
}

// consolePatterns flag leftover debug statements, labeled per level so the
// report keeps Console log, Console warn and Console error apart.
func consolePatterns() []linePattern {
	return []linePattern{
		{"Console %s", regexp.MustCompile(`\bconsole\.(log|warn|error)\b`)},
	}
}

// insecurePatterns flag constructs that commonly introduce script injection
// or sloppy timer usage.
func insecurePatterns() []linePattern {
	return []linePattern{
		{"eval_usage", regexp.MustCompile(`\beval\s*\((.*?)\)`)},
		{"v_html", regexp.MustCompile(`v-html\s*=\s*["'][^"']+["']`)},
		{"settimeout_string", regexp.MustCompile(`\bset(?:Timeout|Interval)\s*\(\s*["'].*?["']`)},
		{"settimeout_variable", regexp.MustCompile(`\bset(?:Timeout|Interval)\s*\(\s*[a-zA-Z_$][a-zA-Z0-9_$]*\s*,\s*.*?\)`)},
	}
}

// PatternScanner walks code files line by line and records every line that
// matches one of its patterns. Vendored paths from the allow-list are
// skipped entirely.
type PatternScanner struct {
	config   *config.Config
	patterns []linePattern
	workers  int
}

// PatternOption is a functional option for configuring PatternScanner.
type PatternOption func(*PatternScanner)

// WithPatternWorkers sets the worker count for file scanning (0 = default).
func WithPatternWorkers(n int) PatternOption {
	return func(p *PatternScanner) {
		p.workers = n
	}
}

// NewConsoleScanner creates a scanner for leftover debug statements.
func NewConsoleScanner(cfg *config.Config, opts ...PatternOption) *PatternScanner {
	return newPatternScanner(cfg, consolePatterns(), opts...)
}

// NewInsecureScanner creates a scanner for insecure constructs.
func NewInsecureScanner(cfg *config.Config, opts ...PatternOption) *PatternScanner {
	return newPatternScanner(cfg, insecurePatterns(), opts...)
}

func newPatternScanner(cfg *config.Config, patterns []linePattern, opts ...PatternOption) *PatternScanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	p := &PatternScanner{config: cfg, patterns: patterns}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AddPattern adds a custom detection pattern. An invalid expression is
// returned as an error so the caller can abort before any scanning starts.
func (p *PatternScanner) AddPattern(label, pattern string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	p.patterns = append(p.patterns, linePattern{label, re})
	return nil
}

// AnalyzeFile scans a single file. Every pattern is tried against every
// line, so one line can produce several findings. The stored text is the
// trimmed line.
func (p *PatternScanner) AnalyzeFile(root, path string) ([]models.PatternFinding, error) {
	rel := scanner.Rel(root, path)
	if p.config.IsVendored(rel) {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var findings []models.PatternFinding
	sc := bufio.NewScanner(file)
	// Minified bundles can carry very long lines.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for sc.Scan() {
		lineNum++
		line := sc.Text()
		for _, pat := range p.patterns {
			if pat.regex.MatchString(line) {
				findings = append(findings, models.PatternFinding{
					Label: pat.findingLabel(line),
					File:  rel,
					Line:  lineNum,
					Text:  strings.TrimSpace(line),
				})
			}
		}
	}

	return findings, sc.Err()
}

// AnalyzeProject scans all code files under root using parallel processing.
func (p *PatternScanner) AnalyzeProject(root string) (*models.PatternAnalysis, error) {
	return p.AnalyzeProjectWithProgress(root, nil)
}

// AnalyzeProjectWithProgress scans with an optional per-file progress callback.
func (p *PatternScanner) AnalyzeProjectWithProgress(root string, onProgress fileproc.ProgressFunc) (*models.PatternAnalysis, error) {
	scan := scanner.NewScanner(p.config)
	files, err := scan.ScanDir(root, p.config.Extensions.Code)
	if err != nil {
		return nil, err
	}
	return p.AnalyzeFiles(context.Background(), root, files, onProgress)
}

// AnalyzeFiles scans an already-discovered file list. Cancelling the context
// aborts the scan with the context's error; individual unreadable files
// degrade to warnings.
func (p *PatternScanner) AnalyzeFiles(ctx context.Context, root string, files []string, onProgress fileproc.ProgressFunc) (*models.PatternAnalysis, error) {
	analysis := &models.PatternAnalysis{
		Summary:    models.NewPatternSummary(),
		AnalyzedAt: time.Now(),
	}
	analysis.Summary.FilesScanned = len(files)

	fileResults, errs := fileproc.ForEachFileWithContext(ctx, files, p.workers, func(path string) ([]models.PatternFinding, error) {
		return p.AnalyzeFile(root, path)
	}, onProgress)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pattern scan: %w", err)
	}
	if errs != nil {
		for _, pe := range errs.Errors {
			analysis.Warnings = append(analysis.Warnings,
				"skipping "+scanner.Rel(root, pe.Path)+": "+pe.Err.Error())
		}
		sort.Strings(analysis.Warnings)
	}

	for _, findings := range fileResults {
		analysis.Findings = append(analysis.Findings, findings...)
	}

	sort.Slice(analysis.Findings, func(i, j int) bool {
		a, b := analysis.Findings[i], analysis.Findings[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Label < b.Label
	})

	for _, f := range analysis.Findings {
		analysis.Summary.AddFinding(f)
	}

	return analysis, nil
}
