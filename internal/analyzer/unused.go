package analyzer

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vuesweep/vuesweep/internal/fileproc"
	"github.com/vuesweep/vuesweep/internal/lexical"
	"github.com/vuesweep/vuesweep/internal/region"
	"github.com/vuesweep/vuesweep/internal/scanner"
	"github.com/vuesweep/vuesweep/pkg/config"
	"github.com/vuesweep/vuesweep/pkg/models"
)

// UnusedAnalyzer finds declared-but-unreferenced CSS classes, exports,
// imports, variables and manifest packages across a project tree. Detection
// is lexical: a symbol is "used" when its name occurs word-bounded somewhere
// other than its own declaration, so dynamic references through computed
// strings are still counted.
type UnusedAnalyzer struct {
	config       *config.Config
	workers      int
	skipPackages bool
}

// UnusedOption is a functional option for configuring UnusedAnalyzer.
type UnusedOption func(*UnusedAnalyzer)

// WithUnusedWorkers sets the worker count for file scanning (0 = default).
func WithUnusedWorkers(n int) UnusedOption {
	return func(a *UnusedAnalyzer) {
		a.workers = n
	}
}

// WithUnusedSkipPackages disables the package.json dependency check.
func WithUnusedSkipPackages() UnusedOption {
	return func(a *UnusedAnalyzer) {
		a.skipPackages = true
	}
}

// NewUnusedAnalyzer creates a new unused-symbol analyzer.
func NewUnusedAnalyzer(cfg *config.Config, opts ...UnusedOption) *UnusedAnalyzer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	a := &UnusedAnalyzer{config: cfg}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// fileScan holds everything the classifiers need from one code file. The
// blob is the file's script and template text; style blocks and surrounding
// markup are excluded so selector text never counts as a reference.
type fileScan struct {
	rel         string
	blob        string
	exports     []lexical.Decl
	imports     []lexical.ImportStmt
	variables   []lexical.Decl
	usedClasses map[string]struct{}
}

// AnalyzeProject scans the tree rooted at root and classifies every
// declaration.
func (a *UnusedAnalyzer) AnalyzeProject(root string) (*models.UnusedAnalysis, error) {
	return a.AnalyzeProjectWithProgress(root, nil)
}

// AnalyzeProjectWithProgress scans with an optional per-file progress
// callback. The callback fires once per style or code file.
func (a *UnusedAnalyzer) AnalyzeProjectWithProgress(root string, onProgress fileproc.ProgressFunc) (*models.UnusedAnalysis, error) {
	scan := scanner.NewScanner(a.config)
	styleFiles, err := scan.ScanDir(root, a.config.Extensions.Styles)
	if err != nil {
		return nil, err
	}
	codeFiles, err := scan.ScanDir(root, a.config.Extensions.Code)
	if err != nil {
		return nil, err
	}

	analysis := &models.UnusedAnalysis{
		Summary:    models.NewUnusedSummary(),
		AnalyzedAt: time.Now(),
	}
	analysis.Summary.FilesScanned = len(styleFiles) + len(codeFiles)

	var warnMu sync.Mutex
	warn := func(path string, err error) {
		warnMu.Lock()
		analysis.Warnings = append(analysis.Warnings,
			fmt.Sprintf("skipping %s: %v", scanner.Rel(root, path), err))
		warnMu.Unlock()
	}

	// Style pass: fold every declared class into one project-wide set.
	declaredCSS := make(map[string]struct{})
	styleSets, styleErrs := fileproc.ForEachFileCollectErrors(styleFiles, a.workers, func(path string) (map[string]struct{}, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return lexical.CSSClasses(string(data)), nil
	}, onProgress)
	if styleErrs != nil {
		for _, pe := range styleErrs.Errors {
			warn(pe.Path, pe.Err)
		}
	}
	for _, set := range styleSets {
		for name := range set {
			declaredCSS[name] = struct{}{}
		}
	}

	// Code pass: extract declarations and usage text per file.
	scans := fileproc.ForEachFileN(codeFiles, a.workers, func(path string) (*fileScan, error) {
		return a.scanCodeFile(root, path)
	}, onProgress, warn)

	// Pool scheduling is nondeterministic; sort so repeated runs report
	// findings in the same order.
	sort.Slice(scans, func(i, j int) bool { return scans[i].rel < scans[j].rel })

	usedCSS := make(map[string]struct{})
	var blob strings.Builder
	for _, fs := range scans {
		for name := range fs.usedClasses {
			usedCSS[name] = struct{}{}
		}
		blob.WriteString(fs.blob)
		blob.WriteString("\n")
	}
	project := blob.String()

	a.classifyCSS(analysis, declaredCSS, usedCSS)
	for _, fs := range scans {
		a.classifyExports(analysis, fs, project)
		a.classifyImports(analysis, fs, project)
		a.classifyVariables(analysis, fs, project)
	}
	a.classifyPackages(analysis, root, project)

	return analysis, nil
}

// scanCodeFile reads one code file and extracts its regions, declarations
// and class references.
func (a *UnusedAnalyzer) scanCodeFile(root, path string) (*fileScan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	kind := region.KindForPath(path, a.config.Extensions.Styles)
	regions := region.Extract(kind, string(data))

	blob := regions.ScriptText()
	if regions.Template != "" {
		if blob != "" {
			blob += "\n"
		}
		blob += regions.Template
	}

	fs := &fileScan{
		rel:         scanner.Rel(root, path),
		blob:        blob,
		usedClasses: lexical.UsedClassNames(blob),
	}
	if regions.HasScript() {
		fs.exports = lexical.Exports(regions.Scripts)
		fs.imports = lexical.Imports(regions.Scripts)
		fs.variables = lexical.Variables(regions.Scripts)
	}
	return fs, nil
}

// classifyCSS reports declared classes never referenced by any class
// attribute or binding. Findings carry no file: a class declared in several
// stylesheets is still one finding.
func (a *UnusedAnalyzer) classifyCSS(analysis *models.UnusedAnalysis, declared, used map[string]struct{}) {
	names := make([]string, 0, len(declared))
	for name := range declared {
		if _, ok := used[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		f := models.UnusedFinding{Kind: models.KindCSSClass, Name: name}
		analysis.CSSClasses = append(analysis.CSSClasses, f)
		analysis.Summary.AddFinding(f)
	}
}

// classifyExports reports exports with no reference outside their declaring
// line. The line is removed from the comparison blob first, so the
// declaration itself never keeps an export alive.
func (a *UnusedAnalyzer) classifyExports(analysis *models.UnusedAnalysis, fs *fileScan, project string) {
	for _, d := range fs.exports {
		rest := strings.ReplaceAll(project, d.LineText, "")
		if lexical.ContainsWord(d.Name, rest) {
			continue
		}
		f := models.UnusedFinding{Kind: models.KindExport, Name: d.Name, File: fs.rel, Line: d.Line}
		analysis.Exports = append(analysis.Exports, f)
		analysis.Summary.AddFinding(f)
	}
}

// classifyImports reports imported names with no reference outside their
// import statement. Each name in a multi-name statement is judged on its own.
func (a *UnusedAnalyzer) classifyImports(analysis *models.UnusedAnalysis, fs *fileScan, project string) {
	for _, stmt := range fs.imports {
		rest := strings.ReplaceAll(project, stmt.LineText, "")
		for _, name := range stmt.Names {
			if lexical.ContainsWord(name, rest) {
				continue
			}
			f := models.UnusedFinding{
				Kind:  models.KindImport,
				Name:  name,
				File:  fs.rel,
				Line:  stmt.Line,
				Scope: models.ScopeGlobal,
			}
			analysis.Imports = append(analysis.Imports, f)
			analysis.Summary.AddFinding(f)
		}
	}
}

// classifyVariables reports variables whose name occurs at most once (the
// declaration itself) in the project blob (global) or, failing that, in
// their own file (local). The global check runs first so a name that is dead
// everywhere is never downgraded to a local finding.
func (a *UnusedAnalyzer) classifyVariables(analysis *models.UnusedAnalysis, fs *fileScan, project string) {
	for _, d := range fs.variables {
		var scope models.Scope
		switch {
		case lexical.CountWord(d.Name, project) <= 1:
			scope = models.ScopeGlobal
		case lexical.CountWord(d.Name, fs.blob) <= 1:
			scope = models.ScopeLocal
		default:
			continue
		}
		f := models.UnusedFinding{
			Kind:  models.KindVariable,
			Name:  d.Name,
			File:  fs.rel,
			Line:  d.Line,
			Scope: scope,
		}
		analysis.Variables = append(analysis.Variables, f)
		analysis.Summary.AddFinding(f)
	}
}

// classifyPackages reports manifest dependencies never imported or required.
// A missing manifest degrades to a warning rather than failing the run.
func (a *UnusedAnalyzer) classifyPackages(analysis *models.UnusedAnalysis, root, project string) {
	if a.skipPackages {
		return
	}

	pkgs, err := lexical.DeclaredPackages(root)
	switch {
	case errors.Is(err, os.ErrNotExist):
		analysis.Warnings = append(analysis.Warnings, "package.json not found, skipping dependency check")
		return
	case err != nil:
		analysis.Warnings = append(analysis.Warnings, err.Error())
		return
	}

	for _, pkg := range pkgs {
		if lexical.PackageUsed(pkg, project) {
			continue
		}
		f := models.UnusedFinding{Kind: models.KindPackage, Name: pkg}
		analysis.Packages = append(analysis.Packages, f)
		analysis.Summary.AddFinding(f)
	}
}
