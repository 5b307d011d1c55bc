package analyzer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vuesweep/vuesweep/pkg/models"
)

func TestConsoleScanner(t *testing.T) {
	root := writeProject(t, map[string]string{
		"pages/index.vue": `<template><p>ok</p></template>
<script>
console.log('debug output')
const x = 1
  console.warn("careful")
console.error('boom')
</script>
`,
	})

	s := NewConsoleScanner(testConfig())
	analysis, err := s.AnalyzeProject(root)
	if err != nil {
		t.Fatalf("AnalyzeProject() error: %v", err)
	}

	if len(analysis.Findings) != 3 {
		t.Fatalf("len(Findings) = %d, want 3", len(analysis.Findings))
	}

	first := analysis.Findings[0]
	if first.Label != models.CategoryConsoleLog {
		t.Errorf("Label = %q, want %q", first.Label, models.CategoryConsoleLog)
	}
	if first.File != "pages/index.vue" || first.Line != 3 {
		t.Errorf("first finding at %s:%d, want pages/index.vue:3", first.File, first.Line)
	}
	if first.Text != "console.log('debug output')" {
		t.Errorf("Text = %q, want the trimmed line", first.Text)
	}
	// Indentation is trimmed from the stored line.
	if analysis.Findings[1].Text != `console.warn("careful")` {
		t.Errorf("Text = %q", analysis.Findings[1].Text)
	}

	// Each level is reported under its own label.
	want := map[string]int{
		models.CategoryConsoleLog:   1,
		models.CategoryConsoleWarn:  1,
		models.CategoryConsoleError: 1,
	}
	for label, count := range want {
		if analysis.Summary.ByLabel[label] != count {
			t.Errorf("ByLabel[%s] = %d, want %d", label, analysis.Summary.ByLabel[label], count)
		}
	}
}

func TestConsoleScannerFirstLevelWinsPerLine(t *testing.T) {
	root := writeProject(t, map[string]string{
		"utils/log.js": "console.log(err); console.error(err)\n",
	})

	s := NewConsoleScanner(testConfig())
	analysis, err := s.AnalyzeProject(root)
	if err != nil {
		t.Fatalf("AnalyzeProject() error: %v", err)
	}

	if len(analysis.Findings) != 1 {
		t.Fatalf("len(Findings) = %d, want 1 per line", len(analysis.Findings))
	}
	if analysis.Findings[0].Label != models.CategoryConsoleLog {
		t.Errorf("Label = %q, want the first level on the line", analysis.Findings[0].Label)
	}
}

func TestInsecureScanner(t *testing.T) {
	root := writeProject(t, map[string]string{
		"pages/risky.vue": `<template>
  <div v-html="userContent"></div>
</template>
<script>
eval(payload)
setTimeout("doWork()", 100)
setInterval(tick, 1000)
const safe = window.setTimeout(() => run(), 50)
</script>
`,
	})

	s := NewInsecureScanner(testConfig())
	analysis, err := s.AnalyzeProject(root)
	if err != nil {
		t.Fatalf("AnalyzeProject() error: %v", err)
	}

	byLabel := make(map[string]int)
	lines := make(map[string]int)
	for _, f := range analysis.Findings {
		byLabel[f.Label]++
		lines[f.Label] = f.Line
	}

	want := map[string]int{
		"v_html":              2,
		"eval_usage":          5,
		"settimeout_string":   6,
		"settimeout_variable": 7,
	}
	for label, line := range want {
		if byLabel[label] != 1 {
			t.Errorf("ByLabel[%s] = %d, want 1", label, byLabel[label])
		}
		if lines[label] != line {
			t.Errorf("%s at line %d, want %d", label, lines[label], line)
		}
	}
	// Timer with a function callback is not flagged.
	if len(analysis.Findings) != 4 {
		t.Errorf("len(Findings) = %d, want 4: %+v", len(analysis.Findings), analysis.Findings)
	}
}

func TestPatternScannerMultipleMatchesPerLine(t *testing.T) {
	root := writeProject(t, map[string]string{
		"utils/t.js": `setTimeout("tick()", eval(delay))` + "\n",
	})

	s := NewInsecureScanner(testConfig())
	analysis, err := s.AnalyzeProject(root)
	if err != nil {
		t.Fatalf("AnalyzeProject() error: %v", err)
	}

	if len(analysis.Findings) != 2 {
		t.Fatalf("len(Findings) = %d, want 2 (one per pattern)", len(analysis.Findings))
	}
	for _, f := range analysis.Findings {
		if f.Line != 1 {
			t.Errorf("finding %s at line %d, want 1", f.Label, f.Line)
		}
	}
}

func TestPatternScannerSkipsVendored(t *testing.T) {
	root := writeProject(t, map[string]string{
		"public/cloudflare/js/jquery.min.js": "console.log('vendored')\n",
		"assets/bundle.min.js":               "console.log('minified')\n",
		"pages/app.js":                       "console.log('mine')\n",
	})

	s := NewConsoleScanner(testConfig())
	analysis, err := s.AnalyzeProject(root)
	if err != nil {
		t.Fatalf("AnalyzeProject() error: %v", err)
	}

	if len(analysis.Findings) != 1 {
		t.Fatalf("len(Findings) = %d, want 1: %+v", len(analysis.Findings), analysis.Findings)
	}
	if analysis.Findings[0].File != "pages/app.js" {
		t.Errorf("finding file = %s, want pages/app.js", analysis.Findings[0].File)
	}
}

func TestPatternScannerOrdering(t *testing.T) {
	root := writeProject(t, map[string]string{
		"b.js": "console.log('b')\n",
		"a.js": "const x = 1\nconsole.log('a')\n",
	})

	s := NewConsoleScanner(testConfig())
	analysis, err := s.AnalyzeProject(root)
	if err != nil {
		t.Fatalf("AnalyzeProject() error: %v", err)
	}

	if len(analysis.Findings) != 2 {
		t.Fatalf("len(Findings) = %d, want 2", len(analysis.Findings))
	}
	if analysis.Findings[0].File != "a.js" || analysis.Findings[1].File != "b.js" {
		t.Errorf("findings not ordered by file: %+v", analysis.Findings)
	}
}

func TestAnalyzeFilesCancelled(t *testing.T) {
	root := writeProject(t, map[string]string{
		"a.js": "console.log('a')\n",
		"b.js": "console.log('b')\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewConsoleScanner(testConfig())
	files := []string{filepath.Join(root, "a.js"), filepath.Join(root, "b.js")}
	if _, err := s.AnalyzeFiles(ctx, root, files, nil); err == nil {
		t.Error("AnalyzeFiles() should fail on a cancelled context")
	}
}

func TestAddPattern(t *testing.T) {
	s := NewConsoleScanner(testConfig())

	if err := s.AddPattern("debugger", `\bdebugger\b`); err != nil {
		t.Fatalf("AddPattern() error: %v", err)
	}
	if err := s.AddPattern("bad", `[unclosed`); err == nil {
		t.Error("AddPattern() should reject an invalid expression")
	}
}

func TestAnalyzeFileDirect(t *testing.T) {
	root := writeProject(t, map[string]string{
		"x.js": "eval(code)\n",
	})

	s := NewInsecureScanner(testConfig())
	findings, err := s.AnalyzeFile(root, filepath.Join(root, "x.js"))
	if err != nil {
		t.Fatalf("AnalyzeFile() error: %v", err)
	}
	if len(findings) != 1 || findings[0].Label != "eval_usage" {
		t.Errorf("findings = %+v, want one eval_usage", findings)
	}
}
