// Package lexical extracts declarations and counts symbol usage with
// regular expressions. It deliberately stops short of parsing: names are
// matched with word boundaries against raw text, which trades a small
// over-count (comments, strings) for never missing a reference.
package lexical

import (
	"regexp"
	"strings"

	"github.com/vuesweep/vuesweep/internal/region"
)

var (
	cssClassRe    = regexp.MustCompile(`\.([a-zA-Z0-9_-]+)`)
	exportRe      = regexp.MustCompile(`export\s+(?:const|function|class)\s+([a-zA-Z0-9_]+)`)
	importRe      = regexp.MustCompile(`import\s+\{([^}]+)\}\s+from\s+['"][^'"]+['"]`)
	varDirectRe   = regexp.MustCompile(`\b(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=`)
	varDestructRe = regexp.MustCompile(`\b(?:const|let|var)\s*\{([^}]+)\}\s*=`)
	identRe       = regexp.MustCompile(`[a-zA-Z_$][a-zA-Z0-9_$]*`)
)

// Decl is a named declaration attributed to a file line. LineText holds the
// full declaring line so classifiers can remove it before usage checks.
type Decl struct {
	Name     string
	Line     int
	LineText string
}

// ImportStmt is one named-import statement. A single statement can bind
// several names; they share the declaring line.
type ImportStmt struct {
	Names    []string
	Line     int
	LineText string
}

// CSSClasses returns the set of class names declared in stylesheet text.
// Every `.name` selector token counts, including those inside compound
// selectors and media queries.
func CSSClasses(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range cssClassRe.FindAllStringSubmatch(text, -1) {
		out[m[1]] = struct{}{}
	}
	return out
}

// Exports finds named export declarations (const, function, class) in script
// blocks.
func Exports(blocks []region.Block) []Decl {
	var out []Decl
	for _, b := range blocks {
		for _, m := range exportRe.FindAllStringSubmatchIndex(b.Text, -1) {
			out = append(out, Decl{
				Name:     b.Text[m[2]:m[3]],
				Line:     b.StartLine + strings.Count(b.Text[:m[0]], "\n"),
				LineText: lineContaining(b.Text, m[0]),
			})
		}
	}
	return out
}

// Imports finds named-import statements in script blocks. Matching is
// line-oriented, so a statement split across lines is not recognized.
func Imports(blocks []region.Block) []ImportStmt {
	var out []ImportStmt
	for _, b := range blocks {
		for i, line := range strings.Split(b.Text, "\n") {
			for _, m := range importRe.FindAllStringSubmatch(line, -1) {
				var names []string
				for _, n := range strings.Split(m[1], ",") {
					if n = strings.TrimSpace(n); n != "" {
						names = append(names, n)
					}
				}
				if len(names) == 0 {
					continue
				}
				out = append(out, ImportStmt{
					Names:    names,
					Line:     b.StartLine + i,
					LineText: line,
				})
			}
		}
	}
	return out
}

// Variables finds variable declarations in script blocks: direct
// `const|let|var name =` bindings plus each member of an object
// destructuring. Destructured members keep only their leading identifier: a
// default collapses to the bound name, a rename is tracked under the source
// property. Repeated names within a file are reported once, at their first
// declaration.
func Variables(blocks []region.Block) []Decl {
	var out []Decl
	seen := make(map[string]struct{})

	add := func(name string, line int, lineText string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, Decl{Name: name, Line: line, LineText: lineText})
	}

	for _, b := range blocks {
		for _, m := range varDirectRe.FindAllStringSubmatchIndex(b.Text, -1) {
			add(b.Text[m[2]:m[3]],
				b.StartLine+strings.Count(b.Text[:m[0]], "\n"),
				lineContaining(b.Text, m[0]))
		}
		for _, m := range varDestructRe.FindAllStringSubmatchIndex(b.Text, -1) {
			line := b.StartLine + strings.Count(b.Text[:m[0]], "\n")
			lineText := lineContaining(b.Text, m[0])
			for _, piece := range strings.Split(b.Text[m[2]:m[3]], ",") {
				if name := identRe.FindString(strings.TrimSpace(piece)); name != "" {
					add(name, line, lineText)
				}
			}
		}
	}
	return out
}

// lineContaining returns the full line of text surrounding a byte offset.
func lineContaining(s string, off int) string {
	start := strings.LastIndexByte(s[:off], '\n') + 1
	end := strings.IndexByte(s[off:], '\n')
	if end < 0 {
		return s[start:]
	}
	return s[start : off+end]
}
