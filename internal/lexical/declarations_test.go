package lexical

import (
	"testing"

	"github.com/vuesweep/vuesweep/internal/region"
)

func TestCSSClasses(t *testing.T) {
	css := `
.btn { color: red; }
.btn-primary:hover { color: blue; }
div.inline { display: inline; }
@media (max-width: 600px) {
  .responsive-nav { display: none; }
}
#id-only { margin: 0; }
`
	got := CSSClasses(css)

	for _, want := range []string{"btn", "btn-primary", "inline", "responsive-nav"} {
		if _, ok := got[want]; !ok {
			t.Errorf("CSSClasses missing %q", want)
		}
	}
	if _, ok := got["id-only"]; ok {
		t.Error("CSSClasses should not pick up id selectors")
	}
}

func TestExports(t *testing.T) {
	blocks := []region.Block{{
		Text: `export const formatDate = (d) => d.toISOString()
export function parseQuery(raw) {}
export class ApiClient {}
export default defineComponent({})
const local = 1
`,
		StartLine: 1,
	}}

	decls := Exports(blocks)
	if len(decls) != 3 {
		t.Fatalf("len(Exports) = %d, want 3", len(decls))
	}

	want := []struct {
		name string
		line int
	}{
		{"formatDate", 1},
		{"parseQuery", 2},
		{"ApiClient", 3},
	}
	for i, w := range want {
		if decls[i].Name != w.name || decls[i].Line != w.line {
			t.Errorf("Exports[%d] = %s@%d, want %s@%d", i, decls[i].Name, decls[i].Line, w.name, w.line)
		}
	}
	if decls[0].LineText != "export const formatDate = (d) => d.toISOString()" {
		t.Errorf("LineText = %q", decls[0].LineText)
	}
}

func TestExportsLineOffsetInBlock(t *testing.T) {
	// Block carved out of a markup file starting at line 10.
	blocks := []region.Block{{
		Text:      "\nconst a = 1\nexport const helper = () => a\n",
		StartLine: 10,
	}}

	decls := Exports(blocks)
	if len(decls) != 1 {
		t.Fatalf("len(Exports) = %d, want 1", len(decls))
	}
	if decls[0].Line != 12 {
		t.Errorf("Line = %d, want 12", decls[0].Line)
	}
}

func TestImports(t *testing.T) {
	blocks := []region.Block{{
		Text: `import { ref, computed } from 'vue'
import { debounce } from "lodash-es"
import defaultOnly from 'axios'
import {
  multiline
} from 'pkg'
`,
		StartLine: 1,
	}}

	stmts := Imports(blocks)
	if len(stmts) != 2 {
		t.Fatalf("len(Imports) = %d, want 2", len(stmts))
	}

	if len(stmts[0].Names) != 2 || stmts[0].Names[0] != "ref" || stmts[0].Names[1] != "computed" {
		t.Errorf("Imports[0].Names = %v", stmts[0].Names)
	}
	if stmts[0].Line != 1 {
		t.Errorf("Imports[0].Line = %d, want 1", stmts[0].Line)
	}
	if stmts[1].Names[0] != "debounce" || stmts[1].Line != 2 {
		t.Errorf("Imports[1] = %v@%d", stmts[1].Names, stmts[1].Line)
	}
	// Default imports and statements split across lines are not matched.
}

func TestVariables(t *testing.T) {
	blocks := []region.Block{{
		Text: `const count = 0
let name = "x"
var legacy = true
const { data, error } = useFetch('/api')
const { retry = 3 } = options
const count = 1
`,
		StartLine: 1,
	}}

	decls := Variables(blocks)

	byName := make(map[string]Decl)
	for _, d := range decls {
		if _, dup := byName[d.Name]; dup {
			t.Errorf("duplicate declaration reported for %q", d.Name)
		}
		byName[d.Name] = d
	}

	want := map[string]int{
		"count":  1, // first declaration wins
		"name":   2,
		"legacy": 3,
		"data":   4,
		"error":  4,
		"retry":  5,
	}
	for name, line := range want {
		d, ok := byName[name]
		if !ok {
			t.Errorf("Variables missing %q", name)
			continue
		}
		if d.Line != line {
			t.Errorf("Variables[%s].Line = %d, want %d", name, d.Line, line)
		}
	}
	if len(decls) != len(want) {
		t.Errorf("len(Variables) = %d, want %d", len(decls), len(want))
	}
}

func TestVariablesDollarNames(t *testing.T) {
	blocks := []region.Block{{Text: "const $ref = useTemplateRef()\n", StartLine: 1}}
	decls := Variables(blocks)
	if len(decls) != 1 || decls[0].Name != "$ref" {
		t.Errorf("Variables = %+v, want $ref", decls)
	}
}
