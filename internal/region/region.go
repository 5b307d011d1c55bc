// Package region splits source files into analyzable regions. Markup-hybrid
// files (single-file components) contain script and template blocks embedded
// in markup; plain script and stylesheet files are a single region.
package region

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FileKind classifies a file by how its regions are extracted.
type FileKind int

const (
	KindScript FileKind = iota
	KindStylesheet
	KindMarkup
)

var (
	scriptBlockRe   = regexp.MustCompile(`(?s)<script(?:\s+setup)?[^>]*>(.*?)</script>`)
	templateBlockRe = regexp.MustCompile(`(?s)<template[^>]*>(.*?)</template>`)
)

// KindForPath classifies a path by extension. Anything that is not markup or
// a stylesheet is treated as plain script.
func KindForPath(path string, styleExts []string) FileKind {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".vue" {
		return KindMarkup
	}
	for _, s := range styleExts {
		if ext == s {
			return KindStylesheet
		}
	}
	return KindScript
}

// Block is a contiguous run of script text along with the line in the
// original file where it starts, so findings inside the block can be
// attributed to real file lines.
type Block struct {
	Text      string
	StartLine int
}

// Regions holds the extracted parts of a file.
type Regions struct {
	Scripts  []Block
	Template string
}

// HasScript reports whether any script region was found.
func (r Regions) HasScript() bool {
	return len(r.Scripts) > 0
}

// ScriptText joins all script blocks for whole-file searches.
func (r Regions) ScriptText() string {
	if len(r.Scripts) == 1 {
		return r.Scripts[0].Text
	}
	parts := make([]string, len(r.Scripts))
	for i, b := range r.Scripts {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n")
}

// Extract pulls the regions out of raw file content. Plain script files
// become a single block starting at line 1, stylesheets have no script or
// template regions, and markup files are searched for embedded blocks. A
// markup file without a script block yields no script regions rather than
// falling back to the whole file.
func Extract(kind FileKind, raw string) Regions {
	switch kind {
	case KindScript:
		return Regions{Scripts: []Block{{Text: raw, StartLine: 1}}}
	case KindStylesheet:
		return Regions{}
	}

	var r Regions
	for _, m := range scriptBlockRe.FindAllStringSubmatchIndex(raw, -1) {
		// m[2]:m[3] is the capture group holding the block body.
		r.Scripts = append(r.Scripts, Block{
			Text:      raw[m[2]:m[3]],
			StartLine: lineAt(raw, m[2]),
		})
	}
	if m := templateBlockRe.FindStringSubmatchIndex(raw); m != nil {
		r.Template = raw[m[2]:m[3]]
	}
	return r
}

// lineAt returns the 1-based line number of a byte offset.
func lineAt(raw string, off int) int {
	return 1 + strings.Count(raw[:off], "\n")
}
