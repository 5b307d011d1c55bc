package lexical

import (
	"regexp"
	"strings"
)

var classAttrRe = regexp.MustCompile(`class[=:]?\s*["']([^"']+)["']`)

// CountWord counts word-bounded occurrences of name in blob. Names are
// escaped before matching, so punctuation in a name is literal.
func CountWord(name, blob string) int {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(blob, -1))
}

// ContainsWord reports whether name occurs word-bounded in blob.
func ContainsWord(name, blob string) bool {
	return CountWord(name, blob) > 0
}

// UsedClassNames extracts the class tokens referenced by class attributes and
// bindings (`class=`, `:class`, and bare object keys like `class:`) in markup
// or script text. Quoted values are split on whitespace so multi-class
// attributes yield each token.
func UsedClassNames(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, m := range classAttrRe.FindAllStringSubmatch(text, -1) {
		for _, tok := range strings.Fields(m[1]) {
			out[tok] = struct{}{}
		}
	}
	return out
}

// PackageUsed reports whether pkg is referenced anywhere in blob by an
// `import ... from 'pkg'` clause or a `require('pkg')` call. Subpath imports
// like pkg/dist/style.css do not count; only exact module specifiers do.
func PackageUsed(pkg, blob string) bool {
	quoted := regexp.QuoteMeta(pkg)
	re, err := regexp.Compile(`(from\s+['"]` + quoted + `['"]|require\(['"]` + quoted + `['"]\))`)
	if err != nil {
		return false
	}
	return re.MatchString(blob)
}
