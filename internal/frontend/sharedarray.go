package frontend

import "regexp"

// sharedArrayPattern recognizes the shared-incomplete-array declaration
// form: "extern __shared__ <type> <name>[];". Like the launch-syntax
// extension, this is non-standard syntax a conforming cpp grammar either
// cannot type or represents via an ERROR node, so it is recovered here by
// direct pattern matching over raw source text rather than AST traversal.
var sharedArrayPattern = regexp.MustCompile(`extern\s+__shared__\s+([A-Za-z_][A-Za-z0-9_ ]*?)\s+([A-Za-z_][A-Za-z0-9_]*)\s*\[\s*\]\s*;`)

// SharedArray describes one recognized declaration site.
type SharedArray struct {
	DeclStart, DeclEnd uint32
	TypeName           string
	VarName            string
}

// FindSharedArrays scans src for every shared-incomplete-array declaration.
func FindSharedArrays(src []byte) []SharedArray {
	text := string(src)

	matches := sharedArrayPattern.FindAllSubmatchIndex(src, -1)

	out := make([]SharedArray, 0, len(matches))

	for _, m := range matches {
		out = append(out, SharedArray{
			DeclStart: uint32(m[0]),
			DeclEnd:   uint32(m[1]),
			TypeName:  text[m[2]:m[3]],
			VarName:   text[m[4]:m[5]],
		})
	}

	return out
}
