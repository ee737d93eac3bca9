package frontend

import (
	"regexp"
	"strings"
)

// launchHeadPattern finds the start of a launch-syntax call: an identifier
// followed by "<<<". The configuration and argument lists are then
// extracted by balanced-delimiter scanning rather than regexp, since both
// can nest arbitrary expressions (including further angle brackets in
// template-like expressions, parens, and commas inside nested calls).
var launchHeadPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*\s*<<<`)

// Launch describes one recognized `callee<<<grid, block[, shared[, stream]]>>>(args)`
// site, with every sub-range's verbatim source text already extracted.
// Vanilla tree-sitter-cpp cannot type this non-standard extension (it lands
// in an ERROR node), so this scanner works directly on raw source bytes as
// the substitute for clang's dedicated CUDAKernelCallExpr AST matcher.
type Launch struct {
	FullStart, FullEnd uint32
	Callee             string
	Grid, Block        string
	Shared, Stream     string
	SharedIsDefault    bool
	StreamIsDefault    bool
	KernelArgs         string
}

// FindLaunches scans src for every launch-syntax call site.
func FindLaunches(src []byte) []Launch {
	text := string(src)

	var out []Launch

	for searchFrom := 0; searchFrom < len(text); {
		loc := launchHeadPattern.FindStringIndex(text[searchFrom:])
		if loc == nil {
			break
		}

		headStart := searchFrom + loc[0]
		chevronOpen := searchFrom + loc[1] - 3 // position of the first '<'

		calleeEnd := chevronOpen

		for calleeEnd > headStart && isSpaceByte(text[calleeEnd-1]) {
			calleeEnd--
		}

		callee := strings.TrimSpace(text[headStart:calleeEnd])

		configEnd, ok := findChevronClose(text, chevronOpen+3)
		if !ok {
			searchFrom = chevronOpen + 3

			continue
		}

		configBody := text[chevronOpen+3 : configEnd]

		parenOpen := configEnd + 3
		for parenOpen < len(text) && isSpaceByte(text[parenOpen]) {
			parenOpen++
		}

		if parenOpen >= len(text) || text[parenOpen] != '(' {
			searchFrom = configEnd + 3

			continue
		}

		parenClose, ok := findParenClose(text, parenOpen)
		if !ok {
			searchFrom = parenOpen + 1

			continue
		}

		args := splitTopLevel(configBody)

		l := Launch{
			FullStart: uint32(headStart),
			FullEnd:   uint32(parenClose + 1),
			Callee:    callee,
		}

		if len(args) > 0 {
			l.Grid = strings.TrimSpace(args[0])
		}

		if len(args) > 1 {
			l.Block = strings.TrimSpace(args[1])
		}

		if len(args) > 2 {
			l.Shared = strings.TrimSpace(args[2])
		} else {
			l.SharedIsDefault = true
		}

		if len(args) > 3 {
			l.Stream = strings.TrimSpace(args[3])
		} else {
			l.StreamIsDefault = true
		}

		l.KernelArgs = strings.TrimSpace(text[parenOpen+1 : parenClose])

		out = append(out, l)

		searchFrom = parenClose + 1
	}

	return out
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// findChevronClose finds the matching ">>>" for a "<<<" that opened at some
// earlier position, given from points just past the opening "<<<".
func findChevronClose(text string, from int) (int, bool) {
	depth := 0

	for i := from; i < len(text); i++ {
		switch {
		case strings.HasPrefix(text[i:], "<<<"):
			depth++
			i += 2
		case strings.HasPrefix(text[i:], ">>>"):
			if depth == 0 {
				return i, true
			}

			depth--
			i += 2
		}
	}

	return 0, false
}

func findParenClose(text string, open int) (int, bool) {
	depth := 0

	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

// splitTopLevel splits s on commas that are not nested inside parens,
// brackets, or braces.
func splitTopLevel(s string) []string {
	var parts []string

	depth := 0
	start := 0

	for i, r := range s {
		switch r {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	parts = append(parts, s[start:])

	return parts
}
