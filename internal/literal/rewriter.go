// Package literal implements the String Literal Rewriter: the scanner that
// finds SRC vendor-prefixed tokens embedded inside string literal bodies
// and in-string header comments.
package literal

import (
	"strings"
	"unicode/utf8"

	"github.com/hipifygo/hipify/internal/edit"
	"github.com/hipifygo/hipify/internal/rename"
	"github.com/hipifygo/hipify/pkg/safeconv"
)

// Counter is the subset of stats.Counters the rewriter needs, kept narrow
// so this package does not import internal/stats.
type Counter interface {
	Hit(ct rename.ConvType, fam rename.APIFamily, line int, bytesChanged int)
	Unsupported(ct rename.ConvType, fam rename.APIFamily)
}

// Rewrite scans body (an already-unquoted string literal's text, or the raw
// text of any other candidate span such as a comment) for occurrences of
// rename.IdentPrefix, looks each whitespace-delimited candidate up in the
// identifier table, and inserts one edit per successful match into rs.
// start is body's byte offset in the owning file (i.e. already past any
// opening quote the caller stripped); line is the 1-based line number body
// begins on, used only for stats.
//
// Per the documented open question this preserves rather than fixes: a
// candidate is delimited by the next whitespace (or end of string) only —
// punctuation-adjacent references such as "cudaMalloc," are therefore
// never matched, because the trailing comma is folded into the candidate
// and the table lookup misses. Do not "fix" this.
func Rewrite(body string, start uint32, line int, tables *rename.Tables, rs *edit.ReplacementSet, counter Counter) {
	if !utf8.ValidString(body) {
		// multi-byte character-width literals (wide/unicode literal
		// prefixes) are skipped entirely; only 1-byte-wide literals are
		// processed.
		return
	}

	for _, r := range body {
		if r > 0x7f {
			return
		}
	}

	n := len(body)

	for b := 0; b < n; {
		idx := strings.Index(body[b:], rename.IdentPrefix)
		if idx < 0 {
			return
		}

		b += idx

		e := b
		for e < n && !isSpace(body[e]) {
			e++
		}

		candidate := body[b:e]

		entry, ok := tables.LookupIdent(candidate)
		if !ok {
			b = e
			continue
		}

		if entry.Unsupported {
			if counter != nil {
				counter.Unsupported(entry.ConvType, entry.APIFamily)
			}

			b = e

			continue
		}

		_ = rs.Insert(edit.Edit{
			Offset:    start + safeconv.MustIntToUint32(b),
			OldLength: safeconv.MustIntToUint32(len(candidate)),
			NewText:   entry.DSTName,
		})

		if counter != nil {
			counter.Hit(entry.ConvType, entry.APIFamily, line, len(entry.DSTName))
		}

		b = e
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
