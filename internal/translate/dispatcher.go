// Package translate is the AST Match Dispatcher: it walks a parsed
// translation unit and runs the seven handlers — type, call, builtin
// member, enum-constant reference, launch syntax, shared-incomplete-array,
// string literal — in the fixed precedence the original tool uses.
package translate

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/hipifygo/hipify/internal/diagnose"
	"github.com/hipifygo/hipify/internal/edit"
	"github.com/hipifygo/hipify/internal/frontend"
	"github.com/hipifygo/hipify/internal/literal"
	"github.com/hipifygo/hipify/internal/rename"
	"github.com/hipifygo/hipify/internal/stats"
	"github.com/hipifygo/hipify/pkg/safeconv"
)

// builtinObjects lists the CUDA builtin thread/block identifiers the
// builtin-member handler recognizes as the object half of obj.member. A
// true clang front-end resolves this semantically (the object's struct
// type name starts with rename.BuiltinMemberPrefix); tree-sitter carries
// no type information, so this fixed set of object names stands in for
// that check.
var builtinObjects = map[string]bool{
	"threadIdx": true,
	"blockIdx":  true,
	"blockDim":  true,
	"gridDim":   true,
}

// Dispatcher runs the AST-driven handlers plus the two raw-text extension
// scanners over one parsed translation unit.
type Dispatcher struct {
	tables *rename.Tables
}

// New creates a Dispatcher bound to the process-wide rename tables.
func New(tables *rename.Tables) *Dispatcher {
	return &Dispatcher{tables: tables}
}

type byteRange struct{ start, end uint32 }

func (r byteRange) contains(off uint32) bool { return off >= r.start && off < r.end }

// Run walks tree and emits every edit and diagnostic the translator
// produces for this file into rs, counters, and diag respectively. srcFile
// is used only to stamp diagnostic locations.
func (d *Dispatcher) Run(tree *frontend.Tree, srcFile string, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	src := tree.Source

	launches := frontend.FindLaunches(src)
	sharedArrays := frontend.FindSharedArrays(src)

	skip := make([]byteRange, 0, len(launches)+len(sharedArrays))
	for _, l := range launches {
		skip = append(skip, byteRange{l.FullStart, l.FullEnd})
	}

	for _, s := range sharedArrays {
		skip = append(skip, byteRange{s.DeclStart, s.DeclEnd})
	}

	claimed := make(map[uint32]bool)

	frontend.Walk(tree.Root(), func(n sitter.Node) {
		if n.IsNull() {
			return
		}

		if inSkipRanges(safeconv.MustUintToUint32(n.StartByte()), skip) {
			return
		}

		switch n.Type() {
		case "preproc_include":
			d.handleInclude(n, src, srcFile, rs, counters, diag)

		case "preproc_def", "preproc_function_def":
			d.handleMacroDef(n, src, srcFile, rs, counters, diag)

		case "type_identifier":
			if claimed[safeconv.MustUintToUint32(n.StartByte())] {
				return
			}

			d.handleType(n, src, srcFile, rs, counters, diag)

		case "call_expression":
			fn := n.ChildByFieldName("function")
			if !fn.IsNull() && fn.Type() == "identifier" {
				claimed[safeconv.MustUintToUint32(fn.StartByte())] = true
				d.handleCall(fn, src, srcFile, rs, counters, diag)
			}

		case "field_expression":
			d.handleFieldExpression(n, src, claimed, srcFile, rs, counters, diag)

		case "identifier":
			if claimed[safeconv.MustUintToUint32(n.StartByte())] {
				return
			}

			d.handleEnumConstant(n, src, srcFile, rs, counters, diag)

		case "string_literal":
			d.handleStringLiteral(n, src, rs, counters)
		}
	})

	for _, l := range launches {
		d.handleLaunch(l, src, rs)
	}

	for _, s := range sharedArrays {
		d.handleSharedArray(s, src, rs)
	}

	if rs.Len() > 0 {
		_ = rs.Insert(edit.Edit{Offset: 0, OldLength: 0, NewText: d.tables.RuntimeHeader})
		counters.Hit(rename.ConvInclude, rename.FamilyRuntime, 1, len(d.tables.RuntimeHeader))
	}
}

func inSkipRanges(off uint32, ranges []byteRange) bool {
	for _, r := range ranges {
		if r.contains(off) {
			return true
		}
	}

	return false
}

func lineOf(n sitter.Node) int { return int(n.StartPoint().Row) + 1 }
func colOf(n sitter.Node) int  { return int(n.StartPoint().Column) + 1 }

// handleType is the Type handler: first in precedence order.
func (d *Dispatcher) handleType(n sitter.Node, src []byte, srcFile string, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	name := frontend.Content(n, src)
	name = strings.TrimPrefix(name, "enum ")
	name = strings.TrimPrefix(name, "struct ")

	entry, ok := d.tables.LookupType(name)
	if !ok {
		return
	}

	if entry.Unsupported {
		diag.Warn(diagnose.Location{File: srcFile, Line: lineOf(n), Col: colOf(n)}, "unsupported type '%s'", name)
		counters.Unsupported(entry.ConvType, entry.APIFamily)

		return
	}

	_ = rs.Insert(edit.Edit{Offset: safeconv.MustUintToUint32(n.StartByte()), OldLength: safeconv.MustIntToUint32(len(name)), NewText: entry.DSTName})
	counters.Hit(entry.ConvType, entry.APIFamily, lineOf(n), len(entry.DSTName))
}

// handleCall is the Call handler.
func (d *Dispatcher) handleCall(fn sitter.Node, src []byte, srcFile string, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	name := frontend.Content(fn, src)
	if !strings.HasPrefix(name, rename.IdentPrefix) {
		return
	}

	entry, ok := d.tables.LookupIdent(name)
	if !ok {
		diag.Warn(diagnose.Location{File: srcFile, Line: lineOf(fn), Col: colOf(fn)}, "not handled: '%s' [function call]", name)

		return
	}

	if entry.Unsupported {
		diag.Warn(diagnose.Location{File: srcFile, Line: lineOf(fn), Col: colOf(fn)}, "unsupported function call '%s'", name)
		counters.Unsupported(entry.ConvType, entry.APIFamily)

		return
	}

	_ = rs.Insert(edit.Edit{Offset: safeconv.MustUintToUint32(fn.StartByte()), OldLength: safeconv.MustIntToUint32(len(name)), NewText: entry.DSTName})
	counters.Hit(entry.ConvType, entry.APIFamily, lineOf(fn), len(entry.DSTName))
}

// handleFieldExpression is the Builtin member handler.
func (d *Dispatcher) handleFieldExpression(n sitter.Node, src []byte, claimed map[uint32]bool, srcFile string, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	obj := n.ChildByFieldName("argument")
	field := n.ChildByFieldName("field")

	if obj.IsNull() || field.IsNull() || obj.Type() != "identifier" {
		return
	}

	objName := frontend.Content(obj, src)
	if !builtinObjects[objName] {
		return
	}

	memberName := frontend.Content(field, src)
	memberName = strings.TrimPrefix(memberName, rename.FetchBuiltinPrefix)

	claimed[safeconv.MustUintToUint32(obj.StartByte())] = true
	claimed[safeconv.MustUintToUint32(field.StartByte())] = true

	name := objName + "." + memberName

	entry, ok := d.tables.LookupIdent(name)
	if !ok {
		diag.Warn(diagnose.Location{File: srcFile, Line: lineOf(n), Col: colOf(n)}, "not handled: '%s' [builtin member]", name)

		return
	}

	if entry.Unsupported {
		counters.Unsupported(entry.ConvType, entry.APIFamily)

		return
	}

	_ = rs.Insert(edit.Edit{Offset: safeconv.MustUintToUint32(n.StartByte()), OldLength: safeconv.MustIntToUint32(len(name)), NewText: entry.DSTName})
	counters.Hit(entry.ConvType, entry.APIFamily, lineOf(n), len(entry.DSTName))
}

// handleEnumConstant is the Enum-constant handler, applied to any
// remaining bare identifier (one not already claimed as a call callee or
// a builtin-member sub-node) whose spelling matches the SRC prefix.
func (d *Dispatcher) handleEnumConstant(n sitter.Node, src []byte, srcFile string, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	name := frontend.Content(n, src)
	if !strings.HasPrefix(name, rename.IdentPrefix) {
		return
	}

	entry, ok := d.tables.LookupIdent(name)
	if !ok {
		return
	}

	if entry.Unsupported {
		diag.Warn(diagnose.Location{File: srcFile, Line: lineOf(n), Col: colOf(n)}, "unsupported reference '%s'", name)
		counters.Unsupported(entry.ConvType, entry.APIFamily)

		return
	}

	_ = rs.Insert(edit.Edit{Offset: safeconv.MustUintToUint32(n.StartByte()), OldLength: safeconv.MustIntToUint32(len(name)), NewText: entry.DSTName})
	counters.Hit(entry.ConvType, entry.APIFamily, lineOf(n), len(entry.DSTName))
}

// handleLaunch is the Launch handler: reconstructs the call from verbatim
// sub-ranges per the read-range rule (already applied, since
// frontend.FindLaunches extracts directly from file text).
func (d *Dispatcher) handleLaunch(l frontend.Launch, src []byte, rs *edit.ReplacementSet) {
	shared := l.Shared
	if l.SharedIsDefault {
		shared = "0"
	}

	stream := l.Stream
	if l.StreamIsDefault {
		stream = "0"
	}

	var b strings.Builder

	b.WriteString("hipLaunchKernelGGL(")
	b.WriteString(l.Callee)
	b.WriteString(", dim3(")
	b.WriteString(l.Grid)
	b.WriteString("), dim3(")
	b.WriteString(l.Block)
	b.WriteString("), ")
	b.WriteString(shared)
	b.WriteString(", ")
	b.WriteString(stream)

	if l.KernelArgs != "" {
		b.WriteString(", ")
		b.WriteString(l.KernelArgs)
	}

	b.WriteString(")")

	_ = rs.Insert(edit.Edit{Offset: l.FullStart, OldLength: l.FullEnd - l.FullStart, NewText: b.String()})
}

// handleSharedArray is the Shared-incomplete-array handler.
func (d *Dispatcher) handleSharedArray(s frontend.SharedArray, src []byte, rs *edit.ReplacementSet) {
	repl := "HIP_DYNAMIC_SHARED(" + s.TypeName + ", " + s.VarName + ")"
	_ = rs.Insert(edit.Edit{Offset: s.DeclStart, OldLength: s.DeclEnd - s.DeclStart, NewText: repl})
}

// handleStringLiteral is the String-literal handler: it delegates straight
// to the String Literal Rewriter.
func (d *Dispatcher) handleStringLiteral(n sitter.Node, src []byte, rs *edit.ReplacementSet, counters *stats.Counters) {
	text := frontend.Content(n, src)
	if len(text) < 2 {
		return
	}

	body := text[1 : len(text)-1]
	literal.Rewrite(body, safeconv.MustUintToUint32(n.StartByte())+1, lineOf(n), d.tables, rs, counters)
}

// handleInclude is the Preprocessor Observer's include-directive callback.
func (d *Dispatcher) handleInclude(n sitter.Node, src []byte, srcFile string, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	path := n.ChildByFieldName("path")
	if path.IsNull() || path.Type() != "system_lib_string" {
		return
	}

	text := frontend.Content(path, src)
	if len(text) < 2 {
		return
	}

	name := text[1 : len(text)-1]

	entry, ok := d.tables.LookupInclude(name)
	if !ok {
		return
	}

	if entry.Unsupported {
		diag.Warn(diagnose.Location{File: srcFile, Line: lineOf(n), Col: colOf(n)}, "unsupported header <%s>", name)
		counters.Unsupported(entry.ConvType, entry.APIFamily)

		return
	}

	_ = rs.Insert(edit.Edit{Offset: safeconv.MustUintToUint32(path.StartByte()) + 1, OldLength: safeconv.MustIntToUint32(len(name)), NewText: entry.DSTName})
	counters.Hit(entry.ConvType, entry.APIFamily, lineOf(n), len(entry.DSTName))
}

// handleMacroDef is the Preprocessor Observer's macro-definition callback:
// it re-lexes the opaque preproc_arg replacement list and applies Token
// Rewrite to every identifier and string literal found inside.
func (d *Dispatcher) handleMacroDef(n sitter.Node, src []byte, srcFile string, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	value := n.ChildByFieldName("value")
	if value.IsNull() {
		return
	}

	body := frontend.Content(value, src)
	base := safeconv.MustUintToUint32(value.StartByte())

	for _, tok := range frontend.ReLex(body) {
		abs := base + tok.Offset

		switch tok.Kind {
		case frontend.TokenIdentifier:
			d.tokenRewriteIdent(tok.Text, abs, srcFile, n, rs, counters, diag)
		case frontend.TokenString:
			strBody, bodyOff := frontend.StringBody(tok)
			literal.Rewrite(strBody, base+bodyOff, lineOf(n), d.tables, rs, counters)
		}
	}
}

func (d *Dispatcher) tokenRewriteIdent(name string, offset uint32, srcFile string, n sitter.Node, rs *edit.ReplacementSet, counters *stats.Counters, diag *diagnose.Reporter) {
	if !strings.HasPrefix(name, rename.IdentPrefix) {
		return
	}

	// A macro body re-lexed from raw text carries no syntactic distinction
	// between a type spelling and an identifier (both come back as
	// TokenIdentifier), so a miss in the ident table falls back to the
	// type table before giving up — the original tool's single combined
	// rename map reaches both from one macro-body pass; this split-table
	// version needs the explicit fallback to match it.
	entry, ok := d.tables.LookupIdent(name)
	if !ok {
		entry, ok = d.tables.LookupType(name)
	}

	if !ok {
		return
	}

	if entry.Unsupported {
		diag.Warn(diagnose.Location{File: srcFile, Line: lineOf(n), Col: colOf(n)}, "unsupported reference '%s' in macro body", name)
		counters.Unsupported(entry.ConvType, entry.APIFamily)

		return
	}

	_ = rs.Insert(edit.Edit{Offset: offset, OldLength: safeconv.MustIntToUint32(len(name)), NewText: entry.DSTName})
	counters.Hit(entry.ConvType, entry.APIFamily, lineOf(n), len(entry.DSTName))
}
