// Package edit implements the ReplacementSet: the sole mutation channel
// through which every handler in this translator expresses a change. No
// handler ever touches a file buffer directly; it only inserts Edits.
package edit

import (
	"fmt"
	"sort"
)

// Edit is a single byte-range replacement scoped to one file.
type Edit struct {
	Offset    uint32
	OldLength uint32
	NewText   string
}

func (e Edit) end() uint32 { return e.Offset + e.OldLength }

// OverlapError is returned by Insert when two non-identical edits cover
// overlapping byte ranges. The translator treats this as a bug in a
// handler, not a reason to crash: the rejected edit is dropped and
// translation moves on.
type OverlapError struct {
	New, Existing Edit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping edits at offset %d: new %+v conflicts with existing %+v", e.New.Offset, e.New, e.Existing)
}

// ReplacementSet is a per-file container of Edits with overlap rejection
// and a deterministic apply order.
type ReplacementSet struct {
	edits []Edit
}

// New returns an empty ReplacementSet.
func New() *ReplacementSet {
	return &ReplacementSet{}
}

// Len reports how many distinct edits are currently held.
func (r *ReplacementSet) Len() int { return len(r.edits) }

// Insert adds e to the set. An edit identical in (offset, old_length,
// new_text) to one already present is silently dropped. An edit that
// overlaps an existing one with different content is rejected with an
// OverlapError; the caller decides how to report it. This translator's
// handlers discard the error: the rejected edit is neither applied nor
// counted in stats.
func (r *ReplacementSet) Insert(e Edit) error {
	for _, existing := range r.edits {
		if existing.Offset == e.Offset && existing.OldLength == e.OldLength && existing.NewText == e.NewText {
			return nil
		}

		if overlaps(existing, e) {
			return &OverlapError{New: e, Existing: existing}
		}
	}

	r.edits = append(r.edits, e)

	return nil
}

func overlaps(a, b Edit) bool {
	if a.OldLength == 0 && b.OldLength == 0 {
		return a.Offset == b.Offset
	}

	return a.Offset < b.end() && b.Offset < a.end()
}

// Edits returns the edits in ascending offset order. The slice is owned by
// the caller.
//
// Within one offset, zero-length insertions sort before any replacement:
// the runtime-header insert the Preprocessor Observer always prepends at
// offset 0 must apply before a rename that happens to start at byte 0, or
// Apply's running cursor would advance past that rename's start and slice
// backwards. SliceStable keeps ties (two zero-length inserts, or two
// replacements) in insertion order.
func (r *ReplacementSet) Edits() []Edit {
	out := make([]Edit, len(r.edits))
	copy(out, r.edits)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Offset != out[j].Offset {
			return out[i].Offset < out[j].Offset
		}

		return out[i].OldLength < out[j].OldLength
	})

	return out
}

// Apply produces the rewritten buffer. Edits are applied in increasing
// offset order via a single pass with a running length delta, which is
// equivalent to applying them in decreasing offset order against the
// original buffer — both disciplines yield the same output because edits
// never overlap.
func (r *ReplacementSet) Apply(buf []byte) []byte {
	edits := r.Edits()
	if len(edits) == 0 {
		out := make([]byte, len(buf))
		copy(out, buf)

		return out
	}

	out := make([]byte, 0, len(buf))

	var cursor uint32

	for _, e := range edits {
		if e.Offset > uint32(len(buf)) {
			continue
		}

		// The tie-break in Edits() should make this unreachable; guarded
		// here too so a future ordering regression can't slice backwards.
		if cursor > e.Offset {
			continue
		}

		out = append(out, buf[cursor:e.Offset]...)
		out = append(out, e.NewText...)

		cursor = e.Offset + e.OldLength
		if cursor > uint32(len(buf)) {
			cursor = uint32(len(buf))
		}
	}

	out = append(out, buf[cursor:]...)

	return out
}
