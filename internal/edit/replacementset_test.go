package edit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hipifygo/hipify/internal/edit"
)

func TestReplacementSet_Apply_NoEdits_ByteIdentical(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	buf := []byte("unchanged text")

	out := rs.Apply(buf)
	assert.Equal(t, buf, out)
}

func TestReplacementSet_Apply_SingleEdit(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 6, OldLength: 4, NewText: "HIP"}))

	out := rs.Apply([]byte("hello CUDA!"))
	assert.Equal(t, "hello HIP!", string(out))
}

func TestReplacementSet_Insert_DuplicateCoalesces(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	e := edit.Edit{Offset: 0, OldLength: 4, NewText: "abcd"}

	require.NoError(t, rs.Insert(e))
	require.NoError(t, rs.Insert(e))

	assert.Equal(t, 1, rs.Len())
}

func TestReplacementSet_Insert_OverlapRejected(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 0, OldLength: 5, NewText: "abcde"}))

	err := rs.Insert(edit.Edit{Offset: 2, OldLength: 5, NewText: "xxxxx"})
	require.Error(t, err)

	var overlapErr *edit.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, 1, rs.Len())
}

func TestReplacementSet_Insert_ZeroLengthAtSameOffsetOverlaps(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 0, OldLength: 0, NewText: "a"}))

	err := rs.Insert(edit.Edit{Offset: 0, OldLength: 0, NewText: "b"})
	require.Error(t, err)
}

func TestReplacementSet_Apply_MultipleEdits_OutOfOrderInsertionStillAppliesInOffsetOrder(t *testing.T) {
	t.Parallel()

	buf := []byte("AAA---BBB")

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 6, OldLength: 3, NewText: "XYZ"}))
	require.NoError(t, rs.Insert(edit.Edit{Offset: 0, OldLength: 3, NewText: "abc"}))

	out := rs.Apply(buf)
	assert.Equal(t, "abc---XYZ", string(out))
}

func TestReplacementSet_Apply_EmptyNewText_Deletion(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 5, OldLength: 6, NewText: ""}))

	out := rs.Apply([]byte("hello world"))
	assert.Equal(t, "hello", string(out))
}

func TestReplacementSet_Edits_SortedByOffset(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 5, OldLength: 1, NewText: "a"}))
	require.NoError(t, rs.Insert(edit.Edit{Offset: 1, OldLength: 1, NewText: "b"}))

	edits := rs.Edits()
	require.Len(t, edits, 2)
	assert.Equal(t, uint32(1), edits[0].Offset)
	assert.Equal(t, uint32(5), edits[1].Offset)
}

// A zero-length insertion (e.g. the runtime-header prepend, always at
// offset 0) and a replacement that also starts at offset 0 (a renamable
// token at the very start of the file) must not both sort as "offset 0"
// in an order that lets the replacement go first — that would advance
// Apply's cursor past the insertion's offset and slice backwards.
func TestReplacementSet_Apply_ZeroLengthInsertAtSameOffsetAsReplacement(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 0, OldLength: 4, NewText: "hip"}))
	require.NoError(t, rs.Insert(edit.Edit{Offset: 0, OldLength: 0, NewText: "// header\n"}))

	out := rs.Apply([]byte("cudaFoo();"))
	assert.Equal(t, "// header\nhipFoo();", string(out))
}

func TestReplacementSet_Edits_ZeroLengthSortsBeforeReplacementAtSameOffset(t *testing.T) {
	t.Parallel()

	rs := edit.New()
	require.NoError(t, rs.Insert(edit.Edit{Offset: 0, OldLength: 3, NewText: "hip"}))
	require.NoError(t, rs.Insert(edit.Edit{Offset: 0, OldLength: 0, NewText: "// header\n"}))

	edits := rs.Edits()
	require.Len(t, edits, 2)
	assert.Equal(t, uint32(0), edits[0].OldLength)
	assert.Equal(t, uint32(3), edits[1].OldLength)
}
