package literal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hipifygo/hipify/internal/edit"
	"github.com/hipifygo/hipify/internal/literal"
	"github.com/hipifygo/hipify/internal/rename"
)

type fakeCounter struct {
	hits        int
	unsupported int
}

func (f *fakeCounter) Hit(ct rename.ConvType, fam rename.APIFamily, line int, bytesChanged int) {
	f.hits++
}

func (f *fakeCounter) Unsupported(ct rename.ConvType, fam rename.APIFamily) {
	f.unsupported++
}

func TestRewrite_MatchesWhitespaceDelimitedCandidate(t *testing.T) {
	t.Parallel()

	tables := rename.Load()
	rs := edit.New()
	c := &fakeCounter{}

	body := "call cudaMalloc now"
	literal.Rewrite(body, 100, 1, tables, rs, c)

	require.Equal(t, 1, rs.Len())
	require.Equal(t, 1, c.hits)

	edits := rs.Edits()
	assert.Equal(t, uint32(100+5), edits[0].Offset)
	assert.Equal(t, "hipMalloc", edits[0].NewText)
}

func TestRewrite_PunctuationAdjacentCandidateNotMatched(t *testing.T) {
	t.Parallel()

	tables := rename.Load()
	rs := edit.New()
	c := &fakeCounter{}

	body := "see cudaMalloc, for details"
	literal.Rewrite(body, 0, 1, tables, rs, c)

	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, 0, c.hits)
}

func TestRewrite_UnsupportedEntryCountsButNoEdit(t *testing.T) {
	t.Parallel()

	tables := rename.Load()
	rs := edit.New()
	c := &fakeCounter{}

	body := "cudaProfilerStart here"
	literal.Rewrite(body, 0, 1, tables, rs, c)

	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, 1, c.unsupported)
}

func TestRewrite_NoMatchLeavesReplacementSetEmpty(t *testing.T) {
	t.Parallel()

	tables := rename.Load()
	rs := edit.New()
	c := &fakeCounter{}

	literal.Rewrite("nothing interesting here", 0, 1, tables, rs, c)

	assert.Equal(t, 0, rs.Len())
	assert.Equal(t, 0, c.hits)
	assert.Equal(t, 0, c.unsupported)
}

func TestRewrite_MultiByteBodySkippedEntirely(t *testing.T) {
	t.Parallel()

	tables := rename.Load()
	rs := edit.New()
	c := &fakeCounter{}

	literal.Rewrite("cudaMalloc \xc3\xa9", 0, 1, tables, rs, c)

	assert.Equal(t, 0, rs.Len())
}
