package translate_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hipifygo/hipify/internal/diagnose"
	"github.com/hipifygo/hipify/internal/edit"
	"github.com/hipifygo/hipify/internal/frontend"
	"github.com/hipifygo/hipify/internal/rename"
	"github.com/hipifygo/hipify/internal/stats"
	"github.com/hipifygo/hipify/internal/translate"
)

func run(t *testing.T, src string) (string, *stats.Counters, *diagnose.Reporter) {
	t.Helper()

	parser, err := frontend.NewParser()
	require.NoError(t, err)

	tree, err := parser.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	tables := rename.Load()
	d := translate.New(tables)

	rs := edit.New()
	counters := stats.NewCounters("test.cu", nil)

	var buf bytes.Buffer
	diag := diagnose.New(&buf, true)

	d.Run(tree, "test.cu", rs, counters, diag)

	out := rs.Apply([]byte(src))

	return string(out), counters, diag
}

func TestDispatcher_IncludeRewriteInsertsRuntimeHeader(t *testing.T) {
	t.Parallel()

	out, _, _ := run(t, `#include <cuda_runtime.h>
int x;
`)

	assert.Contains(t, out, "#include <hip/hip_runtime.h>")
	assert.Contains(t, out, "hip/hip_runtime.h")
}

func TestDispatcher_TypeAndCallBothRewritten(t *testing.T) {
	t.Parallel()

	out, counters, _ := run(t, `void f() { cudaError_t e = cudaMalloc(ptr, n); }`)

	assert.Contains(t, out, "hipError_t")
	assert.Contains(t, out, "hipMalloc")
	assert.Greater(t, counters.BytesChanged(), 0)
}

func TestDispatcher_LaunchSyntaxFullSpanReplacement(t *testing.T) {
	t.Parallel()

	out, _, _ := run(t, `myKernel<<<grid, block, 0, stream>>>(a, b);`)

	assert.Contains(t, out, "hipLaunchKernelGGL(myKernel, dim3(grid), dim3(block), 0, stream, a, b)")
}

func TestDispatcher_SharedArrayReplacement(t *testing.T) {
	t.Parallel()

	out, _, _ := run(t, `extern __shared__ float buf[];`)

	assert.Contains(t, out, "HIP_DYNAMIC_SHARED(float, buf)")
}

func TestDispatcher_StringLiteralRewrittenInPlace(t *testing.T) {
	t.Parallel()

	out, _, _ := run(t, `const char *msg = "call cudaMalloc now";`)

	assert.Contains(t, out, "hipMalloc")
}

func TestDispatcher_MacroBodyRewrittenAtDefinitionSite(t *testing.T) {
	t.Parallel()

	out, _, _ := run(t, "#define ALLOC(p, n) cudaMalloc(p, n)\n")

	assert.Contains(t, out, "hipMalloc")
}

func TestDispatcher_MacroBodyTypeNameFallsBackToTypeTable(t *testing.T) {
	t.Parallel()

	out, counters, _ := run(t, "#define CHECK(x) do { cudaError_t _e = (x); } while(0)\n")

	assert.Contains(t, out, "hipError_t")
	assert.NotContains(t, out, "cudaError_t")
	assert.Greater(t, counters.BytesChanged(), 0)
}

func TestDispatcher_UnsupportedCallWarnsAndSkipsEdit(t *testing.T) {
	t.Parallel()

	out, counters, diag := run(t, `void f() { cudaProfilerStart(); }`)

	assert.Contains(t, out, "cudaProfilerStart")
	assert.Equal(t, 1, diag.WarnCount())
	assert.Equal(t, 0, counters.BytesChanged())
}

func TestDispatcher_BuiltinMemberRewrite(t *testing.T) {
	t.Parallel()

	out, counters, _ := run(t, `int i = threadIdx.x;`)

	assert.Contains(t, out, "threadIdx.x")
	assert.Greater(t, counters.BytesChanged(), 0)
}

func TestDispatcher_RenameAtByteZeroDoesNotPanicAgainstHeaderInsert(t *testing.T) {
	t.Parallel()

	out, _, _ := run(t, "cudaDeviceSynchronize();\n")

	assert.Contains(t, out, "hipDeviceSynchronize")
	assert.Contains(t, out, "#include <hip/hip_runtime.h>")
	assert.True(t, strings.Index(out, "#include") < strings.Index(out, "hipDeviceSynchronize"))
}

func TestDispatcher_NoMatchesLeavesSourceUntouchedAndNoHeaderInserted(t *testing.T) {
	t.Parallel()

	src := `int x = 1;
`
	out, _, _ := run(t, src)

	assert.Equal(t, src, out)
}
