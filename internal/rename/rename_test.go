package rename_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hipifygo/hipify/internal/rename"
)

func TestLoad_LookupIdent_Found(t *testing.T) {
	t.Parallel()

	tables := rename.Load()

	entry, ok := tables.LookupIdent("cudaMalloc")
	require.True(t, ok)
	assert.Equal(t, "hipMalloc", entry.DSTName)
	assert.False(t, entry.Unsupported)
}

func TestLoad_LookupIdent_Unsupported(t *testing.T) {
	t.Parallel()

	tables := rename.Load()

	entry, ok := tables.LookupIdent("cudaProfilerStart")
	require.True(t, ok)
	assert.True(t, entry.Unsupported)
}

func TestLoad_LookupIdent_NotFound(t *testing.T) {
	t.Parallel()

	tables := rename.Load()

	_, ok := tables.LookupIdent("notARealSymbol")
	assert.False(t, ok)
}

func TestLoad_LookupType_Found(t *testing.T) {
	t.Parallel()

	tables := rename.Load()

	entry, ok := tables.LookupType("cudaError_t")
	require.True(t, ok)
	assert.Equal(t, "hipError_t", entry.DSTName)
}

func TestLoad_IdentAndTypeAreIndependentNamespaces(t *testing.T) {
	t.Parallel()

	tables := rename.Load()

	_, identOK := tables.LookupIdent("cudaStream_t")
	_, typeOK := tables.LookupType("cudaStream_t")

	assert.False(t, identOK)
	assert.True(t, typeOK)
}

func TestLoad_LookupInclude_Found(t *testing.T) {
	t.Parallel()

	tables := rename.Load()

	entry, ok := tables.LookupInclude("cuda_runtime.h")
	require.True(t, ok)
	assert.Equal(t, "hip/hip_runtime.h", entry.DSTName)
}

func TestLoad_RuntimeHeaderIsLiteral(t *testing.T) {
	t.Parallel()

	tables := rename.Load()
	assert.Equal(t, "#include <hip/hip_runtime.h>\n", tables.RuntimeHeader)
}

func TestConvType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "memory", rename.ConvMemory.String())
	assert.Equal(t, "include", rename.ConvInclude.String())
	assert.Equal(t, "type", rename.ConvType_.String())
}

func TestAPIFamily_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "runtime", rename.FamilyRuntime.String())
	assert.Equal(t, "driver", rename.FamilyDriver.String())
}
