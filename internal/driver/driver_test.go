package driver_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hipifygo/hipify/internal/diagnose"
	"github.com/hipifygo/hipify/internal/driver"
	"github.com/hipifygo/hipify/internal/frontend"
	"github.com/hipifygo/hipify/internal/rename"
)

func newDriver(t *testing.T, opts driver.Options) *driver.Driver {
	t.Helper()

	parser, err := frontend.NewParser()
	require.NoError(t, err)

	tables := rename.Load()
	diag := diagnose.New(&bytes.Buffer{}, true)

	return driver.New(tables, parser, diag, nil, opts)
}

func TestDriver_Run_WritesDotHipOutputByDefault(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "kernel.cu")
	require.NoError(t, os.WriteFile(src, []byte(`void f() { cudaMalloc(p, n); }`), 0o644))

	d := newDriver(t, driver.Options{})

	result, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)
	assert.Equal(t, 0, result.FailureCount)
	require.Len(t, result.Counters, 1)

	out, err := os.ReadFile(src + ".hip")
	require.NoError(t, err)
	assert.Contains(t, string(out), "hipMalloc")

	_, err = os.Stat(src + ".hipify-tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestDriver_Run_InPlaceWithBackup(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "kernel.cu")
	original := `void f() { cudaMalloc(p, n); }`
	require.NoError(t, os.WriteFile(src, []byte(original), 0o644))

	d := newDriver(t, driver.Options{InPlace: true})

	_, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)

	rewritten, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "hipMalloc")

	backup, err := os.ReadFile(src + ".prehip")
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))
}

func TestDriver_Run_NoOutputProducesNoFileButStillCounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "kernel.cu")
	require.NoError(t, os.WriteFile(src, []byte(`void f() { cudaMalloc(p, n); }`), 0o644))

	d := newDriver(t, driver.Options{NoOutput: true})

	result, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)
	require.Len(t, result.Counters, 1)
	assert.Greater(t, result.Counters[0].BytesChanged(), 0)

	_, err = os.Stat(src + ".hip")
	assert.True(t, os.IsNotExist(err))
}

func TestDriver_Run_MultipleFilesProcessedIndependently(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := filepath.Join(dir, "a.cu")
	b := filepath.Join(dir, "b.cu")
	require.NoError(t, os.WriteFile(a, []byte(`void f() { cudaMalloc(p, n); }`), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`void g() { cudaFree(p); }`), 0o644))

	d := newDriver(t, driver.Options{})

	result, err := d.Run(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, 0, result.FailureCount)
	require.Len(t, result.Counters, 2)
}

func TestDriver_Run_ParallelMatchesSequentialResultsAndOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	files := make([]string, 0, 6)

	for i := range 6 {
		path := filepath.Join(dir, filepath.Base(t.Name())+string(rune('a'+i))+".cu")
		require.NoError(t, os.WriteFile(path, []byte(`void f() { cudaMalloc(p, n); }`), 0o644))
		files = append(files, path)
	}

	d := newDriver(t, driver.Options{NoOutput: true, Jobs: 4})

	result, err := d.Run(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 0, result.FailureCount)
	require.Len(t, result.Counters, len(files))

	for i, c := range result.Counters {
		assert.Equal(t, files[i], c.SrcName)
		assert.Greater(t, c.BytesChanged(), 0)
	}
}

// Running the translator a second time over its own output must be a
// no-op: every SRC name it could recognize has already become a DST name,
// so a second pass should find nothing left to rewrite. Diffed with the
// same diffmatchpatch library the driver uses for -diff preview output.
func TestDriver_Run_IsIdempotentOnItsOwnOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "kernel.cu")
	require.NoError(t, os.WriteFile(src, []byte(`
#include <cuda_runtime.h>
__global__ void k(int *p) { cudaMalloc((void**)&p, sizeof(int)); }
void launch(int *p) { k<<<1, 1>>>(p); }
`), 0o644))

	d := newDriver(t, driver.Options{})
	_, err := d.Run(context.Background(), []string{src})
	require.NoError(t, err)

	firstPass, err := os.ReadFile(src + ".hip")
	require.NoError(t, err)

	second := filepath.Join(dir, "kernel2.cu")
	require.NoError(t, os.WriteFile(second, firstPass, 0o644))

	_, err = d.Run(context.Background(), []string{second})
	require.NoError(t, err)

	secondPass, err := os.ReadFile(second + ".hip")
	require.NoError(t, err)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(firstPass), string(secondPass), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	for _, diff := range diffs {
		assert.Equal(t, diffmatchpatch.DiffEqual, diff.Type, "unexpected change on second pass: %q", diff.Text)
	}
}
