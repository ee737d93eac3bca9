package diagnose_test

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hipifygo/hipify/internal/diagnose"
)

func TestReporter_Warn_FormatsLineAndIncrementsCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := diagnose.New(&buf, true)

	r.Warn(diagnose.Location{File: "foo.cu", Line: 3, Col: 5}, "unsupported symbol %s", "cuCtxCreate")

	assert.Equal(t, 1, r.WarnCount())
	assert.Equal(t, 0, r.ErrCount())
	assert.Contains(t, buf.String(), "[HIPIFY] warning: foo.cu:3:5: unsupported symbol cuCtxCreate")
}

func TestReporter_Error_FormatsLineAndIncrementsCount(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := diagnose.New(&buf, true)

	r.Error(diagnose.Location{File: "bar.cu", Line: 1, Col: 1}, "parse failed")

	assert.Equal(t, 1, r.ErrCount())
	assert.Equal(t, 0, r.WarnCount())
	assert.Contains(t, buf.String(), "[HIPIFY] error: bar.cu:1:1: parse failed")
}

func TestReporter_MultipleDiagnosticsAccumulateCounts(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := diagnose.New(&buf, true)

	r.Warn(diagnose.Location{File: "a.cu", Line: 1, Col: 1}, "one")
	r.Warn(diagnose.Location{File: "a.cu", Line: 2, Col: 1}, "two")
	r.Error(diagnose.Location{File: "a.cu", Line: 3, Col: 1}, "three")

	assert.Equal(t, 2, r.WarnCount())
	assert.Equal(t, 1, r.ErrCount())
}

func TestReporter_SafeForConcurrentUseAcrossWorkers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := diagnose.New(&buf, true)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			r.Warn(diagnose.Location{File: "f.cu", Line: 1, Col: 1}, "concurrent")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, r.WarnCount())
}
