package obslog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hipifygo/hipify/internal/obslog"
)

func TestServiceHandler_AttachesServiceAndModeAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	handler := obslog.NewServiceHandler(base, "hipify", "cli")

	logger := slog.New(handler)
	logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "service=hipify")
	assert.Contains(t, out, "mode=cli")
	assert.Contains(t, out, "msg=hello")
}

func TestParseLevel_RecognizedValues(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, obslog.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, obslog.ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, obslog.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, obslog.ParseLevel("error"))
}

func TestParseLevel_UnrecognizedDefaultsToInfo(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelInfo, obslog.ParseLevel("bogus"))
	assert.Equal(t, slog.LevelInfo, obslog.ParseLevel(""))
}

func TestNew_BuildsLoggerWritingToStderr(t *testing.T) {
	t.Parallel()

	logger := obslog.New(slog.LevelInfo, "test")
	assert.NotNil(t, logger)
}
