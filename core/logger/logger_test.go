package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bucketdesk/core/logger"
)

func TestNewProductionWritesJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithProduction("bucketdesk"), logger.WithOutput(&buf))

	log.Debug("hidden")
	log.Info("visible", logger.ObjectKey("docs/a.txt"), logger.Error(nil))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "visible", rec["msg"])
	assert.Equal(t, "bucketdesk", rec["service"])
	assert.Equal(t, "production", rec["env"])
	assert.Equal(t, "docs/a.txt", rec["object_key"])
	assert.Contains(t, rec, "ts")
	assert.NotContains(t, rec, "error")
}

func TestNewDevelopmentWritesText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("bucketdesk"), logger.WithTextFormatter(), logger.WithOutput(&buf))

	log.Debug("debugging", logger.Component("router"))

	out := buf.String()
	assert.Contains(t, out, "debugging")
	assert.Contains(t, out, "component=router")
	assert.Contains(t, out, "env=development")
}

func TestWithLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithJSONFormatter(), logger.WithLevel(slog.LevelWarn), logger.WithOutput(&buf))

	log.Info("dropped")
	log.Warn("kept", logger.Error(errors.New("boom")))

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), in)
	}
}

func TestAttrHelpersDropEmptyValues(t *testing.T) {
	t.Parallel()

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.True(t, logger.RequestID("").Equal(slog.Attr{}))
	assert.True(t, logger.ObjectKey("").Equal(slog.Attr{}))
	assert.True(t, logger.Key("k", nil).Equal(slog.Attr{}))
	assert.Equal(t, "upload_id", logger.UploadID("u1").Key)
}

type traceKey struct{}

func TestWithContextExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	extract := func(ctx context.Context) (slog.Attr, bool) {
		id, ok := ctx.Value(traceKey{}).(string)
		return logger.RequestID(id), ok
	}
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithContextExtractors(extract),
	).With(logger.Component("filemanager"))

	log.InfoContext(context.WithValue(context.Background(), traceKey{}, "req-1"), "with id")
	log.InfoContext(context.Background(), "without id")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "req-1", first["request_id"])
	assert.Equal(t, "filemanager", first["component"])
	assert.NotContains(t, second, "request_id")
}
