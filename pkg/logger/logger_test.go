package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

func TestSetupProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger.Setup("production", &buf)

	logger.Debug("hidden")
	logger.Info("flag changed", "service", "Market Look")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "flag changed", line["msg"])
	assert.Equal(t, "Market Look", line["service"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger.Setup("local", &a, slog.NewJSONHandler(&b, nil))

	logger.Warn("upgrade prompt")
	assert.Contains(t, a.String(), "upgrade prompt")
	assert.Contains(t, b.String(), "upgrade prompt")
}

func TestWithCtx(t *testing.T) {
	var buf bytes.Buffer
	base := logger.Setup("local", &buf)

	assert.Same(t, base, logger.WithCtx(context.Background()))

	tagged := base.With("request_id", "r-1")
	ctx := logger.InjectLogger(context.Background(), tagged)
	logger.WithCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=r-1")
}
