package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/stateworks/internal/logging"
	"github.com/aretw0/stateworks/pkg/observability"
	"github.com/aretw0/stateworks/pkg/wordcount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelDebug, false)

	_, err := wordcount.Count(context.Background(), "a", wordcount.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=cycle_start")
	assert.Contains(t, out, "msg=transition")
	assert.Contains(t, out, "from=out_word to=in_word")
	assert.Contains(t, out, "action=increment_counter phase=transition")
	assert.Contains(t, out, "msg=cycle_settled")
}

func TestLogHooks_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo, false)

	_, err := wordcount.Count(context.Background(), "a", wordcount.WithLifecycleHooks(observability.LogHooks(logger)))
	require.NoError(t, err)

	assert.NotContains(t, buf.String(), "msg=transition")
	assert.Contains(t, buf.String(), "msg=cycle_settled")
}
