package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/shai-voice/internal/domain"
)

// isolateHome points the loader at an empty home directory.
func isolateHome(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHAI_VOICE_CONFIG", "")
}

func TestBuildContainerFlushesMetricsOnClose(t *testing.T) {
	isolateHome(t)
	t.Setenv("SHAI_VOICE_METRICS", "true")

	var stderr bytes.Buffer
	c, err := BuildContainer(context.Background(), Options{
		Stdin:  strings.NewReader(""),
		Stdout: &bytes.Buffer{},
		Stderr: &stderr,
	})
	require.NoError(t, err)
	require.True(t, c.Config.MetricsEnabled())

	c.Metrics.RecordExecution(context.Background(), domain.ExecutionResult{Status: domain.StatusSuccess, DurationMS: 40})
	require.NoError(t, c.Close(context.Background()))

	assert.Contains(t, stderr.String(), "shai_voice.assistant.executions")
	assert.NoError(t, c.Close(context.Background()), "second close is a no-op")
}

func TestBuildContainerWithoutMetricsExportsNothing(t *testing.T) {
	isolateHome(t)
	t.Setenv("SHAI_VOICE_METRICS", "")

	var stderr bytes.Buffer
	c, err := BuildContainer(context.Background(), Options{
		Stdin:  strings.NewReader(""),
		Stdout: &bytes.Buffer{},
		Stderr: &stderr,
	})
	require.NoError(t, err)
	assert.False(t, c.Config.MetricsEnabled())

	c.Metrics.RecordExecution(context.Background(), domain.ExecutionResult{Status: domain.StatusSuccess})
	require.NoError(t, c.Close(context.Background()))
	assert.NotContains(t, stderr.String(), "shai_voice.assistant.executions")

	var nilContainer *Container
	assert.NoError(t, nilContainer.Close(context.Background()))
}
