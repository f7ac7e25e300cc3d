package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stderr)

	logger := New("test")

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, IsEnabled(Info))

	logger.Notice("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "[test]")

	buf.Reset()
	SetLevel(Debug)
	assert.True(t, IsEnabled(Debug))
	logger.Debugf("frame %d", 42)
	assert.Contains(t, buf.String(), "frame 42")

	buf.Reset()
	SetLevel(Error)
	logger.Warning("quiet")
	assert.Empty(t, buf.String())
	logger.Error("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestVerbosity(t *testing.T) {
	assert.Equal(t, Notice, Verbosity(false, false))
	assert.Equal(t, Info, Verbosity(true, false))
	assert.Equal(t, Debug, Verbosity(false, true))
	assert.Equal(t, Debug, Verbosity(true, true))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", Debug.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "unknown", Level(9).String())
}
