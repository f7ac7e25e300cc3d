package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFrameCounter(t *testing.T) {
	c := NewFrameCounter(time.Second)
	start := time.Unix(1000, 0)

	for i := 0; i < 59; i++ {
		_, ok := c.Tick(start.Add(time.Duration(i) * time.Second / 60))
		assert.False(t, ok)
	}

	fps, ok := c.Tick(start.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, 60, fps)

	// The window restarts at the report time.
	_, ok = c.Tick(start.Add(time.Second + time.Millisecond))
	assert.False(t, ok)

	fps, ok = c.Tick(start.Add(2*time.Second + time.Millisecond))
	assert.True(t, ok)
	assert.Equal(t, 2, fps)
}
