package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerStop(t *testing.T) {
	tm := NewTimer()
	time.Sleep(5 * time.Millisecond)
	d := tm.Stop()

	assert.GreaterOrEqual(t, d, 5*time.Millisecond)
	assert.Equal(t, d, tm.Elapsed())
}

func TestNamedTimer(t *testing.T) {
	tm := NewNamedTimer("segment")
	tm.Stop()

	assert.Equal(t, "segment", tm.Name())
	assert.Contains(t, tm.String(), "segment:")
}

func TestUnnamedTimerString(t *testing.T) {
	tm := NewTimer()
	tm.Stop()

	assert.Empty(t, tm.Name())
	assert.NotEmpty(t, tm.String())
}
