package segmentation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskForeground(t *testing.T) {
	m := NewMask(10, 8)
	assert.Equal(t, 10, m.Width())
	assert.Equal(t, 8, m.Height())
	assert.Equal(t, 0, m.ForegroundCount())

	m.SetForeground(3, 2)
	m.SetForeground(9, 7)
	assert.True(t, m.IsForeground(3, 2))
	assert.False(t, m.IsForeground(0, 0))
	assert.Equal(t, 2, m.ForegroundCount())
}

func TestMaskScaleToSource(t *testing.T) {
	m := NewMask(320, 320)
	m.SourceWidth = 640
	m.SourceHeight = 480

	sx, sy := m.ScaleToSource()
	assert.InDelta(t, 2.0, sx, 1e-9)
	assert.InDelta(t, 1.5, sy, 1e-9)
}
