package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aleister1102/screentrack/internal/capture"
)

func TestDrawMonitorLayout_SingleMonitor(t *testing.T) {
	monitors := []capture.Monitor{
		{Index: 0, X: 0, Y: 0, Width: 1920, Height: 1080, Primary: true},
	}

	sketch := drawMonitorLayout(monitors, 40)
	lines := strings.Split(strings.TrimRight(sketch, "\n"), "\n")

	assert.Len(t, lines[0], 40)
	assert.NotContains(t, sketch, ".")
	assert.Contains(t, sketch, "0")
}

func TestDrawMonitorLayout_SideBySide(t *testing.T) {
	monitors := []capture.Monitor{
		{Index: 0, X: 0, Y: 0, Width: 1920, Height: 1080},
		{Index: 1, X: 1920, Y: 0, Width: 1920, Height: 1080},
	}

	sketch := drawMonitorLayout(monitors, 40)
	lines := strings.Split(strings.TrimRight(sketch, "\n"), "\n")

	// left half monitor 0, right half monitor 1
	assert.True(t, strings.HasPrefix(lines[0], "0"))
	assert.True(t, strings.HasSuffix(lines[0], "1"))
	assert.Contains(t, lines[0], "01")
}

func TestDrawMonitorLayout_Empty(t *testing.T) {
	assert.Empty(t, drawMonitorLayout(nil, 40))
	assert.Empty(t, drawMonitorLayout([]capture.Monitor{{Width: 100, Height: 100}}, 0))
}
