package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWmctrlOutput(t *testing.T) {
	output := `0x03e00003  0 1234   10   20   800  600  kitty.kitty          host Terminal - vim
0x04200001  1 5678  900   40  1000  700  firefox.Firefox      host GitHub - Mozilla Firefox
0x00a00002 -1 4321    0    0  1920   30  polybar.Polybar      host polybar`

	windows, err := parseWmctrlOutput(output, false)
	require.NoError(t, err)
	require.Len(t, windows, 2, "sticky desktop -1 windows are filtered by default")

	assert.Equal(t, "kitty", windows[0].App)
	assert.Equal(t, "Terminal - vim", windows[0].Title)
	assert.Equal(t, 1234, windows[0].PID)
	assert.Equal(t, 10, windows[0].X)
	assert.Equal(t, 20, windows[0].Y)
	assert.Equal(t, 800, windows[0].Width)
	assert.Equal(t, 600, windows[0].Height)

	assert.Equal(t, "firefox", windows[1].App)
	assert.Equal(t, "GitHub - Mozilla Firefox", windows[1].Title)
}

func TestParseWmctrlOutput_IncludeAll(t *testing.T) {
	output := `0x00a00002 -1 4321    0    0  1920   30  polybar.Polybar      host polybar`

	windows, err := parseWmctrlOutput(output, true)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, 1, windows[0].Layer)
}

func TestParseWmctrlOutput_SkipsMalformedLines(t *testing.T) {
	output := "garbage line\n\n0x01 0 1 0 0 100 100 app.App host Title"

	windows, err := parseWmctrlOutput(output, false)
	require.NoError(t, err)
	assert.Len(t, windows, 1)
}

func TestParseHyprlandClients(t *testing.T) {
	payload := `[
		{"at": [0, 0], "size": [1920, 1080], "class": "code", "title": "main.go", "pid": 100, "mapped": true, "hidden": false, "floating": false, "monitor": 0, "workspace": {"id": 1}, "focusHistoryID": 0},
		{"at": [1920, 0], "size": [800, 600], "class": "mpv", "title": "video", "pid": 200, "mapped": true, "hidden": false, "floating": true, "monitor": 1, "workspace": {"id": 2}, "focusHistoryID": 3},
		{"at": [0, 0], "size": [640, 480], "class": "ghost", "title": "hidden", "pid": 300, "mapped": false, "hidden": true, "floating": false, "monitor": 0, "workspace": {"id": 1}, "focusHistoryID": 5}
	]`

	windows, err := parseHyprlandClients([]byte(payload), false)
	require.NoError(t, err)
	require.Len(t, windows, 2, "unmapped windows are filtered by default")

	assert.Equal(t, "code", windows[0].App)
	assert.Equal(t, 0, windows[0].Layer)
	assert.Equal(t, 1, windows[1].Layer, "floating windows go to a higher layer")
	// Lower focusHistoryID means more recently focused, so higher stack order
	assert.Greater(t, windows[0].StackOrder, windows[1].StackOrder)
}

func TestParseHyprlandClients_BadJSON(t *testing.T) {
	_, err := parseHyprlandClients([]byte("{not json"), false)
	assert.Error(t, err)
}

func TestParseXdotoolGeometry(t *testing.T) {
	output := "WINDOW=62914566\nX=10\nY=20\nWIDTH=800\nHEIGHT=600\nSCREEN=0\n"

	x, y, w, h, err := parseXdotoolGeometry(output)
	require.NoError(t, err)
	assert.Equal(t, 10, x)
	assert.Equal(t, 20, y)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestParseXdotoolGeometry_MissingField(t *testing.T) {
	_, _, _, _, err := parseXdotoolGeometry("WINDOW=1\nX=10\nY=20\n")
	assert.Error(t, err)
}

func TestAssignMonitors(t *testing.T) {
	monitors := []Monitor{
		{Index: 0, X: 0, Y: 0, Width: 1920, Height: 1080},
		{Index: 1, X: 1920, Y: 0, Width: 1920, Height: 1080},
	}
	windows := []Window{
		{ID: 1, X: 100, Y: 100, Width: 400, Height: 300},
		{ID: 2, X: 2000, Y: 50, Width: 600, Height: 400},
		{ID: 3, X: 1700, Y: 0, Width: 600, Height: 400}, // straddles, center on monitor 1
	}

	AssignMonitors(windows, monitors)

	assert.Equal(t, 0, windows[0].Monitor)
	assert.Equal(t, 1, windows[1].Monitor)
	assert.Equal(t, 1, windows[2].Monitor)
}
