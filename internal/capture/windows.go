package capture

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aleister1102/screentrack/internal/errorwrapper"
	"github.com/rs/zerolog"
)

// Window describes one on-screen window at capture time
type Window struct {
	ID             int     `json:"id"`
	Title          string  `json:"title"`
	App            string  `json:"app"`
	PID            int     `json:"pid"`
	X              int     `json:"x"`
	Y              int     `json:"y"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Layer          int     `json:"layer"`
	StackOrder     int     `json:"stack_order"`
	Monitor        int     `json:"monitor"`
	VisiblePercent float64 `json:"visible_percent"`
}

// WindowEnumerator lists on-screen windows using the display server's tooling
type WindowEnumerator struct {
	platform *Platform
	logger   zerolog.Logger
}

// NewWindowEnumerator creates a new WindowEnumerator
func NewWindowEnumerator(platform *Platform, logger zerolog.Logger) *WindowEnumerator {
	return &WindowEnumerator{
		platform: platform,
		logger:   logger.With().Str("component", "WindowEnumerator").Logger(),
	}
}

// List returns the current window list ordered back to front. When includeAll
// is false, non-normal layers (panels, docks, overlays) are filtered out.
func (we *WindowEnumerator) List(ctx context.Context, includeAll bool) ([]Window, error) {
	switch we.platform.DisplayServer {
	case DisplayServerHyprland, DisplayServerSway:
		if !we.platform.HasHyprctl {
			return nil, errorwrapper.NewError("hyprctl not found in PATH, window enumeration unavailable")
		}
		return we.listHyprland(ctx, includeAll)
	case DisplayServerX11:
		if we.platform.HasWmctrl {
			return we.listX11(ctx, includeAll)
		}
		if we.platform.HasXdotool {
			return we.listXdotool(ctx, includeAll)
		}
		return nil, errorwrapper.NewError("neither wmctrl nor xdotool found in PATH, window enumeration unavailable")
	default:
		return nil, errorwrapper.NewError("window enumeration not supported on %s", we.platform.DisplayServer)
	}
}

// hyprlandClient mirrors the objects returned by `hyprctl clients -j`
type hyprlandClient struct {
	At       [2]int `json:"at"`
	Size     [2]int `json:"size"`
	Class    string `json:"class"`
	Title    string `json:"title"`
	PID      int    `json:"pid"`
	Mapped   bool   `json:"mapped"`
	Hidden   bool   `json:"hidden"`
	Floating bool   `json:"floating"`
	Monitor  int    `json:"monitor"`
	Workspace struct {
		ID int `json:"id"`
	} `json:"workspace"`
	FocusHistoryID int `json:"focusHistoryID"`
}

// listHyprland enumerates windows via hyprctl
func (we *WindowEnumerator) listHyprland(ctx context.Context, includeAll bool) ([]Window, error) {
	cmd := exec.CommandContext(ctx, "hyprctl", "clients", "-j")
	output, err := cmd.Output()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "hyprctl clients failed")
	}
	return parseHyprlandClients(output, includeAll)
}

// parseHyprlandClients parses hyprctl clients JSON output into windows.
// Hyprland does not expose a z-order; focus history is used as a proxy
// (most recently focused is frontmost).
func parseHyprlandClients(output []byte, includeAll bool) ([]Window, error) {
	var clients []hyprlandClient
	if err := json.Unmarshal(output, &clients); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to parse hyprctl clients output")
	}

	windows := make([]Window, 0, len(clients))
	for i, cl := range clients {
		if !includeAll && (!cl.Mapped || cl.Hidden) {
			continue
		}
		layer := 0
		if cl.Floating {
			layer = 1
		}
		windows = append(windows, Window{
			ID:         i + 1,
			Title:      cl.Title,
			App:        cl.Class,
			PID:        cl.PID,
			X:          cl.At[0],
			Y:          cl.At[1],
			Width:      cl.Size[0],
			Height:     cl.Size[1],
			Layer:      layer,
			StackOrder: -cl.FocusHistoryID,
			Monitor:    cl.Monitor,
		})
	}
	return windows, nil
}

// listX11 enumerates windows via wmctrl
func (we *WindowEnumerator) listX11(ctx context.Context, includeAll bool) ([]Window, error) {
	cmd := exec.CommandContext(ctx, "wmctrl", "-lGpx")
	output, err := cmd.Output()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "wmctrl failed")
	}
	return parseWmctrlOutput(string(output), includeAll)
}

// parseWmctrlOutput parses `wmctrl -lGpx` lines:
//
//	0x03e00003 0 1234 10 20 800 600 class.Class host Window Title
//
// wmctrl lists windows in stacking order, bottom first. Desktop -1 marks
// sticky / dock windows.
func parseWmctrlOutput(output string, includeAll bool) ([]Window, error) {
	var windows []Window
	id := 0
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 9 {
			continue
		}

		desktop, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		if !includeAll && desktop == -1 {
			continue
		}

		pid, _ := strconv.Atoi(fields[2])
		x, errX := strconv.Atoi(fields[3])
		y, errY := strconv.Atoi(fields[4])
		w, errW := strconv.Atoi(fields[5])
		h, errH := strconv.Atoi(fields[6])
		if errX != nil || errY != nil || errW != nil || errH != nil {
			continue
		}

		app := fields[7]
		if dot := strings.Index(app, "."); dot >= 0 {
			app = app[:dot]
		}
		title := strings.Join(fields[9:], " ")

		layer := 0
		if desktop == -1 {
			layer = 1
		}

		id++
		windows = append(windows, Window{
			ID:         id,
			Title:      title,
			App:        app,
			PID:        pid,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			Layer:      layer,
			StackOrder: id,
		})
	}
	return windows, nil
}

// listXdotool enumerates windows one at a time via xdotool. Slower than
// wmctrl (three calls per window) and without window class information, but
// it keeps the `windows` command working on minimal X11 setups.
func (we *WindowEnumerator) listXdotool(ctx context.Context, includeAll bool) ([]Window, error) {
	searchArgs := []string{"search", "--onlyvisible", "--name", ""}
	if includeAll {
		searchArgs = []string{"search", "--name", ""}
	}

	output, err := exec.CommandContext(ctx, "xdotool", searchArgs...).Output()
	if err != nil {
		return nil, errorwrapper.WrapError(err, "xdotool search failed")
	}

	var windows []Window
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		idStr := strings.TrimSpace(line)
		if idStr == "" {
			continue
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}

		geom, err := exec.CommandContext(ctx, "xdotool", "getwindowgeometry", "--shell", idStr).Output()
		if err != nil {
			continue
		}
		x, y, w, h, err := parseXdotoolGeometry(string(geom))
		if err != nil {
			we.logger.Debug().Err(err).Str("window_id", idStr).Msg("Skipping window with unparsable geometry")
			continue
		}

		title := ""
		if name, err := exec.CommandContext(ctx, "xdotool", "getwindowname", idStr).Output(); err == nil {
			title = strings.TrimSpace(string(name))
		}
		pid := 0
		if pidOut, err := exec.CommandContext(ctx, "xdotool", "getwindowpid", idStr).Output(); err == nil {
			pid, _ = strconv.Atoi(strings.TrimSpace(string(pidOut)))
		}

		windows = append(windows, Window{
			ID:         id,
			Title:      title,
			PID:        pid,
			X:          x,
			Y:          y,
			Width:      w,
			Height:     h,
			StackOrder: len(windows) + 1,
		})
	}
	return windows, nil
}

// parseXdotoolGeometry parses `xdotool getwindowgeometry --shell` output:
//
//	WINDOW=62914566
//	X=10
//	Y=20
//	WIDTH=800
//	HEIGHT=600
//	SCREEN=0
func parseXdotoolGeometry(output string) (x, y, w, h int, err error) {
	values := map[string]int{}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		n, convErr := strconv.Atoi(value)
		if convErr != nil {
			continue
		}
		values[key] = n
	}

	for _, key := range []string{"X", "Y", "WIDTH", "HEIGHT"} {
		if _, ok := values[key]; !ok {
			return 0, 0, 0, 0, errorwrapper.NewError("missing %s in xdotool geometry output", key)
		}
	}
	return values["X"], values["Y"], values["WIDTH"], values["HEIGHT"], nil
}

// AssignMonitors sets each window's monitor index to the display containing
// the window's center point; windows straddling displays go to the one with
// the center.
func AssignMonitors(windows []Window, monitors []Monitor) {
	for i := range windows {
		cx := windows[i].X + windows[i].Width/2
		cy := windows[i].Y + windows[i].Height/2
		for _, m := range monitors {
			if cx >= m.X && cx < m.X+m.Width && cy >= m.Y && cy < m.Y+m.Height {
				windows[i].Monitor = m.Index
				break
			}
		}
	}
}
