// Package capture produces per-monitor screenshot frames and window layout
// metadata on each tick of the tracking loop.
package capture

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// DisplayServer represents the display server type
type DisplayServer string

const (
	DisplayServerHyprland DisplayServer = "hyprland"
	DisplayServerSway     DisplayServer = "sway"
	DisplayServerWayland  DisplayServer = "wayland"
	DisplayServerX11      DisplayServer = "x11"
	DisplayServerMacOS    DisplayServer = "macos"
	DisplayServerUnknown  DisplayServer = "unknown"
)

// Platform holds information about the detected display environment.
// Screenshot capture itself is handled by kbinani/screenshot on every OS;
// the platform only decides which tool enumerates windows.
type Platform struct {
	OS            string
	DisplayServer DisplayServer

	HasHyprctl bool
	HasWmctrl  bool
	HasXdotool bool
}

// String returns a human-readable description of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.DisplayServer)
}

// DetectPlatform probes the OS and display server and which window tools are
// installed
func DetectPlatform() *Platform {
	p := &Platform{
		OS:            runtime.GOOS,
		DisplayServer: detectDisplayServer(),
	}

	p.HasHyprctl = commandExists("hyprctl")
	p.HasWmctrl = commandExists("wmctrl")
	p.HasXdotool = commandExists("xdotool")

	return p
}

// detectDisplayServer figures out which display server is running
func detectDisplayServer() DisplayServer {
	if runtime.GOOS == "darwin" {
		return DisplayServerMacOS
	}

	// Hyprland sets HYPRLAND_INSTANCE_SIGNATURE
	if os.Getenv("HYPRLAND_INSTANCE_SIGNATURE") != "" {
		return DisplayServerHyprland
	}

	if os.Getenv("SWAYSOCK") != "" {
		return DisplayServerSway
	}

	sessionType := os.Getenv("XDG_SESSION_TYPE")
	if sessionType == "wayland" || os.Getenv("WAYLAND_DISPLAY") != "" {
		return DisplayServerWayland
	}

	if sessionType == "x11" || os.Getenv("DISPLAY") != "" {
		return DisplayServerX11
	}

	return DisplayServerUnknown
}

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
