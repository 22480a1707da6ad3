package capture

import (
	"image"

	"github.com/aleister1102/screentrack/internal/errorwrapper"
	"github.com/kbinani/screenshot"
)

// CheckPermissions verifies that screen capture is actually possible by
// grabbing a 1x1 region of the primary display. On macOS the first capture
// attempt fails until the terminal has been granted Screen Recording access;
// on Wayland the portal may refuse. The returned error is user-actionable.
func CheckPermissions() error {
	if screenshot.NumActiveDisplays() == 0 {
		return errorwrapper.NewPermissionError("permission probe", errorwrapper.NewError("no active displays detected"))
	}

	bounds := screenshot.GetDisplayBounds(0)
	probe := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+1, bounds.Min.Y+1)
	if _, err := screenshot.CaptureRect(probe); err != nil {
		return errorwrapper.NewPermissionError("permission probe", err)
	}
	return nil
}
