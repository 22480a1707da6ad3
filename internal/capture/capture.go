package capture

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"time"

	"github.com/aleister1102/screentrack/internal/errorwrapper"
	"github.com/kbinani/screenshot"
	"github.com/rs/zerolog"
)

// Monitor describes one connected display
type Monitor struct {
	Index   int  `json:"index"`
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Primary bool `json:"primary"`
}

// Frame is one screenshot plus window metadata captured at a single tick for
// one monitor. It is immutable after creation; the tracker keeps the previous
// frame's image for diffing and discards the rest.
type Frame struct {
	Monitor   int
	Image     *image.RGBA
	Timestamp time.Time
	Windows   []Window
}

// Capturer produces frames from the connected displays
type Capturer struct {
	platform   *Platform
	enumerator *WindowEnumerator
	logger     zerolog.Logger
}

// NewCapturer creates a new Capturer
func NewCapturer(logger zerolog.Logger) *Capturer {
	platform := DetectPlatform()
	return &Capturer{
		platform:   platform,
		enumerator: NewWindowEnumerator(platform, logger),
		logger:     logger.With().Str("component", "Capturer").Logger(),
	}
}

// Platform returns the detected platform
func (c *Capturer) Platform() *Platform {
	return c.platform
}

// Monitors returns the connected displays. Display 0 is treated as primary,
// matching the kbinani/screenshot display ordering.
func (c *Capturer) Monitors() ([]Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errorwrapper.NewCaptureError(0, "no active displays found", nil)
	}

	monitors := make([]Monitor, 0, n)
	for i := 0; i < n; i++ {
		bounds := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, Monitor{
			Index:   i,
			X:       bounds.Min.X,
			Y:       bounds.Min.Y,
			Width:   bounds.Dx(),
			Height:  bounds.Dy(),
			Primary: i == 0,
		})
	}
	return monitors, nil
}

// CaptureMonitor captures a single display into a frame without window
// metadata. Used by the one-shot `screenshot` command.
func (c *Capturer) CaptureMonitor(ctx context.Context, index int) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := screenshot.NumActiveDisplays()
	if index < 0 || index >= n {
		return nil, errorwrapper.NewCaptureError(index, "display index out of range", nil)
	}

	bounds := screenshot.GetDisplayBounds(index)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, errorwrapper.NewCaptureError(index, "screenshot failed", err)
	}

	return &Frame{
		Monitor:   index,
		Image:     img,
		Timestamp: time.Now().UTC(),
	}, nil
}

// CaptureAll captures every connected display and attaches the current window
// list to each frame. Windows are assigned to the monitor whose bounds
// contain their center; window enumeration failure degrades to frames
// without window metadata rather than failing the tick.
func (c *Capturer) CaptureAll(ctx context.Context) ([]Frame, error) {
	monitors, err := c.Monitors()
	if err != nil {
		return nil, err
	}

	windows, winErr := c.enumerator.List(ctx, false)
	if winErr != nil {
		c.logger.Debug().Err(winErr).Msg("Window enumeration unavailable, capturing frames without window metadata")
	} else {
		AssignMonitors(windows, monitors)
		ComputeVisibility(windows, monitors)
	}

	now := time.Now().UTC()
	frames := make([]Frame, 0, len(monitors))
	for _, m := range monitors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bounds := image.Rect(m.X, m.Y, m.X+m.Width, m.Y+m.Height)
		img, capErr := screenshot.CaptureRect(bounds)
		if capErr != nil {
			return nil, errorwrapper.NewCaptureError(m.Index, "screenshot failed", capErr)
		}

		frames = append(frames, Frame{
			Monitor:   m.Index,
			Image:     img,
			Timestamp: now,
			Windows:   windowsOnMonitor(windows, m.Index),
		})
	}

	return frames, nil
}

// Windows returns the current window list
func (c *Capturer) Windows(ctx context.Context, includeAll bool) ([]Window, error) {
	windows, err := c.enumerator.List(ctx, includeAll)
	if err != nil {
		return nil, err
	}

	monitors, mErr := c.Monitors()
	if mErr == nil {
		AssignMonitors(windows, monitors)
		ComputeVisibility(windows, monitors)
	}
	return windows, nil
}

// EncodePNG encodes a frame's image as PNG bytes
func EncodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to encode png")
	}
	return buf.Bytes(), nil
}

// windowsOnMonitor filters windows assigned to the given monitor index
func windowsOnMonitor(windows []Window, monitor int) []Window {
	var out []Window
	for _, w := range windows {
		if w.Monitor == monitor {
			out = append(out, w)
		}
	}
	return out
}
