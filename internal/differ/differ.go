// Package differ detects change between consecutive frames of the same
// monitor using a raw pixel-difference count. No perceptual metric is used:
// near-imperceptible rendering differences such as a blinking cursor can flag
// a frame as changed. That is an accepted limitation of the approach.
package differ

import (
	"image"

	"github.com/rs/zerolog"
)

// DiffResult holds the outcome of comparing two frames
type DiffResult struct {
	PixelsChanged int
	TotalPixels   int
	Changed       bool
}

// Differ compares frames pixel by pixel
type Differ struct {
	// channelSumThreshold is the per-pixel sensitivity: a pixel counts as
	// changed when the sum of absolute R+G+B differences exceeds it.
	channelSumThreshold int

	// minPixelsChanged is the per-frame threshold: the frame is flagged as
	// changed when at least this many pixels changed.
	minPixelsChanged int

	logger zerolog.Logger
}

// NewDiffer creates a new Differ. minPixelsChanged is floored at 1 so two
// identical frames can never compare as changed.
func NewDiffer(channelSumThreshold, minPixelsChanged int, logger zerolog.Logger) *Differ {
	if minPixelsChanged < 1 {
		minPixelsChanged = 1
	}
	return &Differ{
		channelSumThreshold: channelSumThreshold,
		minPixelsChanged:    minPixelsChanged,
		logger:              logger.With().Str("component", "Differ").Logger(),
	}
}

// Compare computes the pixel-difference count between the previous and
// current frame. A nil previous frame (first tick) and a resolution change
// are both changed by definition.
func (d *Differ) Compare(prev, curr *image.RGBA) DiffResult {
	total := curr.Bounds().Dx() * curr.Bounds().Dy()

	if prev == nil || prev.Bounds() != curr.Bounds() {
		return DiffResult{
			PixelsChanged: total,
			TotalPixels:   total,
			Changed:       true,
		}
	}

	changed := 0
	width := curr.Bounds().Dx()
	height := curr.Bounds().Dy()

	for y := 0; y < height; y++ {
		prevRow := prev.Pix[y*prev.Stride : y*prev.Stride+width*4]
		currRow := curr.Pix[y*curr.Stride : y*curr.Stride+width*4]
		for x := 0; x < width; x++ {
			o := x * 4
			diff := absDiff(prevRow[o], currRow[o]) +
				absDiff(prevRow[o+1], currRow[o+1]) +
				absDiff(prevRow[o+2], currRow[o+2])
			if diff > d.channelSumThreshold {
				changed++
			}
		}
	}

	result := DiffResult{
		PixelsChanged: changed,
		TotalPixels:   total,
		Changed:       changed >= d.minPixelsChanged,
	}

	d.logger.Debug().
		Int("pixels_changed", result.PixelsChanged).
		Int("total_pixels", result.TotalPixels).
		Bool("changed", result.Changed).
		Msg("Frame comparison completed")

	return result
}

// absDiff returns the absolute difference of two channel values
func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
