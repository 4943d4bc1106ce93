// Package edgedetect decides whether a captured video frame likely
// contains a framed document. It is a pre-step for camera capture: a
// false negative only delays a hint, a false positive never submits a
// file. Frames are never retained after evaluation.
package edgedetect

import (
	"errors"
	"math"
)

const (
	sampleStride      = 10
	gradientThreshold = 50.0
	densityThreshold  = 0.1
)

// Sample is the transient result of one detection cycle.
type Sample struct {
	EdgeDensity      float64 `json:"edgeDensity"`
	IsDocumentLikely bool    `json:"isDocumentLikely"`
}

var ErrBadFrame = errors.New("frame buffer does not match dimensions")

// Detect samples the buffer on a fixed stride, skipping the one-pixel
// border, and counts positions whose local intensity gradient exceeds a
// fixed threshold. The buffer is either RGBA (4 bytes per pixel) or
// single-channel grayscale.
func Detect(pixels []byte, width, height int) (Sample, error) {
	if width < 3 || height < 3 {
		return Sample{}, ErrBadFrame
	}
	var bpp int
	switch len(pixels) {
	case width * height * 4:
		bpp = 4
	case width * height:
		bpp = 1
	default:
		return Sample{}, ErrBadFrame
	}

	lum := func(x, y int) float64 {
		i := (y*width + x) * bpp
		if bpp == 1 {
			return float64(pixels[i])
		}
		// ITU-R BT.601 luma from RGBA.
		return 0.299*float64(pixels[i]) + 0.587*float64(pixels[i+1]) + 0.114*float64(pixels[i+2])
	}

	edges := 0
	sampled := 0
	for y := 1; y < height-1; y += sampleStride {
		for x := 1; x < width-1; x += sampleStride {
			center := lum(x, y)
			gx := lum(x+1, y) - center
			gy := lum(x, y+1) - center
			if math.Sqrt(gx*gx+gy*gy) > gradientThreshold {
				edges++
			}
			sampled++
		}
	}
	if sampled == 0 {
		return Sample{}, ErrBadFrame
	}

	density := float64(edges) / (float64(sampled) / 100)
	return Sample{
		EdgeDensity:      density,
		IsDocumentLikely: density > densityThreshold,
	}, nil
}
