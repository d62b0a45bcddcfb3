// Package annotation implements seed-point annotation over a scaled image display.
//
// Points are captured in display space (relative to the rendered image's top-left
// corner) and projected on demand into image space (the original pixel grid).
package annotation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Point is a 2-D coordinate. Whether it is in viewport, display or image space
// depends on where it came from.
type Point = r2.Vec

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64
	Height float64
}

// NewSize creates a Size.
func NewSize(width, height float64) Size {
	return Size{Width: width, Height: height}
}

// IsEmpty reports whether either dimension is zero or negative.
func (s Size) IsEmpty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Transform is the fit-to-viewport placement of an image.
type Transform struct {
	// Scale is the uniform factor applied to the natural image size.
	Scale float64
	// Rendered is the on-screen size of the scaled image.
	Rendered Size
	// Offset positions the rendered image centered inside the viewport.
	Offset Point
}

// ComputeTransform fits an image of natural size into the viewport, preserving
// aspect ratio and centering it. The limiting axis fills the viewport exactly.
// Returns false if either size is empty.
func ComputeTransform(viewport, natural Size) (Transform, bool) {
	if viewport.IsEmpty() || natural.IsEmpty() {
		return Transform{}, false
	}

	scaleX := viewport.Width / natural.Width
	scaleY := viewport.Height / natural.Height

	var rendered Size
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
		rendered = Size{
			Width:  math.Min(natural.Width*scale, viewport.Width),
			Height: viewport.Height,
		}
	} else {
		rendered = Size{
			Width:  viewport.Width,
			Height: math.Min(natural.Height*scale, viewport.Height),
		}
	}

	return Transform{
		Scale:    scale,
		Rendered: rendered,
		Offset: Point{
			X: (viewport.Width - rendered.Width) / 2,
			Y: (viewport.Height - rendered.Height) / 2,
		},
	}, true
}

// ToDisplay converts a pointer position in viewport space into display space by
// removing the centering offset. The drawing surface itself is never scaled, so
// the image scale is not divided out here. No bounds check is applied.
func ToDisplay(pointer, offset Point) Point {
	return r2.Sub(pointer, offset)
}

// ToViewport is the inverse of ToDisplay.
func ToViewport(display, offset Point) Point {
	return r2.Add(display, offset)
}
