package annotation

import "math"

// Project maps display-space points into the natural image's pixel grid,
// clamping each coordinate to [0, natural] inclusive. The result keeps the input
// order. If either size is empty the result is an empty, non-nil slice.
func Project(points []Point, rendered, natural Size) []Point {
	if rendered.IsEmpty() || natural.IsEmpty() {
		return []Point{}
	}

	out := make([]Point, len(points))
	for i, p := range points {
		x := p.X / rendered.Width * natural.Width
		y := p.Y / rendered.Height * natural.Height
		out[i] = Point{
			X: clamp(x, 0, natural.Width),
			Y: clamp(y, 0, natural.Height),
		}
	}
	return out
}

// Unproject maps an image-space point back into display space.
func Unproject(p Point, rendered, natural Size) (Point, bool) {
	if rendered.IsEmpty() || natural.IsEmpty() {
		return Point{}, false
	}
	return Point{
		X: p.X / natural.Width * rendered.Width,
		Y: p.Y / natural.Height * rendered.Height,
	}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
