package annotation

import "gonum.org/v1/gonum/spatial/r2"

// DefaultMarkerRadius is the hit-test radius of a seed marker in display units.
const DefaultMarkerRadius = 5.0

// PressOutcome describes what a press did to a SeedSet.
type PressOutcome int

const (
	// PressIgnored means the press had no effect (no image loaded).
	PressIgnored PressOutcome = iota
	// PressAdded means a new point was appended.
	PressAdded
	// PressRemoved means an existing marker was removed.
	PressRemoved
)

// String returns the string representation of the outcome.
func (o PressOutcome) String() string {
	switch o {
	case PressAdded:
		return "Added"
	case PressRemoved:
		return "Removed"
	default:
		return "Ignored"
	}
}

// SeedSet is an ordered collection of display-space seed points.
// Duplicates are allowed; each point is an independently removable marker.
type SeedSet struct {
	points []Point
	radius float64
}

// NewSeedSet creates an empty set whose markers have the given hit radius.
func NewSeedSet(radius float64) *SeedSet {
	if radius <= 0 {
		radius = DefaultMarkerRadius
	}
	return &SeedSet{radius: radius}
}

// Radius returns the marker hit radius.
func (s *SeedSet) Radius() float64 {
	return s.radius
}

// Add appends a point.
func (s *SeedSet) Add(p Point) {
	s.points = append(s.points, p)
}

// Remove drops the point at index, preserving the order of the rest.
// Out-of-range indices are ignored and report false.
func (s *SeedSet) Remove(index int) bool {
	if index < 0 || index >= len(s.points) {
		return false
	}
	s.points = append(s.points[:index], s.points[index+1:]...)
	return true
}

// HitTest returns the index of the topmost marker whose circle contains p,
// or -1. Later points are drawn on top, so the scan runs newest first.
func (s *SeedSet) HitTest(p Point) int {
	for i := len(s.points) - 1; i >= 0; i-- {
		if r2.Norm(r2.Sub(p, s.points[i])) <= s.radius {
			return i
		}
	}
	return -1
}

// Press removes the marker under p if there is one, otherwise adds p.
// It returns what happened and the affected index.
func (s *SeedSet) Press(p Point) (PressOutcome, int) {
	if i := s.HitTest(p); i >= 0 {
		s.Remove(i)
		return PressRemoved, i
	}
	s.Add(p)
	return PressAdded, len(s.points) - 1
}

// Points returns a copy of the points in insertion order.
func (s *SeedSet) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Len returns the number of points.
func (s *SeedSet) Len() int {
	return len(s.points)
}

// Clear removes all points.
func (s *SeedSet) Clear() {
	s.points = nil
}
