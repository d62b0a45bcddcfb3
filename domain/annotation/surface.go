package annotation

import (
	"errors"
	"image"
)

// ErrNoImage is returned when an operation needs a loaded image.
var ErrNoImage = errors.New("no image loaded")

// LoadTicket identifies one image load request. A completion is only committed
// if its ticket is still the current one.
type LoadTicket struct {
	Generation uint64
	URL        string
}

// ChangeFunc receives the full image-space projection after every change.
type ChangeFunc func(points []Point)

// Surface is the display surface of one image: it owns the loaded image, the
// viewport size, the derived transform and the seed set.
//
// A Surface is not safe for concurrent use. It is meant to be owned by a single
// event loop; asynchronous loads report back through CompleteLoad/FailLoad.
type Surface struct {
	url        string
	generation uint64

	img      image.Image
	natural  Size
	viewport Size

	transform    Transform
	hasTransform bool

	seeds    *SeedSet
	onChange ChangeFunc
}

// NewSurface creates an empty surface whose markers have the given hit radius.
func NewSurface(markerRadius float64) *Surface {
	return &Surface{seeds: NewSeedSet(markerRadius)}
}

// SetOnChange sets the consumer of the image-space projection.
func (s *Surface) SetOnChange(fn ChangeFunc) {
	s.onChange = fn
}

// BeginLoad starts loading a new image. The previous image and all seed points
// are discarded immediately. The returned ticket must be passed to
// CompleteLoad or FailLoad when the fetch finishes.
func (s *Surface) BeginLoad(url string) LoadTicket {
	s.generation++
	s.url = url
	s.clearImage()
	s.seeds.Clear()
	s.notify()
	return LoadTicket{Generation: s.generation, URL: url}
}

// CompleteLoad commits a loaded image. It returns false and changes nothing if
// the ticket is stale (another load or a reset happened since).
func (s *Surface) CompleteLoad(t LoadTicket, img image.Image) bool {
	if !s.isCurrent(t) {
		return false
	}
	if img == nil {
		s.clearImage()
		s.notify()
		return true
	}

	b := img.Bounds()
	s.img = img
	s.natural = NewSize(float64(b.Dx()), float64(b.Dy()))
	s.recompute()
	s.notify()
	return true
}

// FailLoad records that the load for t failed. The surface stays imageless.
// It returns false if the ticket is stale.
func (s *Surface) FailLoad(t LoadTicket) bool {
	if !s.isCurrent(t) {
		return false
	}
	s.clearImage()
	s.notify()
	return true
}

// SetViewport updates the available display area and recomputes the transform.
func (s *Surface) SetViewport(viewport Size) {
	if viewport == s.viewport {
		return
	}
	s.viewport = viewport

	before := s.transform
	s.recompute()
	if s.transform != before {
		s.notify()
	}
}

// Press handles a pointer-down at a viewport position. A press on an existing
// marker removes it; otherwise a point is added. Without an image it is a no-op.
func (s *Surface) Press(pointer Point) (PressOutcome, int) {
	if !s.hasTransform {
		return PressIgnored, -1
	}
	outcome, index := s.seeds.Press(ToDisplay(pointer, s.transform.Offset))
	s.notify()
	return outcome, index
}

// AddPoint appends a display-space point.
func (s *Surface) AddPoint(display Point) error {
	if !s.hasTransform {
		return ErrNoImage
	}
	s.seeds.Add(display)
	s.notify()
	return nil
}

// RemovePoint removes the point at index. Stale indices are ignored.
func (s *Surface) RemovePoint(index int) bool {
	if !s.seeds.Remove(index) {
		return false
	}
	s.notify()
	return true
}

// Reset discards the image, its URL and all seed points. Any load still in
// flight is invalidated.
func (s *Surface) Reset() {
	s.generation++
	s.url = ""
	s.clearImage()
	s.seeds.Clear()
	s.notify()
}

// ImagePoints returns the seed points projected into image space.
func (s *Surface) ImagePoints() []Point {
	return Project(s.seeds.Points(), s.transform.Rendered, s.natural)
}

// DisplayPoints returns the seed points in display space.
func (s *Surface) DisplayPoints() []Point {
	return s.seeds.Points()
}

// MarkerRadius returns the hit radius of markers.
func (s *Surface) MarkerRadius() float64 {
	return s.seeds.Radius()
}

// Transform returns the current transform and whether one is available.
func (s *Surface) Transform() (Transform, bool) {
	return s.transform, s.hasTransform
}

// Image returns the loaded image, or nil.
func (s *Surface) Image() image.Image {
	return s.img
}

// URL returns the most recently requested image URL.
func (s *Surface) URL() string {
	return s.url
}

// NaturalSize returns the natural size of the loaded image.
func (s *Surface) NaturalSize() Size {
	return s.natural
}

// Viewport returns the current viewport size.
func (s *Surface) Viewport() Size {
	return s.viewport
}

func (s *Surface) isCurrent(t LoadTicket) bool {
	return t.Generation == s.generation && t.URL == s.url
}

func (s *Surface) clearImage() {
	s.img = nil
	s.natural = Size{}
	s.transform = Transform{}
	s.hasTransform = false
}

func (s *Surface) recompute() {
	if s.img == nil {
		s.transform = Transform{}
		s.hasTransform = false
		return
	}
	s.transform, s.hasTransform = ComputeTransform(s.viewport, s.natural)
}

func (s *Surface) notify() {
	if s.onChange != nil {
		s.onChange(s.ImagePoints())
	}
}
