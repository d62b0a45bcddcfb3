package presentation

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"aura-go/domain/annotation"
)

var (
	markerFill   = color.NRGBA{R: 255, G: 64, B: 64, A: 200}
	markerStroke = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// SeedCanvas shows an image fitted into its area and draws seed markers on top.
// It does no geometry of its own: the slot actor sends the fit transform and the
// marker centres, and the canvas reports presses and size changes back.
type SeedCanvas struct {
	widget.BaseWidget

	image *canvas.Image
	bg    *canvas.Rectangle

	mu        sync.RWMutex
	transform annotation.Transform
	hasImage  bool
	markers   []annotation.Point
	radius    float64
	showSeeds bool

	onPressed func(x, y float32)
	onResized func(width, height float32)
}

// NewSeedCanvas creates an empty seed canvas.
func NewSeedCanvas() *SeedCanvas {
	c := &SeedCanvas{
		image:     canvas.NewImageFromImage(nil),
		bg:        canvas.NewRectangle(color.NRGBA{R: 32, G: 32, B: 32, A: 255}),
		showSeeds: true,
	}
	c.image.FillMode = canvas.ImageFillStretch
	c.image.ScaleMode = canvas.ImageScaleSmooth
	c.ExtendBaseWidget(c)
	return c
}

// SetOnPressed sets the press handler. Coordinates are relative to the canvas.
func (c *SeedCanvas) SetOnPressed(fn func(x, y float32)) {
	c.onPressed = fn
}

// SetOnResized sets the handler notified when the canvas area changes.
func (c *SeedCanvas) SetOnResized(fn func(width, height float32)) {
	c.onResized = fn
}

// SetImage sets the displayed image. nil clears it.
func (c *SeedCanvas) SetImage(img image.Image) {
	c.image.Image = img
	c.image.Refresh()
	c.Refresh()
}

// SetMarkers updates the fit transform and marker centres in display space.
func (c *SeedCanvas) SetMarkers(t annotation.Transform, hasImage bool, markers []annotation.Point, radius float64) {
	c.mu.Lock()
	c.transform = t
	c.hasImage = hasImage
	c.markers = append([]annotation.Point(nil), markers...)
	c.radius = radius
	c.mu.Unlock()
	c.Refresh()
}

// SetShowSeeds toggles marker drawing and press handling.
func (c *SeedCanvas) SetShowSeeds(show bool) {
	c.mu.Lock()
	c.showSeeds = show
	c.mu.Unlock()
	c.Refresh()
}

// Clear removes the image and all markers.
func (c *SeedCanvas) Clear() {
	c.SetMarkers(annotation.Transform{}, false, nil, 0)
	c.SetImage(nil)
}

// MouseDown captures a seed on primary-button press rather than on release.
func (c *SeedCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.mu.RLock()
	show := c.showSeeds
	c.mu.RUnlock()

	if show && c.onPressed != nil {
		c.onPressed(e.Position.X, e.Position.Y)
	}
}

// MouseUp is required by desktop.Mouseable.
func (c *SeedCanvas) MouseUp(*desktop.MouseEvent) {}

// MinSize returns the minimum size of the canvas.
func (c *SeedCanvas) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

// CreateRenderer creates the widget renderer.
func (c *SeedCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &seedCanvasRenderer{canvas: c}
}

type seedCanvasRenderer struct {
	canvas  *SeedCanvas
	circles []*canvas.Circle
	size    fyne.Size
}

func (r *seedCanvasRenderer) Layout(size fyne.Size) {
	c := r.canvas
	c.bg.Resize(size)
	c.bg.Move(fyne.NewPos(0, 0))

	if size != r.size {
		r.size = size
		if c.onResized != nil {
			c.onResized(size.Width, size.Height)
		}
	}

	c.mu.RLock()
	t, hasImage, markers, radius, show := c.transform, c.hasImage, c.markers, c.radius, c.showSeeds
	c.mu.RUnlock()

	if hasImage {
		c.image.Move(fyne.NewPos(float32(t.Offset.X), float32(t.Offset.Y)))
		c.image.Resize(fyne.NewSize(float32(t.Rendered.Width), float32(t.Rendered.Height)))
		c.image.Show()
	} else {
		c.image.Hide()
	}

	if !show || !hasImage {
		markers = nil
	}
	r.ensureCircles(len(markers))
	for i, m := range markers {
		pos, sz := markerRect(m, t.Offset, radius)
		r.circles[i].Move(pos)
		r.circles[i].Resize(sz)
		r.circles[i].Show()
	}
	for i := len(markers); i < len(r.circles); i++ {
		r.circles[i].Hide()
	}
}

func (r *seedCanvasRenderer) ensureCircles(n int) {
	for len(r.circles) < n {
		circle := canvas.NewCircle(markerFill)
		circle.StrokeColor = markerStroke
		circle.StrokeWidth = 1
		r.circles = append(r.circles, circle)
	}
}

func (r *seedCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.MinSize()
}

func (r *seedCanvasRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, 2+len(r.circles))
	objects = append(objects, r.canvas.bg, r.canvas.image)
	for _, circle := range r.circles {
		objects = append(objects, circle)
	}
	return objects
}

func (r *seedCanvasRenderer) Refresh() {
	r.Layout(r.canvas.Size())
	canvas.Refresh(r.canvas)
}

func (r *seedCanvasRenderer) Destroy() {}

var _ desktop.Mouseable = (*SeedCanvas)(nil)

// markerRect returns the bounding box of a marker centred on a display-space
// point, in canvas coordinates.
func markerRect(center, offset annotation.Point, radius float64) (fyne.Position, fyne.Size) {
	at := annotation.ToViewport(center, offset)
	d := float32(2 * radius)
	return fyne.NewPos(float32(at.X-radius), float32(at.Y-radius)), fyne.NewSize(d, d)
}
