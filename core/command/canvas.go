package command

// LoadImage points the slot's display surface at a new image URL.
type LoadImage struct {
	slotTarget
	URL string
}

func NewLoadImage(slot int, url string) *LoadImage {
	return &LoadImage{slotTarget: slotTarget{slot: slot}, URL: url}
}

func (c *LoadImage) CommandName() string {
	return "LoadImage"
}

// ResizeViewport reports a new viewport size for the slot's canvas.
type ResizeViewport struct {
	slotTarget
	Width, Height float64
}

func NewResizeViewport(slot int, width, height float64) *ResizeViewport {
	return &ResizeViewport{
		slotTarget: slotTarget{slot: slot},
		Width:      width,
		Height:     height,
	}
}

func (c *ResizeViewport) CommandName() string {
	return "ResizeViewport"
}

// PressCanvas is a primary-button press at viewport-relative coordinates.
type PressCanvas struct {
	slotTarget
	X, Y float64
}

func NewPressCanvas(slot int, x, y float64) *PressCanvas {
	return &PressCanvas{
		slotTarget: slotTarget{slot: slot},
		X:          x,
		Y:          y,
	}
}

func (c *PressCanvas) CommandName() string {
	return "PressCanvas"
}

// RemovePoint removes a seed point by index.
type RemovePoint struct {
	slotTarget
	Index int
}

func NewRemovePoint(slot, index int) *RemovePoint {
	return &RemovePoint{slotTarget: slotTarget{slot: slot}, Index: index}
}

func (c *RemovePoint) CommandName() string {
	return "RemovePoint"
}

// ResetSlot clears the slot's image, seed points and processed result.
type ResetSlot struct {
	slotTarget
}

func NewResetSlot(slot int) *ResetSlot {
	return &ResetSlot{slotTarget{slot: slot}}
}

func (c *ResetSlot) CommandName() string {
	return "ResetSlot"
}
