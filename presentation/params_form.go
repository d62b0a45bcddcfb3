package presentation

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"aura-go/domain/segmentation"
)

// ParamsForm shows one slider per parameter of the selected algorithm.
// Values of parameters the algorithm does not expose are kept, so switching
// back and forth does not lose them.
type ParamsForm struct {
	box    *fyne.Container
	params segmentation.Params
	alg    *segmentation.Algorithm
}

// NewParamsForm creates a form holding the default parameters.
func NewParamsForm() *ParamsForm {
	return &ParamsForm{
		box:    container.NewVBox(),
		params: segmentation.DefaultParams(),
	}
}

// Container returns the form's UI.
func (f *ParamsForm) Container() fyne.CanvasObject {
	return f.box
}

// Params returns the current values.
func (f *ParamsForm) Params() segmentation.Params {
	return f.params
}

// SetAlgorithm rebuilds the sliders for alg.
func (f *ParamsForm) SetAlgorithm(alg *segmentation.Algorithm) {
	f.alg = alg
	f.box.Objects = nil

	if alg == nil {
		f.box.Refresh()
		return
	}

	for _, spec := range alg.Params {
		f.box.Add(f.createRow(spec))
	}
	f.box.Refresh()
}

func (f *ParamsForm) createRow(spec segmentation.ParamSpec) fyne.CanvasObject {
	current, _ := f.params.Get(spec.Name)
	current = snapToStep(current, spec)
	f.params.Set(spec.Name, current)

	value := widget.NewLabel(strconv.Itoa(current))

	slider := widget.NewSlider(float64(spec.Min), float64(spec.Max))
	if spec.Step > 0 {
		slider.Step = float64(spec.Step)
	}
	slider.Value = float64(current)
	slider.OnChanged = func(v float64) {
		n := snapToStep(int(v), spec)
		f.params.Set(spec.Name, n)
		value.SetText(strconv.Itoa(n))
	}

	return container.NewBorder(nil, nil, widget.NewLabel(spec.Label), value, slider)
}

// snapToStep clamps v into the parameter's range and onto its step grid, counted
// from Min.
func snapToStep(v int, spec segmentation.ParamSpec) int {
	if v < spec.Min {
		v = spec.Min
	}
	if v > spec.Max {
		v = spec.Max
	}
	if spec.Step > 1 {
		v = spec.Min + (v-spec.Min)/spec.Step*spec.Step
	}
	return v
}
