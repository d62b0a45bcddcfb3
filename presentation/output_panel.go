package presentation

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// previewMaxSide bounds the preview texture handed to Fyne.
const previewMaxSide = 1600

// OutputPanel shows the processed image of the active slot.
type OutputPanel struct {
	window fyne.Window
	logger *slog.Logger

	result  image.Image
	preview *canvas.Image
	status  *widget.Label
	saveBtn *widget.Button
	box     *fyne.Container
}

// NewOutputPanel creates an empty output panel.
func NewOutputPanel(window fyne.Window, logger *slog.Logger) *OutputPanel {
	if logger == nil {
		logger = slog.Default()
	}

	p := &OutputPanel{
		window:  window,
		logger:  logger,
		preview: canvas.NewImageFromImage(nil),
		status:  widget.NewLabel("No result yet"),
	}
	p.preview.FillMode = canvas.ImageFillContain
	p.preview.ScaleMode = canvas.ImageScaleSmooth
	p.status.Alignment = fyne.TextAlignCenter

	p.saveBtn = widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), p.handleSave)
	p.saveBtn.Disable()

	p.box = container.NewBorder(
		widget.NewLabel("Output"),
		container.NewHBox(p.saveBtn),
		nil, nil,
		container.NewStack(p.status, p.preview),
	)
	return p
}

// Container returns the panel's UI.
func (p *OutputPanel) Container() fyne.CanvasObject {
	return p.box
}

// SetProcessing shows that a job is running.
func (p *OutputPanel) SetProcessing() {
	p.status.SetText("Segmenting...")
	p.status.Show()
	p.preview.Hide()
	p.saveBtn.Disable()
}

// SetResult displays a processed image.
func (p *OutputPanel) SetResult(img image.Image) {
	p.result = img
	p.preview.Image = previewImage(img, previewMaxSide)
	p.preview.Refresh()
	p.preview.Show()
	p.status.Hide()
	p.saveBtn.Enable()
}

// SetError shows a failure message in place of the result.
func (p *OutputPanel) SetError(msg string) {
	p.result = nil
	p.status.SetText(msg)
	p.status.Show()
	p.preview.Hide()
	p.saveBtn.Disable()
}

// Clear resets the panel.
func (p *OutputPanel) Clear() {
	p.result = nil
	p.preview.Image = nil
	p.preview.Refresh()
	p.preview.Hide()
	p.status.SetText("No result yet")
	p.status.Show()
	p.saveBtn.Disable()
}

func (p *OutputPanel) handleSave() {
	if p.result == nil {
		return
	}
	img := p.result

	save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()

		format, err := formatForName(w.URI().Name())
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		if err := imaging.Encode(w, img, format); err != nil {
			p.logger.Error("Failed to save result", "path", w.URI().Path(), "error", err)
			dialog.ShowError(fmt.Errorf("failed to save image: %w", err), p.window)
			return
		}
		p.logger.Info("Result saved", "path", w.URI().Path())
	}, p.window)
	save.SetFileName("segmented.png")
	save.Show()
}

// previewImage downscales img to fit within maxSide. Smaller images are returned
// as a copy at their own size.
func previewImage(img image.Image, maxSide int) image.Image {
	if img == nil {
		return nil
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

// formatForName picks the output encoding from a file name, defaulting to PNG.
func formatForName(name string) (imaging.Format, error) {
	if filepath.Ext(name) == "" {
		return imaging.PNG, nil
	}
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return 0, fmt.Errorf("unsupported image format %q", strings.TrimPrefix(filepath.Ext(name), "."))
	}
	return format, nil
}
