package presentation

import (
	"errors"
	"image"
	"log/slog"
	"path/filepath"
	"sync"

	"aura-go/core/state"
	"aura-go/domain/annotation"
	"aura-go/domain/job"
	"aura-go/domain/segmentation"
	"aura-go/infrastructure/processing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	segmentFailedMessage = "Your image couldn't be segmented. Please try again."
	prefKeyLastDir       = "lastImageDir"
	historyLimit         = 50
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff"}

// MainWindow is the main application window.
type MainWindow struct {
	app    fyne.App
	window fyne.Window
	bridge *UIEventBridge
	logger *slog.Logger

	// slot is the workspace slot driven by this window
	slot int

	// UI components - Toolbar
	algorithmSelect *widget.Select
	openBtn         *widget.Button
	segmentBtn      *widget.Button
	resetBtn        *widget.Button
	statusLabel     *widget.Label

	// UI components - Panels
	paramsForm  *ParamsForm
	seedCanvas  *SeedCanvas
	placeholder fyne.CanvasObject
	inputPanel  *fyne.Container
	outputPanel *OutputPanel
	historyList *HistoryList

	// Data
	algorithms []*segmentation.Algorithm
	uploaded   bool
	algorithm  segmentation.AlgorithmType
	busy       bool

	// Cleanup
	cleanupOnce sync.Once
}

// MainWindowConfig holds configuration for MainWindow.
type MainWindowConfig struct {
	App    fyne.App
	Bridge *UIEventBridge
	Logger *slog.Logger
}

// NewMainWindow creates a new main window.
func NewMainWindow(cfg *MainWindowConfig) *MainWindow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	w := &MainWindow{
		app:    cfg.App,
		window: cfg.App.NewWindow("Aura"),
		bridge: cfg.Bridge,
		logger: cfg.Logger,
	}

	w.init()
	w.setupEventCallbacks()
	w.enterSegmentation()

	w.window.SetOnClosed(func() {
		w.Cleanup()
		cfg.App.Quit()
	})

	return w
}

func (w *MainWindow) init() {
	toolbar := w.createToolbar()

	// Left - algorithm parameters and history
	w.paramsForm = NewParamsForm()
	w.historyList = NewHistoryList()
	clearHistoryBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), w.handleClearHistory)
	refreshHistoryBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), w.handleRefreshHistory)
	history := container.NewBorder(
		container.NewHBox(widget.NewLabel("History"), layout.NewSpacer(), refreshHistoryBtn, clearHistoryBtn),
		nil, nil, nil,
		w.historyList,
	)
	sidebar := container.NewVSplit(
		container.NewBorder(widget.NewLabel("Parameters"), nil, nil, nil, w.paramsForm.Container()),
		history,
	)
	sidebar.SetOffset(0.4)

	// Centre - input canvas and output
	w.seedCanvas = NewSeedCanvas()
	w.seedCanvas.SetOnPressed(w.handleCanvasPressed)
	w.seedCanvas.SetOnResized(w.handleCanvasResized)
	w.placeholder = container.NewCenter(
		widget.NewButtonWithIcon("Open an image", theme.FolderOpenIcon(), w.handleOpen),
	)
	w.inputPanel = container.NewStack(w.placeholder)
	input := container.NewBorder(widget.NewLabel("Input"), nil, nil, nil, w.inputPanel)

	w.outputPanel = NewOutputPanel(w.window, w.logger)

	images := container.NewHSplit(input, w.outputPanel.Container())
	images.SetOffset(0.5)

	main := container.NewHSplit(sidebar, images)
	main.SetOffset(0.25)

	content := container.NewBorder(toolbar, nil, nil, nil, main)
	w.window.SetContent(content)
	w.window.Resize(fyne.NewSize(1200, 720))
}

func (w *MainWindow) createToolbar() fyne.CanvasObject {
	if w.bridge != nil {
		w.algorithms = w.bridge.Algorithms()
	}
	labels := make([]string, len(w.algorithms))
	for i, alg := range w.algorithms {
		labels[i] = alg.Label
	}

	w.algorithmSelect = widget.NewSelect(labels, w.handleAlgorithmSelected)
	w.algorithmSelect.PlaceHolder = "Select Algorithm"

	w.openBtn = widget.NewButtonWithIcon("Open...", theme.FolderOpenIcon(), w.handleOpen)
	w.segmentBtn = widget.NewButtonWithIcon("Segment", theme.MediaPlayIcon(), w.handleSegment)
	w.segmentBtn.Disable()
	w.resetBtn = widget.NewButtonWithIcon("Reset", theme.ContentClearIcon(), w.handleReset)
	w.statusLabel = widget.NewLabel("")

	return container.NewHBox(
		w.openBtn,
		widget.NewSeparator(),
		w.algorithmSelect,
		w.segmentBtn,
		w.resetBtn,
		layout.NewSpacer(),
		w.statusLabel,
	)
}

func (w *MainWindow) setupEventCallbacks() {
	if w.bridge == nil {
		return
	}

	// Callbacks run on the event bus goroutine; UI updates must run on main thread
	w.bridge.SetCallbacks(&UICallbacks{
		OnImageLoaded: func(slot int, url string, img image.Image) {
			if slot != w.slot {
				return
			}
			fyne.Do(func() {
				w.seedCanvas.SetImage(img)
			})
		},
		OnImageLoadFailed: func(slot int, url string, err error) {
			if slot != w.slot {
				return
			}
			w.logger.Error("Image load failed", "url", url, "error", err)
			fyne.Do(func() {
				w.seedCanvas.SetImage(nil)
				dialog.ShowError(err, w.window)
			})
		},
		OnMarkersChanged: func(slot int, t annotation.Transform, hasImage bool, markers []annotation.Point, radius float64) {
			if slot != w.slot {
				return
			}
			fyne.Do(func() {
				w.seedCanvas.SetMarkers(t, hasImage, markers, radius)
			})
		},
		OnSeedPointsChanged: func(slot int, points []segmentation.SeedPoint) {
			if slot != w.slot {
				return
			}
			w.logger.Debug("Seed points changed", "count", len(points))
		},
		OnSlotReset: func(slot int) {
			if slot != w.slot {
				return
			}
			fyne.Do(func() {
				w.uploaded = false
				w.busy = false
				w.seedCanvas.Clear()
				w.outputPanel.Clear()
				w.refreshInputPanel()
				w.refreshControls()
			})
		},
		OnFileUploaded: func(slot int, fileID, url string) {
			if slot != w.slot {
				return
			}
			fyne.Do(func() {
				w.uploaded = true
				w.outputPanel.Clear()
				w.refreshInputPanel()
				w.refreshControls()
			})
		},
		OnAlgorithmChanged: func(slot int, alg segmentation.AlgorithmType, seedsEnabled bool) {
			if slot != w.slot {
				return
			}
			fyne.Do(func() {
				w.algorithm = alg
				w.refreshInputPanel()
			})
		},
		OnJobStateChanged: func(slot int, oldState, newState state.JobState) {
			if slot != w.slot {
				return
			}
			fyne.Do(func() {
				w.busy = newState.IsBusy()
				if newState == state.StateSubmitting {
					w.outputPanel.SetProcessing()
				}
				w.refreshControls()
			})
		},
		OnJobCompleted: func(slot int, jobID string, img image.Image) {
			if slot != w.slot {
				return
			}
			fyne.Do(func() {
				w.outputPanel.SetResult(img)
			})
			w.handleRefreshHistory()
		},
		OnJobFailed: func(slot int, jobID string, err error) {
			if slot != w.slot {
				return
			}
			w.logger.Error("Segmentation failed", "job_id", jobID, "error", err)
			fyne.Do(func() {
				w.outputPanel.SetError(segmentFailedMessage)
				dialog.ShowError(errors.New(segmentFailedMessage), w.window)
			})
			w.handleRefreshHistory()
		},
		OnOperationFailed: func(slot int, operation string, err error) {
			w.logger.Warn("Operation failed", "slot", slot, "operation", operation, "error", err)
			fyne.Do(func() {
				dialog.ShowError(operationError(operation, err), w.window)
			})
		},
		OnHistoryLoaded: func(jobs []*job.Job) {
			fyne.Do(func() {
				w.historyList.SetJobs(jobs)
			})
		},
	})
}

// enterSegmentation starts from a clean workspace with the first algorithm selected.
func (w *MainWindow) enterSegmentation() {
	if w.bridge == nil {
		return
	}
	if err := w.bridge.ResetWorkspace(); err != nil {
		w.logger.Warn("Failed to reset workspace", "error", err)
	}
	if len(w.algorithms) > 0 {
		w.algorithmSelect.SetSelected(w.algorithms[0].Label)
	}
	w.handleRefreshHistory()
}

func (w *MainWindow) handleAlgorithmSelected(label string) {
	var selected *segmentation.Algorithm
	for _, alg := range w.algorithms {
		if alg.Label == label {
			selected = alg
			break
		}
	}
	if selected == nil {
		return
	}

	w.paramsForm.SetAlgorithm(selected)
	if err := w.bridge.SetAlgorithm(w.slot, selected.Type); err != nil {
		w.logger.Error("Failed to set algorithm", "error", err)
	}
}

func (w *MainWindow) handleOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		w.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(path))

		if err := w.bridge.UploadFile(w.slot, path); err != nil {
			w.logger.Error("Failed to upload image", "path", path, "error", err)
			dialog.ShowError(err, w.window)
		}
	}, w.window)

	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	if dir := w.app.Preferences().String(prefKeyLastDir); dir != "" {
		if loc, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(loc)
		}
	}
	fd.Show()
}

func (w *MainWindow) handleSegment() {
	if err := w.bridge.Submit(w.slot, w.paramsForm.Params()); err != nil {
		w.logger.Error("Failed to submit job", "error", err)
		dialog.ShowError(err, w.window)
	}
}

func (w *MainWindow) handleReset() {
	if err := w.bridge.ResetSlot(w.slot); err != nil {
		w.logger.Error("Failed to reset slot", "error", err)
	}
}

func (w *MainWindow) handleRefreshHistory() {
	if w.bridge == nil {
		return
	}
	if err := w.bridge.RefreshHistory(historyLimit); err != nil {
		w.logger.Debug("History not available", "error", err)
	}
}

func (w *MainWindow) handleClearHistory() {
	dialog.ShowConfirm("Clear History", "Remove all recorded jobs?", func(ok bool) {
		if !ok {
			return
		}
		if err := w.bridge.ClearHistory(); err != nil {
			dialog.ShowError(err, w.window)
		}
	}, w.window)
}

func (w *MainWindow) handleCanvasPressed(x, y float32) {
	if err := w.bridge.PressCanvas(w.slot, float64(x), float64(y)); err != nil {
		w.logger.Warn("Failed to send press", "error", err)
	}
}

func (w *MainWindow) handleCanvasResized(width, height float32) {
	if w.bridge == nil {
		return
	}
	if err := w.bridge.ResizeViewport(w.slot, float64(width), float64(height)); err != nil {
		w.logger.Warn("Failed to send resize", "error", err)
	}
}

// refreshInputPanel swaps between the open-file placeholder and the canvas.
func (w *MainWindow) refreshInputPanel() {
	seeds := seedInputEnabled(w.uploaded, w.algorithm)
	w.seedCanvas.SetShowSeeds(seeds)

	if w.uploaded {
		w.inputPanel.Objects = []fyne.CanvasObject{w.seedCanvas}
	} else {
		w.inputPanel.Objects = []fyne.CanvasObject{w.placeholder}
	}
	w.inputPanel.Refresh()

	switch {
	case !w.uploaded:
		w.statusLabel.SetText("")
	case seeds:
		w.statusLabel.SetText("Click the image to place or remove seed points")
	default:
		w.statusLabel.SetText("")
	}
}

func (w *MainWindow) refreshControls() {
	if canSegment(w.uploaded, w.busy) {
		w.segmentBtn.Enable()
	} else {
		w.segmentBtn.Disable()
	}
	if w.busy {
		w.openBtn.Disable()
	} else {
		w.openBtn.Enable()
	}
}

// seedInputEnabled reports whether the canvas takes seed presses.
func seedInputEnabled(uploaded bool, alg segmentation.AlgorithmType) bool {
	return uploaded && alg.NeedsSeeds()
}

func canSegment(uploaded, busy bool) bool {
	return uploaded && !busy
}

var (
	errUploadDisabled    = errors.New("uploading is disabled: no processing service is configured")
	errServiceUnavailable = errors.New("the processing service is unavailable, please try again later")
)

// operationError turns a failed slot operation into a message for the user.
func operationError(operation string, err error) error {
	switch {
	case operation == "upload" && errors.Is(err, processing.ErrDisabled):
		return errUploadDisabled
	case errors.Is(err, processing.ErrUnavailable):
		return errServiceUnavailable
	default:
		return err
	}
}

// Public methods

// Show displays the main window.
func (w *MainWindow) Show() {
	w.window.Show()
}

// ShowAndRun displays the main window and runs the application loop.
func (w *MainWindow) ShowAndRun() {
	w.window.ShowAndRun()
}

// Cleanup releases resources.
func (w *MainWindow) Cleanup() {
	w.cleanupOnce.Do(func() {
		w.logger.Info("Starting cleanup...")

		if w.bridge != nil {
			w.bridge.Close()
		}

		w.logger.Info("Cleanup completed")
	})
}
