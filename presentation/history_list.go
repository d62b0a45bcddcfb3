package presentation

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"aura-go/domain/job"
)

var (
	colorPending   = color.RGBA{230, 180, 0, 255}
	colorCompleted = color.RGBA{0, 200, 0, 255}
	colorFailed    = color.RGBA{220, 50, 50, 255}
	colorUnknown   = color.RGBA{128, 128, 128, 255}
)

// HistoryList is a scrollable list of recent jobs with status indicators.
type HistoryList struct {
	widget.List
	jobs   []*job.Job
	jobsMu sync.RWMutex
}

// NewHistoryList creates a new history list widget.
func NewHistoryList() *HistoryList {
	hl := &HistoryList{}

	hl.List = widget.List{
		Length: func() int {
			hl.jobsMu.RLock()
			defer hl.jobsMu.RUnlock()
			return len(hl.jobs)
		},
		CreateItem: func() fyne.CanvasObject {
			return hl.createItem()
		},
		UpdateItem: func(id widget.ListItemID, item fyne.CanvasObject) {
			hl.updateItem(id, item)
		},
	}

	hl.ExtendBaseWidget(hl)
	return hl
}

func (hl *HistoryList) createItem() fyne.CanvasObject {
	indicator := canvas.NewCircle(colorUnknown)
	indicator.Resize(fyne.NewSize(10, 10))

	label := widget.NewLabel("Job")
	label.Truncation = fyne.TextTruncateEllipsis

	return container.NewBorder(nil, nil,
		container.NewCenter(container.NewGridWrap(fyne.NewSize(16, 16), indicator)),
		nil,
		label,
	)
}

func (hl *HistoryList) updateItem(id widget.ListItemID, item fyne.CanvasObject) {
	hl.jobsMu.RLock()
	defer hl.jobsMu.RUnlock()

	if id >= len(hl.jobs) {
		return
	}
	j := hl.jobs[id]

	// Border layout puts the centre object first
	row := item.(*fyne.Container)
	label := row.Objects[0].(*widget.Label)
	indicatorContainer := row.Objects[1].(*fyne.Container)
	gridWrap := indicatorContainer.Objects[0].(*fyne.Container)
	indicator := gridWrap.Objects[0].(*canvas.Circle)

	indicator.FillColor = statusColor(j.Status)
	indicator.Refresh()
	label.SetText(j.Summary())
}

// SetJobs replaces the displayed jobs.
func (hl *HistoryList) SetJobs(jobs []*job.Job) {
	hl.jobsMu.Lock()
	hl.jobs = append([]*job.Job(nil), jobs...)
	hl.jobsMu.Unlock()

	hl.Refresh()
}

// Count returns the number of jobs in the list.
func (hl *HistoryList) Count() int {
	hl.jobsMu.RLock()
	defer hl.jobsMu.RUnlock()
	return len(hl.jobs)
}

func statusColor(s job.Status) color.Color {
	switch s {
	case job.StatusPending:
		return colorPending
	case job.StatusCompleted:
		return colorCompleted
	case job.StatusFailed:
		return colorFailed
	default:
		return colorUnknown
	}
}
