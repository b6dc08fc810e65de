package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"flipbook/internal/raster"
	"flipbook/internal/state"
)

// ReelWidget shows the reel's drawing surface and turns pointer input into
// gestures. The primary button draws; the secondary button, or the primary
// button with Erase set, erases.
type ReelWidget struct {
	widget.BaseWidget

	surface *raster.Surface
	image   *canvas.Image
	reel    *state.Reel
	buttons int

	Erase    bool
	ReadOnly bool
}

var _ fyne.Widget = (*ReelWidget)(nil)
var _ fyne.Draggable = (*ReelWidget)(nil)
var _ desktop.Mouseable = (*ReelWidget)(nil)
var _ desktop.Hoverable = (*ReelWidget)(nil)

func NewReelWidget(width, height int) *ReelWidget {
	w := &ReelWidget{surface: raster.New(width, height)}
	w.image = canvas.NewImageFromImage(w.surface.Image())
	w.image.FillMode = canvas.ImageFillStretch
	w.image.ScaleMode = canvas.ImageScaleFastest
	w.ExtendBaseWidget(w)
	return w
}

func (w *ReelWidget) Surface() *raster.Surface { return w.surface }

// Attach routes input to r. Until then the widget ignores the pointer.
func (w *ReelWidget) Attach(r *state.Reel) { w.reel = r }

// Redrawn copies the surface into the displayed image.
func (w *ReelWidget) Redrawn() {
	w.image.Image = w.surface.Image()
	w.image.Refresh()
}

func (w *ReelWidget) input(pos fyne.Position) state.Input {
	return state.Input{
		Point:   state.Point{X: float64(pos.X), Y: float64(pos.Y)},
		Buttons: w.buttons,
	}
}

func (w *ReelWidget) active() bool {
	return w.reel != nil && !w.ReadOnly
}

func (w *ReelWidget) MouseDown(e *desktop.MouseEvent) {
	if !w.active() {
		return
	}
	// A release outside the window never reached us.
	w.reel.EndGesture()
	w.buttons = 0
	if e.Button == desktop.MouseButtonSecondary || w.Erase {
		w.buttons = state.EraserButtons
	}
	in := w.input(e.Position)
	if w.reel.BeginGesture(in) && w.reel.Gesture() == state.Erasing {
		// Erase under the press point too, not only along the drag.
		w.reel.MoveGesture(in)
	}
}

func (w *ReelWidget) MouseUp(*desktop.MouseEvent) {
	if w.reel != nil {
		w.reel.EndGesture()
	}
}

func (w *ReelWidget) Dragged(e *fyne.DragEvent) {
	if w.active() && w.reel.Gesture() != state.Idle {
		w.reel.MoveGesture(w.input(e.Position))
	}
}

func (w *ReelWidget) DragEnd() {
	if w.reel != nil {
		w.reel.EndGesture()
	}
}

// MouseMoved carries erasing, since secondary-button motion is not
// delivered as a drag.
func (w *ReelWidget) MouseMoved(e *desktop.MouseEvent) {
	if w.active() && w.reel.Gesture() == state.Erasing {
		w.reel.MoveGesture(w.input(e.Position))
	}
}

func (w *ReelWidget) MouseIn(*desktop.MouseEvent) {}

// MouseOut ends erasing; a drawing drag keeps the pointer until release.
func (w *ReelWidget) MouseOut() {
	if w.reel != nil && w.reel.Gesture() == state.Erasing {
		w.reel.EndGesture()
	}
}

func (w *ReelWidget) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	return &reelRenderer{w: w, border: border}
}

type reelRenderer struct {
	w      *ReelWidget
	border *canvas.Rectangle
}

func (r *reelRenderer) size() fyne.Size {
	return fyne.NewSize(float32(r.w.surface.Width()), float32(r.w.surface.Height()))
}

// Layout pins the image to the top left at one unit per pixel so pointer
// positions need no mapping.
func (r *reelRenderer) Layout(fyne.Size) {
	r.w.image.Move(fyne.NewPos(0, 0))
	r.w.image.Resize(r.size())
	r.border.Resize(r.size())
}

func (r *reelRenderer) MinSize() fyne.Size { return r.size() }

func (r *reelRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.w.image, r.border}
}

func (r *reelRenderer) Refresh() {
	r.w.image.Refresh()
}

func (r *reelRenderer) Destroy() {}
