package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the drawing and playback controls.
type Toolbar struct {
	fyne.CanvasObject

	editor *Editor
	view   *ReelWidget
	play   *widget.Button
	eraser *widget.Button
}

// NewToolbar builds the controls, seeded from the reel's current settings.
// A read-only toolbar keeps playback and onion skins only.
func NewToolbar(e *Editor, view *ReelWidget, readOnly bool) *Toolbar {
	t := &Toolbar{editor: e, view: view}
	r := e.Reel
	opts := r.Options()

	t.play = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), t.togglePlay)
	t.eraser = widget.NewButtonWithIcon("", theme.ContentClearIcon(), t.toggleEraser)

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), func() { r.AddFrame() }),
		widget.NewToolbarAction(theme.ContentUndoIcon(), r.Undo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), r.Redo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.NavigateBackIcon(), func() { r.SetShadowDirection(-1) }),
		widget.NewToolbarAction(theme.NavigateNextIcon(), func() { r.SetShadowDirection(1) }),
	)

	loop := widget.NewCheck("Loop", nil)
	loop.SetChecked(opts.Loop)
	loop.OnChanged = e.SetLoop

	shadowLabel := widget.NewLabel("")
	shadows := widget.NewSlider(0, 10)
	shadows.Step = 1
	shadows.SetValue(float64(opts.ShadowDepth))
	shadowLabel.SetText(fmt.Sprintf("Shadows %d", opts.ShadowDepth))
	shadows.OnChanged = func(v float64) {
		shadowLabel.SetText(fmt.Sprintf("Shadows %d", int(v)))
		e.SetShadows(int(v))
	}

	speedLabel := widget.NewLabel("")
	speed := widget.NewSlider(10, 500)
	speed.Step = 10
	speed.SetValue(float64(opts.Interval / time.Millisecond))
	speedLabel.SetText(fmt.Sprintf("%d ms", opts.Interval/time.Millisecond))
	speed.OnChanged = func(v float64) {
		speedLabel.SetText(fmt.Sprintf("%d ms", int(v)))
		e.SetSpeed(int(v))
	}

	thickness := widget.NewSlider(1, 50)
	thickness.SetValue(opts.Thickness)
	thickness.OnChanged = e.SetThickness

	fixed := func(w float32, o fyne.CanvasObject) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(w, 35)), o)
	}
	playback := []fyne.CanvasObject{
		t.play, loop,
		widget.NewSeparator(),
		speedLabel, fixed(120, speed),
		widget.NewSeparator(),
		shadowLabel, fixed(120, shadows),
	}
	if readOnly {
		t.CanvasObject = container.NewHBox(append(playback, layout.NewSpacer())...)
		return t
	}
	objects := append([]fyne.CanvasObject{tb, t.eraser, widget.NewLabel("Size:"), fixed(120, thickness), widget.NewSeparator()}, playback...)
	t.CanvasObject = container.NewHBox(append(objects, layout.NewSpacer())...)
	return t
}

func (t *Toolbar) togglePlay() {
	t.editor.Reel.ToggleAnimation()
	t.Stopped()
}

// Stopped syncs the play button with the reel, e.g. after playback ran
// off the end.
func (t *Toolbar) Stopped() {
	if t.editor.Reel.IsAnimating() {
		t.play.SetIcon(theme.MediaStopIcon())
	} else {
		t.play.SetIcon(theme.MediaPlayIcon())
	}
}

func (t *Toolbar) toggleEraser() {
	t.view.Erase = !t.view.Erase
	if t.view.Erase {
		t.eraser.Importance = widget.HighImportance
	} else {
		t.eraser.Importance = widget.MediumImportance
	}
	t.eraser.Refresh()
}
