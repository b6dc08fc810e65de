package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipbook/internal/state"
)

func press(x, y float32, b desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: b}
}

func TestReelWidgetDrawsAndErases(t *testing.T) {
	fx := newEditorFixture(t, nil)
	r := fx.editor.Reel
	fx.draw(fyne.NewPos(10, 10), fyne.NewPos(50, 10))
	fx.draw(fyne.NewPos(10, 40), fyne.NewPos(50, 40))
	require.Len(t, r.Active().VisibleStrokes(), 2)
	assert.Equal(t, state.Idle, r.Gesture())

	// A secondary press erases what is under it without moving.
	fx.view.MouseDown(press(30, 10, desktop.MouseButtonSecondary))
	assert.Equal(t, state.Erasing, r.Gesture())
	assert.Len(t, r.Active().VisibleStrokes(), 1)

	fx.view.MouseMoved(press(30, 40, desktop.MouseButtonSecondary))
	assert.Empty(t, r.Active().VisibleStrokes())
	fx.view.MouseUp(press(30, 40, desktop.MouseButtonSecondary))
	assert.Equal(t, state.Idle, r.Gesture())

	r.Undo()
	assert.Len(t, r.Active().VisibleStrokes(), 1)
}

func TestReelWidgetEraseToggle(t *testing.T) {
	fx := newEditorFixture(t, nil)
	fx.draw(fyne.NewPos(10, 10), fyne.NewPos(50, 10))

	fx.view.Erase = true
	fx.view.MouseDown(press(20, 10, desktop.MouseButtonPrimary))
	fx.view.DragEnd()
	assert.Empty(t, fx.editor.Reel.Active().VisibleStrokes())
}

func TestReelWidgetEraseToggleDrag(t *testing.T) {
	fx := newEditorFixture(t, nil)
	fx.draw(fyne.NewPos(10, 10), fyne.NewPos(50, 10))

	fx.view.Erase = true
	fx.view.MouseDown(press(30, 60, desktop.MouseButtonPrimary))
	require.Len(t, fx.editor.Reel.Active().VisibleStrokes(), 1, "press missed the stroke")
	fx.view.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(30, 10)}})
	fx.view.DragEnd()
	assert.Empty(t, fx.editor.Reel.Active().VisibleStrokes())
	assert.Equal(t, state.Idle, fx.editor.Reel.Gesture())
}

func TestReelWidgetReadOnly(t *testing.T) {
	fx := newEditorFixture(t, nil)
	fx.view.ReadOnly = true
	fx.draw(fyne.NewPos(10, 10), fyne.NewPos(50, 10))
	assert.Empty(t, fx.editor.Reel.Active().VisibleStrokes())
	assert.False(t, fx.editor.Reel.Dirty())
}

func TestReelWidgetRecoversFromLostRelease(t *testing.T) {
	fx := newEditorFixture(t, nil)
	fx.view.MouseDown(press(10, 10, desktop.MouseButtonPrimary))
	fx.view.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}})

	fx.view.MouseDown(press(60, 60, desktop.MouseButtonPrimary))
	assert.Equal(t, state.Drawing, fx.editor.Reel.Gesture())
	assert.Equal(t, 2, fx.editor.Reel.Active().StoreLen())
}

func TestReelWidgetShowsSurface(t *testing.T) {
	fx := newEditorFixture(t, nil)
	fx.draw(fyne.NewPos(10, 10), fyne.NewPos(50, 10))

	_, _, _, a := fx.view.image.Image.At(30, 10).RGBA()
	assert.NotZero(t, a)
	r, _, _, _ := fx.view.image.Image.At(30, 10).RGBA()
	assert.Less(t, r>>8, uint32(80), "stroke is drawn in the displayed image")

	size := test.WidgetRenderer(fx.view).MinSize()
	assert.Equal(t, fyne.NewSize(100, 80), size)
}

func TestFrameStripFollowsReel(t *testing.T) {
	fx := newEditorFixture(t, nil)
	r := fx.editor.Reel
	r.AddFrame()
	r.AddFrame()
	assert.Equal(t, 3, fx.strip.Len())
	assert.Equal(t, 2, fx.strip.Selected())

	var picked []int
	fx.strip.OnSelect = func(i int) {
		picked = append(picked, i)
		r.SelectFrame(i)
	}
	test.Tap(fx.strip.tiles[0])
	assert.Equal(t, []int{0}, picked)
	assert.Equal(t, 0, fx.strip.Selected())
	assert.Equal(t, float32(3), fx.strip.tiles[0].border.StrokeWidth)
	assert.Equal(t, float32(1), fx.strip.tiles[2].border.StrokeWidth)
}

func TestFrameStripThumbnailRefresh(t *testing.T) {
	fx := newEditorFixture(t, nil)
	tile := fx.strip.tiles[0]
	before := tile.image.Image

	fx.draw(fyne.NewPos(10, 10), fyne.NewPos(90, 70))
	assert.Same(t, before, tile.image.Image, "preview waits for the debounce")

	fx.clock.Advance(fx.editor.Reel.Options().ThumbnailDelay)
	assert.NotSame(t, before, tile.image.Image)
}

func TestToolbarPlayback(t *testing.T) {
	fx := newEditorFixture(t, nil)
	r := fx.editor.Reel
	r.AddFrame()
	tb := NewToolbar(fx.editor, fx.view, false)

	test.Tap(tb.play)
	assert.True(t, r.IsAnimating())
	test.Tap(tb.play)
	assert.False(t, r.IsAnimating())

	test.Tap(tb.eraser)
	assert.True(t, fx.view.Erase)
	test.Tap(tb.eraser)
	assert.False(t, fx.view.Erase)
}
