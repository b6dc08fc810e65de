package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"flipbook/internal/raster"
	"flipbook/internal/state"
)

var (
	selectedColor   = color.NRGBA{R: 30, G: 110, B: 230, A: 255}
	unselectedColor = color.Gray{Y: 180}
)

// FrameStrip is the scrollable row of frame previews. Its methods are the
// reel hooks that keep it in step with the frames.
type FrameStrip struct {
	*container.Scroll
	box   *fyne.Container
	tiles []*thumbTile
	next  *thumbTile

	width, height int
	selected      int

	OnSelect func(index int)
}

func NewFrameStrip(width, height int) *FrameStrip {
	s := &FrameStrip{width: width, height: height, selected: -1}
	s.box = container.NewHBox()
	s.Scroll = container.NewHScroll(s.box)
	s.Scroll.SetMinSize(fyne.NewSize(float32(width), float32(height)+20))
	return s
}

func (s *FrameStrip) Len() int      { return len(s.tiles) }
func (s *FrameStrip) Selected() int { return s.selected }

// NewThumbnail makes the preview surface for the frame about to be added.
func (s *FrameStrip) NewThumbnail(index int) state.Surface {
	s.next = newThumbTile(index, raster.New(s.width, s.height), s.tapped)
	return s.next.surface
}

func (s *FrameStrip) FrameAdded(f *state.Frame, scrollTo bool) {
	t := s.next
	s.next = nil
	if t == nil {
		t = newThumbTile(f.Index, raster.New(s.width, s.height), s.tapped)
	}
	s.tiles = append(s.tiles, t)
	s.box.Add(t)
	if scrollTo {
		s.Scroll.Offset.X = max(0, s.box.MinSize().Width-s.Scroll.Size().Width)
		s.Scroll.Refresh()
	}
}

func (s *FrameStrip) FramesReset() {
	for _, t := range s.tiles {
		t.surface.Close()
	}
	s.tiles = nil
	s.selected = -1
	s.box.RemoveAll()
}

func (s *FrameStrip) FrameSelected(index int) {
	if s.selected >= 0 && s.selected < len(s.tiles) {
		s.tiles[s.selected].setSelected(false)
	}
	s.selected = index
	if index < len(s.tiles) {
		s.tiles[index].setSelected(true)
	}
}

func (s *FrameStrip) ThumbnailRendered(f *state.Frame) {
	if f.Index < len(s.tiles) {
		s.tiles[f.Index].refresh()
	}
}

func (s *FrameStrip) tapped(index int) {
	if s.OnSelect != nil {
		s.OnSelect(index)
	}
}

type thumbTile struct {
	widget.BaseWidget
	index   int
	surface *raster.Surface
	image   *canvas.Image
	border  *canvas.Rectangle
	onTap   func(int)
}

func newThumbTile(index int, surface *raster.Surface, onTap func(int)) *thumbTile {
	t := &thumbTile{index: index, surface: surface, onTap: onTap}
	size := fyne.NewSize(float32(surface.Width()), float32(surface.Height()))
	t.image = canvas.NewImageFromImage(surface.Image())
	t.image.SetMinSize(size)
	t.border = canvas.NewRectangle(color.Transparent)
	t.border.StrokeColor = unselectedColor
	t.border.StrokeWidth = 1
	t.ExtendBaseWidget(t)
	return t
}

func (t *thumbTile) refresh() {
	t.image.Image = t.surface.Image()
	t.image.Refresh()
}

func (t *thumbTile) setSelected(on bool) {
	if on {
		t.border.StrokeColor = selectedColor
		t.border.StrokeWidth = 3
	} else {
		t.border.StrokeColor = unselectedColor
		t.border.StrokeWidth = 1
	}
	t.border.Refresh()
}

func (t *thumbTile) Tapped(*fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap(t.index)
	}
}

func (t *thumbTile) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	label := canvas.NewText(strconv.Itoa(t.index+1), color.Gray{Y: 120})
	label.TextSize = 10
	return widget.NewSimpleRenderer(container.NewStack(bg, t.image, container.NewPadded(label), t.border))
}
