package export

import (
	"fmt"
	"io"

	"flipbook/internal/raster"
	"flipbook/internal/state"
)

// compose paints one frame the way the editor shows it: background,
// optional onion skins, then the frame itself.
func compose(s state.Surface, frames []*state.Frame, index int, shadows bool, depth, dir int) {
	s.Fill(state.BackgroundStyle)
	if shadows {
		for _, sh := range state.ShadowPlan(index, len(frames), depth, dir) {
			s.SetStrokeStyle(sh.Style)
			frames[sh.Index].Render(s, 1)
		}
	}
	s.SetStrokeStyle(state.StrokeStyle)
	frames[index].Render(s, 1)
}

// WritePNG encodes frame index of r at the given canvas size.
func WritePNG(w io.Writer, r *state.Reel, index, width, height int, shadows bool) error {
	if index < 0 || index >= r.Len() {
		return fmt.Errorf("frame %d out of range 1..%d", index+1, r.Len())
	}
	s := raster.New(width, height)
	defer s.Close()
	o := r.Options()
	compose(s, r.Frames(), index, shadows, o.ShadowDepth, o.ShadowDirection)
	return s.EncodePNG(w)
}
