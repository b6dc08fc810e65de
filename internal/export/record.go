package export

import (
	"fmt"
	"image"
	"log"
	"os"
	"time"

	"github.com/setanarut/apng"

	"flipbook/internal/raster"
	"flipbook/internal/state"
)

// Recording is one pass of playback captured frame by frame.
type Recording struct {
	Frames   []image.Image
	Interval time.Duration
}

// Record plays the document once, start to end, on a virtual clock and
// keeps every painted frame.
func Record(doc *state.Document, width, height int, interval time.Duration) (*Recording, error) {
	surface := raster.New(width, height)
	defer surface.Close()

	rec := &Recording{Interval: interval}
	clock := state.NewManualClock()
	opts := state.DefaultOptions()
	opts.Loop = false
	opts.Interval = interval

	var reel *state.Reel
	reel = state.NewReel(surface, clock, opts, state.Hooks{
		Redrawn: func() {
			if reel != nil && reel.IsAnimating() {
				rec.Frames = append(rec.Frames, surface.Image())
			}
		},
	})
	if err := reel.Load(doc); err != nil {
		return nil, err
	}
	// Park on the last frame so the first tick wraps to frame one.
	reel.SelectFrame(reel.Len() - 1)
	reel.ToggleAnimation()
	for reel.IsAnimating() && clock.Step() {
	}
	if len(rec.Frames) != reel.Len() {
		return nil, fmt.Errorf("recorded %d of %d frames", len(rec.Frames), reel.Len())
	}
	return rec, nil
}

// Delay is the per-frame delay in hundredths of a second, at least one.
func (r *Recording) Delay() uint16 {
	cs := r.Interval / (10 * time.Millisecond)
	if cs < 1 {
		cs = 1
	}
	return uint16(min(cs, 65535))
}

// SaveAPNG writes the recording as an animated PNG.
func (r *Recording) SaveAPNG(path string) error {
	if len(r.Frames) == 0 {
		return fmt.Errorf("nothing recorded")
	}
	apng.Save(path, r.Frames, r.Delay())
	// The encoder reports nothing, so check what landed on disk.
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("write apng %s: %w", path, err)
	}
	if st.Size() == 0 {
		return fmt.Errorf("write apng %s: empty file", path)
	}
	log.Printf("[EXPORT] apng with %d frames to %s", len(r.Frames), path)
	return nil
}
