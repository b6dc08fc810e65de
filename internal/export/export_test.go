package export

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipbook/internal/state"
)

// reelWithLines draws one horizontal line per frame at y = 10 + 20*i.
func reelWithLines(t *testing.T, n int) *state.Reel {
	t.Helper()
	r := state.NewReel(nil, state.NewManualClock(), state.DefaultOptions(), state.Hooks{})
	for i := 0; i < n; i++ {
		if i > 0 {
			r.AddFrame()
		}
		y := float64(10 + 20*i)
		require.True(t, r.BeginGesture(state.Input{Point: state.Point{X: 10, Y: y}, Pressure: 0.5, HasPressure: true}))
		r.MoveGesture(state.Input{Point: state.Point{X: 40, Y: y}, Pressure: 0.5, HasPressure: true})
		r.EndGesture()
	}
	return r
}

func grey(t *testing.T, img image.Image, x, y int) int {
	t.Helper()
	r, _, _, _ := img.At(x, y).RGBA()
	return int(r >> 8)
}

func TestFitCentersContent(t *testing.T) {
	o := DefaultPDFOptions()
	scale, dx, dy := fit(state.Rect{MaxX: 100, MaxY: 50}, o)
	assert.InDelta(t, 1.32, scale, 1e-9)
	assert.InDelta(t, 8, dx, 1e-9)
	assert.InDelta(t, 19.5, dy, 1e-9)

	scale, _, _ = fit(state.Rect{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5}, o)
	assert.InDelta(t, 89, scale, 1e-9, "a single point is treated as one unit square")
}

func TestWritePDFOnePagePerFrame(t *testing.T) {
	r := reelWithLines(t, 3)
	o := DefaultPDFOptions()
	o.Shadows = true

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, r, o))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Equal(t, 3, strings.Count(out, "<</Type /Page\n"))
}

func TestWritePDFEmptyReel(t *testing.T) {
	r := state.NewReel(nil, state.NewManualClock(), state.DefaultOptions(), state.Hooks{})
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, r, DefaultPDFOptions()))
	assert.Equal(t, 1, strings.Count(buf.String(), "<</Type /Page\n"))
}

func TestWritePDFRejectsBadPage(t *testing.T) {
	o := DefaultPDFOptions()
	o.Margin = 60
	assert.Error(t, WritePDF(&bytes.Buffer{}, reelWithLines(t, 1), o))
}

func TestWritePNG(t *testing.T) {
	r := reelWithLines(t, 2)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, r, 1, 64, 48, true))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 48), img.Bounds())

	assert.Less(t, grey(t, img, 25, 30), 40, "active frame is black")
	assert.InDelta(t, 220, grey(t, img, 25, 10), 8, "previous frame is an onion skin")
	assert.Equal(t, 255, grey(t, img, 55, 45))

	buf.Reset()
	require.NoError(t, WritePNG(&buf, r, 1, 64, 48, false))
	img, err = png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 255, grey(t, img, 25, 10))

	assert.Error(t, WritePNG(&buf, r, 2, 64, 48, false))
}

func TestRecordCapturesEachFrameOnce(t *testing.T) {
	r := reelWithLines(t, 3)
	rec, err := Record(r.Serialize(), 64, 80, 40*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, rec.Frames, 3)

	for i, img := range rec.Frames {
		for j := 0; j < 3; j++ {
			level := grey(t, img, 25, 10+20*j)
			if i == j {
				assert.Less(t, level, 40, "frame %d line %d", i, j)
			} else {
				assert.Equal(t, 255, level, "frame %d shows no onion skin of %d", i, j)
			}
		}
	}
	assert.Equal(t, uint16(4), rec.Delay())
}

func TestRecordSingleFrame(t *testing.T) {
	rec, err := Record(reelWithLines(t, 1).Serialize(), 32, 32, time.Millisecond)
	require.NoError(t, err)
	assert.Len(t, rec.Frames, 1)
	assert.Equal(t, uint16(1), rec.Delay())
}

func TestRecordRejectsEmptyDocument(t *testing.T) {
	_, err := Record(&state.Document{}, 32, 32, time.Millisecond)
	assert.ErrorIs(t, err, state.ErrEmptyDocument)
}

func TestSaveAPNG(t *testing.T) {
	rec, err := Record(reelWithLines(t, 2).Serialize(), 64, 48, 100*time.Millisecond)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reel.png")
	require.NoError(t, rec.SaveAPNG(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
	assert.Contains(t, string(data), "acTL")

	assert.Error(t, (&Recording{}).SaveAPNG(path))
}
