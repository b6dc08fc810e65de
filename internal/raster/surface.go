// Package raster renders reel frames into pixel buffers with gogpu/gg.
package raster

import (
	"image"
	"io"
	"log"

	"github.com/gogpu/gg"

	"flipbook/internal/state"
)

// DefaultTolerance is how far from a segment the eraser still hits it.
const DefaultTolerance = 5.0

// Surface is a state.Surface backed by a software gg context.
type Surface struct {
	dc        *gg.Context
	tolerance float64
}

var _ state.Surface = (*Surface)(nil)

func New(width, height int) *Surface {
	return &Surface{dc: gg.NewContext(width, height), tolerance: DefaultTolerance}
}

func (s *Surface) Width() int  { return s.dc.Width() }
func (s *Surface) Height() int { return s.dc.Height() }

func (s *Surface) Fill(style string) {
	s.dc.ClearWithColor(gg.Hex(style))
}

func (s *Surface) Clear() {
	s.dc.Clear()
}

func (s *Surface) SetStrokeStyle(style string) {
	s.dc.SetHexColor(style)
}

// StrokeLine strokes a round-capped line. A zero-length line becomes a dot
// and a non-positive width draws nothing.
func (s *Surface) StrokeLine(from, to state.Point, width float64) {
	if width <= 0 {
		return
	}
	if from == to {
		s.dc.DrawCircle(from.X, from.Y, width/2)
		if err := s.dc.Fill(); err != nil {
			log.Printf("[RASTER] fill: %v", err)
		}
		return
	}
	s.dc.SetLineWidth(width)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
	s.dc.MoveTo(from.X, from.Y)
	s.dc.LineTo(to.X, to.Y)
	if err := s.dc.Stroke(); err != nil {
		log.Printf("[RASTER] stroke: %v", err)
	}
}

func (s *Surface) IsPointInStroke(from, to, probe state.Point) bool {
	return state.DistanceToSegment(probe, from, to) <= s.tolerance
}

func (s *Surface) StrokeTolerance() float64 { return s.tolerance }

func (s *Surface) SetStrokeTolerance(t float64) { s.tolerance = t }

// Image returns the current pixels.
func (s *Surface) Image() image.Image { return s.dc.Image() }

func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

func (s *Surface) SavePNG(path string) error { return s.dc.SavePNG(path) }

func (s *Surface) Close() error { return s.dc.Close() }
