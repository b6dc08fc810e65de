package state

import "math"

// Point is a surface-local coordinate.
type Point struct{ X, Y float64 }

// Segment is one straight piece of a stroke. Pressure times the render
// scale gives the line width.
type Segment struct {
	From     Point
	To       Point
	Pressure float64

	bounds Rect
}

func newSegment(from, to Point, pressure float64) Segment {
	return Segment{From: from, To: to, Pressure: pressure, bounds: RectFromPoints(from, to)}
}

// Bounds is the axis-aligned box spanned by the segment's endpoints.
func (s Segment) Bounds() Rect { return s.bounds }

// Stroke is one continuous freehand mark. It only ever grows.
type Stroke struct {
	segments  []Segment
	lastPoint Point
}

// NewStroke starts a stroke with no segments at anchor.
func NewStroke(anchor Point) *Stroke {
	return &Stroke{lastPoint: anchor}
}

// Extend appends a segment from the last point to next.
func (s *Stroke) Extend(next Point, pressure float64) {
	s.segments = append(s.segments, newSegment(s.lastPoint, next, pressure))
	s.lastPoint = next
}

func (s *Stroke) Segments() []Segment {
	out := make([]Segment, len(s.segments))
	copy(out, s.segments)
	return out
}

func (s *Stroke) Len() int { return len(s.segments) }

func (s *Stroke) LastPoint() Point { return s.lastPoint }

// HitTest reports whether probe lies within the surface's stroke tolerance
// of any segment.
func (s *Stroke) HitTest(surface Surface, probe Point) bool {
	reach := surface.StrokeTolerance()
	for _, seg := range s.segments {
		if !seg.bounds.Inflate(reach).Contains(probe) {
			continue
		}
		if surface.IsPointInStroke(seg.From, seg.To, probe) {
			return true
		}
	}
	return false
}

// Render draws each segment as a round-capped line. Endpoints are rounded
// after scaling so small thumbnails stay crisp.
func (s *Stroke) Render(surface Surface, scale float64) {
	for _, seg := range s.segments {
		from := Point{X: math.Round(seg.From.X * scale), Y: math.Round(seg.From.Y * scale)}
		to := Point{X: math.Round(seg.To.X * scale), Y: math.Round(seg.To.Y * scale)}
		surface.StrokeLine(from, to, seg.Pressure*scale)
	}
}

// Bounds covers every segment, or just the anchor for an empty stroke.
func (s *Stroke) Bounds() Rect {
	r := RectFromPoints(s.lastPoint, s.lastPoint)
	for _, seg := range s.segments {
		r = r.Union(seg.bounds)
	}
	return r
}

// Equal compares geometry and pressure.
func (s *Stroke) Equal(o *Stroke) bool {
	if s.lastPoint != o.lastPoint || len(s.segments) != len(o.segments) {
		return false
	}
	for i := range s.segments {
		a, b := s.segments[i], o.segments[i]
		if a.From != b.From || a.To != b.To || a.Pressure != b.Pressure {
			return false
		}
	}
	return true
}
