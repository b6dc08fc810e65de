package state

type surfaceCall struct {
	op    string
	style string
	from  Point
	to    Point
	width float64
}

// recordingSurface logs every draw call and hit-tests by plain distance.
type recordingSurface struct {
	style     string
	tolerance float64
	calls     []surfaceCall
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{style: StrokeStyle, tolerance: 5}
}

func (s *recordingSurface) Fill(style string) {
	s.calls = append(s.calls, surfaceCall{op: "fill", style: style})
}

func (s *recordingSurface) Clear() {
	s.calls = append(s.calls, surfaceCall{op: "clear"})
}

func (s *recordingSurface) SetStrokeStyle(style string) { s.style = style }

func (s *recordingSurface) StrokeLine(from, to Point, width float64) {
	s.calls = append(s.calls, surfaceCall{op: "line", style: s.style, from: from, to: to, width: width})
}

func (s *recordingSurface) IsPointInStroke(from, to, probe Point) bool {
	return DistanceToSegment(probe, from, to) <= s.tolerance
}

func (s *recordingSurface) StrokeTolerance() float64 { return s.tolerance }

func (s *recordingSurface) reset() { s.calls = nil }

func (s *recordingSurface) lines() []surfaceCall {
	var out []surfaceCall
	for _, c := range s.calls {
		if c.op == "line" {
			out = append(out, c)
		}
	}
	return out
}

// lineStyles lists the stroke style of each drawn line in order.
func (s *recordingSurface) lineStyles() []string {
	var out []string
	for _, c := range s.lines() {
		out = append(out, c.style)
	}
	return out
}
