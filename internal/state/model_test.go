package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrokeExtendGrowsByOneSegment(t *testing.T) {
	s := NewStroke(Point{X: 1, Y: 2})
	require.Equal(t, 0, s.Len())
	assert.Equal(t, Point{X: 1, Y: 2}, s.LastPoint())

	points := []Point{{X: 5, Y: 5}, {X: 9, Y: 1}, {X: 9, Y: 1}, {X: -3, Y: 0}}
	for i, p := range points {
		s.Extend(p, float64(i))
		assert.Equal(t, i+1, s.Len())
		assert.Equal(t, p, s.LastPoint())
	}

	segs := s.Segments()
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1].To, segs[i].From, "segment %d must start where %d ends", i, i-1)
	}
	assert.Equal(t, Point{X: 1, Y: 2}, segs[0].From)
}

func TestStrokeNegativePressureIsAccepted(t *testing.T) {
	s := NewStroke(Point{})
	s.Extend(Point{X: 1}, -2)
	surface := newRecordingSurface()
	s.Render(surface, 1)
	require.Len(t, surface.lines(), 1)
	assert.Equal(t, -2.0, surface.lines()[0].width)
}

func TestStrokeRenderScalesAndRounds(t *testing.T) {
	s := NewStroke(Point{X: 14, Y: 26})
	s.Extend(Point{X: 106, Y: 44}, 10)
	s.Extend(Point{X: 120, Y: 51}, 4)

	surface := newRecordingSurface()
	s.Render(surface, 0.1)

	lines := surface.lines()
	require.Len(t, lines, 2)
	assert.Equal(t, Point{X: 1, Y: 3}, lines[0].from)
	assert.Equal(t, Point{X: 11, Y: 4}, lines[0].to)
	assert.InDelta(t, 1.0, lines[0].width, 1e-9)
	assert.Equal(t, Point{X: 11, Y: 4}, lines[1].from)
	assert.Equal(t, Point{X: 12, Y: 5}, lines[1].to)
	assert.InDelta(t, 0.4, lines[1].width, 1e-9)
}

func TestStrokeHitTest(t *testing.T) {
	s := NewStroke(Point{X: 0, Y: 0})
	s.Extend(Point{X: 100, Y: 0}, 1)
	s.Extend(Point{X: 100, Y: 100}, 1)
	surface := newRecordingSurface()

	assert.True(t, s.HitTest(surface, Point{X: 50, Y: 3}))
	assert.True(t, s.HitTest(surface, Point{X: 103, Y: 60}))
	assert.False(t, s.HitTest(surface, Point{X: 50, Y: 50}))
	assert.False(t, s.HitTest(surface, Point{X: -10, Y: 0}))

	tap := NewStroke(Point{X: 5, Y: 5})
	assert.False(t, tap.HitTest(surface, Point{X: 5, Y: 5}), "a stroke without segments has nothing to hit")
}

func TestStrokeBounds(t *testing.T) {
	s := NewStroke(Point{X: 10, Y: 10})
	assert.Equal(t, Rect{MinX: 10, MinY: 10, MaxX: 10, MaxY: 10}, s.Bounds())
	s.Extend(Point{X: -5, Y: 20}, 1)
	s.Extend(Point{X: 30, Y: 15}, 1)
	assert.Equal(t, Rect{MinX: -5, MinY: 10, MaxX: 30, MaxY: 20}, s.Bounds())
}

func TestDistanceToSegment(t *testing.T) {
	a, b := Point{X: 0, Y: 0}, Point{X: 10, Y: 0}
	assert.InDelta(t, 3, DistanceToSegment(Point{X: 5, Y: 3}, a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(Point{X: 13, Y: 4}, a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(Point{X: 3, Y: 4}, a, a), 1e-9)
}

func TestRectOverlapsAndUnion(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	b := Rect{MinX: 5, MinY: 5, MaxX: 20, MaxY: 20}
	c := Rect{MinX: 11, MinY: 0, MaxX: 12, MaxY: 1}
	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c))
	assert.Equal(t, Rect{MinX: 0, MinY: 0, MaxX: 20, MaxY: 20}, a.Union(b))
	assert.True(t, a.Inflate(1).Contains(Point{X: 11, Y: -1}))
}
