package state

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seekHistory(f *Frame, point int) {
	for f.HistoryPoint() > point {
		f.Undo()
	}
	for f.HistoryPoint() < point {
		f.Redo()
	}
}

func busyFrame() *Frame {
	f := NewFrame(0, nil)
	a := drawLine(f, Point{X: 0, Y: 0}, Point{X: 40, Y: 0}, 3)
	s, _ := f.BeginStroke(Point{X: 0, Y: 10})
	s.Extend(Point{X: 20, Y: 15.5}, 1.25)
	s.Extend(Point{X: 40, Y: 10}, 0.75)
	f.BeginStroke(Point{X: 7, Y: 7})
	f.DeleteStroke(a)
	drawLine(f, Point{X: 1, Y: 99}, Point{X: 2, Y: 98}, 10)
	f.Undo()
	return f
}

func TestFrameRoundTripAtEveryHistoryPoint(t *testing.T) {
	orig := busyFrame()
	data, err := json.Marshal(orig.Serialize())
	require.NoError(t, err)

	var doc FrameDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	restored, err := LoadFrame(0, nil, doc)
	require.NoError(t, err)

	assert.Equal(t, orig.HistoryPoint(), restored.HistoryPoint())
	assert.Equal(t, orig.History(), restored.History())

	for point := 0; point <= orig.HistoryLen(); point++ {
		seekHistory(orig, point)
		seekHistory(restored, point)
		want, got := orig.VisibleStrokes(), restored.VisibleStrokes()
		require.Len(t, got, len(want), "history point %d", point)
		for i := range want {
			assert.True(t, want[i].Equal(got[i]), "history point %d stroke %d", point, i)
		}
	}
}

func TestDocumentWireFormat(t *testing.T) {
	r := NewReel(nil, NewManualClock(), DefaultOptions(), Hooks{})
	s, _ := r.Active().BeginStroke(Point{X: 0, Y: 0})
	s.Extend(Point{X: 10, Y: 0}, 1)
	r.Active().BeginStroke(Point{X: 5, Y: 6})
	r.Active().Undo()

	data, err := Encode(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"frames":[{
		"historyPoint":1,
		"history":[[1,0],[1,1]],
		"strokeStore":[[[[0,0,10,0,1]],[10,0]],[[],[5,6]]]
	}]}`, string(data))
}

func TestDecodeAcceptsLegacyKeys(t *testing.T) {
	doc, err := Decode([]byte(`{"pictures":[{"historyPoint":1,"history":[[1,0]],"allLines":[[[[0,0,1,1,0.5]],[1,1]]]}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Frames, 1)
	require.Len(t, doc.Frames[0].StrokeStore, 1)
	assert.Equal(t, [5]float64{0, 0, 1, 1, 0.5}, doc.Frames[0].StrokeStore[0].Segments[0])
}

func TestDecodeRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", `{{`, ErrMalformedDocument},
		{"no frames key", `{}`, ErrMalformedDocument},
		{"empty frames", `{"frames":[]}`, ErrEmptyDocument},
		{"missing history point", `{"frames":[{"history":[],"strokeStore":[]}]}`, ErrMalformedDocument},
		{"missing store", `{"frames":[{"historyPoint":0,"history":[]}]}`, ErrMalformedDocument},
		{"history point past end", `{"frames":[{"historyPoint":2,"history":[[1,0]],"strokeStore":[[[],[0,0]]]}]}`, ErrMalformedDocument},
		{"negative history point", `{"frames":[{"historyPoint":-1,"history":[],"strokeStore":[]}]}`, ErrMalformedDocument},
		{"unknown tag", `{"frames":[{"historyPoint":1,"history":[[2,0]],"strokeStore":[[[],[0,0]]]}]}`, ErrMalformedDocument},
		{"index outside store", `{"frames":[{"historyPoint":1,"history":[[1,3]],"strokeStore":[[[],[0,0]]]}]}`, ErrMalformedDocument},
		{"short action", `{"frames":[{"historyPoint":0,"history":[[1]],"strokeStore":[]}]}`, ErrMalformedDocument},
		{"short segment", `{"frames":[{"historyPoint":0,"history":[],"strokeStore":[[[[0,0,1,1]],[1,1]]]}]}`, ErrMalformedDocument},
		{"stroke shape", `{"frames":[{"historyPoint":0,"history":[],"strokeStore":[[[],[0,0],[1]]]}]}`, ErrMalformedDocument},
		{"disjoint segments", `{"frames":[{"historyPoint":0,"history":[],"strokeStore":[[[[0,0,1,1,1],[5,5,6,6,1]],[6,6]]]}]}`, ErrMalformedDocument},
		{"anchor mismatch", `{"frames":[{"historyPoint":0,"history":[],"strokeStore":[[[[0,0,1,1,1]],[9,9]]]}]}`, ErrMalformedDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReelRoundTripPreservesEveryFrame(t *testing.T) {
	r := NewReel(newRecordingSurface(), NewManualClock(), DefaultOptions(), Hooks{})
	drawLine(r.Active(), Point{X: 1, Y: 1}, Point{X: 2, Y: 2}, 1)
	r.AddFrame()
	drawLine(r.Active(), Point{X: 3, Y: 3}, Point{X: 4, Y: 4}, 2)
	drawLine(r.Active(), Point{X: 5, Y: 5}, Point{X: 6, Y: 6}, 2)
	r.Active().Undo()

	data, err := Encode(r)
	require.NoError(t, err)
	doc, err := Decode(data)
	require.NoError(t, err)

	other := NewReel(newRecordingSurface(), NewManualClock(), DefaultOptions(), Hooks{})
	require.NoError(t, other.Load(doc))
	require.Equal(t, r.Len(), other.Len())
	for i := 0; i < r.Len(); i++ {
		assert.Equal(t, r.Frame(i).Serialize(), other.Frame(i).Serialize())
	}
	other.Active().Redo()
	assert.Len(t, other.Active().VisibleStrokes(), 1)
}
