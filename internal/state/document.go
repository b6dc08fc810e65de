package state

import (
	"encoding/json"
	"fmt"
)

// Document is the export, import and autosave payload.
type Document struct {
	Frames []FrameDoc `json:"frames"`
}

// FrameDoc is one frame's history. History entries are [tag, storeIndex]
// with tag 1 for AddStroke and 0 for RemoveStroke.
type FrameDoc struct {
	HistoryPoint int         `json:"historyPoint"`
	History      [][2]int    `json:"history"`
	StrokeStore  []StrokeDoc `json:"strokeStore"`
}

// StrokeDoc encodes as [[[x,y,x,y,pressure]...],[lastX,lastY]].
type StrokeDoc struct {
	Segments [][5]float64
	Last     [2]float64
}

func (d StrokeDoc) MarshalJSON() ([]byte, error) {
	segs := d.Segments
	if segs == nil {
		segs = [][5]float64{}
	}
	return json.Marshal([2]any{segs, d.Last})
}

func (d *StrokeDoc) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("stroke: want [segments, lastPoint], got %d elements", len(parts))
	}
	var segs [][]float64
	if err := json.Unmarshal(parts[0], &segs); err != nil {
		return fmt.Errorf("stroke segments: %w", err)
	}
	var last []float64
	if err := json.Unmarshal(parts[1], &last); err != nil {
		return fmt.Errorf("stroke last point: %w", err)
	}
	if len(last) != 2 {
		return fmt.Errorf("stroke last point: want 2 numbers, got %d", len(last))
	}
	d.Segments = make([][5]float64, len(segs))
	for i, s := range segs {
		if len(s) != 5 {
			return fmt.Errorf("segment %d: want 5 numbers, got %d", i, len(s))
		}
		copy(d.Segments[i][:], s)
	}
	d.Last = [2]float64{last[0], last[1]}
	return nil
}

func (d *FrameDoc) UnmarshalJSON(data []byte) error {
	var raw struct {
		HistoryPoint *int         `json:"historyPoint"`
		History      [][]int      `json:"history"`
		StrokeStore  *[]StrokeDoc `json:"strokeStore"`
		AllLines     *[]StrokeDoc `json:"allLines"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.HistoryPoint == nil {
		return fmt.Errorf("missing historyPoint")
	}
	store := raw.StrokeStore
	if store == nil {
		store = raw.AllLines
	}
	if store == nil {
		return fmt.Errorf("missing strokeStore")
	}
	d.HistoryPoint = *raw.HistoryPoint
	d.StrokeStore = *store
	d.History = make([][2]int, len(raw.History))
	for i, a := range raw.History {
		if len(a) != 2 {
			return fmt.Errorf("history %d: want [tag, index], got %d elements", i, len(a))
		}
		d.History[i] = [2]int{a[0], a[1]}
	}
	return nil
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Frames   *[]FrameDoc `json:"frames"`
		Pictures *[]FrameDoc `json:"pictures"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Frames != nil:
		d.Frames = *raw.Frames
	case raw.Pictures != nil:
		d.Frames = *raw.Pictures
	default:
		return fmt.Errorf("missing frames")
	}
	return nil
}

// SerializeStroke flattens a stroke into its document form.
func SerializeStroke(s *Stroke) StrokeDoc {
	d := StrokeDoc{
		Segments: make([][5]float64, len(s.segments)),
		Last:     [2]float64{s.lastPoint.X, s.lastPoint.Y},
	}
	for i, seg := range s.segments {
		d.Segments[i] = [5]float64{seg.From.X, seg.From.Y, seg.To.X, seg.To.Y, seg.Pressure}
	}
	return d
}

// Stroke rebuilds the stroke, checking that segments connect end to end.
func (d StrokeDoc) Stroke() (*Stroke, error) {
	s := &Stroke{
		segments:  make([]Segment, len(d.Segments)),
		lastPoint: Point{X: d.Last[0], Y: d.Last[1]},
	}
	for i, v := range d.Segments {
		s.segments[i] = newSegment(Point{X: v[0], Y: v[1]}, Point{X: v[2], Y: v[3]}, v[4])
		if i > 0 && s.segments[i-1].To != s.segments[i].From {
			return nil, fmt.Errorf("segment %d does not start where segment %d ends", i, i-1)
		}
	}
	if n := len(s.segments); n > 0 && s.segments[n-1].To != s.lastPoint {
		return nil, fmt.Errorf("last point does not match final segment")
	}
	return s, nil
}

// Serialize captures the full history, including undone actions.
func (f *Frame) Serialize() FrameDoc {
	d := FrameDoc{
		HistoryPoint: f.historyPoint,
		History:      make([][2]int, len(f.history)),
		StrokeStore:  make([]StrokeDoc, len(f.strokes)),
	}
	for i, a := range f.history {
		d.History[i] = [2]int{int(a.Kind), int(a.Stroke)}
	}
	for i, s := range f.strokes {
		d.StrokeStore[i] = SerializeStroke(s)
	}
	return d
}

// LoadFrame rebuilds a frame from its document form.
func LoadFrame(index int, thumbnail Surface, d FrameDoc) (*Frame, error) {
	f := NewFrame(index, thumbnail)
	f.strokes = make([]*Stroke, len(d.StrokeStore))
	for i, sd := range d.StrokeStore {
		s, err := sd.Stroke()
		if err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
		f.strokes[i] = s
	}
	f.history = make([]Action, len(d.History))
	for i, a := range d.History {
		kind := ActionKind(a[0])
		if kind != AddStroke && kind != RemoveStroke {
			return nil, fmt.Errorf("history %d: unknown action tag %d", i, a[0])
		}
		if a[1] < 0 || a[1] >= len(f.strokes) {
			return nil, fmt.Errorf("history %d: stroke index %d outside store of %d", i, a[1], len(f.strokes))
		}
		f.history[i] = Action{Kind: kind, Stroke: StrokeID(a[1])}
	}
	if d.HistoryPoint < 0 || d.HistoryPoint > len(f.history) {
		return nil, fmt.Errorf("historyPoint %d outside history of %d", d.HistoryPoint, len(f.history))
	}
	f.historyPoint = d.HistoryPoint
	return f, nil
}

// Validate checks every frame without building a reel.
func (d *Document) Validate() error {
	if len(d.Frames) == 0 {
		return ErrEmptyDocument
	}
	for i, fd := range d.Frames {
		if _, err := LoadFrame(i, nil, fd); err != nil {
			return fmt.Errorf("frame %d: %v: %w", i, err, ErrMalformedDocument)
		}
	}
	return nil
}

// Encode serializes the reel as JSON.
func Encode(r *Reel) ([]byte, error) {
	return json.Marshal(r.Serialize())
}

// Decode parses and validates a document.
func Decode(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode document: %v: %w", err, ErrMalformedDocument)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
