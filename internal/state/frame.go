package state

// StrokeID is a stable index into a frame's stroke store.
type StrokeID int

// ActionKind tags a history entry.
type ActionKind int

const (
	RemoveStroke ActionKind = iota
	AddStroke
)

func (k ActionKind) String() string {
	switch k {
	case AddStroke:
		return "AddStroke"
	case RemoveStroke:
		return "RemoveStroke"
	}
	return "ActionKind(?)"
}

// Action is one entry in a frame's history log.
type Action struct {
	Kind   ActionKind
	Stroke StrokeID
}

// ThumbnailScale is the render scale for frame previews.
const ThumbnailScale = 0.1

// Frame is one drawing in the reel together with its undo/redo history.
// The stroke store and history are append-only except for the truncation
// done when recording after an undo.
type Frame struct {
	Index     int
	Thumbnail Surface

	strokes      []*Stroke
	history      []Action
	historyPoint int
}

func NewFrame(index int, thumbnail Surface) *Frame {
	return &Frame{Index: index, Thumbnail: thumbnail}
}

func (f *Frame) HistoryPoint() int { return f.historyPoint }
func (f *Frame) HistoryLen() int   { return len(f.history) }

func (f *Frame) History() []Action {
	out := make([]Action, len(f.history))
	copy(out, f.history)
	return out
}

// StoreLen is the number of strokes ever kept in the store.
func (f *Frame) StoreLen() int { return len(f.strokes) }

// Stroke returns the stroke for id, or nil if it is not in the store.
func (f *Frame) Stroke(id StrokeID) *Stroke {
	if id < 0 || int(id) >= len(f.strokes) {
		return nil
	}
	return f.strokes[id]
}

// prune drops the undone future so the next action becomes its replacement.
// The stroke store is cut back to the last stroke the surviving prefix adds.
func (f *Frame) prune() {
	f.history = f.history[:f.historyPoint]
	keep := 0
	for _, a := range f.history {
		if a.Kind == AddStroke && int(a.Stroke)+1 > keep {
			keep = int(a.Stroke) + 1
		}
	}
	for i := keep; i < len(f.strokes); i++ {
		f.strokes[i] = nil
	}
	f.strokes = f.strokes[:keep]
}

func (f *Frame) record(a Action) {
	f.history = append(f.history, a)
	f.historyPoint = len(f.history)
}

// BeginStroke adds a new stroke anchored at anchor and records it.
func (f *Frame) BeginStroke(anchor Point) (*Stroke, StrokeID) {
	f.prune()
	s := NewStroke(anchor)
	id := StrokeID(len(f.strokes))
	f.strokes = append(f.strokes, s)
	f.record(Action{Kind: AddStroke, Stroke: id})
	return s, id
}

// DeleteStroke records the removal of a visible stroke. It returns false and
// changes nothing when the stroke is not currently visible.
func (f *Frame) DeleteStroke(id StrokeID) bool {
	if _, ok := f.visibleSet()[id]; !ok {
		return false
	}
	f.prune()
	f.record(Action{Kind: RemoveStroke, Stroke: id})
	return true
}

func (f *Frame) Undo() {
	if f.historyPoint > 0 {
		f.historyPoint--
	}
}

func (f *Frame) Redo() {
	if f.historyPoint < len(f.history) {
		f.historyPoint++
	}
}

func (f *Frame) CanUndo() bool { return f.historyPoint > 0 }
func (f *Frame) CanRedo() bool { return f.historyPoint < len(f.history) }

func (f *Frame) visibleSet() map[StrokeID]struct{} {
	present := make(map[StrokeID]struct{})
	for _, a := range f.history[:f.historyPoint] {
		if a.Kind == AddStroke {
			present[a.Stroke] = struct{}{}
		} else {
			delete(present, a.Stroke)
		}
	}
	return present
}

// VisibleIDs replays the applied history prefix. Ids come back in store order.
func (f *Frame) VisibleIDs() []StrokeID {
	present := f.visibleSet()
	ids := make([]StrokeID, 0, len(present))
	for i := range f.strokes {
		if _, ok := present[StrokeID(i)]; ok {
			ids = append(ids, StrokeID(i))
		}
	}
	return ids
}

// VisibleStrokes returns the strokes currently shown, in insertion order.
func (f *Frame) VisibleStrokes() []*Stroke {
	ids := f.VisibleIDs()
	out := make([]*Stroke, len(ids))
	for i, id := range ids {
		out[i] = f.strokes[id]
	}
	return out
}

// HitStrokes returns every visible stroke the probe touches.
func (f *Frame) HitStrokes(surface Surface, probe Point) []StrokeID {
	var hits []StrokeID
	for _, id := range f.VisibleIDs() {
		if f.strokes[id].HitTest(surface, probe) {
			hits = append(hits, id)
		}
	}
	return hits
}

// Render draws the visible strokes; later strokes land on top.
func (f *Frame) Render(surface Surface, scale float64) {
	for _, s := range f.VisibleStrokes() {
		s.Render(surface, scale)
	}
}

func (f *Frame) RenderThumbnail() {
	if f.Thumbnail == nil {
		return
	}
	f.Thumbnail.Clear()
	f.Thumbnail.SetStrokeStyle(StrokeStyle)
	f.Render(f.Thumbnail, ThumbnailScale)
}
