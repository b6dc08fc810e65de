package state

import (
	"fmt"
	"log"
	"time"
)

const (
	StrokeStyle     = "#000"
	BackgroundStyle = "#fff"

	// ShadowGap is the grey step between successive onion-skin layers.
	ShadowGap = 35

	// EraserButtons is the pointer button mask of a stylus eraser end.
	EraserButtons = 32
	// NominalPressure stands in for devices that report no pressure.
	NominalPressure = 0.5
)

// GestureMode is what the current pointer drag is doing.
type GestureMode int

const (
	Idle GestureMode = iota
	Drawing
	Erasing
)

func (m GestureMode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	case Erasing:
		return "erasing"
	}
	return "unknown"
}

// Input is one pointer sample in surface coordinates.
type Input struct {
	Point       Point
	Pressure    float64
	HasPressure bool
	Buttons     int
}

func (in Input) pressure() float64 {
	if !in.HasPressure {
		return NominalPressure
	}
	return in.Pressure
}

// Options are the user-tunable playback and drawing settings.
type Options struct {
	Thickness       float64
	Loop            bool
	ShadowDepth     int
	ShadowDirection int
	Interval        time.Duration
	AutosaveDelay   time.Duration
	ThumbnailDelay  time.Duration
}

func DefaultOptions() Options {
	return Options{
		Thickness:       10,
		Loop:            true,
		ShadowDepth:     3,
		ShadowDirection: -1,
		Interval:        10 * time.Millisecond,
		AutosaveDelay:   10 * time.Second,
		ThumbnailDelay:  500 * time.Millisecond,
	}
}

// Hooks connect the reel to its host. Any of them may be nil.
type Hooks struct {
	// NewThumbnail returns the preview surface for a frame being created.
	NewThumbnail func(index int) Surface

	// FrameAdded fires after a frame is appended. scrollTo is false for
	// frames restored from a document.
	FrameAdded func(f *Frame, scrollTo bool)

	// FramesReset fires before the reel discards every frame.
	FramesReset func()

	// ThumbnailRendered fires after a frame's preview has been repainted.
	ThumbnailRendered func(f *Frame)

	FrameSelected    func(index int)
	Redrawn          func()
	AnimationStopped func()
	Autosave         func(r *Reel)
}

// Reel is the ordered sequence of frames plus playback state. All methods
// must be called from a single control thread; the Scheduler is expected to
// deliver callbacks on that same thread.
type Reel struct {
	Surface Surface

	hooks  Hooks
	opts   Options
	frames []*Frame
	active int

	animating bool
	dirty     bool

	gesture GestureMode
	drawing *Stroke
	mutated bool

	tick      task
	autosave  task
	thumbnail task
}

// NewReel creates a reel holding one empty, active frame.
func NewReel(surface Surface, sched Scheduler, opts Options, hooks Hooks) *Reel {
	r := &Reel{
		Surface:   surface,
		hooks:     hooks,
		opts:      opts,
		tick:      task{sched: sched},
		autosave:  task{sched: sched},
		thumbnail: task{sched: sched},
	}
	r.opts.ShadowDirection = normalizeDirection(opts.ShadowDirection)
	f := r.pushFrame(NewFrame(0, r.newThumbnail(0)), true)
	r.SelectFrame(f.Index)
	return r
}

func normalizeDirection(dir int) int {
	if dir > 0 {
		return 1
	}
	return -1
}

func (r *Reel) newThumbnail(index int) Surface {
	if r.hooks.NewThumbnail == nil {
		return nil
	}
	return r.hooks.NewThumbnail(index)
}

func (r *Reel) renderThumbnail(f *Frame) {
	f.RenderThumbnail()
	if r.hooks.ThumbnailRendered != nil {
		r.hooks.ThumbnailRendered(f)
	}
}

func (r *Reel) Options() Options       { return r.opts }
func (r *Reel) Len() int               { return len(r.frames) }
func (r *Reel) ActiveIndex() int       { return r.active }
func (r *Reel) Active() *Frame         { return r.frames[r.active] }
func (r *Reel) Frame(i int) *Frame     { return r.frames[i] }
func (r *Reel) IsAnimating() bool      { return r.animating }
func (r *Reel) Dirty() bool            { return r.dirty }
func (r *Reel) Gesture() GestureMode   { return r.gesture }
func (r *Reel) AutosavePending() bool  { return r.autosave.pending() }
func (r *Reel) ThumbnailPending() bool { return r.thumbnail.pending() }

func (r *Reel) Frames() []*Frame {
	out := make([]*Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// MarkSaved clears the unsaved-changes flag after an explicit export.
func (r *Reel) MarkSaved() { r.dirty = false }

// MarkDirty flags content that exists nowhere but the autosave slot.
func (r *Reel) MarkDirty() { r.dirty = true }

func (r *Reel) pushFrame(f *Frame, scrollTo bool) *Frame {
	r.frames = append(r.frames, f)
	r.active = f.Index
	if r.hooks.FrameAdded != nil {
		r.hooks.FrameAdded(f, scrollTo)
	}
	return f
}

// AddFrame appends an empty frame and makes it active.
func (r *Reel) AddFrame() *Frame {
	prev := r.Active()
	if r.thumbnail.stop() {
		r.renderThumbnail(prev)
	}
	index := len(r.frames)
	f := r.pushFrame(NewFrame(index, r.newThumbnail(index)), true)
	log.Printf("[REEL] added frame #%d", index+1)
	r.SelectFrame(index)
	r.dirty = true
	r.ScheduleAutosave()
	return f
}

// SelectFrame activates frame i and redraws. i must be a valid index.
func (r *Reel) SelectFrame(i int) {
	if i < 0 || i >= len(r.frames) {
		panic(fmt.Sprintf("state: frame index %d out of range [0,%d)", i, len(r.frames)))
	}
	if r.thumbnail.stop() {
		r.renderThumbnail(r.frames[r.active])
	}
	r.active = i
	if r.hooks.FrameSelected != nil {
		r.hooks.FrameSelected(i)
	}
	r.Redraw()
}

// BeginGesture routes a pointer-down to drawing or erasing. It is refused
// while animating or while another gesture is live.
func (r *Reel) BeginGesture(in Input) bool {
	if r.animating || r.gesture != Idle {
		return false
	}
	r.mutated = false
	if in.Buttons == EraserButtons {
		r.gesture = Erasing
		return true
	}
	r.gesture = Drawing
	r.drawing, _ = r.Active().BeginStroke(in.Point)
	r.mutated = true
	r.dirty = true
	return true
}

// MoveGesture extends the live stroke, or erases every visible stroke under
// the pointer.
func (r *Reel) MoveGesture(in Input) {
	switch r.gesture {
	case Drawing:
		r.drawing.Extend(in.Point, in.pressure()*r.opts.Thickness)
		r.mutated = true
		r.dirty = true
		r.Redraw()
		r.RefreshThumbnailSoon()
	case Erasing:
		f := r.Active()
		hits := f.HitStrokes(r.Surface, in.Point)
		if len(hits) == 0 {
			return
		}
		for _, id := range hits {
			f.DeleteStroke(id)
		}
		r.mutated = true
		r.dirty = true
		r.renderThumbnail(f)
		r.Redraw()
	}
}

// EndGesture returns to Idle and schedules an autosave if anything changed.
func (r *Reel) EndGesture() {
	if r.gesture == Idle {
		return
	}
	r.gesture = Idle
	r.drawing = nil
	if r.mutated {
		r.ScheduleAutosave()
	}
	r.mutated = false
}

// Undo steps the active frame back. With nothing to undo it does nothing.
func (r *Reel) Undo() {
	f := r.Active()
	if !f.CanUndo() {
		return
	}
	f.Undo()
	r.afterHistoryStep()
}

func (r *Reel) Redo() {
	f := r.Active()
	if !f.CanRedo() {
		return
	}
	f.Redo()
	r.afterHistoryStep()
}

func (r *Reel) afterHistoryStep() {
	r.renderThumbnail(r.Active())
	r.Redraw()
	r.dirty = true
	r.ScheduleAutosave()
}

// RefreshThumbnailSoon schedules one preview refresh for the active frame.
func (r *Reel) RefreshThumbnailSoon() {
	f := r.Active()
	r.thumbnail.ensure(r.opts.ThumbnailDelay, func() { r.renderThumbnail(f) })
}

// Shadow is one onion-skin layer: the frame to draw and its grey.
type Shadow struct {
	Index    int
	Distance int
	Style    string
}

// ShadowPlan lists the onion-skin layers around active, farthest first.
// The range is clamped to the reel; nearer layers are darker.
func ShadowPlan(active, count, depth, dir int) []Shadow {
	if depth <= 0 || count == 0 {
		return nil
	}
	dir = normalizeDirection(dir)
	start := active + depth*dir
	if start < 0 {
		start = 0
	}
	if start >= count {
		start = count - 1
	}
	n := active - start
	if n < 0 {
		n = -n
	}
	base := 255 - ShadowGap*(n+1)
	plan := make([]Shadow, 0, n)
	for i := start; i != active; i -= dir {
		distance := (active - i) * -dir
		plan = append(plan, Shadow{Index: i, Distance: distance, Style: GreyStyle(base + distance*ShadowGap)})
	}
	return plan
}

// GreyStyle formats a grey level as #gggggg, clamped to 0..255.
func GreyStyle(level int) string {
	level = max(0, min(255, level))
	return fmt.Sprintf("#%02x%02x%02x", level, level, level)
}

// Redraw paints the background, the onion-skin layers unless animating, and
// the active frame on top in full stroke color.
func (r *Reel) Redraw() {
	if r.Surface == nil {
		return
	}
	r.Surface.Fill(BackgroundStyle)
	if !r.animating {
		for _, sh := range ShadowPlan(r.active, len(r.frames), r.opts.ShadowDepth, r.opts.ShadowDirection) {
			r.Surface.SetStrokeStyle(sh.Style)
			r.frames[sh.Index].Render(r.Surface, 1)
		}
	}
	r.Surface.SetStrokeStyle(StrokeStyle)
	r.Active().Render(r.Surface, 1)
	if r.hooks.Redrawn != nil {
		r.hooks.Redrawn()
	}
}

// ToggleAnimation starts or stops playback. Stopping cancels the pending
// tick and reselects the current frame so onion skins come back.
func (r *Reel) ToggleAnimation() {
	if r.gesture != Idle {
		r.EndGesture()
	}
	r.animating = !r.animating
	if r.animating {
		r.AnimateTick(true)
		return
	}
	r.tick.stop()
	r.SelectFrame(r.active)
}

// AnimateTick advances to the next frame. At the end of the reel it wraps,
// unless looping is off and this is not the first tick, in which case
// playback stops where it is.
func (r *Reel) AnimateTick(ignoreLoopGate bool) {
	next := r.active + 1
	if next == len(r.frames) {
		if !r.opts.Loop && !ignoreLoopGate {
			r.animating = false
			r.tick.stop()
			log.Printf("[REEL] animation stopped at frame #%d", r.active+1)
			r.Redraw()
			if r.hooks.AnimationStopped != nil {
				r.hooks.AnimationStopped()
			}
			return
		}
		next = 0
	}
	r.SelectFrame(next)
	if r.animating {
		r.tick.replace(r.opts.Interval, func() { r.AnimateTick(false) })
	}
}

func (r *Reel) SetThickness(t float64) { r.opts.Thickness = t }
func (r *Reel) SetLoop(loop bool)      { r.opts.Loop = loop }

func (r *Reel) SetInterval(d time.Duration) {
	if d < 0 {
		d = 0
	}
	r.opts.Interval = d
}

func (r *Reel) SetShadowDepth(n int) {
	if n < 0 {
		n = 0
	}
	r.opts.ShadowDepth = n
	r.Redraw()
}

func (r *Reel) SetShadowDirection(dir int) {
	r.opts.ShadowDirection = normalizeDirection(dir)
	r.Redraw()
}

// ScheduleAutosave arranges one autosave after the autosave delay. Calls
// made while one is pending are absorbed into it.
func (r *Reel) ScheduleAutosave() {
	r.autosave.ensure(r.opts.AutosaveDelay, r.autosaveNow)
}

// FlushAutosave runs a pending autosave immediately.
func (r *Reel) FlushAutosave() bool {
	if !r.autosave.stop() {
		return false
	}
	r.autosaveNow()
	return true
}

func (r *Reel) autosaveNow() {
	log.Printf("[SAVE] autosaving %d frames", len(r.frames))
	if r.hooks.Autosave != nil {
		r.hooks.Autosave(r)
	}
}

// Serialize captures every frame's full history.
func (r *Reel) Serialize() *Document {
	d := &Document{Frames: make([]FrameDoc, len(r.frames))}
	for i, f := range r.frames {
		d.Frames[i] = f.Serialize()
	}
	return d
}

func (r *Reel) stopPlayback() {
	if r.gesture != Idle {
		r.EndGesture()
	}
	r.animating = false
	r.tick.stop()
	r.thumbnail.stop()
}

func (r *Reel) discardFrames() {
	if r.hooks.FramesReset != nil {
		r.hooks.FramesReset()
	}
	r.frames = nil
	r.active = 0
}

// Load replaces every frame with the document's and activates frame 0. The
// document is validated first; on error the reel is left untouched.
func (r *Reel) Load(d *Document) error {
	if len(d.Frames) == 0 {
		return ErrEmptyDocument
	}
	loaded := make([]*Frame, len(d.Frames))
	for i, fd := range d.Frames {
		f, err := LoadFrame(i, nil, fd)
		if err != nil {
			return fmt.Errorf("frame %d: %v: %w", i, err, ErrMalformedDocument)
		}
		loaded[i] = f
	}
	log.Printf("[REEL] loading %d frames", len(loaded))
	r.stopPlayback()
	r.discardFrames()
	for _, f := range loaded {
		f.Thumbnail = r.newThumbnail(f.Index)
		r.pushFrame(f, false)
		r.renderThumbnail(f)
	}
	r.SelectFrame(0)
	r.dirty = false
	return nil
}

// Reset discards the document and starts over with one empty frame.
func (r *Reel) Reset() {
	log.Printf("[REEL] starting new document")
	r.stopPlayback()
	r.discardFrames()
	r.pushFrame(NewFrame(0, r.newThumbnail(0)), true)
	r.SelectFrame(0)
	r.dirty = false
}
