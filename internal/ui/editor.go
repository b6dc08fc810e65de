package ui

import (
	"fmt"
	"io"
	"log"
	"time"

	"flipbook/internal/config"
	"flipbook/internal/export"
	"flipbook/internal/state"
	"flipbook/internal/storage"
)

// Editor owns the reel and everything that reads or writes it outside of
// pointer input: persistence, file import and export, and the share feed.
type Editor struct {
	Reel *state.Reel

	cfg     config.Config
	store   *storage.Store
	publish func([]byte)
	status  func(string)
}

// EditorOptions wires an editor to its host. Publish and Status may be nil.
type EditorOptions struct {
	Config  config.Config
	Store   *storage.Store
	Surface state.Surface
	Sched   state.Scheduler
	Hooks   state.Hooks
	Publish func([]byte)
	Status  func(string)
}

// NewEditor builds the reel and restores the autosaved document and
// settings. A corrupt autosave is logged and replaced by an empty reel.
func NewEditor(o EditorOptions) *Editor {
	e := &Editor{cfg: o.Config, store: o.Store, publish: o.Publish, status: o.Status}
	hooks := o.Hooks
	hooks.Autosave = e.autosave
	e.Reel = state.NewReel(o.Surface, o.Sched, o.Config.Options(), hooks)
	if e.store == nil {
		return e
	}
	e.store.RestoreSettings(e.Reel)
	doc, err := e.store.LoadDocument()
	switch {
	case err != nil:
		log.Printf("[SAVE] ignoring autosave: %v", err)
		e.setStatus("Saved drawing could not be read")
	case doc != nil:
		if err := e.Reel.Load(doc); err != nil {
			log.Printf("[SAVE] ignoring autosave: %v", err)
		} else {
			// The restored work was never saved to a file.
			e.Reel.MarkDirty()
			e.setStatus(fmt.Sprintf("Restored %d frames", e.Reel.Len()))
		}
	}
	return e
}

func (e *Editor) setStatus(text string) {
	if e.status != nil {
		e.status(text)
	}
}

func (e *Editor) autosave(r *state.Reel) {
	if e.store == nil {
		e.share()
		return
	}
	data, err := e.store.SaveDocument(r)
	if err != nil {
		log.Printf("[SAVE] autosave failed: %v", err)
		e.setStatus("Autosave failed")
		return
	}
	if e.publish != nil {
		e.publish(data)
	}
}

// share sends the current document to viewers without touching storage.
func (e *Editor) share() {
	if e.publish == nil {
		return
	}
	data, err := state.Encode(e.Reel)
	if err != nil {
		log.Printf("[SHARE] encode failed: %v", err)
		return
	}
	e.publish(data)
}

// Close flushes a pending autosave.
func (e *Editor) Close() {
	e.Reel.FlushAutosave()
}

// Discarding reports whether the reel has changes that were never saved
// to a file. The autosave slot does not count.
func (e *Editor) Discarding() bool {
	return e.Reel.Dirty()
}

// NewDocument starts over with one empty frame and forgets the autosave.
func (e *Editor) NewDocument() {
	e.Reel.Reset()
	if e.store != nil {
		e.store.ClearDocument()
	}
	e.share()
	e.setStatus("New drawing")
}

// Open replaces the reel with a document read from r. On error the reel
// is unchanged.
func (e *Editor) Open(r io.Reader) error {
	doc, raw, err := storage.ReadDocument(r)
	if err != nil {
		return err
	}
	if err := e.Reel.Load(doc); err != nil {
		return err
	}
	if e.store != nil {
		if err := e.store.StoreRaw(raw); err != nil {
			return err
		}
	}
	e.share()
	e.setStatus(fmt.Sprintf("Opened %d frames", e.Reel.Len()))
	return nil
}

// Follow shows a snapshot received from a sharing host.
func (e *Editor) Follow(doc *state.Document) {
	if err := e.Reel.Load(doc); err != nil {
		log.Printf("[SHARE] bad snapshot: %v", err)
		return
	}
	e.setStatus(fmt.Sprintf("Following: %d frames", e.Reel.Len()))
}

func (e *Editor) Save(w io.Writer) error {
	n, err := storage.WriteDocument(w, e.Reel)
	if err != nil {
		return err
	}
	e.Reel.MarkSaved()
	e.setStatus(fmt.Sprintf("Saved %d frames (%d bytes)", e.Reel.Len(), n))
	return nil
}

func (e *Editor) ExportPDF(w io.Writer) error {
	o := export.DefaultPDFOptions()
	opts := e.Reel.Options()
	o.Shadows = opts.ShadowDepth > 0
	o.Depth, o.Dir = opts.ShadowDepth, opts.ShadowDirection
	if err := export.WritePDF(w, e.Reel, o); err != nil {
		return err
	}
	e.setStatus(fmt.Sprintf("Exported %d pages", e.Reel.Len()))
	return nil
}

// ExportPNG writes the active frame as the editor shows it.
func (e *Editor) ExportPNG(w io.Writer) error {
	return export.WritePNG(w, e.Reel, e.Reel.ActiveIndex(), e.cfg.CanvasWidth, e.cfg.CanvasHeight, true)
}

func (e *Editor) ExportAPNG(path string) error {
	rec, err := export.Record(e.Reel.Serialize(), e.cfg.CanvasWidth, e.cfg.CanvasHeight, e.Reel.Options().Interval)
	if err != nil {
		return err
	}
	if err := rec.SaveAPNG(path); err != nil {
		return err
	}
	e.setStatus(fmt.Sprintf("Exported %d frames to %s", len(rec.Frames), path))
	return nil
}

// Settings are persisted as they change.

func (e *Editor) SetLoop(v bool) {
	if e.store != nil {
		e.store.SetLoop(e.Reel, v)
		return
	}
	e.Reel.SetLoop(v)
}

func (e *Editor) SetThickness(v float64) {
	if e.store != nil {
		e.store.SetThickness(e.Reel, v)
		return
	}
	e.Reel.SetThickness(v)
}

func (e *Editor) SetShadows(n int) {
	if e.store != nil {
		e.store.SetShadows(e.Reel, n)
		return
	}
	e.Reel.SetShadowDepth(n)
}

func (e *Editor) SetSpeed(ms int) {
	if e.store != nil {
		e.store.SetSpeed(e.Reel, ms)
		return
	}
	e.Reel.SetInterval(time.Duration(ms) * time.Millisecond)
}

// confirmDiscard runs proceed straight away when nothing would be lost,
// and otherwise only if ask answers yes.
func confirmDiscard(discarding bool, ask func(answer func(bool)), proceed func()) {
	if !discarding {
		proceed()
		return
	}
	ask(func(ok bool) {
		if ok {
			proceed()
		}
	})
}
