// Package storage persists the reel document and user preferences.
package storage

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"

	"flipbook/internal/state"
)

// Preference keys. Each value is stored and restored on its own.
const (
	DocumentKey  = "saved1"
	LoopKey      = "loop"
	ThicknessKey = "thickness"
	ShadowsKey   = "shadows"
	SpeedKey     = "speed"
)

// Store keeps the autosaved document and settings in fyne preferences.
type Store struct {
	prefs fyne.Preferences
}

func New(prefs fyne.Preferences) *Store {
	return &Store{prefs: prefs}
}

// LoadDocument returns the autosaved document, or nil if there is none.
func (s *Store) LoadDocument() (*state.Document, error) {
	data := s.prefs.String(DocumentKey)
	if data == "" {
		return nil, nil
	}
	doc, err := state.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("load autosave: %w", err)
	}
	return doc, nil
}

// SaveDocument overwrites the autosave slot with the reel's document and
// returns what was stored.
func (s *Store) SaveDocument(r *state.Reel) ([]byte, error) {
	data, err := state.Encode(r)
	if err != nil {
		return nil, fmt.Errorf("encode autosave: %w", err)
	}
	s.prefs.SetString(DocumentKey, string(data))
	log.Printf("[SAVE] stored %d bytes", len(data))
	return data, nil
}

// StoreRaw puts an already encoded document into the autosave slot, the
// way an imported file replaces the current one.
func (s *Store) StoreRaw(data []byte) error {
	if _, err := state.Decode(data); err != nil {
		return err
	}
	s.prefs.SetString(DocumentKey, string(data))
	return nil
}

func (s *Store) ClearDocument() {
	s.prefs.RemoveValue(DocumentKey)
}

// RestoreSettings applies any saved preferences to the reel. Keys that were
// never saved keep the reel's current value.
func (s *Store) RestoreSettings(r *state.Reel) {
	o := r.Options()
	r.SetLoop(s.prefs.BoolWithFallback(LoopKey, o.Loop))
	r.SetThickness(s.prefs.FloatWithFallback(ThicknessKey, o.Thickness))
	r.SetShadowDepth(s.prefs.IntWithFallback(ShadowsKey, o.ShadowDepth))
	ms := s.prefs.IntWithFallback(SpeedKey, int(o.Interval/time.Millisecond))
	r.SetInterval(time.Duration(ms) * time.Millisecond)
}

func (s *Store) SetLoop(r *state.Reel, loop bool) {
	s.prefs.SetBool(LoopKey, loop)
	r.SetLoop(loop)
}

func (s *Store) SetThickness(r *state.Reel, thickness float64) {
	s.prefs.SetFloat(ThicknessKey, thickness)
	r.SetThickness(thickness)
}

func (s *Store) SetShadows(r *state.Reel, n int) {
	s.prefs.SetInt(ShadowsKey, n)
	r.SetShadowDepth(n)
}

// SetSpeed stores the playback interval in milliseconds.
func (s *Store) SetSpeed(r *state.Reel, ms int) {
	s.prefs.SetInt(SpeedKey, ms)
	r.SetInterval(time.Duration(ms) * time.Millisecond)
}
