// Package store owns the in-memory dashboard state: the latest sequence and
// camera snapshots, a freshness-stamped detections cache, and the selected
// event. It replaces ad-hoc serialized caches with one mutex-guarded object
// that main wires into the poller and the handlers.
package store

import (
	"sync"
	"time"

	"go-firewatch/sequences"
	"go-firewatch/types"
)

type detectionEntry struct {
	items     []types.Detection
	fetchedAt time.Time
}

// Store is safe for concurrent use. Snapshots are replaced atomically and
// returned as copies, so readers never observe a partially-updated state.
type Store struct {
	mu            sync.RWMutex
	seqs          []types.Sequence
	version       uint64
	cameras       []types.Camera
	detections    map[int64]detectionEntry
	detectionsTTL time.Duration

	selectedID int64
	lastClicks []sequences.ClickState
}

func New(detectionsTTL time.Duration) *Store {
	return &Store{
		detections:    make(map[int64]detectionEntry),
		detectionsTTL: detectionsTTL,
	}
}

// ReplaceSequences swaps in a freshly polled snapshot only when it
// materially differs from the cached one, and reports whether it did.
// An unchanged poll leaves the version untouched so downstream consumers
// (websocket broadcast, UI re-render) stay quiet.
func (s *Store) ReplaceSequences(next []types.Sequence) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !sequences.HaveChanged(next, s.seqs, nil) {
		return false
	}

	s.seqs = append([]types.Sequence(nil), next...)
	s.version++

	// Drop cached detections for sequences that disappeared.
	live := make(map[int64]bool, len(next))
	for _, seq := range next {
		live[seq.ID] = true
	}
	for id := range s.detections {
		if !live[id] {
			delete(s.detections, id)
		}
	}

	return true
}

// Sequences returns a copy of the current snapshot.
func (s *Store) Sequences() []types.Sequence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Sequence(nil), s.seqs...)
}

// Sequence looks up one sequence by id in the current snapshot.
func (s *Store) Sequence(id int64) (types.Sequence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, seq := range s.seqs {
		if seq.ID == id {
			return seq, true
		}
	}
	return types.Sequence{}, false
}

// Version counts snapshot replacements since startup.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) SetCameras(cams []types.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cameras = append([]types.Camera(nil), cams...)
}

func (s *Store) Cameras() []types.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Camera(nil), s.cameras...)
}

// Camera looks up one camera by id in the registry snapshot.
func (s *Store) Camera(id int64) (types.Camera, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, cam := range s.cameras {
		if cam.ID == id {
			return cam, true
		}
	}
	return types.Camera{}, false
}

// SetDetections caches the detections of a sequence with a freshness stamp.
func (s *Store) SetDetections(sequenceID int64, items []types.Detection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detections[sequenceID] = detectionEntry{
		items:     append([]types.Detection(nil), items...),
		fetchedAt: time.Now(),
	}
}

// Detections returns the cached detections for a sequence if they are still
// within the freshness TTL. A TTL of zero never expires.
func (s *Store) Detections(sequenceID int64) ([]types.Detection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.detections[sequenceID]
	if !ok {
		return nil, false
	}
	if s.detectionsTTL > 0 && time.Since(entry.fetchedAt) > s.detectionsTTL {
		return nil, false
	}
	return append([]types.Detection(nil), entry.items...), true
}

// ObserveClicks feeds a fresh observation of the event buttons through the
// click-attribution rule and returns the resulting selection. The previous
// observation and selection are kept internally.
func (s *Store) ObserveClicks(current []sequences.ClickState) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selectedID = sequences.SelectEvent(current, s.lastClicks, s.selectedID)
	s.lastClicks = append([]sequences.ClickState(nil), current...)
	return s.selectedID
}

// SelectedID returns the currently selected event id (0 when none).
func (s *Store) SelectedID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}
