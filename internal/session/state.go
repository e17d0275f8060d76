// Package session owns the client's view of which conversations exist and
// which one is active. Every mutation replaces state with what the server
// last returned; nothing is merged.
package session

import (
	"sync"

	"github.com/RichardoC/padchat/internal/models"
)

// State is the cached directory plus the active conversation id. The active
// id, when set, always names an entry of the directory.
type State struct {
	mu        sync.RWMutex
	directory []models.ConversationSummary
	active    models.ConversationID
}

func New() *State {
	return &State{}
}

// ReplaceDirectory installs a fresh listing. An active id that is no longer
// listed is cleared; the return value reports whether that happened.
func (s *State) ReplaceDirectory(list []models.ConversationSummary) (cleared bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory = append([]models.ConversationSummary(nil), list...)
	if s.active != "" && s.indexLocked(s.active) < 0 {
		s.active = ""
		return true
	}
	return false
}

// Activate marks summary as the active conversation and replaces its cached
// entry. A conversation missing from the directory is inserted at the front,
// where the server lists the most recently updated chat.
func (s *State) Activate(summary models.ConversationSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(summary)
	s.active = summary.ID
}

// UpsertSummary replaces the cached entry for summary.ID without changing
// the selection.
func (s *State) UpsertSummary(summary models.ConversationSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(summary)
}

// PatchTitle updates one cached title. Unknown ids and empty titles are ignored.
func (s *State) PatchTitle(id models.ConversationID, title string) bool {
	if title == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.directory[i].Title = title
	return true
}

func (s *State) ActiveID() models.ConversationID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *State) HasActive() bool {
	return s.ActiveID() != ""
}

// Directory returns a copy of the cached listing.
func (s *State) Directory() []models.ConversationSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ConversationSummary(nil), s.directory...)
}

// Snapshot returns the listing and the active id read under one lock.
func (s *State) Snapshot() ([]models.ConversationSummary, models.ConversationID) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ConversationSummary(nil), s.directory...), s.active
}

func (s *State) Lookup(id models.ConversationID) (models.ConversationSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.directory[i], true
	}
	return models.ConversationSummary{}, false
}

func (s *State) upsertLocked(summary models.ConversationSummary) {
	if i := s.indexLocked(summary.ID); i >= 0 {
		s.directory[i] = summary
		return
	}
	s.directory = append([]models.ConversationSummary{summary}, s.directory...)
}

func (s *State) indexLocked(id models.ConversationID) int {
	for i, c := range s.directory {
		if c.ID == id {
			return i
		}
	}
	return -1
}
