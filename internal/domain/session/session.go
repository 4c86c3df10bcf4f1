// Package session tracks the card most recently identified by the game.
package session

import "sync"

// CardSession holds at most one card id. Card inquiries write it, score saves
// read it, possibly from different host threads. The last writer wins.
type CardSession struct {
	mu   sync.RWMutex
	card string
	set  bool
}

// New returns an empty session.
func New() *CardSession {
	return &CardSession{}
}

// Set replaces the current card id.
func (s *CardSession) Set(card string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card = card
	s.set = true
}

// Current returns the current card id and whether one is known.
func (s *CardSession) Current() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.card, s.set
}

// Clear forgets the current card.
func (s *CardSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card = ""
	s.set = false
}
