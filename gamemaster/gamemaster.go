package gamemaster

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"tactics/game"
)

// Registry keeps the sessions of every game hosted by the process. Sessions
// of different games run independently.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

// Create starts a session for gs under id.
func (r *Registry) Create(id string, gs *game.GameState, opts ...Option) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; ok {
		return nil, fmt.Errorf("game %q already exists", id)
	}
	s := NewSession(id, gs, opts...)
	r.sessions[id] = s
	log.Info().Str("game", id).Msg("game created")
	return s, nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove closes and forgets the session of id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("game %q not found", id)
	}
	s.Close()
	log.Info().Str("game", id).Msg("game removed")
	return nil
}

func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
