package editor

import (
	"sync"

	"github.com/codedeck/backend/internal/shared/id"
)

// EventType labels a session-change notification
type EventType string

const (
	EventTabOpened    EventType = "tab_opened"
	EventTabClosed    EventType = "tab_closed"
	EventTabActivated EventType = "tab_activated"
	EventDraftUpdated EventType = "draft_updated"
	EventTabSaved     EventType = "tab_saved"
	EventUndone       EventType = "undone"
	EventRedone       EventType = "redone"
	EventRestored     EventType = "workspace_restored"
)

// Event describes one committed session change
type Event struct {
	Type  EventType `json:"type"`
	TabID id.NodeID `json:"tab_id,omitempty"`
	Path  string    `json:"path,omitempty"`
}

type subscribers struct {
	mu  sync.RWMutex
	fns []func(Event)
}

func (s *subscribers) add(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fns = append(s.fns, fn)
}

func (s *subscribers) emit(ev Event) {
	s.mu.RLock()
	fns := s.fns
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribe registers a session-change listener. Listeners run
// synchronously after the change commits and must not call back into
// the manager's write operations.
func (m *Manager) Subscribe(fn func(Event)) {
	m.subs.add(fn)
}
