package vfs

import (
	"sync"

	"github.com/codedeck/backend/internal/shared/id"
)

// EventType labels a structural-change notification
type EventType string

const (
	EventCreated EventType = "node_created"
	EventRenamed EventType = "node_renamed"
	EventDeleted EventType = "node_deleted"
	EventContent EventType = "node_content"
	EventToggled EventType = "node_toggled"
)

// Event describes one committed tree mutation. Subscribers (the UI
// broadcast hub, the runtime-sync mirror) receive it after the mutation
// is fully applied; they never see a half-rewritten tree.
type Event struct {
	Type    EventType `json:"type"`
	NodeID  id.NodeID `json:"node_id"`
	Path    string    `json:"path"`
	OldPath string    `json:"old_path,omitempty"`
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

// Subscribe registers a structural-change listener. Listeners run
// synchronously after the mutation commits and must not call back into
// the tree's write operations.
func (t *Tree) Subscribe(fn func(Event)) {
	t.subs.add(fn)
}
