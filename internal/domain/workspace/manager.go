// Package workspace persists editor session state across reloads: the
// ordered tab descriptor list, one draft blob per open tab, and the
// active tab id. Blobs are keyed by tab id and stored beside (not
// inside) the descriptor list so large buffers are never duplicated.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/codedeck/backend/internal/domain/editor"
	"github.com/codedeck/backend/internal/infrastructure/logging"
	"github.com/codedeck/backend/internal/infrastructure/monitoring"
	"github.com/codedeck/backend/internal/shared/id"
)

// DefaultName is the snapshot used for automatic save/restore
const DefaultName = "default"

// ErrSnapshotNotFound indicates no snapshot exists under the given name
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Store abstracts the durable backend for snapshots
type Store interface {
	Write(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]string, error)
}

// Snapshot is the persisted workspace layout
type Snapshot struct {
	ID          id.WorkspaceID       `json:"id"`
	Name        string               `json:"name"`
	SavedAt     time.Time            `json:"saved_at"`
	ActiveTabID *id.NodeID           `json:"active_tab_id,omitempty"`
	Tabs        []editor.Descriptor  `json:"tabs"`
	Blobs       map[id.NodeID]string `json:"blobs"`
}

// Metadata summarizes a snapshot without its blobs
type Metadata struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
	Tabs    int       `json:"tabs"`
}

// Stats contains workspace manager statistics
type Stats struct {
	LastSaved    *time.Time `json:"last_saved,omitempty"`
	LastRestored *time.Time `json:"last_restored,omitempty"`
}

// Manager captures and restores editor sessions through a Store
type Manager struct {
	editor  *editor.Manager
	store   Store
	log     *logging.Logger
	metrics *monitoring.Metrics

	mu           sync.Mutex
	lastSaved    *time.Time
	lastRestored *time.Time
}

// NewManager creates a workspace manager
func NewManager(ed *editor.Manager, store Store, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		editor: ed,
		store:  store,
		log:    log.Named("workspace"),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Save captures the current session and writes it under name
func (m *Manager) Save(ctx context.Context, name string) (*Snapshot, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	snapshot := &Snapshot{
		ID:          id.NewWorkspaceID(),
		Name:        name,
		SavedAt:     now,
		ActiveTabID: m.editor.ActiveTabID(),
		Tabs:        m.editor.Descriptors(),
		Blobs:       m.editor.Blobs(),
	}

	data, err := sonic.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal workspace %q: %w", name, err)
	}
	if err := m.store.Write(ctx, name, data); err != nil {
		return nil, fmt.Errorf("write workspace %q: %w", name, err)
	}

	m.mu.Lock()
	m.lastSaved = &now
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.WorkspaceSaves.Inc()
	}
	return snapshot, nil
}

// SaveAsync persists the default snapshot without blocking the caller.
// Mutation paths call this fire-and-forget; failures are logged, never
// surfaced, and never awaited by core invariants.
func (m *Manager) SaveAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := m.Save(ctx, DefaultName); err != nil {
			m.log.Warn("background workspace save failed", zap.Error(err))
		}
	}()
}

// Load reads a snapshot without applying it
func (m *Manager) Load(ctx context.Context, name string) (*Snapshot, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	data, err := m.store.Read(ctx, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("workspace %q: %w", name, ErrSnapshotNotFound)
		}
		return nil, fmt.Errorf("read workspace %q: %w", name, err)
	}

	var snapshot Snapshot
	if err := sonic.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal workspace %q: %w", name, err)
	}
	if snapshot.Name == "" {
		snapshot.Name = name
	}
	return &snapshot, nil
}

// Restore loads a snapshot and applies it to the editor session
func (m *Manager) Restore(ctx context.Context, name string) error {
	snapshot, err := m.Load(ctx, name)
	if err != nil {
		return err
	}

	m.editor.Restore(snapshot.Tabs, snapshot.Blobs, snapshot.ActiveTabID)

	now := time.Now()
	m.mu.Lock()
	m.lastRestored = &now
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.WorkspaceRestores.Inc()
	}
	m.log.Info("workspace restored",
		zap.String("name", name),
		zap.Int("tabs", len(snapshot.Tabs)),
	)
	return nil
}

// List returns metadata for every stored snapshot
func (m *Manager) List(ctx context.Context) ([]Metadata, error) {
	names, err := m.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	out := make([]Metadata, 0, len(names))
	for _, name := range names {
		snapshot, err := m.Load(ctx, name)
		if err != nil {
			m.log.Warn("skipping unreadable workspace", zap.String("name", name), zap.Error(err))
			continue
		}
		out = append(out, Metadata{
			Name:    snapshot.Name,
			SavedAt: snapshot.SavedAt,
			Tabs:    len(snapshot.Tabs),
		})
	}
	return out, nil
}

// Delete removes a stored snapshot
func (m *Manager) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("workspace %q: %w", name, ErrSnapshotNotFound)
		}
		return err
	}
	return nil
}

// Stats returns save/restore timestamps
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{LastSaved: m.lastSaved, LastRestored: m.lastRestored}
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName, nil
	}
	if strings.ContainsAny(name, "/\\") {
		return "", fmt.Errorf("workspace name %q contains path separators", name)
	}
	return name, nil
}
