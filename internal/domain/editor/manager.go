package editor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/codedeck/backend/internal/domain/vfs"
	"github.com/codedeck/backend/internal/infrastructure/logging"
	"github.com/codedeck/backend/internal/infrastructure/monitoring"
	"github.com/codedeck/backend/internal/shared/id"
	"github.com/codedeck/backend/internal/shared/language"
)

// Manager owns the open-tab list, the active tab and the undo/redo
// history. It reads from the tree when a tab opens and writes back only
// on explicit save; tree structure is never mutated from here.
//
// Lock order is manager then tree. The tree never calls into the
// manager, so the reverse order cannot occur.
type Manager struct {
	mu       sync.RWMutex
	tree     *vfs.Tree
	tabs     []*Tab
	activeID *id.NodeID
	history  *history
	log      *logging.Logger
	metrics  *monitoring.Metrics
	subs     subscribers
}

// NewManager creates an editor session over the given tree
func NewManager(tree *vfs.Tree, log *logging.Logger) *Manager {
	if log == nil {
		log = logging.NewNop()
	}
	return &Manager{
		tree:    tree,
		history: newHistory(DefaultHistoryLimit),
		log:     log.Named("editor"),
	}
}

// WithHistoryLimit overrides the undo stack bound
func (m *Manager) WithHistoryLimit(limit int) *Manager {
	m.history = newHistory(limit)
	return m
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// OpenTab opens a file as a tab, or just activates the existing tab if
// one is already open for this file. Ids that do not resolve to a file
// are silent no-ops. This is the only place draft state is bootstrapped
// from ground truth.
func (m *Manager) OpenTab(fileID id.NodeID) {
	node, ok := m.tree.Find(fileID)
	if !ok || node.IsFolder() {
		m.log.Debug("open ignored, id is not a file", zap.String("file_id", fileID.String()))
		return
	}

	m.mu.Lock()
	if existing := m.tabByID(fileID); existing != nil {
		m.activate(existing.ID)
		m.mu.Unlock()
		m.subs.emit(Event{Type: EventTabActivated, TabID: fileID, Path: node.Path})
		return
	}

	tab := &Tab{
		ID:       fileID,
		Name:     node.Name,
		Path:     node.Path,
		Language: language.Detect(node.Name, node.Content),
		Draft:    node.Content,
		Modified: false,
	}
	m.tabs = append(m.tabs, tab)
	m.activate(fileID)
	m.history.clearRedo()
	m.updateGauges()
	m.mu.Unlock()

	m.subs.emit(Event{Type: EventTabOpened, TabID: fileID, Path: node.Path})
	m.countOp("open")
}

// CloseTab removes a tab and records a reversible close on the history.
// If the closed tab was active, activation falls to the last remaining
// tab, or to none. The snapshot keeps unsaved drafts recoverable until
// the history entry ages out or redo is cleared by a fresh action.
func (m *Manager) CloseTab(tabID id.NodeID) {
	m.mu.Lock()
	idx := m.indexOf(tabID)
	if idx < 0 {
		m.mu.Unlock()
		m.log.Debug("close ignored, tab not open", zap.String("tab_id", tabID.String()))
		return
	}

	snapshot := *m.tabs[idx]
	m.removeAt(idx)
	m.history.record(TabCloseAction{TabID: tabID, Snapshot: snapshot})
	m.updateGauges()
	m.mu.Unlock()

	m.subs.emit(Event{Type: EventTabClosed, TabID: tabID, Path: snapshot.Path})
	m.countOp("close")
}

// SetActiveTab switches focus. Silent no-op if the tab is not open.
func (m *Manager) SetActiveTab(tabID id.NodeID) {
	m.mu.Lock()
	tab := m.tabByID(tabID)
	if tab == nil {
		m.mu.Unlock()
		m.log.Debug("activate ignored, tab not open", zap.String("tab_id", tabID.String()))
		return
	}
	m.activate(tabID)
	path := tab.Path
	m.mu.Unlock()

	m.subs.emit(Event{Type: EventTabActivated, TabID: tabID, Path: path})
}

// UpdateDraft replaces a tab's buffer text and records the edit on the
// history. Silent no-op if the tab is not open.
func (m *Manager) UpdateDraft(tabID id.NodeID, content string) {
	m.mu.Lock()
	tab := m.tabByID(tabID)
	if tab == nil {
		m.mu.Unlock()
		m.log.Debug("draft update ignored, tab not open", zap.String("tab_id", tabID.String()))
		return
	}

	m.history.record(ContentAction{TabID: tabID, Previous: tab.Draft, Next: content})
	tab.Draft = content
	tab.Modified = true
	path := tab.Path
	m.updateGauges()
	m.mu.Unlock()

	m.subs.emit(Event{Type: EventDraftUpdated, TabID: tabID, Path: path})
	m.countOp("edit")
}

// GetDraft returns a tab's buffer text, or the empty string if the tab
// is not open. Callers must not assume an open tab exists.
func (m *Manager) GetDraft(tabID id.NodeID) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if tab := m.tabByID(tabID); tab != nil {
		return tab.Draft
	}
	return ""
}

// SaveActive persists the active tab's draft into the tree and clears
// its modified flag. No-op without an active tab. This is the only point
// where session state and ground truth reconcile.
func (m *Manager) SaveActive() {
	m.mu.RLock()
	if m.activeID == nil {
		m.mu.RUnlock()
		m.log.Debug("save ignored, no active tab")
		return
	}
	tabID := *m.activeID
	m.mu.RUnlock()

	m.saveTab(tabID)
}

// SaveAll persists every open tab's draft in open order
func (m *Manager) SaveAll() {
	m.mu.RLock()
	ids := make([]id.NodeID, len(m.tabs))
	for i, tab := range m.tabs {
		ids[i] = tab.ID
	}
	m.mu.RUnlock()

	for _, tabID := range ids {
		m.saveTab(tabID)
	}
}

// saveTab writes one tab's draft to the tree. A tab whose backing file
// is gone (deleted while open) stays open as an orphaned draft; the
// failed write is logged and the modified flag kept.
func (m *Manager) saveTab(tabID id.NodeID) {
	m.mu.RLock()
	tab := m.tabByID(tabID)
	if tab == nil {
		m.mu.RUnlock()
		return
	}
	draft := tab.Draft
	path := tab.Path
	m.mu.RUnlock()

	if err := m.tree.UpdateContent(tabID, draft); err != nil {
		m.log.Warn("save failed, keeping draft",
			zap.String("tab_id", tabID.String()),
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}

	m.mu.Lock()
	if tab := m.tabByID(tabID); tab != nil {
		tab.Modified = false
	}
	m.updateGauges()
	m.mu.Unlock()

	m.subs.emit(Event{Type: EventTabSaved, TabID: tabID, Path: path})
	m.countOp("save")
}

// Undo reverses the most recent recorded action and moves it to the
// redo stack. A content action whose tab is no longer open is a logged
// no-op but still crosses to redo, keeping the stacks symmetric.
func (m *Manager) Undo() {
	m.mu.Lock()
	action, ok := m.history.popUndo()
	if !ok {
		m.mu.Unlock()
		m.log.Debug("undo ignored, history empty")
		return
	}

	var ev Event
	switch act := action.(type) {
	case ContentAction:
		if tab := m.tabByID(act.TabID); tab != nil {
			tab.Draft = act.Previous
			tab.Modified = m.isDiverged(tab)
		} else {
			m.log.Debug("undo target tab not open", zap.String("tab_id", act.TabID.String()))
		}
		m.history.pushRedo(act)
		ev = Event{Type: EventUndone, TabID: act.TabID}

	case TabCloseAction:
		// The file may have been reopened since the close was recorded;
		// reinserting the snapshot then would duplicate the tab, and a
		// tab's id must stay unique. Same no-op policy as a content
		// action on a vanished tab.
		if m.tabByID(act.Snapshot.ID) != nil {
			m.log.Debug("undo skipped, file already open", zap.String("tab_id", act.TabID.String()))
		} else {
			restored := act.Snapshot
			m.tabs = append(m.tabs, &restored)
			if m.activeID == nil {
				m.activate(restored.ID)
			}
		}
		m.history.pushRedo(act)
		ev = Event{Type: EventUndone, TabID: act.TabID, Path: act.Snapshot.Path}
	}
	m.updateGauges()
	m.mu.Unlock()

	m.subs.emit(ev)
	m.countOp("undo")
}

// Redo re-applies the most recently undone action and moves it back to
// the undo stack.
func (m *Manager) Redo() {
	m.mu.Lock()
	action, ok := m.history.popRedo()
	if !ok {
		m.mu.Unlock()
		m.log.Debug("redo ignored, nothing to redo")
		return
	}

	var ev Event
	switch act := action.(type) {
	case ContentAction:
		if tab := m.tabByID(act.TabID); tab != nil {
			tab.Draft = act.Next
			tab.Modified = m.isDiverged(tab)
		} else {
			m.log.Debug("redo target tab not open", zap.String("tab_id", act.TabID.String()))
		}
		m.history.pushUndo(act)
		ev = Event{Type: EventRedone, TabID: act.TabID}

	case TabCloseAction:
		if idx := m.indexOf(act.TabID); idx >= 0 {
			// Re-snapshot so a later undo restores the state the tab
			// had when it was re-closed, not the original close.
			act.Snapshot = *m.tabs[idx]
			m.removeAt(idx)
		} else {
			m.log.Debug("redo target tab not open", zap.String("tab_id", act.TabID.String()))
		}
		m.history.pushUndo(act)
		ev = Event{Type: EventRedone, TabID: act.TabID}
	}
	m.updateGauges()
	m.mu.Unlock()

	m.subs.emit(ev)
	m.countOp("redo")
}

// Tabs returns copies of all open tabs in open order
func (m *Manager) Tabs() []Tab {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Tab, len(m.tabs))
	for i, tab := range m.tabs {
		out[i] = *tab
	}
	return out
}

// Tab returns a copy of one open tab
func (m *Manager) Tab(tabID id.NodeID) (Tab, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if tab := m.tabByID(tabID); tab != nil {
		return *tab, true
	}
	return Tab{}, false
}

// ActiveTabID returns the active tab's id, or nil if no tab is active
func (m *Manager) ActiveTabID() *id.NodeID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.activeID == nil {
		return nil
	}
	active := *m.activeID
	return &active
}

// Descriptors returns the serializable tab list in open order, without
// draft content (drafts travel separately as blobs).
func (m *Manager) Descriptors() []Descriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Descriptor, len(m.tabs))
	for i, tab := range m.tabs {
		out[i] = tab.Descriptor()
	}
	return out
}

// Blobs returns each open tab's draft keyed by tab id
func (m *Manager) Blobs() map[id.NodeID]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[id.NodeID]string, len(m.tabs))
	for _, tab := range m.tabs {
		out[tab.ID] = tab.Draft
	}
	return out
}

// Restore replaces the session with a persisted tab list. Descriptors
// missing a blob fall back to the file's persisted content. History does
// not survive a reload.
func (m *Manager) Restore(descriptors []Descriptor, blobs map[id.NodeID]string, activeID *id.NodeID) {
	tabs := make([]*Tab, 0, len(descriptors))
	for _, d := range descriptors {
		draft, ok := blobs[d.ID]
		if !ok {
			if node, found := m.tree.Find(d.ID); found && !node.IsFolder() {
				draft = node.Content
			}
		}
		tabs = append(tabs, &Tab{
			ID:       d.ID,
			Name:     d.Name,
			Path:     d.Path,
			Language: d.Language,
			Draft:    draft,
			Modified: d.IsModified,
		})
	}

	m.mu.Lock()
	m.tabs = tabs
	m.activeID = nil
	if activeID != nil && m.tabByID(*activeID) != nil {
		m.activate(*activeID)
	} else if len(tabs) > 0 {
		m.activate(tabs[len(tabs)-1].ID)
	}
	m.history.clear()
	m.updateGauges()
	m.mu.Unlock()

	m.subs.emit(Event{Type: EventRestored})
}

// Stats returns session counters
func (m *Manager) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{OpenTabs: len(m.tabs)}
	for _, tab := range m.tabs {
		if tab.Modified {
			s.ModifiedTabs++
		}
	}
	s.UndoDepth, s.RedoDepth = m.history.depths()
	if m.activeID != nil {
		active := m.activeID.String()
		s.ActiveTabID = &active
	}
	return s
}

// tabByID finds an open tab. Caller holds a lock.
func (m *Manager) tabByID(tabID id.NodeID) *Tab {
	for _, tab := range m.tabs {
		if tab.ID == tabID {
			return tab
		}
	}
	return nil
}

// indexOf finds a tab's position in open order. Caller holds a lock.
func (m *Manager) indexOf(tabID id.NodeID) int {
	for i, tab := range m.tabs {
		if tab.ID == tabID {
			return i
		}
	}
	return -1
}

// removeAt drops the tab at idx and repairs activation. Caller holds the
// write lock.
func (m *Manager) removeAt(idx int) {
	tabID := m.tabs[idx].ID
	m.tabs = append(m.tabs[:idx], m.tabs[idx+1:]...)

	if m.activeID != nil && *m.activeID == tabID {
		if len(m.tabs) > 0 {
			m.activate(m.tabs[len(m.tabs)-1].ID)
		} else {
			m.activeID = nil
		}
	}
}

// activate sets the active tab. Caller holds the write lock.
func (m *Manager) activate(tabID id.NodeID) {
	active := tabID
	m.activeID = &active
}

// isDiverged reports whether a tab's draft differs from ground truth.
// Used after undo/redo so the modified flag reflects reality when an
// edit chain returns to the saved content. Orphaned tabs (backing file
// deleted) always count as diverged. Caller holds the write lock.
func (m *Manager) isDiverged(tab *Tab) bool {
	node, ok := m.tree.Find(tab.ID)
	if !ok || node.IsFolder() {
		return true
	}
	return tab.Draft != node.Content
}

func (m *Manager) updateGauges() {
	if m.metrics == nil {
		return
	}
	modified := 0
	for _, tab := range m.tabs {
		if tab.Modified {
			modified++
		}
	}
	undo, redo := m.history.depths()
	m.metrics.TabsOpen.Set(float64(len(m.tabs)))
	m.metrics.TabsModified.Set(float64(modified))
	m.metrics.HistoryDepth.WithLabelValues("undo").Set(float64(undo))
	m.metrics.HistoryDepth.WithLabelValues("redo").Set(float64(redo))
}

func (m *Manager) countOp(op string) {
	if m.metrics != nil {
		m.metrics.SessionOps.WithLabelValues(op).Inc()
	}
}
