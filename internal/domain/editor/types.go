package editor

import "github.com/codedeck/backend/internal/shared/id"

// Tab is one open file's editing state. Its ID equals the backing file
// node's id: a tab is a view onto exactly one file, and at most one tab
// per file exists at a time.
type Tab struct {
	ID       id.NodeID `json:"id"`
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Language string    `json:"language"`
	Draft    string    `json:"draft"`
	Modified bool      `json:"modified"`
}

// Descriptor is the serializable shape of a tab for workspace
// persistence and API listings. It deliberately omits the draft: drafts
// are persisted as separate blobs keyed by tab id so large buffers are
// never duplicated inside the tab list.
type Descriptor struct {
	ID         id.NodeID `json:"id"`
	Name       string    `json:"name"`
	Language   string    `json:"language"`
	Path       string    `json:"path"`
	IsModified bool      `json:"is_modified"`
}

// Descriptor converts the tab to its persistable form
func (t *Tab) Descriptor() Descriptor {
	return Descriptor{
		ID:         t.ID,
		Name:       t.Name,
		Language:   t.Language,
		Path:       t.Path,
		IsModified: t.Modified,
	}
}

// Stats contains session counters for monitoring and the stats endpoint
type Stats struct {
	OpenTabs     int     `json:"open_tabs"`
	ModifiedTabs int     `json:"modified_tabs"`
	UndoDepth    int     `json:"undo_depth"`
	RedoDepth    int     `json:"redo_depth"`
	ActiveTabID  *string `json:"active_tab_id,omitempty"`
}
