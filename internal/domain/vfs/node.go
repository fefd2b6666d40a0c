package vfs

import "github.com/codedeck/backend/internal/shared/id"

// Kind discriminates files from folders
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Node is one entry in the virtual file tree.
//
// Path is always derived: parent.Path + "/" + Name. Content is only
// meaningful for files, Children and IsExpanded only for folders.
// Children preserves insertion order, which is display order.
type Node struct {
	ID         id.NodeID   `json:"id"`
	Name       string      `json:"name"`
	Path       string      `json:"path"`
	Kind       Kind        `json:"kind"`
	Content    string      `json:"content,omitempty"`
	IsExpanded bool        `json:"is_expanded,omitempty"`
	ParentID   id.NodeID   `json:"parent_id,omitempty"`
	Children   []id.NodeID `json:"children,omitempty"`
}

// IsFolder reports whether the node can hold children
func (n *Node) IsFolder() bool {
	return n.Kind == KindFolder
}

// clone returns a copy safe to hand outside the tree's lock
func (n *Node) clone() *Node {
	cp := *n
	if n.Children != nil {
		cp.Children = make([]id.NodeID, len(n.Children))
		copy(cp.Children, n.Children)
	}
	return &cp
}
