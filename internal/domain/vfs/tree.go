package vfs

import (
	"fmt"
	"strings"
	"sync"

	"github.com/codedeck/backend/internal/shared/id"
)

// Tree owns the canonical project hierarchy.
//
// Nodes are stored in an arena keyed by id; structure lives in parent/child
// id links. All public operations take the lock for their full duration, so
// a rename finishes its cascade before any reader observes the tree.
type Tree struct {
	mu     sync.RWMutex
	nodes  map[id.NodeID]*Node
	rootID id.NodeID
	subs   subscribers
}

// Stats contains tree counters for monitoring
type Stats struct {
	TotalNodes int `json:"total_nodes"`
	Files      int `json:"files"`
	Folders    int `json:"folders"`
}

// New creates a tree with a single expanded root folder
func New(rootName string) *Tree {
	if rootName == "" {
		rootName = "workspace"
	}
	root := &Node{
		ID:         id.NewNodeID(),
		Name:       rootName,
		Path:       "/" + rootName,
		Kind:       KindFolder,
		IsExpanded: true,
		Children:   []id.NodeID{},
	}
	return &Tree{
		nodes:  map[id.NodeID]*Node{root.ID: root},
		rootID: root.ID,
	}
}

// Root returns a copy of the root node
func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[t.rootID].clone()
}

// RootID returns the root node's id
func (t *Tree) RootID() id.NodeID {
	return t.rootID
}

// Create inserts a new node under parentPath and returns its id.
// The parent folder is expanded so the new node is visible immediately.
func (t *Tree) Create(parentPath, name string, kind Kind) (id.NodeID, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	t.mu.Lock()
	parent := t.resolvePath(parentPath)
	if parent == nil || !parent.IsFolder() {
		t.mu.Unlock()
		return "", fmt.Errorf("create %q under %q: %w", name, parentPath, ErrInvalidParent)
	}
	if t.childByName(parent, name) != nil {
		t.mu.Unlock()
		return "", fmt.Errorf("create %q under %q: %w", name, parentPath, ErrDuplicateName)
	}

	node := &Node{
		ID:       id.NewNodeID(),
		Name:     name,
		Path:     parent.Path + "/" + name,
		Kind:     kind,
		ParentID: parent.ID,
	}
	if kind == KindFolder {
		node.Children = []id.NodeID{}
	}
	t.nodes[node.ID] = node
	parent.Children = append(parent.Children, node.ID)
	parent.IsExpanded = true
	t.mu.Unlock()

	t.subs.emit(Event{Type: EventCreated, NodeID: node.ID, Path: node.Path})
	return node.ID, nil
}

// Rename changes a node's name and rewrites the path of the node and, for
// folders, every descendant in a single depth-first pass.
func (t *Tree) Rename(nodeID id.NodeID, newName string) error {
	if err := validateName(newName); err != nil {
		return err
	}

	t.mu.Lock()
	node, ok := t.nodes[nodeID]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("rename %s: %w", nodeID, ErrNotFound)
	}
	if parent, ok := t.nodes[node.ParentID]; ok {
		if sibling := t.childByName(parent, newName); sibling != nil && sibling.ID != nodeID {
			t.mu.Unlock()
			return fmt.Errorf("rename %s to %q: %w", nodeID, newName, ErrDuplicateName)
		}
	}

	oldPath := node.Path
	node.Name = newName
	if node.ID == t.rootID {
		node.Path = "/" + newName
	} else {
		node.Path = t.nodes[node.ParentID].Path + "/" + newName
	}
	if node.IsFolder() {
		t.rewriteDescendants(node, oldPath, node.Path)
	}
	newPath := node.Path
	t.mu.Unlock()

	t.subs.emit(Event{Type: EventRenamed, NodeID: nodeID, Path: newPath, OldPath: oldPath})
	return nil
}

// rewriteDescendants substitutes the old path prefix with the new one for
// every node below n, preserving each descendant's relative suffix.
// Caller holds the write lock.
func (t *Tree) rewriteDescendants(n *Node, oldPrefix, newPrefix string) {
	for _, childID := range n.Children {
		child, ok := t.nodes[childID]
		if !ok {
			continue
		}
		child.Path = newPrefix + strings.TrimPrefix(child.Path, oldPrefix)
		if child.IsFolder() {
			t.rewriteDescendants(child, oldPrefix, newPrefix)
		}
	}
}

// Delete removes the subtree rooted at nodeID in one atomic step. The
// root itself cannot be deleted. Callers holding the id externally (open
// tabs, selection) are responsible for clearing their references.
func (t *Tree) Delete(nodeID id.NodeID) error {
	t.mu.Lock()
	node, ok := t.nodes[nodeID]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("delete %s: %w", nodeID, ErrNotFound)
	}
	if nodeID == t.rootID {
		t.mu.Unlock()
		return fmt.Errorf("delete %s: root has no owning parent: %w", nodeID, ErrInvalidParent)
	}

	path := node.Path
	if parent, ok := t.nodes[node.ParentID]; ok {
		parent.Children = removeID(parent.Children, nodeID)
	}
	t.removeSubtree(nodeID)
	t.mu.Unlock()

	t.subs.emit(Event{Type: EventDeleted, NodeID: nodeID, Path: path})
	return nil
}

// removeSubtree deletes a node and all descendants from the arena.
// Caller holds the write lock.
func (t *Tree) removeSubtree(nodeID id.NodeID) {
	node, ok := t.nodes[nodeID]
	if !ok {
		return
	}
	for _, childID := range node.Children {
		t.removeSubtree(childID)
	}
	delete(t.nodes, nodeID)
}

// UpdateContent overwrites a file's persisted content. This is the only
// path that changes ground truth; drafts live in the editor session.
func (t *Tree) UpdateContent(nodeID id.NodeID, content string) error {
	t.mu.Lock()
	node, ok := t.nodes[nodeID]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("update content %s: %w", nodeID, ErrNotFound)
	}
	if node.IsFolder() {
		t.mu.Unlock()
		return fmt.Errorf("update content %s: %w", nodeID, ErrNotAFile)
	}
	node.Content = content
	path := node.Path
	t.mu.Unlock()

	t.subs.emit(Event{Type: EventContent, NodeID: nodeID, Path: path})
	return nil
}

// ToggleFolderExpansion flips a folder's expanded flag. No-op on files.
func (t *Tree) ToggleFolderExpansion(nodeID id.NodeID) error {
	t.mu.Lock()
	node, ok := t.nodes[nodeID]
	if !ok {
		t.mu.Unlock()
		return fmt.Errorf("toggle %s: %w", nodeID, ErrNotFound)
	}
	if !node.IsFolder() {
		t.mu.Unlock()
		return nil
	}
	node.IsExpanded = !node.IsExpanded
	path := node.Path
	t.mu.Unlock()

	t.subs.emit(Event{Type: EventToggled, NodeID: nodeID, Path: path})
	return nil
}

// Find returns a copy of the node with the given id
func (t *Tree) Find(nodeID id.NodeID) (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node, ok := t.nodes[nodeID]
	if !ok {
		return nil, false
	}
	return node.clone(), true
}

// FindByPath resolves a fully-qualified slash-separated path
func (t *Tree) FindByPath(path string) (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.resolvePath(path)
	if node == nil {
		return nil, false
	}
	return node.clone(), true
}

// ChildrenOf returns a folder's children in display order. A path that
// does not resolve to a folder yields an empty slice, not an error, so
// the UI can render empty or missing folders without special cases.
func (t *Tree) ChildrenOf(path string) []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	parent := t.resolvePath(path)
	if parent == nil || !parent.IsFolder() {
		return []*Node{}
	}
	out := make([]*Node, 0, len(parent.Children))
	for _, childID := range parent.Children {
		if child, ok := t.nodes[childID]; ok {
			out = append(out, child.clone())
		}
	}
	return out
}

// Flatten returns every node in depth-first pre-order
func (t *Tree) Flatten() []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Node, 0, len(t.nodes))
	t.walk(t.rootID, func(n *Node) {
		out = append(out, n.clone())
	})
	return out
}

// Stats returns node counters
func (t *Tree) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Stats{TotalNodes: len(t.nodes)}
	for _, n := range t.nodes {
		if n.IsFolder() {
			s.Folders++
		} else {
			s.Files++
		}
	}
	return s
}

// walk visits the subtree at nodeID in pre-order. Caller holds a lock.
func (t *Tree) walk(nodeID id.NodeID, visit func(*Node)) {
	node, ok := t.nodes[nodeID]
	if !ok {
		return
	}
	visit(node)
	for _, childID := range node.Children {
		t.walk(childID, visit)
	}
}

// resolvePath descends from the root by name segments. Caller holds a lock.
func (t *Tree) resolvePath(path string) *Node {
	root := t.nodes[t.rootID]
	if path == root.Path {
		return root
	}
	rel, ok := strings.CutPrefix(path, root.Path+"/")
	if !ok {
		return nil
	}
	current := root
	for _, segment := range strings.Split(rel, "/") {
		next := t.childByName(current, segment)
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// childByName finds a direct child by name. Caller holds a lock.
func (t *Tree) childByName(parent *Node, name string) *Node {
	for _, childID := range parent.Children {
		if child, ok := t.nodes[childID]; ok && child.Name == name {
			return child
		}
	}
	return nil
}

func removeID(ids []id.NodeID, target id.NodeID) []id.NodeID {
	for i, v := range ids {
		if v == target {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func validateName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("name %q: %w", name, ErrInvalidName)
	}
	return nil
}
