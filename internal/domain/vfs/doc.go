// Package vfs implements the virtual file tree backing the editor.
//
// The tree is the single source of truth for project structure and
// persisted file content. Nodes live in an arena keyed by stable ULIDs;
// each node stores its parent id and an ordered child-id list, so rename
// cascades and subtree deletes are index traversals rather than pointer
// surgery. Every node's path is derived from its ancestors' names and is
// rewritten for the whole subtree when a folder is renamed.
//
// Structural failures (unknown id, bad parent, sibling name collision,
// content write to a folder) are explicit errors; the tree never
// degrades them to silence. The session layer in domain/editor takes the
// opposite stance for its own misses.
package vfs
