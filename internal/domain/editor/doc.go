// Package editor owns the ephemeral editing state layered over the
// virtual file tree: which files are open as tabs, each tab's draft
// content, the active tab, and a bounded undo/redo history that
// interleaves content edits with tab closures.
//
// Drafts are decoupled from ground truth. A tab is seeded from the
// file's persisted content when opened and written back only on an
// explicit save; everything in between lives here. Unlike the tree,
// this layer degrades misses (closed tab, vanished file) to logged
// no-ops, because the UI issues calls opportunistically and treats
// "nothing to do" as success.
package editor
