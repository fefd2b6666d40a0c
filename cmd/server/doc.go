// Package main is the entry point for the codedeck backend server.
//
// The server hosts the shell state of a browser-based code editor: a
// virtual file tree, the editor session (tabs, drafts, undo/redo), and
// workspace snapshots that survive page reloads.
//
// Architecture:
//
//	Frontend (editor UI) → Go Backend → Disk (snapshots, tree mirror)
//
// The server provides:
//   - REST API for tree mutation and session control
//   - WebSocket stream of tree and session change events
//   - Workspace save/restore with per-tab draft blobs
//   - Rate limiting and Prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown (final session save)
package main
