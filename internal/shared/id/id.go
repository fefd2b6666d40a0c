// Package id provides centralized ID generation for the backend.
//
// All identifiers are ULIDs with type-specific prefixes (node_*, req_*,
// ws_*), which keeps them lexicographically sortable by creation time and
// makes logs readable. Separate string types prevent an id from one
// domain being handed to another at compile time.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// NodeID identifies a node in the virtual file tree. A tab shares the id
// of the file it views, so there is no separate tab id type.
type NodeID string

// RequestID identifies an API request
type RequestID string

// ClientID identifies a WebSocket subscriber connection
type ClientID string

// WorkspaceID identifies a saved workspace snapshot
type WorkspaceID string

const (
	NodePrefix      = "node"
	RequestPrefix   = "req"
	ClientPrefix    = "ws"
	WorkspacePrefix = "wksp"
)

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source.
// Useful for testing with deterministic entropy.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewNodeID generates a new file-tree node ID
func NewNodeID() NodeID {
	return NodeID(Default().GenerateWithPrefix(NodePrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewClientID generates a new WebSocket client ID
func NewClientID() ClientID {
	return ClientID(Default().GenerateWithPrefix(ClientPrefix))
}

// NewWorkspaceID generates a new workspace snapshot ID
func NewWorkspaceID() WorkspaceID {
	return WorkspaceID(Default().GenerateWithPrefix(WorkspacePrefix))
}

func (id NodeID) String() string      { return string(id) }
func (id RequestID) String() string   { return string(id) }
func (id ClientID) String() string    { return string(id) }
func (id WorkspaceID) String() string { return string(id) }

// IsValid checks if an ID string carries a parseable ULID payload
func IsValid(raw string) bool {
	payload := raw
	if i := strings.IndexByte(raw, '_'); i >= 0 {
		payload = raw[i+1:]
	}
	_, err := ulid.Parse(payload)
	return err == nil
}
