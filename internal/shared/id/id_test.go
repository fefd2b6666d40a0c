package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNodeID(t *testing.T) {
	nid := NewNodeID()
	assert.True(t, strings.HasPrefix(nid.String(), NodePrefix+"_"))
	assert.True(t, IsValid(nid.String()))
}

func TestUniqueness(t *testing.T) {
	seen := make(map[NodeID]bool)
	for i := 0; i < 1000; i++ {
		nid := NewNodeID()
		assert.False(t, seen[nid], "duplicate id generated: %s", nid)
		seen[nid] = true
	}
}

func TestSortability(t *testing.T) {
	// ULIDs generated in sequence must sort in generation order.
	a := Default().GenerateString()
	b := Default().GenerateString()
	assert.True(t, a <= b)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid(NewRequestID().String()))
	assert.True(t, IsValid(NewClientID().String()))
	assert.False(t, IsValid("node_not-a-ulid"))
	assert.False(t, IsValid(""))
}
