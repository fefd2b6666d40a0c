package vfs

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Search returns nodes whose name contains the query, case-insensitive,
// in depth-first pre-order. An empty query matches nothing.
func (t *Tree) Search(query string) []*Node {
	if query == "" {
		return []*Node{}
	}
	needle := strings.ToLower(query)

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := []*Node{}
	t.walk(t.rootID, func(n *Node) {
		if strings.Contains(strings.ToLower(n.Name), needle) {
			out = append(out, n.clone())
		}
	})
	return out
}

// SearchGlob returns nodes whose path, relative to the root folder,
// matches a doublestar pattern (e.g. "src/**/*.ts"). Pre-order.
func (t *Tree) SearchGlob(pattern string) ([]*Node, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("glob %q: %w", pattern, doublestar.ErrBadPattern)
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	rootPrefix := t.nodes[t.rootID].Path + "/"
	out := []*Node{}
	t.walk(t.rootID, func(n *Node) {
		rel, ok := strings.CutPrefix(n.Path, rootPrefix)
		if !ok {
			return
		}
		if matched, _ := doublestar.Match(pattern, rel); matched {
			out = append(out, n.clone())
		}
	})
	return out, nil
}
