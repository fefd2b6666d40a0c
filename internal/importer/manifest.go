// Package importer populates the virtual file tree from outside
// sources: a YAML workspace manifest (the default project every fresh
// session starts with) or a real directory on disk.
package importer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/codedeck/backend/internal/domain/vfs"
)

// Manifest describes an initial workspace layout
type Manifest struct {
	Root    string  `yaml:"root"`
	Entries []Entry `yaml:"entries"`
}

// Entry is one folder or file in the manifest. Paths are relative to
// the root, slash-separated; parent folders are created on demand so a
// manifest may list only its files.
type Entry struct {
	Path    string `yaml:"path"`
	Kind    string `yaml:"kind"` // "file" or "folder", default "file"
	Content string `yaml:"content,omitempty"`
}

// ParseManifest decodes a YAML manifest
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	for i, e := range m.Entries {
		if e.Path == "" {
			return nil, fmt.Errorf("manifest entry %d: empty path", i)
		}
		switch e.Kind {
		case "", "file", "folder":
		default:
			return nil, fmt.Errorf("manifest entry %q: unknown kind %q", e.Path, e.Kind)
		}
	}
	return &m, nil
}

// LoadManifest reads and decodes a manifest file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest %q: %w", path, err)
	}
	return ParseManifest(data)
}

// Apply creates the manifest's entries in the tree. Entries that already
// exist are skipped, so applying twice is harmless.
func (m *Manifest) Apply(tree *vfs.Tree) error {
	rootPath := tree.Root().Path
	for _, e := range m.Entries {
		kind := vfs.KindFile
		if e.Kind == "folder" {
			kind = vfs.KindFolder
		}

		parentPath, name := splitVirtualPath(rootPath, e.Path)
		if err := ensureFolders(tree, rootPath, parentPath); err != nil {
			return fmt.Errorf("manifest entry %q: %w", e.Path, err)
		}

		nodeID, err := tree.Create(parentPath, name, kind)
		if errors.Is(err, vfs.ErrDuplicateName) {
			continue
		}
		if err != nil {
			return fmt.Errorf("manifest entry %q: %w", e.Path, err)
		}
		if kind == vfs.KindFile && e.Content != "" {
			if err := tree.UpdateContent(nodeID, e.Content); err != nil {
				return fmt.Errorf("manifest entry %q: %w", e.Path, err)
			}
		}
	}
	return nil
}

// splitVirtualPath turns a root-relative path into (parentPath, name)
func splitVirtualPath(rootPath, rel string) (string, string) {
	rel = strings.Trim(rel, "/")
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		return rootPath + "/" + rel[:i], rel[i+1:]
	}
	return rootPath, rel
}

// ensureFolders creates every missing folder between rootPath and
// parentPath
func ensureFolders(tree *vfs.Tree, rootPath, parentPath string) error {
	if parentPath == rootPath {
		return nil
	}
	rel := strings.TrimPrefix(parentPath, rootPath+"/")
	current := rootPath
	for _, segment := range strings.Split(rel, "/") {
		next := current + "/" + segment
		if _, ok := tree.FindByPath(next); !ok {
			if _, err := tree.Create(current, segment, vfs.KindFolder); err != nil && !errors.Is(err, vfs.ErrDuplicateName) {
				return err
			}
		}
		current = next
	}
	return nil
}
