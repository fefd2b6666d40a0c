package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charlievieth/fastwalk"

	"github.com/codedeck/backend/internal/domain/vfs"
)

// DefaultMaxFileSize caps how much of a file is pulled into the virtual
// tree; larger files are imported empty rather than ballooning memory.
const DefaultMaxFileSize = 512 * 1024

var defaultExcludes = map[string]bool{
	".git":         true,
	"node_modules": true,
	".DS_Store":    true,
	"vendor":       true,
	"dist":         true,
}

// DiskOptions tunes ImportDirectory
type DiskOptions struct {
	MaxFileSize int64
	Exclude     map[string]bool
}

func (o *DiskOptions) fill() {
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Exclude == nil {
		o.Exclude = defaultExcludes
	}
}

type diskEntry struct {
	rel     string
	isDir   bool
	content string
}

// ImportDirectory walks dir concurrently and recreates its layout under
// destPath in the tree. Binary files and files over the size cap come in
// with empty content. Returns the number of nodes created.
func ImportDirectory(ctx context.Context, tree *vfs.Tree, destPath, dir string, opts DiskOptions) (int, error) {
	opts.fill()

	if _, ok := tree.FindByPath(destPath); !ok {
		return 0, fmt.Errorf("import into %q: %w", destPath, vfs.ErrInvalidParent)
	}

	var (
		mu      sync.Mutex
		entries []diskEntry
	)
	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, dir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			return nil
		}
		if p == dir {
			return nil
		}
		if opts.Exclude[d.Name()] {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return nil
		}
		entry := diskEntry{rel: filepath.ToSlash(rel), isDir: d.IsDir()}
		if !d.IsDir() {
			entry.content = readCapped(p, opts.MaxFileSize)
		}

		mu.Lock()
		entries = append(entries, entry)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %q: %w", dir, err)
	}

	// Walk order is nondeterministic (concurrent); sorting by path
	// guarantees parents are created before children.
	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	created := 0
	for _, entry := range entries {
		parentRel := ""
		name := entry.rel
		if i := strings.LastIndexByte(entry.rel, '/'); i >= 0 {
			parentRel, name = entry.rel[:i], entry.rel[i+1:]
		}
		parentPath := destPath
		if parentRel != "" {
			parentPath = destPath + "/" + parentRel
		}

		kind := vfs.KindFile
		if entry.isDir {
			kind = vfs.KindFolder
		}
		nodeID, err := tree.Create(parentPath, name, kind)
		if errors.Is(err, vfs.ErrDuplicateName) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("import %q: %w", entry.rel, err)
		}
		created++

		if !entry.isDir && entry.content != "" {
			if err := tree.UpdateContent(nodeID, entry.content); err != nil {
				return created, fmt.Errorf("import %q: %w", entry.rel, err)
			}
		}
	}
	return created, nil
}

// readCapped reads a file's content if it is small enough and valid
// text; anything else imports empty.
func readCapped(path string, maxSize int64) string {
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxSize {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(data) {
		return ""
	}
	return string(data)
}
