// Package storage is the durable-persistence collaborator. The core
// never awaits it: snapshots and mirrors are written after mutations,
// fire-and-forget, and a failed write costs recoverability, not
// correctness.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/codedeck/backend/internal/infrastructure/logging"
)

const snapshotExt = ".snap.gz"

// DiskStore persists named gzip-compressed blobs under a root directory
type DiskStore struct {
	root string
	log  *logging.Logger
}

// NewDiskStore creates the root directory if needed
func NewDiskStore(root string, log *logging.Logger) (*DiskStore, error) {
	if log == nil {
		log = logging.NewNop()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %q: %w", root, err)
	}
	return &DiskStore{root: root, log: log.Named("storage")}, nil
}

// Write compresses and atomically replaces the named blob
func (s *DiskStore) Write(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("compress %q: %w", name, err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress %q: %w", name, err)
	}

	// Write to a temp file and rename so readers never see a torn blob.
	final := s.path(name)
	tmp, err := os.CreateTemp(s.root, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("write %q: %w", name, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %q: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %q: %w", name, err)
	}
	return nil
}

// Read decompresses the named blob
func (s *DiskStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress %q: %w", name, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompress %q: %w", name, err)
	}
	return data, nil
}

// Delete removes the named blob
func (s *DiskStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

// List returns the names of all stored blobs
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("list storage: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), snapshotExt))
	}
	return names, nil
}

func (s *DiskStore) path(name string) string {
	return filepath.Join(s.root, name+snapshotExt)
}
