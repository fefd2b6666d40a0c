package storage

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/codedeck/backend/internal/domain/vfs"
	"github.com/codedeck/backend/internal/infrastructure/logging"
)

// MirrorName is the blob the tree image is written under
const MirrorName = "tree.mirror"

// Mirror keeps a flattened image of the file tree on disk for external
// runtime-sync consumers (e.g. an execution sandbox). It subscribes to
// structural-change events as a passive subscriber and never mutates the
// tree.
type Mirror struct {
	tree  *vfs.Tree
	store *DiskStore
	log   *logging.Logger
	kick  chan struct{}
}

// NewMirror creates a mirror; call Start to begin syncing
func NewMirror(tree *vfs.Tree, store *DiskStore, log *logging.Logger) *Mirror {
	if log == nil {
		log = logging.NewNop()
	}
	return &Mirror{
		tree:  tree,
		store: store,
		log:   log.Named("mirror"),
		// Capacity one: pending kicks coalesce, each sync writes the
		// latest full image anyway.
		kick: make(chan struct{}, 1),
	}
}

// Start subscribes to tree events and runs the sync loop until ctx ends
func (m *Mirror) Start(ctx context.Context) {
	m.tree.Subscribe(func(vfs.Event) {
		select {
		case m.kick <- struct{}{}:
		default:
		}
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-m.kick:
				m.sync(ctx)
			}
		}
	}()
}

// sync writes the current flattened tree
func (m *Mirror) sync(ctx context.Context) {
	nodes := m.tree.Flatten()
	data, err := sonic.Marshal(nodes)
	if err != nil {
		m.log.Warn("mirror marshal failed", zap.Error(err))
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := m.store.Write(writeCtx, MirrorName, data); err != nil {
		m.log.Warn("mirror write failed", zap.Error(err))
		return
	}
	m.log.Debug("tree mirrored", zap.Int("nodes", len(nodes)))
}
