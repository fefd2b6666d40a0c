// Package server wires configuration, domain managers, persistence, and
// the API surface into a runnable process.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	api "github.com/codedeck/backend/internal/api/http"
	"github.com/codedeck/backend/internal/api/middleware"
	"github.com/codedeck/backend/internal/api/ws"
	"github.com/codedeck/backend/internal/domain/editor"
	"github.com/codedeck/backend/internal/domain/vfs"
	"github.com/codedeck/backend/internal/domain/workspace"
	"github.com/codedeck/backend/internal/importer"
	"github.com/codedeck/backend/internal/infrastructure/config"
	"github.com/codedeck/backend/internal/infrastructure/logging"
	"github.com/codedeck/backend/internal/infrastructure/monitoring"
	"github.com/codedeck/backend/internal/storage"
)

// starterManifest seeds an empty workspace so the editor never boots
// onto a bare root.
const starterManifest = `
entries:
  - path: src
    kind: folder
  - path: src/main.ts
    kind: file
    content: |
      export function main(): void {
        console.log("hello");
      }
  - path: README.md
    kind: file
    content: |
      # Workspace
`

// Server owns the HTTP server and every long-lived component behind it
type Server struct {
	instanceID uuid.UUID
	router     *gin.Engine
	httpServer *http.Server
	tree       *vfs.Tree
	editor     *editor.Manager
	workspaces *workspace.Manager
	mirror     *storage.Mirror
	hub        *ws.Hub
	logger     *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
	cancel     context.CancelFunc
	started    time.Time
}

// NewServer assembles a server from configuration
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	instanceID := uuid.New()
	logger.Info("initializing codedeck backend",
		zap.String("instance_id", instanceID.String()),
		zap.String("port", cfg.Server.Port),
	)

	metrics := monitoring.NewMetrics()

	tree, err := seedTree(cfg, logger)
	if err != nil {
		return nil, err
	}

	ed := editor.NewManager(tree, logger).
		WithHistoryLimit(cfg.History.Limit).
		WithMetrics(metrics)

	hub := ws.NewHub(logger, metrics)

	ctx, cancel := context.WithCancel(context.Background())

	var workspaces *workspace.Manager
	var mirror *storage.Mirror
	if cfg.Storage.Enabled {
		store, err := storage.NewDiskStore(cfg.Storage.Dir, logger)
		if err != nil {
			cancel()
			return nil, err
		}
		workspaces = workspace.NewManager(ed, store, logger).WithMetrics(metrics)

		mirror = storage.NewMirror(tree, store, logger)
		mirror.Start(ctx)

		if cfg.Workspace.Restore {
			if err := workspaces.Restore(ctx, workspace.DefaultName); err != nil {
				logger.Info("no previous session to restore", zap.Error(err))
			}
		}
	} else {
		logger.Info("storage disabled, sessions will not survive restarts")
	}

	tree.Subscribe(func(ev vfs.Event) {
		hub.Broadcast("tree", ev)
	})
	ed.Subscribe(func(ev editor.Event) {
		hub.Broadcast("session", ev)
		if workspaces != nil && ev.Type != editor.EventRestored {
			workspaces.SaveAsync()
		}
	})

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(metrics.Middleware())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	s := &Server{
		instanceID: instanceID,
		router:     router,
		tree:       tree,
		editor:     ed,
		workspaces: workspaces,
		mirror:     mirror,
		hub:        hub,
		logger:     logger,
		config:     cfg,
		metrics:    metrics,
		cancel:     cancel,
		started:    time.Now(),
	}

	api.NewHandlers(tree, ed, workspaces).Register(router)
	router.GET("/stream", hub.HandleConnection)
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/info", s.info)

	logger.Info("server initialized")
	return s, nil
}

// seedTree builds the initial tree from a manifest file, a directory on
// disk, or the built-in starter layout. A manifest's root name wins
// over the configured one.
func seedTree(cfg *config.Config, logger *logging.Logger) (*vfs.Tree, error) {
	if cfg.Workspace.Manifest != "" {
		manifest, err := importer.LoadManifest(cfg.Workspace.Manifest)
		if err != nil {
			return nil, err
		}
		rootName := manifest.Root
		if rootName == "" {
			rootName = cfg.Workspace.Root
		}
		tree := vfs.New(rootName)
		if err := manifest.Apply(tree); err != nil {
			return nil, err
		}
		logger.Info("tree seeded from manifest",
			zap.String("manifest", cfg.Workspace.Manifest),
			zap.Int("entries", len(manifest.Entries)),
		)
		return tree, nil
	}

	tree := vfs.New(cfg.Workspace.Root)

	if cfg.Workspace.ImportDir != "" {
		count, err := importer.ImportDirectory(context.Background(), tree, tree.Root().Path, cfg.Workspace.ImportDir, importer.DiskOptions{})
		if err != nil {
			return nil, err
		}
		logger.Info("tree seeded from directory",
			zap.String("dir", cfg.Workspace.ImportDir),
			zap.Int("nodes", count),
		)
		return tree, nil
	}

	manifest, err := importer.ParseManifest([]byte(starterManifest))
	if err != nil {
		return nil, err
	}
	if err := manifest.Apply(tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func (s *Server) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"instance_id":    s.instanceID.String(),
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"tree":           s.tree.Stats(),
		"session":        s.editor.Stats(),
	})
}

// Run serves HTTP until Close is called
func (s *Server) Run() error {
	addr := s.config.Server.Addr()
	s.logger.Info("starting http server", zap.String("addr", addr))

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close drains in-flight requests, persists the session, and stops
// background workers
func (s *Server) Close() error {
	s.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Warn("http shutdown failed", zap.Error(err))
		}
	}

	if s.workspaces != nil {
		if _, err := s.workspaces.Save(ctx, workspace.DefaultName); err != nil {
			s.logger.Warn("final session save failed", zap.Error(err))
		}
	}

	s.cancel()
	return nil
}
