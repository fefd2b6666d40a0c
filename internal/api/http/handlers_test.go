package http

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedeck/backend/internal/domain/editor"
	"github.com/codedeck/backend/internal/domain/vfs"
	"github.com/codedeck/backend/internal/domain/workspace"
	"github.com/codedeck/backend/internal/infrastructure/logging"
)

type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (s *memStore) Write(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = map[string][]byte{}
	}
	s.data[name] = append([]byte(nil), data...)
	return nil
}

func (s *memStore) Read(_ context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.data[name]
	if !ok {
		return nil, fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	return data, nil
}

func (s *memStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[name]; !ok {
		return fmt.Errorf("snapshot %q: %w", name, fs.ErrNotExist)
	}
	delete(s.data, name)
	return nil
}

func (s *memStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	return names, nil
}

type fixture struct {
	router *gin.Engine
	tree   *vfs.Tree
	editor *editor.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tree := vfs.New("proj")
	ed := editor.NewManager(tree, logging.NewNop())
	ws := workspace.NewManager(ed, &memStore{}, logging.NewNop())

	router := gin.New()
	NewHandlers(tree, ed, ws).Register(router)
	return &fixture{router: router, tree: tree, editor: ed}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (f *fixture) createNode(t *testing.T, parent, name, kind string) string {
	t.Helper()
	w, body := f.do(t, http.MethodPost, "/tree/nodes", gin.H{
		"parent_path": parent,
		"name":        name,
		"kind":        kind,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	node := body["node"].(map[string]interface{})
	return node["id"].(string)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w, body := f.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateAndGetNode(t *testing.T) {
	f := newFixture(t)
	nodeID := f.createNode(t, "/proj", "main.go", "file")

	w, body := f.do(t, http.MethodGet, "/tree/nodes/"+nodeID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	node := body["node"].(map[string]interface{})
	assert.Equal(t, "main.go", node["name"])
	assert.Equal(t, "/proj/main.go", node["path"])
}

func TestCreateErrors(t *testing.T) {
	f := newFixture(t)
	f.createNode(t, "/proj", "main.go", "file")

	w, _ := f.do(t, http.MethodPost, "/tree/nodes", gin.H{
		"parent_path": "/proj", "name": "main.go", "kind": "file",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = f.do(t, http.MethodPost, "/tree/nodes", gin.H{
		"parent_path": "/missing", "name": "x.go", "kind": "file",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/tree/nodes", gin.H{
		"parent_path": "/proj", "name": "x", "kind": "symlink",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenameRewritesDescendantPaths(t *testing.T) {
	f := newFixture(t)
	folderID := f.createNode(t, "/proj", "src", "folder")
	fileID := f.createNode(t, "/proj/src", "app.ts", "file")

	w, _ := f.do(t, http.MethodPut, "/tree/nodes/"+folderID+"/rename", gin.H{"name": "lib"})
	require.Equal(t, http.StatusOK, w.Code)

	_, body := f.do(t, http.MethodGet, "/tree/nodes/"+fileID, nil)
	node := body["node"].(map[string]interface{})
	assert.Equal(t, "/proj/lib/app.ts", node["path"])
}

func TestDeleteSubtree(t *testing.T) {
	f := newFixture(t)
	folderID := f.createNode(t, "/proj", "src", "folder")
	fileID := f.createNode(t, "/proj/src", "app.ts", "file")

	w, _ := f.do(t, http.MethodDelete, "/tree/nodes/"+folderID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/tree/nodes/"+fileID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(t, http.MethodDelete, "/tree/nodes/"+folderID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateContentOnFolderFails(t *testing.T) {
	f := newFixture(t)
	folderID := f.createNode(t, "/proj", "src", "folder")

	w, _ := f.do(t, http.MethodPut, "/tree/nodes/"+folderID+"/content", gin.H{"content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchGlob(t *testing.T) {
	f := newFixture(t)
	f.createNode(t, "/proj", "src", "folder")
	f.createNode(t, "/proj/src", "app.ts", "file")
	f.createNode(t, "/proj", "readme.md", "file")

	w, body := f.do(t, http.MethodGet, "/tree/search?glob="+"**/*.ts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["nodes"], 1)

	w, _ = f.do(t, http.MethodGet, "/tree/search?glob=[", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodGet, "/tree/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionFlow(t *testing.T) {
	f := newFixture(t)
	fileID := f.createNode(t, "/proj", "app.ts", "file")

	w, body := f.do(t, http.MethodPost, "/session/tabs", gin.H{"file_id": fileID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, fileID, body["active_tab_id"])
	assert.Len(t, body["tabs"], 1)

	w, _ = f.do(t, http.MethodPut, "/session/tabs/"+fileID+"/draft", gin.H{"content": "let x = 1"})
	require.Equal(t, http.StatusOK, w.Code)

	_, body = f.do(t, http.MethodGet, "/session/tabs/"+fileID+"/draft", nil)
	assert.Equal(t, "let x = 1", body["content"])
	assert.Equal(t, true, body["modified"])

	w, _ = f.do(t, http.MethodPost, "/session/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	node, ok := f.tree.Find(f.editor.Tabs()[0].ID)
	require.True(t, ok)
	assert.Equal(t, "let x = 1", node.Content)

	w, body = f.do(t, http.MethodPost, "/session/undo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tabs := body["tabs"].([]interface{})
	first := tabs[0].(map[string]interface{})
	assert.Equal(t, "", first["draft"])
}

func TestCloseAndUndoClose(t *testing.T) {
	f := newFixture(t)
	fileID := f.createNode(t, "/proj", "app.ts", "file")

	f.do(t, http.MethodPost, "/session/tabs", gin.H{"file_id": fileID})
	f.do(t, http.MethodPut, "/session/tabs/"+fileID+"/draft", gin.H{"content": "draft"})

	_, body := f.do(t, http.MethodDelete, "/session/tabs/"+fileID, nil)
	assert.Len(t, body["tabs"], 0)

	_, body = f.do(t, http.MethodPost, "/session/undo", nil)
	tabs := body["tabs"].([]interface{})
	require.Len(t, tabs, 1)
	first := tabs[0].(map[string]interface{})
	assert.Equal(t, "draft", first["draft"])
}

func TestDraftOfUnknownTab(t *testing.T) {
	f := newFixture(t)
	w, _ := f.do(t, http.MethodGet, "/session/tabs/node_00000000000000000000000000/draft", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspaceLifecycle(t *testing.T) {
	f := newFixture(t)
	fileID := f.createNode(t, "/proj", "app.ts", "file")
	f.do(t, http.MethodPost, "/session/tabs", gin.H{"file_id": fileID})
	f.do(t, http.MethodPut, "/session/tabs/"+fileID+"/draft", gin.H{"content": "draft"})

	w, body := f.do(t, http.MethodPost, "/workspaces/dev", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	ws := body["workspace"].(map[string]interface{})
	assert.Equal(t, "dev", ws["name"])

	_, body = f.do(t, http.MethodGet, "/workspaces", nil)
	assert.Len(t, body["workspaces"], 1)

	f.do(t, http.MethodDelete, "/session/tabs/"+fileID, nil)

	w, body = f.do(t, http.MethodPost, "/workspaces/dev/restore", nil)
	require.Equal(t, http.StatusOK, w.Code)
	tabs := body["tabs"].([]interface{})
	require.Len(t, tabs, 1)
	first := tabs[0].(map[string]interface{})
	assert.Equal(t, "draft", first["draft"])

	w, _ = f.do(t, http.MethodDelete, "/workspaces/dev", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.do(t, http.MethodGet, "/workspaces/dev", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspacesDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tree := vfs.New("proj")
	ed := editor.NewManager(tree, logging.NewNop())

	router := gin.New()
	NewHandlers(tree, ed, nil).Register(router)

	req := httptest.NewRequest(http.MethodGet, "/workspaces", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetTreeFlattensParentsFirst(t *testing.T) {
	f := newFixture(t)
	f.createNode(t, "/proj", "src", "folder")
	f.createNode(t, "/proj/src", "app.ts", "file")

	_, body := f.do(t, http.MethodGet, "/tree", nil)
	nodes := body["nodes"].([]interface{})
	require.Len(t, nodes, 3)

	paths := make([]string, 0, len(nodes))
	for _, raw := range nodes {
		paths = append(paths, raw.(map[string]interface{})["path"].(string))
	}
	assert.True(t, strings.HasPrefix(paths[1], paths[0]))
	assert.Equal(t, []string{"/proj", "/proj/src", "/proj/src/app.ts"}, paths)
}
