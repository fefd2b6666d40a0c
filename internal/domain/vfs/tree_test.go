package vfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codedeck/backend/internal/shared/id"
)

func newProjectTree(t *testing.T) *Tree {
	t.Helper()
	return New("proj")
}

func TestCreate(t *testing.T) {
	tree := newProjectTree(t)

	srcID, err := tree.Create("/proj", "src", KindFolder)
	require.NoError(t, err)

	fileID, err := tree.Create("/proj/src", "app.ts", KindFile)
	require.NoError(t, err)

	src, ok := tree.Find(srcID)
	require.True(t, ok)
	assert.Equal(t, "/proj/src", src.Path)
	assert.True(t, src.IsExpanded, "creating a child should expand the parent")

	file, ok := tree.Find(fileID)
	require.True(t, ok)
	assert.Equal(t, "/proj/src/app.ts", file.Path)
	assert.Equal(t, KindFile, file.Kind)
}

func TestCreateInvalidParent(t *testing.T) {
	tree := newProjectTree(t)

	_, err := tree.Create("/proj/missing", "a.ts", KindFile)
	assert.ErrorIs(t, err, ErrInvalidParent)

	_, err = tree.Create("/proj", "a.ts", KindFile)
	require.NoError(t, err)

	// A file cannot be a parent.
	_, err = tree.Create("/proj/a.ts", "b.ts", KindFile)
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestCreateDuplicateName(t *testing.T) {
	tree := newProjectTree(t)

	_, err := tree.Create("/proj", "src", KindFolder)
	require.NoError(t, err)

	_, err = tree.Create("/proj", "src", KindFile)
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Same name under a different parent is fine.
	_, err = tree.Create("/proj/src", "src", KindFolder)
	assert.NoError(t, err)
}

func TestCreateInvalidName(t *testing.T) {
	tree := newProjectTree(t)

	_, err := tree.Create("/proj", "", KindFile)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = tree.Create("/proj", "a/b", KindFile)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRenameCascade(t *testing.T) {
	tree := newProjectTree(t)

	srcID, err := tree.Create("/proj", "src", KindFolder)
	require.NoError(t, err)
	_, err = tree.Create("/proj/src", "utils", KindFolder)
	require.NoError(t, err)
	appID, err := tree.Create("/proj/src", "app.ts", KindFile)
	require.NoError(t, err)
	deepID, err := tree.Create("/proj/src/utils", "fmt.ts", KindFile)
	require.NoError(t, err)

	require.NoError(t, tree.Rename(srcID, "lib"))

	app, _ := tree.Find(appID)
	assert.Equal(t, "/proj/lib/app.ts", app.Path)

	deep, _ := tree.Find(deepID)
	assert.Equal(t, "/proj/lib/utils/fmt.ts", deep.Path)

	// Old paths no longer resolve, new ones do.
	_, ok := tree.FindByPath("/proj/src")
	assert.False(t, ok)
	_, ok = tree.FindByPath("/proj/lib/utils/fmt.ts")
	assert.True(t, ok)
}

func TestRenameRoot(t *testing.T) {
	tree := newProjectTree(t)
	fileID, err := tree.Create("/proj", "main.go", KindFile)
	require.NoError(t, err)

	require.NoError(t, tree.Rename(tree.RootID(), "mono"))

	file, _ := tree.Find(fileID)
	assert.Equal(t, "/mono/main.go", file.Path)
}

func TestRenameErrors(t *testing.T) {
	tree := newProjectTree(t)

	err := tree.Rename("node_missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)

	aID, err := tree.Create("/proj", "a.ts", KindFile)
	require.NoError(t, err)
	_, err = tree.Create("/proj", "b.ts", KindFile)
	require.NoError(t, err)

	err = tree.Rename(aID, "b.ts")
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Renaming to its own name is not a collision.
	assert.NoError(t, tree.Rename(aID, "a.ts"))
}

func TestPathConsistency(t *testing.T) {
	tree := newProjectTree(t)

	srcID, _ := tree.Create("/proj", "src", KindFolder)
	tree.Create("/proj/src", "a.ts", KindFile)
	tree.Create("/proj/src", "deep", KindFolder)
	tree.Create("/proj/src/deep", "b.ts", KindFile)
	require.NoError(t, tree.Rename(srcID, "source"))
	tree.Create("/proj/source", "c.ts", KindFile)

	for _, n := range tree.Flatten() {
		if n.ID == tree.RootID() {
			assert.Equal(t, "/"+n.Name, n.Path)
			continue
		}
		parent, ok := tree.Find(n.ParentID)
		require.True(t, ok, "node %s has dangling parent", n.Path)
		assert.Equal(t, parent.Path+"/"+n.Name, n.Path)
	}
}

func TestDeleteSubtree(t *testing.T) {
	tree := newProjectTree(t)

	srcID, _ := tree.Create("/proj", "src", KindFolder)
	f1, _ := tree.Create("/proj/src", "a.ts", KindFile)
	f2, _ := tree.Create("/proj/src", "b.ts", KindFile)
	f3, _ := tree.Create("/proj/src", "c.ts", KindFile)
	keep, _ := tree.Create("/proj", "README.md", KindFile)

	require.NoError(t, tree.Delete(srcID))

	for _, gone := range []id.NodeID{srcID, f1, f2, f3} {
		_, found := tree.Find(gone)
		assert.False(t, found, "%s should be gone", gone)
	}

	flat := tree.Flatten()
	assert.Len(t, flat, 2) // root + README.md
	_, ok := tree.Find(keep)
	assert.True(t, ok)

	err := tree.Delete(srcID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteRoot(t *testing.T) {
	tree := newProjectTree(t)
	err := tree.Delete(tree.RootID())
	assert.ErrorIs(t, err, ErrInvalidParent)
}

func TestUpdateContent(t *testing.T) {
	tree := newProjectTree(t)

	fileID, _ := tree.Create("/proj", "a.ts", KindFile)
	folderID, _ := tree.Create("/proj", "src", KindFolder)

	require.NoError(t, tree.UpdateContent(fileID, "export {}"))
	file, _ := tree.Find(fileID)
	assert.Equal(t, "export {}", file.Content)

	assert.ErrorIs(t, tree.UpdateContent(folderID, "x"), ErrNotAFile)
	assert.ErrorIs(t, tree.UpdateContent("node_missing", "x"), ErrNotFound)
}

func TestToggleFolderExpansion(t *testing.T) {
	tree := newProjectTree(t)

	folderID, _ := tree.Create("/proj", "src", KindFolder)
	fileID, _ := tree.Create("/proj", "a.ts", KindFile)

	folder, _ := tree.Find(folderID)
	initial := folder.IsExpanded

	require.NoError(t, tree.ToggleFolderExpansion(folderID))
	folder, _ = tree.Find(folderID)
	assert.Equal(t, !initial, folder.IsExpanded)

	// Toggling twice returns to the original value.
	require.NoError(t, tree.ToggleFolderExpansion(folderID))
	folder, _ = tree.Find(folderID)
	assert.Equal(t, initial, folder.IsExpanded)

	// No-op on files, not an error.
	assert.NoError(t, tree.ToggleFolderExpansion(fileID))
}

func TestChildrenOf(t *testing.T) {
	tree := newProjectTree(t)

	tree.Create("/proj", "src", KindFolder)
	tree.Create("/proj", "a.ts", KindFile)
	tree.Create("/proj", "b.ts", KindFile)

	children := tree.ChildrenOf("/proj")
	require.Len(t, children, 3)
	// Insertion order is display order.
	assert.Equal(t, "src", children[0].Name)
	assert.Equal(t, "a.ts", children[1].Name)
	assert.Equal(t, "b.ts", children[2].Name)

	assert.Empty(t, tree.ChildrenOf("/proj/src"))
	assert.Empty(t, tree.ChildrenOf("/proj/missing"))
	assert.Empty(t, tree.ChildrenOf("/proj/a.ts"))
}

func TestFlattenOrder(t *testing.T) {
	tree := newProjectTree(t)

	tree.Create("/proj", "src", KindFolder)
	tree.Create("/proj/src", "a.ts", KindFile)
	tree.Create("/proj", "z.md", KindFile)

	var paths []string
	for _, n := range tree.Flatten() {
		paths = append(paths, n.Path)
	}
	assert.Equal(t, []string{"/proj", "/proj/src", "/proj/src/a.ts", "/proj/z.md"}, paths)
}

func TestEvents(t *testing.T) {
	tree := newProjectTree(t)

	var events []Event
	tree.Subscribe(func(ev Event) { events = append(events, ev) })

	srcID, _ := tree.Create("/proj", "src", KindFolder)
	require.NoError(t, tree.Rename(srcID, "lib"))
	require.NoError(t, tree.Delete(srcID))

	require.Len(t, events, 3)
	assert.Equal(t, EventCreated, events[0].Type)
	assert.Equal(t, EventRenamed, events[1].Type)
	assert.Equal(t, "/proj/src", events[1].OldPath)
	assert.Equal(t, "/proj/lib", events[1].Path)
	assert.Equal(t, EventDeleted, events[2].Type)
}

func TestStats(t *testing.T) {
	tree := newProjectTree(t)
	tree.Create("/proj", "src", KindFolder)
	tree.Create("/proj/src", "a.ts", KindFile)

	s := tree.Stats()
	assert.Equal(t, Stats{TotalNodes: 3, Files: 1, Folders: 2}, s)
}

func TestWrappedErrorsMatch(t *testing.T) {
	tree := newProjectTree(t)

	_, err := tree.Create("/nowhere", "a.ts", KindFile)
	assert.True(t, errors.Is(err, ErrInvalidParent))
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "/nowhere")
}
