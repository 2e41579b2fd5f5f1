package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSource_Load(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.md", "second")
	writeFile(t, root, "a.md", "first")
	writeFile(t, root, "projects/Plan.MD", "nested")
	writeFile(t, root, "notes.txt", "ignored")
	writeFile(t, root, ".obsidian/workspace.md", "hidden dir")
	writeFile(t, root, ".draft.md", "hidden file")

	src := NewSource(root, []string{".md"}, nil)
	docs, fileErrs, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fileErrs)

	require.Len(t, docs, 3)
	assert.Equal(t, "a.md", docs[0].SourceID)
	assert.Equal(t, "a", docs[0].SourceLabel)
	assert.Equal(t, "first", docs[0].Text)
	assert.Equal(t, "b.md", docs[1].SourceID)
	assert.Equal(t, "projects/Plan.MD", docs[2].SourceID)
	assert.Equal(t, "Plan", docs[2].SourceLabel)
}

func TestSource_ExtensionsNormalized(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "todo.txt", "x")
	writeFile(t, root, "todo.md", "y")

	src := NewSource(root, []string{"TXT", " "}, nil)
	assert.True(t, src.Matches("other/todo.txt"))
	assert.False(t, src.Matches("todo.md"))

	docs, _, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "todo.txt", docs[0].SourceID)
}

func TestSource_LoadErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		src := NewSource(filepath.Join(t.TempDir(), "missing"), []string{".md"}, nil)
		_, _, err := src.Load(context.Background())
		assert.ErrorContains(t, err, "reading vault root")
	})

	t.Run("root is a file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "file.md", "x")
		src := NewSource(path, []string{".md"}, nil)
		_, _, err := src.Load(context.Background())
		assert.ErrorContains(t, err, "not a directory")
	})

	t.Run("cancelled", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "a.md", "x")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := NewSource(root, []string{".md"}, nil).Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSourceLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"notes/today.md", "today"},
		{"today", "today"},
		{"archive/2024.03.md", "2024.03"},
		{"/abs/path/Weekly Review.md", "Weekly Review"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceLabel(tt.path))
		})
	}
}
