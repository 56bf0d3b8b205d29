package store

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()
	assert.Equal(t, "todo.db", filepath.Base(path))

	if runtime.GOOS != "linux" {
		t.Skip("XDG layout only applies on linux")
	}

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_DATA_HOME", dir)
		assert.Equal(t, filepath.Join(dir, "todo", "todo.db"), DefaultPath())
	})

	t.Run("relative xdg is ignored", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_DATA_HOME", "relative/dir")
		assert.Equal(t, filepath.Join(home, ".local", "share", "todo", "todo.db"), DefaultPath())
	})
}
