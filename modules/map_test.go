package modules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/dsg/errors"
)

func TestSetOverwrites(t *testing.T) {
	mm := New(nil)
	mm.Set(Module{Path: "a", Code: "x"})
	mm.Set(Module{Path: "a", Code: "y"})

	require.Equal(t, 1, mm.Len())
	m, ok := mm.Get("a")
	require.True(t, ok)
	assert.Equal(t, "y", m.Code)
}

func TestSetKeepsPosition(t *testing.T) {
	mm := New(nil)
	mm.Set(Module{Path: "a", Code: "1"})
	mm.Set(Module{Path: "b", Code: "2"})
	mm.Set(Module{Path: "a", Code: "3"})

	assert.Equal(t, []Module{{Path: "a", Code: "3"}, {Path: "b", Code: "2"}}, mm.Entries())
}

func TestMerge(t *testing.T) {
	mm := New(nil)
	mm.Set(Module{Path: "a", Code: "1"})
	mm.Set(Module{Path: "b", Code: "2"})

	other := New(nil)
	other.Set(Module{Path: "d", Code: "4"})
	other.Set(Module{Path: "b", Code: "22"})
	other.Set(Module{Path: "c", Code: "3"})

	mm.Merge(other)
	mm.Merge(nil)

	assert.Equal(t, []string{"a", "b", "d", "c"}, mm.Paths())
	b, _ := mm.Get("b")
	assert.Equal(t, "22", b.Code)

	// other is untouched
	assert.Equal(t, []string{"d", "b", "c"}, other.Paths())
}

func TestEntriesIsSnapshot(t *testing.T) {
	mm := New(nil)
	mm.Set(Module{Path: "a", Code: "1"})

	entries := mm.Entries()
	entries[0].Code = "changed"
	paths := mm.Paths()
	paths[0] = "z"

	m, _ := mm.Get("a")
	assert.Equal(t, "1", m.Code)
	assert.Equal(t, []string{"a"}, mm.Paths())

	// Restartable: a second call sees the same content
	assert.Equal(t, mm.Entries(), mm.Entries())
}

func TestGetMissing(t *testing.T) {
	_, ok := New(nil).Get("nope")
	assert.False(t, ok)
}

func TestOverwriteIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mm := New(zap.New(core).Sugar())

	mm.Set(Module{Path: "a", Code: "1"})
	mm.Set(Module{Path: "a", Code: "1"})
	assert.Equal(t, 0, logs.Len(), "identical rewrite is silent")

	mm.Set(Module{Path: "a", Code: "2"})
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "module overwritten", entry.Message)
	assert.Equal(t, "a", entry.ContextMap()["path"])
}

func TestFlush(t *testing.T) {
	dir := t.TempDir()
	mm := New(nil)
	mm.Set(Module{Path: "server/.env", Code: "A=1\n"})
	mm.Set(Module{Path: "server/internal/kafka/controller.go", Code: "package kafka\n"})

	n, err := mm.Flush(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(filepath.Join(dir, "server", "internal", "kafka", "controller.go"))
	require.NoError(t, err)
	assert.Equal(t, "package kafka\n", string(data))
}

func TestFlushRejectsEscapingPaths(t *testing.T) {
	for _, p := range []string{"../x", "/etc/passwd", "a/../../x", ""} {
		t.Run(p, func(t *testing.T) {
			dir := t.TempDir()
			mm := New(nil)
			mm.Set(Module{Path: "ok.txt", Code: "fine"})
			mm.Set(Module{Path: p, Code: "bad"})

			_, err := mm.Flush(dir)
			assert.True(t, errors.IsInvalidInputError(err))

			// Nothing was written
			_, statErr := os.Stat(filepath.Join(dir, "ok.txt"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	mm := New(nil)
	mm.Set(Module{Path: "same.go", Code: "package a\n"})
	mm.Set(Module{Path: "changed.go", Code: "package b\n"})
	mm.Set(Module{Path: "missing.go", Code: "package c\n"})

	_, err := mm.Flush(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changed.go"), []byte("package bb\n"), 0644))
	require.NoError(t, os.Remove(filepath.Join(dir, "missing.go")))

	diffs, err := mm.Diff(dir)
	require.NoError(t, err)
	assert.Equal(t, []Difference{
		{Path: "changed.go", Reason: "changed"},
		{Path: "missing.go", Reason: "missing"},
	}, diffs)
}

func TestDiffUpToDate(t *testing.T) {
	dir := t.TempDir()
	mm := New(nil)
	mm.Set(Module{Path: "x/y.go", Code: "package y\n"})
	_, err := mm.Flush(dir)
	require.NoError(t, err)

	diffs, err := mm.Diff(dir)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}
